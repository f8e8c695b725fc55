package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicvote/voting-api/internal/core/domain"
	"github.com/civicvote/voting-api/internal/core/ports"
	"github.com/civicvote/voting-api/internal/infrastructure/security"
)

type fakeAuth struct{ tokens ports.TokenIssuer }

func (f fakeAuth) Register(_ context.Context, in ports.RegisterInput) (*domain.Account, error) {
	if in.NationalID == "000000000000" {
		return nil, domain.ErrIdentityNotFound
	}
	if in.Role == string(domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	return &domain.Account{ID: "acc-1", Role: domain.RoleUser}, nil
}

func (f fakeAuth) Login(_ context.Context, nationalID, _ string) (*ports.LoginResult, error) {
	tok, exp, err := f.tokens.Issue(domain.Principal{AccountID: "acc-1", Role: domain.RoleUser})
	if err != nil {
		return nil, err
	}
	return &ports.LoginResult{Token: tok, ExpiresAt: exp, AccountID: "acc-1", Role: domain.RoleUser}, nil
}

type fakeElections struct{ created []string }

func (f *fakeElections) CreateElection(_ context.Context, name string) (*domain.Election, error) {
	f.created = append(f.created, name)
	return &domain.Election{ID: "e1", Name: name, IsActive: true}, nil
}

func (f *fakeElections) AddCandidate(_ context.Context, electionID, name string) (*domain.Candidate, error) {
	return &domain.Candidate{ID: "c1", ElectionID: electionID, Name: name}, nil
}

func (f *fakeElections) EndElection(_ context.Context, id string) (*domain.Election, error) {
	if id != "e1" {
		return nil, domain.ErrElectionNotFound
	}
	return &domain.Election{ID: id, Name: "Council2025"}, nil
}

func (f *fakeElections) ListElections(context.Context) ([]domain.ElectionView, error) {
	return []domain.ElectionView{{Election: domain.Election{ID: "e1", Name: "Council2025", IsActive: true}}}, nil
}

func (f *fakeElections) Results(ctx context.Context) ([]domain.ElectionView, error) {
	return f.ListElections(ctx)
}

type fakeVotes struct{ voted map[string]bool }

func (f *fakeVotes) CastVote(_ context.Context, b domain.Ballot) error {
	key := b.AccountID + "/" + b.ElectionID
	if f.voted[key] {
		return domain.ErrAlreadyVoted
	}
	f.voted[key] = true
	return nil
}

type routerFixture struct {
	t         *testing.T
	tokens    *security.JWTIssuer
	elections *fakeElections
	handler   http.Handler
}

func newRouterFixture(t *testing.T) *routerFixture {
	tokens := security.NewJWTIssuer("test-secret", time.Hour)
	elections := &fakeElections{}
	e := NewRouter(Deps{
		Log:       zerolog.Nop(),
		Auth:      fakeAuth{tokens: tokens},
		Elections: elections,
		Votes:     &fakeVotes{voted: map[string]bool{}},
		Tokens:    tokens,
		Registry:  prometheus.NewRegistry(),
	})
	return &routerFixture{t: t, tokens: tokens, elections: elections, handler: e}
}

func (f *routerFixture) token(role domain.Role) string {
	tok, _, err := f.tokens.Issue(domain.Principal{AccountID: "acc-" + string(role), Role: role})
	require.NoError(f.t, err)
	return tok
}

func (f *routerFixture) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Error
}

func TestRouter_RegisterLoginVote(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodPost, "/api/register", `{"nationalId":"123456789012","secret":"pw"}`, "")
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(http.MethodPost, "/api/register", `{"nationalId":"000000000000","secret":"pw"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorOf(t, rec), "not found")

	rec = f.do(http.MethodPost, "/api/login", `{"nationalId":"123456789012","secret":"pw"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	rec = f.do(http.MethodPost, "/api/election/vote", `{"electionId":"e1","candidateId":"c1"}`, login.Token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPost, "/api/election/vote", `{"electionId":"e1","candidateId":"c1"}`, login.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, domain.ErrAlreadyVoted.Error(), errorOf(t, rec))
}

// Admin self-registration is off by default (ALLOW_ADMIN_REGISTRATION) and
// answers 403 rather than one of the 400s register otherwise returns.
func TestRouter_RegisterAdminForbidden(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodPost, "/api/register", `{"nationalId":"123456789012","secret":"pw","role":"admin"}`, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, domain.ErrForbidden.Error(), errorOf(t, rec))
}

func TestRouter_TokenRequired(t *testing.T) {
	f := newRouterFixture(t)

	for _, path := range []string{"/api/elections", "/api/results"} {
		rec := f.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusForbidden, rec.Code, path)

		rec = f.do(http.MethodGet, path, "", "garbage")
		assert.Equal(t, http.StatusForbidden, rec.Code, path)

		rec = f.do(http.MethodGet, path, "", f.token(domain.RoleUser))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouter_ExpiredTokenRejected(t *testing.T) {
	f := newRouterFixture(t)
	past := time.Now().Add(-2 * time.Hour)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, security.Claims{
		Role: "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "acc-1",
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	rec := f.do(http.MethodGet, "/api/elections", "", tok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_AdminRoutes(t *testing.T) {
	f := newRouterFixture(t)
	user, admin := f.token(domain.RoleUser), f.token(domain.RoleAdmin)

	rec := f.do(http.MethodPost, "/api/election", `{"name":"Council2025"}`, user)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, f.elections.created)

	rec = f.do(http.MethodPost, "/api/election", `{"name":"Council2025"}`, admin)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"Council2025"}, f.elections.created)

	rec = f.do(http.MethodPost, "/api/election", `{}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorOf(t, rec), "name is required")

	rec = f.do(http.MethodPost, "/api/election/candidate", `{"electionId":"e1","name":"Alice"}`, admin)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(http.MethodPut, "/api/election/e1/end", "", admin)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPut, "/api/election/e9/end", "", admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodPut, "/api/election/e1/end", "", user)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_AmbientRoutes(t *testing.T) {
	f := newRouterFixture(t)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/", "", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health/ready", "", "").Code)

	rec := f.do(http.MethodGet, "/health", "", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	f.do(http.MethodGet, "/api/elections", "", f.token(domain.RoleUser))
	rec = f.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "voting_http_requests_total")

	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "https://ballot.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
