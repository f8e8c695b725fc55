package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/civicvote/voting-api/internal/core/domain"
	"github.com/civicvote/voting-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error)
	loginFn    func(ctx context.Context, nationalID, secret string) (*ports.LoginResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, nationalID, secret string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, nationalID, secret)
}

type stubElectionService struct {
	views     []domain.ElectionView
	err       error
	created   string
	added     [2]string
	ended     string
	candidate *domain.Candidate
	election  *domain.Election
}

func (s *stubElectionService) CreateElection(_ context.Context, name string) (*domain.Election, error) {
	s.created = name
	return s.election, s.err
}

func (s *stubElectionService) AddCandidate(_ context.Context, electionID, name string) (*domain.Candidate, error) {
	s.added = [2]string{electionID, name}
	return s.candidate, s.err
}

func (s *stubElectionService) EndElection(_ context.Context, electionID string) (*domain.Election, error) {
	s.ended = electionID
	return s.election, s.err
}

func (s *stubElectionService) ListElections(context.Context) ([]domain.ElectionView, error) {
	return s.views, s.err
}

func (s *stubElectionService) Results(context.Context) ([]domain.ElectionView, error) {
	return s.views, s.err
}

type stubVotingService struct {
	ballot domain.Ballot
	err    error
	calls  int
}

func (s *stubVotingService) CastVote(_ context.Context, b domain.Ballot) error {
	s.calls++
	s.ballot = b
	return s.err
}

// newContext builds an echo context with the production validator.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func expectStatus(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected echo.HTTPError %d, got %v", code, err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d (%v)", code, he.Code, he.Message)
	}
}


