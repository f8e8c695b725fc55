package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicvote/voting-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory store mirroring the Mongo repositories, including the
// conditional filters RecordVote relies on.
// ---------------------------------------------------------------------------

type memStore struct {
	mu         sync.Mutex
	seq        int
	identities map[string]*domain.Identity // by national id
	accounts   map[string]*domain.Account
	elections  map[string]*domain.Election
	order      []string
	candidates map[string]*domain.Candidate
	events     []domain.VoteEvent

	findErr   error // if set, FindByID on accounts returns it
	recordErr error // if set, RecordVote returns it
	auditErr  error
	onRecord  func() // runs at the start of RecordVote
}

func newMemStore() *memStore {
	return &memStore{
		identities: make(map[string]*domain.Identity),
		accounts:   make(map[string]*domain.Account),
		elections:  make(map[string]*domain.Election),
		candidates: make(map[string]*domain.Candidate),
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) seedIdentity(nationalID string, valid bool) *domain.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := &domain.Identity{ID: m.nextID("idn"), NationalIDNumber: nationalID, IsValid: valid}
	m.identities[nationalID] = id
	return id
}

func (m *memStore) seedAccount(role domain.Role) *domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := &domain.Account{ID: m.nextID("acc"), IdentityID: m.nextID("idn"), Role: role}
	m.accounts[a.ID] = a
	return a
}

// IdentityRepository

func (m *memStore) FindByNationalID(_ context.Context, nationalID string) (*domain.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.identities[nationalID]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	clone := *id
	return &clone, nil
}

// AccountRepository

func (m *memStore) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.IdentityID == a.IdentityID {
			return nil, domain.ErrAccountExists
		}
	}
	clone := *a
	clone.ID = m.nextID("acc")
	m.accounts[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (m *memStore) FindByIdentity(_ context.Context, identityID string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.IdentityID == identityID {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *memStore) FindByID(_ context.Context, id string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	a, ok := m.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func cloneAccount(a *domain.Account) *domain.Account {
	clone := *a
	clone.VotedElections = append([]string(nil), a.VotedElections...)
	return &clone
}

// ElectionRepository

func (m *memStore) CreateElection(_ context.Context, name string) (*domain.Election, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := &domain.Election{ID: m.nextID("el"), Name: name, IsActive: true, CandidateIDs: []string{}, CreatedAt: time.Now()}
	m.elections[e.ID] = e
	m.order = append(m.order, e.ID)
	clone := *e
	return &clone, nil
}

func (m *memStore) AddCandidate(_ context.Context, electionID, name string) (*domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.elections[electionID]
	if !ok {
		return nil, domain.ErrElectionNotFound
	}
	c := &domain.Candidate{ID: m.nextID("cand"), ElectionID: electionID, Name: name, VotedBy: []string{}}
	m.candidates[c.ID] = c
	e.CandidateIDs = append(e.CandidateIDs, c.ID)
	clone := *c
	return &clone, nil
}

func (m *memStore) CloseElection(_ context.Context, electionID string) (*domain.Election, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.elections[electionID]
	if !ok {
		return nil, domain.ErrElectionNotFound
	}
	e.IsActive = false
	clone := *e
	return &clone, nil
}

func (m *memStore) FindElection(_ context.Context, id string) (*domain.Election, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.elections[id]
	if !ok {
		return nil, domain.ErrElectionNotFound
	}
	clone := *e
	return &clone, nil
}

func (m *memStore) FindCandidate(_ context.Context, id string) (*domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[id]
	if !ok {
		return nil, domain.ErrCandidateNotFound
	}
	clone := *c
	clone.VotedBy = append([]string(nil), c.VotedBy...)
	return &clone, nil
}

func (m *memStore) ListWithCandidates(_ context.Context) ([]domain.ElectionView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	views := make([]domain.ElectionView, 0, len(m.order))
	for _, id := range m.order {
		e := m.elections[id]
		view := domain.ElectionView{Election: *e}
		for _, cid := range e.CandidateIDs {
			view.Candidates = append(view.Candidates, *m.candidates[cid])
		}
		views = append(views, view)
	}
	return views, nil
}

// VoteRepository: the whole check-and-write runs under one lock, the
// in-memory equivalent of the Mongo transaction.

func (m *memStore) RecordVote(_ context.Context, b domain.Ballot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.onRecord != nil {
		m.onRecord()
	}
	if m.recordErr != nil {
		return m.recordErr
	}
	e, ok := m.elections[b.ElectionID]
	if !ok || !e.IsActive {
		return domain.ErrElectionClosed
	}
	a, ok := m.accounts[b.AccountID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if a.HasVotedIn(b.ElectionID) {
		return domain.ErrAlreadyVoted
	}
	c, ok := m.candidates[b.CandidateID]
	if !ok || c.ElectionID != b.ElectionID {
		return domain.ErrCandidateNotFound
	}
	for _, v := range c.VotedBy {
		if v == b.AccountID {
			return domain.ErrAlreadyVoted
		}
	}
	a.VotedElections = append(a.VotedElections, b.ElectionID)
	c.VoteCount++
	c.VotedBy = append(c.VotedBy, b.AccountID)
	return nil
}

// AuditRepository

func (m *memStore) InsertVoteEvent(_ context.Context, e *domain.VoteEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.auditErr != nil {
		return m.auditErr
	}
	m.events = append(m.events, *e)
	return nil
}

// ---------------------------------------------------------------------------
// Security stubs
// ---------------------------------------------------------------------------

type plainHasher struct{}

func (plainHasher) Hash(secret string) (string, error) { return "hashed:" + secret, nil }

func (plainHasher) Compare(hash, secret string) error {
	if hash != "hashed:"+secret {
		return domain.ErrInvalidCredentials
	}
	return nil
}

type stubTokens struct {
	issued []domain.Principal
}

func (s *stubTokens) Issue(p domain.Principal) (string, time.Time, error) {
	s.issued = append(s.issued, p)
	return "token-" + p.AccountID, time.Now().Add(time.Hour), nil
}

func (s *stubTokens) Verify(token string) (domain.Principal, error) {
	id, ok := strings.CutPrefix(token, "token-")
	if !ok {
		return domain.Principal{}, domain.ErrInvalidToken
	}
	return domain.Principal{AccountID: id, Role: domain.RoleUser}, nil
}

// ---------------------------------------------------------------------------
// Guard stubs
// ---------------------------------------------------------------------------

type stubLimiter struct {
	failures map[string]int
	max      int
	err      error
}

func newStubLimiter(max int) *stubLimiter {
	return &stubLimiter{failures: make(map[string]int), max: max}
}

func (l *stubLimiter) Locked(_ context.Context, id string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	return l.failures[id] >= l.max, nil
}

func (l *stubLimiter) RecordFailure(_ context.Context, id string) error {
	l.failures[id]++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, id string) error {
	delete(l.failures, id)
	return nil
}

type stubLock struct {
	mu   sync.Mutex
	seq  int
	held map[string]string // key -> holder token
	err  error
}

func newStubLock() *stubLock { return &stubLock{held: make(map[string]string)} }

func (l *stubLock) Acquire(_ context.Context, accountID, electionID string, _ time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return "", false, l.err
	}
	key := accountID + ":" + electionID
	if _, ok := l.held[key]; ok {
		return "", false, nil
	}
	l.seq++
	token := fmt.Sprintf("tok-%d", l.seq)
	l.held[key] = token
	return token, true, nil
}

func (l *stubLock) Release(_ context.Context, accountID, electionID, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := accountID + ":" + electionID
	if l.held[key] == token {
		delete(l.held, key)
	}
	return nil
}

var discardLogger = zerolog.Nop()
