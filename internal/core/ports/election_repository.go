package ports

import (
	"context"

	"github.com/civicvote/voting-api/internal/core/domain"
)

// ElectionRepository defines persistence for elections and candidates.
type ElectionRepository interface {
	CreateElection(ctx context.Context, name string) (*domain.Election, error)
	// AddCandidate inserts the candidate and appends it to the election's list
	// in one transaction. Returns domain.ErrElectionNotFound if absent.
	AddCandidate(ctx context.Context, electionID, name string) (*domain.Candidate, error)
	// CloseElection sets is_active=false and returns the updated record.
	CloseElection(ctx context.Context, electionID string) (*domain.Election, error)
	FindElection(ctx context.Context, id string) (*domain.Election, error)
	FindCandidate(ctx context.Context, id string) (*domain.Candidate, error)
	// ListWithCandidates returns every election in insertion order with its
	// candidates resolved in list order.
	ListWithCandidates(ctx context.Context) ([]domain.ElectionView, error)
}

// VoteRepository records ballots.
type VoteRepository interface {
	// RecordVote atomically re-checks that the election is active, appends the
	// election to the account and increments the candidate. Nothing is written
	// when a condition fails: returns domain.ErrAlreadyVoted or
	// domain.ErrElectionClosed.
	RecordVote(ctx context.Context, ballot domain.Ballot) error
}

// AuditRepository persists vote audit events.
type AuditRepository interface {
	InsertVoteEvent(ctx context.Context, event *domain.VoteEvent) error
}
