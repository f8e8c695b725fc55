package ports

import (
	"context"

	"github.com/civicvote/voting-api/internal/core/domain"
)

// VotingService casts ballots.
type VotingService interface {
	CastVote(ctx context.Context, ballot domain.Ballot) error
}

// ElectionService covers the admin workflow and the read views.
type ElectionService interface {
	CreateElection(ctx context.Context, name string) (*domain.Election, error)
	AddCandidate(ctx context.Context, electionID, name string) (*domain.Candidate, error)
	EndElection(ctx context.Context, electionID string) (*domain.Election, error)
	ListElections(ctx context.Context) ([]domain.ElectionView, error)
	Results(ctx context.Context) ([]domain.ElectionView, error)
}
