package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/civicvote/voting-api/internal/api/metrics"
	"github.com/civicvote/voting-api/internal/core/domain"
	"github.com/civicvote/voting-api/internal/core/ports"
)

type ElectionService struct {
	repo   ports.ElectionRepository
	logger zerolog.Logger
}

func NewElectionService(repo ports.ElectionRepository, logger zerolog.Logger) *ElectionService {
	return &ElectionService{repo: repo, logger: logger}
}

// CreateElection opens a new, empty election.
func (s *ElectionService) CreateElection(ctx context.Context, name string) (*domain.Election, error) {
	name, err := domain.NormalizeName("election", name)
	if err != nil {
		return nil, err
	}

	election, err := s.repo.CreateElection(ctx, name)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create election")
		return nil, fmt.Errorf("create election: %w", err)
	}

	metrics.ElectionsCreatedTotal.Inc()
	s.logger.Info().Str("election_id", election.ID).Str("name", election.Name).Msg("election created")
	return election, nil
}

// AddCandidate attaches a zero-vote candidate to an existing election.
func (s *ElectionService) AddCandidate(ctx context.Context, electionID, name string) (*domain.Candidate, error) {
	if electionID == "" {
		return nil, domain.Invalid("electionId is required")
	}
	name, err := domain.NormalizeName("candidate", name)
	if err != nil {
		return nil, err
	}

	candidate, err := s.repo.AddCandidate(ctx, electionID, name)
	if err != nil {
		return nil, fmt.Errorf("add candidate: %w", err)
	}

	metrics.CandidatesAddedTotal.Inc()
	s.logger.Info().Str("election_id", electionID).Str("candidate_id", candidate.ID).Msg("candidate added")
	return candidate, nil
}

// EndElection closes voting. Closing an already closed election returns it unchanged.
func (s *ElectionService) EndElection(ctx context.Context, electionID string) (*domain.Election, error) {
	if electionID == "" {
		return nil, domain.Invalid("election id is required")
	}

	election, err := s.repo.CloseElection(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("end election: %w", err)
	}

	metrics.ElectionsClosedTotal.Inc()
	s.logger.Info().Str("election_id", electionID).Msg("election closed")
	return election, nil
}

func (s *ElectionService) ListElections(ctx context.Context) ([]domain.ElectionView, error) {
	views, err := s.repo.ListWithCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list elections: %w", err)
	}
	return views, nil
}

// Results is the same resolved listing; callers derive totals and leaders
// from the candidate counts.
func (s *ElectionService) Results(ctx context.Context) ([]domain.ElectionView, error) {
	views, err := s.repo.ListWithCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("results: %w", err)
	}
	return views, nil
}
