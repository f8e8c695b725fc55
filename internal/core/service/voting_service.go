package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicvote/voting-api/internal/api/metrics"
	"github.com/civicvote/voting-api/internal/core/domain"
	"github.com/civicvote/voting-api/internal/core/ports"
	"github.com/civicvote/voting-api/internal/pkg/requestctx"
)

const defaultVoteLockTTL = 10 * time.Second

type votingService struct {
	accounts  ports.AccountRepository
	elections ports.ElectionRepository
	votes     ports.VoteRepository
	audit     ports.AuditRepository
	lock      ports.VoteLock
	lockTTL   time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

// NewVotingService returns a VotingService. audit and lock may be nil.
func NewVotingService(
	accounts ports.AccountRepository,
	elections ports.ElectionRepository,
	votes ports.VoteRepository,
	audit ports.AuditRepository,
	lock ports.VoteLock,
	lockTTL time.Duration,
	log zerolog.Logger,
) ports.VotingService {
	if lockTTL <= 0 {
		lockTTL = defaultVoteLockTTL
	}
	return &votingService{
		accounts:  accounts,
		elections: elections,
		votes:     votes,
		audit:     audit,
		lock:      lock,
		lockTTL:   lockTTL,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CastVote records one ballot for the account in the election. A second
// ballot for the same (account, election) pair fails with ErrAlreadyVoted and
// leaves every count untouched.
func (s *votingService) CastVote(ctx context.Context, b domain.Ballot) error {
	start := time.Now()
	err := s.castVote(ctx, b)

	outcome := "recorded"
	if err != nil {
		outcome = "rejected"
		metrics.VotesRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
	} else {
		metrics.VotesCastTotal.Inc()
	}
	metrics.VoteDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return err
}

func (s *votingService) castVote(ctx context.Context, b domain.Ballot) error {
	if b.AccountID == "" || b.ElectionID == "" || b.CandidateID == "" {
		return domain.Invalid("accountId, electionId and candidateId are required")
	}

	// 1. Cheap eligibility checks before touching the transaction.
	account, err := s.accounts.FindByID(ctx, b.AccountID)
	if err != nil {
		return fmt.Errorf("cast vote: %w", err)
	}
	if account.HasVotedIn(b.ElectionID) {
		return domain.ErrAlreadyVoted
	}

	candidate, err := s.elections.FindCandidate(ctx, b.CandidateID)
	if err != nil {
		return fmt.Errorf("cast vote: %w", err)
	}
	if candidate.ElectionID != b.ElectionID {
		return domain.ErrCandidateNotInElection
	}

	election, err := s.elections.FindElection(ctx, b.ElectionID)
	if err != nil {
		return fmt.Errorf("cast vote: %w", err)
	}
	if !election.IsActive {
		return domain.ErrElectionClosed
	}

	// 2. Reject concurrent duplicates early. The store transaction stays
	// authoritative, so a lock backend failure is not fatal.
	if s.lock != nil {
		token, acquired, lockErr := s.lock.Acquire(ctx, b.AccountID, b.ElectionID, s.lockTTL)
		switch {
		case lockErr != nil:
			s.log.Warn().Err(lockErr).Str("account_id", b.AccountID).Msg("vote lock unavailable, relying on store transaction")
		case !acquired:
			return domain.ErrVoteInProgress
		default:
			defer func() {
				if relErr := s.lock.Release(context.WithoutCancel(ctx), b.AccountID, b.ElectionID, token); relErr != nil {
					s.log.Warn().Err(relErr).Str("account_id", b.AccountID).Msg("failed to release vote lock")
				}
			}()
		}
	}

	// 3. Conditional, transactional write.
	if err := s.votes.RecordVote(ctx, b); err != nil {
		return fmt.Errorf("cast vote: %w", err)
	}

	// 4. Audit trail (non-fatal).
	if s.audit != nil {
		event := &domain.VoteEvent{Ballot: b, RequestID: requestctx.RequestID(ctx), CastAt: s.now()}
		if err := s.audit.InsertVoteEvent(ctx, event); err != nil {
			s.log.Warn().Err(err).Str("election_id", b.ElectionID).Msg("failed to insert vote event")
		}
	}

	s.log.Info().
		Str("account_id", b.AccountID).
		Str("election_id", b.ElectionID).
		Msg("vote recorded")
	return nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, domain.ErrElectionClosed):
		return "election_closed"
	case errors.Is(err, domain.ErrVoteInProgress):
		return "in_progress"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
