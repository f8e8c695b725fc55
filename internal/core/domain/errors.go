package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Specific errors below wrap one of these so callers can match
// either the precise condition or its class with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrTimeout      = errors.New("store timeout")
	ErrUnavailable  = errors.New("store unavailable")
	ErrForbidden    = errors.New("access forbidden")
	ErrInvalidToken = fmt.Errorf("invalid token: %w", ErrForbidden)
)

var (
	ErrIdentityNotFound  = fmt.Errorf("identity %w", ErrNotFound)
	ErrAccountNotFound   = fmt.Errorf("account %w", ErrNotFound)
	ErrElectionNotFound  = fmt.Errorf("election %w", ErrNotFound)
	ErrCandidateNotFound = fmt.Errorf("candidate %w", ErrNotFound)

	ErrAccountExists      = errors.New("account already registered for this national id")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")

	ErrAlreadyVoted           = errors.New("account has already voted in this election")
	ErrElectionClosed         = errors.New("election is closed")
	ErrVoteInProgress         = errors.New("a vote for this election is already being recorded")
	ErrCandidateNotInElection = fmt.Errorf("candidate does not belong to election: %w", ErrValidation)
)

// Invalid wraps ErrValidation with a human-readable reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
