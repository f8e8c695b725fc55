package ports

import (
	"context"
	"time"
)

// LoginLimiter counts failed logins per national ID.
type LoginLimiter interface {
	// Locked reports whether further attempts must be refused.
	Locked(ctx context.Context, nationalID string) (bool, error)
	RecordFailure(ctx context.Context, nationalID string) error
	Reset(ctx context.Context, nationalID string) error
}

// VoteLock guards an (account, election) pair while a ballot is being recorded.
type VoteLock interface {
	// Acquire returns ok=false when another request holds the lock. The
	// token identifies this holder and must be passed to Release.
	Acquire(ctx context.Context, accountID, electionID string, ttl time.Duration) (token string, ok bool, err error)
	// Release drops the lock only if it is still held under token.
	Release(ctx context.Context, accountID, electionID, token string) error
}
