package ports

import (
	"time"

	"github.com/civicvote/voting-api/internal/core/domain"
)

// PasswordHasher hashes and verifies account secrets.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	// Compare returns domain.ErrInvalidCredentials on mismatch.
	Compare(hash, secret string) error
}

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	Issue(p domain.Principal) (token string, expiresAt time.Time, err error)
	// Verify returns domain.ErrInvalidToken for any missing, malformed,
	// expired or badly signed token.
	Verify(token string) (domain.Principal, error)
}
