package ports

import (
	"context"

	"github.com/civicvote/voting-api/internal/core/domain"
)

// AccountRepository defines persistence for accounts.
type AccountRepository interface {
	// Create inserts the account. Returns domain.ErrAccountExists when the
	// identity already backs an account.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByIdentity(ctx context.Context, identityID string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
}
