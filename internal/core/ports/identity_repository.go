package ports

import (
	"context"

	"github.com/civicvote/voting-api/internal/core/domain"
)

// IdentityRepository is the read side of the national-ID registry.
type IdentityRepository interface {
	FindByNationalID(ctx context.Context, nationalID string) (*domain.Identity, error)
}

// IdentitySeeder is used only by the out-of-band seeding tool.
type IdentitySeeder interface {
	Upsert(ctx context.Context, nationalID string, valid bool) (*domain.Identity, error)
}
