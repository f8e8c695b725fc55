package ports

import (
	"context"
	"time"

	"github.com/civicvote/voting-api/internal/core/domain"
)

// RegisterInput carries the registration request.
type RegisterInput struct {
	NationalID string
	Secret     string
	Role       string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	AccountID string
	Role      domain.Role
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, nationalID, secret string) (*LoginResult, error)
}
