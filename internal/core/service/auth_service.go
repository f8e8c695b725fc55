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
)

// AuthOptions tunes AuthService policy.
type AuthOptions struct {
	// AllowAdminRegistration lets /register create admin accounts.
	AllowAdminRegistration bool
}

// AuthService implements registration and login.
type AuthService struct {
	identities ports.IdentityRepository
	accounts   ports.AccountRepository
	hasher     ports.PasswordHasher
	tokens     ports.TokenIssuer
	limiter    ports.LoginLimiter
	opts       AuthOptions
	log        zerolog.Logger
}

// NewAuthService wires the auth workflow. limiter may be nil to disable lockout.
func NewAuthService(
	identities ports.IdentityRepository,
	accounts ports.AccountRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	limiter ports.LoginLimiter,
	opts AuthOptions,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		identities: identities,
		accounts:   accounts,
		hasher:     hasher,
		tokens:     tokens,
		limiter:    limiter,
		opts:       opts,
		log:        log,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	if err := domain.ValidateNationalID(in.NationalID); err != nil {
		return nil, err
	}
	if in.Secret == "" {
		return nil, domain.Invalid("secret is required")
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	if role == domain.RoleAdmin && !s.opts.AllowAdminRegistration {
		return nil, fmt.Errorf("register admin: %w", domain.ErrForbidden)
	}

	identity, err := s.validIdentity(ctx, in.NationalID)
	if err != nil {
		return nil, err
	}

	if _, err := s.accounts.FindByIdentity(ctx, identity.ID); err == nil {
		return nil, domain.ErrAccountExists
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Secret)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}

	account, err := s.accounts.Create(ctx, &domain.Account{
		IdentityID:     identity.ID,
		PasswordHash:   hash,
		Role:           role,
		VotedElections: []string{},
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(role.String()).Inc()
	s.log.Info().Str("account_id", account.ID).Str("role", role.String()).Msg("account registered")
	return account, nil
}

func (s *AuthService) Login(ctx context.Context, nationalID, secret string) (*ports.LoginResult, error) {
	if err := domain.ValidateNationalID(nationalID); err != nil {
		return nil, err
	}
	if secret == "" {
		return nil, domain.Invalid("secret is required")
	}

	if s.limiter != nil {
		locked, err := s.limiter.Locked(ctx, nationalID)
		if err != nil {
			s.log.Warn().Err(err).Msg("login limiter check failed, continuing")
		} else if locked {
			metrics.LoginAttemptsTotal.WithLabelValues("locked").Inc()
			return nil, domain.ErrTooManyAttempts
		}
	}

	identity, err := s.validIdentity(ctx, nationalID)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues(loginResult(err)).Inc()
		return nil, err
	}

	account, err := s.accounts.FindByIdentity(ctx, identity.ID)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues(loginResult(err)).Inc()
		return nil, err
	}

	if err := s.hasher.Compare(account.PasswordHash, secret); err != nil {
		s.recordFailure(ctx, nationalID)
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(domain.Principal{AccountID: account.ID, Role: account.Role})
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, nationalID); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login limiter")
		}
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return &ports.LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		AccountID: account.ID,
		Role:      account.Role,
	}, nil
}

// validIdentity treats an invalidated identity the same as a missing one.
func (s *AuthService) validIdentity(ctx context.Context, nationalID string) (*domain.Identity, error) {
	identity, err := s.identities.FindByNationalID(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	if !identity.IsValid {
		return nil, domain.ErrIdentityNotFound
	}
	return identity, nil
}

func (s *AuthService) recordFailure(ctx context.Context, nationalID string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, nationalID); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

func loginResult(err error) string {
	if errors.Is(err, domain.ErrNotFound) {
		return "not_found"
	}
	return "error"
}
