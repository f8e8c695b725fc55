package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Auth  AuthConfig
	Vote  VoteConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	JWTSecret              string        `env:"JWT_SECRET, required"`
	TokenTTL               time.Duration `env:"TOKEN_TTL,                default=1h"`
	// AllowAdminRegistration gates POST /api/register with role=admin. When
	// false the request fails with 403; admins come from cmd/seed instead.
	AllowAdminRegistration bool          `env:"ALLOW_ADMIN_REGISTRATION, default=false"`
	LoginMaxAttempts       int           `env:"LOGIN_MAX_ATTEMPTS,       default=5"`
	LoginLockoutWindow     time.Duration `env:"LOGIN_LOCKOUT_WINDOW,     default=15m"`
	BcryptCost             int           `env:"BCRYPT_COST,              default=10"`
}

type VoteConfig struct {
	LockTTL time.Duration `env:"VOTE_LOCK_TTL, default=10s"`
}

type MongoConfig struct {
	URI       string        `env:"MONGO_URI,        default=mongodb://localhost:27017/?replicaSet=rs0"`
	Database  string        `env:"MONGO_DB,         default=voting"`
	OpTimeout time.Duration `env:"MONGO_OP_TIMEOUT, default=5s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from l. Tests pass an envconfig.MapLookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "local"
}

func (c *Config) validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.Auth.LoginMaxAttempts <= 0 {
		errs = append(errs, errors.New("LOGIN_MAX_ATTEMPTS must be positive"))
	}
	if c.Auth.LoginLockoutWindow <= 0 {
		errs = append(errs, errors.New("LOGIN_LOCKOUT_WINDOW must be positive"))
	}
	if c.Vote.LockTTL <= 0 {
		errs = append(errs, errors.New("VOTE_LOCK_TTL must be positive"))
	}
	if c.Mongo.OpTimeout <= 0 {
		errs = append(errs, errors.New("MONGO_OP_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}
