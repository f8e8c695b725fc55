// @title                      Voting API
// @version                    1.0
// @description                Online voting backend: national-ID registration, one vote per election, admin election management.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/civicvote/voting-api/internal/api"
	"github.com/civicvote/voting-api/internal/core/service"
	mongostore "github.com/civicvote/voting-api/internal/infrastructure/db/mongo"
	redisstore "github.com/civicvote/voting-api/internal/infrastructure/db/redis"
	"github.com/civicvote/voting-api/internal/infrastructure/http/handlers"
	"github.com/civicvote/voting-api/internal/infrastructure/security"
	"github.com/civicvote/voting-api/internal/pkg/config"
	"github.com/civicvote/voting-api/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "voting-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "voting-api",
	})

	// --- Stores ---
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	identities := mongostore.NewIdentityRepository(db, cfg.Mongo.OpTimeout)
	accounts := mongostore.NewAccountRepository(db, cfg.Mongo.OpTimeout)
	elections := mongostore.NewElectionRepository(db, cfg.Mongo.OpTimeout)
	votes := mongostore.NewVoteRepository(db, cfg.Mongo.OpTimeout)

	// --- Services ---
	tokens := security.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(
		identities,
		accounts,
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		redisstore.NewLoginLimiter(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockoutWindow),
		service.AuthOptions{AllowAdminRegistration: cfg.Auth.AllowAdminRegistration},
		logger.Component("auth"),
	)
	votingService := service.NewVotingService(
		accounts,
		elections,
		votes,
		votes,
		redisstore.NewVoteLock(rdb),
		cfg.Vote.LockTTL,
		logger.Component("votes"),
	)
	electionService := service.NewElectionService(elections, logger.Component("elections"))

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Log:       logger.Component("http"),
		Auth:      authService,
		Elections: electionService,
		Votes:     votingService,
		Tokens:    tokens,
		Readiness: handlers.NewReadinessHandler(0,
			handlers.MongoCheck(db),
			handlers.RedisCheck(rdb),
		),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("starting voting api")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}
