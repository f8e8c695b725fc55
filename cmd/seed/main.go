// Command seed loads national identity numbers into the identity store and
// optionally registers an admin account. Identities are never created over
// the API.
//
//	seed -ids 123456789012,987654321098
//	seed -file ids.txt -invalid
//	seed -admin-id 123456789012 -admin-secret change-me
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/civicvote/voting-api/internal/core/domain"
	"github.com/civicvote/voting-api/internal/core/ports"
	"github.com/civicvote/voting-api/internal/core/service"
	mongostore "github.com/civicvote/voting-api/internal/infrastructure/db/mongo"
	"github.com/civicvote/voting-api/internal/infrastructure/security"
	"github.com/civicvote/voting-api/internal/pkg/config"
	"github.com/civicvote/voting-api/pkg/logger"
)

type options struct {
	ids         string
	file        string
	invalid     bool
	adminID     string
	adminSecret string
}

func main() {
	var opts options
	flag.StringVar(&opts.ids, "ids", "", "comma-separated 12-digit national ids")
	flag.StringVar(&opts.file, "file", "", "file with one national id per line")
	flag.BoolVar(&opts.invalid, "invalid", false, "mark the given ids as invalid instead of valid")
	flag.StringVar(&opts.adminID, "admin-id", "", "national id to register as admin")
	flag.StringVar(&opts.adminSecret, "admin-secret", "", "secret for the admin account")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ids, err := collectIDs(opts)
	if err != nil {
		return err
	}
	if len(ids) == 0 && opts.adminID == "" {
		return errors.New("nothing to do: pass -ids, -file or -admin-id")
	}
	if (opts.adminID == "") != (opts.adminSecret == "") {
		return errors.New("-admin-id and -admin-secret must be used together")
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "voting-seed"})

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	identities := mongostore.NewIdentityRepository(db, cfg.Mongo.OpTimeout)
	if err := seedIdentities(ctx, identities, ids, !opts.invalid, log); err != nil {
		return err
	}

	if opts.adminID == "" {
		return nil
	}

	if err := seedIdentities(ctx, identities, []string{opts.adminID}, true, log); err != nil {
		return err
	}
	auth := service.NewAuthService(
		identities,
		mongostore.NewAccountRepository(db, cfg.Mongo.OpTimeout),
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		security.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		nil,
		service.AuthOptions{AllowAdminRegistration: true},
		log,
	)
	return seedAdmin(ctx, auth, opts.adminID, opts.adminSecret, log)
}

func collectIDs(opts options) ([]string, error) {
	var ids []string
	for _, id := range strings.Split(opts.ids, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if opts.file != "" {
		f, err := os.Open(opts.file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		fromFile, err := readIDs(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", opts.file, err)
		}
		ids = append(ids, fromFile...)
	}
	for _, id := range ids {
		if err := domain.ValidateNationalID(id); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// readIDs returns one id per non-blank line; lines starting with # are skipped.
func readIDs(r io.Reader) ([]string, error) {
	var ids []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	return ids, sc.Err()
}

func seedIdentities(ctx context.Context, store ports.IdentitySeeder, ids []string, valid bool, log zerolog.Logger) error {
	for _, id := range ids {
		if _, err := store.Upsert(ctx, id, valid); err != nil {
			return fmt.Errorf("seed identity %s: %w", id, err)
		}
	}
	if len(ids) > 0 {
		log.Info().Int("count", len(ids)).Bool("valid", valid).Msg("identities seeded")
	}
	return nil
}

func seedAdmin(ctx context.Context, auth ports.AuthService, nationalID, secret string, log zerolog.Logger) error {
	account, err := auth.Register(ctx, ports.RegisterInput{
		NationalID: nationalID,
		Secret:     secret,
		Role:       domain.RoleAdmin.String(),
	})
	if errors.Is(err, domain.ErrAccountExists) {
		log.Info().Msg("admin account already registered")
		return nil
	}
	if err != nil {
		return fmt.Errorf("register admin: %w", err)
	}
	log.Info().Str("account_id", account.ID).Msg("admin account registered")
	return nil
}
