package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicvote/voting-api/internal/core/domain"
	"github.com/civicvote/voting-api/internal/core/ports"
)

func TestReadIDs(t *testing.T) {
	ids, err := readIDs(strings.NewReader("# header\n123456789012\n\n  987654321098  \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"123456789012", "987654321098"}, ids)
}

func TestCollectIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.txt")
	require.NoError(t, os.WriteFile(path, []byte("111111111111\n"), 0o600))

	ids, err := collectIDs(options{ids: "123456789012, 987654321098,", file: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"123456789012", "987654321098", "111111111111"}, ids)

	_, err = collectIDs(options{ids: "12345"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

type recordingSeeder struct {
	upserts map[string]bool
	err     error
}

func (r *recordingSeeder) Upsert(_ context.Context, id string, valid bool) (*domain.Identity, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.upserts[id] = valid
	return &domain.Identity{NationalIDNumber: id, IsValid: valid}, nil
}

func TestSeedIdentities(t *testing.T) {
	s := &recordingSeeder{upserts: map[string]bool{}}
	require.NoError(t, seedIdentities(context.Background(), s, []string{"123456789012"}, false, zerolog.Nop()))
	assert.Equal(t, map[string]bool{"123456789012": false}, s.upserts)

	s.err = domain.ErrUnavailable
	err := seedIdentities(context.Background(), s, []string{"123456789012"}, true, zerolog.Nop())
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

type registerOnly struct {
	in  ports.RegisterInput
	err error
}

func (r *registerOnly) Register(_ context.Context, in ports.RegisterInput) (*domain.Account, error) {
	r.in = in
	if r.err != nil {
		return nil, r.err
	}
	return &domain.Account{ID: "acc-1", Role: domain.RoleAdmin}, nil
}

func (r *registerOnly) Login(context.Context, string, string) (*ports.LoginResult, error) {
	return nil, errors.New("unused")
}

func TestSeedAdmin(t *testing.T) {
	auth := &registerOnly{}
	require.NoError(t, seedAdmin(context.Background(), auth, "123456789012", "pw", zerolog.Nop()))
	assert.Equal(t, "admin", auth.in.Role)

	auth.err = domain.ErrAccountExists
	assert.NoError(t, seedAdmin(context.Background(), auth, "123456789012", "pw", zerolog.Nop()), "re-running is idempotent")

	auth.err = domain.ErrIdentityNotFound
	assert.Error(t, seedAdmin(context.Background(), auth, "123456789012", "pw", zerolog.Nop()))
}
