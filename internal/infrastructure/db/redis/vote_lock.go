package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds the caller's token,
// so a request whose lock expired cannot drop a newer holder's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// VoteLock marks an (account, election) pair as in flight.
// Key format: vote:lock:<account_id>:<election_id>, value: holder token.
type VoteLock struct {
	client *redis.Client
}

// NewVoteLock creates a VoteLock wrapping the given Redis client.
func NewVoteLock(client *redis.Client) *VoteLock {
	return &VoteLock{client: client}
}

// Acquire sets the key to a fresh token only if absent. The TTL bounds how
// long a crashed request can block a retry.
func (l *VoteLock) Acquire(ctx context.Context, accountID, electionID string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key(accountID, electionID), token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("vote lock acquire: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release drops the key if token still owns it. A lock that expired and was
// taken by another request is left alone.
func (l *VoteLock) Release(ctx context.Context, accountID, electionID, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key(accountID, electionID)}, token).Err(); err != nil {
		return fmt.Errorf("vote lock release: %w", err)
	}
	return nil
}

func (l *VoteLock) key(accountID, electionID string) string {
	return fmt.Sprintf("vote:lock:%s:%s", accountID, electionID)
}
