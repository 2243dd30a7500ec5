package redisad

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"travela/internal/adapters/observability"
)

const revokedPrefix = "revoked:"

// Revocations is a go-redis backed domain.RevocationStore. Entries expire
// together with the token they block.
type Revocations struct{ c *redis.Client }

func New(addr, pass string, db int) *Revocations {
	return &Revocations{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

// NewWithClient wraps an existing client (tests, shared pools).
func NewWithClient(c *redis.Client) *Revocations { return &Revocations{c: c} }

func (r *Revocations) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return errors.New("revoke: empty token id")
	}
	if ttl <= 0 {
		// already expired, nothing left to block
		return nil
	}
	observability.ObserveCache("revocation", "set")
	return r.c.Set(ctx, revokedPrefix+tokenID, 1, ttl).Err()
}

func (r *Revocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.c.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	if n == 0 {
		observability.ObserveCache("revocation", "miss")
		return false, nil
	}
	observability.ObserveCache("revocation", "hit")
	return true, nil
}

func (r *Revocations) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Revocations) Close() error { return r.c.Close() }
