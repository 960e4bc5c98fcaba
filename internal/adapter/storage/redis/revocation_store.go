package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RevocationStore implements ports.TokenRevocationStore. A revoked token ID
// is kept only until the token would have expired anyway.
type RevocationStore struct {
	client goredis.UniversalClient
	prefix string
}

// NewRevocationStore creates a new Redis-backed token revocation store.
func NewRevocationStore(client goredis.UniversalClient) *RevocationStore {
	return &RevocationStore{
		client: client,
		prefix: "revoked:",
	}
}

// Revoke marks tokenID as logged out for ttl. A non-positive ttl means the
// token has already expired and nothing is stored.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	err := s.client.SetArgs(ctx, s.prefix+tokenID, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Err()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("redis revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID was logged out.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("redis revocation check: %w", err)
	}
	return n > 0, nil
}
