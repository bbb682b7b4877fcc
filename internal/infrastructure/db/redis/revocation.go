package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList tracks uids whose credentials have been invalidated, backed
// by Redis. Keys carry a TTL matching the token lifetime: once every token
// issued before the revocation has expired on its own, the tombstone is no
// longer needed.
type RevocationList struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRevocationList creates a RevocationList wrapping the given Redis client.
func NewRevocationList(client *redis.Client, ttl time.Duration) *RevocationList {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RevocationList{client: client, ttl: ttl}
}

// Revoke tombstones all outstanding credentials for the uid.
func (l *RevocationList) Revoke(ctx context.Context, uid string) error {
	return l.client.Set(ctx, l.key(uid), "1", l.ttl).Err()
}

// IsRevoked reports whether credentials for the uid have been tombstoned.
func (l *RevocationList) IsRevoked(ctx context.Context, uid string) (bool, error) {
	n, err := l.client.Exists(ctx, l.key(uid)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (l *RevocationList) key(uid string) string {
	return "revoked:" + uid
}
