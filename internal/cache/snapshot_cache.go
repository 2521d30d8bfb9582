// Package cache stores derived ticket lists keyed by the content hash of the raw list,
// so identical source documents are classified once.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

const keyPrefix = "ticket-dashboard:derived:"

// SnapshotCache stores derived tickets by derivation key (see dashboard.DerivationKey).
type SnapshotCache interface {
	Get(ctx context.Context, hash string) ([]domain.DerivedTicket, bool, error)
	Put(ctx context.Context, hash string, tickets []domain.DerivedTicket) error
}

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cache: CBOR encoder initialization failed: " + err.Error())
	}
}

func encode(tickets []domain.DerivedTicket) ([]byte, error) {
	return encMode.Marshal(tickets)
}

func decode(data []byte) ([]domain.DerivedTicket, error) {
	var tickets []domain.DerivedTicket
	if err := cbor.Unmarshal(data, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// Key returns the redis key for a hash.
func Key(hash string) string {
	return keyPrefix + hash
}

// RedisCache keeps snapshots in Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps a client. A zero ttl keeps entries forever.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get implements SnapshotCache.
func (c *RedisCache) Get(ctx context.Context, hash string) ([]domain.DerivedTicket, bool, error) {
	data, err := c.client.Get(ctx, Key(hash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	tickets, err := decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("decode cached snapshot: %w", err)
	}
	return tickets, true, nil
}

// Put implements SnapshotCache.
func (c *RedisCache) Put(ctx context.Context, hash string, tickets []domain.DerivedTicket) error {
	data, err := encode(tickets)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := c.client.Set(ctx, Key(hash), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Nop never hits.
type Nop struct{}

// Get implements SnapshotCache.
func (Nop) Get(context.Context, string) ([]domain.DerivedTicket, bool, error) {
	return nil, false, nil
}

// Put implements SnapshotCache.
func (Nop) Put(context.Context, string, []domain.DerivedTicket) error { return nil }
