package redis

import (
	"budget-monitor/internal/core/domain"
	"budget-monitor/internal/core/port"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var _ port.Locker = (*Locker)(nil)

const lockPrefix = keyPrefix + "lock:document:"

// Locker hands out per document leases using SETNX with a TTL
type Locker struct {
	client *redis.Client
}

// NewLocker creates a Locker
func NewLocker(client *redis.Client) *Locker {
	return &Locker{client: client}
}

// Acquire takes the lease of a document or returns domain.ErrLockNotAcquired
func (l *Locker) Acquire(ctx context.Context, id uuid.UUID, ttl time.Duration) (port.Lock, error) {
	key := lockPrefix + id.String()
	owner := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, owner, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrLockNotAcquired)
	}
	return &lease{client: l.client, key: key, owner: owner}, nil
}

// releaseScript only deletes the key while it still holds our token
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

var extendScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("pexpire", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

type lease struct {
	client *redis.Client
	key    string
	owner  string
}

// Extend pushes the expiry of a lease still held
func (l *lease) Extend(ctx context.Context, ttl time.Duration) error {
	result, err := extendScript.Run(ctx, l.client, []string{l.key}, l.owner, ttl.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("extend lock %s: %w", l.key, err)
	}
	if result == 0 {
		return fmt.Errorf("%s: %w", l.key, domain.ErrLockNotAcquired)
	}
	return nil
}

// Release is safe to call on an expired lease
func (l *lease) Release(ctx context.Context) error {
	_, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.owner).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("release lock %s: %w", l.key, err)
	}
	return nil
}
