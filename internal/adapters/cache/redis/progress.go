package redis

import (
	"budget-monitor/internal/core/domain"
	"budget-monitor/internal/core/port"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var _ port.ProgressCache = (*ProgressCache)(nil)

const progressPrefix = keyPrefix + "progress:"

// setProgressScript refuses to move current_batch backwards within the same status
var setProgressScript = redis.NewScript(`
	local cur = redis.call("HGET", KEYS[1], "current_batch")
	local st = redis.call("HGET", KEYS[1], "status")
	if cur and st == ARGV[1] and tonumber(cur) > tonumber(ARGV[2]) then
		return 0
	end
	redis.call("HSET", KEYS[1], "status", ARGV[1], "current_batch", ARGV[2], "total_batches", ARGV[3], "percentage", ARGV[4])
	redis.call("PEXPIRE", KEYS[1], ARGV[5])
	return 1
`)

// ProgressCache mirrors document progress in a redis hash
type ProgressCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProgressCache creates a ProgressCache, entries expire after ttl
func NewProgressCache(client *redis.Client, ttl time.Duration) *ProgressCache {
	return &ProgressCache{client: client, ttl: ttl}
}

// Set stores the progress
func (c *ProgressCache) Set(ctx context.Context, progress domain.Progress) error {
	key := progressPrefix + progress.DocumentID.String()
	_, err := setProgressScript.Run(ctx, c.client, []string{key},
		string(progress.Status),
		progress.CurrentBatch,
		progress.TotalBatches,
		strconv.FormatFloat(progress.Percentage, 'f', 2, 64),
		c.ttl.Milliseconds(),
	).Result()
	if err != nil {
		return fmt.Errorf("set progress %s: %w", progress.DocumentID, err)
	}
	return nil
}

// Get returns the cached progress, nil when nothing is cached
func (c *ProgressCache) Get(ctx context.Context, id uuid.UUID) (*domain.Progress, error) {
	values, err := c.client.HGetAll(ctx, progressPrefix+id.String()).Result()
	if err != nil {
		return nil, fmt.Errorf("get progress %s: %w", id, err)
	}
	if len(values) == 0 {
		return nil, nil
	}

	current, err := strconv.Atoi(values["current_batch"])
	if err != nil {
		return nil, fmt.Errorf("corrupted progress %s: %w", id, err)
	}
	total, err := strconv.Atoi(values["total_batches"])
	if err != nil {
		return nil, fmt.Errorf("corrupted progress %s: %w", id, err)
	}
	percentage, err := strconv.ParseFloat(values["percentage"], 64)
	if err != nil {
		return nil, fmt.Errorf("corrupted progress %s: %w", id, err)
	}

	return &domain.Progress{
		DocumentID:   id,
		Status:       domain.DocumentStatus(values["status"]),
		CurrentBatch: current,
		TotalBatches: total,
		Percentage:   percentage,
	}, nil
}

// Delete drops the cached progress
func (c *ProgressCache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, progressPrefix+id.String()).Err(); err != nil {
		return fmt.Errorf("delete progress %s: %w", id, err)
	}
	return nil
}
