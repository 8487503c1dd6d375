package redis_test

import (
	cache "budget-monitor/internal/adapters/cache/redis"
	"budget-monitor/internal/config"
	"budget-monitor/internal/core/domain"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := cache.NewClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func TestNewClient_Unreachable(t *testing.T) {
	_, err := cache.NewClient(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1"})

	require.Error(t, err)
}

func TestProgressCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss returns nil", func(t *testing.T) {
		_, client := setupTestRedis(t)
		c := cache.NewProgressCache(client, time.Hour)

		p, err := c.Get(ctx, uuid.New())

		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("set then get", func(t *testing.T) {
		_, client := setupTestRedis(t)
		c := cache.NewProgressCache(client, time.Hour)
		id := uuid.New()
		want := domain.Progress{DocumentID: id, Status: domain.DocumentStatusProcessing, CurrentBatch: 2, TotalBatches: 3, Percentage: 66.67}

		require.NoError(t, c.Set(ctx, want))
		got, err := c.Get(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, &want, got)
	})

	t.Run("never goes backwards within a status", func(t *testing.T) {
		_, client := setupTestRedis(t)
		c := cache.NewProgressCache(client, time.Hour)
		id := uuid.New()

		require.NoError(t, c.Set(ctx, domain.Progress{DocumentID: id, Status: domain.DocumentStatusProcessing, CurrentBatch: 3, TotalBatches: 4, Percentage: 75}))
		require.NoError(t, c.Set(ctx, domain.Progress{DocumentID: id, Status: domain.DocumentStatusProcessing, CurrentBatch: 1, TotalBatches: 4, Percentage: 25}))

		got, err := c.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 3, got.CurrentBatch)
	})

	t.Run("status change overwrites", func(t *testing.T) {
		_, client := setupTestRedis(t)
		c := cache.NewProgressCache(client, time.Hour)
		id := uuid.New()

		require.NoError(t, c.Set(ctx, domain.Progress{DocumentID: id, Status: domain.DocumentStatusFailed, CurrentBatch: 3, TotalBatches: 4, Percentage: 75}))
		require.NoError(t, c.Set(ctx, domain.Progress{DocumentID: id, Status: domain.DocumentStatusPending}))

		got, err := c.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.DocumentStatusPending, got.Status)
		assert.Equal(t, 0, got.CurrentBatch)
	})

	t.Run("expires", func(t *testing.T) {
		mr, client := setupTestRedis(t)
		c := cache.NewProgressCache(client, time.Minute)
		id := uuid.New()
		require.NoError(t, c.Set(ctx, domain.Progress{DocumentID: id, Status: domain.DocumentStatusProcessing}))

		mr.FastForward(2 * time.Minute)

		got, err := c.Get(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete", func(t *testing.T) {
		_, client := setupTestRedis(t)
		c := cache.NewProgressCache(client, time.Hour)
		id := uuid.New()
		require.NoError(t, c.Set(ctx, domain.Progress{DocumentID: id, Status: domain.DocumentStatusProcessing}))

		require.NoError(t, c.Delete(ctx, id))

		got, err := c.Get(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestLocker(t *testing.T) {
	ctx := context.Background()

	t.Run("second acquire fails while held", func(t *testing.T) {
		_, client := setupTestRedis(t)
		locker := cache.NewLocker(client)
		id := uuid.New()

		lock, err := locker.Acquire(ctx, id, time.Minute)
		require.NoError(t, err)

		_, err = locker.Acquire(ctx, id, time.Minute)
		require.ErrorIs(t, err, domain.ErrLockNotAcquired)

		require.NoError(t, lock.Release(ctx))
		_, err = locker.Acquire(ctx, id, time.Minute)
		require.NoError(t, err)
	})

	t.Run("expired lease cannot be extended nor release another owner", func(t *testing.T) {
		mr, client := setupTestRedis(t)
		locker := cache.NewLocker(client)
		id := uuid.New()

		first, err := locker.Acquire(ctx, id, time.Second)
		require.NoError(t, err)
		mr.FastForward(2 * time.Second)

		second, err := locker.Acquire(ctx, id, time.Minute)
		require.NoError(t, err)

		require.ErrorIs(t, first.Extend(ctx, time.Minute), domain.ErrLockNotAcquired)
		require.NoError(t, first.Release(ctx))

		_, err = locker.Acquire(ctx, id, time.Minute)
		require.ErrorIs(t, err, domain.ErrLockNotAcquired)
		require.NoError(t, second.Extend(ctx, time.Minute))
	})
}
