package usage

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-newscrew/internal/crew"
)

func TestKey(t *testing.T) {
	day := time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "usage:20260309:model:categorizer:ok", Key(day, "model", "categorizer", "ok"))
	assert.Equal(t, "usage:20260309:", Key(day))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeOK, Outcome(nil))
	assert.Equal(t, OutcomeQuota, Outcome(errors.New("Error 429")))
	assert.Equal(t, OutcomeError, Outcome(errors.New("bad request")))
}

func TestNilCounterIsNoop(t *testing.T) {
	c := NewCounter(nil, zerolog.Nop())
	assert.Nil(t, c)

	c.Observe(context.Background(), "Categorizer", nil)
	assert.NoError(t, c.Record(context.Background(), &crew.Analysis{}))
	got, err := c.Today(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

// Skipped unless TEST_REDIS_ADDR points at a scratch redis.
func TestCounter_LiveRedis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run real redis test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	defer rdb.Close()
	ctx := context.Background()
	require.NoError(t, rdb.FlushDB(ctx).Err())

	c := NewCounter(rdb, zerolog.Nop())
	c.Observe(ctx, "Categorizer", nil)
	c.Observe(ctx, "Categorizer", errors.New("quota exceeded"))
	c.Observe(ctx, "Categorizer", errors.New("quota exceeded"))
	require.NoError(t, c.Record(ctx, &crew.Analysis{ID: uuid.New(), Skipped: true}))

	got, err := c.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got["model:categorizer:ok"])
	assert.Equal(t, int64(2), got["model:categorizer:quota"])
	assert.Equal(t, int64(1), got["analyses:skipped"])
}
