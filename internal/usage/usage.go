// Package usage keeps daily counters of model calls and analyses in redis,
// so quota pressure on the model API is visible from the web UI.
package usage

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"go-newscrew/internal/crew"
	"go-newscrew/internal/llm"
)

const (
	keyPrefix = "usage"
	keyTTL    = 48 * time.Hour

	OutcomeOK    = "ok"
	OutcomeQuota = "quota"
	OutcomeError = "error"
)

// Counter records usage. A nil *Counter is valid and records nothing.
type Counter struct {
	rdb *redis.Client
	now func() time.Time
	log zerolog.Logger
}

// NewCounter returns nil when rdb is nil.
func NewCounter(rdb *redis.Client, log zerolog.Logger) *Counter {
	if rdb == nil {
		return nil
	}
	return &Counter{
		rdb: rdb,
		now: time.Now,
		log: log.With().Str("component", "usage").Logger(),
	}
}

// Key builds "usage:<yyyymmdd>:<parts...>".
func Key(day time.Time, parts ...string) string {
	return keyPrefix + ":" + day.UTC().Format("20060102") + ":" + strings.Join(parts, ":")
}

// Outcome classifies a model call result.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case llm.IsQuotaError(err):
		return OutcomeQuota
	default:
		return OutcomeError
	}
}

// Observe matches llm.ObserveFunc and counts one model call.
func (c *Counter) Observe(ctx context.Context, role string, err error) {
	if c == nil {
		return
	}
	c.incr(ctx, Key(c.now(), "model", strings.ToLower(role), Outcome(err)))
}

// Record implements crew.Recorder and counts one analysis.
func (c *Counter) Record(ctx context.Context, a *crew.Analysis) error {
	if c == nil {
		return nil
	}
	outcome := "completed"
	if a.Skipped {
		outcome = "skipped"
	}
	return c.incr(ctx, Key(c.now(), "analyses", outcome))
}

func (c *Counter) incr(ctx context.Context, key string) error {
	pipe := c.rdb.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, keyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("usage counter update failed")
		return err
	}
	return nil
}

// Today returns today's counters keyed by the part after the date,
// e.g. "model:categorizer:quota".
func (c *Counter) Today(ctx context.Context) (map[string]int64, error) {
	out := map[string]int64{}
	if c == nil {
		return out, nil
	}
	prefix := Key(c.now())
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			raw, err := c.rdb.Get(ctx, key).Result()
			if err == redis.Nil {
				continue
			}
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				continue
			}
			out[strings.TrimPrefix(key, prefix)] = n
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	return out, nil
}
