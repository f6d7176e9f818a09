package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultAttempts     = 3
	DefaultInitialDelay = 30 * time.Second

	// NoResponse is returned when the model answers with nothing.
	NoResponse = "No response."
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// ObserveFunc is told about every model call a Retrier makes.
type ObserveFunc func(ctx context.Context, role string, err error)

// Retrier wraps model calls with doubling backoff on quota errors.
// Its Generate never returns an error: every failure becomes a string.
type Retrier struct {
	Attempts     int
	InitialDelay time.Duration
	Sleep        SleepFunc
	Observe      ObserveFunc

	log zerolog.Logger
}

// NewRetrier creates a retrier; zero values fall back to 3 attempts / 30s.
func NewRetrier(attempts int, initialDelay time.Duration, log zerolog.Logger) *Retrier {
	if attempts < 1 {
		attempts = DefaultAttempts
	}
	if initialDelay <= 0 {
		initialDelay = DefaultInitialDelay
	}
	return &Retrier{
		Attempts:     attempts,
		InitialDelay: initialDelay,
		Sleep:        sleepContext,
		log:          log.With().Str("component", "retry").Logger(),
	}
}

// IsQuotaError reports whether err looks like a rate-limit / quota failure.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(strings.ToLower(msg), "quota") || strings.Contains(msg, "429")
}

// Generate calls gen until it succeeds, fails with a non-quota error, or
// runs out of attempts. Every quota failure waits, the last one included.
func (r *Retrier) Generate(ctx context.Context, role string, gen Generator, prompt string) string {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = DefaultAttempts
	}
	delay := r.InitialDelay
	sleep := r.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for attempt := 0; attempt < attempts; attempt++ {
		text, err := gen.Generate(ctx, prompt)
		if r.Observe != nil {
			r.Observe(ctx, role, err)
		}

		if err == nil {
			text = strings.TrimSpace(text)
			if text == "" {
				return NoResponse
			}
			return text
		}

		if !IsQuotaError(err) {
			r.log.Error().Err(err).Str("role", role).Msg("model call failed")
			return fmt.Sprintf("[%s] Error: %s", role, err.Error())
		}

		r.log.Warn().Str("role", role).Msgf("[%s] Quota exceeded. Retrying in %s... (%d/%d)", role, delay, attempt+1, attempts)
		if err := sleep(ctx, delay); err != nil {
			r.log.Warn().Err(err).Str("role", role).Msg("retry wait interrupted")
			break
		}
		delay *= 2
	}

	return fmt.Sprintf("[%s] Failed after %d retries.", role, attempts)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
