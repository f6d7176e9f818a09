package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// scriptedGenerator returns the queued results in order, repeating the last one.
type scriptedGenerator struct {
	texts []string
	errs  []error
	calls int
}

func (s *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	i := s.calls
	if i >= len(s.errs) {
		i = len(s.errs) - 1
	}
	s.calls++
	var text string
	if i < len(s.texts) {
		text = s.texts[i]
	}
	return text, s.errs[i]
}

type sleepRecorder struct {
	waits []time.Duration
	err   error
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return s.err
}

func newTestRetrier(rec *sleepRecorder) *Retrier {
	r := NewRetrier(3, 30*time.Second, zerolog.Nop())
	r.Sleep = rec.sleep
	return r
}

func TestRetrier_QuotaErrorRetriesWithDoublingDelay(t *testing.T) {
	rec := &sleepRecorder{}
	gen := &scriptedGenerator{errs: []error{errors.New("Error 429, Message: Resource has been exhausted (e.g. check quota).")}}

	out := newTestRetrier(rec).Generate(context.Background(), "Categorizer", gen, "prompt")

	assert.Equal(t, "[Categorizer] Failed after 3 retries.", out)
	assert.Equal(t, 3, gen.calls)
	assert.Equal(t, []time.Duration{30 * time.Second, 60 * time.Second, 120 * time.Second}, rec.waits)
}

func TestRetrier_NonQuotaErrorReturnsImmediately(t *testing.T) {
	rec := &sleepRecorder{}
	gen := &scriptedGenerator{errs: []error{errors.New("invalid argument")}}

	out := newTestRetrier(rec).Generate(context.Background(), "Summarizer", gen, "prompt")

	assert.Equal(t, "[Summarizer] Error: invalid argument", out)
	assert.Equal(t, 1, gen.calls)
	assert.Empty(t, rec.waits)
}

func TestRetrier_RecoversAfterQuotaError(t *testing.T) {
	rec := &sleepRecorder{}
	gen := &scriptedGenerator{
		texts: []string{"", "  Technology \n"},
		errs:  []error{errors.New("Quota exceeded"), nil},
	}

	out := newTestRetrier(rec).Generate(context.Background(), "Categorizer", gen, "prompt")

	assert.Equal(t, "Technology", out)
	assert.Equal(t, 2, gen.calls)
	assert.Equal(t, []time.Duration{30 * time.Second}, rec.waits)
}

func TestRetrier_EmptyResponse(t *testing.T) {
	gen := &scriptedGenerator{texts: []string{"   "}, errs: []error{nil}}
	out := newTestRetrier(&sleepRecorder{}).Generate(context.Background(), "Summarizer", gen, "prompt")
	assert.Equal(t, NoResponse, out)
}

func TestRetrier_InterruptedWaitGivesUp(t *testing.T) {
	rec := &sleepRecorder{err: context.Canceled}
	gen := &scriptedGenerator{errs: []error{errors.New("429 Too Many Requests")}}

	out := newTestRetrier(rec).Generate(context.Background(), "Categorizer", gen, "prompt")

	assert.Equal(t, "[Categorizer] Failed after 3 retries.", out)
	assert.Equal(t, 1, gen.calls)
	assert.Len(t, rec.waits, 1)
}

func TestRetrier_ObserveSeesEveryCall(t *testing.T) {
	var seen []error
	r := newTestRetrier(&sleepRecorder{})
	r.Observe = func(ctx context.Context, role string, err error) {
		assert.Equal(t, "Categorizer", role)
		seen = append(seen, err)
	}
	gen := &scriptedGenerator{texts: []string{"", "ok"}, errs: []error{errors.New("quota"), nil}}

	r.Generate(context.Background(), "Categorizer", gen, "prompt")
	assert.Len(t, seen, 2)
	assert.Error(t, seen[0])
	assert.NoError(t, seen[1])
}

func TestNewRetrier_Defaults(t *testing.T) {
	r := NewRetrier(0, 0, zerolog.Nop())
	assert.Equal(t, DefaultAttempts, r.Attempts)
	assert.Equal(t, DefaultInitialDelay, r.InitialDelay)
}

func TestIsQuotaError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("QUOTA exceeded for project"), true},
		{errors.New("Error 429, Status: RESOURCE_EXHAUSTED"), true},
		{errors.New("deadline exceeded"), false},
		{errors.New("Error 500, internal"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsQuotaError(tt.err), "%v", tt.err)
	}
}

func TestSleepContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
