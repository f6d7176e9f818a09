// Package crew runs the fetch → categorize → summarize pipeline.
//
// The three stages are plain sequential calls; nothing is shared between
// runs and each stage only sees the previous stage's output.
package crew

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"go-newscrew/internal/agent"
	"go-newscrew/internal/fetcher"
)

// Stage names reported to observers.
type Stage string

const (
	StageFetching     Stage = "fetching"
	StageCategorizing Stage = "categorizing"
	StageSummarizing  Stage = "summarizing"
	StageDone         Stage = "done"
	StageSkipped      Stage = "skipped"
)

// Analysis is the outcome of one run.
type Analysis struct {
	ID         uuid.UUID        `json:"id"`
	URL        string           `json:"url"`
	Title      string           `json:"title"`
	Text       string           `json:"-"`
	Category   string           `json:"category"`
	Summary    string           `json:"summary"`
	Skipped    bool             `json:"skipped"`
	Timings    map[string]int64 `json:"timings_ms"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
}

// Result is the text shown to the user: the fetch error when the model
// stages were skipped, the summary otherwise.
func (a *Analysis) Result() string {
	if a.Skipped {
		return a.Text
	}
	return a.Summary
}

// Observer is called synchronously as each stage starts and when the run ends.
type Observer func(stage Stage, a *Analysis)

// ArticleFetcher is the first stage.
type ArticleFetcher interface {
	Fetch(ctx context.Context, url string) fetcher.Article
}

// Categorizer is the second stage.
type Categorizer interface {
	Categorize(ctx context.Context, text string) string
}

// Summarizer is the third stage.
type Summarizer interface {
	Summarize(ctx context.Context, title, text string) string
}

// Recorder is told about every finished analysis.
type Recorder interface {
	Record(ctx context.Context, a *Analysis) error
}

// Crew groups the agents and the stage implementations.
type Crew struct {
	Agents      []agent.Agent
	Fetcher     ArticleFetcher
	Categorizer Categorizer
	Summarizer  Summarizer
	Recorders   []Recorder

	log zerolog.Logger
}

// New creates a crew with the stock roster.
func New(f ArticleFetcher, c Categorizer, s Summarizer, log zerolog.Logger, recorders ...Recorder) *Crew {
	return &Crew{
		Agents:      agent.Roster(),
		Fetcher:     f,
		Categorizer: c,
		Summarizer:  s,
		Recorders:   recorders,
		log:         log.With().Str("component", "crew").Logger(),
	}
}

// Roles lists the agent roles in pipeline order.
func (c *Crew) Roles() []string {
	roles := make([]string, 0, len(c.Agents))
	for _, a := range c.Agents {
		roles = append(roles, a.Role)
	}
	return roles
}

// Run processes one URL. Model stages are skipped when the fetched text
// carries an error marker.
func (c *Crew) Run(ctx context.Context, url string, observe Observer) *Analysis {
	a := &Analysis{
		ID:        uuid.New(),
		URL:       url,
		Timings:   map[string]int64{},
		StartedAt: time.Now(),
	}
	notify := func(stage Stage) {
		if observe != nil {
			observe(stage, a)
		}
	}

	notify(StageFetching)
	start := time.Now()
	article := c.Fetcher.Fetch(ctx, url)
	a.Title, a.Text = article.Title, article.Text
	a.Timings[string(StageFetching)] = time.Since(start).Milliseconds()

	if fetcher.IsError(a.Text) {
		a.Skipped = true
		c.log.Warn().Str("url", url).Str("reason", a.Text).Msg("fetch failed, skipping model stages")
		c.finish(ctx, a)
		notify(StageSkipped)
		return a
	}

	notify(StageCategorizing)
	start = time.Now()
	a.Category = c.Categorizer.Categorize(ctx, a.Text)
	a.Timings[string(StageCategorizing)] = time.Since(start).Milliseconds()

	notify(StageSummarizing)
	start = time.Now()
	a.Summary = c.Summarizer.Summarize(ctx, a.Title, a.Text)
	a.Timings[string(StageSummarizing)] = time.Since(start).Milliseconds()

	c.finish(ctx, a)
	notify(StageDone)
	return a
}

// SummarizeURL runs the pipeline and returns only the user-facing text.
func (c *Crew) SummarizeURL(ctx context.Context, url string) string {
	return c.Run(ctx, url, nil).Result()
}

func (c *Crew) finish(ctx context.Context, a *Analysis) {
	a.FinishedAt = time.Now()
	c.log.Info().
		Str("id", a.ID.String()).
		Str("url", a.URL).
		Bool("skipped", a.Skipped).
		Dur("elapsed", a.FinishedAt.Sub(a.StartedAt)).
		Msg("analysis finished")

	for _, r := range c.Recorders {
		if r == nil {
			continue
		}
		if err := r.Record(ctx, a); err != nil {
			c.log.Warn().Err(err).Str("id", a.ID.String()).Msg("recording analysis failed")
		}
	}
}
