package agent

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"go-newscrew/internal/llm"
)

const (
	DefaultCategoryChars = 3000
	DefaultSummaryChars  = 7000
)

// Truncate returns the first n characters of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// CategoryPrompt builds the categorization prompt from already-trimmed text.
func CategoryPrompt(text string) string {
	return fmt.Sprintf("Categorize this news article: '%s' into a category like Technology, Politics, Sports, etc.", text)
}

// SummaryPrompt builds the summarization prompt from already-trimmed text.
func SummaryPrompt(title, text string) string {
	return fmt.Sprintf("Here is a news article titled '%s'.\n\n"+
		"Summarize this article in a detailed way with a minimum of 200 words:\n\n%s", title, text)
}

// Stage is one model-backed step: a role, a model and a retry policy.
type Stage struct {
	Agent    Agent
	Model    llm.Generator
	Retrier  *llm.Retrier
	MaxChars int

	log zerolog.Logger
}

// NewCategorizer returns the categorization stage.
func NewCategorizer(model llm.Generator, retrier *llm.Retrier, maxChars int, log zerolog.Logger) *Stage {
	if maxChars <= 0 {
		maxChars = DefaultCategoryChars
	}
	if retrier == nil {
		retrier = llm.NewRetrier(0, 0, log)
	}
	return &Stage{Agent: Categorizer, Model: model, Retrier: retrier, MaxChars: maxChars,
		log: log.With().Str("component", "categorizer").Logger()}
}

// NewSummarizer returns the summarization stage.
func NewSummarizer(model llm.Generator, retrier *llm.Retrier, maxChars int, log zerolog.Logger) *Stage {
	if maxChars <= 0 {
		maxChars = DefaultSummaryChars
	}
	if retrier == nil {
		retrier = llm.NewRetrier(0, 0, log)
	}
	return &Stage{Agent: Summarizer, Model: model, Retrier: retrier, MaxChars: maxChars,
		log: log.With().Str("component", "summarizer").Logger()}
}

// Categorize returns the model's label verbatim, or a readable failure string.
func (s *Stage) Categorize(ctx context.Context, text string) string {
	s.log.Info().Msg("Fetching Category...")
	return s.Retrier.Generate(ctx, s.Agent.Role, s.Model, CategoryPrompt(Truncate(text, s.MaxChars)))
}

// Summarize returns the model's summary verbatim, or a readable failure string.
func (s *Stage) Summarize(ctx context.Context, title, text string) string {
	s.log.Info().Msg("Generating Summary...")
	return s.Retrier.Generate(ctx, s.Agent.Role, s.Model, SummaryPrompt(title, Truncate(text, s.MaxChars)))
}
