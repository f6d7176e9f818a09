// Package app wires the fetcher, model client, stores and crew from config.
//
// Both the server binary and the CLI build their dependency graph here so
// the pipeline behaves the same behind either front end.
package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"go-newscrew/internal/agent"
	"go-newscrew/internal/config"
	"go-newscrew/internal/crew"
	"go-newscrew/internal/db"
	"go-newscrew/internal/fetcher"
	"go-newscrew/internal/history"
	"go-newscrew/internal/llm"
	redisdb "go-newscrew/internal/redis"
	"go-newscrew/internal/usage"
)

// App bundles everything a front end needs.
type App struct {
	Config  *config.Config
	Crew    *crew.Crew
	History *history.Store
	Usage   *usage.Counter
	Log     zerolog.Logger

	rdb *redis.Client
}

// OpenStores connects the optional history database and redis counters.
// It does not need a model API key.
func OpenStores(cfg *config.Config, log zerolog.Logger) (*history.Store, *usage.Counter, *redis.Client, error) {
	if err := db.Init(cfg, log); err != nil {
		return nil, nil, nil, fmt.Errorf("DB init error: %w", err)
	}
	rdb := redisdb.NewClient(cfg)
	return history.NewStore(db.DB), usage.NewCounter(rdb, log), rdb, nil
}

// New builds the full pipeline. The config must carry a model API key.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, counter, rdb, err := OpenStores(cfg, log)
	if err != nil {
		return nil, err
	}

	model, err := llm.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, log)
	if err != nil {
		return nil, err
	}

	retrier := llm.NewRetrier(cfg.Retry.Attempts, cfg.RetryDelay(), log)
	if counter != nil {
		retrier.Observe = counter.Observe
	}

	f := fetcher.New(fetcher.Options{
		Timeout:   cfg.FetchTimeout(),
		UserAgent: cfg.Fetcher.UserAgent,
		MaxSizeMB: cfg.Fetcher.MaxPageSizeMB,
		Mode:      cfg.Fetcher.Extractor,
	}, log)

	var recorders []crew.Recorder
	if store.Enabled() {
		recorders = append(recorders, store)
	}
	if counter != nil {
		recorders = append(recorders, counter)
	}

	c := crew.New(f,
		agent.NewCategorizer(model, retrier, cfg.Limits.CategoryChars, log),
		agent.NewSummarizer(model, retrier, cfg.Limits.SummaryChars, log),
		log, recorders...)

	return &App{
		Config:  cfg,
		Crew:    c,
		History: store,
		Usage:   counter,
		Log:     log,
		rdb:     rdb,
	}, nil
}

// Close releases the redis connection pool.
func (a *App) Close() error {
	if a.rdb != nil {
		return a.rdb.Close()
	}
	return nil
}
