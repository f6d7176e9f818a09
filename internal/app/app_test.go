package app

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-newscrew/internal/config"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.ApplyDefaults()

	_, err := New(context.Background(), cfg, zerolog.Nop())
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestOpenStores_Disabled(t *testing.T) {
	cfg := &config.Config{}
	cfg.ApplyDefaults()

	store, counter, rdb, err := OpenStores(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, store.Enabled())
	assert.Nil(t, counter)
	assert.Nil(t, rdb)
}

func TestNew_WiresCrew(t *testing.T) {
	cfg := &config.Config{}
	cfg.Gemini.APIKey = "test-key"
	cfg.ApplyDefaults()

	a, err := New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"News Fetcher", "Categorizer", "Summarizer"}, a.Crew.Roles())
	assert.Empty(t, a.Crew.Recorders)
}
