package history

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"go-newscrew/internal/crew"
)

func setupHistoryDB(t *testing.T) *gorm.DB {
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	dbConn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := dbConn.AutoMigrate(&Record{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return dbConn
}

func analysis(title string, finished time.Time, skipped bool) *crew.Analysis {
	a := &crew.Analysis{
		ID:         uuid.New(),
		URL:        "http://news.test/" + title,
		Title:      title,
		Category:   "Technology",
		Summary:    "summary of " + title,
		Text:       "body",
		Skipped:    skipped,
		Timings:    map[string]int64{"fetching": 12},
		FinishedAt: finished,
	}
	if skipped {
		a.Text = "Error: boom"
		a.Category, a.Summary = "", ""
	}
	return a
}

func TestStore_RecordAndGet(t *testing.T) {
	store := NewStore(setupHistoryDB(t))
	ctx := context.Background()
	a := analysis("chips", time.Now(), false)

	require.NoError(t, store.Record(ctx, a))

	rec, err := store.Get(ctx, a.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "chips", rec.Title)
	assert.Equal(t, "Technology", rec.Category)
	assert.Equal(t, "summary of chips", rec.Summary)

	var timings map[string]int64
	require.NoError(t, json.Unmarshal(rec.Timings, &timings))
	assert.Equal(t, int64(12), timings["fetching"])
}

func TestStore_SkippedStoresErrorText(t *testing.T) {
	store := NewStore(setupHistoryDB(t))
	a := analysis("down", time.Now(), true)
	require.NoError(t, store.Record(context.Background(), a))

	rec, err := store.Get(context.Background(), a.ID.String())
	require.NoError(t, err)
	assert.True(t, rec.Skipped)
	assert.Equal(t, "Error: boom", rec.Summary)
	assert.Contains(t, rec.Headline(), "[skipped]")
}

func TestStore_RecentNewestFirst(t *testing.T) {
	store := NewStore(setupHistoryDB(t))
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	for i, title := range []string{"first", "second", "third"} {
		require.NoError(t, store.Record(ctx, analysis(title, base.Add(time.Duration(i)*time.Minute), false)))
	}

	recs, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "third", recs[0].Title)
	assert.Equal(t, "second", recs[1].Title)
}

func TestStore_GetMissing(t *testing.T) {
	store := NewStore(setupHistoryDB(t))
	_, err := store.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestStore_Disabled(t *testing.T) {
	var store *Store = NewStore(nil)
	assert.False(t, store.Enabled())
	assert.ErrorIs(t, store.Record(context.Background(), analysis("x", time.Now(), false)), ErrDisabled)
	_, err := store.Recent(context.Background(), 5)
	assert.ErrorIs(t, err, ErrDisabled)
}
