package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"go-newscrew/internal/crew"
)

// ErrDisabled is returned when no database is configured.
var ErrDisabled = errors.New("history is disabled")

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Store persists analyses with gorm. A nil *Store is valid and disabled.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open database; a nil db gives a nil (disabled) store.
func NewStore(db *gorm.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

// Enabled reports whether the store has a database behind it.
func (s *Store) Enabled() bool {
	return s != nil && s.db != nil
}

// Record implements crew.Recorder.
func (s *Store) Record(ctx context.Context, a *crew.Analysis) error {
	if !s.Enabled() {
		return ErrDisabled
	}
	timings, err := json.Marshal(a.Timings)
	if err != nil {
		return fmt.Errorf("failed to encode timings: %w", err)
	}
	rec := Record{
		RunID:     a.ID.String(),
		URL:       a.URL,
		Title:     a.Title,
		Category:  a.Category,
		Summary:   a.Result(),
		Skipped:   a.Skipped,
		Timings:   datatypes.JSON(timings),
		CreatedAt: a.FinishedAt,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// Recent returns the newest records first. limit is clamped to [1, MaxLimit].
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	var records []Record
	err := s.db.WithContext(ctx).Order("created_at desc").Order("id desc").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return records, nil
}

// Get looks a record up by its run id.
func (s *Store) Get(ctx context.Context, runID string) (*Record, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}
	var rec Record
	if err := s.db.WithContext(ctx).Where("run_id = ?", runID).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}
