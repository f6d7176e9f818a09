package history

import (
	"time"

	"gorm.io/datatypes"
)

// Record is one finished analysis. Records are written after each run and
// only read back for listing; they never feed a later fetch.
type Record struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	RunID     string         `json:"run_id" gorm:"uniqueIndex;size:36;not null"`
	URL       string         `json:"url" gorm:"size:2048;not null"`
	Title     string         `json:"title"`
	Category  string         `json:"category"`
	Summary   string         `json:"summary" gorm:"type:text"`
	Skipped   bool           `json:"skipped"`
	Timings   datatypes.JSON `json:"timings_ms"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Headline is the one-line form used by the CLI history listing.
func (r *Record) Headline() string {
	label := r.Category
	if r.Skipped {
		label = "skipped"
	}
	return r.CreatedAt.Format("2006-01-02 15:04") + "  [" + label + "]  " + r.Title + "  " + r.URL
}
