// Package classify counts error and warning records by substring matching.
package classify

import (
	"strings"

	"github.com/crimson-sun/vigil/internal/model"
)

// Counter labels records by case-insensitive substring matching: "error"
// marks an error record, "warn" a warning record.
//
// By default counting is non-exclusive: a record containing both substrings
// increments both counters, so ErrorCount+WarningCount can exceed Total.
// This mirrors the observed dashboard behavior and is kept as a documented
// quirk. Set Exclusive to count a both-matching record only as an error.
type Counter struct {
	Exclusive bool
}

// New creates a Counter in the default non-exclusive mode.
func New() *Counter {
	return &Counter{}
}

// Classify counts error and warning records. Pure and deterministic:
// identical input yields an identical result.
func (c *Counter) Classify(records []model.LogRecord) model.ClassificationResult {
	result := model.ClassificationResult{Total: len(records)}
	for _, r := range records {
		lower := strings.ToLower(r.Raw)
		isError := strings.Contains(lower, "error")
		if isError {
			result.ErrorCount++
		}
		if strings.Contains(lower, "warn") && !(c.Exclusive && isError) {
			result.WarningCount++
		}
	}
	return result
}
