// Package anomaly scores log records with an unsupervised outlier model.
// The feature is deliberately simple: the character length of each record.
// Unusually long or short entries (stack traces, injection payloads,
// truncated writes) surface as outliers.
package anomaly

import (
	"errors"
	"fmt"

	"github.com/crimson-sun/vigil/internal/model"
)

// Defaults match the reference dashboard's tuning.
const (
	DefaultContamination = 0.1
	DefaultSeed          = 42
)

// ErrUnavailable signals that model fitting failed and the findings are
// empty. Recoverable: the caller degrades this stage instead of aborting
// the report.
var ErrUnavailable = errors.New("anomaly: detection unavailable")

// OutlierModel is the pluggable detection capability. Implementations fit
// over the whole feature batch and return one label per point (-1 outlier,
// 1 inlier) alongside raw scores. Must be deterministic for a fixed seed
// and safe for concurrent calls.
type OutlierModel interface {
	FitPredict(features []float64, seed int64, contamination float64) (labels []int, scores []float64, err error)
}

// Detector runs an OutlierModel over record lengths. Construct once at
// startup and reuse; Detect holds no state between calls.
type Detector struct {
	model OutlierModel
	seed  int64
}

// NewDetector creates a Detector around the given model. The seed fixes
// the model's randomness so repeated runs over the same batch agree.
func NewDetector(m OutlierModel, seed int64) *Detector {
	return &Detector{model: m, seed: seed}
}

// Detect returns one finding per record, in record order. Batches smaller
// than 2 records yield empty findings: no meaningful model fits a single
// point. A contamination of 0 selects DefaultContamination. Model failures
// return ErrUnavailable with no findings.
func (d *Detector) Detect(records []model.LogRecord, contamination float64) ([]model.AnomalyFinding, error) {
	if len(records) < 2 {
		return []model.AnomalyFinding{}, nil
	}
	if contamination == 0 {
		contamination = DefaultContamination
	}

	features := make([]float64, len(records))
	for i, r := range records {
		features[i] = float64(len(r.Raw))
	}

	labels, scores, err := d.model.FitPredict(features, d.seed, contamination)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(labels) != len(records) || len(scores) != len(records) {
		return nil, fmt.Errorf("%w: model returned %d labels for %d records", ErrUnavailable, len(labels), len(records))
	}

	findings := make([]model.AnomalyFinding, len(records))
	for i, r := range records {
		findings[i] = model.AnomalyFinding{
			RecordIndex: r.Index,
			Score:       scores[i],
			Anomalous:   labels[i] == -1,
		}
	}
	return findings, nil
}
