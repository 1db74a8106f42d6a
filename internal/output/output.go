// Package output defines destinations for analysis reports.
package output

import (
	"context"

	"github.com/crimson-sun/vigil/internal/model"
)

// Output is a report destination. One report is written per analysis
// invocation.
type Output interface {
	Write(ctx context.Context, report model.AnalysisReport) error
	Close() error
}

// ReportToMap converts a report into the canonical snake_case structure
// used for JSON serialization. The shape carries no rendering concerns:
// plain counts, findings, and text, consumable by any display layer.
func ReportToMap(r model.AnalysisReport) map[string]any {
	anomalies := make([]any, 0, len(r.Anomalies))
	for _, f := range r.Anomalies {
		anomalies = append(anomalies, map[string]any{
			"record_index": f.RecordIndex,
			"score":        f.Score,
			"is_anomalous": f.Anomalous,
		})
	}

	return map[string]any{
		"id": r.ID,
		"classification": map[string]any{
			"total":         r.Classification.Total,
			"error_count":   r.Classification.ErrorCount,
			"warning_count": r.Classification.WarningCount,
		},
		"anomalies": anomalies,
		"summary": map[string]any{
			"text":                r.Summary.Text,
			"source_record_count": r.Summary.SourceRecordCount,
		},
		"stages": map[string]any{
			"classification": statusToMap(r.ClassificationStatus),
			"anomaly":        statusToMap(r.AnomalyStatus),
			"summary":        statusToMap(r.SummaryStatus),
		},
	}
}

func statusToMap(s model.StageStatus) map[string]any {
	m := map[string]any{"available": s.Available}
	if s.Reason != "" {
		m["reason"] = s.Reason
	}
	return m
}
