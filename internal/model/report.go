package model

// ClassificationResult holds error/warning counts over a record batch.
// Counting is non-exclusive by default: a record containing both "error"
// and "warn" increments both counters, so ErrorCount+WarningCount may
// exceed Total. See classify.Counter for the exclusive mode.
type ClassificationResult struct {
	Total        int
	ErrorCount   int
	WarningCount int
}

// AnomalyFinding is the outlier verdict for a single record.
type AnomalyFinding struct {
	RecordIndex int
	Score       float64 // isolation score in (0, 1]; higher = more isolated
	Anomalous   bool
}

// SummaryResult is the condensed digest of a record window.
// An empty Text is valid and means "no summary available".
type SummaryResult struct {
	Text              string
	SourceRecordCount int
}

// StageStatus marks whether a pipeline stage produced its result.
// Reason is empty when Available is true.
type StageStatus struct {
	Available bool
	Reason    string
}

// AnalysisReport aggregates the outputs of one pipeline run. It is
// constructed once per invocation and never mutated afterwards; a failed
// stage leaves its zero-value field in place with Available=false rather
// than aborting the report.
type AnalysisReport struct {
	ID string // unique per invocation

	Classification       ClassificationResult
	ClassificationStatus StageStatus

	// Anomalies retains only the anomalous findings, ordered by record index.
	Anomalies     []AnomalyFinding
	AnomalyStatus StageStatus

	Summary       SummaryResult
	SummaryStatus StageStatus
}
