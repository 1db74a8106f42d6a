package vigil

import "github.com/crimson-sun/vigil/internal/model"

// Report is the stable public result of one analysis invocation.
// Internal representations may evolve independently without breaking
// consumers. The shape is display-agnostic: plain counts, findings, and
// text, with per-stage availability markers.
type Report struct {
	ID             string         `json:"id"`
	Classification Classification `json:"classification"`
	Anomalies      []Anomaly      `json:"anomalies"`
	Summary        Summary        `json:"summary"`
	Stages         Stages         `json:"stages"`
}

// Classification holds error/warning counts. With the default
// non-exclusive counting, ErrorCount+WarningCount may exceed Total.
type Classification struct {
	Total        int `json:"total"`
	ErrorCount   int `json:"error_count"`
	WarningCount int `json:"warning_count"`
}

// Anomaly is one flagged record, ordered by RecordIndex within the report.
type Anomaly struct {
	RecordIndex int     `json:"record_index"`
	Score       float64 `json:"score"`
	Anomalous   bool    `json:"is_anomalous"`
}

// Summary is the natural-language digest. Empty Text means no summary was
// produced; check Stages.Summary for the reason.
type Summary struct {
	Text              string `json:"text"`
	SourceRecordCount int    `json:"source_record_count"`
}

// StageStatus marks whether a stage produced its result.
type StageStatus struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// Stages carries one status per pipeline stage.
type Stages struct {
	Classification StageStatus `json:"classification"`
	Anomaly        StageStatus `json:"anomaly"`
	Summary        StageStatus `json:"summary"`
}

func reportFromInternal(r model.AnalysisReport) Report {
	anomalies := make([]Anomaly, len(r.Anomalies))
	for i, f := range r.Anomalies {
		anomalies[i] = Anomaly{
			RecordIndex: f.RecordIndex,
			Score:       f.Score,
			Anomalous:   f.Anomalous,
		}
	}
	return Report{
		ID: r.ID,
		Classification: Classification{
			Total:        r.Classification.Total,
			ErrorCount:   r.Classification.ErrorCount,
			WarningCount: r.Classification.WarningCount,
		},
		Anomalies: anomalies,
		Summary: Summary{
			Text:              r.Summary.Text,
			SourceRecordCount: r.Summary.SourceRecordCount,
		},
		Stages: Stages{
			Classification: StageStatus(r.ClassificationStatus),
			Anomaly:        StageStatus(r.AnomalyStatus),
			Summary:        StageStatus(r.SummaryStatus),
		},
	}
}
