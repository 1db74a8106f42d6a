// Package pipeline orchestrates one analysis invocation: ingest once, then
// classification, anomaly detection, and summarization as independent
// stages over the shared immutable record slice.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/crimson-sun/vigil/internal/anomaly"
	"github.com/crimson-sun/vigil/internal/classify"
	"github.com/crimson-sun/vigil/internal/ingest"
	"github.com/crimson-sun/vigil/internal/model"
	"github.com/crimson-sun/vigil/internal/summarize"
)

// DefaultSummaryTimeout bounds the summarization stage per invocation.
// Summarization is the only latency-heavy stage; expiry degrades it to
// unavailable instead of failing the report.
const DefaultSummaryTimeout = 30 * time.Second

// Config tunes one Pipeline. Zero values select defaults.
type Config struct {
	Contamination  float64       // expected outlier fraction, default 0.1
	SummaryTimeout time.Duration // per-invocation summarization bound
}

// Pipeline coordinates the analysis stages. Construct once at startup with
// long-lived capabilities and reuse across invocations; Analyze keeps no
// state between calls and is safe for concurrent use as long as the
// injected capabilities are.
type Pipeline struct {
	counter    *classify.Counter
	detector   *anomaly.Detector
	summarizer *summarize.Summarizer
	cfg        Config
}

// New creates a Pipeline from the given stage components.
func New(counter *classify.Counter, detector *anomaly.Detector, summarizer *summarize.Summarizer, cfg Config) *Pipeline {
	if cfg.Contamination == 0 {
		cfg.Contamination = anomaly.DefaultContamination
	}
	if cfg.SummaryTimeout <= 0 {
		cfg.SummaryTimeout = DefaultSummaryTimeout
	}
	return &Pipeline{
		counter:    counter,
		detector:   detector,
		summarizer: summarizer,
		cfg:        cfg,
	}
}

// Analyze runs the full pipeline over raw bytes. Ingestion failure is the
// only fatal path and returns an all-unavailable report alongside the
// error. Stage failures are logged, recorded as unavailable markers, and
// never prevent the other stages from populating their fields.
func (p *Pipeline) Analyze(ctx context.Context, data []byte, hint string) (model.AnalysisReport, error) {
	report := model.AnalysisReport{ID: uuid.NewString()}

	records, err := ingest.Ingest(data, hint)
	if err != nil {
		reason := err.Error()
		report.ClassificationStatus = model.StageStatus{Reason: reason}
		report.AnomalyStatus = model.StageStatus{Reason: reason}
		report.SummaryStatus = model.StageStatus{Reason: reason}
		return report, fmt.Errorf("pipeline: %w", err)
	}

	// Records are immutable from here on; the stages only read them.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		report.Classification = p.counter.Classify(records)
		report.ClassificationStatus = model.StageStatus{Available: true}
		return nil
	})

	g.Go(func() error {
		findings, err := p.detector.Detect(records, p.cfg.Contamination)
		if err != nil {
			slog.Warn("anomaly detection degraded", "report_id", report.ID, "error", err)
			report.AnomalyStatus = model.StageStatus{Reason: err.Error()}
			return nil
		}
		report.Anomalies = anomalousOnly(findings)
		report.AnomalyStatus = model.StageStatus{Available: true}
		return nil
	})

	g.Go(func() error {
		sctx, cancel := context.WithTimeout(gctx, p.cfg.SummaryTimeout)
		defer cancel()

		summary, err := p.summarizer.Summarize(sctx, records)
		if err != nil {
			slog.Warn("summarization degraded", "report_id", report.ID, "error", err)
			report.Summary = summary // window count survives the failure
			report.SummaryStatus = model.StageStatus{Reason: err.Error()}
			return nil
		}
		report.Summary = summary
		report.SummaryStatus = model.StageStatus{Available: true}
		return nil
	})

	// Stage goroutines never return errors; recoverable failures are
	// already folded into the report.
	_ = g.Wait()

	return report, nil
}

// anomalousOnly filters findings down to the anomalous ones. Detect
// returns findings in record order, so the result stays ordered by index.
func anomalousOnly(findings []model.AnomalyFinding) []model.AnomalyFinding {
	var out []model.AnomalyFinding
	for _, f := range findings {
		if f.Anomalous {
			out = append(out, f)
		}
	}
	return out
}
