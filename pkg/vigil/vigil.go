package vigil

import (
	"context"
	"fmt"
	"io"

	"github.com/crimson-sun/vigil/internal/anomaly"
	"github.com/crimson-sun/vigil/internal/classify"
	"github.com/crimson-sun/vigil/internal/pipeline"
	"github.com/crimson-sun/vigil/internal/summarize"
	"github.com/crimson-sun/vigil/internal/summarize/embed"
)

// SummaryCapability produces a natural-language digest of joined log
// text, bounded by word counts. Implementations must be safe for
// concurrent use.
type SummaryCapability interface {
	Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error)
}

// Vigil is a security log analyzer. It classifies error and warning
// records, flags statistical outliers, and produces a natural-language
// summary, all from one batch of raw log bytes. Safe for concurrent use.
type Vigil struct {
	pipeline *pipeline.Pipeline
	closers  []io.Closer
}

// New creates a Vigil instance. When a local model is configured this
// loads the ONNX encoder, an expensive operation (~100-300ms) — create
// once, reuse across requests.
func New(opts ...Option) (*Vigil, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	v := &Vigil{}

	capability, err := v.buildCapability(o)
	if err != nil {
		return nil, fmt.Errorf("vigil: %w", err)
	}

	counter := classify.New()
	counter.Exclusive = o.exclusiveCounts

	forest := anomaly.NewIsolationForest()
	if o.trees > 0 {
		forest.Trees = o.trees
	}
	if o.subsample > 0 {
		forest.Subsample = o.subsample
	}
	detector := anomaly.NewDetector(forest, o.seed)

	summarizer := summarize.New(capability, summarize.Config{
		MaxRecords: o.summaryWindow,
		MinLength:  o.summaryMinWords,
		MaxLength:  o.summaryMaxWords,
	})

	v.pipeline = pipeline.New(counter, detector, summarizer, pipeline.Config{
		Contamination:  o.contamination,
		SummaryTimeout: o.summaryTimeout,
	})
	return v, nil
}

// buildCapability selects the summarization backend from the options.
// Precedence: custom capability, OpenAI, local model, then disabled.
func (v *Vigil) buildCapability(o options) (summarize.Capability, error) {
	if o.capability != nil {
		return o.capability, nil
	}
	if o.openAIKey != "" {
		return summarize.NewOpenAI(o.openAIKey, o.openAIModel)
	}
	modelPath, vocabPath := resolveModelPaths(o)
	if modelPath != "" {
		enc, err := embed.NewEncoder(modelPath, vocabPath)
		if err != nil {
			return nil, err
		}
		v.closers = append(v.closers, enc)
		return summarize.NewExtractive(enc), nil
	}
	return summarize.Disabled{}, nil
}

// Analyze runs the full analysis over raw log bytes. Ingestion failure
// is the only error path; stage failures degrade to unavailable markers
// in the returned report.
func (v *Vigil) Analyze(ctx context.Context, data []byte) (Report, error) {
	return v.AnalyzeFile(ctx, data, "")
}

// AnalyzeFile is Analyze with a filename hint. A ".csv" extension makes
// comma-separated input parse as tabular records instead of plain lines.
func (v *Vigil) AnalyzeFile(ctx context.Context, data []byte, filename string) (Report, error) {
	report, err := v.pipeline.Analyze(ctx, data, filename)
	if err != nil {
		return reportFromInternal(report), err
	}
	return reportFromInternal(report), nil
}

// Close releases model resources. Must be called when the Vigil
// instance is no longer needed.
func (v *Vigil) Close() error {
	var firstErr error
	for _, c := range v.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
