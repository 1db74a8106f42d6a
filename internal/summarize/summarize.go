// Package summarize condenses a bounded window of log records into a short
// natural-language digest via a pluggable summarization capability.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/crimson-sun/vigil/internal/model"
)

// Defaults match the reference dashboard's tuning: the first 50 records,
// summarized into 30 to 120 words.
const (
	DefaultMaxRecords = 50
	DefaultMinLength  = 30
	DefaultMaxLength  = 120
)

// ErrUnavailable signals that the capability failed or timed out and the
// summary text is empty. Recoverable: the caller degrades this stage
// instead of aborting the report.
var ErrUnavailable = errors.New("summarize: summarization unavailable")

// Disabled is the Capability used when no summarization backend is
// configured. Every call reports unavailability, which degrades the
// summary stage without affecting the rest of the report.
type Disabled struct{}

func (Disabled) Summarize(context.Context, string, int, int) (string, error) {
	return "", errors.New("no summarization capability configured")
}

// Capability is the pluggable summarization backend. Implementations bound
// the output to [minWords, maxWords] and honor context cancellation.
// A capability is loaded once at startup and reused across invocations;
// implementations document their concurrency guarantees.
type Capability interface {
	Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error)
}

// Config bounds the summarization window. Zero fields select defaults.
type Config struct {
	MaxRecords int // records consumed from the head of the batch
	MinLength  int // lower word bound for the digest
	MaxLength  int // upper word bound for the digest
}

// Summarizer is the pipeline stage wrapping a Capability.
type Summarizer struct {
	capability Capability
	cfg        Config
}

// New creates a Summarizer around the given capability.
func New(c Capability, cfg Config) *Summarizer {
	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = DefaultMaxRecords
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = DefaultMinLength
	}
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = DefaultMaxLength
	}
	return &Summarizer{capability: c, cfg: cfg}
}

// Summarize joins the first MaxRecords records with single spaces and runs
// the capability over the result. An empty batch yields an empty result
// with no error; a capability failure yields an empty result wrapped in
// ErrUnavailable, with SourceRecordCount still reporting the window size.
func (s *Summarizer) Summarize(ctx context.Context, records []model.LogRecord) (model.SummaryResult, error) {
	if len(records) == 0 {
		return model.SummaryResult{}, nil
	}

	window := records
	if len(window) > s.cfg.MaxRecords {
		window = window[:s.cfg.MaxRecords]
	}
	n := len(window)

	parts := make([]string, n)
	for i, r := range window {
		parts[i] = r.Raw
	}
	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" {
		return model.SummaryResult{SourceRecordCount: n}, nil
	}

	out, err := s.capability.Summarize(ctx, text, s.cfg.MinLength, s.cfg.MaxLength)
	if err != nil {
		return model.SummaryResult{SourceRecordCount: n}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return model.SummaryResult{
		Text:              strings.TrimSpace(out),
		SourceRecordCount: n,
	}, nil
}
