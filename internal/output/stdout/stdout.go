// Package stdout writes JSON-encoded analysis reports to standard output.
package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/crimson-sun/vigil/internal/model"
	"github.com/crimson-sun/vigil/internal/output"
)

// Output writes each report as one JSON document to stdout: a single NDJSON
// line by default, indented when pretty is set.
type Output struct {
	enc *json.Encoder
}

// New creates a stdout Output.
func New(pretty bool) *Output {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Output{enc: enc}
}

func (o *Output) Write(_ context.Context, report model.AnalysisReport) error {
	if err := o.enc.Encode(output.ReportToMap(report)); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
