// Package file appends analysis reports as NDJSON lines to a file.
package file

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/crimson-sun/vigil/internal/model"
	"github.com/crimson-sun/vigil/internal/output"
)

const defaultBufSize = 64 * 1024

// Output writes NDJSON reports with buffered I/O. Safe for concurrent use.
type Output struct {
	mu sync.Mutex
	f  *os.File
	w  *bufio.Writer
}

// New opens (or creates) the file at path in append mode.
func New(path string) (*Output, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("file output: open %s: %w", path, err)
	}
	return &Output{f: f, w: bufio.NewWriterSize(f, defaultBufSize)}, nil
}

// Write appends the report as one JSON line.
func (o *Output) Write(_ context.Context, report model.AnalysisReport) error {
	data, err := json.Marshal(output.ReportToMap(report))
	if err != nil {
		return fmt.Errorf("file output: marshal: %w", err)
	}
	data = append(data, '\n')

	o.mu.Lock()
	defer o.mu.Unlock()
	if _, err := o.w.Write(data); err != nil {
		return fmt.Errorf("file output: write: %w", err)
	}
	return nil
}

// Close flushes buffered data and closes the file.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.w.Flush(); err != nil {
		o.f.Close()
		return fmt.Errorf("file output: flush: %w", err)
	}
	return o.f.Close()
}
