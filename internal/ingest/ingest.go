// Package ingest normalizes uploaded log bytes into an ordered record slice.
//
// Structured input is tried first: comma-delimited data with a header row is
// flattened row-by-row. Anything else falls back to one record per line,
// which is the common case for .log and .txt uploads.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/crimson-sun/vigil/internal/model"
)

// ErrInvalidEncoding is returned when the input is not valid UTF-8 text.
// This is the only fatal ingestion failure: without decodable records no
// downstream stage can run.
var ErrInvalidEncoding = errors.New("ingest: input is not valid UTF-8 text")

// Ingest parses raw bytes into ordered LogRecords. hint is an optional
// filename (or extension) supplied by the caller; a .csv hint biases toward
// structured parsing but never forces it. Empty input yields an empty slice.
func Ingest(data []byte, hint string) ([]model.LogRecord, error) {
	if len(data) == 0 {
		return []model.LogRecord{}, nil
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w (hint=%q)", ErrInvalidEncoding, hint)
	}

	text := string(data)
	if records, ok := parseTabular(text, hint); ok {
		return records, nil
	}
	return parseLines(text), nil
}

// parseTabular attempts CSV parsing with a header row. It succeeds only when
// the input genuinely looks tabular: at least two columns, consistent field
// counts, and at least one data row beneath the header. Each data row is
// flattened into a single record by space-joining its fields.
func parseTabular(text, hint string) ([]model.LogRecord, bool) {
	if !looksTabular(text, hint) {
		return nil, false
	}

	r := csv.NewReader(strings.NewReader(text))
	rows, err := r.ReadAll()
	if err != nil || len(rows) < 2 || len(rows[0]) < 2 {
		return nil, false
	}

	records := make([]model.LogRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		records = append(records, model.LogRecord{
			Index: i,
			Raw:   strings.Join(row, " "),
		})
	}
	return records, true
}

// looksTabular gates the CSV attempt: a .csv extension hint, or a comma in
// the first line. Plain log lines rarely contain commas before the first
// newline, so this keeps syslog-style input on the line-oriented path.
func looksTabular(text, hint string) bool {
	if strings.EqualFold(filepath.Ext(hint), ".csv") {
		return true
	}
	first := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		first = text[:i]
	}
	return strings.Contains(first, ",")
}

// parseLines splits text into one record per line, preserving file order.
// Trailing carriage returns are stripped; a trailing newline does not
// produce an empty final record.
func parseLines(text string) []model.LogRecord {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []model.LogRecord{}
	}

	lines := strings.Split(text, "\n")
	records := make([]model.LogRecord, len(lines))
	for i, line := range lines {
		records[i] = model.LogRecord{
			Index: i,
			Raw:   strings.TrimSuffix(line, "\r"),
		}
	}
	return records
}
