package model

// LogRecord is one normalized unit of log input: a line, or a flattened
// tabular row. Records are immutable once created and owned by the ordered
// slice the ingestor produces.
type LogRecord struct {
	Index int    // stable insertion order, 0-based
	Raw   string // original record text
}
