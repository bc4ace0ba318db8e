package report

import (
	"encoding/json"
	"io"

	"github.com/veghdev/pypistat/internal/pypistats"
	"github.com/veghdev/pypistat/internal/stats"
)

// JSONWriter outputs tables as indented JSON.
// The shape mirrors the pypistats.org API response (package, type, data)
// so downstream tooling can treat both sources the same way.
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the table as indented JSON.
func (w *JSONWriter) Write(table *stats.Table) (int, error) {
	return w.encode(table)
}

// WriteRecent outputs the recent-downloads summary as indented JSON.
func (w *JSONWriter) WriteRecent(recent *pypistats.RecentStats) (int, error) {
	return w.encode(recent)
}

// encode marshals v with indentation and a trailing newline.
func (w *JSONWriter) encode(v any) (int, error) {
	counter := &countingWriter{w: w.output}
	encoder := json.NewEncoder(counter)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return counter.n, err
	}
	return counter.n, nil
}
