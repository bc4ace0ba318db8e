package report

import (
	"io"

	"github.com/veghdev/pypistat/internal/pypistats"
	"github.com/veghdev/pypistat/internal/stats"
)

// Writer defines the interface for statistics output.
// Implementations write shaped tables in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the table to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(table *stats.Table) (int, error)

	// WriteRecent outputs a recent-downloads summary.
	WriteRecent(recent *pypistats.RecentStats) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write tables, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the table to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(table *stats.Table) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(table)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteRecent outputs the summary to all configured Writers.
func (m *MultiWriter) WriteRecent(recent *pypistats.RecentStats) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteRecent(recent)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for statistics writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
