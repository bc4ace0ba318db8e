package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/veghdev/pypistat/internal/pypistats"
	"github.com/veghdev/pypistat/internal/stats"
)

// CSVWriter outputs tables as CSV.
// The column layout matches the table header: date, category, downloads,
// and percent when the table was shaped with it.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the table as CSV with a header row.
// An empty table produces no output at all, not even a header, so that
// callers can skip creating files for empty buckets.
func (w *CSVWriter) Write(table *stats.Table) (int, error) {
	if table.Empty() {
		return 0, nil
	}

	counter := &countingWriter{w: w.output}
	cw := csv.NewWriter(counter)

	if err := cw.Write(table.Header()); err != nil {
		return counter.n, fmt.Errorf("write csv header: %w", err)
	}
	for _, record := range table.Records() {
		if err := cw.Write(record); err != nil {
			return counter.n, fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return counter.n, fmt.Errorf("flush csv: %w", err)
	}
	return counter.n, nil
}

// WriteRecent outputs the recent-downloads summary as a two-column CSV.
func (w *CSVWriter) WriteRecent(recent *pypistats.RecentStats) (int, error) {
	counter := &countingWriter{w: w.output}
	cw := csv.NewWriter(counter)

	records := [][]string{
		{"period", "downloads"},
		{"last_day", fmt.Sprintf("%d", recent.LastDay)},
		{"last_week", fmt.Sprintf("%d", recent.LastWeek)},
		{"last_month", fmt.Sprintf("%d", recent.LastMonth)},
	}
	for _, record := range records {
		if err := cw.Write(record); err != nil {
			return counter.n, fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return counter.n, fmt.Errorf("flush csv: %w", err)
	}
	return counter.n, nil
}

// countingWriter tracks bytes written so Write can report them through
// the csv.Writer's buffering.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
