package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/veghdev/pypistat/internal/pypistats"
	"github.com/veghdev/pypistat/internal/stats"
)

// ConsoleWriter outputs human-readable text tables.
// This format is designed for terminal display with aligned columns and
// grouped download counts.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors or a table-rendering library because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
type ConsoleWriter struct {
	baseWriter

	// printer formats download counts with locale-aware grouping
	// (1234567 renders as 1,234,567).
	printer *message.Printer
}

// NewConsoleWriter creates a ConsoleWriter that outputs to the given writer.
func NewConsoleWriter(output io.Writer) *ConsoleWriter {
	return &ConsoleWriter{
		baseWriter: newBaseWriter(output),
		printer:    message.NewPrinter(language.English),
	}
}

// Write outputs the table as aligned plain text.
func (w *ConsoleWriter) Write(table *stats.Table) (int, error) {
	var sb strings.Builder

	title := fmt.Sprintf("%s downloads for %s", table.Type, table.Package)
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", len(title)) + "\n")

	if table.Empty() {
		sb.WriteString("no data for the requested range\n")
		return io.WriteString(w.output, sb.String())
	}

	header := table.Header()
	rows := make([][]string, 0, len(table.Rows))
	for _, r := range table.Rows {
		row := []string{r.Date, r.Category, w.printer.Sprintf("%d", r.Downloads)}
		if table.HasPercent() {
			row = append(row, r.Percent)
		}
		rows = append(rows, row)
	}

	// Column widths from header and data.
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(pad(cell, widths[i]))
		}
		sb.WriteString("\n")
	}

	writeRow(header)
	for _, row := range rows {
		writeRow(row)
	}

	if !table.HasTotal() {
		sb.WriteString(w.printer.Sprintf("\ntotal downloads: %d\n", table.Total()))
	}

	return io.WriteString(w.output, sb.String())
}

// WriteRecent outputs the recent-downloads summary as plain text.
func (w *ConsoleWriter) WriteRecent(recent *pypistats.RecentStats) (int, error) {
	var sb strings.Builder

	title := fmt.Sprintf("recent downloads for %s", recent.Package)
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", len(title)) + "\n")
	sb.WriteString(w.printer.Sprintf("last day:   %d\n", recent.LastDay))
	sb.WriteString(w.printer.Sprintf("last week:  %d\n", recent.LastWeek))
	sb.WriteString(w.printer.Sprintf("last month: %d\n", recent.LastMonth))

	return io.WriteString(w.output, sb.String())
}

// pad right-pads a cell to the column width.
func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
