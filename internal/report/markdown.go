package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/veghdev/pypistat/internal/pypistats"
	"github.com/veghdev/pypistat/internal/stats"
)

// MarkdownWriter outputs statistics in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the table as a Markdown document.
func (w *MarkdownWriter) Write(table *stats.Table) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("PyPI Download Statistics")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Package", "`" + table.Package + "`"},
			{"Statistic", table.Type.String()},
			{"Rows", strconv.Itoa(len(table.Rows))},
			{"Total Downloads", strconv.FormatInt(table.Total(), 10)},
		},
	})
	md.PlainText("")

	md.H2("Downloads")
	md.PlainText("")

	if table.Empty() {
		md.PlainText("No data for the requested range.")
		return len(md.String()), md.Build()
	}

	header := make([]string, 0, 4)
	for _, h := range table.Header() {
		header = append(header, capitalize(h))
	}
	md.Table(markdown.TableSet{
		Header: header,
		Rows:   table.Records(),
	})

	return len(md.String()), md.Build()
}

// WriteRecent outputs the recent-downloads summary as a Markdown document.
func (w *MarkdownWriter) WriteRecent(recent *pypistats.RecentStats) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("PyPI Recent Downloads")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Period", "Downloads"},
		Rows: [][]string{
			{"Last Day", strconv.FormatInt(recent.LastDay, 10)},
			{"Last Week", strconv.FormatInt(recent.LastWeek, 10)},
			{"Last Month", strconv.FormatInt(recent.LastMonth, 10)},
		},
	})

	return len(md.String()), md.Build()
}

// capitalize upper-cases the first ASCII letter of a header cell.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
