package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/veghdev/pypistat/internal/pypistats"
	"github.com/veghdev/pypistat/internal/statdate"
	"github.com/veghdev/pypistat/internal/stats"
)

// shapedTable returns a shaped sample table for writer tests.
func shapedTable(opts stats.ShapeOptions) *stats.Table {
	tbl := &stats.Table{
		Package: "pypistat",
		Type:    stats.TypeSystem,
		Rows: []stats.Row{
			{Date: "2022-01-01", Category: "Linux", Downloads: 1200},
			{Date: "2022-01-01", Category: "Windows", Downloads: 800},
		},
	}
	return tbl.Shape(opts)
}

// sampleRecent returns a recent-downloads summary for writer tests.
func sampleRecent() *pypistats.RecentStats {
	return &pypistats.RecentStats{
		Package:   "pypistat",
		LastDay:   1234,
		LastWeek:  8000,
		LastMonth: 32000,
	}
}

// TestCSVWriter tests CSV output layout.
func TestCSVWriter(t *testing.T) {
	t.Parallel()

	t.Run("without derived columns", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewCSVWriter(&buf).Write(shapedTable(stats.ShapeOptions{}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		want := "date,category,downloads\n" +
			"2022-01-01,Linux,1200\n" +
			"2022-01-01,Windows,800\n"
		if buf.String() != want {
			t.Errorf("got:\n%s\nexpected:\n%s", buf.String(), want)
		}
	})

	t.Run("with percent and total", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewCSVWriter(&buf).Write(shapedTable(stats.ShapeOptions{WithPercent: true, WithTotal: true})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "date,category,downloads,percent\n" +
			"2022-01-01,Linux,1200,60.00\n" +
			"2022-01-01,Windows,800,40.00\n" +
			",Total,2000,100.00\n"
		if buf.String() != want {
			t.Errorf("got:\n%s\nexpected:\n%s", buf.String(), want)
		}
	})

	t.Run("empty table writes nothing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		empty := (&stats.Table{Package: "pypistat", Type: stats.TypeOverall}).Shape(stats.ShapeOptions{})
		n, err := NewCSVWriter(&buf).Write(empty)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 0 || buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})
}

// TestConsoleWriter tests plain-text output.
func TestConsoleWriter(t *testing.T) {
	t.Parallel()

	t.Run("table output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewConsoleWriter(&buf).Write(shapedTable(stats.ShapeOptions{})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "system downloads for pypistat") {
			t.Errorf("missing title in output:\n%s", out)
		}
		if !strings.Contains(out, "1,200") {
			t.Errorf("expected grouped download count in output:\n%s", out)
		}
		if !strings.Contains(out, "total downloads: 2,000") {
			t.Errorf("expected total line in output:\n%s", out)
		}
	})

	t.Run("total line is omitted when the table has a total row", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewConsoleWriter(&buf).Write(shapedTable(stats.ShapeOptions{WithTotal: true})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "total downloads:") {
			t.Errorf("unexpected total line:\n%s", buf.String())
		}
		if !strings.Contains(buf.String(), "Total") {
			t.Errorf("expected total row:\n%s", buf.String())
		}
	})

	t.Run("empty table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		empty := (&stats.Table{Package: "pypistat", Type: stats.TypeOverall}).Shape(stats.ShapeOptions{})
		if _, err := NewConsoleWriter(&buf).Write(empty); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "no data for the requested range") {
			t.Errorf("missing empty notice:\n%s", buf.String())
		}
	})

	t.Run("recent summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewConsoleWriter(&buf).WriteRecent(sampleRecent()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "last week:  8,000") {
			t.Errorf("missing last week line:\n%s", buf.String())
		}
	})
}

// TestJSONWriter tests JSON output shape.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewJSONWriter(&buf).Write(shapedTable(stats.ShapeOptions{WithPercent: true})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"package": "pypistat"`, `"type": "system"`, `"percent": "60.00"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in output:\n%s", want, out)
		}
	}
}

// TestMarkdownWriter tests Markdown output.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(shapedTable(stats.ShapeOptions{})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "# PyPI Download Statistics") {
		t.Errorf("missing H1 in output:\n%s", out)
	}
	if !strings.Contains(out, "`pypistat`") {
		t.Errorf("missing package cell in output:\n%s", out)
	}
	if !strings.Contains(out, "Linux") {
		t.Errorf("missing data row in output:\n%s", out)
	}
}

// TestMultiWriter tests fan-out to multiple writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	mw := NewMultiWriter(NewCSVWriter(&a), NewJSONWriter(&b))

	if _, err := mw.Write(shapedTable(stats.ShapeOptions{})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Len() == 0 || b.Len() == 0 {
		t.Error("expected both writers to receive output")
	}
}

// TestFileName tests bucket file naming.
func TestFileName(t *testing.T) {
	t.Parallel()

	bucket, err := statdate.New("2022-01-02", "2022-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		period statdate.Period
		want   string
	}{
		{period: statdate.PeriodNone, want: "system.csv"},
		{period: statdate.PeriodMonth, want: "2022-01_system.csv"},
		{period: statdate.PeriodDay, want: "2022-01-02_system.csv"},
	}
	for _, tt := range tests {
		if got := FileName(stats.TypeSystem, tt.period, bucket); got != tt.want {
			t.Errorf("%s: got %q, expected %q", tt.period, got, tt.want)
		}
	}
}

// TestWriteCSVFile tests writing a bucket file to an output directory.
func TestWriteCSVFile(t *testing.T) {
	t.Parallel()

	t.Run("creates directory and file", func(t *testing.T) {
		t.Parallel()

		outdir := filepath.Join(t.TempDir(), "stats", "out")
		if err := WriteCSVFile(outdir, "system.csv", shapedTable(stats.ShapeOptions{})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(filepath.Join(outdir, "system.csv"))
		if err != nil {
			t.Fatalf("failed to read output file: %v", err)
		}
		if !strings.HasPrefix(string(data), "date,category,downloads\n") {
			t.Errorf("unexpected file content:\n%s", data)
		}
	})

	t.Run("empty table creates no file", func(t *testing.T) {
		t.Parallel()

		outdir := t.TempDir()
		empty := (&stats.Table{Package: "pypistat", Type: stats.TypeOverall}).Shape(stats.ShapeOptions{})
		if err := WriteCSVFile(outdir, "overall.csv", empty); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(filepath.Join(outdir, "overall.csv")); !os.IsNotExist(err) {
			t.Error("expected no file for an empty table")
		}
	})
}
