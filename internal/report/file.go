package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/veghdev/pypistat/internal/statdate"
	"github.com/veghdev/pypistat/internal/stats"
)

// FileName returns the CSV file name for one bucket of a statistics pull.
// The name encodes the bucket granularity:
//
//	none  -> overall.csv
//	month -> 2022-01_overall.csv
//	day   -> 2022-01-02_overall.csv
func FileName(typ stats.Type, period statdate.Period, bucket statdate.StatDate) string {
	switch period {
	case statdate.PeriodDay:
		return bucket.Start().Format(statdate.ISODate) + "_" + typ.String() + ".csv"
	case statdate.PeriodMonth:
		return bucket.Start().Format("2006-01") + "_" + typ.String() + ".csv"
	default:
		return typ.String() + ".csv"
	}
}

// WriteCSVFile writes the table as CSV to outdir/name, creating outdir if
// needed. An empty table produces no file: a date-named CSV with only a
// header would look like a day with zero rows rather than absent data.
func WriteCSVFile(outdir, name string, table *stats.Table) error {
	if table.Empty() {
		return nil
	}

	if err := os.MkdirAll(outdir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outdir, name)
	f, err := os.Create(path) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if _, err := NewCSVWriter(f).Write(table); err != nil {
		_ = f.Close() //nolint:errcheck // Write error takes precedence
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	return nil
}
