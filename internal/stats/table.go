package stats

import (
	"sort"
	"strconv"
	"time"

	"github.com/veghdev/pypistat/internal/statdate"
)

// TotalCategory is the category name used for the derived grand-total row.
const TotalCategory = "Total"

// Row is a single statistics entry.
// The total row is marked by an empty Date and the TotalCategory category.
type Row struct {
	// Date is the day the downloads were counted, in ISO format.
	// Empty for the derived total row.
	Date string `json:"date,omitempty"`

	// Category is the breakdown bucket, e.g. "3.10", "Linux", or
	// "with_mirrors". Empty for overall tables without mirror split.
	Category string `json:"category,omitempty"`

	// Downloads is the download count for this date and category.
	Downloads int64 `json:"downloads"`

	// Percent is the share of this row in the table total, formatted
	// with two decimals. Empty unless the table was shaped with the
	// percent column enabled.
	Percent string `json:"percent,omitempty"`
}

// Table holds the statistics for one package, one statistic type, and one
// date range. Rows are raw API data until Shape derives the optional
// percent column and total row.
type Table struct {
	// Package is the PyPI package the statistics belong to.
	Package string `json:"package"`

	// Type is the statistic type of the table.
	Type Type `json:"type"`

	// Rows are the statistics entries. After Shape, rows are sorted by
	// (date, category) with the total row, if any, last.
	Rows []Row `json:"data"`

	// hasPercent records whether Shape populated the percent column.
	hasPercent bool

	// hasTotal records whether Shape appended a total row.
	hasTotal bool
}

// ShapeOptions controls the derived parts of a shaped table.
//
// The zero value drops both the percent column and the total row, which
// is the default behavior of the tool. CLI flags opt back in.
type ShapeOptions struct {
	// WithPercent derives a percent-share column from the download counts.
	WithPercent bool

	// WithTotal appends a grand-total row with an empty date.
	WithTotal bool
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// HasPercent reports whether the percent column was derived.
func (t *Table) HasPercent() bool { return t.hasPercent }

// HasTotal reports whether a total row was appended.
func (t *Table) HasTotal() bool { return t.hasTotal }

// Total sums the download counts of all data rows, excluding a derived
// total row.
func (t *Table) Total() int64 {
	var sum int64
	for _, r := range t.Rows {
		if r.Date == "" && r.Category == TotalCategory {
			continue
		}
		sum += r.Downloads
	}
	return sum
}

// FilterRange returns a new table containing only the rows whose date
// falls inside the given range. Rows with unparseable dates are dropped;
// the upstream API has never produced one, but a malformed row must not
// leak into a date-named output file.
func (t *Table) FilterRange(d statdate.StatDate) *Table {
	out := &Table{Package: t.Package, Type: t.Type}
	for _, r := range t.Rows {
		day, err := parseISODate(r.Date)
		if err != nil {
			continue
		}
		if d.Contains(day) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Shape sorts the data rows by (date, category) and derives the optional
// percent column and total row. It returns a new table; the receiver is
// not modified.
func (t *Table) Shape(opts ShapeOptions) *Table {
	out := &Table{
		Package:    t.Package,
		Type:       t.Type,
		Rows:       make([]Row, len(t.Rows)),
		hasPercent: opts.WithPercent,
		hasTotal:   opts.WithTotal,
	}
	copy(out.Rows, t.Rows)

	sort.SliceStable(out.Rows, func(i, j int) bool {
		if out.Rows[i].Date != out.Rows[j].Date {
			return out.Rows[i].Date < out.Rows[j].Date
		}
		return out.Rows[i].Category < out.Rows[j].Category
	})

	total := out.Total()
	if opts.WithPercent {
		for i := range out.Rows {
			out.Rows[i].Percent = formatPercent(out.Rows[i].Downloads, total)
		}
	} else {
		for i := range out.Rows {
			out.Rows[i].Percent = ""
		}
	}

	if opts.WithTotal && len(out.Rows) > 0 {
		totalRow := Row{Category: TotalCategory, Downloads: total}
		if opts.WithPercent {
			totalRow.Percent = "100.00"
		}
		out.Rows = append(out.Rows, totalRow)
	}

	return out
}

// Header returns the CSV header for the shaped table.
func (t *Table) Header() []string {
	header := []string{"date", "category", "downloads"}
	if t.hasPercent {
		header = append(header, "percent")
	}
	return header
}

// Records returns the shaped rows as CSV records, without the header.
func (t *Table) Records() [][]string {
	records := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		rec := []string{r.Date, r.Category, strconv.FormatInt(r.Downloads, 10)}
		if t.hasPercent {
			rec = append(rec, r.Percent)
		}
		records = append(records, rec)
	}
	return records
}

// parseISODate parses a row date in ISO format.
func parseISODate(s string) (time.Time, error) {
	return time.Parse(statdate.ISODate, s)
}

// formatPercent renders downloads/total as a percentage with two decimals.
func formatPercent(downloads, total int64) string {
	if total == 0 {
		return "0.00"
	}
	return strconv.FormatFloat(float64(downloads)/float64(total)*100, 'f', 2, 64)
}
