// Package stats defines the tabular model for PyPI download statistics.
//
// A Table holds rows of (date, category, downloads) as returned by the
// pypistats.org API, plus the derived columns the upstream service does
// not send: a percent share per row and a grand-total row. Shaping a
// table (filtering to a date range, sorting, deriving columns) is kept
// separate from fetching so the client stays a thin transport layer.
package stats
