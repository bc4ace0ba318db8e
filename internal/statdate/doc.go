// Package statdate provides date normalization and range bucketing for
// PyPI download statistics.
//
// pypistats.org serves daily download counts for roughly the last 180 days.
// Users rarely want to type full ISO dates, so this package accepts partial
// dates ("2022", "2022-01", "2022-01-02") and normalizes them to calendar
// boundaries: a bare year expands to January 1 / December 31, a year-month
// to the first / last day of that month.
//
// A StatDate holds a validated [start, end] range and can split itself into
// per-day or per-month buckets, which drive how results are grouped into
// output files.
package statdate
