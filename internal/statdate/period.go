package statdate

import "fmt"

// Period is the granularity at which statistics are bucketed into files.
type Period string

// Supported date periods.
const (
	// PeriodNone writes the whole requested range as a single table.
	PeriodNone Period = "none"

	// PeriodMonth buckets the range into calendar months.
	PeriodMonth Period = "month"

	// PeriodDay buckets the range into individual days.
	PeriodDay Period = "day"
)

// ParsePeriod converts a user-supplied string into a Period.
// An empty string maps to PeriodNone so that CLI flags can default
// to "no grouping" without a magic value.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodNone, "":
		return PeriodNone, nil
	case PeriodMonth:
		return PeriodMonth, nil
	case PeriodDay:
		return PeriodDay, nil
	default:
		return "", fmt.Errorf("%w: %q (expected none, month, or day)", ErrInvalidPeriod, s)
	}
}

// String returns the period name.
func (p Period) String() string {
	return string(p)
}
