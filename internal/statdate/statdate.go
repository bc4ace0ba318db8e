package statdate

import (
	"fmt"
	"strings"
	"time"
)

// DefaultLookbackDays is how far back the start date reaches when no start
// is given. pypistats.org retains roughly 180 days of daily data, so one
// extra day of slack covers the whole available window.
const DefaultLookbackDays = 181

// ISODate is the layout used for all date parsing and formatting.
const ISODate = "2006-01-02"

// StatDate is a validated [start, end] date range for a statistics request.
//
// Design decision: start and end are unexported and mutated only through
// SetStart/SetEnd so the start <= end invariant cannot be broken after
// construction. Both fields are normalized to midnight UTC; the upstream
// API deals in whole days only.
type StatDate struct {
	start time.Time
	end   time.Time
}

// New creates a StatDate from partial ISO date strings.
//
// Accepted formats for both arguments:
//   - "2006" expands to January 1 (start) or December 31 (end)
//   - "2006-01" expands to the first (start) or last (end) day of the month
//   - "2006-01-02" is used as-is
//   - "" defaults to today minus DefaultLookbackDays (start) or today (end)
//
// Returns ErrInvalidDate for unparseable input and ErrEndBeforeStart when
// the normalized range is inverted.
func New(start, end string) (StatDate, error) {
	return newAt(start, end, time.Now().UTC())
}

// newAt is the clock-injected constructor used by tests.
func newAt(start, end string, now time.Time) (StatDate, error) {
	s, err := parseStart(start, now)
	if err != nil {
		return StatDate{}, err
	}
	e, err := parseEnd(end, now)
	if err != nil {
		return StatDate{}, err
	}
	if e.Before(s) {
		return StatDate{}, fmt.Errorf("%w: start %s, end %s",
			ErrEndBeforeStart, s.Format(ISODate), e.Format(ISODate))
	}
	return StatDate{start: s, end: e}, nil
}

// Start returns the normalized start date.
func (d StatDate) Start() time.Time { return d.start }

// End returns the normalized end date.
func (d StatDate) End() time.Time { return d.end }

// SetStart replaces the start date, keeping the start <= end invariant.
func (d *StatDate) SetStart(start string) error {
	s, err := parseStart(start, time.Now().UTC())
	if err != nil {
		return err
	}
	if d.end.Before(s) {
		return fmt.Errorf("%w: start %s, end %s",
			ErrEndBeforeStart, s.Format(ISODate), d.end.Format(ISODate))
	}
	d.start = s
	return nil
}

// SetEnd replaces the end date, keeping the start <= end invariant.
func (d *StatDate) SetEnd(end string) error {
	e, err := parseEnd(end, time.Now().UTC())
	if err != nil {
		return err
	}
	if e.Before(d.start) {
		return fmt.Errorf("%w: start %s, end %s",
			ErrEndBeforeStart, d.start.Format(ISODate), e.Format(ISODate))
	}
	d.end = e
	return nil
}

// Contains reports whether the given day falls inside the range.
// The comparison ignores the time-of-day component.
func (d StatDate) Contains(day time.Time) bool {
	t := midnight(day)
	return !t.Before(d.start) && !t.After(d.end)
}

// Days returns the number of calendar days in the range, inclusive.
func (d StatDate) Days() int {
	return int(d.end.Sub(d.start).Hours()/24) + 1
}

// String renders the range as "start..end" in ISO format.
func (d StatDate) String() string {
	return d.start.Format(ISODate) + ".." + d.end.Format(ISODate)
}

// SplitByDay returns one single-day StatDate per day in the range.
func (d StatDate) SplitByDay() []StatDate {
	buckets := make([]StatDate, 0, d.Days())
	for day := d.start; !day.After(d.end); day = day.AddDate(0, 0, 1) {
		buckets = append(buckets, StatDate{start: day, end: day})
	}
	return buckets
}

// SplitByMonth returns calendar-month buckets covering the range.
// The first bucket starts at Start and the last bucket ends at End, so
// partial months at either edge are clamped rather than expanded.
func (d StatDate) SplitByMonth() []StatDate {
	var buckets []StatDate
	cur := d.start
	for !cur.After(d.end) {
		monthEnd := lastDayOfMonth(cur.Year(), cur.Month())
		if monthEnd.After(d.end) {
			monthEnd = d.end
		}
		buckets = append(buckets, StatDate{start: cur, end: monthEnd})
		cur = monthEnd.AddDate(0, 0, 1)
	}
	return buckets
}

// Split buckets the range according to the given period.
// PeriodNone yields a single bucket covering the whole range.
func (d StatDate) Split(period Period) []StatDate {
	switch period {
	case PeriodDay:
		return d.SplitByDay()
	case PeriodMonth:
		return d.SplitByMonth()
	default:
		return []StatDate{d}
	}
}

// parseStart normalizes a partial start date.
// Missing components snap to the earliest value: bare years become
// January 1 and year-months become the first of the month.
func parseStart(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return midnight(now.AddDate(0, 0, -DefaultLookbackDays)), nil
	}
	switch strings.Count(s, "-") {
	case 0:
		s += "-01-01"
	case 1:
		s += "-01"
	case 2:
		// Already a full date.
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.Parse(ISODate, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// parseEnd normalizes a partial end date.
// Missing components snap to the latest value: bare years become
// December 31 and year-months become the last day of the month.
func parseEnd(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return midnight(now), nil
	}
	switch strings.Count(s, "-") {
	case 0:
		s += "-12-31"
	case 1:
		t, err := time.Parse("2006-01", s)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		return lastDayOfMonth(t.Year(), t.Month()), nil
	case 2:
		// Already a full date.
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.Parse(ISODate, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// lastDayOfMonth returns midnight UTC on the final day of the month.
func lastDayOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

// midnight truncates a time to midnight UTC.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
