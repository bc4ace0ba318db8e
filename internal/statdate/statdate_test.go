package statdate

import (
	"errors"
	"testing"
	"time"
)

// date is a test helper for building midnight-UTC dates.
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestNew tests partial date normalization.
func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		start     string
		end       string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "bare years expand to calendar boundaries",
			start:     "2022",
			end:       "2022",
			wantStart: date(2022, time.January, 1),
			wantEnd:   date(2022, time.December, 31),
		},
		{
			name:      "year-month expands to month boundaries",
			start:     "2022-02",
			end:       "2022-02",
			wantStart: date(2022, time.February, 1),
			wantEnd:   date(2022, time.February, 28),
		},
		{
			name:      "leap year february end",
			start:     "2024-02",
			end:       "2024-02",
			wantStart: date(2024, time.February, 1),
			wantEnd:   date(2024, time.February, 29),
		},
		{
			name:      "full dates pass through",
			start:     "2022-01-02",
			end:       "2022-03-04",
			wantStart: date(2022, time.January, 2),
			wantEnd:   date(2022, time.March, 4),
		},
		{
			name:      "mixed precision",
			start:     "2022-06",
			end:       "2022",
			wantStart: date(2022, time.June, 1),
			wantEnd:   date(2022, time.December, 31),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := New(tt.start, tt.end)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !d.Start().Equal(tt.wantStart) {
				t.Errorf("start: got %v, expected %v", d.Start(), tt.wantStart)
			}
			if !d.End().Equal(tt.wantEnd) {
				t.Errorf("end: got %v, expected %v", d.End(), tt.wantEnd)
			}
		})
	}
}

// TestNewDefaults tests empty start and end handling.
func TestNewDefaults(t *testing.T) {
	t.Parallel()

	now := date(2022, time.July, 1)

	t.Run("empty end defaults to today", func(t *testing.T) {
		t.Parallel()

		d, err := newAt("2022-06-01", "", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !d.End().Equal(now) {
			t.Errorf("got %v, expected %v", d.End(), now)
		}
	})

	t.Run("empty start defaults to lookback window", func(t *testing.T) {
		t.Parallel()

		d, err := newAt("", "", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := now.AddDate(0, 0, -DefaultLookbackDays)
		if !d.Start().Equal(want) {
			t.Errorf("got %v, expected %v", d.Start(), want)
		}
	})
}

// TestNewErrors tests rejection of malformed and inverted ranges.
func TestNewErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		start   string
		end     string
		wantErr error
	}{
		{name: "end before start", start: "2022-02-01", end: "2022-01-01", wantErr: ErrEndBeforeStart},
		{name: "inverted years", start: "2023", end: "2022", wantErr: ErrEndBeforeStart},
		{name: "too many components in start", start: "2022-01-01-05", end: "2022-12-31", wantErr: ErrInvalidDate},
		{name: "garbage start", start: "not-a-date", end: "2022", wantErr: ErrInvalidDate},
		{name: "garbage end", start: "2022", end: "2022-13", wantErr: ErrInvalidDate},
		{name: "out of range day", start: "2022-02-30", end: "2022-12-31", wantErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := New(tt.start, tt.end); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, expected %v", err, tt.wantErr)
			}
		})
	}
}

// TestSetters tests invariant enforcement on mutation.
func TestSetters(t *testing.T) {
	t.Parallel()

	t.Run("valid start update", func(t *testing.T) {
		t.Parallel()

		d, err := New("2022-01", "2022-03")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := d.SetStart("2022-02-15"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !d.Start().Equal(date(2022, time.February, 15)) {
			t.Errorf("got %v, expected 2022-02-15", d.Start())
		}
	})

	t.Run("start after end is rejected", func(t *testing.T) {
		t.Parallel()

		d, err := New("2022-01", "2022-03")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := d.SetStart("2022-04-01"); !errors.Is(err, ErrEndBeforeStart) {
			t.Errorf("got %v, expected ErrEndBeforeStart", err)
		}
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		t.Parallel()

		d, err := New("2022-02", "2022-03")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := d.SetEnd("2022-01-31"); !errors.Is(err, ErrEndBeforeStart) {
			t.Errorf("got %v, expected ErrEndBeforeStart", err)
		}
	})
}

// TestSplitByDay tests per-day bucketing.
func TestSplitByDay(t *testing.T) {
	t.Parallel()

	d, err := New("2022-01-30", "2022-02-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	buckets := d.SplitByDay()
	if len(buckets) != 4 {
		t.Fatalf("got %d buckets, expected 4", len(buckets))
	}
	for _, b := range buckets {
		if !b.Start().Equal(b.End()) {
			t.Errorf("bucket %s is not a single day", b)
		}
	}
	if !buckets[0].Start().Equal(date(2022, time.January, 30)) {
		t.Errorf("first bucket starts at %v", buckets[0].Start())
	}
	if !buckets[3].End().Equal(date(2022, time.February, 2)) {
		t.Errorf("last bucket ends at %v", buckets[3].End())
	}
}

// TestSplitByMonth tests calendar-month bucketing with edge clamping.
func TestSplitByMonth(t *testing.T) {
	t.Parallel()

	d, err := New("2022-01-15", "2022-03-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	buckets := d.SplitByMonth()
	if len(buckets) != 3 {
		t.Fatalf("got %d buckets, expected 3", len(buckets))
	}

	want := []struct {
		start time.Time
		end   time.Time
	}{
		{date(2022, time.January, 15), date(2022, time.January, 31)},
		{date(2022, time.February, 1), date(2022, time.February, 28)},
		{date(2022, time.March, 1), date(2022, time.March, 10)},
	}
	for i, w := range want {
		if !buckets[i].Start().Equal(w.start) || !buckets[i].End().Equal(w.end) {
			t.Errorf("bucket %d: got %s, expected %s..%s",
				i, buckets[i], w.start.Format(ISODate), w.end.Format(ISODate))
		}
	}
}

// TestSplit tests period dispatch.
func TestSplit(t *testing.T) {
	t.Parallel()

	d, err := New("2022-01-01", "2022-02-28")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(d.Split(PeriodNone)); got != 1 {
		t.Errorf("none: got %d buckets, expected 1", got)
	}
	if got := len(d.Split(PeriodMonth)); got != 2 {
		t.Errorf("month: got %d buckets, expected 2", got)
	}
	if got := len(d.Split(PeriodDay)); got != 59 {
		t.Errorf("day: got %d buckets, expected 59", got)
	}
}

// TestContains tests range membership.
func TestContains(t *testing.T) {
	t.Parallel()

	d, err := New("2022-01-10", "2022-01-20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		day  time.Time
		want bool
	}{
		{date(2022, time.January, 10), true},
		{date(2022, time.January, 20), true},
		{date(2022, time.January, 15), true},
		{date(2022, time.January, 9), false},
		{date(2022, time.January, 21), false},
	}
	for _, tt := range tests {
		if got := d.Contains(tt.day); got != tt.want {
			t.Errorf("Contains(%v): got %v, expected %v", tt.day, got, tt.want)
		}
	}
}

// TestParsePeriod tests period string parsing.
func TestParsePeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{in: "", want: PeriodNone},
		{in: "none", want: PeriodNone},
		{in: "month", want: PeriodMonth},
		{in: "day", want: PeriodDay},
		{in: "week", wantErr: true},
		{in: "DAY", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("input "+tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParsePeriod(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPeriod) {
					t.Errorf("got %v, expected ErrInvalidPeriod", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, expected %q", got, tt.want)
			}
		})
	}
}
