package statdate

import "errors"

// Package-level sentinel errors.
// Callers can match them with errors.Is while the wrapped message carries
// the offending input value.
var (
	// ErrInvalidPeriod is returned when a date period string is not one of
	// none, month, or day.
	ErrInvalidPeriod = errors.New("invalid date period")

	// ErrInvalidDate is returned when a date string is not in %Y, %Y-%m,
	// or %Y-%m-%d format.
	ErrInvalidDate = errors.New("invalid date")

	// ErrEndBeforeStart is returned when the normalized end date precedes
	// the normalized start date.
	ErrEndBeforeStart = errors.New("end date must not precede start date")
)
