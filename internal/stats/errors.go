package stats

import "errors"

// ErrInvalidType is returned when a statistic type string is not one of
// overall, python_major, python_minor, or system.
var ErrInvalidType = errors.New("invalid statistic type")
