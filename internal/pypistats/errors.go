package pypistats

import "errors"

// Package-level sentinel errors for API failures.
// Callers match these with errors.Is; the wrapped message carries the
// package name and endpoint.
var (
	// ErrPackageNotFound is returned when the API has no data for the
	// requested package (HTTP 404). This covers both packages that do
	// not exist and packages with no recorded downloads.
	ErrPackageNotFound = errors.New("package not found on pypistats.org")

	// ErrRateLimited is returned when the API rejects the request due to
	// rate limiting (HTTP 429). The client does not retry; callers should
	// lower their fetch concurrency or wait.
	ErrRateLimited = errors.New("rate limited by pypistats.org")

	// ErrUnexpectedStatus is returned for any other non-success response.
	ErrUnexpectedStatus = errors.New("unexpected response status")
)
