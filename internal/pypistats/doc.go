// Package pypistats provides an HTTP client for the pypistats.org JSON API.
//
// The API serves per-day download counts for every PyPI package, broken
// down by statistic type (overall, python_major, python_minor, system),
// plus a "recent" summary (last day/week/month). It is public and
// unauthenticated but rate limited, and responses carry ETags that
// clients are expected to honor.
//
// The client therefore accepts an optional Cache. When one is configured,
// responses are revalidated with If-None-Match and a 304 is served from
// the cached body, which keeps repeated pulls (and per-bucket fetches of
// the same endpoint) from counting against the rate limit.
package pypistats
