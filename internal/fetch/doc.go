// Package fetch coordinates bucketed statistics retrieval.
//
// When a date period of day or month is requested, one table must be
// produced per bucket, and each bucket is backed by its own API call.
// The Fetcher runs
// those calls concurrently with a bounded limit; the client-side ETag
// cache keeps all but the first call cheap, so the bound mainly protects
// against the pypistats.org rate limit on cold caches.
package fetch
