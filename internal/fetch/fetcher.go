package fetch

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/veghdev/pypistat/internal/pypistats"
	"github.com/veghdev/pypistat/internal/statdate"
	"github.com/veghdev/pypistat/internal/stats"
)

// DefaultConcurrency bounds parallel API calls. pypistats.org rate limits
// aggressively, so the default stays well below the documented ceiling.
const DefaultConcurrency = 5

// Result pairs one bucket of the requested range with its shaped table.
type Result struct {
	// Range is the bucket the table covers.
	Range statdate.StatDate

	// Table is the shaped statistics table, filtered to Range.
	Table *stats.Table
}

// Fetcher retrieves statistics tables for a set of date buckets.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each bucket gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
type Fetcher struct {
	// client performs the API calls.
	client *pypistats.Client

	// concurrency is the maximum number of in-flight API calls.
	concurrency int

	// logger is used for per-bucket progress logging.
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithConcurrency sets the maximum number of concurrent API calls.
// Values below one are ignored.
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher backed by the given API client.
func NewFetcher(client *pypistats.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      client,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = slog.Default()
	}

	return f
}

// FetchBuckets retrieves and shapes one table per bucket.
//
// Results come back in bucket order regardless of completion order. The
// first failing bucket cancels the rest and its error is returned;
// partial results are discarded because a partial file set named after
// date buckets would be indistinguishable from a complete one.
func (f *Fetcher) FetchBuckets(
	ctx context.Context,
	pkg string,
	typ stats.Type,
	buckets []statdate.StatDate,
	shape stats.ShapeOptions,
) ([]Result, error) {
	results := make([]Result, len(buckets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, bucket := range buckets {
		g.Go(func() error {
			f.logger.Debug("fetching bucket",
				"package", pkg,
				"statType", typ,
				"range", bucket.String(),
			)

			table, err := f.client.Fetch(ctx, pkg, typ)
			if err != nil {
				return err
			}

			results[i] = Result{
				Range: bucket,
				Table: table.FilterRange(bucket).Shape(shape),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
