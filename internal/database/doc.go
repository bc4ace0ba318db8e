// Package database provides SQLite-based storage for pypistat.
//
// This package implements the StatDB, which stores:
//   - A history of statistics fetches (package, stat type, date range,
//     row and download counts) for the history subcommand
//   - Cached API responses keyed by URL with their ETags, so repeated
//     pulls revalidate with If-None-Match instead of re-downloading
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
