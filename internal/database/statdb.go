package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// StatDB provides SQLite-based storage for fetch history and cached API
// responses. It manages connection pooling and provides methods for CRUD
// operations.
//
// Design decision: History and response cache share a single database file
// rather than separate files. Both are small, and one file simplifies
// backup and cleanup.
type StatDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures StatDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a StatDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*StatDB, error) {
	dbPath := filepath.Join(dbDir, "pypistat.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; keep the pool minimal.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &StatDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *StatDB) Close() error {
	return sdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (sdb *StatDB) createTables() error {
	schema := `
	-- Fetch records store one row per statistics pull
	CREATE TABLE IF NOT EXISTS fetches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		package TEXT NOT NULL,
		stat_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		row_count INTEGER NOT NULL,
		total_downloads INTEGER NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_fetches_package ON fetches(package);
	CREATE INDEX IF NOT EXISTS idx_fetches_timestamp ON fetches(timestamp);

	-- Cached API responses keyed by URL for ETag revalidation
	CREATE TABLE IF NOT EXISTS responses (
		url TEXT PRIMARY KEY,
		etag TEXT NOT NULL,
		body BLOB NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// FetchRecord represents one recorded statistics pull.
type FetchRecord struct {
	ID             int64
	Package        string
	StatType       string
	StartDate      string
	EndDate        string
	RowCount       int
	TotalDownloads int64
	Timestamp      time.Time
}

// RecordFetch inserts a fetch record and returns its ID.
func (sdb *StatDB) RecordFetch(ctx context.Context, record *FetchRecord) (int64, error) {
	query := `
	INSERT INTO fetches (package, stat_type, start_date, end_date, row_count, total_downloads)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := sdb.db.ExecContext(ctx, query,
		record.Package,
		record.StatType,
		record.StartDate,
		record.EndDate,
		record.RowCount,
		record.TotalDownloads,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert fetch record: %w", err)
	}

	return result.LastInsertId()
}

// ListFetches returns fetch records, newest first.
// An empty pkg lists records for all packages. limit <= 0 means no limit.
func (sdb *StatDB) ListFetches(ctx context.Context, pkg string, limit int) ([]FetchRecord, error) {
	query := `
	SELECT id, package, stat_type, start_date, end_date, row_count, total_downloads, timestamp
	FROM fetches
	`
	args := []any{}
	if pkg != "" {
		query += " WHERE package = ?"
		args = append(args, pkg)
	}
	query += " ORDER BY timestamp DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := sdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list fetches: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	var records []FetchRecord
	for rows.Next() {
		var r FetchRecord
		var timestamp string
		if err := rows.Scan(
			&r.ID,
			&r.Package,
			&r.StatType,
			&r.StartDate,
			&r.EndDate,
			&r.RowCount,
			&r.TotalDownloads,
			&timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fetch record: %w", err)
		}
		r.Timestamp = parseTimestamp(timestamp)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fetch records: %w", err)
	}

	return records, nil
}

// ListPackages returns the distinct package names with recorded fetches,
// sorted alphabetically.
func (sdb *StatDB) ListPackages(ctx context.Context) ([]string, error) {
	rows, err := sdb.db.QueryContext(ctx,
		"SELECT DISTINCT package FROM fetches ORDER BY package")
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	var packages []string
	for rows.Next() {
		var pkg string
		if err := rows.Scan(&pkg); err != nil {
			return nil, fmt.Errorf("failed to scan package name: %w", err)
		}
		packages = append(packages, pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate package names: %w", err)
	}

	return packages, nil
}

// GetResponse returns the cached ETag and body for a URL.
// Database errors are treated as cache misses; the fetch must not fail
// because the local cache is unreadable.
//
// Together with PutResponse this satisfies the pypistats.Cache interface.
func (sdb *StatDB) GetResponse(ctx context.Context, url string) (string, []byte, bool) {
	var etag string
	var body []byte

	err := sdb.db.QueryRowContext(ctx,
		"SELECT etag, body FROM responses WHERE url = ?", url).Scan(&etag, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, false
	}
	if err != nil {
		return "", nil, false
	}

	return etag, body, true
}

// PutResponse stores the ETag and body for a URL, replacing any previous entry.
func (sdb *StatDB) PutResponse(ctx context.Context, url, etag string, body []byte) error {
	query := `
	INSERT INTO responses (url, etag, body)
	VALUES (?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		etag = excluded.etag,
		body = excluded.body,
		timestamp = CURRENT_TIMESTAMP
	`

	if _, err := sdb.db.ExecContext(ctx, query, url, etag, body); err != nil {
		return fmt.Errorf("failed to store cached response: %w", err)
	}

	return nil
}

// parseTimestamp parses a SQLite timestamp string.
// SQLite may return different formats depending on version and configuration.
func parseTimestamp(s string) time.Time {
	formats := []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
		"2006-01-02T15:04:05Z",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
