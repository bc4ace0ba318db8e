package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/veghdev/pypistat/internal/statdate"
	"github.com/veghdev/pypistat/internal/stats"
)

// Default configuration values.
const (
	// DefaultTimeout is generous for a JSON API because pypistats.org is
	// backed by BigQuery aggregation jobs and occasionally answers slowly.
	DefaultTimeout = 30 * time.Second

	// DefaultConcurrency bounds parallel API calls for bucketed pulls.
	// pypistats.org rate limits around thirty requests per minute, so the
	// default stays conservative.
	DefaultConcurrency = 5

	// AppName is the application name used for XDG directory paths.
	AppName = "pypistat"

	// DefaultUserAgent identifies pypistat in API requests.
	// pypistats.org asks automated clients to send something identifiable.
	DefaultUserAgent = "pypistat/1.0 (+https://github.com/veghdev/pypistat)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// The largest real response (180 days of python_minor rows) is well
	// under 1MB; 5MB leaves room without risking memory exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Output formats for console display.
const (
	// FormatText is the aligned plain-text table (default).
	FormatText = "text"

	// FormatCSV prints the same CSV that would be written to a file.
	FormatCSV = "csv"

	// FormatJSON prints indented JSON mirroring the upstream API shape.
	FormatJSON = "json"

	// FormatMarkdown prints a GitHub Flavored Markdown document.
	FormatMarkdown = "markdown"
)

// Config holds all configuration options for a statistics pull.
// This struct is populated from CLI flags and the optional .pypistat file
// and passed through the application via dependency injection rather than
// global state.
type Config struct {
	// Package is the PyPI package to collect statistics for.
	Package string

	// StatType selects the download breakdown to request.
	StatType stats.Type

	// Period controls how the date range is bucketed into output files.
	Period statdate.Period

	// StartDate is the raw start date input ("2022", "2022-01",
	// "2022-01-02", or empty for the retention-window default).
	// Normalization happens in the statdate package.
	StartDate string

	// EndDate is the raw end date input, same formats as StartDate.
	EndDate string

	// OutDir is the directory CSV files are written into.
	// When empty, results go to the console only.
	OutDir string

	// WithPercent derives a percent-share column.
	// The column is dropped by default.
	WithPercent bool

	// WithTotal appends a grand-total row.
	// The row is dropped by default.
	WithTotal bool

	// Format selects the console output format (text, csv, json, markdown).
	Format string

	// Concurrency is the maximum number of parallel API calls for
	// bucketed pulls.
	Concurrency int

	// Timeout is the per-request timeout for API calls.
	Timeout time.Duration

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .pypistat in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// PackageConfigs holds per-package settings loaded from the config file.
	PackageConfigs *File

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// DBDir is the directory path for the SQLite database holding fetch
	// history and the API response cache.
	// Defaults to the XDG data directory (~/.local/share/pypistat on Linux).
	DBDir string

	// SaveHistory indicates whether to record fetches in the database.
	SaveHistory bool

	// UserAgent is the User-Agent header sent with API requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default.
	MaxBodySize int64

	// BaseURL overrides the pypistats.org API root. Used in tests and
	// for API mirrors; empty means the public instance.
	BaseURL string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
func NewConfig() *Config {
	return &Config{
		StatType:    stats.TypeOverall,
		Period:      statdate.PeriodNone,
		Format:      FormatText,
		Concurrency: DefaultConcurrency,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for pypistat.
// On Linux: ~/.local/share/pypistat
// On macOS: ~/Library/Application Support/pypistat
// On Windows: %LOCALAPPDATA%\pypistat
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for pypistat.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for pypistat.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.Package == "" {
		return ErrNoPackage
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	switch c.Format {
	case FormatText, FormatCSV, FormatJSON, FormatMarkdown:
	default:
		return ErrInvalidFormat
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
