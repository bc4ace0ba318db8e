package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/veghdev/pypistat/internal/config"
	"github.com/veghdev/pypistat/internal/database"
	"github.com/veghdev/pypistat/internal/fetch"
	"github.com/veghdev/pypistat/internal/pypistats"
	"github.com/veghdev/pypistat/internal/report"
	"github.com/veghdev/pypistat/internal/statdate"
	"github.com/veghdev/pypistat/internal/stats"
)

// NewGetCmd creates the get command.
func NewGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [package]",
		Short: "Collect download statistics for a PyPI package",
		Long: `Get collects download statistics for a PyPI package from pypistats.org.

Statistics are printed to the console and, when an output directory is
configured, also written to CSV files. The date period controls how the
requested range is bucketed into files:
  none   one file for the whole range    (overall.csv)
  month  one file per calendar month     (2022-01_overall.csv)
  day    one file per day                (2022-01-02_overall.csv)

Start and end dates accept partial ISO dates: "2022" expands to the whole
year, "2022-01" to the whole month. Without dates, the last ~180 days
(the pypistats.org retention window) are collected.

Examples:
  # Print overall statistics for the available window
  pypistat get pypistat

  # Downloads by operating system for January 2022, one CSV per day
  pypistat get pypistat -t system -p day -s 2022-01 -e 2022-01 -o stats

  # Include the derived percent column and total row
  pypistat get pypistat --with-percent --with-total

  # Markdown output for documentation
  pypistat get pypistat -f markdown

Configuration file (.pypistat) example:
  defaults:
    outdir: stats
  packages:
    pypistat:
      statType: system
      datePeriod: month`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGetCmd,
	}

	// Statistics request flags
	cmd.Flags().StringP("stat-type", "t", stats.TypeOverall.String(),
		"Statistic type (overall, python_major, python_minor, system)")
	cmd.Flags().StringP("date-period", "p", statdate.PeriodNone.String(),
		"Date period for bucketing output files (none, month, day)")
	cmd.Flags().StringP("start-date", "s", "",
		"Start date (2022, 2022-01, or 2022-01-02; default: ~180 days back)")
	cmd.Flags().StringP("end-date", "e", "",
		"End date (2022, 2022-12, or 2022-12-31; default: today)")

	// Output flags
	cmd.Flags().StringP("outdir", "o", "",
		"Directory to write CSV files into (console only when unset)")
	cmd.Flags().Bool("with-percent", false,
		"Include the derived percent column")
	cmd.Flags().Bool("with-total", false,
		"Include the derived total row")
	cmd.Flags().StringP("format", "f", config.FormatText,
		"Console output format (text, csv, json, markdown)")

	// Fetch behavior flags
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Maximum number of concurrent API calls for bucketed pulls")
	cmd.Flags().DurationP("timeout", "T", config.DefaultTimeout,
		"Timeout for each API request")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pypistat in current or home directory)")

	return cmd
}

// runGetCmd executes the get command.
func runGetCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags and the optional config file
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runGet(ctx, cfg, logger)
}

// buildConfig creates a Config from cobra command flags and the optional
// .pypistat configuration file. Explicitly set flags win over file
// settings, which win over built-in defaults.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	if len(args) > 0 {
		cfg.Package = args[0]
	}

	var err error

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-package configurations from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.PackageConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.PackageConfigs = &config.File{
			Packages: make(map[string]config.PackageConfig),
		}
	}

	pkgConfig := cfg.PackageConfigs.GetPackageConfig(cfg.Package)

	// Statistic type: flag > file > default
	statType, err := cmd.Flags().GetString("stat-type")
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("stat-type") && pkgConfig.StatType != "" {
		statType = pkgConfig.StatType
	}
	cfg.StatType, err = stats.ParseType(statType)
	if err != nil {
		return nil, err
	}

	// Date period: flag > file > default
	period, err := cmd.Flags().GetString("date-period")
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("date-period") && pkgConfig.DatePeriod != "" {
		period = pkgConfig.DatePeriod
	}
	cfg.Period, err = statdate.ParsePeriod(period)
	if err != nil {
		return nil, err
	}

	cfg.StartDate, err = cmd.Flags().GetString("start-date")
	if err != nil {
		return nil, err
	}

	cfg.EndDate, err = cmd.Flags().GetString("end-date")
	if err != nil {
		return nil, err
	}

	// Output directory: flag > file
	cfg.OutDir, err = cmd.Flags().GetString("outdir")
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("outdir") && pkgConfig.Outdir != "" {
		cfg.OutDir = pkgConfig.Outdir
	}

	cfg.WithPercent, err = cmd.Flags().GetBool("with-percent")
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("with-percent") && pkgConfig.WithPercent != nil {
		cfg.WithPercent = *pkgConfig.WithPercent
	}

	cfg.WithTotal, err = cmd.Flags().GetBool("with-total")
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("with-total") && pkgConfig.WithTotal != nil {
		cfg.WithTotal = *pkgConfig.WithTotal
	}

	cfg.Format, err = cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	// Always record fetches using the XDG data directory
	cfg.SaveHistory = true
	cfg.DBDir = config.XDGDataDir()

	return cfg, nil
}

// runGet executes the statistics pull.
func runGet(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting statistics pull",
		"package", cfg.Package,
		"statType", cfg.StatType,
		"period", cfg.Period,
		"outdir", cfg.OutDir,
	)

	// Open the database for fetch history and the response cache
	var db *database.StatDB
	if cfg.SaveHistory {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Normalize the requested date range
	statDate, err := statdate.New(cfg.StartDate, cfg.EndDate)
	if err != nil {
		return err
	}

	client := newAPIClient(cfg, db)
	fetcher := fetch.NewFetcher(client,
		fetch.WithConcurrency(cfg.Concurrency),
		fetch.WithLogger(logger),
	)

	buckets := statDate.Split(cfg.Period)
	shape := stats.ShapeOptions{
		WithPercent: cfg.WithPercent,
		WithTotal:   cfg.WithTotal,
	}

	fmt.Printf("Collecting %s statistics for %s (%s)...\n", cfg.StatType, cfg.Package, statDate)
	startTime := time.Now()

	results, err := fetcher.FetchBuckets(ctx, cfg.Package, cfg.StatType, buckets, shape)
	if err != nil {
		return err
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Collected %d bucket(s) in %s\n\n", len(results), elapsed.Round(time.Millisecond))

	console := newConsoleWriter(cfg.Format, os.Stdout)

	var rowCount int
	var totalDownloads int64
	for _, res := range results {
		rowCount += len(res.Table.Rows)
		totalDownloads += res.Table.Total()

		if _, err := console.Write(res.Table); err != nil {
			return fmt.Errorf("failed to write console output: %w", err)
		}
		fmt.Println()

		if cfg.OutDir != "" {
			name := report.FileName(cfg.StatType, cfg.Period, res.Range)
			if err := report.WriteCSVFile(cfg.OutDir, name, res.Table); err != nil {
				return err
			}
			if !res.Table.Empty() {
				logger.Info("wrote csv file", "file", name, "rows", len(res.Table.Rows))
			}
		}
	}

	// Record the pull in the history database
	if err := saveFetchRecord(ctx, db, cfg, statDate, rowCount, totalDownloads, logger); err != nil {
		logger.Error("failed to save fetch record", "package", cfg.Package, "error", err)
	}

	return nil
}

// newAPIClient builds the pypistats.org client from the configuration.
// The database, when available, doubles as the ETag response cache.
func newAPIClient(cfg *config.Config, db *database.StatDB) *pypistats.Client {
	opts := []pypistats.Option{
		pypistats.WithUserAgent(cfg.UserAgent),
		pypistats.WithTimeout(cfg.Timeout),
	}
	if cfg.MaxBodySize > 0 {
		opts = append(opts, pypistats.WithMaxBodySize(cfg.MaxBodySize))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, pypistats.WithBaseURL(cfg.BaseURL))
	}
	if db != nil {
		opts = append(opts, pypistats.WithCache(db))
	}
	return pypistats.NewClient(opts...)
}

// newConsoleWriter selects the console writer for the requested format.
// The format has already been validated.
func newConsoleWriter(format string, output io.Writer) report.Writer {
	switch format {
	case config.FormatCSV:
		return report.NewCSVWriter(output)
	case config.FormatJSON:
		return report.NewJSONWriter(output)
	case config.FormatMarkdown:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewConsoleWriter(output)
	}
}

// saveFetchRecord saves the pull to the history database.
// If db is nil, this function is a no-op.
func saveFetchRecord(
	ctx context.Context,
	db *database.StatDB,
	cfg *config.Config,
	statDate statdate.StatDate,
	rowCount int,
	totalDownloads int64,
	logger *slog.Logger,
) error {
	if db == nil {
		return nil
	}

	record := &database.FetchRecord{
		Package:        cfg.Package,
		StatType:       cfg.StatType.String(),
		StartDate:      statDate.Start().Format(statdate.ISODate),
		EndDate:        statDate.End().Format(statdate.ISODate),
		RowCount:       rowCount,
		TotalDownloads: totalDownloads,
	}
	if _, err := db.RecordFetch(ctx, record); err != nil {
		return err
	}

	logger.Info("fetch recorded", "package", cfg.Package, "rows", rowCount)
	return nil
}
