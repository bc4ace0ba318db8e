package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/veghdev/pypistat/internal/config"
	"github.com/veghdev/pypistat/internal/database"
)

// NewRecentCmd creates the recent command.
func NewRecentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent [package]",
		Short: "Show recent download counts for a PyPI package",
		Long: `Recent shows the last-day, last-week, and last-month download counts
for a PyPI package from the pypistats.org /recent endpoint.

Examples:
  # Show the recent download summary
  pypistat recent pypistat

  # JSON output for tooling
  pypistat recent pypistat -f json`,
		Args: cobra.ExactArgs(1),
		RunE: runRecentCmd,
	}

	cmd.Flags().StringP("format", "f", config.FormatText,
		"Output format (text, csv, json, markdown)")
	cmd.Flags().DurationP("timeout", "T", config.DefaultTimeout,
		"Timeout for the API request")

	return cmd
}

// runRecentCmd executes the recent command.
func runRecentCmd(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()
	cfg.Package = args[0]
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.Format, err = cmd.Flags().GetString("format")
	if err != nil {
		return err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}

	cfg.DBDir = config.XDGDataDir()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout+time.Second)
	defer cancel()

	// The response cache keeps repeated summary checks off the rate limit.
	// A missing database is not fatal for a single read-only call.
	var db *database.StatDB
	if d, err := database.Open(cfg.DBDir, database.DefaultOptions()); err == nil {
		db = d
		defer db.Close()
	} else {
		logger.Warn("continuing without response cache", "error", err)
	}

	client := newAPIClient(cfg, db)
	recent, err := client.Recent(ctx, cfg.Package)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("request timed out after %s", cfg.Timeout)
		}
		return err
	}

	if _, err := newConsoleWriter(cfg.Format, os.Stdout).WriteRecent(recent); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}
