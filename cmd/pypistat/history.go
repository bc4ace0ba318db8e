package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/veghdev/pypistat/internal/config"
	"github.com/veghdev/pypistat/internal/database"
)

// NewHistoryCmd creates the history command.
// This command lists past statistics pulls recorded in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [package]",
		Short: "List past statistics pulls",
		Long: `History lists statistics pulls recorded in the local database.

Every 'pypistat get' records the package, statistic type, date range,
row count, and total downloads of the pull. This command shows that
history, newest first.

Examples:
  # List recent pulls for one package
  pypistat history pypistat

  # List recent pulls across all packages
  pypistat history

  # List all packages with recorded pulls
  pypistat history --packages

  # JSON output for tooling
  pypistat history --json pypistat`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of records to show (0 for all)")
	cmd.Flags().BoolP("json", "j", false,
		"Output history in JSON format")
	cmd.Flags().BoolP("packages", "P", false,
		"List all packages with recorded pulls instead of individual records")

	return cmd
}

// historyEntry is the JSON shape of one listed fetch record.
type historyEntry struct {
	ID             int64     `json:"id"`
	Package        string    `json:"package"`
	StatType       string    `json:"stat_type"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	RowCount       int       `json:"row_count"`
	TotalDownloads int64     `json:"total_downloads"`
	Timestamp      time.Time `json:"timestamp"`
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	listPackages, err := cmd.Flags().GetBool("packages")
	if err != nil {
		return err
	}

	var pkg string
	if len(args) > 0 {
		pkg = args[0]
	}

	// The database must already exist; history without pulls is an error
	// worth telling the user about rather than an empty listing.
	opts := database.Options{CreateIfNotExists: false, EnableWAL: true}
	db, err := database.Open(config.XDGDataDir(), opts)
	if err != nil {
		return fmt.Errorf("no fetch history found (run 'pypistat get' first): %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if listPackages {
		return printPackages(ctx, db, jsonOutput)
	}

	records, err := db.ListFetches(ctx, pkg, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		entries := make([]historyEntry, 0, len(records))
		for _, r := range records {
			entries = append(entries, historyEntry(r))
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	if len(records) == 0 {
		fmt.Println("No recorded pulls.")
		return nil
	}

	for _, r := range records {
		fmt.Printf("[%d] %s  %s %s  %s..%s  %d rows, %d downloads\n",
			r.ID,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Package,
			r.StatType,
			r.StartDate,
			r.EndDate,
			r.RowCount,
			r.TotalDownloads,
		)
	}

	return nil
}

// printPackages lists the distinct packages with recorded pulls.
func printPackages(ctx context.Context, db *database.StatDB, jsonOutput bool) error {
	packages, err := db.ListPackages(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(packages)
	}

	if len(packages) == 0 {
		fmt.Println("No recorded pulls.")
		return nil
	}

	for _, pkg := range packages {
		fmt.Println(pkg)
	}

	return nil
}
