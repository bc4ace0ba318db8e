package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *StatDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, "pypistat.db")); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false fails for missing database", func(t *testing.T) {
		t.Parallel()

		opts := Options{CreateIfNotExists: false, EnableWAL: true}
		if _, err := Open(t.TempDir(), opts); err == nil {
			t.Error("expected error for missing database")
		}
	})
}

// TestRecordFetch tests fetch history insertion and listing.
func TestRecordFetch(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	records := []*FetchRecord{
		{Package: "pypistat", StatType: "overall", StartDate: "2022-01-01", EndDate: "2022-01-31", RowCount: 62, TotalDownloads: 1200},
		{Package: "pypistat", StatType: "system", StartDate: "2022-01-01", EndDate: "2022-01-31", RowCount: 93, TotalDownloads: 1200},
		{Package: "requests", StatType: "overall", StartDate: "2022-02-01", EndDate: "2022-02-28", RowCount: 56, TotalDownloads: 900000},
	}
	for _, r := range records {
		id, err := db.RecordFetch(ctx, r)
		if err != nil {
			t.Fatalf("failed to record fetch: %v", err)
		}
		if id <= 0 {
			t.Errorf("got id %d, expected positive", id)
		}
	}

	t.Run("lists fetches for one package", func(t *testing.T) {
		got, err := db.ListFetches(ctx, "pypistat", 0)
		if err != nil {
			t.Fatalf("failed to list fetches: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d records, expected 2", len(got))
		}
		// Newest first: same timestamp resolution, so order by id descending.
		if got[0].StatType != "system" {
			t.Errorf("first record stat type: got %q, expected system", got[0].StatType)
		}
		if got[0].Timestamp.IsZero() {
			t.Error("expected a parsed timestamp")
		}
	})

	t.Run("lists fetches for all packages with limit", func(t *testing.T) {
		got, err := db.ListFetches(ctx, "", 2)
		if err != nil {
			t.Fatalf("failed to list fetches: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d records, expected 2", len(got))
		}
	})

	t.Run("lists distinct packages", func(t *testing.T) {
		pkgs, err := db.ListPackages(ctx)
		if err != nil {
			t.Fatalf("failed to list packages: %v", err)
		}
		want := []string{"pypistat", "requests"}
		if len(pkgs) != len(want) {
			t.Fatalf("got %v, expected %v", pkgs, want)
		}
		for i := range want {
			if pkgs[i] != want[i] {
				t.Errorf("got %v, expected %v", pkgs, want)
				break
			}
		}
	})
}

// TestResponseCache tests the URL-keyed response cache.
func TestResponseCache(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	url := "https://pypistats.org/api/packages/pypistat/overall"

	t.Run("miss for unknown url", func(t *testing.T) {
		if _, _, ok := db.GetResponse(ctx, url); ok {
			t.Error("expected a cache miss")
		}
	})

	t.Run("roundtrip", func(t *testing.T) {
		if err := db.PutResponse(ctx, url, `"v1"`, []byte(`{"data": []}`)); err != nil {
			t.Fatalf("failed to store response: %v", err)
		}

		etag, body, ok := db.GetResponse(ctx, url)
		if !ok {
			t.Fatal("expected a cache hit")
		}
		if etag != `"v1"` {
			t.Errorf("etag: got %q, expected \"v1\"", etag)
		}
		if string(body) != `{"data": []}` {
			t.Errorf("body: got %q", body)
		}
	})

	t.Run("upsert replaces previous entry", func(t *testing.T) {
		if err := db.PutResponse(ctx, url, `"v2"`, []byte(`{"data": [1]}`)); err != nil {
			t.Fatalf("failed to replace response: %v", err)
		}

		etag, body, ok := db.GetResponse(ctx, url)
		if !ok {
			t.Fatal("expected a cache hit")
		}
		if etag != `"v2"` {
			t.Errorf("etag: got %q, expected \"v2\"", etag)
		}
		if string(body) != `{"data": [1]}` {
			t.Errorf("body: got %q", body)
		}
	})
}
