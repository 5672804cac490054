package history

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRun(id string, started time.Time) Run {
	return Run{
		ID:          id,
		StartedAt:   started,
		FinishedAt:  started.Add(1500 * time.Millisecond),
		Source:      "/corpus",
		SourceKind:  "directory",
		Destination: "/out",
		Patterns:    []string{`\.txt$`},
		Files:       2,
		Runes:       4,
		Bytes:       4,
		Tables: []TableCount{
			{Name: "1-grams", Unique: 2, Total: 4, Path: "/out/1-grams.tsv", SHA256: "abc"},
			{Name: "1-grams-uc", Unique: 2, Total: 4},
		},
	}
}

func TestRecordAndGet(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := store.Record(ctx, sampleRun("0195a1b2-run", started)); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := store.Get(ctx, "0195a1b2-run")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.StartedAt.Equal(started) || got.Duration() != 1500*time.Millisecond {
		t.Fatalf("unexpected times %v / %v", got.StartedAt, got.Duration())
	}
	if !slices.Equal(got.Patterns, []string{`\.txt$`}) {
		t.Fatalf("patterns = %q", got.Patterns)
	}
	if len(got.Tables) != 2 || got.Tables[0].SHA256 != "abc" || got.Tables[1].Name != "1-grams-uc" {
		t.Fatalf("tables = %+v", got.Tables)
	}
	if got.Tables[0].Path != "/out/1-grams.tsv" || got.Tables[1].Path != "" {
		t.Fatalf("table paths = %q, %q", got.Tables[0].Path, got.Tables[1].Path)
	}
	if got.Compression != "" {
		t.Fatalf("compression = %q", got.Compression)
	}
}

func TestGetByPrefix(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	now := time.Now()
	for _, id := range []string{"aaaa-1", "aaab-2", "bbbb-3"} {
		if err := store.Record(ctx, sampleRun(id, now)); err != nil {
			t.Fatalf("Record %s: %v", id, err)
		}
	}

	run, err := store.Get(ctx, "bb")
	if err != nil || run.ID != "bbbb-3" {
		t.Fatalf("Get(bb) = %v, %v", run, err)
	}
	if _, err := store.Get(ctx, "aaa"); !errors.Is(err, ErrAmbiguousID) {
		t.Fatalf("expected ErrAmbiguousID, got %v", err)
	}
	if _, err := store.Get(ctx, "zzz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	// Sub-second offsets exercise lexical ordering of stored timestamps.
	offsets := []time.Duration{0, 100 * time.Millisecond, 120 * time.Millisecond}
	for i, off := range offsets {
		if err := store.Record(ctx, sampleRun(string(rune('a'+i)), base.Add(off))); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	runs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "c" || runs[1].ID != "b" {
		t.Fatalf("unexpected order: %+v", runs)
	}
	if len(runs[0].Tables) != 2 {
		t.Fatalf("tables not loaded: %+v", runs[0])
	}

	all, err := store.List(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("List(0) = %d runs, %v", len(all), err)
	}
}

func TestClearCascades(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	if err := store.Record(ctx, sampleRun("x", time.Now())); err != nil {
		t.Fatal(err)
	}
	n, err := store.Clear(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Clear = %d, %v", n, err)
	}
	var remaining int
	if err := store.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM run_tables").Scan(&remaining); err != nil {
		t.Fatal(err)
	}
	if remaining != 0 {
		t.Fatalf("run_tables rows left: %d", remaining)
	}
}

func TestRecordRejectsDuplicateAndEmptyID(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	if err := store.Record(ctx, sampleRun("", time.Now())); err == nil {
		t.Fatal("expected error for empty id")
	}
	if err := store.Record(ctx, sampleRun("dup", time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := store.Record(ctx, sampleRun("dup", time.Now())); err == nil {
		t.Fatal("expected error for duplicate id")
	}
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.db.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ('9999_future')"); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	if _, err := Open(ctx, path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestOpenIsReentrant(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")
	for i := 0; i < 2; i++ {
		store, err := Open(ctx, path)
		if err != nil {
			t.Fatalf("Open #%d: %v", i+1, err)
		}
		_ = store.Close()
	}
}
