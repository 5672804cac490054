package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

var (
	// ErrSchemaMismatch indicates the database was written by a newer build.
	ErrSchemaMismatch = errors.New("history schema mismatch")
	// ErrNotFound is returned by Get when no run matches.
	ErrNotFound = errors.New("run not found")
	// ErrAmbiguousID is returned by Get when an ID prefix matches several runs.
	ErrAmbiguousID = errors.New("run id prefix is ambiguous")
)

// TableCount is the per-table outcome of a run.
type TableCount struct {
	Name   string `json:"name"`
	Unique int    `json:"unique"`
	Total  int64  `json:"total"`
	Path   string `json:"path,omitempty"`
	SHA256 string `json:"sha256,omitempty"`
}

// Run is one completed scan.
type Run struct {
	ID          string       `json:"id"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
	Source      string       `json:"source"`
	SourceKind  string       `json:"source_kind"`
	Compression string       `json:"compression,omitempty"`
	Destination string       `json:"destination"`
	Patterns    []string     `json:"patterns"`
	Files       int          `json:"files"`
	Runes       int64        `json:"runes"`
	Bytes       int64        `json:"bytes"`
	Tables      []TableCount `json:"tables"`
}

// Duration returns the wall time of the run.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to (creating if needed) the history database at path and
// applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts run and its table counts in one transaction.
func (s *Store) Record(ctx context.Context, run Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("record run: empty id")
	}
	patterns := run.Patterns
	if patterns == nil {
		patterns = []string{}
	}
	patternsJSON, err := json.Marshal(patterns)
	if err != nil {
		return fmt.Errorf("marshal patterns: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (
            id, started_at, finished_at, source, source_kind, compression,
            destination, patterns_json, files, runes, bytes
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
		run.Source,
		run.SourceKind,
		nullableString(run.Compression),
		run.Destination,
		string(patternsJSON),
		run.Files,
		run.Runes,
		run.Bytes,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, t := range run.Tables {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_tables (run_id, position, name, unique_count, total, path, sha256)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, t.Name, t.Unique, t.Total, nullableString(t.Path), nullableString(t.SHA256),
		); err != nil {
			return fmt.Errorf("insert table %s: %w", t.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

const runColumns = `id, started_at, finished_at, source, source_kind, compression,
    destination, patterns_json, files, runes, bytes`

// List returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, id DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	for i := range runs {
		if runs[i].Tables, err = s.tables(ctx, runs[i].ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// Get fetches one run by full ID or unique ID prefix.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE id = ? OR substr(id, 1, length(?)) = ? ORDER BY id = ? DESC LIMIT 2",
		id, id, id, id)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var found []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	switch {
	case len(found) == 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case len(found) > 1 && found[0].ID != id:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
	}
	run := found[0]
	if run.Tables, err = s.tables(ctx, run.ID); err != nil {
		return nil, err
	}
	return run, nil
}

// Clear removes every run and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs")
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	return n, nil
}

func (s *Store) tables(ctx context.Context, runID string) ([]TableCount, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, unique_count, total, path, sha256 FROM run_tables WHERE run_id = ? ORDER BY position",
		runID)
	if err != nil {
		return nil, fmt.Errorf("list tables for %s: %w", runID, err)
	}
	defer rows.Close()

	var tables []TableCount
	for rows.Next() {
		var (
			t    TableCount
			path sql.NullString
			sum  sql.NullString
		)
		if err := rows.Scan(&t.Name, &t.Unique, &t.Total, &path, &sum); err != nil {
			return nil, fmt.Errorf("scan table row: %w", err)
		}
		t.Path = path.String
		t.SHA256 = sum.String
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run          Run
		startedRaw   string
		finishedRaw  string
		compression  sql.NullString
		patternsJSON string
	)
	if err := scanner.Scan(
		&run.ID, &startedRaw, &finishedRaw, &run.Source, &run.SourceKind, &compression,
		&run.Destination, &patternsJSON, &run.Files, &run.Runes, &run.Bytes,
	); err != nil {
		return nil, fmt.Errorf("scan run row: %w", err)
	}
	var err error
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedRaw); err != nil {
		return nil, fmt.Errorf("parse started_at for %s: %w", run.ID, err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedRaw); err != nil {
		return nil, fmt.Errorf("parse finished_at for %s: %w", run.ID, err)
	}
	run.Compression = compression.String
	if err := json.Unmarshal([]byte(patternsJSON), &run.Patterns); err != nil {
		return nil, fmt.Errorf("decode patterns for %s: %w", run.ID, err)
	}
	return &run, nil
}

// timeLayout keeps a fixed number of fractional digits so stored timestamps
// sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
