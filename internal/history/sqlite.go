// Package history persists prebuild run outcomes and competitor captures to a
// per-project SQLite database, so earlier results stay queryable after the
// working tree moves on.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/sitebuilder/internal/buildstate"
	"git.home.luguber.info/inful/sitebuilder/internal/prebuild"
)

// FileName is the history database file inside the project state directory.
const FileName = "history.db"

// Path returns the history database path for a project.
func Path(projectPath string) string {
	return filepath.Join(projectPath, buildstate.StateDirName, FileName)
}

// RunRecord is one persisted prebuild run.
type RunRecord struct {
	ID          string
	Commit      string
	StartedAt   time.Time
	Duration    time.Duration
	Outcome     prebuild.Outcome
	FatalReason string
	Issues      []string
}

// CaptureRecord is one persisted competitor capture.
type CaptureRecord struct {
	URL     string
	File    string
	TakenAt time.Time
}

// Store is a SQLite-backed history store.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (and initializes if needed) the history database.
// Use ":memory:" for an in-memory database, or a file path for persistence.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

// OpenProject opens the history database for a project.
func OpenProject(projectPath string) (*Store, error) {
	return Open(Path(projectPath))
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		commit_sha TEXT,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		fatal_reason TEXT,
		issues TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE TABLE IF NOT EXISTS captures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		file TEXT NOT NULL,
		taken_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_captures_taken_at ON captures(taken_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordRun persists a finished prebuild report.
func (s *Store) RecordRun(ctx context.Context, report *prebuild.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var issuesJSON []byte
	if report.FatalReason == "" && len(report.Issues) > 0 {
		lines := report.Lines()
		var err error
		issuesJSON, err = json.Marshal(lines)
		if err != nil {
			return fmt.Errorf("marshal issues: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, commit_sha, started_at, duration_ms, outcome, fatal_reason, issues) VALUES (?, ?, ?, ?, ?, ?, ?)",
		report.ID, report.Commit, report.StartedAt.Unix(), report.Duration.Milliseconds(),
		string(report.Outcome), report.FatalReason, issuesJSON,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, commit_sha, started_at, duration_ms, outcome, fatal_reason, issues FROM runs ORDER BY started_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		var startedUnix, durationMs int64
		var outcome string
		var issuesJSON []byte
		if err := rows.Scan(&r.ID, &r.Commit, &startedUnix, &durationMs, &outcome, &r.FatalReason, &issuesJSON); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.Unix(startedUnix, 0).UTC()
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.Outcome = prebuild.Outcome(outcome)
		if len(issuesJSON) > 0 {
			if err := json.Unmarshal(issuesJSON, &r.Issues); err != nil {
				return nil, fmt.Errorf("unmarshal issues: %w", err)
			}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return records, nil
}

// RecordCapture persists one competitor capture.
func (s *Store) RecordCapture(ctx context.Context, url, file string, takenAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO captures (url, file, taken_at) VALUES (?, ?, ?)",
		url, file, takenAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert capture: %w", err)
	}
	return nil
}

// CapturesSince returns captures taken at or after the cutoff, newest first.
func (s *Store) CapturesSince(ctx context.Context, cutoff time.Time) ([]CaptureRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT url, file, taken_at FROM captures WHERE taken_at >= ? ORDER BY taken_at DESC, id DESC",
		cutoff.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("query captures: %w", err)
	}
	defer rows.Close()

	var records []CaptureRecord
	for rows.Next() {
		var r CaptureRecord
		var takenUnix int64
		if err := rows.Scan(&r.URL, &r.File, &takenUnix); err != nil {
			return nil, fmt.Errorf("scan capture: %w", err)
		}
		r.TakenAt = time.Unix(takenUnix, 0).UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return records, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
