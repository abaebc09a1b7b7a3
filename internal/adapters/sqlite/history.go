// Package sqlite persists validation-run history. The engine itself owns no
// state; surfaces record runs here after a validate returns.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"routecheck/internal/domain"
	"routecheck/internal/ports"
)

// History implements ports.HistoryStore using SQLite.
type History struct {
	db *sql.DB
}

// Ensure History implements HistoryStore
var _ ports.HistoryStore = (*History)(nil)

// NewHistory creates an unopened history store.
func NewHistory() *History {
	return &History{}
}

// Open initializes the store at the given database path.
func (h *History) Open(dbPath string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	h.db = db

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project TEXT NOT NULL,
			run_at INTEGER NOT NULL,
			duration_us INTEGER NOT NULL,
			tracks INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			warnings INTEGER NOT NULL,
			infos INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_project ON runs(project, run_at);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup history database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (h *History) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}

// RecordRun persists one run summary and fills in its ID.
func (h *History) RecordRun(run *domain.ValidationRun) error {
	res, err := h.db.Exec(`
		INSERT INTO runs (project, run_at, duration_us, tracks, errors, warnings, infos)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ProjectPath, run.RunAt.Unix(), run.Duration.Microseconds(),
		run.Tracks, run.Errors, run.Warnings, run.Infos)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	run.ID, err = res.LastInsertId()
	return err
}

// RecentRuns returns up to limit runs for a project, newest first.
func (h *History) RecentRuns(projectPath string, limit int) ([]domain.ValidationRun, error) {
	rows, err := h.db.Query(`
		SELECT id, project, run_at, duration_us, tracks, errors, warnings, infos
		FROM runs
		WHERE project = ?
		ORDER BY run_at DESC, id DESC
		LIMIT ?
	`, projectPath, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.ValidationRun
	for rows.Next() {
		var run domain.ValidationRun
		var runAt, durationUS int64
		if err := rows.Scan(&run.ID, &run.ProjectPath, &runAt, &durationUS,
			&run.Tracks, &run.Errors, &run.Warnings, &run.Infos); err != nil {
			return nil, err
		}
		run.RunAt = time.Unix(runAt, 0)
		run.Duration = time.Duration(durationUS) * time.Microsecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
