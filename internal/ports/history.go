package ports

import "routecheck/internal/domain"

// HistoryStore keeps summaries of past validation runs. It lives entirely
// outside the engine: surfaces record runs after Validate returns, and the
// engine neither reads nor writes it.
type HistoryStore interface {
	Open(dbPath string) error
	Close() error

	// RecordRun persists one run summary and fills in its ID.
	RecordRun(run *domain.ValidationRun) error

	// RecentRuns returns up to limit runs for a project, newest first.
	RecentRuns(projectPath string, limit int) ([]domain.ValidationRun, error)
}
