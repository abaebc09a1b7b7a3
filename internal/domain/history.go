package domain

import "time"

// ValidationRun summarises one completed validation pass for the history
// store. The engine itself persists nothing; surfaces record runs after the
// fact.
type ValidationRun struct {
	ID          int64
	ProjectPath string
	RunAt       time.Time
	Duration    time.Duration
	Tracks      int
	Errors      int
	Warnings    int
	Infos       int
}

// Clean reports whether the run found no issues at any severity.
func (r ValidationRun) Clean() bool {
	return r.Errors == 0 && r.Warnings == 0 && r.Infos == 0
}

// CountRun builds a run summary from a detection result.
func CountRun(projectPath string, g *ProjectGraph, issues []Issue, took time.Duration) ValidationRun {
	run := ValidationRun{
		ProjectPath: projectPath,
		RunAt:       time.Now(),
		Duration:    took,
		Tracks:      len(g.Nodes),
	}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			run.Errors++
		case SeverityWarning:
			run.Warnings++
		default:
			run.Infos++
		}
	}
	return run
}
