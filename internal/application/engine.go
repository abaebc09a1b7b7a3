package application

import (
	"context"
	"time"

	"routecheck/internal/domain"
	"routecheck/internal/ports"
)

// DefaultFreshness is how long a scan result stays valid without an
// intervening mutation. Validation can fire on every UI redraw; anything
// younger than this is returned verbatim.
const DefaultFreshness = time.Second

// Phase is where the engine sits in its validation cycle. Purely
// informational, for status lines.
type Phase int

const (
	PhaseStale Phase = iota
	PhaseScanning
	PhaseDetecting
	PhaseClean
	PhaseIssuesFound
	PhasePlanning
	PhaseChoosing
	PhaseApplying
)

func (p Phase) String() string {
	switch p {
	case PhaseStale:
		return "stale"
	case PhaseScanning:
		return "scanning"
	case PhaseDetecting:
		return "detecting"
	case PhaseClean:
		return "clean"
	case PhaseIssuesFound:
		return "issues found"
	case PhasePlanning:
		return "planning"
	case PhaseChoosing:
		return "awaiting choice"
	case PhaseApplying:
		return "applying"
	default:
		return "unknown"
	}
}

// Report is the result of one validation cycle. Its graph and suggestions
// are owned by the engine and dangle after any apply call.
type Report struct {
	Graph       *domain.ProjectGraph
	Issues      []domain.Issue
	Suggestions []*domain.FixSuggestion
	FromCache   bool
	Duration    time.Duration
}

// Clean reports whether validation found nothing.
func (r *Report) Clean() bool {
	return len(r.Issues) == 0
}

// Counts returns the issue totals per severity.
func (r *Report) Counts() (errors, warnings, infos int) {
	for _, issue := range r.Issues {
		switch issue.Severity {
		case domain.SeverityError:
			errors++
		case domain.SeverityWarning:
			warnings++
		default:
			infos++
		}
	}
	return errors, warnings, infos
}

// SuggestionByID finds a suggestion from this report.
func (r *Report) SuggestionByID(id string) (*domain.FixSuggestion, bool) {
	for _, s := range r.Suggestions {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Engine drives the validation cycle: scan, detect, plan, apply,
// invalidate. Single-threaded and synchronous by contract; the host graph
// is not safely mutable from a background goroutine, so everything runs on
// the caller's goroutine to completion.
type Engine struct {
	host      ports.Host
	scanner   *Scanner
	detector  *Detector
	planner   *Planner
	freshness time.Duration
	now       func() time.Time

	cached    *Report
	scannedAt time.Time
	phase     Phase
}

// Option configures an Engine.
type Option func(*Engine)

// WithFreshness overrides the cache freshness window.
func WithFreshness(d time.Duration) Option {
	return func(e *Engine) { e.freshness = d }
}

// WithClock overrides the engine's time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine over a host and the authoring engine
// boundary.
func NewEngine(host ports.Host, gen ports.Generator, opts ...Option) *Engine {
	e := &Engine{
		host:      host,
		scanner:   NewScanner(host, gen),
		detector:  NewDetector(),
		planner:   NewPlanner(),
		freshness: DefaultFreshness,
		now:       time.Now,
		phase:     PhaseStale,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Phase returns where the engine currently sits in its cycle.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Validate runs scan → detect → plan, or returns the previous result
// verbatim when it is fresh enough and nothing has mutated the graph since.
func (e *Engine) Validate(ctx context.Context) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if e.cached != nil && e.now().Sub(e.scannedAt) < e.freshness {
		cached := *e.cached
		cached.FromCache = true
		return &cached, nil
	}

	start := e.now()

	e.phase = PhaseScanning
	g, err := e.scanner.Scan()
	if err != nil {
		e.phase = PhaseStale
		return nil, err
	}

	e.phase = PhaseDetecting
	issues := e.detector.Detect(g)

	var suggestions []*domain.FixSuggestion
	if len(issues) > 0 {
		e.phase = PhasePlanning
		suggestions = e.planner.PlanAll(g, issues)
	}

	report := &Report{
		Graph:       g,
		Issues:      issues,
		Suggestions: suggestions,
		Duration:    e.now().Sub(start),
	}
	e.cached = report
	e.scannedAt = e.now()

	if report.Clean() {
		e.phase = PhaseClean
	} else {
		e.phase = PhaseIssuesFound
	}
	return report, nil
}

// InvalidateCache drops the cached graph so the next Validate re-scans.
// Collaborators that mutate the track graph outside this engine must call
// it; the engine cannot tell on its own.
func (e *Engine) InvalidateCache() {
	e.cached = nil
	e.scannedAt = time.Time{}
	e.phase = PhaseStale
}
