package mcp

import (
	"sync"

	"routecheck/internal/application"
)

// Service wraps the validation engine for tool handlers. The engine itself
// is single-threaded, and suggestion IDs only make sense against the report
// they came from, so the service serializes calls and keeps the last report
// for apply and resolve tools to address into.
type Service struct {
	mu     sync.Mutex
	engine *application.Engine
	report *application.Report
}

// NewService creates a new Service around an engine.
func NewService(engine *application.Engine) *Service {
	return &Service{engine: engine}
}
