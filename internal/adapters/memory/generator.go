package memory

import (
	"routecheck/internal/domain"
	"routecheck/internal/ports"
)

// Generator implements ports.Generator from literal maps.
type Generator struct {
	Layouts map[string]domain.ChannelLayout
}

// Ensure Generator implements ports.Generator
var _ ports.Generator = (*Generator)(nil)

// NewGenerator creates a generator declaring the given container layouts.
// Every key counts as a managed track name.
func NewGenerator(layouts map[string]domain.ChannelLayout) *Generator {
	if layouts == nil {
		layouts = make(map[string]domain.ChannelLayout)
	}
	return &Generator{Layouts: layouts}
}

// ManagedTrackNames returns the declared container names.
func (g *Generator) ManagedTrackNames() (map[string]struct{}, error) {
	names := make(map[string]struct{}, len(g.Layouts))
	for name := range g.Layouts {
		names[name] = struct{}{}
	}
	return names, nil
}

// RequiredChannelLayout returns the declared layout for a container name.
func (g *Generator) RequiredChannelLayout(name string) (domain.ChannelLayout, bool, error) {
	layout, ok := g.Layouts[name]
	return layout, ok, nil
}
