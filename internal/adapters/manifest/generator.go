// Package manifest implements the authoring-engine boundary from the
// manifest file the content-authoring tool writes next to a project: the
// group names it manages and the channel mode each group is generated with.
package manifest

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"routecheck/internal/domain"
	"routecheck/internal/ports"
)

// Group is one managed container as declared in the manifest.
type Group struct {
	Name     string   `toml:"name"`
	Channels int      `toml:"channels"`
	Order    string   `toml:"order"`  // "smpte" or "film"; only read for 5/7
	Labels   []string `toml:"labels"` // optional override of the label table
}

// File is the manifest document layout.
type File struct {
	Groups []Group `toml:"group"`
}

// Generator implements ports.Generator from a parsed manifest.
type Generator struct {
	groups map[string]Group
}

// Ensure Generator implements ports.Generator
var _ ports.Generator = (*Generator)(nil)

// Load reads and parses a manifest file.
func Load(path string) (*Generator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data)
}

// Parse builds a generator from manifest bytes.
func Parse(data []byte) (*Generator, error) {
	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	groups := make(map[string]Group, len(file.Groups))
	for _, grp := range file.Groups {
		if grp.Name == "" {
			return nil, fmt.Errorf("manifest group without a name")
		}
		if grp.Channels < 1 {
			return nil, fmt.Errorf("group %q: invalid channel count %d", grp.Name, grp.Channels)
		}
		if len(grp.Labels) > 0 && len(grp.Labels) != grp.Channels {
			return nil, fmt.Errorf("group %q: %d labels for %d channels", grp.Name, len(grp.Labels), grp.Channels)
		}
		if _, dup := groups[grp.Name]; dup {
			return nil, fmt.Errorf("duplicate manifest group %q", grp.Name)
		}
		groups[grp.Name] = grp
	}
	return &Generator{groups: groups}, nil
}

// ManagedTrackNames returns every group name in the manifest.
func (g *Generator) ManagedTrackNames() (map[string]struct{}, error) {
	names := make(map[string]struct{}, len(g.groups))
	for name := range g.groups {
		names[name] = struct{}{}
	}
	return names, nil
}

// RequiredChannelLayout derives the declared layout for a group: its label
// override when present, otherwise the standard table for its width under
// its declared ordering convention.
func (g *Generator) RequiredChannelLayout(name string) (domain.ChannelLayout, bool, error) {
	grp, ok := g.groups[name]
	if !ok {
		return domain.ChannelLayout{}, false, nil
	}

	order := domain.OrderUnknown
	if domain.OrderAmbiguous(grp.Channels) {
		if grp.Order == "" {
			order = domain.OrderSMPTE
		} else {
			parsed, err := domain.ParseChannelOrder(grp.Order)
			if err != nil {
				return domain.ChannelLayout{}, false, fmt.Errorf("group %q: %w", name, err)
			}
			order = parsed
		}
	}

	if len(grp.Labels) > 0 {
		return domain.ChannelLayout{
			ChannelCount: grp.Channels,
			Labels:       grp.Labels,
			Order:        order,
		}, true, nil
	}

	layout, ok := domain.StandardLayout(grp.Channels, order)
	if !ok {
		return domain.ChannelLayout{}, false, nil
	}
	return layout, true, nil
}
