package application

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"routecheck/internal/domain"
	"routecheck/internal/ports"
)

// layoutCacheSize bounds the memoized layout lookups. Projects have at most
// a few hundred managed containers.
const layoutCacheSize = 256

type layoutEntry struct {
	layout domain.ChannelLayout
	known  bool
}

// Scanner walks the live host track set once per validation pass and builds
// an in-memory ProjectGraph. Pure capture: no analysis logic lives here.
type Scanner struct {
	host    ports.Host
	gen     ports.Generator
	layouts *lru.Cache[string, layoutEntry]
}

// NewScanner creates a scanner over a host and the authoring engine
// boundary.
func NewScanner(host ports.Host, gen ports.Generator) *Scanner {
	cache, _ := lru.New[string, layoutEntry](layoutCacheSize)
	return &Scanner{host: host, gen: gen, layouts: cache}
}

// Scan captures the host track list into a fresh ProjectGraph.
//
// Every track that exists in the host is represented exactly once. Children
// are derived purely from parent links, which in turn come from the host's
// folder-depth markers in list order. A track whose identity no longer
// resolves mid-scan is skipped, never a scan failure.
func (s *Scanner) Scan() (*domain.ProjectGraph, error) {
	hostTracks, err := s.host.Tracks()
	if err != nil {
		return nil, fmt.Errorf("failed to list host tracks: %w", err)
	}

	managed, err := s.gen.ManagedTrackNames()
	if err != nil {
		return nil, fmt.Errorf("failed to list managed track names: %w", err)
	}

	g := &domain.ProjectGraph{
		ByID:      make(map[domain.TrackID]int, len(hostTracks)),
		ScannedAt: time.Now(),
	}

	// Open folders, innermost last. A positive folder depth starts one, a
	// negative depth closes that many after the track itself.
	var stack []int

	for _, ht := range hostTracks {
		if !s.host.Exists(ht.ID) {
			// The folder markers still count; a vanished folder opener
			// would otherwise mis-parent every track after it. Its
			// children fall back to its own parent.
			ghost := -1
			if len(stack) > 0 {
				ghost = stack[len(stack)-1]
			}
			stack = adjustDepth(stack, ht.FolderDepth, ghost)
			continue
		}

		node := &domain.TrackNode{
			ID:             ht.ID,
			Name:           ht.Name,
			ChannelCount:   ht.ChannelCount,
			Parent:         -1,
			ForwardsToMain: ht.MainSend,
		}
		if len(stack) > 0 {
			node.Parent = stack[len(stack)-1]
		}

		for i, hs := range ht.Sends {
			src, err := domain.ParseChannelSpec(hs.SrcRaw)
			if err != nil {
				continue
			}
			dst, err := domain.ParseChannelSpec(hs.DstRaw)
			if err != nil {
				continue
			}
			node.Sends = append(node.Sends, domain.Send{
				DestID:  hs.DestID,
				Index:   i,
				Source:  src,
				Dest:    dst,
				Enabled: hs.Enabled,
			})
		}

		if _, ok := managed[ht.Name]; ok {
			node.IsManaged = true
			if layout, known, err := s.requiredLayout(ht.Name); err == nil && known {
				// A convention recorded on the track itself wins over the
				// one the authoring engine declares; resolving an order
				// conflict rewrites that marker.
				if ht.Order != domain.OrderUnknown && domain.OrderAmbiguous(layout.ChannelCount) {
					if override, ok := domain.StandardLayout(layout.ChannelCount, ht.Order); ok {
						layout = override
					}
				}
				node.Declared = &layout
			}
		}

		idx := len(g.Nodes)
		g.Nodes = append(g.Nodes, node)
		g.ByID[ht.ID] = idx
		if node.Parent >= 0 {
			parent := g.Nodes[node.Parent]
			parent.Children = append(parent.Children, idx)
		} else {
			g.TopLevel = append(g.TopLevel, idx)
		}
		if node.IsManaged {
			g.Managed = append(g.Managed, idx)
		}

		stack = adjustDepth(stack, ht.FolderDepth, idx)
	}

	g.MasterBus = &domain.TrackNode{
		ID:           domain.MasterID,
		Name:         "Master",
		ChannelCount: s.host.MasterChannelCount(),
		Parent:       -1,
	}

	return g, nil
}

// adjustDepth applies one track's folder-depth marker to the open-folder
// stack. A positive depth opens a folder under self, a negative depth
// closes that many.
func adjustDepth(stack []int, depth, self int) []int {
	if depth > 0 {
		return append(stack, self)
	}
	if depth < 0 {
		pop := -depth
		if pop > len(stack) {
			pop = len(stack)
		}
		stack = stack[:len(stack)-pop]
	}
	return stack
}

// requiredLayout memoizes Generator.RequiredChannelLayout per container
// name. The authoring engine re-derives layouts per query, so repeated
// validation passes would otherwise pay that cost for every managed track.
func (s *Scanner) requiredLayout(name string) (domain.ChannelLayout, bool, error) {
	if entry, ok := s.layouts.Get(name); ok {
		return entry.layout, entry.known, nil
	}
	layout, known, err := s.gen.RequiredChannelLayout(name)
	if err != nil {
		return domain.ChannelLayout{}, false, err
	}
	s.layouts.Add(name, layoutEntry{layout: layout, known: known})
	return layout, known, nil
}
