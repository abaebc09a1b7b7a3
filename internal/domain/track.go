package domain

import "time"

// TrackID is the host's stable identity for a track. It survives a re-scan;
// TrackNode values do not.
type TrackID int

// MasterID is the pseudo-identity of the master bus node.
const MasterID TrackID = -1

// Send is one routing connection from the owning track to another track.
type Send struct {
	DestID  TrackID
	Index   int // position in the host's send list for the owning track
	Source  ChannelSpec
	Dest    ChannelSpec
	Enabled bool
}

// TrackNode is one track captured during a scan. Parent and Children are
// indices into the owning ProjectGraph's node arena, never pointers between
// nodes, so a graph can be dropped wholesale without cycles.
//
// Nodes are rebuilt from scratch on every scan and must be treated as
// dangling after any apply call.
type TrackNode struct {
	ID           TrackID
	Name         string
	ChannelCount int
	Parent       int // arena index, -1 when top-level
	Children     []int
	Sends        []Send
	IsManaged    bool
	// ForwardsToMain is true when the track's main output feeds its parent
	// (or the master bus when top-level).
	ForwardsToMain bool
	// Declared is the channel layout the authoring engine says this managed
	// container should have; nil for foreign tracks and unknown containers.
	Declared *ChannelLayout
	// Issues found on this node during the last detection run.
	Issues []Issue
}

// IsFolder reports whether the node has at least one child whose parent
// links back to it. Children are derived purely from parent links, so the
// two can never disagree.
func (n *TrackNode) IsFolder() bool {
	return len(n.Children) > 0
}

// SendsTo returns the node's enabled sends targeting dest.
func (n *TrackNode) SendsTo(dest TrackID) []Send {
	var out []Send
	for _, s := range n.Sends {
		if s.Enabled && s.DestID == dest {
			out = append(out, s)
		}
	}
	return out
}

// ProjectGraph is the in-memory model of the host track set, captured by one
// scan and owned exclusively by the engine for one validation cycle.
type ProjectGraph struct {
	Nodes     []*TrackNode
	Managed   []int // arena indices of managed tracks, in host order
	TopLevel  []int // arena indices of tracks with no parent
	ByID      map[TrackID]int
	MasterBus *TrackNode // not part of Nodes; ID == MasterID
	ScannedAt time.Time
}

// Node returns the node at an arena index, or nil when out of range or when
// the index addresses the master bus.
func (g *ProjectGraph) Node(i int) *TrackNode {
	if i < 0 || i >= len(g.Nodes) {
		return nil
	}
	return g.Nodes[i]
}

// Lookup resolves a host identity to its node for this scan.
func (g *ProjectGraph) Lookup(id TrackID) (*TrackNode, bool) {
	if id == MasterID && g.MasterBus != nil {
		return g.MasterBus, true
	}
	i, ok := g.ByID[id]
	if !ok {
		return nil, false
	}
	return g.Nodes[i], true
}

// Depth returns how many parents sit above the node at arena index i.
func (g *ProjectGraph) Depth(i int) int {
	depth := 0
	for n := g.Node(i); n != nil && n.Parent >= 0; n = g.Node(n.Parent) {
		depth++
	}
	return depth
}

// MaxChannelCount returns the widest channel count of any track in the
// project, or 0 for an empty project.
func (g *ProjectGraph) MaxChannelCount() int {
	max := 0
	for _, n := range g.Nodes {
		if n.ChannelCount > max {
			max = n.ChannelCount
		}
	}
	return max
}
