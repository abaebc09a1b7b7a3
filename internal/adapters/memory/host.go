// Package memory provides in-memory implementations of the host and
// authoring-engine boundaries, used by tests and demo fixtures.
package memory

import (
	"fmt"

	"routecheck/internal/domain"
	"routecheck/internal/ports"
)

// Host implements ports.Host over a plain track slice. Begin snapshots the
// state; Rollback restores it; Commit drops the snapshot. Mutations can be
// made to fail per track to exercise application-time failure paths.
type Host struct {
	tracks []ports.HostTrack
	master int

	snapshot       []ports.HostTrack
	snapshotMaster int
	inTx           bool

	// Refuse makes every mutation on the given track fail, simulating a
	// host that rejects the change.
	Refuse map[domain.TrackID]bool

	// Vanished hides a track from Exists while it still appears in the
	// track list, simulating deletion mid-scan by the host UI.
	Vanished map[domain.TrackID]bool

	// UndoBlocks records the descriptions of committed transactions.
	UndoBlocks []string
}

// Ensure Host implements ports.Host
var _ ports.Host = (*Host)(nil)

// NewHost creates a host with the given tracks and master bus width.
func NewHost(master int, tracks ...ports.HostTrack) *Host {
	return &Host{
		tracks:   tracks,
		master:   master,
		Refuse:   make(map[domain.TrackID]bool),
		Vanished: make(map[domain.TrackID]bool),
	}
}

// Tracks snapshots the track list in order.
func (h *Host) Tracks() ([]ports.HostTrack, error) {
	out := make([]ports.HostTrack, len(h.tracks))
	for i, t := range h.tracks {
		out[i] = cloneTrack(t)
	}
	return out, nil
}

// Exists reports whether the track still resolves.
func (h *Host) Exists(id domain.TrackID) bool {
	if h.Vanished[id] {
		return false
	}
	_, ok := h.find(id)
	return ok
}

// MasterChannelCount returns the master bus width.
func (h *Host) MasterChannelCount() int {
	return h.master
}

// SetChannelCount changes a track's output width.
func (h *Host) SetChannelCount(id domain.TrackID, channels int) error {
	i, ok := h.find(id)
	if !ok || h.Refuse[id] {
		return fmt.Errorf("host refused channel count change on track %d", id)
	}
	h.tracks[i].ChannelCount = channels
	return nil
}

// SetMasterChannelCount changes the master bus width.
func (h *Host) SetMasterChannelCount(channels int) error {
	h.master = channels
	return nil
}

// SetSendDestChannel re-points a send's destination endpoint.
func (h *Host) SetSendDestChannel(id domain.TrackID, sendIndex int, raw int) error {
	i, ok := h.find(id)
	if !ok || h.Refuse[id] {
		return fmt.Errorf("host refused send change on track %d", id)
	}
	if sendIndex < 0 || sendIndex >= len(h.tracks[i].Sends) {
		return fmt.Errorf("track %d has no send %d", id, sendIndex)
	}
	h.tracks[i].Sends[sendIndex].DstRaw = raw
	return nil
}

// SetChannelOrder records an ordering convention on a track.
func (h *Host) SetChannelOrder(id domain.TrackID, order domain.ChannelOrder) error {
	i, ok := h.find(id)
	if !ok || h.Refuse[id] {
		return fmt.Errorf("host refused order change on track %d", id)
	}
	h.tracks[i].Order = order
	return nil
}

// Begin opens an undo block.
func (h *Host) Begin(description string) error {
	if h.inTx {
		return fmt.Errorf("transaction already open")
	}
	h.snapshot = make([]ports.HostTrack, len(h.tracks))
	for i, t := range h.tracks {
		h.snapshot[i] = cloneTrack(t)
	}
	h.snapshotMaster = h.master
	h.inTx = true
	h.UndoBlocks = append(h.UndoBlocks, description)
	return nil
}

// Commit keeps the mutations made since Begin.
func (h *Host) Commit() error {
	if !h.inTx {
		return fmt.Errorf("no open transaction")
	}
	h.snapshot = nil
	h.inTx = false
	return nil
}

// Rollback restores the Begin snapshot.
func (h *Host) Rollback() error {
	if !h.inTx {
		return fmt.Errorf("no open transaction")
	}
	h.tracks = h.snapshot
	h.master = h.snapshotMaster
	h.snapshot = nil
	h.inTx = false
	return nil
}

// Track returns the current state of a track, for test assertions.
func (h *Host) Track(id domain.TrackID) (ports.HostTrack, bool) {
	i, ok := h.find(id)
	if !ok {
		return ports.HostTrack{}, false
	}
	return cloneTrack(h.tracks[i]), true
}

func (h *Host) find(id domain.TrackID) (int, bool) {
	for i, t := range h.tracks {
		if t.ID == id {
			return i, true
		}
	}
	return 0, false
}

func cloneTrack(t ports.HostTrack) ports.HostTrack {
	out := t
	out.Sends = make([]ports.HostSend, len(t.Sends))
	copy(out.Sends, t.Sends)
	return out
}
