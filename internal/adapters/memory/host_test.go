package memory

import (
	"testing"

	"routecheck/internal/domain"
	"routecheck/internal/ports"
)

func twoTracks() *Host {
	return NewHost(4,
		ports.HostTrack{ID: 1, Name: "Bus", ChannelCount: 4},
		ports.HostTrack{ID: 2, Name: "Source", ChannelCount: 2, Sends: []ports.HostSend{
			{DestID: 1, SrcRaw: 0, DstRaw: 0, Enabled: true},
		}},
	)
}

func TestHost_RollbackRestoresEverything(t *testing.T) {
	h := twoTracks()

	if err := h.Begin("doomed"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := h.SetChannelCount(1, 8); err != nil {
		t.Fatalf("SetChannelCount failed: %v", err)
	}
	if err := h.SetSendDestChannel(2, 0, 1026); err != nil {
		t.Fatalf("SetSendDestChannel failed: %v", err)
	}
	if err := h.SetMasterChannelCount(8); err != nil {
		t.Fatalf("SetMasterChannelCount failed: %v", err)
	}
	if err := h.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	ht, _ := h.Track(1)
	if ht.ChannelCount != 4 {
		t.Errorf("width = %d, want 4 restored", ht.ChannelCount)
	}
	src, _ := h.Track(2)
	if src.Sends[0].DstRaw != 0 {
		t.Errorf("send raw = %d, want 0 restored", src.Sends[0].DstRaw)
	}
	if h.MasterChannelCount() != 4 {
		t.Errorf("master = %d, want 4 restored", h.MasterChannelCount())
	}
}

func TestHost_CommitKeepsChanges(t *testing.T) {
	h := twoTracks()

	if err := h.Begin("widen"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := h.SetChannelCount(1, 8); err != nil {
		t.Fatalf("SetChannelCount failed: %v", err)
	}
	if err := h.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	ht, _ := h.Track(1)
	if ht.ChannelCount != 8 {
		t.Errorf("width = %d, want 8 kept", ht.ChannelCount)
	}
	if len(h.UndoBlocks) != 1 || h.UndoBlocks[0] != "widen" {
		t.Errorf("undo blocks = %v", h.UndoBlocks)
	}
}

func TestHost_RefusedMutation(t *testing.T) {
	h := twoTracks()
	h.Refuse[1] = true

	if err := h.SetChannelCount(1, 8); err == nil {
		t.Error("expected the refused mutation to fail")
	}
	if err := h.SetChannelCount(2, 4); err != nil {
		t.Errorf("other tracks should still mutate: %v", err)
	}
}

func TestHost_VanishedTrack(t *testing.T) {
	h := twoTracks()
	h.Vanished[2] = true

	if h.Exists(2) {
		t.Error("vanished track should not exist")
	}
	// Still present in the raw list; the scanner is the one that skips it.
	tracks, _ := h.Tracks()
	if len(tracks) != 2 {
		t.Errorf("track list has %d entries, want 2", len(tracks))
	}
}

func TestHost_TracksSnapshotIsDetached(t *testing.T) {
	h := twoTracks()
	tracks, _ := h.Tracks()

	tracks[1].Sends[0].DstRaw = 999

	fresh, _ := h.Track(2)
	if fresh.Sends[0].DstRaw != 0 {
		t.Error("mutating a snapshot must not reach the host state")
	}
}

func TestGenerator_Lookup(t *testing.T) {
	layout, _ := domain.StandardLayout(5, domain.OrderFilm)
	g := NewGenerator(map[string]domain.ChannelLayout{"Front": layout})

	names, err := g.ManagedTrackNames()
	if err != nil {
		t.Fatalf("ManagedTrackNames failed: %v", err)
	}
	if _, ok := names["Front"]; !ok || len(names) != 1 {
		t.Errorf("names = %v", names)
	}

	got, ok, err := g.RequiredChannelLayout("Front")
	if err != nil || !ok {
		t.Fatalf("lookup: ok=%v err=%v", ok, err)
	}
	if got.Order != domain.OrderFilm {
		t.Errorf("order = %s, want Film", got.Order)
	}
	if _, ok, _ := g.RequiredChannelLayout("Other"); ok {
		t.Error("unknown name must not resolve")
	}
}
