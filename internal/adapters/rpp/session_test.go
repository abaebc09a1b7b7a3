package rpp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"routecheck/internal/domain"
)

func writeProject(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.rpp")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoad_TranslatesReceivesToSends(t *testing.T) {
	s, err := Load(writeProject(t, sampleProject))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tracks, err := s.Tracks()
	if err != nil {
		t.Fatalf("Tracks failed: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}

	bus := tracks[0]
	if bus.Name != "Mix Bus" || bus.ChannelCount != 6 || bus.FolderDepth != 1 {
		t.Errorf("bus = %+v", bus)
	}
	if len(bus.Sends) != 0 {
		t.Errorf("the receive belongs to the source track, not the bus")
	}

	front := tracks[1]
	if front.FolderDepth != -1 {
		t.Errorf("front folder depth = %d, want -1", front.FolderDepth)
	}
	if front.Order != domain.OrderFilm {
		t.Errorf("front order = %s, want Film from CHANORDER", front.Order)
	}
	// The AUXRECV on the bus names track 1 as its source, so the send
	// surfaces on Front, targeting the bus.
	if len(front.Sends) != 1 {
		t.Fatalf("expected 1 send on Front, got %d", len(front.Sends))
	}
	snd := front.Sends[0]
	if snd.DestID != 0 || snd.SrcRaw != 0 || snd.DstRaw != 2 || !snd.Enabled {
		t.Errorf("send = %+v", snd)
	}
}

func TestSession_MasterChannelCount(t *testing.T) {
	s, err := Load(writeProject(t, sampleProject))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if n := s.MasterChannelCount(); n != 6 {
		t.Errorf("master width = %d, want 6", n)
	}
}

func TestSession_CommitWritesFileAndBackup(t *testing.T) {
	path := writeProject(t, sampleProject)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := s.Begin("widen the bus"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := s.SetChannelCount(0, 8); err != nil {
		t.Fatalf("SetChannelCount failed: %v", err)
	}
	if err := s.SetMasterChannelCount(8); err != nil {
		t.Fatalf("SetMasterChannelCount failed: %v", err)
	}
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading project back: %v", err)
	}
	if !strings.Contains(string(written), "NCHAN 8") {
		t.Error("channel change did not reach the file")
	}
	if !strings.Contains(string(written), "MASTER_NCH 8") {
		t.Error("master change did not reach the file")
	}

	backup, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("no backup written: %v", err)
	}
	if string(backup) != sampleProject {
		t.Error("backup should hold the previous contents")
	}
}

func TestSession_RollbackRestoresTree(t *testing.T) {
	path := writeProject(t, sampleProject)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := s.Begin("doomed change"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := s.SetChannelCount(0, 16); err != nil {
		t.Fatalf("SetChannelCount failed: %v", err)
	}
	if err := s.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	tracks, _ := s.Tracks()
	if tracks[0].ChannelCount != 6 {
		t.Errorf("width = %d, want 6 restored", tracks[0].ChannelCount)
	}

	// Nothing committed, nothing on disk changes.
	if _, err := os.Stat(path + ".bak"); !os.IsNotExist(err) {
		t.Error("rollback must not touch the file")
	}
}

func TestSession_SetSendDestChannel(t *testing.T) {
	path := writeProject(t, sampleProject)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := s.Begin("re-point send"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	// Track 1 owns the only send; move its destination endpoint.
	if err := s.SetSendDestChannel(1, 0, 4); err != nil {
		t.Fatalf("SetSendDestChannel failed: %v", err)
	}
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	tracks, _ := reloaded.Tracks()
	if tracks[1].Sends[0].DstRaw != 4 {
		t.Errorf("dst raw = %d, want 4 after commit", tracks[1].Sends[0].DstRaw)
	}
}

func TestSession_SetChannelOrder(t *testing.T) {
	path := writeProject(t, sampleProject)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := s.Begin("adopt smpte"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := s.SetChannelOrder(1, domain.OrderSMPTE); err != nil {
		t.Fatalf("SetChannelOrder failed: %v", err)
	}
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	tracks, _ := reloaded.Tracks()
	if tracks[1].Order != domain.OrderSMPTE {
		t.Errorf("order = %s, want SMPTE persisted", tracks[1].Order)
	}
}

func TestSession_NestedTransactionRefused(t *testing.T) {
	s, err := Load(writeProject(t, sampleProject))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := s.Begin("outer"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := s.Begin("inner"); err == nil {
		t.Error("nested Begin must fail")
	}
	if err := s.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}
	if err := s.Commit(); err == nil {
		t.Error("Commit without a transaction must fail")
	}
}

func TestSession_MissingTrack(t *testing.T) {
	s, err := Load(writeProject(t, sampleProject))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Exists(5) {
		t.Error("track 5 should not exist")
	}
	if err := s.SetChannelCount(5, 4); err == nil {
		t.Error("mutating a missing track must fail")
	}
}
