package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"routecheck/internal/adapters/memory"
	"routecheck/internal/domain"
)

func TestValidate_CachesWithinFreshness(t *testing.T) {
	host := memory.NewHost(2, track(1, "Only", 2, 0, true))
	now := time.Unix(0, 0)
	engine := NewEngine(host, memory.NewGenerator(nil),
		WithClock(func() time.Time { return now }))

	first, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if first.FromCache {
		t.Error("first validation cannot come from cache")
	}

	now = now.Add(500 * time.Millisecond)
	second, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !second.FromCache {
		t.Error("validation within the freshness window should hit the cache")
	}
	if second.Graph != first.Graph {
		t.Error("cached report must return the previous result verbatim")
	}

	now = now.Add(time.Second)
	third, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if third.FromCache {
		t.Error("validation past the freshness window must re-scan")
	}
}

func TestValidate_CancelledContext(t *testing.T) {
	host := memory.NewHost(2, track(1, "Only", 2, 0, true))
	engine := NewEngine(host, memory.NewGenerator(nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := engine.Validate(ctx); err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
}

func TestValidate_PhaseTracking(t *testing.T) {
	host := memory.NewHost(6,
		track(1, "Bus", 2, 1, true),
		track(2, "Wide", 6, -1, true),
	)
	engine := NewEngine(host, memory.NewGenerator(nil))

	if engine.Phase() != PhaseStale {
		t.Errorf("initial phase = %s, want stale", engine.Phase())
	}
	if _, err := engine.Validate(context.Background()); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if engine.Phase() != PhaseIssuesFound {
		t.Errorf("phase = %s, want issues found", engine.Phase())
	}

	host.SetChannelCount(1, 6)
	engine.InvalidateCache()
	if engine.Phase() != PhaseStale {
		t.Errorf("phase after invalidation = %s, want stale", engine.Phase())
	}
	if _, err := engine.Validate(context.Background()); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if engine.Phase() != PhaseClean {
		t.Errorf("phase = %s, want clean", engine.Phase())
	}
}

func TestApplyOne_FixesCapacityAndInvalidates(t *testing.T) {
	host := memory.NewHost(6,
		track(1, "Bus", 2, 1, true),
		track(2, "Wide", 6, -1, true),
	)
	engine := NewEngine(host, memory.NewGenerator(nil), WithFreshness(0))

	report, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(report.Suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(report.Suggestions))
	}

	if err := engine.ApplyOne(context.Background(), report.Suggestions[0]); err != nil {
		t.Fatalf("ApplyOne failed: %v", err)
	}

	ht, _ := host.Track(1)
	if ht.ChannelCount != 6 {
		t.Errorf("Bus width = %d, want 6 after the fix", ht.ChannelCount)
	}
	if len(host.UndoBlocks) != 1 {
		t.Errorf("expected one undo block, got %v", host.UndoBlocks)
	}

	after, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !after.Clean() {
		t.Errorf("expected a clean report after the fix, got %v", after.Issues)
	}
}

func TestApplyOne_ChoiceFailsClosed(t *testing.T) {
	host, gen := conflictedProject()
	engine := NewEngine(host, gen, WithFreshness(0))

	report, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	s := report.Suggestions[0]
	if !s.RequiresChoice {
		t.Fatal("fixture should produce a choice suggestion")
	}

	err = engine.ApplyOne(context.Background(), s)
	if !errors.Is(err, ErrChoiceRequired) {
		t.Fatalf("err = %v, want ErrChoiceRequired", err)
	}
	// Fail closed: rejected before the host transaction even opens.
	if len(host.UndoBlocks) != 0 {
		t.Errorf("no undo block should exist, got %v", host.UndoBlocks)
	}
}

func TestApplyOne_RollsBackOnHostRefusal(t *testing.T) {
	host := memory.NewHost(6,
		track(1, "Bus", 2, 1, true),
		track(2, "Wide", 6, -1, true),
	)
	host.Refuse[1] = true
	engine := NewEngine(host, memory.NewGenerator(nil), WithFreshness(0))

	report, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	err = engine.ApplyOne(context.Background(), report.Suggestions[0])
	if err == nil {
		t.Fatal("expected the refused mutation to fail")
	}
	var ae *ApplyError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %T, want *ApplyError", err)
	}

	ht, _ := host.Track(1)
	if ht.ChannelCount != 2 {
		t.Errorf("Bus width = %d, want 2 after rollback", ht.ChannelCount)
	}
}

func TestApplyOne_StaleAfterInvalidation(t *testing.T) {
	host := memory.NewHost(6,
		track(1, "Bus", 2, 1, true),
		track(2, "Wide", 6, -1, true),
	)
	engine := NewEngine(host, memory.NewGenerator(nil), WithFreshness(0))

	report, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	engine.InvalidateCache()

	err = engine.ApplyOne(context.Background(), report.Suggestions[0])
	if !errors.Is(err, ErrStaleSuggestion) {
		t.Fatalf("err = %v, want ErrStaleSuggestion", err)
	}
}

func TestApplyAll_RecordsChoiceSuggestionsAsFailed(t *testing.T) {
	// A conflict plus a capacity problem cannot coexist in one report (the
	// conflict short-circuits), so build the batch by hand: resolve the
	// conflict first is the supported path, this exercises the guard.
	host, gen := conflictedProject()
	engine := NewEngine(host, gen, WithFreshness(0))

	report, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	result, err := engine.ApplyAll(context.Background(), report.Suggestions)
	if !errors.Is(err, ErrPartialApply) {
		t.Fatalf("err = %v, want ErrPartialApply", err)
	}
	if len(result.Applied) != 0 {
		t.Errorf("applied = %v, want none", result.Applied)
	}
	if len(result.Failed) != 1 || !errors.Is(result.Failed[0].Err, ErrChoiceRequired) {
		t.Errorf("failed = %v, want the choice suggestion recorded", result.Failed)
	}
}

func TestApplyAll_AppliesBatchInOneUndoBlock(t *testing.T) {
	host := memory.NewHost(6,
		track(1, "BusA", 2, 1, true),
		track(2, "WideA", 6, -1, true),
		track(3, "BusB", 2, 1, true),
		track(4, "WideB", 6, -1, true),
	)
	engine := NewEngine(host, memory.NewGenerator(nil), WithFreshness(0))

	report, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(report.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(report.Suggestions))
	}

	result, err := engine.ApplyAll(context.Background(), report.Suggestions)
	if err != nil {
		t.Fatalf("ApplyAll failed: %v", err)
	}
	if len(result.Applied) != 2 || len(result.Failed) != 0 {
		t.Fatalf("result = %+v, want both applied", result)
	}
	if len(host.UndoBlocks) != 1 {
		t.Errorf("expected one undo block for the batch, got %v", host.UndoBlocks)
	}

	after, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !after.Clean() {
		t.Errorf("expected a clean report, got %v", after.Issues)
	}
}

func TestResolveChoice_RejectsForeignOption(t *testing.T) {
	host, gen := conflictedProject()
	engine := NewEngine(host, gen, WithFreshness(0))

	report, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	s := report.Suggestions[0]

	foreign := &domain.FixOption{Label: "made up", Order: domain.OrderUnknown}
	err = engine.ResolveChoice(context.Background(), s, foreign)
	if !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("err = %v, want ErrUnknownOption", err)
	}
	if len(host.UndoBlocks) != 0 {
		t.Error("a rejected option must not open a transaction")
	}
}

func TestResolveChoice_RejectsNonChoiceSuggestion(t *testing.T) {
	host := memory.NewHost(6,
		track(1, "Bus", 2, 1, true),
		track(2, "Wide", 6, -1, true),
	)
	engine := NewEngine(host, memory.NewGenerator(nil), WithFreshness(0))

	report, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	s := report.Suggestions[0]

	err = engine.ResolveChoice(context.Background(), s, &domain.FixOption{Order: domain.OrderSMPTE})
	if !errors.Is(err, ErrNotChoice) {
		t.Fatalf("err = %v, want ErrNotChoice", err)
	}
}

// TestResolveChoice_Convergence drives the whole loop: a convention
// conflict, an explicit resolution, the follow-up alignment fix it exposes,
// and a final clean pass.
func TestResolveChoice_Convergence(t *testing.T) {
	host, gen := conflictedProject()
	engine := NewEngine(host, gen, WithFreshness(0))
	ctx := context.Background()

	report, err := engine.Validate(ctx)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	s := report.Suggestions[0]
	opt, ok := s.OptionByOrder(domain.OrderSMPTE)
	if !ok {
		t.Fatal("no SMPTE option")
	}

	if err := engine.ResolveChoice(ctx, s, opt); err != nil {
		t.Fatalf("ResolveChoice failed: %v", err)
	}

	// FrontB now records SMPTE, and its center send moved to where SMPTE
	// puts the center under its old film labels.
	ht, _ := host.Track(3)
	if ht.Order != domain.OrderSMPTE {
		t.Errorf("FrontB order = %s, want SMPTE recorded", ht.Order)
	}
	if ht.Sends[0].DstRaw != monoRaw(3) {
		t.Errorf("center send raw = %d, want mono channel 3", ht.Sends[0].DstRaw)
	}

	// The conflict is gone. Under the adopted convention FrontB's source
	// channel 2 carries R, so the rewritten send now reads as misaligned --
	// with a concrete reroute to finish the job.
	second, err := engine.Validate(ctx)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	for _, issue := range second.Issues {
		if issue.Kind == domain.IssueOrderConflict {
			t.Fatalf("conflict survived resolution: %v", issue)
		}
	}
	if len(second.Suggestions) != 1 || second.Suggestions[0].Action != domain.ActionRerouteTrack {
		t.Fatalf("expected one reroute suggestion, got %v", second.Suggestions)
	}
	if err := engine.ApplyOne(ctx, second.Suggestions[0]); err != nil {
		t.Fatalf("ApplyOne failed: %v", err)
	}

	final, err := engine.Validate(ctx)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !final.Clean() {
		t.Errorf("expected convergence to a clean project, got %v", final.Issues)
	}
}

func TestApplyAll_ShrinksOversizedFolder(t *testing.T) {
	host := memory.NewHost(2,
		track(1, "Bus", 8, 1, true),
		track(2, "Left", 2, 0, true),
		track(3, "Right", 2, -1, true),
	)
	engine := NewEngine(host, memory.NewGenerator(nil), WithFreshness(0))

	report, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	var shrink *domain.FixSuggestion
	for _, s := range report.Suggestions {
		if s.Issue.Kind == domain.IssueCapacityExcessive {
			shrink = s
		}
	}
	if shrink == nil {
		t.Fatalf("no shrink suggestion in %v", report.Suggestions)
	}
	if shrink.Issue.Severity != domain.SeverityWarning {
		t.Errorf("severity = %v, want warning", shrink.Issue.Severity)
	}
	if shrink.ChannelCount != 2 {
		t.Errorf("suggested channel count = %d, want 2", shrink.ChannelCount)
	}

	result, err := engine.ApplyAll(context.Background(), []*domain.FixSuggestion{shrink})
	if err != nil {
		t.Fatalf("ApplyAll failed: %v", err)
	}
	if len(result.Applied) != 1 {
		t.Fatalf("result = %+v, want one applied", result)
	}
	if ht, ok := host.Track(1); !ok || ht.ChannelCount != 2 {
		t.Errorf("bus channel count = %d, want 2", ht.ChannelCount)
	}

	after, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !after.Clean() {
		t.Errorf("expected a clean report after the shrink, got %v", after.Issues)
	}
}

func TestApplyOne_WidensMasterForOrphanSend(t *testing.T) {
	host := memory.NewHost(2,
		track(1, "Synth", 2, 0, true,
			send(domain.MasterID, monoRaw(1), monoRaw(5)),
		),
	)
	engine := NewEngine(host, memory.NewGenerator(nil), WithFreshness(0))

	report, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(report.Suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %v", report.Suggestions)
	}
	s := report.Suggestions[0]
	if s.TrackIndex != domain.MasterBusIndex {
		t.Fatalf("suggestion targets index %d, want the master sentinel", s.TrackIndex)
	}
	if s.ChannelCount != 6 {
		t.Errorf("target width = %d, want 6", s.ChannelCount)
	}

	if err := engine.ApplyOne(context.Background(), s); err != nil {
		t.Fatalf("ApplyOne failed: %v", err)
	}
	if got := host.MasterChannelCount(); got != 6 {
		t.Errorf("master channel count = %d, want 6", got)
	}

	after, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	for _, issue := range after.Issues {
		if issue.Kind == domain.IssueOrphanSend {
			t.Errorf("orphan survived the widening: %v", issue)
		}
	}
}
