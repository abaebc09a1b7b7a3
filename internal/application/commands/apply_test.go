package commands

import (
	"context"
	"testing"

	"routecheck/internal/adapters/memory"
	"routecheck/internal/application"
	"routecheck/internal/domain"
	"routecheck/internal/ports"
)

func narrowBusEngine(t *testing.T) (*application.Engine, *application.Report) {
	t.Helper()
	host := memory.NewHost(6,
		ports.HostTrack{ID: 1, Name: "Bus", ChannelCount: 2, FolderDepth: 1, MainSend: true},
		ports.HostTrack{ID: 2, Name: "Wide", ChannelCount: 6, FolderDepth: -1, MainSend: true},
	)
	engine := application.NewEngine(host, memory.NewGenerator(nil), application.WithFreshness(0))
	report, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(report.Suggestions) != 1 {
		t.Fatalf("fixture produced %d suggestions, want 1", len(report.Suggestions))
	}
	return engine, report
}

func TestApplyCommand_Validate(t *testing.T) {
	engine, report := narrowBusEngine(t)
	id := report.Suggestions[0].ID

	tests := []struct {
		name    string
		cmd     *ApplyCommand
		wantErr bool
	}{
		{"by id", NewApplyCommand(engine, report, id, false), false},
		{"all", NewApplyCommand(engine, report, "", true), false},
		{"neither", NewApplyCommand(engine, report, "", false), true},
		{"both", NewApplyCommand(engine, report, id, true), true},
		{"unknown id", NewApplyCommand(engine, report, "nope-1", false), true},
		{"no report", NewApplyCommand(engine, nil, id, false), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyCommand_ExecuteByID(t *testing.T) {
	engine, report := narrowBusEngine(t)

	cmd := NewApplyCommand(engine, report, report.Suggestions[0].ID, false)
	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(result.Applied) != 1 {
		t.Errorf("applied = %v, want one fix", result.Applied)
	}

	after, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !after.Clean() {
		t.Errorf("expected a clean report, got %v", after.Issues)
	}
}

func TestValidateCommand_Message(t *testing.T) {
	engine, _ := narrowBusEngine(t)

	result, err := NewValidateCommand(engine, true).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Report.Clean() {
		t.Fatal("fixture should have an issue")
	}
	if result.Message == "" {
		t.Error("expected a summary message")
	}
}

func TestApplicable_FiltersChoices(t *testing.T) {
	report := &application.Report{
		Suggestions: []*domain.FixSuggestion{
			{ID: "cap-low-0"},
			{ID: "order-1", RequiresChoice: true},
		},
	}
	got := Applicable(report)
	if len(got) != 1 || got[0].ID != "cap-low-0" {
		t.Errorf("Applicable = %v, want the non-choice fix only", got)
	}
}

func TestApplyCommand_AllSkipsChoiceOnlyReport(t *testing.T) {
	host := memory.NewHost(6,
		ports.HostTrack{ID: 1, Name: "Mix", ChannelCount: 6, FolderDepth: 1, MainSend: true},
		ports.HostTrack{ID: 2, Name: "FrontA", ChannelCount: 6, MainSend: true},
		ports.HostTrack{ID: 3, Name: "FrontB", ChannelCount: 6, FolderDepth: -1},
	)
	smpte, _ := domain.StandardLayout(5, domain.OrderSMPTE)
	film, _ := domain.StandardLayout(5, domain.OrderFilm)
	gen := memory.NewGenerator(map[string]domain.ChannelLayout{
		"FrontA": smpte,
		"FrontB": film,
	})
	engine := application.NewEngine(host, gen, application.WithFreshness(0))

	report, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(report.Suggestions) != 1 || !report.Suggestions[0].RequiresChoice {
		t.Fatalf("fixture should yield one choice suggestion, got %v", report.Suggestions)
	}

	cmd := NewApplyCommand(engine, report, "", true)
	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(result.Applied) != 0 || len(result.Failed) != 0 {
		t.Errorf("result = %+v, want nothing applied or failed", result)
	}
	if result.Message == "" {
		t.Error("expected a message explaining nothing was applicable")
	}
	if len(host.UndoBlocks) != 0 {
		t.Errorf("a batch with nothing applicable must not open a transaction, got %v", host.UndoBlocks)
	}
}
