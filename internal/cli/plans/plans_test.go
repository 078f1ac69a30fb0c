package plans

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/timebox/internal/ai"
	"github.com/julianstephens/timebox/internal/cli"
	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/history"
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/planner"
	"github.com/julianstephens/timebox/internal/scheduler"
	"github.com/julianstephens/timebox/internal/storage"
	"github.com/julianstephens/timebox/internal/storage/sqlite"
)

func setupTestDB(t *testing.T, suggester ai.Suggester) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{
		Store:     store,
		Backend:   cli.BackendSQLite,
		Scheduler: scheduler.New(suggester),
		Owner:     "sam",
		Out:       out,
	}, out
}

func fixedSuggester(notes *string) ai.Suggester {
	return ai.SuggesterFunc(func(_ context.Context, n string, _ []models.Block) (*models.Proposal, error) {
		if notes != nil {
			*notes = n
		}
		return &models.Proposal{
			Priorities: []string{"Ship the report", "Call the bank"},
			Schedule: []models.ProposedBlock{
				{StartTime: "09:00", Title: "Report", Duration: 120, Category: "work"},
				{StartTime: "12:00", Title: "Lunch", Duration: 60, Category: "food"},
			},
		}, nil
	})
}

func TestGenerateCmd_SavesPlan(t *testing.T) {
	var sent string
	ctx, out := setupTestDB(t, fixedSuggester(&sent))

	cmd := &GenerateCmd{Date: "2024-05-01", Dump: "report, bank", Save: true, Width: 100}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if sent != "report, bank" {
		t.Errorf("notes sent = %q", sent)
	}
	if !strings.Contains(out.String(), "■ Report") {
		t.Errorf("output missing rendered block:\n%s", out.String())
	}

	plans, err := ctx.Store.GetDayPlans("sam")
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) != 1 {
		t.Fatalf("len(plans) = %d, want 1", len(plans))
	}
	plan := history.Restore(plans[0])
	if plan.Priorities[0] != "Ship the report" || plan.Priorities[2] != "" {
		t.Errorf("priorities = %q", plan.Priorities)
	}
	if b, ok := planner.BlockForSlot(plan, "12:00"); !ok || b.Color != models.CategoryOther {
		t.Errorf("lunch block = %+v, %v", b, ok)
	}
}

func TestGenerateCmd_EmptyDumpUsesSample(t *testing.T) {
	var sent string
	ctx, out := setupTestDB(t, fixedSuggester(&sent))

	if err := (&GenerateCmd{Date: "2024-05-01"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if sent != constants.SampleBrainDump {
		t.Errorf("notes sent = %q, want sample", sent)
	}
	if !strings.Contains(out.String(), "sample notes") {
		t.Error("expected a demo notice")
	}
	if plans, _ := ctx.Store.GetDayPlans("sam"); len(plans) != 0 {
		t.Error("plan saved without --save")
	}
}

func TestGenerateCmd_ResumesSavedPlan(t *testing.T) {
	ctx, _ := setupTestDB(t, fixedSuggester(nil))
	saved := planner.NewDayPlan("keep-id", "2024-05-01")
	saved = planner.SetBrainDump(saved, "saved notes")
	saved = planner.SetTrackerText(saved, "09:00", 0, "done")
	if err := ctx.Store.SaveDayPlan("sam", history.Capture(saved)); err != nil {
		t.Fatal(err)
	}

	if err := (&GenerateCmd{Date: "2024-05-01", Save: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	snap, err := ctx.Store.GetDayPlan("sam", "keep-id")
	if err != nil {
		t.Fatalf("saved plan replaced instead of updated: %v", err)
	}
	plan := history.Restore(snap)
	if plan.BrainDump != "saved notes" || planner.TrackerCells(plan, "09:00")[0].Text != "done" {
		t.Errorf("plan = %+v", plan)
	}
}

func TestGenerateCmd_Errors(t *testing.T) {
	tests := []struct {
		name      string
		suggester ai.Suggester
		date      string
		wantErr   error
	}{
		{"not configured", nil, "2024-05-01", ai.ErrNotConfigured},
		{"collaborator error", ai.SuggesterFunc(func(context.Context, string, []models.Block) (*models.Proposal, error) {
			return nil, ai.ErrUnparsable
		}), "2024-05-01", ai.ErrUnparsable},
		{"bad date", fixedSuggester(nil), "May 1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestDB(t, tt.suggester)
			err := (&GenerateCmd{Date: tt.date, Save: true}).Run(ctx)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if plans, _ := ctx.Store.GetDayPlans("sam"); len(plans) != 0 {
				t.Error("failed generation saved a plan")
			}
		})
	}
}

func TestHistoryCommands(t *testing.T) {
	ctx, out := setupTestDB(t, nil)
	plan := planner.SetPriority(planner.NewDayPlan("p1", "2024-05-01"), 1, "call mom")
	if err := ctx.Store.SaveDayPlan("sam", history.Capture(plan)); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Store.SaveDayPlan("alex", history.Capture(planner.NewDayPlan("p2", "2024-05-02"))); err != nil {
		t.Fatal(err)
	}

	if err := (&HistoryListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "p1") || strings.Contains(out.String(), "p2") {
		t.Errorf("list output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "call mom") {
		t.Errorf("list should show the first priority:\n%s", out.String())
	}

	out.Reset()
	if err := (&HistoryShowCmd{ID: "p1", Width: 80}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "2024-05-01") {
		t.Errorf("show output:\n%s", out.String())
	}

	if err := (&HistoryDeleteCmd{ID: "p1"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&HistoryDeleteCmd{ID: "p1"}).Run(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
	if err := (&HistoryShowCmd{ID: "p2"}).Run(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("showing another owner's plan: %v", err)
	}
}

func TestHistoryWeekly(t *testing.T) {
	ctx, out := setupTestDB(t, nil)
	week := planner.SetWeeklyPriority(planner.NewWeeklyPlan("w1", "2024-04-29"), 0, "rest")
	if err := ctx.Store.SaveWeeklyPlan("sam", history.CaptureWeek(week)); err != nil {
		t.Fatal(err)
	}

	if err := (&HistoryListCmd{Weekly: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "2024-04-29") {
		t.Errorf("weekly list:\n%s", out.String())
	}
	if err := (&HistoryDeleteCmd{ID: "w1", Weekly: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestExportCmd(t *testing.T) {
	ctx, _ := setupTestDB(t, nil)
	plan := planner.NewDayPlan("p1", "2024-05-01")
	plan = planner.PlaceBlock(plan, models.Block{ID: "b", Title: "Write", StartTime: "09:00", Duration: 60, Color: models.CategoryWork}, "")
	if err := ctx.Store.SaveDayPlan("sam", history.Capture(plan)); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.txt")
	if err := (&ExportCmd{ID: "p1", Out: path}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "■ Write") {
		t.Errorf("export content:\n%s", data)
	}
}

func TestImportCmd(t *testing.T) {
	ctx, out := setupTestDB(t, nil)
	file := filepath.Join(t.TempDir(), "export.json")
	data := `[
		{"id":"1714550400000","date":"2024-05-01","priorities":["a"],"brainDump":"x",
		 "schedule":[{"id":"ai-0","title":"Run","startTime":"07:00","duration":30,"color":"health"}],
		 "tracker":{"07:00":["bg-red-200",null,""]},"manualPlans":{"08:00":"eat"},"createdAt":1714550400000},
		{"date":"2024-05-02"}
	]`
	if err := os.WriteFile(file, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	if err := (&ImportCmd{File: file}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Imported 1 of 1") {
		t.Errorf("output = %q", out.String())
	}

	snap, err := ctx.Store.GetDayPlan("sam", "1714550400000")
	if err != nil {
		t.Fatal(err)
	}
	plan := history.Restore(snap)
	cells := planner.TrackerCells(plan, "07:00")
	if cells[0].Color != "bg-red-200" || cells[1] != (models.TrackerCell{}) {
		t.Errorf("tracker not migrated: %+v", cells)
	}
	if snap.CreatedAt.UnixMilli() != 1714550400000 {
		t.Errorf("CreatedAt = %v, want the legacy timestamp", snap.CreatedAt)
	}

	// the same export imported by a second owner gets its own copy
	out.Reset()
	ctx.Owner = "alex"
	if err := (&ImportCmd{File: file}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Imported 1 of 1") {
		t.Errorf("second owner output = %q", out.String())
	}
	if _, err := ctx.Store.GetDayPlan("alex", "1714550400000"); err != nil {
		t.Errorf("second owner's plan missing: %v", err)
	}
	if _, err := ctx.Store.GetDayPlan("sam", "1714550400000"); err != nil {
		t.Errorf("first owner's plan lost: %v", err)
	}
}

func TestSlotsCmd(t *testing.T) {
	ctx, out := setupTestDB(t, nil)
	if err := (&SlotsCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 36 || lines[0] != "06:00" || lines[35] != "23:30" {
		t.Errorf("got %d lines, first %q last %q", len(lines), lines[0], lines[len(lines)-1])
	}
}
