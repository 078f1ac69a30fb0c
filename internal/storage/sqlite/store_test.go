package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/timebox/internal/history"
	"github.com/julianstephens/timebox/internal/migration"
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/planner"
	"github.com/julianstephens/timebox/internal/storage"
)

var (
	_ storage.Provider = (*Store)(nil)
	_ storage.Migrator = (*Store)(nil)
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "timebox.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func daySnap(id, date, brainDump string) history.DaySnapshot {
	plan := planner.NewDayPlan(id, date)
	plan = planner.SetBrainDump(plan, brainDump)
	plan = planner.SetPriority(plan, 0, "top")
	plan = planner.PlaceBlock(plan, models.Block{ID: "b-" + id, Title: "Write", StartTime: "09:00", Duration: 90, Color: models.CategoryWork}, "")
	plan = planner.UpdateManualPlan(plan, "13:00", "lunch")
	plan = planner.ToggleTrackerColor(plan, "09:00", 0, func(int) int { return 4 })
	return history.Capture(plan)
}

func TestInitIsIdempotent(t *testing.T) {
	store := setupTestStore(t)
	if err := store.Init(); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}

	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if got != models.DefaultSettings() {
		t.Errorf("GetSettings() = %+v, want defaults", got)
	}
}

func TestLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	want := models.Settings{StartHour: 5, EndHour: 23, DefaultBlockMin: 30, AIModel: "gemini-2.5-pro"}
	if err := store.SaveSettings(want); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	store.Close()
	if err := store.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if got != want {
		t.Errorf("GetSettings() = %+v, want %+v", got, want)
	}
}

func TestSaveAndRestoreDayPlan(t *testing.T) {
	store := setupTestStore(t)
	snap := daySnap("p1", "2024-05-01", "dump")
	if err := store.SaveDayPlan("sam", snap); err != nil {
		t.Fatalf("SaveDayPlan() error = %v", err)
	}

	got, err := store.GetDayPlan("sam", "p1")
	if err != nil {
		t.Fatalf("GetDayPlan() error = %v", err)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	plan := history.Restore(got)
	want := history.Restore(snap)
	if plan.BrainDump != want.BrainDump || plan.Priorities[0] != "top" || plan.ManualPlans["13:00"] != "lunch" {
		t.Errorf("restored plan = %+v", plan)
	}
	if b, ok := planner.BlockForSlot(plan, "09:00"); !ok || b.Duration != 90 {
		t.Errorf("BlockForSlot(09:00) = %+v, %v", b, ok)
	}
	if c := planner.TrackerCells(plan, "09:00")[0]; !models.IsPaletteColor(c.Color) {
		t.Errorf("tracker cell = %+v", c)
	}
}

func TestSaveSameDateOverwrites(t *testing.T) {
	store := setupTestStore(t)
	if err := store.SaveDayPlan("sam", daySnap("p1", "2024-05-01", "first")); err != nil {
		t.Fatal(err)
	}
	first, _ := store.GetDayPlan("sam", "p1")

	if err := store.SaveDayPlan("sam", daySnap("p2", "2024-05-01", "second")); err != nil {
		t.Fatalf("SaveDayPlan() error = %v", err)
	}

	plans, err := store.GetDayPlans("sam")
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) != 1 {
		t.Fatalf("len(plans) = %d, want 1", len(plans))
	}
	if plans[0].BrainDump != "second" {
		t.Errorf("BrainDump = %q, want second", plans[0].BrainDump)
	}
	if !plans[0].CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt = %v, want preserved %v", plans[0].CreatedAt, first.CreatedAt)
	}

	// same id again with new content
	if err := store.SaveDayPlan("sam", daySnap("p2", "2024-05-01", "third")); err != nil {
		t.Fatal(err)
	}
	plans, _ = store.GetDayPlans("sam")
	if len(plans) != 1 || plans[0].BrainDump != "third" {
		t.Errorf("plans = %+v", plans)
	}
}

func TestGetDayPlansOrderAndOwner(t *testing.T) {
	store := setupTestStore(t)
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	for i, date := range []string{"2024-05-03", "2024-05-01", "2024-05-02"} {
		snap := daySnap("p"+date, date, "")
		snap.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := store.SaveDayPlan("sam", snap); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.SaveDayPlan("alex", daySnap("alex-1", "2024-05-01", "")); err != nil {
		t.Fatal(err)
	}

	plans, err := store.GetDayPlans("sam")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2024-05-02", "2024-05-01", "2024-05-03"}
	if len(plans) != len(want) {
		t.Fatalf("len(plans) = %d, want %d", len(plans), len(want))
	}
	for i, p := range plans {
		if p.Date != want[i] {
			t.Errorf("plans[%d].Date = %s, want %s", i, p.Date, want[i])
		}
	}

	if _, err := store.GetDayPlan("sam", "alex-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("cross-owner GetDayPlan() error = %v, want ErrNotFound", err)
	}
	if err := store.DeleteDayPlan("sam", "alex-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("cross-owner DeleteDayPlan() error = %v, want ErrNotFound", err)
	}
}

func TestSaveSameIDOtherDateKeepsHistory(t *testing.T) {
	store := setupTestStore(t)
	if err := store.SaveDayPlan("sam", daySnap("p1", "2024-05-01", "first")); err != nil {
		t.Fatal(err)
	}

	err := store.SaveDayPlan("sam", daySnap("p1", "2024-05-02", "moved"))
	if !errors.Is(err, storage.ErrKeyMoved) {
		t.Fatalf("SaveDayPlan() error = %v, want ErrKeyMoved", err)
	}
	got, err := store.GetDayPlan("sam", "p1")
	if err != nil || got.Date != "2024-05-01" || got.BrainDump != "first" {
		t.Errorf("GetDayPlan(p1) = %+v, %v", got, err)
	}

	week := history.CaptureWeek(planner.NewWeeklyPlan("w1", "2024-04-29"))
	if err := store.SaveWeeklyPlan("sam", week); err != nil {
		t.Fatal(err)
	}
	week.WeekStart = "2024-05-06"
	if err := store.SaveWeeklyPlan("sam", week); !errors.Is(err, storage.ErrKeyMoved) {
		t.Errorf("SaveWeeklyPlan() error = %v, want ErrKeyMoved", err)
	}
}

func TestSameIDForTwoOwners(t *testing.T) {
	store := setupTestStore(t)
	if err := store.SaveDayPlan("sam", daySnap("1700000000000", "2024-05-01", "sam's")); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveDayPlan("alex", daySnap("1700000000000", "2024-05-01", "alex's")); err != nil {
		t.Fatalf("SaveDayPlan() for second owner error = %v", err)
	}

	for owner, want := range map[string]string{"sam": "sam's", "alex": "alex's"} {
		plans, err := store.GetDayPlans(owner)
		if err != nil {
			t.Fatal(err)
		}
		if len(plans) != 1 || plans[0].BrainDump != want {
			t.Errorf("GetDayPlans(%s) = %+v, want one plan with %q", owner, plans, want)
		}
	}

	week := history.CaptureWeek(planner.NewWeeklyPlan("w1", "2024-04-29"))
	for _, owner := range []string{"sam", "alex"} {
		if err := store.SaveWeeklyPlan(owner, week); err != nil {
			t.Fatalf("SaveWeeklyPlan(%s) error = %v", owner, err)
		}
		if _, err := store.GetWeeklyPlan(owner, "w1"); err != nil {
			t.Errorf("GetWeeklyPlan(%s) error = %v", owner, err)
		}
	}
}

func TestMigrateAndSchemaVersion(t *testing.T) {
	store := setupTestStore(t)
	current, latest, err := store.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if current != latest || latest < 2 {
		t.Errorf("SchemaVersion() = %d, %d", current, latest)
	}
	if n, err := store.Migrate(); err != nil || n != 0 {
		t.Errorf("Migrate() on current schema = %d, %v", n, err)
	}

	if _, err := store.db.Exec("UPDATE schema_version SET version = 1"); err != nil {
		t.Fatal(err)
	}
	store.Close()
	if err := store.Load(); !errors.Is(err, migration.ErrPending) {
		t.Errorf("Load() error = %v, want ErrPending", err)
	}
}

func TestDeleteDayPlan(t *testing.T) {
	store := setupTestStore(t)
	if err := store.SaveDayPlan("sam", daySnap("p1", "2024-05-01", "")); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteDayPlan("sam", "p1"); err != nil {
		t.Fatalf("DeleteDayPlan() error = %v", err)
	}
	if plans, _ := store.GetDayPlans("sam"); len(plans) != 0 {
		t.Errorf("plans after delete = %d", len(plans))
	}
	if err := store.DeleteDayPlan("sam", "p1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteDayPlan() error = %v, want ErrNotFound", err)
	}
}

func TestLegacyTrackerSurvivesStorage(t *testing.T) {
	store := setupTestStore(t)
	snap := daySnap("p1", "2024-05-01", "")
	snap.Tracker = []byte(`{"09:00":["bg-red-200",null,""]}`)
	if err := store.SaveDayPlan("sam", snap); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetDayPlan("sam", "p1")
	if err != nil {
		t.Fatal(err)
	}
	plan := history.Restore(got)
	cells := plan.Tracker["09:00"]
	if len(cells) != 3 || cells[0].Color != "bg-red-200" || cells[1] != (models.TrackerCell{}) {
		t.Errorf("migrated cells = %+v", cells)
	}
}

func TestWeeklyPlans(t *testing.T) {
	store := setupTestStore(t)

	week := planner.NewWeeklyPlan("w1", "2024-05-06")
	week = planner.SetWeeklyPriority(week, 2, "garden")
	week = planner.SetWeeklyTrackerText(week, "wed", planner.RowKey(4), 2, "done")
	if err := store.SaveWeeklyPlan("sam", history.CaptureWeek(week)); err != nil {
		t.Fatalf("SaveWeeklyPlan() error = %v", err)
	}

	got, err := store.GetWeeklyPlan("sam", "w1")
	if err != nil {
		t.Fatalf("GetWeeklyPlan() error = %v", err)
	}
	restored := history.RestoreWeek(got)
	if restored.Priorities[2] != "garden" {
		t.Errorf("Priorities = %q", restored.Priorities)
	}
	if c := planner.WeeklyTrackerCells(restored, "wed", planner.RowKey(4))[2]; c.Text != "done" {
		t.Errorf("weekly cell = %+v", c)
	}

	replacement := history.CaptureWeek(planner.NewWeeklyPlan("w2", "2024-05-06"))
	if err := store.SaveWeeklyPlan("sam", replacement); err != nil {
		t.Fatal(err)
	}
	weeks, _ := store.GetWeeklyPlans("sam")
	if len(weeks) != 1 || weeks[0].ID != "w2" {
		t.Errorf("weeks = %+v", weeks)
	}

	if err := store.DeleteWeeklyPlan("sam", "w2"); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteWeeklyPlan("sam", "w2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteWeeklyPlan() error = %v, want ErrNotFound", err)
	}
}
