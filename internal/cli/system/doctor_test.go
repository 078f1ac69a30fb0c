package system

import (
	"bytes"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/timebox/internal/backup"
	"github.com/julianstephens/timebox/internal/cli"
	"github.com/julianstephens/timebox/internal/history"
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/planner"
	"github.com/julianstephens/timebox/internal/scheduler"
	"github.com/julianstephens/timebox/internal/storage"
)

// setSchemaVersion rewinds the recorded schema version of a closed store.
func setSchemaVersion(t *testing.T, ctx *cli.Context, version int) {
	t.Helper()
	if err := ctx.Store.Close(); err != nil {
		t.Fatal(err)
	}
	db, err := sql.Open("sqlite", ctx.Store.GetConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := db.Exec("UPDATE schema_version SET version = ?", version); err != nil {
		t.Fatalf("failed to set schema version: %v", err)
	}
}

func setupJSONContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "timebox.json"))
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	return &cli.Context{
		Store:     store,
		Backend:   cli.BackendJSON,
		Scheduler: scheduler.New(nil),
		Owner:     "sam",
		Out:       out,
	}, out
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, out := setupBackupDB(t)

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor command failed on healthy database: %v\n%s", err, out)
	}
	for _, want := range []string{
		"✓ Database reachable: OK",
		"✓ Schema version: OK",
		"✓ Migrations complete: OK",
		"✓ Data validation: OK",
		"All diagnostics passed!",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDoctorCmd_Backups(t *testing.T) {
	ctx, out := setupBackupDB(t)

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command should not fail on missing backups: %v", err)
	}
	if !strings.Contains(out.String(), "⚠ Backups present: WARNING") {
		t.Errorf("expected a backup warning:\n%s", out)
	}

	if _, err := backup.NewManager(ctx.Store.GetConfigPath()).Create(); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "✓ Backups present: OK") {
		t.Errorf("expected backups to pass:\n%s", out)
	}
}

func TestDoctorCmd_PendingMigration(t *testing.T) {
	ctx, out := setupBackupDB(t)
	setSchemaVersion(t, ctx, 1)

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("doctor should fail with pending migrations")
	}
	if !strings.Contains(out.String(), "❌ Migrations complete: FAIL") || !strings.Contains(out.String(), "✓ Database reachable: OK") {
		t.Errorf("output:\n%s", out)
	}

	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	out.Reset()
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor after migrate: %v\n%s", err, out)
	}
}

func TestDoctorCmd_SchemaTooNew(t *testing.T) {
	ctx, out := setupBackupDB(t)
	setSchemaVersion(t, ctx, 999)

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("doctor should fail on a newer schema")
	}
	if !strings.Contains(out.String(), "❌ Schema version: FAIL") {
		t.Errorf("output:\n%s", out)
	}
}

func TestDoctorCmd_Uninitialized(t *testing.T) {
	ctx, _ := setupTestInitDB(t)
	out := ctx.Out.(*bytes.Buffer)

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("doctor should fail without a database")
	}
	for _, want := range []string{
		"❌ Database reachable: FAIL",
		"⊘ Schema version: SKIPPED (database not reachable)",
		"⊘ Data validation: SKIPPED (database not reachable)",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDoctorCmd_JSONBackend(t *testing.T) {
	ctx, out := setupJSONContext(t)

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed on JSON store: %v\n%s", err, out)
	}
	for _, want := range []string{
		"⊘ Schema version: SKIPPED (no versioned schema)",
		"⊘ Backups present: SKIPPED (backups are SQLite only)",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDoctorCmd_DataChecks(t *testing.T) {
	tests := []struct {
		name    string
		seed    func(t *testing.T, store storage.Provider)
		want    string
		wantErr bool
	}{
		{
			name: "weekly plan off Monday",
			seed: func(t *testing.T, store storage.Provider) {
				if err := store.SaveWeeklyPlan("sam", history.CaptureWeek(planner.NewWeeklyPlan("w1", "2024-05-01"))); err != nil {
					t.Fatal(err)
				}
			},
			want:    "❌ Data validation: FAIL",
			wantErr: true,
		},
		{
			name: "overlapping blocks",
			seed: func(t *testing.T, store storage.Provider) {
				plan := planner.NewDayPlan("d1", "2024-05-01")
				plan.Schedule = []models.Block{
					{ID: "a", Title: "Write", StartTime: "09:00", Duration: 90, Color: models.CategoryWork},
					{ID: "b", Title: "Call", StartTime: "10:00", Duration: 30, Color: models.CategoryWork},
				}
				if err := store.SaveDayPlan("sam", history.Capture(plan)); err != nil {
					t.Fatal(err)
				}
			},
			want: "⚠ Plan conflicts: WARNING",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := setupJSONContext(t)
			tt.seed(t, ctx.Store)

			err := (&DoctorCmd{}).Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestCheckClockTimezone(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		wantErr bool
	}{
		{"current", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), false},
		{"epoch", time.Unix(0, 0), true},
		{"far future", time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := checkClockTimezone(tt.now); (err != nil) != tt.wantErr {
				t.Errorf("checkClockTimezone() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
