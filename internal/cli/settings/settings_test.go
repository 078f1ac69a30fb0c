package settings

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/timebox/internal/cli"
	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/scheduler"
	"github.com/julianstephens/timebox/internal/storage/sqlite"
	"github.com/julianstephens/timebox/internal/validation"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	out := &bytes.Buffer{}
	return &cli.Context{
		Store:     store,
		Backend:   cli.BackendSQLite,
		Scheduler: scheduler.New(nil),
		Owner:     "sam",
		Out:       out,
	}, out
}

func intPtr(v int) *int { return &v }

func TestSettingsShow(t *testing.T) {
	ctx, out := setupTestDB(t)
	if err := (&SettingsShowCmd{}).Run(ctx); err != nil {
		t.Fatalf("settings show failed: %v", err)
	}
	for _, want := range []string{"06:00", "24:00", constants.DefaultAIModel, "sqlite"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestSettingsSet(t *testing.T) {
	ctx, _ := setupTestDB(t)
	model := "gemini-2.5-pro"
	cmd := &SettingsSetCmd{StartHour: intPtr(7), EndHour: intPtr(22), DefaultBlockMin: intPtr(90), AIModel: &model}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings set failed: %v", err)
	}

	s, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if s.StartHour != 7 || s.EndHour != 22 || s.DefaultBlockMin != 90 || s.AIModel != model {
		t.Errorf("settings = %+v", s)
	}
	if n := ctx.Grid().Len(); n != 30 {
		t.Errorf("grid length = %d, want 30", n)
	}
}

func TestSettingsSetRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		cmd     SettingsSetCmd
		wantErr error
	}{
		{"start after end", SettingsSetCmd{StartHour: intPtr(23), EndHour: intPtr(8)}, validation.ErrInvalidWindow},
		{"end past midnight", SettingsSetCmd{EndHour: intPtr(25)}, validation.ErrInvalidWindow},
		{"odd block length", SettingsSetCmd{DefaultBlockMin: intPtr(45)}, validation.ErrInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestDB(t)
			if err := tt.cmd.Run(ctx); !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			s, _ := ctx.Store.GetSettings()
			if s.StartHour != constants.DefaultStartHour || s.EndHour != constants.DefaultEndHour {
				t.Errorf("settings changed after rejected update: %+v", s)
			}
		})
	}
}

func TestSettingsSetNoChanges(t *testing.T) {
	ctx, out := setupTestDB(t)
	if err := (&SettingsSetCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No changes") {
		t.Errorf("output = %q", out.String())
	}
}
