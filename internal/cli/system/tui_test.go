package system

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/timebox/internal/cli"
	"github.com/julianstephens/timebox/internal/storage/postgres"
)

func TestLockPath(t *testing.T) {
	sqliteCtx, dbPath := setupTestInitDB(t)
	jsonCtx, _ := setupJSONContext(t)
	pgCtx := &cli.Context{
		Store:   postgres.New("postgres://localhost/timebox"),
		Backend: cli.BackendPostgres,
	}

	tests := []struct {
		name string
		ctx  *cli.Context
		want func(string) bool
	}{
		{"sqlite", sqliteCtx, func(p string) bool { return p == dbPath+".lock" }},
		{"json", jsonCtx, func(p string) bool { return p == jsonCtx.Store.GetConfigPath()+".lock" }},
		{"postgres", pgCtx, func(p string) bool {
			return filepath.Base(p) == "postgres.lock" && !strings.Contains(p, "localhost")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lockPath(tt.ctx); !tt.want(got) {
				t.Errorf("lockPath() = %q", got)
			}
		})
	}
}
