package system

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/julianstephens/timebox/internal/backup"
	"github.com/julianstephens/timebox/internal/cli"
	"github.com/julianstephens/timebox/internal/storage"
)

type MigrateCmd struct {
	NoBackup bool `help:"Skip the backup taken before migrating a SQLite database."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return errors.New("migrate command only supports SQLite and PostgreSQL storage")
	}

	current, latest, err := m.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current >= latest {
		ctx.Println("No migrations to apply. Database is up to date.")
		return nil
	}

	if ctx.Backend == cli.BackendSQLite && !c.NoBackup {
		path, err := backup.NewManager(ctx.Store.GetConfigPath()).Create()
		if err != nil {
			return fmt.Errorf("failed to back up before migrating: %w", err)
		}
		ctx.Printf("Backed up database to: %s\n", filepath.Base(path))
	}

	count, err := m.Migrate()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	ctx.Printf("Successfully applied %d migration(s). Schema version %d -> %d.\n", count, current, latest)
	return nil
}
