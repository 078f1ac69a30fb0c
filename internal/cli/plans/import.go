package plans

import (
	"fmt"
	"os"

	"github.com/julianstephens/timebox/internal/cli"
	"github.com/julianstephens/timebox/internal/history"
	"github.com/julianstephens/timebox/internal/logger"
)

type ImportCmd struct {
	File string `arg:"" help:"JSON export from the browser planner." type:"existingfile"`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	snaps, err := history.DecodeLegacyExport(data)
	if err != nil {
		return err
	}

	imported := 0
	for _, snap := range snaps {
		// restoring first runs the tracker migration
		migrated := history.Capture(history.Restore(snap))
		migrated.CreatedAt = snap.CreatedAt
		if err := ctx.Store.SaveDayPlan(ctx.Owner, migrated); err != nil {
			logger.Warn("Skipping plan", "id", snap.ID, "date", snap.Date, "error", err)
			continue
		}
		imported++
	}

	ctx.Printf("Imported %d of %d plans\n", imported, len(snaps))
	return nil
}
