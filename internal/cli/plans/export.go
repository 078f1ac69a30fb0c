package plans

import (
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/timebox/internal/cli"
	"github.com/julianstephens/timebox/internal/history"
	"github.com/julianstephens/timebox/internal/render"
)

type ExportCmd struct {
	ID     string `arg:"" help:"Plan ID."`
	Weekly bool   `help:"Export a weekly plan."`
	Out    string `help:"Output file. Defaults to timebox-<date>.txt in the current directory." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	var content, date string
	if c.Weekly {
		snap, err := ctx.Store.GetWeeklyPlan(ctx.Owner, c.ID)
		if err != nil {
			return err
		}
		content, date = render.ExportWeek(history.RestoreWeek(snap)), "week-"+snap.WeekStart
	} else {
		snap, err := ctx.Store.GetDayPlan(ctx.Owner, c.ID)
		if err != nil {
			return err
		}
		content, date = render.ExportDay(history.Restore(snap), ctx.Grid()), snap.Date
	}

	path := c.Out
	if path == "" {
		path = render.FileName(date)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	ctx.Printf("Exported plan to %s\n", path)
	return nil
}

func savedAt(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
