package plans

import (
	"fmt"
	"strings"

	"github.com/julianstephens/timebox/internal/cli"
	"github.com/julianstephens/timebox/internal/history"
	"github.com/julianstephens/timebox/internal/render"
	"github.com/julianstephens/timebox/internal/validation"
)

type HistoryCmd struct {
	List   HistoryListCmd   `cmd:"" help:"List saved plans, newest first." default:"1"`
	Show   HistoryShowCmd   `cmd:"" help:"Show a saved plan."`
	Delete HistoryDeleteCmd `cmd:"" help:"Delete a saved plan."`
}

type HistoryListCmd struct {
	Weekly bool `help:"List weekly plans instead of daily plans."`
}

func (c *HistoryListCmd) Run(ctx *cli.Context) error {
	if c.Weekly {
		weeks, err := ctx.Store.GetWeeklyPlans(ctx.Owner)
		if err != nil {
			return fmt.Errorf("failed to list weekly plans: %w", err)
		}
		if len(weeks) == 0 {
			ctx.Println("No weekly plans saved.")
			return nil
		}
		ctx.Printf("%-36s  %-10s  %-16s  %s\n", "ID", "WEEK", "SAVED", "TOP PRIORITY")
		for _, w := range weeks {
			ctx.Printf("%-36s  %-10s  %-16s  %s\n", w.ID, w.WeekStart, savedAt(w.CreatedAt), firstNonEmpty(w.Priorities))
		}
		return nil
	}

	days, err := ctx.Store.GetDayPlans(ctx.Owner)
	if err != nil {
		return fmt.Errorf("failed to list plans: %w", err)
	}
	if len(days) == 0 {
		ctx.Println("No plans saved.")
		return nil
	}
	ctx.Printf("%-36s  %-10s  %-16s  %6s  %s\n", "ID", "DATE", "SAVED", "BLOCKS", "TOP PRIORITY")
	for _, d := range days {
		ctx.Printf("%-36s  %-10s  %-16s  %6d  %s\n", d.ID, d.Date, savedAt(d.CreatedAt), len(d.Schedule), firstNonEmpty(d.Priorities))
	}
	return nil
}

type HistoryShowCmd struct {
	ID     string `arg:"" help:"Plan ID."`
	Weekly bool   `help:"Show a weekly plan."`
	Width  int    `help:"Render width." default:"100"`
}

func (c *HistoryShowCmd) Run(ctx *cli.Context) error {
	if c.Weekly {
		snap, err := ctx.Store.GetWeeklyPlan(ctx.Owner, c.ID)
		if err != nil {
			return err
		}
		ctx.Println(render.Week(history.RestoreWeek(snap), render.NoCursor(c.Width, false)))
		return nil
	}

	snap, err := ctx.Store.GetDayPlan(ctx.Owner, c.ID)
	if err != nil {
		return err
	}
	plan := history.Restore(snap)
	grid := ctx.Grid()
	ctx.Println(render.Day(plan, grid, render.NoCursor(c.Width, false)))

	if result := validation.New(grid).ValidatePlan(plan); result.HasConflicts() {
		ctx.Println(result.FormatReport())
	}
	return nil
}

type HistoryDeleteCmd struct {
	ID     string `arg:"" help:"Plan ID."`
	Weekly bool   `help:"Delete a weekly plan."`
}

func (c *HistoryDeleteCmd) Run(ctx *cli.Context) error {
	var err error
	if c.Weekly {
		err = ctx.Store.DeleteWeeklyPlan(ctx.Owner, c.ID)
	} else {
		err = ctx.Store.DeleteDayPlan(ctx.Owner, c.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	ctx.Printf("Deleted plan %s\n", c.ID)
	return nil
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return "-"
}
