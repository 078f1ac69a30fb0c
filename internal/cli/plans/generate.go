package plans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/timebox/internal/ai"
	"github.com/julianstephens/timebox/internal/cli"
	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/history"
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/planner"
	"github.com/julianstephens/timebox/internal/render"
	"github.com/julianstephens/timebox/internal/storage"
	"github.com/julianstephens/timebox/internal/validation"
)

const generateTimeout = 90 * time.Second

type GenerateCmd struct {
	Date  string `help:"Date to plan (YYYY-MM-DD). Defaults to today."`
	Dump  string `help:"Brain dump text. Falls back to the saved plan's brain dump, then to sample notes."`
	Save  bool   `help:"Save the generated plan to history."`
	Width int    `help:"Render width." default:"100"`
}

func (c *GenerateCmd) Run(ctx *cli.Context) error {
	date := c.Date
	if date == "" {
		date = cli.Today()
	}
	if err := validation.ValidateDate(date); err != nil {
		return err
	}

	plan, err := c.startingPlan(ctx, date)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(context.Background(), generateTimeout)
	defer cancel()

	plan, demo, err := ctx.Scheduler.Generate(runCtx, plan)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			return fmt.Errorf("%w: set %s or run 'timebox keyring set-ai-key'", err, constants.EnvGeminiAPIKey)
		}
		return fmt.Errorf("generation failed: %w", err)
	}
	if demo {
		ctx.Println("Brain dump was empty; generated from sample notes.")
	}

	grid := ctx.Grid()
	ctx.Println(render.Day(plan, grid, render.NoCursor(c.Width, false)))

	result := validation.New(grid).ValidatePlan(plan)
	if result.HasConflicts() {
		ctx.Println(result.FormatReport())
	}

	if c.Save {
		if err := ctx.Store.SaveDayPlan(ctx.Owner, history.Capture(plan)); err != nil {
			return fmt.Errorf("failed to save plan: %w", err)
		}
		ctx.Printf("Saved plan %s for %s\n", plan.ID, plan.Date)
	}
	return nil
}

// startingPlan resumes the saved plan for date when one exists, keeping its
// tracker and notes, and applies --dump on top.
func (c *GenerateCmd) startingPlan(ctx *cli.Context, date string) (models.DayPlan, error) {
	plan := planner.NewDayPlan(uuid.NewString(), date)

	saved, err := ctx.Store.GetDayPlans(ctx.Owner)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return plan, fmt.Errorf("failed to read history: %w", err)
	}
	for _, snap := range saved {
		if snap.Date == date {
			plan = history.Restore(snap)
			break
		}
	}

	if c.Dump != "" {
		plan = planner.SetBrainDump(plan, c.Dump)
	}
	return plan, nil
}
