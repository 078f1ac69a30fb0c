package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/timebox/internal/backup"
	"github.com/julianstephens/timebox/internal/cli"
	"github.com/julianstephens/timebox/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing local database before initializing."`
	Source string `help:"Database path or connection string to copy settings and the owner's plans from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if err := cli.CheckConfig(c.Source); err != nil {
		return err
	}
	if c.Force {
		if err := c.removeExisting(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized timebox storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyFrom(ctx, cli.ExpandPath(c.Source)); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		ctx.Println("Copy completed successfully!")
	}
	return nil
}

func (c *InitCmd) removeExisting(ctx *cli.Context) error {
	if !ctx.Backend.FileBacked() {
		return errors.New("--force is only supported for local database files")
	}

	dbPath := ctx.Store.GetConfigPath()
	if abs, err := filepath.Abs(dbPath); err == nil {
		dbPath = abs
	}
	if c.Source != "" {
		if absSource, err := filepath.Abs(cli.ExpandPath(c.Source)); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	_, err := os.Stat(dbPath)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	if ctx.Backend == cli.BackendSQLite {
		path, err := backup.NewManager(dbPath).Create()
		if err != nil {
			return fmt.Errorf("failed to back up existing database: %w", err)
		}
		ctx.Printf("Backed up existing database to: %s\n", path)
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	ctx.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

// copyFrom copies settings and the current owner's daily and weekly plans
// from another store, keeping their creation times.
func (c *InitCmd) copyFrom(ctx *cli.Context, source string) error {
	src, _, err := cli.OpenStore(source)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	settings, err := src.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	days, err := src.GetDayPlans(ctx.Owner)
	if err != nil {
		return fmt.Errorf("failed to get plans from source: %w", err)
	}
	for _, snap := range days {
		if err := ctx.Store.SaveDayPlan(ctx.Owner, snap); err != nil {
			return fmt.Errorf("failed to save plan for %s: %w", snap.Date, err)
		}
	}
	ctx.Printf("  Copied %d daily plans\n", len(days))

	weeks, err := src.GetWeeklyPlans(ctx.Owner)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to get weekly plans from source: %w", err)
	}
	for _, snap := range weeks {
		if err := ctx.Store.SaveWeeklyPlan(ctx.Owner, snap); err != nil {
			return fmt.Errorf("failed to save weekly plan for %s: %w", snap.WeekStart, err)
		}
	}
	ctx.Printf("  Copied %d weekly plans\n", len(weeks))
	return nil
}
