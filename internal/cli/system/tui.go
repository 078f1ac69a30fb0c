package system

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/timebox/internal/cli"
	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/instance"
	"github.com/julianstephens/timebox/internal/logger"
	"github.com/julianstephens/timebox/internal/tui"
)

type TuiCmd struct {
	Date string `help:"Date to plan (YYYY-MM-DD). Defaults to today."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	date := c.Date
	if date == "" {
		date = cli.Today()
	}

	// two sessions on one store would overwrite each other's saves
	lock, err := instance.Acquire(lockPath(ctx))
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("Failed to release session lock", "error", err)
		}
	}()

	m, err := tui.NewModel(tui.Config{
		Store:     ctx.Store,
		Scheduler: ctx.Scheduler,
		Owner:     ctx.Owner,
		Settings:  ctx.Settings(),
		Date:      date,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}

// lockPath sits next to a database file, or in the default config directory
// for PostgreSQL.
func lockPath(ctx *cli.Context) string {
	if ctx.Backend.FileBacked() {
		return ctx.Store.GetConfigPath() + ".lock"
	}
	return filepath.Join(filepath.Dir(cli.ExpandPath(constants.DefaultConfigPath)), "postgres.lock")
}
