package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/timebox/internal/cli"
	"github.com/julianstephens/timebox/internal/cli/plans"
	"github.com/julianstephens/timebox/internal/cli/settings"
	"github.com/julianstephens/timebox/internal/cli/system"
	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/errors"
	"github.com/julianstephens/timebox/internal/logger"
	"github.com/julianstephens/timebox/internal/scheduler"
	"github.com/julianstephens/timebox/internal/storage/postgres"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database path, JSON file or PostgreSQL connection string. Credentials must NOT be embedded in connection strings; use PGPASSWORD, .pgpass or the OS keyring." type:"string" env:"TIMEBOX_CONFIG" default:"~/.config/timebox/timebox.db"`
	Owner   string `help:"Owner whose plans are read and written. Defaults to the OS user." env:"TIMEBOX_OWNER"`
	Debug   bool   `help:"Enable debug logging." env:"TIMEBOX_DEBUG"`

	Init     system.InitCmd       `cmd:"" help:"Initialize timebox storage."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive planner." default:"1"`
	Slots    plans.SlotsCmd       `cmd:"" help:"List the slot grid."`
	Generate plans.GenerateCmd    `cmd:"" help:"Generate a day plan from a brain dump."`
	History  plans.HistoryCmd     `cmd:"" help:"List, show and delete saved plans."`
	Export   plans.ExportCmd      `cmd:"" help:"Export a saved plan as text."`
	Import   plans.ImportCmd      `cmd:"" help:"Import plans from a browser export."`
	Backup   system.BackupCmd     `cmd:"" help:"Create, list and restore database backups."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Apply pending database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks on the database."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage secrets in the OS keyring."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Day and week time-boxing planner"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	command := ctx.Command()
	if err := cli.CheckConfig(CLI.Config); err != nil {
		errors.Fatal(err)
	}
	config := cli.ResolveConfig(CLI.Config)

	if err := logger.Init(logger.Config{
		Debug:       CLI.Debug,
		ConfigDir:   logDir(config),
		Interactive: strings.HasPrefix(command, "tui"),
	}); err != nil {
		errors.Fatal(err)
	}
	logger.Debug("Starting", "command", command, "version", constants.Version)

	store, backend, err := cli.OpenStore(config)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	owner, err := cli.ResolveOwner(CLI.Owner)
	if err != nil {
		errors.Fatal(err)
	}

	appCtx := &cli.Context{
		Store:     store,
		Backend:   backend,
		Scheduler: scheduler.New(nil),
		Owner:     owner,
	}

	if loadsStore(command) {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
		appCtx.Scheduler = cli.NewScheduler(context.Background(), appCtx.Settings())
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

// loadsStore reports whether command needs a loaded, current store. init sets
// up storage itself, migrate and doctor inspect an outdated schema, and
// keyring never touches storage.
func loadsStore(command string) bool {
	for _, prefix := range []string{"init", "migrate", "doctor", "keyring"} {
		if strings.HasPrefix(command, prefix) {
			return false
		}
	}
	return true
}

// logDir keeps logs next to a local database, and in the default config
// directory for remote ones.
func logDir(config string) string {
	if postgres.IsConnString(config) {
		return filepath.Dir(cli.ExpandPath(constants.DefaultConfigPath))
	}
	return filepath.Dir(config)
}
