package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/timebox/internal/backup"
	"github.com/julianstephens/timebox/internal/cli"
	"github.com/julianstephens/timebox/internal/history"
	"github.com/julianstephens/timebox/internal/migration"
	"github.com/julianstephens/timebox/internal/planner"
	"github.com/julianstephens/timebox/internal/storage"
	"github.com/julianstephens/timebox/internal/validation"
)

// skipError marks a check that does not apply to the current backend.
type skipError struct{ reason string }

func (e skipError) Error() string { return e.reason }

type DoctorCmd struct{}

type check struct {
	name string
	run  func(ctx *cli.Context) error
	// warn downgrades a failure to a warning
	warn bool
	// needsDB skips the check when the database is unreachable
	needsDB bool
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	checks := []check{
		{name: "Schema version", run: checkSchemaVersion, needsDB: true},
		{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
		{name: "Backups present", run: checkBackupsPresent, warn: true},
		{name: "Data validation", run: checkValidation, needsDB: true},
		{name: "Plan conflicts", run: checkPlanConflicts, warn: true, needsDB: true},
		{name: "Clock/timezone", run: func(*cli.Context) error { return checkClockTimezone(time.Now()) }},
	}

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError, dbReachable = true, false
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		var skip skipError
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case errors.As(err, &skip):
			ctx.Printf("⊘ %s: SKIPPED (%s)\n", c.name, skip.reason)
		case c.warn:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

// checkDBReachable opens the store. A schema mismatch still counts as
// reachable; the schema checks report it.
func checkDBReachable(ctx *cli.Context) error {
	err := ctx.Store.Load()
	if err == nil || errors.Is(err, migration.ErrPending) || errors.Is(err, migration.ErrSchemaTooNew) {
		return nil
	}
	return fmt.Errorf("failed to load database: %w", err)
}

func schemaVersion(ctx *cli.Context) (current, latest int, err error) {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return 0, 0, skipError{"no versioned schema"}
	}
	current, latest, err = m.SchemaVersion()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return current, latest, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := schemaVersion(ctx)
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, err := schemaVersion(ctx)
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d; run 'timebox migrate'", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if ctx.Backend != cli.BackendSQLite {
		return skipError{"backups are SQLite only"}
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'timebox backup create'")
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := validation.ValidateSettings(settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	days, err := ctx.Store.GetDayPlans(ctx.Owner)
	if err != nil {
		return fmt.Errorf("failed to get daily plans: %w", err)
	}
	dates := make(map[string]string)
	for _, d := range days {
		if err := validation.ValidateDate(d.Date); err != nil {
			return fmt.Errorf("plan %s: %w", d.ID, err)
		}
		if other, ok := dates[d.Date]; ok {
			return fmt.Errorf("plans %s and %s share date %s", other, d.ID, d.Date)
		}
		dates[d.Date] = d.ID
	}

	weeks, err := ctx.Store.GetWeeklyPlans(ctx.Owner)
	if err != nil {
		return fmt.Errorf("failed to get weekly plans: %w", err)
	}
	for _, w := range weeks {
		monday, err := planner.WeekStart(w.WeekStart)
		if err != nil {
			return fmt.Errorf("weekly plan %s: %w", w.ID, err)
		}
		if monday != w.WeekStart {
			return fmt.Errorf("weekly plan %s starts on %s, not a Monday", w.ID, w.WeekStart)
		}
	}
	return nil
}

// checkPlanConflicts reports saved plans with overlapping or off-grid blocks.
// These are allowed, so the check only warns.
func checkPlanConflicts(ctx *cli.Context) error {
	days, err := ctx.Store.GetDayPlans(ctx.Owner)
	if err != nil {
		return fmt.Errorf("failed to get daily plans: %w", err)
	}
	v := validation.New(ctx.Grid())
	var ids []string
	for _, d := range days {
		if v.ValidatePlan(history.Restore(d)).HasConflicts() {
			ids = append(ids, d.ID)
		}
	}
	if len(ids) > 0 {
		return fmt.Errorf("%d plan(s) have conflicts: %v; see 'timebox history show <id>'", len(ids), ids)
	}
	return nil
}

func checkClockTimezone(now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
