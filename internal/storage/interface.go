package storage

import (
	"github.com/julianstephens/timebox/internal/history"
	"github.com/julianstephens/timebox/internal/models"
)

// Provider is the persistence collaborator. Every plan call is namespaced by
// an opaque owner id.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Daily plans. Saving a plan whose date already exists for the owner
	// replaces it and keeps the original creation time. Ids are unique per
	// owner; reusing one under a different date fails with ErrKeyMoved. Lists
	// are ordered most recently created first.
	SaveDayPlan(owner string, snap history.DaySnapshot) error
	GetDayPlan(owner, id string) (history.DaySnapshot, error)
	GetDayPlans(owner string) ([]history.DaySnapshot, error)
	DeleteDayPlan(owner, id string) error

	// Weekly plans, keyed by week start instead of date.
	SaveWeeklyPlan(owner string, snap history.WeekSnapshot) error
	GetWeeklyPlan(owner, id string) (history.WeekSnapshot, error)
	GetWeeklyPlans(owner string) ([]history.WeekSnapshot, error)
	DeleteWeeklyPlan(owner, id string) error

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by backends with a versioned schema.
type Migrator interface {
	// SchemaVersion opens the database if needed and reports the applied and
	// the latest known schema versions.
	SchemaVersion() (current, latest int, err error)
	// Migrate applies pending migrations and returns how many ran.
	Migrate() (int, error)
}
