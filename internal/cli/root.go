package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/timebox/internal/ai"
	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/keyring"
	"github.com/julianstephens/timebox/internal/logger"
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/scheduler"
	"github.com/julianstephens/timebox/internal/slots"
	"github.com/julianstephens/timebox/internal/storage"
	"github.com/julianstephens/timebox/internal/storage/postgres"
	"github.com/julianstephens/timebox/internal/storage/sqlite"
	"github.com/julianstephens/timebox/internal/validation"
)

type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendJSON     Backend = "json"
	BackendPostgres Backend = "postgres"
)

// FileBacked reports whether the backend keeps its data in a local file.
func (b Backend) FileBacked() bool {
	return b != BackendPostgres
}

type Context struct {
	Store     storage.Provider
	Backend   Backend
	Scheduler *scheduler.Scheduler
	Owner     string
	// Out receives command output; nil means stdout.
	Out io.Writer
}

func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Writer(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Writer(), args...)
}

// Settings returns the stored settings, falling back to defaults when the
// store has none.
func (c *Context) Settings() models.Settings {
	s, err := c.Store.GetSettings()
	if err != nil {
		logger.Warn("Using default settings", "error", err)
		return models.DefaultSettings()
	}
	return s
}

// Grid returns the slot grid for the configured planning window.
func (c *Context) Grid() slots.Grid {
	s := c.Settings()
	return slots.NewGrid(s.StartHour, s.EndHour)
}

// ResolveConfig picks the storage location. An explicit config wins; with the
// default path, TIMEBOX_DB_CONNECTION and then the keyring are consulted.
func ResolveConfig(config string) string {
	if config == "" || config == constants.DefaultConfigPath {
		if conn := os.Getenv(constants.EnvDBConnection); conn != "" {
			return conn
		}
		if conn, err := keyring.GetConnectionString(); err == nil {
			return conn
		} else if !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Keyring lookup failed", "error", err)
		}
		config = constants.DefaultConfigPath
	}
	return ExpandPath(config)
}

// ExpandPath expands a leading "~" to the user's home directory. Connection
// strings are returned unchanged.
func ExpandPath(p string) string {
	if postgres.IsConnString(p) || !strings.HasPrefix(p, "~") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// CheckConfig rejects a user-supplied connection string that embeds a
// password. Values from TIMEBOX_DB_CONNECTION or the keyring are not checked.
func CheckConfig(config string) error {
	if !postgres.IsConnString(config) {
		return nil
	}
	if err := postgres.ValidateConnString(config); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("%w; use PGPASSWORD, .pgpass or 'timebox keyring set'", err)
		}
		return err
	}
	return nil
}

// OpenStore selects a backend for config: PostgreSQL for a URL or DSN, the
// JSON file store for a .json path, SQLite otherwise.
func OpenStore(config string) (storage.Provider, Backend, error) {
	switch {
	case postgres.IsConnString(config):
		if err := postgres.ValidateConnString(config); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, BackendPostgres, err
		}
		return postgres.New(config), BackendPostgres, nil
	case strings.EqualFold(filepath.Ext(config), ".json"):
		return storage.NewJSONStore(config), BackendJSON, nil
	default:
		return sqlite.NewStore(config), BackendSQLite, nil
	}
}

// ResolveOwner validates the owner flag, defaulting to the OS user name.
func ResolveOwner(owner string) (string, error) {
	if strings.TrimSpace(owner) == "" {
		if u, err := user.Current(); err == nil {
			owner = u.Username
		}
	}
	return validation.ValidateOwner(owner)
}

// NewScheduler wires the AI collaborator. Without credentials the scheduler
// still runs and Suggest reports ai.ErrNotConfigured.
func NewScheduler(ctx context.Context, settings models.Settings) *scheduler.Scheduler {
	key := os.Getenv(constants.EnvGeminiAPIKey)
	if key == "" {
		if k, err := keyring.GetAIKey(); err == nil {
			key = k
		}
	}

	gemini, err := ai.NewGemini(ctx, ai.GeminiConfig{
		APIKey:    key,
		Model:     settings.AIModel,
		StartHour: settings.StartHour,
		EndHour:   settings.EndHour,
	})
	if err != nil {
		logger.Info("AI collaborator unavailable", "error", err)
		return scheduler.New(nil)
	}
	return scheduler.New(gemini)
}

// Today returns the current local date.
func Today() string {
	return time.Now().Format(constants.DateFormat)
}
