package constants

const (
	AppName             = "timebox"
	DefaultKeyringUser  = "database-connection"
	KeyringAIKeyUser    = "gemini-api-key"
	DefaultConfigPath   = "~/.config/timebox/timebox.db"
	DefaultExportSuffix = ".txt"
	Version             = "v0.3.0"

	// Environment variables
	EnvDBConnection = "TIMEBOX_DB_CONNECTION"
	EnvGeminiAPIKey = "GEMINI_API_KEY"

	// Slot grid constants
	SlotMinutes      = 30
	MinBlockMinutes  = 30
	MaxBlockMinutes  = 240
	DailyTrackerSize = 4

	// Weekly grid constants
	WeeklyTrackerSize = 7
	WeeklyRows        = 10
	WeeklyRowPrefix   = "row-"

	// Priority counts
	DailyPriorities  = 3
	WeeklyPriorities = 5

	// Limits on user-supplied identity
	MaxOwnerLength = 64
)

// Days lists the weekly tracker day keys in display order (Monday first).
var Days = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}
