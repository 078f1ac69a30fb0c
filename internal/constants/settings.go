package constants

const (
	SettingStartHour       = "start_hour"
	SettingEndHour         = "end_hour"
	SettingDefaultBlockMin = "default_block_min"
	SettingAIModel         = "ai_model"

	DefaultStartHour = 6
	DefaultEndHour   = 24
	DefaultBlockMin  = 60
	DefaultAIModel   = "gemini-2.5-flash"
)
