package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/timebox/internal/constants"
)

// Settings represents application-wide settings
type Settings struct {
	StartHour       int    `json:"start_hour"`        // first hour of the slot grid, e.g. 6
	EndHour         int    `json:"end_hour"`          // hour the slot grid stops at (exclusive), e.g. 24
	DefaultBlockMin int    `json:"default_block_min"` // default duration offered for new blocks
	AIModel         string `json:"ai_model"`          // model used for schedule suggestions
}

// DefaultSettings returns the settings a fresh store starts with.
func DefaultSettings() Settings {
	return Settings{
		StartHour:       constants.DefaultStartHour,
		EndHour:         constants.DefaultEndHour,
		DefaultBlockMin: constants.DefaultBlockMin,
		AIModel:         constants.DefaultAIModel,
	}
}

// MapToSettings converts key/value rows to Settings. Missing keys keep their
// defaults.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		var err error
		switch key {
		case constants.SettingStartHour:
			settings.StartHour, err = strconv.Atoi(value)
		case constants.SettingEndHour:
			settings.EndHour, err = strconv.Atoi(value)
		case constants.SettingDefaultBlockMin:
			settings.DefaultBlockMin, err = strconv.Atoi(value)
		case constants.SettingAIModel:
			settings.AIModel = value
		}
		if err != nil {
			return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
		}
	}

	return settings, nil
}

// ToMap converts Settings to key/value rows.
func (s Settings) ToMap() map[string]string {
	return map[string]string{
		constants.SettingStartHour:       strconv.Itoa(s.StartHour),
		constants.SettingEndHour:         strconv.Itoa(s.EndHour),
		constants.SettingDefaultBlockMin: strconv.Itoa(s.DefaultBlockMin),
		constants.SettingAIModel:         s.AIModel,
	}
}
