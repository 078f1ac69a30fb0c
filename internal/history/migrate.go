package history

import (
	"bytes"
	"encoding/json"

	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/logger"
	"github.com/julianstephens/timebox/internal/models"
)

// MigrateTracker normalizes a persisted daily tracker. Legacy slots hold a
// plain list of color strings (with null or empty entries); they become
// structured cells with empty text. Structured slots pass through. Anything
// malformed degrades to empty cells.
func MigrateTracker(raw json.RawMessage) models.Tracker {
	tracker := models.Tracker{}
	var slots map[string]json.RawMessage
	if !decodeObject(raw, &slots) {
		return tracker
	}
	for slot, value := range slots {
		tracker[slot] = migrateCells(value, constants.DailyTrackerSize)
	}
	return tracker
}

// MigrateWeeklyTracker applies the same normalization to every day row.
func MigrateWeeklyTracker(raw json.RawMessage) models.WeeklyTracker {
	tracker := models.WeeklyTracker{}
	var days map[string]json.RawMessage
	if !decodeObject(raw, &days) {
		return tracker
	}
	for day, value := range days {
		rows := map[string][]models.TrackerCell{}
		var rawRows map[string]json.RawMessage
		if decodeObject(value, &rawRows) {
			for row, cells := range rawRows {
				rows[row] = migrateCells(cells, constants.WeeklyTrackerSize)
			}
		}
		tracker[day] = rows
	}
	return tracker
}

func decodeObject(raw json.RawMessage, v any) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		logger.Debug("Dropping malformed tracker", "error", err)
		return false
	}
	return true
}

func migrateCells(raw json.RawMessage, size int) []models.TrackerCell {
	var elems []json.RawMessage
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' || json.Unmarshal(trimmed, &elems) != nil {
		return models.EmptyCells(size)
	}

	legacy := len(elems) == 0 || isLegacyElement(elems[0])
	cells := make([]models.TrackerCell, len(elems))
	for i, e := range elems {
		if legacy {
			cells[i] = legacyCell(e)
		} else {
			cells[i] = structuredCell(e)
		}
	}
	if len(cells) == 0 {
		return models.EmptyCells(size)
	}
	return cells
}

func isLegacyElement(e json.RawMessage) bool {
	t := bytes.TrimSpace(e)
	return len(t) > 0 && (t[0] == '"' || bytes.Equal(t, []byte("null")))
}

func legacyCell(e json.RawMessage) models.TrackerCell {
	var color string
	if json.Unmarshal(e, &color) != nil {
		return models.TrackerCell{}
	}
	return models.TrackerCell{Color: color}
}

func structuredCell(e json.RawMessage) models.TrackerCell {
	t := bytes.TrimSpace(e)
	if len(t) == 0 || t[0] != '{' {
		return models.TrackerCell{}
	}
	var c models.TrackerCell
	if json.Unmarshal(t, &c) != nil {
		return models.TrackerCell{}
	}
	return c
}
