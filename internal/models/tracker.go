package models

import (
	"slices"

	"github.com/julianstephens/timebox/internal/constants"
)

// TrackerCell is a small colored and texted annotation layered onto a slot.
type TrackerCell struct {
	Color string `json:"color"`
	Text  string `json:"text"`
}

// Tracker maps a slot label to its ordered tracker cells.
type Tracker map[string][]TrackerCell

// WeeklyTracker maps a day key to row keys to ordered tracker cells.
type WeeklyTracker map[string]map[string][]TrackerCell

// EmptyCells returns n unset cells.
func EmptyCells(n int) []TrackerCell {
	return make([]TrackerCell, n)
}

// IsPaletteColor reports whether color belongs to the fixed tracker palette.
func IsPaletteColor(color string) bool {
	for _, c := range constants.TrackerPalette {
		if c == color {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the tracker.
func (t Tracker) Clone() Tracker {
	out := make(Tracker, len(t))
	for slot, cells := range t {
		out[slot] = slices.Clone(cells)
	}
	return out
}

// Clone returns a deep copy of the weekly tracker.
func (t WeeklyTracker) Clone() WeeklyTracker {
	out := make(WeeklyTracker, len(t))
	for day, rows := range t {
		copied := make(map[string][]TrackerCell, len(rows))
		for row, cells := range rows {
			copied[row] = slices.Clone(cells)
		}
		out[day] = copied
	}
	return out
}
