package planner

import (
	"fmt"
	"math/rand/v2"

	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/models"
)

// ColorSource returns a pseudo-random index in [0, n).
type ColorSource func(n int) int

// RandomColors is the default ColorSource.
func RandomColors() ColorSource {
	return rand.IntN
}

// NewDayPlan returns an empty daily plan.
func NewDayPlan(id, date string) models.DayPlan {
	return models.DayPlan{
		ID:          id,
		Date:        date,
		Priorities:  make([]string, constants.DailyPriorities),
		Schedule:    []models.Block{},
		Tracker:     models.Tracker{},
		ManualPlans: map[string]string{},
	}
}

// Reset returns an empty plan that keeps only the id and date of plan.
func Reset(plan models.DayPlan) models.DayPlan {
	return NewDayPlan(plan.ID, plan.Date)
}

// UpdateManualPlan sets the free-text note for a slot. An empty text removes
// the note.
func UpdateManualPlan(plan models.DayPlan, slot, text string) models.DayPlan {
	out := plan.Clone()
	if text == "" {
		delete(out.ManualPlans, slot)
	} else {
		out.ManualPlans[slot] = text
	}
	return out
}

// TrackerCells returns a copy of the cells for slot, materializing the
// default row when the slot has never been touched.
func TrackerCells(plan models.DayPlan, slot string) []models.TrackerCell {
	return padCells(plan.Tracker[slot], constants.DailyTrackerSize)
}

// ToggleTrackerColor clears a colored cell or marks an empty one with a color
// drawn from the palette by src.
func ToggleTrackerColor(plan models.DayPlan, slot string, index int, src ColorSource) models.DayPlan {
	out := plan.Clone()
	cells := TrackerCells(plan, slot)
	checkIndex("tracker cell", index, len(cells))
	cells[index].Color = toggleColor(cells[index].Color, src)
	out.Tracker[slot] = cells
	return out
}

// SetTrackerText sets a cell's text and keeps its color.
func SetTrackerText(plan models.DayPlan, slot string, index int, text string) models.DayPlan {
	out := plan.Clone()
	cells := TrackerCells(plan, slot)
	checkIndex("tracker cell", index, len(cells))
	cells[index].Text = text
	out.Tracker[slot] = cells
	return out
}

// SetPriority replaces the priority at index. index must be within the fixed
// number of daily priorities.
func SetPriority(plan models.DayPlan, index int, value string) models.DayPlan {
	checkIndex("priority", index, constants.DailyPriorities)
	out := plan.Clone()
	out.Priorities = padStrings(out.Priorities, constants.DailyPriorities)
	out.Priorities[index] = value
	return out
}

func SetBrainDump(plan models.DayPlan, text string) models.DayPlan {
	out := plan.Clone()
	out.BrainDump = text
	return out
}

func SetDate(plan models.DayPlan, date string) models.DayPlan {
	out := plan.Clone()
	out.Date = date
	return out
}

func toggleColor(current string, src ColorSource) string {
	if current != "" {
		return ""
	}
	if src == nil {
		src = RandomColors()
	}
	return constants.TrackerPalette[src(len(constants.TrackerPalette))]
}

func padCells(cells []models.TrackerCell, size int) []models.TrackerCell {
	n := max(len(cells), size)
	out := make([]models.TrackerCell, n)
	copy(out, cells)
	return out
}

func padStrings(values []string, size int) []string {
	out := make([]string, size)
	copy(out, values)
	return out
}

func checkIndex(what string, index, size int) {
	if index < 0 || index >= size {
		panic(fmt.Sprintf("planner: %s index %d out of range [0,%d)", what, index, size))
	}
}
