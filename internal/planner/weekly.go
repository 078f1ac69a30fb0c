package planner

import (
	"fmt"
	"time"

	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/models"
)

// NewWeeklyPlan returns an empty weekly plan.
func NewWeeklyPlan(id, weekStart string) models.WeeklyPlan {
	return models.WeeklyPlan{
		ID:         id,
		WeekStart:  weekStart,
		Priorities: make([]string, constants.WeeklyPriorities),
		Tracker:    models.WeeklyTracker{},
	}
}

// ResetWeekly returns an empty weekly plan keeping the id and week start.
func ResetWeekly(plan models.WeeklyPlan) models.WeeklyPlan {
	return NewWeeklyPlan(plan.ID, plan.WeekStart)
}

// WeekStart returns the Monday (YYYY-MM-DD) of the week containing date.
func WeekStart(date string) (string, error) {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format(constants.DateFormat), nil
}

// RowKey returns the weekly tracker row key for row n.
func RowKey(n int) string {
	return fmt.Sprintf("%s%d", constants.WeeklyRowPrefix, n)
}

// WeeklyTrackerCells returns a copy of the cells for a day row, defaulting to
// seven empty cells.
func WeeklyTrackerCells(plan models.WeeklyPlan, day, row string) []models.TrackerCell {
	return padCells(plan.Tracker[day][row], constants.WeeklyTrackerSize)
}

// ToggleWeeklyTrackerColor is the weekly analog of ToggleTrackerColor.
func ToggleWeeklyTrackerColor(plan models.WeeklyPlan, day, row string, index int, src ColorSource) models.WeeklyPlan {
	cells := WeeklyTrackerCells(plan, day, row)
	checkIndex("tracker cell", index, len(cells))
	cells[index].Color = toggleColor(cells[index].Color, src)
	return withWeeklyCells(plan, day, row, cells)
}

// SetWeeklyTrackerText sets a weekly cell's text and keeps its color.
func SetWeeklyTrackerText(plan models.WeeklyPlan, day, row string, index int, text string) models.WeeklyPlan {
	cells := WeeklyTrackerCells(plan, day, row)
	checkIndex("tracker cell", index, len(cells))
	cells[index].Text = text
	return withWeeklyCells(plan, day, row, cells)
}

// SetWeeklyPriority replaces the weekly priority at index.
func SetWeeklyPriority(plan models.WeeklyPlan, index int, value string) models.WeeklyPlan {
	checkIndex("priority", index, constants.WeeklyPriorities)
	out := plan.Clone()
	out.Priorities = padStrings(out.Priorities, constants.WeeklyPriorities)
	out.Priorities[index] = value
	return out
}

func SetWeeklyBrainDump(plan models.WeeklyPlan, text string) models.WeeklyPlan {
	out := plan.Clone()
	out.BrainDump = text
	return out
}

func withWeeklyCells(plan models.WeeklyPlan, day, row string, cells []models.TrackerCell) models.WeeklyPlan {
	out := plan.Clone()
	rows, ok := out.Tracker[day]
	if !ok {
		rows = make(map[string][]models.TrackerCell)
		out.Tracker[day] = rows
	}
	rows[row] = cells
	return out
}
