package planner

import (
	"slices"
	"testing"

	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/models"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		date    string
		want    string
		wantErr bool
	}{
		{"2024-05-06", "2024-05-06", false}, // Monday
		{"2024-05-08", "2024-05-06", false},
		{"2024-05-12", "2024-05-06", false}, // Sunday
		{"2024-01-03", "2024-01-01", false},
		{"2024-13-01", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got, err := WeekStart(tt.date)
			if (err != nil) != tt.wantErr {
				t.Fatalf("WeekStart() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("WeekStart() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWeeklyTracker(t *testing.T) {
	plan := NewWeeklyPlan("w1", "2024-05-06")
	row := RowKey(3)

	cells := WeeklyTrackerCells(plan, "tue", row)
	if len(cells) != constants.WeeklyTrackerSize {
		t.Fatalf("len(cells) = %d, want %d", len(cells), constants.WeeklyTrackerSize)
	}

	marked := ToggleWeeklyTrackerColor(plan, "tue", row, 0, fixedColor(5))
	marked = SetWeeklyTrackerText(marked, "tue", row, 0, "read")
	got := WeeklyTrackerCells(marked, "tue", row)[0]
	if got.Color != constants.TrackerPalette[5] || got.Text != "read" {
		t.Errorf("cell = %+v", got)
	}

	cleared := ToggleWeeklyTrackerColor(marked, "tue", row, 0, fixedColor(5))
	if got := WeeklyTrackerCells(cleared, "tue", row)[0]; got.Color != "" || got.Text != "read" {
		t.Errorf("cleared cell = %+v", got)
	}

	if len(plan.Tracker) != 0 {
		t.Error("input weekly plan mutated")
	}
}

func TestWeeklyPrioritiesAndReset(t *testing.T) {
	plan := NewWeeklyPlan("w1", "2024-05-06")
	plan = SetWeeklyPriority(plan, 4, "taxes")
	plan = SetWeeklyBrainDump(plan, "dump")
	plan = ToggleWeeklyTrackerColor(plan, "mon", RowKey(0), 6, fixedColor(1))

	if !slices.Equal(plan.Priorities, []string{"", "", "", "", "taxes"}) {
		t.Errorf("Priorities = %q", plan.Priorities)
	}

	reset := ResetWeekly(plan)
	if reset.WeekStart != "2024-05-06" || reset.BrainDump != "" || len(reset.Tracker) != 0 {
		t.Errorf("ResetWeekly() = %+v", reset)
	}
	if got := WeeklyTrackerCells(reset, "mon", RowKey(0))[6]; got != (models.TrackerCell{}) {
		t.Errorf("cell after reset = %+v", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("SetWeeklyPriority(5) did not panic")
		}
	}()
	SetWeeklyPriority(plan, constants.WeeklyPriorities, "x")
}
