// Package history converts between working plans and their persisted
// snapshots, normalizing legacy tracker data on the way in.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/models"
)

// DaySnapshot is the persisted record of a daily plan. Tracker stays raw so
// legacy shapes survive until Restore migrates them.
type DaySnapshot struct {
	ID          string            `json:"id"`
	Date        string            `json:"date"`
	Priorities  []string          `json:"priorities"`
	BrainDump   string            `json:"brainDump"`
	Schedule    []models.Block    `json:"schedule"`
	Tracker     json.RawMessage   `json:"tracker"`
	ManualPlans map[string]string `json:"manualPlans"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// WeekSnapshot is the persisted record of a weekly plan.
type WeekSnapshot struct {
	ID         string          `json:"id"`
	WeekStart  string          `json:"weekStart"`
	Priorities []string        `json:"priorities"`
	BrainDump  string          `json:"brainDump"`
	Tracker    json.RawMessage `json:"tracker"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Capture serializes a daily plan. CreatedAt is left for the store to set.
func Capture(plan models.DayPlan) DaySnapshot {
	p := plan.Clone()
	return DaySnapshot{
		ID:          p.ID,
		Date:        p.Date,
		Priorities:  p.Priorities,
		BrainDump:   p.BrainDump,
		Schedule:    p.Schedule,
		Tracker:     mustMarshal(p.Tracker),
		ManualPlans: p.ManualPlans,
	}
}

// CaptureWeek serializes a weekly plan.
func CaptureWeek(plan models.WeeklyPlan) WeekSnapshot {
	p := plan.Clone()
	return WeekSnapshot{
		ID:         p.ID,
		WeekStart:  p.WeekStart,
		Priorities: p.Priorities,
		BrainDump:  p.BrainDump,
		Tracker:    mustMarshal(p.Tracker),
	}
}

// Restore rebuilds a working plan from a snapshot. It never fails.
func Restore(s DaySnapshot) models.DayPlan {
	plan := models.DayPlan{
		ID:          s.ID,
		Date:        s.Date,
		Priorities:  normalizePriorities(s.Priorities, constants.DailyPriorities),
		BrainDump:   s.BrainDump,
		Schedule:    append([]models.Block{}, s.Schedule...),
		Tracker:     MigrateTracker(s.Tracker),
		ManualPlans: make(map[string]string, len(s.ManualPlans)),
	}
	for k, v := range s.ManualPlans {
		plan.ManualPlans[k] = v
	}
	return plan
}

// RestoreWeek rebuilds a weekly plan from a snapshot. It never fails.
func RestoreWeek(s WeekSnapshot) models.WeeklyPlan {
	return models.WeeklyPlan{
		ID:         s.ID,
		WeekStart:  s.WeekStart,
		Priorities: normalizePriorities(s.Priorities, constants.WeeklyPriorities),
		BrainDump:  s.BrainDump,
		Tracker:    MigrateWeeklyTracker(s.Tracker),
	}
}

func normalizePriorities(p []string, n int) []string {
	out := make([]string, n)
	copy(out, p)
	return out
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		// maps of strings and plain structs always encode
		panic(fmt.Sprintf("history: marshal tracker: %v", err))
	}
	return data
}
