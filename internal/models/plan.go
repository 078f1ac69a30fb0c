package models

import (
	"maps"
	"slices"
)

// DayPlan is the daily planning aggregate: priorities, brain dump, the block
// schedule, per-slot manual notes and per-slot tracker cells.
type DayPlan struct {
	ID          string            `json:"id"`
	Date        string            `json:"date"` // YYYY-MM-DD format
	Priorities  []string          `json:"priorities"`
	BrainDump   string            `json:"brainDump"`
	Schedule    []Block           `json:"schedule"`
	Tracker     Tracker           `json:"tracker"`
	ManualPlans map[string]string `json:"manualPlans"`
}

// Clone returns a deep copy so mutations never alias an earlier revision.
func (p DayPlan) Clone() DayPlan {
	out := p
	out.Priorities = slices.Clone(p.Priorities)
	out.Schedule = slices.Clone(p.Schedule)
	out.Tracker = p.Tracker.Clone()
	out.ManualPlans = maps.Clone(p.ManualPlans)
	if out.ManualPlans == nil {
		out.ManualPlans = map[string]string{}
	}
	return out
}

// WeeklyPlan is the weekly analog of DayPlan, keyed by the Monday that starts
// the week. It carries no block schedule.
type WeeklyPlan struct {
	ID         string        `json:"id"`
	WeekStart  string        `json:"weekStart"` // YYYY-MM-DD format
	Priorities []string      `json:"priorities"`
	BrainDump  string        `json:"brainDump"`
	Tracker    WeeklyTracker `json:"tracker"`
}

// Clone returns a deep copy of the weekly plan.
func (p WeeklyPlan) Clone() WeeklyPlan {
	out := p
	out.Priorities = slices.Clone(p.Priorities)
	out.Tracker = p.Tracker.Clone()
	return out
}
