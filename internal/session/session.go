// Package session owns the working plan for an interactive run. Every
// mutation goes through a Session from a single goroutine; slow work (the AI
// call, persistence, export) is begun here, performed elsewhere and completed
// here with the ticket it was begun with.
package session

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/timebox/internal/history"
	"github.com/julianstephens/timebox/internal/logger"
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/planner"
	"github.com/julianstephens/timebox/internal/scheduler"
)

// ErrBusy is returned when an action is begun while a previous one of the
// same kind is still in flight.
var ErrBusy = errors.New("action already in progress")

type Mode int

const (
	ModeDay Mode = iota
	ModeWeek
)

func (m Mode) String() string {
	if m == ModeWeek {
		return "week"
	}
	return "day"
}

type Action int

const (
	ActionGenerate Action = iota
	ActionSave
	ActionExport
	ActionHistory
	numActions
)

func (a Action) String() string {
	switch a {
	case ActionGenerate:
		return "generate"
	case ActionSave:
		return "save"
	case ActionExport:
		return "export"
	case ActionHistory:
		return "history"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Ticket identifies one begun action. A completion is applied only when its
// ticket is still current.
type Ticket struct {
	Action Action
	Seq    uint64
}

type actionState struct {
	busy bool
	seq  uint64
}

type Session struct {
	day     models.DayPlan
	week    models.WeeklyPlan
	mode    Mode
	sched   *scheduler.Scheduler
	colors  planner.ColorSource
	newID   func() string
	actions [numActions]actionState
}

// New starts a session on the given plans. colors may be nil for the default
// random source.
func New(sched *scheduler.Scheduler, day models.DayPlan, week models.WeeklyPlan, colors planner.ColorSource) *Session {
	if colors == nil {
		colors = planner.RandomColors()
	}
	return &Session{
		day:    day.Clone(),
		week:   week.Clone(),
		sched:  sched,
		colors: colors,
		newID:  uuid.NewString,
	}
}

func (s *Session) Day() models.DayPlan     { return s.day }
func (s *Session) Week() models.WeeklyPlan { return s.week }
func (s *Session) Mode() Mode              { return s.mode }
func (s *Session) SetMode(m Mode)          { s.mode = m }

// InProgress reports whether an action of kind a is in flight.
func (s *Session) InProgress(a Action) bool {
	return s.actions[a].busy
}

func (s *Session) begin(a Action) (Ticket, error) {
	st := &s.actions[a]
	if st.busy {
		return Ticket{}, fmt.Errorf("%s: %w", a, ErrBusy)
	}
	st.busy = true
	st.seq++
	return Ticket{Action: a, Seq: st.seq}, nil
}

// finish clears the in-progress flag for t and reports whether t is current.
// Stale tickets leave the state untouched.
func (s *Session) finish(t Ticket) bool {
	st := &s.actions[t.Action]
	if t.Seq != st.seq {
		logger.Debug("Dropping stale result", "action", t.Action, "seq", t.Seq, "current", st.seq)
		return false
	}
	st.busy = false
	return true
}

// invalidate makes any in-flight ticket for a stale and frees the slot.
func (s *Session) invalidate(a Action) {
	st := &s.actions[a]
	if st.busy {
		logger.Debug("Invalidating in-flight action", "action", a, "seq", st.seq)
	}
	st.seq++
	st.busy = false
}

// Daily mutations.

func (s *Session) PlaceBlock(b models.Block, editingID string) {
	s.day = planner.PlaceBlock(s.day, b, editingID)
}

func (s *Session) RemoveBlock(id string) {
	s.day = planner.RemoveBlock(s.day, id)
}

func (s *Session) UpdateManualPlan(slot, text string) {
	s.day = planner.UpdateManualPlan(s.day, slot, text)
}

func (s *Session) ToggleTrackerColor(slot string, index int) {
	s.day = planner.ToggleTrackerColor(s.day, slot, index, s.colors)
}

func (s *Session) SetTrackerText(slot string, index int, text string) {
	s.day = planner.SetTrackerText(s.day, slot, index, text)
}

func (s *Session) SetPriority(index int, value string) {
	s.day = planner.SetPriority(s.day, index, value)
}

func (s *Session) SetBrainDump(text string) {
	s.day = planner.SetBrainDump(s.day, text)
}

// SetDate moves the working plan to another date. The plan gets a fresh id
// so saving it never overwrites the history entry it was loaded from.
func (s *Session) SetDate(date string) {
	if date == s.day.Date {
		return
	}
	s.day = planner.SetDate(s.day, date)
	s.day.ID = s.newID()
}

// Weekly mutations.

func (s *Session) ToggleWeeklyTrackerColor(day, row string, index int) {
	s.week = planner.ToggleWeeklyTrackerColor(s.week, day, row, index, s.colors)
}

func (s *Session) SetWeeklyTrackerText(day, row string, index int, text string) {
	s.week = planner.SetWeeklyTrackerText(s.week, day, row, index, text)
}

func (s *Session) SetWeeklyPriority(index int, value string) {
	s.week = planner.SetWeeklyPriority(s.week, index, value)
}

func (s *Session) SetWeeklyBrainDump(text string) {
	s.week = planner.SetWeeklyBrainDump(s.week, text)
}

// ResetAll empties both working plans, keeping their identity, and drops any
// in-flight generation.
func (s *Session) ResetAll() {
	s.invalidate(ActionGenerate)
	s.day = planner.Reset(s.day)
	s.week = planner.ResetWeekly(s.week)
}

// LoadDay replaces the daily working plan with a restored snapshot and
// switches to day mode.
func (s *Session) LoadDay(snap history.DaySnapshot) {
	s.invalidate(ActionGenerate)
	s.day = history.Restore(snap)
	s.mode = ModeDay
}

func (s *Session) LoadWeek(snap history.WeekSnapshot) {
	s.week = history.RestoreWeek(snap)
	s.mode = ModeWeek
}
