package session

import (
	"fmt"

	"github.com/julianstephens/timebox/internal/history"
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/scheduler"
)

type GenerateRequest struct {
	Ticket   Ticket
	Notes    string
	Existing []models.Block
	// Demo is set when the sample notes were substituted for an empty brain
	// dump.
	Demo bool
}

type GenerateResult struct {
	Ticket   Ticket
	Proposal *models.Proposal
	Err      error
}

// BeginGenerate starts a generation. An empty brain dump is replaced by the
// sample notes, which become visible in the working plan immediately.
func (s *Session) BeginGenerate() (GenerateRequest, error) {
	t, err := s.begin(ActionGenerate)
	if err != nil {
		return GenerateRequest{}, err
	}
	notes, demo := scheduler.PrepareNotes(s.day.BrainDump)
	if demo {
		s.SetBrainDump(notes)
	}
	return GenerateRequest{
		Ticket:   t,
		Notes:    notes,
		Existing: s.day.Clone().Schedule,
		Demo:     demo,
	}, nil
}

// CompleteGenerate merges a result into the working plan. It reports whether
// the plan changed. Stale results are dropped with no error; a failed or
// malformed result leaves the plan unchanged and returns the error.
func (s *Session) CompleteGenerate(res GenerateResult) (bool, error) {
	if !s.finish(res.Ticket) {
		return false, nil
	}
	if res.Err != nil {
		return false, res.Err
	}
	merged, err := s.sched.Merge(s.day, res.Proposal)
	if err != nil {
		return false, err
	}
	s.day = merged
	return true, nil
}

// SaveRequest carries the snapshot to persist. Weekly is set for weekly
// saves, in which case Week is filled instead of Day.
type SaveRequest struct {
	Ticket Ticket
	Weekly bool
	Day    history.DaySnapshot
	Week   history.WeekSnapshot
}

func (s *Session) BeginSave() (SaveRequest, error) {
	t, err := s.begin(ActionSave)
	if err != nil {
		return SaveRequest{}, err
	}
	return SaveRequest{Ticket: t, Day: history.Capture(s.day)}, nil
}

func (s *Session) BeginWeeklySave() (SaveRequest, error) {
	t, err := s.begin(ActionSave)
	if err != nil {
		return SaveRequest{}, err
	}
	return SaveRequest{Ticket: t, Weekly: true, Week: history.CaptureWeek(s.week)}, nil
}

// CompleteSave clears the save flag. The working plan is never touched; a
// failure is returned for the caller to report.
func (s *Session) CompleteSave(t Ticket, saveErr error) error {
	s.finish(t)
	if saveErr != nil {
		return fmt.Errorf("save failed: %w", saveErr)
	}
	return nil
}

type ExportRequest struct {
	Ticket Ticket
	Mode   Mode
	Day    models.DayPlan
	Week   models.WeeklyPlan
}

func (s *Session) BeginExport() (ExportRequest, error) {
	t, err := s.begin(ActionExport)
	if err != nil {
		return ExportRequest{}, err
	}
	return ExportRequest{Ticket: t, Mode: s.mode, Day: s.day.Clone(), Week: s.week.Clone()}, nil
}

func (s *Session) CompleteExport(t Ticket, exportErr error) error {
	s.finish(t)
	if exportErr != nil {
		return fmt.Errorf("export failed: %w", exportErr)
	}
	return nil
}

// BeginHistory starts a history listing.
func (s *Session) BeginHistory() (Ticket, error) {
	return s.begin(ActionHistory)
}

// CompleteHistory reports whether the listing for t should be shown.
func (s *Session) CompleteHistory(t Ticket) bool {
	return s.finish(t)
}
