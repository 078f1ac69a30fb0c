package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/timebox/internal/history"
	"github.com/julianstephens/timebox/internal/logger"
	"github.com/julianstephens/timebox/internal/render"
	"github.com/julianstephens/timebox/internal/scheduler"
	"github.com/julianstephens/timebox/internal/session"
	"github.com/julianstephens/timebox/internal/slots"
	"github.com/julianstephens/timebox/internal/storage"
)

const generateTimeout = 90 * time.Second

type saveDoneMsg struct {
	ticket session.Ticket
	weekly bool
	err    error
}

type exportDoneMsg struct {
	ticket session.Ticket
	path   string
	err    error
}

type historyLoadedMsg struct {
	ticket session.Ticket
	weekly bool
	days   []history.DaySnapshot
	weeks  []history.WeekSnapshot
	err    error
}

type deleteDoneMsg struct {
	id     string
	weekly bool
	err    error
}

// generateCmd asks the collaborator for a proposal off the update loop.
func generateCmd(sched *scheduler.Scheduler, req session.GenerateRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()

		logger.Debug("Requesting proposal", "seq", req.Ticket.Seq, "demo", req.Demo)
		p, err := sched.Suggest(ctx, req.Notes, req.Existing)
		return session.GenerateResult{Ticket: req.Ticket, Proposal: p, Err: err}
	}
}

func saveCmd(store storage.Provider, owner string, req session.SaveRequest) tea.Cmd {
	return func() tea.Msg {
		var err error
		if req.Weekly {
			err = store.SaveWeeklyPlan(owner, req.Week)
		} else {
			err = store.SaveDayPlan(owner, req.Day)
		}
		return saveDoneMsg{ticket: req.Ticket, weekly: req.Weekly, err: err}
	}
}

// exportCmd writes the canonical-width text rendering of the plan captured in
// req into dir.
func exportCmd(req session.ExportRequest, grid slots.Grid, dir string) tea.Cmd {
	return func() tea.Msg {
		var content, key string
		if req.Mode == session.ModeWeek {
			content, key = render.ExportWeek(req.Week), "week-"+req.Week.WeekStart
		} else {
			content, key = render.ExportDay(req.Day, grid), req.Day.Date
		}

		path := filepath.Join(dir, render.FileName(key))
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return exportDoneMsg{ticket: req.Ticket, err: fmt.Errorf("failed to write %s: %w", path, err)}
		}
		return exportDoneMsg{ticket: req.Ticket, path: path}
	}
}

func historyCmd(store storage.Provider, owner string, t session.Ticket, weekly bool) tea.Cmd {
	return func() tea.Msg {
		msg := historyLoadedMsg{ticket: t, weekly: weekly}
		if weekly {
			msg.weeks, msg.err = store.GetWeeklyPlans(owner)
		} else {
			msg.days, msg.err = store.GetDayPlans(owner)
		}
		return msg
	}
}

func deleteCmd(store storage.Provider, owner, id string, weekly bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		if weekly {
			err = store.DeleteWeeklyPlan(owner, id)
		} else {
			err = store.DeleteDayPlan(owner, id)
		}
		return deleteDoneMsg{id: id, weekly: weekly, err: err}
	}
}
