package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/timebox/internal/constants"
	apperrors "github.com/julianstephens/timebox/internal/errors"
	"github.com/julianstephens/timebox/internal/logger"
	"github.com/julianstephens/timebox/internal/planner"
	"github.com/julianstephens/timebox/internal/session"
	historylist "github.com/julianstephens/timebox/internal/tui/components/history"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.updateValidationStatus()
	m.refresh()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.history.SetSize(msg.Width-2, msg.Height-2)
		return nil

	case session.GenerateResult:
		changed, err := m.session.CompleteGenerate(msg)
		switch {
		case err != nil:
			logger.Warn("Generation failed", "error", err)
			m.notify(generationNotice(err))
		case changed:
			m.info("Plan updated from brain dump")
		}
		return nil

	case saveDoneMsg:
		if err := m.session.CompleteSave(msg.ticket, msg.err); err != nil {
			logger.Error("Save failed", "weekly", msg.weekly, "error", err)
			m.notify(apperrors.NoticeFor("Save", msg.err))
			return nil
		}
		if msg.weekly {
			m.info("Week saved")
		} else {
			m.info("Plan saved")
		}
		return nil

	case exportDoneMsg:
		if err := m.session.CompleteExport(msg.ticket, msg.err); err != nil {
			logger.Error("Export failed", "error", err)
			m.notify(apperrors.NoticeFor("Export", msg.err))
			return nil
		}
		m.info("Exported to %s", msg.path)
		return nil

	case historyLoadedMsg:
		if !m.session.CompleteHistory(msg.ticket) {
			return nil
		}
		if msg.err != nil {
			m.notify(apperrors.NoticeFor("Loading history", msg.err))
			return nil
		}
		if msg.weekly {
			m.history.SetWeeks(msg.weeks)
		} else {
			m.history.SetDays(msg.days)
		}
		m.state = StateHistory
		return nil

	case deleteDoneMsg:
		if msg.err != nil {
			m.notify(apperrors.NoticeFor("Delete", msg.err))
			return nil
		}
		m.history.Remove(msg.id)
		m.info("Deleted saved plan")
		return nil

	case historylist.LoadDayMsg:
		m.session.LoadDay(msg.Snapshot)
		m.row, m.cell = 0, -1
		m.state = StateGrid
		m.info("Loaded plan for %s", msg.Snapshot.Date)
		return nil

	case historylist.LoadWeekMsg:
		m.session.LoadWeek(msg.Snapshot)
		m.weekRow, m.weekCol = 0, 0
		m.state = StateGrid
		m.info("Loaded week of %s", msg.Snapshot.WeekStart)
		return nil

	case historylist.DeleteMsg:
		m.pendingDelete = msg
		m.state = StateConfirmDelete
		return nil

	case historylist.CloseMsg:
		m.state = StateGrid
		return nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return tea.Quit
		}
		if m.blocked() {
			m.notice = apperrors.Notice{}
			return nil
		}
	}

	switch m.state {
	case StateForm:
		return m.updateForm(msg)
	case StateHistory:
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return cmd
	case StateConfirmReset:
		return m.updateConfirm(msg, func(m *Model) tea.Cmd {
			m.session.ResetAll()
			m.info("Plans cleared")
			return nil
		}, StateGrid)
	case StateConfirmDelete:
		return m.updateConfirm(msg, func(m *Model) tea.Cmd {
			d := m.pendingDelete
			return deleteCmd(m.store, m.owner, d.ID, d.Weekly)
		}, StateHistory)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		m.notice = apperrors.Notice{}
		return m.handleKey(msg)
	}
	return nil
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateGrid
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.submit(m)
		m.state = StateGrid
	case huh.StateAborted:
		m.state = StateGrid
	}
	return cmd
}

func (m *Model) updateConfirm(msg tea.Msg, yes func(*Model) tea.Cmd, back SessionState) tea.Cmd {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch k.String() {
	case "y", "Y":
		m.state = back
		return yes(m)
	case "n", "N", "esc":
		m.state = back
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	week := m.session.Mode() == session.ModeWeek

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Week):
		if week {
			m.session.SetMode(session.ModeDay)
		} else {
			m.session.SetMode(session.ModeWeek)
		}
	case key.Matches(msg, m.keys.Up):
		m.move(-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.move(1, 0)
	case key.Matches(msg, m.keys.Left):
		m.move(0, -1)
	case key.Matches(msg, m.keys.Right):
		m.move(0, 1)
	case key.Matches(msg, m.keys.Enter):
		if week || m.cell >= 0 {
			return m.openTrackerForm()
		}
		return m.openBlockForm()
	case key.Matches(msg, m.keys.Toggle):
		switch {
		case week:
			m.session.ToggleWeeklyTrackerColor(constants.Days[m.weekCol], planner.RowKey(m.weekRow), 0)
		case m.cell >= 0:
			m.session.ToggleTrackerColor(m.currentSlot(), m.cell)
		default:
			m.info("Move right to a tracker cell to mark it")
		}
	case key.Matches(msg, m.keys.Note):
		if !week {
			return m.openNoteForm()
		}
	case key.Matches(msg, m.keys.Delete):
		if !week {
			m.removeBlock()
		}
	case key.Matches(msg, m.keys.Priorities):
		return m.openPrioritiesForm()
	case key.Matches(msg, m.keys.BrainDump):
		return m.openBrainDumpForm()
	case key.Matches(msg, m.keys.Date):
		if !week {
			return m.openDateForm()
		}
	case key.Matches(msg, m.keys.Generate):
		if week {
			m.info("Generation works on the daily plan")
			return nil
		}
		return m.generate()
	case key.Matches(msg, m.keys.Save):
		return m.save(week)
	case key.Matches(msg, m.keys.Export):
		return m.export()
	case key.Matches(msg, m.keys.History):
		return m.openHistory(week)
	case key.Matches(msg, m.keys.Reset):
		m.state = StateConfirmReset
	}
	return nil
}

func (m *Model) move(dRow, dCol int) {
	if m.session.Mode() == session.ModeWeek {
		m.weekRow = clamp(m.weekRow+dRow, 0, constants.WeeklyRows-1)
		m.weekCol = clamp(m.weekCol+dCol, 0, len(constants.Days)-1)
		return
	}
	m.row = clamp(m.row+dRow, 0, max(m.grid.Len()-1, 0))
	m.cell = clamp(m.cell+dCol, -1, constants.DailyTrackerSize-1)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func (m *Model) removeBlock() {
	b, ok := m.blockAt(m.currentSlot())
	if !ok {
		m.info("No block at %s", m.currentSlot())
		return
	}
	m.session.RemoveBlock(b.ID)
	m.info("Removed %q", b.Title)
}

func (m *Model) generate() tea.Cmd {
	req, err := m.session.BeginGenerate()
	if err != nil {
		m.notify(generationNotice(err))
		return nil
	}
	if req.Demo {
		m.info("Brain dump was empty, using sample notes")
	}
	return generateCmd(m.scheduler, req)
}

func (m *Model) save(week bool) tea.Cmd {
	var (
		req session.SaveRequest
		err error
	)
	if week {
		req, err = m.session.BeginWeeklySave()
	} else {
		req, err = m.session.BeginSave()
	}
	if err != nil {
		m.notify(apperrors.NoticeFor("Save", err, busy))
		return nil
	}
	return saveCmd(m.store, m.owner, req)
}

func (m *Model) export() tea.Cmd {
	req, err := m.session.BeginExport()
	if err != nil {
		m.notify(apperrors.NoticeFor("Export", err, busy))
		return nil
	}
	return exportCmd(req, m.grid, m.exportDir)
}

func (m *Model) openHistory(week bool) tea.Cmd {
	t, err := m.session.BeginHistory()
	if err != nil {
		m.notify(apperrors.NoticeFor("History", err, busy))
		return nil
	}
	return historyCmd(m.store, m.owner, t, week)
}
