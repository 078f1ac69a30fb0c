package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/julianstephens/timebox/internal/ai"
	"github.com/julianstephens/timebox/internal/constants"
	apperrors "github.com/julianstephens/timebox/internal/errors"
	"github.com/julianstephens/timebox/internal/history"
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/planner"
	"github.com/julianstephens/timebox/internal/scheduler"
	"github.com/julianstephens/timebox/internal/session"
	"github.com/julianstephens/timebox/internal/slots"
	"github.com/julianstephens/timebox/internal/storage"
	historylist "github.com/julianstephens/timebox/internal/tui/components/history"
	"github.com/julianstephens/timebox/internal/validation"
)

type SessionState int

const (
	StateGrid SessionState = iota
	StateForm
	StateHistory
	StateConfirmReset
	StateConfirmDelete
)

type Config struct {
	Store     storage.Provider
	Scheduler *scheduler.Scheduler
	Owner     string
	Settings  models.Settings
	Date      string
	// ExportDir receives text exports. Empty means the working directory.
	ExportDir string
	// Colors picks tracker colors. Nil means random.
	Colors planner.ColorSource
}

type Model struct {
	store     storage.Provider
	scheduler *scheduler.Scheduler
	owner     string
	exportDir string
	session   *session.Session
	grid      slots.Grid
	validator *validation.Validator

	// preselected duration for new blocks
	defaultBlock int

	state    SessionState
	keys     KeyMap
	help     help.Model
	viewport viewport.Model
	history  historylist.Model
	form     *huh.Form
	submit   func(*Model)

	blockForm      *BlockFormModel
	textForm       *TextFormModel
	prioritiesForm *PrioritiesFormModel

	// day cursor; cell -1 is the plan column
	row  int
	cell int
	// week cursor
	weekRow int
	weekCol int

	pendingDelete     historylist.DeleteMsg
	notice            apperrors.Notice
	validationWarning string
	width             int
	height            int
	quitting          bool
}

// NewModel opens the planner on cfg.Date, resuming the saved daily plan for
// that date and the saved weekly plan for its week when they exist.
func NewModel(cfg Config) (Model, error) {
	if err := validation.ValidateDate(cfg.Date); err != nil {
		return Model{}, err
	}
	sched := cfg.Scheduler
	if sched == nil {
		sched = scheduler.New(nil)
	}

	day, err := savedDay(cfg.Store, cfg.Owner, cfg.Date)
	if err != nil {
		return Model{}, err
	}
	weekStart, err := planner.WeekStart(cfg.Date)
	if err != nil {
		return Model{}, err
	}
	week, err := savedWeek(cfg.Store, cfg.Owner, weekStart)
	if err != nil {
		return Model{}, err
	}

	grid := slots.NewGrid(cfg.Settings.StartHour, cfg.Settings.EndHour)
	m := Model{
		store:        cfg.Store,
		scheduler:    sched,
		owner:        cfg.Owner,
		exportDir:    cfg.ExportDir,
		session:      session.New(sched, day, week, cfg.Colors),
		grid:         grid,
		validator:    validation.New(grid),
		defaultBlock: cfg.Settings.DefaultBlockMin,
		state:        StateGrid,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		viewport:     viewport.New(0, 0),
		history:      historylist.New(0, 0),
		cell:         -1,
	}
	m.updateValidationStatus()
	m.refresh()
	return m, nil
}

func savedDay(store storage.Provider, owner, date string) (models.DayPlan, error) {
	snaps, err := store.GetDayPlans(owner)
	if err != nil {
		return models.DayPlan{}, fmt.Errorf("failed to load saved plans: %w", err)
	}
	for _, s := range snaps {
		if s.Date == date {
			return history.Restore(s), nil
		}
	}
	return planner.NewDayPlan(uuid.NewString(), date), nil
}

func savedWeek(store storage.Provider, owner, weekStart string) (models.WeeklyPlan, error) {
	snaps, err := store.GetWeeklyPlans(owner)
	if err != nil {
		return models.WeeklyPlan{}, fmt.Errorf("failed to load saved weeks: %w", err)
	}
	for _, s := range snaps {
		if s.WeekStart == weekStart {
			return history.RestoreWeek(s), nil
		}
	}
	return planner.NewWeeklyPlan(uuid.NewString(), weekStart), nil
}

func (m Model) ShortHelp() []key.Binding {
	if m.state == StateHistory {
		return []key.Binding{m.keys.Quit}
	}
	keys := []key.Binding{m.keys.Enter, m.keys.Toggle}
	if m.session.Mode() == session.ModeDay {
		keys = append(keys, m.keys.Generate)
	}
	return append(keys, m.keys.Save, m.keys.Week, m.keys.Quit, m.keys.Help)
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return nil
}

// updateValidationStatus runs validation on the working day and updates the
// warning message.
func (m *Model) updateValidationStatus() {
	result := m.validator.ValidatePlan(m.session.Day())
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}

func (m *Model) notify(n apperrors.Notice) {
	m.notice = n
}

func (m *Model) info(format string, args ...any) {
	m.notice = apperrors.Notice{Severity: apperrors.SeverityInfo, Message: fmt.Sprintf(format, args...)}
}

func (m Model) blocked() bool {
	return m.notice.Severity == apperrors.SeverityBlocking && m.notice.Message != ""
}

// busy is reported as a neutral notice; the action simply did not start.
var busy = apperrors.Match(session.ErrBusy, apperrors.SeverityInfo, "Still working on the previous request")

// generationNotice keeps every collaborator failure neutral.
func generationNotice(err error) apperrors.Notice {
	return apperrors.NoticeFor("Generate", err,
		busy,
		apperrors.Match(ai.ErrNotConfigured, apperrors.SeverityInfo,
			"AI is not configured. Set "+constants.EnvGeminiAPIKey+" or run 'timebox keyring set-ai-key'"),
		apperrors.Match(context.DeadlineExceeded, apperrors.SeverityInfo, "AI request timed out"),
		apperrors.Match(ai.ErrUnparsable, apperrors.SeverityInfo, "Could not read the AI response"),
		apperrors.Match(scheduler.ErrNoProposal, apperrors.SeverityInfo, "AI returned no plan"),
		func(err error) (apperrors.Notice, bool) {
			return apperrors.Notice{Severity: apperrors.SeverityInfo, Message: "Generation failed: " + err.Error()}, true
		},
	)
}

// currentSlot is the grid label under the day cursor.
func (m Model) currentSlot() string {
	return m.grid.At(m.row)
}

// blockAt returns the block starting at or covering label.
func (m Model) blockAt(label string) (models.Block, bool) {
	plan := m.session.Day()
	if b, ok := planner.BlockForSlot(plan, label); ok {
		return b, true
	}
	return planner.CoveringBlock(plan, label)
}

func (m *Model) openForm(f *huh.Form, submit func(*Model)) tea.Cmd {
	m.form = f
	m.submit = submit
	m.state = StateForm
	return m.form.Init()
}

func (m *Model) openBlockForm() tea.Cmd {
	slot := m.currentSlot()

	fm := &BlockFormModel{
		Start:    slot,
		Duration: m.defaultDuration(),
		Category: models.CategoryWork,
	}
	var editingID string
	var orig models.Block
	if b, ok := m.blockAt(slot); ok {
		editingID, orig = b.ID, b
		fm.Title, fm.Start, fm.Duration, fm.Category, fm.Notes = b.Title, b.StartTime, b.Duration, b.Color, b.Notes
	}

	m.blockForm = fm
	return m.openForm(NewBlockForm(fm, m.grid), func(m *Model) {
		id := editingID
		if id == "" {
			id = uuid.NewString()
		}
		block := models.Block{
			ID:        id,
			Title:     strings.TrimSpace(fm.Title),
			StartTime: fm.Start,
			Duration:  fm.Duration,
			Color:     fm.Category,
			Notes:     strings.TrimSpace(fm.Notes),
		}
		// an unchanged start or duration is kept even when off the picker scale
		check := block
		if editingID != "" && check.StartTime == orig.StartTime {
			check.StartTime = slot
		}
		if editingID != "" && check.Duration == orig.Duration {
			check.Duration = constants.DefaultBlockMin
		}
		if err := m.validator.ValidateBlock(check); err != nil {
			m.notify(apperrors.Notice{Severity: apperrors.SeverityInfo, Message: apperrors.Format(err)})
			return
		}
		m.session.PlaceBlock(block, editingID)
		m.row = max(m.grid.Index(block.StartTime), 0)
	})
}

func (m Model) defaultDuration() int {
	if validation.ValidateDuration(m.defaultBlock) != nil {
		return constants.DefaultBlockMin
	}
	return m.defaultBlock
}

func (m *Model) openNoteForm() tea.Cmd {
	slot := m.currentSlot()
	if v := planner.ViewSlot(m.session.Day(), slot); v.Kind != planner.SlotNote {
		m.info("%s is taken by a block", slot)
		return nil
	}
	fm := &TextFormModel{Value: m.session.Day().ManualPlans[slot]}
	m.textForm = fm
	return m.openForm(NewTextForm("Note at "+slot, "Leave empty to clear.", fm), func(m *Model) {
		m.session.UpdateManualPlan(slot, strings.TrimSpace(fm.Value))
	})
}

func (m *Model) openTrackerForm() tea.Cmd {
	if m.session.Mode() == session.ModeWeek {
		day, row := constants.Days[m.weekCol], planner.RowKey(m.weekRow)
		fm := &TextFormModel{Value: planner.WeeklyTrackerCells(m.session.Week(), day, row)[0].Text}
		m.textForm = fm
		title := fmt.Sprintf("%s, row %d", strings.ToUpper(day), m.weekRow+1)
		return m.openForm(NewTextForm(title, "Tracker text", fm), func(m *Model) {
			m.session.SetWeeklyTrackerText(day, row, 0, strings.TrimSpace(fm.Value))
		})
	}

	slot, index := m.currentSlot(), m.cell
	fm := &TextFormModel{Value: planner.TrackerCells(m.session.Day(), slot)[index].Text}
	m.textForm = fm
	title := fmt.Sprintf("%s, cell %d", slot, index+1)
	return m.openForm(NewTextForm(title, "Tracker text", fm), func(m *Model) {
		m.session.SetTrackerText(slot, index, strings.TrimSpace(fm.Value))
	})
}

func (m *Model) openPrioritiesForm() tea.Cmd {
	if m.session.Mode() == session.ModeWeek {
		fm := &PrioritiesFormModel{Values: padded(m.session.Week().Priorities, constants.WeeklyPriorities)}
		m.prioritiesForm = fm
		return m.openForm(NewPrioritiesForm("Top 5 priorities", fm), func(m *Model) {
			for i, v := range fm.Values {
				m.session.SetWeeklyPriority(i, strings.TrimSpace(v))
			}
		})
	}
	fm := &PrioritiesFormModel{Values: padded(m.session.Day().Priorities, constants.DailyPriorities)}
	m.prioritiesForm = fm
	return m.openForm(NewPrioritiesForm("Top 3 priorities", fm), func(m *Model) {
		for i, v := range fm.Values {
			m.session.SetPriority(i, strings.TrimSpace(v))
		}
	})
}

func (m *Model) openBrainDumpForm() tea.Cmd {
	if m.session.Mode() == session.ModeWeek {
		fm := &TextFormModel{Value: m.session.Week().BrainDump}
		m.textForm = fm
		return m.openForm(NewBrainDumpForm(fm), func(m *Model) {
			m.session.SetWeeklyBrainDump(fm.Value)
		})
	}
	fm := &TextFormModel{Value: m.session.Day().BrainDump}
	m.textForm = fm
	return m.openForm(NewBrainDumpForm(fm), func(m *Model) {
		m.session.SetBrainDump(fm.Value)
	})
}

func (m *Model) openDateForm() tea.Cmd {
	fm := &TextFormModel{Value: m.session.Day().Date}
	m.textForm = fm
	return m.openForm(NewDateForm(fm), func(m *Model) {
		m.session.SetDate(strings.TrimSpace(fm.Value))
	})
}

func padded(values []string, n int) []string {
	out := make([]string, n)
	copy(out, values)
	return out
}
