// Package history is the saved-plan picker.
package history

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/timebox/internal/history"
)

// LoadDayMsg asks the parent to make a saved daily plan the working plan.
type LoadDayMsg struct {
	Snapshot history.DaySnapshot
}

type LoadWeekMsg struct {
	Snapshot history.WeekSnapshot
}

// DeleteMsg asks the parent to confirm and delete a saved plan.
type DeleteMsg struct {
	ID     string
	Label  string
	Weekly bool
}

type CloseMsg struct{}

type Item struct {
	ID        string
	Label     string
	Summary   string
	CreatedAt time.Time
	Weekly    bool

	day  history.DaySnapshot
	week history.WeekSnapshot
}

func (i Item) Title() string { return i.Label }

func (i Item) Description() string {
	saved := "-"
	if !i.CreatedAt.IsZero() {
		saved = i.CreatedAt.Local().Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("saved %s | %s", saved, i.Summary)
}

func (i Item) FilterValue() string { return i.Label }

func DayItem(s history.DaySnapshot) Item {
	return Item{
		ID:        s.ID,
		Label:     s.Date,
		Summary:   fmt.Sprintf("%d blocks", len(s.Schedule)),
		CreatedAt: s.CreatedAt,
		day:       s,
	}
}

func WeekItem(s history.WeekSnapshot) Item {
	return Item{
		ID:        s.ID,
		Label:     "Week of " + s.WeekStart,
		Summary:   fmt.Sprintf("%d priorities", countSet(s.Priorities)),
		CreatedAt: s.CreatedAt,
		Weekly:    true,
		week:      s,
	}
}

func countSet(values []string) int {
	n := 0
	for _, v := range values {
		if v != "" {
			n++
		}
	}
	return n
}

type KeyMap struct {
	Load   key.Binding
	Delete key.Binding
	Close  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Load: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "load"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

type Model struct {
	list   list.Model
	keys   KeyMap
	weekly bool
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Saved plans"
	l.SetShowHelp(false) // help is drawn by the parent
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Load, keys.Delete, keys.Close}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Load, keys.Delete, keys.Close}
	}

	return Model{list: l, keys: keys}
}

func (m *Model) SetDays(snaps []history.DaySnapshot) {
	items := make([]list.Item, len(snaps))
	for i, s := range snaps {
		items[i] = DayItem(s)
	}
	m.weekly = false
	m.list.Title = "Saved days"
	m.list.ResetFilter()
	m.list.SetItems(items)
	m.list.Select(0)
}

func (m *Model) SetWeeks(snaps []history.WeekSnapshot) {
	items := make([]list.Item, len(snaps))
	for i, s := range snaps {
		items[i] = WeekItem(s)
	}
	m.weekly = true
	m.list.Title = "Saved weeks"
	m.list.ResetFilter()
	m.list.SetItems(items)
	m.list.Select(0)
}

// Remove drops the item with id from the list.
func (m *Model) Remove(id string) {
	for i, it := range m.list.Items() {
		if item, ok := it.(Item); ok && item.ID == id {
			m.list.RemoveItem(i)
			return
		}
	}
}

func (m Model) Weekly() bool { return m.weekly }

func (m Model) Len() int { return len(m.list.Items()) }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Close):
			if m.list.FilterState() == list.FilterApplied {
				break
			}
			return m, func() tea.Msg { return CloseMsg{} }
		case key.Matches(msg, m.keys.Load):
			if i, ok := m.list.SelectedItem().(Item); ok {
				if i.Weekly {
					return m, func() tea.Msg { return LoadWeekMsg{Snapshot: i.week} }
				}
				return m, func() tea.Msg { return LoadDayMsg{Snapshot: i.day} }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteMsg{ID: i.ID, Label: i.Label, Weekly: i.Weekly} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		what := "days"
		if m.weekly {
			what = "weeks"
		}
		return fmt.Sprintf("\n  No saved %s yet.\n  Press esc to go back and %q to save.", what, "s")
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func (m Model) labels() []string {
	out := make([]string, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		out = append(out, it.(Item).Label)
	}
	return out
}
