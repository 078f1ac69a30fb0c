package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/timebox/internal/render"
	"github.com/julianstephens/timebox/internal/session"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.blocked() {
		return m.viewNotice()
	}

	var content string

	switch m.state {
	case StateForm:
		content = docStyle.Render(m.form.View())
	case StateHistory:
		content = docStyle.Render(m.history.View())
	case StateConfirmReset:
		content = m.viewConfirm("Clear both the day and the week plan?")
	case StateConfirmDelete:
		content = m.viewConfirm(fmt.Sprintf("Delete saved plan %s?", m.pendingDelete.Label))
	default:
		content = m.viewGrid()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for _, mode := range []session.Mode{session.ModeDay, session.ModeWeek} {
		title := strings.ToUpper(mode.String()[:1]) + mode.String()[1:]
		if m.session.Mode() == mode {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderOptions() render.Options {
	opts := render.NoCursor(m.width-2, false)
	if m.session.Mode() == session.ModeWeek {
		opts.Cursor, opts.Column = m.weekRow, m.weekCol
	} else {
		opts.Cursor, opts.Cell = m.row, m.cell
	}
	return opts
}

// header is the priorities and brain dump block above the grid, clipped to a
// third of the screen.
func (m Model) header() string {
	var h string
	if m.session.Mode() == session.ModeWeek {
		h = render.WeekHeader(m.session.Week(), m.renderOptions())
	} else {
		h = render.DayHeader(m.session.Day(), m.renderOptions())
	}
	if m.height > 0 {
		h = clipLines(h, max(m.height/3, 6))
	}
	return strings.TrimRight(h, "\n")
}

func (m Model) rows() (string, []string) {
	if m.session.Mode() == session.ModeWeek {
		return render.WeekRows(m.session.Week(), m.renderOptions())
	}
	return render.DayRows(m.session.Day(), m.grid, m.renderOptions())
}

// refresh sizes the viewport to the space left by the header and chrome and
// scrolls it so the cursor row stays visible.
func (m *Model) refresh() {
	heading, rows := m.rows()
	used := lipgloss.Height(m.viewTabs()) + lipgloss.Height(m.header()) + lipgloss.Height(heading) +
		1 + lipgloss.Height(m.help.View(m))

	m.viewport.Width = max(m.width-2, 0)
	m.viewport.Height = max(m.height-used, 3)
	m.viewport.SetContent(strings.Join(rows, "\n"))

	cursor := m.row
	if m.session.Mode() == session.ModeWeek {
		cursor = m.weekRow
	}
	switch {
	case cursor < m.viewport.YOffset:
		m.viewport.SetYOffset(cursor)
	case cursor >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(cursor - m.viewport.Height + 1)
	}
}

func (m Model) viewGrid() string {
	heading, _ := m.rows()
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.header(),
		heading,
		m.viewport.View(),
	))
}

func (m Model) viewStatus() string {
	var parts []string
	for _, a := range []session.Action{session.ActionGenerate, session.ActionSave, session.ActionExport} {
		if m.session.InProgress(a) {
			parts = append(parts, busyStyle.Render(a.String()+"…"))
		}
	}
	if m.notice.Message != "" {
		parts = append(parts, statusStyle.Render(m.notice.Message))
	}
	if m.validationWarning != "" && m.session.Mode() == session.ModeDay {
		parts = append(parts, busyStyle.Render(m.validationWarning))
	}
	return docStyle.Render(strings.Join(parts, "  "))
}

func (m Model) viewConfirm(question string) string {
	return lipgloss.Place(m.width, max(m.height-4, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(question),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewNotice() string {
	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(m.notice.Message),
			"",
			"Press any key to continue",
		),
	)
}

func clipLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(append(lines[:n-1], "  …"), "\n")
}
