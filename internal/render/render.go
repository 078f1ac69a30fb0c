// Package render draws plans as terminal text. The same code backs the
// interactive grid and the plain fixed-width export.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/planner"
	"github.com/julianstephens/timebox/internal/slots"
)

// CanonicalWidth is the layout width used for exports, independent of the
// terminal size.
const CanonicalWidth = 100

const (
	minWidth   = 60
	timeWidth  = 5
	separators = 6 // " │ " twice
)

// Options controls layout. Cursor and Cell select the highlighted slot row
// and tracker cell; negative values highlight nothing.
type Options struct {
	Width  int
	Plain  bool
	Cursor int
	Cell   int
	// Column selects the highlighted day in the weekly grid.
	Column int
}

// NoCursor renders without highlighting.
func NoCursor(width int, plain bool) Options {
	return Options{Width: width, Plain: plain, Cursor: -1, Cell: -1, Column: -1}
}

func (o Options) width() int {
	if o.Width <= 0 {
		return CanonicalWidth
	}
	return max(o.Width, minWidth)
}

// Day renders the header, priorities, brain dump and slot grid of a daily
// plan, followed by any overlap warnings.
func Day(plan models.DayPlan, grid slots.Grid, opts Options) string {
	var b strings.Builder
	b.WriteString(DayHeader(plan, opts))
	heading, rows := DayRows(plan, grid, opts)
	b.WriteString(heading)
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(row)
		b.WriteString("\n")
	}
	if warnings := DayOverlaps(plan, opts); warnings != "" {
		b.WriteString("\n")
		b.WriteString(warnings)
	}
	return b.String()
}

// DayHeader renders the title, priorities and brain dump of a daily plan.
func DayHeader(plan models.DayPlan, opts Options) string {
	st := newStyles(opts.Plain)
	var b strings.Builder
	b.WriteString(st.title.Render(dayTitle(plan.Date)))
	b.WriteString("\n\n")
	writePriorities(&b, st, "Top 3 priorities", plan.Priorities, constants.DailyPriorities)
	writeBrainDump(&b, st, plan.BrainDump, opts.width())
	return b.String()
}

// DayRows renders the slot grid: a two-line heading and one row per slot.
// Each slot shows the block starting there, a continuation marker when an
// earlier block covers it, or its note.
func DayRows(plan models.DayPlan, grid slots.Grid, opts Options) (string, []string) {
	st := newStyles(opts.Plain)
	width := opts.width()
	planWidth := (width - timeWidth - separators) * 42 / 100
	cellWidth := max((width-timeWidth-separators-planWidth)/constants.DailyTrackerSize, 3)

	heading := st.heading.Render("Time box") + "\n" +
		st.muted.Render(fmt.Sprintf("%-*s │ %-*s │ %s", timeWidth, "Time", planWidth, "Plan", "Do"))

	rows := make([]string, 0, grid.Len())
	for i, label := range grid.Labels() {
		timeStyle := st.time
		if strings.HasSuffix(label, ":00") {
			timeStyle = st.hour
		}
		if i == opts.Cursor {
			timeStyle = st.cursor
		}

		planCol := slotColumn(st, planner.ViewSlot(plan, label), planWidth)
		if i == opts.Cursor && opts.Cell < 0 {
			planCol = st.cursor.Render(planCol)
		}

		cells := planner.TrackerCells(plan, label)
		do := make([]string, 0, constants.DailyTrackerSize)
		for j, c := range cells[:constants.DailyTrackerSize] {
			do = append(do, renderCell(st, c, cellWidth, i == opts.Cursor && j == opts.Cell))
		}

		rows = append(rows, fmt.Sprintf("%s │ %s │ %s", timeStyle.Render(label), planCol, strings.Join(do, "")))
	}
	return heading, rows
}

// DayOverlaps renders one warning line per pair of overlapping blocks.
func DayOverlaps(plan models.DayPlan, opts Options) string {
	st := newStyles(opts.Plain)
	var b strings.Builder
	for _, o := range planner.Overlaps(plan) {
		b.WriteString(st.warning.Render(fmt.Sprintf("⚠ %q (%s) overlaps %q (%s)",
			o.First.Title, o.First.StartTime, o.Second.Title, o.Second.StartTime)))
		b.WriteString("\n")
	}
	return b.String()
}

// Week renders the weekly priorities, brain dump and the 10-row week box.
func Week(plan models.WeeklyPlan, opts Options) string {
	var b strings.Builder
	b.WriteString(WeekHeader(plan, opts))
	heading, rows := WeekRows(plan, opts)
	b.WriteString(heading)
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}

func WeekHeader(plan models.WeeklyPlan, opts Options) string {
	st := newStyles(opts.Plain)
	var b strings.Builder
	b.WriteString(st.title.Render("Week of " + plan.WeekStart))
	b.WriteString("\n\n")
	writePriorities(&b, st, "Top 5 priorities", plan.Priorities, constants.WeeklyPriorities)
	writeBrainDump(&b, st, plan.BrainDump, opts.width())
	return b.String()
}

// WeekRows renders the week box. Each day column shows the first cell of its
// row.
func WeekRows(plan models.WeeklyPlan, opts Options) (string, []string) {
	st := newStyles(opts.Plain)
	colWidth := max((opts.width()-4)/len(constants.Days), 4)

	var h strings.Builder
	h.WriteString(st.heading.Render("Week box"))
	h.WriteString("\n    ")
	for _, day := range constants.Days {
		h.WriteString(st.muted.Render(pad(strings.ToUpper(day), colWidth)))
	}

	rows := make([]string, 0, constants.WeeklyRows)
	for row := range constants.WeeklyRows {
		var r strings.Builder
		fmt.Fprintf(&r, "%2d  ", row+1)
		for col, day := range constants.Days {
			cell := planner.WeeklyTrackerCells(plan, day, planner.RowKey(row))[0]
			r.WriteString(renderCell(st, cell, colWidth, row == opts.Cursor && col == opts.Column))
		}
		rows = append(rows, r.String())
	}
	return h.String(), rows
}

// ExportDay renders plan for a text file at the canonical width.
func ExportDay(plan models.DayPlan, grid slots.Grid) string {
	return Day(plan, grid, NoCursor(CanonicalWidth, true))
}

func ExportWeek(plan models.WeeklyPlan) string {
	return Week(plan, NoCursor(CanonicalWidth, true))
}

// FileName is the default export file for a plan key.
func FileName(key string) string {
	return constants.AppName + "-" + key + constants.DefaultExportSuffix
}

func dayTitle(date string) string {
	if d, err := time.Parse(constants.DateFormat, date); err == nil {
		return fmt.Sprintf("Today plan · %s (%s)", date, d.Format("Mon"))
	}
	return "Today plan · " + date
}

func writePriorities(b *strings.Builder, st styles, heading string, priorities []string, n int) {
	b.WriteString(st.heading.Render(heading))
	b.WriteString("\n")
	for i := range n {
		var p string
		if i < len(priorities) {
			p = priorities[i]
		}
		fmt.Fprintf(b, " %d. %s\n", i+1, p)
	}
	b.WriteString("\n")
}

func writeBrainDump(b *strings.Builder, st styles, text string, width int) {
	b.WriteString(st.heading.Render("Brain dump"))
	b.WriteString("\n")
	if strings.TrimSpace(text) == "" {
		b.WriteString(st.muted.Render("  (empty)"))
		b.WriteString("\n\n")
		return
	}
	for _, line := range strings.Split(wordwrap.String(text, width-2), "\n") {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")
}

func slotColumn(st styles, v planner.SlotView, width int) string {
	switch v.Kind {
	case planner.SlotBlock:
		end, _ := slots.End(v.Block.StartTime, v.Block.Duration)
		text := fmt.Sprintf("■ %s  %s-%s [%s]", v.Block.Title, v.Block.StartTime, end, v.Block.Color)
		return st.block(v.Block.Color).Render(pad(text, width))
	case planner.SlotCovered:
		return st.covered.Render(pad("┊", width))
	default:
		return st.note.Render(pad(v.Note, width))
	}
}

func renderCell(st styles, c models.TrackerCell, width int, highlighted bool) string {
	text := c.Text
	if st.plain && c.Color != "" {
		text = "[" + colorName(c.Color) + "] " + text
	}
	if text == "" && c.Color == "" {
		text = "·"
	}
	style := st.cell(c.Color)
	if highlighted {
		style = style.Reverse(true)
	}
	return style.Render(pad(" "+text, width))
}

// pad truncates or right-pads s to exactly width display columns.
func pad(s string, width int) string {
	s = truncate.StringWithTail(strings.ReplaceAll(s, "\n", " "), uint(width), "…")
	if w := lipgloss.Width(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
