package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/slots"
	"github.com/julianstephens/timebox/internal/validation"
)

type BlockFormModel struct {
	Title    string
	Start    string
	Duration int
	Category models.Category
	Notes    string
}

type TextFormModel struct {
	Value string
}

type PrioritiesFormModel struct {
	Values []string
}

// NewBlockForm creates the add/edit form for a block. Start and duration are
// picked from the grid and the allowed durations, so only the title needs
// checking. An edited block whose start or duration is off those scales keeps
// its value as an extra "(current)" option.
func NewBlockForm(fm *BlockFormModel, grid slots.Grid) *huh.Form {
	starts := make([]huh.Option[string], 0, grid.Len()+1)
	if fm.Start != "" && !grid.Contains(fm.Start) {
		starts = append(starts, huh.NewOption(fm.Start+" (current)", fm.Start))
	}
	for _, label := range grid.Labels() {
		starts = append(starts, huh.NewOption(label, label))
	}

	var durations []huh.Option[int]
	allowed := validation.Durations()
	if fm.Duration > 0 && !slices.Contains(allowed, fm.Duration) {
		durations = append(durations, huh.NewOption(formatDuration(fm.Duration)+" (current)", fm.Duration))
	}
	for _, d := range allowed {
		durations = append(durations, huh.NewOption(formatDuration(d), d))
	}

	categories := make([]huh.Option[models.Category], 0, len(models.Categories))
	for _, c := range models.Categories {
		categories = append(categories, huh.NewOption(string(c), c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return validation.ErrEmptyTitle
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Start").
				Options(starts...).
				Height(6).
				Value(&fm.Start),
			huh.NewSelect[int]().
				Title("Duration").
				Options(durations...).
				Height(6).
				Value(&fm.Duration),
			huh.NewSelect[models.Category]().
				Title("Category").
				Options(categories...).
				Value(&fm.Category),
			huh.NewInput().
				Title("Notes").
				Value(&fm.Notes),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewTextForm(title, description string, fm *TextFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description(description).
				Value(&fm.Value),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewBrainDumpForm(fm *TextFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Brain dump").
				Description("Free notes. Generation reads these.").
				Lines(10).
				CharLimit(0).
				Value(&fm.Value),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewPrioritiesForm(title string, fm *PrioritiesFormModel) *huh.Form {
	fields := make([]huh.Field, len(fm.Values))
	for i := range fm.Values {
		fields[i] = huh.NewInput().
			Title(fmt.Sprintf("%d.", i+1)).
			Value(&fm.Values[i])
	}
	return huh.NewForm(
		huh.NewGroup(fields...).Title(title),
	).WithTheme(huh.ThemeDracula())
}

func NewDateForm(fm *TextFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date (YYYY-MM-DD)").
				Value(&fm.Value).
				Validate(validation.ValidateDate),
		),
	).WithTheme(huh.ThemeDracula())
}

func formatDuration(min int) string {
	h, m := min/60, min%60
	switch {
	case h == 0:
		return fmt.Sprintf("%d min", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}
