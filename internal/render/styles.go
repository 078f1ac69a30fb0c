package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/timebox/internal/models"
)

// paletteHex maps tracker palette entries to terminal colors.
var paletteHex = map[string]string{
	"bg-red-200":     "#fecaca",
	"bg-orange-200":  "#fed7aa",
	"bg-amber-200":   "#fde68a",
	"bg-yellow-200":  "#fef08a",
	"bg-lime-200":    "#d9f99d",
	"bg-green-200":   "#bbf7d0",
	"bg-emerald-200": "#a7f3d0",
	"bg-teal-200":    "#99f6e4",
	"bg-cyan-200":    "#a5f3fc",
	"bg-sky-200":     "#bae6fd",
	"bg-blue-200":    "#bfdbfe",
	"bg-indigo-200":  "#c7d2fe",
	"bg-violet-200":  "#ddd6fe",
	"bg-purple-200":  "#e9d5ff",
	"bg-fuchsia-200": "#f5d0fe",
	"bg-pink-200":    "#fbcfe8",
	"bg-rose-200":    "#fecdd3",
}

var categoryColor = map[models.Category]lipgloss.Color{
	models.CategoryWork:     lipgloss.Color("63"),
	models.CategoryPersonal: lipgloss.Color("205"),
	models.CategoryHealth:   lipgloss.Color("42"),
	models.CategoryLearn:    lipgloss.Color("214"),
	models.CategoryOther:    lipgloss.Color("245"),
}

// styles holds every style the renderer uses. The plain set carries no
// colors or attributes so output is stable text.
type styles struct {
	plain   bool
	title   lipgloss.Style
	heading lipgloss.Style
	time    lipgloss.Style
	hour    lipgloss.Style
	note    lipgloss.Style
	covered lipgloss.Style
	cursor  lipgloss.Style
	muted   lipgloss.Style
	warning lipgloss.Style
}

func newStyles(plain bool) styles {
	if plain {
		s := lipgloss.NewStyle()
		return styles{plain: true, title: s, heading: s, time: s, hour: s, note: s, covered: s, cursor: s, muted: s, warning: s}
	}
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		heading: lipgloss.NewStyle().Bold(true).Underline(true),
		time:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		hour:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true),
		note:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		covered: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		cursor:  lipgloss.NewStyle().Reverse(true),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	}
}

func (s styles) block(c models.Category) lipgloss.Style {
	if s.plain {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(categoryColor[c])
}

func (s styles) cell(color string) lipgloss.Style {
	hex, ok := paletteHex[color]
	if s.plain || !ok {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color(hex))
}

// colorName shortens a palette entry for plain output: "bg-red-200" → "red".
func colorName(color string) string {
	return strings.TrimSuffix(strings.TrimPrefix(color, "bg-"), "-200")
}
