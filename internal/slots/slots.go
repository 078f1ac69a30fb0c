// Package slots defines the fixed half-hour coordinate system that daily
// schedules and trackers are indexed against.
package slots

import (
	"fmt"
	"time"

	"github.com/julianstephens/timebox/internal/constants"
)

const minutesPerDay = 24 * 60

// Generate returns the ordered slot labels from startHour:00 up to but not
// including endHour:00, stepping constants.SlotMinutes. Invalid ranges yield
// an empty grid.
func Generate(startHour, endHour int) []string {
	if startHour < 0 || endHour > 24 || startHour >= endHour {
		return []string{}
	}

	labels := make([]string, 0, (endHour-startHour)*60/constants.SlotMinutes)
	for m := startHour * 60; m < endHour*60; m += constants.SlotMinutes {
		labels = append(labels, FromMinutes(m))
	}
	return labels
}

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(label string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, label)
}

// ToMinutes parses a label (HH:MM) and returns the number of minutes from midnight.
func ToMinutes(label string) (int, error) {
	t, err := ParseTime(label)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", label, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FromMinutes formats minutes from midnight as HH:MM, wrapping past midnight.
func FromMinutes(min int) string {
	min = ((min % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// End returns the label at which a block starting at start with the given
// duration ends.
func End(start string, duration int) (string, error) {
	m, err := ToMinutes(start)
	if err != nil {
		return "", err
	}
	return FromMinutes(m + duration), nil
}

// Grid is an immutable slot sequence for one session.
type Grid struct {
	labels []string
	index  map[string]int
}

// NewGrid builds the grid for the given waking window.
func NewGrid(startHour, endHour int) Grid {
	labels := Generate(startHour, endHour)
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	return Grid{labels: labels, index: index}
}

// Labels returns a copy of the slot labels in order.
func (g Grid) Labels() []string {
	return append([]string(nil), g.labels...)
}

func (g Grid) Len() int {
	return len(g.labels)
}

// Contains reports whether label is a legal block anchor on this grid.
func (g Grid) Contains(label string) bool {
	_, ok := g.index[label]
	return ok
}

// Index returns the row of label, or -1 when the label is off grid.
func (g Grid) Index(label string) int {
	if i, ok := g.index[label]; ok {
		return i
	}
	return -1
}

// At returns the label at row i.
func (g Grid) At(i int) string {
	return g.labels[i]
}
