package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/planner"
	"github.com/julianstephens/timebox/internal/slots"
)

var (
	ErrEmptyTitle      = errors.New("title is required")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrOffGrid         = errors.New("start time is not on the slot grid")
	ErrEmptyOwner      = errors.New("owner is required")
	ErrOwnerTooLong    = errors.New("owner is too long")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidWindow   = errors.New("invalid planning window")
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictOverlappingBlocks ConflictType = "overlapping_blocks"
	ConflictOffGrid           ConflictType = "off_grid"
	ConflictExceedsWindow     ConflictType = "exceeds_window"
	ConflictInvalidDuration   ConflictType = "invalid_duration"
	ConflictInvalidTime       ConflictType = "invalid_time"
	ConflictUnknownColor      ConflictType = "unknown_color"
)

// Conflict represents a detected problem in a plan
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // block titles or slot labels involved
	TimeRange   string   // human-readable time range (if applicable)
	BlockIDs    []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks user input and plans against a slot grid.
type Validator struct {
	grid slots.Grid
}

// New creates a Validator for the given grid.
func New(grid slots.Grid) *Validator {
	return &Validator{grid: grid}
}

// ValidateBlock checks a block entered by the user before it reaches the
// plan.
func (v *Validator) ValidateBlock(b models.Block) error {
	if strings.TrimSpace(b.Title) == "" {
		return ErrEmptyTitle
	}
	if err := ValidateDuration(b.Duration); err != nil {
		return err
	}
	if !v.grid.Contains(b.StartTime) {
		return fmt.Errorf("%w: %s", ErrOffGrid, b.StartTime)
	}
	return nil
}

// ValidateDuration requires a multiple of the slot length within the block
// bounds.
func ValidateDuration(minutes int) error {
	if minutes < constants.MinBlockMinutes || minutes > constants.MaxBlockMinutes || minutes%constants.SlotMinutes != 0 {
		return fmt.Errorf("%w: %d minutes (must be %d-%d in steps of %d)", ErrInvalidDuration,
			minutes, constants.MinBlockMinutes, constants.MaxBlockMinutes, constants.SlotMinutes)
	}
	return nil
}

// Durations lists every duration a user may pick for a block.
func Durations() []int {
	var out []int
	for d := constants.MinBlockMinutes; d <= constants.MaxBlockMinutes; d += constants.SlotMinutes {
		out = append(out, d)
	}
	return out
}

// ValidateOwner trims and checks an owner id.
func ValidateOwner(owner string) (string, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return "", ErrEmptyOwner
	}
	if utf8.RuneCountInString(owner) > constants.MaxOwnerLength {
		return "", fmt.Errorf("%w: max %d characters", ErrOwnerTooLong, constants.MaxOwnerLength)
	}
	return owner, nil
}

// ValidateDate checks a YYYY-MM-DD date.
func ValidateDate(date string) error {
	if _, err := time.Parse(constants.DateFormat, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// ValidateSettings checks the planning window and default block length.
func ValidateSettings(s models.Settings) error {
	if s.StartHour < 0 || s.EndHour > 24 || s.StartHour >= s.EndHour {
		return fmt.Errorf("%w: %d-%d", ErrInvalidWindow, s.StartHour, s.EndHour)
	}
	return ValidateDuration(s.DefaultBlockMin)
}

// ValidatePlan reports problems in a plan. Overlaps are reported but are not
// errors anywhere else.
func (v *Validator) ValidatePlan(plan models.DayPlan) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	var windowEnd int
	if n := v.grid.Len(); n > 0 {
		last, _ := slots.ToMinutes(v.grid.At(n - 1))
		windowEnd = last + constants.SlotMinutes
	}

	for _, b := range plan.Schedule {
		start, err := slots.ToMinutes(b.StartTime)
		if err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidTime,
				Description: fmt.Sprintf("Block \"%s\" has invalid start time: %s", b.Title, b.StartTime),
				Items:       []string{b.Title},
				BlockIDs:    []string{b.ID},
			})
			continue
		}

		if !v.grid.Contains(b.StartTime) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOffGrid,
				Description: fmt.Sprintf("Block \"%s\" starts off the slot grid at %s", b.Title, b.StartTime),
				Items:       []string{b.Title},
				BlockIDs:    []string{b.ID},
			})
		} else if start+b.Duration > windowEnd {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictExceedsWindow,
				Description: fmt.Sprintf("Block \"%s\" runs past the end of the day", b.Title),
				Items:       []string{b.Title},
				TimeRange:   timeRange(start, b.Duration),
				BlockIDs:    []string{b.ID},
			})
		}

		if b.Duration <= 0 || b.Duration%constants.SlotMinutes != 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDuration,
				Description: fmt.Sprintf("Block \"%s\" has duration %d minutes, not a multiple of %d", b.Title, b.Duration, constants.SlotMinutes),
				Items:       []string{b.Title},
				BlockIDs:    []string{b.ID},
			})
		}

		if models.ParseCategory(string(b.Color)) != b.Color {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownColor,
				Description: fmt.Sprintf("Block \"%s\" has unknown category %q", b.Title, b.Color),
				Items:       []string{b.Title},
				BlockIDs:    []string{b.ID},
			})
		}
	}

	for _, o := range planner.Overlaps(plan) {
		start, _ := slots.ToMinutes(o.Second.StartTime)
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictOverlappingBlocks,
			Description: fmt.Sprintf("Blocks \"%s\" (%s) and \"%s\" (%s) overlap", o.First.Title, o.First.StartTime, o.Second.Title, o.Second.StartTime),
			Items:       []string{o.First.Title, o.Second.Title},
			TimeRange:   timeRange(start, 0),
			BlockIDs:    []string{o.First.ID, o.Second.ID},
		})
	}

	for slot, cells := range plan.Tracker {
		for i, c := range cells {
			if c.Color != "" && !models.IsPaletteColor(c.Color) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictUnknownColor,
					Description: fmt.Sprintf("Tracker cell %d at %s has unknown color %q", i+1, slot, c.Color),
					Items:       []string{slot},
				})
			}
		}
	}

	return result
}

func timeRange(start, duration int) string {
	if duration == 0 {
		return slots.FromMinutes(start)
	}
	return fmt.Sprintf("%s-%s", slots.FromMinutes(start), slots.FromMinutes(start+duration))
}
