// Package planner holds the plan aggregate and its mutation rules. Every
// operation takes a plan by value and returns a new revision; inputs are never
// modified.
package planner

import (
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/slots"
)

// SlotKind is what a slot renders as.
type SlotKind int

const (
	// SlotNote is a free slot showing an editable manual note.
	SlotNote SlotKind = iota
	// SlotBlock is a slot where a block starts.
	SlotBlock
	// SlotCovered is a slot strictly inside an earlier block.
	SlotCovered
)

func (k SlotKind) String() string {
	switch k {
	case SlotBlock:
		return "block"
	case SlotCovered:
		return "covered"
	default:
		return "note"
	}
}

// SlotView is the resolved content of one slot.
type SlotView struct {
	Label string
	Kind  SlotKind
	Block models.Block // set when Kind == SlotBlock
	Note  string       // set when Kind == SlotNote
}

// Overlap is a pair of blocks with different starts whose intervals intersect.
type Overlap struct {
	First  models.Block
	Second models.Block
}

// PlaceBlock inserts block into the plan. With a non-empty editingID the block
// carrying that id is replaced; otherwise any block already starting at the
// same slot is. The manual note at the block's start is dropped.
func PlaceBlock(plan models.DayPlan, block models.Block, editingID string) models.DayPlan {
	out := plan.Clone()

	kept := out.Schedule[:0]
	for _, b := range out.Schedule {
		if editingID != "" {
			if b.ID == editingID {
				continue
			}
		} else if b.StartTime == block.StartTime {
			continue
		}
		kept = append(kept, b)
	}
	out.Schedule = append(kept, block)
	delete(out.ManualPlans, block.StartTime)
	return out
}

// RemoveBlock deletes the block with the given id. Unknown ids are a no-op.
func RemoveBlock(plan models.DayPlan, id string) models.DayPlan {
	out := plan.Clone()
	kept := out.Schedule[:0]
	for _, b := range out.Schedule {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	out.Schedule = kept
	return out
}

// IsSlotCovered reports whether label lies strictly inside some block's
// interval. A block's own start and the slot at its end are not covered.
func IsSlotCovered(plan models.DayPlan, label string) bool {
	_, ok := CoveringBlock(plan, label)
	return ok
}

// CoveringBlock returns the first block in schedule order whose interval
// strictly contains label.
func CoveringBlock(plan models.DayPlan, label string) (models.Block, bool) {
	m, err := slots.ToMinutes(label)
	if err != nil {
		return models.Block{}, false
	}
	for _, b := range plan.Schedule {
		start, err := slots.ToMinutes(b.StartTime)
		if err != nil {
			continue
		}
		if m > start && m < start+b.Duration {
			return b, true
		}
	}
	return models.Block{}, false
}

// BlockForSlot returns the block starting exactly at label.
func BlockForSlot(plan models.DayPlan, label string) (models.Block, bool) {
	for _, b := range plan.Schedule {
		if b.StartTime == label {
			return b, true
		}
	}
	return models.Block{}, false
}

// ViewSlot applies the rendering rule: a starting block wins, then coverage,
// then the manual note.
func ViewSlot(plan models.DayPlan, label string) SlotView {
	if b, ok := BlockForSlot(plan, label); ok {
		return SlotView{Label: label, Kind: SlotBlock, Block: b}
	}
	if IsSlotCovered(plan, label) {
		return SlotView{Label: label, Kind: SlotCovered}
	}
	return SlotView{Label: label, Kind: SlotNote, Note: plan.ManualPlans[label]}
}

// Overlaps lists block pairs that start at different slots but share time.
// Placement never rejects these; this is diagnostic only.
func Overlaps(plan models.DayPlan) []Overlap {
	type span struct {
		block      models.Block
		start, end int
	}

	spans := make([]span, 0, len(plan.Schedule))
	for _, b := range plan.Schedule {
		start, err := slots.ToMinutes(b.StartTime)
		if err != nil {
			continue
		}
		spans = append(spans, span{block: b, start: start, end: start + b.Duration})
	}

	var overlaps []Overlap
	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			a, b := spans[i], spans[j]
			if a.start == b.start {
				continue
			}
			if a.start < b.end && b.start < a.end {
				if b.start < a.start {
					a, b = b, a
				}
				overlaps = append(overlaps, Overlap{First: a.block, Second: b.block})
			}
		}
	}
	return overlaps
}
