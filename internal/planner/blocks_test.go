package planner

import (
	"testing"

	"github.com/julianstephens/timebox/internal/models"
)

func block(id, start string, duration int) models.Block {
	return models.Block{ID: id, Title: "block " + id, StartTime: start, Duration: duration, Color: models.CategoryWork}
}

func TestPlaceBlock(t *testing.T) {
	plan := NewDayPlan("p1", "2024-05-01")

	plan = PlaceBlock(plan, block("a", "09:00", 60), "")
	got, ok := BlockForSlot(plan, "09:00")
	if !ok || got.ID != "a" {
		t.Fatalf("BlockForSlot(09:00) = %+v, %v; want block a", got, ok)
	}

	plan = PlaceBlock(plan, block("b", "09:00", 30), "")
	count := 0
	for _, b := range plan.Schedule {
		if b.StartTime == "09:00" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("blocks at 09:00 = %d, want 1", count)
	}
	if got, _ := BlockForSlot(plan, "09:00"); got.ID != "b" {
		t.Errorf("BlockForSlot(09:00).ID = %q, want b", got.ID)
	}
}

func TestPlaceBlockEditing(t *testing.T) {
	plan := NewDayPlan("p1", "2024-05-01")
	plan = PlaceBlock(plan, block("a", "09:00", 60), "")
	plan = PlaceBlock(plan, block("b", "13:00", 60), "")

	moved := block("a", "11:00", 90)
	plan = PlaceBlock(plan, moved, "a")

	if len(plan.Schedule) != 2 {
		t.Fatalf("len(Schedule) = %d, want 2", len(plan.Schedule))
	}
	if _, ok := BlockForSlot(plan, "09:00"); ok {
		t.Error("edited block still present at old start")
	}
	if got, ok := BlockForSlot(plan, "11:00"); !ok || got.Duration != 90 {
		t.Errorf("BlockForSlot(11:00) = %+v, %v", got, ok)
	}
}

func TestPlaceBlockClearsNote(t *testing.T) {
	plan := NewDayPlan("p1", "2024-05-01")
	plan = UpdateManualPlan(plan, "09:00", "call mom")
	plan = UpdateManualPlan(plan, "10:00", "lunch prep")

	plan = PlaceBlock(plan, block("a", "09:00", 60), "")
	if _, ok := plan.ManualPlans["09:00"]; ok {
		t.Error("note at block start was not cleared")
	}
	if plan.ManualPlans["10:00"] != "lunch prep" {
		t.Error("note at other slot was cleared")
	}
}

func TestPlaceBlockDoesNotMutateInput(t *testing.T) {
	before := NewDayPlan("p1", "2024-05-01")
	before = PlaceBlock(before, block("a", "09:00", 60), "")
	before = UpdateManualPlan(before, "12:00", "note")

	_ = PlaceBlock(before, block("b", "12:00", 60), "")
	_ = RemoveBlock(before, "a")

	if len(before.Schedule) != 1 || before.Schedule[0].ID != "a" {
		t.Errorf("input schedule mutated: %+v", before.Schedule)
	}
	if before.ManualPlans["12:00"] != "note" {
		t.Error("input manual plans mutated")
	}
}

func TestRemoveBlock(t *testing.T) {
	plan := NewDayPlan("p1", "2024-05-01")
	plan = PlaceBlock(plan, block("a", "09:00", 60), "")
	plan = PlaceBlock(plan, block("b", "10:00", 60), "")

	plan = RemoveBlock(plan, "a")
	if _, ok := BlockForSlot(plan, "09:00"); ok {
		t.Error("removed block still present")
	}
	if len(plan.Schedule) != 1 {
		t.Errorf("len(Schedule) = %d, want 1", len(plan.Schedule))
	}

	same := RemoveBlock(plan, "missing")
	if len(same.Schedule) != 1 {
		t.Error("removing unknown id changed the schedule")
	}
}

func TestIsSlotCovered(t *testing.T) {
	plan := PlaceBlock(NewDayPlan("p1", "2024-05-01"), block("a", "09:00", 90), "")

	tests := []struct {
		label string
		want  bool
	}{
		{"08:30", false},
		{"09:00", false},
		{"09:30", true},
		{"10:00", true},
		{"10:30", false},
		{"bogus", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := IsSlotCovered(plan, tt.label); got != tt.want {
				t.Errorf("IsSlotCovered(%s) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

func TestCoveringBlock(t *testing.T) {
	plan := NewDayPlan("p1", "2024-05-01")
	plan = PlaceBlock(plan, block("a", "09:00", 90), "")
	plan = PlaceBlock(plan, block("b", "13:00", 60), "")

	tests := []struct {
		label  string
		wantID string
	}{
		{"09:00", ""},
		{"09:30", "a"},
		{"10:00", "a"},
		{"10:30", ""},
		{"13:30", "b"},
		{"14:00", ""},
		{"bogus", ""},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			b, ok := CoveringBlock(plan, tt.label)
			if ok != (tt.wantID != "") || b.ID != tt.wantID {
				t.Errorf("CoveringBlock(%s) = %q, %v; want %q", tt.label, b.ID, ok, tt.wantID)
			}
		})
	}
}

func TestBackToBackBlocks(t *testing.T) {
	plan := NewDayPlan("p1", "2024-05-01")
	plan = PlaceBlock(plan, block("a", "09:00", 60), "")
	plan = PlaceBlock(plan, block("b", "10:00", 60), "")

	if IsSlotCovered(plan, "10:00") {
		t.Error("10:00 covered by back-to-back block")
	}
	if v := ViewSlot(plan, "10:00"); v.Kind != SlotBlock || v.Block.ID != "b" {
		t.Errorf("ViewSlot(10:00) = %+v, want block b", v)
	}
	if got := Overlaps(plan); len(got) != 0 {
		t.Errorf("Overlaps() = %+v, want none", got)
	}
}

func TestViewSlot(t *testing.T) {
	plan := NewDayPlan("p1", "2024-05-01")
	plan = UpdateManualPlan(plan, "09:30", "hidden by coverage")
	plan = UpdateManualPlan(plan, "12:00", "lunch")
	plan = PlaceBlock(plan, block("a", "09:00", 90), "")

	tests := []struct {
		label string
		kind  SlotKind
		note  string
	}{
		{"09:00", SlotBlock, ""},
		{"09:30", SlotCovered, ""},
		{"10:30", SlotNote, ""},
		{"12:00", SlotNote, "lunch"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			v := ViewSlot(plan, tt.label)
			if v.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", v.Kind, tt.kind)
			}
			if v.Note != tt.note {
				t.Errorf("Note = %q, want %q", v.Note, tt.note)
			}
		})
	}
}

func TestOverlapsPermitted(t *testing.T) {
	plan := NewDayPlan("p1", "2024-05-01")
	plan = PlaceBlock(plan, block("long", "09:00", 90), "")
	plan = PlaceBlock(plan, block("inner", "09:30", 30), "")

	if len(plan.Schedule) != 2 {
		t.Fatalf("overlapping placement rejected: %+v", plan.Schedule)
	}
	if v := ViewSlot(plan, "09:30"); v.Kind != SlotBlock || v.Block.ID != "inner" {
		t.Errorf("ViewSlot(09:30) = %+v, want starting block inner", v)
	}

	got := Overlaps(plan)
	if len(got) != 1 {
		t.Fatalf("Overlaps() = %d pairs, want 1", len(got))
	}
	if got[0].First.ID != "long" || got[0].Second.ID != "inner" {
		t.Errorf("Overlaps()[0] = %s/%s, want long/inner", got[0].First.ID, got[0].Second.ID)
	}
}
