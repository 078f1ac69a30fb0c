package history

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/timebox/internal/history"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func days() []history.DaySnapshot {
	base := time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)
	return []history.DaySnapshot{
		{ID: "c", Date: "2024-05-03", CreatedAt: base},
		{ID: "a", Date: "2024-05-01", CreatedAt: base.Add(-time.Hour)},
	}
}

func TestSetDaysKeepsStoreOrder(t *testing.T) {
	m := New(80, 20)
	m.SetDays(days())

	got := m.labels()
	want := []string{"2024-05-03", "2024-05-01"}
	if len(got) != len(want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("labels[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if m.Weekly() {
		t.Error("Weekly() = true after SetDays")
	}
}

func TestEnterLoadsSelectedDay(t *testing.T) {
	m := New(80, 20)
	m.SetDays(days())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(LoadDayMsg)
	if !ok {
		t.Fatalf("msg = %T, want LoadDayMsg", cmd())
	}
	if msg.Snapshot.ID != "c" {
		t.Errorf("loaded %q, want c", msg.Snapshot.ID)
	}
}

func TestEnterLoadsSelectedWeek(t *testing.T) {
	m := New(80, 20)
	m.SetWeeks([]history.WeekSnapshot{{ID: "w1", WeekStart: "2024-05-06", Priorities: []string{"a", "", "b"}}})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg, ok := cmd().(LoadWeekMsg)
	if !ok || msg.Snapshot.ID != "w1" {
		t.Fatalf("msg = %#v", msg)
	}
	if got := WeekItem(msg.Snapshot).Summary; got != "2 priorities" {
		t.Errorf("Summary = %q", got)
	}
}

func TestDeleteAndClose(t *testing.T) {
	m := New(80, 20)
	m.SetDays(days())

	_, cmd := m.Update(runes("d"))
	del, ok := cmd().(DeleteMsg)
	if !ok || del.ID != "c" || del.Weekly {
		t.Errorf("delete msg = %#v", del)
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(CloseMsg); !ok {
		t.Error("esc did not close")
	}
}

func TestRemove(t *testing.T) {
	m := New(80, 20)
	m.SetDays(days())
	m.Remove("c")
	m.Remove("missing")

	if got := m.labels(); len(got) != 1 || got[0] != "2024-05-01" {
		t.Errorf("labels = %v", got)
	}
}

func TestEmptyView(t *testing.T) {
	m := New(80, 20)
	m.SetWeeks(nil)
	if got := m.View(); got == "" || m.Len() != 0 {
		t.Errorf("View() = %q", got)
	}
}
