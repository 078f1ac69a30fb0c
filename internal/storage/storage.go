// Package storage defines the persistence collaborator and its local JSON
// file backend.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/timebox/internal/history"
	"github.com/julianstephens/timebox/internal/models"
)

var (
	ErrNotFound       = errors.New("plan not found")
	ErrNotLoaded      = errors.New("storage not loaded")
	ErrNotInitialized = errors.New("storage not initialized, run 'timebox init' first")
	ErrMissingKey     = errors.New("plan id and date are required")

	// ErrKeyMoved means a save reused the id of a plan stored under another
	// date or week start.
	ErrKeyMoved = errors.New("plan id is already saved under another date")
)

// TimestampLayout is a fixed-width UTC layout so text timestamps sort
// chronologically.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses TimestampLayout, falling back to RFC 3339.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// CheckDayKey rejects snapshots without identity.
func CheckDayKey(owner string, snap history.DaySnapshot) error {
	if owner == "" || snap.ID == "" || snap.Date == "" {
		return ErrMissingKey
	}
	return nil
}

// CheckWeekKey rejects weekly snapshots without identity.
func CheckWeekKey(owner string, snap history.WeekSnapshot) error {
	if owner == "" || snap.ID == "" || snap.WeekStart == "" {
		return ErrMissingKey
	}
	return nil
}

// DayColumns is a daily snapshot flattened into SQL column values.
type DayColumns struct {
	Priorities  string
	Schedule    string
	Tracker     string
	ManualPlans string
}

// EncodeDay flattens the JSON-valued fields of snap.
func EncodeDay(snap history.DaySnapshot) (DayColumns, error) {
	var cols DayColumns
	var err error
	if cols.Priorities, err = encodeColumn(snap.Priorities, "[]"); err != nil {
		return cols, err
	}
	if cols.Schedule, err = encodeColumn(snap.Schedule, "[]"); err != nil {
		return cols, err
	}
	if cols.ManualPlans, err = encodeColumn(snap.ManualPlans, "{}"); err != nil {
		return cols, err
	}
	cols.Tracker = rawColumn(snap.Tracker)
	return cols, nil
}

// DecodeDay fills the JSON-valued fields of snap from column values. The
// tracker is kept raw for migration on restore.
func DecodeDay(snap *history.DaySnapshot, priorities, schedule, tracker, manualPlans []byte) error {
	if err := json.Unmarshal(priorities, &snap.Priorities); err != nil {
		return fmt.Errorf("decoding priorities: %w", err)
	}
	var blocks []models.Block
	if err := json.Unmarshal(schedule, &blocks); err != nil {
		return fmt.Errorf("decoding schedule: %w", err)
	}
	snap.Schedule = blocks
	if err := json.Unmarshal(manualPlans, &snap.ManualPlans); err != nil {
		return fmt.Errorf("decoding manual plans: %w", err)
	}
	snap.Tracker = append(json.RawMessage(nil), tracker...)
	return nil
}

// EncodeWeek flattens the JSON-valued fields of a weekly snapshot.
func EncodeWeek(snap history.WeekSnapshot) (priorities, tracker string, err error) {
	if priorities, err = encodeColumn(snap.Priorities, "[]"); err != nil {
		return "", "", err
	}
	return priorities, rawColumn(snap.Tracker), nil
}

// DecodeWeek fills the JSON-valued fields of a weekly snapshot.
func DecodeWeek(snap *history.WeekSnapshot, priorities, tracker []byte) error {
	if err := json.Unmarshal(priorities, &snap.Priorities); err != nil {
		return fmt.Errorf("decoding priorities: %w", err)
	}
	snap.Tracker = append(json.RawMessage(nil), tracker...)
	return nil
}

func encodeColumn(v any, empty string) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(data) == "null" {
		return empty, nil
	}
	return string(data), nil
}

func rawColumn(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return "{}"
	}
	return string(raw)
}

// SortDaysNewestFirst orders snapshots by creation time, newest first, with
// the later date winning ties.
func SortDaysNewestFirst(snaps []history.DaySnapshot) {
	sort.SliceStable(snaps, func(i, j int) bool {
		if !snaps[i].CreatedAt.Equal(snaps[j].CreatedAt) {
			return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
		}
		return snaps[i].Date > snaps[j].Date
	})
}

// SortWeeksNewestFirst is the weekly analog of SortDaysNewestFirst.
func SortWeeksNewestFirst(snaps []history.WeekSnapshot) {
	sort.SliceStable(snaps, func(i, j int) bool {
		if !snaps[i].CreatedAt.Equal(snaps[j].CreatedAt) {
			return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
		}
		return snaps[i].WeekStart > snaps[j].WeekStart
	})
}
