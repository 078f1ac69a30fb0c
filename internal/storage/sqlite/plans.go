package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/timebox/internal/history"
	"github.com/julianstephens/timebox/internal/logger"
	"github.com/julianstephens/timebox/internal/storage"
)

const dayColumns = "id, date, priorities, brain_dump, schedule, tracker, manual_plans, created_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanDay(row scanner) (history.DaySnapshot, error) {
	var snap history.DaySnapshot
	var priorities, schedule, tracker, manualPlans, createdAt string
	if err := row.Scan(&snap.ID, &snap.Date, &priorities, &snap.BrainDump, &schedule, &tracker, &manualPlans, &createdAt); err != nil {
		return snap, err
	}
	if err := storage.DecodeDay(&snap, []byte(priorities), []byte(schedule), []byte(tracker), []byte(manualPlans)); err != nil {
		return snap, fmt.Errorf("plan %s: %w", snap.ID, err)
	}
	ts, err := storage.ParseTimestamp(createdAt)
	if err != nil {
		return snap, fmt.Errorf("plan %s: invalid created_at: %w", snap.ID, err)
	}
	snap.CreatedAt = ts
	return snap, nil
}

// existingCreatedAt looks up the creation time of the row the save will
// replace: the same id first, then the same key column value.
func existingCreatedAt(tx *sql.Tx, table, keyColumn, owner, id, key string) (string, error) {
	var createdAt string
	err := tx.QueryRow(
		"SELECT created_at FROM "+table+" WHERE owner_id = ? AND id = ?", owner, id,
	).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRow(
			"SELECT created_at FROM "+table+" WHERE owner_id = ? AND "+keyColumn+" = ?", owner, key,
		).Scan(&createdAt)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return createdAt, err
}

// keyMoved reports whether owner already has id stored under a different
// key column value.
func keyMoved(tx *sql.Tx, table, keyColumn, owner, id, key string) (bool, error) {
	var n int
	err := tx.QueryRow(
		"SELECT COUNT(*) FROM "+table+" WHERE owner_id = ? AND id = ? AND "+keyColumn+" <> ?", owner, id, key,
	).Scan(&n)
	return n > 0, err
}

func (s *Store) SaveDayPlan(owner string, snap history.DaySnapshot) error {
	if err := storage.CheckDayKey(owner, snap); err != nil {
		return err
	}
	cols, err := storage.EncodeDay(snap)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	moved, err := keyMoved(tx, "day_plans", "date", owner, snap.ID, snap.Date)
	if err != nil {
		return fmt.Errorf("failed to check existing plan: %w", err)
	}
	if moved {
		return fmt.Errorf("%w: %s", storage.ErrKeyMoved, snap.ID)
	}

	now := storage.FormatTimestamp(time.Now())
	createdAt, err := existingCreatedAt(tx, "day_plans", "date", owner, snap.ID, snap.Date)
	if err != nil {
		return fmt.Errorf("failed to check existing plan: %w", err)
	}
	if createdAt == "" {
		createdAt = now
		if !snap.CreatedAt.IsZero() {
			createdAt = storage.FormatTimestamp(snap.CreatedAt)
		}
	}

	if _, err := tx.Exec(
		"DELETE FROM day_plans WHERE owner_id = ? AND date = ? AND id <> ?",
		owner, snap.Date, snap.ID,
	); err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO day_plans (id, owner_id, date, priorities, brain_dump, schedule, tracker, manual_plans, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id, id) DO UPDATE SET
			priorities = excluded.priorities,
			brain_dump = excluded.brain_dump,
			schedule = excluded.schedule,
			tracker = excluded.tracker,
			manual_plans = excluded.manual_plans,
			updated_at = excluded.updated_at`,
		snap.ID, owner, snap.Date, cols.Priorities, snap.BrainDump, cols.Schedule, cols.Tracker, cols.ManualPlans, createdAt, now,
	)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.Debug("Saved day plan", "id", snap.ID, "date", snap.Date)
	return nil
}

func (s *Store) GetDayPlan(owner, id string) (history.DaySnapshot, error) {
	row := s.db.QueryRow("SELECT "+dayColumns+" FROM day_plans WHERE owner_id = ? AND id = ?", owner, id)
	snap, err := scanDay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return history.DaySnapshot{}, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return snap, err
}

func (s *Store) GetDayPlans(owner string) ([]history.DaySnapshot, error) {
	rows, err := s.db.Query(
		"SELECT "+dayColumns+" FROM day_plans WHERE owner_id = ? ORDER BY created_at DESC, date DESC",
		owner,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []history.DaySnapshot{}
	for rows.Next() {
		snap, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

func (s *Store) DeleteDayPlan(owner, id string) error {
	res, err := s.db.Exec("DELETE FROM day_plans WHERE owner_id = ? AND id = ?", owner, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return nil
}
