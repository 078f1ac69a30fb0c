package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/timebox/internal/history"
	"github.com/julianstephens/timebox/internal/logger"
	"github.com/julianstephens/timebox/internal/storage"
)

const dayColumns = "id, date::text, priorities, brain_dump, schedule, tracker, manual_plans, created_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanDay(row scanner) (history.DaySnapshot, error) {
	var snap history.DaySnapshot
	var priorities, schedule, tracker, manualPlans []byte
	if err := row.Scan(&snap.ID, &snap.Date, &priorities, &snap.BrainDump, &schedule, &tracker, &manualPlans, &snap.CreatedAt); err != nil {
		return snap, err
	}
	if err := storage.DecodeDay(&snap, priorities, schedule, tracker, manualPlans); err != nil {
		return snap, fmt.Errorf("plan %s: %w", snap.ID, err)
	}
	snap.CreatedAt = snap.CreatedAt.UTC()
	return snap, nil
}

// createdAtFor returns the creation time to keep for a save: that of the row
// with the same id, else the row with the same key, else the snapshot's own
// or now.
func createdAtFor(tx *sql.Tx, table, keyColumn, owner, id, key string, own time.Time) (time.Time, error) {
	var createdAt time.Time
	err := tx.QueryRow(
		"SELECT created_at FROM "+table+" WHERE owner_id = $1 AND id = $2", owner, id,
	).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRow(
			"SELECT created_at FROM "+table+" WHERE owner_id = $1 AND "+keyColumn+" = $2::date", owner, key,
		).Scan(&createdAt)
	}
	switch {
	case err == nil:
		return createdAt, nil
	case !errors.Is(err, sql.ErrNoRows):
		return time.Time{}, err
	case !own.IsZero():
		return own, nil
	default:
		return time.Now(), nil
	}
}

// keyMoved reports whether owner already has id stored under a different
// key column value.
func keyMoved(tx *sql.Tx, table, keyColumn, owner, id, key string) (bool, error) {
	var n int
	err := tx.QueryRow(
		"SELECT COUNT(*) FROM "+table+" WHERE owner_id = $1 AND id = $2 AND "+keyColumn+" <> $3::date", owner, id, key,
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

	createdAt, err := createdAtFor(tx, "day_plans", "date", owner, snap.ID, snap.Date, snap.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to check existing plan: %w", err)
	}

	if _, err := tx.Exec(
		"DELETE FROM day_plans WHERE owner_id = $1 AND date = $2::date AND id <> $3",
		owner, snap.Date, snap.ID,
	); err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO day_plans (id, owner_id, date, priorities, brain_dump, schedule, tracker, manual_plans, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4::jsonb, $5, $6::jsonb, $7::jsonb, $8::jsonb, $9, now())
		ON CONFLICT (owner_id, id) DO UPDATE SET
			priorities = EXCLUDED.priorities,
			brain_dump = EXCLUDED.brain_dump,
			schedule = EXCLUDED.schedule,
			tracker = EXCLUDED.tracker,
			manual_plans = EXCLUDED.manual_plans,
			updated_at = EXCLUDED.updated_at`,
		snap.ID, owner, snap.Date, cols.Priorities, snap.BrainDump, cols.Schedule, cols.Tracker, cols.ManualPlans, createdAt,
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
	row := s.db.QueryRow("SELECT "+dayColumns+" FROM day_plans WHERE owner_id = $1 AND id = $2", owner, id)
	snap, err := scanDay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return history.DaySnapshot{}, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return snap, err
}

func (s *Store) GetDayPlans(owner string) ([]history.DaySnapshot, error) {
	rows, err := s.db.Query(
		"SELECT "+dayColumns+" FROM day_plans WHERE owner_id = $1 ORDER BY created_at DESC, date DESC",
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
	res, err := s.db.Exec("DELETE FROM day_plans WHERE owner_id = $1 AND id = $2", owner, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return nil
}
