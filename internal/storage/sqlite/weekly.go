package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/timebox/internal/history"
	"github.com/julianstephens/timebox/internal/storage"
)

const weekColumns = "id, week_start, priorities, brain_dump, tracker, created_at"

func scanWeek(row scanner) (history.WeekSnapshot, error) {
	var snap history.WeekSnapshot
	var priorities, tracker, createdAt string
	if err := row.Scan(&snap.ID, &snap.WeekStart, &priorities, &snap.BrainDump, &tracker, &createdAt); err != nil {
		return snap, err
	}
	if err := storage.DecodeWeek(&snap, []byte(priorities), []byte(tracker)); err != nil {
		return snap, fmt.Errorf("weekly plan %s: %w", snap.ID, err)
	}
	ts, err := storage.ParseTimestamp(createdAt)
	if err != nil {
		return snap, fmt.Errorf("weekly plan %s: invalid created_at: %w", snap.ID, err)
	}
	snap.CreatedAt = ts
	return snap, nil
}

func (s *Store) SaveWeeklyPlan(owner string, snap history.WeekSnapshot) error {
	if err := storage.CheckWeekKey(owner, snap); err != nil {
		return err
	}
	priorities, tracker, err := storage.EncodeWeek(snap)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	moved, err := keyMoved(tx, "weekly_plans", "week_start", owner, snap.ID, snap.WeekStart)
	if err != nil {
		return fmt.Errorf("failed to check existing weekly plan: %w", err)
	}
	if moved {
		return fmt.Errorf("%w: %s", storage.ErrKeyMoved, snap.ID)
	}

	now := storage.FormatTimestamp(time.Now())
	createdAt, err := existingCreatedAt(tx, "weekly_plans", "week_start", owner, snap.ID, snap.WeekStart)
	if err != nil {
		return fmt.Errorf("failed to check existing weekly plan: %w", err)
	}
	if createdAt == "" {
		createdAt = now
		if !snap.CreatedAt.IsZero() {
			createdAt = storage.FormatTimestamp(snap.CreatedAt)
		}
	}

	if _, err := tx.Exec(
		"DELETE FROM weekly_plans WHERE owner_id = ? AND week_start = ? AND id <> ?",
		owner, snap.WeekStart, snap.ID,
	); err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO weekly_plans (id, owner_id, week_start, priorities, brain_dump, tracker, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id, id) DO UPDATE SET
			priorities = excluded.priorities,
			brain_dump = excluded.brain_dump,
			tracker = excluded.tracker,
			updated_at = excluded.updated_at`,
		snap.ID, owner, snap.WeekStart, priorities, snap.BrainDump, tracker, createdAt, now,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) GetWeeklyPlan(owner, id string) (history.WeekSnapshot, error) {
	row := s.db.QueryRow("SELECT "+weekColumns+" FROM weekly_plans WHERE owner_id = ? AND id = ?", owner, id)
	snap, err := scanWeek(row)
	if errors.Is(err, sql.ErrNoRows) {
		return history.WeekSnapshot{}, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return snap, err
}

func (s *Store) GetWeeklyPlans(owner string) ([]history.WeekSnapshot, error) {
	rows, err := s.db.Query(
		"SELECT "+weekColumns+" FROM weekly_plans WHERE owner_id = ? ORDER BY created_at DESC, week_start DESC",
		owner,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []history.WeekSnapshot{}
	for rows.Next() {
		snap, err := scanWeek(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

func (s *Store) DeleteWeeklyPlan(owner, id string) error {
	res, err := s.db.Exec("DELETE FROM weekly_plans WHERE owner_id = ? AND id = ?", owner, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return nil
}
