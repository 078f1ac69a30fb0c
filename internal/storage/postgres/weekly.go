package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/timebox/internal/history"
	"github.com/julianstephens/timebox/internal/storage"
)

const weekColumns = "id, week_start::text, priorities, brain_dump, tracker, created_at"

func scanWeek(row scanner) (history.WeekSnapshot, error) {
	var snap history.WeekSnapshot
	var priorities, tracker []byte
	if err := row.Scan(&snap.ID, &snap.WeekStart, &priorities, &snap.BrainDump, &tracker, &snap.CreatedAt); err != nil {
		return snap, err
	}
	if err := storage.DecodeWeek(&snap, priorities, tracker); err != nil {
		return snap, fmt.Errorf("weekly plan %s: %w", snap.ID, err)
	}
	snap.CreatedAt = snap.CreatedAt.UTC()
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

	createdAt, err := createdAtFor(tx, "weekly_plans", "week_start", owner, snap.ID, snap.WeekStart, snap.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to check existing weekly plan: %w", err)
	}

	if _, err := tx.Exec(
		"DELETE FROM weekly_plans WHERE owner_id = $1 AND week_start = $2::date AND id <> $3",
		owner, snap.WeekStart, snap.ID,
	); err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO weekly_plans (id, owner_id, week_start, priorities, brain_dump, tracker, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4::jsonb, $5, $6::jsonb, $7, now())
		ON CONFLICT (owner_id, id) DO UPDATE SET
			priorities = EXCLUDED.priorities,
			brain_dump = EXCLUDED.brain_dump,
			tracker = EXCLUDED.tracker,
			updated_at = EXCLUDED.updated_at`,
		snap.ID, owner, snap.WeekStart, priorities, snap.BrainDump, tracker, createdAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) GetWeeklyPlan(owner, id string) (history.WeekSnapshot, error) {
	row := s.db.QueryRow("SELECT "+weekColumns+" FROM weekly_plans WHERE owner_id = $1 AND id = $2", owner, id)
	snap, err := scanWeek(row)
	if errors.Is(err, sql.ErrNoRows) {
		return history.WeekSnapshot{}, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return snap, err
}

func (s *Store) GetWeeklyPlans(owner string) ([]history.WeekSnapshot, error) {
	rows, err := s.db.Query(
		"SELECT "+weekColumns+" FROM weekly_plans WHERE owner_id = $1 ORDER BY created_at DESC, week_start DESC",
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
	res, err := s.db.Exec("DELETE FROM weekly_plans WHERE owner_id = $1 AND id = $2", owner, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return nil
}
