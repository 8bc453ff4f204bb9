package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ihiteshgupta/learnflow/internal/progress"
)

// SQLiteStore persists progress records through database/sql.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite wraps an opened database handle.
func NewSQLite(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(ctx context.Context, userID string) (*progress.UserProgress, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, total_xp, current_streak, longest_streak, last_active_at,
		       freezes_available, timezone, badges, updated_at
		FROM user_progress WHERE user_id = ?`, userID)

	p, err := scanProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) Save(ctx context.Context, p *progress.UserProgress) error {
	badges, err := json.Marshal(p.Badges)
	if err != nil {
		return fmt.Errorf("marshal badges: %w", err)
	}
	if p.Badges == nil {
		badges = []byte("[]")
	}

	var lastActiveAt any
	if p.LastActiveAt != nil {
		lastActiveAt = p.LastActiveAt.UTC().Format(time.RFC3339Nano)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_progress (user_id, total_xp, current_streak, longest_streak,
			last_active_at, freezes_available, timezone, badges, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			total_xp = excluded.total_xp,
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			last_active_at = excluded.last_active_at,
			freezes_available = excluded.freezes_available,
			timezone = excluded.timezone,
			badges = excluded.badges,
			updated_at = excluded.updated_at`,
		p.UserID, p.TotalXP, p.CurrentStreak, p.LongestStreak, lastActiveAt,
		p.FreezesAvailable, p.Timezone, string(badges),
		p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]*progress.UserProgress, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, total_xp, current_streak, longest_streak, last_active_at,
		       freezes_available, timezone, badges, updated_at
		FROM user_progress ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var out []*progress.UserProgress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgress(row rowScanner) (*progress.UserProgress, error) {
	var (
		p            progress.UserProgress
		lastActiveAt sql.NullString
		badgesRaw    string
		updatedAt    string
	)
	if err := row.Scan(&p.UserID, &p.TotalXP, &p.CurrentStreak, &p.LongestStreak,
		&lastActiveAt, &p.FreezesAvailable, &p.Timezone, &badgesRaw, &updatedAt); err != nil {
		return nil, err
	}

	if lastActiveAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, lastActiveAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse last_active_at: %w", err)
		}
		p.LastActiveAt = &t
	}

	if err := json.Unmarshal([]byte(badgesRaw), &p.Badges); err != nil {
		return nil, fmt.Errorf("parse badges: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	p.UpdatedAt = t
	return &p, nil
}
