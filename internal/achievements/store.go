package achievements

import (
	"context"
	"fmt"
	"time"

	"github.com/love-prep/backend/internal/database"
)

type Store struct {
	db database.DBTX
}

func NewStore(db database.DBTX) *Store {
	return &Store{db: db}
}

// LoadActivity gathers everything the rules need. now fixes "today" for the
// streak window.
func (s *Store) LoadActivity(ctx context.Context, userID int64, now time.Time) (Activity, error) {
	var a Activity

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE a.time_taken < $2),
		        COUNT(DISTINCT q.category)
		 FROM question_attempts a
		 JOIN questions q ON q.id = a.question_id
		 WHERE a.user_id = $1`,
		userID, quickAnswerSeconds,
	).Scan(&a.TotalAttempts, &a.QuickAttempts, &a.DistinctCategories)
	if err != nil {
		return a, fmt.Errorf("load attempt totals: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT correct FROM question_attempts
		 WHERE user_id = $1
		 ORDER BY attempted_at DESC, id DESC
		 LIMIT $2`,
		userID, perfectRunLength,
	)
	if err != nil {
		return a, fmt.Errorf("load recent results: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ok bool
		if err := rows.Scan(&ok); err != nil {
			return a, fmt.Errorf("scan recent result: %w", err)
		}
		a.RecentResults = append(a.RecentResults, ok)
	}
	if err := rows.Err(); err != nil {
		return a, err
	}

	today := now.UTC().Truncate(24 * time.Hour)
	windowStart := today.AddDate(0, 0, -(streakDays - 1))
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT (attempted_at AT TIME ZONE 'UTC')::date)
		 FROM question_attempts
		 WHERE user_id = $1 AND attempted_at >= $2 AND attempted_at < $3`,
		userID, windowStart, today.AddDate(0, 0, 1),
	).Scan(&a.ActiveDays)
	if err != nil {
		return a, fmt.Errorf("load active days: %w", err)
	}

	return a, nil
}

// Unlock records the achievement unless the user already has it, and reports
// whether a row was inserted.
func (s *Store) Unlock(ctx context.Context, userID int64, achievementID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO user_achievements (user_id, achievement_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, achievement_id) DO NOTHING`,
		userID, achievementID,
	)
	if err != nil {
		return false, fmt.Errorf("unlock %s: %w", achievementID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unlock %s: %w", achievementID, err)
	}
	return n == 1, nil
}

// Unlocked maps achievement id to unlock time for the user.
func (s *Store) Unlocked(ctx context.Context, userID int64) (map[string]time.Time, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT achievement_id, unlocked_at FROM user_achievements WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list unlocked: %w", err)
	}
	defer rows.Close()

	out := map[string]time.Time{}
	for rows.Next() {
		var id string
		var at time.Time
		if err := rows.Scan(&id, &at); err != nil {
			return nil, fmt.Errorf("scan unlocked: %w", err)
		}
		out[id] = at
	}
	return out, rows.Err()
}
