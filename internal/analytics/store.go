package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/love-prep/backend/internal/database"
	"github.com/love-prep/backend/internal/models"
)

type Store struct {
	db database.DBTX
}

func NewStore(db database.DBTX) *Store {
	return &Store{db: db}
}

func (s *Store) General(ctx context.Context, userID int64) (models.GeneralStats, error) {
	var g models.GeneralStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(p.question_id),
		        COALESCE(AVG(CASE WHEN p.times_shown > 0 THEN p.times_correct::float / p.times_shown ELSE 0 END), 0),
		        COALESCE(SUM(p.times_shown), 0),
		        COALESCE(SUM(p.times_correct), 0),
		        (SELECT COUNT(*) FROM questions)
		 FROM user_question_progress p
		 WHERE p.user_id = $1`,
		userID,
	).Scan(&g.AnsweredQuestions, &g.AvgSuccessRate, &g.TotalAttempts, &g.TotalCorrect, &g.TotalQuestionsInDB)
	if err != nil {
		return g, fmt.Errorf("general stats: %w", err)
	}
	return g, nil
}

// Categories returns per-category figures, weakest first.
func (s *Store) Categories(ctx context.Context, userID int64) ([]models.CategoryStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT q.category,
		        COUNT(p.question_id),
		        COALESCE(SUM(p.times_shown), 0),
		        COALESCE(SUM(p.times_correct), 0),
		        COALESCE(AVG(CASE WHEN p.times_shown > 0 THEN p.times_correct::float / p.times_shown ELSE 0 END), 0) AS success_rate
		 FROM user_question_progress p
		 JOIN questions q ON q.id = p.question_id
		 WHERE p.user_id = $1
		 GROUP BY q.category
		 ORDER BY success_rate ASC, q.category`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}
	defer rows.Close()

	out := []models.CategoryStats{}
	for rows.Next() {
		var c models.CategoryStats
		if err := rows.Scan(&c.Category, &c.QuestionCount, &c.Attempts, &c.Correct, &c.SuccessRate); err != nil {
			return nil, fmt.Errorf("scan category stats: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Daily returns attempt counts per UTC day in [from, to), days without
// attempts omitted.
func (s *Store) Daily(ctx context.Context, userID int64, from, to time.Time) (map[string]models.DailyActivity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT to_char((attempted_at AT TIME ZONE 'UTC')::date, 'YYYY-MM-DD') AS day,
		        COUNT(*),
		        COUNT(*) FILTER (WHERE correct)
		 FROM question_attempts
		 WHERE user_id = $1 AND attempted_at >= $2 AND attempted_at < $3
		 GROUP BY day`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("daily activity: %w", err)
	}
	defer rows.Close()

	out := map[string]models.DailyActivity{}
	for rows.Next() {
		var d models.DailyActivity
		if err := rows.Scan(&d.Date, &d.Attempts, &d.Correct); err != nil {
			return nil, fmt.Errorf("scan daily activity: %w", err)
		}
		out[d.Date] = d
	}
	return out, rows.Err()
}

// MistakeCount counts distinct questions the user has ever answered wrong.
func (s *Store) MistakeCount(ctx context.Context, userID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT question_id) FROM question_attempts WHERE user_id = $1 AND NOT correct`,
		userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("mistake count: %w", err)
	}
	return n, nil
}
