package questions

import (
	"context"
	"encoding/json"
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

func (s *Store) WithDB(db database.DBTX) *Store {
	return &Store{db: db}
}

// ── Answer Recording ────────────────────────────────────

// RecordProgress creates the progress row on first sight and bumps its
// counters, returning the updated row.
func (s *Store) RecordProgress(ctx context.Context, userID, questionID int64, correct bool, at time.Time) (*models.Progress, error) {
	inc := 0
	if correct {
		inc = 1
	}

	p := models.Progress{UserID: userID, QuestionID: questionID}
	var lastShown time.Time
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO user_question_progress (user_id, question_id, times_shown, times_correct, last_shown)
		 VALUES ($1, $2, 1, $3, $4)
		 ON CONFLICT (user_id, question_id) DO UPDATE SET
		     times_shown = user_question_progress.times_shown + 1,
		     times_correct = user_question_progress.times_correct + EXCLUDED.times_correct,
		     last_shown = EXCLUDED.last_shown
		 RETURNING times_shown, times_correct, last_shown, ease_factor, interval_days`,
		userID, questionID, inc, at,
	).Scan(&p.TimesShown, &p.TimesCorrect, &lastShown, &p.EaseFactor, &p.IntervalDays)
	if err != nil {
		return nil, fmt.Errorf("record progress: %w", err)
	}
	p.LastShown = &lastShown
	return &p, nil
}

func (s *Store) InsertAttempt(ctx context.Context, userID, questionID int64, correct bool, timeTaken float64, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO question_attempts (user_id, question_id, correct, time_taken, attempted_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		userID, questionID, correct, timeTaken, at,
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// ── Progress Reads ──────────────────────────────────────

func (s *Store) GetProgress(ctx context.Context, userID, questionID int64) (*models.Progress, error) {
	p := models.Progress{UserID: userID, QuestionID: questionID}
	err := s.db.QueryRowContext(ctx,
		`SELECT times_shown, times_correct, last_shown, ease_factor, interval_days
		 FROM user_question_progress WHERE user_id = $1 AND question_id = $2`,
		userID, questionID,
	).Scan(&p.TimesShown, &p.TimesCorrect, &p.LastShown, &p.EaseFactor, &p.IntervalDays)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", database.MapError(err))
	}
	return &p, nil
}

// Incorrect returns raw rows for questions the user has missed at least once,
// weakest first and most recently seen first among equals.
func (s *Store) Incorrect(ctx context.Context, userID int64, limit int) ([]models.QuestionRecord, []models.Progress, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT q.id, q.question, q.explanation, q.options, q.correct, q.category, q.difficulty, q.created_at,
		        p.times_shown, p.times_correct, p.last_shown
		 FROM user_question_progress p
		 JOIN questions q ON q.id = p.question_id
		 WHERE p.user_id = $1 AND p.times_shown > 0 AND p.times_correct < p.times_shown
		 ORDER BY p.times_correct::float / p.times_shown ASC, p.last_shown DESC NULLS LAST
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("incorrect questions: %w", err)
	}
	defer rows.Close()

	var recs []models.QuestionRecord
	var progress []models.Progress
	for rows.Next() {
		var rec models.QuestionRecord
		p := models.Progress{UserID: userID}
		if err := rows.Scan(&rec.ID, &rec.Question, &rec.Explanation, &rec.Options, &rec.Correct,
			&rec.Category, &rec.Difficulty, &rec.CreatedAt,
			&p.TimesShown, &p.TimesCorrect, &p.LastShown); err != nil {
			return nil, nil, fmt.Errorf("scan incorrect question: %w", err)
		}
		p.QuestionID = rec.ID
		recs = append(recs, rec)
		progress = append(progress, p)
	}
	return recs, progress, rows.Err()
}

// ── Preferences ─────────────────────────────────────────

func (s *Store) GetPreferences(ctx context.Context, userID int64) (models.PracticePreferences, error) {
	var cats, diffs []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT last_practice_categories, last_practice_difficulties FROM users WHERE id = $1`, userID,
	).Scan(&cats, &diffs)
	if err != nil {
		return models.PracticePreferences{}, fmt.Errorf("get preferences: %w", database.MapError(err))
	}

	prefs := models.PracticePreferences{Categories: []string{}, Difficulties: []string{}}
	if len(cats) > 0 {
		if err := json.Unmarshal(cats, &prefs.Categories); err != nil {
			return prefs, fmt.Errorf("decode preferred categories: %w", err)
		}
	}
	if len(diffs) > 0 {
		if err := json.Unmarshal(diffs, &prefs.Difficulties); err != nil {
			return prefs, fmt.Errorf("decode preferred difficulties: %w", err)
		}
	}
	return prefs, nil
}

func (s *Store) SavePreferences(ctx context.Context, userID int64, prefs models.PracticePreferences) error {
	cats, err := json.Marshal(nonNil(prefs.Categories))
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}
	diffs, err := json.Marshal(nonNil(prefs.Difficulties))
	if err != nil {
		return fmt.Errorf("encode difficulties: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_practice_categories = $2, last_practice_difficulties = $3, updated_at = NOW()
		 WHERE id = $1`,
		userID, string(cats), string(diffs),
	)
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("save preferences: %w", database.ErrNotFound)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
