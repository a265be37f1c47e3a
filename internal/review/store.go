package review

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

// LockProgress reads the user's progress row for a question and holds a row
// lock until the surrounding transaction ends.
func (s *Store) LockProgress(ctx context.Context, userID, questionID int64) (*models.Progress, error) {
	p := models.Progress{UserID: userID, QuestionID: questionID}
	var lastShown *time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT times_shown, times_correct, last_shown, ease_factor, interval_days
		 FROM user_question_progress
		 WHERE user_id = $1 AND question_id = $2
		 FOR UPDATE`,
		userID, questionID,
	).Scan(&p.TimesShown, &p.TimesCorrect, &lastShown, &p.EaseFactor, &p.IntervalDays)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", database.MapError(err))
	}
	p.LastShown = lastShown
	return &p, nil
}

func (s *Store) SaveSchedule(ctx context.Context, userID, questionID int64, intervalDays int, easeFactor float64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE user_question_progress
		 SET interval_days = $3, ease_factor = $4
		 WHERE user_id = $1 AND question_id = $2`,
		userID, questionID, intervalDays, easeFactor,
	)
	if err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	return nil
}
