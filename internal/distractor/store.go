package distractor

import (
	"context"
	"fmt"

	"github.com/love-prep/backend/internal/database"
	"github.com/love-prep/backend/internal/models"
)

type Store struct {
	db database.DBTX
}

func NewStore(db database.DBTX) *Store {
	return &Store{db: db}
}

func (s *Store) Settings(ctx context.Context, userID int64) (models.DistractorSettings, error) {
	var st models.DistractorSettings
	err := s.db.QueryRowContext(ctx,
		`SELECT distractors_enabled, distractor_probability FROM users WHERE id = $1`, userID,
	).Scan(&st.Enabled, &st.Probability)
	if err != nil {
		return st, fmt.Errorf("get distractor settings: %w", database.MapError(err))
	}
	return st, nil
}

func (s *Store) SetEnabled(ctx context.Context, userID int64, enabled bool) error {
	return s.update(ctx, `UPDATE users SET distractors_enabled = $2, updated_at = NOW() WHERE id = $1`, userID, enabled)
}

func (s *Store) SetProbability(ctx context.Context, userID int64, probability int) error {
	return s.update(ctx, `UPDATE users SET distractor_probability = $2, updated_at = NOW() WHERE id = $1`, userID, probability)
}

func (s *Store) update(ctx context.Context, query string, userID int64, value any) error {
	res, err := s.db.ExecContext(ctx, query, userID, value)
	if err != nil {
		return fmt.Errorf("update distractor settings: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update distractor settings: %w", database.ErrNotFound)
	}
	return nil
}

func (s *Store) LogAttempt(ctx context.Context, userID int64, scenario string, userChoice, correctChoice int, responseTime int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO distractor_attempts
		    (user_id, distractor_scenario, user_choice, correct_choice, is_correct, response_time)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, scenario, userChoice, correctChoice, userChoice == correctChoice, responseTime,
	)
	if err != nil {
		return fmt.Errorf("log distractor attempt: %w", err)
	}
	return nil
}
