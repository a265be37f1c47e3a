package session

import (
	"context"
	"encoding/json"
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

func (s *Store) WithDB(db database.DBTX) *Store {
	return &Store{db: db}
}

// Upsert replaces the user's active session wholesale.
func (s *Store) Upsert(ctx context.Context, sess models.ActiveSession) error {
	ids, err := json.Marshal(sess.QuestionIDs)
	if err != nil {
		return fmt.Errorf("encode question ids: %w", err)
	}
	answers, err := json.Marshal(sess.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO active_sessions (user_id, session_type, question_ids, answers, current_index, time_remaining, last_updated)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET
		     session_type = EXCLUDED.session_type,
		     question_ids = EXCLUDED.question_ids,
		     answers = EXCLUDED.answers,
		     current_index = EXCLUDED.current_index,
		     time_remaining = EXCLUDED.time_remaining,
		     last_updated = EXCLUDED.last_updated`,
		sess.UserID, sess.SessionType, string(ids), string(answers), sess.CurrentIndex, sess.TimeRemaining,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Update overwrites the progress fields of the session holding questionIDs.
// It never creates a row and reports whether one matched.
func (s *Store) Update(ctx context.Context, userID int64, questionIDs []int64, answers []*string, currentIndex, timeRemaining int) (bool, error) {
	ids, err := json.Marshal(questionIDs)
	if err != nil {
		return false, fmt.Errorf("encode question ids: %w", err)
	}
	encoded, err := json.Marshal(answers)
	if err != nil {
		return false, fmt.Errorf("encode answers: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE active_sessions
		 SET answers = $3, current_index = $4, time_remaining = $5, last_updated = NOW()
		 WHERE user_id = $1 AND question_ids = $2::jsonb`,
		userID, string(ids), string(encoded), currentIndex, timeRemaining,
	)
	if err != nil {
		return false, fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update session: %w", err)
	}
	return n > 0, nil
}

func (s *Store) Get(ctx context.Context, userID int64) (*models.ActiveSession, error) {
	sess := models.ActiveSession{UserID: userID}
	var ids, answers []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT session_type, question_ids, answers, current_index, time_remaining, last_updated
		 FROM active_sessions WHERE user_id = $1`,
		userID,
	).Scan(&sess.SessionType, &ids, &answers, &sess.CurrentIndex, &sess.TimeRemaining, &sess.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", database.MapError(err))
	}

	if err := json.Unmarshal(ids, &sess.QuestionIDs); err != nil {
		return nil, fmt.Errorf("decode question ids: %w", err)
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &sess.Answers); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
	}
	return &sess, nil
}

// Delete reports whether a session existed.
func (s *Store) Delete(ctx context.Context, userID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM active_sessions WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return n > 0, nil
}
