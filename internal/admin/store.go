package admin

import (
	"context"
	"fmt"

	"github.com/love-prep/backend/internal/bank"
	"github.com/love-prep/backend/internal/database"
	"github.com/love-prep/backend/internal/models"
)

// Store holds the question writes and site-wide aggregates used by admins.
type Store struct {
	db database.DBTX
}

func NewStore(db database.DBTX) *Store {
	return &Store{db: db}
}

func (s *Store) WithDB(db database.DBTX) *Store {
	return &Store{db: db}
}

func (s *Store) InsertQuestion(ctx context.Context, q models.Question) (int64, error) {
	options, err := bank.EncodeOptions(q.Options)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO questions (question, explanation, options, correct, category, difficulty)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		q.Question, q.Explanation, options, q.Correct, q.Category, q.Difficulty,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}
	return id, nil
}

func (s *Store) UpdateQuestion(ctx context.Context, q models.Question) error {
	options, err := bank.EncodeOptions(q.Options)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE questions
		 SET question = $2, explanation = $3, options = $4, correct = $5, category = $6, difficulty = $7
		 WHERE id = $1`,
		q.ID, q.Question, q.Explanation, options, q.Correct, q.Category, q.Difficulty,
	)
	if err != nil {
		return fmt.Errorf("update question %d: %w", q.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update question %d: %w", q.ID, database.ErrNotFound)
	}
	return nil
}

// Stats aggregates over every attempt by every user. Success rates are
// percentages.
func (s *Store) Stats(ctx context.Context) (models.AdminStats, error) {
	var st models.AdminStats
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM users),
		        (SELECT COUNT(*) FROM questions),
		        COUNT(*),
		        COALESCE(AVG(CASE WHEN correct THEN 100.0 ELSE 0.0 END), 0)
		 FROM question_attempts`,
	).Scan(&st.TotalUsers, &st.TotalQuestions, &st.TotalAttempts, &st.AvgSuccessRate)
	if err != nil {
		return st, fmt.Errorf("admin stats: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT q.category,
		        COUNT(a.id) AS attempts,
		        COALESCE(AVG(CASE WHEN a.correct THEN 100.0 ELSE 0.0 END), 0)
		 FROM questions q
		 LEFT JOIN question_attempts a ON a.question_id = q.id
		 GROUP BY q.category
		 ORDER BY attempts DESC, q.category`,
	)
	if err != nil {
		return st, fmt.Errorf("admin category stats: %w", err)
	}
	defer rows.Close()

	st.Categories = []models.AdminCategoryStats{}
	for rows.Next() {
		var c models.AdminCategoryStats
		if err := rows.Scan(&c.Category, &c.Attempts, &c.SuccessRate); err != nil {
			return st, fmt.Errorf("scan admin category stats: %w", err)
		}
		st.Categories = append(st.Categories, c)
	}
	return st, rows.Err()
}
