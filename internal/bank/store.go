package bank

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/love-prep/backend/internal/database"
	"github.com/love-prep/backend/internal/models"
	"go.uber.org/zap"
)

type Store struct {
	db  database.DBTX
	log *zap.Logger
}

func NewStore(db database.DBTX, log *zap.Logger) *Store {
	return &Store{db: db, log: log}
}

// WithDB returns a Store bound to db, typically a transaction.
func (s *Store) WithDB(db database.DBTX) *Store {
	return &Store{db: db, log: s.log}
}

const questionColumns = `q.id, q.question, q.explanation, q.options, q.correct, q.category, q.difficulty, q.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner, extra ...any) (models.QuestionRecord, error) {
	var rec models.QuestionRecord
	dest := append([]any{&rec.ID, &rec.Question, &rec.Explanation, &rec.Options,
		&rec.Correct, &rec.Category, &rec.Difficulty, &rec.CreatedAt}, extra...)
	err := row.Scan(dest...)
	return rec, err
}

// decodeOrSkip logs integrity anomalies at debug and reports whether the
// row is usable.
func (s *Store) decodeOrSkip(rec models.QuestionRecord) (models.Question, bool) {
	q, err := Decode(rec)
	if err != nil {
		s.log.Debug("skipping malformed question", zap.Int64("question_id", rec.ID), zap.Error(err))
		return models.Question{}, false
	}
	return q, true
}

func nullableArray(values []string) interface{} {
	if len(values) == 0 {
		return nil
	}
	return pq.Array(values)
}

// ── Selection ───────────────────────────────────────────

// Select returns questions matching every non-empty filter, each joined
// with the user's progress row when one exists. limit <= 0 means no limit.
func (s *Store) Select(ctx context.Context, userID int64, categories, difficulties []string, limit int) ([]models.PracticeQuestion, error) {
	query := `SELECT ` + questionColumns + `,
	                 p.times_shown, p.times_correct, p.last_shown, p.ease_factor, p.interval_days
	          FROM questions q
	          LEFT JOIN user_question_progress p ON p.question_id = q.id AND p.user_id = $1
	          WHERE ($2::text[] IS NULL OR q.category = ANY($2::text[]))
	            AND ($3::text[] IS NULL OR q.difficulty = ANY($3::text[]))
	          ORDER BY q.id`
	args := []any{userID, nullableArray(categories), nullableArray(difficulties)}
	if limit > 0 {
		query += ` LIMIT $4`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select questions: %w", err)
	}
	defer rows.Close()

	var out []models.PracticeQuestion
	for rows.Next() {
		var (
			shown, correct sql.NullInt64
			lastShown      sql.NullTime
			ease           sql.NullFloat64
			interval       sql.NullInt64
		)
		rec, err := scanRecord(rows, &shown, &correct, &lastShown, &ease, &interval)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q, ok := s.decodeOrSkip(rec)
		if !ok {
			continue
		}

		item := models.PracticeQuestion{Question: q}
		if shown.Valid {
			item.Progress = &models.Progress{
				UserID:       userID,
				QuestionID:   q.ID,
				TimesShown:   int(shown.Int64),
				TimesCorrect: int(correct.Int64),
				EaseFactor:   ease.Float64,
				IntervalDays: int(interval.Int64),
			}
			if lastShown.Valid {
				t := lastShown.Time
				item.Progress.LastShown = &t
			}
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// ByID returns a single decoded question. Missing and malformed rows both
// map to database.ErrNotFound.
func (s *Store) ByID(ctx context.Context, id int64) (models.Question, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx,
		`SELECT `+questionColumns+` FROM questions q WHERE q.id = $1`, id))
	if err != nil {
		return models.Question{}, fmt.Errorf("get question %d: %w", id, database.MapError(err))
	}
	q, ok := s.decodeOrSkip(rec)
	if !ok {
		return models.Question{}, fmt.Errorf("get question %d: %w", id, database.ErrNotFound)
	}
	return q, nil
}

// ByIDs returns the usable questions among ids keyed by id.
func (s *Store) ByIDs(ctx context.Context, ids []int64) (map[int64]models.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+questionColumns+` FROM questions q WHERE q.id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("get questions by id: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]models.Question, len(ids))
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if q, ok := s.decodeOrSkip(rec); ok {
			out[q.ID] = q
		}
	}
	return out, rows.Err()
}

// RandomIDs returns up to n ids of usable questions in random order.
func (s *Store) RandomIDs(ctx context.Context, n int) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+questionColumns+` FROM questions q ORDER BY RANDOM()`)
	if err != nil {
		return nil, fmt.Errorf("random questions: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, n)
	for rows.Next() && len(ids) < n {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if _, ok := s.decodeOrSkip(rec); ok {
			ids = append(ids, rec.ID)
		}
	}
	return ids, rows.Err()
}

// Page returns usable questions newest first for admin listings.
func (s *Store) Page(ctx context.Context, offset, limit int) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+questionColumns+` FROM questions q ORDER BY q.id DESC OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("page questions: %w", err)
	}
	defer rows.Close()

	out := []models.Question{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if q, ok := s.decodeOrSkip(rec); ok {
			out = append(out, q)
		}
	}
	return out, rows.Err()
}

// Texts returns the question text of every question in category.
func (s *Store) Texts(ctx context.Context, category string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT question FROM questions WHERE category = $1`, category)
	if err != nil {
		return nil, fmt.Errorf("question texts: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scan question text: %w", err)
		}
		out = append(out, text)
	}
	return out, rows.Err()
}

// ── Due Review ──────────────────────────────────────────

// Due returns questions whose last_shown + interval_days is at or before now,
// most overdue first. Questions never shown are not due.
func (s *Store) Due(ctx context.Context, userID int64, now time.Time, limit int) ([]models.PracticeQuestion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+questionColumns+`,
		        p.times_shown, p.times_correct, p.last_shown, p.ease_factor, p.interval_days
		 FROM user_question_progress p
		 JOIN questions q ON q.id = p.question_id
		 WHERE p.user_id = $1
		   AND p.last_shown IS NOT NULL
		   AND p.last_shown + make_interval(days => p.interval_days) <= $2
		 ORDER BY p.last_shown + make_interval(days => p.interval_days) ASC, q.id
		 LIMIT $3`,
		userID, now, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("due questions: %w", err)
	}
	defer rows.Close()

	var out []models.PracticeQuestion
	for rows.Next() {
		p := models.Progress{UserID: userID}
		var lastShown time.Time
		rec, err := scanRecord(rows, &p.TimesShown, &p.TimesCorrect, &lastShown, &p.EaseFactor, &p.IntervalDays)
		if err != nil {
			return nil, fmt.Errorf("scan due question: %w", err)
		}
		q, ok := s.decodeOrSkip(rec)
		if !ok {
			continue
		}
		p.QuestionID = q.ID
		p.LastShown = &lastShown
		out = append(out, models.PracticeQuestion{Question: q, Progress: &p})
	}
	return out, rows.Err()
}

func (s *Store) CountDue(ctx context.Context, userID int64, now time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_question_progress p
		 WHERE p.user_id = $1
		   AND p.last_shown IS NOT NULL
		   AND p.last_shown + make_interval(days => p.interval_days) <= $2`,
		userID, now,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count due: %w", err)
	}
	return n, nil
}

// ── Counts ──────────────────────────────────────────────

func (s *Store) Counts(ctx context.Context) (models.QuestionCounts, error) {
	counts := models.QuestionCounts{
		Categories:   map[string]int{},
		Difficulties: map[string]int{},
		Combined:     map[string]map[string]int{},
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT category, difficulty, COUNT(*) FROM questions GROUP BY category, difficulty`)
	if err != nil {
		return counts, fmt.Errorf("question counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cat, diff string
		var n int
		if err := rows.Scan(&cat, &diff, &n); err != nil {
			return counts, fmt.Errorf("scan count: %w", err)
		}
		counts.Categories[cat] += n
		counts.Difficulties[diff] += n
		if counts.Combined[cat] == nil {
			counts.Combined[cat] = map[string]int{}
		}
		counts.Combined[cat][diff] = n
		counts.Total += n
	}
	return counts, rows.Err()
}

func (s *Store) Total(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}
