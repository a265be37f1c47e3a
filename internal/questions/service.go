package questions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/love-prep/backend/internal/achievements"
	"github.com/love-prep/backend/internal/answercache"
	"github.com/love-prep/backend/internal/bank"
	"github.com/love-prep/backend/internal/database"
	"github.com/love-prep/backend/internal/metrics"
	"github.com/love-prep/backend/internal/models"
	"github.com/love-prep/backend/internal/review"
	"go.uber.org/zap"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrNoProgress       = errors.New("no progress for question")
)

const (
	defaultPracticeLimit = 20
	maxPracticeLimit     = 100
	incorrectLimit       = 50
)

// Scheduler applies a spaced-repetition step inside the caller's transaction.
type Scheduler interface {
	Schedule(ctx context.Context, tx database.DBTX, userID, questionID int64, quality int) (*models.Progress, error)
}

// Evaluator unlocks achievements inside the caller's transaction.
type Evaluator interface {
	Evaluate(ctx context.Context, tx database.DBTX, userID int64) ([]string, error)
}

type Service struct {
	db        *sql.DB
	store     *Store
	bank      *bank.Store
	scheduler Scheduler
	evaluator Evaluator
	guard     answercache.Guard
	log       *zap.Logger
	shuffle   bank.ShuffleFunc
	now       func() time.Time
}

func NewService(db *sql.DB, store *Store, questions *bank.Store, scheduler Scheduler, evaluator Evaluator, guard answercache.Guard, log *zap.Logger) *Service {
	return &Service{
		db:        db,
		store:     store,
		bank:      questions,
		scheduler: scheduler,
		evaluator: evaluator,
		guard:     guard,
		log:       log,
		shuffle:   bank.DefaultShuffle,
		now:       time.Now,
	}
}

// ── Practice ────────────────────────────────────────────

// Practice selects questions for a practice round, remembers the filters as
// the user's preferences, and shuffles both question order and options.
func (s *Service) Practice(ctx context.Context, userID int64, categories, difficulties []string, limit int) ([]models.PracticeQuestion, error) {
	if limit <= 0 {
		limit = defaultPracticeLimit
	}
	if limit > maxPracticeLimit {
		limit = maxPracticeLimit
	}

	prefs := models.PracticePreferences{Categories: categories, Difficulties: difficulties}
	if err := s.store.SavePreferences(ctx, userID, prefs); err != nil {
		s.log.Warn("save practice preferences", zap.Int64("user_id", userID), zap.Error(err))
	}

	qs, err := s.bank.Select(ctx, userID, categories, difficulties, limit)
	if err != nil {
		return nil, err
	}

	for i := range qs {
		qs[i].Question = bank.ShuffleOptions(qs[i].Question, s.shuffle)
	}
	s.shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
	return qs, nil
}

func (s *Service) Counts(ctx context.Context) (models.QuestionCounts, error) {
	return s.bank.Counts(ctx)
}

func (s *Service) Incorrect(ctx context.Context, userID int64) ([]models.IncorrectQuestion, error) {
	recs, progress, err := s.store.Incorrect(ctx, userID, incorrectLimit)
	if err != nil {
		return nil, err
	}

	out := make([]models.IncorrectQuestion, 0, len(recs))
	for i, rec := range recs {
		q, err := bank.Decode(rec)
		if err != nil {
			s.log.Debug("skipping malformed question", zap.Int64("question_id", rec.ID), zap.Error(err))
			continue
		}
		p := progress[i]
		out = append(out, models.IncorrectQuestion{
			Question:     q,
			TimesShown:   p.TimesShown,
			TimesCorrect: p.TimesCorrect,
			SuccessRate:  float64(p.TimesCorrect) / float64(p.TimesShown),
			LastShown:    p.LastShown,
		})
	}
	return out, nil
}

func (s *Service) Progress(ctx context.Context, userID, questionID int64) (*models.Progress, error) {
	p, err := s.store.GetProgress(ctx, userID, questionID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNoProgress
	}
	return p, err
}

func (s *Service) Preferences(ctx context.Context, userID int64) (models.PracticePreferences, error) {
	return s.store.GetPreferences(ctx, userID)
}

func (s *Service) SavePreferences(ctx context.Context, userID int64, prefs models.PracticePreferences) (models.PracticePreferences, error) {
	if err := s.store.SavePreferences(ctx, userID, prefs); err != nil {
		return models.PracticePreferences{}, err
	}
	return s.store.GetPreferences(ctx, userID)
}

// ── Answers ─────────────────────────────────────────────

// Grade compares the chosen option text with the correct option.
func Grade(q models.Question, selected string) (correct bool, quality int) {
	if selected == q.CorrectOption() {
		return true, review.QualityCorrect
	}
	return false, review.QualityIncorrect
}

// SubmitAnswer grades the answer and, in one transaction, records progress
// and the attempt, reschedules the question and evaluates achievements. A
// repeat of the same submission within a few seconds is graded but not
// recorded.
func (s *Service) SubmitAnswer(ctx context.Context, userID int64, req models.SubmitAnswerRequest) (*models.SubmitAnswerResponse, error) {
	q, err := s.bank.ByID(ctx, req.QuestionID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}

	correct, quality := Grade(q, req.SelectedOption)
	resp := &models.SubmitAnswerResponse{
		Correct:            correct,
		CorrectAnswerIndex: q.Correct,
		CorrectAnswer:      q.CorrectOption(),
		Explanation:        q.Explanation,
		NewAchievements:    []models.Achievement{},
	}

	first, err := s.guard.First(ctx, userID, req.QuestionID)
	if err != nil {
		s.log.Warn("answer guard unavailable", zap.Error(err))
	}
	if !first {
		resp.Duplicate = true
		return resp, nil
	}

	var unlocked []string
	err = database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		store := s.store.WithDB(tx)
		now := s.now()

		if _, err := store.RecordProgress(ctx, userID, q.ID, correct, now); err != nil {
			return err
		}
		if err := store.InsertAttempt(ctx, userID, q.ID, correct, req.TimeTaken, now); err != nil {
			return err
		}
		if _, err := s.scheduler.Schedule(ctx, tx, userID, q.ID, quality); err != nil {
			return err
		}

		ids, err := s.evaluator.Evaluate(ctx, tx, userID)
		if err != nil {
			return err
		}
		unlocked = ids
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("submit answer: %w", err)
	}

	metrics.AnswersSubmitted.WithLabelValues(strconv.FormatBool(correct)).Inc()
	resp.NewAchievements = achievements.Resolve(unlocked)
	return resp, nil
}
