package review

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/love-prep/backend/internal/bank"
	"github.com/love-prep/backend/internal/database"
	"github.com/love-prep/backend/internal/models"
	"go.uber.org/zap"
)

// DistractorRoller returns a distractor for the user with the given chance,
// or nil when none should be shown.
type DistractorRoller interface {
	Roll(ctx context.Context, userID int64, chance float64) (*models.DistractorScenario, error)
}

type Service struct {
	db          *sql.DB
	bank        *bank.Store
	distractors DistractorRoller
	chance      float64
	log         *zap.Logger
	shuffle     bank.ShuffleFunc
	now         func() time.Time
}

func NewService(db *sql.DB, questions *bank.Store, distractors DistractorRoller, chance float64, log *zap.Logger) *Service {
	return &Service{
		db:          db,
		bank:        questions,
		distractors: distractors,
		chance:      chance,
		log:         log,
		shuffle:     bank.DefaultShuffle,
		now:         time.Now,
	}
}

// Schedule applies an SM-2 step to an existing progress row using tx. The
// row's times_shown must already count the current attempt; the step is
// computed from the showings before it.
func (s *Service) Schedule(ctx context.Context, tx database.DBTX, userID, questionID int64, quality int) (*models.Progress, error) {
	if err := Validate(quality); err != nil {
		return nil, err
	}

	store := NewStore(tx)
	p, err := store.LockProgress(ctx, userID, questionID)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}

	interval, ease := ComputeNext(p.EaseFactor, p.IntervalDays, max(p.TimesShown-1, 0), quality)
	if err := store.SaveSchedule(ctx, userID, questionID, interval, ease); err != nil {
		return nil, err
	}

	p.IntervalDays = interval
	p.EaseFactor = ease
	return p, nil
}

// Next returns the most overdue question with shuffled options, or nil when
// nothing is due, plus an optional distractor.
func (s *Service) Next(ctx context.Context, userID int64) (*models.ReviewQuestionResponse, error) {
	due, err := s.bank.Due(ctx, userID, s.now(), 1)
	if err != nil {
		return nil, err
	}

	resp := &models.ReviewQuestionResponse{}
	if len(due) == 0 {
		return resp, nil
	}

	q := bank.ShuffleOptions(due[0].Question, s.shuffle)
	resp.Question = &q

	d, err := s.distractors.Roll(ctx, userID, s.chance)
	if err != nil {
		s.log.Warn("distractor roll failed", zap.Int64("user_id", userID), zap.Error(err))
		return resp, nil
	}
	resp.Distractor = d
	return resp, nil
}

// Due lists due questions, most overdue first, with shuffled options.
func (s *Service) Due(ctx context.Context, userID int64, limit int) ([]models.PracticeQuestion, error) {
	due, err := s.bank.Due(ctx, userID, s.now(), limit)
	if err != nil {
		return nil, err
	}
	for i := range due {
		due[i].Question = bank.ShuffleOptions(due[i].Question, s.shuffle)
	}
	return due, nil
}

func (s *Service) CountDue(ctx context.Context, userID int64) (int, error) {
	return s.bank.CountDue(ctx, userID, s.now())
}
