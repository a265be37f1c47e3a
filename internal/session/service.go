package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/love-prep/backend/internal/bank"
	"github.com/love-prep/backend/internal/config"
	"github.com/love-prep/backend/internal/database"
	"github.com/love-prep/backend/internal/metrics"
	"github.com/love-prep/backend/internal/models"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound    = errors.New("no active simulation")
	ErrSessionCorrupt     = errors.New("simulation questions are no longer available")
	ErrNotEnoughQuestions = errors.New("not enough questions for a simulation")
	ErrValidation         = errors.New("invalid simulation data")
)

type Service struct {
	db      *sql.DB
	store   *Store
	bank    *bank.Store
	size    int
	seconds int
	log     *zap.Logger
	shuffle bank.ShuffleFunc
}

func NewService(db *sql.DB, store *Store, questions *bank.Store, cfg config.PracticeConfig, log *zap.Logger) *Service {
	return &Service{
		db:      db,
		store:   store,
		bank:    questions,
		size:    cfg.SimulationSize,
		seconds: cfg.SimulationSeconds,
		log:     log,
		shuffle: bank.DefaultShuffle,
	}
}

// Start picks a fresh random exam and replaces any session the user had.
func (s *Service) Start(ctx context.Context, userID int64) (*models.ResumeSessionResponse, error) {
	ids, err := s.bank.RandomIDs(ctx, s.size)
	if err != nil {
		return nil, err
	}
	if len(ids) < s.size {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughQuestions, len(ids), s.size)
	}

	sess := models.ActiveSession{
		UserID:        userID,
		SessionType:   models.SessionTypeSimulation,
		QuestionIDs:   ids,
		Answers:       make([]*string, len(ids)),
		CurrentIndex:  0,
		TimeRemaining: s.seconds,
	}
	if err := s.store.Upsert(ctx, sess); err != nil {
		return nil, err
	}
	s.log.Info("simulation started", zap.Int64("user_id", userID), zap.Int("questions", len(ids)))

	return s.withQuestions(ctx, sess)
}

func (s *Service) Get(ctx context.Context, userID int64) (*models.ActiveSession, error) {
	sess, err := s.store.Get(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if sess.SessionType != models.SessionTypeSimulation {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Resume returns the active session with its questions in stored order.
// Answers that no longer line up with the questions are reset.
func (s *Service) Resume(ctx context.Context, userID int64) (*models.ResumeSessionResponse, error) {
	sess, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(sess.Answers) != len(sess.QuestionIDs) {
		s.log.Warn("resetting mismatched simulation answers",
			zap.Int64("user_id", userID),
			zap.Int("answers", len(sess.Answers)),
			zap.Int("questions", len(sess.QuestionIDs)))
		sess.Answers = make([]*string, len(sess.QuestionIDs))
		updated, err := s.store.Update(ctx, userID, sess.QuestionIDs, sess.Answers, sess.CurrentIndex, sess.TimeRemaining)
		if err != nil {
			return nil, err
		}
		if !updated {
			return nil, ErrSessionNotFound
		}
	}

	return s.withQuestions(ctx, *sess)
}

func (s *Service) withQuestions(ctx context.Context, sess models.ActiveSession) (*models.ResumeSessionResponse, error) {
	byID, err := s.bank.ByIDs(ctx, sess.QuestionIDs)
	if err != nil {
		return nil, err
	}

	qs := make([]models.Question, 0, len(sess.QuestionIDs))
	for _, id := range sess.QuestionIDs {
		q, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: question %d", ErrSessionCorrupt, id)
		}
		qs = append(qs, bank.ShuffleOptions(q, s.shuffle))
	}
	return &models.ResumeSessionResponse{Session: sess, Questions: qs}, nil
}

// Update overwrites answers, position and clock of the active session.
func (s *Service) Update(ctx context.Context, userID int64, req models.UpdateSessionRequest) (*models.ActiveSession, error) {
	sess, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	n := len(sess.QuestionIDs)
	switch {
	case len(req.Answers) != n:
		return nil, fmt.Errorf("%w: expected %d answers, got %d", ErrValidation, n, len(req.Answers))
	case req.CurrentIndex < 0 || req.CurrentIndex >= n:
		return nil, fmt.Errorf("%w: current_index must be between 0 and %d", ErrValidation, n-1)
	case req.TimeRemaining < 0:
		return nil, fmt.Errorf("%w: time_remaining must not be negative", ErrValidation)
	}

	updated, err := s.store.Update(ctx, userID, sess.QuestionIDs, req.Answers, req.CurrentIndex, req.TimeRemaining)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrSessionNotFound
	}
	return s.Get(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID int64) error {
	existed, err := s.store.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if !existed {
		return ErrSessionNotFound
	}
	return nil
}

// Score grades answers against questions looked up by id. Every id must be
// present in byID.
func Score(ids []int64, answers []*string, byID map[int64]models.Question) models.SimulationResult {
	res := models.SimulationResult{Total: len(ids), DetailedResults: make([]models.SimulationDetail, 0, len(ids))}
	for i, id := range ids {
		q := byID[id]
		correct := answers[i] != nil && *answers[i] == q.CorrectOption()
		if correct {
			res.Score++
		}
		res.DetailedResults = append(res.DetailedResults, models.SimulationDetail{
			QuestionID:    id,
			Question:      q.Question,
			Options:       q.Options,
			Explanation:   q.Explanation,
			UserAnswer:    answers[i],
			CorrectAnswer: q.CorrectOption(),
			IsCorrect:     correct,
		})
	}
	if res.Total > 0 {
		res.Percentage = float64(res.Score) / float64(res.Total) * 100
	}
	return res
}

// Submit grades a finished simulation and clears the active session in the
// same transaction.
func (s *Service) Submit(ctx context.Context, userID int64, req models.SubmitSimulationRequest) (*models.SimulationResult, error) {
	if len(req.QuestionIDs) == 0 || len(req.Answers) == 0 {
		return nil, fmt.Errorf("%w: question_ids and answers are required", ErrValidation)
	}
	if len(req.QuestionIDs) != len(req.Answers) {
		return nil, fmt.Errorf("%w: %d answers for %d questions", ErrValidation, len(req.Answers), len(req.QuestionIDs))
	}

	var res models.SimulationResult
	err := database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		byID, err := s.bank.WithDB(tx).ByIDs(ctx, req.QuestionIDs)
		if err != nil {
			return err
		}
		for _, id := range req.QuestionIDs {
			if _, ok := byID[id]; !ok {
				return fmt.Errorf("%w: unknown question %d", ErrValidation, id)
			}
		}

		res = Score(req.QuestionIDs, req.Answers, byID)
		_, err = s.store.WithDB(tx).Delete(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.SimulationsSubmitted.Observe(res.Percentage)
	s.log.Info("simulation completed",
		zap.Int64("user_id", userID),
		zap.Int("score", res.Score),
		zap.Int("total", res.Total),
		zap.Float64("percentage", res.Percentage))
	return &res, nil
}
