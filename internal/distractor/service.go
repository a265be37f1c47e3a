package distractor

import (
	"context"
	"math/rand/v2"

	"github.com/love-prep/backend/internal/models"
	"go.uber.org/zap"
)

type settingsStore interface {
	Settings(ctx context.Context, userID int64) (models.DistractorSettings, error)
	SetEnabled(ctx context.Context, userID int64, enabled bool) error
	SetProbability(ctx context.Context, userID int64, probability int) error
	LogAttempt(ctx context.Context, userID int64, scenario string, userChoice, correctChoice int, responseTime int) error
}

type Service struct {
	store settingsStore
	log   *zap.Logger
	roll  func() float64
	pick  func(n int) int
}

func NewService(store settingsStore, log *zap.Logger) *Service {
	return &Service{store: store, log: log, roll: rand.Float64, pick: rand.IntN}
}

func (s *Service) Settings(ctx context.Context, userID int64) (models.DistractorSettings, error) {
	return s.store.Settings(ctx, userID)
}

func (s *Service) SetEnabled(ctx context.Context, userID int64, enabled bool) (models.DistractorSettings, error) {
	if err := s.store.SetEnabled(ctx, userID, enabled); err != nil {
		return models.DistractorSettings{}, err
	}
	s.log.Info("distractors toggled", zap.Int64("user_id", userID), zap.Bool("enabled", enabled))
	return s.store.Settings(ctx, userID)
}

// SetProbability stores the percentage clamped to 0..100.
func (s *Service) SetProbability(ctx context.Context, userID int64, probability int) (models.DistractorSettings, error) {
	probability = ClampProbability(probability)
	if err := s.store.SetProbability(ctx, userID, probability); err != nil {
		return models.DistractorSettings{}, err
	}
	s.log.Info("distractor probability updated", zap.Int64("user_id", userID), zap.Int("probability", probability))
	return s.store.Settings(ctx, userID)
}

// Check draws against the user's own probability.
func (s *Service) Check(ctx context.Context, userID int64) (*models.DistractorScenario, error) {
	st, err := s.store.Settings(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.draw(st.Enabled, float64(st.Probability)/100), nil
}

// Roll draws with a fixed chance, still honouring the user's on/off switch.
func (s *Service) Roll(ctx context.Context, userID int64, chance float64) (*models.DistractorScenario, error) {
	st, err := s.store.Settings(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.draw(st.Enabled, chance), nil
}

func (s *Service) draw(enabled bool, chance float64) *models.DistractorScenario {
	if !enabled || s.roll() >= chance {
		return nil
	}
	d := Scenarios()[s.pick(len(scenarios))]
	return &d
}

func (s *Service) Submit(ctx context.Context, userID int64, req models.SubmitDistractorRequest) (models.DistractorResult, error) {
	correct := CorrectChoice(req.Scenario)
	if err := s.store.LogAttempt(ctx, userID, req.Scenario, *req.UserChoice, correct, req.ResponseTime); err != nil {
		return models.DistractorResult{}, err
	}
	return models.DistractorResult{IsCorrect: *req.UserChoice == correct, CorrectChoice: correct}, nil
}
