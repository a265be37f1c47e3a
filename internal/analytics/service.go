package analytics

import (
	"context"
	"math"
	"time"

	"github.com/love-prep/backend/internal/models"
)

// DueCounter reports how many review questions are due for a user.
type DueCounter interface {
	CountDue(ctx context.Context, userID int64) (int, error)
}

type Service struct {
	store     *Store
	due       DueCounter
	dailyGoal int
	now       func() time.Time
}

func NewService(store *Store, due DueCounter, dailyGoal int) *Service {
	return &Service{store: store, due: due, dailyGoal: dailyGoal, now: time.Now}
}

func (s *Service) Stats(ctx context.Context, userID int64) (*models.StatsResponse, error) {
	general, err := s.store.General(ctx, userID)
	if err != nil {
		return nil, err
	}
	categories, err := s.store.Categories(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := now.UTC().Truncate(24 * time.Hour)
	daily, err := s.store.Daily(ctx, userID, today.AddDate(0, 0, -6), today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	return &models.StatsResponse{
		General:    general,
		Categories: categories,
		Weekly:     WeekDays(now, daily),
	}, nil
}

func (s *Service) Recommendations(ctx context.Context, userID int64) ([]models.Recommendation, error) {
	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Recommend(stats.Categories, Today(stats.Weekly), s.dailyGoal), nil
}

func (s *Service) Dashboard(ctx context.Context, userID int64) (*models.DashboardResponse, error) {
	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	mistakes, err := s.store.MistakeCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	due, err := s.due.CountDue(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := Today(stats.Weekly)
	return &models.DashboardResponse{
		Stats:           *stats,
		CoachPick:       Weakest(stats.Categories, coachMinAttempts, math.Inf(1)),
		StrengthPick:    Strongest(stats.Categories, strongMinAttempts),
		MistakeCount:    mistakes,
		DueCount:        due,
		AnsweredToday:   today,
		DailyGoal:       s.dailyGoal,
		Recommendations: Recommend(stats.Categories, today, s.dailyGoal),
	}, nil
}
