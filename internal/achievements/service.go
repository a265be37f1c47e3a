package achievements

import (
	"context"
	"time"

	"github.com/love-prep/backend/internal/database"
	"github.com/love-prep/backend/internal/metrics"
	"github.com/love-prep/backend/internal/models"
	"go.uber.org/zap"
)

type unlockStore interface {
	LoadActivity(ctx context.Context, userID int64, now time.Time) (Activity, error)
	Unlock(ctx context.Context, userID int64, achievementID string) (bool, error)
	Unlocked(ctx context.Context, userID int64) (map[string]time.Time, error)
}

type Service struct {
	db       database.DBTX
	storeFor func(database.DBTX) unlockStore
	log      *zap.Logger
	now      func() time.Time
}

func NewService(db database.DBTX, log *zap.Logger) *Service {
	return &Service{
		db:       db,
		storeFor: func(db database.DBTX) unlockStore { return NewStore(db) },
		log:      log,
		now:      time.Now,
	}
}

// Evaluate runs every rule against the user's history through db (usually
// the transaction that recorded the latest attempt) and unlocks what newly
// qualifies. It returns only the ids unlocked by this call, in catalog order,
// so repeated calls never report the same achievement twice.
func (s *Service) Evaluate(ctx context.Context, db database.DBTX, userID int64) ([]string, error) {
	store := s.storeFor(db)

	unlocked, err := store.Unlocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	activity, err := store.LoadActivity(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}

	var fresh []string
	for _, id := range Qualified(activity) {
		if _, ok := unlocked[id]; ok {
			continue
		}
		inserted, err := store.Unlock(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		if inserted {
			fresh = append(fresh, id)
			metrics.AchievementsUnlocked.WithLabelValues(id).Inc()
			s.log.Info("achievement unlocked", zap.Int64("user_id", userID), zap.String("achievement", id))
		}
	}
	return fresh, nil
}

// Resolve maps ids to catalog entries, dropping unknown ids.
func Resolve(ids []string) []models.Achievement {
	out := make([]models.Achievement, 0, len(ids))
	for _, id := range ids {
		if a, ok := Lookup(id); ok {
			out = append(out, a)
		}
	}
	return out
}

// List returns the whole catalog with the user's unlock state.
func (s *Service) List(ctx context.Context, userID int64) ([]models.UserAchievement, error) {
	unlocked, err := s.storeFor(s.db).Unlocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	all := All()
	out := make([]models.UserAchievement, len(all))
	for i, a := range all {
		out[i] = models.UserAchievement{Achievement: a}
		if at, ok := unlocked[a.ID]; ok {
			at := at
			out[i].Unlocked = true
			out[i].UnlockedAt = &at
		}
	}
	return out, nil
}
