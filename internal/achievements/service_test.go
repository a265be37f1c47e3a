package achievements

import (
	"context"
	"testing"
	"time"

	"github.com/love-prep/backend/internal/database"
	"github.com/love-prep/backend/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	activity Activity
	unlocked map[string]time.Time
	inserts  int
}

func (f *fakeStore) LoadActivity(context.Context, int64, time.Time) (Activity, error) {
	return f.activity, nil
}

func (f *fakeStore) Unlock(_ context.Context, _ int64, id string) (bool, error) {
	if _, ok := f.unlocked[id]; ok {
		return false, nil
	}
	f.unlocked[id] = time.Now()
	f.inserts++
	return true, nil
}

func (f *fakeStore) Unlocked(context.Context, int64) (map[string]time.Time, error) {
	out := make(map[string]time.Time, len(f.unlocked))
	for k, v := range f.unlocked {
		out[k] = v
	}
	return out, nil
}

func newFakeService(f *fakeStore) *Service {
	return &Service{
		storeFor: func(database.DBTX) unlockStore { return f },
		log:      zap.NewNop(),
		now:      time.Now,
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	f := &fakeStore{
		activity: Activity{TotalAttempts: 12, QuickAttempts: 11},
		unlocked: map[string]time.Time{},
	}
	svc := newFakeService(f)
	ctx := context.Background()

	first, err := svc.Evaluate(ctx, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{FirstSteps, QuickLearner}, first)

	second, err := svc.Evaluate(ctx, nil, 1)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, 2, f.inserts)
}

func TestEvaluateReturnsOnlyNewUnlocks(t *testing.T) {
	f := &fakeStore{
		activity: Activity{TotalAttempts: 100},
		unlocked: map[string]time.Time{FirstSteps: time.Now()},
	}
	got, err := newFakeService(f).Evaluate(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{DedicatedLearner}, got)
}

func TestListMarksUnlocked(t *testing.T) {
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	f := &fakeStore{unlocked: map[string]time.Time{Perfectionist: at}}

	list, err := newFakeService(f).List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, len(All()))
	for _, ua := range list {
		if ua.ID == Perfectionist {
			assert.True(t, ua.Unlocked)
			assert.Equal(t, at, *ua.UnlockedAt)
		} else {
			assert.False(t, ua.Unlocked)
			assert.Nil(t, ua.UnlockedAt)
		}
	}
}

func TestResolve(t *testing.T) {
	got := Resolve([]string{StreakMaster, "unknown", FirstSteps})
	require.Len(t, got, 2)
	assert.Equal(t, StreakMaster, got[0].ID)
	assert.Equal(t, FirstSteps, got[1].ID)
}

func TestStoreUnlockAndActivity(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	user := testdb.CreateUser(t, db, "achiever")
	now := time.Now()

	for i, cat := range []string{"a", "b", "c", "d", "e"} {
		q := testdb.CreateQuestion(t, db, `["x","y"]`, 0, cat, "easy")
		_, err := db.Exec(`INSERT INTO question_attempts (user_id, question_id, correct, time_taken, attempted_at)
			VALUES ($1, $2, TRUE, 4, $3)`, user, q, now.AddDate(0, 0, -i))
		require.NoError(t, err)
	}

	s := NewStore(db)
	a, err := s.LoadActivity(ctx, user, now)
	require.NoError(t, err)
	assert.Equal(t, 5, a.TotalAttempts)
	assert.Equal(t, 5, a.QuickAttempts)
	assert.Equal(t, 5, a.DistinctCategories)
	assert.Len(t, a.RecentResults, 5)
	assert.Equal(t, 5, a.ActiveDays)

	svc := NewService(db, zap.NewNop())
	first, err := svc.Evaluate(ctx, db, user)
	require.NoError(t, err)
	assert.Equal(t, []string{FirstSteps, KnowledgeSeeker}, first)

	again, err := svc.Evaluate(ctx, db, user)
	require.NoError(t, err)
	assert.Empty(t, again)

	inserted, err := s.Unlock(ctx, user, FirstSteps)
	require.NoError(t, err)
	assert.False(t, inserted)

	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM user_achievements WHERE user_id = $1`, user).Scan(&rows))
	assert.Equal(t, 2, rows)
}
