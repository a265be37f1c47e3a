package review

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/love-prep/backend/internal/bank"
	"github.com/love-prep/backend/internal/database"
	"github.com/love-prep/backend/internal/models"
	"github.com/love-prep/backend/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedRoller struct {
	d     *models.DistractorScenario
	err   error
	calls []float64
}

func (f *fixedRoller) Roll(_ context.Context, _ int64, chance float64) (*models.DistractorScenario, error) {
	f.calls = append(f.calls, chance)
	return f.d, f.err
}

func newTestService(t *testing.T, roller DistractorRoller) (*Service, int64, func(opts string, lastShown time.Time, interval int) int64) {
	db := testdb.Open(t)
	user := testdb.CreateUser(t, db, "reviewer")
	svc := NewService(db, bank.NewStore(db, zap.NewNop()), roller, 0.3, zap.NewNop())

	addDue := func(opts string, lastShown time.Time, interval int) int64 {
		q := testdb.CreateQuestion(t, db, opts, 0, "dosage", "easy")
		_, err := db.Exec(`INSERT INTO user_question_progress (user_id, question_id, times_shown, last_shown, interval_days)
			VALUES ($1, $2, 1, $3, $4)`, user, q, lastShown, interval)
		require.NoError(t, err)
		return q
	}
	return svc, user, addDue
}

func TestScheduleRejectsInvalidQuality(t *testing.T) {
	svc := &Service{}
	_, err := svc.Schedule(context.Background(), nil, 1, 1, 7)
	assert.True(t, errors.Is(err, ErrInvalidQuality))
}

func TestSchedulePersists(t *testing.T) {
	svc, user, addDue := newTestService(t, &fixedRoller{})
	ctx := context.Background()
	q := addDue(`["a","b"]`, time.Now(), 1)

	var p *models.Progress
	err := database.RunInTx(ctx, svc.db, func(tx *sql.Tx) error {
		var err error
		p, err = svc.Schedule(ctx, tx, user, q, QualityCorrect)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 6, p.IntervalDays)
	assert.InDelta(t, 2.6, p.EaseFactor, 1e-9)

	var interval int
	var ease float64
	require.NoError(t, svc.db.QueryRow(
		`SELECT interval_days, ease_factor FROM user_question_progress WHERE user_id = $1 AND question_id = $2`,
		user, q).Scan(&interval, &ease))
	assert.Equal(t, 6, interval)
	assert.InDelta(t, 2.6, ease, 1e-9)
}

func TestScheduleMissingProgress(t *testing.T) {
	svc, user, _ := newTestService(t, &fixedRoller{})
	_, err := svc.Schedule(context.Background(), svc.db, user, 9999, QualityCorrect)
	assert.True(t, errors.Is(err, database.ErrNotFound))
}

func TestNextReturnsMostOverdue(t *testing.T) {
	roller := &fixedRoller{d: &models.DistractorScenario{Scenario: "Phone rings", Options: []string{"x", "y"}}}
	svc, user, addDue := newTestService(t, roller)
	ctx := context.Background()

	resp, err := svc.Next(ctx, user)
	require.NoError(t, err)
	assert.Nil(t, resp.Question)
	assert.Empty(t, roller.calls, "no distractor without a question")

	addDue(`["a","b"]`, time.Now().AddDate(0, 0, -2), 1)
	oldest := addDue(`["c","d"]`, time.Now().AddDate(0, 0, -9), 1)

	resp, err = svc.Next(ctx, user)
	require.NoError(t, err)
	require.NotNil(t, resp.Question)
	assert.Equal(t, oldest, resp.Question.ID)
	assert.Equal(t, "c", resp.Question.CorrectOption())
	assert.Equal(t, roller.d, resp.Distractor)
	assert.Equal(t, []float64{0.3}, roller.calls)
}

func TestNextIgnoresDistractorFailure(t *testing.T) {
	svc, user, addDue := newTestService(t, &fixedRoller{err: errors.New("boom")})
	addDue(`["a","b"]`, time.Now().AddDate(0, 0, -2), 1)

	resp, err := svc.Next(context.Background(), user)
	require.NoError(t, err)
	assert.NotNil(t, resp.Question)
	assert.Nil(t, resp.Distractor)
}
