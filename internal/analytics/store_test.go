package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/love-prep/backend/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedDue int

func (f fixedDue) CountDue(context.Context, int64) (int, error) { return int(f), nil }

func TestDashboard(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	user := testdb.CreateUser(t, db, "analyst")

	dosage := testdb.CreateQuestion(t, db, `["a","b"]`, 0, "dosage", "easy")
	abbr := testdb.CreateQuestion(t, db, `["a","b"]`, 0, "abbreviations", "easy")
	testdb.CreateQuestion(t, db, `["a","b"]`, 0, "infusion", "easy")

	_, err := db.Exec(`INSERT INTO user_question_progress (user_id, question_id, times_shown, times_correct, last_shown)
		VALUES ($1, $2, 6, 2, NOW()), ($1, $3, 10, 10, NOW())`, user, dosage, abbr)
	require.NoError(t, err)

	now := time.Now()
	for i := 0; i < 3; i++ {
		_, err := db.Exec(`INSERT INTO question_attempts (user_id, question_id, correct, attempted_at) VALUES ($1, $2, $3, $4)`,
			user, dosage, i == 0, now)
		require.NoError(t, err)
	}

	svc := NewService(NewStore(db), fixedDue(4), 20)
	dash, err := svc.Dashboard(ctx, user)
	require.NoError(t, err)

	g := dash.Stats.General
	assert.Equal(t, 2, g.AnsweredQuestions)
	assert.Equal(t, 3, g.TotalQuestionsInDB)
	assert.Equal(t, 16, g.TotalAttempts)
	assert.Equal(t, 12, g.TotalCorrect)
	assert.InDelta(t, (2.0/6+1)/2, g.AvgSuccessRate, 1e-9)

	require.Len(t, dash.Stats.Categories, 2)
	assert.Equal(t, "dosage", dash.Stats.Categories[0].Category)

	require.NotNil(t, dash.CoachPick)
	assert.Equal(t, "dosage", dash.CoachPick.Category)
	require.NotNil(t, dash.StrengthPick)
	assert.Equal(t, "abbreviations", dash.StrengthPick.Category)

	assert.Equal(t, 1, dash.MistakeCount)
	assert.Equal(t, 4, dash.DueCount)
	assert.Equal(t, 3, dash.AnsweredToday)
	require.Len(t, dash.Recommendations, 2)
	assert.Equal(t, 17, dash.Recommendations[1].Remaining)
}
