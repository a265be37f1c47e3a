package distractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/love-prep/backend/internal/database"
	"github.com/love-prep/backend/internal/middleware"
	"github.com/love-prep/backend/internal/models"
	"github.com/love-prep/backend/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memStore struct {
	settings models.DistractorSettings
	logged   []int
}

func (m *memStore) Settings(context.Context, int64) (models.DistractorSettings, error) {
	return m.settings, nil
}

func (m *memStore) SetEnabled(_ context.Context, _ int64, enabled bool) error {
	m.settings.Enabled = enabled
	return nil
}

func (m *memStore) SetProbability(_ context.Context, _ int64, p int) error {
	m.settings.Probability = p
	return nil
}

func (m *memStore) LogAttempt(_ context.Context, _ int64, _ string, userChoice, _ int, _ int) error {
	m.logged = append(m.logged, userChoice)
	return nil
}

func newTestService(st *memStore, roll float64) *Service {
	svc := NewService(st, zap.NewNop())
	svc.roll = func() float64 { return roll }
	svc.pick = func(int) int { return 2 }
	return svc
}

func TestCheckUsesUserProbability(t *testing.T) {
	tests := []struct {
		name     string
		settings models.DistractorSettings
		roll     float64
		want     bool
	}{
		{"disabled", models.DistractorSettings{Enabled: false, Probability: 100}, 0, false},
		{"roll under probability", models.DistractorSettings{Enabled: true, Probability: 25}, 0.24, true},
		{"roll at probability", models.DistractorSettings{Enabled: true, Probability: 25}, 0.25, false},
		{"zero probability", models.DistractorSettings{Enabled: true, Probability: 0}, 0, false},
		{"always", models.DistractorSettings{Enabled: true, Probability: 100}, 0.999, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&memStore{settings: tt.settings}, tt.roll)
			d, err := svc.Check(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d != nil)
			if d != nil {
				assert.Equal(t, scenarios[2].Scenario, d.Scenario)
			}
		})
	}
}

func TestRollIgnoresUserProbability(t *testing.T) {
	svc := newTestService(&memStore{settings: models.DistractorSettings{Enabled: true, Probability: 0}}, 0.2)
	d, err := svc.Roll(context.Background(), 1, 0.3)
	require.NoError(t, err)
	assert.NotNil(t, d)

	d, err = svc.Roll(context.Background(), 1, 0.1)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestSetProbabilityClamps(t *testing.T) {
	for in, want := range map[int]int{-5: 0, 0: 0, 40: 40, 100: 100, 250: 100} {
		st := &memStore{settings: models.DistractorSettings{Enabled: true, Probability: DefaultProbability}}
		got, err := newTestService(st, 0).SetProbability(context.Background(), 1, in)
		require.NoError(t, err)
		assert.Equal(t, want, got.Probability, "input %d", in)
	}
}

func TestSubmit(t *testing.T) {
	st := &memStore{}
	svc := newTestService(st, 0)
	choice := func(n int) *int { return &n }

	res, err := svc.Submit(context.Background(), 1, models.SubmitDistractorRequest{Scenario: scenarios[2].Scenario, UserChoice: choice(0)})
	require.NoError(t, err)
	assert.Equal(t, models.DistractorResult{IsCorrect: true, CorrectChoice: 0}, res)

	res, err = svc.Submit(context.Background(), 1, models.SubmitDistractorRequest{Scenario: "Unknown interruption", UserChoice: choice(1)})
	require.NoError(t, err)
	assert.Equal(t, models.DistractorResult{IsCorrect: false, CorrectChoice: 0}, res)

	assert.Equal(t, []int{0, 1}, st.logged)
}

func TestEveryScenarioScoresAgainstFirstChoice(t *testing.T) {
	for _, s := range Scenarios() {
		assert.Equal(t, 0, s.Correct, s.Scenario)
		assert.Equal(t, 0, CorrectChoice(s.Scenario), s.Scenario)
	}
}

func TestScenariosReturnsCopy(t *testing.T) {
	s := Scenarios()
	require.Len(t, s, 5)
	s[0].Options[0] = "changed"
	assert.NotEqual(t, "changed", scenarios[0].Options[0])
}

func TestSubmitHandlerRequiresChoice(t *testing.T) {
	h := NewHandler(newTestService(&memStore{}, 0), zap.NewNop())

	r := httptest.NewRequest("POST", "/distractors", strings.NewReader(`{"scenario":"x"}`))
	r = r.WithContext(middleware.WithUserID(r.Context(), 1))
	w := httptest.NewRecorder()
	h.Submit(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	r = httptest.NewRequest("POST", "/distractors", strings.NewReader(`{"scenario":"x","user_choice":0}`))
	r = r.WithContext(middleware.WithUserID(r.Context(), 1))
	w = httptest.NewRecorder()
	h.Submit(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"is_correct":true,"correct_choice":0}`, w.Body.String())
}

func TestStoreSettings(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	user := testdb.CreateUser(t, db, "settings_user")
	s := NewStore(db)

	st, err := s.Settings(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, models.DistractorSettings{Enabled: true, Probability: DefaultProbability}, st)

	require.NoError(t, s.SetEnabled(ctx, user, false))
	require.NoError(t, s.SetProbability(ctx, user, 70))
	st, err = s.Settings(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, models.DistractorSettings{Enabled: false, Probability: 70}, st)

	assert.ErrorIs(t, s.SetEnabled(ctx, 9999, true), database.ErrNotFound)
	require.NoError(t, s.LogAttempt(ctx, user, "x", 1, 0, 1500))
}
