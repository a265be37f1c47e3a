// Package achievements holds the fixed achievement catalog and unlocks
// entries for users as their practice history satisfies each rule.
package achievements

import "github.com/love-prep/backend/internal/models"

const (
	FirstSteps       = "first_steps"
	QuickLearner     = "quick_learner"
	Perfectionist    = "perfectionist"
	DedicatedLearner = "dedicated_learner"
	KnowledgeSeeker  = "knowledge_seeker"
	StreakMaster     = "streak_master"
)

// catalog is never handed out directly; All and Lookup return copies.
var catalog = []models.Achievement{
	{ID: FirstSteps, Name: "First Steps", Description: "Answered your first question", Icon: "🌟"},
	{ID: QuickLearner, Name: "Quick Learner", Description: "Answered 10 questions in under 10 seconds each", Icon: "⚡"},
	{ID: Perfectionist, Name: "Perfectionist", Description: "20 correct answers in a row", Icon: "💯"},
	{ID: DedicatedLearner, Name: "Dedicated Learner", Description: "Answered 100 questions", Icon: "📚"},
	{ID: KnowledgeSeeker, Name: "Knowledge Seeker", Description: "Practised in 5 different categories", Icon: "🧭"},
	{ID: StreakMaster, Name: "Streak Master", Description: "Practised every day for a week", Icon: "🔥"},
}

func All() []models.Achievement {
	out := make([]models.Achievement, len(catalog))
	copy(out, catalog)
	return out
}

func Lookup(id string) (models.Achievement, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return models.Achievement{}, false
}
