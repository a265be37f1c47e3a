package achievements

const (
	quickAnswerSeconds = 10.0
	quickAnswersNeeded = 10
	perfectRunLength   = 20
	dedicatedAttempts  = 100
	seekerCategories   = 5
	streakDays         = 7
)

// Activity is the slice of a user's history the rules look at.
type Activity struct {
	TotalAttempts      int
	QuickAttempts      int
	RecentResults      []bool // newest first, at most perfectRunLength
	DistinctCategories int
	ActiveDays         int // days with an attempt among the last streakDays, today included
}

type rule struct {
	id    string
	check func(Activity) bool
}

// rules run in catalog order.
var rules = []rule{
	{FirstSteps, func(a Activity) bool { return a.TotalAttempts >= 1 }},
	{QuickLearner, func(a Activity) bool { return a.QuickAttempts >= quickAnswersNeeded }},
	{Perfectionist, perfectRun},
	{DedicatedLearner, func(a Activity) bool { return a.TotalAttempts >= dedicatedAttempts }},
	{KnowledgeSeeker, func(a Activity) bool { return a.DistinctCategories >= seekerCategories }},
	{StreakMaster, func(a Activity) bool { return a.ActiveDays >= streakDays }},
}

func perfectRun(a Activity) bool {
	if len(a.RecentResults) < perfectRunLength {
		return false
	}
	for _, ok := range a.RecentResults[:perfectRunLength] {
		if !ok {
			return false
		}
	}
	return true
}

// Qualified returns the ids of every rule a satisfies, in rule order.
func Qualified(a Activity) []string {
	var ids []string
	for _, r := range rules {
		if r.check(a) {
			ids = append(ids, r.id)
		}
	}
	return ids
}
