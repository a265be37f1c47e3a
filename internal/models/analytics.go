package models

type GeneralStats struct {
	AnsweredQuestions  int     `json:"answered_questions"`
	TotalQuestionsInDB int     `json:"total_questions_in_db"`
	AvgSuccessRate     float64 `json:"avg_success_rate"`
	TotalAttempts      int     `json:"total_attempts"`
	TotalCorrect       int     `json:"total_correct"`
}

type CategoryStats struct {
	Category      string  `json:"category"`
	QuestionCount int     `json:"question_count"`
	Attempts      int     `json:"attempts"`
	Correct       int     `json:"correct"`
	SuccessRate   float64 `json:"success_rate"`
}

type DailyActivity struct {
	Date     string `json:"date"`
	Attempts int    `json:"attempts"`
	Correct  int    `json:"correct"`
}

type StatsResponse struct {
	General    GeneralStats    `json:"general"`
	Categories []CategoryStats `json:"categories"`
	Weekly     []DailyActivity `json:"weekly"`
}

type RecommendationType string

const (
	RecommendFocusArea RecommendationType = "focus_area"
	RecommendDailyGoal RecommendationType = "daily_goal"
)

type Recommendation struct {
	Type      RecommendationType `json:"type"`
	Title     string             `json:"title"`
	Text      string             `json:"text"`
	Category  string             `json:"category,omitempty"`
	Remaining int                `json:"remaining,omitempty"`
}

type DashboardResponse struct {
	Stats           StatsResponse    `json:"stats"`
	CoachPick       *CategoryStats   `json:"coach_pick"`
	StrengthPick    *CategoryStats   `json:"strength_pick"`
	MistakeCount    int              `json:"mistake_count"`
	DueCount        int              `json:"due_count"`
	AnsweredToday   int              `json:"answered_today"`
	DailyGoal       int              `json:"daily_goal"`
	Recommendations []Recommendation `json:"recommendations"`
}
