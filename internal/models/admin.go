package models

// ── Request Types ────────────────────────────────────────

// NewQuestionRequest takes the correct option and three distractor options;
// the stored option order is shuffled.
type NewQuestionRequest struct {
	Question      string   `json:"question" validate:"required"`
	Explanation   string   `json:"explanation" validate:"required"`
	Category      string   `json:"category" validate:"required"`
	Difficulty    string   `json:"difficulty" validate:"required"`
	CorrectOption string   `json:"correct_option" validate:"required"`
	WrongOptions  []string `json:"wrong_options" validate:"len=3,dive,required"`
}

type EditQuestionRequest struct {
	Question    string   `json:"question" validate:"required"`
	Explanation string   `json:"explanation" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Difficulty  string   `json:"difficulty" validate:"required"`
	Options     []string `json:"options" validate:"min=2,dive,required"`
	Correct     int      `json:"correct" validate:"gte=0"`
}

type GenerateQuestionsRequest struct {
	Category   string `json:"category" validate:"required"`
	Difficulty string `json:"difficulty" validate:"required"`
	Count      int    `json:"count" validate:"gte=0,lte=20"`
}

// ── Response Types ────────────────────────────────────────

type QuestionListResponse struct {
	Questions []Question `json:"questions"`
	Total     int        `json:"total"`
	Page      int        `json:"page"`
	PageSize  int        `json:"page_size"`
}

type AdminCategoryStats struct {
	Category    string  `json:"category"`
	Attempts    int     `json:"attempts"`
	SuccessRate float64 `json:"success_rate"`
}

type AdminStats struct {
	TotalUsers     int                  `json:"total_users"`
	TotalQuestions int                  `json:"total_questions"`
	TotalAttempts  int                  `json:"total_attempts"`
	AvgSuccessRate float64              `json:"avg_success_rate"`
	Categories     []AdminCategoryStats `json:"categories"`
}

type GenerateQuestionsResponse struct {
	Model     string     `json:"model"`
	Inserted  int        `json:"inserted"`
	Rejected  int        `json:"rejected"`
	Questions []Question `json:"questions"`
}
