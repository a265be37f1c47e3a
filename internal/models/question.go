package models

import "time"

// QuestionRecord is a questions row as stored. Options is the raw JSON text
// and has not been checked against Correct.
type QuestionRecord struct {
	ID          int64
	Question    string
	Explanation string
	Options     string
	Correct     int
	Category    string
	Difficulty  string
	CreatedAt   time.Time
}

// Question is a decoded, integrity-checked question.
type Question struct {
	ID          int64     `json:"id"`
	Question    string    `json:"question"`
	Options     []string  `json:"options"`
	Correct     int       `json:"correct"`
	Category    string    `json:"category"`
	Difficulty  string    `json:"difficulty"`
	Explanation string    `json:"explanation"`
	CreatedAt   time.Time `json:"created_at"`
}

// CorrectOption returns the text of the correct answer.
func (q Question) CorrectOption() string {
	return q.Options[q.Correct]
}

type Progress struct {
	UserID       int64      `json:"user_id"`
	QuestionID   int64      `json:"question_id"`
	TimesShown   int        `json:"times_shown"`
	TimesCorrect int        `json:"times_correct"`
	LastShown    *time.Time `json:"last_shown,omitempty"`
	EaseFactor   float64    `json:"ease_factor"`
	IntervalDays int        `json:"interval"`
}

// PracticeQuestion is a question joined with the caller's progress on it.
type PracticeQuestion struct {
	Question
	Progress *Progress `json:"progress,omitempty"`
}

type Attempt struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	QuestionID  int64     `json:"question_id"`
	Correct     bool      `json:"correct"`
	TimeTaken   float64   `json:"time_taken"`
	AttemptedAt time.Time `json:"attempted_at"`
}

type IncorrectQuestion struct {
	Question
	TimesShown   int        `json:"times_shown"`
	TimesCorrect int        `json:"times_correct"`
	SuccessRate  float64    `json:"success_rate"`
	LastShown    *time.Time `json:"last_shown,omitempty"`
}

type QuestionCounts struct {
	Categories   map[string]int            `json:"categories"`
	Difficulties map[string]int            `json:"difficulties"`
	Combined     map[string]map[string]int `json:"combined"`
	Total        int                       `json:"total"`
}

type PracticePreferences struct {
	Categories   []string `json:"categories"`
	Difficulties []string `json:"difficulties"`
}

// ── Request Types ────────────────────────────────────────

type SubmitAnswerRequest struct {
	QuestionID     int64   `json:"question_id" validate:"required,gt=0"`
	SelectedOption string  `json:"selected_option" validate:"required"`
	TimeTaken      float64 `json:"time_taken" validate:"gte=0"`
}

// ── Response Types ────────────────────────────────────────

type SubmitAnswerResponse struct {
	Correct            bool          `json:"correct"`
	CorrectAnswerIndex int           `json:"correct_answer_index"`
	CorrectAnswer      string        `json:"correct_answer"`
	Explanation        string        `json:"explanation"`
	NewAchievements    []Achievement `json:"new_achievements"`
	Duplicate          bool          `json:"duplicate,omitempty"`
}

type ReviewQuestionResponse struct {
	Question   *Question           `json:"question"`
	Distractor *DistractorScenario `json:"distractor"`
}
