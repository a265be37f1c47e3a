package models

import "time"

const SessionTypeSimulation = "simulation"

// ActiveSession is the single in-flight simulation of a user. Answers holds
// the chosen option text per question, nil when unanswered.
type ActiveSession struct {
	UserID        int64     `json:"user_id"`
	SessionType   string    `json:"session_type"`
	QuestionIDs   []int64   `json:"question_ids"`
	Answers       []*string `json:"answers"`
	CurrentIndex  int       `json:"current_index"`
	TimeRemaining int       `json:"time_remaining"`
	LastUpdated   time.Time `json:"last_updated"`
}

// Answered counts non-nil answers.
func (s ActiveSession) Answered() int {
	n := 0
	for _, a := range s.Answers {
		if a != nil {
			n++
		}
	}
	return n
}

// ── Request Types ────────────────────────────────────────

type UpdateSessionRequest struct {
	Answers       []*string `json:"answers" validate:"required"`
	CurrentIndex  int       `json:"current_index" validate:"gte=0"`
	TimeRemaining int       `json:"time_remaining" validate:"gte=0"`
}

type SubmitSimulationRequest struct {
	QuestionIDs []int64   `json:"question_ids"`
	Answers     []*string `json:"answers"`
}

// ── Response Types ────────────────────────────────────────

type ResumeSessionResponse struct {
	Session   ActiveSession `json:"session"`
	Questions []Question    `json:"questions"`
}

type SimulationDetail struct {
	QuestionID    int64    `json:"question_id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Explanation   string   `json:"explanation"`
	UserAnswer    *string  `json:"user_answer"`
	CorrectAnswer string   `json:"correct_answer"`
	IsCorrect     bool     `json:"is_correct"`
}

type SimulationResult struct {
	Score           int                `json:"score"`
	Total           int                `json:"total"`
	Percentage      float64            `json:"percentage"`
	DetailedResults []SimulationDetail `json:"detailed_results"`
}
