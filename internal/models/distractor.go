package models

type DistractorScenario struct {
	Scenario string   `json:"scenario"`
	Options  []string `json:"options"`
	Correct  int      `json:"correct"`
}

type DistractorSettings struct {
	Enabled     bool `json:"enabled"`
	Probability int  `json:"probability"`
}

// ── Request Types ────────────────────────────────────────

type ToggleDistractorsRequest struct {
	Enabled bool `json:"enabled"`
}

type DistractorProbabilityRequest struct {
	Probability int `json:"probability"`
}

type SubmitDistractorRequest struct {
	Scenario     string `json:"scenario" validate:"required"`
	UserChoice   *int   `json:"user_choice" validate:"required"`
	ResponseTime int    `json:"response_time" validate:"gte=0"`
}

// ── Response Types ────────────────────────────────────────

type DistractorCheckResponse struct {
	Distractor *DistractorScenario `json:"distractor"`
}

type DistractorResult struct {
	IsCorrect     bool `json:"is_correct"`
	CorrectChoice int  `json:"correct_choice"`
}
