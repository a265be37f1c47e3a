// Package distractor simulates ward interruptions during practice. Users can
// turn them off or tune how often they appear.
package distractor

import "github.com/love-prep/backend/internal/models"

const DefaultProbability = 25

var scenarios = []models.DistractorScenario{
	{
		Scenario: "A relative asks whether you could bring their family member a glass of water.",
		Options:  []string{"Promise to bring the water right after the medication round.", "Stop and fetch the water immediately."},
		Correct:  0,
	},
	{
		Scenario: "A doctor phones to ask about another patient's condition.",
		Options:  []string{"Ask the doctor to call back in a moment.", "Answer the doctor's questions while preparing medications."},
		Correct:  0,
	},
	{
		Scenario: "The patient in the next bed complains of sudden severe chest pain.",
		Options:  []string{"Leave the medications and go to the patient immediately.", "Press the call bell and ask a colleague to help."},
		Correct:  0,
	},
	{
		Scenario: "The medication room alarm starts ringing.",
		Options:  []string{"Check the situation quickly.", "Keep dispensing, someone else will handle it."},
		Correct:  0,
	},
	{
		Scenario: "A restless patient at risk of falling tries to get out of bed.",
		Options:  []string{"Talk calmly to the patient and guide them back to bed.", "Shout for help in the corridor."},
		Correct:  0,
	},
}

// Scenarios returns a copy of the built-in scenarios.
func Scenarios() []models.DistractorScenario {
	out := make([]models.DistractorScenario, len(scenarios))
	for i, s := range scenarios {
		s.Options = append([]string(nil), s.Options...)
		out[i] = s
	}
	return out
}

// CorrectChoice returns the expected answer for a scenario text. Unknown
// scenarios score against choice 0.
func CorrectChoice(scenario string) int {
	for _, s := range scenarios {
		if s.Scenario == scenario {
			return s.Correct
		}
	}
	return 0
}

// ClampProbability limits a percentage to 0..100.
func ClampProbability(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
