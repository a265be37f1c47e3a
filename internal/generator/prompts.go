package generator

import (
	"fmt"
	"strings"
)

// categoryFocus steers the model toward the skills a category tests. Unknown
// categories fall back to general medication safety.
var categoryFocus = map[string]string{
	"dosage": `- Dose calculations in mg, micrograms, g and mL from stock strengths
- Weight-based doses (mg/kg) for adults and children
- Decimal-point and unit-conversion traps (0.5 mg vs 5 mg, micrograms vs mg)`,
	"infusion": `- Infusion rates in mL/h and drops/min
- Concentration after dilution and time to infuse a volume
- Pump programming errors (rate vs dose, wrong units)`,
	"abbreviations": `- Error-prone prescription abbreviations (U, IU, qd, od, trailing zeros)
- Routes of administration (s.c., i.v., i.m., p.o.) and their meaning
- Recognising ambiguous orders that must be clarified with the prescriber`,
	"pharmacology": `- Common high-alert medicines: anticoagulants, insulin, opioids, potassium
- Key adverse effects and monitoring before administration
- Interactions and contraindications a nurse must recognise`,
	"safety": `- The rights of medication administration
- Double-checking, documentation and reporting of errors
- Allergy checks, look-alike sound-alike medicines`,
}

const defaultFocus = `- Safe medication administration in a hospital ward
- Dose checks, routes and documentation
- Recognising and preventing common medication errors`

var difficultyGuide = map[string]string{
	"easy":   "Single-step reasoning or recall. One plausible distractor.",
	"medium": "Two-step calculation or applied knowledge. Two plausible distractors.",
	"hard":   "Multi-step calculation or a clinical judgement with competing priorities. All distractors plausible.",
}

func SystemPrompt() string {
	return `You are an experienced clinical nurse educator who writes medication-safety exam questions for registered nurses.

Every question must follow these rules:

QUESTION:
- One short clinical scenario or direct question, 1-3 sentences
- Uses realistic adult or paediatric ward situations
- Contains every number needed to answer it; no outside lookup
- Uses SI units and writes "micrograms" and "units" in full

OPTIONS:
- Exactly 4 options
- Exactly ONE correct option
- Wrong options reflect real errors: tenfold slips, unit confusion, wrong route, wrong patient check
- Options must be distinct and of similar length
- Numeric options include units

EXPLANATION:
- 1-3 sentences showing the calculation or the safety principle
- Names the error each tempting distractor represents when useful

You must respond with valid JSON only. No markdown, no explanation outside the JSON.`
}

func BuildUserPrompt(category, difficulty string, count int) string {
	focus, ok := categoryFocus[strings.ToLower(category)]
	if !ok {
		focus = defaultFocus
	}
	guide, ok := difficultyGuide[strings.ToLower(difficulty)]
	if !ok {
		guide = difficultyGuide["medium"]
	}

	return fmt.Sprintf(`Generate exactly %d medication-safety questions.

Category: %s
Difficulty: %s (%s)

Cover these skills, varying them across the batch:
%s

Respond with this exact JSON structure:
{
  "questions": [
    {
      "question": "...",
      "options": ["...", "...", "...", "..."],
      "correct": 2,
      "explanation": "..."
    }
  ]
}

Requirements:
- "correct" is the 0-based index of the correct option
- Vary the position of the correct option across the batch
- No two questions may test the same scenario`,
		count, category, difficulty, guide, focus)
}
