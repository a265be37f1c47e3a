package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// OptionCount is the number of answer options a drafted question must carry.
const OptionCount = 4

// ErrMalformedOutput means the model reply was not a JSON question batch.
var ErrMalformedOutput = errors.New("model output is not a question batch")

type GeneratedBatch struct {
	Questions []GeneratedQuestion `json:"questions"`
	// Rejected lists one reason per draft dropped during screening.
	Rejected []string `json:"-"`
}

type GeneratedQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// ParseResponse decodes the model output and screens every draft. It fails
// only when the JSON is unusable or no draft survives screening.
func ParseResponse(responseBody string) (*GeneratedBatch, error) {
	cleaned := stripCodeFences(responseBody)

	var raw GeneratedBatch
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if len(raw.Questions) == 0 {
		return nil, &ValidationError{Errors: []string{"no questions in batch"}}
	}

	batch := &GeneratedBatch{}
	for i, q := range raw.Questions {
		q = trimQuestion(q)
		if errs := validateQuestion(q); len(errs) > 0 {
			batch.Rejected = append(batch.Rejected, fmt.Sprintf("question %d: %s", i+1, strings.Join(errs, ", ")))
			continue
		}
		batch.Questions = append(batch.Questions, q)
	}

	if len(batch.Questions) == 0 {
		return nil, &ValidationError{Errors: batch.Rejected}
	}
	return batch, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

func trimQuestion(q GeneratedQuestion) GeneratedQuestion {
	q.Question = strings.TrimSpace(q.Question)
	q.Explanation = strings.TrimSpace(q.Explanation)
	opts := make([]string, len(q.Options))
	for i, o := range q.Options {
		opts[i] = strings.TrimSpace(o)
	}
	q.Options = opts
	return q
}

func validateQuestion(q GeneratedQuestion) []string {
	var errs []string

	if q.Question == "" {
		errs = append(errs, "empty question")
	}
	if q.Explanation == "" {
		errs = append(errs, "empty explanation")
	}
	if len(q.Options) != OptionCount {
		errs = append(errs, fmt.Sprintf("expected %d options, got %d", OptionCount, len(q.Options)))
	}
	if q.Correct < 0 || q.Correct >= OptionCount {
		errs = append(errs, fmt.Sprintf("correct index %d outside 0..%d", q.Correct, OptionCount-1))
	}

	seen := make(map[string]bool, len(q.Options))
	for j, o := range q.Options {
		if o == "" {
			errs = append(errs, fmt.Sprintf("option %d is empty", j+1))
			continue
		}
		key := strings.ToLower(o)
		if seen[key] {
			errs = append(errs, fmt.Sprintf("duplicate option %q", o))
		}
		seen[key] = true
	}
	return errs
}
