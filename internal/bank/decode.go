// Package bank reads questions out of the question bank. Rows are decoded
// and checked at this boundary so callers only ever see usable questions.
package bank

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/love-prep/backend/internal/models"
)

var (
	ErrMalformedOptions  = errors.New("options are not a JSON list of strings")
	ErrCorrectOutOfRange = errors.New("correct index out of range")
)

// ShuffleFunc has the signature of rand.Shuffle.
type ShuffleFunc func(n int, swap func(i, j int))

// DefaultShuffle uses the global math/rand/v2 source.
var DefaultShuffle ShuffleFunc = rand.Shuffle

// Decode turns a stored row into a Question, rejecting rows whose options do
// not parse or whose correct index does not point into them.
func Decode(rec models.QuestionRecord) (models.Question, error) {
	var options []string
	if err := json.Unmarshal([]byte(rec.Options), &options); err != nil {
		return models.Question{}, fmt.Errorf("question %d: %w", rec.ID, ErrMalformedOptions)
	}
	if rec.Correct < 0 || rec.Correct >= len(options) {
		return models.Question{}, fmt.Errorf("question %d: %w (correct=%d, options=%d)",
			rec.ID, ErrCorrectOutOfRange, rec.Correct, len(options))
	}

	return models.Question{
		ID:          rec.ID,
		Question:    rec.Question,
		Options:     options,
		Correct:     rec.Correct,
		Category:    rec.Category,
		Difficulty:  rec.Difficulty,
		Explanation: rec.Explanation,
		CreatedAt:   rec.CreatedAt,
	}, nil
}

// ShuffleOptions returns a copy of q with its options permuted and Correct
// pointing at the same option text as before.
func ShuffleOptions(q models.Question, shuffle ShuffleFunc) models.Question {
	idx := make([]int, len(q.Options))
	for i := range idx {
		idx[i] = i
	}
	shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

	correct := q.Correct
	options := make([]string, len(idx))
	for newPos, oldPos := range idx {
		options[newPos] = q.Options[oldPos]
		if oldPos == correct {
			q.Correct = newPos
		}
	}
	q.Options = options
	return q
}

// EncodeOptions is the inverse of the options half of Decode.
func EncodeOptions(options []string) (string, error) {
	b, err := json.Marshal(options)
	if err != nil {
		return "", fmt.Errorf("encode options: %w", err)
	}
	return string(b), nil
}
