package bank

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/love-prep/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(options string, correct int) models.QuestionRecord {
	return models.QuestionRecord{
		ID:         1,
		Question:   "Max paracetamol dose for an adult?",
		Options:    options,
		Correct:    correct,
		Category:   "dosage",
		Difficulty: "easy",
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		options string
		correct int
		wantErr error
	}{
		{"valid", `["4 g","8 g","1 g"]`, 0, nil},
		{"last index", `["4 g","8 g","1 g"]`, 2, nil},
		{"correct past end", `["4 g","8 g","1 g"]`, 5, ErrCorrectOutOfRange},
		{"correct equals length", `["4 g","8 g","1 g"]`, 3, ErrCorrectOutOfRange},
		{"negative correct", `["4 g","8 g"]`, -1, ErrCorrectOutOfRange},
		{"empty list", `[]`, 0, ErrCorrectOutOfRange},
		{"not json", `4 g, 8 g`, 0, ErrMalformedOptions},
		{"wrong element type", `[1,2,3]`, 0, ErrMalformedOptions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Decode(record(tt.options, tt.correct))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decode() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.correct, q.Correct)
			assert.Equal(t, "dosage", q.Category)
		})
	}
}

func TestShuffleOptionsKeepsCorrectText(t *testing.T) {
	q, err := Decode(record(`["a","b","c","d"]`, 2))
	require.NoError(t, err)

	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		got := ShuffleOptions(q, r.Shuffle)
		assert.Equal(t, "c", got.CorrectOption())
		assert.ElementsMatch(t, q.Options, got.Options)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, q.Options, "input must not be mutated")
}

func TestShuffleOptionsReversal(t *testing.T) {
	q := models.Question{Options: []string{"a", "b", "c"}, Correct: 0}
	reverse := func(n int, swap func(i, j int)) {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			swap(i, j)
		}
	}
	got := ShuffleOptions(q, reverse)
	assert.Equal(t, []string{"c", "b", "a"}, got.Options)
	assert.Equal(t, 2, got.Correct)
}

// permute returns every ordering of 0..n-1.
func permute(n int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	var out [][]int
	for _, p := range permute(n - 1) {
		for pos := 0; pos <= len(p); pos++ {
			perm := append(append(append([]int{}, p[:pos]...), n-1), p[pos:]...)
			out = append(out, perm)
		}
	}
	return out
}

// applying returns a ShuffleFunc that leaves idx[i] == perm[i].
func applying(perm []int) ShuffleFunc {
	return func(n int, swap func(i, j int)) {
		cur := make([]int, n)
		for i := range cur {
			cur[i] = i
		}
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				if cur[j] == perm[i] {
					swap(i, j)
					cur[i], cur[j] = cur[j], cur[i]
					break
				}
			}
		}
	}
}

func TestShuffleOptionsEveryPermutation(t *testing.T) {
	tests := []struct {
		name    string
		options []string
	}{
		{"three options", []string{"a", "b", "c"}},
		{"four options", []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for correct := range tt.options {
				q := models.Question{Options: tt.options, Correct: correct}
				for _, perm := range permute(len(tt.options)) {
					got := ShuffleOptions(q, applying(perm))
					for newPos, oldPos := range perm {
						require.Equal(t, tt.options[oldPos], got.Options[newPos], "perm %v", perm)
					}
					assert.Equal(t, tt.options[correct], got.CorrectOption(), "perm %v correct %d", perm, correct)
				}
			}
		})
	}
}

func TestShuffleOptionsRotation(t *testing.T) {
	q := models.Question{Options: []string{"a", "b", "c"}, Correct: 0}
	got := ShuffleOptions(q, applying([]int{2, 0, 1}))
	assert.Equal(t, []string{"c", "a", "b"}, got.Options)
	assert.Equal(t, 1, got.Correct)
	assert.Equal(t, "a", got.CorrectOption())
}

func TestEncodeOptionsRoundTrip(t *testing.T) {
	s, err := EncodeOptions([]string{"5 mg", "10 mg"})
	require.NoError(t, err)
	q, err := Decode(record(s, 1))
	require.NoError(t, err)
	assert.Equal(t, "10 mg", q.CorrectOption())
}
