package generator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func validQuestion(i int) GeneratedQuestion {
	return GeneratedQuestion{
		Question:    "A patient needs 500 mg from 250 mg tablets. How many tablets?",
		Options:     []string{"1", "2", "4", "0.5"},
		Correct:     i % OptionCount,
		Explanation: "500 mg divided by 250 mg per tablet is 2 tablets.",
	}
}

func batchJSON(qs ...GeneratedQuestion) string {
	data, _ := json.Marshal(GeneratedBatch{Questions: qs})
	return string(data)
}

func TestParseResponse_ValidJSON(t *testing.T) {
	batch, err := ParseResponse(batchJSON(validQuestion(0), validQuestion(1), validQuestion(3)))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(batch.Questions) != 3 {
		t.Errorf("expected 3 questions, got %d", len(batch.Questions))
	}
	if len(batch.Rejected) != 0 {
		t.Errorf("expected no rejections, got %v", batch.Rejected)
	}
}

func TestParseResponse_MarkdownFences(t *testing.T) {
	input := "```json\n" + batchJSON(validQuestion(0)) + "\n```"

	batch, err := ParseResponse(input)
	if err != nil {
		t.Fatalf("expected no error with markdown fences, got: %v", err)
	}
	if len(batch.Questions) != 1 {
		t.Errorf("expected 1 question, got %d", len(batch.Questions))
	}
}

func TestParseResponse_TrimsWhitespace(t *testing.T) {
	q := validQuestion(0)
	q.Question = "  " + q.Question + "\n"
	q.Options[1] = " 2 "

	batch, err := ParseResponse(batchJSON(q))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := batch.Questions[0]
	if strings.HasPrefix(got.Question, " ") || got.Options[1] != "2" {
		t.Errorf("whitespace not trimmed: %q %q", got.Question, got.Options[1])
	}
}

func TestParseResponse_RejectsBadDrafts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GeneratedQuestion)
		reason string
	}{
		{"three options", func(q *GeneratedQuestion) { q.Options = q.Options[:3] }, "expected 4 options"},
		{"five options", func(q *GeneratedQuestion) { q.Options = append(q.Options, "8") }, "expected 4 options"},
		{"correct too high", func(q *GeneratedQuestion) { q.Correct = 4 }, "correct index 4"},
		{"correct negative", func(q *GeneratedQuestion) { q.Correct = -1 }, "correct index -1"},
		{"empty question", func(q *GeneratedQuestion) { q.Question = " " }, "empty question"},
		{"empty explanation", func(q *GeneratedQuestion) { q.Explanation = "" }, "empty explanation"},
		{"empty option", func(q *GeneratedQuestion) { q.Options[2] = "" }, "option 3 is empty"},
		{"duplicate option", func(q *GeneratedQuestion) { q.Options[3] = "2" }, "duplicate option"},
		{"duplicate ignoring case", func(q *GeneratedQuestion) {
			q.Options = []string{"Oral", "oral", "IV", "IM"}
		}, "duplicate option"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := validQuestion(0)
			tt.mutate(&bad)

			batch, err := ParseResponse(batchJSON(validQuestion(1), bad))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(batch.Questions) != 1 {
				t.Fatalf("expected 1 accepted question, got %d", len(batch.Questions))
			}
			if len(batch.Rejected) != 1 || !strings.Contains(batch.Rejected[0], tt.reason) {
				t.Errorf("rejected = %v, want reason containing %q", batch.Rejected, tt.reason)
			}
			if !strings.HasPrefix(batch.Rejected[0], "question 2:") {
				t.Errorf("rejection should name question 2, got %q", batch.Rejected[0])
			}
		})
	}
}

func TestParseResponse_Errors(t *testing.T) {
	allBad := validQuestion(0)
	allBad.Correct = 9

	tests := []struct {
		name    string
		input   string
		wantVal bool
	}{
		{"invalid json", "{not json", false},
		{"empty batch", `{"questions":[]}`, true},
		{"nothing survives", batchJSON(allBad), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			var valErr *ValidationError
			if errors.As(err, &valErr) != tt.wantVal {
				t.Errorf("ValidationError = %v, want %v (err: %v)", !tt.wantVal, tt.wantVal, err)
			}
			if errors.Is(err, ErrMalformedOutput) == tt.wantVal {
				t.Errorf("ErrMalformedOutput = %v, want %v (err: %v)", tt.wantVal, !tt.wantVal, err)
			}
		})
	}
}

func TestMockClientProducesValidBatch(t *testing.T) {
	g := NewWithClient(NewMockClient(), "mock", zap.NewNop())

	batch, resp, err := g.Draft(context.Background(), "dosage", "easy", 5)
	if err != nil {
		t.Fatalf("Draft() error = %v", err)
	}
	if resp.OutputTokens == 0 {
		t.Error("expected token usage on mock response")
	}
	if len(batch.Questions) != 5 || len(batch.Rejected) != 0 {
		t.Fatalf("mock batch: %d accepted, rejected %v", len(batch.Questions), batch.Rejected)
	}
	for i, q := range batch.Questions {
		if !strings.Contains(q.Options[q.Correct], "as prescribed") {
			t.Errorf("question %d: correct option %q is not the prescribed dose", i+1, q.Options[q.Correct])
		}
	}

	kept, dropped := Deduplicate(batch.Questions, nil)
	if len(kept) != 5 || len(dropped) != 0 {
		t.Errorf("mock questions should be distinct, dropped %v", dropped)
	}
}

type failingLLM struct{}

func (failingLLM) Generate(context.Context, string, string) (*LLMResponse, error) {
	return nil, errors.New("upstream unavailable")
}

func TestDraftPropagatesClientError(t *testing.T) {
	g := NewWithClient(failingLLM{}, "test", zap.NewNop())
	if _, _, err := g.Draft(context.Background(), "dosage", "easy", 3); err == nil {
		t.Fatal("expected error from failing client")
	}
}
