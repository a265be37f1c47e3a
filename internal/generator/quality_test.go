package generator

import (
	"math"
	"testing"
)

func TestJaccardSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "heparin infusion rate check", "heparin infusion rate check", 1},
		{"disjoint", "heparin infusion", "insulin sliding scale", 0},
		{"half", "heparin infusion rate", "heparin infusion dose", 0.5},
		{"short words ignored", "the a of", "to in at", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := jaccardSimilarity(tokenize(tt.a), tokenize(tt.b))
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("jaccardSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenizeStripsPunctuation(t *testing.T) {
	tokens := tokenize("Which dose? (Heparin), units.")
	for _, want := range []string{"which", "dose", "heparin", "units"} {
		if !tokens[want] {
			t.Errorf("missing token %q in %v", want, tokens)
		}
	}
}

func TestDeduplicate(t *testing.T) {
	existing := []string{"Calculate the heparin infusion rate for a patient weighing 80 kg."}
	drafts := []GeneratedQuestion{
		{Question: "Calculate the heparin infusion rate for a patient weighing 70 kg."},
		{Question: "Which abbreviation for units must never be written on a prescription?"},
		{Question: "Which abbreviation for units must never be written on a prescription chart?"},
		{Question: "How many paracetamol tablets make up a 1 g dose?"},
	}

	kept, dropped := Deduplicate(drafts, existing)

	if len(kept) != 2 {
		t.Fatalf("expected 2 kept drafts, got %d: %v", len(kept), kept)
	}
	if kept[0].Question != drafts[1].Question || kept[1].Question != drafts[3].Question {
		t.Errorf("unexpected drafts kept: %v", kept)
	}
	if len(dropped) != 2 {
		t.Errorf("expected 2 dropped drafts, got %v", dropped)
	}
}
