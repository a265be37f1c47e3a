package generator

import "strings"

// DuplicateThreshold is the keyword overlap above which a draft is treated as
// a restatement of an existing question.
const DuplicateThreshold = 0.6

// Deduplicate drops drafts whose question text overlaps an existing question
// or an earlier draft in the same batch by more than DuplicateThreshold.
func Deduplicate(drafts []GeneratedQuestion, existing []string) (kept []GeneratedQuestion, dropped []string) {
	seen := make([]map[string]bool, 0, len(existing)+len(drafts))
	for _, text := range existing {
		seen = append(seen, tokenize(text))
	}

	for _, d := range drafts {
		tokens := tokenize(d.Question)
		if isNearDuplicate(tokens, seen) {
			dropped = append(dropped, d.Question)
			continue
		}
		seen = append(seen, tokens)
		kept = append(kept, d)
	}
	return kept, dropped
}

func isNearDuplicate(tokens map[string]bool, seen []map[string]bool) bool {
	for _, other := range seen {
		if jaccardSimilarity(tokens, other) > DuplicateThreshold {
			return true
		}
	}
	return false
}

func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(s)) {
		word = strings.Trim(word, ".,;:?!()\"'")
		// Skip very short words (articles, prepositions)
		if len(word) > 3 {
			tokens[word] = true
		}
	}
	return tokens
}

func jaccardSimilarity(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for k := range a {
		if b[k] {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}
