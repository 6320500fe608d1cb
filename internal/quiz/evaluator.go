package quiz

import (
	"fmt"
	"strings"
)

// Evaluator decides whether a submitted answer matches the expected one.
// The backend's clients disagree on the matching rule, so it is pluggable.
type Evaluator interface {
	IsCorrect(userAnswer, correctAnswer string) bool
}

const (
	RuleExact      = "exact"
	RuleWordSubset = "word-subset"
)

// ForRule returns the evaluator for a configured rule name.
func ForRule(rule string) (Evaluator, error) {
	switch rule {
	case "", RuleExact:
		return ExactMatch{}, nil
	case RuleWordSubset:
		return WordSubset{}, nil
	}
	return nil, fmt.Errorf("unknown match rule %q", rule)
}

// ExactMatch accepts only trim+lowercase equality.
type ExactMatch struct{}

func (ExactMatch) IsCorrect(userAnswer, correctAnswer string) bool {
	return normalize(userAnswer) == normalize(correctAnswer)
}

// WordSubset accepts an answer when every word of the normalized correct
// answer appears among the user's words, so "the capital is paris" passes
// for "Paris".
type WordSubset struct{}

func (WordSubset) IsCorrect(userAnswer, correctAnswer string) bool {
	user := normalize(userAnswer)
	correct := normalize(correctAnswer)
	if user == "" || correct == "" {
		return false
	}
	if user == correct {
		return true
	}
	have := map[string]struct{}{}
	for _, w := range strings.Fields(user) {
		have[w] = struct{}{}
	}
	for _, w := range strings.Fields(correct) {
		if _, ok := have[w]; !ok {
			return false
		}
	}
	return true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
