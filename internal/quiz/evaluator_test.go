package quiz

import "testing"

func TestExactMatch(t *testing.T) {
	cases := []struct {
		user, correct string
		want          bool
	}{
		{"Paris", "Paris", true},
		{"paris", "Paris", true},
		{"  PARIS  ", "paris", true},
		{"4", "4", true},
		{"5", "4", false},
		{"", "Paris", false},
		{"the capital is paris", "Paris", false},
	}
	for _, c := range cases {
		if got := (ExactMatch{}).IsCorrect(c.user, c.correct); got != c.want {
			t.Errorf("ExactMatch(%q, %q) = %v, want %v", c.user, c.correct, got, c.want)
		}
	}
}

func TestWordSubset(t *testing.T) {
	cases := []struct {
		user, correct string
		want          bool
	}{
		{"Paris", "Paris", true},
		{"the capital is paris", "Paris", true},
		{"the capital is paris", "capital paris", true},
		{"paris", "capital paris", false},
		{"", "Paris", false},
		{"paris", "", false},
		{"parisian", "paris", false}, // whole words only, not substrings
	}
	for _, c := range cases {
		if got := (WordSubset{}).IsCorrect(c.user, c.correct); got != c.want {
			t.Errorf("WordSubset(%q, %q) = %v, want %v", c.user, c.correct, got, c.want)
		}
	}
}

func TestForRule(t *testing.T) {
	if _, err := ForRule(RuleExact); err != nil {
		t.Fatalf("exact: %v", err)
	}
	if _, err := ForRule(RuleWordSubset); err != nil {
		t.Fatalf("word-subset: %v", err)
	}
	if _, err := ForRule(""); err != nil {
		t.Fatalf("default: %v", err)
	}
	if _, err := ForRule("fuzzy"); err == nil {
		t.Fatalf("expected error for unknown rule")
	}
}
