package util

import "testing"

func TestLower_TurkishCaseRules(t *testing.T) {
	if got := Lower("IŞIK İNCE"); got != "ışık ince" {
		t.Errorf("expected 'ışık ince', got %q", got)
	}
}

func TestSplitOn(t *testing.T) {
	got := SplitOn(`Merhaba, dünya! (test)  "alıntı"`, `,;:!?()[]{}"'`)
	expected := []string{"Merhaba", "dünya", "test", "alıntı"}
	if len(got) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("token %d: expected %q, got %q", i, expected[i], got[i])
		}
	}
}

func TestJaccard(t *testing.T) {
	a := TokenSet([]string{"bir", "iki", "üç"}, nil)
	b := TokenSet([]string{"iki", "üç", "dört"}, nil)

	if got := Jaccard(a, b); got != 0.5 {
		t.Errorf("expected 0.5, got %v", got)
	}
	if got := Jaccard(a, map[string]struct{}{}); got != 0 {
		t.Errorf("expected 0 for empty set, got %v", got)
	}
}

func TestMeanPairwise(t *testing.T) {
	items := []float64{1, 2, 4}
	diff := func(a, b float64) float64 { return b - a }
	// pairs: (1,2)=1 (1,4)=3 (2,4)=2
	if got := MeanPairwise(items, diff); got != 2 {
		t.Errorf("expected 2, got %v", got)
	}
	if got := MeanPairwise([]float64{1}, diff); got != 0 {
		t.Errorf("expected 0 for single item, got %v", got)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"çiçek", "cicek", 2},
	}
	for _, tt := range tests {
		if got := Levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("Levenshtein(%q, %q): expected %d, got %d", tt.a, tt.b, tt.want, got)
		}
	}

	if got := NormalizedEditDistance("çiçek", "cicek"); got != 0.4 {
		t.Errorf("expected 0.4, got %v", got)
	}
}

func TestRound(t *testing.T) {
	if got := Round(0.12345, 3); got != 0.123 {
		t.Errorf("expected 0.123, got %v", got)
	}
	if got := Round(0.125, 2); got != 0.13 {
		t.Errorf("expected 0.13, got %v", got)
	}
}
