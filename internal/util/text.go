package util

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RuneLen counts code points, the unit every length threshold is expressed in
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Lower applies Turkish case mapping (I → ı, İ → i).
// A Caser is stateful, so each call builds its own.
func Lower(s string) string {
	return cases.Lower(language.Turkish).String(s)
}

// SplitOn splits s on whitespace and any rune in seps, dropping empty parts
func SplitOn(s, seps string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(seps, r)
	})
}

// TokenSet returns the set of tokens accepted by keep
func TokenSet(tokens []string, keep func(string) bool) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if keep == nil || keep(t) {
			set[t] = struct{}{}
		}
	}
	return set
}

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when either set is empty
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// MeanPairwise averages f over every unordered pair of items; 0 when fewer than two
func MeanPairwise[T any](items []T, f func(a, b T) float64) float64 {
	sum, n := 0.0, 0
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			sum += f(items[i], items[j])
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Levenshtein returns the edit distance between a and b in runes
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i, ca := range ra {
		curr[0] = i + 1
		for j, cb := range rb {
			cost := 1
			if ca == cb {
				cost = 0
			}
			curr[j+1] = min(prev[j+1]+1, curr[j]+1, prev[j]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// NormalizedEditDistance scales Levenshtein into [0,1]; 0 means identical
func NormalizedEditDistance(a, b string) float64 {
	maxLen := max(RuneLen(a), RuneLen(b))
	if maxLen == 0 {
		return 0
	}
	return float64(Levenshtein(a, b)) / float64(maxLen)
}

// Round rounds x to the given number of decimal places
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
