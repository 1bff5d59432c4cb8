package lexicon

import (
	"fmt"
	"sync"
	"time"

	"github.com/dlclark/regexp2"
)

// matchTimeout bounds a single pattern evaluation; markers are short and anchored
// on word boundaries, so hitting it means the input is pathological.
const matchTimeout = 250 * time.Millisecond

type entry struct {
	re     *regexp2.Regexp
	weight float64
}

// Matcher evaluates one category of markers against text
type Matcher struct {
	entries []entry
}

// Match reports whether any marker occurs in text
func (m *Matcher) Match(text string) bool {
	for _, e := range m.entries {
		if ok, err := e.re.MatchString(text); err == nil && ok {
			return true
		}
	}
	return false
}

// Count returns the weighted number of non-overlapping marker occurrences
func (m *Matcher) Count(text string) float64 {
	total := 0.0
	for _, e := range m.entries {
		total += float64(countMatches(e.re, text)) * e.weight
	}
	return total
}

// Distinct returns how many different markers occur at least once
func (m *Matcher) Distinct(text string) int {
	n := 0
	for _, e := range m.entries {
		if ok, err := e.re.MatchString(text); err == nil && ok {
			n++
		}
	}
	return n
}

func countMatches(re *regexp2.Regexp, text string) int {
	n := 0
	match, err := re.FindStringMatch(text)
	for err == nil && match != nil {
		n++
		match, err = re.FindNextMatch(match)
	}
	return n
}

// Lexicon holds compiled matchers for every category
type Lexicon struct {
	matchers map[Category]*Matcher
}

// New compiles the given tables
func New(tables []Table) (*Lexicon, error) {
	l := &Lexicon{matchers: make(map[Category]*Matcher, len(tables))}

	for _, t := range tables {
		opts := regexp2.RegexOptions(regexp2.IgnoreCase)
		if t.CaseSensitive {
			opts = regexp2.None
		}

		m := &Matcher{}
		for _, p := range t.Patterns {
			re, err := regexp2.Compile(p.Expr, opts)
			if err != nil {
				return nil, fmt.Errorf("compile %s pattern %q: %w", t.Category, p.Expr, err)
			}
			re.MatchTimeout = matchTimeout
			m.entries = append(m.entries, entry{re: re, weight: p.Weight})
		}
		l.matchers[t.Category] = m
	}

	return l, nil
}

// Matcher returns the matcher for a category; unknown categories match nothing
func (l *Lexicon) Matcher(c Category) *Matcher {
	if m, ok := l.matchers[c]; ok {
		return m
	}
	return &Matcher{}
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default returns the shared lexicon built from DefaultTables
func Default() *Lexicon {
	defaultOnce.Do(func() {
		l, err := New(DefaultTables())
		if err != nil {
			panic(err)
		}
		defaultLex = l
	})
	return defaultLex
}
