package score

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/yksassistant/hakem/internal/i18n"
	"github.com/yksassistant/hakem/internal/lexicon"
	"github.com/yksassistant/hakem/internal/model"
	"github.com/yksassistant/hakem/internal/util"
)

// distractorSeparators split choices into tokens, in addition to whitespace
const distractorSeparators = `,;:!?()[]{}"'<>=+-*/`

// DistractorAnalyzer scores how plausible and balanced the wrong answers are
type DistractorAnalyzer struct {
	msg *i18n.Translator
}

// NewDistractorAnalyzer creates a distractor analyzer
func NewDistractorAnalyzer(msg *i18n.Translator) *DistractorAnalyzer {
	if msg == nil {
		msg = i18n.Default().Translator(i18n.DefaultLang)
	}
	return &DistractorAnalyzer{msg: msg}
}

// Analyze scores diversity and length balance, and classifies every choice
func (a *DistractorAnalyzer) Analyze(std model.Standardized) model.DistractorResult {
	choices := std.Normalized.Choices
	types := std.BaseFeatures.ChoiceTypes
	numericSet := dominantType(types) == model.ChoiceNumeric

	// 1. Diversity, by the dominant choice type
	var (
		diversity, editDistance float64
		hasOutlier              bool
		notes                   []string
	)
	if numericSet {
		diversity, hasOutlier, notes = a.numericDiversity(choices)
	} else {
		diversity, editDistance, notes = a.statementDiversity(choices)
	}

	// 2. Length balance
	balance, lengthNotes := a.lengthBalance(choices)
	notes = append(notes, lengthNotes...)

	// 3. Per-choice traps
	analysis := make([]model.ChoiceAnalysis, len(model.Labels))
	balanced := 0
	for i, label := range model.Labels {
		trap, sim := classifyTrap(i, choices, types, numericSet)
		if trap == model.TrapBalanced {
			balanced++
		}
		analysis[i] = model.ChoiceAnalysis{
			Choice:             label,
			TrapType:           trap,
			SimilarityToOthers: util.Round(sim, 2),
			Length:             util.RuneLen(choices[i]),
		}
	}

	// 4. Composite
	quality := 0.4*diversity + 0.3*balance + 0.3*float64(balanced)/float64(len(analysis))
	if hasOutlier {
		quality *= 0.8
	}

	return model.DistractorResult{
		Quality:      util.Round(quality, 2),
		Diversity:    util.Round(diversity, 2),
		EditDistance: util.Round(editDistance, 2),
		HasOutlier:   hasOutlier,
		Analysis:     analysis,
		Reasoning:    a.reasoning(quality, notes),
	}
}

// numericDiversity checks the spread of the first number in each choice
func (a *DistractorAnalyzer) numericDiversity(choices model.Choices) (float64, bool, []string) {
	type labeled struct {
		label string
		value float64
	}
	var values []labeled
	for i, c := range choices {
		if v, ok := firstNumber(c); ok {
			values = append(values, labeled{model.Labels[i], v})
		}
	}
	if len(values) < 3 {
		return 1.0, false, nil
	}

	sorted := make([]float64, len(values))
	for i, v := range values {
		sorted[i] = v.value
	}
	sort.Float64s(sorted)

	var notes []string

	// Outliers by the interquartile range
	n := len(sorted)
	q1, q3 := sorted[n/4], sorted[3*n/4]
	iqr := q3 - q1
	lower, upper := q1-1.5*iqr, q3+1.5*iqr

	var outliers []string
	for _, v := range values {
		if v.value < lower || v.value > upper {
			outliers = append(outliers, v.label)
		}
	}
	if len(outliers) > 0 {
		notes = append(notes, a.msg.Td("DistractorOutliers", map[string]any{"Labels": strings.Join(outliers, ", ")}))
	}

	// Gaps between consecutive values
	gaps := make([]float64, n-1)
	for i := range gaps {
		gaps[i] = sorted[i+1] - sorted[i]
	}
	meanGap, _ := meanVariance(gaps)
	minGap, maxGap := gaps[0], gaps[0]
	for _, g := range gaps[1:] {
		minGap = min(minGap, g)
		maxGap = max(maxGap, g)
	}

	diversity := 1.0
	switch {
	case meanGap == 0:
		diversity = 0.3
		notes = append(notes, a.msg.T("DistractorValuesTooClose"))
	case minGap > 0 && maxGap > 3*minGap:
		diversity = 0.6
		notes = append(notes, a.msg.T("DistractorValuesIrregular"))
	}

	return diversity, len(outliers) > 0, notes
}

// statementDiversity bands the mean pairwise token overlap of the non-empty choices.
// The mean normalized edit distance is returned alongside for reporting.
func (a *DistractorAnalyzer) statementDiversity(choices model.Choices) (float64, float64, []string) {
	var texts []string
	for _, c := range choices {
		if c != "" {
			texts = append(texts, c)
		}
	}
	if len(texts) < 2 {
		return 1.0, 0, nil
	}

	sets := make([]map[string]struct{}, len(texts))
	for i, t := range texts {
		sets[i] = distractorTokens(t)
	}
	similarity := util.MeanPairwise(sets, util.Jaccard)
	editDistance := util.MeanPairwise(texts, util.NormalizedEditDistance)

	switch {
	case similarity > 0.8:
		return 0.3, editDistance, []string{a.msg.T("DistractorTooSimilar")}
	case similarity > 0.5:
		return 0.6, editDistance, []string{a.msg.T("DistractorModeratelySimilar")}
	case similarity < 0.1:
		return 0.7, editDistance, []string{a.msg.T("DistractorTooDifferent")}
	}
	return 1.0, editDistance, nil
}

// lengthBalance bands the coefficient of variation of the non-empty choice lengths
func (a *DistractorAnalyzer) lengthBalance(choices model.Choices) (float64, []string) {
	var lengths []float64
	for _, c := range choices {
		if c != "" {
			lengths = append(lengths, float64(util.RuneLen(c)))
		}
	}
	if len(lengths) < 3 {
		return 1.0, nil
	}

	mean, variance := meanVariance(lengths)
	cv := 0.0
	if mean > 0 {
		cv = math.Sqrt(variance) / mean
	}

	switch {
	case cv < 0.1:
		return 0.7, []string{a.msg.T("DistractorLengthUniform")}
	case cv > 0.8:
		return 0.6, []string{a.msg.T("DistractorLengthVariable")}
	}
	return 1.0, nil
}

// classifyTrap labels choice i against the other four slots
func classifyTrap(i int, choices model.Choices, types model.ByLabel[model.ChoiceType], numericSet bool) (model.TrapType, float64) {
	if choices[i] == "" {
		return model.TrapUnknown, 0
	}

	mine := distractorTokens(choices[i])
	total := 0.0
	for j, other := range choices {
		if j != i {
			total += util.Jaccard(mine, distractorTokens(other))
		}
	}
	sim := total / float64(len(choices)-1)

	if numericSet && types[i] == model.ChoiceNumeric && isNumericOutlier(i, choices) {
		return model.TrapNumericOutlier, sim
	}

	switch {
	case sim > 0.7:
		return model.TrapTooSimilar, sim
	case sim < 0.1:
		return model.TrapTooDifferent, sim
	}
	return model.TrapBalanced, sim
}

// isNumericOutlier reports whether choice i sits more than twice the largest peer
// deviation away from the peer mean. Peers that all agree never produce an outlier.
func isNumericOutlier(i int, choices model.Choices) bool {
	mine, ok := firstNumber(choices[i])
	if !ok {
		return false
	}
	var peers []float64
	for j, c := range choices {
		if j == i {
			continue
		}
		if v, ok := firstNumber(c); ok {
			peers = append(peers, v)
		}
	}
	if len(peers) == 0 {
		return false
	}

	mean, _ := meanVariance(peers)
	maxDev := 0.0
	for _, p := range peers {
		maxDev = max(maxDev, math.Abs(p-mean))
	}
	if maxDev == 0 {
		return false
	}
	return math.Abs(mine-mean) > 2*maxDev
}

// dominantType returns the most frequent choice type, earliest label wins ties
func dominantType(types model.ByLabel[model.ChoiceType]) model.ChoiceType {
	counts := make(map[model.ChoiceType]int, len(types))
	best, bestCount := model.ChoiceStatement, 0
	for _, t := range types {
		counts[t]++
	}
	for _, t := range types {
		if counts[t] > bestCount {
			best, bestCount = t, counts[t]
		}
	}
	return best
}

// distractorTokens lowercases and splits a choice, keeping tokens longer than one rune
func distractorTokens(text string) map[string]struct{} {
	return util.TokenSet(util.SplitOn(util.Lower(text), distractorSeparators), func(tok string) bool {
		return util.RuneLen(tok) > 1
	})
}

// firstNumber parses the first signed number in text, comma as decimal separator
func firstNumber(text string) (float64, bool) {
	m := lexicon.SignedNumber.FindString(strings.ReplaceAll(text, ",", "."))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (a *DistractorAnalyzer) reasoning(quality float64, notes []string) string {
	top := strings.Join(notes[:min(2, len(notes))], "; ")
	switch {
	case quality >= 0.8:
		return a.msg.T("DistractorGood")
	case quality >= 0.6:
		return a.msg.T("DistractorAcceptable")
	case quality >= 0.4:
		return a.msg.Td("DistractorSomeIssues", map[string]any{"Notes": top})
	}
	return a.msg.Td("DistractorPoor", map[string]any{"Notes": top})
}
