package score

import (
	"math"
	"sort"
	"strings"

	"github.com/yksassistant/hakem/internal/i18n"
	"github.com/yksassistant/hakem/internal/lexicon"
	"github.com/yksassistant/hakem/internal/model"
	"github.com/yksassistant/hakem/internal/util"
)

// gapThreshold is the sub-feature score below which a gap is reported
const gapThreshold = 0.7

// maxGaps caps the reported gaps
const maxGaps = 3

// SimilarityScorer compares a question with the reference exam profile
type SimilarityScorer struct {
	ref        model.ReferenceProfile
	stems      *lexicon.Matcher
	connectors *lexicon.Matcher
	msg        *i18n.Translator
}

// NewSimilarityScorer creates a scorer for the given reference profile
func NewSimilarityScorer(ref model.ReferenceProfile, lex *lexicon.Lexicon, msg *i18n.Translator) *SimilarityScorer {
	if lex == nil {
		lex = lexicon.Default()
	}
	if msg == nil {
		msg = i18n.Default().Translator(i18n.DefaultLang)
	}
	return &SimilarityScorer{
		ref:        ref,
		stems:      lex.Matcher(lexicon.StemPattern),
		connectors: lex.Matcher(lexicon.Connector),
		msg:        msg,
	}
}

type featureScore struct {
	score float64
	gap   string
}

// Score rates the eight sub-features and combines them into a weighted mean
func (s *SimilarityScorer) Score(std model.Standardized) model.SimilarityResult {
	stem := std.Normalized.QuestionText
	f := std.BaseFeatures

	// 1. Sub-features, in reporting order
	features := []featureScore{
		s.rangeFeature(f.CharLen, s.ref.CharLength, "GapQuestionTooShort", "GapQuestionTooLong"),
		s.rangeFeature(f.TokenLen, s.ref.TokenLength, "GapTokensLow", "GapTokensHigh"),
		s.rangeFeature(f.SentenceCount, s.ref.SentenceCount, "GapSentenceAtypical", "GapSentenceAtypical"),
		s.stemPatterns(stem),
		s.connectorUsage(stem, f.CharLen),
		s.choiceTypes(f),
		s.figureConsistency(f),
		s.premiseStructure(f),
	}
	w := s.ref.Weights
	weights := []float64{
		w.CharLength, w.TokenLength, w.SentenceCount, w.StemPatterns,
		w.Connectors, w.ChoiceTypes, w.FigureConsistency, w.PremiseStructure,
	}

	// 2. Weighted mean
	sum := 0.0
	for i, fs := range features {
		sum += fs.score * weights[i]
	}
	similarity := 0.0
	if total := w.Total(); total > 0 {
		similarity = sum / total
	}

	// 3. Lowest-scoring gaps first, ties keep feature order
	var gapped []featureScore
	for _, fs := range features {
		if fs.score < gapThreshold && fs.gap != "" {
			gapped = append(gapped, fs)
		}
	}
	sort.SliceStable(gapped, func(i, j int) bool {
		return gapped[i].score < gapped[j].score
	})
	gaps := make([]string, 0, maxGaps)
	for _, fs := range gapped[:min(maxGaps, len(gapped))] {
		gaps = append(gaps, fs.gap)
	}

	return model.SimilarityResult{
		Similarity: util.Round(similarity, 2),
		FeatureScores: model.FeatureScores{
			CharLength:        util.Round(features[0].score, 2),
			TokenLength:       util.Round(features[1].score, 2),
			SentenceCount:     util.Round(features[2].score, 2),
			StemPatterns:      util.Round(features[3].score, 2),
			Connectors:        util.Round(features[4].score, 2),
			ChoiceTypes:       util.Round(features[5].score, 2),
			FigureConsistency: util.Round(features[6].score, 2),
			PremiseStructure:  util.Round(features[7].score, 2),
		},
		TopFeatureGaps: gaps,
		Reasoning:      s.reasoning(similarity, gaps),
	}
}

// ScoreInRange is the trapezoid: 0.90..1.00 inside the optimal band peaking at its
// midpoint, 0.5..0.9 linearly between the band and the absolute bounds, 0 outside.
func ScoreInRange(value float64, r model.Range) float64 {
	if value >= r.OptimalMin && value <= r.OptimalMax {
		half := (r.OptimalMax - r.OptimalMin) / 2
		if half == 0 {
			return 1.0
		}
		target := r.OptimalMin + half
		return 0.90 + 0.10*(1-math.Abs(value-target)/half)
	}
	if value >= r.Min && value < r.OptimalMin {
		return 0.5 + 0.4*(value-r.Min)/(r.OptimalMin-r.Min)
	}
	if value > r.OptimalMax && value <= r.Max {
		return 0.5 + 0.4*(r.Max-value)/(r.Max-r.OptimalMax)
	}
	return 0
}

func (s *SimilarityScorer) rangeFeature(value int, r model.Range, lowMsg, highMsg string) featureScore {
	score := ScoreInRange(float64(value), r)
	if score >= gapThreshold {
		return featureScore{score: score}
	}
	msg := highMsg
	if float64(value) < r.OptimalMin {
		msg = lowMsg
	}
	return featureScore{score: score, gap: s.msg.Td(msg, map[string]any{
		"Value": value,
		"Min":   r.OptimalMin,
		"Max":   r.OptimalMax,
	})}
}

func (s *SimilarityScorer) stemPatterns(stem string) featureScore {
	var score float64
	switch n := s.stems.Distinct(stem); {
	case n >= 3:
		score = 1.0
	case n == 2:
		score = 0.9
	case n == 1:
		score = 0.75
	default:
		score = 0.4
	}
	if score < gapThreshold {
		return featureScore{score: score, gap: s.msg.T("GapStemPatterns")}
	}
	return featureScore{score: score}
}

// connectorUsage expects more connectives in longer stems
func (s *SimilarityScorer) connectorUsage(stem string, charLen int) featureScore {
	expected := 0
	switch {
	case charLen > 200:
		expected = 2
	case charLen > 100:
		expected = 1
	}

	var score float64
	switch n := s.connectors.Distinct(stem); {
	case n >= expected:
		score = 1.0
	case n > 0:
		score = 0.7
	case charLen < 100:
		score = 0.5
	default:
		score = 0.3
	}
	if score < gapThreshold {
		return featureScore{score: score, gap: s.msg.T("GapConnectors")}
	}
	return featureScore{score: score}
}

// choiceTypes rewards choice sets dominated by one type
func (s *SimilarityScorer) choiceTypes(f model.BaseFeatures) featureScore {
	counts := make(map[model.ChoiceType]int)
	best := 0
	for _, t := range f.ChoiceTypes {
		counts[t]++
		best = max(best, counts[t])
	}
	homogeneity := float64(best) / float64(len(f.ChoiceTypes))

	switch {
	case homogeneity >= 0.8:
		return featureScore{score: 1.0}
	case homogeneity >= 0.6:
		return featureScore{score: 0.8}
	}
	return featureScore{score: 0.5, gap: s.msg.T("GapChoiceTypesMixed")}
}

func (s *SimilarityScorer) figureConsistency(f model.BaseFeatures) featureScore {
	switch {
	case f.HasFigure && !f.ReferencesFigureInText:
		return featureScore{score: 0.6, gap: s.msg.T("GapFigureUnreferenced")}
	case f.ReferencesFigureInText && !f.HasFigure:
		return featureScore{score: 0.4, gap: s.msg.T("GapFigureMissing")}
	}
	return featureScore{score: 1.0}
}

// premiseStructure penalizes many premises in a short stem, a sign of cropped OCR
func (s *SimilarityScorer) premiseStructure(f model.BaseFeatures) featureScore {
	switch {
	case f.PremiseCountProxy == 0:
		return featureScore{score: 1.0}
	case f.PremiseCountProxy >= 3 && f.CharLen < 80:
		return featureScore{score: 0.5, gap: s.msg.T("GapPremiseShortStem")}
	case f.PremiseCountProxy >= 2 && f.CharLen >= 100:
		return featureScore{score: 1.0}
	}
	return featureScore{score: 0.8}
}

func (s *SimilarityScorer) reasoning(similarity float64, gaps []string) string {
	var band string
	switch {
	case similarity >= 0.90:
		band = "SimilarityExcellent"
	case similarity >= 0.80:
		band = "SimilarityVeryGood"
	case similarity >= 0.70:
		band = "SimilarityGood"
	case similarity >= 0.50:
		band = "SimilarityModerate"
	default:
		band = "SimilarityWeak"
	}
	reasoning := s.msg.T(band)
	if len(gaps) > 0 {
		reasoning += " " + s.msg.Td("SimilarityGaps", map[string]any{
			"Gaps": strings.Join(gaps[:min(2, len(gaps))], ", "),
		})
	}
	return reasoning
}
