package score

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yksassistant/hakem/internal/i18n"
	"github.com/yksassistant/hakem/internal/lexicon"
	"github.com/yksassistant/hakem/internal/model"
	"github.com/yksassistant/hakem/internal/util"
)

var axisMessages = map[model.CognitiveAxis]string{
	model.AxisComputation: "AxisComputationHeavy",
	model.AxisConcept:     "AxisConceptHeavy",
	model.AxisRelation:    "AxisRelationBuilding",
	model.AxisReadingTrap: "AxisReadingTrap",
	model.AxisTimeSink:    "AxisTimeSink",
	model.AxisPattern:     "AxisPatternRecognition",
}

// CognitiveAnalyzer scores which cognitive skills a question exercises
type CognitiveAnalyzer struct {
	computation *lexicon.Matcher
	concept     *lexicon.Matcher
	relation    *lexicon.Matcher
	readingTrap *lexicon.Matcher
	timeSink    *lexicon.Matcher
	pattern     *lexicon.Matcher
	msg         *i18n.Translator
}

// NewCognitiveAnalyzer creates an analyzer over the indicator tables of lex
func NewCognitiveAnalyzer(lex *lexicon.Lexicon, msg *i18n.Translator) *CognitiveAnalyzer {
	if lex == nil {
		lex = lexicon.Default()
	}
	if msg == nil {
		msg = i18n.Default().Translator(i18n.DefaultLang)
	}
	return &CognitiveAnalyzer{
		computation: lex.Matcher(lexicon.Computation),
		concept:     lex.Matcher(lexicon.Concept),
		relation:    lex.Matcher(lexicon.Relation),
		readingTrap: lex.Matcher(lexicon.ReadingTrap),
		timeSink:    lex.Matcher(lexicon.TimeSink),
		pattern:     lex.Matcher(lexicon.PatternRecognition),
		msg:         msg,
	}
}

// Analyze computes the six axis scores, the dominant axis and the difficulty profile
func (a *CognitiveAnalyzer) Analyze(std model.Standardized) model.CognitiveSignature {
	stem := std.Normalized.QuestionText
	f := std.BaseFeatures

	slots := float64(len(model.Labels))
	numericRatio := float64(f.CountType(model.ChoiceNumeric)) / slots
	expressionRatio := float64(f.CountType(model.ChoiceExpression)) / slots
	statementRatio := float64(f.CountType(model.ChoiceStatement)) / slots

	negative := 0.0
	if f.IsNegativeQuestion {
		negative = 1
	}
	figure := 0.0
	if f.HasFigure || f.ReferencesFigureInText {
		figure = 1
	}

	// 1. Axis scores: saturated indicator counts blended with structural features
	raw := model.AxisScores{
		ComputationHeavy: 0.4*saturate(a.computation.Count(stem), 3) +
			0.3*numericRatio + 0.3*expressionRatio,
		ConceptHeavy: 0.6*saturate(a.concept.Count(stem), 2) +
			0.4*statementRatio,
		RelationBuilding: 0.5*saturate(a.relation.Count(stem), 2) +
			0.3*saturate(float64(f.PremiseCountProxy), 3) + 0.2*negative,
		ReadingTrap: 0.7*saturate(a.readingTrap.Count(stem), 2) +
			0.3*negative,
		TimeSink: 0.3*saturate(a.timeSink.Count(stem), 2) +
			0.4*saturate(float64(f.CharLen), 400) + 0.3*saturate(float64(f.SentenceCount), 5),
		PatternRecognition: 0.6*saturate(a.pattern.Count(stem), 2) +
			0.4*figure,
	}
	raw = capScores(raw)

	// 2. Dominant axis, earliest wins ties
	dominant := model.CognitiveAxes[0]
	for _, axis := range model.CognitiveAxes[1:] {
		if raw.Get(axis) > raw.Get(dominant) {
			dominant = axis
		}
	}

	// 3. Difficulty: relation, traps and patterns make a question hard, arithmetic does not
	difficulty := 0.3*(1-raw.ComputationHeavy) +
		0.3*raw.RelationBuilding +
		0.2*raw.ReadingTrap +
		0.2*raw.PatternRecognition

	return model.CognitiveSignature{
		Scores:            roundScores(raw),
		DominantType:      dominant,
		DifficultyProfile: util.Round(difficulty, 2),
		Reasoning:         a.reasoning(raw),
	}
}

// reasoning names the two strongest axes with their percentages
func (a *CognitiveAnalyzer) reasoning(s model.AxisScores) string {
	axes := make([]model.CognitiveAxis, len(model.CognitiveAxes))
	copy(axes, model.CognitiveAxes)
	sort.SliceStable(axes, func(i, j int) bool {
		return s.Get(axes[i]) > s.Get(axes[j])
	})

	parts := make([]string, 0, 2)
	for _, axis := range axes[:2] {
		parts = append(parts, fmt.Sprintf("%s (%.0f%%)", a.msg.T(axisMessages[axis]), s.Get(axis)*100))
	}
	return a.msg.Td("CognitiveDominant", map[string]any{"Axes": strings.Join(parts, ", ")})
}

// saturate maps a count onto [0,1], reaching 1 at divisor
func saturate(v, divisor float64) float64 {
	return min(1, v/divisor)
}

func capScores(s model.AxisScores) model.AxisScores {
	return model.AxisScores{
		ComputationHeavy:   min(1, s.ComputationHeavy),
		ConceptHeavy:       min(1, s.ConceptHeavy),
		RelationBuilding:   min(1, s.RelationBuilding),
		ReadingTrap:        min(1, s.ReadingTrap),
		TimeSink:           min(1, s.TimeSink),
		PatternRecognition: min(1, s.PatternRecognition),
	}
}

func roundScores(s model.AxisScores) model.AxisScores {
	return model.AxisScores{
		ComputationHeavy:   util.Round(s.ComputationHeavy, 2),
		ConceptHeavy:       util.Round(s.ConceptHeavy, 2),
		RelationBuilding:   util.Round(s.RelationBuilding, 2),
		ReadingTrap:        util.Round(s.ReadingTrap, 2),
		TimeSink:           util.Round(s.TimeSink, 2),
		PatternRecognition: util.Round(s.PatternRecognition, 2),
	}
}
