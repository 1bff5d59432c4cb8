package score

import (
	"github.com/yksassistant/hakem/internal/i18n"
	"github.com/yksassistant/hakem/internal/lexicon"
	"github.com/yksassistant/hakem/internal/model"
)

// Scorer runs every quality scorer over a standardized question
type Scorer struct {
	guard      *Guard
	cognitive  *CognitiveAnalyzer
	distractor *DistractorAnalyzer
	similarity *SimilarityScorer
}

// NewScorer creates a scorer from the scoring configuration. Nil lexicon or
// translator select the defaults.
func NewScorer(cfg model.ScoringConfig, lex *lexicon.Lexicon, msg *i18n.Translator) *Scorer {
	return &Scorer{
		guard:      NewGuard(cfg.Guard, lex, msg),
		cognitive:  NewCognitiveAnalyzer(lex, msg),
		distractor: NewDistractorAnalyzer(msg),
		similarity: NewSimilarityScorer(cfg.Reference, lex, msg),
	}
}

// Calculate produces the full assessment. The scorers are independent; each sees
// only the standardized record.
func (s *Scorer) Calculate(std model.Standardized) model.Assessment {
	return model.Assessment{
		Standardized: std,

		// 1. Validity and ambiguity
		Guard: s.guard.Evaluate(std),

		// 2. Cognitive profile
		CognitiveSignature: s.cognitive.Analyze(std),

		// 3. Distractor quality
		DistractorQuality: s.distractor.Analyze(std),

		// 4. Reference-style similarity
		Similarity: s.similarity.Score(std),
	}
}

// meanVariance returns the mean and population variance of values
func meanVariance(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	sq := 0.0
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return mean, sq / float64(len(values))
}
