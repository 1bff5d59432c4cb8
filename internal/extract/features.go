package extract

import (
	"strings"

	"github.com/yksassistant/hakem/internal/lexicon"
	"github.com/yksassistant/hakem/internal/model"
	"github.com/yksassistant/hakem/internal/util"
)

// TokenSeparators split stem and choice text into tokens, in addition to whitespace
const TokenSeparators = `,;:!?()[]{}"'`

// FeatureExtractor derives BaseFeatures from a normalized question
type FeatureExtractor struct {
	negative  *lexicon.Matcher
	figureRef *lexicon.Matcher
	premises  []*lexicon.Matcher
}

// NewFeatureExtractor creates a new feature extractor over the given lexicon
func NewFeatureExtractor(lex *lexicon.Lexicon) *FeatureExtractor {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &FeatureExtractor{
		negative:  lex.Matcher(lexicon.Negative),
		figureRef: lex.Matcher(lexicon.FigureReference),
		premises: []*lexicon.Matcher{
			lex.Matcher(lexicon.RomanPremise),
			lex.Matcher(lexicon.ArabicPremise),
			lex.Matcher(lexicon.BulletPremise),
		},
	}
}

// Extract computes every base feature. FormatValid is left false; the
// normalizer owns that decision because it knows which choices were missing.
func (e *FeatureExtractor) Extract(q model.NormalizedQuestion) model.BaseFeatures {
	stem := q.QuestionText

	var types model.ByLabel[model.ChoiceType]
	for i, c := range q.Choices {
		types[i] = ClassifyChoice(c)
	}

	return model.BaseFeatures{
		CharLen:                util.RuneLen(stem),
		TokenLen:               CountTokens(stem),
		SentenceCount:          CountSentences(stem),
		IsNegativeQuestion:     e.negative.Match(stem),
		PremiseCountProxy:      e.countPremises(stem),
		HasFigure:              strings.TrimSpace(q.FiguresDesc) != "",
		ReferencesFigureInText: e.figureRef.Match(stem),
		ChoiceTypes:            types,
		ChoicesAreDistinct:     ChoicesDistinct(q.Choices),
		ChoiceSimilarityScore:  util.Round(ChoiceSimilarity(q.Choices), 3),
	}
}

// countPremises takes the largest count among the premise marker styles
func (e *FeatureExtractor) countPremises(stem string) int {
	best := 0
	for _, m := range e.premises {
		if n := int(m.Count(stem)); n > best {
			best = n
		}
	}
	return best
}

// CountTokens counts whitespace/punctuation separated tokens
func CountTokens(text string) int {
	return len(util.SplitOn(text, TokenSeparators))
}

// CountSentences counts non-empty segments between sentence terminators, minimum 1
func CountSentences(text string) int {
	n := 0
	for _, part := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	return max(1, n)
}

// ClassifyChoice assigns a choice text to numeric, expression, statement or empty
func ClassifyChoice(text string) model.ChoiceType {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return model.ChoiceEmpty
	case lexicon.NumericChoice.MatchString(text):
		return model.ChoiceNumeric
	case lexicon.ExpressionChoice.MatchString(text):
		return model.ChoiceExpression
	default:
		return model.ChoiceStatement
	}
}

// ChoicesDistinct reports whether no two non-empty choices are equal ignoring case
func ChoicesDistinct(choices model.Choices) bool {
	seen := make(map[string]struct{}, len(choices))
	for _, c := range choices {
		key := util.Lower(strings.TrimSpace(c))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
	}
	return true
}

// ChoiceTokens returns the lowercased token set of a choice
func ChoiceTokens(text string) map[string]struct{} {
	return util.TokenSet(util.SplitOn(util.Lower(text), TokenSeparators), nil)
}

// ChoiceSimilarity is the mean pairwise Jaccard similarity of the non-empty choices
func ChoiceSimilarity(choices model.Choices) float64 {
	var sets []map[string]struct{}
	for _, c := range choices {
		if strings.TrimSpace(c) != "" {
			sets = append(sets, ChoiceTokens(c))
		}
	}
	return util.MeanPairwise(sets, util.Jaccard)
}
