package score

import (
	"strconv"
	"strings"

	"github.com/yksassistant/hakem/internal/i18n"
	"github.com/yksassistant/hakem/internal/lexicon"
	"github.com/yksassistant/hakem/internal/model"
	"github.com/yksassistant/hakem/internal/util"
)

// Guard penalties, deducted from 1.0 per check group
const (
	penaltyQuestionEmpty      = 1.0
	penaltyQuestionTooShort   = 0.5
	penaltyMissingChoice      = 0.2 // per missing label
	penaltyEmptyChoices       = 0.3
	penaltyDuplicateChoices   = 0.5
	penaltyHighSimilarity     = 0.3
	penaltyUniformLength      = 0.2
	penaltyNegativeNumeric    = 0.2
	penaltyFigureNoReference  = 0.3
	penaltyFigureMissing      = 0.5
	penaltyPremiseShortStem   = 0.3
	penaltySingleToken        = 0.2
	penaltyLongTextNoMath     = 0.15
	penaltyDuplicateAnswer    = 0.5
	penaltySimilarAnswerScale = 0.2
	penaltyNearIdentical      = 0.4
)

// Guard is the rule-based validity and ambiguity check
type Guard struct {
	cfg      model.GuardConfig
	ordering *lexicon.Matcher
	msg      *i18n.Translator
}

// NewGuard creates a guard with the given thresholds. A nil lexicon or translator
// selects the defaults.
func NewGuard(cfg model.GuardConfig, lex *lexicon.Lexicon, msg *i18n.Translator) *Guard {
	if lex == nil {
		lex = lexicon.Default()
	}
	if msg == nil {
		msg = i18n.Default().Translator(i18n.DefaultLang)
	}
	return &Guard{
		cfg:      cfg,
		ordering: lex.Matcher(lexicon.Ordering),
		msg:      msg,
	}
}

// Evaluate runs the format, clarity and single-answer checks
func (g *Guard) Evaluate(std model.Standardized) model.GuardResult {
	q := std.Normalized
	f := std.BaseFeatures

	// 1. Format
	formatScore, formatFlags := g.checkFormat(q, f, std.Validation.MissingChoices)

	// 2. Clarity
	clarityScore, clarityFlags := g.checkClarity(q, f)

	// 3. Single answer likelihood
	singleScore, singleFlags := g.checkSingleAnswer(q, f)

	flags := make([]model.RiskFlag, 0, len(formatFlags)+len(clarityFlags)+len(singleFlags))
	flags = append(flags, formatFlags...)
	flags = append(flags, clarityFlags...)
	flags = append(flags, singleFlags...)

	critical := false
	for _, flag := range flags {
		if flag.IsCritical() {
			critical = true
			break
		}
	}

	// 4. Decisions use unrounded scores
	pass := formatScore > g.cfg.PassFormat && !critical
	escalate := formatScore > g.cfg.EscalateFormat &&
		clarityScore < g.cfg.EscalateClarity &&
		singleScore < g.cfg.EscalateSingleAnswer &&
		!critical

	return model.GuardResult{
		FormatValid:            util.Round(formatScore, 2),
		Clarity:                util.Round(clarityScore, 2),
		SingleAnswerLikelihood: util.Round(singleScore, 2),
		RiskFlags:              flags,
		Pass:                   pass,
		NeedsEscalation:        escalate,
		ReasonShort:            g.reason(formatFlags, clarityFlags, singleFlags),
	}
}

func (g *Guard) checkFormat(q model.NormalizedQuestion, f model.BaseFeatures, missing []string) (float64, []model.RiskFlag) {
	var flags []model.RiskFlag
	penalty := 0.0

	switch {
	case q.QuestionText == "":
		flags = append(flags, model.RiskQuestionEmpty)
		penalty += penaltyQuestionEmpty
	case util.RuneLen(q.QuestionText) < g.cfg.MinQuestionLength:
		flags = append(flags, model.RiskQuestionTooShort)
		penalty += penaltyQuestionTooShort
	}

	if len(missing) > 0 {
		flags = append(flags, model.RiskMissingChoices)
		penalty += penaltyMissingChoice * float64(len(missing))
	}

	if !f.FormatValid {
		flags = append(flags, model.RiskEmptyChoices)
		penalty += penaltyEmptyChoices
	}

	if !f.ChoicesAreDistinct {
		flags = append(flags, model.RiskDuplicateChoices)
		penalty += penaltyDuplicateChoices
	}

	ordering := g.IsOrdering(q)

	if f.ChoiceSimilarityScore > g.cfg.HighSimilarity && !ordering {
		flags = append(flags, model.RiskHighChoiceSimilarity)
		penalty += penaltyHighSimilarity
	}

	if !ordering && g.uniformLengths(q.NonEmptyChoices()) {
		flags = append(flags, model.RiskUniformChoiceLength)
		penalty += penaltyUniformLength
	}

	if f.IsNegativeQuestion && f.CountType(model.ChoiceNumeric) >= g.cfg.NegativeNumericChoices {
		flags = append(flags, model.RiskNegativeNumericChoices)
		penalty += penaltyNegativeNumeric
	}

	return max(0, 1-penalty), flags
}

// uniformLengths reports whether at least three choices all share one length
func (g *Guard) uniformLengths(choices []string) bool {
	if len(choices) < 3 {
		return false
	}
	lengths := make([]float64, len(choices))
	for i, c := range choices {
		lengths[i] = float64(util.RuneLen(c))
	}
	mean, variance := meanVariance(lengths)
	if mean == 0 {
		return false
	}
	if variance/(mean*mean) >= g.cfg.UniformLengthVariance {
		return false
	}
	for _, l := range lengths {
		if l != lengths[0] {
			return false
		}
	}
	return true
}

// IsOrdering reports whether the question asks to order or compare items, in which
// case near-identical choices are expected.
func (g *Guard) IsOrdering(q model.NormalizedQuestion) bool {
	if g.ordering.Match(q.QuestionText) {
		return true
	}
	choices := q.NonEmptyChoices()
	if len(choices) == 0 {
		return false
	}
	for _, c := range choices {
		if !containsAny(c, lexicon.ComparisonOperators) {
			return false
		}
	}
	return true
}

func (g *Guard) checkClarity(q model.NormalizedQuestion, f model.BaseFeatures) (float64, []model.RiskFlag) {
	var flags []model.RiskFlag
	penalty := 0.0

	if f.HasFigure && !f.ReferencesFigureInText {
		flags = append(flags, model.RiskFigurePresentNoReference)
		penalty += penaltyFigureNoReference
	}

	if f.ReferencesFigureInText && !f.HasFigure {
		flags = append(flags, model.RiskFigureReferencedMissing)
		penalty += penaltyFigureMissing
	}

	if f.PremiseCountProxy >= g.cfg.HighPremiseCount && f.CharLen < g.cfg.ShortStemLength {
		flags = append(flags, model.RiskHighPremiseShortStem)
		penalty += penaltyPremiseShortStem
	}

	if choices := q.NonEmptyChoices(); len(choices) > 0 {
		allShort := true
		for _, c := range choices {
			if util.RuneLen(c) > g.cfg.SingleTokenMaxLength {
				allShort = false
				break
			}
		}
		if allShort {
			flags = append(flags, model.RiskAllChoicesSingleToken)
			penalty += penaltySingleToken
		}
	}

	if f.CharLen > g.cfg.LongTextLength && !lexicon.MathToken.MatchString(q.QuestionText) {
		flags = append(flags, model.RiskLongTextNoMath)
		penalty += penaltyLongTextNoMath
	}

	return max(0, 1-penalty), flags
}

func (g *Guard) checkSingleAnswer(q model.NormalizedQuestion, f model.BaseFeatures) (float64, []model.RiskFlag) {
	var flags []model.RiskFlag
	penalty := 0.0

	if !f.ChoicesAreDistinct {
		penalty += penaltyDuplicateAnswer
	}

	threshold := g.cfg.SingleAnswerSimilarity
	if s := f.ChoiceSimilarityScore; s > threshold {
		penalty += penaltySimilarAnswerScale * (s - threshold) / (1 - threshold)
	}

	if f.CountType(model.ChoiceNumeric) == len(model.Labels) && hasRepeatedLeadingNumber(q.Choices) {
		flags = append(flags, model.RiskNearIdenticalNumeric)
		penalty += penaltyNearIdentical
	}

	return max(0, 1-penalty), flags
}

// hasRepeatedLeadingNumber parses the first number in every choice and reports
// whether two parsed values coincide
func hasRepeatedLeadingNumber(choices model.Choices) bool {
	seen := make(map[float64]struct{})
	parsed := 0
	repeat := false
	for _, c := range choices {
		m := lexicon.LeadingNumber.FindString(c)
		if m == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
		if err != nil {
			continue
		}
		parsed++
		if _, dup := seen[v]; dup {
			repeat = true
		}
		seen[v] = struct{}{}
	}
	return parsed >= 2 && repeat
}

func (g *Guard) reason(format, clarity, single []model.RiskFlag) string {
	var parts []string
	if len(format) > 0 {
		parts = append(parts, g.msg.Td("GuardFormatIssues", map[string]any{"Flags": joinFlags(format)}))
	}
	if len(clarity) > 0 {
		parts = append(parts, g.msg.Td("GuardClarityIssues", map[string]any{"Flags": joinFlags(clarity)}))
	}
	if len(single) > 0 {
		parts = append(parts, g.msg.Td("GuardSingleAnswerRisk", map[string]any{"Flags": joinFlags(single)}))
	}
	if len(parts) == 0 {
		return g.msg.T("GuardAllPassed")
	}
	return strings.Join(parts, "; ")
}

func joinFlags(flags []model.RiskFlag) string {
	names := make([]string, len(flags))
	for i, f := range flags {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
