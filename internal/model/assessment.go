package model

// ChoiceType classifies the shape of a choice text
type ChoiceType string

const (
	ChoiceNumeric    ChoiceType = "numeric"    // digits, operators and math symbols only
	ChoiceExpression ChoiceType = "expression" // letters combined with operators
	ChoiceStatement  ChoiceType = "statement"  // free text
	ChoiceEmpty      ChoiceType = "empty"
)

// BaseFeatures are the deterministic structural features of a question
type BaseFeatures struct {
	CharLen                int                 `json:"q_char_len"`
	TokenLen               int                 `json:"q_token_len"`
	SentenceCount          int                 `json:"q_sentence_count"`
	IsNegativeQuestion     bool                `json:"is_negative_question"`
	PremiseCountProxy      int                 `json:"premise_count_proxy"`
	HasFigure              bool                `json:"has_figure"`
	ReferencesFigureInText bool                `json:"references_figure_in_text"`
	ChoiceTypes            ByLabel[ChoiceType] `json:"choice_types"`
	ChoicesAreDistinct     bool                `json:"choices_are_distinct"`
	ChoiceSimilarityScore  float64             `json:"choice_similarity_score"`
	FormatValid            bool                `json:"format_valid"`
}

// CountType returns how many of the five choices have the given type
func (f BaseFeatures) CountType(t ChoiceType) int {
	n := 0
	for _, ct := range f.ChoiceTypes {
		if ct == t {
			n++
		}
	}
	return n
}

// Validation reports non-fatal problems found while normalizing
type Validation struct {
	FormatValid    bool     `json:"format_valid"`
	MissingChoices []string `json:"missing_choices"`
	Warnings       []string `json:"warnings"`
}

// Metadata carries extractor-provided context through the pipeline
type Metadata struct {
	ExtractionConfidence float64 `json:"extraction_confidence"`
	ExtractionNotes      string  `json:"extraction_notes"`
}

// Standardized is the normalizer output every scorer consumes
type Standardized struct {
	Schema       string             `json:"schema"`
	ID           string             `json:"id"`
	Normalized   NormalizedQuestion `json:"normalized"`
	BaseFeatures BaseFeatures       `json:"base_features"`
	Validation   Validation         `json:"validation"`
	Metadata     Metadata           `json:"metadata"`
}

// RiskFlag names a specific problem raised by the clarity guard
type RiskFlag string

const (
	// Format problems
	RiskQuestionEmpty          RiskFlag = "QUESTION_EMPTY"
	RiskQuestionTooShort       RiskFlag = "QUESTION_TOO_SHORT"
	RiskMissingChoices         RiskFlag = "MISSING_CHOICES"
	RiskEmptyChoices           RiskFlag = "EMPTY_CHOICES"
	RiskDuplicateChoices       RiskFlag = "DUPLICATE_CHOICES"
	RiskHighChoiceSimilarity   RiskFlag = "HIGH_CHOICE_SIMILARITY"
	RiskUniformChoiceLength    RiskFlag = "UNIFORM_CHOICE_LENGTH"
	RiskNegativeNumericChoices RiskFlag = "NEGATIVE_QUESTION_NUMERIC_CHOICES"

	// Clarity problems
	RiskFigurePresentNoReference RiskFlag = "FIGURE_PRESENT_NO_REFERENCE"
	RiskFigureReferencedMissing  RiskFlag = "FIGURE_REFERENCED_BUT_MISSING"
	RiskHighPremiseShortStem     RiskFlag = "HIGH_PREMISE_SHORT_STEM"
	RiskAllChoicesSingleToken    RiskFlag = "ALL_CHOICES_SINGLE_TOKEN"
	RiskLongTextNoMath           RiskFlag = "LONG_TEXT_NO_MATH"

	// Single answer problems
	RiskNearIdenticalNumeric RiskFlag = "NEAR_IDENTICAL_NUMERIC"
)

// IsCritical reports whether the flag fails a question outright
func (f RiskFlag) IsCritical() bool {
	switch f {
	case RiskQuestionEmpty, RiskDuplicateChoices, RiskFigureReferencedMissing:
		return true
	}
	return false
}

// GuardResult is the rule-based validity and ambiguity verdict
type GuardResult struct {
	FormatValid            float64    `json:"format_valid"`
	Clarity                float64    `json:"clarity"`
	SingleAnswerLikelihood float64    `json:"single_answer_likelihood"`
	RiskFlags              []RiskFlag `json:"risk_flags"`
	Pass                   bool       `json:"pass"`
	NeedsEscalation        bool       `json:"needs_escalation"`
	ReasonShort            string     `json:"reason_short"`
}

// CognitiveAxis names one dimension of the cognitive signature
type CognitiveAxis string

const (
	AxisComputation CognitiveAxis = "computation_heavy"
	AxisConcept     CognitiveAxis = "concept_heavy"
	AxisRelation    CognitiveAxis = "relation_building"
	AxisReadingTrap CognitiveAxis = "reading_trap"
	AxisTimeSink    CognitiveAxis = "time_sink"
	AxisPattern     CognitiveAxis = "pattern_recognition"
)

// CognitiveAxes lists the axes in declaration order; ties resolve to the earliest
var CognitiveAxes = []CognitiveAxis{
	AxisComputation, AxisConcept, AxisRelation, AxisReadingTrap, AxisTimeSink, AxisPattern,
}

// AxisScores holds one independent score per cognitive axis
type AxisScores struct {
	ComputationHeavy   float64 `json:"computation_heavy"`
	ConceptHeavy       float64 `json:"concept_heavy"`
	RelationBuilding   float64 `json:"relation_building"`
	ReadingTrap        float64 `json:"reading_trap"`
	TimeSink           float64 `json:"time_sink"`
	PatternRecognition float64 `json:"pattern_recognition"`
}

// Get returns the score for an axis
func (s AxisScores) Get(axis CognitiveAxis) float64 {
	switch axis {
	case AxisComputation:
		return s.ComputationHeavy
	case AxisConcept:
		return s.ConceptHeavy
	case AxisRelation:
		return s.RelationBuilding
	case AxisReadingTrap:
		return s.ReadingTrap
	case AxisTimeSink:
		return s.TimeSink
	case AxisPattern:
		return s.PatternRecognition
	}
	return 0
}

// CognitiveSignature describes which skills a question exercises
type CognitiveSignature struct {
	Scores            AxisScores    `json:"cognitive_signature"`
	DominantType      CognitiveAxis `json:"dominant_type"`
	DifficultyProfile float64       `json:"osym_difficulty_profile"`
	Reasoning         string        `json:"reasoning"`
}

// TrapType classifies how a single distractor relates to its peers
type TrapType string

const (
	TrapNumericOutlier TrapType = "numeric_outlier"
	TrapTooSimilar     TrapType = "too_similar"
	TrapTooDifferent   TrapType = "too_different"
	TrapBalanced       TrapType = "balanced"
	TrapUnknown        TrapType = "unknown"
)

// ChoiceAnalysis is the per-choice distractor verdict
type ChoiceAnalysis struct {
	Choice             string   `json:"choice"`
	TrapType           TrapType `json:"trap_type"`
	SimilarityToOthers float64  `json:"similarity_to_others"`
	Length             int      `json:"length"`
}

// DistractorResult scores how plausible and balanced the wrong answers are
type DistractorResult struct {
	Quality      float64          `json:"distractor_quality"`
	Diversity    float64          `json:"choice_diversity"`
	EditDistance float64          `json:"choice_edit_distance"` // mean normalized Levenshtein, statement sets only
	HasOutlier   bool             `json:"has_outlier"`
	Analysis     []ChoiceAnalysis `json:"distractor_analysis"`
	Reasoning    string           `json:"reasoning"`
}

// FeatureScores holds the similarity sub-feature scores in fixed order
type FeatureScores struct {
	CharLength        float64 `json:"char_length"`
	TokenLength       float64 `json:"token_length"`
	SentenceCount     float64 `json:"sentence_count"`
	StemPatterns      float64 `json:"stem_patterns"`
	Connectors        float64 `json:"connectors"`
	ChoiceTypes       float64 `json:"choice_types"`
	FigureConsistency float64 `json:"figure_consistency"`
	PremiseStructure  float64 `json:"premise_structure"`
}

// SimilarityResult measures conformity to the reference exam style
type SimilarityResult struct {
	Similarity     float64       `json:"osym_similarity"`
	FeatureScores  FeatureScores `json:"feature_scores"`
	TopFeatureGaps []string      `json:"top_feature_gaps"`
	Reasoning      string        `json:"reasoning"`
}

// Assessment is the complete output record for one question
type Assessment struct {
	Standardized
	Guard              GuardResult        `json:"guard"`
	CognitiveSignature CognitiveSignature `json:"cognitive_signature"`
	DistractorQuality  DistractorResult   `json:"distractor_quality"`
	Similarity         SimilarityResult   `json:"similarity"`
}

// Measurement is the result of reading a question image and assessing it
type Measurement struct {
	RequestID  string     `json:"req_id"`
	Provider   string     `json:"provider"`
	Cached     bool       `json:"cached"`
	Extraction ExtractV1  `json:"extraction"`
	Assessment Assessment `json:"assessment"`
}
