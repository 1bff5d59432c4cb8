package standardize

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/yksassistant/hakem/internal/extract"
	"github.com/yksassistant/hakem/internal/model"
)

// Standardizer turns raw extracted records into the canonical form the scorers consume
type Standardizer struct {
	extractor     *extract.FeatureExtractor
	lowConfidence float64
}

// NewStandardizer creates a standardizer; confidences below lowConfidence raise a warning
func NewStandardizer(extractor *extract.FeatureExtractor, lowConfidence float64) *Standardizer {
	if extractor == nil {
		extractor = extract.NewFeatureExtractor(nil)
	}
	return &Standardizer{
		extractor:     extractor,
		lowConfidence: lowConfidence,
	}
}

// NormalizeText composes Unicode (NFC), collapses whitespace runs to a single space and trims
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// Standardize normalizes one record. It never fails: bad input becomes warnings.
func (s *Standardizer) Standardize(raw model.RawQuestion) model.Standardized {
	// 1. Normalize text fields
	q := model.NormalizedQuestion{
		QuestionText: NormalizeText(raw.QuestionText),
		FiguresDesc:  NormalizeText(raw.FiguresDesc),
	}

	// 2. Fill all five choice slots, recording the empty ones
	missing := []string{}
	for i, label := range model.Labels {
		q.Choices[i] = NormalizeText(raw.Choices[label])
		if q.Choices[i] == "" {
			missing = append(missing, label)
		}
	}

	formatValid := len(missing) == 0 && q.QuestionText != ""

	// 3. Non-fatal warnings
	warnings := []string{}
	if q.QuestionText == "" {
		warnings = append(warnings, "question_text is empty")
	}
	if len(missing) > 0 {
		warnings = append(warnings, fmt.Sprintf("missing choices: %s", strings.Join(missing, ", ")))
	}
	if raw.ExtractionConfidence < s.lowConfidence {
		warnings = append(warnings, "low extraction confidence: "+strconv.FormatFloat(raw.ExtractionConfidence, 'g', -1, 64))
	}

	// 4. Features
	features := s.extractor.Extract(q)
	features.FormatValid = formatValid

	id := raw.ID
	if id == "" {
		id = "unknown"
	}

	return model.Standardized{
		Schema:       model.SchemaStandardizedV1,
		ID:           id,
		Normalized:   q,
		BaseFeatures: features,
		Validation: model.Validation{
			FormatValid:    formatValid,
			MissingChoices: missing,
			Warnings:       warnings,
		},
		Metadata: model.Metadata{
			ExtractionConfidence: raw.ExtractionConfidence,
			ExtractionNotes:      NormalizeText(raw.ExtractionNotes),
		},
	}
}

// StandardizeBatch standardizes records preserving input order
func (s *Standardizer) StandardizeBatch(raws []model.RawQuestion) []model.Standardized {
	out := make([]model.Standardized, len(raws))
	for i, raw := range raws {
		out[i] = s.Standardize(raw)
	}
	return out
}

// AsRaw reinterprets a standardized record as raw input
func AsRaw(std model.Standardized) model.RawQuestion {
	raw := model.NewRawQuestion()
	raw.ID = std.ID
	raw.QuestionText = std.Normalized.QuestionText
	raw.FiguresDesc = std.Normalized.FiguresDesc
	for i, label := range model.Labels {
		raw.Choices[label] = std.Normalized.Choices[i]
	}
	raw.ExtractionConfidence = std.Metadata.ExtractionConfidence
	raw.ExtractionNotes = std.Metadata.ExtractionNotes
	return raw
}
