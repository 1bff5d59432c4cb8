package model

import (
	"errors"
	"fmt"
	"strings"
)

// ExtractV1 is the contract an extraction model must satisfy when it reads a
// question image. Validate enforces it; ToRaw hands it to the normalizer.
type ExtractV1 struct {
	Schema               string             `json:"schema"`
	ID                   string             `json:"id"`
	QuestionText         string             `json:"question_text"`
	Choices              map[string]*string `json:"choices"`
	FiguresDesc          *string            `json:"figures_desc"`
	TopicHint            *string            `json:"topic_hint,omitempty"`
	Constraints          []string           `json:"constraints,omitempty"`
	Language             string             `json:"language"`
	ExtractionNotes      *string            `json:"extraction_notes"`
	ExtractionConfidence *float64           `json:"extraction_confidence"`
}

// Validate checks the contract and fills defaults for optional fields
func (e *ExtractV1) Validate() error {
	if strings.TrimSpace(e.QuestionText) == "" {
		return errors.New("question_text: must not be empty")
	}
	if e.Choices == nil {
		return errors.New("choices: field required")
	}
	for k := range e.Choices {
		if !isLabel(k) {
			return fmt.Errorf("choices: unexpected key %q (allowed: A-E)", k)
		}
	}
	if c := e.ExtractionConfidence; c != nil && (*c < 0 || *c > 1) {
		return fmt.Errorf("extraction_confidence: %v out of range [0,1]", *c)
	}
	if e.Schema == "" {
		e.Schema = SchemaExtractV1
	}
	if e.Language == "" {
		e.Language = "tr"
	}
	return nil
}

// ToRaw converts a validated extraction into a raw question record
func (e *ExtractV1) ToRaw(fallbackID string) RawQuestion {
	raw := NewRawQuestion()
	raw.Schema = SchemaExtractV1
	if e.ID != "" {
		raw.ID = e.ID
	} else if fallbackID != "" {
		raw.ID = fallbackID
	}
	raw.QuestionText = e.QuestionText
	for k, v := range e.Choices {
		if v != nil {
			raw.Choices[k] = *v
		}
	}
	if e.FiguresDesc != nil {
		raw.FiguresDesc = *e.FiguresDesc
	}
	if e.ExtractionNotes != nil {
		raw.ExtractionNotes = *e.ExtractionNotes
	}
	if e.ExtractionConfidence != nil {
		raw.ExtractionConfidence = *e.ExtractionConfidence
	}
	return raw
}

func isLabel(s string) bool {
	for _, l := range Labels {
		if l == s {
			return true
		}
	}
	return false
}
