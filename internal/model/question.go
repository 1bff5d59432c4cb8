package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Schema tags carried by input and output records
const (
	SchemaExtractV1      = "extract_v1"
	SchemaStandardizedV1 = "standardized_v1"
)

// Labels are the five standard choice labels in order
var Labels = [5]string{"A", "B", "C", "D", "E"}

// ByLabel holds one value per choice label, always all five
type ByLabel[T any] [5]T

// Get returns the value for a label ("A".."E"); unknown labels yield the zero value
func (b ByLabel[T]) Get(label string) T {
	var zero T
	for i, l := range Labels {
		if l == label {
			return b[i]
		}
	}
	return zero
}

// MarshalJSON encodes the values as an object keyed A..E in label order
func (b ByLabel[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range Labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		v, err := json.Marshal(b[i])
		if err != nil {
			return nil, fmt.Errorf("marshal choice %s: %w", label, err)
		}
		buf.WriteString(strconv.Quote(label))
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keyed by label; missing labels keep the zero value
func (b *ByLabel[T]) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for i, label := range Labels {
		raw, ok := m[label]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &b[i]); err != nil {
			return fmt.Errorf("choice %s: %w", label, err)
		}
	}
	return nil
}

// Choices maps each label to its choice text
type Choices = ByLabel[string]

// RawQuestion is an extracted question record as received from an extractor.
// Decoding never fails on wrong field types: values are coerced or defaulted.
type RawQuestion struct {
	Schema               string            `json:"schema"`
	ID                   string            `json:"id"`
	QuestionText         string            `json:"question_text"`
	Choices              map[string]string `json:"choices"`
	FiguresDesc          string            `json:"figures_desc"`
	ExtractionConfidence float64           `json:"extraction_confidence"`
	ExtractionNotes      string            `json:"extraction_notes"`
}

// NewRawQuestion returns a record with the documented defaults applied
func NewRawQuestion() RawQuestion {
	return RawQuestion{
		Schema:               SchemaExtractV1,
		ID:                   "unknown",
		Choices:              map[string]string{},
		ExtractionConfidence: 1.0,
	}
}

// UnmarshalJSON decodes a record tolerantly
func (r *RawQuestion) UnmarshalJSON(data []byte) error {
	*r = NewRawQuestion()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("question record must be a JSON object: %w", err)
	}

	if v, ok := fields["schema"]; ok {
		if s := coerceText(v); s != "" {
			r.Schema = s
		}
	}
	if v, ok := fields["id"]; ok {
		if s := coerceText(v); s != "" {
			r.ID = s
		}
	}
	if v, ok := fields["question_text"]; ok {
		r.QuestionText = coerceText(v)
	}
	if v, ok := fields["figures_desc"]; ok {
		// only real strings describe a figure
		var s string
		if json.Unmarshal(v, &s) == nil {
			r.FiguresDesc = s
		}
	}
	if v, ok := fields["extraction_confidence"]; ok {
		var f *float64
		if json.Unmarshal(v, &f) == nil && f != nil {
			r.ExtractionConfidence = *f
		}
	}
	if v, ok := fields["extraction_notes"]; ok {
		r.ExtractionNotes = coerceText(v)
	}
	if v, ok := fields["choices"]; ok {
		var m map[string]json.RawMessage
		if json.Unmarshal(v, &m) == nil {
			for k, cv := range m {
				r.Choices[k] = coerceText(cv)
			}
		}
	}

	return nil
}

// coerceText renders scalars as text; null, objects and arrays become ""
func coerceText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return ""
	}
	switch t := v.(type) {
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// NormalizedQuestion is the canonical, immutable form of a question
type NormalizedQuestion struct {
	QuestionText string  `json:"question_text"`
	Choices      Choices `json:"choices"`
	FiguresDesc  string  `json:"figures_desc"`
}

// NonEmptyChoices returns the non-empty choice texts in label order
func (q NormalizedQuestion) NonEmptyChoices() []string {
	var out []string
	for _, c := range q.Choices {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
