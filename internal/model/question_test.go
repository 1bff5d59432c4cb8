package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRawQuestion_UnmarshalDefaults(t *testing.T) {
	var raw RawQuestion
	if err := json.Unmarshal([]byte(`{"question_text": "Soru"}`), &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if raw.ID != "unknown" {
		t.Errorf("expected id 'unknown', got %q", raw.ID)
	}
	if raw.ExtractionConfidence != 1.0 {
		t.Errorf("expected confidence 1.0, got %v", raw.ExtractionConfidence)
	}
	if raw.Choices == nil {
		t.Error("expected non-nil choices map")
	}
}

func TestRawQuestion_UnmarshalCoercesTypes(t *testing.T) {
	input := `{
		"id": 42,
		"question_text": 12345,
		"choices": {"A": 3.5, "B": null, "C": true, "D": ["x"], "E": "metin"},
		"figures_desc": {"kind": "graph"},
		"extraction_confidence": "high",
		"extraction_notes": null
	}`

	var raw RawQuestion
	if err := json.Unmarshal([]byte(input), &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if raw.ID != "42" {
		t.Errorf("expected id '42', got %q", raw.ID)
	}
	if raw.QuestionText != "12345" {
		t.Errorf("expected numeric stem rendered as text, got %q", raw.QuestionText)
	}
	if raw.Choices["A"] != "3.5" {
		t.Errorf("expected choice A '3.5', got %q", raw.Choices["A"])
	}
	if raw.Choices["B"] != "" {
		t.Errorf("expected null choice to be empty, got %q", raw.Choices["B"])
	}
	if raw.Choices["C"] != "true" {
		t.Errorf("expected bool choice 'true', got %q", raw.Choices["C"])
	}
	if raw.Choices["D"] != "" {
		t.Errorf("expected array choice to be empty, got %q", raw.Choices["D"])
	}
	if raw.FiguresDesc != "" {
		t.Errorf("expected non-string figures_desc to be empty, got %q", raw.FiguresDesc)
	}
	if raw.ExtractionConfidence != 1.0 {
		t.Errorf("expected non-numeric confidence to default to 1.0, got %v", raw.ExtractionConfidence)
	}
}

func TestRawQuestion_UnmarshalConfidence(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{`{"extraction_confidence": null}`, 1.0},
		{`{"extraction_confidence": "0.9"}`, 1.0},
		{`{"extraction_confidence": 0.4}`, 0.4},
		{`{"extraction_confidence": 0}`, 0},
		{`{}`, 1.0},
	}

	for _, tt := range tests {
		var raw RawQuestion
		if err := json.Unmarshal([]byte(tt.input), &raw); err != nil {
			t.Fatalf("unmarshal %s failed: %v", tt.input, err)
		}
		if raw.ExtractionConfidence != tt.expected {
			t.Errorf("%s: expected confidence %v, got %v", tt.input, tt.expected, raw.ExtractionConfidence)
		}
	}
}

func TestRawQuestion_UnmarshalRejectsNonObject(t *testing.T) {
	var raw RawQuestion
	if err := json.Unmarshal([]byte(`[1, 2]`), &raw); err == nil {
		t.Error("expected error for non-object record")
	}
}

func TestChoices_MarshalAlwaysFiveKeys(t *testing.T) {
	var c Choices
	c[1] = "iki"

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	expected := `{"A":"","B":"iki","C":"","D":"","E":""}`
	if string(data) != expected {
		t.Errorf("expected %s, got %s", expected, data)
	}

	var back Choices
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back != c {
		t.Errorf("expected %v, got %v", c, back)
	}
}

func TestChoices_UnmarshalIgnoresUnknownLabels(t *testing.T) {
	var c Choices
	if err := json.Unmarshal([]byte(`{"A":"bir","F":"altı"}`), &c); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if c.Get("A") != "bir" {
		t.Errorf("expected A 'bir', got %q", c.Get("A"))
	}
	if c.Get("F") != "" {
		t.Errorf("expected unknown label to read empty, got %q", c.Get("F"))
	}
}

func TestExtractV1_Validate(t *testing.T) {
	a := "x"
	bad := 1.5

	tests := []struct {
		name    string
		extract ExtractV1
		wantErr string
	}{
		{"empty stem", ExtractV1{Choices: map[string]*string{"A": &a}}, "question_text"},
		{"missing choices", ExtractV1{QuestionText: "Soru"}, "choices"},
		{"bad label", ExtractV1{QuestionText: "Soru", Choices: map[string]*string{"F": &a}}, "unexpected key"},
		{"confidence range", ExtractV1{QuestionText: "Soru", Choices: map[string]*string{"A": &a}, ExtractionConfidence: &bad}, "out of range"},
		{"valid", ExtractV1{QuestionText: "Soru", Choices: map[string]*string{"A": &a}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.extract.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if tt.extract.Language != "tr" {
					t.Errorf("expected default language 'tr', got %q", tt.extract.Language)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestExtractV1_ToRaw(t *testing.T) {
	a, fig := "5", "Bir grafik"
	e := ExtractV1{
		QuestionText: "Grafikte hangisi?",
		Choices:      map[string]*string{"A": &a, "B": nil},
		FiguresDesc:  &fig,
	}

	raw := e.ToRaw("req-1")
	if raw.ID != "req-1" {
		t.Errorf("expected fallback id 'req-1', got %q", raw.ID)
	}
	if raw.Choices["A"] != "5" {
		t.Errorf("expected choice A '5', got %q", raw.Choices["A"])
	}
	if _, ok := raw.Choices["B"]; ok {
		t.Error("expected nil choice to be dropped")
	}
	if raw.FiguresDesc != fig {
		t.Errorf("expected figures_desc %q, got %q", fig, raw.FiguresDesc)
	}
	if raw.ExtractionConfidence != 1.0 {
		t.Errorf("expected default confidence 1.0, got %v", raw.ExtractionConfidence)
	}
}
