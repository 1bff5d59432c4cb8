package standardize

import (
	"encoding/json"
	"testing"

	"github.com/yksassistant/hakem/internal/model"
)

func newRaw(text string, choices map[string]string) model.RawQuestion {
	raw := model.NewRawQuestion()
	raw.ID = "q1"
	raw.QuestionText = text
	raw.Choices = choices
	return raw
}

func fullChoices() map[string]string {
	return map[string]string{"A": "1", "B": "2", "C": "3", "D": "4", "E": "5"}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"  Soru\n\n metni\t burada  ", "Soru metni burada"},
		{"s\u0327ekil", "\u015fekil"},
		{"a b", "a b"},
	}
	for _, tt := range tests {
		if got := NormalizeText(tt.in); got != tt.want {
			t.Errorf("NormalizeText(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestStandardize_Complete(t *testing.T) {
	s := NewStandardizer(nil, 0.7)
	std := s.Standardize(newRaw("Buna göre  x\nkaçtır?", fullChoices()))

	if std.Schema != model.SchemaStandardizedV1 {
		t.Errorf("expected schema %s, got %s", model.SchemaStandardizedV1, std.Schema)
	}
	if std.Normalized.QuestionText != "Buna göre x kaçtır?" {
		t.Errorf("expected collapsed text, got %q", std.Normalized.QuestionText)
	}
	if !std.Validation.FormatValid || !std.BaseFeatures.FormatValid {
		t.Error("expected format_valid in validation and features")
	}
	if len(std.Validation.MissingChoices) != 0 {
		t.Errorf("expected no missing choices, got %v", std.Validation.MissingChoices)
	}
	if len(std.Validation.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", std.Validation.Warnings)
	}
}

func TestStandardize_MissingChoices(t *testing.T) {
	s := NewStandardizer(nil, 0.7)
	std := s.Standardize(newRaw("Soru metni burada?", map[string]string{"C": "üç", "D": "  ", "E": "beş"}))

	want := []string{"A", "B", "D"}
	if len(std.Validation.MissingChoices) != len(want) {
		t.Fatalf("expected missing %v, got %v", want, std.Validation.MissingChoices)
	}
	for i := range want {
		if std.Validation.MissingChoices[i] != want[i] {
			t.Errorf("missing[%d]: expected %s, got %s", i, want[i], std.Validation.MissingChoices[i])
		}
	}
	if std.Validation.FormatValid {
		t.Error("expected format_valid false")
	}
	if len(std.Validation.Warnings) != 1 || std.Validation.Warnings[0] != "missing choices: A, B, D" {
		t.Errorf("unexpected warnings: %v", std.Validation.Warnings)
	}
	if std.Normalized.Choices.Get("D") != "" {
		t.Errorf("expected whitespace-only choice to normalize to empty, got %q", std.Normalized.Choices.Get("D"))
	}
}

func TestStandardize_EmptyQuestion(t *testing.T) {
	s := NewStandardizer(nil, 0.7)
	std := s.Standardize(newRaw(" \n ", fullChoices()))

	if std.Validation.FormatValid {
		t.Error("expected format_valid false for empty question")
	}
	if len(std.Validation.Warnings) != 1 || std.Validation.Warnings[0] != "question_text is empty" {
		t.Errorf("unexpected warnings: %v", std.Validation.Warnings)
	}
	if std.BaseFeatures.SentenceCount != 1 {
		t.Errorf("expected sentence_count 1, got %d", std.BaseFeatures.SentenceCount)
	}
}

func TestStandardize_LowConfidence(t *testing.T) {
	s := NewStandardizer(nil, 0.7)
	raw := newRaw("Soru metni burada?", fullChoices())
	raw.ExtractionConfidence = 0.3

	std := s.Standardize(raw)
	if len(std.Validation.Warnings) != 1 || std.Validation.Warnings[0] != "low extraction confidence: 0.3" {
		t.Errorf("unexpected warnings: %v", std.Validation.Warnings)
	}
	if !std.Validation.FormatValid {
		t.Error("low confidence must not affect format_valid")
	}
	if std.Metadata.ExtractionConfidence != 0.3 {
		t.Errorf("expected confidence 0.3, got %v", std.Metadata.ExtractionConfidence)
	}
}

func TestStandardize_NullConfidence(t *testing.T) {
	var raw model.RawQuestion
	input := `{"id": "q1", "question_text": "Soru metni burada?", "choices": {"A": "1", "B": "2", "C": "3", "D": "4", "E": "5"}, "extraction_confidence": null}`
	if err := json.Unmarshal([]byte(input), &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	std := NewStandardizer(nil, 0.7).Standardize(raw)
	if len(std.Validation.Warnings) != 0 {
		t.Errorf("expected no warnings for null confidence, got %v", std.Validation.Warnings)
	}
	if std.Metadata.ExtractionConfidence != 1.0 {
		t.Errorf("expected confidence 1.0, got %v", std.Metadata.ExtractionConfidence)
	}
}

func TestStandardize_DefaultID(t *testing.T) {
	s := NewStandardizer(nil, 0.7)
	raw := newRaw("Soru?", fullChoices())
	raw.ID = ""

	if got := s.Standardize(raw).ID; got != "unknown" {
		t.Errorf("expected id 'unknown', got %q", got)
	}
}

func TestStandardize_AlwaysFiveChoices(t *testing.T) {
	s := NewStandardizer(nil, 0.7)
	choices := fullChoices()
	choices["F"] = "altı"
	std := s.Standardize(newRaw("Soru?", choices))

	data, err := json.Marshal(std.Normalized.Choices)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(decoded) != 5 {
		t.Errorf("expected exactly 5 choice keys, got %v", decoded)
	}
	if _, ok := decoded["F"]; ok {
		t.Error("unexpected label F in normalized choices")
	}
}

func TestStandardize_Idempotent(t *testing.T) {
	s := NewStandardizer(nil, 0.7)
	raw := newRaw("  I. birinci\n II. ikinci\t\tIII. üçüncü  hangisi doğrudur? ",
		map[string]string{"A": " Yalnız I ", "B": "Yalnız\nII", "C": "", "D": "I ve II", "E": "I, II ve III"})
	raw.FiguresDesc = "  tablo \n"
	raw.ExtractionNotes = "  not  "

	first := s.Standardize(raw)
	second := s.Standardize(AsRaw(first))

	if first.Normalized != second.Normalized {
		t.Errorf("expected idempotent normalization:\nfirst:  %+v\nsecond: %+v", first.Normalized, second.Normalized)
	}
	if first.BaseFeatures != second.BaseFeatures {
		t.Errorf("expected identical features:\nfirst:  %+v\nsecond: %+v", first.BaseFeatures, second.BaseFeatures)
	}
	if first.Metadata != second.Metadata {
		t.Errorf("expected identical metadata, got %+v and %+v", first.Metadata, second.Metadata)
	}
}

func TestStandardize_Deterministic(t *testing.T) {
	s := NewStandardizer(nil, 0.7)
	raw := newRaw("Şekildeki tabloya göre aşağıdakilerden hangisi yanlıştır?",
		map[string]string{"A": "x + 1", "B": "2x", "C": "3", "D": "", "E": "y = 2"})

	first, err := json.Marshal(s.Standardize(raw))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		got, _ := json.Marshal(s.Standardize(raw))
		if string(got) != string(first) {
			t.Fatalf("run %d: output differs\nexpected %s\ngot      %s", i, first, got)
		}
	}
}

func TestStandardizeBatch_PreservesOrder(t *testing.T) {
	s := NewStandardizer(nil, 0.7)
	raws := make([]model.RawQuestion, 3)
	for i, id := range []string{"a", "b", "c"} {
		raws[i] = newRaw("Soru?", fullChoices())
		raws[i].ID = id
	}

	out := s.StandardizeBatch(raws)
	for i, id := range []string{"a", "b", "c"} {
		if out[i].ID != id {
			t.Errorf("index %d: expected id %s, got %s", i, id, out[i].ID)
		}
	}
}
