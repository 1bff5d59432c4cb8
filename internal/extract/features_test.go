package extract

import (
	"testing"

	"github.com/yksassistant/hakem/internal/model"
)

func TestCountTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"Aşağıdakilerden hangisi, doğrudur?", 3},
		{"(x + y) = [5]", 5},
		{`"alıntı" ve 'tırnak'`, 3},
	}
	for _, tt := range tests {
		if got := CountTokens(tt.text); got != tt.want {
			t.Errorf("CountTokens(%q): expected %d, got %d", tt.text, tt.want, got)
		}
	}
}

func TestCountSentences(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 1},
		{"...", 1},
		{"Bir cümle", 1},
		{"Bir. İki! Üç?", 3},
		{"Sonuç nedir?!  ", 1},
	}
	for _, tt := range tests {
		if got := CountSentences(tt.text); got != tt.want {
			t.Errorf("CountSentences(%q): expected %d, got %d", tt.text, tt.want, got)
		}
	}
}

func TestClassifyChoice(t *testing.T) {
	tests := []struct {
		text string
		want model.ChoiceType
	}{
		{"", model.ChoiceEmpty},
		{"   ", model.ChoiceEmpty},
		{"12", model.ChoiceNumeric},
		{"3/4", model.ChoiceNumeric},
		{"√2", model.ChoiceNumeric},
		{"2,5", model.ChoiceNumeric},
		{"x + 1", model.ChoiceExpression},
		{"a", model.ChoiceExpression},
		{"Ankara", model.ChoiceStatement},
		{"Yalnız I", model.ChoiceStatement},
	}
	for _, tt := range tests {
		if got := ClassifyChoice(tt.text); got != tt.want {
			t.Errorf("ClassifyChoice(%q): expected %s, got %s", tt.text, tt.want, got)
		}
	}
}

func TestChoicesDistinct(t *testing.T) {
	if !ChoicesDistinct(model.Choices{"bir", "iki", "", "", ""}) {
		t.Error("expected empty slots to be ignored")
	}
	if ChoicesDistinct(model.Choices{"Elma", "elma", "armut", "kiraz", "erik"}) {
		t.Error("expected case-insensitive duplicate to be detected")
	}
	if ChoicesDistinct(model.Choices{"IŞIK", "ışık", "a", "b", "c"}) {
		t.Error("expected Turkish case folding to detect duplicate")
	}
}

func TestChoiceSimilarity(t *testing.T) {
	same := model.Choices{"aynı metin", "aynı metin", "aynı metin", "aynı metin", "aynı metin"}
	if got := ChoiceSimilarity(same); got != 1 {
		t.Errorf("expected similarity 1 for identical choices, got %v", got)
	}

	disjoint := model.Choices{"bir", "iki", "üç", "dört", "beş"}
	if got := ChoiceSimilarity(disjoint); got != 0 {
		t.Errorf("expected similarity 0 for disjoint choices, got %v", got)
	}

	single := model.Choices{"tek", "", "", "", ""}
	if got := ChoiceSimilarity(single); got != 0 {
		t.Errorf("expected similarity 0 with fewer than two choices, got %v", got)
	}
}

func TestFeatureExtractor_Extract(t *testing.T) {
	extractor := NewFeatureExtractor(nil)

	q := model.NormalizedQuestion{
		QuestionText: "Şekilde verilen bilgilere göre I. Kare bir dikdörtgendir. II. Her dörtgen karedir. " +
			"III. Kare bir paralelkenardır. ifadelerinden hangileri doğru değildir?",
		Choices:     model.Choices{"Yalnız I", "Yalnız II", "I ve II", "II ve III", "I, II ve III"},
		FiguresDesc: "Bir kare çizimi",
	}

	f := extractor.Extract(q)

	if !f.IsNegativeQuestion {
		t.Error("expected negative question")
	}
	if f.PremiseCountProxy != 3 {
		t.Errorf("expected 3 premises, got %d", f.PremiseCountProxy)
	}
	if !f.HasFigure {
		t.Error("expected has_figure")
	}
	if !f.ReferencesFigureInText {
		t.Error("expected figure reference")
	}
	if f.SentenceCount != 7 {
		t.Errorf("expected 7 sentences, got %d", f.SentenceCount)
	}
	if f.CountType(model.ChoiceStatement) != 5 {
		t.Errorf("expected 5 statement choices, got %v", f.ChoiceTypes)
	}
	if !f.ChoicesAreDistinct {
		t.Error("expected distinct choices")
	}
	if f.ChoiceSimilarityScore <= 0 || f.ChoiceSimilarityScore >= 1 {
		t.Errorf("expected partial similarity, got %v", f.ChoiceSimilarityScore)
	}
	if f.CharLen != len([]rune(q.QuestionText)) {
		t.Errorf("expected rune length %d, got %d", len([]rune(q.QuestionText)), f.CharLen)
	}
}

func TestFeatureExtractor_Deterministic(t *testing.T) {
	extractor := NewFeatureExtractor(nil)
	q := model.NormalizedQuestion{
		QuestionText: "Buna göre x kaçtır?",
		Choices:      model.Choices{"1", "2", "3", "4", "5"},
	}

	first := extractor.Extract(q)
	for i := 0; i < 10; i++ {
		if got := extractor.Extract(q); got != first {
			t.Fatalf("run %d: expected %+v, got %+v", i, first, got)
		}
	}
}
