package score

import (
	"strings"
	"testing"

	"github.com/yksassistant/hakem/internal/i18n"
	"github.com/yksassistant/hakem/internal/model"
)

func TestCognitiveAnalyzer_Computation(t *testing.T) {
	a := NewCognitiveAnalyzer(nil, nil)
	sig := a.Analyze(newStd("x + 5 = 12 ise x kaçtır?", [5]string{"5", "6", "7", "8", "9"}, ""))

	if sig.DominantType != model.AxisComputation {
		t.Errorf("expected dominant %s, got %s", model.AxisComputation, sig.DominantType)
	}
	// 3 indicator hits saturate the pattern term; all choices numeric
	if sig.Scores.ComputationHeavy != 0.7 {
		t.Errorf("expected computation 0.7, got %v", sig.Scores.ComputationHeavy)
	}
	if sig.DifficultyProfile != 0.09 {
		t.Errorf("expected difficulty 0.09, got %v", sig.DifficultyProfile)
	}
	if !strings.HasPrefix(sig.Reasoning, "Baskın bilişsel profil: hesaplama ağırlıklı (70%), ") {
		t.Errorf("unexpected reasoning %q", sig.Reasoning)
	}
}

func TestCognitiveAnalyzer_NegativeAndPremises(t *testing.T) {
	a := NewCognitiveAnalyzer(nil, nil)
	stem := "I. Işık bir dalgadır. II. Ses boşlukta yayılır. III. Isı bir enerji türüdür. " +
		"Yukarıdaki ifadelerden hangisi doğru değildir?"
	sig := a.Analyze(newStd(stem, [5]string{"Yalnız I", "Yalnız II", "I ve II", "II ve III", "I, II ve III"}, ""))

	if sig.Scores.ReadingTrap < 0.3 {
		t.Errorf("negative stem should add to reading trap, got %v", sig.Scores.ReadingTrap)
	}
	if sig.Scores.RelationBuilding < 0.5 {
		t.Errorf("three premises and a negative stem should raise relation, got %v", sig.Scores.RelationBuilding)
	}
	if sig.Scores.ComputationHeavy != 0 {
		t.Errorf("expected no computation, got %v", sig.Scores.ComputationHeavy)
	}
}

func TestCognitiveAnalyzer_FigureBonus(t *testing.T) {
	a := NewCognitiveAnalyzer(nil, nil)

	without := a.Analyze(newStd("Buna göre hangisi doğrudur?", [5]string{"bir", "iki", "üç", "dört", "beş"}, ""))
	with := a.Analyze(newStd("Buna göre hangisi doğrudur?", [5]string{"bir", "iki", "üç", "dört", "beş"}, "bir çizim"))

	if diff := with.Scores.PatternRecognition - without.Scores.PatternRecognition; diff < 0.39 || diff > 0.41 {
		t.Errorf("expected figure bonus 0.4, got %v", diff)
	}
}

func TestCognitiveAnalyzer_EmptyInput(t *testing.T) {
	a := NewCognitiveAnalyzer(nil, nil)
	sig := a.Analyze(newStd("", [5]string{}, ""))

	// only the sentence floor of 1 contributes
	if sig.DominantType != model.AxisTimeSink {
		t.Errorf("expected dominant %s, got %s", model.AxisTimeSink, sig.DominantType)
	}
	if sig.Scores.TimeSink != 0.06 {
		t.Errorf("expected time_sink 0.06, got %v", sig.Scores.TimeSink)
	}
	if sig.DifficultyProfile != 0.3 {
		t.Errorf("expected difficulty 0.3, got %v", sig.DifficultyProfile)
	}
}

func TestCognitiveAnalyzer_ConceptIndicators(t *testing.T) {
	a := NewCognitiveAnalyzer(nil, nil)
	// two concept hits saturate the pattern term
	sig := a.Analyze(newStd("Kavram nedir?", [5]string{"", "", "", "", ""}, ""))

	if sig.Scores.ConceptHeavy != 0.6 {
		t.Errorf("expected concept 0.6, got %v", sig.Scores.ConceptHeavy)
	}
	if sig.DominantType != model.AxisConcept {
		t.Errorf("expected dominant %s, got %s", model.AxisConcept, sig.DominantType)
	}
}

func TestCognitiveAnalyzer_EnglishReasoning(t *testing.T) {
	a := NewCognitiveAnalyzer(nil, i18n.Default().Translator("en"))
	sig := a.Analyze(newStd("x + 5 = 12 ise x kaçtır?", [5]string{"5", "6", "7", "8", "9"}, ""))

	if !strings.HasPrefix(sig.Reasoning, "Dominant cognitive profile: computation heavy (70%)") {
		t.Errorf("unexpected reasoning %q", sig.Reasoning)
	}
}
