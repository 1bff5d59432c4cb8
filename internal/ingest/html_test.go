package ingest

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

const markupDoc = `<!DOCTYPE html>
<html><head><title>Deneme</title><style>.q{}</style></head>
<body>
  <div class="question" id="mat-1">
    <p class="stem">Bir sayının 3 katı 12 ise bu sayı <b>kaçtır</b>?</p>
    <ol>
      <li>A) 2</li>
      <li>B) 3</li>
      <li>C) 4</li>
      <li>D) 5</li>
      <li>E) 6</li>
    </ol>
  </div>
  <section data-question="tr-2">
    <p>Şekle göre hangisi doğrudur?</p>
    <figure><img src="s.png" alt="ignored"><figcaption>Bir üçgen çizimi</figcaption></figure>
    <span class="choice" data-label="a">Birinci</span>
    <span class="choice" data-label="b">İkinci</span>
    <script>var x = "hidden";</script>
  </section>
  <div class="question">
    <p>Üçüncü soru</p>
    <img src="x.png" alt="Grafik">
  </div>
</body></html>`

func TestDecodeHTML_Markup(t *testing.T) {
	raws, err := DecodeHTML(strings.NewReader(markupDoc))
	if err != nil {
		t.Fatalf("DecodeHTML failed: %v", err)
	}
	if len(raws) != 3 {
		t.Fatalf("expected 3 records, got %d", len(raws))
	}

	first := raws[0]
	if first.ID != "mat-1" {
		t.Errorf("expected id 'mat-1', got %q", first.ID)
	}
	if first.QuestionText != "Bir sayının 3 katı 12 ise bu sayı kaçtır ?" {
		t.Errorf("unexpected stem %q", first.QuestionText)
	}
	if first.Choices["A"] != "2" || first.Choices["E"] != "6" {
		t.Errorf("expected label prefixes stripped, got %v", first.Choices)
	}

	second := raws[1]
	if second.ID != "tr-2" {
		t.Errorf("expected id from data-question, got %q", second.ID)
	}
	if second.Choices["A"] != "Birinci" || second.Choices["B"] != "İkinci" {
		t.Errorf("unexpected marked choices %v", second.Choices)
	}
	if second.FiguresDesc != "Bir üçgen çizimi" {
		t.Errorf("expected figcaption as figure, got %q", second.FiguresDesc)
	}

	third := raws[2]
	if third.ID != "q3" {
		t.Errorf("expected positional id 'q3', got %q", third.ID)
	}
	if third.FiguresDesc != "Grafik" {
		t.Errorf("expected img alt as figure, got %q", third.FiguresDesc)
	}
	if len(third.Choices) != 0 {
		t.Errorf("expected no choices, got %v", third.Choices)
	}
}

func TestDecodeHTML_Generic(t *testing.T) {
	doc := `<html><head><title>soru-9</title></head><body>
		<p>Türkiye'nin başkenti</p>
		<p>hangisidir?</p>
		<ul><li>İstanbul</li><li>Ankara</li><li>İzmir</li></ul>
		<p>Kaynak: ders kitabı</p>
	</body></html>`

	raws, err := DecodeHTML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodeHTML failed: %v", err)
	}
	if len(raws) != 1 {
		t.Fatalf("expected 1 record, got %d", len(raws))
	}

	raw := raws[0]
	if raw.ID != "soru-9" {
		t.Errorf("expected id from title, got %q", raw.ID)
	}
	if raw.QuestionText != "Türkiye'nin başkenti hangisidir?" {
		t.Errorf("expected paragraphs after the list excluded, got %q", raw.QuestionText)
	}
	if raw.Choices["B"] != "Ankara" || len(raw.Choices) != 3 {
		t.Errorf("unexpected choices %v", raw.Choices)
	}
	if raw.ExtractionConfidence != 0.8 {
		t.Errorf("expected reduced confidence 0.8, got %v", raw.ExtractionConfidence)
	}
}

func TestDecodeHTML_Empty(t *testing.T) {
	raws, err := DecodeHTML(strings.NewReader("<html><body><div>nothing here</div></body></html>"))
	if err != nil {
		t.Fatalf("DecodeHTML failed: %v", err)
	}
	if len(raws) != 0 {
		t.Errorf("expected no records, got %d", len(raws))
	}
}

func TestHTMLRegistry_FindAdapter(t *testing.T) {
	registry := NewHTMLRegistry()

	tests := []struct {
		doc      string
		expected string
	}{
		{markupDoc, "markup"},
		{"<p>plain</p>", "generic"},
	}
	for _, tt := range tests {
		doc, err := html.Parse(strings.NewReader(tt.doc))
		if err != nil {
			t.Fatal(err)
		}
		if got := registry.FindAdapter(doc).Name(); got != tt.expected {
			t.Errorf("expected adapter %s, got %s", tt.expected, got)
		}
	}
}

func TestStripLabel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"A) 12", "12"},
		{"(b) on iki", "on iki"},
		{"C. Ankara", "Ankara"},
		{"D:x", "x"},
		{"Ankara", "Ankara"},
		{"F) not a label", "F) not a label"},
	}
	for _, tt := range tests {
		if got := stripLabel(tt.input); got != tt.expected {
			t.Errorf("stripLabel(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}
