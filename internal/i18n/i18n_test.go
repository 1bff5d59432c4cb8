package i18n

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCatalog_LoadsEmbeddedLocales(t *testing.T) {
	c, err := NewCatalog("tr")
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	for _, lang := range []string{"tr", "en"} {
		if !c.Supports(lang) {
			t.Errorf("expected %s to be supported, got %v", lang, c.Languages())
		}
	}
	if c.Supports("de") {
		t.Error("did not expect de to be supported")
	}
}

func TestCatalog_InvalidDefault(t *testing.T) {
	if _, err := NewCatalog("not a tag!"); err == nil {
		t.Error("expected error for invalid language tag")
	}
}

func TestTranslator_Turkish(t *testing.T) {
	tr := Default().Translator("tr")

	if got := tr.T("GuardAllPassed"); got != "Tüm kontroller geçti." {
		t.Errorf("expected 'Tüm kontroller geçti.', got %q", got)
	}
	got := tr.Td("GapQuestionTooShort", map[string]any{"Value": 42, "Min": 100.0, "Max": 350.0})
	if got != "Soru çok kısa (42 karakter). ÖSYM'de tipik: 100-350" {
		t.Errorf("unexpected gap text: %q", got)
	}
}

func TestTranslator_EnglishAndFallback(t *testing.T) {
	c := Default()

	if got := c.Translator("en").T("GuardAllPassed"); got != "All checks passed." {
		t.Errorf("expected English text, got %q", got)
	}
	// unknown language falls back to Turkish
	if got := c.Translator("de").T("GuardAllPassed"); got != "Tüm kontroller geçti." {
		t.Errorf("expected Turkish fallback, got %q", got)
	}
}

func TestTranslator_MissingKey(t *testing.T) {
	if got := Default().Translator("en").T("NonExistentKey"); got != "NonExistentKey" {
		t.Errorf("expected 'NonExistentKey', got %q", got)
	}
}

func TestLocales_SameKeys(t *testing.T) {
	read := func(name string) map[string]string {
		data, err := localeFS.ReadFile("locales/" + name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		return m
	}
	tr, en := read("tr.json"), read("en.json")
	for k := range tr {
		if _, ok := en[k]; !ok {
			t.Errorf("en.json missing key %s", k)
		}
	}
	for k := range en {
		if _, ok := tr[k]; !ok {
			t.Errorf("tr.json missing key %s", k)
		}
	}
}

func TestMiddleware(t *testing.T) {
	var seen string
	h := Default().Middleware("tr")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = LangFromContext(r.Context(), "")
	}))

	tests := []struct {
		name   string
		url    string
		header string
		want   string
	}{
		{"default", "/", "", "tr"},
		{"query", "/?lang=en", "", "en"},
		{"unsupported query", "/?lang=xx", "", "tr"},
		{"accept-language", "/", "en-US,en;q=0.9", "en"},
		{"query beats header", "/?lang=tr", "en-US", "tr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			if seen != tt.want {
				t.Errorf("expected lang %s, got %s", tt.want, seen)
			}
		})
	}
}
