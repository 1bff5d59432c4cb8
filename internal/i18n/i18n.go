package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// DefaultLang is the language used when none is requested
const DefaultLang = "tr"

// Catalog holds the parsed message bundle for every embedded locale
type Catalog struct {
	bundle *i18n.Bundle
	langs  []string
}

// NewCatalog loads all embedded locale files with defaultLang as the fallback.
func NewCatalog(defaultLang string) (*Catalog, error) {
	tag, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("parse language %q: %w", defaultLang, err)
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	c := &Catalog{bundle: bundle}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale file %s: %w", e.Name(), err)
		}
		mf, err := bundle.ParseMessageFileBytes(data, e.Name())
		if err != nil {
			return nil, fmt.Errorf("parse locale file %s: %w", e.Name(), err)
		}
		c.langs = append(c.langs, mf.Tag.String())
	}

	return c, nil
}

// Languages lists the loaded locale tags
func (c *Catalog) Languages() []string {
	return c.langs
}

// Supports reports whether a locale file exists for lang
func (c *Catalog) Supports(lang string) bool {
	for _, l := range c.langs {
		if l == lang {
			return true
		}
	}
	return false
}

// Translator returns a translator for the given languages, most preferred first.
// Accept-Language header values are accepted as-is.
func (c *Catalog) Translator(langs ...string) *Translator {
	return &Translator{loc: i18n.NewLocalizer(c.bundle, langs...)}
}

// Translator renders message IDs in one language
type Translator struct {
	loc *i18n.Localizer
}

// T translates a message by ID.
func (t *Translator) T(msgID string) string {
	return t.Td(msgID, nil)
}

// Td translates a message by ID with template data. Missing IDs render as the ID itself.
func (t *Translator) Td(msgID string, data map[string]any) string {
	s, err := t.loc.Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: data,
	})
	if err != nil {
		slog.Warn("missing translation", "id", msgID, "error", err)
		return msgID
	}
	return s
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the shared catalog with Turkish as the fallback language.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := NewCatalog(DefaultLang)
		if err != nil {
			panic(fmt.Sprintf("i18n: embedded locales: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

type ctxKey struct{}

// WithLang stores the requested language in the context.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFromContext returns the language stored by WithLang, or fallback.
func LangFromContext(ctx context.Context, fallback string) string {
	if lang, ok := ctx.Value(ctxKey{}).(string); ok && lang != "" {
		return lang
	}
	return fallback
}
