package i18n

import (
	"net/http"

	"golang.org/x/text/language"
)

// Middleware resolves the response language for every request. The ?lang= query
// parameter wins over Accept-Language; unsupported values fall back to fallback.
func (c *Catalog) Middleware(fallback string) func(http.Handler) http.Handler {
	tags := make([]language.Tag, 0, len(c.langs)+1)
	tags = append(tags, language.Make(fallback))
	for _, l := range c.langs {
		tags = append(tags, language.Make(l))
	}
	matcher := language.NewMatcher(tags)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := fallback
			if q := r.URL.Query().Get("lang"); q != "" && c.Supports(q) {
				lang = q
			} else if h := r.Header.Get("Accept-Language"); h != "" {
				if _, idx, conf := matcher.Match(parseAccept(h)...); conf != language.No {
					base, _ := tags[idx].Base()
					lang = base.String()
				}
			}
			next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), lang)))
		})
	}
}

func parseAccept(h string) []language.Tag {
	tags, _, err := language.ParseAcceptLanguage(h)
	if err != nil {
		return nil
	}
	return tags
}
