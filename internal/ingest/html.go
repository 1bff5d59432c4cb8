package ingest

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/yksassistant/hakem/internal/model"
)

// HTMLAdapter extracts question records from one style of HTML markup
type HTMLAdapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter understands the document
	CanHandle(doc *html.Node) bool

	// ExtractQuestions extracts raw records from the document
	ExtractQuestions(doc *html.Node) ([]model.RawQuestion, error)
}

// HTMLRegistry manages HTML adapters
type HTMLRegistry struct {
	adapters []HTMLAdapter
	generic  HTMLAdapter
}

// NewHTMLRegistry creates a registry with the built-in adapters
func NewHTMLRegistry() *HTMLRegistry {
	registry := &HTMLRegistry{}

	registry.Register(NewMarkupAdapter())

	// Set generic adapter as fallback
	registry.generic = NewGenericAdapter()

	return registry
}

// Register registers a new adapter
func (r *HTMLRegistry) Register(adapter HTMLAdapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter finds the first adapter that can handle doc
func (r *HTMLRegistry) FindAdapter(doc *html.Node) HTMLAdapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(doc) {
			return adapter
		}
	}
	return r.generic
}

// DecodeHTML parses an HTML document and extracts its questions
func DecodeHTML(r io.Reader) ([]model.RawQuestion, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return NewHTMLRegistry().FindAdapter(doc).ExtractQuestions(doc)
}

// MarkupAdapter reads explicitly marked questions:
//
//	<div class="question" id="q1">
//	  <p class="stem">...</p>
//	  <ol><li>...</li> ...</ol>
//	  <figure><figcaption>...</figcaption></figure>
//	</div>
//
// A data-question attribute marks a question as well. Choices may instead be
// elements with class "choice" and an optional data-label.
type MarkupAdapter struct {
	htmlHelper
}

// NewMarkupAdapter creates a new markup adapter
func NewMarkupAdapter() *MarkupAdapter {
	return &MarkupAdapter{}
}

// Name returns the adapter name
func (a *MarkupAdapter) Name() string {
	return "markup"
}

// CanHandle reports whether doc contains marked questions
func (a *MarkupAdapter) CanHandle(doc *html.Node) bool {
	return a.FindFirst(doc, a.isQuestion) != nil
}

// ExtractQuestions extracts one record per marked question
func (a *MarkupAdapter) ExtractQuestions(doc *html.Node) ([]model.RawQuestion, error) {
	var raws []model.RawQuestion

	for i, n := range a.findOutermost(doc, a.isQuestion) {
		raw := model.NewRawQuestion()
		raw.ID = a.questionID(n, i)

		if stem := a.FindFirst(n, func(c *html.Node) bool { return a.HasClass(c, "stem") }); stem != nil {
			raw.QuestionText = a.VisibleText(stem)
		} else if p := a.FindFirst(n, isElement("p")); p != nil {
			raw.QuestionText = a.VisibleText(p)
		}

		raw.Choices = a.choices(n)
		raw.FiguresDesc = a.figure(n)
		raws = append(raws, raw)
	}

	return raws, nil
}

func (a *MarkupAdapter) isQuestion(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if a.HasClass(n, "question") {
		return true
	}
	for _, attr := range n.Attr {
		if attr.Key == "data-question" {
			return true
		}
	}
	return false
}

func (a *MarkupAdapter) questionID(n *html.Node, index int) string {
	for _, key := range []string{"data-id", "id", "data-question"} {
		if v := strings.TrimSpace(a.GetAttribute(n, key)); v != "" {
			return v
		}
	}
	return fmt.Sprintf("q%d", index+1)
}

func (a *MarkupAdapter) choices(n *html.Node) map[string]string {
	marked := a.FindAll(n, func(c *html.Node) bool { return a.HasClass(c, "choice") })
	if len(marked) > 0 {
		out := make(map[string]string)
		for i, c := range marked {
			label := strings.ToUpper(strings.TrimSpace(a.GetAttribute(c, "data-label")))
			if label == "" && i < len(model.Labels) {
				label = model.Labels[i]
			}
			if label != "" {
				out[label] = stripLabel(a.VisibleText(c))
			}
		}
		return out
	}
	return a.listChoices(n)
}

func (a *MarkupAdapter) figure(n *html.Node) string {
	if fc := a.FindFirst(n, isElement("figcaption")); fc != nil {
		return a.VisibleText(fc)
	}
	if fig := a.FindFirst(n, func(c *html.Node) bool { return a.HasClass(c, "figure") }); fig != nil {
		return a.VisibleText(fig)
	}
	if img := a.FindFirst(n, isElement("img")); img != nil {
		return strings.TrimSpace(a.GetAttribute(img, "alt"))
	}
	return ""
}

// GenericAdapter treats the whole document as a single question: paragraphs
// before the first list form the stem, the list items are the choices
type GenericAdapter struct {
	htmlHelper
}

// NewGenericAdapter creates a new generic adapter
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

// Name returns the adapter name
func (a *GenericAdapter) Name() string {
	return "generic"
}

// CanHandle always returns true (fallback adapter)
func (a *GenericAdapter) CanHandle(doc *html.Node) bool {
	return true
}

// ExtractQuestions extracts at most one record; a document without a stem
// or choices yields none
func (a *GenericAdapter) ExtractQuestions(doc *html.Node) ([]model.RawQuestion, error) {
	list := a.FindFirst(doc, isList)

	var stem []string
	for _, p := range a.FindAll(doc, isElement("p")) {
		if list != nil && !precedes(p, list) {
			break
		}
		if text := a.VisibleText(p); text != "" {
			stem = append(stem, text)
		}
	}

	choices := a.listChoices(doc)
	if len(stem) == 0 && len(choices) == 0 {
		return nil, nil
	}

	raw := model.NewRawQuestion()
	if title := a.FindFirst(doc, isElement("title")); title != nil {
		if t := a.VisibleText(title); t != "" {
			raw.ID = t
		}
	}
	raw.QuestionText = strings.Join(stem, " ")
	raw.Choices = choices
	// layout-based reading is less reliable than explicit markup
	raw.ExtractionConfidence = 0.8
	raw.ExtractionNotes = "generic HTML layout"

	return []model.RawQuestion{raw}, nil
}

// htmlHelper provides common node helpers for adapters
type htmlHelper struct{}

// VisibleText returns the whitespace-collapsed text under n, skipping
// script, style, noscript and iframe elements
func (h htmlHelper) VisibleText(n *html.Node) string {
	var parts []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// HasClass checks if a node has a specific CSS class
func (h htmlHelper) HasClass(n *html.Node, className string) bool {
	if n.Type != html.ElementNode {
		return false
	}

	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, class := range strings.Fields(attr.Val) {
				if class == className {
					return true
				}
			}
		}
	}
	return false
}

// GetAttribute gets an attribute value from a node
func (h htmlHelper) GetAttribute(n *html.Node, attrKey string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrKey {
			return attr.Val
		}
	}
	return ""
}

// FindAll finds all nodes matching a predicate
func (h htmlHelper) FindAll(n *html.Node, predicate func(*html.Node) bool) []*html.Node {
	var results []*html.Node

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if predicate(node) {
			results = append(results, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return results
}

// FindFirst finds the first node matching a predicate
func (h htmlHelper) FindFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	var result *html.Node

	var walk func(*html.Node) bool
	walk = func(node *html.Node) bool {
		if predicate(node) {
			result = node
			return true
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	walk(n)
	return result
}

// findOutermost is FindAll without descending into matches
func (h htmlHelper) findOutermost(n *html.Node, predicate func(*html.Node) bool) []*html.Node {
	var results []*html.Node

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if predicate(node) {
			results = append(results, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return results
}

// listChoices labels the items of the first ordered or unordered list A..E;
// items past the fifth are dropped
func (h htmlHelper) listChoices(n *html.Node) map[string]string {
	out := make(map[string]string)

	list := h.FindFirst(n, isList)
	if list == nil {
		return out
	}

	i := 0
	for c := list.FirstChild; c != nil && i < len(model.Labels); c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		out[model.Labels[i]] = stripLabel(h.VisibleText(c))
		i++
	}
	return out
}

var labelPrefix = regexp.MustCompile(`^\(?[A-Ea-e][).:]\s*`)

// stripLabel removes a leading "A)", "(B)" or "C." written into the choice text
func stripLabel(s string) string {
	return strings.TrimSpace(labelPrefix.ReplaceAllString(s, ""))
}

func isElement(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}

func isList(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.Data == "ol" || n.Data == "ul")
}

// precedes reports whether a comes before b in document order
func precedes(a, b *html.Node) bool {
	found, before := false, false

	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n == a {
			found, before = true, true
			return true
		}
		if n == b {
			found = true
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	root := a
	for root.Parent != nil {
		root = root.Parent
	}
	walk(root)
	return found && before
}
