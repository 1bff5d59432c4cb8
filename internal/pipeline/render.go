package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yksassistant/hakem/internal/i18n"
	"github.com/yksassistant/hakem/internal/model"
)

// Renderer writes assessments as JSON, Markdown and terminal summaries
type Renderer struct {
	msg    *i18n.Translator
	pretty bool
}

// NewRenderer creates a renderer; labels follow the translator's language
func NewRenderer(msg *i18n.Translator, pretty bool) *Renderer {
	if msg == nil {
		msg = i18n.Default().Translator(i18n.DefaultLang)
	}
	return &Renderer{msg: msg, pretty: pretty}
}

// EncodeJSON writes v to w
func (r *Renderer) EncodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if r.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// RenderJSON writes v to path, creating parent directories
func (r *Renderer) RenderJSON(v any, path string) error {
	return writeFile(path, func(w io.Writer) error { return r.EncodeJSON(w, v) })
}

// RenderMarkdown writes a Markdown report for one assessment to path
func (r *Renderer) RenderMarkdown(a model.Assessment, path string) error {
	return writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, r.Markdown(a))
		return err
	})
}

// Markdown builds the Markdown report for one assessment
func (r *Renderer) Markdown(a model.Assessment) string {
	t := r.msg.T
	var b strings.Builder

	fmt.Fprintf(&b, "# %s: %s\n\n", t("ReportTitle"), a.ID)
	fmt.Fprintf(&b, "**%s:** %s\n\n", t("ReportQuestion"), a.Normalized.QuestionText)
	for i, label := range model.Labels {
		fmt.Fprintf(&b, "- **%s)** %s\n", label, a.Normalized.Choices[i])
	}
	if a.Normalized.FiguresDesc != "" {
		fmt.Fprintf(&b, "\n> %s\n", a.Normalized.FiguresDesc)
	}

	fmt.Fprintf(&b, "\n## %s: %s\n\n", t("ReportGuard"), r.verdict(a.Guard))
	fmt.Fprintf(&b, "| format_valid | clarity | single_answer_likelihood |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| %.2f | %.2f | %.2f |\n\n", a.Guard.FormatValid, a.Guard.Clarity, a.Guard.SingleAnswerLikelihood)
	if len(a.Guard.RiskFlags) > 0 {
		fmt.Fprintf(&b, "**%s:** `%s`\n\n", t("ReportFlags"), joinFlags(a.Guard.RiskFlags, "`, `"))
	}
	fmt.Fprintf(&b, "%s\n", a.Guard.ReasonShort)

	sig := a.CognitiveSignature
	fmt.Fprintf(&b, "\n## %s\n\n", t("ReportCognitive"))
	fmt.Fprintf(&b, "| axis | score |\n|---|---|\n")
	for _, axis := range model.CognitiveAxes {
		fmt.Fprintf(&b, "| %s | %.2f |\n", axis, sig.Scores.Get(axis))
	}
	fmt.Fprintf(&b, "\n**%s:** %s  \n", t("ReportDominant"), sig.DominantType)
	fmt.Fprintf(&b, "**%s:** %.2f\n\n%s\n", t("ReportDifficulty"), sig.DifficultyProfile, sig.Reasoning)

	dq := a.DistractorQuality
	fmt.Fprintf(&b, "\n## %s: %.2f\n\n", t("ReportDistractors"), dq.Quality)
	fmt.Fprintf(&b, "| %s | %s | similarity | length |\n|---|---|---|---|\n", t("ReportChoice"), t("ReportTrap"))
	for _, c := range dq.Analysis {
		fmt.Fprintf(&b, "| %s | %s | %.2f | %d |\n", c.Choice, c.TrapType, c.SimilarityToOthers, c.Length)
	}
	fmt.Fprintf(&b, "\n%s\n", dq.Reasoning)

	sim := a.Similarity
	fmt.Fprintf(&b, "\n## %s: %.2f\n\n%s\n", t("ReportSimilarity"), sim.Similarity, sim.Reasoning)
	if len(sim.TopFeatureGaps) > 0 {
		fmt.Fprintf(&b, "\n**%s:**\n\n", t("ReportGaps"))
		for _, gap := range sim.TopFeatureGaps {
			fmt.Fprintf(&b, "- %s\n", gap)
		}
	}

	if len(a.Validation.Warnings) > 0 {
		fmt.Fprintf(&b, "\n## %s\n\n", t("ReportWarnings"))
		for _, w := range a.Validation.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}

// RenderSummary prints a short terminal summary of one assessment
func (r *Renderer) RenderSummary(w io.Writer, a model.Assessment) {
	t := r.msg.T

	fmt.Fprintf(w, "\n═══════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  %s: %s\n", t("ReportTitle"), a.ID)
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════\n\n")

	fmt.Fprintf(w, "  %-24s %s\n", t("ReportGuard")+":", r.verdict(a.Guard))
	fmt.Fprintf(w, "  %-24s %.2f / %.2f / %.2f\n", "", a.Guard.FormatValid, a.Guard.Clarity, a.Guard.SingleAnswerLikelihood)
	if len(a.Guard.RiskFlags) > 0 {
		fmt.Fprintf(w, "  %-24s %s\n", t("ReportFlags")+":", joinFlags(a.Guard.RiskFlags, ", "))
	}
	fmt.Fprintf(w, "  %-24s %s (%.2f)\n", t("ReportCognitive")+":", a.CognitiveSignature.DominantType, a.CognitiveSignature.DifficultyProfile)
	fmt.Fprintf(w, "  %-24s %.2f\n", t("ReportDistractors")+":", a.DistractorQuality.Quality)
	fmt.Fprintf(w, "  %-24s %.2f\n", t("ReportSimilarity")+":", a.Similarity.Similarity)

	for _, warn := range a.Validation.Warnings {
		fmt.Fprintf(w, "  ⚠ %s\n", warn)
	}
	fmt.Fprintln(w)
}

func (r *Renderer) verdict(g model.GuardResult) string {
	switch {
	case !g.Pass:
		return r.msg.T("ReportFail")
	case g.NeedsEscalation:
		return r.msg.T("ReportPass") + " (" + r.msg.T("ReportEscalate") + ")"
	default:
		return r.msg.T("ReportPass")
	}
}

func joinFlags(flags []model.RiskFlag, sep string) string {
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = string(f)
	}
	return strings.Join(parts, sep)
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
