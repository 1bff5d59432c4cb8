package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yksassistant/hakem/internal/i18n"
	"github.com/yksassistant/hakem/internal/ingest"
	"github.com/yksassistant/hakem/internal/model"
	"github.com/yksassistant/hakem/internal/pipeline"
)

var (
	outJSON   string
	outMD     string
	noSummary bool
)

// assessCmd represents the assess command
var assessCmd = &cobra.Command{
	Use:   "assess <file|->",
	Short: "Assess a single question record",
	Long: `Assess reads one extracted question record (JSON, YAML or HTML) and runs:
- Normalization and feature extraction
- Clarity guard (format, clarity, single-answer likelihood)
- Cognitive signature
- Distractor quality
- Reference similarity

The assessment is written as JSON to stdout or to --json, optionally as
Markdown to --md, and summarized on stderr.

Example:
  hakem assess question.json
  cat question.json | hakem assess -
  hakem assess question.yaml --json report.json --md report.md --lang en`,
	Args: cobra.ExactArgs(1),
	RunE: runAssess,
}

func init() {
	rootCmd.AddCommand(assessCmd)

	assessCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (default: stdout)")
	assessCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	assessCmd.Flags().BoolVar(&noSummary, "no-summary", false, "do not print the summary on stderr")
}

func runAssess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	raws, err := ingest.ReadFile(args[0])
	if err != nil {
		return err
	}
	switch len(raws) {
	case 0:
		return fmt.Errorf("no question record in %s", args[0])
	case 1:
	default:
		return fmt.Errorf("%s holds %d records; use 'hakem batch' for record sets", args[0], len(raws))
	}

	// assessment never needs the provider
	cfg.LLM.Provider = ""
	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	a := p.Assess(context.Background(), raws[0])
	return renderAssessment(cfg, a)
}

func renderAssessment(cfg *model.Config, a model.Assessment) error {
	renderer := pipeline.NewRenderer(translator(cfg), cfg.Output.PrettyJSON)

	if outJSON == "" {
		if err := renderer.EncodeJSON(os.Stdout, a); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
	} else {
		if err := renderer.RenderJSON(a, outJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ JSON report: %s\n", outJSON)
	}

	if outMD != "" {
		if err := renderer.RenderMarkdown(a, outMD); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Markdown report: %s\n", outMD)
	}

	if !noSummary {
		renderer.RenderSummary(os.Stderr, a)
	}
	return nil
}

// translator returns the translator for the configured language
func translator(cfg *model.Config) *i18n.Translator {
	return i18n.Default().Translator(cfg.Lang, i18n.DefaultLang)
}
