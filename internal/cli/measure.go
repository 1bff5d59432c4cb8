package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yksassistant/hakem/internal/pipeline"
)

var (
	llmProvider    string
	llmModel       string
	llmBaseURL     string
	noCache        bool
	measureTimeout time.Duration
	measureOutDir  string
)

// measureCmd represents the measure command
var measureCmd = &cobra.Command{
	Use:   "measure <image>...",
	Short: "Read question images with an LLM and assess them",
	Long: `Measure sends each question image to a vision model, which must answer
with an extract_v1 record. Invalid answers are retried once; the record is
then assessed like any other. Extractions are cached by image, provider and
model, so measuring the same image twice calls the model once.

Example:
  hakem measure soru1.png
  hakem measure scans/*.jpg --output-dir ./reports
  hakem measure soru.png --llm-provider anthropic --llm-model claude-sonnet-4-5
  hakem measure soru.png --llm-provider ollama --llm-model qwen2.5vl:7b`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMeasure,
}

func init() {
	rootCmd.AddCommand(measureCmd)

	measureCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (fireworks, together, openai, anthropic, ollama)")
	measureCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (default depends on provider)")
	measureCmd.Flags().StringVar(&llmBaseURL, "llm-base-url", "", "override the provider base URL")
	measureCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the extraction cache")
	measureCmd.Flags().DurationVar(&measureTimeout, "timeout", 10*time.Minute, "total timeout")
	measureCmd.Flags().StringVar(&measureOutDir, "output-dir", "", "write one JSON measurement per image here (default: stdout)")
}

func runMeasure(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), measureTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.APIKey = ""
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if llmBaseURL != "" {
		cfg.LLM.BaseURL = llmBaseURL
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	resolveLLMEnv(&cfg.LLM)

	if cfg.LLM.Provider == "" {
		return fmt.Errorf("%w: pass --llm-provider or set llm.provider", pipeline.ErrNoProvider)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}
	renderer := pipeline.NewRenderer(translator(cfg), cfg.Output.PrettyJSON)

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Measuring %d images with %s/%s\n\n", len(args), cfg.LLM.Provider, cfg.LLM.Model)
	}

	results := p.MeasureBatch(ctx, args)

	failures := 0
	for _, res := range results {
		if res.Error != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.Path, res.Error)
			continue
		}

		m := res.Measurement
		if measureOutDir != "" {
			name := strings.TrimSuffix(filepath.Base(res.Path), filepath.Ext(res.Path))
			path := filepath.Join(measureOutDir, sanitizeFilename(name)+".json")
			if err := renderer.RenderJSON(m, path); err != nil {
				failures++
				fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", res.Path, err)
				continue
			}
		} else if err := renderer.EncodeJSON(os.Stdout, m); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}

		cached := ""
		if m.Cached {
			cached = ", cached"
		}
		fmt.Fprintf(os.Stderr, "✓ %s (similarity: %.2f, req_id: %s%s)\n", res.Path, m.Assessment.Similarity.Similarity, m.RequestID, cached)
		if verbose {
			renderer.RenderSummary(os.Stderr, m.Assessment)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d images failed", failures, len(results))
	}
	return nil
}
