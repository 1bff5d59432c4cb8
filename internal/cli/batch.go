package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yksassistant/hakem/internal/ingest"
	"github.com/yksassistant/hakem/internal/model"
	"github.com/yksassistant/hakem/internal/pipeline"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	writeMD      bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Assess every question record in a file in parallel",
	Long: `Batch assesses a whole record set concurrently:
- Read records from a JSON array, JSONL, YAML or HTML file
- Assess records in parallel with a configurable worker count
- Write one JSON report per record (and optionally Markdown)
- Print a pass/fail line per record and a summary

Example:
  hakem batch questions.jsonl
  hakem batch questions.json --concurrency 8 --output-dir ./reports
  hakem batch exam.html --md`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./hakem-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&writeMD, "md", false, "also write a Markdown report per record")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.LLM.Provider = ""
	if cmd.Flags().Changed("concurrency") || cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = concurrency
	}
	writeMarkdown := writeMD || cfg.Output.WriteMarkdown

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Hakem Batch Assessment\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Language:     %s\n", cfg.Lang)
	fmt.Fprintf(os.Stderr, "\n")

	fmt.Fprintf(os.Stderr, "⚙️  Reading records from file...\n")
	raws, err := ingest.ReadFile(file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d records\n\n", len(raws))

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}
	renderer := pipeline.NewRenderer(translator(cfg), cfg.Output.PrettyJSON)

	results := p.AssessBatch(ctx, raws)

	var passed, failed, escalated, errored int
	names := make(map[string]int)
	for _, res := range results {
		if res.Error != nil {
			errored++
			fmt.Fprintf(os.Stderr, "✗ #%d %s: %v\n", res.Index+1, res.ID, res.Error)
			continue
		}

		a := res.Assessment
		slug := uniqueName(names, sanitizeFilename(a.ID), res.Index)
		if err := renderer.RenderJSON(a, filepath.Join(outputDir, slug+".json")); err != nil {
			errored++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", a.ID, err)
			continue
		}
		if writeMarkdown {
			if err := renderer.RenderMarkdown(*a, filepath.Join(outputDir, slug+".md")); err != nil {
				errored++
				fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", a.ID, err)
				continue
			}
		}

		switch {
		case !a.Guard.Pass:
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s (guard: FAIL, flags: %s)\n", a.ID, flagList(a.Guard.RiskFlags))
		case a.Guard.NeedsEscalation:
			passed++
			escalated++
			fmt.Fprintf(os.Stderr, "⚠ %s (guard: PASS, needs review, similarity: %.2f)\n", a.ID, a.Similarity.Similarity)
		default:
			passed++
			fmt.Fprintf(os.Stderr, "✓ %s (similarity: %.2f, distractors: %.2f)\n", a.ID, a.Similarity.Similarity, a.DistractorQuality.Quality)
		}
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:       %d records\n", len(results))
	fmt.Fprintf(os.Stderr, "  Passed:      %d (%d need review)\n", passed, escalated)
	fmt.Fprintf(os.Stderr, "  Failed:      %d\n", failed)
	fmt.Fprintf(os.Stderr, "  Errors:      %d\n", errored)
	fmt.Fprintf(os.Stderr, "  Output:      %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}
	return nil
}

func flagList(flags []model.RiskFlag) string {
	if len(flags) == 0 {
		return "-"
	}
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}

// sanitizeFilename sanitizes a string for use as a filename
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = strings.Trim(replacer.Replace(strings.TrimSpace(s)), ".")

	// Limit length
	if r := []rune(s); len(r) > 100 {
		s = string(r[:100])
	}
	if s == "" {
		s = "question"
	}
	return s
}

// uniqueName suffixes repeated names with the record number
func uniqueName(seen map[string]int, name string, index int) string {
	seen[name]++
	if seen[name] == 1 {
		return name
	}
	return fmt.Sprintf("%s-%d", name, index+1)
}
