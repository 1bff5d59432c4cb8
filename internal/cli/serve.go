package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yksassistant/hakem/internal/pipeline"
	"github.com/yksassistant/hakem/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the assessment HTTP API",
	Long: `Serve exposes the pipeline over HTTP:

  GET  /health            liveness and configured provider
  POST /v1/assess         assess one JSON record
  POST /v1/assess/batch   assess a JSON array (or JSONL/YAML/HTML by Content-Type)
  POST /v1/measure        multipart "image" upload, requires an LLM provider

Responses use the language from ?lang= or Accept-Language.

Example:
  hakem serve --addr :8080
  HAKEM_LLM_PROVIDER=fireworks FIREWORKS_API_KEY=... hakem serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	return server.New(p, cfg.Server, cfg.Lang, Version).ListenAndServe(ctx, cfg.Server.Addr)
}
