package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/olehluchkiv/gosummary/internal/auth"
	"github.com/olehluchkiv/gosummary/internal/config"
	"github.com/olehluchkiv/gosummary/internal/content"
	"github.com/olehluchkiv/gosummary/internal/diagram"
	"github.com/olehluchkiv/gosummary/internal/llm"
	"github.com/olehluchkiv/gosummary/internal/pipeline"
	"github.com/olehluchkiv/gosummary/internal/server"
	"github.com/olehluchkiv/gosummary/internal/summary"
	"github.com/olehluchkiv/gosummary/internal/tts"
)

var serveFlags struct {
	port      int
	noBrowser bool
}

func newServeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Launch the summarizer web UI.",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	c.Flags().IntVar(&serveFlags.port, "port", 8080, "HTTP server port")
	c.Flags().BoolVar(&serveFlags.noBrowser, "no-browser", false, "skip auto-opening browser")
	return c
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(rootFlags.envFile)
	if err != nil {
		return err
	}
	if err := cfg.RequireLLM(); err != nil {
		return err
	}
	logger.Info("configuration loaded", "config", cfg)

	users, err := auth.Open(ctx, cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer users.Close()

	renderer, err := diagram.NewRenderer(cfg.Renderer, logger)
	if err != nil {
		return err
	}

	loader := content.NewLoader(nil, logger)
	srv, err := server.New(server.Deps{
		Users:      users,
		Sessions:   auth.NewSessions(auth.DefaultSessionTTL),
		Summarizer: summary.NewService(llm.NewClient(cfg.LLM, logger), loader, logger),
		Speaker:    tts.NewClient(cfg.TTSEndpoint, logger),
		Mindmaps:   pipeline.New(renderer, pipeline.Config{RenderTimeout: 30 * time.Second}, logger),
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return srv.Serve(ctx, serveFlags.port, !serveFlags.noBrowser)
}
