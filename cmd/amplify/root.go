package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"amplify/internal/config"
	"amplify/internal/docs"
	"amplify/internal/llm"
	"amplify/internal/publish"
	"amplify/internal/render"
	"amplify/internal/scrape"
	"amplify/internal/stages"
	"amplify/pkg/jobpoll"
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "amplify",
		Short:         "LinkedIn content generation pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(runCmd())
	cmd.AddCommand(promoteCmd())
	return cmd
}

// setup loads configuration and assembles the stage runtime. A .env file
// is read first when present so token overrides work without exporting.
func setup() (*config.Config, *stages.Runtime, *slog.Logger, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger.Info(
		"amplify starting",
		"env", cfg.Env(),
		"version", cfg.Version,
		"output_dir", cfg.OutputDir,
	)

	rt := &stages.Runtime{
		Generator: llm.New(&cfg.Agent),
		Scraper:   scrape.New(cfg.Scraper, logger),
		Images:    jobpoll.New(render.New(cfg.Images), cfg.Poll.Jobpoll()),
		Publisher: publish.New(cfg.Publisher),
		Renderer:  docs.NewRenderer(),
		OutputDir: cfg.OutputDir,
		Logger:    logger,
	}
	return cfg, rt, logger, nil
}
