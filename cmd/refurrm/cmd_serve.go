package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"refurrm/internal/ambassador"
	"refurrm/internal/appraisal"
	"refurrm/internal/authenticity"
	"refurrm/internal/deal"
	"refurrm/internal/listing"
	"refurrm/internal/llm"
	"refurrm/internal/server"
	"refurrm/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ReFurrm HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := llm.NewClient(ctx, llm.Options{
		Provider: llm.Provider(cfg.LLM.Provider),
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		Timeout:  cfg.GetLLMTimeout(),
	})
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	scout := authenticity.NewScoutWithRand(newScoutRand())

	directory := ambassador.NewDirectory()
	if cfg.Directory.RosterPath != "" {
		roster, err := ambassador.LoadRoster(cfg.Directory.RosterPath)
		if err != nil {
			return fmt.Errorf("failed to load roster: %w", err)
		}
		directory.Replace(roster)

		if cfg.Directory.WatchRoster {
			watcher, err := ambassador.NewRosterWatcher(cfg.Directory.RosterPath, directory)
			if err != nil {
				return fmt.Errorf("failed to create roster watcher: %w", err)
			}
			if err := watcher.Start(ctx); err != nil {
				return fmt.Errorf("failed to start roster watcher: %w", err)
			}
			defer watcher.Stop()
		}
	}

	st, err := store.New(cfg.Store.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	srv := server.New(server.Options{
		Engine:    appraisal.NewEngine(client, scout),
		Scout:     scout,
		Directory: directory,
		Selector:  ambassador.NewSelector(directory, client),
		Evaluator: deal.NewEvaluator(),
		Generator: listing.NewGenerator(client),
		Store:     st,
		Logger:    logger,
		Config:    cfg,
	})

	logger.Info("starting refurrm",
		zap.String("addr", cfg.Server.Addr),
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model),
		zap.String("db", cfg.Store.DatabasePath),
	)

	return srv.ListenAndServe(ctx, cfg.GetShutdownTimeout())
}
