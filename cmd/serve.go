package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Phat0101/clearai-audit/cmd/server"
	"github.com/Phat0101/clearai-audit/internal/config"
	"github.com/Phat0101/clearai-audit/internal/engine"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP ingress",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx := context.Background()
	model, err := buildModel(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize LLM provider: %w", err)
	}

	checklistStore, err := engine.NewChecklistStore(cfg.ChecklistsDir, logger.Infof)
	if err != nil {
		return fmt.Errorf("initialize checklist store: %w", err)
	}

	orchestrator := engine.NewOrchestrator(cfg.OutputDirectory, engine.Budgets{
		JMax:         cfg.JMax,
		FMax:         cfg.FMax,
		LLMGlobalMax: cfg.LLMGlobalMax,
	}, retryPolicyFromConfig(cfg), model, checklistStore, logger)

	api := &server.API{Orchestrator: orchestrator, Checklist: checklistStore, Logger: logger}
	return server.Serve(serveAddr, api)
}
