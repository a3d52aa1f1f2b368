package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Phat0101/clearai-audit/internal/config"
	"github.com/Phat0101/clearai-audit/internal/engine"
)

var processRegion string
var processDir string

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run one batch against a local directory of PDFs",
	Long: `Reads every PDF in --dir, runs the same engine.ProcessBatch the HTTP
ingress calls, and prints the resulting run manifest. Useful for operators
and for exercising the pipeline without standing up the server.`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVar(&processRegion, "region", "", "checklist region (AU or NZ)")
	processCmd.Flags().StringVar(&processDir, "dir", "", "directory of PDFs to ingest")
	processCmd.MarkFlagRequired("region")
	processCmd.MarkFlagRequired("dir")
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	files, err := readPDFDirectory(processDir)
	if err != nil {
		return err
	}

	ctx := context.Background()
	model, err := buildModel(ctx, cfg, logger)
	if err != nil {
		return err
	}

	checklistStore, err := engine.NewChecklistStore(cfg.ChecklistsDir, logger.Infof)
	if err != nil {
		return err
	}

	orchestrator := engine.NewOrchestrator(cfg.OutputDirectory, engine.Budgets{
		JMax:         cfg.JMax,
		FMax:         cfg.FMax,
		LLMGlobalMax: cfg.LLMGlobalMax,
	}, retryPolicyFromConfig(cfg), model, checklistStore, logger)

	manifest, err := orchestrator.ProcessBatch(ctx, files, engine.Region(processRegion))
	if err != nil {
		return err
	}

	logger.Infof("run %s complete: %d files across %d jobs", manifest.RunID, manifest.TotalFiles, manifest.TotalJobs)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(manifest)
}

// readPDFDirectory loads every .pdf file directly inside dir into a
// FileUpload slice, preserving directory iteration order.
func readPDFDirectory(dir string) ([]engine.FileUpload, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var files []engine.FileUpload
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		files = append(files, engine.FileUpload{OriginalFilename: e.Name(), Payload: data})
	}
	return files, nil
}
