package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Phat0101/clearai-audit/internal/config"
	"github.com/Phat0101/clearai-audit/internal/engine"
)

var checklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "Checklist store operations",
}

var validateChecklistPath string
var validateChecklistRegion string

var checklistValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and schema-validate a checklist file without starting a server",
	Long: `Loads the checklist for --region, preferring --file when set, and
reports a typed schema fault with the offending check's id rather than a
bare JSON error, so a bad hand-edited checklist fails loudly at load time.`,
	RunE: runChecklistValidate,
}

func init() {
	checklistValidateCmd.Flags().StringVar(&validateChecklistRegion, "region", "", "checklist region (AU or NZ)")
	checklistValidateCmd.Flags().StringVar(&validateChecklistPath, "file", "", "explicit checklist file path (overrides CHECKLISTS_DIR resolution)")
	checklistValidateCmd.MarkFlagRequired("region")
	checklistCmd.AddCommand(checklistValidateCmd)
}

func runChecklistValidate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	region := engine.Region(validateChecklistRegion)
	if !region.Valid() {
		return fmt.Errorf("unsupported region %q", validateChecklistRegion)
	}

	checklistsDir := cfg.ChecklistsDir
	if validateChecklistPath != "" {
		checklistsDir = validateChecklistPath
	}

	store, err := engine.NewChecklistStore(checklistsDir, logger.Infof)
	if err != nil {
		return err
	}

	checklist, err := store.Load(region)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "checklist %s valid: %d header checks, %d valuation checks\n",
		region, len(checklist.Categories.Header), len(checklist.Categories.Valuation))
	return nil
}
