package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmaragno/sigilo/internal/catalog"
	"github.com/rmaragno/sigilo/internal/model"
	"github.com/rmaragno/sigilo/internal/pipeline"
)

var (
	catalogPath    string
	institution    string
	validatorFlag  string
	validatorModel string
	noCache        bool
	summaryOut     bool
	processTimeout time.Duration
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Process a single court order document",
	Long: `Process reads the raw text of one court order and emits the
structured processing result as JSON on stdout.

Example:
  sigilo process oficio.txt --catalog catalogo.yaml --institution "Banco Alfa"
  sigilo process oficio.txt --validator openai --validator-model gpt-4o-mini
  sigilo process oficio.txt --summary`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&catalogPath, "catalog", "", "subsidy catalog file (YAML)")
	processCmd.Flags().StringVar(&institution, "institution", "", "operating institution name for the relevance filter")
	processCmd.Flags().StringVar(&validatorFlag, "validator", "", "semantic validator provider (openai; empty disables)")
	processCmd.Flags().StringVar(&validatorModel, "validator-model", "", "semantic validator model name")
	processCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the validator response cache")
	processCmd.Flags().BoolVar(&summaryOut, "summary", false, "print a human-readable summary instead of JSON")
	processCmd.Flags().DurationVar(&processTimeout, "timeout", 5*time.Minute, "overall processing timeout")
}

func runProcess(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg)

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	if cfg.Catalog.Path == "" {
		return fmt.Errorf("no catalog configured: pass --catalog or set catalog.path")
	}
	cat, err := catalog.Load(cfg.Catalog.Path, cfg.Catalog)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	log := newLogger()
	defer func() { _ = log.Sync() }()

	orch := pipeline.NewOrchestrator(cfg, cat, log)
	result := orch.ProcessDocument(ctx, path, string(raw))

	if summaryOut {
		fmt.Print(pipeline.Summary(result))
		return nil
	}
	return pipeline.WriteJSON(os.Stdout, result)
}

// applyFlags folds command-line overrides into the merged configuration
func applyFlags(cfg *model.Config) {
	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
	}
	if institution != "" {
		cfg.Institution.Name = institution
	}
	if validatorFlag != "" {
		cfg.Validator.Provider = validatorFlag
	}
	if validatorModel != "" {
		cfg.Validator.Model = validatorModel
	}
	if cfg.Validator.Provider == "openai" && cfg.Validator.APIKey == "" {
		cfg.Validator.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
}
