package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmaragno/sigilo/internal/catalog"
	"github.com/rmaragno/sigilo/internal/model"
	"github.com/rmaragno/sigilo/internal/pipeline"
	"github.com/rmaragno/sigilo/internal/worker"
)

var (
	batchWorkers int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Process a directory of court order documents in parallel",
	Long: `Batch processes every .txt file in a directory concurrently.
Each document runs the full pipeline independently. Results are written
as one JSON file per document, or to stdout as a single array when no
output directory is given.

Example:
  sigilo batch ./oficios --catalog catalogo.yaml
  sigilo batch ./oficios --workers 8 --output-dir ./resultados`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent documents (default: from config, capped at CPU count x2)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "write one result JSON per document into this directory")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "overall batch timeout")

	batchCmd.Flags().StringVar(&catalogPath, "catalog", "", "subsidy catalog file (YAML)")
	batchCmd.Flags().StringVar(&institution, "institution", "", "operating institution name for the relevance filter")
	batchCmd.Flags().StringVar(&validatorFlag, "validator", "", "semantic validator provider (openai; empty disables)")
	batchCmd.Flags().StringVar(&validatorModel, "validator-model", "", "semantic validator model name")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the validator response cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg)
	if batchWorkers > 0 {
		cfg.Concurrency.BatchWorkers = batchWorkers
	}
	if max := runtime.NumCPU() * 2; cfg.Concurrency.BatchWorkers > max {
		cfg.Concurrency.BatchWorkers = max
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
	processor := worker.NewBatchProcessor(orch, cfg.Concurrency.BatchWorkers)

	results, err := processor.ProcessDir(ctx, dir)
	if err != nil {
		return err
	}

	if outputDir == "" {
		out := make([]*model.WarrantProcessingResult, len(results))
		for i, r := range results {
			out[i] = r.Result
		}
		return pipeline.WriteJSONBatch(os.Stdout, out)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	failed := 0
	for _, r := range results {
		if r.GetError() != nil {
			failed++
		}
		path := filepath.Join(outputDir, r.ID+".json")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		werr := pipeline.WriteJSON(f, r.Result)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return fmt.Errorf("write %s: %w", path, werr)
		}
	}

	fmt.Fprintf(os.Stderr, "Processed %d documents (%d with errors), results in %s\n",
		len(results), failed, outputDir)
	return nil
}
