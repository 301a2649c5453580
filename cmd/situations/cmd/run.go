package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/situations/internal/database"
)

var (
	runDataset   string
	runSourceIDs []string
	runForce     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Merge new upstream rows into a published dataset",
	Long: `Run fetches every source of a dataset from the situations API and
writes the published table extended with the rows it does not yet contain.

The run follows these steps:
  1. Load the published baseline table from the catalog
  2. Fetch each source, resolving country names to ISO3 codes
  3. Keep only rows absent from the baseline (exact full-row match)
  4. Merge, sort and write the CSV with its metadata manifest

A source that cannot be downloaded does not stop the run. Its error is
reported at the end and the command exits non-zero after publishing.

Example:
  situations run --config situations.yaml --dataset bilateral`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runDataset, "dataset", "d", "",
		"Dataset key from configuration file (required)")
	runCmd.MarkFlagRequired("dataset")

	runCmd.Flags().StringArrayVar(&runSourceIDs, "source-id", nil,
		"Fetch only this source id (repeatable, replaces the configured list)")
	runCmd.Flags().BoolVar(&runForce, "force", false,
		"Run even if the dataset lock cannot be acquired (use with caution)")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	dr, err := newDatasetRun(cfg, runDataset, log)
	if err != nil {
		return err
	}
	log = log.WithDataset(dr.dataset.Name)

	log.Infow("Starting run",
		"dataset_key", dr.key,
		"config", GetConfigFile(),
		"variant", dr.dataset.Variant,
	)

	ctx := database.SetupSignalHandlerWithCallback(func(sig os.Signal) {
		log.Warnw("Received shutdown signal, stopping", "signal", sig.String())
	})

	var rec *runRecord
	if cfg.Ledger.Enabled {
		rec, err = startRunRecord(ctx, cfg, runDataset, runForce, log)
		if err != nil {
			return err
		}
		defer rec.close()
	}

	res, err := dr.pipeline.Run(ctx, dr.sourceIDs(runSourceIDs), cfg.Output.Dir)
	if rec != nil {
		rec.finish(dr.pipeline.Stats(), res, err)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("run cancelled: %w", err)
		}
		return fmt.Errorf("run failed: %w", err)
	}

	rpt := newReport(cmd.OutOrStdout())
	rpt.Summary(res)
	collected := dr.pipeline.Errors()
	rpt.Errors(collected.Messages())

	if n := collected.Len(); n > 0 {
		return fmt.Errorf("run completed with %d error(s): %w", n, collected.Err())
	}
	return nil
}
