package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/situations/internal/pipeline"
)

var (
	dryrunDataset   string
	dryrunSourceIDs []string
	dryrunLimit     int
)

var dryrunCmd = &cobra.Command{
	Use:   "dry-run",
	Short: "Show what a run would add without writing anything",
	Long: `Dry-run loads the published baseline, fetches every source and
deduplicates the records exactly like run, then prints the counters and a
preview of the new rows. No file is written and no ledger entry is made.

Example:
  situations dry-run --config situations.yaml --dataset bilateral --limit 20`,
	RunE: runDryRun,
}

func init() {
	dryrunCmd.Flags().StringVarP(&dryrunDataset, "dataset", "d", "",
		"Dataset key from configuration file (required)")
	dryrunCmd.MarkFlagRequired("dataset")

	dryrunCmd.Flags().StringArrayVar(&dryrunSourceIDs, "source-id", nil,
		"Fetch only this source id (repeatable, replaces the configured list)")
	dryrunCmd.Flags().IntVar(&dryrunLimit, "limit", 10,
		"Maximum number of new rows to preview (0 = all)")

	rootCmd.AddCommand(dryrunCmd)
}

func runDryRun(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	dr, err := newDatasetRun(cfg, dryrunDataset, log)
	if err != nil {
		return err
	}

	ctx := context.Background()
	p := dr.pipeline

	if err := p.LoadBaseline(ctx); err != nil {
		return err
	}
	ids := dr.sourceIDs(dryrunSourceIDs)
	if err := p.Collect(ctx, ids); err != nil {
		return err
	}

	rpt := newReport(cmd.OutOrStdout())
	rpt.Summary(&pipeline.Result{
		Dataset: dr.dataset.Name,
		Stats:   p.Stats(),
		Misses:  p.Misses(),
	})

	cmd.Printf("\n--- Sources ---\n")
	for _, id := range ids {
		cmd.Printf("  %s\n", dr.upstream.URL(id))
	}

	cmd.Printf("\n--- New rows ---\n")
	rpt.Preview(p.Additions(), dryrunLimit)

	merged, meta, err := p.Preview()
	if err != nil {
		return err
	}
	if merged != nil {
		cmd.Printf("\nWould write %s (%d rows), dataset date %s\n",
			meta.ResourceName, merged.Len(), meta.DatasetDate())
	}

	rpt.Errors(p.Errors().Messages())
	if n := p.Errors().Len(); n > 0 {
		return fmt.Errorf("dry-run completed with %d error(s): %w", n, p.Errors().Err())
	}
	return nil
}
