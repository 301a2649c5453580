package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyDataset string
	historyLimit   int
	historyErrors  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded runs from the ledger",
	Long: `History lists the latest runs recorded in the ledger database,
newest first, with their status and counters. With --errors it prints
the failures recorded for one run instead.

Example:
  situations history --config situations.yaml --dataset bilateral --limit 5`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&historyDataset, "dataset", "d", "",
		"Only show runs of this dataset key")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20,
		"Maximum number of runs to show")
	historyCmd.Flags().StringVar(&historyErrors, "errors", "",
		"Show the errors recorded for this run id")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	if !cfg.Ledger.Enabled {
		return fmt.Errorf("ledger is not enabled in %s", GetConfigFile())
	}

	ctx := context.Background()
	dbManager, l, err := openLedger(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer dbManager.Close()

	if historyErrors != "" {
		errs, err := l.RunErrors(ctx, historyErrors)
		if err != nil {
			return err
		}
		if len(errs) == 0 {
			cmd.Printf("No errors recorded for run %s\n", historyErrors)
			return nil
		}
		for _, e := range errs {
			if e.SourceID != "" {
				cmd.Printf("  - [%s] %s\n", e.SourceID, e.Message)
			} else {
				cmd.Printf("  - %s\n", e.Message)
			}
		}
		return nil
	}

	runs, err := l.ListRuns(ctx, historyDataset, historyLimit)
	if err != nil {
		return err
	}
	newReport(cmd.OutOrStdout()).Runs(runs)
	return nil
}
