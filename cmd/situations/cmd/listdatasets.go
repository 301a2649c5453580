package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/situations/internal/config"
)

var listDatasetsCmd = &cobra.Command{
	Use:   "list-datasets",
	Short: "List all datasets defined in configuration",
	Long: `List-datasets displays all datasets defined in the configuration file
along with their variant and upstream sources.

Example:
  situations list-datasets --config situations.yaml`,
	RunE: runListDatasets,
}

func init() {
	rootCmd.AddCommand(listDatasetsCmd)
}

func runListDatasets(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	keys := cfg.ListDatasets()
	if len(keys) == 0 {
		cmd.Printf("No datasets defined in %s\n", configFile)
		return nil
	}

	cmd.Printf("Datasets defined in %s:\n\n", configFile)

	for i, key := range keys {
		ds, err := cfg.GetDataset(key)
		if err != nil {
			return err
		}
		fetch := cfg.GetDatasetFetch(key)

		cmd.Printf("%d. %s\n", i+1, key)
		cmd.Printf("   Name:          %s\n", ds.Name)
		cmd.Printf("   Title:         %s\n", ds.Title)
		cmd.Printf("   Variant:       %s\n", ds.Variant)
		cmd.Printf("   Sources:       %s=%s\n", ds.EffectiveSourceParam(), strings.Join(ds.SourceIDs, ","))
		cmd.Printf("   Collections:   %s\n", strings.Join(ds.PopulationCollections, ","))
		if ds.BaselineURL != "" {
			cmd.Printf("   Baseline:      %s\n", ds.BaselineURL)
		} else {
			cmd.Printf("   Baseline:      catalog (%s)\n", cfg.Catalog.URL)
		}
		cmd.Printf("   Concurrency:   %d\n", fetch.Concurrency)
		if len(ds.Tags) > 0 {
			cmd.Printf("   Tags:          %s\n", strings.Join(ds.Tags, ", "))
		}
		cmd.Println()
	}

	return nil
}
