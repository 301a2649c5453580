package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/situations/internal/config"
	"github.com/dbsmedya/situations/internal/lock"
	"github.com/dbsmedya/situations/internal/logger"
	"github.com/dbsmedya/situations/internal/table"
)

var validateCheckLedger bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and run preflight checks",
	Long: `Validate checks the configuration file and, when requested, that the
run ledger database is reachable.

Checks performed:
  - Configuration syntax and required fields
  - Dataset variants and source lists
  - Ledger connectivity and table creation (--check-ledger)
  - Datasets currently locked by another run (--check-ledger)

Example:
  situations validate --config situations.yaml --check-ledger`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateCheckLedger, "check-ledger", false,
		"Connect to the ledger database and report locked datasets")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyOverrides(GetCLIOverrides())

	cmd.Printf("\n=== Configuration Validation ===\n")
	cmd.Printf("Config file: %s\n", configFile)
	cmd.Printf("Datasets found: %d\n\n", len(cfg.Datasets))

	if err := cfg.Validate(); err != nil {
		cmd.Printf("❌ %v\n", err)
		return fmt.Errorf("configuration is invalid")
	}

	for _, key := range cfg.ListDatasets() {
		ds := cfg.Datasets[key]
		schema, err := table.SchemaFor(ds.Variant)
		if err != nil {
			return err
		}
		cmd.Printf("--- Dataset: %s ---\n", key)
		cmd.Printf("Columns: %d (%s)\n", len(schema.Columns), schema.Variant)
		cmd.Printf("Sources: %d\n\n", len(ds.SourceIDs))
	}

	if validateCheckLedger {
		if !cfg.Ledger.Enabled {
			return fmt.Errorf("--check-ledger given but ledger.enabled is false")
		}
		log, err := logger.New(&cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if err := checkLedger(cmd, cfg, log); err != nil {
			cmd.Printf("❌ Ledger check failed: %v\n", err)
			return fmt.Errorf("validation failed")
		}
	}

	cmd.Println("=== Validation Complete ===")
	cmd.Println("✅ Configuration is valid")
	return nil
}

func checkLedger(cmd *cobra.Command, cfg *config.Config, log *logger.Logger) error {
	ctx := context.Background()

	dbManager, _, err := openLedger(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer dbManager.Close()

	if err := dbManager.Ping(ctx); err != nil {
		return err
	}
	cmd.Printf("✅ Ledger database reachable (%s)\n", cfg.Ledger.Database.Host)

	for _, key := range cfg.ListDatasets() {
		running, err := lock.IsDatasetRunning(ctx, dbManager.DB, key)
		if err != nil {
			return err
		}
		if running {
			cmd.Printf("⚠️  Dataset %s is currently being run\n", key)
		}
	}
	cmd.Println()
	return nil
}
