package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/situations/internal/config"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile     string
	logLevel    string
	logFormat   string
	outputDir   string
	concurrency int
	save        bool
	useSaved    bool
	noColor     bool
)

var rootCmd = &cobra.Command{
	Use:   "situations",
	Short: "Incremental merge of UNHCR situation statistics",
	Long: `Situations fetches population statistics from the UNHCR situations API,
merges the rows that are not yet published into the dataset held by the
open-data catalog, and writes the updated CSV with its metadata manifest.

Features:
  - Fuzzy country name resolution to ISO3 codes
  - Exact full-row deduplication against the published baseline
  - Per-source failure collection with a run-wide error report
  - Saved-data replay for offline runs
  - Optional MySQL run ledger with per-dataset locking`,
	Version:      Version,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "situations.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Output and fetch overrides
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "",
		"Override the directory artifacts are written to")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0,
		"Override the number of sources fetched in parallel")
	rootCmd.PersistentFlags().BoolVar(&save, "save", false,
		"Store every downloaded body under fetch.saved_dir")
	rootCmd.PersistentFlags().BoolVar(&useSaved, "use-saved", false,
		"Serve downloads from fetch.saved_dir instead of the network")

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() config.Overrides {
	return config.Overrides{
		LogLevel:    logLevel,
		LogFormat:   logFormat,
		OutputDir:   outputDir,
		Concurrency: concurrency,
		Save:        save,
		UseSaved:    useSaved,
	}
}
