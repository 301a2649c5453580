package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified file path.
// It supports YAML files and performs environment variable substitution.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	substituteEnvVars(cfg)

	return cfg, nil
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func substituteEnvVars(cfg *Config) {
	cfg.Upstream.BaseURL = expandEnvVar(cfg.Upstream.BaseURL)
	cfg.Catalog.URL = expandEnvVar(cfg.Catalog.URL)
	cfg.Output.Dir = expandEnvVar(cfg.Output.Dir)
	cfg.Fetch.SavedDir = expandEnvVar(cfg.Fetch.SavedDir)

	db := &cfg.Ledger.Database
	db.Host = expandEnvVar(db.Host)
	db.User = expandEnvVar(db.User)
	db.Password = expandEnvVar(db.Password)
	db.Database = expandEnvVar(db.Database)

	for key, ds := range cfg.Datasets {
		ds.BaselineURL = expandEnvVar(ds.BaselineURL)
		cfg.Datasets[key] = ds
	}

	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// GetDataset retrieves a specific dataset configuration by key.
func (c *Config) GetDataset(key string) (*DatasetConfig, error) {
	ds, exists := c.Datasets[key]
	if !exists {
		return nil, fmt.Errorf("dataset %q not found in configuration", key)
	}
	return &ds, nil
}

// ListDatasets returns all dataset keys defined in the configuration, sorted.
func (c *Config) ListDatasets() []string {
	keys := make([]string, 0, len(c.Datasets))
	for key := range c.Datasets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Overrides contains CLI values that take precedence over the config file.
// Zero values leave the file setting untouched.
type Overrides struct {
	LogLevel    string
	LogFormat   string
	OutputDir   string
	Concurrency int
	Save        bool
	UseSaved    bool
}

// ApplyOverrides applies CLI flag overrides to the global configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
	if o.OutputDir != "" {
		c.Output.Dir = o.OutputDir
	}
	if o.Concurrency > 0 {
		c.Fetch.Concurrency = o.Concurrency
	}
	if o.Save {
		c.Fetch.Save = true
	}
	if o.UseSaved {
		c.Fetch.UseSaved = true
	}
}

// ApplyDatasetOverrides returns the effective fetch config for a dataset with CLI values applied.
// A CLI concurrency wins over a dataset-level one.
func (c *Config) ApplyDatasetOverrides(key string, o Overrides) FetchConfig {
	fetch := c.GetDatasetFetch(key)

	if o.Concurrency > 0 {
		fetch.Concurrency = o.Concurrency
	}
	if o.Save {
		fetch.Save = true
	}
	if o.UseSaved {
		fetch.UseSaved = true
	}

	return fetch
}
