// Package config provides configuration structures and loading for situations.
package config

// Schema variants a dataset can be published in.
const (
	VariantBilateral = "bilateral" // country of asylum x country of origin
	VariantAggregate = "aggregate" // totals per country
)

// Default catalog identifiers used when a dataset does not set its own.
const (
	DefaultMaintainer   = "ac47b0c8-548b-4c37-a685-7377e75aad55"
	DefaultOrganization = "abf4ca86-8e69-40b1-92f7-71509992be88"
)

// Config represents the complete application configuration.
type Config struct {
	Upstream UpstreamConfig           `yaml:"upstream" mapstructure:"upstream"`
	Catalog  CatalogConfig            `yaml:"catalog" mapstructure:"catalog"`
	Fetch    FetchConfig              `yaml:"fetch" mapstructure:"fetch"`
	Output   OutputConfig             `yaml:"output" mapstructure:"output"`
	Ledger   LedgerConfig             `yaml:"ledger" mapstructure:"ledger"`
	Datasets map[string]DatasetConfig `yaml:"datasets" mapstructure:"datasets"`
	Logging  LoggingConfig            `yaml:"logging" mapstructure:"logging"`
}

// UpstreamConfig describes the situations data API.
type UpstreamConfig struct {
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
}

// CatalogConfig describes the open-data catalog holding the previously published dataset.
type CatalogConfig struct {
	URL string `yaml:"url" mapstructure:"url"` // CKAN site root, e.g. https://data.humdata.org
}

// FetchConfig controls how upstream and baseline downloads are performed.
type FetchConfig struct {
	Concurrency       int     `yaml:"concurrency" mapstructure:"concurrency"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"` // 0 = unlimited
	TimeoutSeconds    int     `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	Retries           int     `yaml:"retries" mapstructure:"retries"`
	SavedDir          string  `yaml:"saved_dir" mapstructure:"saved_dir"`
	Save              bool    `yaml:"save" mapstructure:"save"`
	UseSaved          bool    `yaml:"use_saved" mapstructure:"use_saved"`
}

// OutputConfig controls where artifacts are written.
type OutputConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Verify string `yaml:"verify" mapstructure:"verify"` // count, sha256 or skip
}

// DatabaseConfig represents a MySQL database connection configuration.
type DatabaseConfig struct {
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	TLS                string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
}

// LedgerConfig enables run history and per-dataset run locking in MySQL.
type LedgerConfig struct {
	Enabled            bool           `yaml:"enabled" mapstructure:"enabled"`
	Database           DatabaseConfig `yaml:"database" mapstructure:"database"`
	LockTimeoutSeconds int            `yaml:"lock_timeout_seconds" mapstructure:"lock_timeout_seconds"`
}

// DatasetConfig represents one published dataset and the upstream sources feeding it.
type DatasetConfig struct {
	Name                  string       `yaml:"name" mapstructure:"name"`
	Title                 string       `yaml:"title" mapstructure:"title"`
	Variant               string       `yaml:"variant" mapstructure:"variant"`           // "bilateral" or "aggregate"
	SourceParam           string       `yaml:"source_param" mapstructure:"source_param"` // defaults to geo_id / sv_id by variant
	SourceIDs             []string     `yaml:"source_ids" mapstructure:"source_ids"`
	PopulationCollections []string     `yaml:"population_collections" mapstructure:"population_collections"`
	Tags                  []string     `yaml:"tags" mapstructure:"tags"`
	Maintainer            string       `yaml:"maintainer" mapstructure:"maintainer"`
	Organization          string       `yaml:"organization" mapstructure:"organization"`
	ResourceDescription   string       `yaml:"resource_description" mapstructure:"resource_description"`
	BaselineURL           string       `yaml:"baseline_url" mapstructure:"baseline_url"` // bypasses the catalog lookup
	Fetch                 *FetchConfig `yaml:"fetch,omitempty" mapstructure:"fetch"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Upstream: UpstreamConfig{
			BaseURL:   "https://data.unhcr.org/population/get/timeseries",
			UserAgent: "situations-scraper",
		},
		Catalog: CatalogConfig{
			URL: "https://data.humdata.org",
		},
		Fetch: FetchConfig{
			Concurrency:    1,
			TimeoutSeconds: 60,
			Retries:        3,
			SavedDir:       "saved_data",
		},
		Output: OutputConfig{
			Dir:    "output",
			Verify: "sha256",
		},
		Ledger: LedgerConfig{
			Enabled: false,
			Database: DatabaseConfig{
				Port:               3306,
				TLS:                "preferred",
				MaxConnections:     4,
				MaxIdleConnections: 2,
			},
			LockTimeoutSeconds: 1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// GetDatasetFetch returns the fetch config for a dataset by key, falling back to global if not set.
func (c *Config) GetDatasetFetch(key string) FetchConfig {
	ds, err := c.GetDataset(key)
	if err != nil {
		return c.Fetch
	}
	return ds.GetDatasetFetch(c.Fetch)
}

// GetDatasetFetch returns the fetch config for a dataset, falling back to global if not set.
func (dc *DatasetConfig) GetDatasetFetch(global FetchConfig) FetchConfig {
	if dc.Fetch == nil {
		return global
	}

	// Merge dataset-specific with global defaults
	result := global
	if dc.Fetch.Concurrency > 0 {
		result.Concurrency = dc.Fetch.Concurrency
	}
	if dc.Fetch.RequestsPerSecond > 0 {
		result.RequestsPerSecond = dc.Fetch.RequestsPerSecond
	}
	if dc.Fetch.TimeoutSeconds > 0 {
		result.TimeoutSeconds = dc.Fetch.TimeoutSeconds
	}
	if dc.Fetch.Retries > 0 {
		result.Retries = dc.Fetch.Retries
	}
	if dc.Fetch.SavedDir != "" {
		result.SavedDir = dc.Fetch.SavedDir
	}
	result.Save = dc.Fetch.Save || global.Save
	result.UseSaved = dc.Fetch.UseSaved || global.UseSaved
	return result
}

// EffectiveSourceParam returns the query parameter naming the source identifier.
func (dc *DatasetConfig) EffectiveSourceParam() string {
	if dc.SourceParam != "" {
		return dc.SourceParam
	}
	if dc.Variant == VariantAggregate {
		return "sv_id"
	}
	return "geo_id"
}

// EffectiveMaintainer returns the maintainer id, falling back to DefaultMaintainer.
func (dc *DatasetConfig) EffectiveMaintainer() string {
	if dc.Maintainer != "" {
		return dc.Maintainer
	}
	return DefaultMaintainer
}

// EffectiveOrganization returns the organization id, falling back to DefaultOrganization.
func (dc *DatasetConfig) EffectiveOrganization() string {
	if dc.Organization != "" {
		return dc.Organization
	}
	return DefaultOrganization
}

// EffectiveResourceDescription returns the description attached to the published CSV.
func (dc *DatasetConfig) EffectiveResourceDescription() string {
	if dc.ResourceDescription != "" {
		return dc.ResourceDescription
	}
	if dc.Variant == VariantAggregate {
		return "Country level refugees, asylum seekers, and others of concern over time"
	}
	return "Country level refugees and asylum seekers over time"
}
