package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")

	configContent := `
upstream:
  base_url: https://data.example.org/population/get/timeseries

catalog:
  url: https://catalog.example.org

fetch:
  concurrency: 2
  requests_per_second: 5
  retries: 4

output:
  dir: out

datasets:
  situations:
    name: unhcr-situations
    title: "UNHCR Situations: Monthly Refugees and Asylum Seekers"
    variant: bilateral
    source_ids: ["220", "259", "295"]
    population_collections: ["28", "29"]
    tags: [asylum seekers, refugees]
  sahel:
    name: unhcr-sahel
    title: Sahel Crisis
    variant: aggregate
    source_ids: ["1"]
    population_collections: ["20"]
    fetch:
      concurrency: 1

logging:
  level: debug
  format: text
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify upstream/catalog config
	if cfg.Upstream.BaseURL != "https://data.example.org/population/get/timeseries" {
		t.Errorf("unexpected base_url %s", cfg.Upstream.BaseURL)
	}
	if cfg.Catalog.URL != "https://catalog.example.org" {
		t.Errorf("unexpected catalog url %s", cfg.Catalog.URL)
	}

	// Verify fetch config, defaults preserved where not set
	if cfg.Fetch.Concurrency != 2 {
		t.Errorf("expected concurrency 2, got %d", cfg.Fetch.Concurrency)
	}
	if cfg.Fetch.RequestsPerSecond != 5 {
		t.Errorf("expected requests_per_second 5, got %f", cfg.Fetch.RequestsPerSecond)
	}
	if cfg.Fetch.TimeoutSeconds != 60 {
		t.Errorf("expected default timeout 60, got %d", cfg.Fetch.TimeoutSeconds)
	}

	// Verify dataset config
	if len(cfg.Datasets) != 2 {
		t.Fatalf("expected 2 datasets, got %d", len(cfg.Datasets))
	}
	ds, exists := cfg.Datasets["situations"]
	if !exists {
		t.Fatal("expected 'situations' to exist")
	}
	if ds.Name != "unhcr-situations" {
		t.Errorf("expected name 'unhcr-situations', got %s", ds.Name)
	}
	if len(ds.SourceIDs) != 3 || ds.SourceIDs[0] != "220" {
		t.Errorf("unexpected source ids %v", ds.SourceIDs)
	}
	if len(ds.Tags) != 2 {
		t.Errorf("expected 2 tags, got %v", ds.Tags)
	}
	if ds.Fetch != nil {
		t.Errorf("expected no fetch override, got %+v", ds.Fetch)
	}

	sahel := cfg.Datasets["sahel"]
	if sahel.Fetch == nil || sahel.Fetch.Concurrency != 1 {
		t.Errorf("expected sahel fetch override, got %+v", sahel.Fetch)
	}
	if sahel.EffectiveSourceParam() != "sv_id" {
		t.Errorf("expected sv_id for aggregate dataset, got %s", sahel.EffectiveSourceParam())
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected loaded config to validate, got %v", err)
	}
}

func TestLoadWithEnvVars(t *testing.T) {
	t.Setenv("TEST_LEDGER_HOST", "env-host")
	t.Setenv("TEST_LEDGER_PASS", "env-pass")
	t.Setenv("TEST_BASELINE", "https://files.example.org/old.csv")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-env.yaml")

	configContent := `
ledger:
  enabled: true
  database:
    host: ${TEST_LEDGER_HOST}
    user: situations
    password: ${TEST_LEDGER_PASS}
    database: situations
datasets:
  situations:
    baseline_url: ${TEST_BASELINE}
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Ledger.Database.Host != "env-host" {
		t.Errorf("expected ledger host 'env-host', got %s", cfg.Ledger.Database.Host)
	}
	if cfg.Ledger.Database.Password != "env-pass" {
		t.Errorf("expected ledger password 'env-pass', got %s", cfg.Ledger.Database.Password)
	}
	if cfg.Ledger.Database.Port != 3306 {
		t.Errorf("expected default ledger port 3306, got %d", cfg.Ledger.Database.Port)
	}
	if got := cfg.Datasets["situations"].BaselineURL; got != "https://files.example.org/old.csv" {
		t.Errorf("expected substituted baseline url, got %s", got)
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")

	tests := []struct {
		input    string
		expected string
	}{
		{"${TEST_VAR}", "test-value"},
		{"$TEST_VAR", "test-value"},
		{"prefix-${TEST_VAR}-suffix", "prefix-test-value-suffix"},
		{"${NONEXISTENT}", "${NONEXISTENT}"}, // Unset vars remain unchanged
		{"no-vars-here", "no-vars-here"},
	}

	for _, tt := range tests {
		result := expandEnvVar(tt.input)
		if result != tt.expected {
			t.Errorf("expandEnvVar(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestGetDataset(t *testing.T) {
	cfg := &Config{
		Datasets: map[string]DatasetConfig{
			"existing": {Name: "unhcr-situations"},
		},
	}

	ds, err := cfg.GetDataset("existing")
	if err != nil {
		t.Errorf("unexpected error getting existing dataset: %v", err)
	}
	if ds.Name != "unhcr-situations" {
		t.Errorf("expected name 'unhcr-situations', got %s", ds.Name)
	}

	_, err = cfg.GetDataset("nonexistent")
	if err == nil {
		t.Error("expected error for non-existing dataset")
	}
}

func TestListDatasets(t *testing.T) {
	cfg := &Config{
		Datasets: map[string]DatasetConfig{
			"c": {},
			"a": {},
			"b": {},
		},
	}

	keys := cfg.ListDatasets()
	if len(keys) != 3 {
		t.Fatalf("expected 3 datasets, got %d", len(keys))
	}
	for i, want := range []string{"a", "b", "c"} {
		if keys[i] != want {
			t.Errorf("expected sorted keys, got %v", keys)
			break
		}
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestApplyOverridesZeroValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{Level: "warn", Format: "json"},
		Fetch:   FetchConfig{Concurrency: 3},
		Output:  OutputConfig{Dir: "keep"},
	}

	// Apply zero values (should NOT override)
	cfg.ApplyOverrides(Overrides{})

	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level 'warn' to be preserved, got %s", cfg.Logging.Level)
	}
	if cfg.Fetch.Concurrency != 3 {
		t.Errorf("expected concurrency 3 to be preserved, got %d", cfg.Fetch.Concurrency)
	}
	if cfg.Output.Dir != "keep" {
		t.Errorf("expected output dir to be preserved, got %s", cfg.Output.Dir)
	}
}

func TestLoad_ExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "situations.example.yaml"))
	if err != nil {
		t.Fatalf("failed to load example config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("example config does not validate: %v", err)
	}

	if got := cfg.ListDatasets(); len(got) != 2 || got[0] != "aggregate" || got[1] != "bilateral" {
		t.Errorf("expected datasets [aggregate bilateral], got %v", got)
	}
	if fetch := cfg.GetDatasetFetch("aggregate"); fetch.Concurrency != 4 || fetch.Retries != 3 {
		t.Errorf("expected aggregate fetch override merged over global, got %+v", fetch)
	}
	if cfg.Output.Verify != "sha256" {
		t.Errorf("expected verify sha256, got %s", cfg.Output.Verify)
	}
}
