package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateUpstream()...)
	errors = append(errors, c.validateFetch("fetch", &c.Fetch)...)

	if c.Output.Dir == "" {
		errors = append(errors, ValidationError{
			Field:   "output.dir",
			Message: "output directory is required",
		})
	}

	validVerify := map[string]bool{"count": true, "sha256": true, "skip": true, "": true}
	if !validVerify[c.Output.Verify] {
		errors = append(errors, ValidationError{
			Field:   "output.verify",
			Message: "verify must be 'count', 'sha256', or 'skip'",
		})
	}

	if c.Ledger.Enabled {
		errors = append(errors, c.validateLedger()...)
	}

	if len(c.Datasets) == 0 {
		errors = append(errors, ValidationError{
			Field:   "datasets",
			Message: "at least one dataset must be defined",
		})
	}
	for _, key := range c.ListDatasets() {
		ds := c.Datasets[key]
		errors = append(errors, c.validateDataset(key, &ds)...)
	}

	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateUpstream() ValidationErrors {
	var errors ValidationErrors

	if c.Upstream.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "upstream.base_url",
			Message: "base_url is required",
		})
	} else if !isHTTPURL(c.Upstream.BaseURL) {
		errors = append(errors, ValidationError{
			Field:   "upstream.base_url",
			Message: "base_url must be an absolute http(s) URL",
		})
	}

	if c.Catalog.URL != "" && !isHTTPURL(c.Catalog.URL) {
		errors = append(errors, ValidationError{
			Field:   "catalog.url",
			Message: "url must be an absolute http(s) URL",
		})
	}

	return errors
}

func (c *Config) validateFetch(prefix string, f *FetchConfig) ValidationErrors {
	var errors ValidationErrors

	if f.Concurrency < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".concurrency",
			Message: "concurrency cannot be negative",
		})
	}

	if f.RequestsPerSecond < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".requests_per_second",
			Message: "requests_per_second cannot be negative",
		})
	}

	if f.TimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".timeout_seconds",
			Message: "timeout_seconds cannot be negative",
		})
	}

	if f.Retries < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".retries",
			Message: "retries cannot be negative",
		})
	}

	if f.Save && f.UseSaved {
		errors = append(errors, ValidationError{
			Field:   prefix + ".use_saved",
			Message: "save and use_saved are mutually exclusive",
		})
	}

	return errors
}

func (c *Config) validateLedger() ValidationErrors {
	var errors ValidationErrors
	db := &c.Ledger.Database

	if db.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "ledger.database.host",
			Message: "host is required when ledger is enabled",
		})
	}

	if db.Port <= 0 || db.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "ledger.database.port",
			Message: "port must be between 1 and 65535",
		})
	}

	if db.User == "" {
		errors = append(errors, ValidationError{
			Field:   "ledger.database.user",
			Message: "user is required when ledger is enabled",
		})
	}

	if db.Database == "" {
		errors = append(errors, ValidationError{
			Field:   "ledger.database.database",
			Message: "database name is required when ledger is enabled",
		})
	}

	validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
	if !validTLS[db.TLS] {
		errors = append(errors, ValidationError{
			Field:   "ledger.database.tls",
			Message: "tls must be 'disable', 'preferred', or 'required'",
		})
	}

	if c.Ledger.LockTimeoutSeconds < -1 {
		errors = append(errors, ValidationError{
			Field:   "ledger.lock_timeout_seconds",
			Message: "lock_timeout_seconds must be -1 (wait forever) or greater",
		})
	}

	return errors
}

func (c *Config) validateDataset(key string, ds *DatasetConfig) ValidationErrors {
	var errors ValidationErrors
	prefix := fmt.Sprintf("datasets.%s", key)

	if ds.Name == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".name",
			Message: "name is required",
		})
	}

	if ds.Title == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".title",
			Message: "title is required",
		})
	}

	validVariants := map[string]bool{VariantBilateral: true, VariantAggregate: true}
	if !validVariants[ds.Variant] {
		errors = append(errors, ValidationError{
			Field:   prefix + ".variant",
			Message: "variant must be 'bilateral' or 'aggregate'",
		})
	}

	if len(ds.SourceIDs) == 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".source_ids",
			Message: "at least one source id is required",
		})
	}
	for i, id := range ds.SourceIDs {
		if strings.TrimSpace(id) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("%s.source_ids[%d]", prefix, i),
				Message: "source id cannot be empty",
			})
		}
	}

	if len(ds.PopulationCollections) == 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".population_collections",
			Message: "at least one population collection is required",
		})
	}

	if ds.BaselineURL != "" && !isHTTPURL(ds.BaselineURL) {
		errors = append(errors, ValidationError{
			Field:   prefix + ".baseline_url",
			Message: "baseline_url must be an absolute http(s) URL",
		})
	}

	if ds.BaselineURL == "" && c.Catalog.URL == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".baseline_url",
			Message: "baseline_url is required when no catalog url is configured",
		})
	}

	if ds.Fetch != nil {
		errors = append(errors, c.validateFetch(prefix+".fetch", ds.Fetch)...)
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
