package cmd

import (
	"fmt"
	"io"

	"github.com/gookit/color"

	"github.com/dbsmedya/situations/internal/baseline"
	"github.com/dbsmedya/situations/internal/catalog"
	"github.com/dbsmedya/situations/internal/config"
	"github.com/dbsmedya/situations/internal/country"
	"github.com/dbsmedya/situations/internal/download"
	"github.com/dbsmedya/situations/internal/logger"
	"github.com/dbsmedya/situations/internal/pipeline"
	"github.com/dbsmedya/situations/internal/report"
	"github.com/dbsmedya/situations/internal/table"
	"github.com/dbsmedya/situations/internal/upstream"
	"github.com/dbsmedya/situations/internal/verifier"
)

// loadConfig reads the config file, applies CLI overrides, validates the
// result and builds the logger.
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyOverrides(GetCLIOverrides())

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}

// datasetRun is everything needed to run one configured dataset.
type datasetRun struct {
	key      string
	dataset  *config.DatasetConfig
	pipeline *pipeline.Pipeline
	upstream *upstream.Client
}

// newDatasetRun wires the download client, upstream and catalog clients,
// baseline loader and country resolver into a pipeline for dataset key.
func newDatasetRun(cfg *config.Config, key string, log *logger.Logger) (*datasetRun, error) {
	ds, err := cfg.GetDataset(key)
	if err != nil {
		return nil, err
	}
	fetch := cfg.ApplyDatasetOverrides(key, GetCLIOverrides())
	log = log.WithDataset(ds.Name)

	schema, err := table.SchemaFor(ds.Variant)
	if err != nil {
		return nil, err
	}

	dl := download.New(download.OptionsFromConfig(cfg.Upstream.UserAgent, fetch), log)
	up := upstream.NewClient(dl, cfg.Upstream.BaseURL, ds.EffectiveSourceParam(), ds.PopulationCollections)

	var cat baseline.Catalog
	if cfg.Catalog.URL != "" {
		cat = catalog.NewClient(dl, cfg.Catalog.URL)
	}
	loader := baseline.NewLoader(cat, dl, schema, ds.BaselineURL, log)

	method, err := verifier.ParseMethod(cfg.Output.Verify)
	if err != nil {
		return nil, err
	}

	p, err := pipeline.New(pipeline.Options{
		Dataset:     ds,
		Fetcher:     up,
		Baseline:    loader,
		Resolver:    country.New(),
		Concurrency: fetch.Concurrency,
		Verifier:    verifier.NewVerifier(method, log),
		Logger:      log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	return &datasetRun{key: key, dataset: ds, pipeline: p, upstream: up}, nil
}

// sourceIDs returns the ids given on the command line, or the dataset's configured ones.
func (r *datasetRun) sourceIDs(override []string) []string {
	if len(override) > 0 {
		return override
	}
	return r.dataset.SourceIDs
}

func newReport(w io.Writer) *report.Report {
	return report.New(w, !noColor && color.SupportColor())
}
