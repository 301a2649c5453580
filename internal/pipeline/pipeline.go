// Package pipeline merges freshly fetched situation statistics into a
// previously published dataset.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/dbsmedya/situations/internal/config"
	"github.com/dbsmedya/situations/internal/logger"
	"github.com/dbsmedya/situations/internal/publish"
	"github.com/dbsmedya/situations/internal/table"
	"github.com/dbsmedya/situations/internal/upstream"
	"github.com/dbsmedya/situations/internal/verifier"
)

// Fetcher returns the records of one upstream source. *upstream.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, sourceID string) ([]upstream.RawRecord, error)
}

// BaselineLoader returns the published table of a dataset. *baseline.Loader satisfies it.
type BaselineLoader interface {
	Load(ctx context.Context, datasetName string) (*table.Table, error)
}

// Options wires a Pipeline.
type Options struct {
	Dataset     *config.DatasetConfig
	Fetcher     Fetcher
	Baseline    BaselineLoader
	Resolver    Resolver
	Concurrency int
	Errors      *Collector
	Verifier    *verifier.Verifier // nil skips reading the CSV back
	Logger      *logger.Logger
}

// Stats counts what happened to the fetched records.
type Stats struct {
	BaselineRows  int
	Sources       int
	FailedSources int
	Fetched       int
	Skipped       int
	Known         int
	Duplicates    int
	Added         int
}

// Artifact is a written dataset.
type Artifact struct {
	Table        *table.Table
	Metadata     *Metadata
	CSVPath      string
	ManifestPath string
}

// Result summarizes a Run.
type Result struct {
	Dataset  string
	Stats    Stats
	Artifact *Artifact
	Misses   []string
	Errors   []error
}

// Pipeline runs one dataset: load baseline, collect new rows, generate.
type Pipeline struct {
	dataset     *config.DatasetConfig
	schema      table.Schema
	fetcher     Fetcher
	loader      BaselineLoader
	normalizer  *Normalizer
	concurrency int
	errors      *Collector
	verifier    *verifier.Verifier
	log         *logger.Logger

	baseline  *table.Table
	additions *table.Additions
	stats     Stats
}

// New validates opts and returns a Pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Dataset == nil {
		return nil, errors.New("dataset is required")
	}
	if opts.Fetcher == nil || opts.Baseline == nil || opts.Resolver == nil {
		return nil, errors.New("fetcher, baseline loader and resolver are required")
	}
	schema, err := table.SchemaFor(opts.Dataset.Variant)
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	collector := opts.Errors
	if collector == nil {
		collector = NewCollector()
	}
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Pipeline{
		dataset:     opts.Dataset,
		schema:      schema,
		fetcher:     opts.Fetcher,
		loader:      opts.Baseline,
		normalizer:  NewNormalizer(schema, opts.Resolver, log),
		concurrency: concurrency,
		errors:      collector,
		verifier:    opts.Verifier,
		log:         log,
	}, nil
}

// Schema returns the schema of the dataset's table.
func (p *Pipeline) Schema() table.Schema {
	return p.schema
}

// Errors returns the collector receiving per-source failures.
func (p *Pipeline) Errors() *Collector {
	return p.errors
}

// LoadBaseline reads the published table. It must be called before Collect.
func (p *Pipeline) LoadBaseline(ctx context.Context) error {
	t, err := p.loader.Load(ctx, p.dataset.Name)
	if err != nil {
		return fmt.Errorf("load baseline: %w", err)
	}
	if !t.Schema.Equal(p.schema) {
		return fmt.Errorf("baseline is a %s table, dataset is %s", t.Schema.Variant, p.schema.Variant)
	}

	p.baseline = t
	p.additions = table.NewAdditions(table.NewIndex(t))
	p.stats.BaselineRows = t.Len()
	return nil
}

type sourceResult struct {
	records []upstream.RawRecord
	err     error
}

// Collect fetches every source and keeps the rows absent from the baseline.
// A source that fails is recorded in the error collector and skipped. Records
// are folded in sourceIDs order whatever the fetch concurrency.
func (p *Pipeline) Collect(ctx context.Context, sourceIDs []string) error {
	if p.additions == nil {
		return errors.New("baseline not loaded")
	}

	results := make([]sourceResult, len(sourceIDs))
	if p.concurrency == 1 {
		for i, id := range sourceIDs {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i].records, results[i].err = p.fetcher.Fetch(ctx, id)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.concurrency)
		for i, id := range sourceIDs {
			g.Go(func() error {
				results[i].records, results[i].err = p.fetcher.Fetch(gctx, id)
				return nil
			})
		}
		_ = g.Wait()
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	for i, id := range sourceIDs {
		p.fold(id, results[i])
	}
	return nil
}

func (p *Pipeline) fold(sourceID string, res sourceResult) {
	log := p.log.WithSource(sourceID)
	p.stats.Sources++

	if res.err != nil {
		var fe *upstream.FetchError
		if !errors.As(res.err, &fe) {
			res.err = &upstream.FetchError{SourceID: sourceID, Err: res.err}
		}
		p.stats.FailedSources++
		p.errors.Add(res.err)
		log.Warnw("Source failed, continuing with the others", "error", res.err)
		return
	}

	added := 0
	for _, rec := range res.records {
		p.stats.Fetched++
		row, ok := p.normalizer.Normalize(rec)
		if !ok {
			p.stats.Skipped++
			continue
		}
		if p.additions.Add(row) {
			added++
		}
	}
	p.stats.Known = p.additions.Known()
	p.stats.Duplicates = p.additions.Duplicates()
	p.stats.Added = p.additions.Len()

	log.Infow("Source collected", "records", len(res.records), "new_rows", added)
}

// Additions returns the rows collected so far that are not in the baseline.
func (p *Pipeline) Additions() *table.Table {
	if p.additions == nil {
		return table.New(p.schema)
	}
	return p.additions.Table()
}

// Stats returns the counters accumulated so far.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// Misses returns names that could not be resolved to ISO3 codes.
func (p *Pipeline) Misses() []string {
	return p.normalizer.Misses()
}

// Preview merges the baseline with the additions and derives metadata
// without writing anything. It returns nil, nil when there are no additions.
func (p *Pipeline) Preview() (*table.Table, *Metadata, error) {
	if p.additions == nil {
		return nil, nil, errors.New("baseline not loaded")
	}
	if p.additions.Len() == 0 {
		return nil, nil, nil
	}

	merged, err := table.Merge(p.baseline, p.additions.Table())
	if err != nil {
		return nil, nil, err
	}
	meta, err := Derive(merged, p.dataset)
	if err != nil {
		return nil, nil, err
	}
	return merged, meta, nil
}

// Generate writes the merged table and its manifest under outDir. When no
// new rows were collected nothing is written and the artifact is nil.
func (p *Pipeline) Generate(outDir string) (*Artifact, error) {
	merged, meta, err := p.Preview()
	if err != nil {
		return nil, err
	}
	if merged == nil {
		p.log.Infow("No new data, nothing to publish", "dataset", p.dataset.Name)
		return nil, nil
	}

	csvPath := filepath.Join(outDir, meta.ResourceName)
	staged, err := publish.StageCSV(csvPath, merged)
	if err != nil {
		return nil, err
	}
	if p.verifier != nil {
		if _, err := p.verifier.VerifyFile(staged, merged); err != nil {
			publish.Discard(staged)
			return nil, err
		}
	}
	if err := publish.Commit(staged, csvPath); err != nil {
		return nil, err
	}
	manifestPath := filepath.Join(outDir, meta.ManifestName())
	if err := publish.WriteManifest(manifestPath, meta.Manifest()); err != nil {
		return nil, err
	}

	p.log.Infow("Dataset generated",
		"path", csvPath,
		"rows", merged.Len(),
		"new_rows", p.additions.Len(),
		"dataset_date", meta.DatasetDate(),
	)
	return &Artifact{Table: merged, Metadata: meta, CSVPath: csvPath, ManifestPath: manifestPath}, nil
}

// Run loads the baseline, collects sourceIDs and generates the dataset under outDir.
// Per-source failures do not stop the run; they are returned in Result.Errors.
func (p *Pipeline) Run(ctx context.Context, sourceIDs []string, outDir string) (*Result, error) {
	if err := p.LoadBaseline(ctx); err != nil {
		return nil, err
	}
	if err := p.Collect(ctx, sourceIDs); err != nil {
		return nil, err
	}
	artifact, err := p.Generate(outDir)
	if err != nil {
		return nil, err
	}

	return &Result{
		Dataset:  p.dataset.Name,
		Stats:    p.stats,
		Artifact: artifact,
		Misses:   p.normalizer.Misses(),
		Errors:   p.errors.Errors(),
	}, nil
}
