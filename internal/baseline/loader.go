// Package baseline loads the previously published table of a dataset.
package baseline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dbsmedya/situations/internal/catalog"
	"github.com/dbsmedya/situations/internal/download"
	"github.com/dbsmedya/situations/internal/logger"
	"github.com/dbsmedya/situations/internal/table"
)

// Catalog finds a published dataset by name. *catalog.Client satisfies it.
type Catalog interface {
	Show(ctx context.Context, name string) (*catalog.Dataset, error)
}

// Getter downloads a URL. *download.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Loader reads the baseline table for one dataset.
type Loader struct {
	catalog     Catalog
	getter      Getter
	schema      table.Schema
	baselineURL string
	log         *logger.Logger
}

// NewLoader returns a Loader. When baselineURL is set it is read directly and
// the catalog is not consulted; cat may then be nil.
func NewLoader(cat Catalog, getter Getter, schema table.Schema, baselineURL string, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.NewNop()
	}
	return &Loader{
		catalog:     cat,
		getter:      getter,
		schema:      schema,
		baselineURL: baselineURL,
		log:         log,
	}
}

// Load returns the published table of datasetName. A dataset that was never
// published yields an empty table. A published table whose header does not
// match the schema is an error.
func (l *Loader) Load(ctx context.Context, datasetName string) (*table.Table, error) {
	resourceURL := l.baselineURL
	if resourceURL == "" {
		if l.catalog == nil {
			return nil, fmt.Errorf("no catalog configured and no baseline url for %s", datasetName)
		}
		ds, err := l.catalog.Show(ctx, datasetName)
		if err != nil {
			return nil, err
		}
		if ds == nil {
			l.log.Infow("Dataset not found in catalog, starting from an empty baseline", "dataset", datasetName)
			return table.New(l.schema), nil
		}
		resourceURL, err = ds.FirstResourceURL()
		if err != nil {
			return nil, err
		}
	}

	body, err := l.getter.Get(ctx, resourceURL)
	if download.IsNotFound(err) && l.baselineURL != "" {
		l.log.Infow("Baseline file not found, starting from an empty baseline", "url", resourceURL)
		return table.New(l.schema), nil
	}
	if err != nil {
		return nil, fmt.Errorf("download baseline: %w", err)
	}

	t, err := table.ReadCSV(bytes.NewReader(body), l.schema)
	if err != nil {
		return nil, fmt.Errorf("read baseline %s: %w", resourceURL, err)
	}

	l.log.Infow("Loaded baseline", "dataset", datasetName, "rows", t.Len(), "url", resourceURL)
	return t, nil
}
