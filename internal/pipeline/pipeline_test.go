package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/situations/internal/config"
	"github.com/dbsmedya/situations/internal/country"
	"github.com/dbsmedya/situations/internal/publish"
	"github.com/dbsmedya/situations/internal/table"
	"github.com/dbsmedya/situations/internal/upstream"
	"github.com/dbsmedya/situations/internal/verifier"
)

type fakeFetcher struct {
	records map[string][]upstream.RawRecord
	errs    map[string]error
	delay   map[string]time.Duration
}

func (f *fakeFetcher) Fetch(ctx context.Context, sourceID string) ([]upstream.RawRecord, error) {
	if d := f.delay[sourceID]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.errs[sourceID]; err != nil {
		return nil, &upstream.FetchError{SourceID: sourceID, Err: err}
	}
	return f.records[sourceID], nil
}

type fakeLoader struct {
	table *table.Table
	err   error
}

func (f *fakeLoader) Load(context.Context, string) (*table.Table, error) {
	return f.table, f.err
}

func rec(location, origin, source, date, individuals string) upstream.RawRecord {
	return upstream.RawRecord{
		Location:       upstream.Text(location),
		Origin:         upstream.Text(origin),
		PopulationType: "Refugees",
		Source:         upstream.Text(source),
		Date:           upstream.Text(date),
		Individuals:    upstream.Text(individuals),
	}
}

func bilateralDataset() *config.DatasetConfig {
	return &config.DatasetConfig{
		Name:      "UNHCR_Situations",
		Title:     "UNHCR Situations",
		Variant:   config.VariantBilateral,
		SourceIDs: []string{"220", "259", "295", "300"},
		Tags:      []string{"refugees", "asylum seekers"},
	}
}

func bilateralBaseline() *table.Table {
	return &table.Table{Schema: table.BilateralSchema, Rows: []table.Row{
		{"Benin", "BEN", "Togo", "TGO", "Refugees", "UNHCR", "2024-05-31", "4716"},
		{"Benin", "BEN", "Nigeria", "NGA", "Refugees", "UNHCR", "2024-05-31", "1200"},
		{"Guinea", "GIN", "Côte d'Ivoire", "CIV", "Refugees", "UNHCR", "2024-04-30", "310"},
		{"Sudan", "SDN", "South Sudan", "SSD", "Refugees", "UNHCR", "2023-05-31", "800000"},
	}}
}

func bilateralFetcher() *fakeFetcher {
	uganda := rec("Uganda", "South Sudan", "Office of the Prime Minister, UNHCR, Government", "2024-06-30", "948191")
	return &fakeFetcher{
		records: map[string][]upstream.RawRecord{
			"220": {
				uganda,
				rec("Uganda", "Dem. Rep. of the Congo", "UNHCR", "2024-06-30", "500000"),
				rec("Uganda", "", "UNHCR", "2024-06-30", "12"),
			},
			"259": {
				rec("Benin", "Togo", "UNHCR", "2024-05-31", "4716"),
				rec("Benin", "Togo", "UNHCR", "2024-06-30", "4800"),
				rec("Benin", "Atlantis", "UNHCR", "2024-06-30", "3"),
			},
			"300": {uganda},
		},
		errs: map[string]error{"295": errors.New("HTTP 500")},
	}
}

func newBilateralPipeline(t *testing.T, fetcher Fetcher, concurrency int) *Pipeline {
	t.Helper()
	p, err := New(Options{
		Dataset:     bilateralDataset(),
		Fetcher:     fetcher,
		Baseline:    &fakeLoader{table: bilateralBaseline()},
		Resolver:    country.New(),
		Concurrency: concurrency,
		Verifier:    verifier.NewVerifier(verifier.MethodSHA256, nil),
	})
	require.NoError(t, err)
	return p
}

func TestRun_Bilateral(t *testing.T) {
	outDir := t.TempDir()
	p := newBilateralPipeline(t, bilateralFetcher(), 1)

	res, err := p.Run(context.Background(), []string{"220", "259", "295", "300"}, outDir)
	require.NoError(t, err)
	require.NotNil(t, res.Artifact)

	assert.Equal(t, Stats{
		BaselineRows:  4,
		Sources:       4,
		FailedSources: 1,
		Fetched:       7,
		Skipped:       1,
		Known:         1,
		Duplicates:    1,
		Added:         4,
	}, res.Stats)

	merged := res.Artifact.Table
	require.Equal(t, 8, merged.Len())
	var keys []string
	for _, r := range merged.Rows {
		keys = append(keys, strings.Join([]string{r[1], r[2], r[3], r[6]}, "|"))
	}
	assert.Equal(t, []string{
		"BEN|Atlantis||2024-06-30",
		"BEN|Nigeria|NGA|2024-05-31",
		"BEN|Togo|TGO|2024-05-31",
		"BEN|Togo|TGO|2024-06-30",
		"GIN|Côte d'Ivoire|CIV|2024-04-30",
		"SDN|South Sudan|SSD|2023-05-31",
		"UGA|Dem. Rep. of the Congo|COD|2024-06-30",
		"UGA|South Sudan|SSD|2024-06-30",
	}, keys)

	meta := res.Artifact.Metadata
	assert.Equal(t, "unhcr-situations", meta.Name)
	assert.Equal(t, []string{"BEN", "GIN", "SDN", "UGA"}, meta.Locations)
	assert.Equal(t, "[2023-05-31T00:00:00 TO 2024-06-30T23:59:59]", meta.DatasetDate())
	assert.Equal(t, "unhcr_situations.csv", meta.ResourceName)
	assert.Equal(t, "Country level refugees and asylum seekers over time", meta.ResourceDescription)
	assert.Equal(t, config.DefaultMaintainer, meta.Maintainer)

	assert.Equal(t, []string{"Atlantis"}, res.Misses)

	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Error(), "could not download data for 295")

	assert.Equal(t, filepath.Join(outDir, "unhcr_situations.csv"), res.Artifact.CSVPath)
	data, err := os.ReadFile(res.Artifact.CSVPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "Country,ISO3,Country of Origin,ISO3 of Origin,Population type,Source,Date,Individuals", lines[0])
	assert.Equal(t, `Uganda,UGA,South Sudan,SSD,Refugees,"Office of the Prime Minister, UNHCR, Government",2024-06-30,948191`, lines[8])

	manifest, err := publish.ReadManifest(res.Artifact.ManifestPath)
	require.NoError(t, err)
	assert.Equal(t, meta.DatasetDate(), manifest.DatasetDate)
	assert.Equal(t, 8, manifest.Resources[0].Rows)
}

func TestRun_ConcurrentFetchMatchesSequential(t *testing.T) {
	ids := []string{"220", "259", "295", "300"}

	seqDir := t.TempDir()
	seq, err := newBilateralPipeline(t, bilateralFetcher(), 1).Run(context.Background(), ids, seqDir)
	require.NoError(t, err)

	slow := bilateralFetcher()
	slow.delay = map[string]time.Duration{"220": 40 * time.Millisecond, "259": 20 * time.Millisecond}
	parDir := t.TempDir()
	par, err := newBilateralPipeline(t, slow, 4).Run(context.Background(), ids, parDir)
	require.NoError(t, err)

	assert.Equal(t, seq.Stats, par.Stats)
	assert.Equal(t, seq.Misses, par.Misses)
	require.Len(t, par.Errors, 1)

	a, err := os.ReadFile(seq.Artifact.CSVPath)
	require.NoError(t, err)
	b, err := os.ReadFile(par.Artifact.CSVPath)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestCollect_AdditionsKeepDiscoveryOrder(t *testing.T) {
	p := newBilateralPipeline(t, bilateralFetcher(), 1)
	require.NoError(t, p.LoadBaseline(context.Background()))
	require.NoError(t, p.Collect(context.Background(), []string{"259", "220"}))

	adds := p.Additions()
	require.Equal(t, 4, adds.Len())
	var origins []string
	for _, r := range adds.Rows {
		origins = append(origins, r[2])
	}
	assert.Equal(t, []string{"Togo", "Atlantis", "South Sudan", "Dem. Rep. of the Congo"}, origins)
}

func TestGenerate_NoAdditionsWritesNothing(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	fetcher := &fakeFetcher{records: map[string][]upstream.RawRecord{
		"259": {rec("Benin", "Togo", "UNHCR", "2024-05-31", "4716")},
	}}
	p := newBilateralPipeline(t, fetcher, 1)

	res, err := p.Run(context.Background(), []string{"259"}, outDir)
	require.NoError(t, err)
	assert.Nil(t, res.Artifact)
	assert.Equal(t, 1, res.Stats.Known)
	assert.Empty(t, res.Errors)

	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_AllSourcesFail(t *testing.T) {
	fetcher := &fakeFetcher{errs: map[string]error{
		"220": errors.New("timeout"),
		"259": errors.New("timeout"),
	}}
	p := newBilateralPipeline(t, fetcher, 2)

	res, err := p.Run(context.Background(), []string{"220", "259"}, t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, res.Artifact)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0].Error(), "220")
	assert.Contains(t, res.Errors[1].Error(), "259")
	assert.Error(t, p.Errors().Err())
}

func TestRun_Aggregate(t *testing.T) {
	ds := &config.DatasetConfig{
		Name:    "UNHCR_Sudan_Situation",
		Title:   "Sudan situation",
		Variant: config.VariantAggregate,
	}
	fetcher := &fakeFetcher{records: map[string][]upstream.RawRecord{
		"5": {
			rec("Egypt", "", "Government", "2024-06-30", "500000"),
			rec("Other", "", "UNHCR", "2024-06-30", "999"),
			rec("Chad", "", "Government, UNHCR", "2024-05-31", "600000"),
		},
	}}
	baseline := &table.Table{Schema: table.AggregateSchema, Rows: []table.Row{
		{"South Sudan", "SSD", "Government", "2023-05-31", "10000"},
	}}

	p, err := New(Options{
		Dataset:  ds,
		Fetcher:  fetcher,
		Baseline: &fakeLoader{table: baseline},
		Resolver: country.New(),
	})
	require.NoError(t, err)

	res, err := p.Run(context.Background(), []string{"5"}, t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, res.Artifact)
	assert.Equal(t, 1, res.Stats.Skipped)

	var countries []string
	for _, r := range res.Artifact.Table.Rows {
		countries = append(countries, r[0])
	}
	assert.Equal(t, []string{"South Sudan", "Egypt", "Chad"}, countries)
	assert.Equal(t, []string{"EGY", "SSD", "TCD"}, res.Artifact.Metadata.Locations)
	assert.Equal(t, "unhcr_sudan_situation.csv", res.Artifact.Metadata.ResourceName)
	assert.Equal(t, "Country level refugees, asylum seekers, and others of concern over time",
		res.Artifact.Metadata.ResourceDescription)
}

func TestRun_FatalErrors(t *testing.T) {
	t.Run("baseline failure", func(t *testing.T) {
		p, err := New(Options{
			Dataset:  bilateralDataset(),
			Fetcher:  &fakeFetcher{},
			Baseline: &fakeLoader{err: errors.New("catalog down")},
			Resolver: country.New(),
		})
		require.NoError(t, err)
		_, err = p.Run(context.Background(), []string{"220"}, t.TempDir())
		assert.ErrorContains(t, err, "load baseline: catalog down")
	})

	t.Run("baseline of the other shape", func(t *testing.T) {
		p, err := New(Options{
			Dataset:  bilateralDataset(),
			Fetcher:  &fakeFetcher{},
			Baseline: &fakeLoader{table: table.New(table.AggregateSchema)},
			Resolver: country.New(),
		})
		require.NoError(t, err)
		assert.ErrorContains(t, p.LoadBaseline(context.Background()), "aggregate table")
	})

	t.Run("unparseable date", func(t *testing.T) {
		fetcher := &fakeFetcher{records: map[string][]upstream.RawRecord{
			"220": {rec("Uganda", "South Sudan", "UNHCR", "June 2024", "1")},
		}}
		p := newBilateralPipeline(t, fetcher, 1)
		_, err := p.Run(context.Background(), []string{"220"}, t.TempDir())
		var me *MetadataError
		assert.ErrorAs(t, err, &me)
	})

	t.Run("canceled context", func(t *testing.T) {
		p := newBilateralPipeline(t, bilateralFetcher(), 1)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := p.Run(ctx, []string{"220"}, t.TempDir())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("collect before baseline", func(t *testing.T) {
		p := newBilateralPipeline(t, bilateralFetcher(), 1)
		assert.Error(t, p.Collect(context.Background(), []string{"220"}))
	})
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	ds := bilateralDataset()
	ds.Variant = "wide"
	_, err = New(Options{Dataset: ds, Fetcher: &fakeFetcher{}, Baseline: &fakeLoader{}, Resolver: country.New()})
	assert.ErrorContains(t, err, "unknown table variant")
}

func TestRun_TwentyOneNewRecordsAcrossThreeSources(t *testing.T) {
	countries := []string{"Chad", "Niger", "Mali"}
	fetcher := &fakeFetcher{records: map[string][]upstream.RawRecord{}}
	ids := []string{"1", "2", "3"}
	for i := 0; i < 21; i++ {
		id := ids[i%3]
		fetcher.records[id] = append(fetcher.records[id],
			rec(countries[i%3], "Sudan", "UNHCR", fmt.Sprintf("2024-%02d-28", i%12+1), fmt.Sprint(1000+i)))
	}
	p := newBilateralPipeline(t, fetcher, 1)

	res, err := p.Run(context.Background(), ids, t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, res.Artifact)
	assert.Equal(t, 21, res.Stats.Added)
	assert.Equal(t, 25, res.Artifact.Table.Len())

	rows := res.Artifact.Table.Rows
	sorted := sort.SliceIsSorted(rows, func(a, b int) bool {
		ra, rb := rows[a], rows[b]
		if ra[1] != rb[1] {
			return ra[1] < rb[1]
		}
		if ra[2] != rb[2] {
			return ra[2] < rb[2]
		}
		return ra[6] < rb[6]
	})
	assert.True(t, sorted, "merged rows must be ordered by ISO3, origin and date")
}

func TestRun_OneOfThreeSourcesFails(t *testing.T) {
	fetcher := &fakeFetcher{
		records: map[string][]upstream.RawRecord{
			"1": {rec("Chad", "Sudan", "UNHCR", "2024-06-30", "600000")},
			"3": {rec("Egypt", "Sudan", "Government", "2024-06-30", "500000")},
		},
		errs: map[string]error{"2": errors.New("HTTP 502")},
	}
	p := newBilateralPipeline(t, fetcher, 1)

	res, err := p.Run(context.Background(), []string{"1", "2", "3"}, t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, res.Artifact)
	assert.Equal(t, 6, res.Artifact.Table.Len())

	require.Len(t, res.Errors, 1)
	var fe *upstream.FetchError
	require.ErrorAs(t, res.Errors[0], &fe)
	assert.Equal(t, "2", fe.SourceID)
}

type cancellingFetcher struct {
	*fakeFetcher
	cancelOn string
	cancel   context.CancelFunc
}

func (f *cancellingFetcher) Fetch(ctx context.Context, sourceID string) ([]upstream.RawRecord, error) {
	if sourceID == f.cancelOn {
		f.cancel()
		return nil, &upstream.FetchError{SourceID: sourceID, Err: ctx.Err()}
	}
	return f.fakeFetcher.Fetch(ctx, sourceID)
}

func TestRun_CancelledDuringLastFetch(t *testing.T) {
	for _, concurrency := range []int{1, 4} {
		t.Run(fmt.Sprintf("concurrency %d", concurrency), func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			fetcher := &cancellingFetcher{
				fakeFetcher: &fakeFetcher{records: map[string][]upstream.RawRecord{
					"1": {rec("Chad", "Sudan", "UNHCR", "2024-06-30", "600000")},
				}},
				cancelOn: "2",
				cancel:   cancel,
			}
			p := newBilateralPipeline(t, fetcher, concurrency)
			outDir := filepath.Join(t.TempDir(), "out")

			res, err := p.Run(ctx, []string{"1", "2"}, outDir)
			require.ErrorIs(t, err, context.Canceled)
			assert.Nil(t, res)

			_, statErr := os.Stat(outDir)
			assert.True(t, os.IsNotExist(statErr), "a cancelled run must not publish")
		})
	}
}

func TestRun_LineBreaksSurviveVerification(t *testing.T) {
	outDir := t.TempDir()
	fetcher := &fakeFetcher{records: map[string][]upstream.RawRecord{
		"1": {rec("Chad", "Sudan", "UNHCR\r\nGovernment", "2024-06-30", "600000")},
	}}
	p := newBilateralPipeline(t, fetcher, 1)

	res, err := p.Run(context.Background(), []string{"1"}, outDir)
	require.NoError(t, err)
	require.NotNil(t, res.Artifact)

	f, err := os.Open(res.Artifact.CSVPath)
	require.NoError(t, err)
	defer f.Close()
	written, err := table.ReadCSV(f, table.BilateralSchema)
	require.NoError(t, err)
	assert.Equal(t, res.Artifact.Table.Rows, written.Rows)

	var sources []string
	for _, r := range written.Rows {
		sources = append(sources, r[5])
	}
	assert.Contains(t, sources, "UNHCR\nGovernment")
}

func TestGenerate_FailedVerificationPublishesNothing(t *testing.T) {
	outDir := t.TempDir()
	baseline := bilateralBaseline()
	// encoding/csv reads "\r\n" inside a quoted field back as "\n".
	baseline.Rows[0][5] = "UNHCR\r\nGovernment"

	p, err := New(Options{
		Dataset: bilateralDataset(),
		Fetcher: &fakeFetcher{records: map[string][]upstream.RawRecord{
			"1": {rec("Chad", "Sudan", "UNHCR", "2024-06-30", "600000")},
		}},
		Baseline: &fakeLoader{table: baseline},
		Resolver: country.New(),
		Verifier: verifier.NewVerifier(verifier.MethodSHA256, nil),
	})
	require.NoError(t, err)

	_, err = p.Run(context.Background(), []string{"1"}, outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hash mismatch")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
