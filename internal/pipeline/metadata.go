package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dbsmedya/situations/internal/config"
	"github.com/dbsmedya/situations/internal/country"
	"github.com/dbsmedya/situations/internal/publish"
	"github.com/dbsmedya/situations/internal/table"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Metadata is what the catalog needs to know about a generated table.
type Metadata struct {
	Name                string
	Title               string
	Maintainer          string
	Organization        string
	Locations           []string
	Tags                []string
	StartDate           time.Time
	EndDate             time.Time
	ResourceName        string
	ResourceDescription string
	Rows                int
	Columns             []string
}

// Derive computes the metadata of t for dataset ds. Locations are the
// distinct non-empty ISO3 values, sorted. The time period spans the
// earliest and latest row date.
func Derive(t *table.Table, ds *config.DatasetConfig) (*Metadata, error) {
	if t.Len() == 0 {
		return nil, &MetadataError{Reason: "table has no rows"}
	}

	isoIdx := t.Schema.Index(t.Schema.ISO3Column)
	dateIdx := t.Schema.Index(t.Schema.DateColumn)

	seen := make(map[string]bool)
	var locations []string
	var start, end time.Time
	for i, r := range t.Rows {
		if code := r[isoIdx]; code != "" && !seen[code] {
			seen[code] = true
			locations = append(locations, code)
		}

		d, err := ParseDate(r[dateIdx])
		if err != nil {
			return nil, &MetadataError{Reason: fmt.Sprintf("row %d", i+1), Err: err}
		}
		if i == 0 || d.Before(start) {
			start = d
		}
		if i == 0 || d.After(end) {
			end = d
		}
	}
	sort.Strings(locations)

	return &Metadata{
		Name:                Slugify(ds.Name),
		Title:               ds.Title,
		Maintainer:          ds.EffectiveMaintainer(),
		Organization:        ds.EffectiveOrganization(),
		Locations:           locations,
		Tags:                append([]string(nil), ds.Tags...),
		StartDate:           start,
		EndDate:             end,
		ResourceName:        strings.ToLower(ds.Name) + ".csv",
		ResourceDescription: ds.EffectiveResourceDescription(),
		Rows:                t.Len(),
		Columns:             append([]string(nil), t.Schema.Columns...),
	}, nil
}

// ParseDate parses a row date in any of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// DatasetDate renders the time period the way the catalog expects it:
// [YYYY-MM-DDT00:00:00 TO YYYY-MM-DDT23:59:59].
func (m *Metadata) DatasetDate() string {
	return fmt.Sprintf("[%sT00:00:00 TO %sT23:59:59]",
		m.StartDate.Format("2006-01-02"), m.EndDate.Format("2006-01-02"))
}

// ManifestName is the file name of the manifest written next to the resource.
func (m *Metadata) ManifestName() string {
	return m.Name + ".manifest.yaml"
}

// Manifest converts m for the publish step.
func (m *Metadata) Manifest() *publish.Manifest {
	return &publish.Manifest{
		Name:         m.Name,
		Title:        m.Title,
		Maintainer:   m.Maintainer,
		Organization: m.Organization,
		DatasetDate:  m.DatasetDate(),
		StartDate:    m.StartDate.Format("2006-01-02"),
		EndDate:      m.EndDate.Format("2006-01-02"),
		Locations:    m.Locations,
		Tags:         m.Tags,
		Resources: []publish.Resource{{
			Name:        m.ResourceName,
			Description: m.ResourceDescription,
			Format:      "csv",
			File:        m.ResourceName,
			Rows:        m.Rows,
			Columns:     m.Columns,
		}},
	}
}

// Slugify lowercases s, folds accents and joins alphanumeric runs with "-".
func Slugify(s string) string {
	folded := country.FoldAccents(s)

	var b strings.Builder
	pendingDash := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		if r != '\'' && r != '’' {
			pendingDash = true
		}
	}
	return b.String()
}
