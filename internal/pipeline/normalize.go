package pipeline

import (
	"sort"
	"strings"

	"github.com/dbsmedya/situations/internal/logger"
	"github.com/dbsmedya/situations/internal/table"
	"github.com/dbsmedya/situations/internal/upstream"
)

// otherLocation is the aggregate feed's catch-all bucket; it is not a country.
const otherLocation = "Other"

// Resolver maps a country name to its ISO3 code. *country.Resolver satisfies it.
type Resolver interface {
	Resolve(name string) (string, bool)
}

// Normalizer turns upstream records into rows of one schema.
// It is not safe for concurrent use.
type Normalizer struct {
	schema   table.Schema
	resolver Resolver
	log      *logger.Logger
	misses   map[string]int
}

// NewNormalizer returns a Normalizer producing rows of schema.
func NewNormalizer(schema table.Schema, resolver Resolver, log *logger.Logger) *Normalizer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Normalizer{
		schema:   schema,
		resolver: resolver,
		log:      log,
		misses:   make(map[string]int),
	}
}

// Normalize converts rec into a row. ok is false when the record is skipped:
// bilateral records without an origin and aggregate records for the "Other" bucket.
// Names that do not resolve keep an empty ISO3 value. Line breaks inside values
// are folded to "\n" so rows read back from CSV compare equal.
func (n *Normalizer) Normalize(rec upstream.RawRecord) (row table.Row, ok bool) {
	location := text(rec.Location)

	var fields map[string]string
	switch n.schema.Variant {
	case table.Aggregate:
		if location == otherLocation {
			return nil, false
		}
		fields = map[string]string{
			table.ColAggCountry:     location,
			table.ColAggISO3:        n.iso3(location),
			table.ColAggSource:      text(rec.Source),
			table.ColAggDate:        text(rec.Date),
			table.ColAggIndividuals: text(rec.Individuals),
		}

	default:
		origin := text(rec.Origin)
		if origin == "" {
			return nil, false
		}
		fields = map[string]string{
			table.ColCountry:        location,
			table.ColISO3:           n.iso3(location),
			table.ColOriginCountry:  origin,
			table.ColOriginISO3:     n.iso3(origin),
			table.ColPopulationType: text(rec.PopulationType),
			table.ColSource:         text(rec.Source),
			table.ColDate:           text(rec.Date),
			table.ColIndividuals:    text(rec.Individuals),
		}
	}

	row, err := n.schema.RowFromMap(fields)
	if err != nil {
		n.log.Errorw("Record does not fit the table schema", "variant", n.schema.Variant, "error", err)
		return nil, false
	}
	return row, true
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func text(t upstream.Text) string {
	return lineBreaks.Replace(t.String())
}

func (n *Normalizer) iso3(name string) string {
	code, ok := n.resolver.Resolve(name)
	if ok {
		return code
	}
	if n.misses[name] == 0 {
		n.log.Warnw("Could not find iso3", "name", name)
	}
	n.misses[name]++
	return ""
}

// Misses returns the names that did not resolve, sorted.
func (n *Normalizer) Misses() []string {
	out := make([]string, 0, len(n.misses))
	for name := range n.misses {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
