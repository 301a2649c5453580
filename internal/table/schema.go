// Package table holds the canonical row model for published situations datasets:
// the two schema variants, row fingerprints used for deduplication, merging and
// the CSV codec.
package table

import (
	"fmt"
	"sort"
)

// Variant identifies one of the two canonical row shapes.
type Variant string

const (
	// Bilateral rows describe a flow from a country of origin into a country of asylum.
	Bilateral Variant = "bilateral"
	// Aggregate rows carry a total per country.
	Aggregate Variant = "aggregate"
)

// Bilateral column names.
const (
	ColCountry        = "Country"
	ColISO3           = "ISO3"
	ColOriginCountry  = "Country of Origin"
	ColOriginISO3     = "ISO3 of Origin"
	ColPopulationType = "Population type"
	ColSource         = "Source"
	ColDate           = "Date"
	ColIndividuals    = "Individuals"
)

// Aggregate column names.
const (
	ColAggCountry     = "country"
	ColAggISO3        = "iso3"
	ColAggSource      = "source"
	ColAggDate        = "date"
	ColAggIndividuals = "individuals"
)

// Schema fixes the column set and ordering of a table. A table never mixes schemas.
type Schema struct {
	Variant    Variant
	Columns    []string
	ISO3Column string
	DateColumn string
	// SortKey lists the columns the merged table is stably sorted by.
	// Empty means concatenation order is kept.
	SortKey []string

	index map[string]int
}

// BilateralSchema is the country-of-asylum x country-of-origin shape.
var BilateralSchema = newSchema(Bilateral,
	[]string{ColCountry, ColISO3, ColOriginCountry, ColOriginISO3, ColPopulationType, ColSource, ColDate, ColIndividuals},
	ColISO3, ColDate,
	[]string{ColISO3, ColOriginCountry, ColDate},
)

// AggregateSchema is the per-country totals shape.
var AggregateSchema = newSchema(Aggregate,
	[]string{ColAggCountry, ColAggISO3, ColAggSource, ColAggDate, ColAggIndividuals},
	ColAggISO3, ColAggDate,
	nil,
)

func newSchema(v Variant, columns []string, iso3, date string, sortKey []string) Schema {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	return Schema{
		Variant:    v,
		Columns:    columns,
		ISO3Column: iso3,
		DateColumn: date,
		SortKey:    sortKey,
		index:      index,
	}
}

// SchemaFor returns the schema of a variant name.
func SchemaFor(variant string) (Schema, error) {
	switch Variant(variant) {
	case Bilateral:
		return BilateralSchema, nil
	case Aggregate:
		return AggregateSchema, nil
	default:
		return Schema{}, fmt.Errorf("unknown table variant %q", variant)
	}
}

// Index returns the position of a column, or -1 when the schema does not have it.
func (s Schema) Index(column string) int {
	if i, ok := s.index[column]; ok {
		return i
	}
	return -1
}

// Value returns a row's value for the named column. Unknown columns yield "".
func (s Schema) Value(r Row, column string) string {
	i := s.Index(column)
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Equal reports whether two schemas describe the same shape.
func (s Schema) Equal(other Schema) bool {
	if s.Variant != other.Variant || len(s.Columns) != len(other.Columns) {
		return false
	}
	for i := range s.Columns {
		if s.Columns[i] != other.Columns[i] {
			return false
		}
	}
	return true
}

// RowFromMap projects a header-keyed record onto the schema. The record's key set must
// match the schema's column set exactly.
func (s Schema) RowFromMap(record map[string]string) (Row, error) {
	if missing := s.missingColumns(record); len(missing) > 0 {
		return nil, fmt.Errorf("record is missing columns %v", missing)
	}
	if len(record) != len(s.Columns) {
		var extra []string
		for k := range record {
			if s.Index(k) < 0 {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		return nil, fmt.Errorf("record has unexpected columns %v", extra)
	}

	row := make(Row, len(s.Columns))
	for i, c := range s.Columns {
		row[i] = record[c]
	}
	return row, nil
}

// CheckHeader verifies that a header names every schema column exactly once and nothing else.
func (s Schema) CheckHeader(header []string) error {
	seen := make(map[string]bool, len(header))
	var extra, dup []string
	for _, h := range header {
		if seen[h] {
			dup = append(dup, h)
			continue
		}
		seen[h] = true
		if s.Index(h) < 0 {
			extra = append(extra, h)
		}
	}

	var missing []string
	for _, c := range s.Columns {
		if !seen[c] {
			missing = append(missing, c)
		}
	}

	switch {
	case len(dup) > 0:
		return fmt.Errorf("header repeats columns %v", dup)
	case len(missing) > 0:
		return fmt.Errorf("header is missing %s columns %v", s.Variant, missing)
	case len(extra) > 0:
		return fmt.Errorf("header has columns %v not in the %s schema", extra, s.Variant)
	}
	return nil
}

func (s Schema) missingColumns(record map[string]string) []string {
	var missing []string
	for _, c := range s.Columns {
		if _, ok := record[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}
