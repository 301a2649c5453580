package table

import (
	"github.com/elliotchance/orderedmap/v2"
)

// Index is a membership set over the rows of a baseline table.
type Index struct {
	schema Schema
	seen   map[string]struct{}
}

// NewIndex fingerprints every row of the baseline.
func NewIndex(baseline *Table) *Index {
	ix := &Index{
		schema: baseline.Schema,
		seen:   make(map[string]struct{}, baseline.Len()),
	}
	for _, r := range baseline.Rows {
		ix.seen[ix.schema.Fingerprint(r)] = struct{}{}
	}
	return ix
}

// Admit reports whether the row is new, i.e. no baseline row is equal to it
// on every field.
func (ix *Index) Admit(r Row) bool {
	_, found := ix.seen[ix.schema.Fingerprint(r)]
	return !found
}

// Len returns the number of distinct baseline rows.
func (ix *Index) Len() int {
	return len(ix.seen)
}

// Additions collects rows that are absent from the baseline. A row offered
// more than once, e.g. by overlapping sources, is kept once at the position it
// was first offered.
type Additions struct {
	baseline *Index
	rows     *orderedmap.OrderedMap[string, Row]

	known      int // rejected because the baseline has them
	duplicates int // rejected because already added
}

// NewAdditions returns an empty collector deduplicating against baseline.
func NewAdditions(baseline *Index) *Additions {
	return &Additions{
		baseline: baseline,
		rows:     orderedmap.NewOrderedMap[string, Row](),
	}
}

// Add offers a row and reports whether it was added.
func (a *Additions) Add(r Row) bool {
	fp := a.baseline.schema.Fingerprint(r)
	if _, inBaseline := a.baseline.seen[fp]; inBaseline {
		a.known++
		return false
	}
	if _, dup := a.rows.Get(fp); dup {
		a.duplicates++
		return false
	}
	a.rows.Set(fp, r)
	return true
}

// Len returns the number of rows added so far.
func (a *Additions) Len() int {
	return a.rows.Len()
}

// Known returns how many offered rows were already in the baseline.
func (a *Additions) Known() int {
	return a.known
}

// Duplicates returns how many offered rows repeated an earlier addition.
func (a *Additions) Duplicates() int {
	return a.duplicates
}

// Table returns the added rows in discovery order.
func (a *Additions) Table() *Table {
	t := New(a.baseline.schema)
	t.Rows = make([]Row, 0, a.rows.Len())
	for el := a.rows.Front(); el != nil; el = el.Next() {
		t.Rows = append(t.Rows, el.Value)
	}
	return t
}
