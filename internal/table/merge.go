package table

import (
	"fmt"
	"sort"
)

// Merge returns baseline followed by additions. When the schema has a sort key
// the result is stably sorted by it, so rows with equal keys keep their
// baseline-then-discovery order. Neither input is modified.
func Merge(baseline, additions *Table) (*Table, error) {
	if !baseline.Schema.Equal(additions.Schema) {
		return nil, fmt.Errorf("cannot merge %s table with %s table",
			baseline.Schema.Variant, additions.Schema.Variant)
	}

	merged := New(baseline.Schema)
	merged.Rows = make([]Row, 0, baseline.Len()+additions.Len())
	merged.Rows = append(merged.Rows, baseline.Rows...)
	merged.Rows = append(merged.Rows, additions.Rows...)

	SortStable(merged)
	return merged, nil
}

// SortStable orders the table by its schema's sort key in place.
func SortStable(t *Table) {
	if len(t.Schema.SortKey) == 0 {
		return
	}

	keys := make([]int, len(t.Schema.SortKey))
	for i, col := range t.Schema.SortKey {
		keys[i] = t.Schema.Index(col)
	}

	sort.SliceStable(t.Rows, func(a, b int) bool {
		ra, rb := t.Rows[a], t.Rows[b]
		for _, k := range keys {
			if ra[k] != rb[k] {
				return ra[k] < rb[k]
			}
		}
		return false
	})
}
