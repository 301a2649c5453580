package table

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sort"
)

// Row is one record of a table, values aligned with its schema's Columns.
// Values are kept as text exactly as received.
type Row []string

// Clone returns a copy of the row that shares no storage with r.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Table is an ordered sequence of rows sharing one schema.
type Table struct {
	Schema Schema
	Rows   []Row
}

// New returns an empty table for the schema.
func New(schema Schema) *Table {
	return &Table{Schema: schema}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Append adds a row after checking it has one value per column.
func (t *Table) Append(r Row) error {
	if len(r) != len(t.Schema.Columns) {
		return fmt.Errorf("row has %d values, %s schema has %d columns",
			len(r), t.Schema.Variant, len(t.Schema.Columns))
	}
	t.Rows = append(t.Rows, r)
	return nil
}

// Value returns the value of column in the i-th row.
func (t *Table) Value(i int, column string) string {
	return t.Schema.Value(t.Rows[i], column)
}

// Fingerprint returns a SHA256 digest identifying the full content of a row.
//
// (column, value) pairs are hashed in column-name order, each length-prefixed, so
// the digest ignores column ordering but is exact on content: case and whitespace
// differences produce different fingerprints.
func (s Schema) Fingerprint(r Row) string {
	order := make([]int, len(s.Columns))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return s.Columns[order[a]] < s.Columns[order[b]]
	})

	h := sha256.New()
	var size [8]byte
	write := func(v string) {
		binary.BigEndian.PutUint64(size[:], uint64(len(v)))
		h.Write(size[:])
		h.Write([]byte(v))
	}
	for _, i := range order {
		write(s.Columns[i])
		if i < len(r) {
			write(r[i])
		} else {
			write("")
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
