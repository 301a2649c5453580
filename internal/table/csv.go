package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes a header row followed by one line per row, in table order.
// Columns follow the schema, lines end with "\n", so identical tables always
// serialize to identical bytes.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = false

	if err := cw.Write(t.Schema.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range t.Rows {
		if len(r) != len(t.Schema.Columns) {
			return fmt.Errorf("row %d has %d values, expected %d", i, len(r), len(t.Schema.Columns))
		}
		if err := cw.Write(r); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a header-keyed CSV into a table of the given schema. Header
// order may differ from the schema's; values are re-projected by column name.
// An empty input yields an empty table.
func ReadCSV(r io.Reader, schema Schema) (*Table, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return New(schema), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := schema.CheckHeader(header); err != nil {
		return nil, err
	}

	positions := make([]int, len(header))
	for i, h := range header {
		positions[i] = schema.Index(h)
	}

	t := New(schema)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		if len(record) != len(header) {
			return nil, fmt.Errorf("line %d has %d fields, header has %d", line, len(record), len(header))
		}

		row := make(Row, len(schema.Columns))
		for i, v := range record {
			row[positions[i]] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
