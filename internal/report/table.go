package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
)

// maxCellWidth caps a column so one long value cannot blow up the layout.
const maxCellWidth = 40

// WriteTable writes headers and rows as space-aligned columns. Widths are
// measured in terminal cells, so names with accents or wide characters line up.
func WriteTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = cellWidth(h)
	}
	for _, row := range rows {
		for i := range headers {
			if i < len(row) {
				widths[i] = max(widths[i], cellWidth(row[i]))
			}
		}
	}

	writeRow(w, headers, widths)
	sep := make([]string, len(headers))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	writeRow(w, sep, widths)
	for _, row := range rows {
		writeRow(w, row, widths)
	}
}

func writeRow(w io.Writer, row []string, widths []int) {
	cells := make([]string, len(widths))
	for i, width := range widths {
		v := ""
		if i < len(row) {
			v = fit(row[i])
		}
		if i == len(widths)-1 {
			cells[i] = v
			continue
		}
		// Pad on the visible width so color escapes do not count.
		cells[i] = v + strings.Repeat(" ", width-runewidth.StringWidth(color.ClearCode(v)))
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
}

func fit(s string) string {
	if strings.Contains(s, "\x1b[") {
		return s
	}
	s = strings.ReplaceAll(s, "\n", " ")
	return runewidth.Truncate(s, maxCellWidth, "…")
}

func cellWidth(s string) int {
	return runewidth.StringWidth(color.ClearCode(fit(s)))
}
