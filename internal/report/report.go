// Package report renders run outcomes for the operator's console.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gookit/color"

	"github.com/dbsmedya/situations/internal/ledger"
	"github.com/dbsmedya/situations/internal/pipeline"
	"github.com/dbsmedya/situations/internal/table"
)

// Report writes human-readable output to w.
type Report struct {
	w     io.Writer
	color bool
}

// New returns a Report. Color escapes are only emitted when useColor is set.
func New(w io.Writer, useColor bool) *Report {
	return &Report{w: w, color: useColor}
}

func (r *Report) paint(c color.Color, s string) string {
	if !r.color {
		return s
	}
	return c.Sprint(s)
}

func (r *Report) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

// Summary prints the counters and the artifact of a run.
func (r *Report) Summary(res *pipeline.Result) {
	s := res.Stats

	r.printf("%s\n", r.paint(color.Bold, "=== "+res.Dataset+" ==="))
	r.printf("  Baseline rows:   %d\n", s.BaselineRows)
	sources := fmt.Sprintf("%d", s.Sources)
	if s.FailedSources > 0 {
		sources += r.paint(color.Red, fmt.Sprintf(" (%d failed)", s.FailedSources))
	}
	r.printf("  Sources:         %s\n", sources)
	r.printf("  Records:         %d fetched, %d skipped, %d already published, %d duplicate\n",
		s.Fetched, s.Skipped, s.Known, s.Duplicates)
	r.printf("  New rows:        %s\n", r.paint(color.Green, fmt.Sprintf("%d", s.Added)))

	switch {
	case res.Artifact == nil && s.Added == 0:
		r.printf("  Output:          %s\n", r.paint(color.Yellow, "nothing to publish (no new rows)"))
	case res.Artifact == nil:
		r.printf("  Output:          %s\n", r.paint(color.Yellow, "not written"))
	default:
		m := res.Artifact.Metadata
		r.printf("  Output:          %s (%d rows)\n", res.Artifact.CSVPath, res.Artifact.Table.Len())
		r.printf("  Manifest:        %s\n", res.Artifact.ManifestPath)
		r.printf("  Dataset date:    %s\n", m.DatasetDate())
		r.printf("  Locations:       %s\n", strings.Join(m.Locations, ", "))
	}

	if len(res.Misses) > 0 {
		r.printf("  %s %s\n", r.paint(color.Yellow, "Unresolved names:"), strings.Join(res.Misses, ", "))
	}
}

// Errors prints the batch of non-fatal errors collected during a run.
func (r *Report) Errors(messages []string) {
	if len(messages) == 0 {
		return
	}
	r.printf("\n%s\n", r.paint(color.Red, fmt.Sprintf("%d error(s) occurred during the run:", len(messages))))
	for _, msg := range messages {
		r.printf("  - %s\n", msg)
	}
}

// Preview prints up to limit rows of t as an aligned table.
func (r *Report) Preview(t *table.Table, limit int) {
	if t.Len() == 0 {
		r.printf("No new rows.\n")
		return
	}

	n := t.Len()
	if limit > 0 && n > limit {
		n = limit
	}
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		rows[i] = t.Rows[i]
	}
	WriteTable(r.w, t.Schema.Columns, rows)

	if n < t.Len() {
		r.printf("... %d more row(s)\n", t.Len()-n)
	}
}

// Runs prints ledger history.
func (r *Report) Runs(runs []ledger.Run) {
	if len(runs) == 0 {
		r.printf("No runs recorded.\n")
		return
	}

	rows := make([][]string, len(runs))
	for i, run := range runs {
		finished := "-"
		if run.FinishedAt != nil {
			finished = run.Duration().Round(time.Millisecond).String()
		}
		rows[i] = []string{
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Dataset,
			r.status(run.Status),
			fmt.Sprintf("%d", run.Added),
			fmt.Sprintf("%d", run.FailedSources),
			finished,
			run.ID,
		}
	}
	WriteTable(r.w, []string{"Started (UTC)", "Dataset", "Status", "Added", "Failed", "Took", "Run ID"}, rows)
}

func (r *Report) status(s ledger.Status) string {
	switch s {
	case ledger.StatusPublished:
		return r.paint(color.Green, string(s))
	case ledger.StatusPartial, ledger.StatusNoChange:
		return r.paint(color.Yellow, string(s))
	case ledger.StatusFailed:
		return r.paint(color.Red, string(s))
	default:
		return string(s)
	}
}
