package analyze

import (
	"sort"
	"strings"

	"github.com/Stromjold/Sistem-Cesfam/internal/model"
)

// CompletenessReport lists the rows with at least one empty non-excluded
// cell, plus the per-column emptiness table sorted by percentage
// descending, worst first.
type CompletenessReport struct {
	Rows       []model.Row
	ColumnGaps []model.ColumnGap
}

// FindIncomplete scans a dataset for structurally incomplete rows. The
// synthetic key column is always excluded; callers additionally pass the
// raw key-source columns, whose emptiness is a key-quality concern rather
// than a completeness one.
func FindIncomplete(d *model.Dataset, excluded []string) CompletenessReport {
	skip := make(map[string]struct{}, len(excluded)+1)
	skip[model.KeyColumn] = struct{}{}
	for _, c := range excluded {
		skip[c] = struct{}{}
	}

	var checked []string
	for _, c := range d.Columns {
		if _, ok := skip[c]; !ok {
			checked = append(checked, c)
		}
	}

	var rep CompletenessReport
	emptyByCol := make(map[string]int, len(checked))
	for _, row := range d.Rows {
		incomplete := false
		for _, c := range checked {
			if row[c] == "" {
				emptyByCol[c]++
				incomplete = true
			}
		}
		if incomplete {
			rep.Rows = append(rep.Rows, row)
		}
	}

	total := d.Len()
	for _, c := range checked {
		n := emptyByCol[c]
		if n == 0 {
			continue
		}
		gap := model.ColumnGap{Column: c, Empty: n}
		if total > 0 {
			gap.Percentage = float64(n) / float64(total) * 100
		}
		rep.ColumnGaps = append(rep.ColumnGaps, gap)
	}
	sort.SliceStable(rep.ColumnGaps, func(i, j int) bool {
		if rep.ColumnGaps[i].Percentage != rep.ColumnGaps[j].Percentage {
			return rep.ColumnGaps[i].Percentage > rep.ColumnGaps[j].Percentage
		}
		return strings.Compare(rep.ColumnGaps[i].Column, rep.ColumnGaps[j].Column) < 0
	})
	return rep
}

// Summary condenses the report for rendering.
func (r CompletenessReport) Summary() model.CompletenessSummary {
	return model.CompletenessSummary{Rows: len(r.Rows), ColumnGaps: r.ColumnGaps}
}
