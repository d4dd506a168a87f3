package analyze

import (
	"sort"

	"github.com/Stromjold/Sistem-Cesfam/internal/model"
)

// DuplicateGroup holds every row of one dataset sharing an identity key.
// Groups are only material once they hold two or more rows.
type DuplicateGroup struct {
	Key  string
	Rows []model.Row
}

// DuplicateReport lists the duplicate groups of one dataset, sorted by key
// so adjacent rows in a rendered report share identical keys.
type DuplicateReport struct {
	Groups       []DuplicateGroup
	TotalRows    int
	MaxGroupSize int
}

// FindDuplicates groups the rows of a keyed dataset by identity key and
// keeps the groups of size two or more.
func FindDuplicates(d *model.Dataset) DuplicateReport {
	byKey := make(map[string][]model.Row)
	for i, row := range d.Rows {
		k := d.Key(i)
		byKey[k] = append(byKey[k], row)
	}

	var rep DuplicateReport
	for k, rows := range byKey {
		if len(rows) < 2 {
			continue
		}
		rep.Groups = append(rep.Groups, DuplicateGroup{Key: k, Rows: rows})
		rep.TotalRows += len(rows)
		if len(rows) > rep.MaxGroupSize {
			rep.MaxGroupSize = len(rows)
		}
	}
	sort.Slice(rep.Groups, func(i, j int) bool { return rep.Groups[i].Key < rep.Groups[j].Key })
	return rep
}

// Rows flattens the groups into one row list, preserving group order.
func (r DuplicateReport) Rows() []model.Row {
	out := make([]model.Row, 0, r.TotalRows)
	for _, g := range r.Groups {
		out = append(out, g.Rows...)
	}
	return out
}

// Summary condenses the report, listing at most topN keys ordered by
// occurrence count descending.
func (r DuplicateReport) Summary(topN int) model.DuplicateSummary {
	s := model.DuplicateSummary{
		Rows:         r.TotalRows,
		Keys:         len(r.Groups),
		MaxGroupSize: r.MaxGroupSize,
	}
	counts := make([]model.KeyCount, len(r.Groups))
	for i, g := range r.Groups {
		counts[i] = model.KeyCount{Key: g.Key, Count: len(g.Rows)}
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if topN > 0 && len(counts) > topN {
		counts = counts[:topN]
	}
	s.TopKeys = counts
	return s
}
