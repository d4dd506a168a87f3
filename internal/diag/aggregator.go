package diag

import (
	"fmt"

	"github.com/Stromjold/Sistem-Cesfam/internal/analyze"
	"github.com/Stromjold/Sistem-Cesfam/internal/model"
)

// Input collects everything the aggregator classifies for one comparison.
type Input struct {
	NameA, NameB   string
	TotalA, TotalB int
	Match          analyze.MatchResult
	DupA, DupB     analyze.DuplicateReport
	IncA, IncB     analyze.CompletenessReport
}

// Aggregator turns raw comparison outputs into percentage-based,
// severity-classified findings. The critical threshold flags likely
// systemic problems, such as a wrong key strategy or a nearly disjoint
// key space, rather than background noise.
type Aggregator struct {
	criticalPct float64
}

// NewAggregator creates an aggregator with the given thresholds.
func NewAggregator(cfg model.DiagConfig) *Aggregator {
	return &Aggregator{criticalPct: cfg.CriticalPct}
}

// Evaluate emits one finding per non-empty (category, dataset) pair.
//
// The reference total for the missing/surplus categories is the dataset
// the rows were expected to match against; duplicates and incomplete rows
// are measured against their own dataset.
func (a *Aggregator) Evaluate(in Input) []model.Finding {
	var findings []model.Finding
	add := func(cat model.Category, subject string, count, ref int, obs string) {
		if count == 0 {
			return
		}
		f := model.Finding{
			Category:       cat,
			Dataset:        subject,
			Count:          count,
			ReferenceTotal: ref,
			Severity:       model.SeverityNormal,
			Observation:    obs,
		}
		if ref > 0 {
			f.Percentage = float64(count) / float64(ref) * 100
		}
		if f.Percentage > a.criticalPct {
			f.Severity = model.SeverityCritical
		}
		findings = append(findings, f)
	}

	add(model.CategoryMissingInOther, in.NameB, len(in.Match.OnlyInA), in.TotalA,
		fmt.Sprintf("records present in %s but absent from %s", in.NameA, in.NameB))
	add(model.CategorySurplusInOther, in.NameA, len(in.Match.OnlyInB), in.TotalB,
		fmt.Sprintf("records present in %s but absent from %s", in.NameB, in.NameA))

	add(model.CategoryDuplicate, in.NameA, in.DupA.TotalRows, in.TotalA,
		fmt.Sprintf("rows in %s sharing an identity key with another row", in.NameA))
	add(model.CategoryDuplicate, in.NameB, in.DupB.TotalRows, in.TotalB,
		fmt.Sprintf("rows in %s sharing an identity key with another row", in.NameB))

	add(model.CategoryIncomplete, in.NameA, len(in.IncA.Rows), in.TotalA,
		fmt.Sprintf("rows in %s with at least one empty field", in.NameA))
	add(model.CategoryIncomplete, in.NameB, len(in.IncB.Rows), in.TotalB,
		fmt.Sprintf("rows in %s with at least one empty field", in.NameB))

	return findings
}
