package analyze

import "github.com/Stromjold/Sistem-Cesfam/internal/model"

// MatchResult partitions two keyed datasets by identity key. OnlyInA and
// OnlyInB hold materialized rows; the intersection is tracked only as a
// key-set cardinality, so a key repeated on one side still counts once.
type MatchResult struct {
	OnlyInA    []model.Row
	OnlyInB    []model.Row
	CommonKeys int
	TotalA     int
	TotalB     int
}

// Diff computes the set difference between two keyed datasets using hashed
// key sets: O(n+m) after key materialization, no pairwise comparison.
// An empty side yields every row of the other as unmatched and zero common
// keys.
func Diff(a, b *model.Dataset) MatchResult {
	setA := a.KeySet()
	setB := b.KeySet()

	res := MatchResult{TotalA: a.Len(), TotalB: b.Len()}
	for i, row := range a.Rows {
		if _, ok := setB[a.Key(i)]; !ok {
			res.OnlyInA = append(res.OnlyInA, row)
		}
	}
	for i, row := range b.Rows {
		if _, ok := setA[b.Key(i)]; !ok {
			res.OnlyInB = append(res.OnlyInB, row)
		}
	}
	for k := range setA {
		if _, ok := setB[k]; ok {
			res.CommonKeys++
		}
	}
	return res
}

// Summary condenses the match into report counts.
func (m MatchResult) Summary() model.MatchSummary {
	return model.MatchSummary{
		OnlyInA:    len(m.OnlyInA),
		OnlyInB:    len(m.OnlyInB),
		CommonKeys: m.CommonKeys,
	}
}
