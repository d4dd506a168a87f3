package load

import (
	"fmt"
	"strings"
)

// detectHeader picks the header row among the first scanRows rows.
//
// Primary strategy: the row with the most cells matching a known identifier
// name (case-insensitive), among rows with at least one non-empty cell, ties
// broken by earliest row. Secondary strategy, when no row matches a keyword:
// the densest row within the first densityRows rows, requiring at least two
// non-empty cells. Defaults to row 0.
func detectHeader(rows [][]string, keywords map[string]struct{}, scanRows, densityRows int) int {
	best := -1
	bestMatches := 0

	limit := len(rows)
	if limit > scanRows {
		limit = scanRows
	}
	for i := 0; i < limit; i++ {
		matches, nonEmpty := 0, 0
		for _, cell := range rows[i] {
			v := strings.ToLower(strings.TrimSpace(cell))
			if v == "" {
				continue
			}
			nonEmpty++
			if _, ok := keywords[v]; ok {
				matches++
			}
		}
		if nonEmpty > 0 && matches > bestMatches {
			best = i
			bestMatches = matches
		}
	}
	if best >= 0 {
		return best
	}

	// Density fallback.
	limit = len(rows)
	if limit > densityRows {
		limit = densityRows
	}
	maxCells := 0
	densest := 0
	for i := 0; i < limit; i++ {
		nonEmpty := 0
		for _, cell := range rows[i] {
			if strings.TrimSpace(cell) != "" {
				nonEmpty++
			}
		}
		if nonEmpty > maxCells {
			maxCells = nonEmpty
			densest = i
		}
	}
	if maxCells >= 2 {
		return densest
	}
	return 0
}

// headerColumns turns a raw header row into a unique, trimmed column list.
// Unnamed cells get a positional placeholder; duplicated names get a
// numeric suffix so every column name stays unique within the dataset.
func headerColumns(raw []string) []string {
	cols := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, cell := range raw {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = fmt.Sprintf("Column_%d", i+1)
		}
		base := name
		for n := 2; ; n++ {
			if _, dup := seen[name]; !dup {
				break
			}
			name = fmt.Sprintf("%s_%d", base, n)
		}
		seen[name] = 1
		cols[i] = name
	}
	return cols
}
