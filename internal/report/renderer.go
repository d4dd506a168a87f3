package report

import (
	"fmt"
	"os"

	"github.com/Stromjold/Sistem-Cesfam/internal/keygen"
	"github.com/Stromjold/Sistem-Cesfam/internal/model"
)

// RowSet is one categorized row collection destined for export: a title,
// the column order, and the rows themselves. The identity key column is
// stripped at render time, never before, so analysis code can keep using
// it.
type RowSet struct {
	Title    string
	Columns  []string
	Rows     []model.Row
	IDColumn string // column rendered in display identifier format, "" for none
}

// Renderer writes comparison reports to their output formats. It holds no
// opinion on which outputs are produced; callers pass paths for the ones
// they want.
type Renderer struct {
	formatID bool
}

// NewRenderer creates a renderer. When formatID is set, identifier columns
// in exported row sets are rendered as XX.XXX.XXX-X.
func NewRenderer(formatID bool) *Renderer {
	return &Renderer{formatID: formatID}
}

// cell returns the display value for one cell of a row set.
func (r *Renderer) cell(set RowSet, col, v string) string {
	if r.formatID && col == set.IDColumn {
		return keygen.FormatRUT(v)
	}
	return v
}

// exportColumns filters the synthetic key column out of a column list.
func exportColumns(cols []string) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if c != model.KeyColumn {
			out = append(out, c)
		}
	}
	return out
}

// RenderSummary prints the human-oriented comparison summary to stdout.
func (r *Renderer) RenderSummary(rep *model.Report) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("  Comparison Summary")
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %-24s %d rows, key %s (%.1f%% unique)\n",
		rep.DatasetA.Name+":", rep.DatasetA.Rows, rep.StrategyA.Description, rep.DatasetA.Quality.UniquenessPct)
	fmt.Printf("  %-24s %d rows, key %s (%.1f%% unique)\n",
		rep.DatasetB.Name+":", rep.DatasetB.Rows, rep.StrategyB.Description, rep.DatasetB.Quality.UniquenessPct)
	fmt.Println()
	fmt.Printf("  Common records:        %d\n", rep.Match.CommonKeys)
	fmt.Printf("  Only in %-14s %d\n", rep.DatasetA.Name+":", rep.Match.OnlyInA)
	fmt.Printf("  Only in %-14s %d\n", rep.DatasetB.Name+":", rep.Match.OnlyInB)
	fmt.Printf("  Duplicates:            %d / %d\n", rep.DuplicatesA.Rows, rep.DuplicatesB.Rows)
	fmt.Printf("  Incomplete:            %d / %d\n", rep.IncompleteA.Rows, rep.IncompleteB.Rows)
	fmt.Println()

	if len(rep.Findings) == 0 {
		fmt.Println("  No differences found.")
	}
	for _, f := range rep.Findings {
		marker := "•"
		if f.Severity == model.SeverityCritical {
			marker = "‼"
		}
		fmt.Printf("  %s [%s] %s in %s: %d (%.1f%%)\n",
			marker, f.Severity, f.Category, f.Dataset, f.Count, f.Percentage)
	}
	for _, w := range rep.Warnings {
		fmt.Fprintf(os.Stderr, "  warning: %s\n", w)
	}
	fmt.Println()
}
