package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/Stromjold/Sistem-Cesfam/internal/model"
)

// RenderMarkdown writes the report as a Markdown document: dataset and key
// summaries, the findings table, duplicate key counts, and the per-column
// emptiness tables.
func (r *Renderer) RenderMarkdown(rep *model.Report, path string) error {
	var b strings.Builder

	b.WriteString("# Registry Comparison Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", rep.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	b.WriteString("## Datasets\n\n")
	b.WriteString("| Dataset | Rows | Columns | Header row | Key strategy | Uniqueness |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, pair := range []struct {
		ds model.DatasetSummary
		st model.KeyStrategy
	}{{rep.DatasetA, rep.StrategyA}, {rep.DatasetB, rep.StrategyB}} {
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %s | %.1f%% |\n",
			pair.ds.Name, pair.ds.Rows, pair.ds.Columns, pair.ds.HeaderRow+1,
			pair.st.Description, pair.ds.Quality.UniquenessPct)
	}
	b.WriteString("\n")

	b.WriteString("## Match\n\n")
	fmt.Fprintf(&b, "- Common records: **%d**\n", rep.Match.CommonKeys)
	fmt.Fprintf(&b, "- Only in %s: **%d**\n", rep.DatasetA.Name, rep.Match.OnlyInA)
	fmt.Fprintf(&b, "- Only in %s: **%d**\n\n", rep.DatasetB.Name, rep.Match.OnlyInB)

	b.WriteString("## Findings\n\n")
	if len(rep.Findings) == 0 {
		b.WriteString("No differences found.\n\n")
	} else {
		b.WriteString("| Category | Dataset | Count | Reference | % | Severity |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, f := range rep.Findings {
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %.1f%% | %s |\n",
				f.Category, f.Dataset, f.Count, f.ReferenceTotal, f.Percentage, f.Severity)
		}
		b.WriteString("\n")
	}

	writeDuplicates := func(name string, s model.DuplicateSummary) {
		if s.Rows == 0 {
			return
		}
		fmt.Fprintf(&b, "### Duplicates in %s\n\n", name)
		fmt.Fprintf(&b, "%d rows across %d keys, largest group %d.\n\n", s.Rows, s.Keys, s.MaxGroupSize)
		b.WriteString("| Key | Count |\n|---|---|\n")
		for _, kc := range s.TopKeys {
			fmt.Fprintf(&b, "| %s | %d |\n", strings.ReplaceAll(kc.Key, "|", " "), kc.Count)
		}
		b.WriteString("\n")
	}
	writeDuplicates(rep.DatasetA.Name, rep.DuplicatesA)
	writeDuplicates(rep.DatasetB.Name, rep.DuplicatesB)

	writeGaps := func(name string, s model.CompletenessSummary) {
		if len(s.ColumnGaps) == 0 {
			return
		}
		fmt.Fprintf(&b, "### Empty cells in %s\n\n", name)
		b.WriteString("| Column | Empty | % |\n|---|---|---|\n")
		for _, g := range s.ColumnGaps {
			fmt.Fprintf(&b, "| %s | %d | %.2f%% |\n", g.Column, g.Empty, g.Percentage)
		}
		b.WriteString("\n")
	}
	writeGaps(rep.DatasetA.Name, rep.IncompleteA)
	writeGaps(rep.DatasetB.Name, rep.IncompleteB)

	if len(rep.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range rep.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	if rep.LLM != nil && rep.LLM.Enabled && rep.LLM.SummaryMD != "" {
		fmt.Fprintf(&b, "## Summary (%s/%s)\n\n%s\n", rep.LLM.Provider, rep.LLM.Model, rep.LLM.SummaryMD)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
