package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Stromjold/Sistem-Cesfam/internal/load"
	"github.com/Stromjold/Sistem-Cesfam/internal/model"
	"github.com/Stromjold/Sistem-Cesfam/internal/pipeline"
	"github.com/Stromjold/Sistem-Cesfam/internal/resolve"
	"github.com/spf13/cobra"
)

var (
	inspectSheet     string
	inspectHeaderRow int
	inspectRows      int
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Inspect a single file: header detection, columns, key candidates",
	Long: `Inspect loads one file and shows what a comparison would see:
- Detected (or declared) header row
- Every column with its fill rate, distinct values, and uniqueness
- Which identity roles resolve to which columns

Use it before compare when a file misbehaves - a header buried under
title rows, a misnamed identifier column, or a sheet full of notes.

Example:
  cesfam inspect padron.xlsx
  cesfam inspect padron.xlsx --sheet Pacientes --rows 5`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectSheet, "sheet", "", "sheet to inspect (Excel only; \"all\" merges every sheet)")
	inspectCmd.Flags().IntVar(&inspectHeaderRow, "header-row", -1, "header row, 1-based (-1 = auto-detect)")
	inspectCmd.Flags().IntVar(&inspectRows, "rows", 3, "sample rows to print per column profile")
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := effectiveConfig()
	if err != nil {
		return err
	}
	cfg.Cache.Enabled = false // always read fresh when inspecting
	if verbose {
		cfg.Output.Verbose = true
	}
	p := pipeline.NewPipeline(cfg)

	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  Inspecting: %s\n", path)
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" || ext == ".xlsm" {
		sheets, err := p.Loader().Sheets(path)
		if err != nil {
			return err
		}
		fmt.Printf("Sheets (%d): %s\n\n", len(sheets), strings.Join(sheets, ", "))
	}

	ds, err := p.Loader().Load(path, load.Options{
		Sheet:     inspectSheet,
		HeaderRow: declaredRow(inspectHeaderRow),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Rows:       %d\n", ds.Len())
	fmt.Printf("Columns:    %d\n", len(ds.Columns))
	fmt.Printf("Header row: %d (1-based)\n", ds.HeaderRow+1)
	if ds.Sheet != "" {
		fmt.Printf("Sheet:      %s\n", ds.Sheet)
	}
	fmt.Println()

	fmt.Println("Identity roles:")
	resolved := false
	for _, role := range resolve.Roles {
		if col, ok := p.Resolver().Resolve(ds, role); ok {
			fmt.Printf("  %-18s → %s\n", role, col)
			resolved = true
		}
	}
	if !resolved {
		fmt.Println("  (none resolved - a comparison would fall back to the densest column)")
	}
	fmt.Println()

	fmt.Println("Column profile:")
	fmt.Printf("  %-30s %10s %10s %8s  %s\n", "COLUMN", "NON-EMPTY", "DISTINCT", "UNIQUE", "SAMPLE")
	for _, col := range ds.Columns {
		nonEmpty, distinct, samples := profileColumn(ds, col, inspectRows)
		pct := 0.0
		if nonEmpty > 0 {
			pct = float64(distinct) / float64(nonEmpty) * 100
		}
		fmt.Printf("  %-30s %10d %10d %7.1f%%  %s\n", truncate(col, 30), nonEmpty, distinct, pct, strings.Join(samples, ", "))
	}
	fmt.Println()

	return nil
}

func profileColumn(ds *model.Dataset, col string, sampleN int) (nonEmpty, distinct int, samples []string) {
	seen := make(map[string]struct{})
	for _, r := range ds.Rows {
		v := strings.TrimSpace(r[col])
		if v == "" {
			continue
		}
		nonEmpty++
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			if len(samples) < sampleN {
				samples = append(samples, truncate(v, 20))
			}
		}
	}
	distinct = len(seen)
	return nonEmpty, distinct, samples
}

// truncate shortens s to max runes. Byte slicing would split multi-byte
// runes, which Spanish headers hit constantly.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
