package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Stromjold/Sistem-Cesfam/internal/keygen"
	"github.com/Stromjold/Sistem-Cesfam/internal/pipeline"
	"github.com/Stromjold/Sistem-Cesfam/internal/resolve"
	"github.com/spf13/cobra"
)

var (
	outJSON        string
	outMD          string
	outXLSX        string
	sheetA         string
	sheetB         string
	headerRowA     int
	headerRowB     int
	manualMode     bool
	manualFields   []string
	compareTimeout time.Duration
	noCache        bool
	noFormatID     bool
	llmEnabled     bool
	llmProvider    string
	llmModel       string
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <file-a> <file-b>",
	Short: "Compare two registry exports and report the differences",
	Long: `Compare diffs two tabular files by identity key:
- Detect the header row and resolve identity columns automatically
- Build a normalized key per row (identifier or name-based fallback)
- Report records missing on either side, duplicates, and incomplete rows
- Classify each finding by magnitude against the reference dataset

Example:
  cesfam compare padron.xlsx sistema.csv
  cesfam compare a.xlsx b.xlsx --sheet-a Pacientes --sheet-b all
  cesfam compare a.csv b.csv --manual --fields id,paternal
  cesfam compare a.csv b.csv --xlsx report.xlsx --llm --llm-provider openai`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	// Output flags
	compareCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	compareCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	compareCmd.Flags().StringVar(&outXLSX, "xlsx", "", "output Excel workbook path (optional)")
	compareCmd.Flags().BoolVar(&noFormatID, "no-format-id", false, "render identifiers raw instead of XX.XXX.XXX-X")

	// Input flags
	compareCmd.Flags().StringVar(&sheetA, "sheet-a", "", "sheet for file A (Excel only; \"all\" merges every sheet)")
	compareCmd.Flags().StringVar(&sheetB, "sheet-b", "", "sheet for file B (Excel only; \"all\" merges every sheet)")
	compareCmd.Flags().IntVar(&headerRowA, "header-row-a", -1, "header row for file A, 1-based (-1 = auto-detect)")
	compareCmd.Flags().IntVar(&headerRowB, "header-row-b", -1, "header row for file B, 1-based (-1 = auto-detect)")
	compareCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the parsed-dataset cache")
	compareCmd.Flags().DurationVar(&compareTimeout, "timeout", 5*time.Minute, "overall comparison timeout")

	// Key strategy flags
	compareCmd.Flags().BoolVar(&manualMode, "manual", false, "use the columns named by --fields instead of automatic selection")
	compareCmd.Flags().StringSliceVar(&manualFields, "fields", nil, "roles for manual mode: id, given, paternal, maternal, full")

	// LLM flags
	compareCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM summary generation")
	compareCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	compareCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runCompare(cmd *cobra.Command, args []string) error {
	pathA, pathB := args[0], args[1]
	ctx, cancel := context.WithTimeout(context.Background(), compareTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Comparing: %s vs %s\n", pathA, pathB)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	// Config file and environment first, flags on top
	cfg, err := effectiveConfig()
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if noFormatID {
		cfg.Output.FormatID = false
	}

	// Configure LLM if enabled
	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		// Get API key from environment
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			baseURL := os.Getenv("OLLAMA_BASE_URL")
			if baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	mode := keygen.ModeAutomatic
	var fields []resolve.Role
	if manualMode {
		if len(manualFields) == 0 {
			return fmt.Errorf("--manual requires --fields (e.g. --fields id,paternal)")
		}
		mode = keygen.ModeManual
		for _, f := range manualFields {
			role, ok := resolve.ParseRole(strings.TrimSpace(f))
			if !ok {
				return fmt.Errorf("unknown field %q (expected: id, given, paternal, maternal, full)", f)
			}
			fields = append(fields, role)
		}
	}

	// Create pipeline
	p := pipeline.NewPipeline(cfg)

	result, err := p.Compare(ctx, pathA, pathB, pipeline.CompareOptions{
		SheetA:     sheetA,
		SheetB:     sheetB,
		HeaderRowA: declaredRow(headerRowA),
		HeaderRowB: declaredRow(headerRowB),
		Mode:       mode,
		Fields:     fields,
	})
	if err != nil {
		return fmt.Errorf("compare failed: %w", err)
	}

	if verbose {
		rep := result.Report
		fmt.Fprintf(os.Stderr, "✓ %d common keys, %d only in %s, %d only in %s\n",
			rep.Match.CommonKeys, rep.Match.OnlyInA, rep.DatasetA.Name, rep.Match.OnlyInB, rep.DatasetB.Name)
		if rep.LLM != nil && rep.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated LLM summary using %s/%s\n", rep.LLM.Provider, rep.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	// Render outputs
	if err := p.RenderReport(result, outJSON, outMD, outXLSX, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// declaredRow converts the 1-based flag value to the zero-based row the
// loader expects, keeping -1 as the auto-detect sentinel.
func declaredRow(flag int) int {
	if flag < 1 {
		return -1
	}
	return flag - 1
}
