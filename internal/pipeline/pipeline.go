package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Stromjold/Sistem-Cesfam/internal/analyze"
	"github.com/Stromjold/Sistem-Cesfam/internal/cache"
	"github.com/Stromjold/Sistem-Cesfam/internal/diag"
	"github.com/Stromjold/Sistem-Cesfam/internal/keygen"
	"github.com/Stromjold/Sistem-Cesfam/internal/llm"
	"github.com/Stromjold/Sistem-Cesfam/internal/load"
	"github.com/Stromjold/Sistem-Cesfam/internal/model"
	"github.com/Stromjold/Sistem-Cesfam/internal/report"
	"github.com/Stromjold/Sistem-Cesfam/internal/resolve"
)

// Pipeline orchestrates the complete comparison: load both datasets, build
// identity keys, diff, detect duplicates and incomplete records, aggregate
// findings, and optionally summarize. All stages run strictly in sequence.
type Pipeline struct {
	loader     *load.Loader
	resolver   *resolve.Resolver
	builder    *keygen.Builder
	aggregator *diag.Aggregator
	renderer   *report.Renderer
	summarizer *llm.Summarizer
	config     *model.Config
}

// NewPipeline creates a pipeline from the runtime configuration.
func NewPipeline(cfg *model.Config) *Pipeline {
	var c cache.Cache
	if cfg.Cache.Enabled {
		ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
		c = cache.NewMemoryCache(ttl, ttl)
	}

	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		} else {
			summarizer = s
		}
	}

	resolver := resolve.NewResolver(cfg.Catalog)
	return &Pipeline{
		loader:     load.NewLoader(cfg.Load, c, cfg.Output.Verbose),
		resolver:   resolver,
		builder:    keygen.NewBuilder(resolver, cfg.Keys),
		aggregator: diag.NewAggregator(cfg.Diagnostics),
		renderer:   report.NewRenderer(cfg.Output.FormatID),
		summarizer: summarizer,
		config:     cfg,
	}
}

// CompareOptions parameterize one comparison run.
type CompareOptions struct {
	SheetA, SheetB         string
	HeaderRowA, HeaderRowB int // zero-based declared header rows, -1 for auto
	Mode                   keygen.Mode
	Fields                 []resolve.Role // manual mode only
}

// Result bundles the report with the raw categorized row sets that
// export formats materialize.
type Result struct {
	Report  *model.Report
	RowSets []report.RowSet
}

// Compare runs the full comparison between the files at pathA and pathB.
func (p *Pipeline) Compare(ctx context.Context, pathA, pathB string, opts CompareOptions) (*Result, error) {
	verbose := p.config.Output.Verbose

	dsA, err := p.loader.Load(pathA, load.Options{Sheet: opts.SheetA, HeaderRow: opts.HeaderRowA})
	if err != nil {
		return nil, fmt.Errorf("dataset A: %w", err)
	}
	dsB, err := p.loader.Load(pathB, load.Options{Sheet: opts.SheetB, HeaderRow: opts.HeaderRowB})
	if err != nil {
		return nil, fmt.Errorf("dataset B: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Loaded %s: %d rows × %d columns (header row %d)\n",
			dsA.Name, dsA.Len(), len(dsA.Columns), dsA.HeaderRow+1)
		fmt.Fprintf(os.Stderr, "Loaded %s: %d rows × %d columns (header row %d)\n",
			dsB.Name, dsB.Len(), len(dsB.Columns), dsB.HeaderRow+1)
	}

	mode := opts.Mode
	if mode == "" {
		mode = keygen.ModeAutomatic
	}
	keys, err := p.builder.Build(dsA, dsB, keygen.Options{Mode: mode, Fields: opts.Fields})
	if err != nil {
		return nil, err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Key for %s: %s (%.1f%% unique)\n",
			dsA.Name, keys.A.Strategy.Description, keys.A.Quality.UniquenessPct)
		fmt.Fprintf(os.Stderr, "Key for %s: %s (%.1f%% unique)\n",
			dsB.Name, keys.B.Strategy.Description, keys.B.Quality.UniquenessPct)
	}

	match := analyze.Diff(dsA, dsB)
	dupA := analyze.FindDuplicates(dsA)
	dupB := analyze.FindDuplicates(dsB)
	incA := analyze.FindIncomplete(dsA, keys.A.Strategy.Columns)
	incB := analyze.FindIncomplete(dsB, keys.B.Strategy.Columns)

	findings := p.aggregator.Evaluate(diag.Input{
		NameA: dsA.Name, NameB: dsB.Name,
		TotalA: dsA.Len(), TotalB: dsB.Len(),
		Match: match,
		DupA:  dupA, DupB: dupB,
		IncA: incA, IncB: incB,
	})

	topKeys := p.config.Diagnostics.TopKeys
	rep := &model.Report{
		GeneratedAt: time.Now().UTC(),
		DatasetA:    datasetSummary(dsA, keys.A.Quality),
		DatasetB:    datasetSummary(dsB, keys.B.Quality),
		Mode:        string(mode),
		StrategyA:   keys.A.Strategy,
		StrategyB:   keys.B.Strategy,
		Match:       match.Summary(),
		DuplicatesA: dupA.Summary(topKeys),
		DuplicatesB: dupB.Summary(topKeys),
		IncompleteA: incA.Summary(),
		IncompleteB: incB.Summary(),
		Findings:    findings,
		Warnings:    keys.Warnings,
	}

	if p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateSummary(ctx, rep)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: LLM summary generation failed: %v\n", err)
		} else {
			rep.LLM = summary
		}
	}

	idColA := identifierColumn(keys.A.Strategy)
	idColB := identifierColumn(keys.B.Strategy)
	return &Result{
		Report: rep,
		RowSets: []report.RowSet{
			{Title: "Missing in " + dsB.Name, Columns: dsA.Columns, Rows: match.OnlyInA, IDColumn: idColA},
			{Title: "Missing in " + dsA.Name, Columns: dsB.Columns, Rows: match.OnlyInB, IDColumn: idColB},
			{Title: "Duplicates in " + dsA.Name, Columns: dsA.Columns, Rows: dupA.Rows(), IDColumn: idColA},
			{Title: "Duplicates in " + dsB.Name, Columns: dsB.Columns, Rows: dupB.Rows(), IDColumn: idColB},
			{Title: "Incomplete in " + dsA.Name, Columns: dsA.Columns, Rows: incA.Rows, IDColumn: idColA},
			{Title: "Incomplete in " + dsB.Name, Columns: dsB.Columns, Rows: incB.Rows, IDColumn: idColB},
		},
	}, nil
}

// RenderReport renders the comparison result to the requested outputs and
// prints the summary to stdout.
func (p *Pipeline) RenderReport(res *Result, jsonPath, mdPath, xlsxPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(res.Report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}
	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(res.Report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}
	if xlsxPath != "" {
		if err := p.renderer.RenderXLSX(res.Report, res.RowSets, xlsxPath); err != nil {
			return fmt.Errorf("render XLSX: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote XLSX: %s\n", xlsxPath)
		}
	}

	p.renderer.RenderSummary(res.Report)
	return nil
}

// Loader exposes the loader for the inspect command.
func (p *Pipeline) Loader() *load.Loader {
	return p.loader
}

// Resolver exposes the resolver for the inspect command.
func (p *Pipeline) Resolver() *resolve.Resolver {
	return p.resolver
}

func datasetSummary(d *model.Dataset, q model.KeyQuality) model.DatasetSummary {
	cols := len(d.Columns)
	if d.Keyed() {
		cols-- // synthetic key column is not part of the declared header
	}
	return model.DatasetSummary{
		Name:      d.Name,
		Path:      d.Path,
		Sheet:     d.Sheet,
		HeaderRow: d.HeaderRow,
		Rows:      d.Len(),
		Columns:   cols,
		Quality:   q,
	}
}

// identifierColumn returns the source column to render in display
// identifier format, when the strategy consumed one.
func identifierColumn(s model.KeyStrategy) string {
	if s.Kind == model.StrategyIdentifier && len(s.Columns) == 1 {
		return s.Columns[0]
	}
	return ""
}
