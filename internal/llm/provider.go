package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/Stromjold/Sistem-Cesfam/internal/model"
)

// Provider defines the interface for LLM backends.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Summarize generates a prose summary of a comparison report.
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)
}

// SummarizeRequest contains the input for summarization.
type SummarizeRequest struct {
	Report    *model.Report
	Prompt    string // optional custom prompt; empty uses the default
	Model     string
	MaxTokens int
}

// SummarizeResponse contains the generated summary.
type SummarizeResponse struct {
	Summary    string
	Model      string
	TokensUsed int
}

// Config holds provider configuration.
type Config struct {
	Provider  string // "openai", "ollama" (OpenAI-compatible), "" disables
	Model     string
	APIKey    string
	BaseURL   string // custom endpoint, required for ollama
	Timeout   int    // seconds
	MaxTokens int
}

// ConfigFromModel adapts the runtime configuration.
func ConfigFromModel(cfg model.LLMConfig) Config {
	return Config{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.TimeoutS,
		MaxTokens: cfg.MaxTokens,
	}
}

// BuildPrompt constructs the default summarization prompt. The model only
// restates what the findings already say; it is told explicitly not to
// invent counts or causes, mirroring the rule that the summary never
// affects the findings themselves.
func BuildPrompt(report *model.Report) string {
	var b strings.Builder

	b.WriteString("You are summarizing a registry comparison report for a data steward.\n")
	b.WriteString("RULES:\n")
	b.WriteString("- Use ONLY the numbers below; never invent counts, percentages, or causes.\n")
	b.WriteString("- State which dataset each problem belongs to.\n")
	b.WriteString("- Flag critical findings first.\n")
	b.WriteString("- Keep it under 200 words of plain prose.\n\n")

	fmt.Fprintf(&b, "Dataset A: %s (%d rows), key: %s, uniqueness %.1f%%\n",
		report.DatasetA.Name, report.DatasetA.Rows, report.StrategyA.Description, report.DatasetA.Quality.UniquenessPct)
	fmt.Fprintf(&b, "Dataset B: %s (%d rows), key: %s, uniqueness %.1f%%\n",
		report.DatasetB.Name, report.DatasetB.Rows, report.StrategyB.Description, report.DatasetB.Quality.UniquenessPct)
	fmt.Fprintf(&b, "Common keys: %d, only in A: %d, only in B: %d\n\n",
		report.Match.CommonKeys, report.Match.OnlyInA, report.Match.OnlyInB)

	if len(report.Findings) == 0 {
		b.WriteString("Findings: none. The datasets reconcile cleanly.\n")
	} else {
		b.WriteString("Findings:\n")
		for _, f := range report.Findings {
			fmt.Fprintf(&b, "- [%s] %s in %s: %d of %d (%.1f%%) — %s\n",
				f.Severity, f.Category, f.Dataset, f.Count, f.ReferenceTotal, f.Percentage, f.Observation)
		}
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(&b, "Warning: %s\n", w)
	}
	return b.String()
}
