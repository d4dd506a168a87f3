package llm

import (
	"context"
	"fmt"

	"github.com/Stromjold/Sistem-Cesfam/internal/model"
)

// Summarizer wraps a provider and produces the optional report summary.
// A nil or disabled summarizer is valid; callers check IsEnabled.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer for the configured provider.
func NewSummarizer(config Config) (*Summarizer, error) {
	switch config.Provider {
	case "":
		return &Summarizer{config: config}, nil
	case "openai", "ollama":
		p, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		return &Summarizer{provider: p, config: config}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", config.Provider)
	}
}

// IsEnabled reports whether a provider is configured.
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// GenerateSummary produces the LLM summary for a finished report. It is
// called after aggregation and its output never feeds back into findings.
func (s *Summarizer) GenerateSummary(ctx context.Context, report *model.Report) (*model.LLMSummary, error) {
	if !s.IsEnabled() {
		return nil, nil
	}

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:    report,
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate summary: %w", err)
	}

	summary := &model.LLMSummary{
		Enabled:   true,
		Provider:  s.provider.Name(),
		Model:     resp.Model,
		SummaryMD: resp.Summary,
	}
	if resp.Summary == "" {
		summary.Warnings = append(summary.Warnings, "provider returned an empty summary")
	}
	return summary, nil
}
