package model

import "time"

// Report is the complete result of comparing two datasets. It carries
// summaries and findings only; the raw categorized row sets travel next to
// it so renderers can materialize them without bloating the JSON artifact.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`

	DatasetA DatasetSummary `json:"dataset_a"`
	DatasetB DatasetSummary `json:"dataset_b"`

	Mode      string      `json:"mode"` // "automatic" or "manual"
	StrategyA KeyStrategy `json:"strategy_a"`
	StrategyB KeyStrategy `json:"strategy_b"`

	Match       MatchSummary        `json:"match"`
	DuplicatesA DuplicateSummary    `json:"duplicates_a"`
	DuplicatesB DuplicateSummary    `json:"duplicates_b"`
	IncompleteA CompletenessSummary `json:"incomplete_a"`
	IncompleteB CompletenessSummary `json:"incomplete_b"`

	Findings []Finding `json:"findings"`
	Warnings []string  `json:"warnings,omitempty"`

	LLM *LLMSummary `json:"llm,omitempty"` // optional, never affects findings
}

// DatasetSummary describes one loaded dataset and the quality of its key.
type DatasetSummary struct {
	Name      string     `json:"name"`
	Path      string     `json:"path"`
	Sheet     string     `json:"sheet,omitempty"`
	HeaderRow int        `json:"header_row"`
	Rows      int        `json:"rows"`
	Columns   int        `json:"columns"`
	Quality   KeyQuality `json:"key_quality"`
}

// MatchSummary holds the set-difference counts between the two datasets.
type MatchSummary struct {
	OnlyInA    int `json:"only_in_a"`
	OnlyInB    int `json:"only_in_b"`
	CommonKeys int `json:"common_keys"`
}

// KeyCount pairs an identity key with its occurrence count.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// DuplicateSummary describes the duplicate keys found in one dataset.
type DuplicateSummary struct {
	Rows         int        `json:"rows"` // total rows belonging to a duplicate group
	Keys         int        `json:"keys"` // distinct keys with group size >= 2
	MaxGroupSize int        `json:"max_group_size"`
	TopKeys      []KeyCount `json:"top_keys,omitempty"`
}

// ColumnGap reports how many cells of one column are empty.
type ColumnGap struct {
	Column     string  `json:"column"`
	Empty      int     `json:"empty"`
	Percentage float64 `json:"percentage"`
}

// CompletenessSummary describes the structurally incomplete rows of one
// dataset plus the per-column emptiness table, sorted worst first.
type CompletenessSummary struct {
	Rows       int         `json:"rows"`
	ColumnGaps []ColumnGap `json:"column_gaps,omitempty"`
}

// LLMSummary contains the optional LLM-generated prose summary.
// It is clearly separated from findings and never influences them.
type LLMSummary struct {
	Enabled   bool     `json:"enabled"`
	Provider  string   `json:"provider,omitempty"`
	Model     string   `json:"model,omitempty"`
	SummaryMD string   `json:"summary_md,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}
