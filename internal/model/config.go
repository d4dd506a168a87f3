package model

// Config holds the complete runtime configuration, assembled from flags,
// environment, config file and defaults, in that order of priority.
type Config struct {
	Load        LoadConfig          `yaml:"load" json:"load" mapstructure:"load"`
	Keys        KeyConfig           `yaml:"keys" json:"keys" mapstructure:"keys"`
	Diagnostics DiagConfig          `yaml:"diagnostics" json:"diagnostics" mapstructure:"diagnostics"`
	Cache       CacheConfig         `yaml:"cache" json:"cache" mapstructure:"cache"`
	Output      OutputConfig        `yaml:"output" json:"output" mapstructure:"output"`
	LLM         LLMConfig           `yaml:"llm" json:"llm" mapstructure:"llm"`
	Catalog     map[string][]string `yaml:"catalog,omitempty" json:"catalog,omitempty" mapstructure:"catalog"` // extra column-name variants per role
}

// LoadConfig controls the tabular loader.
type LoadConfig struct {
	LargeFileBytes  int64 `yaml:"large_file_bytes" json:"large_file_bytes" mapstructure:"large_file_bytes"`    // blocked reading above this size
	LargeBlockRows  int   `yaml:"large_block_rows" json:"large_block_rows" mapstructure:"large_block_rows"`    // block size for large inputs
	BlockRows       int   `yaml:"block_rows" json:"block_rows" mapstructure:"block_rows"`                      // block size for moderate inputs
	HeaderScanRows  int   `yaml:"header_scan_rows" json:"header_scan_rows" mapstructure:"header_scan_rows"`    // rows inspected for keyword detection
	DensityScanRows int   `yaml:"density_scan_rows" json:"density_scan_rows" mapstructure:"density_scan_rows"` // rows inspected for the density fallback
}

// KeyConfig holds the key quality thresholds.
type KeyConfig struct {
	AcceptUniquenessPct float64 `yaml:"accept_uniqueness_pct" json:"accept_uniqueness_pct" mapstructure:"accept_uniqueness_pct"`
	WarnUniquenessPct   float64 `yaml:"warn_uniqueness_pct" json:"warn_uniqueness_pct" mapstructure:"warn_uniqueness_pct"`
	Separator           string  `yaml:"separator" json:"separator" mapstructure:"separator"`
}

// DiagConfig holds the diagnostics thresholds.
type DiagConfig struct {
	CriticalPct float64 `yaml:"critical_pct" json:"critical_pct" mapstructure:"critical_pct"`
	TopKeys     int     `yaml:"top_keys" json:"top_keys" mapstructure:"top_keys"` // duplicate keys listed in summaries
}

// CacheConfig controls the parsed-dataset cache.
type CacheConfig struct {
	Enabled    bool `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	TTLMinutes int  `yaml:"ttl_minutes" json:"ttl_minutes" mapstructure:"ttl_minutes"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose  bool `yaml:"verbose" json:"verbose" mapstructure:"verbose"`
	FormatID bool `yaml:"format_id" json:"format_id" mapstructure:"format_id"` // render identifiers as XX.XXX.XXX-X in reports
}

// LLMConfig configures the optional findings summarizer.
type LLMConfig struct {
	Provider  string `yaml:"provider" json:"provider" mapstructure:"provider"` // "openai", "ollama" (OpenAI-compatible), "" disables
	Model     string `yaml:"model" json:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" json:"-" mapstructure:"-"`
	BaseURL   string `yaml:"base_url,omitempty" json:"base_url,omitempty" mapstructure:"base_url"`
	TimeoutS  int    `yaml:"timeout_seconds" json:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig returns the built-in defaults. The numeric values mirror
// the behavior of the legacy comparison workflow: 8 MB large-file cutoff,
// 30k/50k row blocks, 20-row header scan, 85% critical threshold.
func DefaultConfig() *Config {
	return &Config{
		Load: LoadConfig{
			LargeFileBytes:  8 * 1024 * 1024,
			LargeBlockRows:  30000,
			BlockRows:       50000,
			HeaderScanRows:  20,
			DensityScanRows: 15,
		},
		Keys: KeyConfig{
			AcceptUniquenessPct: 90,
			WarnUniquenessPct:   80,
			Separator:           "|",
		},
		Diagnostics: DiagConfig{
			CriticalPct: 85,
			TopKeys:     20,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLMinutes: 15,
		},
		Output: OutputConfig{
			Verbose:  false,
			FormatID: true,
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "",
			TimeoutS:  30,
			MaxTokens: 1000,
		},
	}
}
