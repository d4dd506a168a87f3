package model

// StrategyKind names the rule used to build identity keys for a dataset.
type StrategyKind string

const (
	StrategyCustomFields StrategyKind = "custom_fields"     // manual mode, user-chosen role subset
	StrategyNameTriple   StrategyKind = "name_triple"       // given + paternal + maternal
	StrategyNamePair     StrategyKind = "name_pair"         // given + paternal
	StrategyFullName     StrategyKind = "full_name_column"  // single full-name column
	StrategyIdentifier   StrategyKind = "identifier_column" // single identifier column fallback
)

// KeyStrategy records how a dataset's identity keys were built, including
// which source columns were consumed, for traceability.
type KeyStrategy struct {
	Kind        StrategyKind `json:"kind"`
	Tier        int          `json:"tier"` // position in the priority chain, 1 is highest
	Description string       `json:"description"`
	Columns     []string     `json:"columns"`
}

// KeyQuality measures how reliable a key is for one dataset: the ratio of
// distinct keys to row count, as a percentage.
type KeyQuality struct {
	Total         int     `json:"total"`
	Distinct      int     `json:"distinct"`
	UniquenessPct float64 `json:"uniqueness_pct"`
}

// NewKeyQuality computes the uniqueness percentage for the given counts.
func NewKeyQuality(total, distinct int) KeyQuality {
	q := KeyQuality{Total: total, Distinct: distinct}
	if total > 0 {
		q.UniquenessPct = float64(distinct) / float64(total) * 100
	}
	return q
}
