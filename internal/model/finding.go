package model

// Category classifies a diagnostic finding.
type Category string

const (
	CategoryMissingInOther Category = "missing_in_other" // records absent from the subject dataset
	CategorySurplusInOther Category = "surplus_in_other" // records the subject has that the other lacks
	CategoryDuplicate      Category = "duplicate"
	CategoryIncomplete     Category = "incomplete"
)

// Severity indicates how urgent a finding is.
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityCritical Severity = "critical"
)

// Finding is one classified, severity-tagged diagnostic statement about a
// category of mismatch in one dataset.
type Finding struct {
	Category       Category `json:"category"`
	Dataset        string   `json:"dataset"` // subject dataset name
	Count          int      `json:"count"`
	ReferenceTotal int      `json:"reference_total"`
	Percentage     float64  `json:"percentage"`
	Severity       Severity `json:"severity"`
	Observation    string   `json:"observation"`
}
