package models

// AnalysisResult is the joined output of the first-stage fan-out.
// Findings is a single diagnosis-first sentence of at most 20 words.
type AnalysisResult struct {
	Findings  string `json:"findings"`
	Anomalies string `json:"anomalies"`
}

// Confidence is the qualitative likelihood attached to a Condition.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Valid reports whether c is one of the fixed enumeration values.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// Condition is one entry of a differential diagnosis.
type Condition struct {
	Name       string     `json:"condition"`
	Confidence Confidence `json:"confidence"`
	Reasoning  string     `json:"reasoning"`
}

// CorrelationResult orders PotentialConditions most-likely first, exactly as the model returned them.
type CorrelationResult struct {
	PotentialConditions []Condition `json:"potentialConditions"`
	SuggestedNextSteps  string      `json:"suggestedNextSteps"`
}

// Report is a markdown diagnostic document derived only from an AnalysisResult.
type Report struct {
	MarkdownReport string `json:"markdownReport"`
}
