package contract

import "github.com/kiranshivaraju/radassist/pkg/models"

// PlaceholderConfidence is reported for every explanation. It is not derived from the model.
const PlaceholderConfidence = 0.95

type AnalyzeInput struct {
	Items []models.MediaItem
}

// AnomalyInput carries a single item; anomaly detection only ever sees the first item of a batch.
type AnomalyInput struct {
	Item models.MediaItem
}

type CorrelateInput struct {
	Symptoms  string
	Findings  string
	Anomalies string
}

type ReportInput struct {
	Findings  string
	Anomalies string
}

type ExplainInput struct {
	Item      models.MediaItem
	Diagnosis string
}

type AskInput struct {
	Context  string
	Question string
}

// TextInput is the free-form prompt of the passthrough endpoint.
type TextInput struct {
	Prompt string
}

type AnalyzeOutput struct {
	Findings  string `json:"findings"`
	Anomalies string `json:"anomalies"`
}

type AnomalyOutput struct {
	Anomalies string `json:"anomalies"`
}

type CorrelateOutput struct {
	PotentialConditions []models.Condition `json:"potentialConditions"`
	SuggestedNextSteps  string             `json:"suggestedNextSteps"`
}

// Result converts to the shared model, keeping condition order.
func (o CorrelateOutput) Result() models.CorrelationResult {
	return models.CorrelationResult{
		PotentialConditions: o.PotentialConditions,
		SuggestedNextSteps:  o.SuggestedNextSteps,
	}
}

type ReportOutput struct {
	MarkdownReport string `json:"markdownReport"`
}

type ExplainOutput struct {
	ExplanationImage string  `json:"explanationImage"`
	ExplanationText  string  `json:"explanationText"`
	ConfidenceScore  float64 `json:"confidenceScore"`
}
