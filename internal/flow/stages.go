package flow

import (
	"github.com/kiranshivaraju/radassist/internal/contract"
	"github.com/kiranshivaraju/radassist/pkg/models"
)

// Stage describes one backend exchange: the catalogue template to render, the
// schema requested from the backend (nil for free text) and how to decode the reply.
type Stage[In, Out any] struct {
	Name   string
	Schema *models.Schema
	Decode func(models.GenerateResponse) (Out, error)
}

func structured[In, Out any](schema *models.Schema) Stage[In, Out] {
	return Stage[In, Out]{
		Name:   schema.Name,
		Schema: schema,
		Decode: func(resp models.GenerateResponse) (Out, error) {
			return contract.DecodeJSON[Out](schema, resp.Text)
		},
	}
}

var (
	AnalyzeSeries     = structured[contract.AnalyzeInput, contract.AnalyzeOutput](contract.AnalyzeSchema)
	DetectAnomalies   = structured[contract.AnomalyInput, contract.AnomalyOutput](contract.AnomalySchema)
	CorrelateSymptoms = structured[contract.CorrelateInput, contract.CorrelateOutput](contract.CorrelateSchema)
	GenerateReport    = structured[contract.ReportInput, contract.ReportOutput](contract.ReportSchema)

	ExplainDiagnosis = Stage[contract.ExplainInput, contract.ExplainOutput]{
		Name:   "explain_diagnosis",
		Decode: contract.DecodeExplanation,
	}
	ConversationalAnswer = Stage[contract.AskInput, string]{
		Name:   "conversational_answer",
		Decode: contract.DecodeText,
	}
	GenerateText = Stage[contract.TextInput, string]{
		Name:   "generate_text",
		Decode: contract.DecodeText,
	}
)
