package contract

import (
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/kiranshivaraju/radassist/pkg/models"
)

// Schema names double as prompt catalogue keys.
const (
	SchemaAnalyze   = "analyze_series"
	SchemaAnomaly   = "detect_anomalies"
	SchemaCorrelate = "correlate_symptoms"
	SchemaReport    = "generate_report"
)

var AnalyzeSchema = &models.Schema{
	Name: SchemaAnalyze,
	Definition: jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"findings": {
				Type:        jsonschema.String,
				Description: "A mandatory, concise summary (max 20 words) stating the most likely disease, any secondary findings, and its potential progression.",
			},
			"anomalies": {
				Type:        jsonschema.String,
				Description: "Potential anomalies or areas of interest identified in the content.",
			},
		},
		Required:             []string{"findings", "anomalies"},
		AdditionalProperties: false,
	},
}

var AnomalySchema = &models.Schema{
	Name: SchemaAnomaly,
	Definition: jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"anomalies": {
				Type:        jsonschema.String,
				Description: "A description of the unusual anomalies detected in the image.",
			},
		},
		Required:             []string{"anomalies"},
		AdditionalProperties: false,
	},
}

var CorrelateSchema = &models.Schema{
	Name: SchemaCorrelate,
	Definition: jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"potentialConditions": {
				Type:        jsonschema.Array,
				Description: "A ranked list of potential conditions.",
				Items: &jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"condition": {
							Type:        jsonschema.String,
							Description: "The name of the potential medical condition.",
						},
						"confidence": {
							Type:        jsonschema.String,
							Description: "The confidence level of this potential condition.",
							Enum: []string{
								string(models.ConfidenceHigh),
								string(models.ConfidenceMedium),
								string(models.ConfidenceLow),
							},
						},
						"reasoning": {
							Type:        jsonschema.String,
							Description: "The reasoning for suggesting this condition based on the inputs.",
						},
					},
					Required:             []string{"condition", "confidence", "reasoning"},
					AdditionalProperties: false,
				},
			},
			"suggestedNextSteps": {
				Type:        jsonschema.String,
				Description: "Suggested next steps, such as further tests or specialist consultations.",
			},
		},
		Required:             []string{"potentialConditions", "suggestedNextSteps"},
		AdditionalProperties: false,
	},
}

var ReportSchema = &models.Schema{
	Name: SchemaReport,
	Definition: jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"markdownReport": {
				Type:        jsonschema.String,
				Description: "The complete diagnostic report in Markdown, tailored to the examined anatomy.",
			},
		},
		Required:             []string{"markdownReport"},
		AdditionalProperties: false,
	},
}
