package contract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kiranshivaraju/radassist/internal/media"
	"github.com/kiranshivaraju/radassist/pkg/models"
)

// DefaultMaxItems caps a single analysis batch.
const DefaultMaxItems = 30

// ValidateAnalyze accepts 1..maxItems valid image or video items.
func ValidateAnalyze(items []models.MediaItem, maxItems int) Validated[AnalyzeInput] {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	switch {
	case len(items) == 0:
		return Reject[AnalyzeInput]("no images provided for analysis")
	case len(items) > maxItems:
		return Reject[AnalyzeInput]("at most %d items may be analyzed at once, got %d", maxItems, len(items))
	}
	for i, item := range items {
		if err := checkItem(item); err != nil {
			return Reject[AnalyzeInput]("item %d: %v", i, err)
		}
	}
	return Accept(AnalyzeInput{Items: items})
}

func ValidateAnomaly(item models.MediaItem) Validated[AnomalyInput] {
	if err := checkItem(item); err != nil {
		return Reject[AnomalyInput]("%v", err)
	}
	return Accept(AnomalyInput{Item: item})
}

func ValidateCorrelate(in CorrelateInput) Validated[CorrelateInput] {
	if blank(in.Symptoms) {
		return Reject[CorrelateInput]("symptoms are required")
	}
	if blank(in.Findings) {
		return Reject[CorrelateInput]("findings are required")
	}
	return Accept(in)
}

func ValidateReport(in ReportInput) Validated[ReportInput] {
	if blank(in.Findings) {
		return Reject[ReportInput]("findings are required")
	}
	return Accept(in)
}

func ValidateExplain(in ExplainInput) Validated[ExplainInput] {
	if err := checkItem(in.Item); err != nil {
		return Reject[ExplainInput]("%v", err)
	}
	if blank(in.Diagnosis) {
		return Reject[ExplainInput]("diagnosis is required")
	}
	return Accept(in)
}

func ValidateAsk(in AskInput) Validated[AskInput] {
	if blank(in.Question) {
		return Reject[AskInput]("question is required")
	}
	if blank(in.Context) {
		return Reject[AskInput]("conversation context is required")
	}
	return Accept(in)
}

func ValidateText(in TextInput) Validated[TextInput] {
	if blank(in.Prompt) {
		return Reject[TextInput]("prompt is required")
	}
	return Accept(in)
}

func checkItem(item models.MediaItem) error {
	parsed, err := media.Parse(item.DataURI)
	if err != nil {
		return err
	}
	if item.Key != "" && item.Key != parsed.Key {
		return errors.New("item key does not match its content")
	}
	if item.Kind != "" && item.Kind != parsed.Kind {
		return fmt.Errorf("item kind %q does not match mime type %s", item.Kind, parsed.MIMEType)
	}
	return nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// Validator is implemented by outputs that carry checks beyond their JSON schema.
type Validator interface {
	Validate() error
}

func (o AnalyzeOutput) Validate() error {
	if blank(o.Findings) {
		return errors.New("findings is empty")
	}
	if blank(o.Anomalies) {
		return errors.New("anomalies is empty")
	}
	return nil
}

func (o AnomalyOutput) Validate() error {
	if blank(o.Anomalies) {
		return errors.New("anomalies is empty")
	}
	return nil
}

func (o CorrelateOutput) Validate() error {
	for i, c := range o.PotentialConditions {
		if blank(c.Name) {
			return fmt.Errorf("condition %d has no name", i)
		}
		if !c.Confidence.Valid() {
			return fmt.Errorf("condition %d has invalid confidence %q", i, c.Confidence)
		}
	}
	return nil
}

func (o ReportOutput) Validate() error {
	if blank(o.MarkdownReport) {
		return errors.New("markdownReport is empty")
	}
	return nil
}

func (o ExplainOutput) Validate() error {
	if _, _, err := media.Decode(o.ExplanationImage); err != nil {
		return fmt.Errorf("explanation image: %w", err)
	}
	if o.ConfidenceScore < 0 || o.ConfidenceScore > 1 {
		return fmt.Errorf("confidence score %v outside [0,1]", o.ConfidenceScore)
	}
	return nil
}
