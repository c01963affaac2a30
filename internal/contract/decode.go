package contract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/kiranshivaraju/radassist/pkg/models"
)

// ErrMalformedOutput marks a backend response that does not satisfy the stage contract.
var ErrMalformedOutput = errors.New("malformed backend output")

// DecodeJSON verifies text against schema, unmarshals it into T and runs T's
// own Validate when it has one.
func DecodeJSON[T any](schema *models.Schema, text string) (T, error) {
	var out T
	body := stripFences(text)
	if body == "" {
		return out, fmt.Errorf("%w: empty response", ErrMalformedOutput)
	}
	if err := jsonschema.VerifySchemaAndUnmarshal(schema.Definition, []byte(body), &out); err != nil {
		return out, fmt.Errorf("%w: %s: %v", ErrMalformedOutput, schema.Name, err)
	}
	if v, ok := any(out).(Validator); ok {
		if err := v.Validate(); err != nil {
			return out, fmt.Errorf("%w: %s: %v", ErrMalformedOutput, schema.Name, err)
		}
	}
	return out, nil
}

// DecodeText accepts any non-blank free-text response.
func DecodeText(resp models.GenerateResponse) (string, error) {
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrMalformedOutput)
	}
	return text, nil
}

// DecodeExplanation takes the first generated image and the accompanying text.
func DecodeExplanation(resp models.GenerateResponse) (ExplainOutput, error) {
	if len(resp.Media) == 0 {
		return ExplainOutput{}, fmt.Errorf("%w: no explanation image returned", ErrMalformedOutput)
	}
	out := ExplainOutput{
		ExplanationImage: resp.Media[0].URL,
		ExplanationText:  strings.TrimSpace(resp.Text),
		ConfidenceScore:  PlaceholderConfidence,
	}
	if err := out.Validate(); err != nil {
		return ExplainOutput{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return out, nil
}

// stripFences removes a surrounding ```json block, which some local models add
// even when a response format is requested.
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
