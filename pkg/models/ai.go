// Package models contains shared data models used across the RadAssist codebase.
package models

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// Backend is the generative-model boundary every flow goes through.
// Never call a specific provider directly; always inject this interface.
type Backend interface {
	// Generate sends one prompt to the model. With a Schema the response Text is a JSON
	// document expected to conform to it; without one, Text is free-form.
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	// Name returns the provider identifier (e.g., "openai", "mock").
	Name() string
}

// Modality is an output channel requested from the backend.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityImage Modality = "image"
)

// PromptPart is one element of an ordered prompt: either plain text or a media reference.
type PromptPart struct {
	Text  string
	Media *MediaRef
}

// IsMedia reports whether the part carries a media reference.
func (p PromptPart) IsMedia() bool { return p.Media != nil }

// MediaRef points at an encoded blob of the form data:<mime>;base64,<bytes>.
type MediaRef struct {
	URL      string
	MIMEType string
}

// Schema names a JSON schema the backend output must conform to.
type Schema struct {
	Name       string
	Definition jsonschema.Definition
}

// GenerateRequest is the input to one backend invocation.
type GenerateRequest struct {
	Model      string // optional override of the provider's default model
	Parts      []PromptPart
	Schema     *Schema
	Modalities []Modality
}

// WantsImage reports whether the request asks for an image output.
func (r GenerateRequest) WantsImage() bool {
	for _, m := range r.Modalities {
		if m == ModalityImage {
			return true
		}
	}
	return false
}

// GenerateResponse is what the backend returned.
type GenerateResponse struct {
	Text  string
	Media []MediaRef
	Model string
}

// Backend implementations wrap one of these so callers can classify failures
// without knowing which provider produced them.
var (
	ErrProviderUnavailable = errors.New("ai provider unavailable")
	ErrInferenceTimeout    = errors.New("ai inference timeout")
	ErrInvalidResponse     = errors.New("ai provider returned invalid response")
	ErrQuotaExceeded       = errors.New("ai provider quota exceeded")
)
