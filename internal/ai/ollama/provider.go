// Package ollama serves models.Backend from a local Ollama server.
package ollama

import (
	"strings"

	"github.com/kiranshivaraju/radassist/internal/ai/openai"
	"github.com/kiranshivaraju/radassist/internal/config"
)

// NewProvider points the OpenAI client at Ollama's compatibility endpoint.
// Ollama ignores the API key but the client requires one.
func NewProvider(cfg config.OllamaConfig) *openai.Provider {
	return openai.New(openai.Options{
		Name:    "ollama",
		APIKey:  "ollama",
		BaseURL: strings.TrimRight(cfg.BaseURL, "/") + "/v1",
		Model:   cfg.Model,
	})
}
