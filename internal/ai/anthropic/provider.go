// Package anthropic serves models.Backend through Anthropic's OpenAI SDK compatibility layer.
package anthropic

import (
	"github.com/kiranshivaraju/radassist/internal/ai/openai"
	"github.com/kiranshivaraju/radassist/internal/config"
)

// NewProvider builds a Backend for Claude models. Image generation is not
// offered by this endpoint, so explanation requests fail with an invalid response.
func NewProvider(cfg config.AnthropicConfig) *openai.Provider {
	return openai.New(openai.Options{
		Name:    "anthropic",
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
}
