// Package vllm serves models.Backend from a vLLM OpenAI-compatible server.
package vllm

import (
	"strings"

	"github.com/kiranshivaraju/radassist/internal/ai/openai"
	"github.com/kiranshivaraju/radassist/internal/config"
)

func NewProvider(cfg config.VLLMConfig) *openai.Provider {
	return openai.New(openai.Options{
		Name:    "vllm",
		APIKey:  "EMPTY",
		BaseURL: strings.TrimRight(cfg.BaseURL, "/") + "/v1",
		Model:   cfg.Model,
	})
}
