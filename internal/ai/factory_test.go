package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranshivaraju/radassist/internal/ai"
	"github.com/kiranshivaraju/radassist/internal/config"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.AIConfig
	}{
		{"ollama", config.AIConfig{Ollama: config.OllamaConfig{BaseURL: "http://localhost:11434", Model: "llava"}}},
		{"vllm", config.AIConfig{VLLM: config.VLLMConfig{BaseURL: "http://localhost:8000", Model: "llava-hf/llava-1.5-7b-hf"}}},
		{"openai", config.AIConfig{OpenAI: config.OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o", ImageModel: "gpt-image-1"}}},
		{"anthropic", config.AIConfig{Anthropic: config.AnthropicConfig{APIKey: "sk-ant-test", Model: "claude-sonnet-4-5"}}},
		{"mock", config.AIConfig{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Provider = tc.name
			b, err := ai.NewProvider(tc.cfg)
			require.NoError(t, err)
			assert.Equal(t, tc.name, b.Name())
		})
	}
}

func TestNewProvider_Rejected(t *testing.T) {
	for _, name := range []string{"", "gemini"} {
		t.Run("provider="+name, func(t *testing.T) {
			_, err := ai.NewProvider(config.AIConfig{Provider: name})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "unknown AI provider")
		})
	}
}
