package ai

import (
	"fmt"

	"github.com/kiranshivaraju/radassist/internal/ai/anthropic"
	"github.com/kiranshivaraju/radassist/internal/ai/mock"
	"github.com/kiranshivaraju/radassist/internal/ai/ollama"
	"github.com/kiranshivaraju/radassist/internal/ai/openai"
	"github.com/kiranshivaraju/radassist/internal/ai/vllm"
	"github.com/kiranshivaraju/radassist/internal/config"
	"github.com/kiranshivaraju/radassist/pkg/models"
)

// NewProvider constructs the appropriate backend based on config.
// Called once at server startup.
func NewProvider(cfg config.AIConfig) (models.Backend, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.NewProvider(cfg.Ollama), nil
	case "vllm":
		return vllm.NewProvider(cfg.VLLM), nil
	case "openai":
		return openai.NewProvider(cfg.OpenAI), nil
	case "anthropic":
		return anthropic.NewProvider(cfg.Anthropic), nil
	case "mock":
		return mock.NewMockBackend(), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of ollama, vllm, openai, anthropic, mock", cfg.Provider)
	}
}
