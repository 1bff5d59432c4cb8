package llm

import (
	"fmt"
	"strings"

	"github.com/yksassistant/hakem/internal/model"
)

// NewProvider creates a new LLM provider based on configuration.
// An empty provider name returns (nil, nil): extraction is disabled.
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	var (
		p   Provider
		err error
	)
	switch provider {
	case "openai", "fireworks", "together":
		p, err = NewOpenAIProvider(config)

	case "anthropic", "claude":
		p, err = NewAnthropicProvider(config)

	case "ollama":
		p, err = NewOllamaProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, fireworks, together, anthropic, ollama)", config.Provider)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:    modelConfig.Provider,
		Model:       modelConfig.Model,
		APIKey:      modelConfig.APIKey,
		BaseURL:     modelConfig.BaseURL,
		Timeout:     modelConfig.Timeout,
		MaxTokens:   modelConfig.MaxTokens,
		Temperature: modelConfig.Temperature,
		HTTPProxy:   modelConfig.HTTPProxy,
		HTTPSProxy:  modelConfig.HTTPSProxy,
	}
}
