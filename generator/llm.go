package generator

import (
	"context"
	"fmt"
	"strings"
)

// LLMClient 抽象大模型客户端，便于替换/Mock。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	MaxTokens int
}

// NewLLM picks the client implementation for settings.Provider.
func NewLLM(ctx context.Context, cfg LLMSettings) (LLMClient, error) {
	switch strings.ToLower(cfg.Provider) {
	case "gemini", "google":
		return NewGeminiLLMFromConfig(ctx, &cfg)
	case "openai":
		return NewOpenAILLMFromConfig(&cfg)
	case "deepseek":
		// DeepSeek speaks the OpenAI protocol but has no default endpoint in the SDK.
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return NewOpenAILLMFromConfig(&cfg)
	case "anthropic", "claude":
		return NewAnthropicLLMFromConfig(&cfg)
	case "mock":
		return MockLLM{}, nil
	case "":
		return nil, fmt.Errorf("llm config missing; please set llm.provider/model/api_key")
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.Provider)
	}
}
