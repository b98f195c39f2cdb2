package generator

import (
	"context"
	"fmt"
)

// LLMClient abstracts the text-completion backend so it can be swapped or faked.
type LLMClient interface {
	Complete(ctx context.Context, prompt RenderedPrompt) (string, error)
}

// LLMSettings is the base configuration handed to concrete clients.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// NewLLM builds the client for settings.Provider.
func NewLLM(ctx context.Context, s *LLMSettings) (LLMClient, error) {
	if s == nil || s.Provider == "" {
		return nil, fmt.Errorf("llm config missing; please set llm.provider/model/api_key in config")
	}
	switch s.Provider {
	case "gemini":
		return NewGeminiLLM(ctx, s)
	case "openai":
		return NewOpenAILLMFromConfig(s)
	case "deepseek":
		// DeepSeek exposes an OpenAI-compatible API at its own endpoint.
		if s.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return NewOpenAILLMFromConfig(s)
	case "mock":
		return MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", s.Provider)
	}
}
