package factory

import (
	"fmt"

	"gem-curator-be/pkg/llm"
	"gem-curator-be/pkg/llm/ollama"
	"gem-curator-be/pkg/llm/openai"
)

type Settings struct {
	Provider      string // "ollama" | "openai"
	Model         string
	OllamaBaseURL string
	OpenAIBaseURL string
	OpenAIAPIKey  string
}

func NewLLMProvider(s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "ollama":
		baseURL := s.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, s.Model), nil
	case "openai":
		if s.OpenAIAPIKey == "" && s.OpenAIBaseURL == "" {
			return nil, fmt.Errorf("openai provider requires OPENAI_API_KEY or OPENAI_BASE_URL")
		}
		return openai.NewProvider(openai.Config{
			BaseURL: s.OpenAIBaseURL,
			APIKey:  s.OpenAIAPIKey,
			Model:   s.Model,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
