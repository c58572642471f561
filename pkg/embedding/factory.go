package embedding

import "fmt"

// ProviderConfig selects and configures an embedding backend.
type ProviderConfig struct {
	Provider     string
	Model        string
	OpenAIKey    string
	OpenAIURL    string
	OllamaURL    string
	GeminiAPIKey string
}

func NewProvider(cfg ProviderConfig) (EmbeddingProvider, error) {
	switch cfg.Provider {
	case "openai", "":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("openai embedding provider requires an API key")
		}
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIURL, cfg.Model), nil
	case "ollama":
		return NewOllamaProvider(cfg.OllamaURL, cfg.Model), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini embedding provider requires an API key")
		}
		return NewGeminiProvider(cfg.GeminiAPIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
