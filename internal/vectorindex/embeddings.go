package vectorindex

import (
	"fmt"
	"os"

	chromem "github.com/philippgille/chromem-go"
)

// EmbeddingConfig selects the embedding provider for the vector index.
type EmbeddingConfig struct {
	// Provider is "openai" or "ollama".
	Provider string
	// Model is the embedding model name. Empty picks the provider default.
	Model string
	// BaseURL overrides the provider endpoint (Ollama only).
	BaseURL string
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string
}

// NewEmbeddingFunc builds a chromem embedding function from config.
func NewEmbeddingFunc(cfg EmbeddingConfig) (chromem.EmbeddingFunc, error) {
	switch cfg.Provider {
	case "openai", "":
		keyEnv := cfg.APIKeyEnv
		if keyEnv == "" {
			keyEnv = "OPENAI_API_KEY"
		}
		apiKey := os.Getenv(keyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("embedding provider openai: %s not set", keyEnv)
		}
		model := chromem.EmbeddingModelOpenAI3Small
		if cfg.Model != "" {
			model = chromem.EmbeddingModelOpenAI(cfg.Model)
		}
		return chromem.NewEmbeddingFuncOpenAI(apiKey, model), nil
	case "ollama":
		model := cfg.Model
		if model == "" {
			model = "nomic-embed-text"
		}
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434/api"
		}
		return chromem.NewEmbeddingFuncOllama(model, baseURL), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
