package embedding

import (
	"context"
	"fmt"
	"os"
	"time"

	"assessrec/config"
	"assessrec/internal/port"
)

// New builds the embedder selected by cfg.Provider.
func New(ctx context.Context, cfg config.EmbeddingConfig) (port.Embedder, error) {
	opts := []Option{
		WithRateLimit(cfg.RequestsPerSecond),
		WithDimension(cfg.Dimension),
		WithTimeout(time.Duration(cfg.TimeoutSecs) * time.Second),
	}

	switch cfg.Provider {
	case "ollama":
		return NewOllamaEmbedder(cfg.Model, cfg.BaseURL, opts...), nil
	case "openai":
		return NewOpenAICompatibleEmbedder(cfg.APIKeyEnv, cfg.Model, baseURLOr(cfg.BaseURL, "https://api.openai.com/v1"), opts...)
	case "jina":
		return NewOpenAICompatibleEmbedder(cfg.APIKeyEnv, cfg.Model, baseURLOr(cfg.BaseURL, "https://api.jina.ai/v1"), opts...)
	case "deepseek":
		return NewOpenAICompatibleEmbedder(cfg.APIKeyEnv, cfg.Model, baseURLOr(cfg.BaseURL, "https://api.deepseek.com/v1"), opts...)
	case "gemini":
		return NewGeminiEmbedder(ctx, os.Getenv(cfg.APIKeyEnv), cfg.Model, cfg.Dimension, cfg.RequestsPerSecond)
	case "mock":
		return NewMockEmbedder(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}

func baseURLOr(url, fallback string) string {
	if url == "" {
		return fallback
	}
	return url
}
