package cmd

import (
	"context"
	"fmt"

	"github.com/lehigh-university-libraries/anatomymentor/internal/config"
	"github.com/lehigh-university-libraries/anatomymentor/internal/gemini"
	"github.com/lehigh-university-libraries/anatomymentor/internal/ollama"
	"github.com/lehigh-university-libraries/anatomymentor/internal/openai"
	"github.com/lehigh-university-libraries/anatomymentor/internal/providers"
)

func noopClose() error { return nil }

// newProvider builds the configured backend once for the life of the server
func newProvider(ctx context.Context, cfg *config.Config) (providers.Provider, func() error, error) {
	switch cfg.Provider {
	case "gemini":
		g, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.Generation())
		if err != nil {
			return nil, nil, err
		}
		return g, g.Close, nil
	case "openai":
		o, err := openai.New(cfg.OpenAIAPIKey, cfg.OpenAIURL, cfg.Generation())
		if err != nil {
			return nil, nil, err
		}
		return o, noopClose, nil
	case "ollama":
		o, err := ollama.New(cfg.OllamaURL, cfg.Generation())
		if err != nil {
			return nil, nil, err
		}
		return o, noopClose, nil
	default:
		return nil, nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}
