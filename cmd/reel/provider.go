package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/reel"
	"github.com/fwojciec/reel/backend"
	"github.com/fwojciec/reel/config"
	"github.com/fwojciec/reel/gemini"
	"github.com/rs/zerolog"
)

// resolveTransport selects the generation transport for cfg.Provider.
// Env-derived values arrive through cfg; nothing is read here.
func resolveTransport(ctx context.Context, cfg *config.Config, client *backend.Client, logger zerolog.Logger) (reel.Transport, error) {
	switch cfg.Provider {
	case config.ProviderBackend:
		return backend.NewTransport(client), nil
	case config.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set")
		}
		var opts []gemini.Option
		if cfg.GeminiModel != "" {
			opts = append(opts, gemini.WithModel(cfg.GeminiModel))
		}
		opts = append(opts, gemini.WithLogger(logger))
		t, err := gemini.New(ctx, cfg.GeminiAPIKey, opts...)
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unknown provider %q: must be %q or %q", cfg.Provider, config.ProviderBackend, config.ProviderGemini)
	}
}
