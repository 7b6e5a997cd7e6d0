package main

import (
	"context"

	"github.com/fwojciec/scribe"
	"github.com/fwojciec/scribe/config"
	"github.com/fwojciec/scribe/gemini"
	"github.com/rs/zerolog"
)

// newProvider constructs the Gemini provider from configuration.
func newProvider(ctx context.Context, cfg *config.Config, log zerolog.Logger) (scribe.Provider, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	return gemini.New(ctx, cfg.LLM.APIKey,
		gemini.WithModel(cfg.LLM.Model),
		gemini.WithNativeTools(cfg.LLM.NativeTools),
		gemini.WithLogger(log),
	)
}
