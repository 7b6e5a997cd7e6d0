package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fwojciec/scribe/agent"
	"github.com/fwojciec/scribe/builtin"
	"github.com/fwojciec/scribe/config"
	"github.com/fwojciec/scribe/dispatch"
	"github.com/fwojciec/scribe/languagetool"
	"github.com/fwojciec/scribe/wordnet"
	"github.com/rs/zerolog"
)

// app holds the wired components shared by the chat and serve commands.
type app struct {
	loop  *agent.Loop
	store *wordnet.Store
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	provider, err := newProvider(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	store, err := wordnet.Open(ctx, cfg.WordNet.Path, wordnet.WithLogger(log))
	if err != nil {
		return nil, err
	}
	synsets, _, err := store.Counts(ctx)
	if err != nil {
		store.Close()
		return nil, err
	}
	if synsets == 0 {
		log.Warn().Str("path", cfg.WordNet.Path).Msg("wordnet database is empty, run scribe import-wordnet")
	}

	grammar := languagetool.New(
		languagetool.WithURL(cfg.Grammar.URL),
		languagetool.WithLanguage(cfg.Grammar.Language),
		languagetool.WithPolicy(cfg.GrammarPolicy()),
		languagetool.WithHTTPClient(&http.Client{Timeout: cfg.Grammar.Timeout}),
		languagetool.WithLogger(log),
	)
	exec := builtin.NewExecutor(grammar, builtin.NewWriter(provider, cfg.LLM.Model), store, builtin.WithLogger(log))

	loop := agent.New(provider, dispatch.New(exec, log),
		agent.WithTools(exec.Tools()),
		agent.WithModel(cfg.LLM.Model),
		agent.WithMaxTokens(cfg.LLM.MaxTokens),
		agent.WithTimeout(cfg.LLM.Timeout),
		agent.WithLogger(log),
	)
	return &app{loop: loop, store: store}, nil
}

func (a *app) Close() error {
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("close wordnet: %w", err)
	}
	return nil
}
