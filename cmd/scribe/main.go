// Command scribe is a writing assistant: a Gemini chat that can correct
// grammar, draft content and suggest synonyms.
//
// Usage:
//
//	GOOGLE_API_KEY=... scribe [chat] [flags]   terminal UI (default)
//	GOOGLE_API_KEY=... scribe serve [flags]    web UI
//	scribe import-wordnet DIR [flags]          load a WordNet dict directory
//
// Flags:
//
//	--config string          Path to a scribe.yaml config file
//	--api-key string         Gemini API key (overrides GOOGLE_API_KEY, GEMINI_API_KEY)
//	--model string           Gemini model ID (default gemini-2.5-pro)
//	--addr string            Web server listen address (default :8080)
//	--wordnet-db string      Path to the WordNet SQLite database
//	--grammar-policy string  substring or offset
//	--log-level string       debug, info, warn or error
//	--log-format string      console or json
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fwojciec/scribe"
	bt "github.com/fwojciec/scribe/bubbletea"
	"github.com/fwojciec/scribe/config"
	"github.com/fwojciec/scribe/logging"
	"github.com/fwojciec/scribe/web"
	"github.com/fwojciec/scribe/wordnet"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
)

const (
	cmdChat   = "chat"
	cmdServe  = "serve"
	cmdImport = "import-wordnet"
)

func main() {
	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "scribe: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd, rest := cmdChat, args
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, rest = args[0], args[1:]
	}
	switch cmd {
	case cmdChat, cmdServe, cmdImport:
	default:
		return fmt.Errorf("unknown command %q: want %s, %s or %s", cmd, cmdChat, cmdServe, cmdImport)
	}

	fs := pflag.NewFlagSet("scribe "+cmd, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	config.RegisterFlags(fs)
	if err := fs.Parse(rest); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}

	switch cmd {
	case cmdServe:
		return runServe(ctx, cfg, stderr)
	case cmdImport:
		return runImport(ctx, cfg, fs.Args(), stdout, stderr)
	default:
		return runChat(ctx, cfg)
	}
}

// runChat starts the terminal UI. Logs go to a file so they do not corrupt
// the screen.
func runChat(ctx context.Context, cfg *config.Config) error {
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}
	logFile, err := logging.OpenFile(cfg.Log.File)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log, err := logging.New(logFile, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	session := scribe.NewSession(uuid.NewString(), time.Now())
	log.Info().Str("session", session.ID).Msg("chat started")
	if err := bt.Run(ctx, bt.New(a.loop, session, scribe.DefaultTheme())); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

func runServe(ctx context.Context, cfg *config.Config, stderr io.Writer) error {
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}
	log, err := logging.New(stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	store := web.NewStore(
		web.WithSessionTTL(cfg.Server.SessionTTL),
		web.WithMaxSessions(cfg.Server.MaxSessions),
	)
	srv, err := web.New(a.loop, web.WithStore(store), web.WithLogger(log))
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

func runImport(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: scribe %s DIR [flags]", cmdImport)
	}
	log, err := logging.New(stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	store, err := wordnet.Open(ctx, cfg.WordNet.Path, wordnet.WithLogger(log))
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Import(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Imported %d synsets, %d lemmas, %d senses and %d exceptions from %d files into %s in %s\n",
		stats.Synsets, stats.Lemmas, stats.Senses, stats.Exceptions, stats.Files, cfg.WordNet.Path, stats.Duration.Round(time.Millisecond))
	return nil
}
