package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/csheth/hoverlate/internal/config"
	"github.com/csheth/hoverlate/internal/langdetect"
	"github.com/csheth/hoverlate/internal/llm"
	"github.com/csheth/hoverlate/internal/logging"
	"github.com/csheth/hoverlate/internal/source"
	"github.com/csheth/hoverlate/internal/translation"
	"github.com/csheth/hoverlate/internal/tui"
)

const loadTimeout = 2 * time.Minute

const welcomeText = `Welcome to hoverlate.

Open a document with "hoverlate notes.txt", "hoverlate paper.pdf", "hoverlate https://example.com/article" or pipe text into "hoverlate -".

Try it here: drag across this sentence with the mouse, let go, and click the translate button that appears next to the pointer. The translation opens in a panel at the same spot. Click anywhere else to close it.

Keys: j/k or the wheel scroll, g/G jump to the top or bottom, t translates the current selection, esc closes the panel, q quits.`

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "env file:", err)
	}
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [file|url|-]\n", os.Args[0])
		flag.PrintDefaults()
	}
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	logger, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		os.Exit(1)
	}
	defer closer.Close()

	doc, err := loadDocument(cfg, flag.Arg(0), logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load document:", err)
		os.Exit(1)
	}

	backend, err := llm.New(cfg.LLM())
	if err != nil {
		fmt.Fprintln(os.Stderr, "translator:", err)
		os.Exit(1)
	}
	client := translation.NewClient(backend,
		translation.WithLanguageDetector(langdetect.Label),
		translation.WithClientLogger(logger),
	)
	logger.Info().
		Str("backend", cfg.Backend).
		Str("endpoint", cfg.Endpoint).
		Str("model", cfg.Model).
		Str("document", doc.Origin).
		Msg("starting reader")

	opts := []tea.ProgramOption{tea.WithMouseAllMotion()}
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Document:   doc,
			Translator: client,
			ModelName:  backend.Name(),
			Timeout:    cfg.Timeout,
			Logger:     logger,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		logger.Error().Err(err).Msg("program error")
		fmt.Fprintln(os.Stderr, "program error:", err)
		os.Exit(1)
	}
}

func loadDocument(cfg *config.Config, input string, logger zerolog.Logger) (source.Document, error) {
	if input == "" && isatty.IsTerminal(os.Stdin.Fd()) {
		return source.Document{Title: "hoverlate", Origin: "welcome", Format: source.FormatText, Text: welcomeText}, nil
	}
	loader := source.NewLoader(
		source.WithCacheDir(cfg.CacheDir),
		source.WithLogger(logger),
	)
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	return loader.Load(ctx, input)
}
