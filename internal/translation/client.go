// Package translation runs translation requests and drives the overlay
// through loading and result states.
package translation

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/csheth/hoverlate/internal/llm"
)

// Translator is anything that can turn text into an Outcome. *Client is the
// production implementation.
type Translator interface {
	Translate(ctx context.Context, text string) Outcome
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLanguageDetector labels successful outcomes with the source language.
func WithLanguageDetector(detect func(string) string) ClientOption {
	return func(c *Client) {
		c.detect = detect
	}
}

// WithClientLogger sets the logger for request outcomes.
func WithClientLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client adapts an llm.Translator so every failure, including panics, comes
// back as a Failure instead of an error.
type Client struct {
	backend llm.Translator
	detect  func(string) string
	logger  zerolog.Logger
}

// NewClient wraps backend.
func NewClient(backend llm.Translator, opts ...ClientOption) *Client {
	c := &Client{backend: backend, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name describes the backend for the status bar.
func (c *Client) Name() string {
	return c.backend.Name()
}

// Translate issues a single request for text. It never retries.
func (c *Client) Translate(ctx context.Context, text string) (out Outcome) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = Failure{Message: fmt.Sprintf("translation backend panicked: %v", r)}
		}
		c.logOutcome(out, time.Since(started))
	}()

	translated, err := c.backend.Translate(ctx, text)
	if err != nil {
		return Failure{Message: err.Error()}
	}
	success := Success{Text: translated}
	if c.detect != nil {
		success.SourceLanguage = c.detect(text)
	}
	return success
}

func (c *Client) logOutcome(out Outcome, elapsed time.Duration) {
	switch o := out.(type) {
	case Success:
		c.logger.Info().
			Str("backend", c.backend.Name()).
			Dur("elapsed", elapsed).
			Str("translated", o.Text).
			Msg("translation succeeded")
	case Failure:
		c.logger.Warn().
			Str("backend", c.backend.Name()).
			Dur("elapsed", elapsed).
			Str("error", o.Message).
			Msg("translation failed")
	}
}
