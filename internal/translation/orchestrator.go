package translation

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/csheth/hoverlate/internal/overlay"
	"github.com/csheth/hoverlate/internal/selection"
)

// Executor runs work off the event loop and delivers its outcome back on the
// loop by calling done.
type Executor interface {
	Go(work func(context.Context) Outcome, done func(Outcome))
}

// Views renders the elements the orchestrator mounts.
type Views interface {
	Loading() overlay.RenderFunc
	Outcome(out Outcome) overlay.RenderFunc
}

// Config wires an Orchestrator.
type Config struct {
	Overlays   overlay.Mounter
	Translator Translator
	Executor   Executor
	Views      Views
	// Timeout bounds each request. Zero leaves requests unbounded.
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Orchestrator implements selection.Activator: loading indicator, request,
// then result or error panel, all anchored at the request position.
type Orchestrator struct {
	overlays   overlay.Mounter
	translator Translator
	exec       Executor
	views      Views
	timeout    time.Duration
	logger     zerolog.Logger

	seq      uint64
	inFlight int
}

// NewOrchestrator returns an Orchestrator ready to receive requests.
func NewOrchestrator(cfg Config) *Orchestrator {
	return &Orchestrator{
		overlays:   cfg.Overlays,
		translator: cfg.Translator,
		exec:       cfg.Executor,
		views:      cfg.Views,
		timeout:    cfg.Timeout,
		logger:     cfg.Logger,
	}
}

// Activate starts a new overlay chain for req. Earlier requests keep running;
// whichever outcome is mounted last stays on screen.
func (o *Orchestrator) Activate(req selection.Request) {
	o.seq++
	id := o.seq
	o.inFlight++
	o.overlays.Mount(o.views.Loading(), req.Position)
	o.logger.Debug().Uint64("request", id).Int("chars", len([]rune(req.Text))).Msg("translation requested")

	text := req.Text
	timeout := o.timeout
	translator := o.translator
	o.exec.Go(func(ctx context.Context) Outcome {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return translator.Translate(ctx, text)
	}, func(out Outcome) {
		o.inFlight--
		if id != o.seq {
			o.logger.Debug().Uint64("request", id).Uint64("latest", o.seq).Msg("superseded outcome")
		}
		o.overlays.Mount(o.views.Outcome(out), req.Position)
	})
}

// InFlight reports requests whose outcome has not been delivered yet.
func (o *Orchestrator) InFlight() int {
	return o.inFlight
}
