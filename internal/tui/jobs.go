package tui

import (
	"context"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

type requestState int

const (
	requestRunning requestState = iota
	requestDone
	requestFailed
)

func (s requestState) String() string {
	switch s {
	case requestRunning:
		return "running"
	case requestDone:
		return "done"
	case requestFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// requestRecord is what the status bar knows about one translation request.
type requestRecord struct {
	ID      int64
	State   requestState
	Started time.Time
	Elapsed time.Duration
	Err     string
}

type requestStartedMsg struct {
	Record requestRecord
}

type requestFinishedMsg struct {
	Record  requestRecord
	Outcome outcomeMsg
}

// requestRunner runs off the event loop. The outcome is delivered even when
// err is set so the loop can render the failure.
type requestRunner func(context.Context) (outcomeMsg, error)

// jobBus turns translation requests into bubbletea commands. Every request
// runs under the bus context, so Shutdown abandons calls still waiting on
// the model.
type jobBus struct {
	seq    atomic.Int64
	ctx    context.Context
	cancel context.CancelFunc
	logger zerolog.Logger
}

func newJobBus(logger zerolog.Logger) *jobBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &jobBus{ctx: ctx, cancel: cancel, logger: logger}
}

func (b *jobBus) Start(run requestRunner) tea.Cmd {
	rec := requestRecord{ID: b.seq.Add(1), State: requestRunning, Started: time.Now()}
	started := func() tea.Msg {
		return requestStartedMsg{Record: rec}
	}
	finish := func() tea.Msg {
		out, err := run(b.ctx)
		done := rec
		done.Elapsed = time.Since(rec.Started)
		done.State = requestDone
		if err != nil {
			done.State = requestFailed
			done.Err = err.Error()
		}
		b.logger.Debug().
			Int64("request", done.ID).
			Stringer("state", done.State).
			Dur("elapsed", done.Elapsed).
			Err(err).
			Msg("translation request finished")
		return requestFinishedMsg{Record: done, Outcome: out}
	}
	return tea.Sequence(started, finish)
}

// Shutdown cancels the context of every running request.
func (b *jobBus) Shutdown() {
	b.cancel()
}
