package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/hoverlate/internal/translation"
)

// callbackMsg runs fn on the event loop.
type callbackMsg struct {
	fn func()
}

// eventLoop implements overlay.Scheduler and translation.Executor on top of
// the bubbletea loop. Work requested during Update is queued as commands and
// handed back to the program when Update returns.
type eventLoop struct {
	jobs    *jobBus
	after   func(delay time.Duration, fn func()) tea.Cmd
	pending []tea.Cmd
}

func newEventLoop(jobs *jobBus) *eventLoop {
	return &eventLoop{jobs: jobs, after: tickCallback}
}

func tickCallback(delay time.Duration, fn func()) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return callbackMsg{fn: fn}
	})
}

func (l *eventLoop) Schedule(delay time.Duration, fn func()) {
	l.pending = append(l.pending, l.after(delay, fn))
}

func (l *eventLoop) Go(work func(context.Context) translation.Outcome, done func(translation.Outcome)) {
	l.pending = append(l.pending, l.jobs.Start(translateJob(work, done)))
}

// drain returns the commands queued since the last call.
func (l *eventLoop) drain() []tea.Cmd {
	cmds := l.pending
	l.pending = nil
	return cmds
}
