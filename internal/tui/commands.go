package tui

import (
	"context"
	"errors"

	"github.com/csheth/hoverlate/internal/translation"
)

// outcomeMsg carries a finished translation back to the loop together with
// the orchestrator's completion callback.
type outcomeMsg struct {
	outcome translation.Outcome
	done    func(translation.Outcome)
}

func (m outcomeMsg) deliver() {
	if m.done != nil {
		m.done(m.outcome)
	}
}

func translateJob(work func(context.Context) translation.Outcome, done func(translation.Outcome)) requestRunner {
	return func(ctx context.Context) (outcomeMsg, error) {
		out := work(ctx)
		msg := outcomeMsg{outcome: out, done: done}
		if failure, ok := out.(translation.Failure); ok {
			return msg, errors.New(failure.Message)
		}
		return msg, nil
	}
}
