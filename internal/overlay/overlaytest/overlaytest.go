// Package overlaytest provides an in-memory Document and a manual Scheduler
// for driving overlay state without a terminal.
package overlaytest

import (
	"time"

	"github.com/csheth/hoverlate/internal/overlay"
)

// Event records one attach or detach call.
type Event struct {
	Op     string
	Handle *overlay.Handle
}

// Document keeps attached handles in mount order and records every call.
type Document struct {
	Attached []*overlay.Handle
	Events   []Event
}

func (d *Document) Attach(h *overlay.Handle) {
	d.Attached = append(d.Attached, h)
	d.Events = append(d.Events, Event{Op: "attach", Handle: h})
}

func (d *Document) Detach(h *overlay.Handle) {
	for i, existing := range d.Attached {
		if existing == h {
			d.Attached = append(d.Attached[:i], d.Attached[i+1:]...)
			break
		}
	}
	d.Events = append(d.Events, Event{Op: "detach", Handle: h})
}

// Kinds lists the kinds of every attached element in mount order.
func (d *Document) Kinds() []overlay.Kind {
	return kindsOf(d.Attached)
}

// MountedKinds lists the kinds of every element ever attached.
func (d *Document) MountedKinds() []overlay.Kind {
	var handles []*overlay.Handle
	for _, ev := range d.Events {
		if ev.Op == "attach" {
			handles = append(handles, ev.Handle)
		}
	}
	return kindsOf(handles)
}

// Detaches counts detach calls for h.
func (d *Document) Detaches(h *overlay.Handle) int {
	count := 0
	for _, ev := range d.Events {
		if ev.Op == "detach" && ev.Handle == h {
			count++
		}
	}
	return count
}

func kindsOf(handles []*overlay.Handle) []overlay.Kind {
	kinds := make([]overlay.Kind, 0, len(handles))
	for _, h := range handles {
		kinds = append(kinds, h.Kind())
	}
	return kinds
}

type task struct {
	delay time.Duration
	fn    func()
}

// Scheduler queues callbacks until the test fires them.
type Scheduler struct {
	tasks []task
}

func (s *Scheduler) Schedule(delay time.Duration, fn func()) {
	s.tasks = append(s.tasks, task{delay: delay, fn: fn})
}

// Pending reports how many callbacks are waiting.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Delays lists the delays of the waiting callbacks.
func (s *Scheduler) Delays() []time.Duration {
	delays := make([]time.Duration, 0, len(s.tasks))
	for _, t := range s.tasks {
		delays = append(delays, t.delay)
	}
	return delays
}

// Flush runs every queued callback, including ones queued while flushing.
func (s *Scheduler) Flush() {
	for len(s.tasks) > 0 {
		next := s.tasks[0]
		s.tasks = s.tasks[1:]
		next.fn()
	}
}
