// Package selection turns document clicks over selected text into a
// translate trigger.
package selection

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/csheth/hoverlate/internal/overlay"
	"github.com/csheth/hoverlate/internal/pointer"
)

// TriggerOffset shifts the trigger away from the pointer on both axes when
// Config.Offset is zero.
const TriggerOffset = 10

// State is the controller's view of the trigger.
type State int

const (
	Idle State = iota
	TriggerShown
)

func (s State) String() string {
	if s == TriggerShown {
		return "trigger"
	}
	return "idle"
}

// Request is a trimmed, non-empty selection and the anchor to show its
// translation at.
type Request struct {
	Text     string
	Position pointer.Position
}

// Source reports the text currently selected on the page.
type Source interface {
	SelectedText() string
}

// Activator receives the request once the trigger is clicked.
type Activator interface {
	Activate(req Request)
}

// Config wires a Controller.
type Config struct {
	Source    Source
	Tracker   *pointer.Tracker
	Overlays  overlay.Mounter
	Activator Activator
	// TriggerView renders the trigger affordance.
	TriggerView func() string
	// Offset is added to the pointer to anchor the trigger.
	Offset pointer.Position
	Logger zerolog.Logger
}

// Controller shows the trigger for non-empty selections and hands the
// selection to the Activator when the trigger is clicked.
type Controller struct {
	source    Source
	tracker   *pointer.Tracker
	overlays  overlay.Mounter
	activator Activator
	view      func() string
	offset    pointer.Position
	logger    zerolog.Logger

	trigger *overlay.Handle
	pending Request
}

// New returns a Controller in the Idle state.
func New(cfg Config) *Controller {
	view := cfg.TriggerView
	if view == nil {
		view = func() string { return "translate" }
	}
	offset := cfg.Offset
	if offset == (pointer.Position{}) {
		offset = pointer.Position{X: TriggerOffset, Y: TriggerOffset}
	}
	return &Controller{
		source:    cfg.Source,
		tracker:   cfg.Tracker,
		overlays:  cfg.Overlays,
		activator: cfg.Activator,
		view:      view,
		offset:    offset,
		logger:    cfg.Logger,
	}
}

// State reports TriggerShown while the trigger this controller mounted is
// still attached.
func (c *Controller) State() State {
	if c.trigger != nil && c.trigger.Live() {
		return TriggerShown
	}
	return Idle
}

// OnDocumentClick runs in the bubble phase of every document click that was
// not consumed by an overlay.
func (c *Controller) OnDocumentClick() {
	text := strings.TrimSpace(c.source.SelectedText())
	if text == "" {
		c.logger.Debug().Msg("click without selection")
		return
	}
	req := Request{
		Text:     text,
		Position: c.tracker.Current().Offset(c.offset.X, c.offset.Y),
	}
	c.pending = req
	c.trigger = c.overlays.Mount(func() overlay.Element {
		return overlay.Element{
			Kind:    overlay.KindTrigger,
			View:    c.view,
			OnClick: c.activate,
		}
	}, req.Position)
	c.logger.Debug().Int("chars", len([]rune(text))).Msg("trigger shown")
}

// ActivateTrigger behaves like a click on the visible trigger. It reports
// false when no trigger is shown.
func (c *Controller) ActivateTrigger() bool {
	if c.State() != TriggerShown {
		return false
	}
	c.activate()
	return true
}

func (c *Controller) activate() {
	trigger, req := c.trigger, c.pending
	c.trigger = nil
	c.pending = Request{}
	if c.activator != nil {
		c.activator.Activate(req)
	}
	// The activator normally replaced the trigger already.
	if trigger != nil {
		trigger.Dismiss()
	}
}
