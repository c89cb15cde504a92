// Package overlay owns the single floating element shown above the page.
//
// A Manager holds at most one live Handle. Mounting a new element always
// dismisses the previous one first, so trigger buttons, loading indicators
// and result panels never stack. Each mount arms an outside-click listener
// after GracePeriod, which keeps the click that created the element from
// dismissing it while that click is still being dispatched.
package overlay

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/csheth/hoverlate/internal/pointer"
)

// GracePeriod is the delay between mounting an element and arming its
// outside-click listener.
// TODO: ignore the creating click by event identity instead of a fixed delay
// once the dispatcher tags clicks with sequence numbers.
const GracePeriod = 100 * time.Millisecond

// Kind names the visual role of a mounted element.
type Kind int

const (
	KindTrigger Kind = iota
	KindLoading
	KindResult
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindTrigger:
		return "trigger"
	case KindLoading:
		return "loading"
	case KindResult:
		return "result"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Element is what a RenderFunc produces. View is called on every frame so
// animated elements can change their content; OnClick is optional.
type Element struct {
	Kind    Kind
	View    func() string
	OnClick func()
}

func (e Element) render() string {
	if e.View == nil {
		return ""
	}
	return e.View()
}

// RenderFunc builds the element for a mount.
type RenderFunc func() Element

// Rect is an area of the page in cell coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether p falls inside r.
func (r Rect) Contains(p pointer.Position) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Document is the surface mounted elements are attached to.
type Document interface {
	Attach(h *Handle)
	Detach(h *Handle)
}

// Scheduler runs fn on the event loop once delay has elapsed.
type Scheduler interface {
	Schedule(delay time.Duration, fn func())
}

// Mounter is the part of Manager that controllers depend on.
type Mounter interface {
	Mount(render RenderFunc, anchor pointer.Position) *Handle
}

// PlaceFunc adjusts the requested anchor for an element of the given size.
type PlaceFunc func(anchor pointer.Position, width, height int) pointer.Position

// Option configures a Manager.
type Option func(*Manager)

// WithPlacement installs a placement function, typically one that keeps
// elements inside the visible page width.
func WithPlacement(fn PlaceFunc) Option {
	return func(m *Manager) {
		m.place = fn
	}
}

// WithLogger sets the logger used for mount and dismissal events.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// Manager guarantees that at most one element is attached to its document.
type Manager struct {
	doc     Document
	sched   Scheduler
	place   PlaceFunc
	logger  zerolog.Logger
	current *Handle
	nextID  uint64
}

// NewManager returns a Manager attaching elements to doc and arming
// outside-click listeners through sched.
func NewManager(doc Document, sched Scheduler, opts ...Option) *Manager {
	m := &Manager{
		doc:    doc,
		sched:  sched,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mount dismisses the live element, if any, then builds, places and attaches
// the new one. The returned handle is the live handle until it is dismissed
// or replaced.
func (m *Manager) Mount(render RenderFunc, anchor pointer.Position) *Handle {
	m.DismissCurrent()

	element := render()
	view := element.render()
	width, height := lipgloss.Width(view), lipgloss.Height(view)
	origin := anchor
	if m.place != nil {
		origin = m.place(anchor, width, height)
	}

	m.nextID++
	h := &Handle{
		id:      m.nextID,
		manager: m,
		element: element,
		anchor:  anchor,
		bounds:  Rect{X: origin.X, Y: origin.Y, Width: width, Height: height},
	}
	m.doc.Attach(h)
	m.current = h
	m.sched.Schedule(GracePeriod, h.arm)

	m.logger.Debug().
		Uint64("overlay", h.id).
		Str("kind", element.Kind.String()).
		Int("x", origin.X).
		Int("y", origin.Y).
		Msg("overlay mounted")
	return h
}

// DismissCurrent releases the live element. It is a no-op when nothing is
// mounted.
func (m *Manager) DismissCurrent() {
	if m.current != nil {
		m.current.Dismiss()
	}
}

// Current returns the live handle or nil.
func (m *Manager) Current() *Handle {
	return m.current
}

// HandleClick is the capture-phase outside-click listener. A click outside an
// armed element dismisses it and reports true.
func (m *Manager) HandleClick(p pointer.Position) bool {
	h := m.current
	if h == nil || !h.armed || h.bounds.Contains(p) {
		return false
	}
	m.logger.Debug().Uint64("overlay", h.id).Msg("outside click")
	h.Dismiss()
	return true
}

// Hit returns the live handle when p falls inside it.
func (m *Manager) Hit(p pointer.Position) *Handle {
	if m.current == nil || !m.current.bounds.Contains(p) {
		return nil
	}
	return m.current
}

// Handle references one mounted element and its dismissal.
type Handle struct {
	id       uint64
	manager  *Manager
	element  Element
	anchor   pointer.Position
	bounds   Rect
	armed    bool
	released bool
}

func (h *Handle) ID() uint64 { return h.id }

func (h *Handle) Kind() Kind { return h.element.Kind }

// Anchor is the position the element was requested at, before placement.
func (h *Handle) Anchor() pointer.Position { return h.anchor }

// Bounds is the area the element occupies on the page.
func (h *Handle) Bounds() Rect { return h.bounds }

// View renders the element's current content.
func (h *Handle) View() string { return h.element.render() }

// Live reports whether the element is still attached.
func (h *Handle) Live() bool { return !h.released }

// Armed reports whether the outside-click listener is active.
func (h *Handle) Armed() bool { return h.armed && !h.released }

// Click runs the element's click handler. It reports true when the click was
// consumed and must not propagate to the document.
func (h *Handle) Click() bool {
	if h.released || h.element.OnClick == nil {
		return false
	}
	h.element.OnClick()
	return true
}

// Dismiss detaches the element and disarms its listener. Calling it more
// than once has no further effect.
func (h *Handle) Dismiss() {
	if h.released {
		return
	}
	h.released = true
	h.armed = false
	h.manager.doc.Detach(h)
	if h.manager.current == h {
		h.manager.current = nil
	}
	h.manager.logger.Debug().
		Uint64("overlay", h.id).
		Str("kind", h.element.Kind.String()).
		Msg("overlay dismissed")
}

func (h *Handle) arm() {
	if h.released {
		return
	}
	h.armed = true
}
