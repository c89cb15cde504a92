package selection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/csheth/hoverlate/internal/overlay"
	"github.com/csheth/hoverlate/internal/overlay/overlaytest"
	"github.com/csheth/hoverlate/internal/pointer"
)

type fakeSource struct{ text string }

func (f *fakeSource) SelectedText() string { return f.text }

type recordingActivator struct {
	requests []Request
	onCall   func(Request)
}

func (r *recordingActivator) Activate(req Request) {
	r.requests = append(r.requests, req)
	if r.onCall != nil {
		r.onCall(req)
	}
}

type fixture struct {
	source    *fakeSource
	tracker   *pointer.Tracker
	doc       *overlaytest.Document
	sched     *overlaytest.Scheduler
	overlays  *overlay.Manager
	activator *recordingActivator
	ctrl      *Controller
}

func newFixture() *fixture {
	f := &fixture{
		source:    &fakeSource{},
		tracker:   pointer.NewTracker(),
		doc:       &overlaytest.Document{},
		sched:     &overlaytest.Scheduler{},
		activator: &recordingActivator{},
	}
	f.overlays = overlay.NewManager(f.doc, f.sched)
	f.ctrl = New(Config{
		Source:    f.source,
		Tracker:   f.tracker,
		Overlays:  f.overlays,
		Activator: f.activator,
	})
	return f
}

func TestClickWithSelectionShowsTrigger(t *testing.T) {
	f := newFixture()
	f.source.text = "  hello  "
	f.tracker.Move(pointer.Position{X: 3, Y: 7})

	f.ctrl.OnDocumentClick()

	require.Equal(t, TriggerShown, f.ctrl.State())
	require.Equal(t, []overlay.Kind{overlay.KindTrigger}, f.doc.Kinds())
	h := f.overlays.Current()
	require.Equal(t, pointer.Position{X: 13, Y: 17}, h.Anchor())
	require.Equal(t, "translate", h.View())
}

func TestConfiguredOffsetAnchorsTrigger(t *testing.T) {
	f := newFixture()
	f.ctrl = New(Config{
		Source:   f.source,
		Tracker:  f.tracker,
		Overlays: f.overlays,
		Offset:   pointer.Position{X: 1, Y: 1},
	})
	f.source.text = "hello"
	f.tracker.Move(pointer.Position{X: 3, Y: 7})

	f.ctrl.OnDocumentClick()

	require.Equal(t, pointer.Position{X: 4, Y: 8}, f.overlays.Current().Anchor())
}

func TestWhitespaceSelectionStaysIdle(t *testing.T) {
	f := newFixture()
	f.source.text = "  \n\t "

	f.ctrl.OnDocumentClick()

	require.Equal(t, Idle, f.ctrl.State())
	require.Empty(t, f.doc.Events)
}

func TestTriggerClickHandsTrimmedRequestToActivator(t *testing.T) {
	f := newFixture()
	f.source.text = " hello "
	f.tracker.Move(pointer.Position{X: 1, Y: 1})
	f.ctrl.OnDocumentClick()

	// selection changes after the trigger was shown; the request keeps the original text
	f.source.text = ""
	require.True(t, f.overlays.Current().Click())

	require.Len(t, f.activator.requests, 1)
	require.Equal(t, Request{Text: "hello", Position: pointer.Position{X: 11, Y: 11}}, f.activator.requests[0])
	require.Equal(t, Idle, f.ctrl.State())
	require.Empty(t, f.doc.Attached, "trigger removes itself when the activator mounts nothing")
}

func TestTriggerHandsOverSlotToActivatorMount(t *testing.T) {
	f := newFixture()
	f.activator.onCall = func(req Request) {
		f.overlays.Mount(func() overlay.Element {
			return overlay.Element{Kind: overlay.KindLoading, View: func() string { return "..." }}
		}, req.Position)
	}
	f.source.text = "hello"
	f.ctrl.OnDocumentClick()
	trigger := f.overlays.Current()

	require.True(t, trigger.Click())

	require.Equal(t, []overlay.Kind{overlay.KindLoading}, f.doc.Kinds())
	require.Equal(t, 1, f.doc.Detaches(trigger))
}

func TestNewClickReplacesStaleTrigger(t *testing.T) {
	f := newFixture()
	f.source.text = "first"
	f.ctrl.OnDocumentClick()
	f.source.text = "second"
	f.tracker.Move(pointer.Position{X: 5, Y: 5})
	f.ctrl.OnDocumentClick()

	require.Len(t, f.doc.Attached, 1)
	require.True(t, f.ctrl.ActivateTrigger())
	require.Equal(t, "second", f.activator.requests[0].Text)
}

func TestOutsideClickDismissalReturnsToIdle(t *testing.T) {
	f := newFixture()
	f.source.text = "hello"
	f.ctrl.OnDocumentClick()
	f.sched.Flush()

	require.True(t, f.overlays.HandleClick(pointer.Position{X: 0, Y: 0}))
	require.Equal(t, Idle, f.ctrl.State())
	require.False(t, f.ctrl.ActivateTrigger())
	require.Empty(t, f.activator.requests)
}
