package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/csheth/hoverlate/internal/overlay"
	"github.com/csheth/hoverlate/internal/page"
	"github.com/csheth/hoverlate/internal/pointer"
	"github.com/csheth/hoverlate/internal/selection"
	"github.com/csheth/hoverlate/internal/source"
	"github.com/csheth/hoverlate/internal/translation"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Document   source.Document
	Translator translation.Translator
	// ModelName is shown in the status bar.
	ModelName string
	Timeout   time.Duration
	Logger    zerolog.Logger
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := &model{
		config:   config,
		layout:   newPageLayout(),
		page:     page.New(),
		tracker:  pointer.NewTracker(),
		document: &layerDocument{},
		spinner:  spin,
	}
	m.loop = newEventLoop(newJobBus(config.Logger))
	m.overlays = overlay.NewManager(m.document, m.loop,
		overlay.WithPlacement(m.page.Place),
		overlay.WithLogger(config.Logger),
	)
	views := &overlayViews{
		sched:       m.loop,
		spinnerView: func() string { return m.spinner.View() },
		pageWidth:   m.page.Width,
	}
	m.orchestrator = translation.NewOrchestrator(translation.Config{
		Overlays:   m.overlays,
		Translator: config.Translator,
		Executor:   m.loop,
		Views:      views,
		Timeout:    config.Timeout,
		Logger:     config.Logger,
	})
	m.selection = selection.New(selection.Config{
		Source:      m.page,
		Tracker:     m.tracker,
		Overlays:    m.overlays,
		Activator:   m.orchestrator,
		TriggerView: views.Trigger,
		Offset:      pointer.Position{X: triggerOffsetCells, Y: triggerOffsetCells},
		Logger:      config.Logger,
	})
	m.page.SetSelectionStyle(selectionStyle)
	m.page.SetContent(config.Document.Text)
	m.page.SetSize(m.layout.pageWidth, m.layout.pageHeight)
	return m
}

type model struct {
	config Config
	layout pageLayout

	page         *page.Page
	tracker      *pointer.Tracker
	document     *layerDocument
	loop         *eventLoop
	overlays     *overlay.Manager
	selection    *selection.Controller
	orchestrator *translation.Orchestrator

	spinner  spinner.Model
	spinning bool

	dragging       bool
	pressOnOverlay bool

	lastRequest requestRecord
	quitting bool
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	case tea.MouseMsg:
		m.handleMouse(msg)
	case callbackMsg:
		msg.fn()
	case requestStartedMsg:
		m.lastRequest = msg.Record
	case requestFinishedMsg:
		m.lastRequest = msg.Record
		msg.Outcome.deliver()
	case spinner.TickMsg:
		if m.loadingVisible() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		} else {
			m.spinning = false
		}
	}

	cmds = append(cmds, m.loop.drain()...)
	if m.loadingVisible() && !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

func (m *model) resize(width, height int) {
	m.layout.Update(width, height)
	if m.page.Width() != m.layout.pageWidth || m.page.Height() != m.layout.pageHeight {
		// Overlay positions refer to the old wrapping.
		m.overlays.DismissCurrent()
		m.dragging = false
	}
	m.page.SetSize(m.layout.pageWidth, m.layout.pageHeight)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		m.loop.jobs.Shutdown()
		return tea.Quit
	case "esc":
		m.overlays.DismissCurrent()
		m.page.ClearSelection()
	case "t", "enter":
		m.selection.ActivateTrigger()
	case "j", "down":
		m.page.ScrollBy(1)
	case "k", "up":
		m.page.ScrollBy(-1)
	case "pgdown", " ", "f":
		m.page.ScrollBy(m.page.Height())
	case "pgup", "b":
		m.page.ScrollBy(-m.page.Height())
	case "g", "home":
		m.page.ScrollTo(0)
	case "G", "end":
		m.page.ScrollTo(m.page.MaxOffset())
	}
	return nil
}

func (m *model) pagePosition(x, y int) pointer.Position {
	col, row := m.layout.viewportCell(x, y)
	return m.page.ToPage(col, row)
}

// handleMouse turns raw mouse reports into pointer movement, drag selection
// and clicks. A press, optional drag and release form one click, dispatched
// on release.
func (m *model) handleMouse(msg tea.MouseMsg) {
	switch msg.Type {
	case tea.MouseWheelUp:
		m.page.ScrollBy(-wheelStep)
		return
	case tea.MouseWheelDown:
		m.page.ScrollBy(wheelStep)
		return
	case tea.MouseRight, tea.MouseMiddle:
		return
	}

	pos := m.pagePosition(msg.X, msg.Y)
	m.tracker.Move(pos)

	switch msg.Type {
	case tea.MouseLeft:
		if m.dragging {
			if !m.pressOnOverlay {
				m.page.ExtendSelection(pos)
			}
			return
		}
		m.dragging = true
		m.pressOnOverlay = m.overlays.Hit(pos) != nil
		if m.pressOnOverlay {
			m.page.ClearSelection()
			return
		}
		m.page.BeginSelection(pos)
	case tea.MouseRelease:
		if !m.dragging {
			return
		}
		if !m.pressOnOverlay {
			m.page.ExtendSelection(pos)
		}
		m.dragging = false
		m.pressOnOverlay = false
		m.dispatchClick(pos)
	}
}

// dispatchClick delivers a click in capture, target and bubble order.
func (m *model) dispatchClick(pos pointer.Position) {
	m.overlays.HandleClick(pos)
	if target := m.overlays.Hit(pos); target != nil && target.Click() {
		return
	}
	m.selection.OnDocumentClick()
}

func (m *model) loadingVisible() bool {
	current := m.overlays.Current()
	return current != nil && current.Kind() == overlay.KindLoading
}

func (m *model) phase() phase {
	if current := m.overlays.Current(); current != nil {
		switch current.Kind() {
		case overlay.KindTrigger:
			return phaseTrigger
		case overlay.KindLoading:
			return phaseTranslating
		case overlay.KindResult:
			return phaseResult
		case overlay.KindError:
			return phaseError
		}
	}
	if m.page.HasSelection() {
		return phaseSelecting
	}
	return phaseReading
}
