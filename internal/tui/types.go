package tui

import "time"

type phase int

const (
	phaseReading phase = iota
	phaseSelecting
	phaseTrigger
	phaseTranslating
	phaseResult
	phaseError
)

func (p phase) String() string {
	switch p {
	case phaseSelecting:
		return "SELECT"
	case phaseTrigger:
		return "TRIGGER"
	case phaseTranslating:
		return "TRANSLATING"
	case phaseResult:
		return "RESULT"
	case phaseError:
		return "ERROR"
	default:
		return "READ"
	}
}

const (
	minViewportWidth          = 20
	viewportHorizontalPadding = 4
	headerHeight              = 1
	statusHeight              = 1
	wheelStep                 = 3
)

const (
	// resultPanelWidth caps result and error panels, borders included.
	resultPanelWidth = 48
	fadeInDuration   = 300 * time.Millisecond
	loadingLabel     = "Translating…"
	triggerLabel     = "translate"
	errorPrefix      = "Translation Error: "
)

// triggerOffsetCells places the trigger diagonally next to the pointer.
const triggerOffsetCells = 1

const idleHint = "Drag to select text, release, then click translate."
