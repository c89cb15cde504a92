package tuitest

// X10 mouse reports, as sent by terminals with mouse tracking enabled.
// Coordinates are zero-based cells.

const (
	x10Left    = 0
	x10Release = 3
	x10Motion  = 32
	x10WheelUp = 64
	x10WheelDn = 65
)

func x10(button, x, y int) []byte {
	return []byte{0x1b, '[', 'M', byte(32 + button), byte(33 + x), byte(33 + y)}
}

// MousePress presses the left button at (x, y).
func MousePress(x, y int) []byte { return x10(x10Left, x, y) }

// MouseDrag moves the pointer to (x, y) with the left button held.
func MouseDrag(x, y int) []byte { return x10(x10Left|x10Motion, x, y) }

// MouseRelease releases the button at (x, y).
func MouseRelease(x, y int) []byte { return x10(x10Release, x, y) }

// MouseMove moves the pointer to (x, y) with no button held.
func MouseMove(x, y int) []byte { return x10(x10Release|x10Motion, x, y) }

// WheelUp scrolls up at (x, y).
func WheelUp(x, y int) []byte { return x10(x10WheelUp, x, y) }

// WheelDown scrolls down at (x, y).
func WheelDown(x, y int) []byte { return x10(x10WheelDn, x, y) }

// DragSteps selects from one cell to another as separate press, drag and
// release writes.
func DragSteps(fromX, fromY, toX, toY int) []Step {
	return []Step{
		{Input: MousePress(fromX, fromY)},
		{Input: MouseDrag(toX, toY)},
		{Input: MouseRelease(toX, toY)},
	}
}

// ClickSteps presses and releases at (x, y).
func ClickSteps(x, y int) []Step {
	return []Step{
		{Input: MousePress(x, y)},
		{Input: MouseRelease(x, y)},
	}
}
