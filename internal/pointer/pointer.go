package pointer

// Position is a cell coordinate relative to the page's scrollable content:
// Y counts document rows, not screen rows.
type Position struct {
	X int
	Y int
}

// Offset returns p shifted by dx columns and dy rows.
func (p Position) Offset(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Tracker remembers the latest pointer position seen on the page.
type Tracker struct {
	current Position
}

// NewTracker returns a tracker positioned at the page origin.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Move records p as the latest pointer position.
func (t *Tracker) Move(p Position) {
	t.current = p
}

// Current returns the last recorded position, or the origin before any movement.
func (t *Tracker) Current() Position {
	return t.current
}
