// Package page holds the reader's wrapped text, scroll position and mouse
// selection, and composes floating overlays on top of the visible rows.
package page

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/csheth/hoverlate/internal/pointer"
)

const (
	defaultWidth  = 80
	defaultHeight = 20
	minWidth      = 10
	tabWidth      = 4
)

type line struct {
	text string
	// soft marks a line that continues the paragraph above it.
	soft bool
}

// Layer is a rendered block drawn over the page at a page position.
type Layer struct {
	X    int
	Y    int
	View string
}

// Page is not safe for concurrent use; it lives on the UI event loop.
type Page struct {
	paragraphs []string
	lines      []line
	width      int
	height     int
	offset     int

	anchor    pointer.Position
	head      pointer.Position
	selecting bool

	selectionStyle lipgloss.Style
}

// New returns an empty page with a default size.
func New() *Page {
	return &Page{
		width:          defaultWidth,
		height:         defaultHeight,
		selectionStyle: lipgloss.NewStyle().Reverse(true),
	}
}

// SetSelectionStyle overrides the style used to highlight selected cells.
func (p *Page) SetSelectionStyle(style lipgloss.Style) {
	p.selectionStyle = style
}

// SetContent replaces the page text. Every input line is a hard break.
func (p *Page) SetContent(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth))
	p.paragraphs = strings.Split(text, "\n")
	p.offset = 0
	p.ClearSelection()
	p.rewrap()
}

// SetSize rewraps the text for a new viewport. The selection is dropped
// because its cell coordinates no longer match.
func (p *Page) SetSize(width, height int) {
	if width < minWidth {
		width = minWidth
	}
	if height < 1 {
		height = 1
	}
	if width == p.width && height == p.height {
		return
	}
	p.width, p.height = width, height
	p.ClearSelection()
	p.rewrap()
}

func (p *Page) rewrap() {
	p.lines = p.lines[:0]
	for _, paragraph := range p.paragraphs {
		paragraph = strings.TrimRight(paragraph, " ")
		if paragraph == "" {
			p.lines = append(p.lines, line{})
			continue
		}
		wrapped := wrap.String(wordwrap.String(paragraph, p.width), p.width)
		for i, text := range strings.Split(wrapped, "\n") {
			p.lines = append(p.lines, line{text: strings.TrimRight(text, " "), soft: i > 0})
		}
	}
	p.clampOffset()
}

func (p *Page) Width() int  { return p.width }
func (p *Page) Height() int { return p.height }

// LineCount is the number of wrapped lines.
func (p *Page) LineCount() int { return len(p.lines) }

// Line returns the text of wrapped line i, or "" when out of range.
func (p *Page) Line(i int) string {
	if i < 0 || i >= len(p.lines) {
		return ""
	}
	return p.lines[i].text
}

// Offset is the index of the first visible line.
func (p *Page) Offset() int { return p.offset }

// MaxOffset is the largest offset that still fills the viewport.
func (p *Page) MaxOffset() int {
	if n := len(p.lines) - p.height; n > 0 {
		return n
	}
	return 0
}

// ScrollBy moves the viewport by delta lines and reports whether it moved.
func (p *Page) ScrollBy(delta int) bool {
	return p.ScrollTo(p.offset + delta)
}

// ScrollTo moves the viewport so that line top is the first visible line.
func (p *Page) ScrollTo(top int) bool {
	before := p.offset
	p.offset = top
	p.clampOffset()
	return p.offset != before
}

func (p *Page) clampOffset() {
	if p.offset > p.MaxOffset() {
		p.offset = p.MaxOffset()
	}
	if p.offset < 0 {
		p.offset = 0
	}
}

// AtEnd reports whether the last line is visible.
func (p *Page) AtEnd() bool { return p.offset >= p.MaxOffset() }

// ToPage converts a viewport row and column into page coordinates.
func (p *Page) ToPage(col, row int) pointer.Position {
	return pointer.Position{X: col, Y: row + p.offset}
}

// BeginSelection starts a new selection at pos; it stays empty until
// ExtendSelection moves the head.
func (p *Page) BeginSelection(pos pointer.Position) {
	pos = p.clamp(pos)
	p.anchor, p.head = pos, pos
	p.selecting = true
}

// ExtendSelection moves the selection head. It is a no-op when no selection
// was begun.
func (p *Page) ExtendSelection(pos pointer.Position) {
	if !p.selecting {
		return
	}
	p.head = p.clamp(pos)
}

// ClearSelection removes the selection.
func (p *Page) ClearSelection() {
	p.selecting = false
	p.anchor, p.head = pointer.Position{}, pointer.Position{}
}

// HasSelection reports whether at least one cell is selected.
func (p *Page) HasSelection() bool {
	return p.selecting && p.anchor != p.head
}

func (p *Page) clamp(pos pointer.Position) pointer.Position {
	if pos.X < 0 {
		pos.X = 0
	}
	if pos.Y < 0 {
		pos.Y = 0
	}
	if last := len(p.lines) - 1; pos.Y > last {
		if last < 0 {
			last = 0
		}
		pos.Y = last
	}
	return pos
}

func (p *Page) bounds() (start, end pointer.Position) {
	start, end = p.anchor, p.head
	if end.Y < start.Y || (end.Y == start.Y && end.X < start.X) {
		start, end = end, start
	}
	return start, end
}

// span returns the selected cells of line idx; to is -1 when the selection
// runs past the end of the line.
func (p *Page) span(idx int) (from, to int, ok bool) {
	if !p.HasSelection() {
		return 0, 0, false
	}
	start, end := p.bounds()
	if idx < start.Y || idx > end.Y {
		return 0, 0, false
	}
	from, to = 0, -1
	if idx == start.Y {
		from = start.X
	}
	if idx == end.Y {
		to = runeEnd(p.Line(idx), end.X)
	}
	return from, to, true
}

// runeEnd returns the column just past the rune covering cell x, so the cell
// under the pointer is part of the selection.
func runeEnd(s string, x int) int {
	col := 0
	for _, r := range s {
		col += runewidth.RuneWidth(r)
		if x < col {
			return col
		}
	}
	return x + 1
}

// SelectedText returns the selected characters. Lines split by wrapping are
// joined with a space; hard breaks are kept as newlines.
func (p *Page) SelectedText() string {
	if !p.HasSelection() {
		return ""
	}
	start, end := p.bounds()
	var b strings.Builder
	for idx := start.Y; idx <= end.Y && idx < len(p.lines); idx++ {
		if idx > start.Y {
			if p.lines[idx].soft {
				b.WriteByte(' ')
			} else {
				b.WriteByte('\n')
			}
		}
		text := p.lines[idx].text
		from, to, _ := p.span(idx)
		width := runewidth.StringWidth(text)
		if to < 0 || to > width {
			to = width
		}
		if from < to {
			b.WriteString(sliceCells(text, from, to))
		}
	}
	return b.String()
}

// Place keeps a block of the given size inside the page width and the
// visible rows. A block taller than the viewport starts at its top row.
func (p *Page) Place(anchor pointer.Position, width, height int) pointer.Position {
	anchor.X = min(anchor.X, p.width-width)
	anchor.X = max(anchor.X, 0)

	top := p.offset
	bottom := max(p.offset+p.height-height, top)
	anchor.Y = min(max(anchor.Y, top), bottom)
	return anchor
}

type block struct {
	x, y  int
	width int
	rows  []string
}

// Render draws the visible rows with the selection highlighted and layers
// composed on top.
func (p *Page) Render(layers ...Layer) string {
	blocks := make([]block, 0, len(layers))
	for _, layer := range layers {
		if layer.View == "" {
			continue
		}
		blocks = append(blocks, block{
			x:     layer.X,
			y:     layer.Y,
			width: lipgloss.Width(layer.View),
			rows:  strings.Split(layer.View, "\n"),
		})
	}
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].x < blocks[j].x })

	rows := make([]string, p.height)
	for row := range rows {
		rows[row] = p.renderRow(p.offset+row, blocks)
	}
	return strings.Join(rows, "\n")
}

func (p *Page) renderRow(idx int, blocks []block) string {
	text := p.Line(idx)
	var b strings.Builder
	col := 0
	for _, blk := range blocks {
		row := idx - blk.y
		if row < 0 || row >= len(blk.rows) || blk.x < col {
			continue
		}
		b.WriteString(p.styledCells(idx, text, col, blk.x))
		cells := blk.rows[row]
		b.WriteString(cells)
		if pad := blk.width - lipgloss.Width(cells); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		col = blk.x + blk.width
	}
	b.WriteString(p.styledCells(idx, text, col, -1))
	return b.String()
}

// styledCells renders cells [from, to) of text, padding past its end. A
// negative to stops at the end of the text.
func (p *Page) styledCells(idx int, text string, from, to int) string {
	if to < 0 {
		to = runewidth.StringWidth(text)
	}
	if from >= to {
		return ""
	}
	selFrom, selTo, ok := p.span(idx)
	if !ok {
		return sliceCells(text, from, to)
	}
	if selTo < 0 {
		selTo = runewidth.StringWidth(text)
	}
	selFrom, selTo = max(selFrom, from), min(selTo, to)
	if selFrom >= selTo {
		return sliceCells(text, from, to)
	}
	return sliceCells(text, from, selFrom) +
		p.selectionStyle.Render(sliceCells(text, selFrom, selTo)) +
		sliceCells(text, selTo, to)
}

// sliceCells returns the terminal cells [from, to) of s. Wide runes cut by a
// boundary become spaces, and the result is padded when s is shorter.
func sliceCells(s string, from, to int) string {
	if from >= to {
		return ""
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if col >= to {
			break
		}
		w := runewidth.RuneWidth(r)
		if w == 0 {
			if col >= from {
				b.WriteRune(r)
			}
			continue
		}
		end := col + w
		switch {
		case end <= from:
		case col >= from && end <= to:
			b.WriteRune(r)
		default:
			b.WriteString(strings.Repeat(" ", min(end, to)-max(col, from)))
		}
		col = end
	}
	if col < to {
		b.WriteString(strings.Repeat(" ", to-max(col, from)))
	}
	return b.String()
}
