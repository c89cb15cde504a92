package tui

import (
	"strings"

	"github.com/csheth/hoverlate/internal/pointer"
)

// pageLayout maps the terminal window onto the page area between the header
// and the status bar.
type pageLayout struct {
	windowWidth  int
	windowHeight int
	pageWidth    int
	pageHeight   int
	marginX      int
	marginY      int
}

func newPageLayout() pageLayout {
	l := pageLayout{}
	l.Update(80, 24)
	return l
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	l.marginX = viewportHorizontalPadding / 2
	l.marginY = headerHeight

	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.pageWidth = innerWidth

	contentHeight := height - headerHeight - statusHeight
	if contentHeight < 1 {
		contentHeight = 1
	}
	l.pageHeight = contentHeight
}

// viewportCell converts a screen cell into a column and row of the visible
// page area. Cells in the margins map outside the area.
func (l pageLayout) viewportCell(x, y int) (col, row int) {
	return x - l.marginX, y - l.marginY
}

// screenCell is the inverse of viewportCell for a page position at the given
// scroll offset.
func (l pageLayout) screenCell(p pointer.Position, offset int) (x, y int) {
	return p.X + l.marginX, p.Y - offset + l.marginY
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func previewText(value string, limit int) string {
	value = strings.Join(strings.Fields(value), " ")
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
