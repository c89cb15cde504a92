package page

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/csheth/hoverlate/internal/pointer"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func newTestPage(width, height int, text string) *Page {
	p := New()
	p.SetSize(width, height)
	p.SetContent(text)
	return p
}

func TestWrapsParagraphsToWidth(t *testing.T) {
	p := newTestPage(20, 5, "the quick brown fox jumps over the lazy dog\n\nsecond")

	require.Equal(t, 5, p.LineCount())
	require.Equal(t, "the quick brown fox", p.Line(0))
	require.Equal(t, "jumps over the lazy", p.Line(1))
	require.Equal(t, "dog", p.Line(2))
	require.Equal(t, "", p.Line(3))
	require.Equal(t, "second", p.Line(4))
}

func TestLongWordsAreHardWrapped(t *testing.T) {
	p := newTestPage(10, 5, strings.Repeat("x", 25))

	require.Equal(t, 3, p.LineCount())
	require.Equal(t, strings.Repeat("x", 10), p.Line(0))
	require.Equal(t, strings.Repeat("x", 5), p.Line(2))
}

func TestSelectionAcrossSoftWrapJoinsWithSpace(t *testing.T) {
	p := newTestPage(20, 5, "the quick brown fox jumps over the lazy dog")

	p.BeginSelection(pointer.Position{X: 4, Y: 0})
	p.ExtendSelection(pointer.Position{X: 4, Y: 1})

	require.True(t, p.HasSelection())
	require.Equal(t, "quick brown fox jumps", p.SelectedText())
}

func TestSelectionKeepsHardBreaks(t *testing.T) {
	p := newTestPage(40, 5, "first line\nsecond line")

	p.BeginSelection(pointer.Position{X: 6, Y: 0})
	p.ExtendSelection(pointer.Position{X: 5, Y: 1})

	require.Equal(t, "line\nsecond", p.SelectedText())
}

func TestBackwardDragMatchesForwardDrag(t *testing.T) {
	p := newTestPage(40, 5, "hello world")

	p.BeginSelection(pointer.Position{X: 10, Y: 0})
	p.ExtendSelection(pointer.Position{X: 6, Y: 0})

	require.Equal(t, "world", p.SelectedText())
}

func TestSelectionIncludesCellUnderPointer(t *testing.T) {
	p := newTestPage(40, 5, "hello world")

	p.BeginSelection(pointer.Position{X: 0, Y: 0})
	p.ExtendSelection(pointer.Position{X: 4, Y: 0})

	require.Equal(t, "hello", p.SelectedText())
}

func TestSelectionEndingOnWideRuneTakesWholeRune(t *testing.T) {
	p := newTestPage(40, 5, "你好世界")

	p.BeginSelection(pointer.Position{X: 0, Y: 0})
	p.ExtendSelection(pointer.Position{X: 2, Y: 0})

	require.Equal(t, "你好", p.SelectedText())
}

func TestClickWithoutDragSelectsNothing(t *testing.T) {
	p := newTestPage(40, 5, "hello world")

	p.BeginSelection(pointer.Position{X: 3, Y: 0})

	require.False(t, p.HasSelection())
	require.Empty(t, p.SelectedText())
}

func TestSelectionPastLineEndStopsAtText(t *testing.T) {
	p := newTestPage(40, 5, "hello")

	p.BeginSelection(pointer.Position{X: 2, Y: 0})
	p.ExtendSelection(pointer.Position{X: 30, Y: 9})

	require.Equal(t, "llo", p.SelectedText())
}

func TestExtendWithoutBeginIsIgnored(t *testing.T) {
	p := newTestPage(40, 5, "hello")

	p.ExtendSelection(pointer.Position{X: 3, Y: 0})

	require.False(t, p.HasSelection())
}

func TestResizeDropsSelection(t *testing.T) {
	p := newTestPage(40, 5, "hello world")
	p.BeginSelection(pointer.Position{X: 0, Y: 0})
	p.ExtendSelection(pointer.Position{X: 5, Y: 0})

	p.SetSize(30, 5)

	require.False(t, p.HasSelection())
}

func TestScrollIsClamped(t *testing.T) {
	p := newTestPage(20, 3, "a\nb\nc\nd\ne")

	require.Equal(t, 2, p.MaxOffset())
	require.True(t, p.ScrollBy(10))
	require.Equal(t, 2, p.Offset())
	require.True(t, p.AtEnd())
	require.False(t, p.ScrollBy(1))
	require.True(t, p.ScrollTo(-4))
	require.Zero(t, p.Offset())
	require.Equal(t, pointer.Position{X: 3, Y: 1}, p.ToPage(3, 1))

	p.ScrollBy(1)
	require.Equal(t, pointer.Position{X: 3, Y: 2}, p.ToPage(3, 1))
}

func TestPlaceKeepsBlockInsideWidth(t *testing.T) {
	p := newTestPage(40, 5, "")

	require.Equal(t, pointer.Position{X: 30, Y: 2}, p.Place(pointer.Position{X: 35, Y: 2}, 10, 3))
	require.Equal(t, pointer.Position{X: 0, Y: 0}, p.Place(pointer.Position{X: -3, Y: -1}, 10, 3))
	require.Equal(t, pointer.Position{X: 0, Y: 4}, p.Place(pointer.Position{X: 5, Y: 4}, 60, 1))
}

func TestPlaceKeepsBlockInsideVisibleRows(t *testing.T) {
	lines := make([]string, 30)
	for i := range lines {
		lines[i] = "line"
	}
	p := newTestPage(40, 22, strings.Join(lines, "\n"))
	p.ScrollTo(p.MaxOffset())
	require.Equal(t, 8, p.Offset())

	// Anchored one row below the last visible line.
	require.Equal(t, pointer.Position{X: 5, Y: 29}, p.Place(pointer.Position{X: 5, Y: 30}, 9, 1))
	require.Equal(t, pointer.Position{X: 5, Y: 25}, p.Place(pointer.Position{X: 5, Y: 30}, 9, 5))
	// Above the viewport.
	require.Equal(t, pointer.Position{X: 5, Y: 8}, p.Place(pointer.Position{X: 5, Y: 2}, 9, 1))
	// Taller than the viewport.
	require.Equal(t, pointer.Position{X: 5, Y: 8}, p.Place(pointer.Position{X: 5, Y: 20}, 9, 40))
}

func TestPlacedBlockIsRendered(t *testing.T) {
	p := newTestPage(20, 3, "a\nb\nc\nd\ne")
	p.ScrollTo(p.MaxOffset())

	at := p.Place(pointer.Position{X: 2, Y: 5}, 3, 1)
	out := strings.Split(stripANSI(p.Render(Layer{X: at.X, Y: at.Y, View: "btn"})), "\n")

	require.Equal(t, "e btn", out[2])
}

func TestRenderComposesLayers(t *testing.T) {
	p := newTestPage(20, 3, "hello world\nsecond row")

	out := p.Render(Layer{X: 6, Y: 0, View: "AB\nCD"})

	require.Equal(t, []string{"hello ABrld", "secondCDow", ""}, strings.Split(stripANSI(out), "\n"))
}

func TestRenderPadsLayersPastLineEnd(t *testing.T) {
	p := newTestPage(20, 2, "hi")

	out := p.Render(Layer{X: 5, Y: 1, View: "box"})

	require.Equal(t, []string{"hi", "     box"}, strings.Split(stripANSI(out), "\n"))
}

func TestRenderFollowsScrollOffset(t *testing.T) {
	p := newTestPage(20, 2, "a\nb\nc\nd")
	p.ScrollTo(2)

	out := p.Render(Layer{X: 0, Y: 0, View: "hidden"}, Layer{X: 2, Y: 3, View: "!"})

	require.Equal(t, []string{"c", "d !"}, strings.Split(stripANSI(out), "\n"))
}

func TestRenderHighlightsSelection(t *testing.T) {
	p := newTestPage(20, 1, "hello world")
	p.BeginSelection(pointer.Position{X: 0, Y: 0})
	p.ExtendSelection(pointer.Position{X: 5, Y: 0})

	out := p.Render()

	require.Equal(t, "hello world", stripANSI(out))
}

func TestSliceCellsHandlesWideRunes(t *testing.T) {
	require.Equal(t, "你", sliceCells("你好", 0, 2))
	require.Equal(t, "  ", sliceCells("你好", 1, 3))
	require.Equal(t, "ab  ", sliceCells("ab", 0, 4))
	require.Equal(t, "", sliceCells("ab", 3, 3))
}
