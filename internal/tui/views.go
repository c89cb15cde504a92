package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/csheth/hoverlate/internal/overlay"
	"github.com/csheth/hoverlate/internal/translation"
)

// overlayViews renders the trigger, loading and outcome elements.
type overlayViews struct {
	sched       overlay.Scheduler
	spinnerView func() string
	// pageWidth bounds panels on narrow terminals; nil means no bound.
	pageWidth func() int
}

func (v *overlayViews) Trigger() string {
	return triggerStyle.Render(triggerLabel)
}

func (v *overlayViews) Loading() overlay.RenderFunc {
	return func() overlay.Element {
		return overlay.Element{
			Kind: overlay.KindLoading,
			View: func() string {
				return loadingStyle.Render(v.spinnerView() + " " + loadingLabel)
			},
		}
	}
}

func (v *overlayViews) Outcome(out translation.Outcome) overlay.RenderFunc {
	return func() overlay.Element {
		kind, style, body := overlay.KindResult, resultPanelStyle, ""
		width := v.panelWidth()
		switch o := out.(type) {
		case translation.Success:
			body = panelBody(o.Text, width)
			if o.SourceLanguage != "" {
				body = panelLabelStyle.Render("from "+o.SourceLanguage) + "\n" + body
			}
		case translation.Failure:
			kind, style = overlay.KindError, errorPanelStyle
			body = panelBody(errorPrefix+o.Message, width)
		}
		fade := &fadeIn{
			faint: style.Faint(true).Render(body),
			full:  style.Render(body),
		}
		v.sched.Schedule(fadeInDuration, fade.finish)
		return overlay.Element{Kind: kind, View: fade.View}
	}
}

// panelWidth is the outer width of result and error panels.
func (v *overlayViews) panelWidth() int {
	if v.pageWidth == nil {
		return resultPanelWidth
	}
	return min(resultPanelWidth, v.pageWidth())
}

func panelBody(text string, width int) string {
	inner := max(width-resultPanelStyle.GetHorizontalFrameSize(), 1)
	return wrap.String(wordwrap.String(strings.TrimSpace(text), inner), inner)
}

// fadeIn shows a faint rendering until the fade duration has elapsed.
type fadeIn struct {
	faint string
	full  string
	done  bool
}

func (f *fadeIn) finish() { f.done = true }

func (f *fadeIn) View() string {
	if f.done {
		return f.full
	}
	return f.faint
}

var (
	accentColor = lipgloss.Color("#4285f4")

	triggerStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(accentColor).Padding(0, 1)
	loadingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#333333")).Background(lipgloss.Color("#ffffff")).Border(lipgloss.ThickBorder(), false, false, false, true).BorderForeground(accentColor).Padding(0, 1)
	resultPanelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#333333")).Background(lipgloss.Color("#ffffff")).Border(lipgloss.ThickBorder(), false, false, false, true).BorderForeground(accentColor).Padding(0, 1)
	errorPanelStyle  = resultPanelStyle.Copy().Foreground(lipgloss.Color("#b00020")).BorderForeground(lipgloss.Color("#b00020"))
	panelLabelStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#70757a"))
)
