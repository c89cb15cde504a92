package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	body := m.page.Render(m.document.Layers()...)
	margin := strings.Repeat(" ", m.layout.marginX)
	return strings.Join([]string{
		m.headerView(),
		indentMultiline(body, margin),
		m.statusBarView(),
	}, "\n")
}

func (m *model) headerView() string {
	title := strings.TrimSpace(m.config.Document.Title)
	if title == "" {
		title = "hoverlate"
	}
	header := titleStyle.Render(previewText(title, 48))
	if hint := helperStyle.Render("  " + idleHint); lipgloss.Width(header)+lipgloss.Width(hint) <= m.layout.windowWidth {
		header += hint
	}
	return header
}

func (m *model) statusBarView() string {
	stats := []string{
		fmt.Sprintf("Mode %s", m.phase()),
		fmt.Sprintf("Line %d/%d", min(m.page.Offset()+1, m.page.LineCount()), m.page.LineCount()),
	}
	if name := strings.TrimSpace(m.config.ModelName); name != "" {
		stats = append(stats, name)
	}
	if n := m.orchestrator.InFlight(); n > 0 {
		stats = append(stats, fmt.Sprintf("In flight %d", n))
	}
	if badge := m.jobBadge(); badge != "" {
		stats = append(stats, badge)
	}
	return statusBarStyle.MaxWidth(max(m.layout.windowWidth, 1)).Render(strings.Join(stats, "  •  "))
}

func (m *model) jobBadge() string {
	switch m.lastRequest.State {
	case requestDone:
		return fmt.Sprintf("Last %s", m.lastRequest.Elapsed.Round(10*time.Millisecond))
	case requestFailed:
		return "Last failed"
	default:
		return ""
	}
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helperStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	selectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#bde0fe"))
)
