package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"retrato/internal/color"
	"retrato/internal/tui/model"
)

// PrepareLogContent styles log lines by level and cuts them to maxWidth
// display cells so the viewport never wraps.
func PrepareLogContent(lines []string, maxWidth int) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if maxWidth > 1 && runewidth.StringWidth(line) > maxWidth {
			line = runewidth.Truncate(line, maxWidth, "…")
		}
		out[i] = styleLogLine(line)
	}
	return strings.Join(out, "\n")
}

func styleLogLine(l string) string {
	switch {
	case strings.Contains(l, "[ERROR]"):
		return color.LogErrorStyle.Render(l)
	case strings.Contains(l, "[WARN]"):
		return color.LogWarnStyle.Render(l)
	case strings.Contains(l, "[DEBUG]"):
		return color.LogDebugStyle.Render(l)
	default:
		return color.LogInfoStyle.Render(l)
	}
}

func renderLogOverlay(m *model.Model) string {
	title := color.LogPanelTitleStyle.Render("Activity Log  (↑/↓ scroll • y copy • Esc close)")
	content := lipgloss.JoinVertical(lipgloss.Left, title, m.LogViewport.View())
	return color.LogOverlayStyle.
		Width(max(m.Width-color.LogOverlayStyle.GetHorizontalFrameSize(), 0)).
		Render(content)
}

// renderLogPanel shows the newest lines under the wizard.
func renderLogPanel(m *model.Model, width int) string {
	lines := m.ActivityLog
	if len(lines) > logPanelLines {
		lines = lines[len(lines)-logPanelLines:]
	}
	title := color.LogPanelTitleStyle.Render("Activity")
	body := PrepareLogContent(lines, width-4)
	return color.PanelStyle.Width(max(width-2, 0)).Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}
