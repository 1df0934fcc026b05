// Package view renders the TUI model. Nothing here mutates the model.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"retrato/internal/color"
	"retrato/internal/tui/model"
	"retrato/internal/wizard"
)

// Render returns the whole screen for the current model state.
func Render(m *model.Model) string {
	switch m.CurrentAppMode {
	case model.ModeQuitting:
		return m.QuittingMessage + "\n"
	case model.ModeHelpOverlay:
		return renderHelpOverlay(m)
	case model.ModeLogOverlay:
		return renderLogOverlay(m)
	}

	width := m.Width
	if width <= 0 {
		width = 80
	}

	sections := []string{
		renderHeader(m),
		renderStep(m),
	}
	if bar := renderStatusBar(m); bar != "" {
		sections = append(sections, bar)
	}
	if m.Height >= minHeightForLogPanel && len(m.ActivityLog) > 0 {
		sections = append(sections, renderLogPanel(m, width))
	}
	sections = append(sections, m.Help.View(m.Keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader shows the title and the four steps, the current one highlighted.
func renderHeader(m *model.Model) string {
	steps := []wizard.Step{wizard.StepIntro, wizard.StepHeight, wizard.StepPhoto, wizard.StepResult}
	parts := make([]string, len(steps))
	for i, s := range steps {
		label := fmt.Sprintf("%d %s", s.Number(), s)
		switch {
		case s == m.Step:
			parts[i] = color.StepActiveStyle.Render("● " + label)
		case s < m.Step:
			parts[i] = color.StepDoneStyle.Render("✓ " + label)
		default:
			parts[i] = color.StepPendingStyle.Render("○ " + label)
		}
	}
	title := color.TitleStyle.Render("retrato")
	return lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(parts, "  "), "")
}

func renderStep(m *model.Model) string {
	var body string
	switch m.Step {
	case wizard.StepIntro:
		body = renderIntro()
	case wizard.StepHeight:
		body = renderHeight(m)
	case wizard.StepPhoto:
		body = renderPhoto(m)
	case wizard.StepResult:
		body = renderResult(m)
	}
	return color.PanelStyle.Render(body)
}

func renderIntro() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		color.LabelStyle.Render("Welcome!"),
		"The robot will draw your portrait.",
		"",
		color.HintStyle.Render("Press enter to start."),
	)
}

func renderHeight(m *model.Model) string {
	lines := []string{
		color.LabelStyle.Render("How tall are you?"),
		"The robot positions its camera at your eye level.",
		"",
		m.HeightInput.View(),
	}
	lines = append(lines, renderActivity(m, wizard.AlertHeight, "Positioning robot...")...)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderPhoto(m *model.Model) string {
	lines := []string{color.LabelStyle.Render("Your photo")}

	switch {
	case m.PhotoPreview != "":
		lines = append(lines, m.PhotoPreview, color.HintStyle.Render(m.Photo.String()))
	case m.Photo != nil:
		lines = append(lines, color.ValueStyle.Render(m.Photo.String()))
	default:
		lines = append(lines, color.HintStyle.Render("No photo yet."))
	}
	lines = append(lines, "")

	if m.PathInputActive {
		lines = append(lines, m.PathInput.View(), color.HintStyle.Render("enter load • esc cancel"))
	} else if m.CaptureControls {
		lines = append(lines, color.HintStyle.Render("s take photo • o load file"))
	} else {
		lines = append(lines, color.HintStyle.Render("r retake • enter confirm"))
	}

	if m.Features.TestStep && len(m.Formats) > 0 {
		lines = append(lines, "", renderFormats(m))
		if m.TestPreview != "" {
			lines = append(lines, color.LabelStyle.Render("Test print"), m.TestPreview)
		} else if m.TestPreviewURL != "" {
			lines = append(lines, color.HintStyle.Render("Test print ready: "+m.TestPreviewURL))
		}
	}

	lines = append(lines, renderActivity(m, wizard.AlertPhoto, "Sending photo...")...)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderFormats(m *model.Model) string {
	names := make([]string, len(m.Formats))
	for i, f := range m.Formats {
		if i == m.FormatIndex {
			names[i] = color.SelectedStyle.Render(f.String())
		} else {
			names[i] = color.UnselectedStyle.Render(f.String())
		}
	}
	return "Format: " + strings.Join(names, "  ") + color.HintStyle.Render("   tab change • t test print")
}

func renderResult(m *model.Model) string {
	lines := []string{color.LabelStyle.Render("Drawing your portrait")}
	switch {
	case m.ResultPreview != "":
		lines = append(lines, m.ResultPreview)
	case m.ResultURL != "":
		lines = append(lines, color.HintStyle.Render("Preview: "+m.ResultURL))
	}
	lines = append(lines, "", m.Progress.ViewAs(m.ProgressValue))
	if m.ProgressValue >= 1 {
		lines = append(lines, "", color.HintStyle.Render("Press n for a new portrait."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderActivity returns the spinner line while busy and the alert of target.
func renderActivity(m *model.Model, target wizard.AlertTarget, busyText string) []string {
	var lines []string
	if m.Busy {
		lines = append(lines, "", m.Spinner.View()+" "+busyText)
	}
	if msg, ok := m.Alerts[target]; ok && msg != "" {
		lines = append(lines, "", color.AlertStyle.Render(msg))
	}
	return lines
}

func renderStatusBar(m *model.Model) string {
	if m.StatusBarMessage == "" {
		return ""
	}
	style := color.StatusBarInfoStyle
	switch m.StatusBarMessageType {
	case model.StatusBarSuccess:
		style = color.StatusBarSuccessStyle
	case model.StatusBarWarning:
		style = color.StatusBarWarningStyle
	case model.StatusBarError:
		style = color.StatusBarErrorStyle
	}
	return style.Render(m.StatusBarMessage)
}

func renderHelpOverlay(m *model.Model) string {
	h := m.Help
	h.ShowAll = true
	content := lipgloss.JoinVertical(lipgloss.Left,
		color.TitleStyle.Render("Keys"),
		"",
		h.View(m.Keys),
		"",
		color.HintStyle.Render("? or esc to close"),
	)
	return color.LogOverlayStyle.Render(content)
}
