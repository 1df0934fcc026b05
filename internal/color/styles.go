package color

import "github.com/charmbracelet/lipgloss"

var (
	Primary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	Success = lipgloss.AdaptiveColor{Light: "#05A167", Dark: "#05D176"}
	Error   = lipgloss.AdaptiveColor{Light: "#E06A56", Dark: "#F97171"}
	Warning = lipgloss.AdaptiveColor{Light: "#E0A956", Dark: "#F9C171"}
	Info    = lipgloss.AdaptiveColor{Light: "#5A9FE0", Dark: "#71B7F9"}
	Muted   = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	Border  = lipgloss.AdaptiveColor{Light: "#D1D1D1", Dark: "#3C3C3C"}
	Text    = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#E0E0E0"}
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Primary)

	StepActiveStyle  = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	StepDoneStyle    = lipgloss.NewStyle().Foreground(Success)
	StepPendingStyle = lipgloss.NewStyle().Foreground(Muted)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)

	AlertStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}).
			Background(Error).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().Foreground(Text).Bold(true)
	HintStyle  = lipgloss.NewStyle().Foreground(Muted).Italic(true)
	ValueStyle = lipgloss.NewStyle().Foreground(Info)

	SelectedStyle   = lipgloss.NewStyle().Bold(true).Foreground(Primary).Underline(true)
	UnselectedStyle = lipgloss.NewStyle().Foreground(Muted)

	StatusBarInfoStyle    = lipgloss.NewStyle().Foreground(Info)
	StatusBarSuccessStyle = lipgloss.NewStyle().Foreground(Success)
	StatusBarWarningStyle = lipgloss.NewStyle().Foreground(Warning)
	StatusBarErrorStyle   = lipgloss.NewStyle().Foreground(Error)

	LogPanelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Muted)
	LogOverlayStyle    = lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(Primary).
				Padding(0, 1)
	LogInfoStyle  = lipgloss.NewStyle().Foreground(Text)
	LogErrorStyle = lipgloss.NewStyle().Foreground(Error)
	LogWarnStyle  = lipgloss.NewStyle().Foreground(Warning)
	LogDebugStyle = lipgloss.NewStyle().Foreground(Muted)
)

// Initialize sets the background lipgloss resolves adaptive colors against.
func Initialize(isDarkMode bool) {
	lipgloss.SetHasDarkBackground(isDarkMode)
}
