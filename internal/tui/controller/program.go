package controller

import (
	tea "github.com/charmbracelet/bubbletea"

	"retrato/internal/tui/model"
)

// NewProgram creates the Bubble Tea program running the wizard.
func NewProgram(cfg model.TUIConfig) (*tea.Program, *model.Model, error) {
	m, err := model.InitializeModel(cfg)
	if err != nil {
		return nil, nil, err
	}
	p := tea.NewProgram(NewAppModel(m), tea.WithAltScreen())
	return p, m, nil
}
