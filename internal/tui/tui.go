package tui

import (
	"taskline/internal/engine"

	tea "github.com/charmbracelet/bubbletea"
)

func Run(eng *engine.Engine) error {
	applyGlyphPreference()
	applyColorProfile()
	m := newAppModel(eng)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
