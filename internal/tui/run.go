package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vibeguard/vibeguard/internal/types"
)

// Run starts the findings browser in the alternate screen.
func Run(findings []types.Finding, opts Options) error {
	if _, err := tea.NewProgram(NewModel(findings, opts), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
