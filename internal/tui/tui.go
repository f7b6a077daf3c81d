// Package tui is an interactive playground for the layout engine.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/deskgrid/internal/config"
	"github.com/1broseidon/deskgrid/internal/scenario"
)

// Run opens the playground on sc until the user quits.
func Run(sc *scenario.Scenario, cfg *config.Config) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(NewModel(sc, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
