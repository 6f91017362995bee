package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/regimesim/internal/tui"
)

func main() {
	// Optional rate dataset; the embedded one is used otherwise
	catalogPath := ""
	if len(os.Args) > 1 {
		catalogPath = os.Args[1]
		if catalogPath == "-h" || catalogPath == "--help" {
			fmt.Println("Usage: regimesim-tui [rate-dataset.yaml]")
			return
		}
		if _, err := os.Stat(catalogPath); os.IsNotExist(err) {
			fmt.Printf("Error: rate dataset not found: %s\n", catalogPath)
			os.Exit(1)
		}
	}

	p := tea.NewProgram(
		tui.NewModel(catalogPath),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
