package tui

import (
	"github.com/rgehrsitz/regimesim/internal/breakeven"
	"github.com/rgehrsitz/regimesim/internal/catalog"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneSimulate Scene = iota
	SceneSweep
	SceneCatalog
	SceneHelp
)

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case SceneSimulate:
		return "Simulate"
	case SceneSweep:
		return "Revenue sweep"
	case SceneCatalog:
		return "Rate catalog"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// Message types for the Bubble Tea update cycle

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// CatalogLoadedMsg carries the rate catalog once it has been read
type CatalogLoadedMsg struct {
	Catalog *catalog.RateCatalog
	Source  string
}

// SweepCompleteMsg carries the revenue sweep and break-even scan for the current input
type SweepCompleteMsg struct {
	Rows  []breakeven.SweepRow
	Pairs []breakeven.PairResult
	Err   error
}
