package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		if msg.Scene == SceneSweep && m.sweepRows == nil && m.solver != nil && m.result != nil {
			return m, sweepCmd(m.solver, m.result.Result.Input)
		}
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case CatalogLoadedMsg:
		m.loading = false
		m.setCatalog(msg.Catalog, msg.Source)
		m.recompute()
		return m, nil

	case SweepCompleteMsg:
		m.sweepErr = msg.Err
		if msg.Err == nil {
			m.sweepRows = msg.Rows
			m.sweepPairs = msg.Pairs
		}
		return m, nil
	}

	// Cursor blink and other input-level messages go to the focused field
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keyboard shortcuts
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.currentScene == SceneSimulate {
			return m, tea.Quit
		}
		return m, navigate(SceneSimulate)

	case "f1":
		return m, navigate(SceneSimulate)
	case "f2":
		return m, navigate(SceneSweep)
	case "f3":
		return m, navigate(SceneCatalog)
	case "f4":
		return m, navigate(SceneHelp)
	}

	if m.currentScene != SceneSimulate {
		return m, nil
	}

	switch msg.String() {
	case "tab", "down", "enter":
		return m, m.setFocus(m.focus + 1)
	case "shift+tab", "up":
		return m, m.setFocus(m.focus - 1)
	}

	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if m.inputs[m.focus].Value() != before {
		m.recompute()
	}
	return m, cmd
}

func navigate(scene Scene) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Scene: scene}
	}
}
