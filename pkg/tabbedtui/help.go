package tabbedtui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is a bubbles help.Model that is hidden until toggled and then
// always shows the full help
type HelpModel struct {
	help    help.Model
	ShowAll bool
	width   int
	keyMap  help.KeyMap
}

func NewHelpModel() HelpModel {
	h := help.New()
	h.ShowAll = true

	return HelpModel{
		help:    h,
		ShowAll: false,
	}
}

func (m HelpModel) Init() tea.Cmd {
	return nil
}

func (m HelpModel) View() string {
	if !m.ShowAll || m.keyMap == nil {
		return ""
	}

	return m.help.View(m.keyMap)
}

func (m *HelpModel) SetWidth(width int) {
	m.width = width
	m.help.Width = width
}

func (m *HelpModel) SetKeyMap(keyMap help.KeyMap) {
	m.keyMap = keyMap
}

func (m *HelpModel) SetStyles(styles help.Styles) {
	m.help.Styles = styles
}

func (m HelpModel) Height() int {
	view := m.View()
	if view == "" {
		return 0
	}
	return lipgloss.Height(view)
}
