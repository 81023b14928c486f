package ui

import (
	"path/filepath"

	"github.com/bjartek/invokepanel/pkg/config"
	"github.com/bjartek/invokepanel/pkg/logs"
	"github.com/bjartek/invokepanel/pkg/panel"
	"github.com/bjartek/invokepanel/pkg/tabbedtui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/rs/zerolog"
)

// Model is the root of the terminal UI. It owns the panel controller, routes
// page requests to it and pushes the resulting state back to the pages.
type Model struct {
	controller *panel.Controller
	tabs       tabbedtui.Model
	picker     *accountPicker
	title      string
	logger     zerolog.Logger

	steps        *StepsView
	transactions *TransactionsView
	logs         *LogsView

	width  int
	height int
}

// NewModel builds the Steps, Transactions and Logs pages for the invocation
// file at path.
func NewModel(controller *panel.Controller, cfg config.UIConfig, path string, logger zerolog.Logger) Model {
	steps := NewStepsView(cfg)
	transactions := NewTransactionsView(cfg)
	logsView := NewLogsView(cfg)
	pages := []tabbedtui.Page{steps, transactions, logsView}

	return Model{
		controller:   controller,
		tabs:         tabbedtui.NewModel(pages, tabbedtui.WithStyles(GetTabbedStyles())),
		title:        filepath.Base(path),
		logger:       logger,
		steps:        steps,
		transactions: transactions,
		logs:         logsView,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.controller.Init(), m.tabs.Init())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tabs, cmd = m.tabs.Update(tea.WindowSizeMsg{Width: msg.Width, Height: max(0, msg.Height-statusHeight)})
		return m, cmd

	case tea.KeyMsg:
		if m.picker != nil {
			if m.picker.update(msg) {
				m.picker = nil
			}
			return m, nil
		}
		m.tabs, cmd = m.tabs.Update(msg)
		return m, cmd

	case accountPromptMsg:
		if m.picker != nil {
			m.picker.dismiss()
		}
		m.picker = newAccountPicker(msg)
		return m, nil

	case tabbedtui.QuitMsg:
		if m.picker != nil {
			m.picker.dismiss()
			m.picker = nil
		}
		if err := m.controller.Close(); err != nil {
			m.logger.Warn().Err(err).Msg("Closing the panel failed")
		}
		return m, tea.Quit

	case logs.LogLineMsg:
		m.tabs, cmd = m.tabs.Update(msg)
		return m, cmd
	}

	// everything else may concern the controller; the pages see the message
	// itself and then the state it produced
	controllerCmd := m.controller.Update(msg)
	var pageCmd, stateCmd tea.Cmd
	m.tabs, pageCmd = m.tabs.Update(msg)
	m.tabs, stateCmd = m.tabs.Update(StateMsg{State: m.controller.State()})
	return m, tea.Batch(controllerCmd, pageCmd, stateCmd)
}

const statusHeight = 1

// statusLine shows the file name and the latest notice.
func (m Model) statusLine() string {
	line := sectionTitleStyle.Render(" " + m.title)
	if notice := m.controller.State().Notice; notice.Level != panel.NoticeNone {
		line += noticeStyle(notice.Level).Render(notice.Text)
	}
	if m.width > 0 {
		line = truncate.StringWithTail(line, uint(m.width), "…")
	}
	return line
}

func (m Model) View() string {
	if m.picker != nil && m.width > 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.statusLine(),
			m.picker.overlay(m.width, max(0, m.height-statusHeight)),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.statusLine(), m.tabs.View())
}
