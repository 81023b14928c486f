package tabbedtui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Page is one tab of the model.
type Page interface {
	tea.Model
	Name() string
	KeyMap() help.KeyMap
	// FooterView is rendered between the page and the help, e.g. a filter input.
	FooterView() string
	// IsCapturingInput is true while the page owns every key press, so the
	// tab and quit keys are not interpreted.
	IsCapturingInput() bool
}

// QuitMsg is emitted when the quit key is pressed. The owner of the model
// decides how to shut down.
type QuitMsg struct{}

// Model is a row of tabs with the active page below and toggleable help at the bottom
type Model struct {
	pages     []Page
	activeTab int
	width     int
	height    int
	ready     bool
	help      HelpModel
	keys      KeyMap

	styles Styles
}

// KeyMap defines keybindings for tab navigation
type KeyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	Tabs    []key.Binding
	Quit    key.Binding
	Help    key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	bindings := []key.Binding{k.NextTab, k.PrevTab}
	bindings = append(bindings, k.Tabs...)
	bindings = append(bindings, k.Quit, k.Help)
	return bindings
}

func (k KeyMap) FullHelp() [][]key.Binding {
	tabGroup := append([]key.Binding{k.NextTab, k.PrevTab}, k.Tabs...)
	return [][]key.Binding{
		tabGroup,
		{k.Quit, k.Help},
	}
}

type Option func(*Model)

func WithStyles(styles Styles) Option {
	return func(m *Model) {
		m.styles = styles
	}
}

// NewModel creates a tabbed model over pages, in the order given.
func NewModel(pages []Page, opts ...Option) Model {
	tabBindings := make([]key.Binding, len(pages))
	for i := range pages {
		keyNum := fmt.Sprintf("%d", i+1)
		tabBindings[i] = key.NewBinding(
			key.WithKeys(keyNum),
			key.WithHelp(keyNum, "tab: "+pages[i].Name()),
		)
	}

	m := Model{
		pages:  pages,
		help:   NewHelpModel(),
		styles: NewStyles(),
		keys: KeyMap{
			NextTab: key.NewBinding(
				key.WithKeys("tab"),
				key.WithHelp("tab", "next tab"),
			),
			PrevTab: key.NewBinding(
				key.WithKeys("shift+tab"),
				key.WithHelp("shift+tab", "previous tab"),
			),
			Tabs: tabBindings,
			Quit: key.NewBinding(
				key.WithKeys("q", "ctrl+c"),
				key.WithHelp("q", "quit"),
			),
			Help: key.NewBinding(
				key.WithKeys("?"),
				key.WithHelp("?", "toggle help"),
			),
		},
	}

	for _, opt := range opts {
		opt(&m)
	}

	m.help.SetStyles(help.Styles{
		FullKey:       m.styles.HelpKey,
		FullDesc:      m.styles.HelpDesc,
		FullSeparator: m.styles.HelpSeparator,
	})
	return m
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, page := range m.pages {
		cmds = append(cmds, page.Init())
	}
	return tea.Batch(cmds...)
}

// ActiveTab returns the index of the visible page.
func (m Model) ActiveTab() int {
	return m.activeTab
}

// CapturingInput reports whether the visible page owns the keyboard.
func (m Model) CapturingInput() bool {
	return len(m.pages) > 0 && m.pages[m.activeTab].IsCapturingInput()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if len(m.pages) == 0 {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.pages[m.activeTab].IsCapturingInput() {
			return m, m.updatePage(m.activeTab, msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, func() tea.Msg { return QuitMsg{} }
		case key.Matches(msg, m.keys.NextTab):
			m.activeTab = (m.activeTab + 1) % len(m.pages)
			return m, nil
		case key.Matches(msg, m.keys.PrevTab):
			m.activeTab = (m.activeTab - 1 + len(m.pages)) % len(m.pages)
			return m, nil
		}

		for i, tabKey := range m.keys.Tabs {
			if key.Matches(msg, tabKey) {
				m.activeTab = i
				return m, nil
			}
		}

		// pages get the key before help so they can bind "?" themselves
		if cmd := m.updatePage(m.activeTab, msg); cmd != nil {
			return m, cmd
		}

		if key.Matches(msg, m.keys.Help) {
			m.help.ShowAll = !m.help.ShowAll
			m.help.SetKeyMap(NewCombinedKeyMap(m.keys, m.pages[m.activeTab].KeyMap()))
			m.resizePages()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.SetWidth(msg.Width)
		m.resizePages()
		return m, nil

	default:
		// every page sees every other message and decides whether it cares
		var cmds []tea.Cmd
		for i := range m.pages {
			if cmd := m.updatePage(i, msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)
	}
}

func (m *Model) updatePage(i int, msg tea.Msg) tea.Cmd {
	model, cmd := m.pages[i].Update(msg)
	m.pages[i] = model.(Page)
	return cmd
}

func (m *Model) resizePages() {
	adjusted := tea.WindowSizeMsg{
		Width:  m.width,
		Height: m.contentHeight(),
	}
	for i := range m.pages {
		m.updatePage(i, adjusted)
	}
}

// contentHeight is the height left for a page below the header and above the help
func (m Model) contentHeight() int {
	return max(0, m.height-lipgloss.Height(m.renderHeader())-m.help.Height())
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if len(m.pages) == 0 {
		return ""
	}

	header := m.renderHeader()
	page := m.pages[m.activeTab]

	m.help.SetKeyMap(NewCombinedKeyMap(m.keys, page.KeyMap()))
	footerView := page.FooterView()
	helpView := m.help.View()

	contentView := page.View()
	available := m.height - lipgloss.Height(header) - lipgloss.Height(footerView) - lipgloss.Height(helpView)
	if available > 0 {
		contentView = lipgloss.NewStyle().
			Height(available).
			MaxHeight(available).
			Render(contentView)
	}

	parts := []string{header, contentView}
	if footerView != "" {
		parts = append(parts, footerView)
	}
	if helpView != "" {
		parts = append(parts, helpView)
	}
	return lipgloss.JoinVertical(lipgloss.Top, parts...)
}

func (m Model) renderHeader() string {
	var tabs []string
	for i, page := range m.pages {
		style := m.styles.Tab
		if i == m.activeTab {
			style = m.styles.ActiveTab
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("%s (%d)", page.Name(), i+1)))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	helpText := "? help"
	helpWidth := lipgloss.Width(helpText) + 4

	gapWidth := max(0, m.width-lipgloss.Width(row)-helpWidth)
	gap := m.styles.TabGap.Render(strings.Repeat(" ", gapWidth))
	row = lipgloss.JoinHorizontal(lipgloss.Bottom, row, gap)

	return row + m.styles.Help.Render(helpText)
}

// combinedKeyMap lists the tab keys first and the page keys after them
type combinedKeyMap struct {
	tabKeys  help.KeyMap
	pageKeys help.KeyMap
}

func (c combinedKeyMap) ShortHelp() []key.Binding {
	var keys []key.Binding
	if c.tabKeys != nil {
		keys = append(keys, c.tabKeys.ShortHelp()...)
	}
	if c.pageKeys != nil {
		keys = append(keys, c.pageKeys.ShortHelp()...)
	}
	return keys
}

func (c combinedKeyMap) FullHelp() [][]key.Binding {
	var groups [][]key.Binding
	if c.tabKeys != nil {
		groups = append(groups, c.tabKeys.FullHelp()...)
	}
	if c.pageKeys != nil {
		groups = append(groups, c.pageKeys.FullHelp()...)
	}
	return groups
}

func NewCombinedKeyMap(tabKeys, pageKeys help.KeyMap) help.KeyMap {
	return combinedKeyMap{
		tabKeys:  tabKeys,
		pageKeys: pageKeys,
	}
}
