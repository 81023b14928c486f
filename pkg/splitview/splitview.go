package splitview

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
)

const (
	defaultTableSplitPercent = 0.4
	defaultEmptyText         = "Nothing to show"
)

// ColumnConfig defines a table column
type ColumnConfig struct {
	Name  string
	Width int
}

// RowData contains a table row and the detail shown when it is selected
type RowData struct {
	TableRow table.Row
	Key      string // Stable identity of the row, used to keep the cursor across SetRows
	Code     string // Already highlighted code (empty = no code to show)
	Content  string // Text to show before code (title, metadata, etc)
}

func NewRowData(tableRow table.Row) RowData {
	return RowData{
		TableRow: tableRow,
	}
}

func (r RowData) WithKey(k string) RowData {
	r.Key = k
	return r
}

// WithCode sets the code content for the row
func (r RowData) WithCode(code string) RowData {
	r.Code = code
	return r
}

// WithContent sets the content/description for the row
func (r RowData) WithContent(content string) RowData {
	r.Content = content
	return r
}

// Model is a table on the left and the detail of the selected row on the right
type Model struct {
	columns           []ColumnConfig
	rows              []RowData
	table             table.Model
	detailViewport    viewport.Model
	Keys              KeyMap
	tableSplitPercent float64
	emptyText         string
	width             int
	height            int
	fullDetailMode    bool

	// wrapped code per row index
	codeFullscreenCache map[int]string
	codeDetailCache     map[int]string

	lastSelectedRow int
	lastWidth       int
	lastMode        bool
}

// KeyMap defines key bindings for the split view
type KeyMap struct {
	ToggleFullscreen key.Binding
	ExitFullscreen   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleFullscreen}
}

// FullHelp returns keybindings for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ToggleFullscreen, k.ExitFullscreen},
	}
}

func NewKeyMap() KeyMap {
	return KeyMap{
		ToggleFullscreen: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space/enter", "toggle fullscreen"),
		),
		ExitFullscreen: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "exit fullscreen"),
		),
	}
}

// Option is a functional option for configuring the split view
type Option func(*Model)

// WithTableStyles sets the table styles
func WithTableStyles(styles table.Styles) Option {
	return func(m *Model) {
		m.table.SetStyles(styles)
	}
}

// WithTableSplitPercent sets the share of the width given to the table (0.0 to 1.0)
func WithTableSplitPercent(percent float64) Option {
	return func(m *Model) {
		if percent > 0 && percent < 1 {
			m.tableSplitPercent = percent
		}
	}
}

// WithEmptyText sets what the detail pane shows when there are no rows
func WithEmptyText(text string) Option {
	return func(m *Model) {
		m.emptyText = text
	}
}

// WithRows sets the initial rows for the split view
func WithRows(rows []RowData) Option {
	return func(m *Model) {
		m.rows = rows
		m.updateTableRows()
	}
}

func New(columns []ColumnConfig, opts ...Option) *Model {
	tableCols := make([]table.Column, len(columns))
	for i, col := range columns {
		tableCols[i] = table.Column{
			Title: col.Name,
			Width: col.Width,
		}
	}

	t := table.New(
		table.WithColumns(tableCols),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	m := &Model{
		columns:             columns,
		rows:                []RowData{},
		table:               t,
		detailViewport:      viewport.New(80, 20),
		Keys:                NewKeyMap(),
		tableSplitPercent:   defaultTableSplitPercent,
		emptyText:           defaultEmptyText,
		codeFullscreenCache: make(map[int]string),
		codeDetailCache:     make(map[int]string),
		lastSelectedRow:     -1,
	}

	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.ToggleFullscreen):
			m.fullDetailMode = !m.fullDetailMode
			return m, nil
		case key.Matches(msg, m.Keys.ExitFullscreen):
			if m.fullDetailMode {
				m.fullDetailMode = false
				return m, nil
			}
		}

		if m.fullDetailMode {
			m.detailViewport, cmd = m.detailViewport.Update(msg)
			return m, cmd
		}

		m.table, cmd = m.table.Update(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, cmd
}

// wrapCode gets or generates wrapped code for the row
func (m *Model) wrapCode(rowIndex int, width int, isFullscreen bool) string {
	if rowIndex < 0 || rowIndex >= len(m.rows) {
		return ""
	}

	cache := m.codeDetailCache
	if isFullscreen {
		cache = m.codeFullscreenCache
	}
	if code, ok := cache[rowIndex]; ok {
		return code
	}

	rawCode := m.rows[rowIndex].Code
	if rawCode == "" {
		return ""
	}

	wrapped := wrap.String(rawCode, width)
	cache[rowIndex] = wrapped
	return wrapped
}

func (m *Model) buildViewportContent(width int, isFullscreen bool) string {
	selectedIdx := m.table.Cursor()
	if selectedIdx < 0 || selectedIdx >= len(m.rows) {
		return m.emptyText
	}

	rowData := m.rows[selectedIdx]
	content := ""
	if rowData.Content != "" {
		content += rowData.Content + "\n\n"
	}
	if rowData.Code != "" {
		content += m.wrapCode(selectedIdx, width, isFullscreen)
	}
	return content
}

// SetRows replaces all rows. The cursor follows the row with the same key if
// it is still present, otherwise it is clamped to the new length.
func (m *Model) SetRows(rows []RowData) {
	selectedKey := m.SelectedKey()
	m.rows = rows
	m.updateTableRows()
	m.codeFullscreenCache = make(map[int]string)
	m.codeDetailCache = make(map[int]string)
	m.lastSelectedRow = -1

	if selectedKey != "" && m.SelectKey(selectedKey) {
		return
	}
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

// Rows returns the current rows
func (m *Model) Rows() []RowData {
	return m.rows
}

// Cursor returns the current table cursor position
func (m *Model) Cursor() int {
	return m.table.Cursor()
}

// SetCursor moves the table cursor, clamped to the rows
func (m *Model) SetCursor(index int) {
	if len(m.rows) == 0 {
		return
	}
	index = min(max(index, 0), len(m.rows)-1)
	m.table.SetCursor(index)
	m.lastSelectedRow = -1
}

// SelectedKey returns the key of the selected row, or "" when nothing is selected
func (m *Model) SelectedKey() string {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.rows) {
		return ""
	}
	return m.rows[c].Key
}

// SelectKey moves the cursor to the row with key k and reports whether it was found
func (m *Model) SelectKey(k string) bool {
	for i, row := range m.rows {
		if row.Key == k {
			m.SetCursor(i)
			return true
		}
	}
	return false
}

// UpdateRow updates a specific row at the given index
func (m *Model) UpdateRow(index int, row RowData) {
	if index < 0 || index >= len(m.rows) {
		return
	}
	m.rows[index] = row
	m.updateTableRows()
	delete(m.codeFullscreenCache, index)
	delete(m.codeDetailCache, index)
	if index == m.table.Cursor() {
		m.lastSelectedRow = -1
	}
}

func (m *Model) updateTableRows() {
	tableRows := make([]table.Row, len(m.rows))
	for i, row := range m.rows {
		tableRows[i] = row.TableRow
	}
	m.table.SetRows(tableRows)
}

// FullDetail reports whether only the detail pane is shown
func (m *Model) FullDetail() bool {
	return m.fullDetailMode
}

// KeyMap returns the split view keys together with the keys of the focused component
func (m *Model) KeyMap() help.KeyMap {
	if m.fullDetailMode {
		return CombinedKeyMap{
			SplitView: m.Keys,
			Viewport:  m.detailViewport.KeyMap,
		}
	}
	return CombinedKeyMap{
		SplitView: m.Keys,
		Table:     m.table.KeyMap,
	}
}

// CombinedKeyMap implements help.KeyMap by combining split view and component keys
type CombinedKeyMap struct {
	SplitView KeyMap
	Viewport  viewport.KeyMap
	Table     table.KeyMap
}

func (k CombinedKeyMap) ShortHelp() []key.Binding {
	return k.SplitView.ShortHelp()
}

func (k CombinedKeyMap) FullHelp() [][]key.Binding {
	result := k.SplitView.FullHelp()

	if k.Viewport.Down.Enabled() {
		result = append(result, []key.Binding{
			k.Viewport.Up,
			k.Viewport.Down,
			k.Viewport.PageUp,
			k.Viewport.PageDown,
		})
	} else if k.Table.LineUp.Enabled() {
		result = append(result, []key.Binding{
			k.Table.LineUp,
			k.Table.LineDown,
			k.Table.GotoTop,
			k.Table.GotoBottom,
		})
	}
	return result
}

func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	if m.fullDetailMode {
		selectedIdx := m.table.Cursor()
		if selectedIdx != m.lastSelectedRow || m.width != m.lastWidth || m.fullDetailMode != m.lastMode {
			// 2 columns of padding on each side
			contentWidth := m.width - 4
			m.detailViewport.Width = contentWidth
			m.detailViewport.Height = m.height - 4
			content := m.buildViewportContent(contentWidth, true)
			m.detailViewport.SetContent(lipgloss.NewStyle().Width(contentWidth).Render(content))

			m.lastSelectedRow = selectedIdx
			m.lastWidth = m.width
			m.lastMode = m.fullDetailMode
		}
		return lipgloss.NewStyle().Padding(0, 1).Render(m.detailViewport.View())
	}

	tableWidth := int(float64(m.width) * m.tableSplitPercent)
	detailWidth := m.width - tableWidth
	selectedIdx := m.table.Cursor()

	m.table.SetWidth(tableWidth)
	m.table.SetHeight(max(1, m.height-4))

	tableView := lipgloss.NewStyle().
		Width(tableWidth).
		MaxHeight(m.height).
		Render(m.table.View())

	if len(m.rows) == 0 {
		detailView := lipgloss.NewStyle().
			Width(detailWidth).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(m.emptyText)
		return lipgloss.JoinHorizontal(lipgloss.Top, tableView, detailView)
	}

	if selectedIdx != m.lastSelectedRow || detailWidth != m.lastWidth || m.fullDetailMode != m.lastMode {
		m.detailViewport.Width = detailWidth
		m.detailViewport.Height = max(1, m.height-4)
		content := m.buildViewportContent(detailWidth, false)
		m.detailViewport.SetContent(lipgloss.NewStyle().Width(detailWidth).Render(content))

		m.lastSelectedRow = selectedIdx
		m.lastWidth = detailWidth
		m.lastMode = m.fullDetailMode
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, tableView, m.detailViewport.View())
}
