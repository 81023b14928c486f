package ui

import (
	"fmt"
	"strings"

	"github.com/bjartek/invokepanel/pkg/config"
	"github.com/bjartek/invokepanel/pkg/logs"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// logsKeys are the bindings the logs page adds on top of the viewport's own
// scrolling keys.
type logsKeys struct {
	Filter key.Binding
	Clear  key.Binding
	Top    key.Binding
	Bottom key.Binding
}

var defaultLogsKeys = logsKeys{
	Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Clear:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filter")),
	Top:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "oldest")),
	Bottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "newest")),
}

// LogsView tails the panel's log, runner output included. Up to maxLines
// lines are kept; older ones are dropped.
type LogsView struct {
	viewport viewport.Model
	input    textinput.Model
	keys     logsKeys
	maxLines int
	ready    bool

	lines   []string
	shown   []string
	filter  string
	editing bool
}

func NewLogsView(cfg config.UIConfig) *LogsView {
	input := textinput.New()
	input.Prompt = "Filter: "
	input.PromptStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	input.CharLimit = 100

	maxLines := cfg.MaxLogLines
	if maxLines <= 0 {
		maxLines = config.DefaultConfig().UI.MaxLogLines
	}
	return &LogsView{
		viewport: viewport.New(0, 0),
		input:    input,
		keys:     defaultLogsKeys,
		maxLines: maxLines,
	}
}

func (lv *LogsView) Init() tea.Cmd {
	return nil
}

func (lv *LogsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		lv.viewport.Width = msg.Width
		lv.viewport.Height = msg.Height
		lv.input.Width = msg.Width / 2
		lv.ready = true
		lv.render()

	case logs.LogLineMsg:
		lv.append(msg.Line)

	case tea.KeyMsg:
		if lv.editing {
			return lv, lv.updateInput(msg)
		}
		switch {
		case key.Matches(msg, lv.keys.Filter):
			lv.editing = true
			return lv, lv.input.Focus()
		case key.Matches(msg, lv.keys.Clear):
			lv.setFilter("")
		case key.Matches(msg, lv.keys.Top):
			lv.viewport.GotoTop()
		case key.Matches(msg, lv.keys.Bottom):
			lv.viewport.GotoBottom()
		default:
			var cmd tea.Cmd
			lv.viewport, cmd = lv.viewport.Update(msg)
			return lv, cmd
		}
	}
	return lv, nil
}

// append keeps following the tail unless the user has scrolled away from it.
func (lv *LogsView) append(line string) {
	following := lv.viewport.AtBottom()
	lv.lines = append(lv.lines, line)
	if over := len(lv.lines) - lv.maxLines; over > 0 {
		lv.lines = lv.lines[over:]
	}
	lv.shown = matching(lv.lines, lv.filter)
	lv.render()
	if following {
		lv.viewport.GotoBottom()
	}
}

// updateInput edits the filter. Enter applies it, esc goes back to the one
// that was active before.
func (lv *LogsView) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		lv.editing = false
		lv.input.Blur()
		lv.setFilter(lv.input.Value())
		return nil
	case tea.KeyEsc:
		lv.editing = false
		lv.input.Blur()
		lv.input.SetValue(lv.filter)
		return nil
	}
	var cmd tea.Cmd
	lv.input, cmd = lv.input.Update(msg)
	return cmd
}

func (lv *LogsView) setFilter(filter string) {
	lv.filter = filter
	lv.input.SetValue(filter)
	lv.shown = matching(lv.lines, filter)
	lv.render()
}

func (lv *LogsView) render() {
	lv.viewport.SetContent(strings.Join(lv.shown, "\n"))
}

// matching returns the lines containing filter, ignoring case.
func matching(lines []string, filter string) []string {
	if filter == "" {
		return lines
	}
	needle := strings.ToLower(filter)
	var out []string
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), needle) {
			out = append(out, line)
		}
	}
	return out
}

func (lv *LogsView) View() string {
	if !lv.ready {
		return "Initializing logs..."
	}
	return lv.viewport.View()
}

func (lv *LogsView) Name() string {
	return "Logs"
}

func (lv *LogsView) FooterView() string {
	switch {
	case lv.editing:
		return lv.input.View()
	case lv.filter != "":
		return dimStyle.Render(fmt.Sprintf("Showing %d of %d lines matching %q, esc clears",
			len(lv.shown), len(lv.lines), lv.filter))
	}
	return ""
}

func (lv *LogsView) IsCapturingInput() bool {
	return lv.editing
}

func (lv *LogsView) KeyMap() help.KeyMap {
	return logsHelp{keys: lv.keys, scroll: lv.viewport.KeyMap}
}

type logsHelp struct {
	keys   logsKeys
	scroll viewport.KeyMap
}

func (h logsHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.keys.Filter, h.scroll.Up, h.scroll.Down}
}

func (h logsHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.keys.Filter, h.keys.Clear},
		{h.scroll.Up, h.scroll.Down, h.scroll.PageUp, h.scroll.PageDown},
		{h.keys.Top, h.keys.Bottom},
	}
}
