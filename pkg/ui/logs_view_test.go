package ui

import (
	"testing"

	"github.com/bjartek/invokepanel/pkg/config"
	"github.com/bjartek/invokepanel/pkg/logs"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func newLogsView(maxLines int, lines ...string) *LogsView {
	cfg := config.DefaultConfig().UI
	cfg.MaxLogLines = maxLines

	lv := NewLogsView(cfg)
	lv.Update(tea.WindowSizeMsg{Width: 120, Height: 20})
	for _, line := range lines {
		lv.Update(logs.LogLineMsg{Line: line})
	}
	return lv
}

func TestLogsView_NotReady(t *testing.T) {
	lv := NewLogsView(config.DefaultConfig().UI)
	assert.Equal(t, "Initializing logs...", lv.View())
}

func TestLogsView_ShowsLines(t *testing.T) {
	lv := newLogsView(100, "runner started", "Transaction 0x1111 submitted")

	view := lv.View()
	assert.Contains(t, view, "runner started")
	assert.Contains(t, view, "Transaction 0x1111 submitted")
}

func TestLogsView_KeepsLastLines(t *testing.T) {
	lv := newLogsView(2, "first", "second", "third")

	assert.Equal(t, []string{"second", "third"}, lv.lines)
	assert.NotContains(t, lv.View(), "first")
}

func TestLogsView_Filter(t *testing.T) {
	lv := newLogsView(100, "INF Invocation file loaded", "ERR runner failed", "DBG refresh")

	lv.Update(keyRunes("/"))
	assert.True(t, lv.IsCapturingInput())

	lv.Update(keyRunes("err"))
	lv.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, lv.IsCapturingInput())
	assert.Equal(t, []string{"ERR runner failed"}, lv.shown)
	assert.Contains(t, lv.FooterView(), "Showing 1 of 3 lines")
	assert.NotContains(t, lv.View(), "refresh")

	// new lines go through the filter as well
	lv.Update(logs.LogLineMsg{Line: "ERR another failure"})
	assert.Len(t, lv.shown, 2)

	lv.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, lv.shown, 4)
	assert.Empty(t, lv.FooterView())
}

func TestLogsView_FilterCancelKeepsPreviousFilter(t *testing.T) {
	lv := newLogsView(100, "alpha", "beta")

	lv.Update(keyRunes("/"))
	lv.Update(keyRunes("alp"))
	lv.Update(tea.KeyMsg{Type: tea.KeyEnter})

	lv.Update(keyRunes("/"))
	lv.Update(keyRunes("zzz"))
	lv.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, lv.IsCapturingInput())
	assert.Equal(t, "alp", lv.filter)
	assert.Equal(t, []string{"alpha"}, lv.shown)
}

func TestLogsView_FollowsTailUntilScrolledUp(t *testing.T) {
	lv := NewLogsView(config.DefaultConfig().UI)
	lv.Update(tea.WindowSizeMsg{Width: 80, Height: 3})
	for _, line := range []string{"1", "2", "3", "4", "5"} {
		lv.Update(logs.LogLineMsg{Line: line})
	}
	assert.True(t, lv.viewport.AtBottom())
	assert.Contains(t, lv.View(), "5")

	lv.Update(keyRunes("g"))
	lv.Update(logs.LogLineMsg{Line: "6"})
	assert.True(t, lv.viewport.AtTop())
	assert.NotContains(t, lv.View(), "6")

	lv.Update(keyRunes("G"))
	lv.Update(logs.LogLineMsg{Line: "7"})
	assert.Contains(t, lv.View(), "7")
}

func TestLogsView_HelpUsesViewportScrollKeys(t *testing.T) {
	lv := NewLogsView(config.DefaultConfig().UI)

	short := lv.KeyMap().ShortHelp()
	assert.Equal(t, "/", short[0].Help().Key)
	assert.Equal(t, lv.viewport.KeyMap.Up.Keys(), short[1].Keys())
}
