package splitview

import (
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

var testColumns = []ColumnConfig{
	{Name: "TxID", Width: 20},
	{Name: "State", Width: 10},
}

func testRows() []RowData {
	return []RowData{
		NewRowData(table.Row{"0xaa", "pending"}).WithKey("0xaa").WithCode("code1").WithContent("Content 1"),
		NewRowData(table.Row{"0xbb", "ok"}).WithKey("0xbb").WithCode("code2").WithContent("Content 2"),
		NewRowData(table.Row{"0xcc", "error"}).WithKey("0xcc").WithContent("Content 3"),
	}
}

func TestNew(t *testing.T) {
	tests := map[string]struct {
		opts        []Option
		wantRows    int
		wantPercent float64
	}{
		"Default": {
			wantPercent: defaultTableSplitPercent,
		},
		"WithRows": {
			opts:        []Option{WithRows(testRows())},
			wantRows:    3,
			wantPercent: defaultTableSplitPercent,
		},
		"WithTableSplitPercent": {
			opts:        []Option{WithTableSplitPercent(0.25)},
			wantPercent: 0.25,
		},
		"Out of range percent is ignored": {
			opts:        []Option{WithTableSplitPercent(1.5)},
			wantPercent: defaultTableSplitPercent,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			m := New(testColumns, tc.opts...)

			if len(m.Rows()) != tc.wantRows {
				t.Errorf("expected %d rows, got %d", tc.wantRows, len(m.Rows()))
			}
			if m.tableSplitPercent != tc.wantPercent {
				t.Errorf("expected split %f, got %f", tc.wantPercent, m.tableSplitPercent)
			}
			if len(m.Keys.ToggleFullscreen.Keys()) == 0 {
				t.Error("keys not initialized")
			}
		})
	}
}

func TestRowDataBuilder(t *testing.T) {
	row := NewRowData(table.Row{"a", "b"}).WithKey("k").WithCode("code").WithContent("content")

	if !reflect.DeepEqual(row.TableRow, table.Row{"a", "b"}) {
		t.Errorf("unexpected row %v", row.TableRow)
	}
	if row.Key != "k" || row.Code != "code" || row.Content != "content" {
		t.Errorf("unexpected row data %+v", row)
	}
}

func TestSetRows_KeepsSelectionByKey(t *testing.T) {
	m := New(testColumns, WithRows(testRows()))
	m.SetCursor(1)

	// a new transaction lands at the head of the list
	rows := append([]RowData{NewRowData(table.Row{"0xdd", "pending"}).WithKey("0xdd")}, testRows()...)
	m.SetRows(rows)

	if m.SelectedKey() != "0xbb" {
		t.Errorf("expected selection to follow 0xbb, got %q at %d", m.SelectedKey(), m.Cursor())
	}
}

func TestSetRows_ClampsCursor(t *testing.T) {
	m := New(testColumns, WithRows(testRows()))
	m.SetCursor(2)

	m.SetRows(testRows()[:1])

	if m.Cursor() != 0 {
		t.Errorf("expected cursor 0, got %d", m.Cursor())
	}
}

func TestSelectKey(t *testing.T) {
	m := New(testColumns, WithRows(testRows()))

	if !m.SelectKey("0xcc") {
		t.Fatal("expected 0xcc to be found")
	}
	if m.Cursor() != 2 {
		t.Errorf("expected cursor 2, got %d", m.Cursor())
	}
	if m.SelectKey("0xff") {
		t.Error("expected unknown key to be reported")
	}
	if m.Cursor() != 2 {
		t.Errorf("expected cursor to stay at 2, got %d", m.Cursor())
	}
}

func TestUpdate_TableNavigation(t *testing.T) {
	m := New(testColumns, WithRows(testRows()))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.Cursor() != 1 || m.SelectedKey() != "0xbb" {
		t.Errorf("expected second row selected, got %d (%q)", m.Cursor(), m.SelectedKey())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.Cursor() != 0 {
		t.Errorf("expected first row selected, got %d", m.Cursor())
	}
}

func TestUpdate_ToggleFullscreen(t *testing.T) {
	m := New(testColumns, WithRows(testRows()))

	if m.FullDetail() {
		t.Error("expected split mode initially")
	}

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if !m.FullDetail() {
		t.Error("expected fullscreen after space key")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.FullDetail() {
		t.Error("expected split mode after esc key")
	}
}

func TestView_Empty(t *testing.T) {
	m := New(testColumns, WithEmptyText("No transactions yet"))

	if m.View() != "" {
		t.Error("expected nothing before the first WindowSizeMsg")
	}

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	if !strings.Contains(m.View(), "No transactions yet") {
		t.Errorf("expected empty text in view, got %q", m.View())
	}
}

func TestView_ShowsSelectedDetail(t *testing.T) {
	m := New(testColumns, WithRows(testRows()))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	m.SetCursor(1)

	view := m.View()
	if !strings.Contains(view, "Content 2") || !strings.Contains(view, "code2") {
		t.Errorf("expected detail of second row, got %q", view)
	}
}

func TestKeyMap(t *testing.T) {
	m := New(testColumns, WithRows(testRows()))

	if len(m.KeyMap().FullHelp()) != 2 {
		t.Errorf("expected split keys and table keys, got %d groups", len(m.KeyMap().FullHelp()))
	}

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if len(m.KeyMap().FullHelp()) != 2 {
		t.Errorf("expected split keys and viewport keys, got %d groups", len(m.KeyMap().FullHelp()))
	}
}
