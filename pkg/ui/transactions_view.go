package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bjartek/invokepanel/pkg/chroma"
	"github.com/bjartek/invokepanel/pkg/config"
	"github.com/bjartek/invokepanel/pkg/panel"
	"github.com/bjartek/invokepanel/pkg/splitview"
	"github.com/bjartek/invokepanel/pkg/tracker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

type TransactionsKeyMap struct {
	ToggleRawAddresses key.Binding
}

func DefaultTransactionsKeyMap() TransactionsKeyMap {
	return TransactionsKeyMap{
		ToggleRawAddresses: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle raw addresses"),
		),
	}
}

// TransactionsView lists the recently submitted transactions with the node's
// view of the selected one.
type TransactionsView struct {
	sv               *splitview.Model
	keys             TransactionsKeyMap
	codeStyle        string
	state            panel.ViewState
	names            addressBook
	showRawAddresses bool
}

func NewTransactionsView(cfg config.UIConfig) *TransactionsView {
	columns := []splitview.ColumnConfig{
		{Name: "TxID", Width: 19},
		{Name: "State", Width: 8},
		{Name: "Network", Width: 20},
	}

	codeStyle := cfg.CodeStyle
	if codeStyle == "" {
		codeStyle = config.DefaultConfig().UI.CodeStyle
	}

	return &TransactionsView{
		sv: splitview.New(columns,
			splitview.WithTableStyles(tableStyles()),
			splitview.WithTableSplitPercent(float64(cfg.TableWidthPercent)/100),
			splitview.WithEmptyText("No transactions yet"),
		),
		keys:      DefaultTransactionsKeyMap(),
		codeStyle: codeStyle,
		names:     addressBook{},
	}
}

func (tv *TransactionsView) Init() tea.Cmd { return tv.sv.Init() }

func (tv *TransactionsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateMsg:
		tv.state = msg.State
		tv.names = newAddressBook(msg.State.AutoComplete)
		tv.refreshRows()
		return tv, nil

	case tea.KeyMsg:
		if key.Matches(msg, tv.keys.ToggleRawAddresses) {
			tv.showRawAddresses = !tv.showRawAddresses
			tv.refreshRows()
			return tv, nil
		}

		before := tv.sv.SelectedKey()
		_, cmd := tv.sv.Update(msg)
		if after := tv.sv.SelectedKey(); after != before && after != "" {
			return tv, tea.Batch(cmd, request(panel.SelectTransaction{TxID: after}))
		}
		return tv, cmd
	}

	_, cmd := tv.sv.Update(msg)
	return tv, cmd
}

func (tv *TransactionsView) refreshRows() {
	rows := make([]splitview.RowData, 0, len(tv.state.RecentTransactions))
	for _, tx := range tv.state.RecentTransactions {
		row := splitview.NewRowData(table.Row{
			shortHash(tx.TxID),
			tx.State.String(),
			tx.Blockchain,
		}).
			WithKey(tx.TxID).
			WithContent(tv.describe(tx))

		if tx.Tx != nil {
			if data, err := json.MarshalIndent(tx.Tx, "", "  "); err == nil {
				row = row.WithCode(chroma.HighlightInvokeWithStyleAndWidth(string(data), tv.codeStyle, 0))
			}
		}
		rows = append(rows, row)
	}
	tv.sv.SetRows(rows)

	if selected := tv.state.SelectedTransaction; selected != "" && selected != tv.sv.SelectedKey() {
		tv.sv.SelectKey(selected)
	}
}

func (tv *TransactionsView) describe(tx tracker.RecentTransaction) string {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(label), valueStyle.Render(value))
	}

	field("TxID:      ", tx.TxID)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("State:     "), stateStyle(tx.State).Render(tx.State.String()))
	field("Network:   ", tx.Blockchain)

	if tx.Tx == nil {
		b.WriteString(dimStyle.Render("Waiting for the node to report the transaction"))
		return b.String()
	}

	sender := tx.Tx.Sender
	if !tv.showRawAddresses {
		sender = FormatFieldValueWithRegistry(sender, "", tv.names, false, 0)
	}
	field("Sender:    ", sender)
	if tx.Tx.BlockHash != "" {
		field("Block:     ", tx.Tx.BlockHash)
		field("Confirmed: ", fmt.Sprintf("%d confirmation(s)", tx.Tx.Confirmations))
	}
	if tx.Tx.VMState != "" {
		field("VM state:  ", tx.Tx.VMState)
	}
	field("System fee:", tx.Tx.SysFee)
	field("Net fee:   ", tx.Tx.NetFee)
	return b.String()
}

func (tv *TransactionsView) View() string {
	return tv.sv.View()
}

func (tv *TransactionsView) Name() string {
	return "Transactions"
}

func (tv *TransactionsView) KeyMap() help.KeyMap {
	return transactionsKeyMapAdapter{keys: tv.keys, split: tv.sv.KeyMap()}
}

func (tv *TransactionsView) FooterView() string {
	return ""
}

func (tv *TransactionsView) IsCapturingInput() bool {
	return false
}

type transactionsKeyMapAdapter struct {
	keys  TransactionsKeyMap
	split help.KeyMap
}

func (k transactionsKeyMapAdapter) ShortHelp() []key.Binding {
	return append([]key.Binding{k.keys.ToggleRawAddresses}, k.split.ShortHelp()...)
}

func (k transactionsKeyMapAdapter) FullHelp() [][]key.Binding {
	return append([][]key.Binding{{k.keys.ToggleRawAddresses}}, k.split.FullHelp()...)
}
