package ui

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/bjartek/invokepanel/pkg/chroma"
	"github.com/bjartek/invokepanel/pkg/completion"
	"github.com/bjartek/invokepanel/pkg/config"
	"github.com/bjartek/invokepanel/pkg/invocation"
	"github.com/bjartek/invokepanel/pkg/neo"
	"github.com/bjartek/invokepanel/pkg/panel"
	"github.com/bjartek/invokepanel/pkg/splitview"
	"github.com/bjartek/invokepanel/pkg/tracker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

// compactTransactions is how many transactions the steps page lists when
// the transactions section is expanded.
const compactTransactions = 5

// StepsView lists the steps of the invocation file, shows the selected one
// with its contract information and lets the user edit and run them.
type StepsView struct {
	split     *splitview.Model
	editor    textarea.Model
	keys      StepsKeyMap
	codeStyle string

	state  panel.ViewState
	names  addressBook
	loaded bool

	editing   bool
	editIndex int
	editErr   string

	// cursor to select once the next state arrives, -1 for none
	pendingCursor int

	width  int
	height int
}

func NewStepsView(cfg config.UIConfig) *StepsView {
	columns := []splitview.ColumnConfig{
		{Name: "#", Width: 3},
		{Name: "Contract", Width: 20},
		{Name: "Operation", Width: 16},
	}

	editor := textarea.New()
	editor.Placeholder = `{"contract": "", "operation": "", "args": []}`
	editor.ShowLineNumbers = true
	editor.CharLimit = 0

	codeStyle := cfg.CodeStyle
	if codeStyle == "" {
		codeStyle = config.DefaultConfig().UI.CodeStyle
	}

	return &StepsView{
		split: splitview.New(columns,
			splitview.WithTableStyles(tableStyles()),
			splitview.WithTableSplitPercent(float64(cfg.TableWidthPercent)/100),
			splitview.WithEmptyText("No steps yet, press a to add one"),
		),
		editor:        editor,
		keys:          DefaultStepsKeyMap(),
		codeStyle:     codeStyle,
		names:         addressBook{},
		pendingCursor: -1,
	}
}

func (sv *StepsView) Init() tea.Cmd {
	return nil
}

func (sv *StepsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateMsg:
		sv.applyState(msg.State)
		return sv, nil

	case tea.WindowSizeMsg:
		sv.width = msg.Width
		sv.height = msg.Height
		sv.layout()
		return sv, nil

	case tea.KeyMsg:
		if sv.editing {
			return sv, sv.updateEditor(msg)
		}
		return sv, sv.handleKey(msg)
	}
	return sv, nil
}

func (sv *StepsView) handleKey(msg tea.KeyMsg) tea.Cmd {
	count := len(sv.state.FileContents)
	cursor := sv.split.Cursor()
	hasStep := cursor >= 0 && cursor < count

	switch {
	case key.Matches(msg, sv.keys.Add):
		sv.pendingCursor = count
		return request(panel.AddStep{})
	case key.Matches(msg, sv.keys.Delete) && hasStep:
		return request(panel.DeleteStep{Index: cursor})
	case key.Matches(msg, sv.keys.Edit) && hasStep:
		sv.startEditing(cursor)
		return textarea.Blink
	case key.Matches(msg, sv.keys.MoveUp) && hasStep:
		if cursor == 0 {
			return nil
		}
		sv.pendingCursor = cursor - 1
		return request(panel.MoveStep{From: cursor, To: cursor - 1})
	case key.Matches(msg, sv.keys.MoveDown) && hasStep:
		if cursor == count-1 {
			return nil
		}
		sv.pendingCursor = cursor + 1
		return request(panel.MoveStep{From: cursor, To: cursor + 2})
	case key.Matches(msg, sv.keys.RunStep) && hasStep:
		return request(panel.RunStep{Index: cursor})
	case key.Matches(msg, sv.keys.RunAll):
		return request(panel.RunAll{})
	case key.Matches(msg, sv.keys.ToggleTransactions):
		return request(panel.ToggleTransactions{})
	}

	_, cmd := sv.split.Update(msg)
	return cmd
}

func (sv *StepsView) startEditing(index int) {
	data, err := json.MarshalIndent(sv.state.FileContents[index], "", "  ")
	if err != nil {
		data = []byte("{}")
	}
	sv.editing = true
	sv.editIndex = index
	sv.editErr = ""
	sv.editor.SetValue(string(data))
	sv.editor.Focus()
	sv.layout()
}

func (sv *StepsView) stopEditing() {
	sv.editing = false
	sv.editErr = ""
	sv.editor.Blur()
	sv.layout()
}

func (sv *StepsView) updateEditor(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, sv.keys.Cancel):
		sv.stopEditing()
		return nil
	case key.Matches(msg, sv.keys.Save):
		step, err := parseStep(sv.editor.Value())
		if err != nil {
			sv.editErr = err.Error()
			return nil
		}
		index := sv.editIndex
		sv.stopEditing()
		return request(panel.UpdateStep{Index: index, Step: step})
	}

	var cmd tea.Cmd
	sv.editor, cmd = sv.editor.Update(msg)
	return cmd
}

// parseStep reads the editor contents as exactly one step.
func parseStep(text string) (invocation.Step, error) {
	file, err := invocation.Parse(text)
	if err != nil {
		return invocation.Step{}, err
	}
	if len(file) != 1 {
		return invocation.Step{}, errors.Newf("expected a single step object, got %d steps", len(file))
	}
	return file[0], nil
}

func (sv *StepsView) applyState(state panel.ViewState) {
	rebuild := !sv.loaded ||
		!reflect.DeepEqual(state.FileContents, sv.state.FileContents) ||
		!reflect.DeepEqual(state.AutoComplete, sv.state.AutoComplete)

	sv.state = state
	sv.loaded = true

	// the step being edited went away underneath us
	if sv.editing && sv.editIndex >= len(state.FileContents) {
		sv.stopEditing()
	}

	if rebuild {
		sv.names = newAddressBook(state.AutoComplete)
		sv.split.SetRows(sv.buildRows())
	}
	if sv.pendingCursor >= 0 && sv.pendingCursor < len(state.FileContents) {
		sv.split.SetCursor(sv.pendingCursor)
		sv.pendingCursor = -1
	}
	sv.layout()
}

func (sv *StepsView) buildRows() []splitview.RowData {
	rows := make([]splitview.RowData, 0, len(sv.state.FileContents))
	for i, step := range sv.state.FileContents {
		contract := step.Contract
		if step.IsContractHash() {
			contract = sv.names.GetName(contract)
		}
		code, _ := json.MarshalIndent(step, "", "  ")

		rows = append(rows, splitview.NewRowData(table.Row{
			strconv.Itoa(i + 1),
			contract,
			step.Operation,
		}).
			WithKey(strconv.Itoa(i)).
			WithContent(sv.describeStep(i, step)).
			WithCode(chroma.HighlightInvokeWithStyleAndWidth(string(code), sv.codeStyle, 0)))
	}
	return rows
}

// describeStep renders what is known about the step: the contract it calls,
// the signature of the operation and the formatted arguments.
func (sv *StepsView) describeStep(index int, step invocation.Step) string {
	var b strings.Builder
	data := sv.state.AutoComplete

	b.WriteString(sectionTitleStyle.Render(fmt.Sprintf("Step %d of %d", index+1, len(sv.state.FileContents))))
	b.WriteString("\n\n")

	hash, manifest, known := resolveContract(data, step.Contract)
	contract := step.Contract
	if contract == "" {
		contract = dimStyle.Render("(none)")
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Contract: "), valueStyle.Render(contract))
	if hash != "" && !strings.EqualFold(hash, step.Contract) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Hash:     "), valueStyle.Render(hash))
	}
	if known && manifest.Name != "" && manifest.Name != step.Contract {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Name:     "), valueStyle.Render(manifest.Name))
	}
	if paths := data.ContractPaths[hash]; len(paths) > 0 {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Path:     "), valueStyle.Render(paths[0]))
	}

	operation := step.Operation
	if operation == "" {
		operation = dimStyle.Render("(none)")
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Operation:"), valueStyle.Render(operation))

	if known {
		if method, ok := findMethod(manifest, step.Operation); ok {
			fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Signature:"), valueStyle.Render(signature(method)))
		} else {
			fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Available:"), dimStyle.Render(strings.Join(methodNames(manifest), ", ")))
		}
	}

	if len(step.Args) > 0 {
		b.WriteString(labelStyle.Render("Args:"))
		b.WriteString(FormatFieldValueWithRegistry(step.Args, "  ", sv.names, false, 0))
		b.WriteString("\n")
	}
	return b.String()
}

// resolveContract finds the hash and manifest for a contract given by hash,
// name or path.
func resolveContract(data completion.Data, contract string) (string, neo.Manifest, bool) {
	if contract == "" {
		return "", neo.Manifest{}, false
	}
	hash := contract
	if h, ok := data.ContractHashes[contract]; ok {
		hash = h
	}
	for k, manifest := range data.ContractManifests {
		if strings.EqualFold(k, hash) {
			return k, manifest, true
		}
	}
	if hash == contract && !strings.HasPrefix(hash, "0x") {
		return "", neo.Manifest{}, false
	}
	return hash, neo.Manifest{}, false
}

func findMethod(manifest neo.Manifest, name string) (neo.Method, bool) {
	for _, m := range manifest.ABI.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return neo.Method{}, false
}

func methodNames(manifest neo.Manifest) []string {
	seen := map[string]bool{}
	var names []string
	for _, m := range manifest.ABI.Methods {
		if strings.HasPrefix(m.Name, "_") || seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names
}

func signature(m neo.Method) string {
	params := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		params[i] = p.Name + " " + p.Type
	}
	return fmt.Sprintf("%s(%s) %s", m.Name, strings.Join(params, ", "), m.ReturnType)
}

func (sv *StepsView) errorBanner() string {
	if sv.state.ErrorText == "" || sv.width == 0 {
		return ""
	}
	return errorBannerStyle.Render(wordwrap.String(sv.state.ErrorText, max(sv.width-2, 20)))
}

// transactionsSection is the compact list of recent transactions under the
// steps, or a single summary line while collapsed.
func (sv *StepsView) transactionsSection() string {
	txs := sv.state.RecentTransactions
	if len(txs) == 0 {
		return dimStyle.Render("▸ No transactions yet")
	}

	if sv.state.CollapseTransactions {
		counts := map[tracker.State]int{}
		for _, tx := range txs {
			counts[tx.State]++
		}
		return dimStyle.Render(fmt.Sprintf("▸ Transactions: %d pending, %d ok, %d error (t to expand)",
			counts[tracker.Pending], counts[tracker.Ok], counts[tracker.Error]))
	}

	lines := []string{sectionTitleStyle.Render("▾ Transactions")}
	for i, tx := range txs {
		if i == compactTransactions {
			lines = append(lines, dimStyle.Render(fmt.Sprintf("  … %d more on the Transactions tab", len(txs)-compactTransactions)))
			break
		}
		marker := " "
		if tx.TxID == sv.state.SelectedTransaction {
			marker = ">"
		}
		line := fmt.Sprintf("%s %s %s %s", marker, stateStyle(tx.State).Render("●"), shortHash(tx.TxID), stateStyle(tx.State).Render(tx.State.String()))
		if sv.width > 0 {
			line = truncate.StringWithTail(line, uint(sv.width), "…")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func shortHash(h string) string {
	if len(h) <= 18 {
		return h
	}
	return h[:10] + "…" + h[len(h)-6:]
}

// layout gives the split view what is left after the banner and the
// transactions section.
func (sv *StepsView) layout() {
	if sv.width == 0 {
		return
	}
	used := 0
	if banner := sv.errorBanner(); banner != "" {
		used += lipgloss.Height(banner)
	}
	used += lipgloss.Height(sv.transactionsSection()) + 1

	available := max(sv.height-used, 3)
	sv.split.Update(tea.WindowSizeMsg{Width: sv.width, Height: available})
	sv.editor.SetWidth(sv.width)
	sv.editor.SetHeight(max(available-2, 3))
}

func (sv *StepsView) View() string {
	var parts []string
	if banner := sv.errorBanner(); banner != "" {
		parts = append(parts, banner)
	}

	if sv.editing {
		parts = append(parts, sectionTitleStyle.Render(fmt.Sprintf("Editing step %d", sv.editIndex+1)), sv.editor.View())
	} else {
		parts = append(parts, sv.split.View())
	}

	parts = append(parts, "", sv.transactionsSection())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (sv *StepsView) Name() string {
	return "Steps"
}

func (sv *StepsView) KeyMap() help.KeyMap {
	if sv.editing {
		return editorKeyMap{keys: sv.keys}
	}
	return stepsKeyMapAdapter{keys: sv.keys, split: sv.split.KeyMap()}
}

// FooterView shows the parse error of the editor, or the names that can be
// used in a step while editing.
func (sv *StepsView) FooterView() string {
	if !sv.editing {
		return ""
	}
	if sv.editErr != "" {
		return errorBannerStyle.Render(sv.editErr)
	}

	hints := completionHints(sv.state.AutoComplete)
	if hints == "" {
		return ""
	}
	if sv.width > 0 {
		hints = truncate.StringWithTail(hints, uint(sv.width), "…")
	}
	return dimStyle.Render(hints)
}

func (sv *StepsView) IsCapturingInput() bool {
	return sv.editing
}

// completionHints lists contract names and wallet references.
func completionHints(data completion.Data) string {
	var contracts []string
	for name := range data.ContractHashes {
		if !strings.ContainsAny(name, `/\`) {
			contracts = append(contracts, name)
		}
	}
	for _, manifest := range data.ContractManifests {
		if manifest.Name != "" {
			contracts = append(contracts, manifest.Name)
		}
	}
	contracts = uniqueSorted(contracts)

	var wallets []string
	for name := range data.WellKnownAddresses {
		wallets = append(wallets, "@"+name)
	}
	wallets = uniqueSorted(wallets)

	var parts []string
	if len(contracts) > 0 {
		parts = append(parts, "Contracts: "+strings.Join(contracts, ", "))
	}
	if len(wallets) > 0 {
		parts = append(parts, "Wallets: "+strings.Join(wallets, ", "))
	}
	return strings.Join(parts, " | ")
}

func uniqueSorted(in []string) []string {
	slices.Sort(in)
	return slices.Compact(in)
}

type stepsKeyMapAdapter struct {
	keys  StepsKeyMap
	split help.KeyMap
}

func (k stepsKeyMapAdapter) ShortHelp() []key.Binding {
	return k.keys.ShortHelp()
}

func (k stepsKeyMapAdapter) FullHelp() [][]key.Binding {
	return append(k.keys.FullHelp(), k.split.FullHelp()...)
}
