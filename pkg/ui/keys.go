package ui

import "github.com/charmbracelet/bubbles/key"

// StepsKeyMap defines the key bindings of the steps page.
type StepsKeyMap struct {
	Add                key.Binding
	Delete             key.Binding
	Edit               key.Binding
	MoveUp             key.Binding
	MoveDown           key.Binding
	RunStep            key.Binding
	RunAll             key.Binding
	ToggleTransactions key.Binding
	Save               key.Binding
	Cancel             key.Binding
}

func DefaultStepsKeyMap() StepsKeyMap {
	return StepsKeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add step"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete step"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit step"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move down"),
		),
		RunStep: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "run step"),
		),
		RunAll: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "run all"),
		),
		ToggleTransactions: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle transactions"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k StepsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.RunStep, k.RunAll}
}

// FullHelp returns keybindings for the expanded help view.
func (k StepsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Delete, k.Edit, k.MoveUp, k.MoveDown},
		{k.RunStep, k.RunAll, k.ToggleTransactions},
	}
}

type editorKeyMap struct {
	keys StepsKeyMap
}

func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.keys.Save, k.keys.Cancel}
}

func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.keys.Save, k.keys.Cancel}}
}
