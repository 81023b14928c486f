package ui

import (
	"github.com/bjartek/invokepanel/pkg/panel"
	tea "github.com/charmbracelet/bubbletea"
)

// StateMsg hands a fresh copy of the panel state to the pages.
type StateMsg struct {
	State panel.ViewState
}

// accountPromptMsg opens the account picker. The choice is sent on reply,
// which is buffered so the picker never blocks.
type accountPromptMsg struct {
	accounts []string
	reply    chan<- accountChoice
}

type accountChoice struct {
	account string
	ok      bool
}

func request(r panel.Request) tea.Cmd {
	return func() tea.Msg { return r }
}
