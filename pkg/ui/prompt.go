package ui

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Relay forwards messages to a tea.Program that is created after the parts
// that need to send to it. Messages sent before Attach are queued.
type Relay struct {
	mu      sync.Mutex
	program *tea.Program
	pending []tea.Msg
}

// maxPending bounds the queue before Attach; older messages are dropped.
const maxPending = 256

func NewRelay() *Relay {
	return &Relay{}
}

// Attach connects the relay to p and hands over the queued messages. It
// must be called before p.Run.
func (r *Relay) Attach(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	pending := r.pending
	r.pending = nil
	r.mu.Unlock()

	if len(pending) == 0 {
		return
	}
	// Send blocks until the program is running
	go func() {
		for _, msg := range pending {
			p.Send(msg)
		}
	}()
}

// Send delivers msg to the program. It must not be called from inside the
// program's Update.
func (r *Relay) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.program
	if p == nil {
		if len(r.pending) == maxPending {
			r.pending = r.pending[1:]
		}
		r.pending = append(r.pending, msg)
	}
	r.mu.Unlock()

	if p != nil {
		p.Send(msg)
	}
}

// Prompter asks for the signing account through the account picker.
type Prompter struct {
	send func(tea.Msg)
}

func NewPrompter(send func(tea.Msg)) *Prompter {
	return &Prompter{send: send}
}

// SelectAccount opens the picker and waits for the user's choice. ok is false
// when the picker was dismissed. The wait ends early when ctx is done.
func (p *Prompter) SelectAccount(ctx context.Context, accounts []string) (string, bool, error) {
	if len(accounts) == 0 {
		return "", false, nil
	}

	reply := make(chan accountChoice, 1)
	p.send(accountPromptMsg{accounts: append([]string(nil), accounts...), reply: reply})

	select {
	case choice := <-reply:
		return choice.account, choice.ok, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

func defaultPickerKeyMap() pickerKeyMap {
	return pickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "q", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// accountPicker is the modal list of accounts shown before a run.
type accountPicker struct {
	accounts []string
	cursor   int
	reply    chan<- accountChoice
	keys     pickerKeyMap
	done     bool
}

func newAccountPicker(msg accountPromptMsg) *accountPicker {
	return &accountPicker{
		accounts: msg.accounts,
		reply:    msg.reply,
		keys:     defaultPickerKeyMap(),
	}
}

// update handles a key press and reports whether the picker closed.
func (p *accountPicker) update(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, p.keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, p.keys.Down):
		if p.cursor < len(p.accounts)-1 {
			p.cursor++
		}
	case key.Matches(msg, p.keys.Select):
		p.answer(accountChoice{account: p.accounts[p.cursor], ok: true})
	case key.Matches(msg, p.keys.Cancel):
		p.answer(accountChoice{})
	}
	return p.done
}

// dismiss closes the picker without a choice, e.g. when a new prompt replaces it.
func (p *accountPicker) dismiss() {
	p.answer(accountChoice{})
}

func (p *accountPicker) answer(choice accountChoice) {
	if p.done {
		return
	}
	p.done = true
	p.reply <- choice
}

func (p *accountPicker) view() string {
	lines := []string{sectionTitleStyle.Render("Select the account to sign with"), ""}
	for i, account := range p.accounts {
		if i == p.cursor {
			lines = append(lines, pickerSelectedStyle.Render("> "+account))
		} else {
			lines = append(lines, "  "+valueStyle.Render(account))
		}
	}
	lines = append(lines, "", dimStyle.Render("enter select • esc cancel"))
	return pickerStyle.Render(strings.Join(lines, "\n"))
}

// overlay centers the picker in an area of width x height.
func (p *accountPicker) overlay(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, p.view())
}
