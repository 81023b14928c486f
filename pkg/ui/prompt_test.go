package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_SelectAccount(t *testing.T) {
	var prompted accountPromptMsg
	p := NewPrompter(func(msg tea.Msg) {
		prompted = msg.(accountPromptMsg)
		prompted.reply <- accountChoice{account: "bob", ok: true}
	})

	account, ok, err := p.SelectAccount(context.Background(), []string{"alice", "bob"})

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "bob", account)
	assert.Equal(t, []string{"alice", "bob"}, prompted.accounts)
}

func TestPrompter_Dismissed(t *testing.T) {
	p := NewPrompter(func(msg tea.Msg) {
		newAccountPicker(msg.(accountPromptMsg)).dismiss()
	})

	account, ok, err := p.SelectAccount(context.Background(), []string{"alice"})

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, account)
}

func TestPrompter_NoAccounts(t *testing.T) {
	sent := false
	p := NewPrompter(func(tea.Msg) { sent = true })

	_, ok, err := p.SelectAccount(context.Background(), nil)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, sent, "no picker without accounts")
}

func TestPrompter_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPrompter(func(tea.Msg) { cancel() })

	_, ok, err := p.SelectAccount(ctx, []string{"alice"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}

func TestAccountPicker(t *testing.T) {
	tests := map[string]struct {
		keys []tea.KeyMsg
		want accountChoice
	}{
		"first":        {keys: []tea.KeyMsg{{Type: tea.KeyEnter}}, want: accountChoice{account: "alice", ok: true}},
		"down":         {keys: []tea.KeyMsg{keyRunes("j"), {Type: tea.KeyEnter}}, want: accountChoice{account: "bob", ok: true}},
		"clamped":      {keys: []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyDown}, {Type: tea.KeyDown}, {Type: tea.KeyEnter}}, want: accountChoice{account: "genesis", ok: true}},
		"down then up": {keys: []tea.KeyMsg{keyRunes("j"), keyRunes("k"), keyRunes("k"), {Type: tea.KeyEnter}}, want: accountChoice{account: "alice", ok: true}},
		"cancel":       {keys: []tea.KeyMsg{keyRunes("j"), {Type: tea.KeyEsc}}, want: accountChoice{}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			reply := make(chan accountChoice, 1)
			picker := newAccountPicker(accountPromptMsg{accounts: []string{"alice", "bob", "genesis"}, reply: reply})

			closed := false
			for _, k := range tc.keys {
				closed = picker.update(k)
			}

			assert.True(t, closed)
			assert.Equal(t, tc.want, <-reply)
		})
	}
}

func TestAccountPicker_AnswersOnce(t *testing.T) {
	reply := make(chan accountChoice, 1)
	picker := newAccountPicker(accountPromptMsg{accounts: []string{"alice"}, reply: reply})

	picker.update(tea.KeyMsg{Type: tea.KeyEnter})
	picker.dismiss()

	assert.Equal(t, accountChoice{account: "alice", ok: true}, <-reply)
	assert.Empty(t, reply)
}

func TestAccountPicker_View(t *testing.T) {
	picker := newAccountPicker(accountPromptMsg{accounts: []string{"alice", "bob"}, reply: make(chan accountChoice, 1)})
	picker.update(keyRunes("j"))

	view := picker.view()
	assert.Contains(t, view, "Select the account to sign with")
	assert.Contains(t, view, "  alice")
	assert.Contains(t, view, "> bob")
}

func TestRelay_QueuesUntilAttached(t *testing.T) {
	r := NewRelay()
	for i := 0; i < maxPending+10; i++ {
		r.Send(i)
	}

	require.Len(t, r.pending, maxPending)
	assert.Equal(t, 10, r.pending[0], "oldest messages are dropped")
	assert.Equal(t, maxPending+9, r.pending[maxPending-1])
}
