package tracker

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/bjartek/invokepanel/pkg/neo"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pending(ids ...string) []RecentTransaction {
	txs := make([]RecentTransaction, 0, len(ids))
	for _, id := range ids {
		txs = append(txs, RecentTransaction{TxID: id, Blockchain: "default.neo-express"})
	}
	return txs
}

func ids(l List) []string {
	out := make([]string, 0, len(l))
	for _, tx := range l {
		out = append(out, tx.TxID)
	}
	return out
}

func TestUnshift_NewestFirst(t *testing.T) {
	l := List{}.Unshift(DefaultMaxLength, pending("a", "b")...)
	assert.Equal(t, []string{"b", "a"}, ids(l))

	l = l.Unshift(DefaultMaxLength, pending("c")...)
	assert.Equal(t, []string{"c", "b", "a"}, ids(l))
}

func TestUnshift_TruncatesOldest(t *testing.T) {
	l := List{}
	for i := 0; i < DefaultMaxLength; i++ {
		l = l.Unshift(DefaultMaxLength, pending(fmt.Sprintf("tx%d", i))...)
	}
	require.Len(t, l, DefaultMaxLength)
	assert.Equal(t, "tx9", l[0].TxID)
	assert.Equal(t, "tx0", l[9].TxID)

	before := l
	l = l.Unshift(DefaultMaxLength, pending("tx10")...)
	require.Len(t, l, DefaultMaxLength)
	assert.Equal(t, "tx10", l[0].TxID)
	assert.Equal(t, "tx1", l[9].TxID)
	_, found := l.Find("tx0")
	assert.False(t, found, "oldest entry must be dropped")

	assert.Equal(t, "tx9", before[0].TxID, "input must not be modified")
}

func TestUnshift_UniqueTxID(t *testing.T) {
	l := List{}.Unshift(DefaultMaxLength, pending("a", "b", "c")...)
	l = l.Unshift(DefaultMaxLength, pending("a")...)
	assert.Equal(t, []string{"a", "c", "b"}, ids(l))
}

func TestApply_StatusIsMonotonic(t *testing.T) {
	l := List{
		{TxID: "ok", State: Ok, Tx: &neo.Transaction{Hash: "ok", VMState: "HALT"}},
		{TxID: "err", State: Error},
		{TxID: "p"},
	}

	out := l.Apply([]Update{
		{TxID: "ok", State: Error, Tx: &neo.Transaction{VMState: "FAULT"}},
		{TxID: "err", State: Ok},
		{TxID: "p", State: Ok, Tx: &neo.Transaction{Hash: "p", BlockHash: "0x1"}},
		{TxID: "missing", State: Ok},
	})

	assert.Equal(t, Ok, out[0].State)
	assert.Equal(t, "HALT", out[0].Tx.VMState)
	assert.Equal(t, Error, out[1].State)
	assert.Equal(t, Ok, out[2].State)
	assert.Equal(t, "p", out[2].Tx.Hash)
	assert.Len(t, out, 3)
	assert.Equal(t, Pending, l[2].State, "input must not be modified")
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Pending, Classify(&neo.Transaction{Hash: "x"}))
	assert.Equal(t, Ok, Classify(&neo.Transaction{Hash: "x", Confirmations: 1, VMState: "HALT"}))
	assert.Equal(t, Error, Classify(&neo.Transaction{Hash: "x", Confirmations: 1, VMState: "FAULT"}))
}

type fakeClient struct {
	mu      sync.Mutex
	txs     map[string]*neo.Transaction
	fail    map[string]error
	queried []string
}

func (f *fakeClient) GetRawTransaction(_ context.Context, id string) (*neo.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queried = append(f.queried, id)
	if err, ok := f.fail[id]; ok {
		return nil, err
	}
	if tx, ok := f.txs[id]; ok {
		return tx, nil
	}
	return nil, neo.ErrUnknown
}

func (f *fakeClient) GetContractState(context.Context, string) (*neo.ContractState, error) {
	return nil, neo.ErrUnknown
}

func TestPoll(t *testing.T) {
	client := &fakeClient{
		txs: map[string]*neo.Transaction{
			"confirmed": {Hash: "confirmed", Confirmations: 1, VMState: "HALT"},
			"faulted":   {Hash: "faulted", Confirmations: 1, VMState: "FAULT"},
			"mempool":   {Hash: "mempool"},
			"done":      {Hash: "done", Confirmations: 5},
		},
		fail: map[string]error{"broken": errors.New("connection reset")},
	}

	l := List{
		{TxID: "confirmed"},
		{TxID: "broken"},
		{TxID: "faulted"},
		{TxID: "unknown"},
		{TxID: "mempool"},
		{TxID: "done", State: Ok},
	}

	updates, failures := Poll(context.Background(), client, l, zerolog.Nop())

	assert.ElementsMatch(t, []string{"confirmed", "broken", "faulted", "unknown", "mempool"}, client.queried,
		"resolved entries are never queried")
	assert.Len(t, failures, 2)
	assert.Contains(t, failures, "broken")
	assert.Contains(t, failures, "unknown")

	out := l.Apply(updates)
	assert.Equal(t, Ok, out[0].State)
	assert.Equal(t, Pending, out[1].State)
	assert.Equal(t, Error, out[2].State)
	assert.Equal(t, Pending, out[3].State)
	assert.Equal(t, Pending, out[4].State)
	assert.NotNil(t, out[4].Tx, "an unconfirmed transaction is still recorded")
	assert.Equal(t, Ok, out[5].State)
}

func TestPoll_NothingToDo(t *testing.T) {
	updates, failures := Poll(context.Background(), nil, List{{TxID: "a"}}, zerolog.Nop())
	assert.Empty(t, updates)
	assert.Empty(t, failures)

	client := &fakeClient{}
	updates, _ = Poll(context.Background(), client, List{{TxID: "a", State: Error}}, zerolog.Nop())
	assert.Empty(t, updates)
	assert.Empty(t, client.queried)
}
