package tracker

import (
	"context"
	"sync"

	"github.com/bjartek/invokepanel/pkg/neo"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxLength is the number of recent transactions kept.
const DefaultMaxLength = 10

// pollConcurrency bounds the number of in-flight getrawtransaction calls per cycle.
const pollConcurrency = 4

type State int

const (
	Pending State = iota
	Ok
	Error
)

func (s State) String() string {
	switch s {
	case Ok:
		return "ok"
	case Error:
		return "error"
	default:
		return "pending"
	}
}

// RecentTransaction is a submitted transaction whose confirmation is being tracked.
type RecentTransaction struct {
	TxID       string
	Blockchain string
	Tx         *neo.Transaction
	State      State
}

// Resolved reports whether the transaction reached a final state. Resolved
// entries are never queried again.
func (r RecentTransaction) Resolved() bool {
	return r.State != Pending
}

// List holds recent transactions, most recent first.
type List []RecentTransaction

// Unshift puts each transaction at the head of the list in the order given,
// so the last one ends up first. An entry with the same txid is replaced and
// the list is truncated to max, dropping the oldest.
func (l List) Unshift(max int, txs ...RecentTransaction) List {
	out := make(List, len(l))
	copy(out, l)

	for _, tx := range txs {
		out = append(List{tx}, out.without(tx.TxID)...)
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

func (l List) without(txid string) List {
	out := make(List, 0, len(l))
	for _, tx := range l {
		if tx.TxID != txid {
			out = append(out, tx)
		}
	}
	return out
}

// Unresolved returns the entries that still need polling.
func (l List) Unresolved() List {
	out := List{}
	for _, tx := range l {
		if !tx.Resolved() {
			out = append(out, tx)
		}
	}
	return out
}

// Find returns the entry for txid.
func (l List) Find(txid string) (RecentTransaction, bool) {
	for _, tx := range l {
		if tx.TxID == txid {
			return tx, true
		}
	}
	return RecentTransaction{}, false
}

// Update is the outcome of polling one transaction.
type Update struct {
	TxID  string
	Tx    *neo.Transaction
	State State
}

// Apply merges poll results by txid. Entries that are already resolved are
// left alone, and entries absent from the list are ignored.
func (l List) Apply(updates []Update) List {
	byID := make(map[string]Update, len(updates))
	for _, u := range updates {
		byID[u.TxID] = u
	}

	out := make(List, len(l))
	for i, tx := range l {
		out[i] = tx
		u, ok := byID[tx.TxID]
		if !ok || tx.Resolved() {
			continue
		}
		out[i].Tx = u.Tx
		out[i].State = u.State
	}
	return out
}

// Classify maps a node response to a tracking state. A transaction the node
// has not persisted yet stays pending.
func Classify(tx *neo.Transaction) State {
	switch {
	case tx.Faulted():
		return Error
	case tx.Confirmed():
		return Ok
	default:
		return Pending
	}
}

// Poll queries every unresolved transaction in list. A failed query leaves
// that transaction out of the updates and is reported in the error map; it
// never stops the others from being polled.
func Poll(ctx context.Context, client neo.Client, list List, logger zerolog.Logger) ([]Update, map[string]error) {
	pending := list.Unresolved()
	updates := make([]Update, 0, len(pending))
	failures := map[string]error{}
	if client == nil || len(pending) == 0 {
		return updates, failures
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pollConcurrency)

	for _, entry := range pending {
		txid := entry.TxID
		g.Go(func() error {
			tx, err := client.GetRawTransaction(gctx, txid)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Debug().Err(err).Str("txid", txid).Msg("Transaction not available yet")
				failures[txid] = err
				return nil
			}
			updates = append(updates, Update{TxID: txid, Tx: tx, State: Classify(tx)})
			return nil
		})
	}
	_ = g.Wait()

	return updates, failures
}
