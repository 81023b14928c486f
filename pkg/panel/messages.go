package panel

import (
	"github.com/bjartek/invokepanel/pkg/completion"
	"github.com/bjartek/invokepanel/pkg/execution"
	"github.com/bjartek/invokepanel/pkg/tracker"
)

// DocumentChangedMsg is sent when the invocation file changed on disk.
type DocumentChangedMsg struct{}

func (m DocumentChangedMsg) String() string {
	return "document_changed"
}

type documentReadMsg struct {
	text string
	err  error
}

type writeFailedMsg struct {
	err error
}

type refreshTickMsg struct{}

// refreshedMsg carries one refresh cycle: transaction polls and the
// recomputed completion data, applied together.
type refreshedMsg struct {
	updates    []tracker.Update
	completion completion.Data
	pollErrs   map[string]error
	fetchErrs  map[string]error
}

type runFinishedMsg struct {
	result execution.Result
	err    error
}

// expandTransactionsMsg is sent right before the runner starts.
type expandTransactionsMsg struct{}
