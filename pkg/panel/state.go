package panel

import (
	"slices"

	"github.com/bjartek/invokepanel/pkg/completion"
	"github.com/bjartek/invokepanel/pkg/invocation"
	"github.com/bjartek/invokepanel/pkg/tracker"
)

type NoticeLevel int

const (
	NoticeNone NoticeLevel = iota
	NoticeInfo
	NoticeWarning
	NoticeError
)

func (l NoticeLevel) String() string {
	switch l {
	case NoticeInfo:
		return "info"
	case NoticeWarning:
		return "warning"
	case NoticeError:
		return "error"
	default:
		return ""
	}
}

// Notice is the single user-facing message about the last run or write.
type Notice struct {
	Level NoticeLevel
	Text  string
}

// ViewState is everything the view renders. The controller hands out copies;
// a copy never changes underneath its holder.
type ViewState struct {
	FileContents         invocation.File
	AutoComplete         completion.Data
	ErrorText            string
	RecentTransactions   tracker.List
	CollapseTransactions bool
	SelectedTransaction  string
	Notice               Notice
}

func (s ViewState) clone() ViewState {
	out := s
	out.FileContents = slices.Clone(s.FileContents)
	out.RecentTransactions = slices.Clone(s.RecentTransactions)
	out.AutoComplete = s.AutoComplete.Clone()
	return out
}

// Request is a user action coming from the view. The set of requests is
// closed; every kind is handled by Controller.Update.
type Request interface {
	request()
}

// UpdateStep replaces the step at Index.
type UpdateStep struct {
	Index int
	Step  invocation.Step
}

// AddStep appends an empty step.
type AddStep struct{}

// DeleteStep removes the step at Index.
type DeleteStep struct {
	Index int
}

// MoveStep moves the step at From so it lands before the step currently at To.
type MoveStep struct {
	From int
	To   int
}

// RunAll runs the whole invocation file.
type RunAll struct{}

// RunStep runs only the step at Index.
type RunStep struct {
	Index int
}

type ToggleTransactions struct{}

type SelectTransaction struct {
	TxID string
}

func (UpdateStep) request()         {}
func (AddStep) request()            {}
func (DeleteStep) request()         {}
func (MoveStep) request()           {}
func (RunAll) request()             {}
func (RunStep) request()            {}
func (ToggleTransactions) request() {}
func (SelectTransaction) request()  {}
