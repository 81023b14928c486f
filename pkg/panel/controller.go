package panel

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bjartek/invokepanel/pkg/completion"
	"github.com/bjartek/invokepanel/pkg/document"
	"github.com/bjartek/invokepanel/pkg/execution"
	"github.com/bjartek/invokepanel/pkg/invocation"
	"github.com/bjartek/invokepanel/pkg/neo"
	"github.com/bjartek/invokepanel/pkg/tracker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/enescakir/emoji"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultRefreshInterval is how long the controller waits between the end of
// one refresh cycle and the start of the next.
const DefaultRefreshInterval = 5 * time.Second

// Engine runs invocation files.
type Engine interface {
	RunFile(ctx context.Context, path string, beforeInvoke func()) (execution.Result, error)
	RunStep(ctx context.Context, step invocation.Step, beforeInvoke func()) (execution.Result, error)
}

// Connections exposes the connection used for polling and completion.
type Connections interface {
	Active() *neo.Connection
}

// Controller owns the ViewState of one invocation file. All state changes
// happen in Update, which must only be called from the bubbletea event loop;
// blocking work runs in commands and reports back with messages.
type Controller struct {
	doc    document.Document
	engine Engine
	conns  Connections
	source completion.Source
	logger zerolog.Logger

	send            func(tea.Msg)
	refreshInterval time.Duration
	maxTransactions int

	ctx       context.Context
	cancel    context.CancelFunc
	closed    atomic.Bool
	closeOnce sync.Once
	subs      []io.Closer

	state   ViewState
	running bool
}

type Option func(*Controller)

// WithSender sets how messages produced outside a command reach the event
// loop, normally tea.Program.Send.
func WithSender(send func(tea.Msg)) Option {
	return func(c *Controller) {
		c.send = send
	}
}

func WithRefreshInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.refreshInterval = d
		}
	}
}

func WithMaxTransactions(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxTransactions = n
		}
	}
}

// WithSubscription registers a change subscription (usually the document
// watcher) that is closed together with the controller.
func WithSubscription(sub io.Closer) Option {
	return func(c *Controller) {
		c.subs = append(c.subs, sub)
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(doc document.Document, engine Engine, conns Connections, source completion.Source, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		doc:             doc,
		engine:          engine,
		conns:           conns,
		source:          source,
		logger:          zerolog.Nop(),
		send:            func(tea.Msg) {},
		refreshInterval: DefaultRefreshInterval,
		maxTransactions: tracker.DefaultMaxLength,
		ctx:             ctx,
		cancel:          cancel,
		state: ViewState{
			FileContents:         invocation.File{},
			AutoComplete:         completion.NewData(),
			CollapseTransactions: true,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("component", "panel").Str("file", filepath.Base(doc.Path())).Logger()
	return c
}

// Init loads the document and starts the refresh loop.
func (c *Controller) Init() tea.Cmd {
	return tea.Batch(
		c.readDocument(),
		func() tea.Msg { return refreshTickMsg{} },
	)
}

// State returns a copy of the current view state.
func (c *Controller) State() ViewState {
	return c.state.clone()
}

// Closed reports whether Close has been called.
func (c *Controller) Closed() bool {
	return c.closed.Load()
}

// Close stops the refresh loop, cancels in-flight work and disposes the
// change subscriptions. It is safe to call more than once and from any
// goroutine.
func (c *Controller) Close() error {
	var errs error
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.cancel()
		for _, sub := range c.subs {
			if err := sub.Close(); err != nil {
				errs = errors.CombineErrors(errs, err)
			}
		}
		c.logger.Debug().Msg("Panel closed")
	})
	return errs
}

// Update applies msg to the view state and returns the follow-up work.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	if c.closed.Load() {
		return nil
	}

	switch msg := msg.(type) {
	case DocumentChangedMsg:
		return c.readDocument()

	case documentReadMsg:
		c.applyDocument(msg.text, msg.err)
		return nil

	case writeFailedMsg:
		c.state.Notice = Notice{Level: NoticeError, Text: fmt.Sprintf("Could not update %s: %v", c.doc.Path(), msg.err)}
		return nil

	case refreshTickMsg:
		return c.refresh()

	case refreshedMsg:
		c.state.RecentTransactions = c.state.RecentTransactions.Apply(msg.updates)
		c.state.AutoComplete = msg.completion
		if len(msg.pollErrs) > 0 || len(msg.fetchErrs) > 0 {
			c.logger.Debug().Int("transactions", len(msg.pollErrs)).Int("contracts", len(msg.fetchErrs)).Msg("Some lookups failed during refresh")
		}
		return c.scheduleRefresh()

	case expandTransactionsMsg:
		c.state.CollapseTransactions = false
		return nil

	case runFinishedMsg:
		c.running = false
		c.applyRun(msg.result, msg.err)
		return nil

	case Request:
		return c.handleRequest(msg)
	}
	return nil
}

func (c *Controller) handleRequest(req Request) tea.Cmd {
	switch req := req.(type) {
	// edits that change nothing leave the document alone, so its formatting
	// survives a stray key press
	case UpdateStep:
		if !c.state.FileContents.InRange(req.Index) {
			return nil
		}
		return c.write(invocation.Update(c.state.FileContents, req.Index, req.Step))
	case AddStep:
		return c.write(invocation.Add(c.state.FileContents))
	case DeleteStep:
		if !c.state.FileContents.InRange(req.Index) {
			return nil
		}
		return c.write(invocation.Delete(c.state.FileContents, req.Index))
	case MoveStep:
		if !c.state.FileContents.Reorders(req.From, req.To) {
			return nil
		}
		return c.write(invocation.Move(c.state.FileContents, req.From, req.To))

	case RunAll:
		return c.run(func(ctx context.Context, hook func()) (execution.Result, error) {
			return c.engine.RunFile(ctx, c.doc.Path(), hook)
		})
	case RunStep:
		if req.Index < 0 || req.Index >= len(c.state.FileContents) {
			return nil
		}
		step := c.state.FileContents[req.Index]
		return c.run(func(ctx context.Context, hook func()) (execution.Result, error) {
			return c.engine.RunStep(ctx, step, hook)
		})

	case ToggleTransactions:
		c.state.CollapseTransactions = !c.state.CollapseTransactions
	case SelectTransaction:
		c.state.SelectedTransaction = req.TxID
	}
	return nil
}

func (c *Controller) readDocument() tea.Cmd {
	doc := c.doc
	return func() tea.Msg {
		text, err := doc.Text()
		return documentReadMsg{text: text, err: err}
	}
}

// applyDocument replaces the file contents with the parsed text. A read or
// parse failure keeps the previous contents.
func (c *Controller) applyDocument(text string, err error) {
	if err != nil {
		c.logger.Warn().Err(err).Msg("Could not read invocation file")
		c.state.ErrorText = fmt.Sprintf("Could not read %s: %v", c.doc.Path(), err)
		return
	}

	file, err := invocation.Parse(text)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Invocation file does not parse")
		c.state.ErrorText = fmt.Sprintf("There was an error parsing %s: %v", c.doc.Path(), err)
		return
	}

	c.state.FileContents = file
	c.state.ErrorText = ""
	c.logger.Debug().Int("steps", len(file)).Msgf("%v Invocation file loaded", emoji.Scroll)
}

// write replaces the document with file. The state is updated once the
// change notification for the write comes back.
func (c *Controller) write(file invocation.File) tea.Cmd {
	doc := c.doc
	return func() tea.Msg {
		text, err := invocation.Serialize(file)
		if err == nil {
			err = doc.Replace(text)
		}
		if err != nil {
			return writeFailedMsg{err: err}
		}
		return nil
	}
}

type runFunc func(ctx context.Context, beforeInvoke func()) (execution.Result, error)

func (c *Controller) run(fn runFunc) tea.Cmd {
	if c.running {
		c.state.Notice = Notice{Level: NoticeWarning, Text: "An invocation is already running"}
		return nil
	}
	c.running = true

	ctx, send := c.ctx, c.send
	return func() tea.Msg {
		res, err := fn(ctx, func() { send(expandTransactionsMsg{}) })
		return runFinishedMsg{result: res, err: err}
	}
}

func (c *Controller) applyRun(res execution.Result, err error) {
	var runErr *execution.RunnerError
	switch {
	case err == nil:
	case errors.Is(err, execution.ErrCancelled):
		c.state.Notice = Notice{Level: NoticeInfo, Text: "Invocation cancelled"}
		return
	case errors.Is(err, execution.ErrRemoteNetwork):
		c.state.Notice = Notice{Level: NoticeWarning, Text: err.Error()}
		return
	case errors.Is(err, execution.ErrNoConnection):
		c.state.Notice = Notice{Level: NoticeWarning, Text: fmt.Sprintf("Could not connect to a blockchain: %v", err)}
		return
	case errors.As(err, &runErr):
		c.state.Notice = Notice{Level: NoticeError, Text: runErr.Message}
		return
	default:
		c.logger.Error().Err(err).Msg("Invocation failed")
		c.state.Notice = Notice{Level: NoticeError, Text: err.Error()}
		return
	}

	if len(res.TxIDs) == 0 {
		c.logger.Warn().Str("output", res.Output).Msg("No transaction ids in runner output")
		c.state.Notice = Notice{Level: NoticeWarning, Text: "Invocation finished but no transaction id was found in the output"}
		return
	}

	txs := make([]tracker.RecentTransaction, 0, len(res.TxIDs))
	for _, txid := range res.TxIDs {
		txs = append(txs, tracker.RecentTransaction{TxID: txid, Blockchain: res.Blockchain, State: tracker.Pending})
	}
	c.state.RecentTransactions = c.state.RecentTransactions.Unshift(c.maxTransactions, txs...)
	c.state.Notice = Notice{Level: NoticeInfo, Text: fmt.Sprintf("Submitted %d transaction(s) as %s", len(res.TxIDs), res.Account)}
}

// refresh polls unresolved transactions and recomputes completion data from
// the state as it is now. Both land in a single refreshedMsg.
func (c *Controller) refresh() tea.Cmd {
	ctx := c.ctx
	list := c.state.RecentTransactions
	file := c.state.FileContents
	conn := c.conns.Active()
	path := c.doc.Path()
	source := c.source
	logger := c.logger

	return func() tea.Msg {
		var msg refreshedMsg
		var g errgroup.Group

		g.Go(func() error {
			var client neo.Client
			if conn != nil {
				client = conn.Client
			}
			msg.updates, msg.pollErrs = tracker.Poll(ctx, client, list, logger)
			return nil
		})
		g.Go(func() error {
			base := completion.NewData()
			if source != nil {
				data, err := source.Data(ctx, conn)
				if err != nil {
					logger.Debug().Err(err).Msg("Completion source failed")
				}
				base = data
			}
			msg.completion, msg.fetchErrs = completion.Augment(ctx, path, base, file, conn, logger)
			return nil
		})
		_ = g.Wait()

		return msg
	}
}

// scheduleRefresh starts the next cycle after the interval. The closed flag
// is checked again when the tick arrives.
func (c *Controller) scheduleRefresh() tea.Cmd {
	return tea.Tick(c.refreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}
