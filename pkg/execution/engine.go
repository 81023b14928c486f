package execution

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/bjartek/invokepanel/pkg/document"
	"github.com/bjartek/invokepanel/pkg/express"
	"github.com/bjartek/invokepanel/pkg/invocation"
	"github.com/bjartek/invokepanel/pkg/neo"
	"github.com/bjartek/invokepanel/pkg/runner"
	"github.com/cockroachdb/errors"
	"github.com/enescakir/emoji"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

var (
	// ErrNoConnection is returned when no node connection could be established.
	ErrNoConnection = errors.New("no blockchain connection")
	// ErrRemoteNetwork is returned when the connected network is not controlled locally.
	ErrRemoteNetwork = errors.New("invocation files can only be run against a local neo-express network")
	// ErrCancelled is returned when the user dismisses the account prompt.
	ErrCancelled = errors.New("run cancelled")
)

// RunnerError carries the message of a failed runner invocation.
type RunnerError struct {
	Message string
}

func (e *RunnerError) Error() string { return e.Message }

// Connections gives the engine access to the active node connection.
type Connections interface {
	Active() *neo.Connection
	Connect(ctx context.Context) (*neo.Connection, error)
}

// Prompter asks the user to pick the signing account. ok is false when the
// prompt was dismissed.
type Prompter interface {
	SelectAccount(ctx context.Context, accounts []string) (account string, ok bool, err error)
}

// txIDPattern matches a 256-bit transaction hash as printed by neoxp. It is
// anchored on word boundaries so longer hex blobs in the output are skipped.
var txIDPattern = regexp.MustCompile(`\b0x[0-9a-fA-F]{64}\b`)

// Result of a successful run.
type Result struct {
	Blockchain string
	Account    string
	TxIDs      []string // In output order
	Output     string
}

type Options struct {
	Command        string // Runner subcommand, "contract invoke" for neoxp
	DefaultAccount string
	ExpressConfig  string // Passed to the runner with --input when set
}

// Engine runs invocation files through the external runner.
type Engine struct {
	fs       afero.Fs
	doc      document.Document
	conns    Connections
	prompter Prompter
	runner   runner.Runner
	opts     Options
	logger   zerolog.Logger
}

func NewEngine(fs afero.Fs, doc document.Document, conns Connections, prompter Prompter, r runner.Runner, opts Options, logger zerolog.Logger) *Engine {
	if opts.Command == "" {
		opts.Command = "contract invoke"
	}
	if opts.DefaultAccount == "" {
		opts.DefaultAccount = express.GenesisAccount
	}
	return &Engine{
		fs:       fs,
		doc:      doc,
		conns:    conns,
		prompter: prompter,
		runner:   r,
		opts:     opts,
		logger:   logger.With().Str("component", "execution").Logger(),
	}
}

// RunFile runs the invocation file at path. beforeInvoke, if set, is called
// once everything is in place and the runner is about to start.
func (e *Engine) RunFile(ctx context.Context, path string, beforeInvoke func()) (Result, error) {
	conn := e.conns.Active()
	if conn == nil {
		var err error
		conn, err = e.conns.Connect(ctx)
		if err != nil {
			return Result{}, errors.Mark(errors.Wrap(err, "connecting"), ErrNoConnection)
		}
	}
	if !conn.Local {
		e.logger.Warn().Str("blockchain", conn.Blockchain).Msg("Refusing to run against remote network")
		return Result{}, ErrRemoteNetwork
	}

	accounts := append(append([]string(nil), conn.Wallets...), e.opts.DefaultAccount)
	account, ok, err := e.prompter.SelectAccount(ctx, accounts)
	if err != nil {
		return Result{}, errors.Wrap(err, "selecting account")
	}
	if !ok {
		return Result{}, ErrCancelled
	}
	e.logger.Info().Str("account", account).Msgf("%v Selected signing account", emoji.Person)

	if err := e.doc.Save(); err != nil {
		return Result{}, errors.Wrap(err, "saving invocation file")
	}

	if beforeInvoke != nil {
		beforeInvoke()
	}

	args := []string{path, account}
	if e.opts.ExpressConfig != "" {
		args = append(args, "--input", e.opts.ExpressConfig)
	}
	res := e.runner.Run(ctx, e.opts.Command, args...)
	if res.IsError {
		e.logger.Error().Str("message", res.Message).Msg("Invocation failed")
		return Result{}, &RunnerError{Message: res.Message}
	}

	txids := ExtractTxIDs(res.Message)
	e.logger.Info().Strs("txids", txids).Msgf("%v Invocation submitted", emoji.Envelope)
	return Result{
		Blockchain: conn.Blockchain,
		Account:    account,
		TxIDs:      txids,
		Output:     res.Message,
	}, nil
}

// RunStep runs a single step by writing it to a scratch file next to the
// document. The scratch file is removed whatever the outcome; problems with
// it are logged and never replace the run result.
func (e *Engine) RunStep(ctx context.Context, step invocation.Step, beforeInvoke func()) (Result, error) {
	path := e.scratchPath()

	text, err := invocation.Serialize(invocation.File{step})
	if err != nil {
		return Result{}, err
	}
	if err := afero.WriteFile(e.fs, path, []byte(text), 0644); err != nil {
		// the runner reports the missing file itself
		e.logger.Error().Err(err).Str("path", path).Msg("Could not write scratch file")
	}
	defer func() {
		if err := e.fs.Remove(path); err != nil {
			e.logger.Error().Err(err).Str("path", path).Msg("Could not remove scratch file")
		}
	}()

	return e.RunFile(ctx, path, beforeInvoke)
}

func (e *Engine) scratchPath() string {
	dir := filepath.Dir(e.doc.Path())
	name := fmt.Sprintf(".invoke-%s-%s", uuid.NewString(), filepath.Base(e.doc.Path()))
	return filepath.Join(dir, name)
}

// ExtractTxIDs returns the distinct transaction ids found in runner output,
// in the order they appear.
func ExtractTxIDs(output string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, id := range txIDPattern.FindAllString(output, -1) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
