package runner

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Result is what a runner invocation produced. Message holds the combined
// output on success and the error text on failure.
type Result struct {
	IsError bool
	Message string
}

// Runner invokes an external command with positional string arguments.
type Runner interface {
	Run(ctx context.Context, command string, args ...string) Result
}

// maxLineSize bounds a single line of runner output. neoxp prints whole
// transactions and contract manifests on one line.
const maxLineSize = 1 << 20

// Exec runs commands as child processes of the given binary, for example neoxp.
type Exec struct {
	binary string
	dir    string
	logger zerolog.Logger
}

func NewExec(binary, dir string, logger zerolog.Logger) *Exec {
	return &Exec{
		binary: binary,
		dir:    dir,
		logger: logger.With().Str("component", "runner").Logger(),
	}
}

// Run executes "<binary> <command> <args...>" and waits for it to exit.
func (e *Exec) Run(ctx context.Context, command string, args ...string) Result {
	argv := append(strings.Fields(command), args...)
	cmd := exec.CommandContext(ctx, e.binary, argv...)
	cmd.Dir = e.dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{IsError: true, Message: err.Error()}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Result{IsError: true, Message: err.Error()}
	}

	e.logger.Info().Str("binary", e.binary).Strs("args", argv).Msg("Starting runner")
	if err := cmd.Start(); err != nil {
		e.logger.Error().Err(err).Msg("Failed to start runner")
		return Result{IsError: true, Message: err.Error()}
	}

	var out, errOut bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(2)
	go e.scanOutput(&wg, stdout, &out, zerolog.InfoLevel)
	go e.scanOutput(&wg, stderr, &errOut, zerolog.WarnLevel)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		e.logger.Error().Err(err).Msg("Runner exited with error")
		msg := strings.TrimSpace(errOut.String())
		if msg == "" {
			msg = strings.TrimSpace(out.String())
		}
		if msg == "" {
			msg = err.Error()
		}
		return Result{IsError: true, Message: msg}
	}

	e.logger.Info().Msg("Runner exited")
	return Result{Message: strings.TrimSpace(out.String() + errOut.String())}
}

func (e *Exec) scanOutput(wg *sync.WaitGroup, r io.Reader, buf *bytes.Buffer, level zerolog.Level) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		buf.WriteString(line)
		buf.WriteByte('\n')
		e.logger.WithLevel(level).Msg(line)
	}
	if err := scanner.Err(); err != nil {
		e.logger.Warn().Err(err).Msg("Dropping the rest of the runner output")
		// keep draining so the child never blocks on a full pipe
		_, _ = io.Copy(io.Discard, r)
	}
}
