package runner

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newShell(t *testing.T) *Exec {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	return NewExec("sh", t.TempDir(), zerolog.Nop())
}

func TestExec_Success(t *testing.T) {
	r := newShell(t)

	res := r.Run(context.Background(), "-c", "echo 'Transaction 0xabc submitted'; echo done")
	assert.False(t, res.IsError)
	assert.Equal(t, "Transaction 0xabc submitted\ndone", res.Message)
}

func TestExec_FailureUsesStderr(t *testing.T) {
	r := newShell(t)

	res := r.Run(context.Background(), "-c", "echo partial; echo 'account not found' >&2; exit 3")
	assert.True(t, res.IsError)
	assert.Equal(t, "account not found", res.Message)
}

func TestExec_FailureWithoutOutput(t *testing.T) {
	r := newShell(t)

	res := r.Run(context.Background(), "-c", "exit 1")
	assert.True(t, res.IsError)
	assert.Contains(t, res.Message, "exit status 1")
}

func TestExec_MissingBinary(t *testing.T) {
	r := NewExec("definitely-not-a-real-binary-name", "", zerolog.Nop())

	res := r.Run(context.Background(), "contract", "invoke")
	assert.True(t, res.IsError)
	assert.NotEmpty(t, res.Message)
}

func TestExec_LongLines(t *testing.T) {
	r := newShell(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res := r.Run(ctx, "-c", "head -c 200000 /dev/zero | tr '\\0' x; echo")
	assert.False(t, res.IsError)
	assert.Len(t, res.Message, 200000)

	// a line over the limit is dropped but the process still runs to the end
	res = r.Run(ctx, "-c", "head -c 3000000 /dev/zero | tr '\\0' x; echo; echo done >&2")
	assert.False(t, res.IsError, res.Message)
	assert.Equal(t, "done", res.Message)
}
