package logs

import (
	"bytes"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// LogLineMsg carries one log line to the UI.
type LogLineMsg struct {
	Line string
}

// lineBuffer bounds how many lines may wait for the UI. Lines beyond that are
// dropped rather than blocking the logger.
const lineBuffer = 512

// LogWriter is an io.Writer that forwards complete lines to a Bubble Tea
// program. Delivery happens on its own goroutine, so logging from inside
// Update never waits on the event loop.
type LogWriter struct {
	mu     sync.Mutex
	buffer bytes.Buffer
	lines  chan string
	done   chan struct{}
	once   sync.Once
}

// NewLogWriter creates a log writer that hands lines to send, normally
// tea.Program.Send.
func NewLogWriter(send func(tea.Msg)) *LogWriter {
	w := &LogWriter{
		lines: make(chan string, lineBuffer),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(w.done)
		for line := range w.lines {
			send(LogLineMsg{Line: line})
		}
	}()
	return w
}

// Write implements io.Writer. Incomplete trailing data is kept until the
// rest of the line arrives.
func (w *LogWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buffer.Write(p)
	for {
		data := w.buffer.Bytes()
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		line := string(data[:idx])
		w.buffer.Next(idx + 1)
		w.deliver(line)
	}
	return len(p), nil
}

func (w *LogWriter) deliver(line string) {
	select {
	case w.lines <- line:
	default:
	}
}

// Close flushes a pending partial line and waits until every queued line has
// been handed over.
func (w *LogWriter) Close() error {
	w.once.Do(func() {
		w.mu.Lock()
		if w.buffer.Len() > 0 {
			w.deliver(w.buffer.String())
			w.buffer.Reset()
		}
		close(w.lines)
		w.mu.Unlock()
		<-w.done
	})
	return nil
}
