package logs

import (
	"io"
	"os"
	"strings"

	"github.com/bjartek/invokepanel/pkg/config"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// New creates a zerolog logger that writes to the TUI logs view and, when
// cfg.File is set, appends plain text to that file. Nothing is written to
// stdout so the TUI display stays intact. The returned closer flushes and
// closes both outputs.
func New(cfg config.LoggingConfig, send func(tea.Msg)) (zerolog.Logger, io.Closer, error) {
	tuiWriter := NewLogWriter(send)
	closers := closeAll{tuiWriter}

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        tuiWriter,
		TimeFormat: cfg.TimestampFormat,
		NoColor:    !cfg.Color,
	}}

	if cfg.File != "" {
		logFile, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			_ = tuiWriter.Close()
			return zerolog.Logger{}, nil, errors.Wrapf(err, "opening log file %s", cfg.File)
		}
		closers = append(closers, logFile)
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        logFile,
			TimeFormat: cfg.TimestampFormat,
			NoColor:    true,
		})
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(cfg.Level.Global)).
		With().
		Timestamp().
		Logger()

	return logger, closers, nil
}

// Leveled returns logger filtered at level, which may be below the level of
// the parent. An empty level keeps the parent's.
func Leveled(logger zerolog.Logger, level string) zerolog.Logger {
	if level == "" {
		return logger
	}
	return logger.Level(ParseLevel(level))
}

// ParseLevel maps a configured level name to zerolog, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

type closeAll []io.Closer

func (c closeAll) Close() error {
	var errs error
	for _, closer := range c {
		if err := closer.Close(); err != nil {
			errs = errors.CombineErrors(errs, err)
		}
	}
	return errs
}
