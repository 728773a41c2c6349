/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package log provides a structured logger built on top of github.com/ssgreg/logf.
package log

import (
	"io"
	"os"

	"github.com/ssgreg/logf"
)

// Field is a single key-value pair attached to a log entry.
type Field = logf.Field

// CloseFunc flushes buffered entries and stops the background writer.
type CloseFunc logf.ChannelWriterCloseFunc

// Field constructors.
var (
	Error  = logf.Error
	String = logf.String
	Int    = logf.Int
	Int64  = logf.Int64
)

// FieldLogger writes structured log entries.
type FieldLogger interface {
	With(...Field) FieldLogger
	// WithLevel returns a logger that additionally drops entries below level.
	WithLevel(level Level) FieldLogger

	Debug(string, ...Field)
	Info(string, ...Field)
	Warn(string, ...Field)
	Error(string, ...Field)
}

// LogfAdapter is a FieldLogger on top of logf.Logger.
type LogfAdapter struct {
	Logger *logf.Logger
}

var _ FieldLogger = (*LogfAdapter)(nil)

// NewDisabledLogger returns a logger that drops everything.
func NewDisabledLogger() FieldLogger {
	return &LogfAdapter{Logger: logf.NewDisabledLogger()}
}

// NewLogger returns a logger writing to the output chosen by the configuration.
// The returned CloseFunc must be called before exit, otherwise buffered entries are lost.
func NewLogger(cfg *Config) (FieldLogger, CloseFunc) {
	return newLogger(cfg, newAppender(cfg, openOutput(cfg)))
}

// NewLoggerWithWriter is like NewLogger but always writes to w.
func NewLoggerWithWriter(cfg *Config, w io.Writer) (FieldLogger, CloseFunc) {
	return newLogger(cfg, newAppender(cfg, w))
}

func newLogger(cfg *Config, appender logf.Appender) (FieldLogger, CloseFunc) {
	writer, closeWriter := logf.NewChannelWriter(logf.ChannelWriterConfig{
		Appender:          appender,
		EnableSyncOnError: true,
	})
	logger := logf.NewLogger(logfLevel(cfg.Level), writer).With(logf.Int("pid", os.Getpid()))
	if cfg.AddCaller {
		// the adapter adds one frame between the caller and logf
		logger = logger.WithCaller().WithCallerSkip(1)
	}
	return &LogfAdapter{Logger: logger}, CloseFunc(closeWriter)
}

// With returns a logger that adds fs to every entry.
func (l *LogfAdapter) With(fs ...Field) FieldLogger {
	return &LogfAdapter{Logger: l.Logger.With(fs...)}
}

// WithLevel returns a logger that additionally drops entries below level.
func (l *LogfAdapter) WithLevel(level Level) FieldLogger {
	return &LogfAdapter{Logger: l.Logger.WithLevel(logfLevel(level))}
}

func (l *LogfAdapter) Debug(msg string, fs ...Field) { l.Logger.Debug(msg, fs...) }

func (l *LogfAdapter) Info(msg string, fs ...Field) { l.Logger.Info(msg, fs...) }

func (l *LogfAdapter) Warn(msg string, fs ...Field) { l.Logger.Warn(msg, fs...) }

func (l *LogfAdapter) Error(msg string, fs ...Field) { l.Logger.Error(msg, fs...) }

var logfLevels = map[Level]logf.Level{
	LevelError: logf.LevelError,
	LevelWarn:  logf.LevelWarn,
	LevelInfo:  logf.LevelInfo,
	LevelDebug: logf.LevelDebug,
}

func logfLevel(level Level) logf.Level {
	if l, ok := logfLevels[level]; ok {
		return l
	}
	return logf.LevelInfo
}

// LevelFromLogf converts logf.Level back to Level. Unknown levels are reported as LevelInfo.
func LevelFromLogf(level logf.Level) Level {
	for l, ll := range logfLevels {
		if ll == level {
			return l
		}
	}
	return LevelInfo
}
