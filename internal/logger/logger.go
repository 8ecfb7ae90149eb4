// Package logger provides structured logging for the docview tools.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Pretty bool   // human readable console output
	Output io.Writer
}

// Logger wraps zerolog with docview specific helpers
type Logger struct {
	zlog zerolog.Logger
}

// New creates a structured logger. Logs go to stderr unless Output is set,
// so command output on stdout stays machine readable.
func New(cfg Config) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	zlog := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("service", "docview").
		Logger()
	return &Logger{zlog: zlog}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// Zerolog returns the underlying zerolog logger
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zlog
}

func (l *Logger) Debug() *zerolog.Event { return l.zlog.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zlog.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zlog.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zlog.Error() }

// Command returns a logger tagged with the running subcommand.
func (l *Logger) Command(name string) *Logger {
	return &Logger{zlog: l.zlog.With().Str("command", name).Logger()}
}

// LogBundle logs a bundle read or write.
func (l *Logger) LogBundle(op, path string, properties int, duration time.Duration, err error) {
	if err != nil {
		l.zlog.Error().
			Str("operation", op).
			Str("file", path).
			Dur("duration", duration).
			Err(err).
			Msg("bundle operation failed")
		return
	}
	l.zlog.Info().
		Str("operation", op).
		Str("file", path).
		Int("properties", properties).
		Dur("duration", duration).
		Msg("bundle operation completed")
}
