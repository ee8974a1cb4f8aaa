package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

type Options struct {
	Env    string
	Level  string
	Format string
	Output io.Writer
}

// Init installs the process-wide logger. Production defaults to JSON at
// info level, anything else to text at debug level; Level and Format
// override either default.
func Init(opts Options) {
	defaultLogger = New(opts)
	slog.SetDefault(defaultLogger)
}

func New(opts Options) *slog.Logger {
	level := slog.LevelDebug
	format := "text"
	if opts.Env == "production" {
		level = slog.LevelInfo
		format = "json"
	}
	if opts.Level != "" {
		level = ParseLevel(opts.Level)
	}
	if opts.Format != "" {
		format = opts.Format
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}
	return slog.New(handler)
}

// ParseLevel maps debug, info, warn and error; anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		Init(Options{Env: "development"})
	}
	return defaultLogger
}
