// Package logging builds the process-wide slog logger.
package logging

import (
	"io"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Options controls the handler New builds.
type Options struct {
	Level      string // debug, info, warn, error
	Production bool   // JSON output when true, colored text otherwise
	Output     io.Writer
}

// New returns a logger writing to opts.Output. Production loggers emit JSON
// with UTC timestamps under "ts"; development loggers use tint.
func New(opts Options) *slog.Logger {
	level := ParseLevel(opts.Level)

	var h slog.Handler
	if opts.Production {
		h = slog.NewJSONHandler(opts.Output, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey && len(groups) == 0 {
					return slog.String("ts", a.Value.Time().UTC().Format(time.RFC3339Nano))
				}
				return a
			},
		})
	} else {
		h = tint.NewHandler(opts.Output, &tint.Options{
			Level:      level,
			AddSource:  true,
			TimeFormat: "15:04:05.000",
		})
	}

	return slog.New(h)
}

// SetDefault installs l as the slog default and routes the standard library
// logger through it, so net/http server errors end up in the same stream.
func SetDefault(l *slog.Logger) {
	slog.SetDefault(l)
	log.SetFlags(0)
	log.SetOutput(slog.NewLogLogger(l.Handler(), slog.LevelInfo).Writer())
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
