package log

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dpotapov/slogpfx"
)

// Logger wraps a slog.Logger and tracks prefixes so that they can be stacked as a
// component hands the logger down to its collaborators.
type Logger struct {
	*slog.Logger

	level    slog.Level
	prefixes []string
}

// Default logs to stderr at INFO.
func Default() *Logger {
	return NewLogger("info")
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *Logger {
	return NewLoggerWithWriter("error", io.Discard)
}

// NewLogger creates a logger writing to stderr without a prefix.
func NewLogger(rawLogLevel string) *Logger {
	return NewLoggerWithPrefixes(rawLogLevel, []string{})
}

// NewLoggerWithPrefixes creates a logger writing to stderr with a set of prefixes.
func NewLoggerWithPrefixes(rawLogLevel string, prefixes []string) *Logger {
	return NewLoggerWithWriter(rawLogLevel, os.Stderr, prefixes...)
}

// NewLoggerWithWriter creates a logger that writes text records to w.
func NewLoggerWithWriter(rawLogLevel string, w io.Writer, prefixes ...string) *Logger {
	level := ParseLogLevel(rawLogLevel)
	return wrap(newSlogger(level, w), level, prefixes)
}

func wrap(slogger *slog.Logger, level slog.Level, prefixes []string) *Logger {
	// The prefix key always carries the joined prefixes; slogpfx moves it in front of the message.
	prefix := strings.Join(prefixes, "")

	return &Logger{
		Logger:   slogger.With(prefixKey, prefix),
		level:    level,
		prefixes: prefixes,
	}
}

// ApplyPrefix returns a child logger with an additional prefix.
func (l *Logger) ApplyPrefix(prefix string) *Logger {
	prefixes := make([]string, 0, len(l.prefixes)+1)
	prefixes = append(prefixes, l.prefixes...)
	prefixes = append(prefixes, prefix)

	return wrap(l.Logger, l.level, prefixes)
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(args ...any) *Logger {
	return wrap(l.Logger.With(args...), l.level, l.prefixes)
}

// Level reports the minimum level this logger emits.
func (l *Logger) Level() slog.Level {
	return l.level
}

const prefixKey = "_prefixKey"

func newSlogger(level slog.Level, w io.Writer) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(level)

	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl,
	})

	// slogpfx defaults to a '>' separator, prefixes here are concatenated instead.
	prefixFormatter := func(prefixes []slog.Value) string {
		p := make([]string, 0, len(prefixes))
		for _, prefix := range prefixes {
			if prefix.Any() == nil || prefix.String() == "" {
				continue
			}
			p = append(p, prefix.String())
		}
		if len(p) == 0 {
			return ""
		}
		return strings.Join(p, "") + " "
	}

	prefixHandler := slogpfx.NewHandler(textHandler, &slogpfx.HandlerOptions{
		PrefixKeys:      []string{prefixKey},
		PrefixFormatter: prefixFormatter,
	})

	return slog.New(prefixHandler)
}
