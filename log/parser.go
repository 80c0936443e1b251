package log

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// ParseLogLevel maps debug|info|warn|error to a slog level, falling back to INFO.
func ParseLogLevel(input string) slog.Level {
	level, err := ParseLogLevelStrict(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "😬 %s. Defaulting to log at INFO level.\n", err)
		return slog.LevelInfo
	}
	return level
}

// ParseLogLevelStrict is ParseLogLevel without the fallback.
func ParseLogLevelStrict(input string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unable to parse a log level from input: %q", input)
	}
}
