package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs a text handler on the default logger. Pass debug to
// include debug-level records (used by CLI runs and tests).
func InitSlog(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
