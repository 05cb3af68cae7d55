package observability

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide JSON logger. Trace ids are appended by
// the wrapping handler whenever a span is active on the context.
func NewLogger(env string) *slog.Logger {
	level := slog.LevelInfo

	if env == "dev" {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(NewTraceHandler(handler))
}
