package help

import (
	"log/slog"
	"os"
)

// Logger builds the slog logger used across integration tests.
func Logger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}

	h := slog.NewJSONHandler(os.Stdout, opts)

	return slog.New(h).With(
		slog.String("service", "nexcache"),
		slog.String("env", "test"),
	)
}
