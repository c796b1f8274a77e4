package initializers

import (
	"log/slog"
	"os"
	"strings"
)

// InitLogger installs the process-wide slog logger: JSON in production, text
// everywhere else.
func InitLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(Config.LogLevel)}

	var handler slog.Handler
	if Config.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With("service", "storefront-api", "env", Config.AppEnv)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
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
