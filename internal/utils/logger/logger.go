package logger

import (
	"os"

	"golang.org/x/exp/slog"

	"studentadmin/internal/app/server/config"
	"studentadmin/internal/utils/logger/handlers/slogpretty"
)

// New создает логгер под окружение: local - цветной вывод, dev - JSON с DEBUG, prod - JSON с INFO
func New(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case config.EnvLocal:
		log = setupPrettySlog()
	case config.EnvDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case config.EnvProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

// NewWithLevel как New, но уровень задается явно (LOG_LEVEL клиента)
func NewWithLevel(env, level string) *slog.Logger {
	lvl, ok := parseLevel(level)
	if !ok {
		return New(env)
	}

	if env == config.EnvLocal {
		return slog.New(slogpretty.PrettyHandlerOptions{
			SlogOpts: &slog.HandlerOptions{Level: lvl},
		}.NewPrettyHandler(os.Stderr))
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// Discard - логгер, который ничего не пишет
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(nopWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}

func parseLevel(level string) (slog.Level, bool) {
	switch level {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
