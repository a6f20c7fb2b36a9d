package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/exp/slog"

	"studentadmin/internal/app/server"
	"studentadmin/internal/app/server/config"
	"studentadmin/internal/utils/logger"
)

func main() {
	conf := config.MustLoad()
	log := logger.NewWithLevel(conf.Env, conf.Logger.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.New(ctx, conf, log)
	if err != nil {
		log.Error("failed to start server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped")
}
