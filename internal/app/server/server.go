package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"studentadmin/internal/app/server/api"
	"studentadmin/internal/app/server/config"
	"studentadmin/internal/domain/session"
	"studentadmin/internal/domain/user"
	"studentadmin/internal/infrastructure/storage"
	"studentadmin/internal/infrastructure/storage/memory"
	"studentadmin/internal/infrastructure/storage/postgres"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg     *config.Config
	log     *slog.Logger
	storage storage.Storage
	server  *http.Server
}

// New поднимает хранилище, создает администратора и собирает HTTP сервер
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	users := user.NewService(store.Users(), user.NewCredentialsValidator(), log)
	if err := users.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return nil, errors.Join(err, store.Close())
	}

	sessions := session.NewService(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL, log)

	mux := api.New(api.Deps{
		Storage:  store,
		Users:    users,
		Sessions: sessions,
	}, log)

	return &App{
		cfg:     cfg,
		log:     log,
		storage: store,
		server: &http.Server{
			Addr:              cfg.Server.RunAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}, nil
}

func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.Storage, error) {
	if cfg.InMemory() {
		log.Warn("DATABASE_URI is empty, using in-memory storage")
		return memory.New(), nil
	}

	store, err := postgres.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return store, nil
}

// Run обслуживает запросы до отмены ctx, затем дожидается активных запросов
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.log.Info("server listening",
			slog.String("addr", a.server.Addr),
			slog.String("storage", a.storage.Name()),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Join(fmt.Errorf("listen: %w", err), a.storage.Close())
		}
		return a.storage.Close()
	case <-ctx.Done():
	}

	a.log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown: %w", err))
	}
	if err := a.storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}

	return errors.Join(errs...)
}
