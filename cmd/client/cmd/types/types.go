package types

import (
	"context"
	"errors"

	"studentadmin/internal/app/client"
)

type contextKey string

// ClientAppKey - ключ, под которым root кладет *client.App в контекст команды
const ClientAppKey contextKey = "app"

var ErrNoApp = errors.New("приложение не инициализировано")

func WithApp(ctx context.Context, app *client.App) context.Context {
	return context.WithValue(ctx, ClientAppKey, app)
}

func AppFromContext(ctx context.Context) (*client.App, error) {
	app, ok := ctx.Value(ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, ErrNoApp
	}
	return app, nil
}
