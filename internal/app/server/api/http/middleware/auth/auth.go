package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"studentadmin/internal/domain/session"
)

const bearerPrefix = "Bearer "

type Auth struct {
	session session.Servicer
	log     *slog.Logger
}

func New(session session.Servicer, log *slog.Logger) *Auth {
	return &Auth{
		session: session,
		log:     log.With(slog.String("component", "auth_middleware")),
	}
}

type contextKey string

const UserIDKey contextKey = "userID"

// Middleware проверяет заголовок Authorization и кладет id пользователя в контекст
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")

		token, ok := strings.CutPrefix(header, bearerPrefix)
		if !ok || token == "" {
			a.log.Debug("missing bearer token", slog.String("path", ctx.URL().Path))
			a.unauthorized(ctx)
			return
		}

		userID, err := a.session.Validate(ctx.Context(), token)
		if err != nil {
			a.log.Info("token rejected", slog.String("path", ctx.URL().Path), slog.String("error", err.Error()))
			a.unauthorized(ctx)
			return
		}

		next(huma.WithContext(ctx, WithUserID(ctx.Context(), userID)))
	}
}

func (a *Auth) unauthorized(ctx huma.Context) {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.SetHeader("WWW-Authenticate", "Bearer")
	ctx.SetStatus(http.StatusUnauthorized)

	err := json.NewEncoder(ctx.BodyWriter()).Encode(map[string]string{
		"error": "Unauthorized",
	})
	if err != nil {
		a.log.Error("encode unauthorized body", slog.String("error", err.Error()))
	}
}

func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func GetUserID(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(UserIDKey).(int)
	return userID, ok
}
