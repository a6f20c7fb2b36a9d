package user

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"studentadmin/internal/domain/session"
	"studentadmin/internal/domain/user"
)

type Handler struct {
	service    user.Servicer
	session    session.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service user.Servicer, session session.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		session:    session,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.loginOp(), h.login)
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*loginOutput, error) {
	u, err := h.service.Authenticate(ctx, input.Body.Email, input.Body.Password)
	if errors.Is(err, user.ErrInvalidAuth) || errors.Is(err, user.ErrInvalidInput) {
		return nil, huma.Error401Unauthorized("Invalid credentials")
	}
	if err != nil {
		h.log.Error("authenticate failed", "error", err)
		return nil, huma.Error500InternalServerError("Internal server error")
	}

	token, err := h.session.Create(ctx, u.ID)
	if err != nil {
		h.log.Error("create session failed", "user_id", u.ID, "error", err)
		return nil, huma.Error500InternalServerError("Internal server error")
	}

	return &loginOutput{Body: LoginResponse{Token: token}}, nil
}
