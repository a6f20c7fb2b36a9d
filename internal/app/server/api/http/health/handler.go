package health

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

const pingTimeout = 2 * time.Second

// Backend - то, что нужно проверке живости от хранилища
type Backend interface {
	Name() string
	Ping(ctx context.Context) error
}

type Handler struct {
	backend    Backend
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(backend Backend, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		backend:    backend,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

// healthCheck отвечает 503, если хранилище реестра не отвечает
func (h *Handler) healthCheck(ctx context.Context, _ *Input) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := h.backend.Ping(ctx); err != nil {
		h.log.Warn("storage ping failed",
			slog.String("storage", h.backend.Name()),
			slog.String("error", err.Error()),
		)
		return nil, huma.Error503ServiceUnavailable("storage unavailable")
	}

	return &Output{
		Body: Response{
			Status:  "OK",
			Storage: h.backend.Name(),
		},
	}, nil
}
