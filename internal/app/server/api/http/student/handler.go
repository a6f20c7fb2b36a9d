package student

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"studentadmin/internal/app/server/api/http/middleware/auth"
	"studentadmin/internal/domain/student"
)

type Handler struct {
	service    student.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service student.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	// /students/export регистрируется раньше /students/{id}, хотя chi и так отдает приоритет статике
	huma.Register(api, h.exportOp(), h.export)
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.updateOp(), h.update)
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	if _, ok := auth.GetUserID(ctx); !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	list, err := h.service.List(ctx)
	if err != nil {
		return nil, h.internal("list", err)
	}

	return &listOutput{Body: list}, nil
}

func (h *Handler) export(ctx context.Context, in *struct{}) (*listOutput, error) {
	return h.list(ctx, in)
}

func (h *Handler) create(ctx context.Context, input *createInput) (*studentOutput, error) {
	if _, ok := auth.GetUserID(ctx); !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	created, err := h.service.Create(ctx, input.Body)
	if err != nil {
		return nil, h.internal("create", err)
	}

	return &studentOutput{Body: created}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*studentOutput, error) {
	if _, ok := auth.GetUserID(ctx); !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	updated, err := h.service.Update(ctx, input.ID, input.Body)
	if errors.Is(err, student.ErrNotFound) {
		return nil, huma.Error404NotFound("Student not found")
	}
	if err != nil {
		return nil, h.internal("update", err)
	}

	return &studentOutput{Body: updated}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*deleteOutput, error) {
	if _, ok := auth.GetUserID(ctx); !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	err := h.service.Delete(ctx, input.ID)
	if errors.Is(err, student.ErrNotFound) {
		return nil, huma.Error404NotFound("Student not found")
	}
	if err != nil {
		return nil, h.internal("delete", err)
	}

	return &deleteOutput{Body: StatusResponse{Status: "Ok"}}, nil
}

func (h *Handler) internal(op string, err error) error {
	h.log.Error("student handler failed", "op", op, "error", err)
	return huma.Error500InternalServerError("Internal server error")
}
