package student

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

var bearer = []map[string][]string{{"bearer": {}}}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "students-list",
		Method:      http.MethodGet,
		Path:        "/students",
		Summary:     "Список студентов",
		Tags:        []string{"students"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID:   "students-create",
		Method:        http.MethodPost,
		Path:          "/students",
		Summary:       "Добавить студента",
		Description:   "Идентификатор назначает сервер. Баллы не могут быть отрицательными.",
		Tags:          []string{"students"},
		DefaultStatus: http.StatusCreated,
		Security:      bearer,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "students-update",
		Method:      http.MethodPut,
		Path:        "/students/update/{id}",
		Summary:     "Заменить запись студента целиком",
		Tags:        []string{"students"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "students-delete",
		Method:      http.MethodDelete,
		Path:        "/students/{id}",
		Summary:     "Удалить студента",
		Tags:        []string{"students"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) exportOp() huma.Operation {
	return huma.Operation{
		OperationID: "students-export",
		Method:      http.MethodGet,
		Path:        "/students/export",
		Summary:     "Записи для выгрузки в CSV",
		Description: "Возвращает тот же JSON, что и список; CSV формирует клиент.",
		Tags:        []string{"students"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}
