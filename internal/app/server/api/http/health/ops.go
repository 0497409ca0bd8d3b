package health

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) healthCheckOp() huma.Operation {
	return huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/v1/health",
		Summary:     "Состояние сервиса",
		Description: "Возвращает статус сервиса и число открытых сессий форм. Не обращается к хранилищу.",
		Tags:        []string{"health"},
		Middlewares: h.middleware,
	}
}
