package form

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID:   "form-create",
		Method:        http.MethodPost,
		Path:          "/api/v1/{variant}",
		Summary:       "Открыть новую форму",
		Tags:          []string{"forms"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) optionsOp() huma.Operation {
	return huma.Operation{
		OperationID: "form-options",
		Method:      http.MethodGet,
		Path:        "/api/v1/{variant}/options",
		Summary:     "Допустимые значения полей выбора",
		Tags:        []string{"forms"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) openOp() huma.Operation {
	return huma.Operation{
		OperationID: "form-open",
		Method:      http.MethodPost,
		Path:        "/api/v1/{variant}/{id}/open",
		Summary:     "Продолжить форму из сохраненной записи",
		Tags:        []string{"forms"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) getOp() huma.Operation {
	return huma.Operation{
		OperationID: "form-get",
		Method:      http.MethodGet,
		Path:        "/api/v1/{variant}/{id}",
		Summary:     "Состояние формы",
		Tags:        []string{"forms"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) editOp() huma.Operation {
	return huma.Operation{
		OperationID: "form-edit",
		Method:      http.MethodPatch,
		Path:        "/api/v1/{variant}/{id}/fields",
		Summary:     "Изменить поля формы",
		Tags:        []string{"forms"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) attachOp() huma.Operation {
	return huma.Operation{
		OperationID: "absence-document-put",
		Method:      http.MethodPut,
		Path:        "/api/v1/absence/{id}/document",
		Summary:     "Приложить подтверждающий документ",
		Tags:        []string{"forms"},
		// base64 раздувает файл на треть
		MaxBodyBytes: h.maxAttachment*4/3 + 4<<10,
		Middlewares:  h.middleware,
	}
}

func (h *Handler) uploadOp() huma.Operation {
	return huma.Operation{
		OperationID: "absence-document-upload",
		Method:      http.MethodPost,
		Path:        "/api/v1/absence/{id}/document",
		Summary:     "Загрузить подтверждающий документ формой multipart",
		Description: "Файл передается в части file.",
		Tags:        []string{"forms"},
		// запас на заголовки частей и границы
		MaxBodyBytes: h.maxAttachment + 64<<10,
		Middlewares:  h.middleware,
	}
}

func (h *Handler) detachOp() huma.Operation {
	return huma.Operation{
		OperationID: "absence-document-delete",
		Method:      http.MethodDelete,
		Path:        "/api/v1/absence/{id}/document",
		Summary:     "Убрать документ",
		Tags:        []string{"forms"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) resizeOp() huma.Operation {
	return huma.Operation{
		OperationID: "signature-resize",
		Method:      http.MethodPut,
		Path:        "/api/v1/{variant}/{id}/signature/size",
		Summary:     "Изменить размер холста подписи",
		Tags:        []string{"signature"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) strokesOp() huma.Operation {
	return huma.Operation{
		OperationID: "signature-strokes",
		Method:      http.MethodPost,
		Path:        "/api/v1/{variant}/{id}/signature/strokes",
		Summary:     "Нарисовать штрихи подписи",
		Tags:        []string{"signature"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) clearOp() huma.Operation {
	return huma.Operation{
		OperationID: "signature-clear",
		Method:      http.MethodDelete,
		Path:        "/api/v1/{variant}/{id}/signature",
		Summary:     "Стереть подпись",
		Tags:        []string{"signature"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) submitOp() huma.Operation {
	return huma.Operation{
		OperationID: "form-submit",
		Method:      http.MethodPost,
		Path:        "/api/v1/{variant}/{id}/submit",
		Summary:     "Отправить форму",
		Tags:        []string{"forms"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) recordOp() huma.Operation {
	return huma.Operation{
		OperationID: "form-record",
		Method:      http.MethodGet,
		Path:        "/api/v1/{variant}/{id}/record",
		Summary:     "Сохраненная запись для предпросмотра",
		Tags:        []string{"records"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) closeOp() huma.Operation {
	return huma.Operation{
		OperationID:   "form-close",
		Method:        http.MethodDelete,
		Path:          "/api/v1/{variant}/{id}",
		Summary:       "Закрыть форму",
		Tags:          []string{"forms"},
		DefaultStatus: http.StatusNoContent,
		Middlewares:   h.middleware,
	}
}
