package form

import (
	"errors"

	"attendform/internal/domain/attachment"
	"attendform/internal/domain/form"
	"attendform/internal/domain/session"
	"attendform/internal/domain/signature"

	"github.com/danielgtaylor/huma/v2"
)

// fail переводит ошибки предметной области в ответы huma
func (h *Handler) fail(err error) error {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, form.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, form.ErrSessionClosed):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, attachment.ErrTooLarge):
		return huma.Error413RequestEntityTooLarge(err.Error())
	}

	if details := fieldDetails(err); len(details) > 0 {
		return huma.Error422UnprocessableEntity("form validation failed", details...)
	}

	var readErr *attachment.ReadError
	if errors.As(err, &readErr) || errors.Is(err, signature.ErrEmptyStroke) {
		return huma.Error422UnprocessableEntity(err.Error())
	}

	h.log.Error("request failed", "error", err)
	return huma.Error500InternalServerError("internal error")
}

// fieldDetails раскрывает errors.Join и собирает ошибки полей
func fieldDetails(err error) []error {
	var details []error
	var walk func(error)
	walk = func(e error) {
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				walk(inner)
			}
			return
		}
		var fe *form.FieldError
		if errors.As(e, &fe) {
			details = append(details, &huma.ErrorDetail{
				Message:  fe.Error(),
				Location: "body.fields." + fe.Field,
			})
		}
	}
	walk(err)
	return details
}
