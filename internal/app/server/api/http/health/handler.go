package health

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// Sessions сообщает число открытых сессий форм
type Sessions interface {
	Len() int
}

type Handler struct {
	sessions   Sessions
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(sessions Sessions, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		sessions:   sessions,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

func (h *Handler) healthCheck(_ context.Context, _ *Input) (*Output, error) {
	h.log.Debug("health check request received")

	return &Output{
		Body: Response{
			Status:   "OK",
			Sessions: h.sessions.Len(),
		},
	}, nil
}
