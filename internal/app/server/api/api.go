//открытие, заполнение и подпись форм отсутствия и изменения отметки;
//восстановление формы из сохраненной записи;
//передача записи странице предпросмотра.

//POST   /api/v1/{variant}                         # Новая форма
//GET    /api/v1/{variant}/options                 # Значения полей выбора
//POST   /api/v1/{variant}/{id}/open               # Продолжить сохраненную
//GET    /api/v1/{variant}/{id}                    # Состояние
//PATCH  /api/v1/{variant}/{id}/fields             # Поля
//PUT    /api/v1/absence/{id}/document             # Документ (JSON, base64)
//POST   /api/v1/absence/{id}/document             # Документ (multipart)
//DELETE /api/v1/absence/{id}/document             # Убрать документ
//PUT    /api/v1/{variant}/{id}/signature/size     # Размер холста
//POST   /api/v1/{variant}/{id}/signature/strokes  # Штрихи
//DELETE /api/v1/{variant}/{id}/signature          # Стереть подпись
//POST   /api/v1/{variant}/{id}/submit             # Отправить
//GET    /api/v1/{variant}/{id}/record             # Запись для предпросмотра
//DELETE /api/v1/{variant}/{id}                    # Закрыть

package api

import (
	formAPI "attendform/internal/app/server/api/http/form"
	healthAPI "attendform/internal/app/server/api/http/health"
	"attendform/internal/app/server/api/http/middleware"
	"attendform/internal/app/server/api/http/middleware/logger"
	"attendform/internal/domain/session"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health *healthAPI.Handler
	Form   *formAPI.Handler
}

// New создает *chi.Mux с ВСЕМИ операциями через huma.Register
func New(sessions *session.Manager, maxAttachment int64, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("Attendform API", "1.0.0")
	API := humachi.New(mux, config)

	h := handlers(sessions, maxAttachment, log)
	h.Health.SetupRoutes(API)
	h.Form.SetupRoutes(API)

	return mux
}

func handlers(sessions *session.Manager, maxAttachment int64, log *slog.Logger) *Handlers {
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(sessions, log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	formHandler := formAPI.NewHandler(sessions, maxAttachment, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health: healthHandler,
		Form:   formHandler,
	}
}
