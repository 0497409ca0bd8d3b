package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"attendform/internal/config"
	"attendform/internal/domain/attachment"
	"attendform/internal/domain/form"
	"attendform/internal/domain/signature"
	"attendform/internal/infrastructure/storage"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// App - локальный клиент форм: открывает форму по id, заполняет ее и
// сохраняет запись в настроенное хранилище без HTTP-сервера.
type App struct {
	config *config.Config
	log    *slog.Logger
	store  storage.Storage
	stores form.Stores
	codec  *attachment.Codec
}

// FillRequest описывает одно заполнение формы из командной строки.
type FillRequest struct {
	Variant form.Variant
	// ID пустой - создается новая форма
	ID     string
	Fields map[string]string
	// Document - путь к приложению (только absence)
	Document string
	// Strokes - путь к JSON-записи подписи
	Strokes string
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	store, err := storage.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации хранилища: %w", err)
	}
	return NewWithStorage(cfg, store, log), nil
}

func NewWithStorage(cfg *config.Config, store storage.Storage, log *slog.Logger) *App {
	return &App{
		config: cfg,
		log:    log.With("component", "client"),
		store:  store,
		stores: form.NewStores(store),
		codec:  attachment.NewCodec(cfg.Form.MaxAttachmentBytes),
	}
}

// Fill открывает форму (с гидратацией сохраненной записи), применяет поля,
// приложение и подпись и отправляет ее.
func (a *App) Fill(ctx context.Context, req FillRequest) (*form.Submission, error) {
	if err := req.Variant.Validate(); err != nil {
		return nil, err
	}
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	s, err := form.Open(ctx, req.Variant, a.stores, id, form.Deps{
		Navigator: a.handoff(),
		Codec:     a.codec,
		Log:       a.log,
	})
	if err != nil {
		return nil, err
	}
	defer s.Close()

	// поля из командной строки применяются поверх восстановленной записи
	if err := s.Wait(); err != nil {
		return nil, err
	}

	if err := applyFields(s, req.Fields); err != nil {
		return nil, err
	}

	if req.Document != "" {
		doc, err := attachment.FromPath(req.Document)
		if err != nil {
			return nil, err
		}
		if doc.Size > a.config.Form.MaxAttachmentBytes {
			return nil, fmt.Errorf("%s: %w", doc.Name, attachment.ErrTooLarge)
		}
		if err := s.Attach(doc); err != nil {
			return nil, err
		}
	}

	if req.Strokes != "" {
		st, err := readStroke(req.Strokes)
		if err != nil {
			return nil, err
		}
		if err := s.Surface().Replay(st); err != nil {
			return nil, fmt.Errorf("ошибка воспроизведения подписи: %w", err)
		}
	}

	return s.Submit(ctx)
}

// Record возвращает сохраненную запись формы.
func (a *App) Record(ctx context.Context, v form.Variant, id string) (any, error) {
	return a.stores.Read(ctx, v, id)
}

func (a *App) Close() error {
	return a.store.Close()
}

func (a *App) handoff() form.Navigator {
	return form.NavigatorFunc(func(_ context.Context, route string) error {
		a.log.Info("form handed off", "route", route)
		return nil
	})
}

// applyFields применяет поля в порядке имен и собирает все ошибки.
func applyFields(s form.Session, fields map[string]string) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		if err := s.Edit(name, fields[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func readStroke(path string) (signature.Stroke, error) {
	f, err := os.Open(path)
	if err != nil {
		return signature.Stroke{}, fmt.Errorf("ошибка открытия подписи: %w", err)
	}
	defer f.Close()
	return signature.ReadStroke(f)
}
