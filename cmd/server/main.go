package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attendform/internal/app/server/api"
	"attendform/internal/config"
	"attendform/internal/domain/attachment"
	"attendform/internal/domain/form"
	"attendform/internal/domain/session"
	"attendform/internal/infrastructure/storage"
	"attendform/internal/utils/logger"

	"golang.org/x/exp/slog"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	store, err := storage.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close storage", "error", err)
		}
	}()

	manager := session.NewManager(form.NewStores(store), form.Deps{
		Codec: attachment.NewCodec(cfg.Form.MaxAttachmentBytes),
		Navigator: form.NavigatorFunc(func(_ context.Context, route string) error {
			log.Info("form handed off", "route", route)
			return nil
		}),
	}, cfg.Session.IdleTTL, log)
	defer manager.CloseAll()
	go manager.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.Server.RunAddress,
		Handler:           api.New(manager, cfg.Form.MaxAttachmentBytes, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "address", cfg.Server.RunAddress, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
