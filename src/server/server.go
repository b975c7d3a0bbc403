package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"signalengine/src/handler"
	"signalengine/src/repository"
	"signalengine/src/service"
)

// StartServer runs the HTTP API until the context is canceled, then shuts
// down gracefully.
func StartServer(ctx context.Context, port string, engine *service.Engine, signals *repository.SignalRepository) {
	r := chi.NewRouter()

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("/healthcheck write error")
		}
	})

	r.Post("/trades", handler.SubmitTradeHandler(engine))
	r.Delete("/trades", handler.CompleteTradeHandler(engine))
	r.Get("/signals", handler.ListSignalsHandler(signals))
	r.Get("/limits", handler.DailyLimitHandler(engine))

	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}
