package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/kirillkom/evidence-organizer/internal/adapters/http"
	"github.com/kirillkom/evidence-organizer/internal/bootstrap"
	"github.com/kirillkom/evidence-organizer/internal/config"
	"github.com/kirillkom/evidence-organizer/internal/infrastructure/export/xlsx"
	"github.com/kirillkom/evidence-organizer/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("evidence-api", cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, "evidence-api", logger)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if cfg.AnalysisEnabled {
		go func() {
			if err := app.Workspaces.ConsumeAnalysisCompletions(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("analysis_consumer_stopped", "error", err)
			}
		}()
	}

	router := httpadapter.NewRouter(cfg, app.Workspaces, app.Classifier, xlsx.WriteEvidenceIndex, app.Metrics).Handler()
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("api_listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api_shutdown_failed", "error", err)
	}
}
