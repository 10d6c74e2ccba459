package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/kirillkom/evidence-organizer/internal/adapters/mcp"
	"github.com/kirillkom/evidence-organizer/internal/bootstrap"
	"github.com/kirillkom/evidence-organizer/internal/config"
	"github.com/kirillkom/evidence-organizer/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	// Tools only read archived snapshots.
	cfg.AnalysisEnabled = false
	logger := logging.NewJSONLoggerTo(os.Stderr, "evidence-mcp", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, "evidence-mcp", logger)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	handlers := mcpadapter.NewHandlers(app.Snapshots, app.Snapshots, app.Classifier, logger)
	if err := server.ServeStdio(mcpadapter.NewServer(handlers)); err != nil {
		logger.Error("mcp_server_failed", "error", err)
	}
}
