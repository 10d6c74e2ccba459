package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/evidence-organizer/internal/config"
	"github.com/kirillkom/evidence-organizer/internal/core/classifier"
	"github.com/kirillkom/evidence-organizer/internal/core/ports"
	"github.com/kirillkom/evidence-organizer/internal/core/usecase"
	"github.com/kirillkom/evidence-organizer/internal/infrastructure/checklist/yamlfile"
	"github.com/kirillkom/evidence-organizer/internal/infrastructure/queue/nats"
	"github.com/kirillkom/evidence-organizer/internal/infrastructure/repository/memory"
	"github.com/kirillkom/evidence-organizer/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/evidence-organizer/internal/infrastructure/resilience"
	"github.com/kirillkom/evidence-organizer/internal/observability/metrics"
)

// SnapshotBackend archives workspaces and lists known cases.
type SnapshotBackend interface {
	ports.SnapshotStore
	ports.CaseLister
}

type App struct {
	Config config.Config
	Logger *slog.Logger

	Metrics    *metrics.HTTPServerMetrics
	Snapshots  SnapshotBackend
	Checklists *yamlfile.Source
	Classifier *classifier.Classifier
	Workspaces *usecase.WorkspaceService

	closeFns []func()
}

// New wires the application. The NATS analysis transport is only connected when
// cfg.AnalysisEnabled is set.
func New(ctx context.Context, cfg config.Config, service string, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	app := &App{
		Config:     cfg,
		Logger:     logger,
		Metrics:    metrics.NewHTTPServerMetrics(service),
		Classifier: classifier.New(),
	}

	checklists, err := yamlfile.Load(cfg.ChecklistPath)
	if err != nil {
		return nil, fmt.Errorf("load checklists: %w", err)
	}
	if _, err := checklists.Checklist(ctx, cfg.DefaultRoute); err != nil {
		return nil, fmt.Errorf("default route: %w", err)
	}
	app.Checklists = checklists

	if err := app.openSnapshots(ctx); err != nil {
		app.Close()
		return nil, err
	}

	opts := usecase.WorkspaceServiceOptions{
		DefaultRoute: cfg.DefaultRoute,
		Logger:       logger,
		Metrics:      app.Metrics,
	}
	if cfg.AnalysisEnabled {
		queue, err := app.openQueue()
		if err != nil {
			app.Close()
			return nil, err
		}
		opts.Queue = queue
	}

	app.Workspaces = usecase.NewWorkspaceService(checklists, app.Snapshots, app.Classifier, opts)
	logger.Info("bootstrap_complete",
		"snapshot_store", cfg.SnapshotStore,
		"analysis_enabled", cfg.AnalysisEnabled,
		"routes", checklists.Routes(),
	)
	return app, nil
}

func (a *App) openSnapshots(ctx context.Context) error {
	if !a.Config.UsesPostgres() {
		a.Snapshots = memory.NewSnapshotStore()
		return nil
	}

	db, err := postgres.OpenDB(ctx, a.Config.PostgresDSN)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	a.closeFns = append(a.closeFns, func() { _ = db.Close() })

	repo := postgres.NewSnapshotRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	a.Snapshots = repo
	return nil
}

func (a *App) openQueue() (*nats.AnalysisQueue, error) {
	executor := resilience.NewExecutorWithHooks(resilienceConfig(a.Config), a.Logger, a.Metrics.ResilienceHooks())
	queue, err := nats.NewWithOptions(
		a.Config.NATSURL,
		a.Config.NATSAnalysisRequestSubject,
		a.Config.NATSAnalysisCompletedSubject,
		nats.Options{
			ResilienceExecutor: executor,
			Logger:             a.Logger,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("init analysis queue: %w", err)
	}
	a.closeFns = append(a.closeFns, queue.Close)
	return queue, nil
}

func resilienceConfig(cfg config.Config) resilience.Config {
	return resilience.Config{
		RetryMaxAttempts:        cfg.ResilienceRetryMaxAttempts,
		RetryInitialBackoff:     cfg.ResilienceRetryInitialBackoff,
		RetryMaxBackoff:         cfg.ResilienceRetryMaxBackoff,
		RetryMultiplier:         cfg.ResilienceRetryMultiplier,
		BreakerEnabled:          cfg.ResilienceBreakerEnabled,
		BreakerMinRequests:      uint32(max(cfg.ResilienceBreakerMinRequests, 0)),
		BreakerFailureRatio:     cfg.ResilienceBreakerFailureRatio,
		BreakerOpenTimeout:      cfg.ResilienceBreakerOpenTimeout,
		BreakerHalfOpenMaxCalls: uint32(max(cfg.ResilienceBreakerHalfOpenMax, 0)),
	}
}

// Close releases connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		a.closeFns[i]()
	}
	a.closeFns = nil
}
