package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/a-korvus/business-management-system/internal/data/aggregates"
	"github.com/a-korvus/business-management-system/internal/data/db"
	apihttp "github.com/a-korvus/business-management-system/internal/http"
	httpH "github.com/a-korvus/business-management-system/internal/http/handlers"
	"github.com/a-korvus/business-management-system/internal/observability"
	"github.com/a-korvus/business-management-system/internal/pkg/logger"
	"github.com/a-korvus/business-management-system/internal/scheduling"
	"github.com/a-korvus/business-management-system/internal/services"
)

type Services struct {
	Meetings services.MeetingService
	Events   services.CalendarEventService
	Tasks    services.TaskService
	Comments services.TaskCommentService
}

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Metrics  *observability.Metrics
	Services Services
	Server   *apihttp.Server

	otelShutdown func(context.Context) error
}

// New connects to the database and wires every layer. It does not migrate.
func New(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	theDB, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.Init(log, cfg.MetricsEnabled)

	log.Info("Wiring services...")
	mgr := aggregates.NewManager(aggregates.ManagerDeps{
		DB:        theDB,
		Log:       log,
		Hooks:     aggregates.NewObservabilityHooks(metrics),
		Isolation: cfg.TxIsolation,
	})
	detector := scheduling.NewDetector(log)
	svc := Services{
		Meetings: services.NewMeetingService(log, mgr, detector),
		Events:   services.NewCalendarEventService(log, mgr, detector),
		Tasks:    services.NewTaskService(log, mgr),
		Comments: services.NewTaskCommentService(log, mgr),
	}

	sqlDB, err := theDB.DB()
	if err != nil {
		return nil, fmt.Errorf("db pool: %w", err)
	}
	routerCfg := apihttp.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		CORSOrigins:    cfg.CORSOrigins,
		HealthHandler:  httpH.NewHealthHandler(sqlDB),
		MeetingHandler: httpH.NewMeetingHandler(svc.Meetings),
		EventHandler:   httpH.NewEventHandler(svc.Events),
		TaskHandler:    httpH.NewTaskHandler(svc.Tasks),
		CommentHandler: httpH.NewCommentHandler(svc.Comments),
	}
	if cfg.Otel.Enabled {
		routerCfg.ServiceName = cfg.Otel.ServiceName
	}
	// With a dedicated listener the API router only records.
	routerCfg.ExposeMetrics = cfg.MetricsAddr == ""

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Metrics:      metrics,
		Services:     svc,
		Server:       apihttp.NewServer(cfg.HTTPAddr, cfg.ShutdownTimeout, routerCfg),
		otelShutdown: otelShutdown,
	}, nil
}

// Migrate creates or updates the schema.
func Migrate(log *logger.Logger, theDB *gorm.DB) error {
	log.Info("Running AutoMigrate...")
	if err := db.AutoMigrateAll(theDB); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// Run serves the API (and the metrics listener when configured) until ctx is
// cancelled or one of them fails.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	a.Metrics.StartDBCollector(gctx, a.Log, a.DB, 15*time.Second)

	g.Go(func() error {
		a.Log.Info("HTTP server listening", "addr", a.Cfg.HTTPAddr)
		return a.Server.Run(gctx)
	})
	if a.Metrics != nil && a.Cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              a.Cfg.MetricsAddr,
			Handler:           a.Metrics.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			a.Log.Info("Metrics server listening", "addr", a.Cfg.MetricsAddr)
			return apihttp.Serve(gctx, srv, a.Cfg.ShutdownTimeout)
		})
	}
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	a.Log.Sync()
}
