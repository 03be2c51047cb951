package app

import (
	"context"
	"fmt"
	"net"

	"gorm.io/gorm"

	"github.com/yungbote/dsaquest-backend/internal/data/db"
	"github.com/yungbote/dsaquest-backend/internal/data/repos"
	"github.com/yungbote/dsaquest-backend/internal/http"
	httpH "github.com/yungbote/dsaquest-backend/internal/http/handlers"
	"github.com/yungbote/dsaquest-backend/internal/jobs"
	"github.com/yungbote/dsaquest-backend/internal/observability"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
	"github.com/yungbote/dsaquest-backend/internal/temporalx/contentreload"
	"github.com/yungbote/dsaquest-backend/internal/temporalx/temporalworker"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    repos.Repos
	Clients  Clients
	Services Services
	Server   *http.Server

	otelShutdown func(context.Context) error
}

// New wires the core: config, logger, database, repos, content pipeline and
// services. The HTTP server is built only by NewServerApp.
func New(ctx context.Context) (*App, error) {
	if err := LoadEnvFiles(); err != nil {
		return nil, err
	}
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	theDB, err := openDatabase(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = db.CloseDB(theDB)
		log.Sync()
		return nil, err
	}

	reposet := repos.New(theDB, log)
	provider := wireContentProvider(log, cfg, clients)
	serviceset := wireServices(theDB, log, cfg, reposet, provider, clients)

	return &App{
		Log:      log,
		DB:       theDB,
		Cfg:      cfg,
		Repos:    reposet,
		Clients:  clients,
		Services: serviceset,
	}, nil
}

// NewServerApp is New plus tracing, metrics and the HTTP surface.
func NewServerApp(ctx context.Context) (*App, error) {
	a, err := New(ctx)
	if err != nil {
		return nil, err
	}
	a.otelShutdown = observability.InitOTel(ctx, a.Log, observability.OtelConfig{
		ServiceName: a.Cfg.ServiceName,
		Environment: a.Cfg.Environment,
		Version:     a.Cfg.Version,
	})
	metrics := observability.Init(a.Log)

	var reloader httpH.ContentReloader
	if a.Clients.Temporal != nil {
		reloader = contentreload.NewDispatcher(a.Log, a.Clients.Temporal, a.Cfg.Temporal.TaskQueue)
	}
	handlerset := wireHandlers(a.Log, a.DB, a.Services, reloader)
	middleware := wireMiddleware(a.Log, a.Services)
	a.Server = wireServer(a.Log, a.Cfg, metrics, handlerset, middleware)
	return a, nil
}

// Start launches background work: the startup reload, the Temporal worker
// and the periodic reload. None of these failures stop the server.
func (a *App) Start(ctx context.Context) {
	if a.Cfg.ContentReloadOnStart {
		go a.reloadOnStart(ctx)
	}

	if a.Clients.Temporal != nil && a.Cfg.RunTemporalWorker {
		runner, err := temporalworker.NewRunner(a.Log, a.Clients.Temporal, a.Cfg.Temporal, a.Services.Content)
		if err == nil {
			err = runner.Start(ctx)
		}
		if err != nil {
			a.Log.Error("Temporal worker not started", "error", err)
		}
	}

	if a.Cfg.ContentReloadInterval > 0 {
		sched := jobs.NewScheduler(a.Log, a.Services.Content, a.Cfg.ContentReloadInterval)
		if err := sched.Start(ctx); err != nil {
			a.Log.Error("Content reload schedule not started", "error", err)
		}
	}
}

func (a *App) reloadOnStart(ctx context.Context) {
	summary, err := a.Services.Content.Reload(ctx, "startup")
	if err != nil {
		a.Log.Error("Startup content reload failed", "error", err)
		return
	}
	if !summary.Success {
		a.Log.Warn("Startup content reload reported errors", "errors", summary.ErrorCount, "warnings", summary.WarningCount)
	}
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := net.JoinHostPort("", a.Cfg.Port)
	a.Log.Info("HTTP server listening", "addr", addr)
	return a.Server.Run(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	a.Clients.Close()
	if err := db.CloseDB(a.DB); err != nil && a.Log != nil {
		a.Log.Warn("Database close failed", "error", err)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
