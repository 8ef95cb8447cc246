package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/quotes/internal/config"
	http_controllers "github.com/mrlokans/quotes/internal/http"
	"github.com/mrlokans/quotes/internal/session"
	"github.com/mrlokans/quotes/internal/tasks"
)

const sessionCleanupInterval = 5 * time.Minute

// Run starts the HTTP server, the sync scheduler and the task queue, and
// blocks until ctx is canceled or SIGINT/SIGTERM arrives.
func Run(ctx context.Context, cfg *config.Config, version string) error {
	logger := zap.S()
	logger.Infof("Starting quotes v%s", version)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Errorf("Error closing database: %v", err)
		}
	}()

	sqlDB, err := app.DB.SQLDB()
	if err != nil {
		return fmt.Errorf("failed to get SQL DB for sessions: %w", err)
	}
	sessions, err := session.NewManager(sqlDB, cfg.Session, sessionCleanupInterval)
	if err != nil {
		return fmt.Errorf("failed to initialize session manager: %w", err)
	}
	defer sessions.Close()

	routerCfg := http_controllers.RouterConfig{
		Quotes:             app.Store,
		Filters:            app.Settings,
		Importer:           app.Importer,
		Pusher:             app.Agent,
		Database:           app.DB,
		SessionMiddleware:  sessions.LoadSave(),
		LastQuotes:         sessions,
		Scheduler:          app.Scheduler,
		SyncStatus:         app.Agent,
		SyncSettings:       app.Settings,
		Notifications:      app.Feed,
		AuditService:       app.Audit,
		Recorder:           app.Audit,
		Counter:            app.Metrics,
		MetricsHandler:     app.Metrics.Handler(),
		TaskClient:         app.Tasks,
		AuditRetentionDays: cfg.Audit.RetentionDays,
		Version:            version,
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           http_controllers.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if app.Tasks != nil {
		g.Go(func() error {
			app.Tasks.Start(gctx)
			return nil
		})
		if _, err := app.Tasks.Add(tasks.CleanupAuditEventsTask{RetentionDays: cfg.Audit.RetentionDays}).Save(); err != nil {
			logger.Warnf("Failed to enqueue audit cleanup: %v", err)
		}
	}

	if err := app.Scheduler.Start(gctx); err != nil {
		logger.Errorf("Quote sync scheduler not started: %v", err)
	}

	g.Go(func() error {
		logger.Infof("Starting server at %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
		logger.Infof("Shutting down, waiting %v before killing", timeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		app.Scheduler.Stop()
		if app.Tasks != nil {
			app.Tasks.Stop(shutdownCtx)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()
	logger.Infof("Server exiting")
	return err
}
