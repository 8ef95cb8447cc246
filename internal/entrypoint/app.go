package entrypoint

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mrlokans/quotes/internal/audit"
	"github.com/mrlokans/quotes/internal/config"
	"github.com/mrlokans/quotes/internal/database"
	auditrepo "github.com/mrlokans/quotes/internal/database/audit"
	"github.com/mrlokans/quotes/internal/database/settings"
	"github.com/mrlokans/quotes/internal/entities"
	"github.com/mrlokans/quotes/internal/importers"
	"github.com/mrlokans/quotes/internal/metrics"
	"github.com/mrlokans/quotes/internal/notify"
	"github.com/mrlokans/quotes/internal/quotes"
	"github.com/mrlokans/quotes/internal/remote"
	"github.com/mrlokans/quotes/internal/scheduler"
	"github.com/mrlokans/quotes/internal/settingsstore"
	"github.com/mrlokans/quotes/internal/syncagent"
	"github.com/mrlokans/quotes/internal/tasks"
)

// App holds the wired components shared by the server and CLI commands.
type App struct {
	Config    *config.Config
	DB        *database.Database
	Store     *quotes.Store
	Settings  *settingsstore.SettingsStore
	Remote    *remote.Client
	Agent     *syncagent.Agent
	Scheduler *scheduler.QuoteSyncScheduler
	Audit     *audit.Service
	Importer  *importers.Pipeline
	Metrics   *metrics.Metrics
	Feed      *notify.Feed

	// Tasks is nil when the task queue is disabled.
	Tasks *tasks.Client

	inlinePusher *syncagent.GoroutinePusher
}

// NewApp opens the database, loads the quote collection and wires the sync
// agent. With cfg.Tasks.Enabled outbound pushes go through the task queue;
// otherwise each push runs on its own goroutine.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := zap.S()

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &App{
		Config:  cfg,
		DB:      db,
		Metrics: metrics.New(),
		Feed:    notify.NewFeed(notify.DefaultCapacity, logger.Named("notify")),
		Remote:  remote.NewClient(cfg.Remote.URL, cfg.Remote.Timeout),
		Audit:   audit.NewService(auditrepo.NewRepository(db.DB), logger.Named("audit")),
	}

	kvStore := settings.NewRepository(db.DB)
	app.Settings = settingsstore.New(kvStore, cfg.Sync)

	app.Store = quotes.New(quotes.NewKVPersistence(kvStore), quotes.WithLogger(logger.Named("quotes")))
	if err := app.Store.Load(ctx); err != nil {
		db.Close()
		return nil, err
	}
	app.Metrics.RegisterCollectionSize(app.Store.Len)

	app.Importer = importers.NewPipeline(app.Store,
		importers.WithArchiver(audit.NewAuditor(cfg.Audit.Dir)),
		importers.WithRecorder(app.Audit),
		importers.WithLogger(logger.Named("import")),
	)

	var pusher syncagent.Pusher
	if cfg.Tasks.Enabled {
		app.Tasks, err = newTaskClient(cfg, app, logger)
		if err != nil {
			db.Close()
			return nil, err
		}
		pusher = tasks.NewQueuePusher(app.Tasks, logger.Named("push"))
	} else {
		app.inlinePusher = syncagent.NewGoroutinePusher(app.Remote, cfg.Remote.Timeout, app.Metrics, logger.Named("push"))
		pusher = app.inlinePusher
	}

	app.Agent = syncagent.New(
		syncagent.Config{
			Category:   cfg.Sync.Category,
			FetchLimit: cfg.Sync.FetchLimit,
			Timeout:    cfg.Sync.Timeout,
		},
		app.Store,
		app.Remote,
		syncagent.WithPusher(pusher),
		syncagent.WithNotifier(app.Feed),
		syncagent.WithLogger(logger.Named("sync")),
	)
	app.Scheduler = scheduler.NewQuoteSyncScheduler(app.Settings, app.Agent, app.Audit, app.Metrics, logger.Named("scheduler"))

	return app, nil
}

func newTaskClient(cfg *config.Config, app *App, logger *zap.SugaredLogger) (*tasks.Client, error) {
	client, err := tasks.NewClient(cfg.Database.Path, tasks.Config{
		Workers:         cfg.Tasks.Workers,
		ReleaseAfter:    cfg.Tasks.ReleaseAfter,
		CleanupInterval: cfg.Tasks.CleanupInterval,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize task queue: %w", err)
	}

	client.Register(
		tasks.NewPushQuoteQueue(app.Remote, func(quote entities.Quote, err error) {
			app.Metrics.ObservePush(err)
			app.Audit.LogPush(quote, err)
		}),
		tasks.NewCleanupAuditEventsQueue(app.Audit, logger),
	)
	return client, nil
}

// Close waits for background pushes and audit writes, then releases the
// task and main databases.
func (a *App) Close() error {
	if a.inlinePusher != nil {
		a.inlinePusher.Wait()
	}
	a.Scheduler.Wait()
	a.Audit.Wait()

	if a.Tasks != nil {
		if err := a.Tasks.Close(); err != nil {
			zap.S().Warnf("Error closing task database: %v", err)
		}
	}
	return a.DB.Close()
}
