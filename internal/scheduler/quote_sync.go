package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/quotes/internal/audit"
	"github.com/mrlokans/quotes/internal/logging"
	"github.com/mrlokans/quotes/internal/metrics"
	"github.com/mrlokans/quotes/internal/settingsstore"
	"github.com/mrlokans/quotes/internal/syncagent"
)

// Reconciler runs one sync pass.
type Reconciler interface {
	Reconcile(ctx context.Context) (syncagent.Result, error)
}

// QuoteSyncScheduler runs reconciles on the configured cron schedule
type QuoteSyncScheduler struct {
	settingsStore *settingsstore.SettingsStore
	agent         Reconciler
	auditService  *audit.Service
	metrics       *metrics.Metrics
	logger        *zap.SugaredLogger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	parentCtx  context.Context
	cancelFunc context.CancelFunc
	// stopped is closed when the current run ends
	stopped chan struct{}

	syncing atomic.Int32
	manual  sync.WaitGroup
}

// NewQuoteSyncScheduler creates a new scheduler instance. auditService and
// m may be nil.
func NewQuoteSyncScheduler(settingsStore *settingsstore.SettingsStore, agent Reconciler, auditService *audit.Service, m *metrics.Metrics, logger *zap.SugaredLogger) *QuoteSyncScheduler {
	logger = logging.OrNop(logger)
	return &QuoteSyncScheduler{
		settingsStore: settingsStore,
		agent:         agent,
		auditService:  auditService,
		metrics:       m,
		logger:        logger,
		cron: cron.New(
			cron.WithParser(settingsstore.CronParser),
			cron.WithLogger(cronLogger{logger}),
		),
	}
}

// Start begins the scheduler if sync is enabled. Canceling ctx stops it.
func (s *QuoteSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	s.parentCtx = ctx

	config := s.settingsStore.GetSyncConfig(ctx)

	if !config.Enabled {
		s.logger.Infof("Quote sync scheduler: disabled")
		return nil
	}

	if err := settingsstore.ValidateCronSchedule(config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", config.Schedule, err)
	}

	cancelCtx, cancel := context.WithCancel(ctx)

	entryID, err := s.cron.AddFunc(config.Schedule, func() {
		_, _ = s.runSync(cancelCtx, metrics.TriggerScheduled)
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to schedule sync job: %w", err)
	}
	stopped := make(chan struct{})
	s.entryID = entryID
	s.cancelFunc = cancel
	s.stopped = stopped

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := settingsstore.GetNextRunTime(config.Schedule)
	s.logger.Infof("Quote sync scheduler: started with schedule '%s' (%s). Next run: %v",
		config.Schedule,
		settingsstore.GetCronDescription(config.Schedule),
		nextRun)

	go func() {
		select {
		case <-ctx.Done():
			s.stopRun(stopped)
		case <-stopped:
		}
	}()

	return nil
}

// Stop cancels in-flight scheduled runs and waits for them to return
func (s *QuoteSyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
}

// stopRun stops the scheduler only while stopped still belongs to the
// current run, so a canceled context cannot end a later run.
func (s *QuoteSyncScheduler) stopRun(stopped chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped != stopped {
		return
	}
	s.stopLocked()
}

func (s *QuoteSyncScheduler) stopLocked() {
	if !s.isRunning {
		return
	}

	s.cancelFunc()
	s.cancelFunc = nil
	close(s.stopped)
	s.stopped = nil

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cron.Remove(s.entryID)

	s.isRunning = false

	s.logger.Infof("Quote sync scheduler: stopped")
}

// Reschedule applies changed settings (call after settings change)
func (s *QuoteSyncScheduler) Reschedule() error {
	s.mu.RLock()
	parent := s.parentCtx
	s.mu.RUnlock()
	if parent == nil || parent.Err() != nil {
		parent = context.Background()
	}

	s.Stop()
	return s.Start(parent)
}

// RunNow triggers an immediate sync in the background
func (s *QuoteSyncScheduler) RunNow() {
	s.manual.Add(1)
	go func() {
		defer s.manual.Done()
		_, _ = s.runSync(context.Background(), metrics.TriggerManual)
	}()
}

// SyncNow runs a sync and waits for its result. It ignores the enabled flag.
func (s *QuoteSyncScheduler) SyncNow(ctx context.Context) (syncagent.Result, error) {
	return s.runSync(ctx, metrics.TriggerManual)
}

// Wait blocks until background runs started by RunNow are done
func (s *QuoteSyncScheduler) Wait() {
	s.manual.Wait()
}

// IsRunning returns whether the scheduler is active
func (s *QuoteSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsSyncing returns whether any sync is currently in progress
func (s *QuoteSyncScheduler) IsSyncing() bool {
	return s.syncing.Load() > 0
}

// GetNextRunTime returns when the next sync will occur
func (s *QuoteSyncScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runSync performs one reconcile and records its outcome. It must not take
// s.mu: Stop holds it while waiting for running jobs.
func (s *QuoteSyncScheduler) runSync(ctx context.Context, trigger string) (syncagent.Result, error) {
	if trigger == metrics.TriggerScheduled && !s.settingsStore.GetSyncEnabled(ctx) {
		s.logger.Infof("Quote sync: skipped (disabled)")
		return syncagent.Result{}, nil
	}

	s.syncing.Add(1)
	defer s.syncing.Add(-1)

	startTime := time.Now()
	result, err := s.agent.Reconcile(ctx)
	duration := time.Since(startTime)

	status := "success"
	var message string
	switch {
	case err != nil:
		status = "failed"
		message = fmt.Sprintf("Sync failed: %v", err)
	case result.Merged > 0:
		message = fmt.Sprintf("%d new quotes synced from server.", result.Merged)
	default:
		message = fmt.Sprintf("No new quotes among %d fetched", result.Fetched)
	}
	s.logger.Infof("Quote sync (%s): %s in %v", trigger, message, duration.Round(time.Millisecond))

	// Recording must survive cancellation of the run itself
	recordCtx := context.WithoutCancel(ctx)
	if serr := s.settingsStore.SetSyncStatus(recordCtx, status, message, result.Merged); serr != nil {
		s.logger.Warnf("Quote sync: failed to save status: %v", serr)
	}
	if s.auditService != nil {
		s.auditService.LogSync(trigger, message, result.Merged, err)
	}
	s.metrics.ObserveSync(trigger, duration, result.Merged, err)

	return result, err
}

// cronLogger routes cron's own logging into zap
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
