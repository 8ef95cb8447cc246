package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mrlokans/quotes/internal/config"
	"github.com/mrlokans/quotes/internal/entities"
	"github.com/mrlokans/quotes/internal/kv"
	"github.com/mrlokans/quotes/internal/metrics"
	"github.com/mrlokans/quotes/internal/settingsstore"
	"github.com/mrlokans/quotes/internal/syncagent"
)

type fakeReconciler struct {
	mu     sync.Mutex
	calls  int
	result syncagent.Result
	err    error
	block  chan struct{}
}

func (r *fakeReconciler) Reconcile(ctx context.Context) (syncagent.Result, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return syncagent.Result{}, ctx.Err()
		}
	}
	return r.result, r.err
}

func (r *fakeReconciler) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func newTestScheduler(syncCfg config.Sync, agent Reconciler) (*QuoteSyncScheduler, *settingsstore.SettingsStore, *metrics.Metrics) {
	store := settingsstore.New(kv.NewMemory(), syncCfg)
	m := metrics.New()
	return NewQuoteSyncScheduler(store, agent, nil, m, nil), store, m
}

func TestScheduler_StartDisabled(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, _, _ := newTestScheduler(config.Sync{Enabled: false}, &fakeReconciler{})

	require.NoError(t, s.Start(context.Background()))

	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
}

func TestScheduler_StartRunsOnSchedule(t *testing.T) {
	defer goleak.VerifyNone(t)

	agent := &fakeReconciler{}
	s, _, _ := newTestScheduler(config.Sync{Enabled: true, Schedule: "@every 1s"}, agent)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	next := s.GetNextRunTime()
	require.NotNil(t, next)
	assert.WithinDuration(t, time.Now().Add(time.Second), *next, 2*time.Second)

	require.Eventually(t, func() bool {
		return agent.callCount() >= 1
	}, 5*time.Second, 20*time.Millisecond)

	s.Stop()
	assert.False(t, s.IsRunning())

	// Stop is idempotent
	s.Stop()
}

func TestScheduler_StopsWhenContextCanceled(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, _, _ := newTestScheduler(config.Sync{Enabled: true, Schedule: "@every 1h"}, &fakeReconciler{})
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	cancel()

	require.Eventually(t, func() bool {
		return !s.IsRunning()
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := settingsstore.New(kvWith(t, entities.SettingKeySyncSchedule, "every now and then"), config.Sync{Enabled: true})
	s := NewQuoteSyncScheduler(store, &fakeReconciler{}, nil, nil, nil)

	err := s.Start(context.Background())

	assert.ErrorContains(t, err, "invalid cron schedule")
	assert.False(t, s.IsRunning())
}

func TestScheduler_RescheduleReplacesEntry(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, store, _ := newTestScheduler(config.Sync{Enabled: true, Schedule: "@every 1h"}, &fakeReconciler{})
	ctx := context.Background()

	require.NoError(t, s.Start(ctx))
	require.NoError(t, store.SetSyncSchedule(ctx, "@every 2h"))
	require.NoError(t, s.Reschedule())
	defer s.Stop()

	assert.Len(t, s.cron.Entries(), 1)
	next := s.GetNextRunTime()
	require.NotNil(t, next)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), *next, time.Minute)
}

func TestScheduler_StaysRunningAfterReschedule(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, _, _ := newTestScheduler(config.Sync{Enabled: true, Schedule: "@every 30s"}, &fakeReconciler{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	for i := 0; i < 50; i++ {
		require.NoError(t, s.Reschedule())
		time.Sleep(2 * time.Millisecond)
		require.True(t, s.IsRunning(), "stopped after reschedule %d", i)
	}
	defer s.Stop()

	// Give any leftover watcher time to act before the final check
	time.Sleep(20 * time.Millisecond)
	assert.True(t, s.IsRunning())
	assert.Len(t, s.cron.Entries(), 1)
}

func TestScheduler_RunsAfterTwoReschedules(t *testing.T) {
	defer goleak.VerifyNone(t)

	agent := &fakeReconciler{}
	s, store, _ := newTestScheduler(config.Sync{Enabled: true, Schedule: "@every 1h"}, agent)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Reschedule())
	require.NoError(t, store.SetSyncSchedule(ctx, "@every 1s"))
	require.NoError(t, s.Reschedule())
	defer s.Stop()

	time.Sleep(20 * time.Millisecond)
	assert.True(t, s.IsRunning())
	assert.NotNil(t, s.GetNextRunTime())

	require.Eventually(t, func() bool {
		return agent.callCount() >= 1
	}, 5*time.Second, 20*time.Millisecond)
}

func TestScheduler_CancelAfterRescheduleStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, _, _ := newTestScheduler(config.Sync{Enabled: true, Schedule: "@every 1h"}, &fakeReconciler{})
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Reschedule())
	cancel()

	require.Eventually(t, func() bool {
		return !s.IsRunning()
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_RescheduleToDisabled(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, store, _ := newTestScheduler(config.Sync{Enabled: true, Schedule: "@every 1h"}, &fakeReconciler{})
	ctx := context.Background()

	require.NoError(t, s.Start(ctx))
	require.NoError(t, store.SetSyncEnabled(ctx, false))
	require.NoError(t, s.Reschedule())

	assert.False(t, s.IsRunning())
	assert.Empty(t, s.cron.Entries())
}

func TestScheduler_SyncNowRecordsSuccess(t *testing.T) {
	agent := &fakeReconciler{result: syncagent.Result{
		Fetched: 5,
		Merged:  2,
		Quotes: []entities.Quote{
			{Text: "a", Category: "ServerSync"},
			{Text: "b", Category: "ServerSync"},
		},
	}}
	// Manual runs ignore the enabled flag
	s, store, m := newTestScheduler(config.Sync{Enabled: false}, agent)
	ctx := context.Background()

	result, err := s.SyncNow(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Merged)

	status := store.GetSyncStatus(ctx)
	assert.Equal(t, "success", status.Status)
	assert.Equal(t, "2 new quotes synced from server.", status.Message)
	assert.Equal(t, 2, status.Merged)
	assert.NotNil(t, status.LastSyncAt)

	count, err := testutil.GatherAndCount(m.Registry(), "quotes_sync_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestScheduler_SyncNowRecordsFailure(t *testing.T) {
	boom := errors.New("connection refused")
	s, store, _ := newTestScheduler(config.Sync{Enabled: true}, &fakeReconciler{err: boom})
	ctx := context.Background()

	_, err := s.SyncNow(ctx)

	assert.ErrorIs(t, err, boom)
	status := store.GetSyncStatus(ctx)
	assert.Equal(t, "failed", status.Status)
	assert.Contains(t, status.Message, "connection refused")
	assert.False(t, s.IsSyncing())
}

func TestScheduler_ScheduledRunSkippedWhenDisabled(t *testing.T) {
	agent := &fakeReconciler{}
	s, _, _ := newTestScheduler(config.Sync{Enabled: false}, agent)

	_, err := s.runSync(context.Background(), metrics.TriggerScheduled)

	assert.NoError(t, err)
	assert.Zero(t, agent.callCount())
}

func TestScheduler_RunNow(t *testing.T) {
	defer goleak.VerifyNone(t)

	agent := &fakeReconciler{block: make(chan struct{})}
	s, store, _ := newTestScheduler(config.Sync{Enabled: true}, agent)

	s.RunNow()

	require.Eventually(t, s.IsSyncing, time.Second, time.Millisecond)
	close(agent.block)
	s.Wait()

	assert.False(t, s.IsSyncing())
	assert.Equal(t, 1, agent.callCount())
	assert.Equal(t, "success", store.GetSyncStatus(context.Background()).Status)
}

func kvWith(t *testing.T, key, value string) kv.Store {
	t.Helper()
	store := kv.NewMemory()
	require.NoError(t, store.Set(context.Background(), key, value))
	return store
}
