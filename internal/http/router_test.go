package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mrlokans/quotes/internal/config"
	"github.com/mrlokans/quotes/internal/entities"
	"github.com/mrlokans/quotes/internal/importers"
	"github.com/mrlokans/quotes/internal/kv"
	"github.com/mrlokans/quotes/internal/notify"
	"github.com/mrlokans/quotes/internal/quotes"
	"github.com/mrlokans/quotes/internal/settingsstore"
	"github.com/mrlokans/quotes/internal/syncagent"
)

type fakePusher struct {
	mu     sync.Mutex
	pushed []entities.Quote
}

func (p *fakePusher) PushLocal(quote entities.Quote) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushed = append(p.pushed, quote)
}

// fakeLastQuotes keeps one last quote for all requests.
type fakeLastQuotes struct {
	quote *entities.Quote
}

func (f *fakeLastQuotes) PutLastQuote(_ context.Context, quote entities.Quote) {
	f.quote = &quote
}

func (f *fakeLastQuotes) LastQuote(context.Context) (entities.Quote, bool) {
	if f.quote == nil {
		return entities.Quote{}, false
	}
	return *f.quote, true
}

type fakeRecorder struct {
	created []entities.Quote
	exports []int
}

func (r *fakeRecorder) LogCreate(quote entities.Quote, err error) {
	if err == nil {
		r.created = append(r.created, quote)
	}
}

func (r *fakeRecorder) LogExport(count int, _ error) {
	r.exports = append(r.exports, count)
}

type fakeScheduler struct {
	result      syncagent.Result
	err         error
	calls       int
	reschedules int
	running     bool
	next        *time.Time
}

func (f *fakeScheduler) SyncNow(context.Context) (syncagent.Result, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeScheduler) Reschedule() error {
	f.reschedules++
	return nil
}

func (f *fakeScheduler) IsRunning() bool            { return f.running }
func (f *fakeScheduler) IsSyncing() bool            { return false }
func (f *fakeScheduler) GetNextRunTime() *time.Time { return f.next }

type fakeAgentStatus struct {
	status syncagent.Status
}

func (f fakeAgentStatus) Status() syncagent.Status { return f.status }

type testServer struct {
	router     http.Handler
	store      *quotes.Store
	settings   *settingsstore.SettingsStore
	pusher     *fakePusher
	lastQuotes *fakeLastQuotes
	recorder   *fakeRecorder
	scheduler  *fakeScheduler
	feed       *notify.Feed
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	memory := kv.NewMemory()
	store := quotes.New(quotes.NewKVPersistence(memory), quotes.WithIntn(func(int) int { return 0 }))
	require.NoError(t, store.Load(context.Background()))

	s := &testServer{
		store:      store,
		settings:   settingsstore.New(memory, config.Sync{Enabled: true, Schedule: config.DefaultSyncSchedule}),
		pusher:     &fakePusher{},
		lastQuotes: &fakeLastQuotes{},
		recorder:   &fakeRecorder{},
		scheduler:  &fakeScheduler{running: true},
		feed:       notify.NewFeed(10, nil),
	}
	s.router = NewRouter(RouterConfig{
		Quotes:        store,
		Filters:       s.settings,
		Importer:      importers.NewPipeline(store),
		Pusher:        s.pusher,
		LastQuotes:    s.lastQuotes,
		Recorder:      s.recorder,
		Scheduler:     s.scheduler,
		SyncStatus:    fakeAgentStatus{status: syncagent.Status{State: syncagent.StateIdle}},
		SyncSettings:  s.settings,
		Notifications: s.feed,
		Version:       "test",
	})
	return s
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}
