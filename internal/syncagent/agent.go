// Package syncagent reconciles the quote collection with the remote source.
//
// A reconcile fetches remote posts, maps their titles to quotes in a fixed
// category and merges the ones whose text is not yet present. Runs may
// overlap; the store's exact-text dedup turns the later one into a no-op.
// Locally added quotes are pushed outward through a Pusher, best effort.
package syncagent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/quotes/internal/config"
	"github.com/mrlokans/quotes/internal/entities"
	"github.com/mrlokans/quotes/internal/logging"
	"github.com/mrlokans/quotes/internal/notify"
	"github.com/mrlokans/quotes/internal/remote"
)

const syncedMessage = "%d new quotes synced from server."

// ErrFetch wraps every failure to read the remote collection.
var ErrFetch = errors.New("failed to fetch remote quotes")

// QuoteStore is the part of the quote store the agent merges into.
type QuoteStore interface {
	MergeNew(ctx context.Context, candidates []entities.Quote) ([]entities.Quote, error)
}

// Source lists the remote collection.
type Source interface {
	ListPosts(ctx context.Context) ([]remote.Post, error)
}

// Pusher sends a quote outward. Push must not block the caller.
type Pusher interface {
	Push(quote entities.Quote)
}

// Notifier surfaces a message to the user.
type Notifier interface {
	Notify(message string) notify.Notification
}

type Config struct {
	Category   string
	FetchLimit int
	Timeout    time.Duration
}

func (c Config) withDefaults() Config {
	if c.Category == "" {
		c.Category = config.DefaultSyncCategory
	}
	if c.FetchLimit <= 0 {
		c.FetchLimit = config.DefaultSyncFetchLimit
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	return c
}

// Result describes one reconcile run.
type Result struct {
	Fetched int              `json:"fetched"`
	Merged  int              `json:"merged"`
	Quotes  []entities.Quote `json:"quotes"`
}

// Status is a snapshot of the agent for status endpoints.
type Status struct {
	State      State      `json:"state"`
	InFlight   int        `json:"in_flight"`
	LastRunAt  *time.Time `json:"last_run_at,omitempty"`
	LastMerged int        `json:"last_merged"`
	LastError  string     `json:"last_error,omitempty"`
}

type Agent struct {
	cfg      Config
	store    QuoteStore
	source   Source
	pusher   Pusher
	notifier Notifier
	logger   *zap.SugaredLogger

	mu          sync.Mutex
	fetching    int
	reconciling int
	lastRunAt   *time.Time
	lastMerged  int
	lastErr     error
}

type Option func(*Agent)

func WithPusher(pusher Pusher) Option {
	return func(a *Agent) {
		a.pusher = pusher
	}
}

func WithNotifier(notifier Notifier) Option {
	return func(a *Agent) {
		a.notifier = notifier
	}
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

func New(cfg Config, store QuoteStore, source Source, opts ...Option) *Agent {
	a := &Agent{
		cfg:    cfg.withDefaults(),
		store:  store,
		source: source,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.OrNop(a.logger)
	return a
}

func (a *Agent) Config() Config {
	return a.cfg
}

// FetchRemote reads the remote collection and maps the first FetchLimit
// records to quotes. Records with an empty title are skipped.
func (a *Agent) FetchRemote(ctx context.Context) ([]entities.Quote, error) {
	posts, err := a.source.ListPosts(ctx)
	if err != nil {
		return nil, err
	}

	if len(posts) > a.cfg.FetchLimit {
		posts = posts[:a.cfg.FetchLimit]
	}

	mapped := make([]entities.Quote, 0, len(posts))
	for _, post := range posts {
		text := strings.TrimSpace(post.Title)
		if text == "" {
			continue
		}
		mapped = append(mapped, entities.Quote{Text: text, Category: a.cfg.Category})
	}
	return mapped, nil
}

// Reconcile fetches remote quotes and merges the new ones into the store.
// Fetch failures, including the configured timeout, are logged and returned.
func (a *Agent) Reconcile(ctx context.Context) (Result, error) {
	a.begin()

	fetchCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	candidates, err := a.FetchRemote(fetchCtx)
	cancel()
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrFetch, err)
		a.finish(StateFetching, 0, err)
		a.logger.Warnf("Sync skipped: %v", err)
		return Result{}, err
	}

	a.toReconciling()

	merged, err := a.store.MergeNew(ctx, candidates)
	if err != nil {
		err = fmt.Errorf("failed to merge remote quotes: %w", err)
		a.finish(StateReconciling, 0, err)
		a.logger.Errorf("Sync failed: %v", err)
		return Result{Fetched: len(candidates)}, err
	}
	a.finish(StateReconciling, len(merged), nil)

	if len(merged) > 0 {
		a.logger.Infof("Merged %d of %d remote quotes", len(merged), len(candidates))
		if a.notifier != nil {
			a.notifier.Notify(fmt.Sprintf(syncedMessage, len(merged)))
		}
	} else {
		a.logger.Debugf("No new remote quotes among %d fetched", len(candidates))
	}

	return Result{
		Fetched: len(candidates),
		Merged:  len(merged),
		Quotes:  merged,
	}, nil
}

// PushLocal hands a locally added quote to the pusher without waiting.
func (a *Agent) PushLocal(quote entities.Quote) {
	if a.pusher == nil {
		a.logger.Debugf("No pusher configured, not pushing %q", quote.Text)
		return
	}
	a.pusher.Push(quote)
}

// State reports the furthest phase any in-flight run has reached.
func (a *Agent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stateLocked()
}

func (a *Agent) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()

	status := Status{
		State:      a.stateLocked(),
		InFlight:   a.fetching + a.reconciling,
		LastMerged: a.lastMerged,
	}
	if a.lastRunAt != nil {
		at := *a.lastRunAt
		status.LastRunAt = &at
	}
	if a.lastErr != nil {
		status.LastError = a.lastErr.Error()
	}
	return status
}

func (a *Agent) stateLocked() State {
	switch {
	case a.reconciling > 0:
		return StateReconciling
	case a.fetching > 0:
		return StateFetching
	default:
		return StateIdle
	}
}

func (a *Agent) begin() {
	a.mu.Lock()
	a.fetching++
	a.mu.Unlock()
}

func (a *Agent) toReconciling() {
	a.mu.Lock()
	a.fetching--
	a.reconciling++
	a.mu.Unlock()
}

func (a *Agent) finish(from State, merged int, err error) {
	now := time.Now().UTC()

	a.mu.Lock()
	defer a.mu.Unlock()

	if from == StateFetching {
		a.fetching--
	} else {
		a.reconciling--
	}
	a.lastRunAt = &now
	a.lastMerged = merged
	a.lastErr = err
}
