package http

import (
	"context"
	"time"

	"github.com/mrlokans/quotes/internal/entities"
	"github.com/mrlokans/quotes/internal/importers"
	"github.com/mrlokans/quotes/internal/notify"
	"github.com/mrlokans/quotes/internal/settingsstore"
	"github.com/mrlokans/quotes/internal/syncagent"
)

// This file consolidates the narrow interfaces HTTP controllers depend on.

// QuoteStore is the quote collection as seen by the API.
type QuoteStore interface {
	Add(ctx context.Context, text, category string) (entities.Quote, error)
	Random() (entities.Quote, bool)
	ByCategory(filter string) []entities.Quote
	Categories() []string
	All() []entities.Quote
	Len() int
}

// FilterStore persists the selected category filter.
type FilterStore interface {
	GetLastFilter(ctx context.Context) string
	SetLastFilter(ctx context.Context, filter string) error
}

// LastQuoteStore keeps the last shown quote per visitor session.
type LastQuoteStore interface {
	PutLastQuote(ctx context.Context, quote entities.Quote)
	LastQuote(ctx context.Context) (entities.Quote, bool)
}

// Importer appends an uploaded document to the collection.
type Importer interface {
	Import(ctx context.Context, data []byte) (importers.ImportResult, error)
}

// LocalPusher forwards newly added quotes to the remote source.
type LocalPusher interface {
	PushLocal(quote entities.Quote)
}

// QuoteRecorder receives audit records for add and export.
type QuoteRecorder interface {
	LogCreate(quote entities.Quote, err error)
	LogExport(count int, err error)
}

// QuoteCounter receives metrics for quotes added through the API.
type QuoteCounter interface {
	AddQuotes(source string, n int)
}

// SyncRunner triggers reconciles and reports on the schedule.
type SyncRunner interface {
	SyncNow(ctx context.Context) (syncagent.Result, error)
	Reschedule() error
	IsRunning() bool
	IsSyncing() bool
	GetNextRunTime() *time.Time
}

// SyncStatusReporter reports the sync agent's live state.
type SyncStatusReporter interface {
	Status() syncagent.Status
}

// SyncSettings reads and overrides the sync configuration.
type SyncSettings interface {
	GetSyncConfigInfo(ctx context.Context) settingsstore.SyncConfigInfo
	GetSyncStatus(ctx context.Context) settingsstore.SyncStatus
	SetSyncEnabled(ctx context.Context, enabled bool) error
	SetSyncSchedule(ctx context.Context, schedule string) error
}

// NotificationFeed lists user-visible notifications.
type NotificationFeed interface {
	Recent(afterID string) []notify.Notification
}
