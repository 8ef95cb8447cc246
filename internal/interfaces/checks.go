package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/quotes/internal/audit"
	"github.com/mrlokans/quotes/internal/database/settings"
	"github.com/mrlokans/quotes/internal/http"
	"github.com/mrlokans/quotes/internal/importers"
	"github.com/mrlokans/quotes/internal/kv"
	"github.com/mrlokans/quotes/internal/metrics"
	"github.com/mrlokans/quotes/internal/notify"
	"github.com/mrlokans/quotes/internal/quotes"
	"github.com/mrlokans/quotes/internal/remote"
	"github.com/mrlokans/quotes/internal/scheduler"
	"github.com/mrlokans/quotes/internal/session"
	"github.com/mrlokans/quotes/internal/settingsstore"
	"github.com/mrlokans/quotes/internal/syncagent"
	"github.com/mrlokans/quotes/internal/tasks"
)

// =============================================================================
// Persistence
// =============================================================================

var _ kv.Store = (*settings.Repository)(nil)
var _ kv.Store = (*kv.Memory)(nil)
var _ quotes.Persistence = (*quotes.KVPersistence)(nil)

// =============================================================================
// Sync
// =============================================================================

var _ syncagent.QuoteStore = (*quotes.Store)(nil)
var _ syncagent.Source = (*remote.Client)(nil)
var _ syncagent.Poster = (*remote.Client)(nil)
var _ tasks.QuotePoster = (*remote.Client)(nil)
var _ syncagent.Pusher = (*syncagent.GoroutinePusher)(nil)
var _ syncagent.Pusher = (*tasks.QueuePusher)(nil)
var _ syncagent.PushObserver = (*metrics.Metrics)(nil)
var _ syncagent.Notifier = (*notify.Feed)(nil)
var _ scheduler.Reconciler = (*syncagent.Agent)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)

// =============================================================================
// Import Pipeline
// =============================================================================

var _ importers.QuoteAppender = (*quotes.Store)(nil)
var _ importers.Archiver = (*audit.Auditor)(nil)
var _ importers.Recorder = (*audit.Service)(nil)

// =============================================================================
// HTTP Layer
// =============================================================================

var _ http.QuoteStore = (*quotes.Store)(nil)
var _ http.QuoteCount = (*quotes.Store)(nil)
var _ http.FilterStore = (*settingsstore.SettingsStore)(nil)
var _ http.SyncSettings = (*settingsstore.SettingsStore)(nil)
var _ http.LastQuoteStore = (*session.Manager)(nil)
var _ http.Importer = (*importers.Pipeline)(nil)
var _ http.LocalPusher = (*syncagent.Agent)(nil)
var _ http.SyncStatusReporter = (*syncagent.Agent)(nil)
var _ http.SyncRunner = (*scheduler.QuoteSyncScheduler)(nil)
var _ http.QuoteRecorder = (*audit.Service)(nil)
var _ http.QuoteCounter = (*metrics.Metrics)(nil)
var _ http.NotificationFeed = (*notify.Feed)(nil)
