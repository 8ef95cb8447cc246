// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Persistence
//
//   - kv.Store: durable string key/value storage (internal/kv)
//   - quotes.Persistence: load/save of the whole quote collection (internal/quotes)
//
// ## Sync
//
//   - syncagent.QuoteStore: merge target for remote quotes
//   - syncagent.Source: lists the remote collection (internal/remote)
//   - syncagent.Pusher: outbound delivery of locally added quotes, inline
//     (GoroutinePusher) or through the task queue (tasks.QueuePusher)
//   - syncagent.Notifier: user-visible messages (internal/notify)
//   - scheduler.Reconciler: what the cron job runs
//
// ## Import
//
//   - importers.QuoteAppender, importers.Archiver, importers.Recorder
//
// ## HTTP
//
// Controllers in internal/http depend on the narrow interfaces in
// internal/http/stores.go; checks.go lists which concrete type backs each.
//
// # Adding a New Remote Source
//
//  1. Implement syncagent.Source (ListPosts) for the new endpoint, mapping its
//     records to remote.Post so Title becomes the quote text.
//  2. If it accepts new quotes, implement syncagent.Poster as well.
//  3. Wire it in entrypoint.NewApp in place of remote.Client.
package interfaces
