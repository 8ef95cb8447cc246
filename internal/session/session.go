// Package session keeps per-visitor state in scs sessions backed by the
// sqlite sessions table.
package session

import (
	"context"
	"database/sql"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/quotes/internal/config"
	"github.com/mrlokans/quotes/internal/entities"
)

// Session data keys
const (
	KeyLastQuote = "lastQuote"
)

const CookieName = "session"

func init() {
	gob.Register(entities.Quote{})
}

// Manager wraps scs.SessionManager with quote-specific accessors.
type Manager struct {
	*scs.SessionManager
	store *sqlite3store.SQLite3Store
}

// NewManager creates a session manager storing sessions in sqlDB.
// A cleanupInterval of zero disables the background expiry sweep.
func NewManager(sqlDB *sql.DB, cfg config.Session, cleanupInterval time.Duration) (*Manager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	store := sqlite3store.NewWithCleanupInterval(sqlDB, cleanupInterval)

	sm := scs.New()
	sm.Store = store
	sm.Lifetime = cfg.Lifetime
	if sm.Lifetime <= 0 {
		sm.Lifetime = 24 * time.Hour
	}
	sm.IdleTimeout = sm.Lifetime / 2

	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm, store: store}, nil
}

// PutLastQuote records the quote most recently shown to this visitor.
func (m *Manager) PutLastQuote(ctx context.Context, quote entities.Quote) {
	m.Put(ctx, KeyLastQuote, quote)
}

// LastQuote returns the visitor's last shown quote, if any.
func (m *Manager) LastQuote(ctx context.Context) (entities.Quote, bool) {
	quote, ok := m.Get(ctx, KeyLastQuote).(entities.Quote)
	return quote, ok
}

// Close stops the expiry sweep.
func (m *Manager) Close() {
	m.store.StopCleanup()
}
