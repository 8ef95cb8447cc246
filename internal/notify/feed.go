// Package notify keeps the user-visible notifications raised by background work.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mrlokans/quotes/internal/logging"
)

const DefaultCapacity = 50

type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Feed is a bounded in-memory list of notifications, oldest first.
type Feed struct {
	mu       sync.RWMutex
	items    []Notification
	capacity int
	logger   *zap.SugaredLogger
}

func NewFeed(capacity int, logger *zap.SugaredLogger) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{
		capacity: capacity,
		logger:   logging.OrNop(logger),
	}
}

// Notify records a message and returns the stored notification.
func (f *Feed) Notify(message string) Notification {
	n := Notification{
		ID:        uuid.New().String(),
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	f.mu.Lock()
	f.items = append(f.items, n)
	if len(f.items) > f.capacity {
		f.items = append([]Notification(nil), f.items[len(f.items)-f.capacity:]...)
	}
	f.mu.Unlock()

	f.logger.Infof("Notification: %s", message)
	return n
}

// Recent returns notifications newer than afterID. An empty or unknown
// afterID returns everything still held.
func (f *Feed) Recent(afterID string) []Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	start := 0
	if afterID != "" {
		for i, n := range f.items {
			if n.ID == afterID {
				start = i + 1
				break
			}
		}
	}

	out := make([]Notification, len(f.items)-start)
	copy(out, f.items[start:])
	return out
}
