package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/quotes/internal/database/audit"
	"github.com/mrlokans/quotes/internal/entities"
	"github.com/mrlokans/quotes/internal/logging"
)

const maxErrorLen = 500

// Service provides high-level audit logging functionality.
type Service struct {
	repo   *audit.Repository
	logger *zap.SugaredLogger
	wg     sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository, logger *zap.SugaredLogger) *Service {
	return &Service{repo: repo, logger: logging.OrNop(logger)}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(context.Background(), event); err != nil {
			s.logger.Errorf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until pending asynchronous writes are done.
func (s *Service) Wait() {
	s.wg.Wait()
}

// LogCreate records a manually added quote.
func (s *Service) LogCreate(quote entities.Quote, err error) {
	event := newEvent(entities.AuditEventCreate, "quote_add",
		fmt.Sprintf("Added quote in category %q", quote.Category), err)
	event.Metadata = metadata(map[string]any{"text": quote.Text, "category": quote.Category})
	s.LogAsync(event)
}

// LogImport records a JSON import. archive is the saved raw payload name, if any.
func (s *Service) LogImport(description string, count int, archive string, err error) {
	event := newEvent(entities.AuditEventImport, "json_import", description, err)
	event.Metadata = metadata(map[string]any{"quotes_count": count, "archive": archive})
	s.LogAsync(event)
}

// LogExport records an export event.
func (s *Service) LogExport(count int, err error) {
	event := newEvent(entities.AuditEventExport, "json_export",
		fmt.Sprintf("Exported %d quotes", count), err)
	s.LogAsync(event)
}

// LogSync records a sync event.
func (s *Service) LogSync(trigger, description string, merged int, err error) {
	event := newEvent(entities.AuditEventSync, "quote_sync", description, err)
	event.Metadata = metadata(map[string]any{"trigger": trigger, "merged": merged})
	s.LogAsync(event)
}

// LogPush records an outbound push attempt.
func (s *Service) LogPush(quote entities.Quote, err error) {
	event := newEvent(entities.AuditEventPush, "quote_push",
		fmt.Sprintf("Pushed quote in category %q", quote.Category), err)
	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (s *Service) GetEventsByType(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByType(ctx, eventType, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

func newEvent(eventType entities.AuditEventType, action, description string, err error) *entities.AuditEvent {
	event := &entities.AuditEvent{
		EventType:   eventType,
		Action:      action,
		Description: truncate(description, maxErrorLen),
		Status:      entities.AuditStatusSuccess,
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), maxErrorLen)
	}
	return event
}

func metadata(values map[string]any) string {
	data, err := json.Marshal(values)
	if err != nil {
		return ""
	}
	return string(data)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
