package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/quotes/internal/logging"
)

const defaultAuditRetentionDays = 30

var ErrNoAuditCleaner = errors.New("audit cleaner not configured")

// AuditEventCleaner deletes audit events older than retention.
type AuditEventCleaner interface {
	DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error)
}

// CleanupAuditEventsTask prunes the audit trail of quote activity.
type CleanupAuditEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

func (t CleanupAuditEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_audit_events",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration: 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// Retention is how long events are kept; unset means 30 days.
func (t CleanupAuditEventsTask) Retention() time.Duration {
	days := t.RetentionDays
	if days <= 0 {
		days = defaultAuditRetentionDays
	}
	return time.Duration(days) * 24 * time.Hour
}

func CleanupAuditEventsProcessor(cleaner AuditEventCleaner, logger *zap.SugaredLogger) backlite.QueueProcessor[CleanupAuditEventsTask] {
	logger = logging.OrNop(logger)
	return func(ctx context.Context, task CleanupAuditEventsTask) error {
		if cleaner == nil {
			return ErrNoAuditCleaner
		}

		retention := task.Retention()
		deleted, err := cleaner.DeleteOldEvents(ctx, retention)
		if err != nil {
			return fmt.Errorf("prune audit events older than %v: %w", retention, err)
		}

		logger.Infof("Pruned %d audit events older than %v", deleted, retention)
		return nil
	}
}

func NewCleanupAuditEventsQueue(cleaner AuditEventCleaner, logger *zap.SugaredLogger) backlite.Queue {
	return backlite.NewQueue(CleanupAuditEventsProcessor(cleaner, logger))
}
