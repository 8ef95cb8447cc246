package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/quotes/internal/entities"
	"github.com/mrlokans/quotes/internal/logging"
)

// QuotePoster delivers a quote to the remote source.
type QuotePoster interface {
	PostQuote(ctx context.Context, quote entities.Quote) (string, error)
}

// PushResultFunc is called once per processed push.
type PushResultFunc func(quote entities.Quote, err error)

// PushQuoteTask sends one locally added quote outward. It is never retried.
type PushQuoteTask struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

func (t PushQuoteTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "push_quote",
		MaxAttempts: 1,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: true,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func (t PushQuoteTask) Quote() entities.Quote {
	return entities.Quote{Text: t.Text, Category: t.Category}
}

// PushQuoteProcessor creates a processor for outbound pushes.
func PushQuoteProcessor(poster QuotePoster, onResult PushResultFunc) backlite.QueueProcessor[PushQuoteTask] {
	return func(ctx context.Context, task PushQuoteTask) error {
		quote := task.Quote()
		body, err := poster.PostQuote(ctx, quote)
		if onResult != nil {
			onResult(quote, err)
		}
		if err != nil {
			return fmt.Errorf("push quote %q: %w", quote.Text, err)
		}

		zap.S().Infof("Quote synced to server: %s", body)
		return nil
	}
}

// NewPushQuoteQueue creates a backlite queue for outbound pushes.
func NewPushQuoteQueue(poster QuotePoster, onResult PushResultFunc) backlite.Queue {
	return backlite.NewQueue(PushQuoteProcessor(poster, onResult))
}

// QueuePusher enqueues pushes instead of sending them inline.
type QueuePusher struct {
	client *Client
	logger *zap.SugaredLogger
}

func NewQueuePusher(client *Client, logger *zap.SugaredLogger) *QueuePusher {
	return &QueuePusher{client: client, logger: logging.OrNop(logger)}
}

// Push stores the task and returns; delivery happens on a worker.
func (p *QueuePusher) Push(quote entities.Quote) {
	ids, err := p.client.Add(PushQuoteTask{Text: quote.Text, Category: quote.Category}).Save()
	if err != nil {
		p.logger.Warnf("Failed to enqueue push for %q: %v", quote.Text, err)
		return
	}
	p.logger.Debugf("Enqueued push task %v", ids)
}
