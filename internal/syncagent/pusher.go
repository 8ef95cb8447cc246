package syncagent

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/quotes/internal/entities"
	"github.com/mrlokans/quotes/internal/logging"
)

const defaultPushTimeout = 10 * time.Second

// Poster delivers one quote to the remote source.
type Poster interface {
	PostQuote(ctx context.Context, quote entities.Quote) (string, error)
}

// PushObserver is told about every push outcome.
type PushObserver interface {
	ObservePush(err error)
}

// GoroutinePusher posts each quote from its own goroutine, once.
type GoroutinePusher struct {
	poster   Poster
	timeout  time.Duration
	observer PushObserver
	logger   *zap.SugaredLogger
	wg       sync.WaitGroup
}

func NewGoroutinePusher(poster Poster, timeout time.Duration, observer PushObserver, logger *zap.SugaredLogger) *GoroutinePusher {
	if timeout <= 0 {
		timeout = defaultPushTimeout
	}
	return &GoroutinePusher{
		poster:   poster,
		timeout:  timeout,
		observer: observer,
		logger:   logging.OrNop(logger),
	}
}

func (p *GoroutinePusher) Push(quote entities.Quote) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()

		body, err := p.poster.PostQuote(ctx, quote)
		if p.observer != nil {
			p.observer.ObservePush(err)
		}
		if err != nil {
			p.logger.Warnf("Failed to push quote %q: %v", quote.Text, err)
			return
		}
		p.logger.Infof("Quote synced to server: %s", body)
	}()
}

// Wait blocks until every started push has finished.
func (p *GoroutinePusher) Wait() {
	p.wg.Wait()
}
