package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/quotes/internal/entities"
)

type fakePoster struct {
	mu     sync.Mutex
	posted []entities.Quote
	err    error
	calls  chan entities.Quote
}

func (p *fakePoster) PostQuote(ctx context.Context, quote entities.Quote) (string, error) {
	p.mu.Lock()
	p.posted = append(p.posted, quote)
	p.mu.Unlock()
	if p.calls != nil {
		p.calls <- quote
	}
	return `{"id":101}`, p.err
}

func TestPushQuoteTaskConfig(t *testing.T) {
	cfg := PushQuoteTask{}.Config()

	assert.Equal(t, "push_quote", cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestPushQuoteProcessor(t *testing.T) {
	quote := entities.Quote{Text: "Test quote", Category: "Testing"}

	t.Run("success", func(t *testing.T) {
		poster := &fakePoster{}
		var gotErr error
		var reported []entities.Quote
		processor := PushQuoteProcessor(poster, func(q entities.Quote, err error) {
			reported = append(reported, q)
			gotErr = err
		})

		err := processor(context.Background(), PushQuoteTask{Text: quote.Text, Category: quote.Category})

		require.NoError(t, err)
		assert.Equal(t, []entities.Quote{quote}, poster.posted)
		assert.Equal(t, []entities.Quote{quote}, reported)
		assert.NoError(t, gotErr)
	})

	t.Run("failure is reported and returned", func(t *testing.T) {
		boom := errors.New("connection refused")
		poster := &fakePoster{err: boom}
		var gotErr error
		processor := PushQuoteProcessor(poster, func(_ entities.Quote, err error) {
			gotErr = err
		})

		err := processor(context.Background(), PushQuoteTask{Text: quote.Text, Category: quote.Category})

		assert.ErrorIs(t, err, boom)
		assert.ErrorIs(t, gotErr, boom)
	})

	t.Run("nil callback", func(t *testing.T) {
		processor := PushQuoteProcessor(&fakePoster{}, nil)

		assert.NoError(t, processor(context.Background(), PushQuoteTask{Text: "a", Category: "b"}))
	})
}

func TestQueuePusher(t *testing.T) {
	client := newTestClient(t)
	poster := &fakePoster{calls: make(chan entities.Quote, 1)}
	client.Register(NewPushQuoteQueue(poster, nil))
	startClient(t, client)

	quote := entities.Quote{Text: "Test quote", Category: "Testing"}
	NewQueuePusher(client, nil).Push(quote)

	select {
	case got := <-poster.calls:
		assert.Equal(t, quote, got)
	case <-time.After(5 * time.Second):
		t.Fatal("push task was not executed within timeout")
	}
}

func TestQueuePusher_FailedPushNotRetried(t *testing.T) {
	client := newTestClient(t)
	poster := &fakePoster{err: errors.New("503"), calls: make(chan entities.Quote, 2)}
	client.Register(NewPushQuoteQueue(poster, nil))
	startClient(t, client)

	NewQueuePusher(client, nil).Push(entities.Quote{Text: "a", Category: "b"})

	select {
	case <-poster.calls:
	case <-time.After(5 * time.Second):
		t.Fatal("push task was not executed within timeout")
	}

	// A second attempt would show up here
	select {
	case <-poster.calls:
		t.Fatal("push was retried")
	case <-time.After(300 * time.Millisecond):
	}
}
