package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/quotes/internal/entities"
)

func newTestClient(url string) *Client {
	c := NewClient(url, 2*time.Second)
	c.retryDelay = time.Millisecond
	return c
}

func TestClient_ListPosts(t *testing.T) {
	posts := []Post{
		{UserID: 1, ID: 1, Title: "sunt aut facere", Body: "quia et suscipit"},
		{UserID: 1, ID: 2, Title: "qui est esse", Body: "est rerum tempore"},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(posts)
	}))
	defer server.Close()

	got, err := newTestClient(server.URL).ListPosts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, posts, got)
}

func TestClient_ListPosts_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[{"userId":1,"id":3,"title":"ea molestias","body":"et iusto"}]`))
	}))
	defer server.Close()

	got, err := newTestClient(server.URL).ListPosts(context.Background())

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_ListPosts_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListPosts(context.Background())

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, int32(maxRetries), calls.Load())
}

func TestClient_ListPosts_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("missing"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListPosts(context.Background())

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "missing", statusErr.Body)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ListPosts_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListPosts(context.Background())

	assert.ErrorContains(t, err, "failed to decode response")
}

func TestClient_ListPosts_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(server.URL).ListPosts(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_PostQuote(t *testing.T) {
	var received entities.Quote
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":101}`))
	}))
	defer server.Close()

	quote := entities.Quote{Text: "Less is more.", Category: "Design"}
	body, err := newTestClient(server.URL).PostQuote(context.Background(), quote)

	require.NoError(t, err)
	assert.Equal(t, `{"id":101}`, body)
	assert.Equal(t, quote, received)
}

func TestClient_PostQuote_NotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).PostQuote(context.Background(), entities.Quote{Text: "a", Category: "b"})

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusServiceUnavailable, serverErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCalculateRetryDelay(t *testing.T) {
	assert.Equal(t, 2*time.Second, calculateRetryDelay(time.Second, 1))
	assert.Equal(t, 4*time.Second, calculateRetryDelay(time.Second, 2))
	assert.Equal(t, maxRetryDelay, calculateRetryDelay(time.Second, 10))
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	c := NewClient("http://example.invalid", 0)

	assert.Equal(t, defaultTimeout, c.httpClient.Timeout)
	assert.Equal(t, "http://example.invalid", c.URL())
}
