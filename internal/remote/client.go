// Package remote talks to the mock REST collection used as the sync source.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mrlokans/quotes/internal/entities"
)

const (
	defaultTimeout     = 30 * time.Second
	maxRetries         = 3
	initialRetryDelay  = 1 * time.Second
	maxRetryDelay      = 30 * time.Second
	retryBackoffFactor = 2
	maxLoggedBody      = 512
)

// Client reads and writes posts on the remote collection URL
type Client struct {
	url        string
	httpClient *http.Client
	retryDelay time.Duration
}

// NewClient creates a client for the given collection URL
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retryDelay: initialRetryDelay,
	}
}

// Post is a record of the remote collection. Only Title is used for sync.
type Post struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// URL returns the collection URL the client talks to
func (c *Client) URL() string {
	return c.url
}

// ListPosts fetches the whole remote collection, retrying on rate limits and server errors
func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	var posts []Post
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := calculateRetryDelay(c.retryDelay, attempt)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		posts, lastErr = c.doListRequest(ctx)
		if lastErr == nil {
			return posts, nil
		}

		// Only retry on rate limits or server errors
		if !isRetryableError(lastErr) {
			return nil, lastErr
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// PostQuote sends a single quote to the collection URL and returns the
// response body, truncated for logging. It is attempted once.
func (c *Client) PostQuote(ctx context.Context, quote entities.Quote) (string, error) {
	payload, err := json.Marshal(quote)
	if err != nil {
		return "", fmt.Errorf("failed to encode quote: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBody))
	if err := statusError(resp.StatusCode, body); err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) doListRequest(ctx context.Context) ([]Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBody))
		return nil, statusError(resp.StatusCode, body)
	}

	var posts []Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return posts, nil
}

func statusError(code int, body []byte) error {
	switch {
	case code >= 200 && code <= 299:
		return nil
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	case code >= 500:
		return &ServerError{StatusCode: code}
	default:
		return &StatusError{StatusCode: code, Body: string(body)}
	}
}

func calculateRetryDelay(base time.Duration, attempt int) time.Duration {
	delay := base
	for i := 0; i < attempt; i++ {
		delay *= time.Duration(retryBackoffFactor)
	}
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

func isRetryableError(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var serverErr *ServerError
	return errors.As(err, &serverErr)
}
