// Package client talks to a running holical server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/holical/internal/domain/model"
)

// ErrUnexpectedStatus is returned when the server answers with a status
// the caller did not expect.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Client wraps http.Client with the server base URL.
type Client struct {
	baseURL string
	http    *http.Client
	workers int
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithWorkers sets how many requests Push runs concurrently.
func WithWorkers(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// New creates a Client for baseURL, e.g. "http://localhost:9080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		workers: 4,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PushSummary counts the outcome of a Push.
type PushSummary struct {
	Submitted int
	Created   int
	Conflicts int
	Failed    int
}

// Push posts events to /events using a small worker pool. Conflicts
// (already stored IDs) are counted, not treated as failures. The returned
// error is only set when ctx ends before every event was sent.
func (c *Client) Push(ctx context.Context, events []model.CalendarEvent) (PushSummary, error) {
	var submitted, created, conflicts, failed int64

	ch := make(chan model.CalendarEvent, c.workers*2)
	var wg sync.WaitGroup

	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ev := range ch {
				atomic.AddInt64(&submitted, 1)
				status, err := c.post(ctx, "/events", ev)
				switch {
				case err != nil:
					atomic.AddInt64(&failed, 1)
				case status == http.StatusCreated:
					atomic.AddInt64(&created, 1)
				case status == http.StatusConflict:
					atomic.AddInt64(&conflicts, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
			}
		}()
	}

	var sendErr error
	func() {
		defer close(ch)
		for _, ev := range events {
			if err := ctx.Err(); err != nil {
				sendErr = err
				return
			}
			select {
			case <-ctx.Done():
				sendErr = ctx.Err()
				return
			case ch <- ev:
			}
		}
	}()
	wg.Wait()

	return PushSummary{
		Submitted: int(atomic.LoadInt64(&submitted)),
		Created:   int(atomic.LoadInt64(&created)),
		Conflicts: int(atomic.LoadInt64(&conflicts)),
		Failed:    int(atomic.LoadInt64(&failed)),
	}, sendErr
}

// Stats fetches GET /stats.
func (c *Client) Stats(ctx context.Context) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats", http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	out := map[string]any{}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return out, nil
}

// post sends v as JSON and returns the response status.
func (c *Client) post(ctx context.Context, path string, v any) (int, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	if _, err := readResponseBody(resp); err != nil {
		return resp.StatusCode, err
	}
	return resp.StatusCode, nil
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}
