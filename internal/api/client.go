package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"procurement/internal/logger"
	"procurement/internal/session"

	"github.com/google/uuid"
)

const DefaultLoginTimeout = 15 * time.Second

// Client talks to the remote procurement API. Every call except the
// public auth endpoints carries the bearer token from the session store.
type Client struct {
	baseURL      string
	http         *http.Client
	store        session.Store
	log          *logger.Logger
	loginTimeout time.Duration
	maxRetries   int
	retryDelay   time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

func WithLoginTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.loginTimeout = d
	}
}

// WithRetry enables bounded retries of GET requests that failed without a response.
// Mutations are never retried.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.retryDelay = delay
	}
}

func NewClient(baseURL string, store session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{},
		store:        store,
		log:          logger.Discard(),
		loginTimeout: DefaultLoginTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Store() session.Store {
	return c.store
}

func isPublic(path string) bool {
	return path == "/login/" || strings.HasPrefix(path, "/reset-password/")
}

// Request issues method on path (relative to the base URL), JSON-encoding body
// when not nil and decoding the response into out when not nil.
func (c *Client) Request(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api.Client.Request: %w", err)
		}
	}

	var token string
	if !isPublic(path) {
		var err error
		token, _, err = c.store.Get(ctx, session.KeyToken)
		if err != nil {
			return fmt.Errorf("api.Client.Request: %w", err)
		}
	}

	attempts := 1
	if method == http.MethodGet && c.maxRetries > 0 {
		attempts += c.maxRetries
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			c.log.Warnf("retrying %s %s (%d/%d): %s", method, path, i, c.maxRetries, err)
			select {
			case <-ctx.Done():
				return err
			case <-time.After(c.retryDelay):
			}
		}

		err = c.do(ctx, method, path, token, payload, out)
		if !IsKind(err, KindNetwork) || ctx.Err() != nil {
			return err
		}
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path, token string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Kind: KindFailed, Message: "could not build request", Err: err}
	}

	requestId := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestId)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if len(token) > 0 {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debugf("%s %s [%s] no response after %s: %s", method, path, requestId, time.Since(started), err)
		return &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetwork, Status: resp.StatusCode, Message: "could not read response body", Err: err}
	}
	c.log.Debugf("%s %s [%s] %d in %s", method, path, requestId, resp.StatusCode, time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Kind:    classifyStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: errorMessage(data, resp.Status),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	err = json.Unmarshal(data, out)
	if err != nil {
		return &Error{Kind: KindFailed, Status: resp.StatusCode, Message: "unexpected response shape", Err: err}
	}
	return nil
}

// errorMessage picks a human readable reason out of an error body.
func errorMessage(data []byte, fallback string) string {
	var fields map[string]any
	if json.Unmarshal(data, &fields) == nil {
		for _, key := range []string{"detail", "message", "reason", "error"} {
			if s, ok := fields[key].(string); ok && len(s) > 0 {
				return s
			}
		}
	}

	text := strings.TrimSpace(string(data))
	if len(text) == 0 {
		return fallback
	}
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}

// List decodes either a bare JSON array or a paginated {"results": [...]} envelope.
type List[T any] []T

func (l *List[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}

	var page struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return err
	}
	*l = page.Results
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.Request(ctx, http.MethodGet, path, nil, out)
}

func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var list List[T]
	if err := c.get(ctx, path, &list); err != nil {
		return nil, err
	}
	if list == nil {
		return []T{}, nil
	}
	return list, nil
}
