// Package remote is the backend that talks to a record API server. Wire
// records use snake_case names; translation happens here so callers only ever
// see canonical models.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/recordapi"
	"github.com/tgienger/quill/internal/store"
)

// DefaultTimeout bounds each request when no http.Client is supplied
const DefaultTimeout = 30 * time.Second

// Client talks to a record API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithAPIKey sends the key as a bearer token
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: d} }
}

// NewClient creates a client for the API rooted at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stores returns the store set served by the API
func (c *Client) Stores() store.Set {
	return store.Set{
		Tasks:     &TaskStore{c: c},
		Projects:  &ProjectStore{c: c},
		Templates: &TemplateStore{c: c},
	}
}

// call performs one request. A 404 maps to NotFound, a 400 to a validation
// error carrying the field the server named. Transport failures classify as
// load errors for reads and persist errors for writes.
func (c *Client) call(ctx context.Context, entity, op, id, method, path string, body, out any) error {
	failKind := store.ErrPersist
	if op == store.OpGet || op == store.OpGetAll {
		failKind = store.ErrLoad
	}
	if id == "" && (op == store.OpUpdate || op == store.OpDelete) {
		return store.NotFound(entity, op, id)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return store.Wrap(failKind, entity, op, id, fmt.Errorf("marshal request: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return store.Wrap(failKind, entity, op, id, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return store.Wrap(failKind, entity, op, id, fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	// A 404 is NotFound whether or not the body is an envelope; routers and
	// proxies answer in plain text.
	if resp.StatusCode == http.StatusNotFound {
		return store.NotFound(entity, op, id)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return store.Wrap(failKind, entity, op, id, fmt.Errorf("read response: %w", err))
	}

	var env recordapi.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return store.Wrap(failKind, entity, op, id, fmt.Errorf("HTTP %d: unmarshal response: %w (body: %s)", resp.StatusCode, err, truncate(raw)))
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		field := env.Field
		if field == "" {
			field = "request"
		}
		return store.Invalid(entity, op, &models.ValidationError{Field: field, Message: env.Message})
	case resp.StatusCode >= 400 || !env.Success:
		return store.Wrap(failKind, entity, op, id, fmt.Errorf("HTTP %d: %s", resp.StatusCode, env.Message))
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return store.Wrap(failKind, entity, op, id, fmt.Errorf("unmarshal %s: %w", entity, err))
	}
	return nil
}

// get fetches one record, reporting found=false on 404
func (c *Client) get(ctx context.Context, entity, path, id string, out any) (bool, error) {
	if id == "" {
		return false, nil
	}
	err := c.call(ctx, entity, store.OpGet, id, http.MethodGet, path, nil, out)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func truncate(b []byte) string {
	const limit = 200
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
