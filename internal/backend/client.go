// Package backend is the HTTP client for the interview-list backend: the
// auth provider (sign up, sign in, sign out, auth-state listeners) and the
// document store addressed by slash separated paths.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/blockedby/interview-list/internal/logger"
	"github.com/blockedby/interview-list/internal/models"
)

// SessionStore persists the credential between runs.
type SessionStore interface {
	Load() (*models.Credential, error)
	Save(cred *models.Credential) error
	Clear() error
}

// Client talks to the backend over HTTP.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions SessionStore
	log      *logger.Logger

	mu        sync.RWMutex
	cred      *models.Credential
	listeners map[int]func(*models.AuthUser)
	nextID    int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithSessionStore persists credentials across runs.
func WithSessionStore(s SessionStore) Option {
	return func(c *Client) { c.sessions = s }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		http:      &http.Client{},
		log:       logger.Get(),
		listeners: make(map[int]func(*models.AuthUser)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends a JSON request and decodes a JSON response into out (when non-nil).
// Non-2xx responses become *Error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &Error{Status: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if len(data) > 0 {
			_ = json.Unmarshal(data, apiErr)
		}
		if apiErr.ErrCode == "" {
			apiErr.ErrCode = codeForStatus(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cred == nil {
		return ""
	}
	return c.cred.Token
}
