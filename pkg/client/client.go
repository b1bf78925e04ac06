package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/quangtran/folio-api/internal/domain/portfolio"
)

// Client is the Go SDK for the folio API. It keeps the last fetched
// portfolio document in memory and patches it in place after each
// successful mutation, using only the element the server returned, so
// the local copy stays consistent with the store without refetching.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
	doc   *portfolio.Document
}

// Option configures a Client during construction in New.
type Option func(*Client) error

// WithHTTPTimeout sets the underlying http.Client timeout. Per-request
// context deadlines are still honored; this bounds the whole exchange.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithToken seeds the client with an existing access token, skipping Login.
func WithToken(token string) Option {
	return func(c *Client) error {
		c.token = token
		return nil
	}
}

// WithHTTPClient replaces the underlying http.Client. The bearer transport
// is installed on top of whatever transport the supplied client carries.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.http = hc
		return nil
	}
}

// New constructs a Client pointed at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL cannot be empty")
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.wrapTransportWithBearer()
	return c, nil
}

// wrapTransportWithBearer installs a transport that attaches the current
// access token to every outgoing request. The token is read at request
// time so a later Login is picked up without rebuilding the client.
func (c *Client) wrapTransportWithBearer() {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = &bearerTransport{base: base, source: c.currentToken}
}

type bearerTransport struct {
	base   http.RoundTripper
	source func() string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.source()
	if token == "" {
		return t.base.RoundTrip(req)
	}
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(cloned)
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// HasCredential reports whether the client holds an access token.
func (c *Client) HasCredential() bool {
	return c.currentToken() != ""
}

// Login authenticates against the server and stores the returned token for
// all subsequent requests.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return err
	}
	c.mu.Lock()
	c.token = out.Token
	c.mu.Unlock()
	return nil
}

// Refresh fetches the full portfolio document and replaces the cached copy.
func (c *Client) Refresh(ctx context.Context) error {
	var doc portfolio.Document
	if err := c.doJSON(ctx, http.MethodGet, "/api/portfolio", nil, &doc); err != nil {
		return err
	}
	c.mu.Lock()
	c.doc = &doc
	c.mu.Unlock()
	return nil
}

// Portfolio returns a deep copy of the cached document, or nil when the
// client has never fetched one. Mutating the returned value does not
// affect the cache.
func (c *Client) Portfolio() *portfolio.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.doc == nil {
		return nil
	}
	raw, err := json.Marshal(c.doc)
	if err != nil {
		return nil
	}
	var copied portfolio.Document
	if err := json.Unmarshal(raw, &copied); err != nil {
		return nil
	}
	return &copied
}

// requireCredential gates every mutation. The request is never sent
// without a token; the server would reject it anyway.
func (c *Client) requireCredential() error {
	if !c.HasCredential() {
		return ErrNoCredential
	}
	return nil
}

// doJSON issues a request with an optional JSON body and decodes a JSON
// response into out (which may be nil). Non-2xx responses come back as
// *APIError carrying whatever message the server exposed.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, data []byte) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := http.StatusText(status)
	if err := json.Unmarshal(data, &payload); err == nil {
		switch {
		case payload.Message != "":
			msg = payload.Message
		case payload.Error != "":
			msg = payload.Error
		}
	}
	return &APIError{Status: status, Message: msg}
}
