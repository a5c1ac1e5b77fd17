// Package rest talks to the gateway over HTTPS using its auth, rest and
// storage endpoints.
package rest

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
	"time"

	"equiprent/internal/domain"
	"equiprent/internal/gateway"
	"equiprent/internal/logger"
)

type credential int

const (
	credAPIKey credential = iota
	credSession
	credService
)

type Client struct {
	baseURL    string
	apiKey     string
	serviceKey string
	http       *http.Client
	now        func() time.Time

	events *gateway.AuthEvents

	mu      sync.RWMutex
	session *domain.Session
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithServiceKey enables admin calls such as deleting an identity on behalf of
// someone else. Clients normally only delete their own identity.
func WithServiceKey(key string) Option {
	return func(c *Client) { c.serviceKey = key }
}

func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		now:     time.Now,
		events:  gateway.NewAuthEvents(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Gateway exposes the client through the collaborator interfaces.
func (c *Client) Gateway() *gateway.Gateway {
	return &gateway.Gateway{
		Auth:      &authClient{c: c},
		Equipment: &equipmentTable{c: c},
		Bookings:  &bookingTable{c: c},
		Roles:     &roleTable{c: c},
		Profiles:  &profileTable{c: c},
		Storage:   &storageClient{c: c},
	}
}

func (c *Client) currentSession() *domain.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) setSession(s *domain.Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// httpError is a non-2xx response.
type httpError struct {
	Status  int
	Code    string
	Message string
}

func (e *httpError) Error() string {
	if e.Message == "" {
		return http.StatusText(e.Status)
	}
	return e.Message
}

// Unwrap lets callers match the gateway sentinels with errors.Is.
func (e *httpError) Unwrap() error { return gateway.StatusError(e.Status) }

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	raw    io.Reader
	header http.Header
	cred   credential
}

// do performs one round-trip. A non-nil out receives the decoded JSON body.
func (c *Client) do(ctx context.Context, r request, out any) (int, error) {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader = r.raw
	if r.body != nil {
		buf, err := json.Marshal(r.body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(gateway.HeaderAPIKey, c.apiKey)

	switch r.cred {
	case credSession:
		s := c.currentSession()
		if s == nil {
			return 0, gateway.ErrNoSession
		}
		req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	case credService:
		req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	default:
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	logger.GatewayCall(r.method, r.path)
	resp, err := c.http.Do(req)
	if err != nil {
		logger.GatewayResult(r.method, r.path, 0, err)
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		herr := &httpError{Status: resp.StatusCode}
		var eb gateway.ErrorBody
		if derr := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&eb); derr == nil {
			herr.Code = eb.Code
			herr.Message = eb.Message
		}
		logger.GatewayResult(r.method, r.path, resp.StatusCode, herr)
		return resp.StatusCode, herr
	}

	logger.GatewayResult(r.method, r.path, resp.StatusCode, nil)
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

func queryErr(op, table string, status int, err error) error {
	return &gateway.QueryError{Op: op, Table: table, Status: status, Err: err}
}

func authErr(op string, status int, err error) error {
	return &gateway.AuthError{Op: op, Status: status, Err: err}
}
