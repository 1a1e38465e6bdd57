// Package backend is the single HTTP+JSON transport to the realty REST
// contract. Every screen-level service talks to the backend through Client.
//
// The client sends the session token in the custom "token" header, never
// retries, and classifies failures into domain error codes:
//
//   - transport failure            → unavailable (or timeout when ctx expired)
//   - 4xx                          → bad_request/unauthorized/forbidden/not_found/conflict,
//     carrying the backend's message
//   - 5xx                          → unavailable
//   - 2xx with an undecodable body → malformed_response
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"realtyref/internal/platform/logger"
	dErrors "realtyref/pkg/domain-errors"
)

// TokenHeader is the custom header the backend reads the session token from.
const TokenHeader = "token"

const maxBodyBytes = 4 << 20

// Doer is the subset of *http.Client the backend client needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource supplies the current session token. An empty token means the
// request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// Client calls the REST backend.
type Client struct {
	baseURL *url.URL
	http    Doer
	tokens  TokenSource
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.http = d
		}
	}
}

// WithTimeout sets a timeout on the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http = &http.Client{Timeout: d}
	}
}

// WithTokenSource attaches the session whose token is sent on every request.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must be http or https", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    http.DefaultClient,
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetRaw performs a GET and returns the 2xx response body undecoded. List
// screens use it because collection responses come in several shapes.
func (c *Client) GetRaw(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// GetJSON performs a GET and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.decode(ctx, path, raw, out)
}

// PostJSON sends in as JSON and decodes the response into out (nil to ignore).
// An empty 2xx body leaves out untouched.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	raw, err := c.do(ctx, http.MethodPost, path, in)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return c.decode(ctx, path, raw, out)
}

// PutJSON sends a full replacement of the resource at path.
func (c *Client) PutJSON(ctx context.Context, path string, in, out any) error {
	raw, err := c.do(ctx, http.MethodPut, path, in)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return c.decode(ctx, path, raw, out)
}

// Delete removes the resource at path.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, in any) ([]byte, error) {
	start := time.Now()
	raw, err := c.roundTrip(ctx, method, path, in)
	c.observe(method, path, err, start)
	if err != nil {
		c.logger.WarnContext(ctx, "backend request failed",
			"method", method,
			"path", path,
			"code", dErrors.CodeOf(err),
			"error", err,
		)
	}
	return raw, err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, in any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode request body")
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set(TokenHeader, token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "backend did not respond in time")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "backend unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, raw)
	}
	return raw, nil
}

func (c *Client) resolve(path string) string {
	u := *c.baseURL
	rel, err := url.Parse(path)
	if err != nil {
		u.Path = c.baseURL.Path + "/" + strings.TrimLeft(path, "/")
		return u.String()
	}
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(rel.Path, "/")
	u.RawPath = c.baseURL.EscapedPath() + "/" + strings.TrimLeft(rel.EscapedPath(), "/")
	u.RawQuery = rel.RawQuery
	return u.String()
}

func (c *Client) decode(ctx context.Context, path string, raw []byte, out any) error {
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return dErrors.New(dErrors.CodeMalformedResponse, "empty response body")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.WarnContext(ctx, "undecodable backend response",
			"path", path,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeMalformedResponse, "unexpected response from server")
	}
	return nil
}

func (c *Client) observe(method, path string, err error, start time.Time) {
	if c.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(dErrors.CodeOf(err))
	}
	c.metrics.observe(method, endpointLabel(path), outcome, start)
}

// endpointLabel keeps metric cardinality bounded: only the first path
// segment (the resource prefix) is used.
func endpointLabel(path string) string {
	p := strings.Trim(path, "/")
	if i := strings.IndexAny(p, "/?"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "root"
	}
	return p
}
