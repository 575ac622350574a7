// ABOUTME: HTTP client for the hostdesk backend API
// ABOUTME: Sends JSON requests with default headers and request/response hooks

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds a single round trip when no other timeout is configured
const DefaultTimeout = 30 * time.Second

// RequestHook inspects or mutates an outgoing request. Returning an error aborts the call.
type RequestHook func(req *http.Request) error

// ResponseHook observes a response before its body is consumed
type ResponseHook func(resp *http.Response)

// Client is the single configured HTTP client used for every backend call
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    http.Header
	onRequest  []RequestHook
	onResponse []ResponseHook
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the overall per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithHeader adds a default header sent with every request
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// WithRequestHook registers a hook run before each request is sent
func WithRequestHook(h RequestHook) Option {
	return func(c *Client) {
		c.onRequest = append(c.onRequest, h)
	}
}

// WithResponseHook registers a hook run after each response is received
func WithResponseHook(h ResponseHook) Option {
	return func(c *Client) {
		c.onResponse = append(c.onResponse, h)
	}
}

// WithDialContext routes connections through the given dial function
func WithDialContext(dial func(ctx context.Context, network, address string) (net.Conn, error)) Option {
	return func(c *Client) {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = nil
		transport.DialContext = dial
		c.httpClient.Transport = transport
	}
}

// WithLogger logs every request and response at debug level
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.onRequest = append(c.onRequest, func(req *http.Request) error {
			logger.Debug("Request started",
				"request_id", req.Header.Get("X-Request-ID"),
				"method", req.Method,
				"path", req.URL.Path,
			)
			return nil
		})
		c.onResponse = append(c.onResponse, func(resp *http.Response) {
			logger.Debug("Request completed",
				"request_id", resp.Request.Header.Get("X-Request-ID"),
				"method", resp.Request.Method,
				"path", resp.Request.URL.Path,
				"status", resp.StatusCode,
			)
		})
	}
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		headers: http.Header{},
	}
	c.headers.Set("Accept", "application/json")
	c.headers.Set("User-Agent", "hostdesk")

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends body as JSON to path and decodes a 2xx response into out when out is non-nil.
// The returned status is zero when no response was received.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	resp, err := c.send(ctx, method, c.baseURL+path, reader, body != nil)
	if err != nil {
		return 0, c.handleRequestError(ctx, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, c.handleErrorResponse(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, &TransportError{
			Op:  method + " " + path,
			URL: c.baseURL,
			Err: fmt.Errorf("invalid response from backend: %w", err),
		}
	}

	return resp.StatusCode, nil
}

// Download streams the body of an absolute URL into w, for pre-signed file links.
// It goes through the same transport, headers and hooks as Do but sends no body.
func (c *Client) Download(ctx context.Context, url string, w io.Writer) (int64, error) {
	resp, err := c.send(ctx, http.MethodGet, url, nil, false)
	if err != nil {
		return 0, c.handleRequestError(ctx, http.MethodGet, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, c.handleErrorResponse(resp)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &TransportError{Op: "GET " + url, URL: c.baseURL, Err: fmt.Errorf("download interrupted: %w", err)}
	}
	return n, nil
}

// send builds the request, applies default headers and hooks, and runs it.
// Failures before the request is sent come back as *hookError.
func (c *Client) send(ctx context.Context, method, url string, body io.Reader, isJSON bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &hookError{fmt.Errorf("failed to create request: %w", err)}
	}
	for key, values := range c.headers {
		req.Header[key] = append([]string(nil), values...)
	}
	if isJSON {
		req.Header.Set("Content-Type", "application/json")
	} else if method == http.MethodGet {
		req.Header.Set("Accept", "*/*")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	for _, hook := range c.onRequest {
		if err := hook(req); err != nil {
			return nil, &hookError{fmt.Errorf("request hook: %w", err)}
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	for _, hook := range c.onResponse {
		hook(resp)
	}
	return resp, nil
}

// hookError marks failures that happened before the request left the client
type hookError struct{ err error }

func (e *hookError) Error() string { return e.err.Error() }
func (e *hookError) Unwrap() error { return e.err }

// handleRequestError converts transport failures to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, method, path string, err error) error {
	var he *hookError
	if errors.As(err, &he) {
		return he.err
	}
	op := method + " " + path
	if ctx.Err() == context.Canceled {
		return &TransportError{Op: op, URL: c.baseURL, Err: fmt.Errorf("request canceled: %w", context.Canceled)}
	}
	if ctx.Err() == context.DeadlineExceeded {
		return &TransportError{Op: op, URL: c.baseURL, Err: fmt.Errorf("request timed out: %w", context.DeadlineExceeded)}
	}
	return &TransportError{Op: op, URL: c.baseURL, Err: fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)}
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return &ServerError{Status: resp.StatusCode}
	}
	return &ServerError{Status: resp.StatusCode, Message: errResp.Error, Details: errResp.Details}
}
