// Package tmdb implements the outbound request layer for the TMDB v3 API:
// building requests, choosing the authentication method per endpoint, and
// decoding responses into the endpoint's declared shape.
package tmdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

const defaultLanguage = "en-US"

// Doer dispatches one endpoint call and decodes the response into out,
// which must be a pointer to the endpoint's response struct.
type Doer interface {
	Do(ctx context.Context, ep Endpoint, out any) error
}

// Keys holds the static API credentials. AccessToken is optional; when
// present the client prefers bearer authentication.
type Keys struct {
	APIKey      string
	AccessToken string
}

// RequestRecorder receives one observation per dispatched request.
type RequestRecorder interface {
	RecordRequest(path string, status int, duration time.Duration)
}

// Client is the production Doer backed by net/http.
type Client struct {
	baseURL  string
	keys     Keys
	language string
	httpc    *http.Client
	logger   *slog.Logger
	recorder RequestRecorder
}

var _ Doer = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the API root, mainly for tests.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// WithLanguage sets the default `language` query parameter. Endpoints that
// set their own language win.
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = lang }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithLogger sets the structured logger for per-request log lines.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithRecorder sets the metrics recorder for dispatched requests.
func WithRecorder(r RequestRecorder) Option {
	return func(c *Client) { c.recorder = r }
}

// NewClient creates a Client with the given credentials.
func NewClient(keys Keys, opts ...Option) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		keys:     keys,
		language: defaultLanguage,
		httpc:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) defaultAuth() AuthMethod {
	if c.keys.AccessToken != "" {
		return AuthBearer
	}
	return AuthAPIKey
}

// Do builds the request for ep, dispatches it and decodes the response body
// into out. Transport failures surface as *NetworkError, response shape
// mismatches as *DecodingError.
func (c *Client) Do(ctx context.Context, ep Endpoint, out any) error {
	method := ep.Auth
	if method == AuthDefault {
		method = c.defaultAuth()
	}

	u, err := url.Parse(c.baseURL + ep.Path)
	if err != nil {
		return fmt.Errorf("%w: %s%s", ErrMalformedURL, c.baseURL, ep.Path)
	}

	q := u.Query()
	for k, v := range ep.Query {
		q.Set(k, v)
	}
	if q.Get("language") == "" {
		q.Set("language", c.language)
	}
	// The api key travels in the query string; the bearer token must only
	// ever appear in the Authorization header.
	if method == AuthAPIKey {
		q.Set("api_key", c.keys.APIKey)
	}
	u.RawQuery = q.Encode()

	var body io.Reader
	if ep.Body != nil {
		data, err := json.Marshal(ep.Body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, ep.method(), u.String(), body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	for k, v := range ep.Header {
		req.Header.Set(k, v)
	}
	if method == AuthBearer {
		req.Header.Set("Authorization", "Bearer "+c.keys.AccessToken)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.observe(ep.Path, 0, time.Since(start), requestID)
		return &NetworkError{Path: ep.Path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(ep.Path, resp.StatusCode, time.Since(start), requestID)
		return &NetworkError{Path: ep.Path, Err: err}
	}
	c.observe(ep.Path, resp.StatusCode, time.Since(start), requestID)

	if err := json.Unmarshal(data, out); err != nil {
		return &DecodingError{Shape: fmt.Sprintf("%T", out), Err: err}
	}
	return nil
}

func (c *Client) observe(path string, status int, d time.Duration, requestID string) {
	if c.recorder != nil {
		c.recorder.RecordRequest(path, status, d)
	}
	if c.logger != nil {
		c.logger.Info("api request",
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("duration", d),
			slog.String("request_id", requestID),
		)
	}
}
