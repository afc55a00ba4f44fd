// Package apiclient talks to the HackPSU REST API on behalf of a staff member.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/hackpsu/admin-console/internal/config"
	"github.com/hackpsu/admin-console/internal/metrics"
	"github.com/rs/zerolog"
)

const (
	defaultRetryInterval = 200 * time.Millisecond
	maxErrorBody         = 4 << 10
)

// Client issues requests to the HackPSU API. It is safe for concurrent use.
type Client struct {
	baseURL       string
	http          *http.Client
	maxRetries    int
	retryInterval time.Duration
	log           zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetryInterval sets the first backoff interval for GET retries.
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) { c.retryInterval = d }
}

// New creates a client for cfg.APIBaseURL.
func New(cfg *config.Config, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(cfg.APIBaseURL, "/"),
		http:          &http.Client{Timeout: cfg.APITimeout},
		maxRetries:    cfg.APIMaxRetries,
		retryInterval: defaultRetryInterval,
		log:           log.With().Str("component", "apiclient").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Download is a streamed response body such as a resume PDF. Callers must
// close Body.
type Download struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
	Filename      string
}

// ────────────────────────────────────────────────────────────────────────────
// Typed helpers
// ────────────────────────────────────────────────────────────────────────────

func getJSON[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var out T
	err := c.do(ctx, http.MethodGet, path, query, nil, &out)
	return out, err
}

func sendJSON[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var out T
	err := c.do(ctx, method, path, nil, body, &out)
	return out, err
}

func (c *Client) send(ctx context.Context, method, path string, body any) error {
	return c.do(ctx, method, path, nil, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
	}

	resp, err := c.roundTrip(ctx, method, path, query, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %w", ErrUnavailable, method, path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) download(ctx context.Context, path string) (*Download, error) {
	resp, err := c.roundTrip(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	d := &Download{
		Body:          resp.Body,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			d.Filename = params["filename"]
		}
	}
	return d, nil
}

// ────────────────────────────────────────────────────────────────────────────
// Transport
// ────────────────────────────────────────────────────────────────────────────

// roundTrip returns a 2xx response or an error. GET requests are retried with
// exponential backoff on transport errors, 5xx and 429; mutations run once.
func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, payload []byte) (*http.Response, error) {
	resource := resourceOf(path)
	start := time.Now()
	defer func() {
		metrics.UpstreamDuration.WithLabelValues(method, resource).Observe(time.Since(start).Seconds())
	}()

	if method != http.MethodGet || c.maxRetries <= 0 {
		return c.attempt(ctx, method, path, query, payload)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval

	op := func() (*http.Response, error) {
		resp, err := c.attempt(ctx, method, path, query, payload)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil || !retryable(err) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(c.maxRetries)+1),
		backoff.WithNotify(func(err error, wait time.Duration) {
			c.log.Warn().Err(err).
				Str("method", method).
				Str("path", path).
				Dur("retry_in", wait).
				Msg("Upstream request failed, retrying")
		}),
	)
}

func (c *Client) attempt(ctx context.Context, method, path string, query url.Values, payload []byte) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := RequestIDFrom(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resource := resourceOf(path)
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(method, resource, "error").Inc()
		return nil, fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	metrics.UpstreamRequests.WithLabelValues(method, resource, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("Upstream returned error status")
		return nil, &APIError{
			Status: resp.StatusCode,
			Method: method,
			Path:   path,
			Body:   strings.TrimSpace(string(raw)),
		}
	}
	return resp, nil
}

func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return errors.Is(err, ErrUnavailable)
}

// resourceOf returns the first path segment, used as a low-cardinality metric label.
func resourceOf(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "root"
	}
	return p
}

func escape(id string) string {
	return url.PathEscape(id)
}
