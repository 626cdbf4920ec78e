package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/streamstack/pkg/errors"
	"github.com/matzehuels/streamstack/pkg/observability"
)

const (
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second

	// DefaultAttempts is how often a transient failure is tried.
	DefaultAttempts = 3

	// maxBody caps the size of a fetched document.
	maxBody = 64 << 20
)

// Client fetches documents over HTTP.
type Client struct {
	http     *http.Client
	headers  map[string]string
	attempts int
	delay    time.Duration
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithRetry sets the number of attempts and the first backoff delay.
func WithRetry(attempts int, delay time.Duration) ClientOption {
	return func(c *Client) { c.attempts, c.delay = attempts, delay }
}

// NewClient returns a Client that sends headers with every request.
// headers may be nil.
func NewClient(headers map[string]string, opts ...ClientOption) *Client {
	c := &Client{
		http:     &http.Client{Timeout: DefaultTimeout},
		headers:  headers,
		attempts: DefaultAttempts,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the body of a GET request to rawURL.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if !IsURL(rawURL) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "not an http(s) URL: %q", rawURL)
	}
	var data []byte
	err := Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		data, err = c.get(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.URL.Host, req.URL.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: fmt.Errorf("get %s: %w", rawURL, err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(rawURL, resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("read %s: %w", rawURL, err)}
	}
	return data, nil
}

func checkStatus(rawURL string, code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeFileNotFound, "%s: status %d", rawURL, code)
	case code == http.StatusTooManyRequests || code >= 500:
		return &RetryableError{Err: fmt.Errorf("%s: status %d", rawURL, code)}
	default:
		return fmt.Errorf("%s: status %d", rawURL, code)
	}
}

// IsURL reports whether s is an absolute http or https URL.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
