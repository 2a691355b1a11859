package githubql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const defaultEndpoint = "https://api.github.com/graphql"

// ErrRetryExhausted is returned when a query keeps failing with
// transient faults and the attempt ceiling is reached.
var ErrRetryExhausted = errors.New("githubql: max retries exceeded")

// QueryError is one entry of the GraphQL "errors" list.
type QueryError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (e QueryError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	return e.Message
}

// Response carries the raw data payload plus any application-level
// errors GitHub attached to it. Application errors are not retried;
// the caller decides whether the payload is still usable.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors []QueryError    `json:"errors"`
}

// Client executes GraphQL queries against the GitHub v4 API with rate
// limiting and bounded retry. It is stateless between calls and safe
// for sequential reuse across a whole mining run.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	token       string
	rateLimiter *rate.Limiter
	maxAttempts int
	backoff     func(attempt int) time.Duration
	logger      *logrus.Logger
}

// Option adjusts client construction.
type Option func(*Client)

// WithEndpoint points the client at an alternate GraphQL endpoint.
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// WithBackoff replaces the wait schedule. Tests inject a zero backoff
// so retries run without real delay.
func WithBackoff(f func(attempt int) time.Duration) Option {
	return func(c *Client) { c.backoff = f }
}

// WithMaxAttempts overrides the retry ceiling.
func WithMaxAttempts(n int) Option {
	return func(c *Client) { c.maxAttempts = n }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger attaches a logger for retry diagnostics.
func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a GraphQL client with rate limiting.
func NewClient(token string, rateLimit int, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		endpoint:    defaultEndpoint,
		token:       token,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), 1),
		maxAttempts: 5,
		backoff:     exponentialBackoff,
		logger:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// exponentialBackoff waits 2^attempt seconds after a failed attempt.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// Execute runs one GraphQL query. Connection errors and the transient
// HTTP statuses (502, 503, 504, 403) are retried with backoff up to
// the attempt ceiling; everything else fails immediately.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (*Response, error) {
	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		resp, retryable, err := c.post(ctx, body)
		if err == nil {
			return resp, nil
		}
		if !retryable {
			return nil, err
		}

		lastErr = err
		c.logger.WithError(err).WithField("attempt", attempt+1).Warn("Transient GraphQL failure, backing off")

		if attempt < c.maxAttempts-1 {
			if err := sleepCtx(ctx, c.backoff(attempt)); err != nil {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrRetryExhausted, c.maxAttempts, lastErr)
}

// post issues a single HTTP request. The second return value reports
// whether a failure is transient and worth retrying.
func (c *Client) post(ctx context.Context, body []byte) (*Response, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Connection-level faults are always worth retrying.
		return nil, true, fmt.Errorf("graphql request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var out Response
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, false, fmt.Errorf("decode graphql response: %w", err)
		}
		return &out, false, nil
	case transientStatus(resp.StatusCode):
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("graphql api status %d", resp.StatusCode)
	default:
		io.Copy(io.Discard, resp.Body)
		return nil, false, fmt.Errorf("graphql api status %d", resp.StatusCode)
	}
}

// transientStatus reports whether an HTTP status indicates a fault
// that typically clears on its own. 403 is included because GitHub
// signals secondary rate limits with it.
func transientStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusForbidden:
		return true
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
