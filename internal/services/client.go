package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/desertthunder/melodex/internal/shared"
)

// ClientOpts configures a provider [Client].
type ClientOpts struct {
	BaseURL        string
	DefaultParams  map[string]string // merged under per-call params
	Headers        map[string]string // static headers (auth, accept)
	RetryMax       int               // transport retries, default 3
	RequestsPerSec float64           // 0 disables rate limiting
	Timeout        time.Duration     // per-attempt timeout, default 15s
	Logger         *log.Logger
}

// Client implements [Fetcher] over HTTP with retries and a circuit breaker.
//
// Retries handle transient transport failures; the breaker stops hammering a
// provider that keeps failing, surfacing [shared.ErrProviderUnavailable]
// immediately while open. 4xx statuses are responses, not faults, and never
// trip the breaker.
type Client struct {
	baseURL string
	params  map[string]string
	headers map[string]string
	retry   *retryablehttp.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	logger  *log.Logger
}

type fetchResult struct {
	status int
	body   []byte
}

// NewClient creates a provider transport client.
func NewClient(opts ClientOpts) *Client {
	retry := retryablehttp.NewClient()
	retry.RetryMax = 3
	if opts.RetryMax > 0 {
		retry.RetryMax = opts.RetryMax
	}
	retry.RetryWaitMin = 200 * time.Millisecond
	retry.RetryWaitMax = 2 * time.Second
	retry.Logger = nil

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	retry.HTTPClient.Timeout = timeout

	settings := gobreaker.Settings{
		Name:        opts.BaseURL,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSec), 1)
	}

	return &Client{
		baseURL: opts.BaseURL,
		params:  opts.DefaultParams,
		headers: opts.Headers,
		retry:   retry,
		breaker: gobreaker.NewCircuitBreaker(settings),
		limiter: limiter,
		logger:  opts.Logger,
	}
}

// SetHeader replaces a static header on subsequent requests.
func (c *Client) SetHeader(key, value string) {
	if c.headers == nil {
		c.headers = map[string]string{}
	}
	c.headers[key] = value
}

// Get performs a GET request to path with params merged over the defaults.
func (c *Client) Get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	endpoint := c.buildURL(path, params)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, path)
}

// Post sends body as JSON to path.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, path)
}

func (c *Client) do(req *retryablehttp.Request, path string) ([]byte, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrProviderUnavailable, err)
		}
	}

	out, err := c.breaker.Execute(func() (any, error) {
		resp, err := c.retry.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		// 5xx counts against the breaker; 4xx is a well-formed answer.
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}

		return fetchResult{status: resp.StatusCode, body: body}, nil
	})
	if err != nil {
		if c.logger != nil {
			level := c.logger.Warn
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				level = c.logger.Debug
			}
			level("provider request failed", "path", path, "error", err)
		}
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrProviderUnavailable, path, err)
	}

	result := out.(fetchResult)
	switch {
	case result.status == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", shared.ErrNotFound, path)
	case result.status < 200 || result.status >= 300:
		return nil, fmt.Errorf("%w: %s returned status %d", shared.ErrProviderUnavailable, path, result.status)
	}

	return result.body, nil
}

func (c *Client) buildURL(path string, params map[string]string) string {
	values := url.Values{}
	for key, value := range c.params {
		values.Set(key, value)
	}
	for key, value := range params {
		values.Set(key, value)
	}

	endpoint := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	return endpoint
}
