package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ErrTooLarge indicates a remote trade log exceeded the configured size cap
var ErrTooLarge = errors.New("trade log too large")

// HTTPClientConfig holds configuration for fetching remote trade logs
type HTTPClientConfig struct {
	Timeout           time.Duration
	MaxRetries        int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
	RateLimit         float64 // requests per second
	CircuitBreakerMax int     // consecutive failures before the circuit opens

	// CircuitResetTimeout is how long an open circuit waits before a trial request
	CircuitResetTimeout time.Duration
	MaxBytes            int64
}

// DefaultHTTPClientConfig returns recommended defaults
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:             30 * time.Second,
		MaxRetries:          3,
		RetryWaitMin:        100 * time.Millisecond,
		RetryWaitMax:        5 * time.Second,
		RateLimit:           2.0,
		CircuitBreakerMax:   5,
		CircuitResetTimeout: 30 * time.Second,
		MaxBytes:            32 << 20,
	}
}

// RateLimitedHTTPClient wraps retryablehttp.Client with rate limiting and a circuit breaker
type RateLimitedHTTPClient struct {
	client            *retryablehttp.Client
	limiter           *rate.Limiter
	circuitBreakerMax int
	resetTimeout      time.Duration
	maxBytes          int64

	mu                sync.Mutex
	consecutiveErrors int
	isOpen            bool
	openedAt          time.Time
	lastError         error
	logger            *logrus.Entry
}

// NewRateLimitedHTTPClient creates a new rate-limited HTTP client
func NewRateLimitedHTTPClient(cfg HTTPClientConfig, logger *logrus.Logger) *RateLimitedHTTPClient {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	entry := logger.WithField("component", "ledger_http")

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = customRetryPolicy()
	retryClient.Logger = nil

	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}

	return &RateLimitedHTTPClient{
		client:            retryClient,
		limiter:           rate.NewLimiter(limit, 1),
		circuitBreakerMax: cfg.CircuitBreakerMax,
		resetTimeout:      cfg.CircuitResetTimeout,
		maxBytes:          cfg.MaxBytes,
		logger:            entry,
	}
}

// Get executes a GET request with rate limiting and circuit breaking.
// Once the reset timeout has passed an open circuit lets one trial request
// through; success closes it, failure keeps it open for another timeout.
func (c *RateLimitedHTTPClient) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	c.mu.Lock()
	if c.isOpen {
		if c.resetTimeout <= 0 || time.Since(c.openedAt) < c.resetTimeout {
			err := c.lastError
			c.mu.Unlock()
			return nil, fmt.Errorf("circuit breaker open: %v", err)
		}
		// claim the trial; concurrent callers keep failing fast
		c.openedAt = time.Now()
		c.logger.Info("Circuit breaker half-open, sending trial request")
	}
	c.mu.Unlock()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.consecutiveErrors++
		c.lastError = err
		if c.circuitBreakerMax > 0 && c.consecutiveErrors >= c.circuitBreakerMax {
			if !c.isOpen {
				c.logger.WithError(err).Warnf("Circuit breaker opened after %d consecutive errors", c.consecutiveErrors)
			}
			c.isOpen = true
			c.openedAt = time.Now()
		}
		return nil, err
	}
	if resp.StatusCode < 500 {
		if c.isOpen {
			c.logger.Info("Circuit breaker closed")
		}
		c.consecutiveErrors = 0
		c.isOpen = false
	}
	return resp, nil
}

// Close releases idle connections
func (c *RateLimitedHTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

// customRetryPolicy retries network errors, 429 and 5xx gateway responses
func customRetryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, err
		}
		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true, nil
		}
		return false, nil
	}
}

// HTTPSource fetches a trade log export over HTTP(S)
type HTTPSource struct {
	URL    string
	client *RateLimitedHTTPClient
}

// NewHTTPSource creates a remote source using client
func NewHTTPSource(rawURL string, client *RateLimitedHTTPClient) (*HTTPSource, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ledger url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid ledger url: unsupported scheme %q", u.Scheme)
	}
	if client == nil {
		client = NewRateLimitedHTTPClient(DefaultHTTPClientConfig(), nil)
	}
	return &HTTPSource{URL: rawURL, client: client}, nil
}

// Open downloads the export; non-2xx responses fail
func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.Get(ctx, s.URL)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, s.URL)
	}
	limit := s.client.maxBytes
	if limit <= 0 {
		return resp.Body, nil
	}
	if resp.ContentLength > limit {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s sent %d bytes, limit is %d", ErrTooLarge, s.URL, resp.ContentLength, limit)
	}
	return &cappedBody{r: io.LimitReader(resp.Body, limit+1), closer: resp.Body, limit: limit}, nil
}

// Name returns the URL host
func (s *HTTPSource) Name() string {
	if u, err := url.Parse(s.URL); err == nil {
		return "http:" + u.Host
	}
	return "http"
}

// cappedBody fails the read that crosses limit instead of truncating the log
type cappedBody struct {
	r      io.Reader
	closer io.Closer
	limit  int64
	n      int64
}

func (b *cappedBody) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	b.n += int64(n)
	if b.n > b.limit {
		return n - int(b.n-b.limit), fmt.Errorf("%w: more than %d bytes", ErrTooLarge, b.limit)
	}
	return n, err
}

func (b *cappedBody) Close() error {
	return b.closer.Close()
}
