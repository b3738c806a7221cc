// Package fetch downloads remote media for handlers that must upload it.
//
// Every download runs behind a rate limiter and a circuit breaker and is
// attempted a bounded number of times. Handlers call it once per media item
// and never retry themselves.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/keepmind9/anybot/internal/logger"
	"github.com/keepmind9/anybot/pkg/constants"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

var (
	// ErrCircuitOpen is returned while the breaker rejects downloads
	ErrCircuitOpen = errors.New("media fetch circuit open")
	// ErrTooLarge is returned for bodies over the configured size
	ErrTooLarge = errors.New("media body too large")
)

// StatusError is a non-2xx response
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

// Temporary reports whether retrying may succeed
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Config tunes the client. Zero fields take the package defaults.
type Config struct {
	Timeout         time.Duration
	MaxTries        int
	RetryDelay      time.Duration
	Proxy           string
	RateLimit       float64 // downloads per second
	Burst           int
	BreakerFailures uint32
	BreakerTimeout  time.Duration
	MaxBodySize     int64
}

func (c *Config) applyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = constants.DefaultFetchTimeout
	}
	if c.MaxTries <= 0 {
		c.MaxTries = constants.DefaultFetchMaxTries
	}
	if c.RateLimit <= 0 {
		c.RateLimit = constants.DefaultFetchRateLimit
	}
	if c.Burst <= 0 {
		c.Burst = constants.DefaultFetchBurst
	}
	if c.BreakerFailures == 0 {
		c.BreakerFailures = constants.DefaultBreakerFailures
	}
	if c.BreakerTimeout <= 0 {
		c.BreakerTimeout = constants.DefaultBreakerTimeout
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = constants.MaxFetchBodySize
	}
}

// Client downloads media over HTTP
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// New creates a Client
func New(cfg Config) (*Client, error) {
	cfg.applyDefaults()

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid fetch proxy %q: %w", cfg.Proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	maxFailures := cfg.BreakerFailures
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "media-fetch",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("fetch-breaker-state-changed")
		},
	})

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Transport: transport},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		breaker: breaker,
	}, nil
}

// Get downloads url, retrying transient failures
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxTries; attempt++ {
		if attempt > 1 && c.cfg.RetryDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.cfg.RetryDelay):
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := c.breaker.Execute(func() ([]byte, error) {
			return c.once(ctx, rawURL)
		})
		if err == nil {
			return body, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s", ErrCircuitOpen, rawURL)
		}

		lastErr = err
		logger.WithFields(logrus.Fields{
			"url":     rawURL,
			"attempt": attempt,
			"error":   err,
		}).Warn("media-fetch-attempt-failed")

		if !retryable(ctx, err) {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) once(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.cfg.MaxBodySize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, rawURL, c.cfg.MaxBodySize)
	}
	return body, nil
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, ErrTooLarge) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}

// State reports the breaker state for diagnostics
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}
