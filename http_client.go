package ipmeta

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Per-call budgets are deliberately much shorter than the hedging
// deadline: two waves of providers share that deadline.
const (
	DefaultRequestTimeout = 1200 * time.Millisecond
	DefaultConnectTimeout = 400 * time.Millisecond

	defaultMaxConnections     = 20
	defaultMaxIdleConnections = 10
	defaultIdleConnTimeout    = 90 * time.Second
)

// NewPooledClient builds the connection-pooled http.Client every
// provider adapter shares within a lookup: bounded concurrent
// connections, keep-alive, short connect and overall timeouts.
func NewPooledClient() *http.Client {
	dialer := &net.Dialer{
		Timeout: DefaultConnectTimeout,
	}

	return &http.Client{
		Timeout: DefaultRequestTimeout,
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			MaxConnsPerHost:     defaultMaxConnections,
			MaxIdleConns:        defaultMaxConnections,
			MaxIdleConnsPerHost: defaultMaxIdleConnections,
			IdleConnTimeout:     defaultIdleConnTimeout,
		},
	}
}

type httpClient struct {
	userAgent      string
	client         *http.Client
	rateLimiter    *rate.Limiter
	circuitBreaker *circuitBreaker
}

func (h httpClient) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	req.Header.Set("User-Agent", h.userAgent)

	return h.circuitBreaker.Do(func() (*http.Response, error) {
		if err := h.rateLimiter.Wait(ctx); err != nil {
			return nil, ErrCircuitBreakerIgnore
		}

		resp, err := h.client.Do(req)
		if err != nil {
			if resp != nil {
				drainResponse(resp)
			}

			return nil, err
		}

		if resp.StatusCode >= http.StatusBadRequest {
			drainResponse(resp)

			return nil, fmt.Errorf("netloc has responded with %s", resp.Status)
		}

		return resp, nil
	})
}

func drainResponse(resp *http.Response) {
	io.Copy(io.Discard, resp.Body) // nolint: errcheck
	resp.Body.Close()
}

// NewHTTPClient wraps a shared pooled http.Client for one provider:
// sets a user agent, throttles requests with a token bucket and guards
// the upstream with a circuit breaker.
//
// rateLimiterInterval and rateLimitBurst are token bucket parameters,
// see https://pkg.go.dev/golang.org/x/time/rate.
//
// openThreshold is a number of consecutive failures after which the
// breaker opens. halfOpenTimeout is how long it stays open before a
// single probe request is allowed through. resetFailuresTimeout is how
// often the failure counter is reset while the breaker is closed.
func NewHTTPClient(client *http.Client,
	userAgent string,
	rateLimiterInterval time.Duration,
	rateLimitBurst int,
	openThreshold uint32,
	halfOpenTimeout, resetFailuresTimeout time.Duration) HTTPClient {
	return httpClient{
		userAgent:   userAgent,
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Every(rateLimiterInterval), rateLimitBurst),
		circuitBreaker: newCircuitBreaker(openThreshold,
			halfOpenTimeout,
			resetFailuresTimeout),
	}
}
