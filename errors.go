package ipmeta

import "errors"

var (
	// ErrInvalidIP is returned for input that does not parse as an
	// IPv4 or IPv6 address. This is the only error Lookup surfaces to
	// a caller besides shutdown.
	ErrInvalidIP = errors.New("not a valid IP address")

	// ErrLookuperShutdown is returned by Lookup after Shutdown.
	ErrLookuperShutdown = errors.New("lookuper instance was shutdown")

	// ErrCircuitBreakerOpened means a provider has failed enough times
	// in a row that its requests are blocked for a while.
	ErrCircuitBreakerOpened = errors.New("circuit breaker is opened")

	// ErrCircuitBreakerIgnore tells the circuit breaker that a failure
	// should not be counted against the provider.
	ErrCircuitBreakerIgnore = errors.New("circuit breaker ignores this error")
)
