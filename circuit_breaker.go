package ipmeta

import (
	"errors"
	"net/http"
	"sync"
	"time"
)

type circuitBreakerState int

const (
	circuitBreakerStateClosed circuitBreakerState = iota
	circuitBreakerStateHalfOpened
	circuitBreakerStateOpened
)

type circuitBreakerCallback func() (*http.Response, error)

// circuitBreaker guards a single upstream. While closed it counts
// consecutive failures; past openThreshold it opens and blocks requests
// for halfOpenTimeout, then lets exactly one probe through. The probe
// either closes it again or re-opens it.
type circuitBreaker struct {
	mutex sync.Mutex

	state                circuitBreakerState
	failuresCount        uint32
	halfOpenProbing      bool
	halfOpenTimer        *time.Timer
	failuresCleanupTimer *time.Timer

	openThreshold        uint32
	halfOpenTimeout      time.Duration
	resetFailuresTimeout time.Duration
}

func (c *circuitBreaker) Do(callback circuitBreakerCallback) (*http.Response, error) {
	c.mutex.Lock()

	switch c.state {
	case circuitBreakerStateOpened:
		c.mutex.Unlock()

		return nil, ErrCircuitBreakerOpened
	case circuitBreakerStateHalfOpened:
		if c.halfOpenProbing {
			c.mutex.Unlock()

			return nil, ErrCircuitBreakerOpened
		}

		c.halfOpenProbing = true
	}

	c.mutex.Unlock()

	resp, err := callback()

	c.mutex.Lock()
	defer c.mutex.Unlock()

	switch {
	case errors.Is(err, ErrCircuitBreakerIgnore):
		// an ignored failure must not consume the half-open probe
		c.halfOpenProbing = false
	case err == nil:
		c.switchState(circuitBreakerStateClosed)
	case c.state == circuitBreakerStateHalfOpened:
		c.switchState(circuitBreakerStateOpened)
	default:
		c.failuresCount++

		if c.state == circuitBreakerStateClosed && c.failuresCount > c.openThreshold {
			c.switchState(circuitBreakerStateOpened)
		}
	}

	return resp, err
}

// switchState assumes the mutex is held.
func (c *circuitBreaker) switchState(state circuitBreakerState) {
	switch state {
	case circuitBreakerStateClosed:
		c.stopTimer(&c.halfOpenTimer)
		c.ensureTimer(&c.failuresCleanupTimer, c.resetFailuresTimeout, c.resetFailures)
	case circuitBreakerStateHalfOpened:
		c.stopTimer(&c.halfOpenTimer)
		c.stopTimer(&c.failuresCleanupTimer)
	case circuitBreakerStateOpened:
		c.stopTimer(&c.failuresCleanupTimer)
		c.ensureTimer(&c.halfOpenTimer, c.halfOpenTimeout, c.tryHalfOpen)
	}

	c.failuresCount = 0
	c.halfOpenProbing = false
	c.state = state
}

func (c *circuitBreaker) resetFailures() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.stopTimer(&c.failuresCleanupTimer)

	if c.state == circuitBreakerStateClosed {
		c.switchState(circuitBreakerStateClosed)
	}
}

func (c *circuitBreaker) tryHalfOpen() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.state == circuitBreakerStateOpened {
		c.switchState(circuitBreakerStateHalfOpened)
	}
}

func (c *circuitBreaker) stopTimer(timerRef **time.Timer) {
	if *timerRef == nil {
		return
	}

	(*timerRef).Stop()

	*timerRef = nil
}

func (c *circuitBreaker) ensureTimer(timerRef **time.Timer, timeout time.Duration, callback func()) {
	if *timerRef == nil {
		*timerRef = time.AfterFunc(timeout, callback)
	}
}

func newCircuitBreaker(openThreshold uint32,
	halfOpenTimeout, resetFailuresTimeout time.Duration) *circuitBreaker {
	cb := &circuitBreaker{
		openThreshold:        openThreshold,
		halfOpenTimeout:      halfOpenTimeout,
		resetFailuresTimeout: resetFailuresTimeout,
	}

	cb.mutex.Lock()
	cb.switchState(circuitBreakerStateClosed)
	cb.mutex.Unlock()

	return cb
}
