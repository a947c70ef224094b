package ipmeta

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

// Defaults of the hedging schedule and the cache policy. The 2-wave
// split with a 200ms stagger and a 1.6s deadline matches the observed
// latency characteristics of the original deployment; override via
// Opts only if you know your providers better.
const (
	DefaultWaveSize = 2
	DefaultStagger  = 200 * time.Millisecond
	DefaultDeadline = 1600 * time.Millisecond

	DefaultCacheTTL        = 30 * time.Minute
	DefaultHostingCacheTTL = 10 * time.Minute

	DefaultWorkerPoolSize = 4096

	workerPoolExpireTime = time.Minute

	cacheKeyPrefix = "ip:"
)

// Opts configures a Lookuper. Providers and Cache are mandatory.
// Providers are taken in fan-out order: the first WaveSize of them form
// the primary wave, the rest are launched after Stagger.
type Opts struct {
	Providers []Provider
	Cache     Cache
	Logger    Logger

	WaveSize int
	Stagger  time.Duration
	Deadline time.Duration

	CacheTTL        time.Duration
	HostingCacheTTL time.Duration

	WorkerPoolSize int
}

// Lookuper is the lookup orchestrator: validate, check the cache,
// hedge-fetch, merge, write the cache, return. Safe for concurrent
// use.
type Lookuper struct {
	providers []Provider
	cache     Cache
	logger    Logger

	waveSize int
	stagger  time.Duration
	deadline time.Duration

	cacheTTL   time.Duration
	hostingTTL time.Duration

	rwmutex    sync.RWMutex
	closeOnce  sync.Once
	workerPool *ants.PoolWithFunc
	closed     bool
}

// Lookup resolves a textual IPv4/IPv6 address into a merged Record.
// Malformed input fails with ErrInvalidIP before any cache or network
// work. A (nil, nil) return means no provider had data within the
// deadline; nothing is retried automatically and nothing is cached in
// that case.
func (l *Lookuper) Lookup(ctx context.Context, ip string) (*Record, error) {
	l.rwmutex.RLock()
	defer l.rwmutex.RUnlock()

	if l.closed {
		return nil, ErrLookuperShutdown
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidIP, ip)
	}

	cacheKey := cacheKeyPrefix + parsed.String()

	if cached, err := l.cache.Get(ctx, cacheKey); err != nil {
		l.logger.CacheError("get", err)
	} else if cached != nil {
		cached.AgeMS = 0

		return cached, nil
	}

	merged := mergeRecords(l.fetch(ctx, parsed))
	if merged == nil {
		return nil, nil
	}

	if err := l.cache.Set(ctx, cacheKey, merged, l.recordTTL(merged)); err != nil {
		l.logger.CacheError("set", err)
	}

	return merged, nil
}

// recordTTL caps the TTL for hosting-origin addresses: cloud and CDN
// ranges churn ownership faster than residential ones.
func (l *Lookuper) recordTTL(record *Record) time.Duration {
	ttl := l.cacheTTL

	if record.Privacy.Hosting && ttl > l.hostingTTL {
		ttl = l.hostingTTL
	}

	return ttl
}

// Shutdown releases the worker pool. Lookup calls made afterwards fail
// with ErrLookuperShutdown.
func (l *Lookuper) Shutdown() {
	l.rwmutex.Lock()
	defer l.rwmutex.Unlock()

	l.closed = true

	l.closeOnce.Do(func() {
		l.workerPool.Release()
	})
}

// NewLookuper creates a Lookuper. Zero-valued Opts fields fall back to
// the Default* constants; a nil Logger discards everything.
func NewLookuper(opts Opts) (*Lookuper, error) {
	if len(opts.Providers) == 0 {
		return nil, errors.New("at least one provider is required")
	}

	if opts.Cache == nil {
		return nil, errors.New("cache is required")
	}

	rv := &Lookuper{
		providers:  opts.Providers,
		cache:      opts.Cache,
		logger:     opts.Logger,
		waveSize:   opts.WaveSize,
		stagger:    opts.Stagger,
		deadline:   opts.Deadline,
		cacheTTL:   opts.CacheTTL,
		hostingTTL: opts.HostingCacheTTL,
	}

	if rv.logger == nil {
		rv.logger = NopLogger{}
	}

	if rv.waveSize <= 0 {
		rv.waveSize = DefaultWaveSize
	}

	if rv.stagger <= 0 {
		rv.stagger = DefaultStagger
	}

	if rv.deadline <= 0 {
		rv.deadline = DefaultDeadline
	}

	if rv.cacheTTL <= 0 {
		rv.cacheTTL = DefaultCacheTTL
	}

	if rv.hostingTTL <= 0 {
		rv.hostingTTL = DefaultHostingCacheTTL
	}

	poolSize := opts.WorkerPoolSize
	if poolSize <= 0 {
		poolSize = DefaultWorkerPoolSize
	}

	rv.workerPool, _ = ants.NewPoolWithFunc(poolSize, rv.fetchOne,
		ants.WithExpiryDuration(workerPoolExpireTime))

	return rv, nil
}
