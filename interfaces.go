package ipmeta

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Provider is a single upstream source of IP metadata. Lookup issues
// one request and maps the proprietary response into a Record. An
// error means "no data from this provider": the engine logs it and
// carries on, it never aborts the whole lookup.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, ip net.IP) (Record, error)
}

// HTTPClient is what provider adapters use to talk to their upstreams.
// Adapters never own connection lifecycle, they get a client injected.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Cache stores merged records under "ip:"-prefixed keys. Get returns
// (nil, nil) on a miss. Backend failures come back as errors so the
// caller can log them, but they always degrade to a miss on read and a
// no-op on write.
type Cache interface {
	Get(ctx context.Context, key string) (*Record, error)
	Set(ctx context.Context, key string, record *Record, ttl time.Duration) error
}

// Logger receives the errors the engine swallows on purpose.
type Logger interface {
	LookupError(ip net.IP, name string, err error)
	CacheError(op string, err error)
}
