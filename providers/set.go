package providers

import (
	"time"

	"github.com/glitterhq/ipmeta"
	"github.com/glitterhq/ipmeta/config"
)

const (
	userAgent = "ipmeta"

	rateLimitInterval = 100 * time.Millisecond
	rateLimitBurst    = 10

	breakerOpenThreshold   = 3
	breakerHalfOpenTimeout = 30 * time.Second
	breakerResetTimeout    = 10 * time.Second
)

// DefaultSet wires the standard adapters in fan-out order: the free
// source first, keyed sources trailing. All of them share one pooled
// transport; the rate limiter and the circuit breaker wrap it
// per provider.
func DefaultSet(conf *config.Config) []ipmeta.Provider {
	pooled := ipmeta.NewPooledClient()

	newClient := func() ipmeta.HTTPClient {
		return ipmeta.NewHTTPClient(pooled,
			userAgent,
			rateLimitInterval,
			rateLimitBurst,
			breakerOpenThreshold,
			breakerHalfOpenTimeout,
			breakerResetTimeout)
	}

	return []ipmeta.Provider{
		NewIPAPI(newClient()),
		NewIPInfo(newClient(), conf.IPInfoToken),
		NewBigDataCloud(newClient(), conf.BigDataCloudKey),
	}
}
