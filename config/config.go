// Package config collects process configuration from environment
// variables. Provider endpoint templates are not configuration: each
// adapter owns its endpoint as an internal constant.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v7"
)

// Config carries everything the library needs from the environment:
// the distributed cache address, the cache TTL, per-provider
// credentials and the hedging knobs. The hedging defaults reproduce
// the fixed 2-wave/200ms/1.6s behavior.
type Config struct {
	RedisURL        string `env:"REDIS_URL"`
	CacheTTLSeconds int    `env:"IPCACHE_TTL_SEC" envDefault:"1800"`

	IPInfoToken     string `env:"IPINFO_TOKEN"`
	BigDataCloudKey string `env:"BDC_KEY"`

	WaveSize   int `env:"IPLOOKUP_WAVE_SIZE" envDefault:"2"`
	StaggerMS  int `env:"IPLOOKUP_STAGGER_MS" envDefault:"200"`
	DeadlineMS int `env:"IPLOOKUP_DEADLINE_MS" envDefault:"1600"`
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c *Config) Stagger() time.Duration {
	return time.Duration(c.StaggerMS) * time.Millisecond
}

func (c *Config) Deadline() time.Duration {
	return time.Duration(c.DeadlineMS) * time.Millisecond
}

// Parse reads the environment and validates the values.
func Parse() (*Config, error) {
	conf := &Config{}

	if err := env.Parse(conf); err != nil {
		return nil, fmt.Errorf("cannot parse environment: %w", err)
	}

	if err := validate(conf); err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}

	return conf, nil
}

func validate(conf *Config) error {
	if conf.CacheTTLSeconds <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %d", conf.CacheTTLSeconds)
	}

	if conf.WaveSize <= 0 {
		return fmt.Errorf("wave size must be positive, got %d", conf.WaveSize)
	}

	if conf.StaggerMS < 0 {
		return fmt.Errorf("stagger must not be negative, got %d", conf.StaggerMS)
	}

	if conf.DeadlineMS <= conf.StaggerMS {
		return fmt.Errorf("deadline %dms leaves no time after the %dms stagger",
			conf.DeadlineMS, conf.StaggerMS)
	}

	return nil
}
