package ipmeta

import (
	"net"
	"os"

	"github.com/rs/zerolog"
)

// NopLogger discards everything. It is the default when Opts.Logger is
// nil.
type NopLogger struct{}

func (NopLogger) LookupError(net.IP, string, error) {}

func (NopLogger) CacheError(string, error) {}

type zerologLogger struct {
	lookupLog zerolog.Logger
	cacheLog  zerolog.Logger
}

func (l *zerologLogger) LookupError(ip net.IP, name string, err error) {
	l.lookupLog.Error().Str("provider", name).Stringer("ip", ip).Err(err).Msg("")
}

func (l *zerologLogger) CacheError(op string, err error) {
	l.cacheLog.Error().Str("op", op).Err(err).Msg("")
}

// NewLogger returns a zerolog-backed Logger writing to stderr.
func NewLogger() Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	return &zerologLogger{
		lookupLog: zerolog.New(os.Stderr).With().Timestamp().Str("event_name", "lookup").Logger(),
		cacheLog:  zerolog.New(os.Stderr).With().Timestamp().Str("event_name", "cache").Logger(),
	}
}
