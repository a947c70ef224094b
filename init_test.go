package ipmeta_test

import (
	"context"
	"net"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/glitterhq/ipmeta"
)

type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) Lookup(ctx context.Context, ip net.IP) (ipmeta.Record, error) {
	args := m.Called(ctx, ip)

	return args.Get(0).(ipmeta.Record), args.Error(1)
}

func (m *ProviderMock) Name() string {
	return m.Called().String(0)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(ctx context.Context, key string) (*ipmeta.Record, error) {
	args := m.Called(ctx, key)

	record, _ := args.Get(0).(*ipmeta.Record)

	return record, args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, record *ipmeta.Record, ttl time.Duration) error {
	return m.Called(ctx, key, record, ttl).Error(0)
}

type LoggerMock struct {
	mock.Mock
}

func (m *LoggerMock) LookupError(ip net.IP, name string, err error) {
	m.Called(ip, name, err)
}

func (m *LoggerMock) CacheError(op string, err error) {
	m.Called(op, err)
}
