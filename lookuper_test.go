package ipmeta_test

import (
	"context"
	"errors"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/glitterhq/ipmeta"
)

type LookuperTestSuite struct {
	suite.Suite

	lookuper      *ipmeta.Lookuper
	providerMocks []*ProviderMock
	cacheMock     *CacheMock
	logMock       *LoggerMock
}

func (suite *LookuperTestSuite) SetupTest() {
	suite.cacheMock = &CacheMock{}
	suite.logMock = &LoggerMock{}
	suite.providerMocks = []*ProviderMock{{}, {}, {}}

	suite.logMock.On("LookupError", mock.Anything, mock.Anything, mock.Anything).Maybe()
	suite.logMock.On("CacheError", mock.Anything, mock.Anything).Maybe()

	providers := make([]ipmeta.Provider, 0, len(suite.providerMocks))

	for idx, v := range suite.providerMocks {
		v.On("Name").Return("p" + strconv.Itoa(idx)).Maybe()

		providers = append(providers, v)
	}

	lookuper, err := ipmeta.NewLookuper(ipmeta.Opts{
		Providers: providers,
		Cache:     suite.cacheMock,
		Logger:    suite.logMock,
		WaveSize:  2,
		Stagger:   50 * time.Millisecond,
		Deadline:  500 * time.Millisecond,
	})

	suite.NoError(err)

	suite.lookuper = lookuper
}

func (suite *LookuperTestSuite) TearDownTest() {
	suite.lookuper.Shutdown()

	suite.cacheMock.AssertExpectations(suite.T())

	for _, v := range suite.providerMocks {
		v.AssertExpectations(suite.T())
	}
}

func (suite *LookuperTestSuite) expectMiss() {
	suite.cacheMock.On("Get", mock.Anything, mock.Anything).Return(nil, nil).Once()
}

func (suite *LookuperTestSuite) record(source, countryCode, loc string) ipmeta.Record {
	return ipmeta.Record{
		IP:          "8.8.8.8",
		CountryCode: countryCode,
		Loc:         loc,
		Source:      []string{source},
	}
}

func (suite *LookuperTestSuite) TestInvalidInput() {
	_, err := suite.lookuper.Lookup(context.Background(), "not-an-ip")

	suite.True(errors.Is(err, ipmeta.ErrInvalidIP))

	suite.cacheMock.AssertNotCalled(suite.T(), "Get", mock.Anything, mock.Anything)

	for _, v := range suite.providerMocks {
		v.AssertNotCalled(suite.T(), "Lookup", mock.Anything, mock.Anything)
	}
}

func (suite *LookuperTestSuite) TestIPv6Accepted() {
	suite.cacheMock.On("Get", mock.Anything, "ip:2001:db8::1").Return(nil, nil).Once()

	for _, v := range suite.providerMocks {
		v.On("Lookup", mock.Anything, mock.Anything).Return(ipmeta.Record{}, io.EOF).Maybe()
	}

	_, err := suite.lookuper.Lookup(context.Background(), "2001:db8::1")

	suite.NoError(err)
}

func (suite *LookuperTestSuite) TestCacheHitResetsAge() {
	cached := suite.record("p0", "US", "")
	cached.AgeMS = 120000

	suite.cacheMock.On("Get", mock.Anything, "ip:8.8.8.8").Return(&cached, nil).Once()

	result, err := suite.lookuper.Lookup(context.Background(), "8.8.8.8")

	suite.NoError(err)
	suite.NotNil(result)
	suite.EqualValues(0, result.AgeMS)

	for _, v := range suite.providerMocks {
		v.AssertNotCalled(suite.T(), "Lookup", mock.Anything, mock.Anything)
	}
}

func (suite *LookuperTestSuite) TestCacheErrorDegradesToMiss() {
	suite.cacheMock.On("Get", mock.Anything, "ip:8.8.8.8").Return(nil, io.EOF).Once()
	suite.cacheMock.On("Set", mock.Anything, "ip:8.8.8.8", mock.Anything, mock.Anything).Return(io.EOF).Once()

	suite.providerMocks[0].On("Lookup", mock.Anything, mock.Anything).
		Return(suite.record("p0", "US", ""), nil)
	suite.providerMocks[1].On("Lookup", mock.Anything, mock.Anything).
		Return(ipmeta.Record{}, io.EOF)
	suite.providerMocks[2].On("Lookup", mock.Anything, mock.Anything).
		Return(ipmeta.Record{}, io.EOF)

	result, err := suite.lookuper.Lookup(context.Background(), "8.8.8.8")

	suite.NoError(err)
	suite.NotNil(result)
	suite.Equal("US", result.CountryCode)
}

func (suite *LookuperTestSuite) TestTwoGoodOneFailing() {
	suite.expectMiss()
	suite.cacheMock.On("Set",
		mock.Anything, "ip:8.8.8.8", mock.Anything, ipmeta.DefaultCacheTTL).Return(nil).Once()

	suite.providerMocks[0].On("Lookup", mock.Anything, mock.Anything).
		Return(suite.record("p0", "US", "37.500000,-122.300000"), nil)
	suite.providerMocks[1].On("Lookup", mock.Anything, mock.Anything).
		Return(suite.record("p1", "US", ""), nil)
	suite.providerMocks[2].On("Lookup", mock.Anything, mock.Anything).
		Return(ipmeta.Record{}, io.EOF)

	result, err := suite.lookuper.Lookup(context.Background(), "8.8.8.8")

	suite.NoError(err)
	suite.NotNil(result)
	suite.Equal("US", result.CountryCode)
	suite.ElementsMatch([]string{"p0", "p1"}, result.Source)
	suite.InDelta(0.9, result.Confidence, 0.0001)
	suite.EqualValues(0, result.AgeMS)
}

func (suite *LookuperTestSuite) TestNoResultIsNotCached() {
	suite.expectMiss()

	for _, v := range suite.providerMocks {
		v.On("Lookup", mock.Anything, mock.Anything).Return(ipmeta.Record{}, io.EOF)
	}

	result, err := suite.lookuper.Lookup(context.Background(), "8.8.8.8")

	suite.NoError(err)
	suite.Nil(result)

	suite.cacheMock.AssertNotCalled(suite.T(), "Set",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LookuperTestSuite) TestHostingTTLIsCapped() {
	record := suite.record("p0", "US", "")
	record.Company = ipmeta.Company{Name: "Google LLC", Type: ipmeta.NetworkTypeHosting}
	record.Privacy = ipmeta.Privacy{Hosting: true}

	suite.expectMiss()
	suite.cacheMock.On("Set",
		mock.Anything, "ip:8.8.8.8", mock.Anything, ipmeta.DefaultHostingCacheTTL).Return(nil).Once()

	suite.providerMocks[0].On("Lookup", mock.Anything, mock.Anything).Return(record, nil)
	suite.providerMocks[1].On("Lookup", mock.Anything, mock.Anything).Return(ipmeta.Record{}, io.EOF)
	suite.providerMocks[2].On("Lookup", mock.Anything, mock.Anything).Return(ipmeta.Record{}, io.EOF)

	result, err := suite.lookuper.Lookup(context.Background(), "8.8.8.8")

	suite.NoError(err)
	suite.NotNil(result)
	suite.True(result.Privacy.Hosting)
}

func (suite *LookuperTestSuite) TestShutdown() {
	suite.lookuper.Shutdown()

	_, err := suite.lookuper.Lookup(context.Background(), "8.8.8.8")

	suite.True(errors.Is(err, ipmeta.ErrLookuperShutdown))
}

func TestLookuper(t *testing.T) {
	suite.Run(t, &LookuperTestSuite{})
}
