package providers_test

import (
	"net/http"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/suite"

	"github.com/glitterhq/ipmeta"
)

type ProviderTestSuite struct {
	suite.Suite

	http ipmeta.HTTPClient
}

func (suite *ProviderTestSuite) SetupTest() {
	suite.http = ipmeta.NewHTTPClient(&http.Client{},
		"test-agent",
		time.Millisecond,
		100,
		100,
		time.Second,
		time.Second)
}

type MockedProviderTestSuite struct {
	ProviderTestSuite
}

func (suite *MockedProviderTestSuite) SetupSuite() {
	httpmock.Activate()
}

func (suite *MockedProviderTestSuite) TearDownSuite() {
	httpmock.DeactivateAndReset()
}

func (suite *MockedProviderTestSuite) TearDownTest() {
	httpmock.Reset()
}
