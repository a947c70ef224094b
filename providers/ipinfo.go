package providers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/glitterhq/ipmeta"
)

type ipinfoResponse struct {
	IP       string `json:"ip"`
	City     string `json:"city"`
	Region   string `json:"region"`
	Country  string `json:"country"`
	Loc      string `json:"loc"`
	Org      string `json:"org"`
	Postal   string `json:"postal"`
	Timezone string `json:"timezone"`
}

type ipinfoProvider struct {
	authToken string
	client    ipmeta.HTTPClient
}

func (i ipinfoProvider) Name() string {
	return NameIPInfo
}

func (i ipinfoProvider) Lookup(ctx context.Context, ip net.IP) (ipmeta.Record, error) {
	result := ipmeta.Record{}

	if i.authToken == "" {
		return result, ErrAuthTokenIsRequired
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.buildURL(ip), nil)
	if err != nil {
		return result, fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := i.client.Do(req)
	if err != nil {
		return result, fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	jsonResponse := ipinfoResponse{}
	jsonDecoder := json.NewDecoder(bufio.NewReader(resp.Body))

	if err := jsonDecoder.Decode(&jsonResponse); err != nil {
		return result, fmt.Errorf("cannot parse a response: %w", err)
	}

	// org arrives as "AS15169 Google LLC": AS number first, then the
	// organization name.
	asnCode, org := splitOrg(jsonResponse.Org)
	company := companyBlock(org)

	result.IP = jsonResponse.IP
	if result.IP == "" {
		result.IP = ip.String()
	}

	result.City = jsonResponse.City
	result.Region = jsonResponse.Region
	result.CountryCode = jsonResponse.Country
	result.Loc = jsonResponse.Loc
	result.Postal = jsonResponse.Postal
	result.Timezone = jsonResponse.Timezone
	result.ASN = asnBlock(asnCode, org)
	result.Company = company
	result.Privacy = privacyBlock(company.Type)
	result.Source = []string{NameIPInfo}

	return result, nil
}

func (i ipinfoProvider) buildURL(ip net.IP) string {
	getQuery := url.Values{}

	getQuery.Set("token", i.authToken)

	u := url.URL{
		Scheme:   "https",
		Host:     "ipinfo.io",
		Path:     ip.String(),
		RawQuery: getQuery.Encode(),
	}

	return u.String()
}

func splitOrg(org string) (asnCode, name string) {
	if org == "" {
		return "", ""
	}

	parts := strings.SplitN(org, " ", 2)

	return parts[0], parts[len(parts)-1]
}

// NewIPInfo returns the adapter for ipinfo.io. Without a token every
// lookup fails with ErrAuthTokenIsRequired, so an unconfigured
// instance silently contributes nothing.
func NewIPInfo(client ipmeta.HTTPClient, authToken string) ipmeta.Provider {
	return ipinfoProvider{
		authToken: authToken,
		client:    client,
	}
}
