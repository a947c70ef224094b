package providers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"github.com/glitterhq/ipmeta"
)

type ipapiResponse struct {
	IP          string   `json:"ip"`
	City        string   `json:"city"`
	Region      string   `json:"region"`
	RegionCode  string   `json:"region_code"`
	CountryName string   `json:"country_name"`
	Country     string   `json:"country"`
	Postal      string   `json:"postal"`
	Timezone    string   `json:"timezone"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	ASN         string   `json:"asn"`
	Org         string   `json:"org"`
}

type ipapiProvider struct {
	client ipmeta.HTTPClient
}

func (i ipapiProvider) Name() string {
	return NameIPAPI
}

func (i ipapiProvider) Lookup(ctx context.Context, ip net.IP) (ipmeta.Record, error) {
	result := ipmeta.Record{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://ipapi.co/"+ip.String()+"/json/", nil)
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

	jsonResponse := ipapiResponse{}
	jsonDecoder := json.NewDecoder(bufio.NewReader(resp.Body))

	if err := jsonDecoder.Decode(&jsonResponse); err != nil {
		return result, fmt.Errorf("cannot parse a response: %w", err)
	}

	company := companyBlock(jsonResponse.Org)

	result.IP = jsonResponse.IP
	if result.IP == "" {
		result.IP = ip.String()
	}

	result.City = jsonResponse.City
	result.Region = jsonResponse.Region
	result.RegionCode = jsonResponse.RegionCode
	result.Country = jsonResponse.CountryName
	result.CountryCode = jsonResponse.Country
	result.Loc = formatLoc(jsonResponse.Latitude, jsonResponse.Longitude)
	result.Postal = jsonResponse.Postal
	result.Timezone = jsonResponse.Timezone
	result.ASN = asnBlock(jsonResponse.ASN, jsonResponse.Org)
	result.Company = company
	result.Privacy = privacyBlock(company.Type)
	result.Source = []string{NameIPAPI}

	return result, nil
}

// NewIPAPI returns the adapter for ipapi.co. No credential is needed,
// which makes it a primary-wave source.
func NewIPAPI(client ipmeta.HTTPClient) ipmeta.Provider {
	return ipapiProvider{
		client: client,
	}
}
