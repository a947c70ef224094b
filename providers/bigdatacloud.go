package providers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/glitterhq/ipmeta"
)

type bigDataCloudResponse struct {
	Location struct {
		City                        string   `json:"city"`
		LocalityName                string   `json:"localityName"`
		PrincipalSubdivision        string   `json:"principalSubdivision"`
		IsoPrincipalSubdivision     string   `json:"isoPrincipalSubdivision"`
		IsoPrincipalSubdivisionCode string   `json:"isoPrincipalSubdivisionCode"`
		Postcode                    string   `json:"postcode"`
		Continent                   string   `json:"continent"`
		ContinentCode               string   `json:"continentCode"`
		Latitude                    *float64 `json:"latitude"`
		Longitude                   *float64 `json:"longitude"`
		TimeZone                    struct {
			IanaTimeID string `json:"ianaTimeId"`
		} `json:"timeZone"`
	} `json:"location"`
	Country struct {
		Name      string `json:"name"`
		IsoAlpha2 string `json:"isoAlpha2"`
		IsoCode   string `json:"isoCode"`
	} `json:"country"`
	Network struct {
		ASN                   string `json:"asn"`
		Organisation          string `json:"organisation"`
		RegisteredCountry     string `json:"registeredCountry"`
		RegisteredCountryName string `json:"registeredCountryName"`
		Carriers              []struct {
			ASN          string `json:"asn"`
			Organisation string `json:"organisation"`
		} `json:"carriers"`
	} `json:"network"`
}

type bigDataCloudProvider struct {
	apiKey string
	client ipmeta.HTTPClient
}

func (b bigDataCloudProvider) Name() string {
	return NameBigDataCloud
}

func (b bigDataCloudProvider) Lookup(ctx context.Context, ip net.IP) (ipmeta.Record, error) {
	result := ipmeta.Record{}

	if b.apiKey == "" {
		return result, ErrAuthTokenIsRequired
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.buildURL(ip), nil)
	if err != nil {
		return result, fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return result, fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	jsonResponse := bigDataCloudResponse{}
	jsonDecoder := json.NewDecoder(bufio.NewReader(resp.Body))

	if err := jsonDecoder.Decode(&jsonResponse); err != nil {
		return result, fmt.Errorf("cannot parse a response: %w", err)
	}

	loc := jsonResponse.Location
	country := jsonResponse.Country
	network := jsonResponse.Network

	// The first carrier takes precedence over network-level fields,
	// independently for the ASN and the organization.
	asnCode := network.ASN
	org := network.Organisation

	if len(network.Carriers) > 0 {
		carrier := network.Carriers[0]

		asnCode = firstNonEmpty(carrier.ASN, network.ASN)
		org = firstNonEmpty(carrier.Organisation, network.Organisation)
	}

	company := companyBlock(org)

	result.IP = ip.String()
	result.City = firstNonEmpty(loc.City, loc.LocalityName)
	result.Region = firstNonEmpty(loc.PrincipalSubdivision, loc.IsoPrincipalSubdivision)
	result.RegionCode = loc.IsoPrincipalSubdivisionCode
	result.Country = firstNonEmpty(country.Name, network.RegisteredCountryName)
	// documented as isoAlpha2, observed as isoCode in some responses
	result.CountryCode = firstNonEmpty(country.IsoAlpha2, country.IsoCode, network.RegisteredCountry)
	result.Continent = loc.Continent
	result.ContinentCode = loc.ContinentCode
	result.Loc = formatLoc(loc.Latitude, loc.Longitude)
	result.Postal = loc.Postcode
	result.Timezone = loc.TimeZone.IanaTimeID
	result.ASN = asnBlock(asnCode, org)
	result.Company = company
	result.Privacy = privacyBlock(company.Type)
	result.Source = []string{NameBigDataCloud}

	return result, nil
}

func (b bigDataCloudProvider) buildURL(ip net.IP) string {
	getQuery := url.Values{}

	getQuery.Set("ip", ip.String())
	getQuery.Set("localityLanguage", "en")
	getQuery.Set("key", b.apiKey)

	u := url.URL{
		Scheme:   "https",
		Host:     "api.bigdatacloud.net",
		Path:     "/data/ip-geolocation",
		RawQuery: getQuery.Encode(),
	}

	return u.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

// NewBigDataCloud returns the adapter for api.bigdatacloud.net. The
// richest source of the three, but keyed and rate-limited, so it
// belongs in the supplementary wave.
func NewBigDataCloud(client ipmeta.HTTPClient, apiKey string) ipmeta.Provider {
	return bigDataCloudProvider{
		apiKey: apiKey,
		client: client,
	}
}
