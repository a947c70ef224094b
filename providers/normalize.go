package providers

import (
	"fmt"
	"io"
	"strings"

	"github.com/glitterhq/ipmeta"
)

// Organization names that mark an address as hosting-originated. Pure
// substring matching, same as the type derivation in asnBlock.
var hostingKeywords = []string{
	"aws", "amazon", "google", "gcp", "azure", "microsoft", "cloudflare",
	"ovh", "digitalocean", "hetzner", "aliyun", "akamai", "fastly",
	"oracle cloud",
}

// formatLoc renders a coordinate pair as "<lat>,<lon>" with 6 decimal
// digits. A missing or out-of-range coordinate produces no loc at all,
// never a partial value.
func formatLoc(lat, lon *float64) string {
	if lat == nil || lon == nil {
		return ""
	}

	if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
		return ""
	}

	return fmt.Sprintf("%.6f,%.6f", *lat, *lon)
}

// companyBlock derives a company block from an organization/ISP name.
// Domain stays empty.
func companyBlock(org string) ipmeta.Company {
	org = strings.TrimSpace(org)
	companyType := ipmeta.NetworkTypeISP
	lowered := strings.ToLower(org)

	for _, keyword := range hostingKeywords {
		if strings.Contains(lowered, keyword) {
			companyType = ipmeta.NetworkTypeHosting

			break
		}
	}

	return ipmeta.Company{
		Name: org,
		Type: companyType,
	}
}

// asnBlock normalizes an AS number into "AS"+digits form, or leaves it
// empty when the provider sent nothing usable.
func asnBlock(asn, org string) ipmeta.ASNInfo {
	code := strings.TrimLeft(strings.ToUpper(asn), "AS")

	rv := ipmeta.ASNInfo{
		Name: org,
		Type: ipmeta.NetworkTypeISP,
	}

	if code != "" {
		rv.ASN = "AS" + code
	}

	if strings.Contains(strings.ToLower(org), "cloud") {
		rv.Type = ipmeta.NetworkTypeHosting
	}

	return rv
}

// privacyBlock fills the heuristic privacy placeholders. Only Hosting
// carries signal: it mirrors the derived company type.
func privacyBlock(companyType string) ipmeta.Privacy {
	return ipmeta.Privacy{
		Hosting: companyType == ipmeta.NetworkTypeHosting,
	}
}

func flushResponse(body io.ReadCloser) {
	io.Copy(io.Discard, body) // nolint: errcheck
	body.Close()
}
