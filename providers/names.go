// Package providers contains the adapters for the supported upstream
// geolocation sources. Every adapter issues one HTTP call and maps the
// proprietary response into the common record schema; anything that
// goes wrong on the wire is an error for the engine to swallow.
package providers

const (
	// Identifier for ipapi.co.
	NameIPAPI = "ipapi.co"

	// Identifier for ipinfo.io.
	NameIPInfo = "ipinfo.io"

	// Identifier for bigdatacloud.net.
	NameBigDataCloud = "bigdatacloud"
)
