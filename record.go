package ipmeta

// Network types derived from organization names. Nothing else ever
// populates ASNInfo.Type or Company.Type.
const (
	NetworkTypeHosting = "hosting"
	NetworkTypeISP     = "isp"
)

// ASNInfo describes the autonomous system an address belongs to. Domain
// is a placeholder for a not-yet-implemented enrichment and stays
// empty.
type ASNInfo struct {
	ASN    string `json:"asn"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
	Type   string `json:"type"`
}

// Company describes the organization operating the address. Domain
// stays empty, same as in ASNInfo.
type Company struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
	Type   string `json:"type"`
}

// Privacy carries heuristic flags. All of them are placeholders except
// Hosting which mirrors Company.Type == "hosting".
type Privacy struct {
	VPN     bool `json:"vpn"`
	Proxy   bool `json:"proxy"`
	Tor     bool `json:"tor"`
	Relay   bool `json:"relay"`
	Hosting bool `json:"hosting"`
}

// Record is the provider-agnostic schema every adapter maps its
// upstream response into. Optional string fields are empty when a
// provider had nothing to say. Loc is either a complete
// "<lat>,<lon>" pair rendered to 6 decimal digits or absent entirely.
//
// Source lists every provider that contributed, duplicate-free, in
// first-seen order. Confidence and AgeMS are populated on merged
// results only, never on a single adapter's raw output.
type Record struct {
	IP            string   `json:"ip"`
	City          string   `json:"city,omitempty"`
	Region        string   `json:"region,omitempty"`
	RegionCode    string   `json:"region_code,omitempty"`
	Country       string   `json:"country,omitempty"`
	CountryCode   string   `json:"country_code,omitempty"`
	Continent     string   `json:"continent,omitempty"`
	ContinentCode string   `json:"continent_code,omitempty"`
	Loc           string   `json:"loc,omitempty"`
	Postal        string   `json:"postal,omitempty"`
	Timezone      string   `json:"timezone,omitempty"`
	ASN           ASNInfo  `json:"asn"`
	Company       Company  `json:"company"`
	Privacy       Privacy  `json:"privacy"`
	Source        []string `json:"source"`
	Confidence    float64  `json:"confidence"`
	AgeMS         int64    `json:"age_ms"`
}
