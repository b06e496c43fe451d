// Package metadata provides the read-only lookup tables referenced by partner
// records: identifier types, legal forms and regions. The resolver turns a
// batch of external keys into lookup maps; missing keys are simply absent.
package metadata

// IdentifierType describes a kind of external identifier (e.g. a VAT number).
type IdentifierType struct {
	TechnicalKey string `db:"technical_key" json:"technicalKey"`
	Name         string `db:"name" json:"name"`
}

// LegalForm describes a legal form of organization (e.g. GmbH).
type LegalForm struct {
	TechnicalKey string  `db:"technical_key" json:"technicalKey"`
	Name         string  `db:"name" json:"name"`
	Abbreviation *string `db:"abbreviation" json:"abbreviation,omitempty"`
}

// Region describes an administrative area within a country.
type Region struct {
	CountryCode string `db:"country_code" json:"countryCode"`
	RegionCode  string `db:"region_code" json:"regionCode"`
	RegionName  string `db:"region_name" json:"regionName"`
}

// Keys collects the distinct external keys referenced by a request batch.
type Keys struct {
	IdentifierTypes []string
	LegalForms      []string
	Regions         []string
}

// Resolved holds the lookup maps for one request batch. Callers must treat
// absence of a key as "unknown metadata", never as a crash.
type Resolved struct {
	IDTypes    map[string]IdentifierType
	LegalForms map[string]LegalForm
	Regions    map[string]Region
}
