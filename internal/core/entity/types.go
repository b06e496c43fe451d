package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Shared value types for business partner records. Collections and structured
// blocks are stored as JSONB columns, so each type implements sql.Scanner and
// driver.Valuer the same way Attributes does.

// scanJSON decodes a JSONB column into dst. NULL and empty input leave dst untouched.
func scanJSON(dst any, src any) error {
	if src == nil {
		return nil
	}

	var source []byte
	switch v := src.(type) {
	case []byte:
		source = v
	case string:
		source = []byte(v)
	default:
		return fmt.Errorf("unsupported type for %T: %T", dst, src)
	}

	if len(source) == 0 {
		return nil
	}

	return json.Unmarshal(source, dst)
}

// Identifier is an external identifier attached to a partner record
// (e.g. a VAT number). TypeKey references an IdentifierType lookup record.
type Identifier struct {
	TypeKey     string  `json:"typeKey"`
	Value       string  `json:"value"`
	IssuingBody *string `json:"issuingBody,omitempty"`
}

// Identifiers is the JSONB collection of identifiers.
type Identifiers []Identifier

func (i *Identifiers) Scan(src any) error { return scanJSON(i, src) }

func (i Identifiers) Value() (driver.Value, error) {
	if i == nil {
		return nil, nil
	}
	return json.Marshal(i)
}

// State is a validity interval with a status type (active/inactive).
type State struct {
	ValidFrom *time.Time `json:"validFrom,omitempty"`
	ValidTo   *time.Time `json:"validTo,omitempty"`
	Type      string     `json:"type"`
}

// States is the JSONB collection of states.
type States []State

func (s *States) Scan(src any) error { return scanJSON(s, src) }

func (s States) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Classification is an industry/category code assigned to a legal entity.
type Classification struct {
	Code    *string `json:"code,omitempty"`
	Value   *string `json:"value,omitempty"`
	TypeKey string  `json:"typeKey"`
}

// Classifications is the JSONB collection of classifications.
type Classifications []Classification

func (c *Classifications) Scan(src any) error { return scanJSON(c, src) }

func (c Classifications) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

// ConfidenceCriteria is provenance/trust metadata attached to every partner record.
// All six fields are mandatory at construction time.
type ConfidenceCriteria struct {
	SharedByOwner               bool      `json:"sharedByOwner"`
	CheckedByExternalDataSource bool      `json:"checkedByExternalDataSource"`
	NumberOfSharingMembers      int       `json:"numberOfSharingMembers"`
	LastConfidenceCheckAt       time.Time `json:"lastConfidenceCheckAt"`
	NextConfidenceCheckAt       time.Time `json:"nextConfidenceCheckAt"`
	ConfidenceLevel             int       `json:"confidenceLevel"`
}

func (c *ConfidenceCriteria) Scan(src any) error { return scanJSON(c, src) }

func (c ConfidenceCriteria) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// GeoCoordinate is a WGS84 coordinate with optional altitude.
type GeoCoordinate struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Altitude  *float64 `json:"altitude,omitempty"`
}

// Street is the structured street breakdown of a physical address.
type Street struct {
	Name                 *string `json:"name,omitempty"`
	HouseNumber          *string `json:"houseNumber,omitempty"`
	Milestone            *string `json:"milestone,omitempty"`
	Direction            *string `json:"direction,omitempty"`
	NamePrefix           *string `json:"namePrefix,omitempty"`
	AdditionalNamePrefix *string `json:"additionalNamePrefix,omitempty"`
	NameSuffix           *string `json:"nameSuffix,omitempty"`
	AdditionalNameSuffix *string `json:"additionalNameSuffix,omitempty"`
}

// PhysicalPostalAddress holds the structured postal fields of a logistic address.
// Country and City are mandatory; AdministrativeAreaLevel1 references a Region lookup.
type PhysicalPostalAddress struct {
	GeographicCoordinates    *GeoCoordinate `json:"geographicCoordinates,omitempty"`
	Country                  string         `json:"country"`
	AdministrativeAreaLevel1 *string        `json:"administrativeAreaLevel1,omitempty"`
	AdministrativeAreaLevel2 *string        `json:"administrativeAreaLevel2,omitempty"`
	AdministrativeAreaLevel3 *string        `json:"administrativeAreaLevel3,omitempty"`
	PostalCode               *string        `json:"postalCode,omitempty"`
	City                     string         `json:"city"`
	District                 *string        `json:"district,omitempty"`
	Street                   *Street        `json:"street,omitempty"`
	CompanyPostalCode        *string        `json:"companyPostalCode,omitempty"`
	IndustrialZone           *string        `json:"industrialZone,omitempty"`
	Building                 *string        `json:"building,omitempty"`
	Floor                    *string        `json:"floor,omitempty"`
	Door                     *string        `json:"door,omitempty"`
}

func (p *PhysicalPostalAddress) Scan(src any) error { return scanJSON(p, src) }

func (p PhysicalPostalAddress) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// AlternativePostalAddress is PO-box-style addressing; delivery service type and
// number are mandatory when the block is present at all.
type AlternativePostalAddress struct {
	GeographicCoordinates    *GeoCoordinate `json:"geographicCoordinates,omitempty"`
	Country                  string         `json:"country"`
	AdministrativeAreaLevel1 *string        `json:"administrativeAreaLevel1,omitempty"`
	PostalCode               *string        `json:"postalCode,omitempty"`
	City                     string         `json:"city"`
	DeliveryServiceType      string         `json:"deliveryServiceType"`
	DeliveryServiceQualifier *string        `json:"deliveryServiceQualifier,omitempty"`
	DeliveryServiceNumber    string         `json:"deliveryServiceNumber"`
}

func (a *AlternativePostalAddress) Scan(src any) error { return scanJSON(a, src) }

func (a *AlternativePostalAddress) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}
