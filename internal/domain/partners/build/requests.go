package build

import (
	"time"

	"bpdm/internal/core/entity"
	"bpdm/internal/domain/partners/metadata"
)

// Request DTOs for the build pipeline. Create requests are keyed by a
// caller-chosen Index; update requests are keyed by the BPN they target.
// Required scalar fields are pointers so absence is distinguishable from the
// zero value and can be reported as MISSING_REQUIRED_FIELD.

// IdentifierRequest declares an external identifier for a partner record.
type IdentifierRequest struct {
	TypeKey     string  `json:"typeKey" binding:"required"`
	Value       string  `json:"value" binding:"required"`
	IssuingBody *string `json:"issuingBody,omitempty"`
}

// StateRequest declares a validity interval.
type StateRequest struct {
	ValidFrom *time.Time `json:"validFrom,omitempty"`
	ValidTo   *time.Time `json:"validTo,omitempty"`
	Type      *string    `json:"type"`
}

// ClassificationRequest declares an industry/category code.
type ClassificationRequest struct {
	Code    *string `json:"code,omitempty"`
	Value   *string `json:"value,omitempty"`
	TypeKey string  `json:"typeKey" binding:"required"`
}

// ConfidenceRequest declares the provenance/trust block.
// All six fields are mandatory; any absent field fails the single request.
type ConfidenceRequest struct {
	SharedByOwner               *bool      `json:"sharedByOwner"`
	CheckedByExternalDataSource *bool      `json:"checkedByExternalDataSource"`
	NumberOfSharingMembers      *int       `json:"numberOfSharingMembers"`
	LastConfidenceCheckAt       *time.Time `json:"lastConfidenceCheckAt"`
	NextConfidenceCheckAt       *time.Time `json:"nextConfidenceCheckAt"`
	ConfidenceLevel             *int       `json:"confidenceLevel"`
}

// PhysicalAddressRequest declares the structured postal fields.
type PhysicalAddressRequest struct {
	GeographicCoordinates    *entity.GeoCoordinate `json:"geographicCoordinates,omitempty"`
	Country                  *string               `json:"country"`
	AdministrativeAreaLevel1 *string               `json:"administrativeAreaLevel1,omitempty"`
	AdministrativeAreaLevel2 *string               `json:"administrativeAreaLevel2,omitempty"`
	AdministrativeAreaLevel3 *string               `json:"administrativeAreaLevel3,omitempty"`
	PostalCode               *string               `json:"postalCode,omitempty"`
	City                     *string               `json:"city"`
	District                 *string               `json:"district,omitempty"`
	Street                   *entity.Street        `json:"street,omitempty"`
	CompanyPostalCode        *string               `json:"companyPostalCode,omitempty"`
	IndustrialZone           *string               `json:"industrialZone,omitempty"`
	Building                 *string               `json:"building,omitempty"`
	Floor                    *string               `json:"floor,omitempty"`
	Door                     *string               `json:"door,omitempty"`
}

// AlternativeAddressRequest declares the optional PO-box-style block.
type AlternativeAddressRequest struct {
	GeographicCoordinates    *entity.GeoCoordinate `json:"geographicCoordinates,omitempty"`
	Country                  *string               `json:"country"`
	AdministrativeAreaLevel1 *string               `json:"administrativeAreaLevel1,omitempty"`
	PostalCode               *string               `json:"postalCode,omitempty"`
	City                     *string               `json:"city"`
	DeliveryServiceType      *string               `json:"deliveryServiceType"`
	DeliveryServiceQualifier *string               `json:"deliveryServiceQualifier,omitempty"`
	DeliveryServiceNumber    *string               `json:"deliveryServiceNumber"`
}

// AddressPayload is the address shape embedded in legal entity and site
// requests (legal address / main address).
type AddressPayload struct {
	Name               *string                    `json:"name,omitempty"`
	Confidence         *ConfidenceRequest         `json:"confidenceCriteria"`
	PhysicalAddress    *PhysicalAddressRequest    `json:"physicalPostalAddress"`
	AlternativeAddress *AlternativeAddressRequest `json:"alternativePostalAddress,omitempty"`
	Identifiers        []IdentifierRequest        `json:"identifiers,omitempty"`
	States             []StateRequest             `json:"states,omitempty"`
}

// --- Legal entities ---

// LegalEntityCreateRequest creates a legal entity together with its legal address.
type LegalEntityCreateRequest struct {
	Index           string                  `json:"index"`
	LegalName       *string                 `json:"legalName"`
	ShortName       *string                 `json:"legalShortName,omitempty"`
	LegalFormKey    *string                 `json:"legalForm,omitempty"`
	Identifiers     []IdentifierRequest     `json:"identifiers,omitempty"`
	States          []StateRequest          `json:"states,omitempty"`
	Classifications []ClassificationRequest `json:"classifications,omitempty"`
	Confidence      *ConfidenceRequest      `json:"confidenceCriteria"`
	LegalAddress    *AddressPayload         `json:"legalAddress"`
}

// LegalEntityUpdateRequest replaces the stored state of a legal entity and its
// legal address. Collection-valued fields are full-replace, never merged.
type LegalEntityUpdateRequest struct {
	BPN             string                  `json:"bpnl"`
	LegalName       *string                 `json:"legalName"`
	ShortName       *string                 `json:"legalShortName,omitempty"`
	LegalFormKey    *string                 `json:"legalForm,omitempty"`
	Identifiers     []IdentifierRequest     `json:"identifiers,omitempty"`
	States          []StateRequest          `json:"states,omitempty"`
	Classifications []ClassificationRequest `json:"classifications,omitempty"`
	Confidence      *ConfidenceRequest      `json:"confidenceCriteria"`
	LegalAddress    *AddressPayload         `json:"legalAddress"`
}

// --- Sites ---

// SiteCreateRequest creates a site together with its main address.
type SiteCreateRequest struct {
	Index          string             `json:"index"`
	Name           *string            `json:"name"`
	States         []StateRequest     `json:"states,omitempty"`
	Confidence     *ConfidenceRequest `json:"confidenceCriteria"`
	LegalEntityBPN *string            `json:"bpnlParent"`
	MainAddress    *AddressPayload    `json:"mainAddress"`
}

// SiteWithLegalReferenceRequest creates a site whose main address aliases the
// parent legal entity's existing legal address. No address BPN is issued.
type SiteWithLegalReferenceRequest struct {
	Index          string             `json:"index"`
	Name           *string            `json:"name"`
	States         []StateRequest     `json:"states,omitempty"`
	Confidence     *ConfidenceRequest `json:"confidenceCriteria"`
	LegalEntityBPN *string            `json:"bpnlParent"`
}

// SiteUpdateRequest replaces the stored state of a site and its main address.
type SiteUpdateRequest struct {
	BPN         string             `json:"bpns"`
	Name        *string            `json:"name"`
	States      []StateRequest     `json:"states,omitempty"`
	Confidence  *ConfidenceRequest `json:"confidenceCriteria"`
	MainAddress *AddressPayload    `json:"mainAddress"`
}

// --- Addresses ---

// AddressCreateRequest creates an additional address under a legal entity or site.
type AddressCreateRequest struct {
	Index              string                     `json:"index"`
	ParentBPN          *string                    `json:"bpnParent"`
	Name               *string                    `json:"name,omitempty"`
	Confidence         *ConfidenceRequest         `json:"confidenceCriteria"`
	PhysicalAddress    *PhysicalAddressRequest    `json:"physicalPostalAddress"`
	AlternativeAddress *AlternativeAddressRequest `json:"alternativePostalAddress,omitempty"`
	Identifiers        []IdentifierRequest        `json:"identifiers,omitempty"`
	States             []StateRequest             `json:"states,omitempty"`
}

// AddressUpdateRequest replaces the stored state of an address.
type AddressUpdateRequest struct {
	BPN                string                     `json:"bpna"`
	Name               *string                    `json:"name,omitempty"`
	Confidence         *ConfidenceRequest         `json:"confidenceCriteria"`
	PhysicalAddress    *PhysicalAddressRequest    `json:"physicalPostalAddress"`
	AlternativeAddress *AlternativeAddressRequest `json:"alternativePostalAddress,omitempty"`
	Identifiers        []IdentifierRequest        `json:"identifiers,omitempty"`
	States             []StateRequest             `json:"states,omitempty"`
}

// --- Metadata key collection ---

func (p *AddressPayload) collectKeys(keys *metadata.Keys) {
	if p == nil {
		return
	}
	for _, ident := range p.Identifiers {
		keys.IdentifierTypes = append(keys.IdentifierTypes, ident.TypeKey)
	}
	collectAddressAreaKeys(keys, p.PhysicalAddress, p.AlternativeAddress)
}

func collectAddressAreaKeys(keys *metadata.Keys, phys *PhysicalAddressRequest, alt *AlternativeAddressRequest) {
	if phys != nil && phys.AdministrativeAreaLevel1 != nil {
		keys.Regions = append(keys.Regions, *phys.AdministrativeAreaLevel1)
	}
	if alt != nil && alt.AdministrativeAreaLevel1 != nil {
		keys.Regions = append(keys.Regions, *alt.AdministrativeAreaLevel1)
	}
}

func legalEntityCreateKeys(requests []LegalEntityCreateRequest) metadata.Keys {
	var keys metadata.Keys
	for _, req := range requests {
		if req.LegalFormKey != nil {
			keys.LegalForms = append(keys.LegalForms, *req.LegalFormKey)
		}
		for _, ident := range req.Identifiers {
			keys.IdentifierTypes = append(keys.IdentifierTypes, ident.TypeKey)
		}
		req.LegalAddress.collectKeys(&keys)
	}
	return keys
}

func legalEntityUpdateKeys(requests []LegalEntityUpdateRequest) metadata.Keys {
	var keys metadata.Keys
	for _, req := range requests {
		if req.LegalFormKey != nil {
			keys.LegalForms = append(keys.LegalForms, *req.LegalFormKey)
		}
		for _, ident := range req.Identifiers {
			keys.IdentifierTypes = append(keys.IdentifierTypes, ident.TypeKey)
		}
		req.LegalAddress.collectKeys(&keys)
	}
	return keys
}

func siteCreateKeys(requests []SiteCreateRequest) metadata.Keys {
	var keys metadata.Keys
	for _, req := range requests {
		req.MainAddress.collectKeys(&keys)
	}
	return keys
}

func siteUpdateKeys(requests []SiteUpdateRequest) metadata.Keys {
	var keys metadata.Keys
	for _, req := range requests {
		req.MainAddress.collectKeys(&keys)
	}
	return keys
}

func addressCreateKeys(requests []AddressCreateRequest) metadata.Keys {
	var keys metadata.Keys
	for _, req := range requests {
		for _, ident := range req.Identifiers {
			keys.IdentifierTypes = append(keys.IdentifierTypes, ident.TypeKey)
		}
		collectAddressAreaKeys(&keys, req.PhysicalAddress, req.AlternativeAddress)
	}
	return keys
}

func addressUpdateKeys(requests []AddressUpdateRequest) metadata.Keys {
	var keys metadata.Keys
	for _, req := range requests {
		for _, ident := range req.Identifiers {
			keys.IdentifierTypes = append(keys.IdentifierTypes, ident.TypeKey)
		}
		collectAddressAreaKeys(&keys, req.PhysicalAddress, req.AlternativeAddress)
	}
	return keys
}
