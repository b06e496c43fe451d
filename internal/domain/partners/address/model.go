// Package address provides the LogisticAddress master-data record: a mailing
// or delivery location attached to exactly one legal entity or site.
package address

import (
	"context"

	"bpdm/internal/core/apperror"
	"bpdm/internal/core/bpn"
	"bpdm/internal/core/entity"
)

// Address represents a logistic address.
// The parent reference is exclusive: exactly one of LegalEntityBPN and SiteBPN
// is set, never both, never neither.
type Address struct {
	entity.BasePartner

	// BPN is the immutable BPNA identifier
	BPN string `db:"bpn" json:"bpn"`

	// Name is an optional display name
	Name *string `db:"name" json:"name,omitempty"`

	// LegalEntityBPN is set when the parent is a legal entity
	LegalEntityBPN *string `db:"legal_entity_bpn" json:"legalEntityBpn,omitempty"`

	// SiteBPN is set when the parent is a site
	SiteBPN *string `db:"site_bpn" json:"siteBpn,omitempty"`

	// IsLegalAddress marks the parent legal entity's legal address
	IsLegalAddress bool `db:"is_legal_address" json:"isLegalAddress"`

	// IsMainAddress marks the parent site's main address
	IsMainAddress bool `db:"is_main_address" json:"isMainAddress"`

	// Confidence is the provenance/trust block
	Confidence entity.ConfidenceCriteria `db:"confidence" json:"confidenceCriteria"`

	// PhysicalAddress is the required structured postal block
	PhysicalAddress entity.PhysicalPostalAddress `db:"physical_address" json:"physicalPostalAddress"`

	// AlternativeAddress is the optional PO-box-style block
	AlternativeAddress *entity.AlternativePostalAddress `db:"alternative_address" json:"alternativePostalAddress,omitempty"`

	Identifiers entity.Identifiers `db:"identifiers" json:"identifiers"`
	States      entity.States      `db:"states" json:"states"`
}

// New creates an Address shell with a fresh row ID.
func New(bpna string) *Address {
	return &Address{
		BasePartner: entity.NewBasePartner(),
		BPN:         bpna,
	}
}

// SetLegalEntityParent wires the address to a legal entity and clears any site parent.
func (a *Address) SetLegalEntityParent(bpnl string, legalAddress bool) {
	a.LegalEntityBPN = &bpnl
	a.SiteBPN = nil
	a.IsLegalAddress = legalAddress
	a.IsMainAddress = false
}

// SetSiteParent wires the address to a site and clears any legal entity parent.
func (a *Address) SetSiteParent(bpns string, mainAddress bool) {
	a.SiteBPN = &bpns
	a.LegalEntityBPN = nil
	a.IsMainAddress = mainAddress
	a.IsLegalAddress = false
}

// ParentBPN returns the BPN of the single owning partner.
func (a *Address) ParentBPN() string {
	if a.LegalEntityBPN != nil {
		return *a.LegalEntityBPN
	}
	if a.SiteBPN != nil {
		return *a.SiteBPN
	}
	return ""
}

// Validate checks record invariants, including parent exclusivity.
func (a *Address) Validate(ctx context.Context) error {
	if !bpn.IsKind(a.BPN, bpn.KindAddress) {
		return apperror.NewValidation("invalid address BPN").WithDetail("bpn", a.BPN)
	}

	hasLegalEntity := a.LegalEntityBPN != nil && *a.LegalEntityBPN != ""
	hasSite := a.SiteBPN != nil && *a.SiteBPN != ""
	if hasLegalEntity == hasSite {
		return apperror.NewValidation("address must have exactly one parent (legal entity or site)").
			WithDetail("bpn", a.BPN)
	}
	if hasLegalEntity && !bpn.IsKind(*a.LegalEntityBPN, bpn.KindLegalEntity) {
		return apperror.NewValidation("invalid parent legal entity BPN").
			WithDetail("bpn", a.BPN).
			WithDetail("legalEntityBpn", *a.LegalEntityBPN)
	}
	if hasSite && !bpn.IsKind(*a.SiteBPN, bpn.KindSite) {
		return apperror.NewValidation("invalid parent site BPN").
			WithDetail("bpn", a.BPN).
			WithDetail("siteBpn", *a.SiteBPN)
	}

	if a.PhysicalAddress.Country == "" {
		return apperror.NewMissingField("physical address", "country")
	}
	if a.PhysicalAddress.City == "" {
		return apperror.NewMissingField("physical address", "city")
	}
	if alt := a.AlternativeAddress; alt != nil {
		if alt.DeliveryServiceType == "" {
			return apperror.NewMissingField("alternative address", "deliveryServiceType")
		}
		if alt.DeliveryServiceNumber == "" {
			return apperror.NewMissingField("alternative address", "deliveryServiceNumber")
		}
	}

	return nil
}
