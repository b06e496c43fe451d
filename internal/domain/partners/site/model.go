// Package site provides the Site master-data record: a physical location
// belonging to a legal entity, with exactly one main address.
package site

import (
	"context"

	"bpdm/internal/core/apperror"
	"bpdm/internal/core/bpn"
	"bpdm/internal/core/entity"
)

// Site represents a physical location of a legal entity.
type Site struct {
	entity.BasePartner

	// BPN is the immutable BPNS identifier
	BPN string `db:"bpn" json:"bpn"`

	// Name is the site display name
	Name string `db:"name" json:"name"`

	// LegalEntityBPN references the owning legal entity
	LegalEntityBPN string `db:"legal_entity_bpn" json:"legalEntityBpn"`

	// MainAddressBPN references the site's main address (exactly one, mandatory).
	// May coincide with the parent's legal address; in that case the address
	// record keeps the legal entity as its canonical parent.
	MainAddressBPN string `db:"main_address_bpn" json:"mainAddressBpn"`

	// Confidence is the provenance/trust block
	Confidence entity.ConfidenceCriteria `db:"confidence" json:"confidenceCriteria"`

	States entity.States `db:"states" json:"states"`
}

// New creates a Site shell with a fresh row ID.
func New(bpns, name, legalEntityBPN string) *Site {
	return &Site{
		BasePartner:    entity.NewBasePartner(),
		BPN:            bpns,
		Name:           name,
		LegalEntityBPN: legalEntityBPN,
	}
}

// Validate checks record invariants.
func (s *Site) Validate(ctx context.Context) error {
	if !bpn.IsKind(s.BPN, bpn.KindSite) {
		return apperror.NewValidation("invalid site BPN").WithDetail("bpn", s.BPN)
	}
	if s.Name == "" {
		return apperror.NewMissingField("site", "name")
	}
	if !bpn.IsKind(s.LegalEntityBPN, bpn.KindLegalEntity) {
		return apperror.NewValidation("invalid parent legal entity BPN").
			WithDetail("bpn", s.BPN).
			WithDetail("legalEntityBpn", s.LegalEntityBPN)
	}
	if !bpn.IsKind(s.MainAddressBPN, bpn.KindAddress) {
		return apperror.NewValidation("invalid main address BPN").
			WithDetail("bpn", s.BPN).
			WithDetail("mainAddressBpn", s.MainAddressBPN)
	}
	return nil
}
