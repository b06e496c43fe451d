// Package legalentity provides the LegalEntity master-data record, the
// top-level business partner kind. Every legal entity owns exactly one legal
// address, referenced by BPN.
package legalentity

import (
	"context"
	"time"

	"bpdm/internal/core/apperror"
	"bpdm/internal/core/bpn"
	"bpdm/internal/core/entity"
)

// LegalEntity represents a company or organization record.
type LegalEntity struct {
	entity.BasePartner

	// BPN is the immutable BPNL identifier
	BPN string `db:"bpn" json:"bpn"`

	// LegalName is the official registered name
	LegalName string `db:"legal_name" json:"legalName"`

	// ShortName is an optional trading/short name
	ShortName *string `db:"short_name" json:"shortName,omitempty"`

	// LegalFormKey references a LegalForm lookup record (nullable)
	LegalFormKey *string `db:"legal_form_key" json:"legalFormKey,omitempty"`

	// Currentness marks when the record was last confirmed accurate.
	// Only advances forward; recomputed on every create and update.
	Currentness time.Time `db:"currentness" json:"currentness"`

	// Confidence is the provenance/trust block
	Confidence entity.ConfidenceCriteria `db:"confidence" json:"confidenceCriteria"`

	Identifiers     entity.Identifiers     `db:"identifiers" json:"identifiers"`
	States          entity.States          `db:"states" json:"states"`
	Classifications entity.Classifications `db:"classifications" json:"classifications"`

	// LegalAddressBPN references the owned legal address (exactly one, mandatory)
	LegalAddressBPN string `db:"legal_address_bpn" json:"legalAddressBpn"`
}

// New creates a LegalEntity shell with a fresh row ID and currentness stamp.
func New(bpnl, legalName string) *LegalEntity {
	return &LegalEntity{
		BasePartner: entity.NewBasePartner(),
		BPN:         bpnl,
		LegalName:   legalName,
		Currentness: Now(),
	}
}

// Now returns the currentness instant: now in UTC truncated to microseconds,
// matching the storage resolution so round-tripped values compare equal.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// RefreshCurrentness advances the currentness stamp to now.
func (le *LegalEntity) RefreshCurrentness() {
	le.Currentness = Now()
}

// Validate checks record invariants.
func (le *LegalEntity) Validate(ctx context.Context) error {
	if !bpn.IsKind(le.BPN, bpn.KindLegalEntity) {
		return apperror.NewValidation("invalid legal entity BPN").WithDetail("bpn", le.BPN)
	}
	if le.LegalName == "" {
		return apperror.NewMissingField("legal entity", "legalName")
	}
	if !bpn.IsKind(le.LegalAddressBPN, bpn.KindAddress) {
		return apperror.NewValidation("invalid legal address BPN").
			WithDetail("bpn", le.BPN).
			WithDetail("legalAddressBpn", le.LegalAddressBPN)
	}
	return nil
}
