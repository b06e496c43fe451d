package build

import (
	"encoding/json"
	"reflect"

	"bpdm/internal/core/entity"
	"bpdm/internal/domain/partners/address"
	"bpdm/internal/domain/partners/legalentity"
	"bpdm/internal/domain/partners/site"
)

// Equivalence stage: decide whether an update produced a real structural
// change. Snapshots cover the business payload only; row identity, version,
// audit timestamps and the currentness stamp are excluded so a no-op update
// (which still advances currentness) yields no changelog entry.

// snapshot is the comparable view of a record, produced by a JSON round-trip
// so nested blocks and times are in one canonical shape. The same maps feed
// the changelog diff.
type snapshot map[string]any

func (s snapshot) Equal(other snapshot) bool {
	return reflect.DeepEqual(s, other)
}

func snapshotOf(view any) snapshot {
	raw, err := json.Marshal(view)
	if err != nil {
		// Views are plain data structs; marshalling cannot fail for them.
		return snapshot{}
	}
	var m snapshot
	if err := json.Unmarshal(raw, &m); err != nil {
		return snapshot{}
	}
	return m
}

type legalEntityView struct {
	LegalName       string                    `json:"legalName"`
	ShortName       *string                   `json:"shortName,omitempty"`
	LegalFormKey    *string                   `json:"legalFormKey,omitempty"`
	Confidence      entity.ConfidenceCriteria `json:"confidenceCriteria"`
	Identifiers     entity.Identifiers        `json:"identifiers,omitempty"`
	States          entity.States             `json:"states,omitempty"`
	Classifications entity.Classifications    `json:"classifications,omitempty"`
	LegalAddressBPN string                    `json:"legalAddressBpn"`
}

func snapshotLegalEntity(le *legalentity.LegalEntity) snapshot {
	return snapshotOf(legalEntityView{
		LegalName:       le.LegalName,
		ShortName:       le.ShortName,
		LegalFormKey:    le.LegalFormKey,
		Confidence:      le.Confidence,
		Identifiers:     le.Identifiers,
		States:          le.States,
		Classifications: le.Classifications,
		LegalAddressBPN: le.LegalAddressBPN,
	})
}

type siteView struct {
	Name           string                    `json:"name"`
	LegalEntityBPN string                    `json:"legalEntityBpn"`
	MainAddressBPN string                    `json:"mainAddressBpn"`
	Confidence     entity.ConfidenceCriteria `json:"confidenceCriteria"`
	States         entity.States             `json:"states,omitempty"`
}

func snapshotSite(s *site.Site) snapshot {
	return snapshotOf(siteView{
		Name:           s.Name,
		LegalEntityBPN: s.LegalEntityBPN,
		MainAddressBPN: s.MainAddressBPN,
		Confidence:     s.Confidence,
		States:         s.States,
	})
}

type addressView struct {
	Name               *string                          `json:"name,omitempty"`
	LegalEntityBPN     *string                          `json:"legalEntityBpn,omitempty"`
	SiteBPN            *string                          `json:"siteBpn,omitempty"`
	IsLegalAddress     bool                             `json:"isLegalAddress"`
	IsMainAddress      bool                             `json:"isMainAddress"`
	Confidence         entity.ConfidenceCriteria        `json:"confidenceCriteria"`
	PhysicalAddress    entity.PhysicalPostalAddress     `json:"physicalPostalAddress"`
	AlternativeAddress *entity.AlternativePostalAddress `json:"alternativePostalAddress,omitempty"`
	Identifiers        entity.Identifiers               `json:"identifiers,omitempty"`
	States             entity.States                    `json:"states,omitempty"`
}

func snapshotAddress(a *address.Address) snapshot {
	return snapshotOf(addressView{
		Name:               a.Name,
		LegalEntityBPN:     a.LegalEntityBPN,
		SiteBPN:            a.SiteBPN,
		IsLegalAddress:     a.IsLegalAddress,
		IsMainAddress:      a.IsMainAddress,
		Confidence:         a.Confidence,
		PhysicalAddress:    a.PhysicalAddress,
		AlternativeAddress: a.AlternativeAddress,
		Identifiers:        a.Identifiers,
		States:             a.States,
	})
}
