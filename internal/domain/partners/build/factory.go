package build

import (
	"sort"
	"time"

	"bpdm/internal/core/entity"
	"bpdm/internal/domain/partners/address"
	"bpdm/internal/domain/partners/legalentity"
	"bpdm/internal/domain/partners/metadata"
	"bpdm/internal/domain/partners/site"
)

// Construction stage: turn validated requests into domain records. All inputs
// checked in the validation stage are dereferenced here without re-checking.
// Times are normalized to UTC so stored and rebuilt records compare equal.

func buildLegalEntity(req LegalEntityCreateRequest, bpnl, addressBPN string, meta metadata.Resolved) (*legalentity.LegalEntity, *address.Address) {
	le := legalentity.New(bpnl, *req.LegalName)
	le.ShortName = req.ShortName
	le.LegalFormKey = resolveLegalForm(req.LegalFormKey, meta)
	le.Confidence = buildConfidence(req.Confidence)
	le.Identifiers = buildIdentifiers(req.Identifiers)
	le.States = buildStates(req.States)
	le.Classifications = buildClassifications(req.Classifications)
	le.LegalAddressBPN = addressBPN

	addr := buildAddress(addressBPN, req.LegalAddress, meta)
	addr.SetLegalEntityParent(bpnl, true)
	return le, addr
}

func applyLegalEntityUpdate(le *legalentity.LegalEntity, req LegalEntityUpdateRequest, meta metadata.Resolved, now time.Time) {
	le.LegalName = *req.LegalName
	le.ShortName = req.ShortName
	le.LegalFormKey = resolveLegalForm(req.LegalFormKey, meta)
	le.Confidence = buildConfidence(req.Confidence)
	le.Identifiers = buildIdentifiers(req.Identifiers)
	le.States = buildStates(req.States)
	le.Classifications = buildClassifications(req.Classifications)
	le.RefreshCurrentness()
	le.SetUpdatedAt(now)
}

func buildSite(req SiteCreateRequest, bpns, addressBPN string, meta metadata.Resolved) (*site.Site, *address.Address) {
	s := site.New(bpns, *req.Name, *req.LegalEntityBPN)
	s.MainAddressBPN = addressBPN
	s.Confidence = buildConfidence(req.Confidence)
	s.States = buildStates(req.States)

	addr := buildAddress(addressBPN, req.MainAddress, meta)
	addr.SetSiteParent(bpns, true)
	return s, addr
}

// buildSiteWithLegalReference creates a site whose main address aliases the
// parent's legal address. The address record is not touched; it keeps the
// legal entity as its canonical parent.
func buildSiteWithLegalReference(req SiteWithLegalReferenceRequest, bpns, legalAddressBPN string) *site.Site {
	s := site.New(bpns, *req.Name, *req.LegalEntityBPN)
	s.MainAddressBPN = legalAddressBPN
	s.Confidence = buildConfidence(req.Confidence)
	s.States = buildStates(req.States)
	return s
}

func applySiteUpdate(s *site.Site, req SiteUpdateRequest, now time.Time) {
	s.Name = *req.Name
	s.Confidence = buildConfidence(req.Confidence)
	s.States = buildStates(req.States)
	s.SetUpdatedAt(now)
}

func buildStandaloneAddress(req AddressCreateRequest, bpna string, meta metadata.Resolved) *address.Address {
	addr := address.New(bpna)
	addr.Name = req.Name
	addr.Confidence = buildConfidence(req.Confidence)
	addr.PhysicalAddress = buildPhysicalAddress(req.PhysicalAddress, meta)
	addr.AlternativeAddress = buildAlternativeAddress(req.AlternativeAddress, meta)
	addr.Identifiers = buildIdentifiers(req.Identifiers)
	addr.States = buildStates(req.States)
	return addr
}

func applyAddressUpdate(a *address.Address, req AddressUpdateRequest, meta metadata.Resolved, now time.Time) {
	a.Name = req.Name
	a.Confidence = buildConfidence(req.Confidence)
	a.PhysicalAddress = buildPhysicalAddress(req.PhysicalAddress, meta)
	a.AlternativeAddress = buildAlternativeAddress(req.AlternativeAddress, meta)
	a.Identifiers = buildIdentifiers(req.Identifiers)
	a.States = buildStates(req.States)
	a.SetUpdatedAt(now)
}

// applyEmbeddedAddressUpdate replaces the mutable fields of a legal/main
// address from the payload embedded in the owning entity's update request.
// Parent wiring and role flags are kept as stored.
func applyEmbeddedAddressUpdate(a *address.Address, p *AddressPayload, meta metadata.Resolved, now time.Time) {
	a.Name = p.Name
	a.Confidence = buildConfidence(p.Confidence)
	a.PhysicalAddress = buildPhysicalAddress(p.PhysicalAddress, meta)
	a.AlternativeAddress = buildAlternativeAddress(p.AlternativeAddress, meta)
	a.Identifiers = buildIdentifiers(p.Identifiers)
	a.States = buildStates(p.States)
	a.SetUpdatedAt(now)
}

func buildAddress(bpna string, p *AddressPayload, meta metadata.Resolved) *address.Address {
	addr := address.New(bpna)
	addr.Name = p.Name
	addr.Confidence = buildConfidence(p.Confidence)
	addr.PhysicalAddress = buildPhysicalAddress(p.PhysicalAddress, meta)
	addr.AlternativeAddress = buildAlternativeAddress(p.AlternativeAddress, meta)
	addr.Identifiers = buildIdentifiers(p.Identifiers)
	addr.States = buildStates(p.States)
	return addr
}

// --- Value blocks ---

func buildConfidence(c *ConfidenceRequest) entity.ConfidenceCriteria {
	return entity.ConfidenceCriteria{
		SharedByOwner:               *c.SharedByOwner,
		CheckedByExternalDataSource: *c.CheckedByExternalDataSource,
		NumberOfSharingMembers:      *c.NumberOfSharingMembers,
		LastConfidenceCheckAt:       utc(*c.LastConfidenceCheckAt),
		NextConfidenceCheckAt:       utc(*c.NextConfidenceCheckAt),
		ConfidenceLevel:             *c.ConfidenceLevel,
	}
}

// buildIdentifiers preserves request order; identifier order is significant.
func buildIdentifiers(reqs []IdentifierRequest) entity.Identifiers {
	if len(reqs) == 0 {
		return nil
	}
	out := make(entity.Identifiers, len(reqs))
	for i, r := range reqs {
		out[i] = entity.Identifier{TypeKey: r.TypeKey, Value: r.Value, IssuingBody: r.IssuingBody}
	}
	return out
}

// buildStates preserves request order; state order is significant.
func buildStates(reqs []StateRequest) entity.States {
	if len(reqs) == 0 {
		return nil
	}
	out := make(entity.States, len(reqs))
	for i, r := range reqs {
		out[i] = entity.State{
			ValidFrom: utcPtr(r.ValidFrom),
			ValidTo:   utcPtr(r.ValidTo),
			Type:      *r.Type,
		}
	}
	return out
}

// buildClassifications sorts by type key then code then value so that two
// requests carrying the same set in different order produce the same record.
func buildClassifications(reqs []ClassificationRequest) entity.Classifications {
	if len(reqs) == 0 {
		return nil
	}
	out := make(entity.Classifications, len(reqs))
	for i, r := range reqs {
		out[i] = entity.Classification{Code: r.Code, Value: r.Value, TypeKey: r.TypeKey}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TypeKey != out[j].TypeKey {
			return out[i].TypeKey < out[j].TypeKey
		}
		if ci, cj := strOrEmpty(out[i].Code), strOrEmpty(out[j].Code); ci != cj {
			return ci < cj
		}
		return strOrEmpty(out[i].Value) < strOrEmpty(out[j].Value)
	})
	return out
}

func buildPhysicalAddress(r *PhysicalAddressRequest, meta metadata.Resolved) entity.PhysicalPostalAddress {
	return entity.PhysicalPostalAddress{
		GeographicCoordinates:    r.GeographicCoordinates,
		Country:                  *r.Country,
		AdministrativeAreaLevel1: resolveRegion(r.AdministrativeAreaLevel1, meta),
		AdministrativeAreaLevel2: r.AdministrativeAreaLevel2,
		AdministrativeAreaLevel3: r.AdministrativeAreaLevel3,
		PostalCode:               r.PostalCode,
		City:                     *r.City,
		District:                 r.District,
		Street:                   r.Street,
		CompanyPostalCode:        r.CompanyPostalCode,
		IndustrialZone:           r.IndustrialZone,
		Building:                 r.Building,
		Floor:                    r.Floor,
		Door:                     r.Door,
	}
}

func buildAlternativeAddress(r *AlternativeAddressRequest, meta metadata.Resolved) *entity.AlternativePostalAddress {
	if r == nil {
		return nil
	}
	return &entity.AlternativePostalAddress{
		GeographicCoordinates:    r.GeographicCoordinates,
		Country:                  *r.Country,
		AdministrativeAreaLevel1: resolveRegion(r.AdministrativeAreaLevel1, meta),
		PostalCode:               r.PostalCode,
		City:                     *r.City,
		DeliveryServiceType:      *r.DeliveryServiceType,
		DeliveryServiceQualifier: r.DeliveryServiceQualifier,
		DeliveryServiceNumber:    *r.DeliveryServiceNumber,
	}
}

// resolveLegalForm keeps the key only when the lookup record exists; an
// unknown key resolves to absent without failing the request.
func resolveLegalForm(key *string, meta metadata.Resolved) *string {
	if key == nil || *key == "" {
		return nil
	}
	if _, ok := meta.LegalForms[*key]; !ok {
		return nil
	}
	return key
}

// resolveRegion keeps the region code only when the lookup record exists.
func resolveRegion(code *string, meta metadata.Resolved) *string {
	if code == nil || *code == "" {
		return nil
	}
	if _, ok := meta.Regions[*code]; !ok {
		return nil
	}
	return code
}

func utc(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := utc(*t)
	return &u
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
