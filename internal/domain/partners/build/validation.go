package build

import (
	"fmt"

	"bpdm/internal/core/apperror"
	"bpdm/internal/core/bpn"
	"bpdm/internal/domain/partners/metadata"
)

// Validation stage: structural and referential checks against a request batch.
// Side-effect-free; requests with zero errors are "valid" and proceed, a
// request with any error is entirely excluded from downstream processing.
// Unknown identifier-type references are reported here as per-request errors
// rather than surfacing later as construction faults.

func validateLegalEntityCreates(requests []LegalEntityCreateRequest, meta metadata.Resolved) ([]LegalEntityCreateRequest, []ErrorInfo) {
	dupKeys := duplicateRequestKeys(requests, func(r LegalEntityCreateRequest) string { return r.Index })
	dupIdents := duplicateIdentifiers(requests, func(r LegalEntityCreateRequest) []IdentifierRequest { return r.Identifiers })

	valid := make([]LegalEntityCreateRequest, 0, len(requests))
	var errs []ErrorInfo
	for i, req := range requests {
		var reqErrs []ErrorInfo
		key := req.Index

		if dupKeys[key] {
			reqErrs = append(reqErrs, ErrorInfo{key, apperror.CodeValidation, "duplicate request index in batch"})
		}
		if dupIdents[i] {
			reqErrs = append(reqErrs, ErrorInfo{key, apperror.CodeDuplicateIdentifier, "identifier duplicated within batch"})
		}
		if req.LegalName == nil || *req.LegalName == "" {
			reqErrs = append(reqErrs, missingField(key, "legal entity", "legalName"))
		}
		reqErrs = append(reqErrs, validateConfidence(key, "legal entity", req.Confidence)...)
		reqErrs = append(reqErrs, validateIdentifierTypes(key, req.Identifiers, meta)...)
		reqErrs = append(reqErrs, validateStates(key, req.States)...)
		if req.LegalAddress == nil {
			reqErrs = append(reqErrs, missingField(key, "legal entity", "legalAddress"))
		} else {
			reqErrs = append(reqErrs, validateAddressPayload(key, "legal address", req.LegalAddress, meta)...)
		}

		if len(reqErrs) == 0 {
			valid = append(valid, req)
		} else {
			errs = append(errs, reqErrs...)
		}
	}
	return valid, errs
}

func validateLegalEntityUpdates(requests []LegalEntityUpdateRequest, meta metadata.Resolved) ([]LegalEntityUpdateRequest, []ErrorInfo) {
	dupKeys := duplicateRequestKeys(requests, func(r LegalEntityUpdateRequest) string { return r.BPN })
	dupIdents := duplicateIdentifiers(requests, func(r LegalEntityUpdateRequest) []IdentifierRequest { return r.Identifiers })

	valid := make([]LegalEntityUpdateRequest, 0, len(requests))
	var errs []ErrorInfo
	for i, req := range requests {
		var reqErrs []ErrorInfo
		key := req.BPN

		if !bpn.IsKind(req.BPN, bpn.KindLegalEntity) {
			reqErrs = append(reqErrs, ErrorInfo{key, apperror.CodeValidation, "malformed legal entity BPN"})
		}
		if dupKeys[key] {
			reqErrs = append(reqErrs, ErrorInfo{key, apperror.CodeValidation, "duplicate BPN in batch"})
		}
		if dupIdents[i] {
			reqErrs = append(reqErrs, ErrorInfo{key, apperror.CodeDuplicateIdentifier, "identifier duplicated within batch"})
		}
		if req.LegalName == nil || *req.LegalName == "" {
			reqErrs = append(reqErrs, missingField(key, "legal entity", "legalName"))
		}
		reqErrs = append(reqErrs, validateConfidence(key, "legal entity", req.Confidence)...)
		reqErrs = append(reqErrs, validateIdentifierTypes(key, req.Identifiers, meta)...)
		reqErrs = append(reqErrs, validateStates(key, req.States)...)
		if req.LegalAddress == nil {
			reqErrs = append(reqErrs, missingField(key, "legal entity", "legalAddress"))
		} else {
			reqErrs = append(reqErrs, validateAddressPayload(key, "legal address", req.LegalAddress, meta)...)
		}

		if len(reqErrs) == 0 {
			valid = append(valid, req)
		} else {
			errs = append(errs, reqErrs...)
		}
	}
	return valid, errs
}

func validateSiteCreates(requests []SiteCreateRequest, meta metadata.Resolved) ([]SiteCreateRequest, []ErrorInfo) {
	dupKeys := duplicateRequestKeys(requests, func(r SiteCreateRequest) string { return r.Index })

	valid := make([]SiteCreateRequest, 0, len(requests))
	var errs []ErrorInfo
	for _, req := range requests {
		var reqErrs []ErrorInfo
		key := req.Index

		if dupKeys[key] {
			reqErrs = append(reqErrs, ErrorInfo{key, apperror.CodeValidation, "duplicate request index in batch"})
		}
		reqErrs = append(reqErrs, validateSiteCommon(key, req.Name, req.Confidence, req.States, req.LegalEntityBPN)...)
		if req.MainAddress == nil {
			reqErrs = append(reqErrs, missingField(key, "site", "mainAddress"))
		} else {
			reqErrs = append(reqErrs, validateAddressPayload(key, "main address", req.MainAddress, meta)...)
		}

		if len(reqErrs) == 0 {
			valid = append(valid, req)
		} else {
			errs = append(errs, reqErrs...)
		}
	}
	return valid, errs
}

func validateSitesWithLegalReference(requests []SiteWithLegalReferenceRequest) ([]SiteWithLegalReferenceRequest, []ErrorInfo) {
	dupKeys := duplicateRequestKeys(requests, func(r SiteWithLegalReferenceRequest) string { return r.Index })

	valid := make([]SiteWithLegalReferenceRequest, 0, len(requests))
	var errs []ErrorInfo
	for _, req := range requests {
		var reqErrs []ErrorInfo
		key := req.Index

		if dupKeys[key] {
			reqErrs = append(reqErrs, ErrorInfo{key, apperror.CodeValidation, "duplicate request index in batch"})
		}
		reqErrs = append(reqErrs, validateSiteCommon(key, req.Name, req.Confidence, req.States, req.LegalEntityBPN)...)

		if len(reqErrs) == 0 {
			valid = append(valid, req)
		} else {
			errs = append(errs, reqErrs...)
		}
	}
	return valid, errs
}

func validateSiteUpdates(requests []SiteUpdateRequest, meta metadata.Resolved) ([]SiteUpdateRequest, []ErrorInfo) {
	dupKeys := duplicateRequestKeys(requests, func(r SiteUpdateRequest) string { return r.BPN })

	valid := make([]SiteUpdateRequest, 0, len(requests))
	var errs []ErrorInfo
	for _, req := range requests {
		var reqErrs []ErrorInfo
		key := req.BPN

		if !bpn.IsKind(req.BPN, bpn.KindSite) {
			reqErrs = append(reqErrs, ErrorInfo{key, apperror.CodeValidation, "malformed site BPN"})
		}
		if dupKeys[key] {
			reqErrs = append(reqErrs, ErrorInfo{key, apperror.CodeValidation, "duplicate BPN in batch"})
		}
		if req.Name == nil || *req.Name == "" {
			reqErrs = append(reqErrs, missingField(key, "site", "name"))
		}
		reqErrs = append(reqErrs, validateConfidence(key, "site", req.Confidence)...)
		reqErrs = append(reqErrs, validateStates(key, req.States)...)
		if req.MainAddress == nil {
			reqErrs = append(reqErrs, missingField(key, "site", "mainAddress"))
		} else {
			reqErrs = append(reqErrs, validateAddressPayload(key, "main address", req.MainAddress, meta)...)
		}

		if len(reqErrs) == 0 {
			valid = append(valid, req)
		} else {
			errs = append(errs, reqErrs...)
		}
	}
	return valid, errs
}

func validateAddressCreates(requests []AddressCreateRequest, meta metadata.Resolved) ([]AddressCreateRequest, []ErrorInfo) {
	dupKeys := duplicateRequestKeys(requests, func(r AddressCreateRequest) string { return r.Index })
	dupIdents := duplicateIdentifiers(requests, func(r AddressCreateRequest) []IdentifierRequest { return r.Identifiers })

	valid := make([]AddressCreateRequest, 0, len(requests))
	var errs []ErrorInfo
	for i, req := range requests {
		var reqErrs []ErrorInfo
		key := req.Index

		if dupKeys[key] {
			reqErrs = append(reqErrs, ErrorInfo{key, apperror.CodeValidation, "duplicate request index in batch"})
		}
		if dupIdents[i] {
			reqErrs = append(reqErrs, ErrorInfo{key, apperror.CodeDuplicateIdentifier, "identifier duplicated within batch"})
		}
		if req.ParentBPN == nil || *req.ParentBPN == "" {
			reqErrs = append(reqErrs, missingField(key, "address", "bpnParent"))
		} else if kind, err := bpn.Classify(*req.ParentBPN); err != nil || (kind != bpn.KindLegalEntity && kind != bpn.KindSite) {
			reqErrs = append(reqErrs, ErrorInfo{key, apperror.CodeValidation, "parent BPN must be a legal entity or site BPN"})
		}
		reqErrs = append(reqErrs, validateConfidence(key, "address", req.Confidence)...)
		reqErrs = append(reqErrs, validateIdentifierTypes(key, req.Identifiers, meta)...)
		reqErrs = append(reqErrs, validateStates(key, req.States)...)
		reqErrs = append(reqErrs, validatePhysical(key, "address", req.PhysicalAddress)...)
		reqErrs = append(reqErrs, validateAlternative(key, "address", req.AlternativeAddress)...)

		if len(reqErrs) == 0 {
			valid = append(valid, req)
		} else {
			errs = append(errs, reqErrs...)
		}
	}
	return valid, errs
}

func validateAddressUpdates(requests []AddressUpdateRequest, meta metadata.Resolved) ([]AddressUpdateRequest, []ErrorInfo) {
	dupKeys := duplicateRequestKeys(requests, func(r AddressUpdateRequest) string { return r.BPN })
	dupIdents := duplicateIdentifiers(requests, func(r AddressUpdateRequest) []IdentifierRequest { return r.Identifiers })

	valid := make([]AddressUpdateRequest, 0, len(requests))
	var errs []ErrorInfo
	for i, req := range requests {
		var reqErrs []ErrorInfo
		key := req.BPN

		if !bpn.IsKind(req.BPN, bpn.KindAddress) {
			reqErrs = append(reqErrs, ErrorInfo{key, apperror.CodeValidation, "malformed address BPN"})
		}
		if dupKeys[key] {
			reqErrs = append(reqErrs, ErrorInfo{key, apperror.CodeValidation, "duplicate BPN in batch"})
		}
		if dupIdents[i] {
			reqErrs = append(reqErrs, ErrorInfo{key, apperror.CodeDuplicateIdentifier, "identifier duplicated within batch"})
		}
		reqErrs = append(reqErrs, validateConfidence(key, "address", req.Confidence)...)
		reqErrs = append(reqErrs, validateIdentifierTypes(key, req.Identifiers, meta)...)
		reqErrs = append(reqErrs, validateStates(key, req.States)...)
		reqErrs = append(reqErrs, validatePhysical(key, "address", req.PhysicalAddress)...)
		reqErrs = append(reqErrs, validateAlternative(key, "address", req.AlternativeAddress)...)

		if len(reqErrs) == 0 {
			valid = append(valid, req)
		} else {
			errs = append(errs, reqErrs...)
		}
	}
	return valid, errs
}

// --- Shared checks ---

func validateSiteCommon(key string, name *string, confidence *ConfidenceRequest, states []StateRequest, parentBPN *string) []ErrorInfo {
	var errs []ErrorInfo
	if name == nil || *name == "" {
		errs = append(errs, missingField(key, "site", "name"))
	}
	errs = append(errs, validateConfidence(key, "site", confidence)...)
	errs = append(errs, validateStates(key, states)...)
	if parentBPN == nil || *parentBPN == "" {
		errs = append(errs, missingField(key, "site", "bpnlParent"))
	} else if !bpn.IsKind(*parentBPN, bpn.KindLegalEntity) {
		errs = append(errs, ErrorInfo{key, apperror.CodeValidation, "malformed parent legal entity BPN"})
	}
	return errs
}

func validateAddressPayload(key, scope string, payload *AddressPayload, meta metadata.Resolved) []ErrorInfo {
	var errs []ErrorInfo
	errs = append(errs, validateConfidence(key, scope, payload.Confidence)...)
	errs = append(errs, validateIdentifierTypes(key, payload.Identifiers, meta)...)
	errs = append(errs, validateStates(key, payload.States)...)
	errs = append(errs, validatePhysical(key, scope, payload.PhysicalAddress)...)
	errs = append(errs, validateAlternative(key, scope, payload.AlternativeAddress)...)
	return errs
}

func validateConfidence(key, scope string, c *ConfidenceRequest) []ErrorInfo {
	if c == nil {
		return []ErrorInfo{missingField(key, scope, "confidenceCriteria")}
	}
	var errs []ErrorInfo
	if c.SharedByOwner == nil {
		errs = append(errs, missingField(key, scope, "confidenceCriteria.sharedByOwner"))
	}
	if c.CheckedByExternalDataSource == nil {
		errs = append(errs, missingField(key, scope, "confidenceCriteria.checkedByExternalDataSource"))
	}
	if c.NumberOfSharingMembers == nil {
		errs = append(errs, missingField(key, scope, "confidenceCriteria.numberOfSharingMembers"))
	}
	if c.LastConfidenceCheckAt == nil {
		errs = append(errs, missingField(key, scope, "confidenceCriteria.lastConfidenceCheckAt"))
	}
	if c.NextConfidenceCheckAt == nil {
		errs = append(errs, missingField(key, scope, "confidenceCriteria.nextConfidenceCheckAt"))
	}
	if c.ConfidenceLevel == nil {
		errs = append(errs, missingField(key, scope, "confidenceCriteria.confidenceLevel"))
	}
	return errs
}

func validatePhysical(key, scope string, phys *PhysicalAddressRequest) []ErrorInfo {
	if phys == nil {
		return []ErrorInfo{missingField(key, scope, "physicalPostalAddress")}
	}
	var errs []ErrorInfo
	if phys.Country == nil || *phys.Country == "" {
		errs = append(errs, missingField(key, scope, "physicalPostalAddress.country"))
	}
	if phys.City == nil || *phys.City == "" {
		errs = append(errs, missingField(key, scope, "physicalPostalAddress.city"))
	}
	return errs
}

func validateAlternative(key, scope string, alt *AlternativeAddressRequest) []ErrorInfo {
	if alt == nil {
		return nil
	}
	var errs []ErrorInfo
	if alt.Country == nil || *alt.Country == "" {
		errs = append(errs, missingField(key, scope, "alternativePostalAddress.country"))
	}
	if alt.City == nil || *alt.City == "" {
		errs = append(errs, missingField(key, scope, "alternativePostalAddress.city"))
	}
	if alt.DeliveryServiceType == nil || *alt.DeliveryServiceType == "" {
		errs = append(errs, missingField(key, scope, "alternativePostalAddress.deliveryServiceType"))
	}
	if alt.DeliveryServiceNumber == nil || *alt.DeliveryServiceNumber == "" {
		errs = append(errs, missingField(key, scope, "alternativePostalAddress.deliveryServiceNumber"))
	}
	return errs
}

func validateIdentifierTypes(key string, idents []IdentifierRequest, meta metadata.Resolved) []ErrorInfo {
	var errs []ErrorInfo
	for _, ident := range idents {
		if ident.TypeKey == "" {
			errs = append(errs, missingField(key, "identifier", "typeKey"))
			continue
		}
		if _, ok := meta.IDTypes[ident.TypeKey]; !ok {
			errs = append(errs, ErrorInfo{
				RequestKey: key,
				Code:       apperror.CodeUnknownMetadata,
				Message:    fmt.Sprintf("unknown identifier type %q", ident.TypeKey),
			})
		}
	}
	return errs
}

func validateStates(key string, states []StateRequest) []ErrorInfo {
	var errs []ErrorInfo
	for _, st := range states {
		if st.Type == nil || *st.Type == "" {
			errs = append(errs, missingField(key, "state", "type"))
		}
	}
	return errs
}

func missingField(key, scope, field string) ErrorInfo {
	return ErrorInfo{
		RequestKey: key,
		Code:       apperror.CodeMissingRequiredField,
		Message:    fmt.Sprintf("%s is missing required field %s", scope, field),
	}
}

// --- Batch-level checks ---

// duplicateRequestKeys flags request keys appearing more than once.
func duplicateRequestKeys[R any](requests []R, keyOf func(R) string) map[string]bool {
	counts := make(map[string]int, len(requests))
	for _, r := range requests {
		counts[keyOf(r)]++
	}
	dup := make(map[string]bool)
	for k, n := range counts {
		if n > 1 {
			dup[k] = true
		}
	}
	return dup
}

// duplicateIdentifiers flags requests sharing an external identifier
// (type + value pair) with another request in the same batch.
func duplicateIdentifiers[R any](requests []R, identsOf func(R) []IdentifierRequest) map[int]bool {
	owners := make(map[string][]int)
	for i, r := range requests {
		seen := make(map[string]bool)
		for _, ident := range identsOf(r) {
			pair := ident.TypeKey + "\x00" + ident.Value
			if seen[pair] {
				// Within one request the same pair also counts as duplicate.
				owners[pair] = append(owners[pair], i)
				continue
			}
			seen[pair] = true
			owners[pair] = append(owners[pair], i)
		}
	}

	dup := make(map[int]bool)
	for _, indexes := range owners {
		if len(indexes) > 1 {
			for _, i := range indexes {
				dup[i] = true
			}
		}
	}
	return dup
}
