package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bpdm/internal/core/apperror"
)

func codesOf(errs []ErrorInfo) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func TestValidateLegalEntityCreatesMissingFields(t *testing.T) {
	req := legalEntityCreateReq("acme")
	req.LegalName = nil
	req.Confidence.ConfidenceLevel = nil
	req.LegalAddress.PhysicalAddress.Country = nil

	valid, errs := validateLegalEntityCreates([]LegalEntityCreateRequest{req}, testMeta())
	assert.Empty(t, valid)
	require.Len(t, errs, 3)
	for _, e := range errs {
		assert.Equal(t, "acme", e.RequestKey)
		assert.Equal(t, apperror.CodeMissingRequiredField, e.Code)
	}
}

func TestValidateLegalEntityCreatesMissingConfidenceBlock(t *testing.T) {
	req := legalEntityCreateReq("acme")
	req.Confidence = nil

	valid, errs := validateLegalEntityCreates([]LegalEntityCreateRequest{req}, testMeta())
	assert.Empty(t, valid)
	require.Len(t, errs, 1)
	assert.Equal(t, apperror.CodeMissingRequiredField, errs[0].Code)
}

func TestValidateAlternativeAddressDeliveryFields(t *testing.T) {
	req := addressCreateReq("a", testBPNL)
	req.AlternativeAddress = &AlternativeAddressRequest{
		Country: str("DE"),
		City:    str("Stuttgart"),
		// deliveryServiceType and deliveryServiceNumber missing
	}

	valid, errs := validateAddressCreates([]AddressCreateRequest{req}, testMeta())
	assert.Empty(t, valid)
	assert.Contains(t, codesOf(errs), apperror.CodeMissingRequiredField)
	assert.Len(t, errs, 2)
}

func TestValidateUnknownIdentifierTypeRejectsRequest(t *testing.T) {
	req := addressCreateReq("a", testBPNL)
	req.Identifiers = []IdentifierRequest{{TypeKey: "BOGUS", Value: "X"}}

	valid, errs := validateAddressCreates([]AddressCreateRequest{req}, testMeta())
	assert.Empty(t, valid)
	require.Len(t, errs, 1)
	assert.Equal(t, apperror.CodeUnknownMetadata, errs[0].Code)
}

func TestValidateDuplicateIndexInBatch(t *testing.T) {
	a := legalEntityCreateReq("same")
	b := legalEntityCreateReq("same")
	b.Identifiers = []IdentifierRequest{{TypeKey: "EU_VAT_ID_DE", Value: "DEother"}}

	valid, errs := validateLegalEntityCreates([]LegalEntityCreateRequest{a, b}, testMeta())
	assert.Empty(t, valid)
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.Equal(t, apperror.CodeValidation, e.Code)
	}
}

func TestValidateDuplicateIdentifierWithinOneRequest(t *testing.T) {
	req := legalEntityCreateReq("acme")
	req.Identifiers = []IdentifierRequest{
		{TypeKey: "EU_VAT_ID_DE", Value: "DE1"},
		{TypeKey: "EU_VAT_ID_DE", Value: "DE1"},
	}

	valid, errs := validateLegalEntityCreates([]LegalEntityCreateRequest{req}, testMeta())
	assert.Empty(t, valid)
	assert.Contains(t, codesOf(errs), apperror.CodeDuplicateIdentifier)
}

func TestValidateUpdateRejectsMalformedBPN(t *testing.T) {
	req := legalEntityUpdateReq("BPNL-not-valid")

	valid, errs := validateLegalEntityUpdates([]LegalEntityUpdateRequest{req}, testMeta())
	assert.Empty(t, valid)
	require.NotEmpty(t, errs)
	assert.Equal(t, apperror.CodeValidation, errs[0].Code)
}

func TestValidateSiteCreateRejectsWrongParentKind(t *testing.T) {
	req := siteCreateReq("plant", testBPNA)

	valid, errs := validateSiteCreates([]SiteCreateRequest{req}, testMeta())
	assert.Empty(t, valid)
	require.Len(t, errs, 1)
	assert.Equal(t, apperror.CodeValidation, errs[0].Code)
}

func TestValidateAddressCreateAcceptsBothParentKinds(t *testing.T) {
	reqs := []AddressCreateRequest{
		addressCreateReq("le-child", testBPNL),
		addressCreateReq("site-child", testBPNS),
	}

	valid, errs := validateAddressCreates(reqs, testMeta())
	assert.Empty(t, errs)
	assert.Len(t, valid, 2)
}
