package build

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bpdm/internal/domain/partners/metadata"
)

func testMeta() metadata.Resolved {
	return metadata.Resolved{
		IDTypes:    map[string]metadata.IdentifierType{"EU_VAT_ID_DE": {TechnicalKey: "EU_VAT_ID_DE"}},
		LegalForms: map[string]metadata.LegalForm{"GMBH": {TechnicalKey: "GMBH"}},
		Regions:    map[string]metadata.Region{"DE-BW": {CountryCode: "DE", RegionCode: "DE-BW"}},
	}
}

func TestSnapshotIgnoresRowMetadata(t *testing.T) {
	req := legalEntityCreateReq("acme")
	le, _ := buildLegalEntity(req, testBPNL, testBPNA, testMeta())

	before := snapshotLegalEntity(le)

	// Row identity, version, audit timestamps and currentness are not part of
	// the comparable payload.
	le.Touch()
	le.RefreshCurrentness()
	after := snapshotLegalEntity(le)

	assert.True(t, before.Equal(after))
}

func TestSnapshotDetectsPayloadChange(t *testing.T) {
	req := legalEntityCreateReq("acme")
	le, addr := buildLegalEntity(req, testBPNL, testBPNA, testMeta())

	before := snapshotLegalEntity(le)
	le.LegalName = "Other GmbH"
	assert.False(t, before.Equal(snapshotLegalEntity(le)))

	beforeAddr := snapshotAddress(addr)
	addr.PhysicalAddress.City = "Karlsruhe"
	assert.False(t, beforeAddr.Equal(snapshotAddress(addr)))
}

func TestSnapshotClassificationOrderInsensitive(t *testing.T) {
	a := legalEntityCreateReq("a")
	a.Classifications = []ClassificationRequest{
		{TypeKey: "NACE", Code: str("62.01")},
		{TypeKey: "ISIC", Code: str("6201")},
	}
	b := legalEntityCreateReq("a")
	b.Classifications = []ClassificationRequest{
		{TypeKey: "ISIC", Code: str("6201")},
		{TypeKey: "NACE", Code: str("62.01")},
	}

	leA, _ := buildLegalEntity(a, testBPNL, testBPNA, testMeta())
	leB, _ := buildLegalEntity(b, testBPNL, testBPNA, testMeta())

	assert.True(t, snapshotLegalEntity(leA).Equal(snapshotLegalEntity(leB)))
}

func TestSnapshotIdentifierOrderSensitive(t *testing.T) {
	a := legalEntityCreateReq("a")
	a.Identifiers = []IdentifierRequest{
		{TypeKey: "EU_VAT_ID_DE", Value: "DE1"},
		{TypeKey: "EU_VAT_ID_DE", Value: "DE2"},
	}
	b := legalEntityCreateReq("b")
	b.Identifiers = []IdentifierRequest{
		{TypeKey: "EU_VAT_ID_DE", Value: "DE2"},
		{TypeKey: "EU_VAT_ID_DE", Value: "DE1"},
	}

	leA, _ := buildLegalEntity(a, testBPNL, testBPNA, testMeta())
	leB, _ := buildLegalEntity(b, testBPNL, testBPNA, testMeta())

	assert.False(t, snapshotLegalEntity(leA).Equal(snapshotLegalEntity(leB)))
}

func TestBuildNormalizesTimesToUTC(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	local := time.Date(2024, 3, 1, 13, 0, 0, 500, berlin)

	req := legalEntityCreateReq("acme")
	req.Confidence.LastConfidenceCheckAt = timePtr(local)
	req.States = []StateRequest{{Type: str("ACTIVE"), ValidFrom: timePtr(local)}}

	le, _ := buildLegalEntity(req, testBPNL, testBPNA, testMeta())

	assert.Equal(t, time.UTC, le.Confidence.LastConfidenceCheckAt.Location())
	assert.True(t, le.Confidence.LastConfidenceCheckAt.Equal(local.Truncate(time.Microsecond)))
	require.Len(t, le.States, 1)
	require.NotNil(t, le.States[0].ValidFrom)
	assert.Equal(t, time.UTC, le.States[0].ValidFrom.Location())
}

func TestBuildResolvesRegionsSilently(t *testing.T) {
	payload := addressPayloadReq()
	payload.PhysicalAddress.AdministrativeAreaLevel1 = str("NO-SUCH-REGION")

	addr := buildAddress(testBPNA, payload, testMeta())
	assert.Nil(t, addr.PhysicalAddress.AdministrativeAreaLevel1)
}
