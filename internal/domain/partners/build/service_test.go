package build

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bpdm/internal/core/apperror"
	"bpdm/internal/core/bpn"
	"bpdm/internal/domain/partners"
	"bpdm/internal/domain/partners/address"
	"bpdm/internal/domain/partners/changelog"
	"bpdm/internal/domain/partners/legalentity"
	"bpdm/internal/domain/partners/metadata"
	"bpdm/internal/domain/partners/site"
)

// --- Fakes ---

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// jsonClone decouples stored records from the pointers handed to callers, so
// in-place mutations by the service do not leak into the fake store.
func jsonClone[T any](v T) T {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		panic(err)
	}
	return *out
}

type fakeRepo[T any] struct {
	items   map[string]T
	keyOf   func(T) string
	created []string
	updated []string
}

func newFakeRepo[T any](keyOf func(T) string) *fakeRepo[T] {
	return &fakeRepo[T]{items: make(map[string]T), keyOf: keyOf}
}

func (f *fakeRepo[T]) GetByBPN(ctx context.Context, key string) (T, error) {
	item, ok := f.items[key]
	if !ok {
		var zero T
		return zero, apperror.NewNotFound("record", key)
	}
	return jsonClone(item), nil
}

func (f *fakeRepo[T]) FindByBPNs(ctx context.Context, keys []string) ([]T, error) {
	seen := make(map[string]bool)
	var out []T
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		if item, ok := f.items[k]; ok {
			out = append(out, jsonClone(item))
		}
	}
	return out, nil
}

func (f *fakeRepo[T]) CreateAll(ctx context.Context, entities []T) error {
	for _, e := range entities {
		key := f.keyOf(e)
		if _, ok := f.items[key]; ok {
			return apperror.NewDuplicate("record", "bpn", key)
		}
		f.items[key] = jsonClone(e)
		f.created = append(f.created, key)
	}
	return nil
}

func (f *fakeRepo[T]) UpdateAll(ctx context.Context, entities []T) error {
	for _, e := range entities {
		key := f.keyOf(e)
		if _, ok := f.items[key]; !ok {
			return apperror.NewNotFound("record", key)
		}
		f.items[key] = jsonClone(e)
		f.updated = append(f.updated, key)
	}
	return nil
}

func (f *fakeRepo[T]) List(ctx context.Context, filter partners.ListFilter) (partners.ListResult[T], error) {
	return partners.ListResult[T]{Items: []T{}}, nil
}

func (f *fakeRepo[T]) ExistsByBPN(ctx context.Context, key string) (bool, error) {
	_, ok := f.items[key]
	return ok, nil
}

type fakeAddressRepo struct {
	*fakeRepo[*address.Address]
}

func (f *fakeAddressRepo) FindLegalAddresses(ctx context.Context, legalEntityBPNs []string) ([]*address.Address, error) {
	set := make(map[string]bool, len(legalEntityBPNs))
	for _, b := range legalEntityBPNs {
		set[b] = true
	}
	var out []*address.Address
	for _, a := range f.items {
		if a.IsLegalAddress && a.LegalEntityBPN != nil && set[*a.LegalEntityBPN] {
			out = append(out, jsonClone(a))
		}
	}
	return out, nil
}

type fakeMetadataRepo struct {
	idTypes    []metadata.IdentifierType
	legalForms []metadata.LegalForm
	regions    []metadata.Region
}

func (f *fakeMetadataRepo) FindIdentifierTypes(ctx context.Context, keys []string) ([]metadata.IdentifierType, error) {
	var out []metadata.IdentifierType
	for _, t := range f.idTypes {
		if contains(keys, t.TechnicalKey) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeMetadataRepo) FindLegalForms(ctx context.Context, keys []string) ([]metadata.LegalForm, error) {
	var out []metadata.LegalForm
	for _, lf := range f.legalForms {
		if contains(keys, lf.TechnicalKey) {
			out = append(out, lf)
		}
	}
	return out, nil
}

func (f *fakeMetadataRepo) FindRegions(ctx context.Context, codes []string) ([]metadata.Region, error) {
	var out []metadata.Region
	for _, r := range f.regions {
		if contains(codes, r.RegionCode) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeMetadataRepo) ListIdentifierTypes(ctx context.Context) ([]metadata.IdentifierType, error) {
	return f.idTypes, nil
}

func (f *fakeMetadataRepo) ListLegalForms(ctx context.Context) ([]metadata.LegalForm, error) {
	return f.legalForms, nil
}

func (f *fakeMetadataRepo) ListRegions(ctx context.Context) ([]metadata.Region, error) {
	return f.regions, nil
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

type fakeChangelogRepo struct {
	entries []changelog.Entry
}

func (f *fakeChangelogRepo) Append(ctx context.Context, entries []changelog.Entry) error {
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeChangelogRepo) ListByBPNs(ctx context.Context, bpns []string, limit int) ([]changelog.Entry, error) {
	var out []changelog.Entry
	for _, e := range f.entries {
		if contains(bpns, e.BPN) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeChangelogRepo) forBPN(b string) []changelog.Entry {
	var out []changelog.Entry
	for _, e := range f.entries {
		if e.BPN == b {
			out = append(out, e)
		}
	}
	return out
}

// --- Test environment ---

type testEnv struct {
	svc    *Service
	les    *fakeRepo[*legalentity.LegalEntity]
	sites  *fakeRepo[*site.Site]
	addrs  *fakeAddressRepo
	clog   *fakeChangelogRepo
	issuer *bpn.MockIssuer
}

func newTestEnv() *testEnv {
	les := newFakeRepo(func(le *legalentity.LegalEntity) string { return le.BPN })
	sites := newFakeRepo(func(s *site.Site) string { return s.BPN })
	addrs := &fakeAddressRepo{newFakeRepo(func(a *address.Address) string { return a.BPN })}
	clog := &fakeChangelogRepo{}
	issuer := bpn.NewMockIssuer()
	meta := metadata.NewService(&fakeMetadataRepo{
		idTypes:    []metadata.IdentifierType{{TechnicalKey: "EU_VAT_ID_DE", Name: "VAT ID Germany"}},
		legalForms: []metadata.LegalForm{{TechnicalKey: "GMBH", Name: "Gesellschaft mit beschraenkter Haftung"}},
		regions:    []metadata.Region{{CountryCode: "DE", RegionCode: "DE-BW", RegionName: "Baden-Wuerttemberg"}},
	})

	svc := NewService(les, sites, addrs, clog, meta, issuer, passthroughTxManager{})
	return &testEnv{svc: svc, les: les, sites: sites, addrs: addrs, clog: clog, issuer: issuer}
}

// --- Request builders ---

func str(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func intPtr(n int) *int { return &n }

func timePtr(t time.Time) *time.Time { return &t }

func confidenceReq() *ConfidenceRequest {
	checked := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &ConfidenceRequest{
		SharedByOwner:               boolPtr(true),
		CheckedByExternalDataSource: boolPtr(false),
		NumberOfSharingMembers:      intPtr(3),
		LastConfidenceCheckAt:       timePtr(checked),
		NextConfidenceCheckAt:       timePtr(checked.AddDate(0, 6, 0)),
		ConfidenceLevel:             intPtr(7),
	}
}

func physicalReq() *PhysicalAddressRequest {
	return &PhysicalAddressRequest{
		Country:                  str("DE"),
		City:                     str("Stuttgart"),
		PostalCode:               str("70173"),
		AdministrativeAreaLevel1: str("DE-BW"),
	}
}

func addressPayloadReq() *AddressPayload {
	return &AddressPayload{
		Confidence:      confidenceReq(),
		PhysicalAddress: physicalReq(),
	}
}

func legalEntityCreateReq(index string) LegalEntityCreateRequest {
	return LegalEntityCreateRequest{
		Index:        index,
		LegalName:    str("Acme GmbH"),
		LegalFormKey: str("GMBH"),
		Identifiers:  []IdentifierRequest{{TypeKey: "EU_VAT_ID_DE", Value: "DE" + index}},
		Confidence:   confidenceReq(),
		LegalAddress: addressPayloadReq(),
	}
}

func siteCreateReq(index, parentBPNL string) SiteCreateRequest {
	return SiteCreateRequest{
		Index:          index,
		Name:           str("Plant " + index),
		Confidence:     confidenceReq(),
		LegalEntityBPN: str(parentBPNL),
		MainAddress:    addressPayloadReq(),
	}
}

func addressCreateReq(index, parentBPN string) AddressCreateRequest {
	return AddressCreateRequest{
		Index:           index,
		ParentBPN:       str(parentBPN),
		Confidence:      confidenceReq(),
		PhysicalAddress: physicalReq(),
	}
}

func mustBPN(kind bpn.Kind, counter int64) string {
	v, err := bpn.Format(kind, counter)
	if err != nil {
		panic(err)
	}
	return v
}

// Well-formed BPNs for tests that never hit the issuer.
var (
	testBPNL = mustBPN(bpn.KindLegalEntity, 123)
	testBPNS = mustBPN(bpn.KindSite, 123)
	testBPNA = mustBPN(bpn.KindAddress, 123)
)

// unseenBPN mints a well-formed BPN that no record in the store carries.
func unseenBPN(t *testing.T, kind bpn.Kind) string {
	t.Helper()
	v, err := bpn.Format(kind, 999_999_999)
	require.NoError(t, err)
	return v
}

func mustCreateLegalEntity(t *testing.T, env *testEnv, index string) LegalEntityResult {
	t.Helper()
	resp, err := env.svc.CreateLegalEntities(context.Background(), []LegalEntityCreateRequest{legalEntityCreateReq(index)})
	require.NoError(t, err)
	require.Empty(t, resp.Errors)
	require.Len(t, resp.Entities, 1)
	return resp.Entities[0]
}

func mustCreateSite(t *testing.T, env *testEnv, index, parentBPNL string) SiteResult {
	t.Helper()
	resp, err := env.svc.CreateSites(context.Background(), []SiteCreateRequest{siteCreateReq(index, parentBPNL)})
	require.NoError(t, err)
	require.Empty(t, resp.Errors)
	require.Len(t, resp.Entities, 1)
	return resp.Entities[0]
}

// --- Creates ---

func TestCreateLegalEntities(t *testing.T) {
	env := newTestEnv()

	resp, err := env.svc.CreateLegalEntities(context.Background(), []LegalEntityCreateRequest{legalEntityCreateReq("acme")})
	require.NoError(t, err)
	require.Empty(t, resp.Errors)
	require.Len(t, resp.Entities, 1)

	got := resp.Entities[0]
	assert.Equal(t, "acme", got.Index)

	le := got.LegalEntity
	assert.True(t, bpn.IsKind(le.BPN, bpn.KindLegalEntity))
	assert.Equal(t, "Acme GmbH", le.LegalName)
	require.NotNil(t, le.LegalFormKey)
	assert.Equal(t, "GMBH", *le.LegalFormKey)
	assert.False(t, le.Currentness.IsZero())

	addr := got.LegalAddress
	assert.True(t, bpn.IsKind(addr.BPN, bpn.KindAddress))
	assert.Equal(t, le.LegalAddressBPN, addr.BPN)
	require.NotNil(t, addr.LegalEntityBPN)
	assert.Equal(t, le.BPN, *addr.LegalEntityBPN)
	assert.True(t, addr.IsLegalAddress)
	require.NotNil(t, addr.PhysicalAddress.AdministrativeAreaLevel1)
	assert.Equal(t, "DE-BW", *addr.PhysicalAddress.AdministrativeAreaLevel1)

	// Both records persisted plus one CREATE entry each.
	assert.Equal(t, []string{le.BPN}, env.les.created)
	assert.Equal(t, []string{addr.BPN}, env.addrs.created)
	require.Len(t, env.clog.entries, 2)
	for _, e := range env.clog.entries {
		assert.Equal(t, changelog.ChangeCreate, e.ChangeType)
		assert.Empty(t, e.Changes)
	}
	assert.Equal(t, bpn.KindLegalEntity, env.clog.forBPN(le.BPN)[0].PartnerType)
	assert.Equal(t, bpn.KindAddress, env.clog.forBPN(addr.BPN)[0].PartnerType)
}

func TestCreateLegalEntitiesPartialFailure(t *testing.T) {
	env := newTestEnv()

	bad := legalEntityCreateReq("bad")
	bad.LegalName = nil

	resp, err := env.svc.CreateLegalEntities(context.Background(), []LegalEntityCreateRequest{
		legalEntityCreateReq("good"),
		bad,
	})
	require.NoError(t, err)

	require.Len(t, resp.Entities, 1)
	assert.Equal(t, "good", resp.Entities[0].Index)

	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "bad", resp.Errors[0].RequestKey)
	assert.Equal(t, apperror.CodeMissingRequiredField, resp.Errors[0].Code)

	assert.Len(t, env.les.created, 1)
}

func TestCreateLegalEntitiesUnknownIdentifierType(t *testing.T) {
	env := newTestEnv()

	req := legalEntityCreateReq("acme")
	req.Identifiers = []IdentifierRequest{{TypeKey: "NO_SUCH_TYPE", Value: "X1"}}

	resp, err := env.svc.CreateLegalEntities(context.Background(), []LegalEntityCreateRequest{req})
	require.NoError(t, err)
	assert.Empty(t, resp.Entities)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, apperror.CodeUnknownMetadata, resp.Errors[0].Code)
	assert.Empty(t, env.les.created)
}

func TestCreateLegalEntitiesUnknownLegalFormDropped(t *testing.T) {
	env := newTestEnv()

	req := legalEntityCreateReq("acme")
	req.LegalFormKey = str("NO_SUCH_FORM")

	resp, err := env.svc.CreateLegalEntities(context.Background(), []LegalEntityCreateRequest{req})
	require.NoError(t, err)
	require.Empty(t, resp.Errors)
	require.Len(t, resp.Entities, 1)
	assert.Nil(t, resp.Entities[0].LegalEntity.LegalFormKey)
}

func TestCreateLegalEntitiesDuplicateIdentifiersInBatch(t *testing.T) {
	env := newTestEnv()

	a := legalEntityCreateReq("a")
	b := legalEntityCreateReq("b")
	b.Identifiers = a.Identifiers

	resp, err := env.svc.CreateLegalEntities(context.Background(), []LegalEntityCreateRequest{a, b})
	require.NoError(t, err)
	assert.Empty(t, resp.Entities)
	require.Len(t, resp.Errors, 2)
	for _, e := range resp.Errors {
		assert.Equal(t, apperror.CodeDuplicateIdentifier, e.Code)
	}
}

func TestCreateLegalEntitiesIssuanceExhausted(t *testing.T) {
	env := newTestEnv()
	env.issuer.Limit = 1

	resp, err := env.svc.CreateLegalEntities(context.Background(), []LegalEntityCreateRequest{
		legalEntityCreateReq("a"),
		legalEntityCreateReq("b"),
	})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, apperror.IsIssuanceExhausted(err))
	assert.Empty(t, env.les.created)
}

func TestCreateSites(t *testing.T) {
	env := newTestEnv()
	parent := mustCreateLegalEntity(t, env, "acme")

	resp, err := env.svc.CreateSites(context.Background(), []SiteCreateRequest{
		siteCreateReq("plant1", parent.LegalEntity.BPN),
		siteCreateReq("orphan", unseenBPN(t, bpn.KindLegalEntity)),
	})
	require.NoError(t, err)

	require.Len(t, resp.Entities, 1)
	got := resp.Entities[0]
	assert.Equal(t, "plant1", got.Index)
	assert.True(t, bpn.IsKind(got.Site.BPN, bpn.KindSite))
	assert.Equal(t, parent.LegalEntity.BPN, got.Site.LegalEntityBPN)
	assert.Equal(t, got.Site.MainAddressBPN, got.MainAddress.BPN)
	require.NotNil(t, got.MainAddress.SiteBPN)
	assert.Equal(t, got.Site.BPN, *got.MainAddress.SiteBPN)
	assert.True(t, got.MainAddress.IsMainAddress)

	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "orphan", resp.Errors[0].RequestKey)
	assert.Equal(t, apperror.CodeNotFound, resp.Errors[0].Code)
}

func TestCreateSitesWithLegalReference(t *testing.T) {
	env := newTestEnv()
	parent := mustCreateLegalEntity(t, env, "acme")
	issuedAddresses := env.issuer.Issued(bpn.KindAddress)

	resp, err := env.svc.CreateSitesWithLegalReference(context.Background(), []SiteWithLegalReferenceRequest{{
		Index:          "hq",
		Name:           str("Headquarters"),
		Confidence:     confidenceReq(),
		LegalEntityBPN: str(parent.LegalEntity.BPN),
	}})
	require.NoError(t, err)
	require.Empty(t, resp.Errors)
	require.Len(t, resp.Entities, 1)

	got := resp.Entities[0]
	assert.Equal(t, parent.LegalAddress.BPN, got.Site.MainAddressBPN)
	require.NotNil(t, got.MainAddress)
	assert.Equal(t, parent.LegalAddress.BPN, got.MainAddress.BPN)

	// No new address BPN is minted; the stored address keeps the legal entity
	// as its parent.
	assert.Equal(t, issuedAddresses, env.issuer.Issued(bpn.KindAddress))
	stored, err := env.addrs.GetByBPN(context.Background(), parent.LegalAddress.BPN)
	require.NoError(t, err)
	require.NotNil(t, stored.LegalEntityBPN)
	assert.Equal(t, parent.LegalEntity.BPN, *stored.LegalEntityBPN)
	assert.Nil(t, stored.SiteBPN)
}

func TestCreateAddresses(t *testing.T) {
	env := newTestEnv()
	parent := mustCreateLegalEntity(t, env, "acme")
	plant := mustCreateSite(t, env, "plant1", parent.LegalEntity.BPN)

	resp, err := env.svc.CreateAddresses(context.Background(), []AddressCreateRequest{
		addressCreateReq("warehouse", plant.Site.BPN),
		addressCreateReq("billing", parent.LegalEntity.BPN),
		addressCreateReq("orphan", unseenBPN(t, bpn.KindSite)),
	})
	require.NoError(t, err)

	require.Len(t, resp.Entities, 2)
	// Results stay in request order.
	assert.Equal(t, "warehouse", resp.Entities[0].Index)
	assert.Equal(t, "billing", resp.Entities[1].Index)

	warehouse := resp.Entities[0].Address
	require.NotNil(t, warehouse.SiteBPN)
	assert.Equal(t, plant.Site.BPN, *warehouse.SiteBPN)
	assert.False(t, warehouse.IsMainAddress)

	billing := resp.Entities[1].Address
	require.NotNil(t, billing.LegalEntityBPN)
	assert.Equal(t, parent.LegalEntity.BPN, *billing.LegalEntityBPN)
	assert.False(t, billing.IsLegalAddress)

	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "orphan", resp.Errors[0].RequestKey)
	assert.Equal(t, apperror.CodeNotFound, resp.Errors[0].Code)
}

// --- Updates ---

func legalEntityUpdateReq(bpnl string) LegalEntityUpdateRequest {
	create := legalEntityCreateReq("acme")
	return LegalEntityUpdateRequest{
		BPN:          bpnl,
		LegalName:    create.LegalName,
		LegalFormKey: create.LegalFormKey,
		Identifiers:  create.Identifiers,
		Confidence:   create.Confidence,
		LegalAddress: create.LegalAddress,
	}
}

func TestUpdateLegalEntitiesNoChange(t *testing.T) {
	env := newTestEnv()
	created := mustCreateLegalEntity(t, env, "acme")
	entriesBefore := len(env.clog.entries)

	resp, err := env.svc.UpdateLegalEntities(context.Background(), []LegalEntityUpdateRequest{
		legalEntityUpdateReq(created.LegalEntity.BPN),
	})
	require.NoError(t, err)
	require.Empty(t, resp.Errors)
	require.Len(t, resp.Entities, 1)

	// Currentness advances and the record is persisted, but an equivalent
	// update produces no changelog entry.
	assert.True(t, resp.Entities[0].LegalEntity.Currentness.After(created.LegalEntity.Currentness) ||
		resp.Entities[0].LegalEntity.Currentness.Equal(created.LegalEntity.Currentness))
	assert.Equal(t, []string{created.LegalEntity.BPN}, env.les.updated)
	assert.Empty(t, env.addrs.updated)
	assert.Len(t, env.clog.entries, entriesBefore)
}

func TestUpdateLegalEntitiesWithChange(t *testing.T) {
	env := newTestEnv()
	created := mustCreateLegalEntity(t, env, "acme")

	req := legalEntityUpdateReq(created.LegalEntity.BPN)
	req.LegalName = str("Acme Holding GmbH")
	req.LegalAddress.PhysicalAddress.City = str("Karlsruhe")

	resp, err := env.svc.UpdateLegalEntities(context.Background(), []LegalEntityUpdateRequest{req})
	require.NoError(t, err)
	require.Empty(t, resp.Errors)
	require.Len(t, resp.Entities, 1)
	assert.Equal(t, "Acme Holding GmbH", resp.Entities[0].LegalEntity.LegalName)

	leEntries := env.clog.forBPN(created.LegalEntity.BPN)
	require.Len(t, leEntries, 2) // CREATE + UPDATE
	update := leEntries[1]
	assert.Equal(t, changelog.ChangeUpdate, update.ChangeType)
	require.Contains(t, update.Changes, "legalName")

	addrEntries := env.clog.forBPN(created.LegalAddress.BPN)
	require.Len(t, addrEntries, 2)
	assert.Contains(t, addrEntries[1].Changes, "physicalPostalAddress")

	stored, err := env.les.GetByBPN(context.Background(), created.LegalEntity.BPN)
	require.NoError(t, err)
	assert.Equal(t, "Acme Holding GmbH", stored.LegalName)
}

func TestUpdateLegalEntitiesNotFound(t *testing.T) {
	env := newTestEnv()

	resp, err := env.svc.UpdateLegalEntities(context.Background(), []LegalEntityUpdateRequest{
		legalEntityUpdateReq(unseenBPN(t, bpn.KindLegalEntity)),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Entities)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, apperror.CodeNotFound, resp.Errors[0].Code)
}

func TestUpdateSites(t *testing.T) {
	env := newTestEnv()
	parent := mustCreateLegalEntity(t, env, "acme")
	plant := mustCreateSite(t, env, "plant1", parent.LegalEntity.BPN)

	req := SiteUpdateRequest{
		BPN:         plant.Site.BPN,
		Name:        str("Plant One"),
		Confidence:  confidenceReq(),
		MainAddress: addressPayloadReq(),
	}
	resp, err := env.svc.UpdateSites(context.Background(), []SiteUpdateRequest{req})
	require.NoError(t, err)
	require.Empty(t, resp.Errors)
	require.Len(t, resp.Entities, 1)
	assert.Equal(t, "Plant One", resp.Entities[0].Site.Name)

	siteEntries := env.clog.forBPN(plant.Site.BPN)
	require.Len(t, siteEntries, 2)
	assert.Contains(t, siteEntries[1].Changes, "name")

	// Identical second update: nothing persisted, nothing journaled.
	entriesAfterFirst := len(env.clog.entries)
	updatesAfterFirst := len(env.sites.updated)
	resp, err = env.svc.UpdateSites(context.Background(), []SiteUpdateRequest{req})
	require.NoError(t, err)
	require.Len(t, resp.Entities, 1)
	assert.Len(t, env.clog.entries, entriesAfterFirst)
	assert.Len(t, env.sites.updated, updatesAfterFirst)
}

func TestUpdateAddresses(t *testing.T) {
	env := newTestEnv()
	parent := mustCreateLegalEntity(t, env, "acme")

	createResp, err := env.svc.CreateAddresses(context.Background(), []AddressCreateRequest{
		addressCreateReq("billing", parent.LegalEntity.BPN),
	})
	require.NoError(t, err)
	require.Len(t, createResp.Entities, 1)
	bpna := createResp.Entities[0].Address.BPN

	phys := physicalReq()
	phys.City = str("Munich")
	resp, err := env.svc.UpdateAddresses(context.Background(), []AddressUpdateRequest{{
		BPN:             bpna,
		Confidence:      confidenceReq(),
		PhysicalAddress: phys,
	}})
	require.NoError(t, err)
	require.Empty(t, resp.Errors)
	require.Len(t, resp.Entities, 1)
	assert.Equal(t, "Munich", resp.Entities[0].Address.PhysicalAddress.City)

	// Parent wiring survives the full-replace update.
	require.NotNil(t, resp.Entities[0].Address.LegalEntityBPN)
	assert.Equal(t, parent.LegalEntity.BPN, *resp.Entities[0].Address.LegalEntityBPN)

	entries := env.clog.forBPN(bpna)
	require.Len(t, entries, 2)
	assert.Equal(t, changelog.ChangeUpdate, entries[1].ChangeType)
	assert.Contains(t, entries[1].Changes, "physicalPostalAddress")
}

func TestRefreshCurrentness(t *testing.T) {
	env := newTestEnv()
	created := mustCreateLegalEntity(t, env, "acme")
	entriesBefore := len(env.clog.entries)

	time.Sleep(5 * time.Millisecond)
	le, err := env.svc.RefreshCurrentness(context.Background(), created.LegalEntity.BPN)
	require.NoError(t, err)
	assert.True(t, le.Currentness.After(created.LegalEntity.Currentness))
	assert.Len(t, env.clog.entries, entriesBefore)

	_, err = env.svc.RefreshCurrentness(context.Background(), unseenBPN(t, bpn.KindLegalEntity))
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	_, err = env.svc.RefreshCurrentness(context.Background(), "not-a-bpn")
	require.Error(t, err)
}
