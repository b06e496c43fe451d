package query

import (
	"context"
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
	"bpdm/internal/domain/partners/site"
)

// stubRepo is an in-memory partners.Repository keyed by BPN.
type stubRepo[T any] struct {
	items map[string]T
}

func (s *stubRepo[T]) GetByBPN(ctx context.Context, key string) (T, error) {
	item, ok := s.items[key]
	if !ok {
		var zero T
		return zero, apperror.NewNotFound("record", key)
	}
	return item, nil
}

func (s *stubRepo[T]) FindByBPNs(ctx context.Context, bpns []string) ([]T, error) {
	var out []T
	for _, key := range bpns {
		if item, ok := s.items[key]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubRepo[T]) CreateAll(ctx context.Context, entities []T) error { return nil }
func (s *stubRepo[T]) UpdateAll(ctx context.Context, entities []T) error { return nil }

func (s *stubRepo[T]) List(ctx context.Context, filter partners.ListFilter) (partners.ListResult[T], error) {
	items := make([]T, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	return partners.ListResult[T]{
		Items:      items,
		TotalCount: int64(len(items)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

func (s *stubRepo[T]) ExistsByBPN(ctx context.Context, key string) (bool, error) {
	_, ok := s.items[key]
	return ok, nil
}

type stubAddressRepo struct {
	stubRepo[*address.Address]
}

func (s *stubAddressRepo) FindLegalAddresses(ctx context.Context, legalEntityBPNs []string) ([]*address.Address, error) {
	return nil, nil
}

type stubChangelogRepo struct {
	entries []changelog.Entry
}

func (s *stubChangelogRepo) Append(ctx context.Context, entries []changelog.Entry) error {
	s.entries = append(s.entries, entries...)
	return nil
}

func (s *stubChangelogRepo) ListByBPNs(ctx context.Context, bpns []string, limit int) ([]changelog.Entry, error) {
	var out []changelog.Entry
	for _, e := range s.entries {
		for _, key := range bpns {
			if e.BPN == key {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func mustBPN(t *testing.T, kind bpn.Kind, counter int64) string {
	t.Helper()
	value, err := bpn.Format(kind, counter)
	require.NoError(t, err)
	return value
}

func newTestService(t *testing.T) (*Service, string, string, string) {
	t.Helper()

	bpnl := mustBPN(t, bpn.KindLegalEntity, 42)
	bpns := mustBPN(t, bpn.KindSite, 42)
	bpna := mustBPN(t, bpn.KindAddress, 42)

	le := &legalentity.LegalEntity{BPN: bpnl, LegalName: "Acme GmbH"}
	st := &site.Site{BPN: bpns, Name: "Plant 1", LegalEntityBPN: bpnl}
	addr := &address.Address{BPN: bpna, LegalEntityBPN: &bpnl}

	changelogRepo := &stubChangelogRepo{entries: []changelog.Entry{
		{BPN: bpnl, ChangeType: changelog.ChangeCreate, PartnerType: bpn.KindLegalEntity, CreatedAt: time.Now()},
	}}

	svc := NewService(
		&stubRepo[*legalentity.LegalEntity]{items: map[string]*legalentity.LegalEntity{bpnl: le}},
		&stubRepo[*site.Site]{items: map[string]*site.Site{bpns: st}},
		&stubAddressRepo{stubRepo[*address.Address]{items: map[string]*address.Address{bpna: addr}}},
		changelogRepo,
	)
	return svc, bpnl, bpns, bpna
}

func TestGetByBPNKindChecks(t *testing.T) {
	svc, bpnl, bpns, bpna := newTestService(t)
	ctx := context.Background()

	le, err := svc.GetLegalEntity(ctx, bpnl)
	require.NoError(t, err)
	assert.Equal(t, "Acme GmbH", le.LegalName)

	st, err := svc.GetSite(ctx, bpns)
	require.NoError(t, err)
	assert.Equal(t, "Plant 1", st.Name)

	addr, err := svc.GetAddress(ctx, bpna)
	require.NoError(t, err)
	assert.Equal(t, bpna, addr.BPN)

	// Wrong kind is a validation error, not a lookup miss.
	_, err = svc.GetLegalEntity(ctx, bpns)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	_, err = svc.GetSite(ctx, bpna)
	appErr, ok = apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestGetLegalEntityNotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	unseen := mustBPN(t, bpn.KindLegalEntity, 999_999)
	_, err := svc.GetLegalEntity(context.Background(), unseen)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeNotFound, appErr.Code)
}

func TestListLegalEntities(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	result, err := svc.ListLegalEntities(context.Background(), partners.DefaultListFilter())
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.TotalCount)
	assert.Len(t, result.Items, 1)
}

func TestChangelogValidation(t *testing.T) {
	svc, bpnl, _, _ := newTestService(t)
	ctx := context.Background()

	entries, err := svc.Changelog(ctx, []string{bpnl}, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, changelog.ChangeCreate, entries[0].ChangeType)

	_, err = svc.Changelog(ctx, nil, 10)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	_, err = svc.Changelog(ctx, []string{"not-a-bpn"}, 10)
	appErr, ok = apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}
