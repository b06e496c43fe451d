// Package query provides the read side of the partner API: single-record
// lookups, filtered lists, and changelog retrieval.
package query

import (
	"context"
	"fmt"

	"bpdm/internal/core/apperror"
	"bpdm/internal/core/bpn"
	"bpdm/internal/domain/partners"
	"bpdm/internal/domain/partners/address"
	"bpdm/internal/domain/partners/changelog"
	"bpdm/internal/domain/partners/legalentity"
	"bpdm/internal/domain/partners/site"
)

// Service serves read requests directly from the repositories. Reads run
// outside the build pipeline and take no transaction.
type Service struct {
	legalEntities legalentity.Repository
	sites         site.Repository
	addresses     address.Repository
	changelog     changelog.Repository
}

// NewService creates a read service over the given repositories.
func NewService(
	legalEntities legalentity.Repository,
	sites site.Repository,
	addresses address.Repository,
	changelogRepo changelog.Repository,
) *Service {
	return &Service{
		legalEntities: legalEntities,
		sites:         sites,
		addresses:     addresses,
		changelog:     changelogRepo,
	}
}

// GetLegalEntity retrieves a single legal entity by its BPNL.
func (s *Service) GetLegalEntity(ctx context.Context, bpnl string) (*legalentity.LegalEntity, error) {
	if !bpn.IsKind(bpnl, bpn.KindLegalEntity) {
		return nil, apperror.NewValidation("not a legal entity BPN").WithDetail("bpn", bpnl)
	}
	le, err := s.legalEntities.GetByBPN(ctx, bpnl)
	if err != nil {
		return nil, fmt.Errorf("get legal entity: %w", err)
	}
	return le, nil
}

// ListLegalEntities retrieves legal entities with filtering and pagination.
func (s *Service) ListLegalEntities(ctx context.Context, filter partners.ListFilter) (partners.ListResult[*legalentity.LegalEntity], error) {
	return s.legalEntities.List(ctx, filter)
}

// GetSite retrieves a single site by its BPNS.
func (s *Service) GetSite(ctx context.Context, bpns string) (*site.Site, error) {
	if !bpn.IsKind(bpns, bpn.KindSite) {
		return nil, apperror.NewValidation("not a site BPN").WithDetail("bpn", bpns)
	}
	st, err := s.sites.GetByBPN(ctx, bpns)
	if err != nil {
		return nil, fmt.Errorf("get site: %w", err)
	}
	return st, nil
}

// ListSites retrieves sites with filtering and pagination.
func (s *Service) ListSites(ctx context.Context, filter partners.ListFilter) (partners.ListResult[*site.Site], error) {
	return s.sites.List(ctx, filter)
}

// GetAddress retrieves a single address by its BPNA.
func (s *Service) GetAddress(ctx context.Context, bpna string) (*address.Address, error) {
	if !bpn.IsKind(bpna, bpn.KindAddress) {
		return nil, apperror.NewValidation("not an address BPN").WithDetail("bpn", bpna)
	}
	addr, err := s.addresses.GetByBPN(ctx, bpna)
	if err != nil {
		return nil, fmt.Errorf("get address: %w", err)
	}
	return addr, nil
}

// ListAddresses retrieves addresses with filtering and pagination.
func (s *Service) ListAddresses(ctx context.Context, filter partners.ListFilter) (partners.ListResult[*address.Address], error) {
	return s.addresses.List(ctx, filter)
}

// Changelog retrieves journal entries for the given BPNs, newest first.
// Malformed BPNs are rejected before the query runs.
func (s *Service) Changelog(ctx context.Context, bpns []string, limit int) ([]changelog.Entry, error) {
	if len(bpns) == 0 {
		return nil, apperror.NewValidation("at least one BPN is required")
	}
	for _, value := range bpns {
		if !bpn.Valid(value) {
			return nil, apperror.NewValidation("malformed BPN").WithDetail("bpn", value)
		}
	}
	entries, err := s.changelog.ListByBPNs(ctx, bpns, limit)
	if err != nil {
		return nil, fmt.Errorf("list changelog: %w", err)
	}
	return entries, nil
}
