// Package build provides the business partner build pipeline: batched
// create/update operations that validate requests, resolve metadata
// references, issue BPNs, construct records and persist them together with
// changelog entries in a single transaction per operation.
package build

import (
	"context"
	"fmt"
	"time"

	"bpdm/internal/core/apperror"
	"bpdm/internal/core/bpn"
	"bpdm/internal/core/tx"
	"bpdm/internal/domain/partners/address"
	"bpdm/internal/domain/partners/changelog"
	"bpdm/internal/domain/partners/legalentity"
	"bpdm/internal/domain/partners/metadata"
	"bpdm/internal/domain/partners/site"
	"bpdm/pkg/logger"
)

// Service orchestrates the build pipeline. Every public operation runs in one
// transaction: either the whole accepted subset of a batch persists or none of
// it does. Requests that fail validation or reference missing records are
// reported per request and never abort their siblings; infrastructure faults
// (BPN issuance, persistence) abort the whole batch.
type Service struct {
	legalEntities legalentity.Repository
	sites         site.Repository
	addresses     address.Repository
	changelog     changelog.Repository
	metadata      *metadata.Service
	issuer        bpn.Issuer
	txManager     tx.Manager
}

// NewService creates the build pipeline service.
func NewService(
	legalEntities legalentity.Repository,
	sites site.Repository,
	addresses address.Repository,
	changelogRepo changelog.Repository,
	metadataSvc *metadata.Service,
	issuer bpn.Issuer,
	txManager tx.Manager,
) *Service {
	return &Service{
		legalEntities: legalEntities,
		sites:         sites,
		addresses:     addresses,
		changelog:     changelogRepo,
		metadata:      metadataSvc,
		issuer:        issuer,
		txManager:     txManager,
	}
}

// --- Creates ---

// CreateLegalEntities creates legal entities together with their legal
// addresses. Each accepted request is assigned a fresh BPNL and BPNA;
// responses are keyed by the caller-chosen request index.
func (s *Service) CreateLegalEntities(ctx context.Context, requests []LegalEntityCreateRequest) (*Response[LegalEntityResult], error) {
	resp := emptyResponse[LegalEntityResult]()
	if len(requests) == 0 {
		return resp, nil
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		meta, err := s.metadata.Resolve(ctx, legalEntityCreateKeys(requests))
		if err != nil {
			return err
		}

		valid, errs := validateLegalEntityCreates(requests, meta)
		resp.Errors = append(resp.Errors, errs...)
		if len(valid) == 0 {
			return nil
		}

		bpnls, err := s.issuer.Issue(ctx, bpn.KindLegalEntity, len(valid))
		if err != nil {
			return fmt.Errorf("issue legal entity BPNs: %w", err)
		}
		bpnas, err := s.issuer.Issue(ctx, bpn.KindAddress, len(valid))
		if err != nil {
			return fmt.Errorf("issue address BPNs: %w", err)
		}

		var (
			les     []*legalentity.LegalEntity
			addrs   []*address.Address
			entries []changelog.Entry
		)
		for i, req := range valid {
			le, addr := buildLegalEntity(req, bpnls[i], bpnas[i], meta)
			if err := le.Validate(ctx); err != nil {
				resp.Errors = append(resp.Errors, newErrorInfo(req.Index, err))
				continue
			}
			if err := addr.Validate(ctx); err != nil {
				resp.Errors = append(resp.Errors, newErrorInfo(req.Index, err))
				continue
			}

			les = append(les, le)
			addrs = append(addrs, addr)
			entries = append(entries,
				changelog.NewEntry(le.BPN, changelog.ChangeCreate, bpn.KindLegalEntity, nil),
				changelog.NewEntry(addr.BPN, changelog.ChangeCreate, bpn.KindAddress, nil),
			)
			resp.Entities = append(resp.Entities, LegalEntityResult{Index: req.Index, LegalEntity: le, LegalAddress: addr})
		}
		if len(les) == 0 {
			return nil
		}

		if err := s.legalEntities.CreateAll(ctx, les); err != nil {
			return fmt.Errorf("create legal entities: %w", err)
		}
		if err := s.addresses.CreateAll(ctx, addrs); err != nil {
			return fmt.Errorf("create legal addresses: %w", err)
		}
		if err := s.changelog.Append(ctx, entries); err != nil {
			return fmt.Errorf("append changelog: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "legal entities created",
		"created", len(resp.Entities),
		"rejected", len(resp.Errors))
	return resp, nil
}

// CreateSites creates sites together with their main addresses under existing
// legal entities.
func (s *Service) CreateSites(ctx context.Context, requests []SiteCreateRequest) (*Response[SiteResult], error) {
	resp := emptyResponse[SiteResult]()
	if len(requests) == 0 {
		return resp, nil
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		meta, err := s.metadata.Resolve(ctx, siteCreateKeys(requests))
		if err != nil {
			return err
		}

		valid, errs := validateSiteCreates(requests, meta)
		resp.Errors = append(resp.Errors, errs...)
		if len(valid) == 0 {
			return nil
		}

		parents, err := s.findLegalEntities(ctx, collect(valid, func(r SiteCreateRequest) string { return *r.LegalEntityBPN }))
		if err != nil {
			return err
		}
		ready := valid[:0:0]
		for _, req := range valid {
			if _, ok := parents[*req.LegalEntityBPN]; !ok {
				resp.Errors = append(resp.Errors, newErrorInfo(req.Index, apperror.NewNotFound("parent legal entity", *req.LegalEntityBPN)))
				continue
			}
			ready = append(ready, req)
		}
		if len(ready) == 0 {
			return nil
		}

		bpnss, err := s.issuer.Issue(ctx, bpn.KindSite, len(ready))
		if err != nil {
			return fmt.Errorf("issue site BPNs: %w", err)
		}
		bpnas, err := s.issuer.Issue(ctx, bpn.KindAddress, len(ready))
		if err != nil {
			return fmt.Errorf("issue address BPNs: %w", err)
		}

		var (
			sites   []*site.Site
			addrs   []*address.Address
			entries []changelog.Entry
		)
		for i, req := range ready {
			st, addr := buildSite(req, bpnss[i], bpnas[i], meta)
			if err := st.Validate(ctx); err != nil {
				resp.Errors = append(resp.Errors, newErrorInfo(req.Index, err))
				continue
			}
			if err := addr.Validate(ctx); err != nil {
				resp.Errors = append(resp.Errors, newErrorInfo(req.Index, err))
				continue
			}

			sites = append(sites, st)
			addrs = append(addrs, addr)
			entries = append(entries,
				changelog.NewEntry(st.BPN, changelog.ChangeCreate, bpn.KindSite, nil),
				changelog.NewEntry(addr.BPN, changelog.ChangeCreate, bpn.KindAddress, nil),
			)
			resp.Entities = append(resp.Entities, SiteResult{Index: req.Index, Site: st, MainAddress: addr})
		}
		if len(sites) == 0 {
			return nil
		}

		if err := s.sites.CreateAll(ctx, sites); err != nil {
			return fmt.Errorf("create sites: %w", err)
		}
		if err := s.addresses.CreateAll(ctx, addrs); err != nil {
			return fmt.Errorf("create main addresses: %w", err)
		}
		if err := s.changelog.Append(ctx, entries); err != nil {
			return fmt.Errorf("append changelog: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sites created",
		"created", len(resp.Entities),
		"rejected", len(resp.Errors))
	return resp, nil
}

// CreateSitesWithLegalReference creates sites whose main address is the parent
// legal entity's existing legal address. No address BPN is issued and the
// address record is left untouched with the legal entity as its parent.
func (s *Service) CreateSitesWithLegalReference(ctx context.Context, requests []SiteWithLegalReferenceRequest) (*Response[SiteResult], error) {
	resp := emptyResponse[SiteResult]()
	if len(requests) == 0 {
		return resp, nil
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		valid, errs := validateSitesWithLegalReference(requests)
		resp.Errors = append(resp.Errors, errs...)
		if len(valid) == 0 {
			return nil
		}

		parents, err := s.findLegalEntities(ctx, collect(valid, func(r SiteWithLegalReferenceRequest) string { return *r.LegalEntityBPN }))
		if err != nil {
			return err
		}
		ready := valid[:0:0]
		for _, req := range valid {
			if _, ok := parents[*req.LegalEntityBPN]; !ok {
				resp.Errors = append(resp.Errors, newErrorInfo(req.Index, apperror.NewNotFound("parent legal entity", *req.LegalEntityBPN)))
				continue
			}
			ready = append(ready, req)
		}
		if len(ready) == 0 {
			return nil
		}

		bpnss, err := s.issuer.Issue(ctx, bpn.KindSite, len(ready))
		if err != nil {
			return fmt.Errorf("issue site BPNs: %w", err)
		}

		addrs, err := s.addresses.FindByBPNs(ctx, collect(ready, func(r SiteWithLegalReferenceRequest) string {
			return parents[*r.LegalEntityBPN].LegalAddressBPN
		}))
		if err != nil {
			return fmt.Errorf("find legal addresses: %w", err)
		}
		addrByBPN := indexByBPN(addrs, func(a *address.Address) string { return a.BPN })

		var (
			sites   []*site.Site
			entries []changelog.Entry
		)
		for i, req := range ready {
			parent := parents[*req.LegalEntityBPN]
			st := buildSiteWithLegalReference(req, bpnss[i], parent.LegalAddressBPN)
			if err := st.Validate(ctx); err != nil {
				resp.Errors = append(resp.Errors, newErrorInfo(req.Index, err))
				continue
			}

			sites = append(sites, st)
			entries = append(entries, changelog.NewEntry(st.BPN, changelog.ChangeCreate, bpn.KindSite, nil))
			resp.Entities = append(resp.Entities, SiteResult{Index: req.Index, Site: st, MainAddress: addrByBPN[parent.LegalAddressBPN]})
		}
		if len(sites) == 0 {
			return nil
		}

		if err := s.sites.CreateAll(ctx, sites); err != nil {
			return fmt.Errorf("create sites: %w", err)
		}
		if err := s.changelog.Append(ctx, entries); err != nil {
			return fmt.Errorf("append changelog: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sites created on legal addresses",
		"created", len(resp.Entities),
		"rejected", len(resp.Errors))
	return resp, nil
}

// CreateAddresses creates additional addresses under existing legal entities
// or sites; the parent kind is derived from the parent BPN.
func (s *Service) CreateAddresses(ctx context.Context, requests []AddressCreateRequest) (*Response[AddressResult], error) {
	resp := emptyResponse[AddressResult]()
	if len(requests) == 0 {
		return resp, nil
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		meta, err := s.metadata.Resolve(ctx, addressCreateKeys(requests))
		if err != nil {
			return err
		}

		valid, errs := validateAddressCreates(requests, meta)
		resp.Errors = append(resp.Errors, errs...)
		if len(valid) == 0 {
			return nil
		}

		var leBPNs, siteBPNs []string
		for _, req := range valid {
			if bpn.IsKind(*req.ParentBPN, bpn.KindLegalEntity) {
				leBPNs = append(leBPNs, *req.ParentBPN)
			} else {
				siteBPNs = append(siteBPNs, *req.ParentBPN)
			}
		}
		leParents, err := s.findLegalEntities(ctx, leBPNs)
		if err != nil {
			return err
		}
		siteParents, err := s.findSites(ctx, siteBPNs)
		if err != nil {
			return err
		}

		ready := valid[:0:0]
		for _, req := range valid {
			var found bool
			if bpn.IsKind(*req.ParentBPN, bpn.KindLegalEntity) {
				_, found = leParents[*req.ParentBPN]
			} else {
				_, found = siteParents[*req.ParentBPN]
			}
			if !found {
				resp.Errors = append(resp.Errors, newErrorInfo(req.Index, apperror.NewNotFound("parent", *req.ParentBPN)))
				continue
			}
			ready = append(ready, req)
		}
		if len(ready) == 0 {
			return nil
		}

		bpnas, err := s.issuer.Issue(ctx, bpn.KindAddress, len(ready))
		if err != nil {
			return fmt.Errorf("issue address BPNs: %w", err)
		}

		var (
			addrs   []*address.Address
			entries []changelog.Entry
		)
		for i, req := range ready {
			addr := buildStandaloneAddress(req, bpnas[i], meta)
			if bpn.IsKind(*req.ParentBPN, bpn.KindLegalEntity) {
				addr.SetLegalEntityParent(*req.ParentBPN, false)
			} else {
				addr.SetSiteParent(*req.ParentBPN, false)
			}
			if err := addr.Validate(ctx); err != nil {
				resp.Errors = append(resp.Errors, newErrorInfo(req.Index, err))
				continue
			}

			addrs = append(addrs, addr)
			entries = append(entries, changelog.NewEntry(addr.BPN, changelog.ChangeCreate, bpn.KindAddress, nil))
			resp.Entities = append(resp.Entities, AddressResult{Index: req.Index, Address: addr})
		}
		if len(addrs) == 0 {
			return nil
		}

		if err := s.addresses.CreateAll(ctx, addrs); err != nil {
			return fmt.Errorf("create addresses: %w", err)
		}
		if err := s.changelog.Append(ctx, entries); err != nil {
			return fmt.Errorf("append changelog: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "addresses created",
		"created", len(resp.Entities),
		"rejected", len(resp.Errors))
	return resp, nil
}

// --- Updates ---

// UpdateLegalEntities replaces the stored state of legal entities and their
// legal addresses. The currentness stamp advances on every accepted request
// even when nothing else changed; changelog entries are written only for real
// structural changes.
func (s *Service) UpdateLegalEntities(ctx context.Context, requests []LegalEntityUpdateRequest) (*Response[LegalEntityResult], error) {
	resp := emptyResponse[LegalEntityResult]()
	if len(requests) == 0 {
		return resp, nil
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		meta, err := s.metadata.Resolve(ctx, legalEntityUpdateKeys(requests))
		if err != nil {
			return err
		}

		valid, errs := validateLegalEntityUpdates(requests, meta)
		resp.Errors = append(resp.Errors, errs...)
		if len(valid) == 0 {
			return nil
		}

		les, err := s.findLegalEntities(ctx, collect(valid, func(r LegalEntityUpdateRequest) string { return r.BPN }))
		if err != nil {
			return err
		}
		addrBPNs := make([]string, 0, len(les))
		for _, le := range les {
			addrBPNs = append(addrBPNs, le.LegalAddressBPN)
		}
		addrs, err := s.findAddresses(ctx, addrBPNs)
		if err != nil {
			return err
		}

		now := utc(time.Now())
		var (
			leUpdates   []*legalentity.LegalEntity
			addrUpdates []*address.Address
			entries     []changelog.Entry
		)
		for _, req := range valid {
			le, ok := les[req.BPN]
			if !ok {
				resp.Errors = append(resp.Errors, newErrorInfo(req.BPN, apperror.NewNotFound("legal entity", req.BPN)))
				continue
			}
			addr, ok := addrs[le.LegalAddressBPN]
			if !ok {
				resp.Errors = append(resp.Errors, newErrorInfo(req.BPN, apperror.NewNotFound("legal address", le.LegalAddressBPN)))
				continue
			}

			beforeLE := snapshotLegalEntity(le)
			beforeAddr := snapshotAddress(addr)

			applyLegalEntityUpdate(le, req, meta, now)
			applyEmbeddedAddressUpdate(addr, req.LegalAddress, meta, now)
			if err := le.Validate(ctx); err != nil {
				resp.Errors = append(resp.Errors, newErrorInfo(req.BPN, err))
				continue
			}
			if err := addr.Validate(ctx); err != nil {
				resp.Errors = append(resp.Errors, newErrorInfo(req.BPN, err))
				continue
			}

			afterLE := snapshotLegalEntity(le)
			afterAddr := snapshotAddress(addr)

			// Persist even when equivalent so currentness advances.
			leUpdates = append(leUpdates, le)
			if !beforeLE.Equal(afterLE) {
				entries = append(entries, changelog.NewEntry(le.BPN, changelog.ChangeUpdate, bpn.KindLegalEntity, changelog.Diff(beforeLE, afterLE)))
			}
			if !beforeAddr.Equal(afterAddr) {
				addrUpdates = append(addrUpdates, addr)
				entries = append(entries, changelog.NewEntry(addr.BPN, changelog.ChangeUpdate, bpn.KindAddress, changelog.Diff(beforeAddr, afterAddr)))
			}
			resp.Entities = append(resp.Entities, LegalEntityResult{LegalEntity: le, LegalAddress: addr})
		}
		if len(leUpdates) == 0 {
			return nil
		}

		if err := s.legalEntities.UpdateAll(ctx, leUpdates); err != nil {
			return fmt.Errorf("update legal entities: %w", err)
		}
		if len(addrUpdates) > 0 {
			if err := s.addresses.UpdateAll(ctx, addrUpdates); err != nil {
				return fmt.Errorf("update legal addresses: %w", err)
			}
		}
		if len(entries) > 0 {
			if err := s.changelog.Append(ctx, entries); err != nil {
				return fmt.Errorf("append changelog: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "legal entities updated",
		"updated", len(resp.Entities),
		"rejected", len(resp.Errors))
	return resp, nil
}

// UpdateSites replaces the stored state of sites and their main addresses.
// When the main address aliases the parent's legal address, that address
// record is updated in place.
func (s *Service) UpdateSites(ctx context.Context, requests []SiteUpdateRequest) (*Response[SiteResult], error) {
	resp := emptyResponse[SiteResult]()
	if len(requests) == 0 {
		return resp, nil
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		meta, err := s.metadata.Resolve(ctx, siteUpdateKeys(requests))
		if err != nil {
			return err
		}

		valid, errs := validateSiteUpdates(requests, meta)
		resp.Errors = append(resp.Errors, errs...)
		if len(valid) == 0 {
			return nil
		}

		sites, err := s.findSites(ctx, collect(valid, func(r SiteUpdateRequest) string { return r.BPN }))
		if err != nil {
			return err
		}
		addrBPNs := make([]string, 0, len(sites))
		for _, st := range sites {
			addrBPNs = append(addrBPNs, st.MainAddressBPN)
		}
		addrs, err := s.findAddresses(ctx, addrBPNs)
		if err != nil {
			return err
		}

		now := utc(time.Now())
		var (
			siteUpdates []*site.Site
			addrUpdates []*address.Address
			entries     []changelog.Entry
		)
		for _, req := range valid {
			st, ok := sites[req.BPN]
			if !ok {
				resp.Errors = append(resp.Errors, newErrorInfo(req.BPN, apperror.NewNotFound("site", req.BPN)))
				continue
			}
			addr, ok := addrs[st.MainAddressBPN]
			if !ok {
				resp.Errors = append(resp.Errors, newErrorInfo(req.BPN, apperror.NewNotFound("main address", st.MainAddressBPN)))
				continue
			}

			beforeSite := snapshotSite(st)
			beforeAddr := snapshotAddress(addr)

			applySiteUpdate(st, req, now)
			applyEmbeddedAddressUpdate(addr, req.MainAddress, meta, now)
			if err := st.Validate(ctx); err != nil {
				resp.Errors = append(resp.Errors, newErrorInfo(req.BPN, err))
				continue
			}
			if err := addr.Validate(ctx); err != nil {
				resp.Errors = append(resp.Errors, newErrorInfo(req.BPN, err))
				continue
			}

			afterSite := snapshotSite(st)
			afterAddr := snapshotAddress(addr)

			if !beforeSite.Equal(afterSite) {
				siteUpdates = append(siteUpdates, st)
				entries = append(entries, changelog.NewEntry(st.BPN, changelog.ChangeUpdate, bpn.KindSite, changelog.Diff(beforeSite, afterSite)))
			}
			if !beforeAddr.Equal(afterAddr) {
				addrUpdates = append(addrUpdates, addr)
				entries = append(entries, changelog.NewEntry(addr.BPN, changelog.ChangeUpdate, bpn.KindAddress, changelog.Diff(beforeAddr, afterAddr)))
			}
			resp.Entities = append(resp.Entities, SiteResult{Site: st, MainAddress: addr})
		}

		if len(siteUpdates) > 0 {
			if err := s.sites.UpdateAll(ctx, siteUpdates); err != nil {
				return fmt.Errorf("update sites: %w", err)
			}
		}
		if len(addrUpdates) > 0 {
			if err := s.addresses.UpdateAll(ctx, addrUpdates); err != nil {
				return fmt.Errorf("update main addresses: %w", err)
			}
		}
		if len(entries) > 0 {
			if err := s.changelog.Append(ctx, entries); err != nil {
				return fmt.Errorf("append changelog: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sites updated",
		"updated", len(resp.Entities),
		"rejected", len(resp.Errors))
	return resp, nil
}

// UpdateAddresses replaces the stored state of addresses. Parent wiring and
// role flags are immutable through this operation.
func (s *Service) UpdateAddresses(ctx context.Context, requests []AddressUpdateRequest) (*Response[AddressResult], error) {
	resp := emptyResponse[AddressResult]()
	if len(requests) == 0 {
		return resp, nil
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		meta, err := s.metadata.Resolve(ctx, addressUpdateKeys(requests))
		if err != nil {
			return err
		}

		valid, errs := validateAddressUpdates(requests, meta)
		resp.Errors = append(resp.Errors, errs...)
		if len(valid) == 0 {
			return nil
		}

		addrs, err := s.findAddresses(ctx, collect(valid, func(r AddressUpdateRequest) string { return r.BPN }))
		if err != nil {
			return err
		}

		now := utc(time.Now())
		var (
			addrUpdates []*address.Address
			entries     []changelog.Entry
		)
		for _, req := range valid {
			addr, ok := addrs[req.BPN]
			if !ok {
				resp.Errors = append(resp.Errors, newErrorInfo(req.BPN, apperror.NewNotFound("address", req.BPN)))
				continue
			}

			before := snapshotAddress(addr)
			applyAddressUpdate(addr, req, meta, now)
			if err := addr.Validate(ctx); err != nil {
				resp.Errors = append(resp.Errors, newErrorInfo(req.BPN, err))
				continue
			}
			after := snapshotAddress(addr)

			if !before.Equal(after) {
				addrUpdates = append(addrUpdates, addr)
				entries = append(entries, changelog.NewEntry(addr.BPN, changelog.ChangeUpdate, bpn.KindAddress, changelog.Diff(before, after)))
			}
			resp.Entities = append(resp.Entities, AddressResult{Address: addr})
		}

		if len(addrUpdates) > 0 {
			if err := s.addresses.UpdateAll(ctx, addrUpdates); err != nil {
				return fmt.Errorf("update addresses: %w", err)
			}
			if err := s.changelog.Append(ctx, entries); err != nil {
				return fmt.Errorf("append changelog: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "addresses updated",
		"updated", len(resp.Entities),
		"rejected", len(resp.Errors))
	return resp, nil
}

// RefreshCurrentness advances the currentness stamp of one legal entity
// without touching anything else. No changelog entry is written.
func (s *Service) RefreshCurrentness(ctx context.Context, bpnl string) (*legalentity.LegalEntity, error) {
	if !bpn.IsKind(bpnl, bpn.KindLegalEntity) {
		return nil, apperror.NewValidation("malformed legal entity BPN").WithDetail("bpn", bpnl)
	}

	var le *legalentity.LegalEntity
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		le, err = s.legalEntities.GetByBPN(ctx, bpnl)
		if err != nil {
			return err
		}
		le.RefreshCurrentness()
		le.SetUpdatedAt(utc(time.Now()))
		if err := s.legalEntities.UpdateAll(ctx, []*legalentity.LegalEntity{le}); err != nil {
			return fmt.Errorf("update legal entity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return le, nil
}

// --- Lookup helpers ---

func (s *Service) findLegalEntities(ctx context.Context, bpns []string) (map[string]*legalentity.LegalEntity, error) {
	if len(bpns) == 0 {
		return map[string]*legalentity.LegalEntity{}, nil
	}
	les, err := s.legalEntities.FindByBPNs(ctx, bpns)
	if err != nil {
		return nil, fmt.Errorf("find legal entities: %w", err)
	}
	return indexByBPN(les, func(le *legalentity.LegalEntity) string { return le.BPN }), nil
}

func (s *Service) findSites(ctx context.Context, bpns []string) (map[string]*site.Site, error) {
	if len(bpns) == 0 {
		return map[string]*site.Site{}, nil
	}
	sites, err := s.sites.FindByBPNs(ctx, bpns)
	if err != nil {
		return nil, fmt.Errorf("find sites: %w", err)
	}
	return indexByBPN(sites, func(st *site.Site) string { return st.BPN }), nil
}

func (s *Service) findAddresses(ctx context.Context, bpns []string) (map[string]*address.Address, error) {
	if len(bpns) == 0 {
		return map[string]*address.Address{}, nil
	}
	addrs, err := s.addresses.FindByBPNs(ctx, bpns)
	if err != nil {
		return nil, fmt.Errorf("find addresses: %w", err)
	}
	return indexByBPN(addrs, func(a *address.Address) string { return a.BPN }), nil
}

func emptyResponse[T any]() *Response[T] {
	return &Response[T]{Entities: []T{}, Errors: []ErrorInfo{}}
}

func collect[R any](requests []R, keyOf func(R) string) []string {
	out := make([]string, 0, len(requests))
	for _, r := range requests {
		out = append(out, keyOf(r))
	}
	return out
}

func indexByBPN[T any](items []T, keyOf func(T) string) map[string]T {
	out := make(map[string]T, len(items))
	for _, it := range items {
		out[keyOf(it)] = it
	}
	return out
}
