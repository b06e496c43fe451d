package partner_repo

import (
	"bpdm/internal/domain/partners/site"
	"bpdm/internal/infrastructure/storage/postgres"
)

const siteTable = "bp_sites"

// SiteRepo implements site.Repository.
type SiteRepo struct {
	*BasePartnerRepo[*site.Site]
}

// Ensure compile-time interface compliance.
var _ site.Repository = (*SiteRepo)(nil)

// NewSiteRepo creates a new site repository.
func NewSiteRepo(txManager *postgres.TxManager) *SiteRepo {
	return &SiteRepo{
		BasePartnerRepo: NewBasePartnerRepo(
			txManager,
			siteTable,
			postgres.ExtractDBColumns[site.Site](),
			[]string{"name"},
			[]string{"legal_entity_bpn"},
			func() *site.Site { return &site.Site{} },
		),
	}
}
