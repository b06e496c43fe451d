package partner_repo

import (
	"bpdm/internal/domain/partners/legalentity"
	"bpdm/internal/infrastructure/storage/postgres"
)

const legalEntityTable = "bp_legal_entities"

// LegalEntityRepo implements legalentity.Repository.
type LegalEntityRepo struct {
	*BasePartnerRepo[*legalentity.LegalEntity]
}

// Ensure compile-time interface compliance.
var _ legalentity.Repository = (*LegalEntityRepo)(nil)

// NewLegalEntityRepo creates a new legal entity repository.
func NewLegalEntityRepo(txManager *postgres.TxManager) *LegalEntityRepo {
	return &LegalEntityRepo{
		BasePartnerRepo: NewBasePartnerRepo(
			txManager,
			legalEntityTable,
			postgres.ExtractDBColumns[legalentity.LegalEntity](),
			[]string{"legal_name", "short_name"},
			nil, // top-level kind, no parent column
			func() *legalentity.LegalEntity { return &legalentity.LegalEntity{} },
		),
	}
}
