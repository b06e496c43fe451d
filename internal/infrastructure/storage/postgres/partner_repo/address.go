package partner_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"bpdm/internal/domain/partners/address"
	"bpdm/internal/infrastructure/storage/postgres"
)

const addressTable = "bp_addresses"

// AddressRepo implements address.Repository.
type AddressRepo struct {
	*BasePartnerRepo[*address.Address]
}

// Ensure compile-time interface compliance.
var _ address.Repository = (*AddressRepo)(nil)

// NewAddressRepo creates a new address repository.
func NewAddressRepo(txManager *postgres.TxManager) *AddressRepo {
	return &AddressRepo{
		BasePartnerRepo: NewBasePartnerRepo(
			txManager,
			addressTable,
			postgres.ExtractDBColumns[address.Address](),
			[]string{"name"},
			[]string{"legal_entity_bpn", "site_bpn"},
			func() *address.Address { return &address.Address{} },
		),
	}
}

// FindLegalAddresses retrieves the legal addresses owned by the given legal
// entities in one round-trip.
func (r *AddressRepo) FindLegalAddresses(ctx context.Context, legalEntityBPNs []string) ([]*address.Address, error) {
	if len(legalEntityBPNs) == 0 {
		return nil, nil
	}

	q := r.baseSelect().
		Where(squirrel.Eq{"legal_entity_bpn": legalEntityBPNs}).
		Where(squirrel.Eq{"is_legal_address": true})

	return r.SelectMany(ctx, q)
}
