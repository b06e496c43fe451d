package address

import (
	"context"

	"bpdm/internal/domain/partners"
)

// Repository defines the interface for Address persistence.
type Repository interface {
	partners.Repository[*Address]

	// FindLegalAddresses retrieves the legal addresses owned by the given
	// legal entities (batched, one round-trip).
	FindLegalAddresses(ctx context.Context, legalEntityBPNs []string) ([]*Address, error)
}
