package legalentity

import (
	"bpdm/internal/domain/partners"
)

// Repository defines the interface for LegalEntity persistence.
type Repository interface {
	partners.Repository[*LegalEntity]
}
