package site

import (
	"bpdm/internal/domain/partners"
)

// Repository defines the interface for Site persistence.
type Repository interface {
	partners.Repository[*Site]
}
