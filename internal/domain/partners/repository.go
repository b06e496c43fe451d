// Package partners provides shared repository contracts and list types for
// business partner records.
package partners

import (
	"context"
)

// --- Filter & Pagination ---

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search performs substring search on name fields
	Search string

	// BPNs filters by specific business partner numbers
	BPNs []string

	// ParentBPN filters by owning partner (sites by legal entity, addresses by parent)
	ParentBPN string

	// OrderBy specifies sorting (e.g., "bpn", "-created_at")
	OrderBy string

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "bpn",
	}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- Repository contract ---

// Repository defines persistence operations shared by all partner kinds.
// The build pipeline relies on batched variants: one FindByBPNs per update
// batch and one CreateAll/UpdateAll per operation, all inside the operation's
// transaction.
type Repository[T any] interface {
	// GetByBPN retrieves a record by its business partner number.
	GetByBPN(ctx context.Context, bpn string) (T, error)

	// FindByBPNs retrieves the distinct set of records matching the given BPNs.
	// Missing BPNs are simply absent from the result, never an error.
	FindByBPNs(ctx context.Context, bpns []string) ([]T, error)

	// CreateAll inserts all records in one batched round-trip.
	CreateAll(ctx context.Context, entities []T) error

	// UpdateAll updates all records in one batched round-trip
	// (with optimistic locking per record).
	UpdateAll(ctx context.Context, entities []T) error

	// List retrieves records with filtering and pagination.
	List(ctx context.Context, filter ListFilter) (ListResult[T], error)

	// ExistsByBPN checks if a record with the given BPN exists.
	ExistsByBPN(ctx context.Context, bpn string) (bool, error)
}
