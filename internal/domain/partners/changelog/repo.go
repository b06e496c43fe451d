package changelog

import (
	"context"
)

// Repository defines the append-only changelog sink.
type Repository interface {
	// Append writes all entries in one batched call. No dedup is performed;
	// callers invoke it only for entities that were created or materially changed.
	Append(ctx context.Context, entries []Entry) error

	// ListByBPNs retrieves entries for the given BPNs, newest first.
	ListByBPNs(ctx context.Context, bpns []string, limit int) ([]Entry, error)
}
