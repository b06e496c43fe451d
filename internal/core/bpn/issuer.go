package bpn

import (
	"context"
)

// Issuer mints batches of unique BPNs.
// This is the domain contract - implementations live in infrastructure layer.
//
// Ordering is part of the contract: position i of the returned sequence is
// assigned to position i of the request batch that asked for it. Issue fails
// with an ISSUANCE_EXHAUSTED error when the counter space of a kind is depleted;
// callers must treat that as fatal for the whole batch.
type Issuer interface {
	// Issue returns count fresh, never-before-issued BPNs of the given kind.
	Issue(ctx context.Context, kind Kind, count int) ([]string, error)
}
