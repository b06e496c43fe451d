package postgres

import (
	"context"
	"fmt"
	"strings"

	"bpdm/internal/core/apperror"
	"bpdm/internal/core/bpn"
)

// BPNIssuer implements bpn.Issuer on top of the sys_sequences table, one row
// per partner kind. Issue reserves a contiguous counter range in a single
// UPSERT round-trip through the caller's transaction, so a batch gets gapless
// ascending numbers and concurrent batches never overlap.
//
// Counters reserved by a batch that later rolls back are lost; BPN sequences
// may contain gaps, which is acceptable as the values are opaque identifiers.
type BPNIssuer struct {
	txManager *TxManager
}

// NewBPNIssuer creates a database-backed BPN issuer.
func NewBPNIssuer(txManager *TxManager) *BPNIssuer {
	return &BPNIssuer{txManager: txManager}
}

// Ensure compile-time interface compliance.
var _ bpn.Issuer = (*BPNIssuer)(nil)

// Issue reserves count counters for the kind and returns the formatted BPNs
// in ascending counter order.
func (i *BPNIssuer) Issue(ctx context.Context, kind bpn.Kind, count int) ([]string, error) {
	if !bpn.IsValidKind(kind) {
		return nil, apperror.NewValidation("unknown partner kind").WithDetail("kind", string(kind))
	}
	if count <= 0 {
		return nil, nil
	}

	q := i.txManager.GetQuerier(ctx)
	key := sequenceKey(kind)

	var newMax int64
	err := q.QueryRow(ctx, `
        INSERT INTO sys_sequences (key, current_val)
        VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + $2
        RETURNING current_val
	`, key, int64(count)).Scan(&newMax)
	if err != nil {
		return nil, fmt.Errorf("reserve bpn range: %w", err)
	}

	if newMax > bpn.MaxCounter {
		return nil, apperror.NewIssuanceExhausted(string(kind))
	}

	values := make([]string, 0, count)
	for c := newMax - int64(count) + 1; c <= newMax; c++ {
		v, err := bpn.Format(kind, c)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func sequenceKey(kind bpn.Kind) string {
	return "bpn_" + strings.ToLower(string(kind))
}
