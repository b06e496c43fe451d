package bpn

import (
	"context"
	"sync"

	"bpdm/internal/core/apperror"
)

// MockIssuer is a test implementation of Issuer.
// Use in unit tests to avoid database dependencies.
//
// Numbers are deterministic per kind (1, 2, 3, ...). Limit, when positive,
// caps the total count per kind so exhaustion paths can be exercised.
type MockIssuer struct {
	// IssueFunc overrides the default behavior when set.
	IssueFunc func(ctx context.Context, kind Kind, count int) ([]string, error)

	// Limit caps issued numbers per kind (0 = unlimited).
	Limit int64

	mu       sync.Mutex
	counters map[Kind]int64
}

// NewMockIssuer creates a deterministic in-memory issuer.
func NewMockIssuer() *MockIssuer {
	return &MockIssuer{counters: make(map[Kind]int64)}
}

// Issue implements Issuer.
func (m *MockIssuer) Issue(ctx context.Context, kind Kind, count int) ([]string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, kind, count)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.counters == nil {
		m.counters = make(map[Kind]int64)
	}

	if m.Limit > 0 && m.counters[kind]+int64(count) > m.Limit {
		return nil, apperror.NewIssuanceExhausted(string(kind))
	}

	values := make([]string, 0, count)
	for i := 0; i < count; i++ {
		m.counters[kind]++
		v, err := Format(kind, m.counters[kind])
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// Issued returns how many BPNs of a kind have been minted so far.
func (m *MockIssuer) Issued(kind Kind) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[kind]
}

// Ensure compile-time interface compliance.
var _ Issuer = (*MockIssuer)(nil)
