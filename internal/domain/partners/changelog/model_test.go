package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bpdm/internal/core/bpn"
	"bpdm/internal/core/id"
)

func TestDiff(t *testing.T) {
	oldState := map[string]any{
		"legalName": "Acme GmbH",
		"shortName": "Acme",
		"legalForm": "GMBH",
	}
	newState := map[string]any{
		"legalName": "Acme Holding GmbH",
		"legalForm": "GMBH",
		"website":   "https://acme.example",
	}

	changes := Diff(oldState, newState)

	require.Len(t, changes, 3)
	assert.Equal(t, map[string]any{"old": "Acme GmbH", "new": "Acme Holding GmbH"}, changes["legalName"])
	assert.Equal(t, map[string]any{"old": "Acme", "new": nil}, changes["shortName"])
	assert.Equal(t, map[string]any{"old": nil, "new": "https://acme.example"}, changes["website"])
	assert.NotContains(t, changes, "legalForm")
}

func TestDiffNestedBlocks(t *testing.T) {
	oldState := map[string]any{
		"physicalPostalAddress": map[string]any{"country": "DE", "city": "Stuttgart"},
	}
	newState := map[string]any{
		"physicalPostalAddress": map[string]any{"country": "DE", "city": "Karlsruhe"},
	}

	changes := Diff(oldState, newState)
	require.Contains(t, changes, "physicalPostalAddress")
}

func TestDiffEqualStates(t *testing.T) {
	state := map[string]any{"legalName": "Acme GmbH"}
	assert.Empty(t, Diff(state, state))
}

func TestNewEntry(t *testing.T) {
	e := NewEntry("BPNL000000000123", ChangeUpdate, bpn.KindLegalEntity, map[string]any{"legalName": "x"})

	assert.False(t, id.IsNil(e.ID))
	assert.Equal(t, "BPNL000000000123", e.BPN)
	assert.Equal(t, ChangeUpdate, e.ChangeType)
	assert.Equal(t, bpn.KindLegalEntity, e.PartnerType)
	assert.False(t, e.CreatedAt.IsZero())
}
