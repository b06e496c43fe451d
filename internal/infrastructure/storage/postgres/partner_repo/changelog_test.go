package partner_repo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeChangesSmallPayloadStaysPlain(t *testing.T) {
	repo, err := NewChangelogRepo(nil)
	require.NoError(t, err)

	changes := map[string]any{
		"legalName": map[string]any{"old": "Acme GmbH", "new": "Acme SE"},
	}

	raw, compressed, algo, err := repo.encodeChanges(changes)
	require.NoError(t, err)
	assert.Equal(t, compressionNone, algo)
	assert.NotEmpty(t, raw)
	assert.Nil(t, compressed)

	decoded, err := repo.decodeChanges(raw, compressed, algo)
	require.NoError(t, err)
	assert.Equal(t, "Acme SE", decoded["legalName"].(map[string]any)["new"])
}

func TestEncodeChangesLargePayloadCompressed(t *testing.T) {
	repo, err := NewChangelogRepo(nil)
	require.NoError(t, err)

	// Well above the 10KB threshold.
	changes := map[string]any{
		"states": map[string]any{
			"old": strings.Repeat("a", 8*1024),
			"new": strings.Repeat("b", 8*1024),
		},
	}

	raw, compressed, algo, err := repo.encodeChanges(changes)
	require.NoError(t, err)
	assert.Equal(t, compressionZstd, algo)
	assert.Nil(t, raw)
	require.NotEmpty(t, compressed)
	// Highly repetitive payload should shrink substantially.
	assert.Less(t, len(compressed), 16*1024)

	decoded, err := repo.decodeChanges(raw, compressed, algo)
	require.NoError(t, err)
	assert.Equal(t, changes["states"].(map[string]any)["new"], decoded["states"].(map[string]any)["new"])
}

func TestEncodeChangesEmpty(t *testing.T) {
	repo, err := NewChangelogRepo(nil)
	require.NoError(t, err)

	raw, compressed, algo, err := repo.encodeChanges(nil)
	require.NoError(t, err)
	assert.Equal(t, compressionNone, algo)
	assert.Nil(t, raw)
	assert.Nil(t, compressed)

	decoded, err := repo.decodeChanges(raw, compressed, algo)
	require.NoError(t, err)
	assert.Nil(t, decoded)
}
