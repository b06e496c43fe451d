package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bpdm/internal/core/entity"
	"bpdm/internal/core/id"
)

type mockPartner struct {
	entity.BasePartner
	BPN  string `db:"bpn" json:"bpn"`
	Name string `db:"name" json:"name"`
	Skip string `db:"-" json:"skip"`
}

func TestExtractDBColumns_EmbeddedBase(t *testing.T) {
	cols := ExtractDBColumns[mockPartner]()

	expectedCols := []string{
		"id", "version", "attributes", "created_at", "updated_at", "bpn", "name",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "skip")
}

func TestStructToMap_EmbeddedBase(t *testing.T) {
	base := entity.NewBasePartner()
	base.Version = 5
	p := mockPartner{
		BasePartner: base,
		BPN:         "BPNL000000000123",
		Name:        "Acme GmbH",
		Skip:        "ignored",
	}

	m := StructToMap(p)

	assert.Equal(t, base.ID, m["id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, base.CreatedAt, m["created_at"])
	assert.Equal(t, "BPNL000000000123", m["bpn"])
	assert.Equal(t, "Acme GmbH", m["name"])
	assert.NotContains(t, m, "skip")
}

func TestStructToMap_PointerInput(t *testing.T) {
	p := &mockPartner{BasePartner: entity.BasePartner{ID: id.New()}, BPN: "BPNA000000000123"}

	m := StructToMap(p)
	assert.Equal(t, p.ID, m["id"])
	assert.Equal(t, "BPNA000000000123", m["bpn"])
}
