package entity

import (
	"time"

	"bpdm/internal/core/id"
)

///////////////////
// Base Partner  //
///////////////////

// BasePartner contains common fields for all business partner records
// (legal entities, sites, logistic addresses).
type BasePartner struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`

	// Attributes stores custom fields (JSONB in PostgreSQL)
	Attributes Attributes `db:"attributes" json:"attributes,omitempty"`

	// Audit timestamps
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBasePartner creates a new BasePartner with generated ID and timestamps.
func NewBasePartner() BasePartner {
	now := time.Now().UTC()
	return BasePartner{
		ID:        id.New(),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp and increments version.
func (b *BasePartner) Touch() {
	b.UpdatedAt = time.Now().UTC()
	b.Version++
}

// SetUpdatedAt updates the updated_at timestamp (used on the update path,
// where the repository increments the version in SQL).
func (b *BasePartner) SetUpdatedAt(t time.Time) {
	b.UpdatedAt = t
}

// SetVersion updates the version number (used by repository after sync).
func (b *BasePartner) SetVersion(v int) {
	b.Version = v
}

// SetAttribute is a convenience method for setting custom fields.
func (b *BasePartner) SetAttribute(key string, value any) {
	if b.Attributes == nil {
		b.Attributes = make(Attributes)
	}
	b.Attributes[key] = value
}

// GetAttribute is a convenience method for getting custom fields.
func (b *BasePartner) GetAttribute(key string) any {
	if b.Attributes == nil {
		return nil
	}
	return b.Attributes[key]
}
