// Package changelog provides the append-only change journal for business
// partner records. One entry is written per entity per pipeline invocation
// that produced a real structural change.
package changelog

import (
	"fmt"
	"time"

	"bpdm/internal/core/bpn"
	"bpdm/internal/core/id"
)

// ChangeType is the kind of change recorded.
type ChangeType string

const (
	ChangeCreate ChangeType = "CREATE"
	ChangeUpdate ChangeType = "UPDATE"
)

// Entry is a single changelog record.
type Entry struct {
	ID          id.ID      `db:"id" json:"id"`
	BPN         string     `db:"bpn" json:"bpn"`
	ChangeType  ChangeType `db:"change_type" json:"changeType"`
	PartnerType bpn.Kind   `db:"partner_type" json:"partnerType"`

	// Changes holds the field-level diff between the before/after equivalence
	// snapshots (empty for creates). Stored compressed above a size threshold.
	Changes map[string]any `db:"-" json:"changes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewEntry creates an entry with generated ID and timestamp.
func NewEntry(partnerBPN string, changeType ChangeType, partnerType bpn.Kind, changes map[string]any) Entry {
	return Entry{
		ID:          id.New(),
		BPN:         partnerBPN,
		ChangeType:  changeType,
		PartnerType: partnerType,
		Changes:     changes,
		CreatedAt:   time.Now().UTC(),
	}
}

// Diff calculates the difference between old and new snapshot states.
// Each changed key maps to {"old": ..., "new": ...}.
func Diff(oldState, newState map[string]any) map[string]any {
	changes := make(map[string]any)

	// Find changed and new fields
	for key, newVal := range newState {
		oldVal, exists := oldState[key]
		if !exists {
			changes[key] = map[string]any{"old": nil, "new": newVal}
		} else if !equal(oldVal, newVal) {
			changes[key] = map[string]any{"old": oldVal, "new": newVal}
		}
	}

	// Find deleted fields
	for key, oldVal := range oldState {
		if _, exists := newState[key]; !exists {
			changes[key] = map[string]any{"old": oldVal, "new": nil}
		}
	}

	return changes
}

// equal compares two values for equality via their canonical string form.
// Snapshot maps come from JSON round-trips, so this is stable enough here.
func equal(a, b any) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}
