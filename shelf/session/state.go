// Package session holds the slot-filling state for the one shared concierge
// conversation: what the operator has told us so far about a package, and
// which spot a storage flow is waiting to confirm.
package session

import (
	"time"

	"github.com/smartshelf/concierge/shelf/inventory"
)

// Stage is the conceptual progress marker derived from which fields are set.
type Stage string

const (
	StageEmpty                Stage = "empty"
	StageSizeSet              Stage = "size_set"
	StageOwnerSet             Stage = "owner_set"
	StageAwaitingConfirmation Stage = "awaiting_confirmation"
)

// State is the single booking session record. Fields fill monotonically per
// setter call; a setter either fully succeeds or leaves everything as it
// was. Absent explicit deletion the record persists indefinitely.
type State struct {
	SessionID    string         `json:"session_id"`
	PendingSize  inventory.Size `json:"pending_size,omitempty"`
	PendingOwner string         `json:"pending_owner,omitempty"`

	// Candidate spot surfaced by the storage flow, pending a yes/no from
	// the operator. SpotAvailable is nil until availability was checked.
	SpotID        string `json:"spot_id,omitempty"`
	SpotLocation  string `json:"spot_location,omitempty"`
	SpotAvailable *bool  `json:"spot_available,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Stage derives the progress marker from the filled fields.
func (s State) Stage() Stage {
	switch {
	case s.SpotAvailable != nil && *s.SpotAvailable:
		return StageAwaitingConfirmation
	case s.PendingOwner != "":
		return StageOwnerSet
	case s.PendingSize != "":
		return StageSizeSet
	default:
		return StageEmpty
	}
}

// Empty reports whether nothing has been gathered yet.
func (s State) Empty() bool {
	return s.PendingSize == "" && s.PendingOwner == "" &&
		s.SpotID == "" && s.SpotLocation == "" && s.SpotAvailable == nil
}
