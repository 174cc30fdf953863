// Package inventory holds the durable record of every storage spot and the
// transactional primitives the reservation engine runs on.
package inventory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

var (
	ErrConfig          = errors.New("invalid storage layout")
	ErrNotFound        = errors.New("spot not found")
	ErrAlreadyOccupied = errors.New("spot already occupied")
	ErrInvalidSize     = errors.New("invalid size")
)

// Size is the fixed category of a storage spot. Matching is exact: a request
// for S is never upgraded to a free M or L spot.
type Size string

const (
	SizeSmall  Size = "S"
	SizeMedium Size = "M"
	SizeLarge  Size = "L"
)

// ParseSize normalizes a raw size value ("s", " M ", ...) into the enum.
func ParseSize(raw string) (Size, error) {
	switch Size(strings.ToUpper(strings.TrimSpace(raw))) {
	case SizeSmall:
		return SizeSmall, nil
	case SizeMedium:
		return SizeMedium, nil
	case SizeLarge:
		return SizeLarge, nil
	default:
		return "", fmt.Errorf("%w: %q (want S, M, or L)", ErrInvalidSize, raw)
	}
}

type Status string

const (
	StatusFree     Status = "free"
	StatusOccupied Status = "occupied"
)

// Spot is one physical storage location. SpotID, Size, and Location are
// immutable after seeding; only Status and Owner cycle. Owner is non-empty
// exactly when Status is occupied.
type Spot struct {
	bun.BaseModel `bun:"table:storage_spots" json:"-"`

	SpotID   string `bun:"spot_id,pk" json:"spot_id"`
	Size     Size   `bun:"size,notnull" json:"size"`
	Location string `bun:"location,notnull" json:"location"`
	Status   Status `bun:"status,notnull,default:'free'" json:"status"`
	Owner    string `bun:"owner,notnull,default:''" json:"owner,omitempty"`
}

// Occupied reports whether the spot currently holds a package.
func (s Spot) Occupied() bool {
	return s.Status == StatusOccupied
}

// NormalizeOwner canonicalizes an apartment identifier so "3b" and "3B"
// address the same unit.
func NormalizeOwner(owner string) string {
	return strings.ToUpper(strings.TrimSpace(owner))
}
