// Package reservation implements the atomic allocation operations the
// concierge agents call as tools: list availability, reserve one spot for an
// apartment, list an apartment's packages, and release them all.
package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/smartshelf/concierge/shelf/inventory"
)

// ErrNothingToRelease signals that the owner had no occupied spots. Expected
// and recoverable; the caller phrases it, the engine never retries.
var ErrNothingToRelease = errors.New("no packages to release")

// Reservation is the confirmation record handed back after a successful
// reserve, snapshotting everything the caller needs for messaging.
type Reservation struct {
	SpotID   string         `json:"spot_id"`
	Size     inventory.Size `json:"size"`
	Location string         `json:"location"`
	Owner    string         `json:"owner"`
}

// Engine runs the four allocation operations against an inventory store.
// All mutation of spot state flows through here; atomicity comes from the
// store, the engine owns validation, ordering, and the error taxonomy.
type Engine struct {
	store inventory.Store
	log   zerolog.Logger
}

func NewEngine(store inventory.Store) (*Engine, error) {
	if store == nil {
		return nil, errors.New("inventory store is required")
	}
	return &Engine{
		store: store,
		log:   log.With().Str("component", "reservation_engine").Logger(),
	}, nil
}

// Initialize validates the layout, migrates the schema, and seeds spots that
// do not exist yet. Safe to run on every startup: occupied spots keep their
// occupancy.
func (e *Engine) Initialize(ctx context.Context, layout inventory.Layout) error {
	if err := layout.Validate(); err != nil {
		return err
	}
	if err := e.store.Init(ctx); err != nil {
		return err
	}
	added, err := e.store.Seed(ctx, layout)
	if err != nil {
		return err
	}
	e.log.Info().Int("layout_spots", len(layout.Spots)).Int("added", added).Msg("inventory initialized")
	return nil
}

// FindAvailableSpots lists every free spot whose size matches exactly,
// ascending by spot id. Empty means "none free", not an error. The engine
// never picks a spot on the caller's behalf.
func (e *Engine) FindAvailableSpots(ctx context.Context, rawSize string) ([]inventory.Spot, error) {
	size, err := inventory.ParseSize(rawSize)
	if err != nil {
		return nil, err
	}

	spots, err := e.store.ListFree(ctx, size)
	if err != nil {
		return nil, err
	}
	e.log.Debug().Str("size", string(size)).Int("available", len(spots)).Msg("availability queried")
	return spots, nil
}

// ReserveSpot atomically transitions one free spot to occupied for the
// owner. Under N racing callers exactly one wins; the rest observe the
// committed state and get inventory.ErrAlreadyOccupied.
func (e *Engine) ReserveSpot(ctx context.Context, spotID, owner string) (Reservation, error) {
	spotID = strings.TrimSpace(spotID)
	if spotID == "" {
		return Reservation{}, fmt.Errorf("%w: empty spot id", inventory.ErrNotFound)
	}
	owner = inventory.NormalizeOwner(owner)
	if owner == "" {
		return Reservation{}, errors.New("owner is required")
	}

	spot, err := e.store.Reserve(ctx, spotID, owner)
	if err != nil {
		e.log.Warn().Str("spot_id", spotID).Str("owner", owner).Err(err).Msg("reservation failed")
		return Reservation{}, err
	}

	e.log.Info().Str("spot_id", spot.SpotID).Str("owner", owner).Msg("spot reserved")
	return Reservation{
		SpotID:   spot.SpotID,
		Size:     spot.Size,
		Location: spot.Location,
		Owner:    spot.Owner,
	}, nil
}

// FindPackages lists every occupied spot held by the owner, ascending by
// spot id. Empty is a valid "nothing stored" outcome.
func (e *Engine) FindPackages(ctx context.Context, owner string) ([]inventory.Spot, error) {
	owner = inventory.NormalizeOwner(owner)
	if owner == "" {
		return nil, errors.New("owner is required")
	}

	spots, err := e.store.ListOwned(ctx, owner)
	if err != nil {
		return nil, err
	}
	e.log.Debug().Str("owner", owner).Int("packages", len(spots)).Msg("packages queried")
	return spots, nil
}

// ReleasePackages frees every spot the owner holds in one transaction and
// returns the pre-release snapshots for confirmation messaging. An owner
// with nothing stored gets ErrNothingToRelease and no state change.
func (e *Engine) ReleasePackages(ctx context.Context, owner string) ([]inventory.Spot, error) {
	owner = inventory.NormalizeOwner(owner)
	if owner == "" {
		return nil, errors.New("owner is required")
	}

	released, err := e.store.ReleaseOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(released) == 0 {
		return nil, fmt.Errorf("%w: owner %s", ErrNothingToRelease, owner)
	}

	e.log.Info().Str("owner", owner).Int("released", len(released)).Msg("packages released")
	return released, nil
}
