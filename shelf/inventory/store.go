package inventory

import "context"

// Store is the persistence contract for storage spots. Every mutating call
// is atomic: it either fully applies or leaves the store untouched, and
// concurrent calls never interleave in a way that breaks the owner/status
// invariant.
type Store interface {
	// Init creates the backing schema if it does not exist yet.
	Init(ctx context.Context) error

	// Seed inserts layout spots that are not present yet, identified by
	// spot_id. Existing rows keep their occupancy state. Returns the number
	// of spots added.
	Seed(ctx context.Context, layout Layout) (int, error)

	// Get returns a single spot or ErrNotFound.
	Get(ctx context.Context, spotID string) (Spot, error)

	// ListFree returns every free spot of exactly the given size, ordered by
	// ascending spot id. An empty result is not an error.
	ListFree(ctx context.Context, size Size) ([]Spot, error)

	// ListOwned returns every occupied spot held by the owner, ordered by
	// ascending spot id.
	ListOwned(ctx context.Context, owner string) ([]Spot, error)

	// Reserve transitions one spot from free to occupied for the owner as a
	// single check-then-set. Exactly one of N racing callers wins; losers
	// get ErrAlreadyOccupied, a missing spot gets ErrNotFound.
	Reserve(ctx context.Context, spotID, owner string) (Spot, error)

	// ReleaseOwner frees every occupied spot of the owner in one transaction
	// and returns the pre-release snapshot. An empty snapshot means the
	// owner held nothing; partial release is never a valid outcome.
	ReleaseOwner(ctx context.Context, owner string) ([]Spot, error)
}
