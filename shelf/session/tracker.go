package session

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/smartshelf/concierge/shelf/inventory"
)

// DeskSessionID is the well-known id of the one shared conversational
// context for the whole concierge desk.
const DeskSessionID = "concierge_desk"

// Tracker owns the booking session lifecycle: create-on-write setters with
// last-write-wins semantics and an idempotent delete that resets the desk
// back to an empty session after every completed or abandoned flow.
type Tracker struct {
	store     Store
	sessionID string
	log       zerolog.Logger
	now       func() time.Time
}

type TrackerOption func(*Tracker)

// WithSessionID overrides the well-known desk session id. Used in tests.
func WithSessionID(id string) TrackerOption {
	return func(t *Tracker) {
		if id != "" {
			t.sessionID = id
		}
	}
}

func NewTracker(store Store, opts ...TrackerOption) (*Tracker, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	t := &Tracker{
		store:     store,
		sessionID: DeskSessionID,
		log:       log.With().Str("component", "booking_session").Logger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// SetSize records the package size being worked with. Overwrites any prior
// value; rejects anything outside the size enum without touching state.
func (t *Tracker) SetSize(ctx context.Context, rawSize string) (State, error) {
	size, err := inventory.ParseSize(rawSize)
	if err != nil {
		return State{}, err
	}
	return t.mutate(ctx, func(st *State) {
		st.PendingSize = size
	})
}

// SetApartment records the apartment number, uppercased so "3b" and "3B"
// address the same unit. Last write wins.
func (t *Tracker) SetApartment(ctx context.Context, owner string) (State, error) {
	return t.mutate(ctx, func(st *State) {
		st.PendingOwner = inventory.NormalizeOwner(owner)
	})
}

// SetSpot records the candidate spot a storage flow surfaced and is waiting
// to confirm.
func (t *Tracker) SetSpot(ctx context.Context, spotID, location string) (State, error) {
	return t.mutate(ctx, func(st *State) {
		available := true
		st.SpotID = spotID
		st.SpotLocation = location
		st.SpotAvailable = &available
	})
}

// MarkNoSpot records that availability was checked and nothing was free.
func (t *Tracker) MarkNoSpot(ctx context.Context) (State, error) {
	return t.mutate(ctx, func(st *State) {
		available := false
		st.SpotID = ""
		st.SpotLocation = ""
		st.SpotAvailable = &available
	})
}

// State returns what is known so far. An absent record reads as an empty
// session, not an error.
func (t *Tracker) State(ctx context.Context) (State, error) {
	st, err := t.store.Load(ctx, t.sessionID)
	if err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return State{SessionID: t.sessionID}, nil
		}
		return State{}, err
	}
	return st, nil
}

// Delete clears the session back to empty. Idempotent: deleting an already
// empty session is a no-op, never an error.
func (t *Tracker) Delete(ctx context.Context) error {
	if err := t.store.Delete(ctx, t.sessionID); err != nil {
		return err
	}
	t.log.Debug().Str("session_id", t.sessionID).Msg("booking session cleared")
	return nil
}

// mutate is the single load-modify-save path every setter goes through: the
// record is created on first write, untouched fields are preserved, and a
// failed save leaves prior persisted state as it was.
func (t *Tracker) mutate(ctx context.Context, apply func(*State)) (State, error) {
	st, err := t.State(ctx)
	if err != nil {
		return State{}, err
	}

	apply(&st)
	st.SessionID = t.sessionID
	st.UpdatedAt = t.now().UTC()

	if err := t.store.Save(ctx, st); err != nil {
		return State{}, err
	}
	return st, nil
}
