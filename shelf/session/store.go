package session

import (
	"context"
	"errors"
)

var (
	ErrStateNotFound  = errors.New("booking session not found")
	ErrInvalidSession = errors.New("session id is empty")
)

// Store is the persistence contract for the booking session record. Load
// returns ErrStateNotFound for an absent record; Delete of an absent record
// is a no-op.
type Store interface {
	Load(ctx context.Context, sessionID string) (State, error)
	Save(ctx context.Context, st State) error
	Delete(ctx context.Context, sessionID string) error
}
