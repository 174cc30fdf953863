package session

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreLoadNotFound(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	if _, err := store.Load(context.Background(), DeskSessionID); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("error = %v, want ErrStateNotFound", err)
	}
}

func TestMemoryStoreRejectsEmptySessionID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Load(ctx, " "); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Load error = %v, want ErrInvalidSession", err)
	}
	if err := store.Save(ctx, State{}); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Save error = %v, want ErrInvalidSession", err)
	}
	if err := store.Delete(ctx, ""); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Delete error = %v, want ErrInvalidSession", err)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	saved := State{SessionID: DeskSessionID, PendingOwner: "12"}
	if err := store.Save(ctx, saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load(ctx, DeskSessionID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.PendingOwner != "12" {
		t.Fatalf("Load() = %+v, want saved state", loaded)
	}

	if err := store.Delete(ctx, DeskSessionID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(ctx, DeskSessionID); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("error after delete = %v, want ErrStateNotFound", err)
	}
}
