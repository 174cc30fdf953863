package inventory

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore keeps the shelf in process memory behind one mutex. It backs
// tests and DB-less local runs; the mutex gives every operation the same
// all-or-nothing behavior the Postgres store gets from transactions.
type MemoryStore struct {
	mu    sync.Mutex
	spots map[string]*Spot
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{spots: make(map[string]*Spot)}
}

func (s *MemoryStore) Init(context.Context) error {
	return nil
}

func (s *MemoryStore) Seed(_ context.Context, layout Layout) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, entry := range layout.Spots {
		if _, exists := s.spots[entry.SpotID]; exists {
			continue
		}
		s.spots[entry.SpotID] = &Spot{
			SpotID:   entry.SpotID,
			Size:     Size(entry.Size),
			Location: entry.Location,
			Status:   StatusFree,
		}
		added++
	}
	return added, nil
}

func (s *MemoryStore) Get(_ context.Context, spotID string) (Spot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spot, exists := s.spots[spotID]
	if !exists {
		return Spot{}, fmt.Errorf("%w: %s", ErrNotFound, spotID)
	}
	return *spot, nil
}

func (s *MemoryStore) ListFree(_ context.Context, size Size) ([]Spot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(func(spot *Spot) bool {
		return spot.Size == size && spot.Status == StatusFree
	}), nil
}

func (s *MemoryStore) ListOwned(_ context.Context, owner string) ([]Spot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(func(spot *Spot) bool {
		return spot.Owner == owner && spot.Status == StatusOccupied
	}), nil
}

func (s *MemoryStore) Reserve(_ context.Context, spotID, owner string) (Spot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spot, exists := s.spots[spotID]
	if !exists {
		return Spot{}, fmt.Errorf("%w: %s", ErrNotFound, spotID)
	}
	if spot.Occupied() {
		return Spot{}, fmt.Errorf("%w: %s", ErrAlreadyOccupied, spotID)
	}

	spot.Status = StatusOccupied
	spot.Owner = owner
	return *spot, nil
}

func (s *MemoryStore) ReleaseOwner(_ context.Context, owner string) ([]Spot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	released := s.collect(func(spot *Spot) bool {
		return spot.Owner == owner && spot.Status == StatusOccupied
	})
	for _, snapshot := range released {
		spot := s.spots[snapshot.SpotID]
		spot.Status = StatusFree
		spot.Owner = ""
	}
	return released, nil
}

// collect copies matching spots in ascending spot id order. Caller holds mu.
func (s *MemoryStore) collect(match func(*Spot) bool) []Spot {
	var spots []Spot
	for _, spot := range s.spots {
		if match(spot) {
			spots = append(spots, *spot)
		}
	}
	sort.Slice(spots, func(i, j int) bool {
		return spots[i].SpotID < spots[j].SpotID
	})
	return spots
}
