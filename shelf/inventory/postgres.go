package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
)

// PostgresStore keeps the shelf in Postgres through bun. Reserve and
// ReleaseOwner serialize against each other with row-level locks
// (SELECT ... FOR UPDATE) so a lost reservation race always surfaces as
// ErrAlreadyOccupied instead of a silent double booking.
type PostgresStore struct {
	db *bun.DB
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db *bun.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, errors.New("bun db is required")
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Init(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*Spot)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create storage_spots table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Seed(ctx context.Context, layout Layout) (int, error) {
	spots := make([]Spot, 0, len(layout.Spots))
	for _, entry := range layout.Spots {
		spots = append(spots, Spot{
			SpotID:   entry.SpotID,
			Size:     Size(entry.Size),
			Location: entry.Location,
			Status:   StatusFree,
		})
	}
	if len(spots) == 0 {
		return 0, nil
	}

	// Insert-if-absent keeps reseeding idempotent: rows that already exist
	// retain their occupancy state.
	res, err := s.db.NewInsert().
		Model(&spots).
		On("CONFLICT (spot_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed storage spots: %w", err)
	}

	added, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("seed storage spots: %w", err)
	}
	if added > 0 {
		log.Info().Int64("added", added).Msg("seeded storage spots from layout")
	}
	return int(added), nil
}

func (s *PostgresStore) Get(ctx context.Context, spotID string) (Spot, error) {
	var spot Spot
	err := s.db.NewSelect().
		Model(&spot).
		Where("spot_id = ?", spotID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Spot{}, fmt.Errorf("%w: %s", ErrNotFound, spotID)
		}
		return Spot{}, fmt.Errorf("get spot %s: %w", spotID, err)
	}
	return spot, nil
}

func (s *PostgresStore) ListFree(ctx context.Context, size Size) ([]Spot, error) {
	var spots []Spot
	err := s.db.NewSelect().
		Model(&spots).
		Where("size = ? AND status = ?", size, StatusFree).
		Order("spot_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list free %s spots: %w", size, err)
	}
	return spots, nil
}

func (s *PostgresStore) ListOwned(ctx context.Context, owner string) ([]Spot, error) {
	var spots []Spot
	err := s.db.NewSelect().
		Model(&spots).
		Where("owner = ? AND status = ?", owner, StatusOccupied).
		Order("spot_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list spots owned by %s: %w", owner, err)
	}
	return spots, nil
}

func (s *PostgresStore) Reserve(ctx context.Context, spotID, owner string) (Spot, error) {
	var reserved Spot
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var spot Spot
		// Row lock first: concurrent reservations of the same spot queue up
		// here, and every loser observes the committed occupied state.
		err := tx.NewSelect().
			Model(&spot).
			Where("spot_id = ?", spotID).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", ErrNotFound, spotID)
			}
			return fmt.Errorf("lock spot row: %w", err)
		}

		if spot.Occupied() {
			return fmt.Errorf("%w: %s", ErrAlreadyOccupied, spotID)
		}

		spot.Status = StatusOccupied
		spot.Owner = owner
		if _, err := tx.NewUpdate().
			Model(&spot).
			Column("status", "owner").
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("mark spot occupied: %w", err)
		}

		reserved = spot
		return nil
	})
	if err != nil {
		return Spot{}, err
	}
	return reserved, nil
}

func (s *PostgresStore) ReleaseOwner(ctx context.Context, owner string) ([]Spot, error) {
	var released []Spot
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var spots []Spot
		err := tx.NewSelect().
			Model(&spots).
			Where("owner = ? AND status = ?", owner, StatusOccupied).
			Order("spot_id ASC").
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			return fmt.Errorf("lock owned spots: %w", err)
		}
		if len(spots) == 0 {
			return nil
		}

		if _, err := tx.NewUpdate().
			Model((*Spot)(nil)).
			Set("status = ?", StatusFree).
			Set("owner = ''").
			Where("owner = ? AND status = ?", owner, StatusOccupied).
			Exec(ctx); err != nil {
			return fmt.Errorf("release owned spots: %w", err)
		}

		released = spots
		return nil
	})
	if err != nil {
		return nil, err
	}
	return released, nil
}
