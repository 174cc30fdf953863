package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// sessionRow is the durable shape: one row per session id carrying the full
// state as a JSON payload, upserted on every save.
type sessionRow struct {
	bun.BaseModel `bun:"table:booking_sessions"`

	SessionID string    `bun:"session_id,pk"`
	Data      []byte    `bun:"data,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// PostgresStore persists the booking session in the same Postgres database
// as the inventory, so an interrupted multi-turn booking survives restarts.
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

// Init creates the booking_sessions table if it does not exist yet.
func (s *PostgresStore) Init(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*sessionRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create booking_sessions table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, sessionID string) (State, error) {
	if strings.TrimSpace(sessionID) == "" {
		return State{}, ErrInvalidSession
	}

	var row sessionRow
	err := s.db.NewSelect().
		Model(&row).
		Where("session_id = ?", sessionID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return State{}, ErrStateNotFound
		}
		return State{}, fmt.Errorf("load booking session: %w", err)
	}

	var st State
	if err := json.Unmarshal(row.Data, &st); err != nil {
		return State{}, fmt.Errorf("unmarshal booking session: %w", err)
	}
	st.SessionID = row.SessionID
	return st, nil
}

func (s *PostgresStore) Save(ctx context.Context, st State) error {
	if strings.TrimSpace(st.SessionID) == "" {
		return ErrInvalidSession
	}
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal booking session: %w", err)
	}

	row := sessionRow{
		SessionID: st.SessionID,
		Data:      payload,
		UpdatedAt: st.UpdatedAt,
	}
	if _, err := s.db.NewInsert().
		Model(&row).
		On("CONFLICT (session_id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("save booking session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidSession
	}

	// Deleting an absent row is a no-op, matching the idempotent teardown
	// contract.
	if _, err := s.db.NewDelete().
		Model((*sessionRow)(nil)).
		Where("session_id = ?", sessionID).
		Exec(ctx); err != nil {
		return fmt.Errorf("delete booking session: %w", err)
	}
	return nil
}
