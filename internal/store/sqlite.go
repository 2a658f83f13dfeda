// internal/store/sqlite.go
//
// SQLite-backed Store. The whole session snapshot is serialized to JSON and
// upserted under one fixed key, so a restart picks up exactly where the
// last committed mutation left off. A missing or corrupt row loads as "no
// saved state" rather than an error.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lexiscore/go-server/internal/game"
)

// stateKey is the fixed storage key, kept compatible with saves written by
// earlier revisions of the app.
const stateKey = "lexiscore_game_state_v1"

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore constructs a Store writing to the game_state table.
// The schema must already exist (see ensureSchema in package main).
func NewSQLiteStore(db *sql.DB) game.Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) Save(ctx context.Context, st *game.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO game_state (key, data, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET data=excluded.data, updated_at=excluded.updated_at`,
		stateKey, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (s *sqliteStore) Load(ctx context.Context) (*game.State, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM game_state WHERE key=?`, stateKey,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var st game.State
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		// Corrupt blob: treat as no saved state.
		log.Warn().Err(err).Str("key", stateKey).Msg("discarding unreadable snapshot")
		return nil, nil
	}
	return &st, nil
}
