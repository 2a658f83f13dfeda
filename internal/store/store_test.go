package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexiscore/go-server/internal/game"
)

func TestMemoryStoreEmptyLoad(t *testing.T) {
	m := NewMemoryStore()

	st, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestMemoryStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	s := game.DefaultState()

	require.NoError(t, m.Save(ctx, s))
	got, err := m.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s.Players[0].ID, got.Players[0].ID)
}

func TestMemoryStoreCopiesOnSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	s := game.DefaultState()
	require.NoError(t, m.Save(ctx, s))

	// Mutating the saved-in state must not leak into the store.
	s.Players[0].Name = "tampered"
	got, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Player 1", got.Players[0].Name)

	// Nor must mutating a loaded state.
	got.Players[0].Name = "tampered"
	again, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Player 1", again.Players[0].Name)
}
