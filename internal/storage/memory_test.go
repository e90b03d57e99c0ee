package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"ec4x/internal/fow"
	"ec4x/internal/model"
	"ec4x/internal/orchestrator"
)

func TestMemoryRoundTripsTurnResult(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	game := model.NewGameID()

	err := m.AppendTurnResult(ctx, game, orchestrator.TurnResult{Turn: 3})
	require.NoError(t, err)

	got, err := m.LoadTurnResult(ctx, game, 3)
	require.NoError(t, err)
	require.Equal(t, 3, got.Turn)
}

func TestMemoryLoadTurnResultMissingReturnsErrNotFound(t *testing.T) {
	m := NewMemory()
	_, err := m.LoadTurnResult(context.Background(), model.NewGameID(), 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRoundTripsPlayerView(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	game := model.NewGameID()
	view := fow.PlayerView{House: 1, Turn: 2}

	err := m.SaveView(ctx, game, 1, 2, view)
	require.NoError(t, err)

	got, err := m.LoadView(ctx, game, 1, 2)
	require.NoError(t, err)
	require.Equal(t, model.HouseID(1), got.House)
}

func TestMemoryLoadViewMissingReturnsErrNotFound(t *testing.T) {
	m := NewMemory()
	_, err := m.LoadView(context.Background(), model.NewGameID(), 1, 1)
	require.ErrorIs(t, err, ErrNotFound)
}
