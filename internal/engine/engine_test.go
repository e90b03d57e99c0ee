package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ec4x/internal/config"
	"ec4x/internal/model"
	"ec4x/pkg/logger"
)

type nullLogger struct{}

func (nullLogger) Trace(level logger.Severity, module string, message string) {}

func newTestEngine() *Engine {
	return New(nullLogger{}, nil)
}

func newTestGameOptions() NewGameOptions {
	return NewGameOptions{
		Cfg:      config.Default(),
		Rings:    2,
		MapSeed:  1,
		TurnSeed: 2,
		Houses:   []HouseSeed{{Name: "Atreides"}, {Name: "Harkonnen"}},
	}
}

func TestNewGameSeatsHousesAndHomeworlds(t *testing.T) {
	e := newTestEngine()
	id, s, views := e.NewGame(newTestGameOptions())

	require.NotEqual(t, model.GameID{}, id)
	require.Len(t, s.AllHouses(), 2)
	require.Len(t, views, 2)

	for _, h := range s.AllHouses() {
		view := views[h.ID]
		require.NotEmpty(t, view.Systems)
	}
}

func TestSubmitCommandsRejectsStaleTurnNumber(t *testing.T) {
	e := newTestEngine()
	id, _, _ := e.NewGame(newTestGameOptions())

	err := e.SubmitCommands(id, 1, model.CommandPacket{}, 99)
	require.Error(t, err)
}

func TestSubmitCommandsRejectsUnknownGame(t *testing.T) {
	e := newTestEngine()
	err := e.SubmitCommands(model.NewGameID(), 1, model.CommandPacket{}, 1)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestCloseTurnAdvancesTurnAndProducesPerHouseDeltas(t *testing.T) {
	e := newTestEngine()
	id, _, _ := e.NewGame(newTestGameOptions())

	result, deltas, err := e.CloseTurn(id)
	require.NoError(t, err)
	require.Equal(t, 1, result.Turn)
	require.Len(t, deltas, 2)
}

func TestCloseTurnIsIdempotentForSameTurn(t *testing.T) {
	e := newTestEngine()
	id, _, _ := e.NewGame(newTestGameOptions())

	first, _, err := e.CloseTurn(id)
	require.NoError(t, err)

	entry, ok := e.lookup(id)
	require.True(t, ok)
	entry.lastClosedTurn = 1
	second, _, err := e.CloseTurn(id)
	require.NoError(t, err)
	require.Equal(t, first.Turn, second.Turn)
}

func TestGetViewReturnsErrNotFoundForUnknownHouse(t *testing.T) {
	e := newTestEngine()
	id, _, _ := e.NewGame(newTestGameOptions())

	_, err := e.GetView(id, model.HouseID(99), 1)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestAsInvariantBreachWrapsBareError(t *testing.T) {
	e := newTestEngine()
	id, s, _ := e.NewGame(newTestGameOptions())

	entry, ok := e.lookup(id)
	require.True(t, ok)
	_ = s

	// Force a panic path by corrupting the turn counter relationship the
	// cached-result check relies on, then closing twice is out of scope
	// here; instead verify asInvariantBreach normalizes a bare error.
	err := asInvariantBreach(model.ErrIndexDesynchronized)
	var breach *model.InvariantBreach
	require.ErrorAs(t, err, &breach)
	_ = entry
}
