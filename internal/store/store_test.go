package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ec4x/internal/model"
)

func seedState(t *testing.T) (*GameState, model.HouseID, model.SystemID) {
	t.Helper()
	s := NewGameState()
	house := model.NewHouse(1, "Atreides")
	s.CreateHouse(house)
	sys := model.NewSystem(1, model.AxialCoord{}, model.StarMain, model.PlanetFertile, 3)
	s.CreateSystem(sys)
	return s, house.ID, sys.ID
}

func TestCreateColonyIndexesByOwnerAndSystem(t *testing.T) {
	s, house, sys := seedState(t)
	c := model.NewColony(1, sys, house, model.PlanetFertile)
	require.NoError(t, s.CreateColony(c))

	got, ok := s.ColonyBySystem(sys)
	require.True(t, ok)
	require.Equal(t, c.ID, got.ID)

	owned := s.ColoniesByOwner(house)
	require.Len(t, owned, 1)
	require.Equal(t, c.ID, owned[0].ID)

	require.NoError(t, s.VerifyIndexes())
}

func TestCreateColonyRejectsDuplicateSystem(t *testing.T) {
	s, house, sys := seedState(t)
	c1 := model.NewColony(1, sys, house, model.PlanetFertile)
	require.NoError(t, s.CreateColony(c1))

	c2 := model.NewColony(2, sys, house, model.PlanetFertile)
	err := s.CreateColony(c2)
	require.Error(t, err)

	// The failed call must not have left partial index state.
	owned := s.ColoniesByOwner(house)
	require.Len(t, owned, 1)
}

func TestUpdateColonyReindexesOnOwnerChange(t *testing.T) {
	s, house, sys := seedState(t)
	other := model.NewHouse(2, "Harkonnen")
	s.CreateHouse(other)

	c := model.NewColony(1, sys, house, model.PlanetFertile)
	require.NoError(t, s.CreateColony(c))

	require.NoError(t, s.UpdateColony(c.ID, func(col *model.Colony) {
		col.Owner = other.ID
	}))

	require.Empty(t, s.ColoniesByOwner(house))
	owned := s.ColoniesByOwner(other.ID)
	require.Len(t, owned, 1)
	require.NoError(t, s.VerifyIndexes())
}

func TestDestroyColonyRemovesFromIndexes(t *testing.T) {
	s, house, sys := seedState(t)
	c := model.NewColony(1, sys, house, model.PlanetFertile)
	require.NoError(t, s.CreateColony(c))
	require.NoError(t, s.DestroyColony(c.ID))

	_, ok := s.ColonyBySystem(sys)
	require.False(t, ok)
	require.Empty(t, s.ColoniesByOwner(house))
}

func TestFleetIndexesTrackSystemChange(t *testing.T) {
	s, house, sys := seedState(t)
	f := model.NewFleet(1, house, sys)
	s.CreateFleet(f)

	inSystem := s.FleetsInSystem(sys)
	require.Len(t, inSystem, 1)

	sys2 := model.SystemID(2)
	s.CreateSystem(model.NewSystem(sys2, model.AxialCoord{Q: 1}, model.StarMain, model.PlanetFertile, 2))
	require.NoError(t, s.UpdateFleet(f.ID, func(fl *model.Fleet) { fl.System = sys2 }))

	require.Empty(t, s.FleetsInSystem(sys))
	require.Len(t, s.FleetsInSystem(sys2), 1)
}

func TestSweepDestroyedRemovesEmptyFleets(t *testing.T) {
	s, house, sys := seedState(t)
	f := model.NewFleet(1, house, sys)
	sq := &model.Squadron{ID: 1, Owner: house, Hull: model.HullDestroyed}
	s.CreateSquadron(sq)
	f.Squadrons = []model.SquadronID{sq.ID}
	s.CreateFleet(f)

	s.SweepDestroyed()

	_, ok := s.Fleet(f.ID)
	require.False(t, ok)
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	s, house, sys := seedState(t)
	c := model.NewColony(1, sys, house, model.PlanetFertile)
	require.NoError(t, s.CreateColony(c))

	clone := s.Clone()
	require.NoError(t, clone.UpdateColony(c.ID, func(col *model.Colony) {
		col.PopulationSouls = 42
	}))

	original := s.MustColony(c.ID)
	require.NotEqual(t, int64(42), original.PopulationSouls)
}

func TestMustLookupsPanicOnMissingEntity(t *testing.T) {
	s := NewGameState()
	require.Panics(t, func() { s.MustColony(999) })
	require.Panics(t, func() { s.MustFleet(999) })
	require.Panics(t, func() { s.MustHouse(999) })
}
