package movement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ec4x/internal/config"
	"ec4x/internal/model"
	"ec4x/internal/store"
)

func seedLine(t *testing.T) (*store.GameState, *model.House, *model.Fleet) {
	t.Helper()
	s := store.NewGameState()
	h := model.NewHouse(1, "Atreides")
	s.CreateHouse(h)

	sys1 := model.NewSystem(1, model.AxialCoord{Q: 0}, model.StarMain, model.PlanetFertile, 1)
	sys2 := model.NewSystem(2, model.AxialCoord{Q: 1}, model.StarMain, model.PlanetFertile, 1)
	lane := model.Lane{A: 1, B: 2, Class: model.LaneMajor}
	sys1.Lanes = append(sys1.Lanes, lane)
	sys2.Lanes = append(sys2.Lanes, lane)
	s.CreateSystem(sys1)
	s.CreateSystem(sys2)

	f := model.NewFleet(1, h.ID, 1)
	s.CreateFleet(f)
	return s, h, f
}

func TestExecuteMoveAdvancesFleet(t *testing.T) {
	s, _, f := seedLine(t)
	cfg := config.Default()
	target := model.SystemID(2)

	_, err := Execute(cfg, s, 1, f, model.FleetCommand{Fleet: f.ID, Type: model.CmdMove, TargetSystem: &target}, 0)
	require.NoError(t, err)

	moved := s.MustFleet(f.ID)
	require.Equal(t, model.SystemID(2), moved.System)
}

func TestExecuteMoveNoPathEmitsEvent(t *testing.T) {
	s, _, f := seedLine(t)
	cfg := config.Default()
	target := model.SystemID(99)
	s.CreateSystem(model.NewSystem(99, model.AxialCoord{Q: 5}, model.StarMain, model.PlanetFertile, 1))

	res, err := Execute(cfg, s, 1, f, model.FleetCommand{Fleet: f.ID, Type: model.CmdMove, TargetSystem: &target}, 0)
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
}

func TestExecuteGuardSetsStanding(t *testing.T) {
	s, _, f := seedLine(t)
	cfg := config.Default()
	_, err := Execute(cfg, s, 1, f, model.FleetCommand{Fleet: f.ID, Type: model.CmdGuardColony}, 0)
	require.NoError(t, err)
	require.Equal(t, model.StandingGuardColony, s.MustFleet(f.ID).Standing)
}

func TestExecuteJoinMergesAndDestroysSource(t *testing.T) {
	s, h, f := seedLine(t)
	cfg := config.Default()
	target := model.NewFleet(2, h.ID, f.System)
	s.CreateFleet(target)

	tid := target.ID
	_, err := Execute(cfg, s, 1, f, model.FleetCommand{Fleet: f.ID, Type: model.CmdJoinFleet, TargetFleet: &tid}, 0)
	require.NoError(t, err)

	_, ok := s.Fleet(f.ID)
	require.False(t, ok)
}

func TestExecuteColonizeCreatesColony(t *testing.T) {
	s, h, f := seedLine(t)
	cfg := config.Default()

	sq := &model.Squadron{ID: 1, Owner: h.ID, Flagship: 1}
	etac := &model.Ship{ID: 1, Class: model.ShipETAC, Owner: h.ID, Squadron: 1, Cargo: &model.Cargo{Kind: model.CargoColonists, Quantity: 1000}}
	s.CreateShip(etac)
	s.CreateSquadron(sq)
	require.NoError(t, s.UpdateFleet(f.ID, func(fl *model.Fleet) { fl.Squadrons = []model.SquadronID{1} }))

	res, err := Execute(cfg, s, 1, f, model.FleetCommand{Fleet: f.ID, Type: model.CmdColonize}, 42)
	require.NoError(t, err)
	require.True(t, res.ColonyCreated)
	require.Equal(t, model.ColonyID(42), res.NewColony)

	_, stillThere := s.Ship(etac.ID)
	require.False(t, stillThere)
}

func TestExecuteColonizeFailsOnOccupiedSystem(t *testing.T) {
	s, h, f := seedLine(t)
	cfg := config.Default()
	require.NoError(t, s.CreateColony(model.NewColony(1, f.System, h.ID, model.PlanetFertile)))

	res, err := Execute(cfg, s, 1, f, model.FleetCommand{Fleet: f.ID, Type: model.CmdColonize}, 2)
	require.NoError(t, err)
	require.False(t, res.ColonyCreated)
	require.Len(t, res.Events, 1)
}

func TestExecuteSalvageRefundsHalfPC(t *testing.T) {
	s, h, f := seedLine(t)
	cfg := config.Default()
	h.Treasury = decimal.Zero
	sq := &model.Squadron{ID: 1, Owner: h.ID, Flagship: 1}
	sh := &model.Ship{ID: 1, Class: model.ShipScout, Owner: h.ID, Squadron: 1}
	s.CreateShip(sh)
	s.CreateSquadron(sq)
	require.NoError(t, s.UpdateFleet(f.ID, func(fl *model.Fleet) { fl.Squadrons = []model.SquadronID{1} }))

	_, err := Execute(cfg, s, 1, f, model.FleetCommand{Fleet: f.ID, Type: model.CmdSalvage}, 0)
	require.NoError(t, err)
	require.True(t, h.Treasury.Equal(cfg.Ship(model.ShipScout).PC.Mul(decimal.NewFromFloat(0.5))))
}

func TestResolveColonizationRacesTieGoesToLowerHouseID(t *testing.T) {
	s := store.NewGameState()
	cfg := config.Default()
	h1 := model.NewHouse(1, "A")
	h2 := model.NewHouse(2, "B")
	s.CreateHouse(h1)
	s.CreateHouse(h2)

	fWeak := model.NewFleet(1, h1.ID, 1)
	fStrong := model.NewFleet(2, h2.ID, 1)
	s.CreateFleet(fWeak)
	s.CreateFleet(fStrong)

	winners := ResolveColonizationRaces(s, cfg, map[model.SystemID][]*model.Fleet{1: {fWeak, fStrong}})
	require.Equal(t, fWeak.Owner, winners[1].Owner)
}
