package orchestrator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ec4x/internal/config"
	"ec4x/internal/model"
	"ec4x/internal/store"
)

func seedTwoHouseGame(t *testing.T) *store.GameState {
	t.Helper()
	s := store.NewGameState()

	a := model.NewHouse(1, "Atreides")
	b := model.NewHouse(2, "Harkonnen")
	a.Treasury = decimal.NewFromInt(1000)
	b.Treasury = decimal.NewFromInt(1000)
	s.CreateHouse(a)
	s.CreateHouse(b)

	sysA := model.NewSystem(1, model.AxialCoord{Q: 0}, model.StarMain, model.PlanetFertile, 3)
	sysB := model.NewSystem(2, model.AxialCoord{Q: 1}, model.StarMain, model.PlanetFertile, 3)
	s.CreateSystem(sysA)
	s.CreateSystem(sysB)

	colA := model.NewColony(1, sysA.ID, a.ID, model.PlanetFertile)
	colB := model.NewColony(2, sysB.ID, b.ID, model.PlanetFertile)
	s.CreateColony(colA)
	s.CreateColony(colB)

	return s
}

func newTestGame(t *testing.T) (*Game, *store.GameState) {
	t.Helper()
	s := seedTwoHouseGame(t)
	cfg := config.Default()
	g := NewGame("test-game", cfg, s, 42, nil)
	return g, s
}

func TestCloseTurnRunsAllFourPhasesAndAdvancesTurn(t *testing.T) {
	g, _ := newTestGame(t)
	require.Equal(t, 1, g.Turn)

	res := g.CloseTurn()

	require.Equal(t, 1, res.Turn)
	require.Equal(t, 2, g.Turn)
}

func TestSubmitCommandsRejectsUnknownHouse(t *testing.T) {
	g, _ := newTestGame(t)
	err := g.SubmitCommands(99, model.CommandPacket{})
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestSubmitCommandsRejectsEliminatedHouse(t *testing.T) {
	g, s := newTestGame(t)
	h, _ := s.House(1)
	h.Eliminated = true

	err := g.SubmitCommands(1, model.CommandPacket{})
	require.Error(t, err)
}

func TestSubmitCommandsAppliesTaxRateOnClose(t *testing.T) {
	g, s := newTestGame(t)
	require.NoError(t, g.SubmitCommands(1, model.CommandPacket{TaxRate: 40}))
	require.NoError(t, g.SubmitCommands(2, model.CommandPacket{TaxRate: 10}))

	g.CloseTurn()

	h1, _ := s.House(1)
	require.Equal(t, 40, h1.TaxRate)
}

func TestMissingHouseTriggersAutopilotAfterThreeTurns(t *testing.T) {
	g, s := newTestGame(t)
	require.NoError(t, g.SubmitCommands(2, model.CommandPacket{}))
	g.CloseTurn()
	require.NoError(t, g.SubmitCommands(2, model.CommandPacket{}))
	g.CloseTurn()
	require.NoError(t, g.SubmitCommands(2, model.CommandPacket{}))
	g.CloseTurn()

	h1, _ := s.House(1)
	require.True(t, h1.Autopilot)
}

func TestQueueBuildFacilityDebitsTreasuryAndQueues(t *testing.T) {
	g, s := newTestGame(t)
	pkt := model.CommandPacket{
		Builds: []model.ColonyBuildOrder{
			{Colony: 1, Subject: model.ProjectFacility, FacilityKind: model.FacilityShipyard},
		},
	}
	require.NoError(t, g.SubmitCommands(1, pkt))
	require.NoError(t, g.SubmitCommands(2, model.CommandPacket{}))

	g.CloseTurn()

	c, _ := s.Colony(1)
	require.Len(t, c.ConstructionQueue, 1)

	h1, _ := s.House(1)
	require.True(t, h1.Treasury.LessThan(decimal.NewFromInt(1000)))
}

func TestQueueBuildFacilityRejectedWithoutFunds(t *testing.T) {
	g, s := newTestGame(t)
	h1, _ := s.House(1)
	h1.Treasury = decimal.Zero

	pkt := model.CommandPacket{
		Builds: []model.ColonyBuildOrder{
			{Colony: 1, Subject: model.ProjectFacility, FacilityKind: model.FacilityShipyard},
		},
	}
	require.NoError(t, g.SubmitCommands(1, pkt))
	require.NoError(t, g.SubmitCommands(2, model.CommandPacket{}))

	res := g.CloseTurn()

	c, _ := s.Colony(1)
	require.Len(t, c.ConstructionQueue, 0)

	found := false
	for _, ev := range res.Events {
		if ev.Kind == "BuildRejected" {
			found = true
		}
	}
	require.True(t, found)
}

func TestFacilityCompletesAndMaterializesAfterTurnsRemaining(t *testing.T) {
	g, s := newTestGame(t)
	pkt := model.CommandPacket{
		Builds: []model.ColonyBuildOrder{
			{Colony: 1, Subject: model.ProjectFacility, FacilityKind: model.FacilityShipyard},
		},
	}
	require.NoError(t, g.SubmitCommands(1, pkt))
	require.NoError(t, g.SubmitCommands(2, model.CommandPacket{}))
	g.CloseTurn()

	require.NoError(t, g.SubmitCommands(1, model.CommandPacket{}))
	require.NoError(t, g.SubmitCommands(2, model.CommandPacket{}))
	g.CloseTurn()

	c, _ := s.Colony(1)
	require.Len(t, c.Shipyards, 1)
	require.Len(t, c.ConstructionQueue, 0)
}

func TestIUInvestmentDebitsTreasuryAndGrowsIU(t *testing.T) {
	g, s := newTestGame(t)
	pkt := model.CommandPacket{
		Builds: []model.ColonyBuildOrder{
			{Colony: 1, Subject: model.ProjectIUInvestment, IUAmount: decimal.NewFromInt(50)},
		},
	}
	require.NoError(t, g.SubmitCommands(1, pkt))
	require.NoError(t, g.SubmitCommands(2, model.CommandPacket{}))

	g.CloseTurn()

	c, _ := s.Colony(1)
	require.True(t, c.IU.GreaterThanOrEqual(decimal.NewFromInt(50)))

	h1, _ := s.House(1)
	require.True(t, h1.Treasury.LessThanOrEqual(decimal.NewFromInt(950)))
}

func TestFleetCommandUpdatesStandingOrder(t *testing.T) {
	g, s := newTestGame(t)
	f := model.NewFleet(1, 1, 1)
	s.CreateFleet(f)

	target := model.SystemID(2)
	pkt := model.CommandPacket{
		Fleets: []model.FleetCommand{{Fleet: 1, Type: model.CmdMove, TargetSystem: &target, ROE: 7}},
	}
	require.NoError(t, g.SubmitCommands(1, pkt))
	require.NoError(t, g.SubmitCommands(2, model.CommandPacket{}))

	g.CloseTurn()

	fl, _ := s.Fleet(1)
	require.NotNil(t, fl.StandingOrder)
	require.Equal(t, model.CmdMove, fl.StandingOrder.Type)
	require.Equal(t, 7, fl.ROE)
}

func TestFleetCommandIgnoredWhenNotOwner(t *testing.T) {
	g, s := newTestGame(t)
	f := model.NewFleet(1, 1, 1)
	s.CreateFleet(f)

	pkt := model.CommandPacket{
		Fleets: []model.FleetCommand{{Fleet: 1, Type: model.CmdHold}},
	}
	require.NoError(t, g.SubmitCommands(2, pkt))
	require.NoError(t, g.SubmitCommands(1, model.CommandPacket{}))

	g.CloseTurn()

	fl, _ := s.Fleet(1)
	require.Nil(t, fl.StandingOrder)
}

func TestEspionageActionIsResolvedThroughConflictPhase(t *testing.T) {
	g, _ := newTestGame(t)
	target := model.HouseID(2)
	pkt := model.CommandPacket{
		Espionage: &model.EspionageAction{Type: model.ActionCounterIntelSweep, TargetHouse: &target},
	}
	require.NoError(t, g.SubmitCommands(1, pkt))
	require.NoError(t, g.SubmitCommands(2, model.CommandPacket{}))

	res := g.CloseTurn()

	require.Len(t, res.Espionage, 1)
	require.Equal(t, model.HouseID(1), res.Espionage[0].House)
}

func TestColonizationRaceProducesOneWinner(t *testing.T) {
	g, s := newTestGame(t)
	sys := model.NewSystem(3, model.AxialCoord{Q: 5}, model.StarMain, model.PlanetFertile, 1)
	s.CreateSystem(sys)

	makeColonizer := func(owner model.HouseID, fleetID model.FleetID, shipID model.ShipID, sqID model.SquadronID) *model.Fleet {
		sh := &model.Ship{ID: shipID, Class: model.ShipETAC, Owner: owner, Squadron: sqID, Hull: model.HullUndamaged,
			Cargo: &model.Cargo{Kind: model.CargoColonists, Quantity: 1}}
		s.CreateShip(sh)
		sq := &model.Squadron{ID: sqID, Owner: owner, Flagship: shipID, Bucket: model.BucketEscort, Hull: model.HullUndamaged}
		s.CreateSquadron(sq)
		f := model.NewFleet(fleetID, owner, sys.ID)
		f.Squadrons = []model.SquadronID{sqID}
		f.StandingOrder = &model.FleetCommand{Fleet: fleetID, Type: model.CmdColonize}
		s.CreateFleet(f)
		return f
	}
	makeColonizer(1, 10, 100, 1000)
	makeColonizer(2, 20, 200, 2000)

	require.NoError(t, g.SubmitCommands(1, model.CommandPacket{}))
	require.NoError(t, g.SubmitCommands(2, model.CommandPacket{}))

	g.CloseTurn()

	_, ok := s.ColonyBySystem(sys.ID)
	require.True(t, ok)
}

func TestOwnershipTransferDeferredToNextProductionPhase(t *testing.T) {
	g, s := newTestGame(t)
	g.pendingTransfers = append(g.pendingTransfers, ownershipTransfer{Colony: 2, NewOwner: 1})

	c, _ := s.Colony(2)
	require.Equal(t, model.HouseID(2), c.Owner)

	require.NoError(t, g.SubmitCommands(1, model.CommandPacket{}))
	require.NoError(t, g.SubmitCommands(2, model.CommandPacket{}))
	g.CloseTurn()

	c, _ = s.Colony(2)
	require.Equal(t, model.HouseID(1), c.Owner)
	require.Empty(t, g.pendingTransfers)
}

func TestVictoryEvaluatedWhenOneHouseRemains(t *testing.T) {
	g, s := newTestGame(t)
	h2, _ := s.House(2)
	h2.Eliminated = true

	res := g.CloseTurn()

	require.True(t, res.Victory.Decided)
	require.Equal(t, model.HouseID(1), res.Victory.Winner)
}
