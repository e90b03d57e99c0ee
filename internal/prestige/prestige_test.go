package prestige

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ec4x/internal/config"
	"ec4x/internal/model"
	"ec4x/internal/store"
)

func TestApplyEventsScalesByMapSizeMultiplier(t *testing.T) {
	s := store.NewGameState()
	h := model.NewHouse(1, "Atreides")
	s.CreateHouse(h)
	cfg := config.Default()

	ApplyEvents(cfg, s, []model.PrestigeEvent{{House: 1, Amount: 5, Source: model.PrestigeCombatKill}})
	want := int(cfg.MapSizeMultiplier.Mul(decimal.NewFromInt(5)).IntPart())
	require.Equal(t, want, h.Prestige)
}

func TestEvaluateLifecycleEntersDefensiveCollapseAfterThreeTurns(t *testing.T) {
	s := store.NewGameState()
	h := model.NewHouse(1, "Atreides")
	s.CreateHouse(h)
	sys := model.NewSystem(1, model.AxialCoord{Q: 0}, model.StarMain, model.PlanetFertile, 1)
	s.CreateSystem(sys)
	s.CreateColony(model.NewColony(1, sys.ID, 1, model.PlanetFertile))
	submitted := map[model.HouseID]bool{1: true}

	h.Prestige = -1
	EvaluateLifecycle(s, 1, submitted)
	EvaluateLifecycle(s, 2, submitted)
	res := EvaluateLifecycle(s, 3, submitted)

	require.True(t, h.DefensiveCollapse)
	require.True(t, res[0].EnteredCollapse)
}

func TestEvaluateLifecycleElimatesHouseWithNoColoniesOrFleets(t *testing.T) {
	s := store.NewGameState()
	h := model.NewHouse(1, "Atreides")
	s.CreateHouse(h)

	res := EvaluateLifecycle(s, 1, map[model.HouseID]bool{1: true})
	require.True(t, res[0].Eliminated)
	require.True(t, h.Eliminated)
}

func TestEvaluateLifecycleSkipsEliminationWithLoadedMarines(t *testing.T) {
	s := store.NewGameState()
	h := model.NewHouse(1, "Atreides")
	s.CreateHouse(h)
	sys := model.NewSystem(1, model.AxialCoord{Q: 0}, model.StarMain, model.PlanetFertile, 1)
	s.CreateSystem(sys)

	sh := &model.Ship{ID: 1, Class: model.ShipTroopTransport, Owner: 1, Squadron: 1, Cargo: &model.Cargo{Kind: model.CargoMarines, Quantity: 5}}
	s.CreateShip(sh)
	sq := &model.Squadron{ID: 1, Owner: 1, Flagship: 1, Bucket: model.BucketEscort}
	s.CreateSquadron(sq)
	f := model.NewFleet(1, 1, sys.ID)
	f.Squadrons = []model.SquadronID{1}
	s.CreateFleet(f)

	res := EvaluateLifecycle(s, 1, map[model.HouseID]bool{1: true})
	require.False(t, res[0].Eliminated)
}

func TestEvaluateLifecycleEntersAutopilotAfterThreeMissedTurns(t *testing.T) {
	s := store.NewGameState()
	h := model.NewHouse(1, "Atreides")
	s.CreateHouse(h)
	sys := model.NewSystem(1, model.AxialCoord{Q: 0}, model.StarMain, model.PlanetFertile, 1)
	s.CreateSystem(sys)
	c := model.NewColony(1, sys.ID, 1, model.PlanetFertile)
	s.CreateColony(c)

	submitted := map[model.HouseID]bool{}
	EvaluateLifecycle(s, 1, submitted)
	EvaluateLifecycle(s, 2, submitted)
	res := EvaluateLifecycle(s, 3, submitted)

	require.True(t, h.Autopilot)
	require.True(t, res[0].EnteredAutopilot)
}

func TestEvaluateVictoryLocksEnemyRelationAtTwoHouses(t *testing.T) {
	s := store.NewGameState()
	a := model.NewHouse(1, "Atreides")
	b := model.NewHouse(2, "Harkonnen")
	s.CreateHouse(a)
	s.CreateHouse(b)
	sys1 := model.NewSystem(1, model.AxialCoord{Q: 0}, model.StarMain, model.PlanetFertile, 1)
	sys2 := model.NewSystem(2, model.AxialCoord{Q: 1}, model.StarMain, model.PlanetFertile, 1)
	s.CreateSystem(sys1)
	s.CreateSystem(sys2)
	s.CreateColony(model.NewColony(1, sys1.ID, 1, model.PlanetFertile))
	s.CreateColony(model.NewColony(2, sys2.ID, 2, model.PlanetFertile))

	cfg := config.Default()
	res := EvaluateVictory(cfg, s, 1)
	require.False(t, res.Decided)
	require.Equal(t, model.PostureEnemy, a.Diplomacy[2])
	require.Equal(t, model.PostureEnemy, b.Diplomacy[1])
}

func TestEvaluateVictoryTurnLimitPicksHighestPrestige(t *testing.T) {
	s := store.NewGameState()
	a := model.NewHouse(1, "Atreides")
	b := model.NewHouse(2, "Harkonnen")
	a.Prestige = 10
	b.Prestige = 20
	s.CreateHouse(a)
	s.CreateHouse(b)
	sys1 := model.NewSystem(1, model.AxialCoord{Q: 0}, model.StarMain, model.PlanetFertile, 1)
	sys2 := model.NewSystem(2, model.AxialCoord{Q: 1}, model.StarMain, model.PlanetFertile, 1)
	s.CreateSystem(sys1)
	s.CreateSystem(sys2)
	s.CreateColony(model.NewColony(1, sys1.ID, 1, model.PlanetFertile))
	s.CreateColony(model.NewColony(2, sys2.ID, 2, model.PlanetFertile))

	cfg := config.Default()
	cfg.VictoryTurnLimit = 5
	res := EvaluateVictory(cfg, s, 5)
	require.True(t, res.Decided)
	require.Equal(t, model.HouseID(2), res.Winner)
	require.Equal(t, "TurnLimit", res.Reason)
}
