package espionage

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ec4x/internal/config"
	"ec4x/internal/model"
	"ec4x/internal/store"
)

func seedHouses(t *testing.T) (*store.GameState, *model.House, *model.House) {
	t.Helper()
	s := store.NewGameState()
	attacker := model.NewHouse(1, "Atreides")
	defender := model.NewHouse(2, "Harkonnen")
	s.CreateHouse(attacker)
	s.CreateHouse(defender)
	return s, attacker, defender
}

func TestResolveOrdersRequestsByHouseThenFleet(t *testing.T) {
	s, attacker, defender := seedHouses(t)
	_ = attacker
	_ = defender
	sys := model.NewSystem(1, model.AxialCoord{Q: 0}, model.StarMain, model.PlanetFertile, 1)
	s.CreateSystem(sys)

	cfg := config.Default()
	rng := rand.New(rand.NewSource(1))
	reqs := []Request{
		{House: 2, Action: model.EspionageAction{Type: model.ActionCounterIntelSweep, TargetHouse: housePtr(1)}},
		{House: 1, Action: model.EspionageAction{Type: model.ActionCounterIntelSweep, TargetHouse: housePtr(2)}},
	}
	out := Resolve(rng, cfg, s, 1, reqs)
	require.Len(t, out, 2)
	require.Equal(t, model.HouseID(1), out[0].House)
	require.Equal(t, model.HouseID(2), out[1].House)
}

func TestScoutMissionConsumedRegardlessOfDetection(t *testing.T) {
	s, attacker, defender := seedHouses(t)
	sys := model.NewSystem(1, model.AxialCoord{Q: 0}, model.StarMain, model.PlanetFertile, 1)
	s.CreateSystem(sys)
	c := model.NewColony(1, sys.ID, defender.ID, model.PlanetFertile)
	s.CreateColony(c)

	scoutShip := &model.Ship{ID: 1, Class: model.ShipScout, Owner: attacker.ID, Squadron: 1, ELITier: 0}
	s.CreateShip(scoutShip)
	sq := &model.Squadron{ID: 1, Owner: attacker.ID, Flagship: 1, Bucket: model.BucketEscort}
	s.CreateSquadron(sq)
	f := model.NewFleet(1, attacker.ID, sys.ID)
	f.Squadrons = []model.SquadronID{1}
	s.CreateFleet(f)

	rng := rand.New(rand.NewSource(99))
	fleetID := model.FleetID(1)
	colonyID := model.ColonyID(1)
	reqs := []Request{{House: attacker.ID, Action: model.EspionageAction{Type: model.ActionSpyColony, Fleet: &fleetID, TargetColony: &colonyID}}}

	out := Resolve(rng, config.Default(), s, 1, reqs)
	require.Len(t, out, 1)

	_, stillExists := s.Ship(1)
	require.False(t, stillExists)
}

func TestCovertActionFailsWithoutSufficientBudget(t *testing.T) {
	s, attacker, defender := seedHouses(t)
	attacker.Espionage.EBP = decimal.Zero
	rng := rand.New(rand.NewSource(5))
	reqs := []Request{{House: attacker.ID, Action: model.EspionageAction{Type: model.ActionSabotageHigh, TargetHouse: housePtr(defender.ID)}}}

	out := Resolve(rng, config.Default(), s, 1, reqs)
	require.Len(t, out, 1)
	require.False(t, out[0].Succeeded)
}

func TestCovertActionSpendsBudgetWhenAffordable(t *testing.T) {
	s, attacker, defender := seedHouses(t)
	attacker.Espionage.EBP = decimal.NewFromInt(100)
	defender.Tech.Levels["CIC"] = 0
	rng := rand.New(rand.NewSource(2))
	reqs := []Request{{House: attacker.ID, Action: model.EspionageAction{Type: model.ActionCounterIntelSweep, TargetHouse: housePtr(defender.ID)}}}

	Resolve(rng, config.Default(), s, 1, reqs)
	require.True(t, attacker.Espionage.EBP.LessThan(decimal.NewFromInt(100)))
}

func housePtr(h model.HouseID) *model.HouseID { return &h }
