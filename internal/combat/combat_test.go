package combat

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ec4x/internal/config"
	"ec4x/internal/model"
	"ec4x/internal/rngstream"
	"ec4x/internal/store"
)

func seedDuel(t *testing.T) (*store.GameState, model.SystemID) {
	t.Helper()
	s := store.NewGameState()

	attacker := model.NewHouse(1, "Atreides")
	defender := model.NewHouse(2, "Harkonnen")
	attacker.Diplomacy[2] = model.PostureEnemy
	defender.Diplomacy[1] = model.PostureEnemy
	s.CreateHouse(attacker)
	s.CreateHouse(defender)

	sys := model.NewSystem(1, model.AxialCoord{Q: 0}, model.StarMain, model.PlanetFertile, 3)
	s.CreateSystem(sys)

	buildSquadron := func(owner model.HouseID, shipID model.ShipID, sqID model.SquadronID) *model.Squadron {
		sh := &model.Ship{ID: shipID, Class: model.ShipDestroyer, Owner: owner, Squadron: sqID, Hull: model.HullUndamaged}
		s.CreateShip(sh)
		sq := &model.Squadron{ID: sqID, Owner: owner, Flagship: shipID, CommandRating: 5, Bucket: model.BucketCapital, Hull: model.HullUndamaged}
		s.CreateSquadron(sq)
		return sq
	}

	sqA := buildSquadron(1, 10, 100)
	sqB := buildSquadron(2, 20, 200)

	fA := model.NewFleet(1, 1, sys.ID)
	fA.Squadrons = []model.SquadronID{sqA.ID}
	s.CreateFleet(fA)

	fB := model.NewFleet(2, 2, sys.ID)
	fB.Squadrons = []model.SquadronID{sqB.ID}
	s.CreateFleet(fB)

	return s, sys.ID
}

func TestResolveRunsSpaceTheaterBetweenHostileHouses(t *testing.T) {
	s, _ := seedDuel(t)
	cfg := config.Default()
	stream := rngstream.New(42)
	stream.BeginTurn(1)

	results := Resolve(stream, cfg, s, 1)
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Space)
	require.GreaterOrEqual(t, results[0].Space.Rounds, 1)
}

func TestResolveSkipsSystemsWithOneHouse(t *testing.T) {
	s := store.NewGameState()
	h := model.NewHouse(1, "Atreides")
	s.CreateHouse(h)
	sys := model.NewSystem(1, model.AxialCoord{Q: 0}, model.StarMain, model.PlanetFertile, 3)
	s.CreateSystem(sys)
	f := model.NewFleet(1, 1, sys.ID)
	s.CreateFleet(f)

	cfg := config.Default()
	stream := rngstream.New(7)
	stream.BeginTurn(1)

	results := Resolve(stream, cfg, s, 1)
	require.Empty(t, results)
}

func TestResolveIsDeterministicForSameSeedAndTurn(t *testing.T) {
	cfg := config.Default()

	run := func() []SystemResult {
		s, _ := seedDuel(t)
		stream := rngstream.New(123)
		stream.BeginTurn(5)
		return Resolve(stream, cfg, s, 5)
	}

	a := run()
	b := run()
	require.Equal(t, len(a), len(b))
	for i := range a {
		require.Equal(t, a[i].Space.Rounds, b[i].Space.Rounds)
		require.Equal(t, a[i].Space.Winner, b[i].Space.Winner)
	}
}

func TestIsHostileEnemyAlwaysHostile(t *testing.T) {
	require.True(t, IsHostile(1, 2, model.PostureEnemy, false, false, false))
}

func TestIsHostileNeutralRequiresThreateningOrder(t *testing.T) {
	require.False(t, IsHostile(1, 2, model.PostureNeutral, false, false, false))
	require.True(t, IsHostile(1, 2, model.PostureNeutral, false, true, false))
}

func TestRunBombardmentDrainsBatteriesBeforeIU(t *testing.T) {
	s := store.NewGameState()
	cfg := config.Default()
	gb := &model.GroundUnit{ID: 1, Kind: model.GroundBattery, Colony: 1, Owner: 2, AS: 2, DS: 5, Hull: model.HullUndamaged}
	s.CreateGroundUnit(gb)
	c := model.NewColony(1, 1, 2, model.PlanetFertile)
	c.GroundBatteries = []model.GroundUnitID{1}

	rng := rngstream.New(1)
	rng.BeginTurn(1)
	res := RunBombardment(rng.Sub("t"), cfg, s, 1, 1, 20, 0, c, nil)
	_ = res

	battery, _ := s.GroundUnit(1)
	require.Equal(t, model.HullDestroyed, battery.Hull)
}

func TestRunInvasionCapturesColonyWhenDefendersFall(t *testing.T) {
	s := store.NewGameState()
	c := model.NewColony(1, 1, 2, model.PlanetFertile)
	c.IU = decimal.NewFromInt(20)

	rng := rngstream.New(9)
	rng.BeginTurn(1)
	res := RunInvasion(rng.Sub("t"), s, 1, 1, 50, c)

	require.True(t, res.ColonyCaptured)
	require.Equal(t, model.HouseID(1), c.Owner)
}

func TestRunBlitzCapturesColonyWhenBatteriesFall(t *testing.T) {
	s := store.NewGameState()
	cfg := config.Default()
	gb := &model.GroundUnit{ID: 1, Kind: model.GroundBattery, Colony: 1, Owner: 2, AS: 2, DS: 5, Hull: model.HullUndamaged}
	s.CreateGroundUnit(gb)
	c := model.NewColony(1, 1, 2, model.PlanetFertile)
	c.GroundBatteries = []model.GroundUnitID{1}

	rng := rngstream.New(9)
	rng.BeginTurn(1)
	res := RunBlitz(rng.Sub("t"), cfg, s, 1, 1, 50, c, nil)

	require.True(t, res.ColonyCaptured)
	require.Equal(t, model.HouseID(1), c.Owner)
}

func TestAttackerGroundOrderPrioritizesInvadeThenBlitzThenBombard(t *testing.T) {
	s := store.NewGameState()
	sys := model.SystemID(1)

	f1 := model.NewFleet(1, 1, sys)
	f1.StandingOrder = &model.FleetCommand{Type: model.CmdBombard}
	s.CreateFleet(f1)
	require.Equal(t, model.CmdBombard, attackerGroundOrder(s, sys, 1))

	f2 := model.NewFleet(2, 1, sys)
	f2.StandingOrder = &model.FleetCommand{Type: model.CmdBlitz}
	s.CreateFleet(f2)
	require.Equal(t, model.CmdBlitz, attackerGroundOrder(s, sys, 1))

	f3 := model.NewFleet(3, 1, sys)
	f3.StandingOrder = &model.FleetCommand{Type: model.CmdInvade}
	s.CreateFleet(f3)
	require.Equal(t, model.CmdInvade, attackerGroundOrder(s, sys, 1))
}

func TestAttackerGroundOrderDefaultsToBombardWithNoExplicitOrder(t *testing.T) {
	s := store.NewGameState()
	sys := model.SystemID(1)
	f := model.NewFleet(1, 1, sys)
	s.CreateFleet(f)
	require.Equal(t, model.CmdBombard, attackerGroundOrder(s, sys, 1))
}

func TestHostilityMatrixHostilePostureRequiresProvocativeOrder(t *testing.T) {
	s := store.NewGameState()
	a := model.NewHouse(1, "A")
	b := model.NewHouse(2, "B")
	a.Diplomacy[2] = model.PostureHostile
	s.CreateHouse(a)
	s.CreateHouse(b)

	sys := model.SystemID(1)
	fb := model.NewFleet(10, 2, sys)
	s.CreateFleet(fb)

	hostile := hostilityMatrix(s, sys, map[pairKey]bool{})
	require.False(t, hostile(1, 2))

	fb.StandingOrder = &model.FleetCommand{Type: model.CmdBombard}
	require.True(t, hostile(1, 2))
}

func TestHostilityMatrixNeutralPostureRequiresThreateningOrder(t *testing.T) {
	s := store.NewGameState()
	a := model.NewHouse(1, "A")
	b := model.NewHouse(2, "B")
	s.CreateHouse(a)
	s.CreateHouse(b)

	sys := model.SystemID(1)
	fb := model.NewFleet(10, 2, sys)
	s.CreateFleet(fb)

	hostile := hostilityMatrix(s, sys, map[pairKey]bool{})
	require.False(t, hostile(1, 2))

	fb.StandingOrder = &model.FleetCommand{Type: model.CmdInvade}
	require.True(t, hostile(1, 2))
}

func TestHostilityMatrixRemembersEngagementAcrossTheaters(t *testing.T) {
	s := store.NewGameState()
	a := model.NewHouse(1, "A")
	b := model.NewHouse(2, "B")
	s.CreateHouse(a)
	s.CreateHouse(b)

	sys := model.SystemID(1)
	fb := model.NewFleet(10, 2, sys)
	fb.StandingOrder = &model.FleetCommand{Type: model.CmdInvade}
	s.CreateFleet(fb)

	engaged := map[pairKey]bool{}
	hostile := hostilityMatrix(s, sys, engaged)
	require.True(t, hostile(1, 2))

	// Defender stands down its order, but the pair already fought this
	// combat, so hostility must persist into the next theater.
	fb.StandingOrder = nil
	require.True(t, hostile(1, 2))
}

func TestRunInvasionAbortsIfBatteriesStillActive(t *testing.T) {
	s := store.NewGameState()
	gb := &model.GroundUnit{ID: 1, Kind: model.GroundBattery, Colony: 1, Owner: 2, AS: 2, DS: 5, Hull: model.HullUndamaged}
	s.CreateGroundUnit(gb)
	c := model.NewColony(1, 1, 2, model.PlanetFertile)
	c.GroundBatteries = []model.GroundUnitID{1}

	rng := rngstream.New(3)
	rng.BeginTurn(1)
	res := RunInvasion(rng.Sub("t"), s, 1, 1, 50, c)

	require.False(t, res.ColonyCaptured)
	require.Equal(t, model.HouseID(2), c.Owner)
}
