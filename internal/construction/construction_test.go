package construction

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ec4x/internal/config"
	"ec4x/internal/model"
	"ec4x/internal/store"
)

func seed(t *testing.T) (*store.GameState, *model.House, *model.Colony) {
	t.Helper()
	s := store.NewGameState()
	h := model.NewHouse(1, "Atreides")
	h.Treasury = decimal.NewFromInt(10000)
	s.CreateHouse(h)

	sys := model.NewSystem(1, model.AxialCoord{}, model.StarMain, model.PlanetFertile, 3)
	s.CreateSystem(sys)
	c := model.NewColony(1, sys.ID, h.ID, model.PlanetFertile)
	require.NoError(t, s.CreateColony(c))
	return s, h, c
}

func TestQueueShipDebitsPlanetsideDouble(t *testing.T) {
	s, h, c := seed(t)
	cfg := config.Default()

	shipyardCost := cfg.Ship(model.ShipScout).PC
	_, err := QueueShip(cfg, s, h, c, 1, model.ShipScout, model.FacilityRef{Kind: model.FacilitySpaceport}, true)
	require.NoError(t, err)
	require.True(t, h.Treasury.Equal(decimal.NewFromInt(10000).Sub(shipyardCost.Mul(decimal.NewFromInt(2)))))
}

func TestQueueShipInsufficientTreasury(t *testing.T) {
	s, h, c := seed(t)
	cfg := config.Default()
	h.Treasury = decimal.NewFromInt(1)

	_, err := QueueShip(cfg, s, h, c, 1, model.ShipBattleship, model.FacilityRef{}, false)
	require.ErrorIs(t, err, model.ErrInsufficientTreasury)
}

func TestCancelProjectRefundsHalf(t *testing.T) {
	s, h, c := seed(t)
	cfg := config.Default()
	p, err := QueueShip(cfg, s, h, c, 1, model.ShipScout, model.FacilityRef{}, false)
	require.NoError(t, err)
	before := h.Treasury

	require.NoError(t, CancelProject(s, h, c, p.ID))
	require.True(t, h.Treasury.Equal(before.Add(p.Cost.Mul(decimal.NewFromFloat(0.5)))))
	require.Empty(t, c.ConstructionQueue)
}

func TestTickQueueCompletesAfterTurnsRemaining(t *testing.T) {
	s, h, c := seed(t)
	cfg := config.Default()
	s.CreateShipyard(1, &model.Facility{Kind: model.FacilityShipyard, Colony: c.ID, Hull: model.HullUndamaged})
	host := model.FacilityRef{Kind: model.FacilityShipyard, Shipyard: 1}
	_, err := QueueShip(cfg, s, h, c, 1, model.ShipScout, host, false)
	require.NoError(t, err)

	res := TickQueue(cfg, s, h, c, 1, 10)
	require.Len(t, res.Completed, 1)
	require.Empty(t, c.ConstructionQueue)
}

func TestTickQueueRespectsDockCapacity(t *testing.T) {
	s, h, c := seed(t)
	cfg := config.Default()
	s.CreateShipyard(1, &model.Facility{Kind: model.FacilityShipyard, Colony: c.ID, Hull: model.HullUndamaged})
	host := model.FacilityRef{Kind: model.FacilityShipyard, Shipyard: 1}
	_, _ = QueueShip(cfg, s, h, c, 1, model.ShipScout, host, false)
	_, _ = QueueShip(cfg, s, h, c, 2, model.ShipScout, host, false)

	res := TickQueue(cfg, s, h, c, 1, 1)
	require.Len(t, res.Completed, 1)
	require.Len(t, c.ConstructionQueue, 1)
}

func TestTickQueueLosesPPWhenHostDestroyed(t *testing.T) {
	s, h, c := seed(t)
	cfg := config.Default()
	s.CreateShipyard(1, &model.Facility{Kind: model.FacilityShipyard, Colony: c.ID, Hull: model.HullDestroyed})
	host := model.FacilityRef{Kind: model.FacilityShipyard, Shipyard: 1}
	_, err := QueueShip(cfg, s, h, c, 1, model.ShipScout, host, false)
	require.NoError(t, err)

	res := TickQueue(cfg, s, h, c, 1, 10)
	require.Empty(t, res.Completed)
	require.Len(t, res.Events, 1)
	require.Empty(t, c.ConstructionQueue)
}

func TestEnforceFighterCapacityGraceThenDisband(t *testing.T) {
	s, h, c := seed(t)
	c.FighterSquadrons = []model.SquadronID{1, 2, 3}
	for i := 0; i < 3; i++ {
		s.CreateStarbase(model.StarbaseID(i+1), &model.Facility{Kind: model.FacilityStarbase, Hull: model.HullUndamaged})
		c.Starbases = append(c.Starbases, model.StarbaseID(i+1))
	}

	disbanded := EnforceFighterCapacity(s, c, 1)
	require.Empty(t, disbanded)
	require.Len(t, c.CapacityViolations, 1)

	disbanded = EnforceFighterCapacity(s, c, 1)
	require.Empty(t, disbanded)

	disbanded = EnforceFighterCapacity(s, c, 1)
	require.Len(t, disbanded, 2)
	require.Empty(t, c.CapacityViolations)
	_ = h
}
