package economy

import (
	"context"
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
	h.Treasury = decimal.NewFromInt(1000)
	s.CreateHouse(h)

	sys := model.NewSystem(1, model.AxialCoord{}, model.StarMain, model.PlanetFertile, 3)
	s.CreateSystem(sys)

	c := model.NewColony(1, sys.ID, h.ID, model.PlanetFertile)
	c.IU = decimal.NewFromInt(100)
	c.PU = decimal.NewFromInt(500)
	require.NoError(t, s.CreateColony(c))

	return s, h, c
}

func TestColonyGCOBlockadePenalty(t *testing.T) {
	s, h, c := seed(t)
	cfg := config.Default()

	full := ColonyGCO(s, cfg, h, c)
	c.Blockade.Blockaded = true
	blockaded := ColonyGCO(s, cfg, h, c)

	require.True(t, blockaded.LessThan(full))
	require.True(t, blockaded.Equal(full.Mul(decimal.NewFromFloat(0.4))))
}

func TestResolveCollectsTreasuryGain(t *testing.T) {
	s, h, _ := seed(t)
	cfg := config.Default()

	results, err := Resolve(context.Background(), s, cfg, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, h.ID, results[0].House)
	require.True(t, results[0].TreasuryGain.IsPositive())
}

func TestResolveAwardsLowTaxPrestige(t *testing.T) {
	s, h, _ := seed(t)
	h.TaxRate = 10
	cfg := config.Default()

	results, err := Resolve(context.Background(), s, cfg, 1)
	require.NoError(t, err)
	found := false
	for _, pe := range results[0].PrestigeDelta {
		if pe.Source == model.PrestigeTaxBonus {
			found = true
		}
	}
	require.True(t, found)
	_ = h
}

func TestMaintenanceWithNoShipsChargesNothing(t *testing.T) {
	s, h, _ := seed(t)
	cfg := config.Default()

	res := ResolveMaintenance(s, cfg, 1, h)
	require.False(t, res.Shortfall)
	require.True(t, res.Charged.IsZero())
}

func TestMaintenanceShortfallDecommissionsAndPenalizes(t *testing.T) {
	s, h, c := seed(t)
	cfg := config.Default()
	h.Treasury = decimal.Zero

	f := model.NewFleet(1, h.ID, c.SystemID)
	sh := &model.Ship{ID: 1, Class: model.ShipBattleship, Owner: h.ID, Squadron: 1, Hull: model.HullUndamaged}
	sq := &model.Squadron{ID: 1, Owner: h.ID, Flagship: 1, Hull: model.HullUndamaged}
	f.Squadrons = []model.SquadronID{1}
	s.CreateShip(sh)
	s.CreateSquadron(sq)
	s.CreateFleet(f)

	res := ResolveMaintenance(s, cfg, 1, h)
	require.True(t, res.Shortfall)
	require.NotEmpty(t, res.PrestigeDelta)
	require.Equal(t, -5, res.PrestigeDelta[0].Amount)
	require.NotEmpty(t, res.Decommissioned)

	_, stillThere := s.Ship(sh.ID)
	require.False(t, stillThere)
}
