package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ec4x/internal/model"
)

func TestDefaultConfigHasAllShipClasses(t *testing.T) {
	cfg := Default()
	for _, class := range []model.ShipClass{
		model.ShipScout, model.ShipETAC, model.ShipTroopTransport,
		model.ShipRaider, model.ShipFighter, model.ShipCarrier,
		model.ShipDestroyer, model.ShipCruiser, model.ShipBattleship,
	} {
		stats := cfg.Ship(class)
		require.True(t, stats.PC.IsPositive())
	}
}

func TestPrestigePenaltyStepsUpWithTaxRate(t *testing.T) {
	cfg := Default()
	require.Equal(t, 0, cfg.PrestigePenaltyFor(45))
	require.Equal(t, -1, cfg.PrestigePenaltyFor(55))
	require.Equal(t, -11, cfg.PrestigePenaltyFor(95))
}

func TestMoraleForPicksHighestMatchingFloor(t *testing.T) {
	cfg := Default()
	m := cfg.MoraleFor(150)
	require.True(t, m.GuaranteedCrit)

	m = cfg.MoraleFor(-5)
	require.Equal(t, -1, m.MinModifier)
}

func TestLoadWithNilViperReturnsDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, 200, cfg.VictoryTurnLimit)
}
