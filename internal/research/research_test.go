package research

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ec4x/internal/config"
	"ec4x/internal/model"
)

func TestAllocatePoolsAccumulates(t *testing.T) {
	h := model.NewHouse(1, "Atreides")
	AllocatePools(h, decimal.NewFromInt(10), decimal.NewFromInt(20), decimal.NewFromInt(30))
	AllocatePools(h, decimal.NewFromInt(5), decimal.NewFromInt(5), decimal.NewFromInt(5))

	require.True(t, h.Tech.ERPPool.Equal(decimal.NewFromInt(15)))
	require.True(t, h.Tech.SRPPool.Equal(decimal.NewFromInt(25)))
	require.True(t, h.Tech.TRPPool.Equal(decimal.NewFromInt(35)))
}

func TestSpaceLevelAdvancesWithBothPools(t *testing.T) {
	h := model.NewHouse(1, "Atreides")
	cfg := config.Default()
	require.Equal(t, 0, SpaceLevel(cfg, h))

	AllocatePools(h, decimal.NewFromInt(200), decimal.NewFromInt(200), decimal.Zero)
	require.Equal(t, 1, SpaceLevel(cfg, h))
}

func TestSpaceLevelGatedByWeakerPool(t *testing.T) {
	h := model.NewHouse(1, "Atreides")
	cfg := config.Default()
	AllocatePools(h, decimal.NewFromInt(500), decimal.NewFromInt(50), decimal.Zero)
	require.Equal(t, 0, SpaceLevel(cfg, h))
}

func TestPurchaseTechSucceeds(t *testing.T) {
	h := model.NewHouse(1, "Atreides")
	cfg := config.Default()
	AllocatePools(h, decimal.NewFromInt(500), decimal.Zero, decimal.Zero)

	require.NoError(t, PurchaseTech(cfg, h, "EL"))
	require.Equal(t, 1, h.Tech.Level("EL"))
}

func TestPurchaseTechInsufficientPool(t *testing.T) {
	h := model.NewHouse(1, "Atreides")
	cfg := config.Default()
	err := PurchaseTech(cfg, h, "EL")
	require.ErrorIs(t, err, model.ErrInsufficientPool)
}

func TestPurchaseTechSLGated(t *testing.T) {
	h := model.NewHouse(1, "Atreides")
	cfg := config.Default()
	AllocatePools(h, decimal.Zero, decimal.NewFromInt(500), decimal.Zero)

	err := PurchaseTech(cfg, h, "SLD")
	require.ErrorIs(t, err, model.ErrSLGated)
}
