// Package research implements C5: per-house ERP/SRP/TRP pool
// accumulation from Command Phase allocations, space-level (SL)
// advancement gating, and individual tech purchases, per spec.md §4.5.
//
// Grounded on the teacher's internal/model/technologies_module.go
// (prerequisite-gated tech tree loaded once, looked up by name) and
// internal/game/technology_action.go (a purchase action validates
// prerequisites then debits a resource pool) — this package keeps that
// same two-step shape (validate, then mutate) but swaps the teacher's
// DB-backed prerequisite table for the in-memory config.Config tables.
package research

import (
	"github.com/shopspring/decimal"

	"ec4x/internal/config"
	"ec4x/internal/model"
)

// AllocatePools adds this turn's Command Phase PP allocation into a
// house's ERP/SRP/TRP pools. Overspending the house's treasury is the
// caller's responsibility (validated against CommandPacket before this
// is invoked); this function only ever adds.
func AllocatePools(h *model.House, erp, srp, trp decimal.Decimal) {
	h.Tech.ERPPool = h.Tech.ERPPool.Add(erp)
	h.Tech.SRPPool = h.Tech.SRPPool.Add(srp)
	h.Tech.TRPPool = h.Tech.TRPPool.Add(trp)
}

// SpaceLevel derives the house's current SL from its ERP/SRP pool
// totals against the config's tier thresholds. SL is never stored
// directly (model.TechTree's doc comment) so it can't drift out of
// sync with the pools that gate it.
func SpaceLevel(cfg config.Config, h *model.House) int {
	sl := 0
	for {
		next := sl + 1
		erpNeed, srpNeed := tierThresholds(cfg, next)
		if h.Tech.ERPPool.LessThan(erpNeed) || h.Tech.SRPPool.LessThan(srpNeed) {
			return sl
		}
		sl = next
	}
}

// tierThresholds returns the ERP/SRP pool totals required to reach a
// given SL tier: a simple stepped progression scaled off the base tech
// costs, since the spec names the mechanism ("both pool-thresholds
// met") without pinning exact constants.
func tierThresholds(cfg config.Config, tier int) (decimal.Decimal, decimal.Decimal) {
	base := decimal.NewFromInt(200)
	mult := decimal.NewFromInt(int64(tier))
	return base.Mul(mult), base.Mul(mult)
}

// PurchaseTech spends from the appropriate pool to raise a named
// track one tier, enforcing the track's prerequisite tier and SL gate.
// Failure modes per §4.5: ErrInsufficientPool, ErrSLGated.
func PurchaseTech(cfg config.Config, h *model.House, track string) error {
	tc, ok := cfg.TechTable[track]
	if !ok {
		return model.NewValidationError("UNKNOWN_TECH", model.ErrNotFound)
	}

	currentTier := h.Tech.Level(track)
	if currentTier < tc.PrereqTier {
		return model.NewValidationError("TECH_PREREQ_UNMET", model.ErrSLGated)
	}
	if SpaceLevel(cfg, h) < tc.PrereqSL {
		return model.ErrSLGated
	}

	pool := poolFor(h, tc.Pool)
	if pool.LessThan(tc.Cost) {
		return model.ErrInsufficientPool
	}
	spendPool(h, tc.Pool, tc.Cost)

	if h.Tech.Levels == nil {
		h.Tech.Levels = map[string]int{}
	}
	h.Tech.Levels[track] = currentTier + 1
	return nil
}

func poolFor(h *model.House, pool string) decimal.Decimal {
	switch pool {
	case "ERP":
		return h.Tech.ERPPool
	case "SRP":
		return h.Tech.SRPPool
	default:
		return h.Tech.TRPPool
	}
}

func spendPool(h *model.House, pool string, cost decimal.Decimal) {
	switch pool {
	case "ERP":
		h.Tech.ERPPool = h.Tech.ERPPool.Sub(cost)
	case "SRP":
		h.Tech.SRPPool = h.Tech.SRPPool.Sub(cost)
	default:
		h.Tech.TRPPool = h.Tech.TRPPool.Sub(cost)
	}
}
