package economy

import (
	"sort"

	"github.com/shopspring/decimal"

	"ec4x/internal/config"
	"ec4x/internal/model"
	"ec4x/internal/store"
)

// MaintenanceResult is the outcome of one house's Production Phase
// maintenance debit: the treasury charge, any prestige penalty from a
// shortfall, and the ships the Space Guild claimed to cover it.
type MaintenanceResult struct {
	House         model.HouseID
	Charged       decimal.Decimal
	Shortfall     bool
	PrestigeDelta []model.PrestigeEvent
	Events        []model.Event
	Decommissioned []model.ShipID
}

// ResolveMaintenance charges one house's fleet maintenance and, on a
// treasury shortfall, forces decommission of excess units per §4.4:
// crippled units are claimed first, then lowest-AS units, refunding
// 50% of each claimed unit's PC to the treasury.
func ResolveMaintenance(s *store.GameState, cfg config.Config, turn int, h *model.House) MaintenanceResult {
	res := MaintenanceResult{House: h.ID}

	total := decimal.Zero
	ships := maintainableShips(s, h.ID)
	for _, sh := range ships {
		stats := cfg.Ship(sh.Class)
		cost := stats.PC.Mul(stats.MCPercent)
		if sh.Hull == model.HullCrippled {
			cost = cost.Div(decimal.NewFromInt(2))
		}
		total = total.Add(cost)
	}

	if h.Treasury.GreaterThanOrEqual(total) {
		h.Treasury = h.Treasury.Sub(total)
		res.Charged = total
		h.MaintenanceShortfallStreak = 0
		return res
	}

	// Shortfall: charge whatever remains, zero the treasury, and claim
	// units starting from crippled-first, then lowest AS, until the gap
	// closes.
	res.Charged = h.Treasury
	h.Treasury = decimal.Zero
	res.Shortfall = true
	h.MaintenanceShortfallStreak++

	penalty := -5 - 2*(h.MaintenanceShortfallStreak-1)
	res.PrestigeDelta = append(res.PrestigeDelta, model.PrestigeEvent{
		House: h.ID, Amount: penalty, Source: model.PrestigeMaintenanceShortfall,
	})

	gap := total.Sub(res.Charged)
	sort.Slice(ships, func(i, j int) bool {
		ci, cj := ships[i].Hull == model.HullCrippled, ships[j].Hull == model.HullCrippled
		if ci != cj {
			return ci
		}
		return cfg.Ship(ships[i].Class).BaseAS < cfg.Ship(ships[j].Class).BaseAS
	})
	for _, sh := range ships {
		if !gap.IsPositive() {
			break
		}
		stats := cfg.Ship(sh.Class)
		refund := stats.PC.Mul(decimal.NewFromFloat(0.5))
		h.Treasury = h.Treasury.Add(refund)
		gap = gap.Sub(stats.PC.Mul(stats.MCPercent))
		res.Decommissioned = append(res.Decommissioned, sh.ID)
		s.DestroyShip(sh.ID)
	}
	res.Events = append(res.Events, model.NewEvent(turn, "Production", "ForcedDecommission",
		"maintenance shortfall forced Space Guild claim", []model.HouseID{h.ID}))

	return res
}

func maintainableShips(s *store.GameState, owner model.HouseID) []*model.Ship {
	var out []*model.Ship
	for _, f := range s.FleetsByOwner(owner) {
		for _, sq := range s.SquadronsOf(f) {
			for _, sh := range s.ShipsOf(sq) {
				out = append(out, sh)
			}
		}
	}
	return out
}
