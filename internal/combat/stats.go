package combat

import (
	"ec4x/internal/config"
	"ec4x/internal/model"
	"ec4x/internal/store"
)

// ConfigStats adapts config.Config to the StatsOf interface, applying
// a house's EL/WEP tech tiers to the ship table's base AS/DS and
// halving for Crippled hulls.
type ConfigStats struct {
	Cfg config.Config
}

func (c ConfigStats) SquadronAS(s *store.GameState, sq *model.Squadron) int {
	return c.sum(s, sq, func(stats config.ShipStats, h *model.House) int {
		return applyTier(stats.BaseAS, h.Tech.Level("WEP"))
	})
}

func (c ConfigStats) SquadronDS(s *store.GameState, sq *model.Squadron) int {
	return c.sum(s, sq, func(stats config.ShipStats, h *model.House) int {
		return applyTier(stats.BaseDS, h.Tech.Level("EL"))
	})
}

func (c ConfigStats) sum(s *store.GameState, sq *model.Squadron, pick func(config.ShipStats, *model.House) int) int {
	h, ok := s.House(sq.Owner)
	if !ok {
		h = model.NewHouse(sq.Owner, "")
	}
	total := 0
	for _, shID := range sq.Members() {
		sh, ok := s.Ship(shID)
		if !ok || sh.Hull == model.HullDestroyed {
			continue
		}
		v := pick(c.Cfg.Ship(sh.Class), h)
		if sh.Hull == model.HullCrippled {
			v /= 2
		}
		total += v
	}
	return total
}

// applyTier scales a base stat by 10% per tech tier, a simple
// monotonic progression since the spec names EL/WEP as AS/DS
// modifiers without pinning an exact scaling table.
func applyTier(base, tier int) int {
	return base + (base*tier)/10
}
