package construction

import (
	"sort"

	"github.com/shopspring/decimal"

	"ec4x/internal/config"
	"ec4x/internal/model"
	"ec4x/internal/store"
)

// FighterCapacity returns a colony's standing fighter-squadron cap:
// floor(PU/100) * FDMult, gated by ceil(current/5) operational
// starbases per §4.6.
func FighterCapacity(cfg config.Config, s *store.GameState, h *model.House, c *model.Colony) int {
	base := decimal.NewFromInt(c.PU.IntPart() / 100).Mul(cfg.FDMult(h.Tech.Level("FD")))
	cap := int(base.IntPart())
	required := (len(c.FighterSquadrons) + 4) / 5
	if s.OperationalStarbaseCount(c) < required {
		return len(c.FighterSquadrons)
	}
	return cap
}

// CapitalCapacity returns a house's standing capital-squadron cap:
// max(8, floor(totalIU/100) * 2) per §4.6.
func CapitalCapacity(s *store.GameState, h model.HouseID) int {
	total := decimal.Zero
	for _, c := range s.ColoniesByOwner(h) {
		total = total.Add(c.IU)
	}
	cap := int(total.IntPart()/100) * 2
	if cap < 8 {
		cap = 8
	}
	return cap
}

// EnforceFighterCapacity checks a colony's fighter-squadron count
// against its cap, advancing or clearing the 2-turn grace counter and
// auto-disbanding oldest-first once grace expires.
func EnforceFighterCapacity(s *store.GameState, c *model.Colony, cap int) []model.SquadronID {
	excess := len(c.FighterSquadrons) - cap
	idx := violationIndex(c.CapacityViolations, model.CapacityFighterSquadrons)

	if excess <= 0 {
		if idx >= 0 {
			c.CapacityViolations = append(c.CapacityViolations[:idx], c.CapacityViolations[idx+1:]...)
		}
		return nil
	}

	if idx < 0 {
		c.CapacityViolations = append(c.CapacityViolations, model.CapacityViolation{
			Kind: model.CapacityFighterSquadrons, GraceTurns: 2, Excess: excess,
		})
		return nil
	}

	v := &c.CapacityViolations[idx]
	v.Excess = excess
	v.GraceTurns--
	if v.GraceTurns > 0 {
		return nil
	}

	disbanded := c.FighterSquadrons[:excess]
	c.FighterSquadrons = c.FighterSquadrons[excess:]
	c.CapacityViolations = append(c.CapacityViolations[:idx], c.CapacityViolations[idx+1:]...)
	return disbanded
}

// EnforceCapitalCapacity checks a house's capital squadron count
// across all its fleets against its cap and Guild-claims the excess,
// crippled-first then lowest-AS-first. Unlike the fighter cap it keeps
// no grace-period state: the excess is claimed on the same call that
// finds it.
func EnforceCapitalCapacity(cfg config.Config, s *store.GameState, h *model.House, cap int) []model.SquadronID {
	var capitals []*model.Squadron
	for _, f := range s.FleetsByOwner(h.ID) {
		for _, sq := range s.SquadronsOf(f) {
			if sq.IsCapital() {
				capitals = append(capitals, sq)
			}
		}
	}
	excess := len(capitals) - cap
	if excess <= 0 {
		return nil
	}

	sort.Slice(capitals, func(i, j int) bool {
		ci, cj := capitals[i].Hull == model.HullCrippled, capitals[j].Hull == model.HullCrippled
		if ci != cj {
			return ci
		}
		return flagshipAS(cfg, s, capitals[i]) < flagshipAS(cfg, s, capitals[j])
	})

	var claimed []model.SquadronID
	for i := 0; i < excess; i++ {
		claimed = append(claimed, capitals[i].ID)
	}
	return claimed
}

func flagshipAS(cfg config.Config, s *store.GameState, sq *model.Squadron) int {
	sh, ok := s.Ship(sq.Flagship)
	if !ok {
		return 0
	}
	return cfg.Ship(sh.Class).BaseAS
}

func violationIndex(violations []model.CapacityViolation, kind model.CapacityKind) int {
	for i, v := range violations {
		if v.Kind == kind {
			return i
		}
	}
	return -1
}
