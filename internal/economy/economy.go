// Package economy implements C4: Gross/Net Colony Output, tax
// collection and its prestige penalty/bonus, passive IU/PU growth,
// and fleet maintenance with forced decommission on shortfall, per
// spec.md §4.4.
//
// The teacher has no production-formula engine of its own — its
// closest analogue is internal/game's fleet-cost/building-cost
// calculators, which this package is grounded on for its style
// (pure functions over a snapshot, `shopspring/decimal` throughout,
// no float64 money math) even though the formulas themselves are
// entirely new.
package economy

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"ec4x/internal/config"
	"ec4x/internal/model"
	"ec4x/internal/store"
)

// HouseResult is the per-house outcome of one Income Phase pass,
// merged back into GameState by the caller after every house's
// computation completes — each house's partition is disjoint, so the
// merge itself needs no locking.
type HouseResult struct {
	House         model.HouseID
	TreasuryGain  decimal.Decimal
	PrestigeDelta []model.PrestigeEvent
	Events        []model.Event
}

// Resolve runs the Income Phase economic pass for every house in the
// game, fanning out one goroutine per house (spec.md §5: "per-house
// income calculations may be fan-out/fan-in parallelized because each
// sub-step ... writes into a disjoint partition"). The returned slice
// is sorted by house id so callers observe deterministic ordering
// despite the concurrent computation.
func Resolve(ctx context.Context, s *store.GameState, cfg config.Config, turn int) ([]HouseResult, error) {
	houses := s.AllHouses()
	results := make([]HouseResult, len(houses))

	g, _ := errgroup.WithContext(ctx)
	for i, h := range houses {
		i, h := i, h
		g.Go(func() error {
			results[i] = resolveHouse(s, cfg, turn, h)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].House < results[j].House })
	return results, nil
}

func resolveHouse(s *store.GameState, cfg config.Config, turn int, h *model.House) HouseResult {
	res := HouseResult{House: h.ID, TreasuryGain: decimal.Zero}

	colonies := s.ColoniesByOwner(h.ID)
	for _, c := range colonies {
		gco := ColonyGCO(s, cfg, h, c)
		taxRate := c.EffectiveTaxRate(h.TaxRate)
		ncv := gco.Mul(decimal.NewFromInt(int64(taxRate))).Div(decimal.NewFromInt(100))
		res.TreasuryGain = res.TreasuryGain.Add(ncv)

		applyPassiveGrowth(s, cfg, c)

		if taxRate <= 40 {
			res.PrestigeDelta = append(res.PrestigeDelta, model.PrestigeEvent{
				House: h.ID, Amount: 1, Source: model.PrestigeTaxBonus, SubjectID: uint32(c.ID),
			})
		}
	}

	h.PushTaxHistory(h.TaxRate)
	rollingAvg := h.RollingTaxAverage(6)
	if delta := cfg.PrestigePenaltyFor(rollingAvg); delta != 0 {
		res.PrestigeDelta = append(res.PrestigeDelta, model.PrestigeEvent{
			House: h.ID, Amount: delta, Source: model.PrestigeTaxPenalty,
		})
	}

	return res
}

// ColonyGCO computes one colony's Gross Colony Output per §4.4's
// formula, applying the 0.4x blockade penalty when under blockade.
func ColonyGCO(s *store.GameState, cfg config.Config, h *model.House, c *model.Colony) decimal.Decimal {
	sys := s.MustSystem(c.SystemID)
	rawIndex := cfg.RawIndex[c.PlanetClass][clamp(sys.ResourceRating, 0, 5)]
	popTerm := c.PU.Mul(rawIndex)

	elMod := cfg.ELMod(h.Tech.Level("EL"))
	cstMod := cfg.CSTMod(h.Tech.Level("CST"))
	starbaseBonus := starbaseBonusFor(s, c)
	prodGrowth := prodGrowthFor(c.EffectiveTaxRate(h.TaxRate))

	iuTerm := c.IU.Mul(elMod).Mul(cstMod).Mul(decimal.NewFromFloat(1).Add(prodGrowth).Add(starbaseBonus))

	gco := popTerm.Add(iuTerm)
	if c.Blockade.Blockaded {
		gco = gco.Mul(decimal.NewFromFloat(0.4))
	}
	return gco
}

func starbaseBonusFor(s *store.GameState, c *model.Colony) decimal.Decimal {
	n := s.OperationalStarbaseCount(c)
	if n > 3 {
		n = 3
	}
	return decimal.NewFromFloat(0.05 * float64(n))
}

// prodGrowthFor rewards low current-turn tax rates (0-40%) with a
// production-growth bonus that tapers to zero at 40%, per §4.4.
func prodGrowthFor(taxRate int) decimal.Decimal {
	if taxRate > 40 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(float64(40-taxRate) / 400.0)
}

// applyPassiveGrowth mutates the colony's IU and population in place
// per §4.4's passive-growth formulas. Active IU investment (1 PP -> 1
// IU) is applied by the construction resolver, not here.
func applyPassiveGrowth(s *store.GameState, cfg config.Config, c *model.Colony) {
	taxRate := c.EffectiveTaxRate(25)
	taxFraction := decimal.NewFromInt(int64(100 - taxRate)).Div(decimal.NewFromInt(100))
	starbaseBonus := starbaseBonusFor(s, c)

	puFloor := c.PU.IntPart() / 200
	if puFloor < 1 {
		puFloor = 1
	}
	iuGrowth := decimal.NewFromInt(puFloor).Mul(taxFraction).Mul(decimal.NewFromFloat(1).Add(starbaseBonus))
	c.IU = c.IU.Add(iuGrowth)

	popGrowth := c.PU.Mul(decimal.NewFromFloat(0.02)).Mul(taxFraction).Mul(decimal.NewFromFloat(1).Add(starbaseBonus))
	if popGrowth.LessThan(decimal.NewFromInt(1)) {
		popGrowth = decimal.NewFromInt(1)
	}
	c.PU = c.PU.Add(popGrowth)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
