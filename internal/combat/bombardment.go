package combat

import (
	"math/rand"

	"github.com/shopspring/decimal"

	"ec4x/internal/config"
	"ec4x/internal/model"
	"ec4x/internal/store"
)

// PlanetaryResult reports the outcome of the planetary theater: any
// prestige/event output, and whether the colony changed hands.
type PlanetaryResult struct {
	PrestigeDelta []model.PrestigeEvent
	Events        []model.Event
	ColonyCaptured bool
	NewOwner      model.HouseID
}

// bombardmentCER mirrors the space CER table but with the bombardment-
// specific multiplier steps named in §4.8's bombardment CER table;
// the spec gives the same shape {0.25,0.50,0.75,1.00} as space combat,
// so this delegates to cerTable directly.
func bombardmentCER(rng *rand.Rand) (decimal.Decimal, bool) {
	raw := rng.Intn(10)
	return cerTable(raw), raw == 9
}

// RunBombardment executes up to 3 rounds of planetary bombardment per
// spec.md §4.8: split Planet-Breaker AS (bypasses shield) from
// conventional AS (subject to a shield roll absorbing block% of
// conventional hits), flow batteries -> ground forces -> IU -> PU,
// with batteries returning fire against orbiting ships.
func RunBombardment(rng *rand.Rand, cfg config.Config, s *store.GameState, turn int, attacker model.HouseID, attackerAS, attackerPBAS int, c *model.Colony, orbitingShips []*Unit) PlanetaryResult {
	var res PlanetaryResult

	for round := 1; round <= 3; round++ {
		if allBatteriesDown(s, c) {
			break
		}
		mult, _ := bombardmentCER(rng)
		conventionalHits := int(mult.Mul(decimalFromInt(attackerAS)).IntPart())
		pbHits := int(mult.Mul(decimalFromInt(attackerPBAS)).IntPart())

		block, roll := shieldBlock(rng, c.ShieldLevel)
		if roll {
			blocked := int(decimal.NewFromInt(int64(conventionalHits)).Mul(block).IntPart())
			conventionalHits -= blocked
		}

		applyBombardmentFlow(s, c, conventionalHits+pbHits)
		returnFire(rng, cfg, s, c, orbitingShips, &res, turn)
	}
	return res
}

// shieldBlock rolls 1d20 against a shield-level threshold; on success
// returns the block fraction absorbed from conventional hits (Planet-
// Breaker AS always bypasses the shield regardless of this roll).
func shieldBlock(rng *rand.Rand, shieldLevel int) (decimal.Decimal, bool) {
	if shieldLevel <= 0 {
		return decimal.Zero, false
	}
	threshold := 20 - shieldLevel
	roll := rng.Intn(20) + 1
	if roll < threshold {
		return decimal.Zero, false
	}
	block := decimal.NewFromFloat(float64(shieldLevel) * 0.10)
	return block, true
}

func allBatteriesDown(s *store.GameState, c *model.Colony) bool {
	for _, id := range c.GroundBatteries {
		if g, ok := s.GroundUnit(id); ok && g.Hull != model.HullDestroyed {
			return false
		}
	}
	return true
}

// applyBombardmentFlow drains hits through batteries, then ground
// forces, then IU, then PU, per §4.8's flow order.
func applyBombardmentFlow(s *store.GameState, c *model.Colony, hits int) {
	hits = drainGroundUnits(s, c.GroundBatteries, hits)
	hits = drainGroundUnits(s, c.Armies, hits)
	hits = drainGroundUnits(s, c.Marines, hits)
	if hits <= 0 {
		return
	}
	iuLoss := decimal.NewFromInt(int64(hits))
	if iuLoss.GreaterThan(c.IU) {
		hits -= int(c.IU.IntPart())
		c.IU = decimal.Zero
	} else {
		c.IU = c.IU.Sub(iuLoss)
		return
	}
	puLoss := decimal.NewFromInt(int64(hits))
	if puLoss.GreaterThan(c.PU) {
		puLoss = c.PU
	}
	c.PU = c.PU.Sub(puLoss)
}

func drainGroundUnits(s *store.GameState, ids []model.GroundUnitID, hits int) int {
	for _, id := range ids {
		if hits <= 0 {
			return hits
		}
		g, ok := s.GroundUnit(id)
		if !ok || g.Hull == model.HullDestroyed {
			continue
		}
		if hits >= g.DS {
			hits -= g.DS
			g.Hull = model.HullDestroyed
		} else {
			hits = 0
		}
	}
	return hits
}

// returnFire lets surviving batteries fire back at the orbiting fleet;
// a critical hit bypasses destruction protection per §4.8.
func returnFire(rng *rand.Rand, cfg config.Config, s *store.GameState, c *model.Colony, orbiting []*Unit, res *PlanetaryResult, turn int) {
	totalAS := 0
	for _, id := range c.GroundBatteries {
		if g, ok := s.GroundUnit(id); ok && g.Hull != model.HullDestroyed {
			totalAS += g.AS
		}
	}
	if totalAS == 0 || len(orbiting) == 0 {
		return
	}
	mult, crit := bombardmentCER(rng)
	hits := int(mult.Mul(decimalFromInt(totalAS)).IntPart())
	target := orbiting[rng.Intn(len(orbiting))]
	applyDamage(hits, target, crit, 0)
	if target.Squadron.Hull == model.HullDestroyed {
		res.Events = append(res.Events, model.NewEvent(turn, "Conflict", "BatteryKill",
			"colony batteries destroyed an orbiting squadron", nil))
	}
}

// groundCER is the ground-combat CER table used by Invade/Blitz:
// {0.5, 1.0, 1.5, 2.0}, per §4.8.
func groundCER(rng *rand.Rand) decimal.Decimal {
	switch rng.Intn(4) {
	case 0:
		return decimal.NewFromFloat(0.5)
	case 1:
		return decimal.NewFromFloat(1.0)
	case 2:
		return decimal.NewFromFloat(1.5)
	default:
		return decimal.NewFromFloat(2.0)
	}
}

// RunInvasion executes ground combat once all batteries are destroyed:
// attacking marines at full AS against remaining armies/marines. On
// success the colony transfers and 50% of remaining IU is destroyed by
// loyal citizens, per §4.8.
func RunInvasion(rng *rand.Rand, s *store.GameState, turn int, attacker model.HouseID, marineAS int, c *model.Colony) PlanetaryResult {
	var res PlanetaryResult
	if !allBatteriesDown(s, c) {
		res.Events = append(res.Events, model.NewEvent(turn, "Conflict", "InvasionFailed",
			"batteries still active, invasion aborted", []model.HouseID{attacker}))
		return res
	}

	cer := groundCER(rng)
	hits := int(cer.Mul(decimalFromInt(marineAS)).IntPart())
	remaining := drainGroundUnits(s, c.Armies, hits)
	remaining = drainGroundUnits(s, c.Marines, remaining)

	if remaining <= 0 && (len(c.Armies) > 0 || len(c.Marines) > 0) {
		res.Events = append(res.Events, model.NewEvent(turn, "Conflict", "InvasionRepelled",
			"defenders held the ground", []model.HouseID{attacker, c.Owner}))
		return res
	}

	res.ColonyCaptured = true
	res.NewOwner = attacker
	prior := c.Owner
	c.Owner = attacker
	c.IU = c.IU.Mul(decimal.NewFromFloat(0.5))
	res.Events = append(res.Events, model.NewEvent(turn, "Conflict", "ColonyInvaded",
		"colony captured by invasion", []model.HouseID{attacker, prior}, uint32(c.ID)))
	return res
}

// RunBlitz combines bombardment and landing in a single phase:
// transports are valid battery targets, surviving marines land at 0.5x
// AS, and a successful blitz transfers the colony with all remaining
// facilities/shields intact (no IU penalty), per §4.8.
func RunBlitz(rng *rand.Rand, cfg config.Config, s *store.GameState, turn int, attacker model.HouseID, marineAS int, c *model.Colony, orbitingShips []*Unit) PlanetaryResult {
	bombard := RunBombardment(rng, cfg, s, turn, attacker, marineAS, 0, c, orbitingShips)
	landingAS := int(decimal.NewFromInt(int64(marineAS)).Mul(decimal.NewFromFloat(0.5)).IntPart())

	if !allBatteriesDown(s, c) {
		bombard.Events = append(bombard.Events, model.NewEvent(turn, "Conflict", "BlitzFailed",
			"batteries survived the blitz bombardment", []model.HouseID{attacker}))
		return bombard
	}

	cer := groundCER(rng)
	hits := int(cer.Mul(decimalFromInt(landingAS)).IntPart())
	remaining := drainGroundUnits(s, c.Armies, hits)
	remaining = drainGroundUnits(s, c.Marines, remaining)
	if remaining <= 0 && (len(c.Armies) > 0 || len(c.Marines) > 0) {
		bombard.Events = append(bombard.Events, model.NewEvent(turn, "Conflict", "BlitzRepelled",
			"defenders held against the blitz landing", []model.HouseID{attacker, c.Owner}))
		return bombard
	}

	bombard.ColonyCaptured = true
	bombard.NewOwner = attacker
	prior := c.Owner
	c.Owner = attacker
	bombard.Events = append(bombard.Events, model.NewEvent(turn, "Conflict", "ColonyBlitzed",
		"colony captured intact by blitz", []model.HouseID{attacker, prior}, uint32(c.ID)))
	return bombard
}
