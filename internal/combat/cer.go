package combat

import (
	"math/rand"

	"github.com/shopspring/decimal"

	"ec4x/internal/model"
)

// CERModifiers bundles the additive roll modifiers applied before the
// CER table lookup, per §4.8's "d10(0..9) + modifiers {scout +1 max
// per TF, morale -1..+2, first-round surprise/ambush}".
type CERModifiers struct {
	ScoutBonus   int // at most +1, per task force, per round
	MoraleMod    int // -1..+2
	SurpriseBonus int // +4 for an undetected raider's first round only
}

// RollCER draws a d10 (0..9), applies modifiers, and maps the result
// to the damage-multiplier table. A natural roll of 9 (pre-modifier)
// is a critical hit.
func RollCER(rng *rand.Rand, mods CERModifiers) (multiplier decimal.Decimal, critical bool) {
	raw := rng.Intn(10)
	critical = raw == 9
	adjusted := raw + mods.ScoutBonus + mods.MoraleMod + mods.SurpriseBonus
	return cerTable(adjusted), critical
}

// cerTable maps an adjusted CER roll to a damage multiplier, rounded
// up to the next table step per §4.8.
func cerTable(adjusted int) decimal.Decimal {
	switch {
	case adjusted <= 2:
		return decimal.NewFromFloat(0.25)
	case adjusted <= 5:
		return decimal.NewFromFloat(0.50)
	case adjusted <= 8:
		return decimal.NewFromFloat(0.75)
	default:
		return decimal.NewFromFloat(1.00)
	}
}

// bucketOrder is the target-selection priority order from §4.8:
// Raider(1) < Capital(2) < Escort(3) < Fighter(4) < Starbase(5).
var bucketOrder = []model.SquadronBucket{
	model.BucketRaider, model.BucketCapital, model.BucketEscort, model.BucketFighter, model.BucketStarbase,
}

// fighterBucketOrder inverts the normal priority for fighter attackers,
// who prefer enemy fighters first.
var fighterBucketOrder = []model.SquadronBucket{
	model.BucketFighter, model.BucketRaider, model.BucketCapital, model.BucketEscort, model.BucketStarbase,
}

// SelectTarget picks a hostile unit for an attacking unit to fire at:
// the first non-empty bucket (in priority order, inverted if the
// attacker is a fighter) among alive hostile units, then a weighted
// random pick within that bucket where weight = baseWeight * shipCount
// * (2.0 if crippled else 1.0). Here shipCount is 1 per Unit (each Unit
// already represents one squadron); baseWeight is uniform since the
// spec names no per-class weighting.
func SelectTarget(rng *rand.Rand, attacker *Unit, hostiles []*Unit) *Unit {
	order := bucketOrder
	if attacker.IsFighter {
		order = fighterBucketOrder
	}

	for _, bucket := range order {
		var candidates []*Unit
		var weights []float64
		for _, h := range hostiles {
			if h.Bucket != bucket || h.Squadron.Hull == model.HullDestroyed {
				continue
			}
			w := 1.0
			if h.Squadron.Hull == model.HullCrippled {
				w = 2.0
			}
			candidates = append(candidates, h)
			weights = append(weights, w)
		}
		if len(candidates) == 0 {
			continue
		}
		return weightedPick(rng, candidates, weights)
	}
	return nil
}

func weightedPick(rng *rand.Rand, candidates []*Unit, weights []float64) *Unit {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	roll := rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if roll <= acc {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}
