package combat

import "math/rand"

// DetectRaiders rolls 1d20 for each defender ELI unit against a
// cloak-derived threshold, per §4.8's "ELI vs CLK" table. If any
// defender detects, the raider loses its ambush/surprise bonus for
// this theater entry.
func DetectRaiders(rng *rand.Rand, defenderELI []int, raiderCLK int) bool {
	threshold := 10 + raiderCLK - 2 // higher CLK raises the roll needed to detect
	if threshold < 1 {
		threshold = 1
	}
	for _, eli := range defenderELI {
		roll := rng.Intn(20) + 1 + eli
		if roll >= threshold {
			return true
		}
	}
	return false
}

// MoraleRoll implements §4.8's per-house, per-turn morale check: 1d20
// against the house's prestige tier, yielding a CER modifier and
// whether a guaranteed critical is granted. Prestige <= 0 always rolls
// an automatic -1 with no guaranteed critical, per the spec's
// "Prestige<=0 => automatic -1" rule.
func MoraleRoll(rng *rand.Rand, prestige int, tierFor func(int) (min, max int, guaranteedCrit bool)) (modifier int, guaranteedCrit bool) {
	if prestige <= 0 {
		return -1, false
	}
	min, max, crit := tierFor(prestige)
	if max <= min {
		return min, crit
	}
	return min + rng.Intn(max-min+1), crit
}
