// Package combat resolves the Conflict Phase's three-theater sequence
// per system -- Space, then Orbital, then Planetary -- grounded on the
// teacher's resolver idiom (value-receiver functions returning result
// structs plus an event log, no hidden mutation beyond the store
// passed in). Combat is the largest single subsystem: task force
// formation (taskforce.go), detection and morale (detection.go),
// the CER/targeting tables (cer.go), the round loop (space.go),
// bombardment/invasion/blitz (bombardment.go) and prestige attribution
// (prestige.go) are kept in separate files the way the teacher splits
// its match-resolution code by concern rather than by one giant file.
package combat

import (
	"fmt"
	"math/rand"
	"sort"

	"ec4x/internal/config"
	"ec4x/internal/model"
	"ec4x/internal/store"
)

// SystemResult is everything one system's Conflict Phase produced.
type SystemResult struct {
	System    model.SystemID
	Space     *TheaterResult
	Orbital   *TheaterResult
	Planetary *PlanetaryResult
}

// Resolve runs the Conflict Phase across every system that has more
// than one house present, in stable systemId order so the RNG stream
// stays reproducible across re-derivations of the same turn (§4.11).
// Each system only advances to its next theater if the attacking side
// won the previous one -- an orbital bombardment never happens while
// contested fleets still hold Space, and planetary bombardment never
// happens while the orbit is contested.
func Resolve(rng RNG, cfg config.Config, s *store.GameState, turn int) []SystemResult {
	var results []SystemResult
	for _, sys := range stableSystems(s) {
		houses := housesPresent(s, sys.ID)
		if len(houses) < 2 {
			continue
		}
		results = append(results, resolveSystem(rng, cfg, s, turn, sys.ID, houses))
	}
	return results
}

// RNG is the per-event-tag stream this package draws from; satisfied
// by *rngstream.Stream's Sub method via a thin adapter at the call
// site, kept as an interface here so combat never imports rngstream
// directly and risks a cycle.
type RNG interface {
	Sub(eventTag string) *rand.Rand
}

// tag builds a system-scoped event tag so each system's RNG draws
// within a turn stay unique (combat.Resolve iterates every contested
// system under the same Stream.BeginTurn call).
func tag(sys model.SystemID, suffix string) string {
	return "combat:" + fmtSystem(sys) + ":" + suffix
}

func fmtSystem(sys model.SystemID) string {
	return fmt.Sprintf("%d", uint32(sys))
}

func stableSystems(s *store.GameState) []*model.System {
	out := s.AllSystems()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func housesPresent(s *store.GameState, sys model.SystemID) []model.HouseID {
	seen := map[model.HouseID]bool{}
	for _, f := range s.FleetsInSystem(sys) {
		seen[f.Owner] = true
	}
	if c, ok := s.ColonyBySystem(sys); ok {
		seen[c.Owner] = true
	}
	out := make([]model.HouseID, 0, len(seen))
	for h := range seen {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func resolveSystem(rng RNG, cfg config.Config, s *store.GameState, turn int, sys model.SystemID, houses []model.HouseID) SystemResult {
	res := SystemResult{System: sys}
	stats := ConfigStats{Cfg: cfg}
	engaged := map[pairKey]bool{}
	hostile := hostilityMatrix(s, sys, engaged)

	spaceTFs := make([]*TaskForce, 0, len(houses))
	for _, h := range houses {
		spaceTFs = append(spaceTFs, FormSpaceTaskForce(s, stats, h, sys))
	}
	detected, morale := detectionAndMorale(rng, cfg, s, houses, sys)
	spaceResult := RunRounds(rng.Sub(tag(sys, "space")), cfg, turn, "Conflict", spaceTFs, hostile, detected, morale)
	res.Space = &spaceResult
	if spaceResult.Winner == 0 && len(aliveTFs(spaceTFs)) > 1 {
		return res // space still contested, orbit/planet do not proceed.
	}

	colony, hasColony := s.ColonyBySystem(sys)
	orbitalTFs := make([]*TaskForce, 0, len(houses))
	for _, h := range houses {
		var c *model.Colony
		if hasColony {
			c = colony
		}
		orbitalTFs = append(orbitalTFs, FormOrbitalTaskForce(s, stats, h, sys, c))
	}
	orbitalResult := RunRounds(rng.Sub(tag(sys, "orbital")), cfg, turn, "Conflict", orbitalTFs, hostile, detected, morale)
	res.Orbital = &orbitalResult
	if !hasColony {
		return res
	}
	if orbitalResult.Winner == 0 && len(aliveTFs(orbitalTFs)) > 1 {
		return res // orbit still contested, no planetary theater this turn.
	}

	attacker := orbitalResult.Winner
	if attacker == 0 || attacker == colony.Owner {
		return res // nothing to invade: defender held or there is no attacker.
	}

	var orbiting []*Unit
	for _, tf := range orbitalTFs {
		if tf.House == attacker {
			orbiting = append(orbiting, tf.Units...)
		}
	}
	marineAS, pbAS := attackerGroundStats(s, stats, attacker, sys)
	planetRNG := rng.Sub(tag(sys, "planetary"))

	var pr PlanetaryResult
	switch {
	case marineAS == 0 && pbAS == 0:
		// No ground or Planet-Breaker assets; orbital supremacy alone
		// does not capture a colony.
		return res
	default:
		switch attackerGroundOrder(s, sys, attacker) {
		case model.CmdBlitz:
			pr = RunBlitz(planetRNG, cfg, s, turn, attacker, marineAS, colony, orbiting)
		case model.CmdInvade:
			bombard := RunBombardment(planetRNG, cfg, s, turn, attacker, marineAS, pbAS, colony, orbiting)
			pr = bombard
			if allBatteriesDown(s, colony) && marineAS > 0 {
				invasion := RunInvasion(planetRNG, s, turn, attacker, marineAS, colony)
				pr.ColonyCaptured = invasion.ColonyCaptured
				pr.NewOwner = invasion.NewOwner
				pr.Events = append(pr.Events, invasion.Events...)
			}
		default:
			// Bombard-only order (or no explicit ground order at all):
			// shell the colony but never land.
			pr = RunBombardment(planetRNG, cfg, s, turn, attacker, marineAS, pbAS, colony, orbiting)
		}
	}
	res.Planetary = &pr
	return res
}

// attackerGroundOrder reports which ground-assault order the attacking
// house issued to its fleets present in this system, per §4.8's
// Bombard/Invade/Blitz distinction. When the attacker has fleets under
// more than one such order, Invade takes priority over Blitz over
// Bombard, so a mixed task force still escalates as far as any of its
// fleets asked for. Absent any explicit ground order, the attacker
// only gets a bombardment, never an automatic landing.
func attackerGroundOrder(s *store.GameState, sys model.SystemID, attacker model.HouseID) model.CommandType {
	seen := map[model.CommandType]bool{}
	for _, f := range s.FleetsInSystem(sys) {
		if f.Owner != attacker || f.StandingOrder == nil {
			continue
		}
		switch f.StandingOrder.Type {
		case model.CmdInvade, model.CmdBlitz, model.CmdBombard:
			seen[f.StandingOrder.Type] = true
		}
	}
	switch {
	case seen[model.CmdInvade]:
		return model.CmdInvade
	case seen[model.CmdBlitz]:
		return model.CmdBlitz
	default:
		return model.CmdBombard
	}
}

// pairKey orders an unordered house pair so engagement tracking does
// not care which side is "a" and which is "b".
type pairKey struct{ lo, hi model.HouseID }

func orderedPair(a, b model.HouseID) pairKey {
	if a <= b {
		return pairKey{lo: a, hi: b}
	}
	return pairKey{lo: b, hi: a}
}

// hostilityMatrix precomputes IsHostile(a,b) for every ordered pair
// present in the system, using each house's live diplomatic posture
// and whether the target has, this turn, a fleet in this system under
// provocative orders (Hostile relation) or threatening orders (Neutral
// relation), per §4.8. `engaged` is shared across every theater this
// system's Conflict Phase runs (Space, Orbital, Planetary): once two
// houses are found hostile in one theater they stay hostile for the
// rest of the combat, even if their orders or posture would otherwise
// no longer justify it.
func hostilityMatrix(s *store.GameState, sys model.SystemID, engaged map[pairKey]bool) hostilityFn {
	return func(a, b model.HouseID) bool {
		if a == b {
			return false
		}
		ha, ok := s.House(a)
		if !ok {
			return false
		}
		key := orderedPair(a, b)
		hostile := IsHostile(a, b, ha.RelationWith(b),
			houseHasProvocativeOrder(s, sys, b),
			houseHasThreateningOrder(s, sys, b),
			engaged[key])
		if hostile {
			engaged[key] = true
		}
		return hostile
	}
}

// houseHasProvocativeOrder reports whether any of house's fleets
// present in sys is under a provocative standing order (§4.8's Hostile-
// relation check).
func houseHasProvocativeOrder(s *store.GameState, sys model.SystemID, house model.HouseID) bool {
	for _, f := range s.FleetsInSystem(sys) {
		if f.Owner == house && HasProvocativeOrder(f) {
			return true
		}
	}
	return false
}

// houseHasThreateningOrder reports whether any of house's fleets
// present in sys is under a threatening standing order (§4.8's Neutral-
// relation check).
func houseHasThreateningOrder(s *store.GameState, sys model.SystemID, house model.HouseID) bool {
	for _, f := range s.FleetsInSystem(sys) {
		if f.Owner == house && HasThreateningOrder(f) {
			return true
		}
	}
	return false
}

func detectionAndMorale(rng RNG, cfg config.Config, s *store.GameState, houses []model.HouseID, sys model.SystemID) (map[model.HouseID]bool, map[model.HouseID]int) {
	detected := map[model.HouseID]bool{}
	morale := map[model.HouseID]int{}
	detectRNG := rng.Sub(tag(sys, "detection"))
	moraleRNG := rng.Sub(tag(sys, "morale"))

	eliByHouse := map[model.HouseID][]int{}
	clkByHouse := map[model.HouseID]int{}
	for _, f := range s.FleetsInSystem(sys) {
		for _, sq := range s.SquadronsOf(f) {
			if sh, ok := s.Ship(sq.Flagship); ok {
				if sh.ELITier > 0 {
					eliByHouse[f.Owner] = append(eliByHouse[f.Owner], sh.ELITier)
				}
				if sh.Class == model.ShipRaider {
					clkByHouse[f.Owner] = sh.CLKTier
				}
			}
		}
	}
	for _, h := range houses {
		if _, isRaiderHouse := clkByHouse[h]; !isRaiderHouse {
			continue
		}
		var defenderELI []int
		for _, other := range houses {
			if other != h {
				defenderELI = append(defenderELI, eliByHouse[other]...)
			}
		}
		detected[h] = DetectRaiders(detectRNG, defenderELI, clkByHouse[h])
	}
	for _, h := range houses {
		hh, ok := s.House(h)
		if !ok {
			continue
		}
		mod, _ := MoraleRoll(moraleRNG, hh.Prestige, func(p int) (min, max int, guaranteedCrit bool) {
			row := cfg.MoraleFor(p)
			return row.MinModifier, row.MaxModifier, row.GuaranteedCrit
		})
		morale[h] = mod
	}
	return detected, morale
}

// attackerGroundStats sums the marine AS the attacking house has
// present in-system aboard Troop Transports, used to decide whether a
// planetary theater can even occur. The model does not carry a
// dedicated Planet-Breaker ship class (§3's glossary lists PB as a
// ground-combat stat category, not a hull), so pbAS is always 0 here;
// RunBombardment still accepts it so a future PB-capable hull can be
// wired in without changing the theater sequencing.
func attackerGroundStats(s *store.GameState, stats StatsOf, attacker model.HouseID, sys model.SystemID) (marineAS, pbAS int) {
	for _, f := range s.FleetsInSystem(sys) {
		if f.Owner != attacker {
			continue
		}
		for _, sq := range s.SquadronsOf(f) {
			hasTransport := false
			for _, sh := range s.ShipsOf(sq) {
				if sh.Class == model.ShipTroopTransport {
					hasTransport = true
					break
				}
			}
			if hasTransport {
				marineAS += stats.SquadronAS(s, sq)
			}
		}
	}
	return marineAS, 0
}
