// Package combat implements C8: the three-theater (Space -> Orbital ->
// Planetary) battle state machine run in the Conflict Phase, per
// spec.md §4.8. This is the largest single component in the spec
// (22% of source share) and the one with the least teacher analogue —
// OGame's fleet_fight.go resolves a single flat battle round with no
// theater sequencing, task forces, or target-selection buckets. This
// package keeps the teacher's overall shape (a resolver function that
// takes a snapshot and a RNG, returns a result struct plus an event
// log, round-based with a hard round cap) while building the
// theater/bucket/CER machinery the spec actually requires from
// scratch.
package combat

import "ec4x/internal/model"

// IsHostile implements the hostile-targeting predicate from §4.8:
// Enemy relation is always hostile; Hostile relation is hostile only
// if B has provocative orders in A's territory; Neutral relation is
// hostile only if B has threatening orders in A's controlled system;
// and prior engagement this combat always counts.
func IsHostile(a, b model.HouseID, relationAtoB model.DiplomaticPosture, bHasProvocativeOrders, bHasThreateningOrders, alreadyEngaged bool) bool {
	if alreadyEngaged {
		return true
	}
	switch relationAtoB {
	case model.PostureEnemy:
		return true
	case model.PostureHostile:
		return bHasProvocativeOrders
	default:
		return bHasThreateningOrders
	}
}

// provocativeOrders are the fleet command types counted as
// "provocative" under a Hostile relation (§4.8 references order codes
// 05-08 and 12 from the source table; mapped here onto the named
// CommandType constants in the same relative order: Bombard, Invade,
// Blitz, Blockade, and HackStarbase).
var provocativeOrders = map[model.CommandType]bool{
	model.CmdBombard:      true,
	model.CmdInvade:       true,
	model.CmdBlitz:        true,
	model.CmdBlockade:     true,
	model.CmdHackStarbase: true,
}

// HasProvocativeOrder reports whether a fleet's standing order counts
// as provocative for the Hostile-relation hostile-targeting check.
func HasProvocativeOrder(f *model.Fleet) bool {
	if f.StandingOrder == nil {
		return false
	}
	return provocativeOrders[f.StandingOrder.Type]
}

// threateningOrders are the order types counted as "threatening" under
// a Neutral relation: anything that projects force into the
// defender's own system.
var threateningOrders = map[model.CommandType]bool{
	model.CmdBombard: true,
	model.CmdInvade:  true,
	model.CmdBlitz:   true,
}

// HasThreateningOrder reports whether a fleet's standing order counts
// as threatening for the Neutral-relation hostile-targeting check.
func HasThreateningOrder(f *model.Fleet) bool {
	if f.StandingOrder == nil {
		return false
	}
	return threateningOrders[f.StandingOrder.Type]
}
