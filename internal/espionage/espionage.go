// Package espionage resolves C9: each house's single per-turn
// EspionageAction, either a scout mission (fleet-based, detected via
// defender ELI) or a budget-based covert action (paid from EBP,
// detected via target CIC + CIP). Both branches follow the teacher's
// fleet_espionage.go shape -- one resolver per mission, a detection
// roll, then an effect-or-destruction branch -- generalized from the
// teacher's single "spy colony" action to the full §4.9 roster.
package espionage

import (
	"math/rand"
	"sort"

	"github.com/shopspring/decimal"

	"ec4x/internal/config"
	"ec4x/internal/model"
	"ec4x/internal/store"
)

// Request bundles one house's submitted EspionageAction with its
// origin, so Resolve can order requests deterministically by
// (houseId, fleetId) before touching the RNG, per §4.9's "simultaneous
// resolution ordered by (houseId, fleetId)".
type Request struct {
	House  model.HouseID
	Action model.EspionageAction
}

// Outcome reports what happened to one request.
type Outcome struct {
	House     model.HouseID
	Action    model.EspionageActionType
	Detected  bool
	Succeeded bool
	Events    []model.Event
	Prestige  []model.PrestigeEvent
}

// Resolve runs every submitted espionage request for the turn, ordered
// by (houseId, fleetId) so re-derivation of the same turn is
// reproducible regardless of submission order.
func Resolve(rng *rand.Rand, cfg config.Config, s *store.GameState, turn int, reqs []Request) []Outcome {
	ordered := make([]Request, len(reqs))
	copy(ordered, reqs)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].House != ordered[j].House {
			return ordered[i].House < ordered[j].House
		}
		return fleetIDOf(ordered[i].Action) < fleetIDOf(ordered[j].Action)
	})

	out := make([]Outcome, 0, len(ordered))
	for _, req := range ordered {
		if req.Action.Type.IsScoutMission() {
			out = append(out, resolveScoutMission(rng, s, turn, req))
		} else {
			out = append(out, resolveCovertAction(rng, cfg, s, turn, req))
		}
	}
	return out
}

func fleetIDOf(a model.EspionageAction) model.FleetID {
	if a.Fleet == nil {
		return 0
	}
	return *a.Fleet
}

// effectiveELI computes a defender's ELI in a system: the plain integer
// average of the ELI tiers of its Scout-flagshipped squadrons there,
// plus a mesh bonus (+1 per additional Scout beyond the first, capped at
// +3), plus +2 per operational Starbase at its colony (§4.9/§2.4.2).
// Every Scout counts with equal weight and no penalty is applied for
// lower-tech units. With no Scouts present only the Starbase bonus counts.
func effectiveELI(s *store.GameState, defender model.HouseID, sys model.SystemID) int {
	var scoutTiers []int
	for _, f := range s.FleetsInSystem(sys) {
		if f.Owner != defender {
			continue
		}
		for _, sq := range s.SquadronsOf(f) {
			if sh, ok := s.Ship(sq.Flagship); ok && sh.Class == model.ShipScout {
				scoutTiers = append(scoutTiers, sh.ELITier)
			}
		}
	}
	if len(scoutTiers) == 0 {
		return starbaseELI(s, defender, sys)
	}
	total := 0
	for _, t := range scoutTiers {
		total += t
	}
	avg := total / len(scoutTiers)
	mesh := len(scoutTiers) - 1
	if mesh > 3 {
		mesh = 3
	}
	return avg + mesh + starbaseELI(s, defender, sys)
}

func starbaseELI(s *store.GameState, defender model.HouseID, sys model.SystemID) int {
	c, ok := s.ColonyBySystem(sys)
	if !ok || c.Owner != defender {
		return 0
	}
	bonus := 0
	for _, id := range c.Starbases {
		if fac, ok := s.Starbase(id); ok && fac.IsOperational() {
			bonus += 2
		}
	}
	return bonus
}

// resolveScoutMission implements §4.9's Scout-mission branch: a
// single-Scout fleet rolls against the target's effective ELI; on
// detection the Scout is destroyed and no intel is produced, otherwise
// a Spy-quality IntelReport is recorded and the Scout is still
// consumed either way.
func resolveScoutMission(rng *rand.Rand, s *store.GameState, turn int, req Request) Outcome {
	out := Outcome{House: req.House, Action: req.Action.Type}
	if req.Action.Fleet == nil {
		out.Events = append(out.Events, model.NewEvent(turn, "Command", "EspionageInvalid",
			"scout mission requires a fleet", []model.HouseID{req.House}))
		return out
	}
	fleet, ok := s.Fleet(*req.Action.Fleet)
	if !ok {
		return out
	}
	ships := s.ShipsOf(s.SquadronsOf(fleet)[0])
	if !model.IsScoutOnly(ships) {
		out.Events = append(out.Events, model.NewEvent(turn, "Command", "EspionageInvalid",
			"mission requires a single-Scout fleet", []model.HouseID{req.House}))
		return out
	}

	targetHouse, sys, subjectKind, subjectID := scoutTarget(s, req.Action)
	eli := effectiveELI(s, targetHouse, sys)
	roll := rng.Intn(20) + 1
	out.Detected = roll+eli >= 18

	defer s.DestroyShip(ships[0].ID)

	if out.Detected {
		out.Events = append(out.Events, model.NewEvent(turn, "Command", "ScoutDestroyed",
			"scout detected and destroyed", []model.HouseID{req.House, targetHouse}))
		return out
	}

	out.Succeeded = true
	if attacker, ok := s.House(req.House); ok {
		report := &model.IntelReport{Subject: subjectKind, SubjectID: subjectID, Quality: model.IntelSpy, SnapshotTurn: turn}
		attacker.IntelDB[model.IntelKey(subjectKind, subjectID)] = report
	}
	out.Events = append(out.Events, model.NewEvent(turn, "Command", "ScoutReport",
		"scout mission produced an intel report", []model.HouseID{req.House}))
	return out
}

func scoutTarget(s *store.GameState, a model.EspionageAction) (model.HouseID, model.SystemID, model.IntelSubjectKind, uint32) {
	switch a.Type {
	case model.ActionSpyColony:
		if a.TargetColony != nil {
			if c, ok := s.Colony(*a.TargetColony); ok {
				return c.Owner, c.SystemID, model.SubjectColony, uint32(c.ID)
			}
		}
	case model.ActionHackStarbase:
		if a.TargetColony != nil {
			if c, ok := s.Colony(*a.TargetColony); ok && len(c.Starbases) > 0 {
				return c.Owner, c.SystemID, model.SubjectStarbase, uint32(c.Starbases[0])
			}
		}
	case model.ActionSpySystem:
		if a.TargetSystem != nil {
			if c, ok := s.ColonyBySystem(*a.TargetSystem); ok {
				return c.Owner, *a.TargetSystem, model.SubjectSystem, uint32(*a.TargetSystem)
			}
			return 0, *a.TargetSystem, model.SubjectSystem, uint32(*a.TargetSystem)
		}
	}
	return 0, 0, model.SubjectSystem, 0
}

// covertCost is the EBP cost per action type, per §4.9. The spec names
// the action roster without pinning exact point costs; this table is a
// documented design decision scaling by rough severity.
var covertCost = map[model.EspionageActionType]decimal.Decimal{
	model.ActionSabotageLow:          decimal.NewFromInt(10),
	model.ActionSabotageHigh:         decimal.NewFromInt(25),
	model.ActionTechTheft:            decimal.NewFromInt(30),
	model.ActionAssassination:        decimal.NewFromInt(40),
	model.ActionEconomicManipulation: decimal.NewFromInt(20),
	model.ActionCyberAttack:          decimal.NewFromInt(25),
	model.ActionPsyopsCampaign:       decimal.NewFromInt(15),
	model.ActionIntelTheft:           decimal.NewFromInt(20),
	model.ActionPlantDisinformation:  decimal.NewFromInt(15),
	model.ActionCounterIntelSweep:    decimal.NewFromInt(10),
}

// resolveCovertAction implements §4.9's budget-action branch: pay EBP,
// roll detection against the target's CIC tech level + CIP pool, apply
// the effect on success, and on detection penalize the attacker's
// prestige and emit a counterintel event visible to the defender.
func resolveCovertAction(rng *rand.Rand, cfg config.Config, s *store.GameState, turn int, req Request) Outcome {
	out := Outcome{House: req.House, Action: req.Action.Type}
	attacker, ok := s.House(req.House)
	if !ok || req.Action.TargetHouse == nil {
		return out
	}
	target, ok := s.House(*req.Action.TargetHouse)
	if !ok {
		return out
	}

	cost, known := covertCost[req.Action.Type]
	if !known {
		return out
	}
	if attacker.Espionage.EBP.LessThan(cost) {
		out.Events = append(out.Events, model.NewEvent(turn, "Command", "EspionageInsufficientBudget",
			"insufficient EBP for covert action", []model.HouseID{req.House}))
		return out
	}
	attacker.Espionage.EBP = attacker.Espionage.EBP.Sub(cost)

	cic := target.Tech.Level("CIC")
	threshold := 10 + cic + int(target.Espionage.CIP.Div(decimal.NewFromInt(10)).IntPart())
	roll := rng.Intn(20) + 1
	out.Detected = roll+cic < threshold && roll != 20

	if out.Detected {
		out.Prestige = append(out.Prestige, model.PrestigeEvent{House: req.House, Amount: -2, Source: model.PrestigeEspionageDetected})
		out.Events = append(out.Events, model.NewEvent(turn, "Command", "CounterIntelCaught",
			"covert action detected by counterintelligence", []model.HouseID{req.House, target.ID}))
		return out
	}

	out.Succeeded = true
	applyCovertEffect(cfg, s, turn, attacker, target, req.Action.Type, &out)
	return out
}

func applyCovertEffect(cfg config.Config, s *store.GameState, turn int, attacker, target *model.House, action model.EspionageActionType, out *Outcome) {
	switch action {
	case model.ActionSabotageLow:
		damageColonyIU(s, target.ID, decimal.NewFromInt(5))
	case model.ActionSabotageHigh:
		damageColonyIU(s, target.ID, decimal.NewFromInt(15))
	case model.ActionTechTheft:
		stolen := target.Tech.SRPPool.Mul(decimal.NewFromFloat(0.25))
		target.Tech.SRPPool = target.Tech.SRPPool.Sub(stolen)
		attacker.Tech.SRPPool = attacker.Tech.SRPPool.Add(stolen)
	case model.ActionAssassination:
		out.Prestige = append(out.Prestige, model.PrestigeEvent{House: target.ID, Amount: -3, Source: model.PrestigeEspionageSuccess, SubjectID: uint32(target.ID)})
	case model.ActionEconomicManipulation:
		target.TaxRate += 5
	case model.ActionCyberAttack:
		target.Espionage.CIP = decimal.Zero
	case model.ActionPsyopsCampaign:
		out.Prestige = append(out.Prestige,
			model.PrestigeEvent{House: target.ID, Amount: -1, Source: model.PrestigeEspionageSuccess},
			model.PrestigeEvent{House: attacker.ID, Amount: 1, Source: model.PrestigeEspionageSuccess})
	case model.ActionIntelTheft:
		for k, v := range target.IntelDB {
			attacker.IntelDB[k] = v
		}
	case model.ActionPlantDisinformation:
		corruptLatestIntel(target)
	case model.ActionCounterIntelSweep:
		attacker.Espionage.CIP = attacker.Espionage.CIP.Add(decimal.NewFromInt(20))
	}
	out.Events = append(out.Events, model.NewEvent(turn, "Command", "CovertActionSucceeded",
		"covert action succeeded undetected", []model.HouseID{attacker.ID}))
}

func damageColonyIU(s *store.GameState, owner model.HouseID, amount decimal.Decimal) {
	for _, c := range s.ColoniesByOwner(owner) {
		if c.IU.GreaterThan(amount) {
			c.IU = c.IU.Sub(amount)
		} else {
			c.IU = decimal.Zero
		}
		return
	}
}

func corruptLatestIntel(target *model.House) {
	for _, report := range target.IntelDB {
		report.Corruption |= model.CorruptOrders
		return
	}
}
