// Package movement executes the non-combat fleet commands submitted
// in the Command Phase during the Production Phase: Hold/Move/
// SeekHome/Patrol path-and-jump, Guard/Blockade standing-order tags,
// Join/Rendezvous/Salvage structural mutations, and Colonize, per
// spec.md §4.7.
//
// Grounded on the teacher's internal/game/{fleet,fleet_colonization,
// fleet_component,fleet_collecting,fleet_harvesting}.go: a fleet
// command there resolves in two steps (validate composition/target,
// then mutate fleet + colony state), which this package keeps,
// swapping the teacher's OGame-specific galaxy/system/position
// addressing for the hex starmap's SystemID + lane pathfinding.
package movement

import (
	"sort"

	"github.com/shopspring/decimal"

	"ec4x/internal/config"
	"ec4x/internal/model"
	"ec4x/internal/starmap"
	"ec4x/internal/store"
)

// Result carries the outcome of executing one fleet's command: any
// events it produced and, for Colonize, the new colony id if one was
// created.
type Result struct {
	Events       []model.Event
	NewColony    model.ColonyID
	ColonyCreated bool
}

// Execute dispatches a single fleet command, mutating the fleet (and,
// for Colonize/Join/Salvage, colony/fleet population) in place.
func Execute(cfg config.Config, s *store.GameState, turn int, f *model.Fleet, cmd model.FleetCommand, nextColonyID model.ColonyID) (Result, error) {
	switch cmd.Type {
	case model.CmdHold:
		return Result{}, nil
	case model.CmdMove, model.CmdPatrol:
		return executeMove(s, turn, f, cmd)
	case model.CmdSeekHome:
		return executeSeekHome(s, turn, f)
	case model.CmdGuardStarbase:
		f.Standing = model.StandingGuardStarbase
		return Result{}, nil
	case model.CmdGuardColony:
		f.Standing = model.StandingGuardColony
		return Result{}, nil
	case model.CmdBlockade:
		f.Standing = model.StandingBlockade
		return Result{}, nil
	case model.CmdReserve:
		f.Standing = model.StandingReserve
		return Result{}, nil
	case model.CmdMothball:
		f.Standing = model.StandingMothball
		return Result{}, nil
	case model.CmdJoinFleet, model.CmdRendezvous:
		return executeJoin(s, f, cmd)
	case model.CmdSalvage:
		return executeSalvage(cfg, s, turn, f)
	case model.CmdColonize:
		return executeColonize(s, turn, f, nextColonyID)
	default:
		// Combat, espionage and View commands are consumed by other
		// resolvers; movement has nothing to do for them.
		return Result{}, nil
	}
}

func executeMove(s *store.GameState, turn int, f *model.Fleet, cmd model.FleetCommand) (Result, error) {
	if cmd.TargetSystem == nil {
		return Result{}, model.NewValidationError("MISSING_TARGET", model.ErrNoPath)
	}
	fc := compositionOf(s, f)
	path, err := starmap.FindPath(lookup{s}, f.System, *cmd.TargetSystem, fc)
	if err != nil {
		return Result{Events: []model.Event{
			model.NewEvent(turn, "Production", "MoveFailed", "no path to target system", []model.HouseID{f.Owner}, uint32(f.ID)),
		}}, nil
	}

	allowance := starmap.JumpAllowance(lookup{s}, path, f.Owner)
	step := allowance
	if step >= len(path) {
		step = len(path) - 1
	}
	dest := path[step]

	if err := s.UpdateFleet(f.ID, func(fl *model.Fleet) {
		fl.PushTrail(fl.System)
		fl.System = dest
	}); err != nil {
		return Result{}, err
	}
	return Result{}, nil
}

func executeSeekHome(s *store.GameState, turn int, f *model.Fleet) (Result, error) {
	homes := s.ColoniesByOwner(f.Owner)
	if len(homes) == 0 {
		return Result{Events: []model.Event{
			model.NewEvent(turn, "Production", "SeekHomeFailed", "no owned colony to seek", []model.HouseID{f.Owner}, uint32(f.ID)),
		}}, nil
	}
	target := homes[0].SystemID
	fc := compositionOf(s, f)
	path, err := starmap.FindPath(lookup{s}, f.System, target, fc)
	if err != nil {
		return Result{}, nil
	}
	allowance := starmap.JumpAllowance(lookup{s}, path, f.Owner)
	step := allowance
	if step >= len(path) {
		step = len(path) - 1
	}
	dest := path[step]
	return Result{}, s.UpdateFleet(f.ID, func(fl *model.Fleet) {
		fl.PushTrail(fl.System)
		fl.System = dest
	})
}

// executeJoin merges the commanding fleet's squadrons into the target
// fleet, then removes the now-empty source fleet.
func executeJoin(s *store.GameState, f *model.Fleet, cmd model.FleetCommand) (Result, error) {
	if cmd.TargetFleet == nil {
		return Result{}, model.NewValidationError("MISSING_TARGET_FLEET", model.ErrNotFound)
	}
	target, ok := s.Fleet(*cmd.TargetFleet)
	if !ok {
		return Result{}, model.ErrNotFound
	}
	if target.Owner != f.Owner || target.System != f.System {
		return Result{}, model.ErrNotOwner
	}

	if err := s.UpdateFleet(target.ID, func(fl *model.Fleet) {
		fl.Squadrons = append(fl.Squadrons, f.Squadrons...)
	}); err != nil {
		return Result{}, err
	}
	return Result{}, s.DestroyFleet(f.ID)
}

// executeSalvage disbands a fleet, refunding 50% of the combined PC of
// its ships to the owning house's treasury.
func executeSalvage(cfg config.Config, s *store.GameState, turn int, f *model.Fleet) (Result, error) {
	h, ok := s.House(f.Owner)
	if !ok {
		return Result{}, model.ErrNotFound
	}
	refund := decimal.Zero
	for _, sqID := range f.Squadrons {
		sq, ok := s.Squadron(sqID)
		if !ok {
			continue
		}
		for _, shID := range sq.Members() {
			if sh, ok := s.Ship(shID); ok {
				refund = refund.Add(cfg.Ship(sh.Class).PC.Mul(decimal.NewFromFloat(0.5)))
				s.DestroyShip(shID)
			}
		}
		s.DestroySquadron(sqID)
	}
	h.Treasury = h.Treasury.Add(refund)
	if err := s.DestroyFleet(f.ID); err != nil {
		return Result{}, err
	}
	return Result{Events: []model.Event{
		model.NewEvent(turn, "Production", "FleetSalvaged", "fleet disbanded", []model.HouseID{f.Owner}, uint32(f.ID)),
	}}, nil
}

// executeColonize consumes one loaded ETAC to found a new colony on an
// uncolonized system. Callers resolve same-turn multi-house races by
// highest total fleet AS (ties by house id) before invoking this for
// the winner only; losing fleets get their ETAC returned loaded,
// signalled by the caller via a ColonizeFailed event instead.
func executeColonize(s *store.GameState, turn int, f *model.Fleet, nextColonyID model.ColonyID) (Result, error) {
	if _, occupied := s.ColonyBySystem(f.System); occupied {
		return Result{Events: []model.Event{
			model.NewEvent(turn, "Production", "ColonizeFailed", "system already colonized", []model.HouseID{f.Owner}, uint32(f.System)),
		}}, nil
	}

	etac, ok := findLoadedETAC(s, f)
	if !ok {
		return Result{}, model.ErrWrongShipKind
	}

	sys := s.MustSystem(f.System)
	colony := model.NewColony(nextColonyID, f.System, f.Owner, sys.PlanetClass)
	if err := s.CreateColony(colony); err != nil {
		return Result{}, err
	}
	s.DestroyShip(etac.ID)

	return Result{NewColony: colony.ID, ColonyCreated: true, Events: []model.Event{
		model.NewEvent(turn, "Production", "Colonized", "new colony founded", []model.HouseID{f.Owner}, uint32(colony.ID)),
	}}, nil
}

func findLoadedETAC(s *store.GameState, f *model.Fleet) (*model.Ship, bool) {
	for _, sqID := range f.Squadrons {
		sq, ok := s.Squadron(sqID)
		if !ok {
			continue
		}
		for _, shID := range sq.Members() {
			sh, ok := s.Ship(shID)
			if !ok {
				continue
			}
			if sh.Class == model.ShipETAC && sh.Cargo != nil && sh.Cargo.Kind == model.CargoColonists && sh.Cargo.Quantity > 0 {
				return sh, true
			}
		}
	}
	return nil, false
}

// ResolveColonizationRaces picks one winner per contested system from
// a batch of same-turn Colonize attempts, by highest total fleet AS
// and house id as the tiebreaker (§4.7).
func ResolveColonizationRaces(s *store.GameState, cfg ASLookup, attempts map[model.SystemID][]*model.Fleet) map[model.SystemID]*model.Fleet {
	winners := make(map[model.SystemID]*model.Fleet, len(attempts))
	for sys, fleets := range attempts {
		sort.Slice(fleets, func(i, j int) bool {
			ai, aj := totalAS(s, cfg, fleets[i]), totalAS(s, cfg, fleets[j])
			if ai != aj {
				return ai > aj
			}
			return fleets[i].Owner < fleets[j].Owner
		})
		winners[sys] = fleets[0]
	}
	return winners
}

// ASLookup resolves a ship class's base attack strength, satisfied by
// config.Config.
type ASLookup interface {
	BaseASOf(class model.ShipClass) int
}

func totalAS(s *store.GameState, cfg ASLookup, f *model.Fleet) int {
	total := 0
	for _, sqID := range f.Squadrons {
		sq, ok := s.Squadron(sqID)
		if !ok {
			continue
		}
		for _, shID := range sq.Members() {
			sh, ok := s.Ship(shID)
			if !ok {
				continue
			}
			total += cfg.BaseASOf(sh.Class)
		}
	}
	return total
}

func compositionOf(s *store.GameState, f *model.Fleet) starmap.FleetComposition {
	var fc starmap.FleetComposition
	for _, sqID := range f.Squadrons {
		sq, ok := s.Squadron(sqID)
		if !ok {
			continue
		}
		for _, shID := range sq.Members() {
			sh, ok := s.Ship(shID)
			if !ok {
				continue
			}
			if sh.Hull == model.HullCrippled {
				fc.HasCrippled = true
			}
			if sh.Class == model.ShipETAC || sh.Class == model.ShipTroopTransport {
				fc.HasETACOrTransport = true
			}
		}
	}
	return fc
}

// lookup adapts *store.GameState to starmap.SystemLookup.
type lookup struct{ s *store.GameState }

func (l lookup) System(id model.SystemID) (*model.System, bool) { return l.s.System(id) }
func (l lookup) ColonyBySystem(sys model.SystemID) (*model.Colony, bool) {
	return l.s.ColonyBySystem(sys)
}
