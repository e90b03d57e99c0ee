// Package store implements the entity store and secondary indexes (C1)
// described in spec.md §3/§4.1: typed-id keyed tables for every entity
// kind, plus owner/system/fleet indexes maintained as invariants. Every
// mutation goes through create/update/destroy so the indexes can never
// drift from the primary tables — a desynchronized index is a fatal,
// turn-aborting condition (model.ErrIndexDesynchronized), never silently
// tolerated.
//
// The store is in-memory and holds one GameState. It has no internal
// locking: spec.md §5 makes the orchestrator the single logical writer
// per game instance, so concurrent access is the caller's problem, not
// the store's.
package store

import (
	"ec4x/internal/model"
)

// GameState :
// The full authoritative state of one game: every entity table plus
// their secondary indexes, and the bits of global state (id generator,
// turn counter) that travel with it.
type GameState struct {
	Turn int
	IDs  *model.IDGenerator

	houses   map[model.HouseID]*model.House
	systems  map[model.SystemID]*model.System
	colonies map[model.ColonyID]*model.Colony
	fleets   map[model.FleetID]*model.Fleet
	ships    map[model.ShipID]*model.Ship
	squadrons map[model.SquadronID]*model.Squadron
	ground   map[model.GroundUnitID]*model.GroundUnit
	cprojects map[model.ConstructionProjectID]*model.ConstructionProject
	rprojects map[model.RepairProjectID]*model.RepairProject
	starbases map[model.StarbaseID]*model.Facility
	spaceports map[model.SpaceportID]*model.Facility
	shipyards map[model.ShipyardID]*model.Facility
	drydocks  map[model.DrydockID]*model.Facility

	// Secondary indexes, maintained transactionally by the mutator
	// helpers below.
	coloniesByOwner  map[model.HouseID]map[model.ColonyID]struct{}
	colonyBySystem   map[model.SystemID]model.ColonyID
	fleetsBySystem   map[model.SystemID]map[model.FleetID]struct{}
	fleetsByOwner    map[model.HouseID]map[model.FleetID]struct{}
	squadronsByFleet map[model.FleetID]model.FleetID
}

// NewGameState builds an empty state ready to be populated by map
// generation and game init.
func NewGameState() *GameState {
	return &GameState{
		Turn:      1,
		IDs:       model.NewIDGenerator(0),
		houses:    map[model.HouseID]*model.House{},
		systems:   map[model.SystemID]*model.System{},
		colonies:  map[model.ColonyID]*model.Colony{},
		fleets:    map[model.FleetID]*model.Fleet{},
		ships:     map[model.ShipID]*model.Ship{},
		squadrons: map[model.SquadronID]*model.Squadron{},
		ground:    map[model.GroundUnitID]*model.GroundUnit{},
		cprojects: map[model.ConstructionProjectID]*model.ConstructionProject{},
		rprojects: map[model.RepairProjectID]*model.RepairProject{},
		starbases: map[model.StarbaseID]*model.Facility{},
		spaceports: map[model.SpaceportID]*model.Facility{},
		shipyards: map[model.ShipyardID]*model.Facility{},
		drydocks:  map[model.DrydockID]*model.Facility{},

		coloniesByOwner:  map[model.HouseID]map[model.ColonyID]struct{}{},
		colonyBySystem:   map[model.SystemID]model.ColonyID{},
		fleetsBySystem:   map[model.SystemID]map[model.FleetID]struct{}{},
		fleetsByOwner:    map[model.HouseID]map[model.FleetID]struct{}{},
		squadronsByFleet: map[model.FleetID]model.FleetID{},
	}
}

// Clone performs a deep-enough copy of the game state to serve as an
// immutable snapshot handed to parallel phase sub-steps (spec.md §5):
// every entity is copied by value into a fresh map so resolvers can
// freely mutate their own partition without racing the original.
func (s *GameState) Clone() *GameState {
	out := NewGameState()
	out.Turn = s.Turn
	out.IDs = model.NewIDGenerator(s.IDs.Next() - 1)

	for k, v := range s.houses {
		cp := *v
		out.houses[k] = &cp
	}
	for k, v := range s.systems {
		cp := *v
		out.systems[k] = &cp
	}
	for k, v := range s.colonies {
		cp := *v
		out.colonies[k] = &cp
	}
	for k, v := range s.fleets {
		cp := *v
		out.fleets[k] = &cp
	}
	for k, v := range s.ships {
		cp := *v
		out.ships[k] = &cp
	}
	for k, v := range s.squadrons {
		cp := *v
		out.squadrons[k] = &cp
	}
	for k, v := range s.ground {
		cp := *v
		out.ground[k] = &cp
	}
	for k, v := range s.cprojects {
		cp := *v
		out.cprojects[k] = &cp
	}
	for k, v := range s.rprojects {
		cp := *v
		out.rprojects[k] = &cp
	}
	for k, v := range s.starbases {
		cp := *v
		out.starbases[k] = &cp
	}
	for k, v := range s.spaceports {
		cp := *v
		out.spaceports[k] = &cp
	}
	for k, v := range s.shipyards {
		cp := *v
		out.shipyards[k] = &cp
	}
	for k, v := range s.drydocks {
		cp := *v
		out.drydocks[k] = &cp
	}

	out.rebuildIndexes()
	return out
}

// rebuildIndexes discards and recomputes every secondary index from
// the primary tables. Used by Clone.
func (s *GameState) rebuildIndexes() {
	s.coloniesByOwner = map[model.HouseID]map[model.ColonyID]struct{}{}
	s.colonyBySystem = map[model.SystemID]model.ColonyID{}
	for id, c := range s.colonies {
		s.indexColony(id, c)
	}

	s.fleetsBySystem = map[model.SystemID]map[model.FleetID]struct{}{}
	s.fleetsByOwner = map[model.HouseID]map[model.FleetID]struct{}{}
	for id, f := range s.fleets {
		s.indexFleet(id, f)
	}
}

func (s *GameState) indexColony(id model.ColonyID, c *model.Colony) {
	if s.coloniesByOwner[c.Owner] == nil {
		s.coloniesByOwner[c.Owner] = map[model.ColonyID]struct{}{}
	}
	s.coloniesByOwner[c.Owner][id] = struct{}{}
	s.colonyBySystem[c.SystemID] = id
}

func (s *GameState) deindexColony(c *model.Colony) {
	delete(s.coloniesByOwner[c.Owner], c.ID)
	if existing, ok := s.colonyBySystem[c.SystemID]; ok && existing == c.ID {
		delete(s.colonyBySystem, c.SystemID)
	}
}

func (s *GameState) indexFleet(id model.FleetID, f *model.Fleet) {
	if s.fleetsBySystem[f.System] == nil {
		s.fleetsBySystem[f.System] = map[model.FleetID]struct{}{}
	}
	s.fleetsBySystem[f.System][id] = struct{}{}
	if s.fleetsByOwner[f.Owner] == nil {
		s.fleetsByOwner[f.Owner] = map[model.FleetID]struct{}{}
	}
	s.fleetsByOwner[f.Owner][id] = struct{}{}
}

func (s *GameState) deindexFleet(f *model.Fleet) {
	delete(s.fleetsBySystem[f.System], f.ID)
	delete(s.fleetsByOwner[f.Owner], f.ID)
}

// VerifyIndexes rebuilds a scratch copy of every index and compares it
// against the live one, returning model.ErrIndexDesynchronized if they
// disagree. Intended for property tests and for a defensive check at
// phase boundaries.
func (s *GameState) VerifyIndexes() error {
	scratch := &GameState{
		colonies: s.colonies,
		fleets:   s.fleets,
	}
	scratch.coloniesByOwner = map[model.HouseID]map[model.ColonyID]struct{}{}
	scratch.colonyBySystem = map[model.SystemID]model.ColonyID{}
	for id, c := range s.colonies {
		scratch.indexColony(id, c)
	}
	scratch.fleetsBySystem = map[model.SystemID]map[model.FleetID]struct{}{}
	scratch.fleetsByOwner = map[model.HouseID]map[model.FleetID]struct{}{}
	for id, f := range s.fleets {
		scratch.indexFleet(id, f)
	}

	if !mapSetEqual(scratch.colonyBySystem, s.colonyBySystem) {
		return model.ErrIndexDesynchronized
	}
	if !ownerIndexEqual(scratch.coloniesByOwner, s.coloniesByOwner) {
		return model.ErrIndexDesynchronized
	}
	if !fleetOwnerIndexEqual(scratch.fleetsByOwner, s.fleetsByOwner) {
		return model.ErrIndexDesynchronized
	}
	if !fleetSystemIndexEqual(scratch.fleetsBySystem, s.fleetsBySystem) {
		return model.ErrIndexDesynchronized
	}
	return nil
}

func mapSetEqual(a, b map[model.SystemID]model.ColonyID) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func ownerIndexEqual(a, b map[model.HouseID]map[model.ColonyID]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for h, set := range a {
		other, ok := b[h]
		if !ok || len(other) != len(set) {
			return false
		}
		for id := range set {
			if _, ok := other[id]; !ok {
				return false
			}
		}
	}
	return true
}

func fleetOwnerIndexEqual(a, b map[model.HouseID]map[model.FleetID]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for h, set := range a {
		other, ok := b[h]
		if !ok || len(other) != len(set) {
			return false
		}
		for id := range set {
			if _, ok := other[id]; !ok {
				return false
			}
		}
	}
	return true
}

func fleetSystemIndexEqual(a, b map[model.SystemID]map[model.FleetID]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for sys, set := range a {
		other, ok := b[sys]
		if !ok || len(other) != len(set) {
			return false
		}
		for id := range set {
			if _, ok := other[id]; !ok {
				return false
			}
		}
	}
	return true
}
