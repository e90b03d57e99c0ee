package store

import (
	"sort"

	"ec4x/internal/model"
)

// CreateFleet inserts a new fleet and indexes it by system and owner.
func (s *GameState) CreateFleet(f *model.Fleet) {
	s.fleets[f.ID] = f
	s.indexFleet(f.ID, f)
}

// Fleet looks up a fleet by id.
func (s *GameState) Fleet(id model.FleetID) (*model.Fleet, bool) {
	f, ok := s.fleets[id]
	return f, ok
}

// MustFleet panics with an invariant breach if the fleet is missing.
func (s *GameState) MustFleet(id model.FleetID) *model.Fleet {
	f, ok := s.fleets[id]
	if !ok {
		panic(&model.InvariantBreach{Entity: uint32(id), Cause: model.ErrNotFound})
	}
	return f
}

// UpdateFleet applies a mutator, re-indexing transactionally if the
// owner or system changed.
func (s *GameState) UpdateFleet(id model.FleetID, mutate func(*model.Fleet)) error {
	f, ok := s.fleets[id]
	if !ok {
		return model.ErrNotFound
	}
	before := *f
	mutate(f)
	if before.Owner != f.Owner || before.System != f.System {
		s.deindexFleet(&before)
		s.indexFleet(id, f)
	}
	return nil
}

// DestroyFleet removes a fleet and its index entries. Squadrons that
// belonged to it must already have been destroyed or reassigned by the
// caller — this is the mark/sweep boundary described in spec.md §9.
func (s *GameState) DestroyFleet(id model.FleetID) error {
	f, ok := s.fleets[id]
	if !ok {
		return model.ErrNotFound
	}
	s.deindexFleet(f)
	delete(s.fleets, id)
	return nil
}

// FleetsInSystem returns every fleet present in a system, ordered by
// id.
func (s *GameState) FleetsInSystem(sys model.SystemID) []*model.Fleet {
	ids := s.fleetsBySystem[sys]
	out := make([]*model.Fleet, 0, len(ids))
	for id := range ids {
		out = append(out, s.fleets[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FleetsByOwner returns every fleet owned by a house, ordered by id.
func (s *GameState) FleetsByOwner(h model.HouseID) []*model.Fleet {
	ids := s.fleetsByOwner[h]
	out := make([]*model.Fleet, 0, len(ids))
	for id := range ids {
		out = append(out, s.fleets[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// --- Ships ---

// CreateShip inserts a new ship.
func (s *GameState) CreateShip(sh *model.Ship) {
	s.ships[sh.ID] = sh
}

// Ship looks up a ship by id.
func (s *GameState) Ship(id model.ShipID) (*model.Ship, bool) {
	sh, ok := s.ships[id]
	return sh, ok
}

// MustShip panics with an invariant breach if the ship is missing.
func (s *GameState) MustShip(id model.ShipID) *model.Ship {
	sh, ok := s.ships[id]
	if !ok {
		panic(&model.InvariantBreach{Entity: uint32(id), Cause: model.ErrNotFound})
	}
	return sh
}

// DestroyShip removes a ship from the store entirely (combat loss,
// forced decommission, or explicit salvage).
func (s *GameState) DestroyShip(id model.ShipID) {
	delete(s.ships, id)
}

// --- Squadrons ---

// CreateSquadron inserts a new squadron.
func (s *GameState) CreateSquadron(sq *model.Squadron) {
	s.squadrons[sq.ID] = sq
}

// Squadron looks up a squadron by id.
func (s *GameState) Squadron(id model.SquadronID) (*model.Squadron, bool) {
	sq, ok := s.squadrons[id]
	return sq, ok
}

// MustSquadron panics with an invariant breach if the squadron is
// missing.
func (s *GameState) MustSquadron(id model.SquadronID) *model.Squadron {
	sq, ok := s.squadrons[id]
	if !ok {
		panic(&model.InvariantBreach{Entity: uint32(id), Cause: model.ErrNotFound})
	}
	return sq
}

// DestroySquadron removes a squadron. Callers are responsible for
// destroying or reassigning its member ships first (mark/sweep,
// spec.md §9) — this only removes the squadron record itself.
func (s *GameState) DestroySquadron(id model.SquadronID) {
	delete(s.squadrons, id)
}

// SquadronsOf resolves a fleet's squadron ids into squadron pointers,
// skipping any that were destroyed mid-turn and not yet swept from the
// fleet's membership list.
func (s *GameState) SquadronsOf(f *model.Fleet) []*model.Squadron {
	out := make([]*model.Squadron, 0, len(f.Squadrons))
	for _, id := range f.Squadrons {
		if sq, ok := s.squadrons[id]; ok {
			out = append(out, sq)
		}
	}
	return out
}

// ShipsOf resolves a squadron's flagship + escorts into ship pointers,
// skipping any already destroyed.
func (s *GameState) ShipsOf(sq *model.Squadron) []*model.Ship {
	members := sq.Members()
	out := make([]*model.Ship, 0, len(members))
	for _, id := range members {
		if sh, ok := s.ships[id]; ok {
			out = append(out, sh)
		}
	}
	return out
}

// SweepDestroyed removes every squadron marked Destroyed from a
// fleet's membership list and every fleet with no squadrons left from
// the store, implementing the mark/sweep destruction discipline from
// spec.md §9 ("Destruction is a two-step: mark + sweep at phase end to
// avoid iterator invalidation").
func (s *GameState) SweepDestroyed() {
	for id, f := range s.fleets {
		kept := f.Squadrons[:0:0]
		for _, sqID := range f.Squadrons {
			sq, ok := s.squadrons[sqID]
			if !ok || sq.Hull == model.HullDestroyed {
				continue
			}
			kept = append(kept, sqID)
		}
		f.Squadrons = kept
		if len(f.Squadrons) == 0 {
			s.deindexFleet(f)
			delete(s.fleets, id)
		}
	}
}
