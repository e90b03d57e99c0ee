package store

import (
	"sort"

	"ec4x/internal/model"
)

// CreateSystem inserts a system (only ever called by map generation).
func (s *GameState) CreateSystem(sys *model.System) {
	s.systems[sys.ID] = sys
}

// System looks up a system by id.
func (s *GameState) System(id model.SystemID) (*model.System, bool) {
	sys, ok := s.systems[id]
	return sys, ok
}

// MustSystem panics with an invariant breach if the system is missing.
func (s *GameState) MustSystem(id model.SystemID) *model.System {
	sys, ok := s.systems[id]
	if !ok {
		panic(&model.InvariantBreach{Entity: uint32(id), Cause: model.ErrNotFound})
	}
	return sys
}

// AllSystems returns every system, ordered by id for deterministic
// iteration (spec.md §4.11: "stable iteration ordered by systemId").
func (s *GameState) AllSystems() []*model.System {
	out := make([]*model.System, 0, len(s.systems))
	for _, sys := range s.systems {
		out = append(out, sys)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ColonyBySystem returns the colony occupying a system, if any.
func (s *GameState) ColonyBySystem(sys model.SystemID) (*model.Colony, bool) {
	id, ok := s.colonyBySystem[sys]
	if !ok {
		return nil, false
	}
	return s.Colony(id)
}
