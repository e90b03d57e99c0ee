package store

import (
	"sort"

	"ec4x/internal/model"
)

// CreateColony inserts a new colony and updates its indexes
// transactionally: if this would duplicate an existing colony on the
// same system the call is rejected before any index write happens, so
// a failed call never leaves partial index state (spec.md §4.1).
func (s *GameState) CreateColony(c *model.Colony) error {
	if _, exists := s.colonyBySystem[c.SystemID]; exists {
		return model.ErrIndexDesynchronized
	}
	s.colonies[c.ID] = c
	s.indexColony(c.ID, c)
	return nil
}

// Colony looks up a colony by id.
func (s *GameState) Colony(id model.ColonyID) (*model.Colony, bool) {
	c, ok := s.colonies[id]
	return c, ok
}

// MustColony panics with an invariant breach if the colony is missing.
func (s *GameState) MustColony(id model.ColonyID) *model.Colony {
	c, ok := s.colonies[id]
	if !ok {
		panic(&model.InvariantBreach{Entity: uint32(id), Cause: model.ErrNotFound})
	}
	return c
}

// UpdateColony applies a mutator to a colony, re-indexing it
// transactionally if the mutation changed its owner or system.
func (s *GameState) UpdateColony(id model.ColonyID, mutate func(*model.Colony)) error {
	c, ok := s.colonies[id]
	if !ok {
		return model.ErrNotFound
	}
	before := *c
	mutate(c)
	if before.Owner != c.Owner || before.SystemID != c.SystemID {
		s.deindexColony(&before)
		s.indexColony(id, c)
	}
	return nil
}

// DestroyColony removes a colony and its index entries.
func (s *GameState) DestroyColony(id model.ColonyID) error {
	c, ok := s.colonies[id]
	if !ok {
		return model.ErrNotFound
	}
	s.deindexColony(c)
	delete(s.colonies, id)
	return nil
}

// ColoniesByOwner returns every colony owned by a house, ordered by id.
func (s *GameState) ColoniesByOwner(h model.HouseID) []*model.Colony {
	ids := s.coloniesByOwner[h]
	out := make([]*model.Colony, 0, len(ids))
	for id := range ids {
		out = append(out, s.colonies[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AllColonies returns every colony in the game, ordered by id.
func (s *GameState) AllColonies() []*model.Colony {
	out := make([]*model.Colony, 0, len(s.colonies))
	for _, c := range s.colonies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
