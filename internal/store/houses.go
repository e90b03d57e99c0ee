package store

import (
	"sort"

	"ec4x/internal/model"
)

// CreateHouse inserts a new house. Houses have no secondary index (the
// full roster is small enough to range over directly) so this is a
// plain table insert.
func (s *GameState) CreateHouse(h *model.House) {
	s.houses[h.ID] = h
}

// House looks up a house by id.
func (s *GameState) House(id model.HouseID) (*model.House, bool) {
	h, ok := s.houses[id]
	return h, ok
}

// MustHouse looks up a house by id, panicking with a fatal invariant
// breach if missing — used by resolvers that have already validated
// the reference exists and would indicate a desynchronized index
// otherwise.
func (s *GameState) MustHouse(id model.HouseID) *model.House {
	h, ok := s.houses[id]
	if !ok {
		panic(&model.InvariantBreach{Entity: uint32(id), Cause: model.ErrNotFound})
	}
	return h
}

// AllHouses returns every house in the game, in id order, for
// deterministic iteration (spec.md §5's "never by arrival time").
func (s *GameState) AllHouses() []*model.House {
	out := make([]*model.House, 0, len(s.houses))
	for _, h := range s.houses {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
