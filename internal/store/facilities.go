package store

import "ec4x/internal/model"

// CreateStarbase inserts a new starbase facility.
func (s *GameState) CreateStarbase(id model.StarbaseID, f *model.Facility) {
	s.starbases[id] = f
}

// Starbase looks up a starbase by id.
func (s *GameState) Starbase(id model.StarbaseID) (*model.Facility, bool) {
	f, ok := s.starbases[id]
	return f, ok
}

// CreateSpaceport inserts a new spaceport facility.
func (s *GameState) CreateSpaceport(id model.SpaceportID, f *model.Facility) {
	s.spaceports[id] = f
}

// Spaceport looks up a spaceport by id.
func (s *GameState) Spaceport(id model.SpaceportID) (*model.Facility, bool) {
	f, ok := s.spaceports[id]
	return f, ok
}

// CreateShipyard inserts a new shipyard facility.
func (s *GameState) CreateShipyard(id model.ShipyardID, f *model.Facility) {
	s.shipyards[id] = f
}

// Shipyard looks up a shipyard by id.
func (s *GameState) Shipyard(id model.ShipyardID) (*model.Facility, bool) {
	f, ok := s.shipyards[id]
	return f, ok
}

// CreateDrydock inserts a new drydock facility.
func (s *GameState) CreateDrydock(id model.DrydockID, f *model.Facility) {
	s.drydocks[id] = f
}

// Drydock looks up a drydock by id.
func (s *GameState) Drydock(id model.DrydockID) (*model.Facility, bool) {
	f, ok := s.drydocks[id]
	return f, ok
}

// OperationalStarbaseCount counts the colony's starbases that are not
// destroyed, used by the economy engine's STARBASE_BONUS and by the
// construction package's fighter-capacity check (§4.4/§4.6).
func (s *GameState) OperationalStarbaseCount(c *model.Colony) int {
	n := 0
	for _, id := range c.Starbases {
		if f, ok := s.starbases[id]; ok && f.IsOperational() {
			n++
		}
	}
	return n
}

// --- Ground units ---

// CreateGroundUnit inserts a new ground unit.
func (s *GameState) CreateGroundUnit(g *model.GroundUnit) {
	s.ground[g.ID] = g
}

// GroundUnit looks up a ground unit by id.
func (s *GameState) GroundUnit(id model.GroundUnitID) (*model.GroundUnit, bool) {
	g, ok := s.ground[id]
	return g, ok
}

// DestroyGroundUnit removes a ground unit from the store.
func (s *GameState) DestroyGroundUnit(id model.GroundUnitID) {
	delete(s.ground, id)
}

// GroundUnitsOf resolves a colony's ground-unit id lists (batteries,
// armies, marines) into pointers, skipping any already destroyed.
func (s *GameState) GroundUnitsOf(ids []model.GroundUnitID) []*model.GroundUnit {
	out := make([]*model.GroundUnit, 0, len(ids))
	for _, id := range ids {
		if g, ok := s.ground[id]; ok {
			out = append(out, g)
		}
	}
	return out
}
