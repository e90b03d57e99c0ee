package model

import (
	"fmt"

	"github.com/google/uuid"
)

// GameID identifies a game instance to external callers (engine
// clients, storage records, replay envelopes). It never appears inside
// deterministic resolution -- entities are addressed by their typed ids
// below, not by the game they belong to.
type GameID uuid.UUID

// NewGameID mints a fresh random game handle.
func NewGameID() GameID {
	return GameID(uuid.New())
}

// String renders the canonical dashed hex form.
func (g GameID) String() string {
	return uuid.UUID(g).String()
}

// ParseGameID parses the canonical dashed hex form back into a GameID,
// as accepted from a transport adapter's path/query parameters.
func ParseGameID(s string) (GameID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return GameID{}, err
	}
	return GameID(u), nil
}

// HouseID :
// Identifies a house (player empire) within a single game. Houses are
// created once at game init and are never deleted: elimination and
// collapse are flags on the House entity, not removals from the store.
type HouseID uint32

// SystemID :
// Identifies a hex system on the starmap. Systems are created once at
// map generation and persist for the life of the game.
type SystemID uint32

// ColonyID :
// Identifies a colony. A colony is bound to exactly one system and is
// destroyed on population-zero or explicit scrap.
type ColonyID uint32

// FleetID :
// Identifies a fleet, a mutable grouping of squadrons owned by a house
// and located in a single system at any time.
type FleetID uint32

// ShipID :
// Identifies a single ship instance (not a ship class/blueprint).
type ShipID uint32

// SquadronID :
// Identifies a squadron: one flagship plus its escorts, formed under a
// command-rating budget.
type SquadronID uint32

// GroundUnitID :
// Identifies an Army, Marine division or Ground Battery bound to a
// colony.
type GroundUnitID uint32

// ConstructionProjectID :
// Identifies a queued construction project on a colony.
type ConstructionProjectID uint32

// RepairProjectID :
// Identifies a queued repair project on a colony.
type RepairProjectID uint32

// StarbaseID identifies a starbase facility bound to a colony.
type StarbaseID uint32

// SpaceportID identifies a spaceport facility bound to a colony.
type SpaceportID uint32

// ShipyardID identifies a shipyard facility bound to a colony.
type ShipyardID uint32

// DrydockID identifies a drydock facility bound to a colony.
type DrydockID uint32

// ZeroID is the sentinel value shared by every typed id; no entity is
// ever minted with this value.
const ZeroID = 0

// IDGenerator :
// Mints monotonically increasing, never-reused identifiers for a single
// game instance. One generator is created per game at `NewGame` time and
// is owned exclusively by the orchestrator, matching the "single logical
// writer per game instance" scheduling model.
//
// The `next` counter starts at 1 so that the zero value of every typed id
// newtype can be reserved to mean "unset" without colliding with a real
// entity.
type IDGenerator struct {
	next uint32
}

// NewIDGenerator builds a generator starting right after the highest id
// already minted (0 for a brand new game).
func NewIDGenerator(highWaterMark uint32) *IDGenerator {
	return &IDGenerator{next: highWaterMark + 1}
}

// Next mints and returns the next raw id value.
func (g *IDGenerator) Next() uint32 {
	if g.next == 0 {
		// Wrapped around a 32 bit counter: this is a fatal, game-ending
		// condition that should never happen in practice.
		panic(fmt.Errorf("id generator exhausted its 32 bit space"))
	}
	v := g.next
	g.next++
	return v
}
