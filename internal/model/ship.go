package model

// ShipClass :
// Names a ship blueprint (not a runtime instance). The concrete PC,
// MC%, AS, DS, CC, CR, CL values for a class live in the per-game
// config tables (internal/config), never hard-coded on the class
// itself, since they scale with tech tiers.
type ShipClass string

// Recognized ship classes referenced directly by resolver logic; the
// full roster (including purely cosmetic classes) lives in config.
const (
	ShipScout          ShipClass = "Scout"
	ShipETAC           ShipClass = "ETAC"
	ShipTroopTransport ShipClass = "TroopTransport"
	ShipRaider         ShipClass = "Raider"
	ShipFighter        ShipClass = "Fighter"
	ShipCarrier        ShipClass = "Carrier"
	ShipDestroyer      ShipClass = "Destroyer"
	ShipCruiser        ShipClass = "Cruiser"
	ShipBattleship     ShipClass = "Battleship"
)

// Cargo :
// A single cargo hold's contents, carried by ETACs, Troop Transports
// and carriers.
type Cargo struct {
	Kind     CargoKind
	Quantity int
}

// Ship :
// A single ship instance. The squadron it belongs to, its class, and
// its hull state are authoritative here; AS/DS are derived at
// resolution time from class + tech tier rather than cached, so a tech
// unlock takes effect immediately without a ship-table rewrite.
type Ship struct {
	ID         ShipID
	Class      ShipClass
	Owner      HouseID
	Squadron   SquadronID
	Hull       HullState
	CommandCost int

	Cargo *Cargo

	// CLTier/CLKTier/ELITier are the effective tech-scaled tiers this
	// ship carries for colonist-load (ETAC/Transport), cloak (Raider)
	// and electronic-intelligence (Scout) respectively. 0 when not
	// applicable to the class.
	CLTier  int
	CLKTier int
	ELITier int
	ACOTier int
}

// IsCombatCapable reports whether this ship can participate in a
// task force: every ship that is not destroyed, cargo hulls such as
// ETAC/Transport included (they screen).
func (s *Ship) IsCombatCapable() bool {
	return s.Hull != HullDestroyed
}
