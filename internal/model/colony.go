package model

import "github.com/shopspring/decimal"

// CapacityKind :
// Names which standing capacity limit a colony or house is tracking a
// violation against (§4.6).
type CapacityKind int

// Recognized capacity kinds.
const (
	CapacityFighterSquadrons CapacityKind = iota
	CapacityCapitalSquadrons
)

// CapacityViolation :
// Records an in-progress capacity breach so the 2-turn grace period can
// be tracked across turns before the forced disband/Guild-claim fires.
type CapacityViolation struct {
	Kind       CapacityKind
	GraceTurns int
	Excess     int
}

// Terraform :
// An in-progress terraform project improving a colony's PlanetClass.
// A colony may have at most one active terraform (invariant 8).
type Terraform struct {
	TargetClass    PlanetClass
	TurnsRemaining int
}

// BlockadeState :
// Whether a colony is currently blockaded by a hostile fleet; set by
// the combat/movement resolvers and consumed by the economy engine's
// 0.4x GCO penalty.
type BlockadeState struct {
	Blockaded bool
	By        HouseID
}

// Colony :
// A single-system economic and military settlement. 1-to-1 with its
// System (invariant 3): a colony exists iff `colonies.bySystem[systemId]`
// is set and its owner is a non-eliminated house.
type Colony struct {
	ID       ColonyID
	SystemID SystemID
	Owner    HouseID

	PopulationSouls int64
	PU              decimal.Decimal
	IU              decimal.Decimal

	InfrastructureLevel  int
	InfrastructureDamage decimal.Decimal // percent, 0..100
	TaxRateOverride      *int
	PlanetClass          PlanetClass

	Terraform *Terraform
	ShieldLevel int // 0..6

	Starbases  []StarbaseID
	Spaceports []SpaceportID
	Shipyards  []ShipyardID
	Drydocks   []DrydockID

	GroundBatteries []GroundUnitID
	Armies          []GroundUnitID
	Marines         []GroundUnitID

	UnassignedSquadrons []SquadronID
	FighterSquadrons    []SquadronID

	ConstructionQueue []ConstructionProjectID
	RepairQueue       []RepairProjectID

	CapacityViolations []CapacityViolation
	Blockade           BlockadeState
}

// NewColony builds a freshly colonized Level I colony.
func NewColony(id ColonyID, system SystemID, owner HouseID, planet PlanetClass) *Colony {
	return &Colony{
		ID:                  id,
		SystemID:            system,
		Owner:               owner,
		PopulationSouls:     1_000_000,
		PU:                  decimal.NewFromInt(1),
		IU:                  decimal.Zero,
		InfrastructureLevel: 1,
		PlanetClass:         planet,
		ShieldLevel:         0,
	}
}

// EffectiveTaxRate returns the colony's tax override if set, otherwise
// the owning house's default rate.
func (c *Colony) EffectiveTaxRate(houseDefault int) int {
	if c.TaxRateOverride != nil {
		return *c.TaxRateOverride
	}
	return houseDefault
}

// PTU derives Population Transfer Units from PU: an exponential mapping
// (PU doubles represent ever-larger PTU blocks) expressed here as the
// integer floor of PU; the economy engine is the only caller that needs
// the finer-grained PU value itself.
func (c *Colony) PTU() int64 {
	pu := c.PU.IntPart()
	if pu < 1 {
		return 0
	}
	return pu
}

// HasActiveTerraform reports whether a terraform project is in flight.
func (c *Colony) HasActiveTerraform() bool {
	return c.Terraform != nil
}
