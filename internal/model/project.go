package model

import "github.com/shopspring/decimal"

// ConstructionProject :
// A colony-bound build order: a ship class, a facility, a ground unit,
// or a direct IU investment. Full payment is debited at queue time;
// cancellation refunds 50%; if the host facility is crippled or
// destroyed before completion the PP is lost outright (§4.6).
type ConstructionProject struct {
	ID             ConstructionProjectID
	Colony         ColonyID
	Subject        ProjectSubjectKind
	ShipClass      ShipClass
	FacilityKind   FacilityKind
	GroundKind     GroundUnitKind
	IUAmount       decimal.Decimal
	Cost           decimal.Decimal
	TurnsRemaining int

	// HostFacility names the facility this project depends on (e.g. the
	// Shipyard building a ship, or the Spaceport hosting a planet-side
	// build). Nil means the project has no single point of failure
	// (e.g. a direct IU investment).
	HostFacility *FacilityRef

	// Vulnerable marks whether the project's PP is lost if HostFacility
	// is crippled or destroyed before completion.
	Vulnerable bool
}

// FacilityRef :
// A typed pointer at one of the four facility kinds, used wherever a
// project or combat participant needs to name "a specific facility"
// without a generic interface.
type FacilityRef struct {
	Kind      FacilityKind
	Starbase  StarbaseID
	Spaceport SpaceportID
	Shipyard  ShipyardID
	Drydock   DrydockID
}

// RepairProject :
// A colony-bound repair order for a ship or a starbase. Ship repair
// costs 25% PC and requires a Drydock; starbase repair costs 25% PC,
// requires a Spaceport, and does not consume dock capacity (§4.6).
type RepairProject struct {
	ID             RepairProjectID
	Colony         ColonyID
	Ship           *ShipID
	Starbase       *StarbaseID
	Cost           decimal.Decimal
	TurnsRemaining int
}
