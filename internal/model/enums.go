package model

// PlanetClass :
// Ranks a system's habitability from Extreme (barely colonizable) up to
// Eden (ideal). Drives GCO's RAW_INDEX lookup and terraform targets.
type PlanetClass int

// The ordered planet classes, worst to best.
const (
	PlanetExtreme PlanetClass = iota
	PlanetHostile
	PlanetHarsh
	PlanetPoor
	PlanetModerate
	PlanetFertile
	PlanetLush
	PlanetEden
)

// StarClass :
// Coarse classification of a system's star, used by the map generator
// and by resource-rating rolls.
type StarClass int

// Recognized star classes.
const (
	StarDwarf StarClass = iota
	StarMain
	StarGiant
	StarBinary
)

// LaneClass :
// One of the three lane classes connecting two systems. Determines
// traversal rules in §4.2.
type LaneClass int

// Recognized lane classes.
const (
	LaneMajor LaneClass = iota
	LaneMinor
	LaneRestricted
)

// HullState :
// Tracks the structural condition of a ship, facility, or ground unit.
type HullState int

// Recognized hull states.
const (
	HullUndamaged HullState = iota
	HullCrippled
	HullDestroyed
)

// SquadronBucket :
// The target-selection / task-force bucket a squadron belongs to during
// combat, in the priority order defined by §4.8: Raider < Capital <
// Escort < Fighter < Starbase.
type SquadronBucket int

// Recognized squadron buckets, in target-priority order.
const (
	BucketRaider SquadronBucket = iota
	BucketCapital
	BucketEscort
	BucketFighter
	BucketStarbase
)

// CargoKind :
// The kind of payload an ETAC, Troop Transport or cargo hold carries.
type CargoKind int

// Recognized cargo kinds.
const (
	CargoNone CargoKind = iota
	CargoColonists
	CargoMarines
	CargoFighters
)

// IntelQuality :
// The fidelity of an IntelReport, per §3/§4.12.
type IntelQuality int

// Recognized intel qualities, worst to best.
const (
	IntelVisual IntelQuality = iota
	IntelSpy
	IntelPerfect
)

// IntelSubjectKind :
// What kind of entity an IntelReport describes.
type IntelSubjectKind int

// Recognized intel subject kinds.
const (
	SubjectColony IntelSubjectKind = iota
	SubjectSystem
	SubjectStarbase
	SubjectFleet
)

// DiplomaticPosture :
// The standing relation a house holds toward another house, used by
// the hostile-targeting predicate in §4.8.
type DiplomaticPosture int

// Recognized diplomatic postures.
const (
	PostureNeutral DiplomaticPosture = iota
	PostureHostile
	PostureEnemy
)

// FacilityKind :
// The kind of colony-bound facility (used for projects and combat
// participation).
type FacilityKind int

// Recognized facility kinds.
const (
	FacilityStarbase FacilityKind = iota
	FacilitySpaceport
	FacilityShipyard
	FacilityDrydock
)

// GroundUnitKind :
// The kind of ground-force unit bound to a colony.
type GroundUnitKind int

// Recognized ground unit kinds.
const (
	GroundArmy GroundUnitKind = iota
	GroundMarine
	GroundBattery
)

// ProjectSubjectKind :
// What a construction/repair project is building or repairing.
type ProjectSubjectKind int

// Recognized project subject kinds.
const (
	ProjectShip ProjectSubjectKind = iota
	ProjectFacility
	ProjectGroundUnit
	ProjectIUInvestment
	ProjectStarbaseRepair
	ProjectShipRepair
)

// FleetStanding :
// A persistent standing order tagged on a fleet by Guard/Blockade/
// Reserve/Mothball/Spacelift commands, consumed by the combat resolver
// to determine task-force eligibility per theater (§4.8).
type FleetStanding int

// Recognized fleet standings.
const (
	StandingNone FleetStanding = iota
	StandingGuardStarbase
	StandingGuardColony
	StandingBlockade
	StandingReserve
	StandingMothball
	StandingSpacelift
)

// TheaterKind :
// One of the three combat theaters resolved in sequence per §4.8.
type TheaterKind int

// Recognized theaters, in resolution order.
const (
	TheaterSpace TheaterKind = iota
	TheaterOrbital
	TheaterPlanetary
)

// PrestigeSource :
// Tags the origin of a prestige delta event, for the accounting ledger
// and for zero-sum verification of combat outcomes.
type PrestigeSource int

// Recognized prestige sources.
const (
	PrestigeCombatKill PrestigeSource = iota
	PrestigeCombatRetreat
	PrestigeCombatLoss
	PrestigeTaxBonus
	PrestigeTaxPenalty
	PrestigeMaintenanceShortfall
	PrestigeEspionageSuccess
	PrestigeEspionageDetected
	PrestigeMoraleRoll
)
