package model

import "github.com/shopspring/decimal"

// EspionageActionType :
// The sum type of espionage actions a house may include in its
// CommandPacket, per §4.9. At most one is carried per packet.
type EspionageActionType string

// Recognized espionage action types.
const (
	ActionSpyColony            EspionageActionType = "SpyColony"
	ActionSpySystem            EspionageActionType = "SpySystem"
	ActionHackStarbase         EspionageActionType = "HackStarbase"
	ActionSabotageLow          EspionageActionType = "SabotageLow"
	ActionSabotageHigh         EspionageActionType = "SabotageHigh"
	ActionTechTheft            EspionageActionType = "TechTheft"
	ActionAssassination        EspionageActionType = "Assassination"
	ActionEconomicManipulation EspionageActionType = "EconomicManipulation"
	ActionCyberAttack          EspionageActionType = "CyberAttack"
	ActionPsyopsCampaign       EspionageActionType = "PsyopsCampaign"
	ActionIntelTheft           EspionageActionType = "IntelTheft"
	ActionPlantDisinformation  EspionageActionType = "PlantDisinformation"
	ActionCounterIntelSweep    EspionageActionType = "CounterIntelSweep"
)

// IsScoutMission reports whether this action type is one of the three
// scout-fleet-based missions (as opposed to a budget-based covert
// action).
func (a EspionageActionType) IsScoutMission() bool {
	switch a {
	case ActionSpyColony, ActionSpySystem, ActionHackStarbase:
		return true
	default:
		return false
	}
}

// EspionageAction :
// The single espionage action a house may submit this turn.
type EspionageAction struct {
	Type         EspionageActionType
	Fleet        *FleetID // set for scout missions
	TargetHouse  *HouseID
	TargetSystem *SystemID
	TargetColony *ColonyID
}

// ColonyBuildOrder :
// One entry of a CommandPacket's per-colony build list.
type ColonyBuildOrder struct {
	Colony  ColonyID
	Subject ProjectSubjectKind

	ShipClass    ShipClass
	FacilityKind FacilityKind
	GroundKind   GroundUnitKind
	IUAmount     decimal.Decimal

	// UseSpaceport requests planet-side (2x PC) construction instead of
	// shipyard-built (1x PC); ignored for facility/ground/IU subjects.
	UseSpaceport bool
}

// CommandPacket :
// A house's full instruction set for one turn, exactly as described in
// §6.
type CommandPacket struct {
	House HouseID

	TaxRate       int
	ERPAllocation decimal.Decimal
	SRPAllocation decimal.Decimal
	TRPAllocation decimal.Decimal

	DiplomaticChanges map[HouseID]DiplomaticPosture
	EBPInvestment     decimal.Decimal
	CIPInvestment     decimal.Decimal

	Espionage *EspionageAction

	Builds   []ColonyBuildOrder
	Fleets   []FleetCommand
}
