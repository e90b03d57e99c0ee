package model

import "github.com/shopspring/decimal"

// TechTree :
// Per-house accumulated research state. The pools hold un-spent PP
// allocated during the Command Phase; the levels hold the purchased
// tier for each named tech track (EL, WEP, CST, SLD, TER, CLK, ELI, STL,
// CMD, FD, ACO, CIC). SL is derived from ERP/SRP pool thresholds, not
// stored directly, so it can never drift out of sync with the pools
// that gate it.
type TechTree struct {
	ERPPool decimal.Decimal
	SRPPool decimal.Decimal
	TRPPool decimal.Decimal

	Levels map[string]int
}

// NewTechTree builds an empty tech tree with all levels at zero.
func NewTechTree() TechTree {
	return TechTree{
		ERPPool: decimal.Zero,
		SRPPool: decimal.Zero,
		TRPPool: decimal.Zero,
		Levels:  make(map[string]int),
	}
}

// Level returns the purchased tier for a named tech track, 0 if never
// purchased.
func (t TechTree) Level(track string) int {
	return t.Levels[track]
}

// EspionageBudgets :
// A house's accumulated Espionage Budget Points (EBP, spent on covert
// actions) and Counter-Intelligence Points (CIP, spent defensively
// against others' covert actions).
type EspionageBudgets struct {
	EBP decimal.Decimal
	CIP decimal.Decimal
}

// House :
// A player empire. Created once at game init; never deleted — only
// flagged eliminated or collapsed (invariant 9, spec.md §3).
//
// The `Prestige` is signed: it can go negative, which is itself a
// tracked condition (defensive collapse after 3 consecutive Income
// Phases below zero).
//
// The `TaxRate` is the house-wide default tax rate (0-100); individual
// colonies may override it.
//
// The `TaxHistory` holds at least 6 turns of past tax rates, used for
// the rolling-average tax penalty/bonus computation (§4.4).
type House struct {
	ID       HouseID
	Name     string
	Prestige int
	Treasury decimal.Decimal
	TaxRate  int

	Tech       TechTree
	Espionage  EspionageBudgets
	Diplomacy  map[HouseID]DiplomaticPosture
	TaxHistory []int

	// IntelDB holds every IntelReport this house has ever gathered,
	// keyed by subject so newer snapshots of the same subject replace
	// older ones while the projector still exposes the prior
	// `SnapshotTurn` for staleness rendering.
	IntelDB map[string]*IntelReport

	Eliminated                      bool
	Autopilot                       bool
	DefensiveCollapse                bool
	ConsecutiveMissedTurns          int
	ConsecutiveNegativePrestigeTurns int
	MaintenanceShortfallStreak       int
}

// NewHouse builds a house with zeroed accounting state and an empty
// diplomacy/intel map, ready to be inserted into the entity store.
func NewHouse(id HouseID, name string) *House {
	return &House{
		ID:         id,
		Name:       name,
		Prestige:   0,
		Treasury:   decimal.Zero,
		TaxRate:    25,
		Tech:       NewTechTree(),
		Espionage:  EspionageBudgets{EBP: decimal.Zero, CIP: decimal.Zero},
		Diplomacy:  make(map[HouseID]DiplomaticPosture),
		TaxHistory: make([]int, 0, 8),
		IntelDB:    make(map[string]*IntelReport),
	}
}

// RelationWith returns the diplomatic posture this house holds toward
// another house; defaults to Neutral if never set.
func (h *House) RelationWith(other HouseID) DiplomaticPosture {
	if p, ok := h.Diplomacy[other]; ok {
		return p
	}
	return PostureNeutral
}

// PushTaxHistory appends this turn's effective tax rate, keeping at
// least 6 turns of history as required by invariant list in spec.md
// §3 (the buffer is allowed to grow; the rolling average only reads the
// last 6).
func (h *House) PushTaxHistory(rate int) {
	h.TaxHistory = append(h.TaxHistory, rate)
	const maxKept = 32
	if len(h.TaxHistory) > maxKept {
		h.TaxHistory = h.TaxHistory[len(h.TaxHistory)-maxKept:]
	}
}

// RollingTaxAverage computes the average tax rate over the last `n`
// turns (or fewer if history is shorter).
func (h *House) RollingTaxAverage(n int) int {
	if len(h.TaxHistory) == 0 {
		return h.TaxRate
	}
	start := 0
	if len(h.TaxHistory) > n {
		start = len(h.TaxHistory) - n
	}
	window := h.TaxHistory[start:]
	sum := 0
	for _, v := range window {
		sum += v
	}
	return sum / len(window)
}
