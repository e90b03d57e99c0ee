// Package config holds the immutable, per-game configuration tables
// named in spec.md §6: ship/ground/facility tables, tech progressions,
// prestige sources and rows, map-size scaling, morale thresholds and
// victory thresholds. A Config is built once at server start by Load
// (via spf13/viper, grounded on the teacher's pkg/arguments bootstrap),
// handed to every new game and passed by value into every phase
// function thereafter — it is never
// mutated after game start, matching spec.md §5's "per-game config
// (immutable after init)".
package config

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"ec4x/internal/model"
)

// ShipStats :
// The static, tech-tier-independent base stats for a ship class. AS/DS
// are later modified by the owning house's WEP/EL tiers at resolution
// time; this table only carries the class's baseline.
type ShipStats struct {
	PC          decimal.Decimal
	MCPercent   decimal.Decimal
	BaseAS      int
	BaseDS      int
	CommandCost int
	CommandRating int
	CargoLimit  int
}

// FacilityStats :
// Static per-tier stats for a facility kind.
type FacilityStats struct {
	BasePC       decimal.Decimal
	DockCapacity int
}

// GroundUnitStats :
// Static stats for an Army / Marine / Ground Battery.
type GroundUnitStats struct {
	PC decimal.Decimal
	AS int
	DS int
}

// TechCost :
// The pool cost and prerequisites to purchase one tier of a named tech
// track.
type TechCost struct {
	Pool          string // "ERP", "SRP" or "TRP"
	Cost          decimal.Decimal
	PrereqTier    int
	PrereqSL      int
}

// PrestigeRow :
// One row of the prestige penalty/incentive table, keyed by the
// rolling tax average or current-turn tax rate that triggers it.
type PrestigeRow struct {
	ThresholdLow  int
	ThresholdHigh int
	Delta         int
}

// MoraleThreshold :
// One row of the morale roll table: a prestige tier and the CER
// modifier distribution it grants.
type MoraleThreshold struct {
	PrestigeFloor int
	MinModifier   int
	MaxModifier   int
	GuaranteedCrit bool
}

// Config :
// The full immutable configuration bundle for one game.
type Config struct {
	ShipTable     map[model.ShipClass]ShipStats
	FacilityTable map[model.FacilityKind]FacilityStats
	GroundTable   map[model.GroundUnitKind]GroundUnitStats
	TechTable     map[string]TechCost

	PrestigeTable []PrestigeRow
	MoraleTable   []MoraleThreshold

	MapSizeMultiplier decimal.Decimal
	VictoryTurnLimit  int
	VictoryPrestige   *int

	RawIndex map[model.PlanetClass]map[int]decimal.Decimal
}

// Default builds the reference configuration used whenever no override
// file is present. Values are deliberately round numbers; operators
// tune them via the viper-loaded config file through Load.
func Default() Config {
	d := func(v int) decimal.Decimal { return decimal.NewFromInt(int64(v)) }

	rawIndex := map[model.PlanetClass]map[int]decimal.Decimal{}
	for pc := model.PlanetExtreme; pc <= model.PlanetEden; pc++ {
		rawIndex[pc] = map[int]decimal.Decimal{}
		for r := 0; r <= 5; r++ {
			rawIndex[pc][r] = decimal.NewFromFloat(0.5 + 0.3*float64(pc) + 0.2*float64(r))
		}
	}

	return Config{
		ShipTable: map[model.ShipClass]ShipStats{
			model.ShipScout:          {PC: d(40), MCPercent: decimal.NewFromFloat(0.02), BaseAS: 0, BaseDS: 4, CommandCost: 1, CommandRating: 1, CargoLimit: 0},
			model.ShipETAC:           {PC: d(60), MCPercent: decimal.NewFromFloat(0.02), BaseAS: 0, BaseDS: 6, CommandCost: 1, CommandRating: 1, CargoLimit: 5000},
			model.ShipTroopTransport: {PC: d(80), MCPercent: decimal.NewFromFloat(0.03), BaseAS: 2, BaseDS: 10, CommandCost: 2, CommandRating: 2, CargoLimit: 4},
			model.ShipRaider:         {PC: d(120), MCPercent: decimal.NewFromFloat(0.04), BaseAS: 18, BaseDS: 10, CommandCost: 3, CommandRating: 3, CargoLimit: 0},
			model.ShipFighter:        {PC: d(20), MCPercent: decimal.NewFromFloat(0.01), BaseAS: 6, BaseDS: 3, CommandCost: 1, CommandRating: 0, CargoLimit: 0},
			model.ShipCarrier:        {PC: d(300), MCPercent: decimal.NewFromFloat(0.06), BaseAS: 12, BaseDS: 40, CommandCost: 6, CommandRating: 6, CargoLimit: 0},
			model.ShipDestroyer:      {PC: d(150), MCPercent: decimal.NewFromFloat(0.05), BaseAS: 20, BaseDS: 30, CommandCost: 4, CommandRating: 4, CargoLimit: 0},
			model.ShipCruiser:        {PC: d(280), MCPercent: decimal.NewFromFloat(0.06), BaseAS: 35, BaseDS: 55, CommandCost: 6, CommandRating: 7, CargoLimit: 0},
			model.ShipBattleship:     {PC: d(500), MCPercent: decimal.NewFromFloat(0.08), BaseAS: 60, BaseDS: 100, CommandCost: 10, CommandRating: 10, CargoLimit: 0},
		},
		FacilityTable: map[model.FacilityKind]FacilityStats{
			model.FacilityStarbase:  {BasePC: d(400), DockCapacity: 0},
			model.FacilitySpaceport: {BasePC: d(200), DockCapacity: 2},
			model.FacilityShipyard:  {BasePC: d(300), DockCapacity: 4},
			model.FacilityDrydock:   {BasePC: d(150), DockCapacity: 3},
		},
		GroundTable: map[model.GroundUnitKind]GroundUnitStats{
			model.GroundArmy:    {PC: d(30), AS: 4, DS: 6},
			model.GroundMarine:  {PC: d(40), AS: 6, DS: 4},
			model.GroundBattery: {PC: d(60), AS: 8, DS: 8},
		},
		TechTable: map[string]TechCost{
			"EL":  {Pool: "ERP", Cost: d(100), PrereqTier: 0, PrereqSL: 0},
			"WEP": {Pool: "SRP", Cost: d(120), PrereqTier: 0, PrereqSL: 0},
			"CST": {Pool: "ERP", Cost: d(110), PrereqTier: 0, PrereqSL: 0},
			"SLD": {Pool: "SRP", Cost: d(130), PrereqTier: 0, PrereqSL: 1},
			"TER": {Pool: "ERP", Cost: d(150), PrereqTier: 0, PrereqSL: 1},
			"CLK": {Pool: "TRP", Cost: d(140), PrereqTier: 0, PrereqSL: 2},
			"ELI": {Pool: "TRP", Cost: d(140), PrereqTier: 0, PrereqSL: 2},
			"STL": {Pool: "ERP", Cost: d(160), PrereqTier: 0, PrereqSL: 1},
			"CMD": {Pool: "SRP", Cost: d(120), PrereqTier: 0, PrereqSL: 0},
			"FD":  {Pool: "ERP", Cost: d(170), PrereqTier: 0, PrereqSL: 2},
			"ACO": {Pool: "TRP", Cost: d(150), PrereqTier: 0, PrereqSL: 1},
			"CIC": {Pool: "TRP", Cost: d(130), PrereqTier: 0, PrereqSL: 0},
		},
		PrestigeTable: []PrestigeRow{
			{ThresholdLow: 0, ThresholdHigh: 50, Delta: 0},
			{ThresholdLow: 51, ThresholdHigh: 60, Delta: -1},
			{ThresholdLow: 61, ThresholdHigh: 70, Delta: -3},
			{ThresholdLow: 71, ThresholdHigh: 80, Delta: -5},
			{ThresholdLow: 81, ThresholdHigh: 90, Delta: -8},
			{ThresholdLow: 91, ThresholdHigh: 100, Delta: -11},
		},
		MoraleTable: []MoraleThreshold{
			{PrestigeFloor: 100, MinModifier: 1, MaxModifier: 2, GuaranteedCrit: true},
			{PrestigeFloor: 40, MinModifier: 0, MaxModifier: 1, GuaranteedCrit: false},
			{PrestigeFloor: 0, MinModifier: -1, MaxModifier: 0, GuaranteedCrit: false},
		},
		MapSizeMultiplier: decimal.NewFromFloat(1.0),
		VictoryTurnLimit:  200,
		VictoryPrestige:   nil,
		RawIndex:          rawIndex,
	}
}

// Load reads overrides from a viper-backed configuration file on top
// of Default(), mirroring the teacher's `pkg/arguments.Parse` bootstrap
// (SetEnvPrefix/AutomaticEnv/ReadInConfig). Only a narrow set of
// top-level tunables are override-able from file; the bulk of the
// tables stay code-defined since they describe game balance, not
// deployment environment.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()

	if v == nil {
		return cfg, nil
	}

	if v.IsSet("Game.MapSizeMultiplier") {
		cfg.MapSizeMultiplier = decimal.NewFromFloat(v.GetFloat64("Game.MapSizeMultiplier"))
	}
	if v.IsSet("Game.VictoryTurnLimit") {
		cfg.VictoryTurnLimit = v.GetInt("Game.VictoryTurnLimit")
	}
	if v.IsSet("Game.VictoryPrestige") {
		p := v.GetInt("Game.VictoryPrestige")
		cfg.VictoryPrestige = &p
	}

	return cfg, nil
}

// PrestigePenaltyFor returns the delta for a given rolling tax average,
// per §4.4's stepped penalty table.
func (c Config) PrestigePenaltyFor(rollingAverage int) int {
	for _, row := range c.PrestigeTable {
		if rollingAverage >= row.ThresholdLow && rollingAverage <= row.ThresholdHigh {
			return row.Delta
		}
	}
	return 0
}

// MoraleFor returns the modifier range and guaranteed-crit flag for a
// house's current prestige, highest matching floor wins.
func (c Config) MoraleFor(prestige int) MoraleThreshold {
	best := MoraleThreshold{MinModifier: -1, MaxModifier: 0}
	bestFloor := -1 << 30
	for _, row := range c.MoraleTable {
		if prestige >= row.PrestigeFloor && row.PrestigeFloor > bestFloor {
			best = row
			bestFloor = row.PrestigeFloor
		}
	}
	return best
}

// Ship looks up a ship class's stats, panicking only if the class is
// entirely unknown to the table (a configuration bug, not a runtime
// condition).
func (c Config) Ship(class model.ShipClass) ShipStats {
	s, ok := c.ShipTable[class]
	if !ok {
		panic(fmt.Errorf("config: unknown ship class %q", class))
	}
	return s
}

// ELMod returns the GCO Economic Level multiplier for a house's EL tech
// tier, stepped 1.0, 1.5, 2.0, ... per §4.4.
func (c Config) ELMod(tier int) decimal.Decimal {
	return decimal.NewFromFloat(1.0 + 0.5*float64(tier))
}

// CSTMod returns the Construction tech multiplier for a house's CST
// tier, stepped 1.0, 1.1, 1.2, ... per §4.4/§4.6 (also used as the dock
// capacity multiplier).
func (c Config) CSTMod(tier int) decimal.Decimal {
	return decimal.NewFromFloat(1.0 + 0.1*float64(tier))
}

// BaseASOf returns a ship class's baseline attack strength, satisfying
// movement.ASLookup for colonization-race tiebreaking.
func (c Config) BaseASOf(class model.ShipClass) int {
	return c.Ship(class).BaseAS
}

// FDMult returns the fighter-doctrine capacity multiplier for a
// house's FD tech tier, used by the fighter-squadron capacity formula
// in §4.6.
func (c Config) FDMult(tier int) decimal.Decimal {
	return decimal.NewFromFloat(1.0 + 0.25*float64(tier))
}
