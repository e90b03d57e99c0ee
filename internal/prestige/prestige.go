// Package prestige implements C10: applying the turn's accumulated
// PrestigeEvents to each house's running total (scaled by the game's
// fixed map-size multiplier), then re-deriving the lifecycle flags that
// follow purely from state -- Defensive Collapse, Standard Elimination,
// Autopilot -- and finally evaluating victory. The teacher has no
// prestige concept; this package follows the nearest analogue in
// spirit (internal/game/player.go's "flags recomputed every turn from
// accumulated counters") while building the concrete rules from
// spec.md §4.10.
package prestige

import (
	"sort"

	"github.com/shopspring/decimal"

	"ec4x/internal/config"
	"ec4x/internal/model"
	"ec4x/internal/store"
)

// ApplyEvents folds every PrestigeEvent produced this turn into each
// house's running Prestige total, scaled by the game's fixed map-size
// multiplier fixed at game creation (§4.10).
func ApplyEvents(cfg config.Config, s *store.GameState, events []model.PrestigeEvent) {
	for _, ev := range events {
		h, ok := s.House(ev.House)
		if !ok {
			continue
		}
		scaled := cfg.MapSizeMultiplier.Mul(decimal.NewFromInt(int64(ev.Amount)))
		h.Prestige += int(scaled.IntPart())
	}
}

// LifecycleResult reports what changed for one house this Income
// Phase.
type LifecycleResult struct {
	House              model.HouseID
	EnteredCollapse    bool
	ExitedCollapse     bool
	Eliminated         bool
	EnteredAutopilot   bool
	ExitedAutopilot    bool
	Events             []model.Event
}

// EvaluateLifecycle re-derives Defensive Collapse, Standard Elimination
// and Autopilot for every non-eliminated house, called once per turn at
// the Income Phase boundary per §4.10/§4.11.
func EvaluateLifecycle(s *store.GameState, turn int, submitted map[model.HouseID]bool) []LifecycleResult {
	var out []LifecycleResult
	for _, h := range s.AllHouses() {
		if h.Eliminated {
			continue
		}
		res := LifecycleResult{House: h.ID}

		if h.Prestige < 0 {
			h.ConsecutiveNegativePrestigeTurns++
		} else {
			h.ConsecutiveNegativePrestigeTurns = 0
		}
		if h.ConsecutiveNegativePrestigeTurns >= 3 && !h.DefensiveCollapse {
			h.DefensiveCollapse = true
			res.EnteredCollapse = true
			forceSeekHome(s, h.ID)
			res.Events = append(res.Events, model.NewEvent(turn, "Income", "DefensiveCollapse",
				"house entered defensive collapse after sustained negative prestige", []model.HouseID{h.ID}))
		} else if h.ConsecutiveNegativePrestigeTurns == 0 && h.DefensiveCollapse {
			h.DefensiveCollapse = false
			res.ExitedCollapse = true
			res.Events = append(res.Events, model.NewEvent(turn, "Income", "CollapseRecovered",
				"house recovered from defensive collapse", []model.HouseID{h.ID}))
		}

		if isEliminated(s, h.ID) {
			h.Eliminated = true
			res.Eliminated = true
			res.Events = append(res.Events, model.NewEvent(turn, "Income", "HouseEliminated",
				"house eliminated: no colonies and no viable fleets", nil))
		}

		if !submitted[h.ID] {
			h.ConsecutiveMissedTurns++
		} else {
			if h.Autopilot {
				h.Autopilot = false
				res.ExitedAutopilot = true
				res.Events = append(res.Events, model.NewEvent(turn, "Command", "AutopilotCleared",
					"house resumed manual command", []model.HouseID{h.ID}))
			}
			h.ConsecutiveMissedTurns = 0
		}
		if h.ConsecutiveMissedTurns >= 3 && !h.Autopilot {
			h.Autopilot = true
			res.EnteredAutopilot = true
			res.Events = append(res.Events, model.NewEvent(turn, "Income", "AutopilotEngaged",
				"house defaulted to autopilot after 3 missed submissions", []model.HouseID{h.ID}))
		}

		out = append(out, res)
	}
	return out
}

// forceSeekHome converts every one of a collapsed house's fleets to a
// SeekHome standing order, per §4.10's "fleets forced to seek-home".
func forceSeekHome(s *store.GameState, h model.HouseID) {
	for _, f := range s.FleetsByOwner(h) {
		s.UpdateFleet(f.ID, func(fl *model.Fleet) {
			fl.StandingOrder = &model.FleetCommand{Fleet: fl.ID, Type: model.CmdSeekHome}
		})
	}
}

// isEliminated reports §4.10's Standard Elimination condition: no
// colonies AND (no fleets OR no fleet carries loaded Marines).
func isEliminated(s *store.GameState, h model.HouseID) bool {
	if len(s.ColoniesByOwner(h)) > 0 {
		return false
	}
	fleets := s.FleetsByOwner(h)
	if len(fleets) == 0 {
		return true
	}
	for _, f := range fleets {
		for _, sq := range s.SquadronsOf(f) {
			for _, sh := range s.ShipsOf(sq) {
				if sh.Cargo != nil && sh.Cargo.Kind == model.CargoMarines && sh.Cargo.Quantity > 0 {
					return false
				}
			}
		}
	}
	return true
}

// VictoryResult names the game's outcome, if any.
type VictoryResult struct {
	Decided bool
	Winner  model.HouseID
	Reason  string
}

// EvaluateVictory checks the three victory conditions from §4.10: turn
// limit (highest prestige wins), last-active house, or (if configured)
// first to a prestige threshold. When exactly two active houses
// remain, their mutual relation is forced to Enemy and locked.
func EvaluateVictory(cfg config.Config, s *store.GameState, turn int) VictoryResult {
	active := activeHouses(s)
	if len(active) == 2 {
		lockEnemyRelation(active[0], active[1])
	}
	if len(active) <= 1 {
		if len(active) == 1 {
			return VictoryResult{Decided: true, Winner: active[0].ID, Reason: "LastActive"}
		}
		return VictoryResult{Decided: true, Reason: "NoActiveHouses"}
	}

	if cfg.VictoryPrestige != nil {
		for _, h := range active {
			if h.Prestige >= *cfg.VictoryPrestige {
				return VictoryResult{Decided: true, Winner: h.ID, Reason: "PrestigeThreshold"}
			}
		}
	}

	if cfg.VictoryTurnLimit > 0 && turn >= cfg.VictoryTurnLimit {
		sort.Slice(active, func(i, j int) bool { return active[i].Prestige > active[j].Prestige })
		return VictoryResult{Decided: true, Winner: active[0].ID, Reason: "TurnLimit"}
	}
	return VictoryResult{}
}

func activeHouses(s *store.GameState) []*model.House {
	var out []*model.House
	for _, h := range s.AllHouses() {
		if !h.Eliminated {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func lockEnemyRelation(a, b *model.House) {
	a.Diplomacy[b.ID] = model.PostureEnemy
	b.Diplomacy[a.ID] = model.PostureEnemy
}
