// Package construction implements C6: colony-bound construction and
// repair project queues, dock capacity, full-upfront payment with
// partial cancellation refund, and capacity enforcement for
// fighter/capital squadron caps (a grace period for fighters; excess
// capitals are claimed at once), per spec.md §4.6.
//
// Grounded on the teacher's internal/game/{building_action,
// fixed_cost_action, progress_action,ship_action}.go — each is a
// queued action carrying a cost debited up front and a turns-remaining
// counter decremented once per tick — and on
// internal/model/progress_costs_module.go for the cost-lookup shape.
// This package keeps that queue-with-countdown structure but replaces
// the teacher's DB-backed cost table with config.Config and adds the
// capacity-violation tracking the teacher's building system never
// needed (OGame has no standing unit caps).
package construction

import (
	"github.com/shopspring/decimal"

	"ec4x/internal/config"
	"ec4x/internal/model"
	"ec4x/internal/store"
)

// QueueShip debits the full build cost up front and appends a new
// construction project to the colony's queue. `planetside` selects the
// 2x Spaceport multiplier vs. the 1x Shipyard rate (§4.6).
func QueueShip(cfg config.Config, s *store.GameState, h *model.House, c *model.Colony, nextID model.ConstructionProjectID, class model.ShipClass, host model.FacilityRef, planetside bool) (*model.ConstructionProject, error) {
	stats := cfg.Ship(class)
	mult := decimal.NewFromInt(1)
	if planetside {
		mult = decimal.NewFromInt(2)
	}
	cost := stats.PC.Mul(mult)
	if h.Treasury.LessThan(cost) {
		return nil, model.ErrInsufficientTreasury
	}
	h.Treasury = h.Treasury.Sub(cost)

	p := &model.ConstructionProject{
		ID: nextID, Colony: c.ID, Subject: model.ProjectShip, ShipClass: class,
		Cost: cost, TurnsRemaining: 1,
	}
	if host != (model.FacilityRef{}) {
		p.HostFacility = &host
		p.Vulnerable = true
	}
	s.CreateConstructionProject(p)
	c.ConstructionQueue = append(c.ConstructionQueue, p.ID)
	return p, nil
}

// CancelProject refunds 50% of the project's cost and removes it from
// the queue.
func CancelProject(s *store.GameState, h *model.House, c *model.Colony, id model.ConstructionProjectID) error {
	p, ok := s.ConstructionProject(id)
	if !ok {
		return model.ErrNotFound
	}
	h.Treasury = h.Treasury.Add(p.Cost.Mul(decimal.NewFromFloat(0.5)))
	s.DestroyConstructionProject(id)
	c.ConstructionQueue = removeProject(c.ConstructionQueue, id)
	return nil
}

func removeProject(queue []model.ConstructionProjectID, id model.ConstructionProjectID) []model.ConstructionProjectID {
	out := queue[:0:0]
	for _, q := range queue {
		if q != id {
			out = append(out, q)
		}
	}
	return out
}

// TickResult reports what a colony's queue produced this Production
// Phase tick: completed projects (ready for the caller to materialize
// into entities) and any lost-PP events from host-facility destruction.
type TickResult struct {
	Completed []*model.ConstructionProject
	Events    []model.Event
}

// TickQueue advances every in-progress project in a colony's
// construction queue by one turn, respecting dock capacity for ship
// projects (excess ship projects simply don't tick this turn — they
// stay queued; facility, ground and IU projects use no dock) and
// releasing a project's PP if its host facility was crippled or
// destroyed mid-build (§4.6: "if the host facility is crippled or destroyed
// before completion, the project's PP is lost").
func TickQueue(cfg config.Config, s *store.GameState, h *model.House, c *model.Colony, turn int, dockCapacity int) TickResult {
	var res TickResult
	active := 0
	var kept []model.ConstructionProjectID

	for _, id := range c.ConstructionQueue {
		p, ok := s.ConstructionProject(id)
		if !ok {
			continue
		}
		if p.Vulnerable && hostDestroyed(s, p.HostFacility) {
			res.Events = append(res.Events, model.NewEvent(turn, "Production", "ProjectLost",
				"construction project lost: host facility crippled or destroyed", []model.HouseID{h.ID}, uint32(id)))
			s.DestroyConstructionProject(id)
			continue
		}
		if p.Subject == model.ProjectShip {
			if active >= dockCapacity {
				kept = append(kept, id)
				continue
			}
			active++
		}
		p.TurnsRemaining--
		if p.TurnsRemaining <= 0 {
			res.Completed = append(res.Completed, p)
			s.DestroyConstructionProject(id)
			continue
		}
		kept = append(kept, id)
	}
	c.ConstructionQueue = kept
	return res
}

// hostDestroyed reports whether the host facility is gone, crippled or
// destroyed.
func hostDestroyed(s *store.GameState, ref *model.FacilityRef) bool {
	if ref == nil {
		return false
	}
	switch ref.Kind {
	case model.FacilityStarbase:
		f, ok := s.Starbase(ref.Starbase)
		return !ok || f.Hull != model.HullUndamaged
	case model.FacilitySpaceport:
		f, ok := s.Spaceport(ref.Spaceport)
		return !ok || f.Hull != model.HullUndamaged
	case model.FacilityShipyard:
		f, ok := s.Shipyard(ref.Shipyard)
		return !ok || f.Hull != model.HullUndamaged
	case model.FacilityDrydock:
		f, ok := s.Drydock(ref.Drydock)
		return !ok || f.Hull != model.HullUndamaged
	}
	return false
}

// DockCapacity computes a colony's effective dock capacity from its
// Shipyards' base capacity scaled by CST tier, per §4.6.
func DockCapacity(cfg config.Config, c *model.Colony, cstTier int) int {
	base := len(c.Shipyards) * cfg.FacilityTable[model.FacilityShipyard].DockCapacity
	scaled := decimal.NewFromInt(int64(base)).Mul(cfg.CSTMod(cstTier))
	return int(scaled.IntPart())
}
