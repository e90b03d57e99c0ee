// Package orchestrator implements C11: the fixed four-phase turn
// driver -- Command, Production, Conflict, Income -- that sequences
// every other resolver package against one GameState per spec.md
// §4.11. The teacher has no turn concept at all (OGame-style servers
// react to player actions as they arrive); the nearest analogue is
// pkg/background.Process, the teacher's periodic-retry task runner,
// which this package reuses verbatim for the Command Phase deadline
// watcher, and internal/locker.ConcurrentLocker (here pkg/locker),
// reused for guarding the one piece of state with genuinely concurrent
// writers before a turn closes: the pending command-packet map, which
// transport goroutines for every connected house may write to at once.
package orchestrator

import (
	"context"
	"sort"
	"time"

	"ec4x/internal/combat"
	"ec4x/internal/config"
	"ec4x/internal/construction"
	"ec4x/internal/economy"
	"ec4x/internal/espionage"
	"ec4x/internal/fow"
	"ec4x/internal/model"
	"ec4x/internal/movement"
	"ec4x/internal/prestige"
	"ec4x/internal/research"
	"ec4x/internal/rngstream"
	"ec4x/internal/store"
	"ec4x/pkg/background"
	"ec4x/pkg/locker"
	"ec4x/pkg/logger"
)

// ownershipTransfer records a colony capture decided during one turn's
// Conflict Phase, applied at the start of the *next* turn's Production
// Phase -- the phase order itself (Production precedes Conflict) means
// a same-turn capture cannot take economic effect until the following
// turn, exactly as spec.md §4.11's Production Phase bullet "ownership
// transfers from previous combats" describes.
type ownershipTransfer struct {
	Colony   model.ColonyID
	NewOwner model.HouseID
}

// Game owns one game instance's mutable turn-loop state: the entity
// store, the deterministic RNG stream, the monotonic id generator, the
// turn counter, and the command packets accumulated so far this turn.
// Per spec.md §5, GameState is owned exclusively by the orchestrator;
// every resolver package receives it plus a turn number and returns a
// result, never holding a reference across calls.
type Game struct {
	ID    string
	Cfg   config.Config
	State *store.GameState
	RNG   *rngstream.Stream
	IDs   *model.IDGenerator
	Turn  int

	locks   *locker.ConcurrentLocker
	pending map[model.HouseID]*model.CommandPacket

	pendingTransfers []ownershipTransfer
	pendingEspionage []espionage.Request

	deadline *background.Process
}

// NewGame builds a fresh turn-loop driver for one game instance,
// starting at turn 1. `locks` is optional (nil disables striped
// locking, suitable for single-goroutine callers such as tests).
func NewGame(id string, cfg config.Config, s *store.GameState, seed int64, locks *locker.ConcurrentLocker) *Game {
	return &Game{
		ID:      id,
		Cfg:     cfg,
		State:   s,
		RNG:     rngstream.New(seed),
		IDs:     model.NewIDGenerator(0),
		Turn:    1,
		locks:   locks,
		pending: make(map[model.HouseID]*model.CommandPacket),
	}
}

// errHouseEliminated is returned by SubmitCommands for an eliminated
// house's packet; spec.md §4.10 only forces *standing* orders on a
// collapsed house, but an eliminated house has left the game entirely.
var errHouseEliminated = model.NewValidationError("HOUSE_ELIMINATED", model.ErrNotOwner)

// SubmitCommands accepts one house's CommandPacket for the
// currently-open Command Phase. Safe for concurrent callers: the
// pending map is guarded by this game's striped lock when one is
// configured.
func (g *Game) SubmitCommands(h model.HouseID, pkt model.CommandPacket) error {
	house, ok := g.State.House(h)
	if !ok {
		return model.ErrNotFound
	}
	if house.Eliminated {
		return errHouseEliminated
	}

	if g.locks != nil {
		lock := g.locks.Acquire(g.ID)
		lock.Lock()
		defer func() {
			lock.Release()
			g.locks.Release(lock)
		}()
	}

	pkt.House = h
	g.pending[h] = &pkt
	return nil
}

// WatchDeadline starts a background.Process that polls every
// `interval` for "every non-autopilot house has submitted", invoking
// `onReady` the first time that becomes true -- the transport layer is
// expected to call CloseTurn from onReady. This is the only place in
// the codebase the command deadline is enforced in real time; CloseTurn
// itself does not block, matching spec.md §5's "the only blocking
// operations are ... waiting for house command packets up to the turn
// deadline" (the wait lives here, not inside a resolver).
func (g *Game) WatchDeadline(interval time.Duration, log logger.Logger, onReady func()) *background.Process {
	fired := false
	p := background.NewProcess(interval, log).
		WithModule("orchestrator.deadline").
		WithOperation(func() (bool, error) {
			if !fired && g.allNonAutopilotSubmitted() {
				fired = true
				onReady()
			}
			return true, nil
		})
	g.deadline = p
	return p
}

func (g *Game) allNonAutopilotSubmitted() bool {
	for _, h := range g.State.AllHouses() {
		if h.Eliminated || h.Autopilot {
			continue
		}
		if _, ok := g.pending[h.ID]; !ok {
			return false
		}
	}
	return true
}

// TurnResult is everything one CloseTurn call produced, before
// per-house Fog-of-War filtering (internal/fow is the projector that
// consumes this).
type TurnResult struct {
	Turn      int
	Events    []model.Event
	Combat    []combat.SystemResult
	Espionage []espionage.Outcome
	Economy   []economy.HouseResult
	Lifecycle []prestige.LifecycleResult
	Victory   prestige.VictoryResult
}

// CloseTurn runs the full Command->Production->Conflict->Income
// sequence once and advances the turn counter, per spec.md §4.11. If
// the deadline watcher is still running it is stopped, since the
// Command Phase it guards has now definitively closed.
func (g *Game) CloseTurn() TurnResult {
	if g.deadline != nil {
		g.deadline.Stop()
		g.deadline = nil
	}

	turn := g.Turn
	g.RNG.BeginTurn(turn)

	var events []model.Event

	submitted, cmdEvents := g.closeCommandPhase(turn)
	events = append(events, cmdEvents...)

	events = append(events, g.runProductionPhase(turn)...)

	espOutcomes, combatResults, conflictEvents := g.runConflictPhase(turn)
	events = append(events, conflictEvents...)

	econResults, lifecycle, victory, incomeEvents := g.runIncomePhase(turn, submitted)
	events = append(events, incomeEvents...)

	g.State.SweepDestroyed()
	g.Turn++

	return TurnResult{
		Turn:      turn,
		Events:    events,
		Combat:    combatResults,
		Espionage: espOutcomes,
		Economy:   econResults,
		Lifecycle: lifecycle,
		Victory:   victory,
	}
}

// closeCommandPhase applies every pending packet to its house, fills
// in an autopilot default for any non-eliminated house that did not
// submit, and returns which houses actually submitted this turn (used
// by the Income Phase to track the 3-missed-turn autopilot trigger).
func (g *Game) closeCommandPhase(turn int) (map[model.HouseID]bool, []model.Event) {
	submitted := make(map[model.HouseID]bool)
	var events []model.Event

	for _, h := range g.State.AllHouses() {
		if h.Eliminated {
			continue
		}
		pkt, ok := g.pending[h.ID]
		if !ok {
			g.applyAutopilotTemplate(h)
			continue
		}
		submitted[h.ID] = true
		events = append(events, g.applyCommandPacket(turn, h, pkt)...)
	}

	g.pending = make(map[model.HouseID]*model.CommandPacket)
	return submitted, events
}

// applyAutopilotTemplate leaves a missing house's fleets exactly as
// they stand (every fleet already carries a StandingOrder from the
// last turn it was actually commanded, or none at all, which Execute
// treats as Hold) -- per spec.md §4.10, autopilot is "standing orders
// only, defensive builds", i.e. no new orders are issued at all.
func (g *Game) applyAutopilotTemplate(h *model.House) {
	_ = h
}

func (g *Game) applyCommandPacket(turn int, h *model.House, pkt *model.CommandPacket) []model.Event {
	var events []model.Event

	h.TaxRate = pkt.TaxRate
	for target, posture := range pkt.DiplomaticChanges {
		h.Diplomacy[target] = posture
	}
	research.AllocatePools(h, pkt.ERPAllocation, pkt.SRPAllocation, pkt.TRPAllocation)
	h.Espionage.EBP = h.Espionage.EBP.Add(pkt.EBPInvestment)
	h.Espionage.CIP = h.Espionage.CIP.Add(pkt.CIPInvestment)

	for _, order := range pkt.Builds {
		events = append(events, g.queueBuild(turn, h, order)...)
	}

	if pkt.Espionage != nil {
		g.pendingEspionage = append(g.pendingEspionage, espionage.Request{House: h.ID, Action: *pkt.Espionage})
	}

	for _, cmd := range pkt.Fleets {
		f, ok := g.State.Fleet(cmd.Fleet)
		if !ok || f.Owner != h.ID {
			continue
		}
		g.State.UpdateFleet(f.ID, func(fl *model.Fleet) {
			order := cmd
			fl.StandingOrder = &order
			fl.ROE = cmd.ROE
		})
	}

	return events
}

// queueBuild dispatches one colony build order per spec.md §4.6. Only
// ProjectShip routes through internal/construction's cost-and-queue
// path today; facility, ground unit and direct IU-investment orders
// are applied here as colony-local mutations debited from treasury
// immediately, since spec.md §4.6 gives them no dock-capacity queueing
// requirement the way ships have. ProjectShipRepair is out of scope:
// CommandPacket's ColonyBuildOrder has no target-ship field to route a
// repair through, so a repair request can only be expressed once
// internal/engine's command validation grows that field; until then it
// is rejected as a no-op with an event rather than silently dropped.
func (g *Game) queueBuild(turn int, h *model.House, order model.ColonyBuildOrder) []model.Event {
	c, ok := g.State.Colony(order.Colony)
	if !ok || c.Owner != h.ID {
		return nil
	}

	switch order.Subject {
	case model.ProjectShip:
		var host model.FacilityRef
		if order.UseSpaceport && len(c.Spaceports) > 0 {
			host = model.FacilityRef{Kind: model.FacilitySpaceport, Spaceport: c.Spaceports[0]}
		} else if len(c.Shipyards) > 0 {
			host = model.FacilityRef{Kind: model.FacilityShipyard, Shipyard: c.Shipyards[0]}
		}
		_, err := construction.QueueShip(g.Cfg, g.State, h, c, model.ConstructionProjectID(g.IDs.Next()), order.ShipClass, host, order.UseSpaceport)
		if err != nil {
			return []model.Event{model.NewEvent(turn, "Command", "BuildRejected", err.Error(), []model.HouseID{h.ID}, uint32(c.ID))}
		}
		return nil

	case model.ProjectFacility:
		stats := g.Cfg.FacilityTable[order.FacilityKind]
		if h.Treasury.LessThan(stats.BasePC) {
			return []model.Event{model.NewEvent(turn, "Command", "BuildRejected", model.ErrInsufficientTreasury.Error(), []model.HouseID{h.ID}, uint32(c.ID))}
		}
		h.Treasury = h.Treasury.Sub(stats.BasePC)
		p := &model.ConstructionProject{
			ID: model.ConstructionProjectID(g.IDs.Next()), Colony: c.ID,
			Subject: model.ProjectFacility, FacilityKind: order.FacilityKind,
			Cost: stats.BasePC, TurnsRemaining: 2,
		}
		g.State.CreateConstructionProject(p)
		c.ConstructionQueue = append(c.ConstructionQueue, p.ID)
		return nil

	case model.ProjectGroundUnit:
		stats := g.Cfg.GroundTable[order.GroundKind]
		if h.Treasury.LessThan(stats.PC) {
			return []model.Event{model.NewEvent(turn, "Command", "BuildRejected", model.ErrInsufficientTreasury.Error(), []model.HouseID{h.ID}, uint32(c.ID))}
		}
		h.Treasury = h.Treasury.Sub(stats.PC)
		p := &model.ConstructionProject{
			ID: model.ConstructionProjectID(g.IDs.Next()), Colony: c.ID,
			Subject: model.ProjectGroundUnit, GroundKind: order.GroundKind,
			Cost: stats.PC, TurnsRemaining: 1,
		}
		g.State.CreateConstructionProject(p)
		c.ConstructionQueue = append(c.ConstructionQueue, p.ID)
		return nil

	case model.ProjectIUInvestment:
		if h.Treasury.LessThan(order.IUAmount) {
			return []model.Event{model.NewEvent(turn, "Command", "BuildRejected", model.ErrInsufficientTreasury.Error(), []model.HouseID{h.ID}, uint32(c.ID))}
		}
		h.Treasury = h.Treasury.Sub(order.IUAmount)
		c.IU = c.IU.Add(order.IUAmount)
		return nil

	default:
		return []model.Event{model.NewEvent(turn, "Command", "BuildRejected", "unsupported build subject", []model.HouseID{h.ID}, uint32(c.ID))}
	}
}

// runProductionPhase applies last turn's combat ownership transfers,
// ticks every colony's construction queue (materializing completions
// into real entities), charges fleet maintenance, and executes fleet
// movement orders, per spec.md §4.11's Production Phase bullet list.
func (g *Game) runProductionPhase(turn int) []model.Event {
	var events []model.Event

	for _, t := range g.pendingTransfers {
		g.State.UpdateColony(t.Colony, func(c *model.Colony) { c.Owner = t.NewOwner })
	}
	g.pendingTransfers = nil

	for _, c := range stableColonies(g.State) {
		h, ok := g.State.House(c.Owner)
		if !ok {
			continue
		}
		cst := h.Tech.Level("CST")
		dock := construction.DockCapacity(g.Cfg, c, cst)
		tick := construction.TickQueue(g.Cfg, g.State, h, c, turn, dock)
		events = append(events, tick.Events...)
		events = append(events, g.materializeCompleted(turn, c, tick.Completed)...)
	}

	for _, h := range g.State.AllHouses() {
		if h.Eliminated {
			continue
		}
		maint := economy.ResolveMaintenance(g.State, g.Cfg, turn, h)
		events = append(events, maint.Events...)
		prestige.ApplyEvents(g.Cfg, g.State, maint.PrestigeDelta)
	}

	events = append(events, g.runFleetMovement(turn)...)

	return events
}

// materializeCompleted turns finished construction projects into real
// store entities -- internal/construction deliberately stops at
// "ready for the caller to materialize" (see TickResult's doc comment)
// since it has no id generator of its own and the orchestrator is the
// only component allowed to mint new entity ids (§5's single-writer
// model).
func (g *Game) materializeCompleted(turn int, c *model.Colony, completed []*model.ConstructionProject) []model.Event {
	var events []model.Event
	for _, p := range completed {
		switch p.Subject {
		case model.ProjectShip:
			stats := g.Cfg.Ship(p.ShipClass)
			shipID := model.ShipID(g.IDs.Next())
			sh := &model.Ship{ID: shipID, Class: p.ShipClass, Owner: c.Owner, Hull: model.HullUndamaged, CommandCost: stats.CommandCost}
			sqID := model.SquadronID(g.IDs.Next())
			sh.Squadron = sqID
			g.State.CreateShip(sh)
			bucket := model.BucketEscort
			if stats.CommandRating >= 7 {
				bucket = model.BucketCapital
			}
			if p.ShipClass == model.ShipRaider {
				bucket = model.BucketRaider
			}
			sq := &model.Squadron{ID: sqID, Owner: c.Owner, Flagship: shipID, CommandRating: stats.CommandRating, Bucket: bucket, Hull: model.HullUndamaged}
			g.State.CreateSquadron(sq)
			c.UnassignedSquadrons = append(c.UnassignedSquadrons, sqID)
			events = append(events, model.NewEvent(turn, "Production", "ShipCommissioned",
				"construction project completed", []model.HouseID{c.Owner}, uint32(shipID)))

		case model.ProjectFacility:
			switch p.FacilityKind {
			case model.FacilityStarbase:
				id := model.StarbaseID(g.IDs.Next())
				g.State.CreateStarbase(id, &model.Facility{Kind: model.FacilityStarbase, Colony: c.ID, Hull: model.HullUndamaged})
				c.Starbases = append(c.Starbases, id)
			case model.FacilitySpaceport:
				id := model.SpaceportID(g.IDs.Next())
				g.State.CreateSpaceport(id, &model.Facility{Kind: model.FacilitySpaceport, Colony: c.ID, Hull: model.HullUndamaged})
				c.Spaceports = append(c.Spaceports, id)
			case model.FacilityShipyard:
				id := model.ShipyardID(g.IDs.Next())
				g.State.CreateShipyard(id, &model.Facility{Kind: model.FacilityShipyard, Colony: c.ID, Hull: model.HullUndamaged})
				c.Shipyards = append(c.Shipyards, id)
			case model.FacilityDrydock:
				id := model.DrydockID(g.IDs.Next())
				g.State.CreateDrydock(id, &model.Facility{Kind: model.FacilityDrydock, Colony: c.ID, Hull: model.HullUndamaged})
				c.Drydocks = append(c.Drydocks, id)
			}
			events = append(events, model.NewEvent(turn, "Production", "FacilityBuilt",
				"facility construction completed", []model.HouseID{c.Owner}))

		case model.ProjectGroundUnit:
			stats := g.Cfg.GroundTable[p.GroundKind]
			id := model.GroundUnitID(g.IDs.Next())
			g.State.CreateGroundUnit(&model.GroundUnit{ID: id, Kind: p.GroundKind, Colony: c.ID, Owner: c.Owner, AS: stats.AS, DS: stats.DS, Hull: model.HullUndamaged})
			switch p.GroundKind {
			case model.GroundArmy:
				c.Armies = append(c.Armies, id)
			case model.GroundMarine:
				c.Marines = append(c.Marines, id)
			case model.GroundBattery:
				c.GroundBatteries = append(c.GroundBatteries, id)
			}
			events = append(events, model.NewEvent(turn, "Production", "GroundUnitRaised",
				"ground unit construction completed", []model.HouseID{c.Owner}))
		}
	}
	return events
}

// runFleetMovement executes every fleet's standing order in
// deterministic (houseId, fleetId) order per spec.md §5, resolving
// same-system Colonize races before any single colonization actually
// mutates the store.
func (g *Game) runFleetMovement(turn int) []model.Event {
	var events []model.Event

	fleets := stableFleets(g.State)
	colonizeAttempts := map[model.SystemID][]*model.Fleet{}
	var movers []*model.Fleet

	for _, f := range fleets {
		if f.StandingOrder == nil {
			continue
		}
		if f.StandingOrder.Type == model.CmdColonize {
			colonizeAttempts[f.System] = append(colonizeAttempts[f.System], f)
			continue
		}
		movers = append(movers, f)
	}

	for _, f := range movers {
		res, err := movement.Execute(g.Cfg, g.State, turn, f, *f.StandingOrder, 0)
		if err != nil {
			continue
		}
		events = append(events, res.Events...)
	}

	if len(colonizeAttempts) > 0 {
		winners := movement.ResolveColonizationRaces(g.State, g.Cfg, colonizeAttempts)
		for sys, fleets := range colonizeAttempts {
			winner := winners[sys]
			for _, f := range fleets {
				if f.ID != winner.ID {
					events = append(events, model.NewEvent(turn, "Production", "ColonizeFailed",
						"lost the colonization race for this system", []model.HouseID{f.Owner}, uint32(sys)))
					continue
				}
				res, err := movement.Execute(g.Cfg, g.State, turn, f, *f.StandingOrder, model.ColonyID(g.IDs.Next()))
				if err != nil {
					continue
				}
				events = append(events, res.Events...)
			}
		}
	}

	return events
}

// runConflictPhase captures pre-combat intel, resolves espionage (all
// houses simultaneously), then combat (per contested system, stable
// systemId order), per spec.md §4.11/§4.9/§4.12. Colony captures
// decided here are staged into pendingTransfers rather than applied
// immediately -- see ownershipTransfer's doc comment.
func (g *Game) runConflictPhase(turn int) ([]espionage.Outcome, []combat.SystemResult, []model.Event) {
	var events []model.Event

	fow.CapturePreCombatIntel(g.State, turn)

	espReqs := g.pendingEspionage
	g.pendingEspionage = nil
	espOutcomes := espionage.Resolve(g.RNG.Sub("espionage"), g.Cfg, g.State, turn, espReqs)
	for _, o := range espOutcomes {
		events = append(events, o.Events...)
		prestige.ApplyEvents(g.Cfg, g.State, o.Prestige)
	}

	combatResults := combat.Resolve(g.RNG, g.Cfg, g.State, turn)
	for _, sr := range combatResults {
		if sr.Space != nil {
			events = append(events, sr.Space.Events...)
			prestige.ApplyEvents(g.Cfg, g.State, sr.Space.PrestigeDelta)
		}
		if sr.Orbital != nil {
			events = append(events, sr.Orbital.Events...)
			prestige.ApplyEvents(g.Cfg, g.State, sr.Orbital.PrestigeDelta)
		}
		if sr.Planetary != nil {
			events = append(events, sr.Planetary.Events...)
			prestige.ApplyEvents(g.Cfg, g.State, sr.Planetary.PrestigeDelta)
			if sr.Planetary.ColonyCaptured {
				if c, ok := g.State.ColonyBySystem(sr.System); ok {
					g.pendingTransfers = append(g.pendingTransfers, ownershipTransfer{Colony: c.ID, NewOwner: sr.Planetary.NewOwner})
				}
			}
		}
	}

	return espOutcomes, combatResults, events
}

// runIncomePhase computes GCO/NCV and tax effects, re-derives lifecycle
// flags, and evaluates victory, per spec.md §4.11.
func (g *Game) runIncomePhase(turn int, submitted map[model.HouseID]bool) ([]economy.HouseResult, []prestige.LifecycleResult, prestige.VictoryResult, []model.Event) {
	var events []model.Event

	econResults, err := economy.Resolve(context.Background(), g.State, g.Cfg, turn)
	if err != nil {
		panic(&model.InvariantBreach{Phase: "Income", Cause: err})
	}
	for _, r := range econResults {
		if h, ok := g.State.House(r.House); ok {
			h.Treasury = h.Treasury.Add(r.TreasuryGain)
		}
		events = append(events, r.Events...)
		prestige.ApplyEvents(g.Cfg, g.State, r.PrestigeDelta)
	}

	lifecycle := prestige.EvaluateLifecycle(g.State, turn, submitted)
	for _, l := range lifecycle {
		events = append(events, l.Events...)
	}

	victory := prestige.EvaluateVictory(g.Cfg, g.State, turn)

	return econResults, lifecycle, victory, events
}

func stableColonies(s *store.GameState) []*model.Colony {
	out := s.AllColonies()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func stableFleets(s *store.GameState) []*model.Fleet {
	var out []*model.Fleet
	for _, h := range s.AllHouses() {
		out = append(out, s.FleetsByOwner(h.ID)...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Owner != out[j].Owner {
			return out[i].Owner < out[j].Owner
		}
		return out[i].ID < out[j].ID
	})
	return out
}
