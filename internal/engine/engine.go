// Package engine implements the facade named in spec.md §6:
// NewGame/SubmitCommands/CloseTurn/GetView as the only entry points an
// external caller (a transport adapter, a test, a CLI) ever touches.
// Every other package in this module resolves one phase or one
// sub-system; this is where they get assembled into a whole game and
// where the "engine panics, caller does not crash" boundary lives.
//
// The teacher has no direct analogue (OGame exposes HTTP routes
// straight over its game logic, with no intermediate facade), so the
// recovery discipline here is grounded on cmd/oglike_server/main.go's
// top-level `defer recover()` + `debug.Stack()` + `log.Trace(logger.Fatal,
// ...)` pattern -- generalized from "crash the process after logging"
// to "recover, log, and return a typed error" since an engine serving
// many concurrent games cannot let one game's invariant breach take the
// others down with it.
package engine

import (
	"fmt"
	"runtime/debug"
	"sync"

	"ec4x/internal/config"
	"ec4x/internal/fow"
	"ec4x/internal/model"
	"ec4x/internal/orchestrator"
	"ec4x/internal/starmap"
	"ec4x/internal/store"
	"ec4x/pkg/locker"
	"ec4x/pkg/logger"
)

// HouseSeed names one participant to seat at game creation.
type HouseSeed struct {
	Name string
}

// NewGameOptions bundles what NewGame needs beyond the house roster:
// the map size and the deterministic seeds for map generation and the
// per-turn RNG stream (spec.md §5 draws these from separate sources
// since map generation happens once, outside the turn loop).
type NewGameOptions struct {
	Cfg      config.Config
	Rings    int
	MapSeed  int64
	TurnSeed int64
	Houses   []HouseSeed
}

// Engine owns every live game and the shared infrastructure (logger,
// striped locker). The logger is injected at Engine construction time,
// never a package-global, and only the Engine itself logs with it; the
// resolver packages take no logger.
type Engine struct {
	log   logger.Logger
	locks *locker.ConcurrentLocker

	mu    sync.RWMutex
	games map[model.GameID]*gameEntry
}

type gameEntry struct {
	game *orchestrator.Game
	// lastClosedTurn, lastResult and lastViews cache CloseTurn's most
	// recent output so
	// a repeated call for the same (gameId, turnNumber) is idempotent
	// per spec.md §6, rather than re-running resolution a second time.
	lastClosedTurn int
	lastResult     orchestrator.TurnResult
	lastViews      map[model.HouseID]fow.PlayerView
	prevViews      map[model.HouseID]fow.PlayerView
}

// New builds an Engine ready to host games. `locks` may be nil to
// disable striped locking for single-goroutine callers such as tests.
func New(log logger.Logger, locks *locker.ConcurrentLocker) *Engine {
	return &Engine{
		log:   log,
		locks: locks,
		games: make(map[model.GameID]*gameEntry),
	}
}

// NewGame seeds a fresh map and house roster and returns the game's
// handle, its initial authoritative state and the per-house views every
// participant starts with, per spec.md §6's
// `NewGame(config) -> (gameId, GameState0, perHouseViews0)`.
func (e *Engine) NewGame(opts NewGameOptions) (model.GameID, *store.GameState, map[model.HouseID]fow.PlayerView) {
	s := store.NewGameState()

	systems, homeworlds := starmap.Generate(starmap.GenOptions{
		Rings:  opts.Rings,
		Seed:   opts.MapSeed,
		Houses: len(opts.Houses),
	})
	for _, sys := range systems {
		s.CreateSystem(sys)
	}

	byID := make(map[model.SystemID]*model.System, len(systems))
	for _, sys := range systems {
		byID[sys.ID] = sys
	}

	for i, seed := range opts.Houses {
		h := model.NewHouse(model.HouseID(i+1), seed.Name)
		s.CreateHouse(h)

		if i >= len(homeworlds) {
			continue
		}
		home := byID[homeworlds[i]]
		col := model.NewColony(model.ColonyID(i+1), home.ID, h.ID, home.PlanetClass)
		s.CreateColony(col)
	}

	id := model.NewGameID()
	g := orchestrator.NewGame(id.String(), opts.Cfg, s, opts.TurnSeed, e.locks)

	views := make(map[model.HouseID]fow.PlayerView, len(opts.Houses))
	for _, h := range s.AllHouses() {
		views[h.ID] = fow.Project(s, h.ID, g.Turn)
	}

	e.mu.Lock()
	e.games[id] = &gameEntry{game: g, lastViews: views}
	e.mu.Unlock()

	return id, s, views
}

// SubmitCommands forwards one house's packet to the named game's
// currently open Command Phase, per spec.md §6
// `SubmitCommands(gameId, houseId, CommandPacket, turnNumber) -> Ack | ValidationError`.
// A `turnNumber` that does not match the game's current turn is
// rejected as stale rather than silently queued for a future turn.
func (e *Engine) SubmitCommands(id model.GameID, h model.HouseID, pkt model.CommandPacket, turnNumber int) error {
	entry, ok := e.lookup(id)
	if !ok {
		return model.ErrNotFound
	}
	if entry.game.Turn != turnNumber {
		return model.NewValidationError("STALE_TURN", model.ErrSubmittedAfterDeadline, uint32(h))
	}
	return entry.game.SubmitCommands(h, pkt)
}

// CloseTurn runs one full turn of the named game and returns the
// resulting TurnResult plus every house's delta against its previous
// view, per spec.md §6
// `CloseTurn(gameId) -> TurnResult{newState, perHouseDeltas, combatReports, events}`.
// Calling it twice for the same turn returns the cached result instead
// of re-resolving, satisfying the "idempotent per turn" requirement.
//
// Any InvariantBreach raised by a resolver is recovered here, logged at
// Fatal with a full stack trace (grounded on cmd/oglike_server/main.go's
// last-resort handler) and re-surfaced as a typed error -- the engine
// keeps running other games, only this CloseTurn call fails.
func (e *Engine) CloseTurn(id model.GameID) (result orchestrator.TurnResult, deltas map[model.HouseID]fow.Delta, err error) {
	entry, ok := e.lookup(id)
	if !ok {
		return orchestrator.TurnResult{}, nil, model.ErrNotFound
	}

	closingTurn := entry.game.Turn

	e.mu.Lock()
	if entry.lastClosedTurn == closingTurn && closingTurn != 0 {
		cached := entry.lastResult
		e.mu.Unlock()
		return cached, e.diffAll(entry), nil
	}
	e.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			stack := string(debug.Stack())
			e.log.Trace(logger.Fatal, "engine", fmt.Sprintf("game %s crashed closing turn %d: %v (stack: %s)", id, closingTurn, r, stack))
			err = asInvariantBreach(r)
		}
	}()

	result = entry.game.CloseTurn()

	e.mu.Lock()
	entry.lastClosedTurn = closingTurn
	entry.lastResult = result
	entry.prevViews = entry.lastViews
	entry.lastViews = make(map[model.HouseID]fow.PlayerView, len(entry.prevViews))
	for _, h := range entry.game.State.AllHouses() {
		entry.lastViews[h.ID] = fow.Project(entry.game.State, h.ID, entry.game.Turn)
	}
	deltas = e.diffAllLocked(entry)
	e.mu.Unlock()

	return result, deltas, nil
}

// GetView returns one house's current filtered view of the named game,
// per spec.md §6 `GetView(gameId, houseId, turn) -> PlayerView`. The
// `turn` argument is accepted for the caller's bookkeeping but the
// engine only ever holds the latest projection -- history is the
// storage layer's job (internal/storage.LoadView), not the live
// engine's.
func (e *Engine) GetView(id model.GameID, h model.HouseID, turn int) (fow.PlayerView, error) {
	entry, ok := e.lookup(id)
	if !ok {
		return fow.PlayerView{}, model.ErrNotFound
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	view, ok := entry.lastViews[h]
	if !ok {
		return fow.PlayerView{}, model.ErrNotFound
	}
	return view, nil
}

func (e *Engine) lookup(id model.GameID) (*gameEntry, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	entry, ok := e.games[id]
	return entry, ok
}

func (e *Engine) diffAll(entry *gameEntry) map[model.HouseID]fow.Delta {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.diffAllLocked(entry)
}

func (e *Engine) diffAllLocked(entry *gameEntry) map[model.HouseID]fow.Delta {
	out := make(map[model.HouseID]fow.Delta, len(entry.lastViews))
	for h, cur := range entry.lastViews {
		out[h] = fow.Diff(entry.prevViews[h], cur)
	}
	return out
}

// asInvariantBreach normalizes a recovered panic value into the typed
// error spec.md §7 expects callers to see; a panic that isn't already
// an *model.InvariantBreach (e.g. a genuine programmer bug elsewhere)
// is wrapped with an empty phase/entity rather than discarded.
func asInvariantBreach(r interface{}) error {
	if breach, ok := r.(*model.InvariantBreach); ok {
		return breach
	}
	if err, ok := r.(error); ok {
		return &model.InvariantBreach{Cause: err}
	}
	return &model.InvariantBreach{Cause: fmt.Errorf("%v", r)}
}
