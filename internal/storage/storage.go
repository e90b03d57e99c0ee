// Package storage implements the persistence boundary named in spec.md
// §6: turn results and per-house views outlive a single engine process
// so a restarted server (or a separate reporting job) can replay or
// inspect history without re-running resolution. The engine itself
// never depends on a concrete Store -- internal/engine callers own the
// choice of backend, matching the teacher's separation between
// internal/game resolution and pkg/db/internal/data persistence.
package storage

import (
	"context"

	"ec4x/internal/fow"
	"ec4x/internal/model"
	"ec4x/internal/orchestrator"
)

// Store is the persistence boundary spec.md §6 requires of any engine
// host: append-only turn history, plus the latest (and historical)
// per-house view so a client reconnecting mid-game can catch up.
type Store interface {
	// AppendTurnResult records one turn's resolution output. Called
	// once per CloseTurn; callers must not call it twice for the same
	// (game, turn) pair -- Store implementations are free to treat a
	// duplicate as an error rather than silently overwrite history.
	AppendTurnResult(ctx context.Context, game model.GameID, result orchestrator.TurnResult) error

	// LoadTurnResult retrieves a previously appended turn result.
	LoadTurnResult(ctx context.Context, game model.GameID, turn int) (orchestrator.TurnResult, error)

	// SaveView persists one house's filtered view for a turn, letting a
	// reconnecting client fetch a turn it missed without re-deriving it
	// from the live GameState (which only ever holds the latest turn).
	SaveView(ctx context.Context, game model.GameID, house model.HouseID, turn int, view fow.PlayerView) error

	// LoadView retrieves a previously saved view.
	LoadView(ctx context.Context, game model.GameID, house model.HouseID, turn int) (fow.PlayerView, error)
}

// ErrNotFound is returned by Load* methods when no record matches the
// requested key.
var ErrNotFound = model.ErrNotFound
