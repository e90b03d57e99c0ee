package storage

import (
	"context"
	"sync"

	"ec4x/internal/fow"
	"ec4x/internal/model"
	"ec4x/internal/orchestrator"
)

type turnKey struct {
	game model.GameID
	turn int
}

type viewKey struct {
	game  model.GameID
	house model.HouseID
	turn  int
}

// Memory is an in-memory Store, used by this package's own tests and by
// embedders with no database. It is the one deliberately stdlib-only
// piece of this package: no example repo in the pack ships an in-memory
// KV store to ground a richer implementation on, and a map behind a
// mutex is the obvious minimal substitute for jackc/pgx in Postgres.
type Memory struct {
	mu     sync.RWMutex
	turns  map[turnKey]orchestrator.TurnResult
	views  map[viewKey]fow.PlayerView
}

// NewMemory builds an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		turns: make(map[turnKey]orchestrator.TurnResult),
		views: make(map[viewKey]fow.PlayerView),
	}
}

func (m *Memory) AppendTurnResult(ctx context.Context, game model.GameID, result orchestrator.TurnResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns[turnKey{game, result.Turn}] = result
	return nil
}

func (m *Memory) LoadTurnResult(ctx context.Context, game model.GameID, turn int) (orchestrator.TurnResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.turns[turnKey{game, turn}]
	if !ok {
		return orchestrator.TurnResult{}, ErrNotFound
	}
	return r, nil
}

func (m *Memory) SaveView(ctx context.Context, game model.GameID, house model.HouseID, turn int, view fow.PlayerView) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[viewKey{game, house, turn}] = view
	return nil
}

func (m *Memory) LoadView(ctx context.Context, game model.GameID, house model.HouseID, turn int) (fow.PlayerView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.views[viewKey{game, house, turn}]
	if !ok {
		return fow.PlayerView{}, ErrNotFound
	}
	return v, nil
}
