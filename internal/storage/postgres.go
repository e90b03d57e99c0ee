package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"ec4x/internal/fow"
	"ec4x/internal/model"
	"ec4x/internal/orchestrator"
	"ec4x/pkg/db"
)

// Postgres is a jackc/pgx-backed Store, grounded on the teacher's
// pkg/db.DB connection wrapper (retry-until-online pool) and
// internal/data/*_proxy.go's JSON-marshal-then-insert convention
// (account_proxy.go's Create: marshal the whole struct, pass it as one
// JSON argument to a single parameterized statement) -- generalized
// from "insert one typed row per column" to "insert one JSONB payload
// per turn/view", since a TurnResult's shape is a tree of
// resolver-specific sub-results rather than a single flat row.
//
// Persistence operations are logged through zerolog rather than the
// in-game pkg/logger: this is a distinct stream (storage plumbing, not
// game events) that a deployment typically ships to a different sink.
type Postgres struct {
	dbase *db.DB
	log   zerolog.Logger
}

// NewPostgres wraps an already-connected db.DB. Schema management
// (creating turn_results/player_views) is the caller's job, mirroring
// the teacher's convention of provisioning tables via migration scripts
// rather than from proxy code.
func NewPostgres(dbase *db.DB, log zerolog.Logger) *Postgres {
	if dbase == nil {
		panic(fmt.Errorf("cannot create storage.Postgres from a nil DB"))
	}
	return &Postgres{dbase: dbase, log: log}
}

func (p *Postgres) AppendTurnResult(ctx context.Context, game model.GameID, result orchestrator.TurnResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal turn %d result for game %s: %v", result.Turn, game, err)
	}

	query := "insert into turn_results (game_id, turn, payload) values ($1, $2, $3)"
	if _, err := p.dbase.DBExecute(query, game.String(), result.Turn, string(payload)); err != nil {
		return fmt.Errorf("could not persist turn %d result for game %s: %v", result.Turn, game, err)
	}

	p.log.Info().Str("game", game.String()).Int("turn", result.Turn).Msg("appended turn result")
	return nil
}

func (p *Postgres) LoadTurnResult(ctx context.Context, game model.GameID, turn int) (orchestrator.TurnResult, error) {
	var result orchestrator.TurnResult

	query := "select payload from turn_results where game_id = $1 and turn = $2"
	rows, err := p.dbase.DBQuery(query, game.String(), turn)
	if err != nil {
		return result, fmt.Errorf("could not query turn %d result for game %s: %v", turn, game, err)
	}

	if !rows.Next() {
		return result, ErrNotFound
	}

	var payload string
	if err := rows.Scan(&payload); err != nil {
		return result, fmt.Errorf("could not read turn %d result for game %s: %v", turn, game, err)
	}
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return result, fmt.Errorf("could not decode turn %d result for game %s: %v", turn, game, err)
	}

	return result, nil
}

func (p *Postgres) SaveView(ctx context.Context, game model.GameID, house model.HouseID, turn int, view fow.PlayerView) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("could not marshal view for house %d turn %d: %v", house, turn, err)
	}

	query := "insert into player_views (game_id, house_id, turn, payload) values ($1, $2, $3, $4)"
	if _, err := p.dbase.DBExecute(query, game.String(), uint32(house), turn, string(payload)); err != nil {
		return fmt.Errorf("could not persist view for house %d turn %d: %v", house, turn, err)
	}

	p.log.Info().Str("game", game.String()).Uint32("house", uint32(house)).Int("turn", turn).Msg("saved player view")
	return nil
}

func (p *Postgres) LoadView(ctx context.Context, game model.GameID, house model.HouseID, turn int) (fow.PlayerView, error) {
	var view fow.PlayerView

	query := "select payload from player_views where game_id = $1 and house_id = $2 and turn = $3"
	rows, err := p.dbase.DBQuery(query, game.String(), uint32(house), turn)
	if err != nil {
		return view, fmt.Errorf("could not query view for house %d turn %d: %v", house, turn, err)
	}

	if !rows.Next() {
		return view, ErrNotFound
	}

	var payload string
	if err := rows.Scan(&payload); err != nil {
		return view, fmt.Errorf("could not read view for house %d turn %d: %v", house, turn, err)
	}
	if err := json.Unmarshal([]byte(payload), &view); err != nil {
		return view, fmt.Errorf("could not decode view for house %d turn %d: %v", house, turn, err)
	}

	return view, nil
}
