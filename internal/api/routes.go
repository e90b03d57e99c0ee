package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"ec4x/internal/model"
	"ec4x/internal/engine"
	"ec4x/pkg/dispatcher"
)

// routes registers the four engine operations, each wrapped with
// dispatcher.WithSafetyNet exactly like the teacher's Server.route.
func (s *Server) routes() {
	s.route("POST", "/games", s.createGame())
	s.route("POST", "/games/[a-zA-Z0-9-]+/commands/[0-9]+", s.submitCommands())
	s.route("POST", "/games/[a-zA-Z0-9-]+/turns/close", s.closeTurn())
	s.route("GET", "/games/[a-zA-Z0-9-]+/views/[0-9]+", s.getView())
}

func (s *Server) route(method string, path string, handler http.HandlerFunc) {
	s.router.HandleFunc(path, dispatcher.WithSafetyNet(s.log, handler)).Methods(method)
}

// pathSegments splits the request path into its '/'-separated tokens,
// mirroring the teacher's splitRouteElements but kept local since that
// helper is unexported in pkg/handlers.
func pathSegments(r *http.Request) []string {
	trimmed := strings.Trim(r.URL.Path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// createGameRequest is the wire shape for POST /games.
type createGameRequest struct {
	Rings    int               `json:"rings"`
	MapSeed  int64             `json:"mapSeed"`
	TurnSeed int64             `json:"turnSeed"`
	Houses   []engine.HouseSeed `json:"houses"`
}

func (s *Server) createGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createGameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		id, _, views := s.eng.NewGame(engine.NewGameOptions{
			Cfg:      s.cfgForNewGame(),
			Rings:    req.Rings,
			MapSeed:  req.MapSeed,
			TurnSeed: req.TurnSeed,
			Houses:   req.Houses,
		})

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"gameId": id.String(),
			"views":  views,
		})
	}
}

func (s *Server) submitCommands() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		segs := pathSegments(r)
		if len(segs) != 4 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("malformed route"))
			return
		}

		gameID, err := parseGameID(segs[1])
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		house, err := parseHouseID(segs[3])
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		turn, err := strconv.Atoi(r.URL.Query().Get("turn"))
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("missing or invalid \"turn\" query parameter"))
			return
		}

		var pkt model.CommandPacket
		if err := json.NewDecoder(r.Body).Decode(&pkt); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		if err := s.eng.SubmitCommands(gameID, house, pkt, turn); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]string{"status": "ack"})
	}
}

func (s *Server) closeTurn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		segs := pathSegments(r)
		if len(segs) != 4 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("malformed route"))
			return
		}

		gameID, err := parseGameID(segs[1])
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		result, deltas, err := s.eng.CloseTurn(gameID)
		if err != nil {
			writeError(w, http.StatusConflict, err)
			return
		}

		if s.store != nil {
			_ = s.store.AppendTurnResult(r.Context(), gameID, result)
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"result": result,
			"deltas": deltas,
		})
	}
}

func (s *Server) getView() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		segs := pathSegments(r)
		if len(segs) != 4 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("malformed route"))
			return
		}

		gameID, err := parseGameID(segs[1])
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		house, err := parseHouseID(segs[3])
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		turn, _ := strconv.Atoi(r.URL.Query().Get("turn"))

		view, err := s.eng.GetView(gameID, house, turn)
		if err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}

		writeJSON(w, http.StatusOK, view)
	}
}

func parseGameID(raw string) (model.GameID, error) {
	id, err := model.ParseGameID(raw)
	if err != nil {
		return model.GameID{}, fmt.Errorf("invalid game id %q: %v", raw, err)
	}
	return id, nil
}

func parseHouseID(raw string) (model.HouseID, error) {
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid house id %q: %v", raw, err)
	}
	return model.HouseID(n), nil
}
