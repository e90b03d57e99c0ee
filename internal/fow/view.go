// Package fow implements C12: the per-house PlayerView projector that
// turns one shared GameState into the filtered view each house is
// allowed to see, per spec.md §4.12. The teacher has no fog-of-war
// concept of its own (every account sees its own empire plus whatever
// a planet/fleet detail endpoint returns), so this package generalizes
// the closest idiom it has -- internal/routes' per-request field
// filtering (buildings_filters.go, ships_filters.go: take a full
// row, drop or mask fields the caller isn't entitled to) -- into a
// per-house, per-turn, persistent snapshot rather than a per-request
// filter.
package fow

import (
	"sort"

	"ec4x/internal/model"
	"ec4x/internal/store"
)

// Visibility names how fresh a system's information is to one house.
type Visibility int

const (
	// VisibilityNone means the house has never observed this system.
	VisibilityNone Visibility = iota
	// VisibilityCached means the house has stale intel from a past turn.
	VisibilityCached
	// VisibilityVisible means the house has a fleet or colony here this turn.
	VisibilityVisible
)

// ColonySnapshot is the exact view of a colony a house owns.
type ColonySnapshot struct {
	ID                  model.ColonyID
	Owner               model.HouseID
	PU                  string
	IU                  string
	InfrastructureLevel int
	ShieldLevel         int
	PlanetClass         model.PlanetClass
	Starbases           int
	Spaceports          int
	Shipyards           int
	Drydocks            int
}

// FleetSnapshot is the exact view of a fleet a house owns.
type FleetSnapshot struct {
	ID        model.FleetID
	Owner     model.HouseID
	System    model.SystemID
	Squadrons int
	Standing  model.FleetStanding
}

// IntelEntry is one foreign entity as known to the projecting house,
// at whatever IntelQuality it was gathered -- computed live for
// Visual co-location, read from the house's IntelDB for Spy/Perfect.
type IntelEntry struct {
	Subject      model.IntelSubjectKind
	SubjectID    uint32
	Quality      model.IntelQuality
	SnapshotTurn int
	Fields       map[string]interface{}
}

// SystemView is one system's worth of information as known to one
// house.
type SystemView struct {
	System       model.SystemID
	Visibility   Visibility
	SnapshotTurn int
	OwnColony    *ColonySnapshot
	OwnFleets    []FleetSnapshot
	ForeignIntel []IntelEntry
}

// LeaderboardEntry is the public per-house summary every house can
// see regardless of fog-of-war, per §4.12's "public data".
type LeaderboardEntry struct {
	House      model.HouseID
	Name       string
	Prestige   int
	Eliminated bool
}

// PlayerView is the complete filtered snapshot one house is entitled
// to see for one turn.
type PlayerView struct {
	House      model.HouseID
	Turn       int
	Systems    map[model.SystemID]SystemView
	Leaderboard []LeaderboardEntry
	HouseCount int
}

// Project builds house H's PlayerView of the current GameState at
// `turn`. Own systems (a fleet or colony present this turn) are exact;
// every other system falls back to the house's cached IntelDB entries,
// or VisibilityNone if it has never been observed.
func Project(s *store.GameState, h model.HouseID, turn int) PlayerView {
	view := PlayerView{
		House:      h,
		Turn:       turn,
		Systems:    make(map[model.SystemID]SystemView),
		Leaderboard: leaderboard(s),
	}
	view.HouseCount = len(view.Leaderboard)

	house, ok := s.House(h)
	if !ok {
		return view
	}

	for _, sys := range s.AllSystems() {
		sv := projectSystem(s, house, sys.ID, turn)
		if sv.Visibility != VisibilityNone {
			view.Systems[sys.ID] = sv
		}
	}
	return view
}

func projectSystem(s *store.GameState, house *model.House, sys model.SystemID, turn int) SystemView {
	sv := SystemView{System: sys}

	ownFleets := ownFleetsIn(s, house.ID, sys)
	colony, hasColony := s.ColonyBySystem(sys)
	ownsColony := hasColony && colony.Owner == house.ID

	if len(ownFleets) > 0 || ownsColony {
		sv.Visibility = VisibilityVisible
		sv.SnapshotTurn = turn
		sv.OwnFleets = ownFleets
		if ownsColony {
			sv.OwnColony = snapshotColony(colony)
		}
		sv.ForeignIntel = visualIntel(s, house.ID, sys)
		return sv
	}

	if cached, found := cachedSystemIntel(house, sys); found {
		sv.Visibility = VisibilityCached
		sv.SnapshotTurn = cached.SnapshotTurn
		sv.ForeignIntel = []IntelEntry{cached}
	}
	return sv
}

func ownFleetsIn(s *store.GameState, h model.HouseID, sys model.SystemID) []FleetSnapshot {
	var out []FleetSnapshot
	for _, f := range s.FleetsInSystem(sys) {
		if f.Owner != h {
			continue
		}
		out = append(out, FleetSnapshot{
			ID: f.ID, Owner: f.Owner, System: f.System,
			Squadrons: len(f.Squadrons), Standing: f.Standing,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func snapshotColony(c *model.Colony) *ColonySnapshot {
	return &ColonySnapshot{
		ID: c.ID, Owner: c.Owner, PU: c.PU.String(), IU: c.IU.String(),
		InfrastructureLevel: c.InfrastructureLevel, ShieldLevel: c.ShieldLevel,
		PlanetClass: c.PlanetClass,
		Starbases:   len(c.Starbases), Spaceports: len(c.Spaceports),
		Shipyards: len(c.Shipyards), Drydocks: len(c.Drydocks),
	}
}

func leaderboard(s *store.GameState) []LeaderboardEntry {
	houses := s.AllHouses()
	out := make([]LeaderboardEntry, 0, len(houses))
	for _, h := range houses {
		out = append(out, LeaderboardEntry{House: h.ID, Name: h.Name, Prestige: h.Prestige, Eliminated: h.Eliminated})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].House < out[j].House })
	return out
}
