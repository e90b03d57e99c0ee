package fow

import (
	"reflect"
	"sort"

	"ec4x/internal/model"
)

// Delta is what changed for one house between two turns' PlayerViews,
// per §4.12's "per-house delta is computed by diffing the previous
// turn's PlayerView snapshot". Systems unchanged since `prev` are
// omitted entirely so a thin client only re-renders what moved.
type Delta struct {
	House       model.HouseID
	Turn        int
	Changed     map[model.SystemID]SystemView
	Removed     []model.SystemID
	Leaderboard []LeaderboardEntry
}

// Diff compares two successive PlayerViews for the same house and
// returns only what changed. `prev` may be the zero value (first turn
// a house has ever been projected), in which case every visible system
// counts as changed.
func Diff(prev, cur PlayerView) Delta {
	d := Delta{House: cur.House, Turn: cur.Turn, Changed: make(map[model.SystemID]SystemView)}

	for sys, sv := range cur.Systems {
		old, existed := prev.Systems[sys]
		if !existed || !reflect.DeepEqual(old, sv) {
			d.Changed[sys] = sv
		}
	}
	for sys := range prev.Systems {
		if _, stillThere := cur.Systems[sys]; !stillThere {
			d.Removed = append(d.Removed, sys)
		}
	}
	sort.Slice(d.Removed, func(i, j int) bool { return d.Removed[i] < d.Removed[j] })

	if !reflect.DeepEqual(prev.Leaderboard, cur.Leaderboard) {
		d.Leaderboard = cur.Leaderboard
	}
	return d
}
