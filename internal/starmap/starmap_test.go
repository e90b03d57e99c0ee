package starmap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ec4x/internal/model"
)

func TestGenerateHubHasSixMajorLanes(t *testing.T) {
	systems, homes := Generate(GenOptions{Rings: 2, Seed: 1, Houses: 4})
	require.NotEmpty(t, systems)
	require.Len(t, homes, 4)

	var hub *model.System
	for _, sys := range systems {
		if sys.Coord == (model.AxialCoord{}) {
			hub = sys
		}
	}
	require.NotNil(t, hub)
	require.Len(t, hub.Lanes, 6)
	for _, l := range hub.Lanes {
		require.Equal(t, model.LaneMajor, l.Class)
	}
}

func TestGenerateHomeworldsHaveThreeMajorLanes(t *testing.T) {
	systems, homes := Generate(GenOptions{Rings: 3, Seed: 7, Houses: 3})
	byID := map[model.SystemID]*model.System{}
	for _, sys := range systems {
		byID[sys.ID] = sys
	}
	for _, h := range homes {
		sys := byID[h]
		majors := 0
		for _, l := range sys.Lanes {
			if l.Class == model.LaneMajor {
				majors++
			}
		}
		require.GreaterOrEqual(t, majors, 3)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, homesA := Generate(GenOptions{Rings: 2, Seed: 99, Houses: 4})
	b, homesB := Generate(GenOptions{Rings: 2, Seed: 99, Houses: 4})
	require.Equal(t, len(a), len(b))
	for i := range a {
		require.Equal(t, a[i].Coord, b[i].Coord)
		require.Equal(t, a[i].PlanetClass, b[i].PlanetClass)
	}
	require.Equal(t, homesA, homesB)
}

type fakeLookup struct {
	systems map[model.SystemID]*model.System
	colony  map[model.SystemID]*model.Colony
}

func (f fakeLookup) System(id model.SystemID) (*model.System, bool) {
	s, ok := f.systems[id]
	return s, ok
}

func (f fakeLookup) ColonyBySystem(id model.SystemID) (*model.Colony, bool) {
	c, ok := f.colony[id]
	return c, ok
}

func buildLine(classes ...model.LaneClass) fakeLookup {
	systems := map[model.SystemID]*model.System{}
	for i := 0; i <= len(classes); i++ {
		systems[model.SystemID(i+1)] = model.NewSystem(model.SystemID(i+1), model.AxialCoord{Q: i}, model.StarMain, model.PlanetFertile, 1)
	}
	for i, c := range classes {
		a, b := model.SystemID(i+1), model.SystemID(i+2)
		lane := model.Lane{A: a, B: b, Class: c}
		systems[a].Lanes = append(systems[a].Lanes, lane)
		systems[b].Lanes = append(systems[b].Lanes, lane)
	}
	return fakeLookup{systems: systems, colony: map[model.SystemID]*model.Colony{}}
}

func TestFindPathAcrossMajorLanes(t *testing.T) {
	lk := buildLine(model.LaneMajor, model.LaneMajor)
	path, err := FindPath(lk, 1, 3, FleetComposition{})
	require.NoError(t, err)
	require.Equal(t, []model.SystemID{1, 2, 3}, path)
}

func TestFindPathBlockedByRestrictedForCrippled(t *testing.T) {
	lk := buildLine(model.LaneRestricted)
	_, err := FindPath(lk, 1, 2, FleetComposition{HasCrippled: true})
	require.ErrorIs(t, err, model.ErrNoPath)
}

func TestFindPathBlockedByRestrictedForTransport(t *testing.T) {
	lk := buildLine(model.LaneRestricted)
	_, err := FindPath(lk, 1, 2, FleetComposition{HasETACOrTransport: true})
	require.ErrorIs(t, err, model.ErrNoPath)
}

func TestFindPathMajorAlwaysTraversable(t *testing.T) {
	lk := buildLine(model.LaneMajor)
	path, err := FindPath(lk, 1, 2, FleetComposition{HasCrippled: true, HasETACOrTransport: true})
	require.NoError(t, err)
	require.Equal(t, []model.SystemID{1, 2}, path)
}

func TestJumpAllowanceDefaultsToOne(t *testing.T) {
	lk := buildLine(model.LaneMinor, model.LaneMajor)
	path, err := FindPath(lk, 1, 3, FleetComposition{})
	require.NoError(t, err)
	require.Equal(t, 1, JumpAllowance(lk, path, 1))
}

func TestJumpAllowanceTwoWhenOwnedAndMajor(t *testing.T) {
	lk := buildLine(model.LaneMajor, model.LaneMajor)
	lk.colony[1] = &model.Colony{Owner: 1}
	lk.colony[2] = &model.Colony{Owner: 1}
	lk.colony[3] = &model.Colony{Owner: 1}
	path, err := FindPath(lk, 1, 3, FleetComposition{})
	require.NoError(t, err)
	require.Equal(t, 2, JumpAllowance(lk, path, 1))
}
