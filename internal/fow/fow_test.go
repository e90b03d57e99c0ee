package fow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ec4x/internal/model"
	"ec4x/internal/store"
)

func seedTwoHouses(t *testing.T) (*store.GameState, model.SystemID, model.SystemID) {
	t.Helper()
	s := store.NewGameState()
	a := model.NewHouse(1, "Atreides")
	b := model.NewHouse(2, "Harkonnen")
	s.CreateHouse(a)
	s.CreateHouse(b)

	sys1 := model.NewSystem(1, model.AxialCoord{Q: 0}, model.StarMain, model.PlanetFertile, 1)
	sys2 := model.NewSystem(2, model.AxialCoord{Q: 1}, model.StarMain, model.PlanetFertile, 1)
	s.CreateSystem(sys1)
	s.CreateSystem(sys2)

	s.CreateColony(model.NewColony(1, sys1.ID, 1, model.PlanetFertile))
	s.CreateColony(model.NewColony(2, sys2.ID, 2, model.PlanetFertile))

	return s, sys1.ID, sys2.ID
}

func TestProjectMarksOwnColonySystemVisible(t *testing.T) {
	s, sys1, _ := seedTwoHouses(t)

	view := Project(s, 1, 1)
	sv, ok := view.Systems[sys1]
	require.True(t, ok)
	require.Equal(t, VisibilityVisible, sv.Visibility)
	require.NotNil(t, sv.OwnColony)
	require.Equal(t, model.HouseID(1), sv.OwnColony.Owner)
}

func TestProjectOmitsNeverObservedSystem(t *testing.T) {
	s, _, sys2 := seedTwoHouses(t)

	view := Project(s, 1, 1)
	_, ok := view.Systems[sys2]
	require.False(t, ok)
}

func TestProjectUsesCachedIntelForUnobservedSystem(t *testing.T) {
	s, _, sys2 := seedTwoHouses(t)
	h1, _ := s.House(1)
	h1.IntelDB[model.IntelKey(model.SubjectSystem, uint32(sys2))] = &model.IntelReport{
		Subject: model.SubjectSystem, SubjectID: uint32(sys2),
		Quality: model.IntelSpy, SnapshotTurn: 3,
		Payload: map[string]interface{}{"iu": "40"},
	}

	view := Project(s, 1, 5)
	sv, ok := view.Systems[sys2]
	require.True(t, ok)
	require.Equal(t, VisibilityCached, sv.Visibility)
	require.Equal(t, 3, sv.SnapshotTurn)
}

func TestVisualIntelExcludesOwnFleetAndHidesTech(t *testing.T) {
	s, sys1, _ := seedTwoHouses(t)

	sh := &model.Ship{ID: 1, Class: model.ShipDestroyer, Owner: 1, Squadron: 1, Hull: model.HullUndamaged}
	s.CreateShip(sh)
	sq := &model.Squadron{ID: 1, Owner: 1, Flagship: 1, Bucket: model.BucketCapital, Hull: model.HullUndamaged}
	s.CreateSquadron(sq)
	ownFleet := model.NewFleet(1, 1, sys1)
	ownFleet.Squadrons = []model.SquadronID{1}
	s.CreateFleet(ownFleet)

	sh2 := &model.Ship{ID: 2, Class: model.ShipCruiser, Owner: 2, Squadron: 2, Hull: model.HullUndamaged}
	s.CreateShip(sh2)
	sq2 := &model.Squadron{ID: 2, Owner: 2, Flagship: 2, Bucket: model.BucketCapital, Hull: model.HullUndamaged}
	s.CreateSquadron(sq2)
	foreignFleet := model.NewFleet(2, 2, sys1)
	foreignFleet.Squadrons = []model.SquadronID{2}
	s.CreateFleet(foreignFleet)

	view := Project(s, 1, 1)
	sv := view.Systems[sys1]
	require.Len(t, sv.ForeignIntel, 1)
	entry := sv.ForeignIntel[0]
	require.Equal(t, model.IntelVisual, entry.Quality)
	require.Equal(t, uint32(2), entry.SubjectID)
	_, hasTech := entry.Fields["tech"]
	require.False(t, hasTech)
}

func TestCapturePreCombatIntelWritesPerfectReportsForBothSides(t *testing.T) {
	s, sys1, _ := seedTwoHouses(t)
	h1, _ := s.House(1)
	h2, _ := s.House(2)

	sh := &model.Ship{ID: 1, Class: model.ShipDestroyer, Owner: 2, Squadron: 1, Hull: model.HullUndamaged}
	s.CreateShip(sh)
	sq := &model.Squadron{ID: 1, Owner: 2, Flagship: 1, Bucket: model.BucketCapital, Hull: model.HullUndamaged}
	s.CreateSquadron(sq)
	invader := model.NewFleet(1, 2, sys1)
	invader.Squadrons = []model.SquadronID{1}
	s.CreateFleet(invader)

	CapturePreCombatIntel(s, 7)

	_, h1HasColony := h1.IntelDB[model.IntelKey(model.SubjectColony, 1)]
	require.False(t, h1HasColony, "observer should not capture its own colony as intel")

	_, h1HasFleet := h1.IntelDB[model.IntelKey(model.SubjectFleet, 1)]
	require.True(t, h1HasFleet)

	colonyReport, h2HasColony := h2.IntelDB[model.IntelKey(model.SubjectColony, 1)]
	require.True(t, h2HasColony)
	require.Equal(t, model.IntelPerfect, colonyReport.Quality)
	require.Equal(t, 7, colonyReport.SnapshotTurn)
}

func TestDiffReportsChangedSystemWithoutRemovals(t *testing.T) {
	s, sys1, _ := seedTwoHouses(t)
	prev := Project(s, 1, 1)

	s.UpdateColony(1, func(c *model.Colony) { c.ShieldLevel = 3 })
	cur := Project(s, 1, 2)

	d := Diff(prev, cur)
	_, changed := d.Changed[sys1]
	require.True(t, changed)
	require.Empty(t, d.Removed)
}

func TestDiffReportsRemovedSystemWhenFleetLeaves(t *testing.T) {
	s, sys1, sys2 := seedTwoHouses(t)
	sh := &model.Ship{ID: 1, Class: model.ShipScout, Owner: 1, Squadron: 1, Hull: model.HullUndamaged}
	s.CreateShip(sh)
	sq := &model.Squadron{ID: 1, Owner: 1, Flagship: 1, Bucket: model.BucketEscort, Hull: model.HullUndamaged}
	s.CreateSquadron(sq)
	f := model.NewFleet(1, 1, sys2)
	f.Squadrons = []model.SquadronID{1}
	s.CreateFleet(f)

	prev := Project(s, 1, 1)
	require.Contains(t, prev.Systems, sys2)

	s.UpdateFleet(1, func(fl *model.Fleet) { fl.System = sys1 })
	cur := Project(s, 1, 2)

	d := Diff(prev, cur)
	require.Contains(t, d.Removed, sys2)
}
