package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDGeneratorNeverReuses(t *testing.T) {
	gen := NewIDGenerator(0)
	seen := map[uint32]bool{}
	for i := 0; i < 10; i++ {
		id := gen.Next()
		require.False(t, seen[id], "id %d minted twice", id)
		seen[id] = true
		require.NotZero(t, id, "zero id is reserved for unset")
	}
}

func TestIDGeneratorResumesAfterHighWaterMark(t *testing.T) {
	gen := NewIDGenerator(41)
	require.Equal(t, uint32(42), gen.Next())
}

func TestHouseRollingTaxAverage(t *testing.T) {
	h := NewHouse(1, "Atreides")
	for _, r := range []int{10, 20, 30, 40, 50, 60} {
		h.PushTaxHistory(r)
	}
	require.Equal(t, 35, h.RollingTaxAverage(6))
	require.Equal(t, 55, h.RollingTaxAverage(2))
}

func TestHouseRelationDefaultsNeutral(t *testing.T) {
	h := NewHouse(1, "Atreides")
	require.Equal(t, PostureNeutral, h.RelationWith(2))
	h.Diplomacy[2] = PostureEnemy
	require.Equal(t, PostureEnemy, h.RelationWith(2))
}

func TestAxialDistance(t *testing.T) {
	a := AxialCoord{Q: 0, R: 0}
	b := AxialCoord{Q: 3, R: -1}
	require.Equal(t, 3, a.Distance(b))
}

func TestIntelKeyStableAcrossSubjects(t *testing.T) {
	require.Equal(t, "colony:7", IntelKey(SubjectColony, 7))
	require.Equal(t, "fleet:7", IntelKey(SubjectFleet, 7))
	require.NotEqual(t, IntelKey(SubjectColony, 7), IntelKey(SubjectFleet, 7))
}

func TestEspionageActionIsScoutMission(t *testing.T) {
	require.True(t, ActionSpyColony.IsScoutMission())
	require.False(t, ActionSabotageHigh.IsScoutMission())
}
