package rngstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubIsDeterministicAcrossInstances(t *testing.T) {
	a := New(42)
	a.BeginTurn(7)
	b := New(42)
	b.BeginTurn(7)

	require.Equal(t, a.Sub("combat:1:1").Int63(), b.Sub("combat:1:1").Int63())
}

func TestSubDivergesByEventTag(t *testing.T) {
	s := New(42)
	s.BeginTurn(7)

	x := s.Sub("combat:1:1").Int63()
	y := s.Peek("combat:1:2").Int63()
	require.NotEqual(t, x, y)
}

func TestSubDivergesByTurn(t *testing.T) {
	s := New(42)
	s.BeginTurn(1)
	first := s.Sub("espionage:5").Int63()

	s.BeginTurn(2)
	second := s.Sub("espionage:5").Int63()

	require.NotEqual(t, first, second)
}

func TestSubPanicsOnReentry(t *testing.T) {
	s := New(1)
	s.BeginTurn(1)
	s.Sub("a")
	require.Panics(t, func() { s.Sub("a") })
}

func TestBeginTurnResetsReentryGuard(t *testing.T) {
	s := New(1)
	s.BeginTurn(1)
	s.Sub("a")
	s.BeginTurn(2)
	require.NotPanics(t, func() { s.Sub("a") })
}
