package combat

import (
	"ec4x/internal/model"
	"ec4x/internal/store"
)

// Unit is one combat-participating squadron, carrying the derived
// values the round loop needs so it never has to re-walk the store
// mid-combat.
type Unit struct {
	Squadron *model.Squadron
	Owner    model.HouseID
	Bucket   model.SquadronBucket
	AS       int
	DS       int
	Screened bool // Mothball/Spacelift: present, takes no action, destroyed if TF defeated.
	IsFighter bool
	IsRaider  bool
	CR        int
}

// TaskForce groups one house's eligible units for one theater.
type TaskForce struct {
	House model.HouseID
	Units []*Unit

	// ROE is the retreat threshold (0..10) governing this TF's
	// between-round retreat evaluation.
	ROE int
	// HomeworldDefender and ColonyFighters mark the two unit classes
	// that never retreat regardless of ROE (§4.8).
	HomeworldDefender bool
	ColonyFighters    bool
}

// TotalAS sums the attack strength of every non-screened unit still
// combat-capable.
func (tf *TaskForce) TotalAS() int {
	total := 0
	for _, u := range tf.Units {
		if u.Screened || u.Squadron.Hull == model.HullDestroyed {
			continue
		}
		total += u.AS
	}
	return total
}

// Alive reports whether the task force still has any undestroyed unit.
func (tf *TaskForce) Alive() bool {
	for _, u := range tf.Units {
		if u.Squadron.Hull != model.HullDestroyed {
			return true
		}
	}
	return false
}

// StatsOf resolves a squadron's effective combat stats (AS/DS summed
// across flagship + escorts, halved for Crippled hulls) using the
// config ship table.
type StatsOf interface {
	SquadronAS(s *store.GameState, sq *model.Squadron) int
	SquadronDS(s *store.GameState, sq *model.Squadron) int
}

// FormSpaceTaskForce builds the Space-theater TF for a house in a
// system: mobile fleets only, excluding Guard/Reserve/Mothball/
// Starbase combatants (§4.8).
func FormSpaceTaskForce(s *store.GameState, stats StatsOf, house model.HouseID, sys model.SystemID) *TaskForce {
	tf := &TaskForce{House: house}
	for _, f := range s.FleetsInSystem(sys) {
		if f.Owner != house {
			continue
		}
		if f.Standing != model.StandingNone {
			continue
		}
		for _, sq := range s.SquadronsOf(f) {
			tf.Units = append(tf.Units, unitFrom(s, stats, sq))
		}
	}
	return tf
}

// FormOrbitalTaskForce builds the Orbital-theater TF: Guard fleets,
// Reserve (half AS/DS), unassigned squadrons, Starbases; Mothballed and
// Spacelift fleets are screened.
func FormOrbitalTaskForce(s *store.GameState, stats StatsOf, house model.HouseID, sys model.SystemID, colony *model.Colony) *TaskForce {
	tf := &TaskForce{House: house}
	for _, f := range s.FleetsInSystem(sys) {
		if f.Owner != house {
			continue
		}
		switch f.Standing {
		case model.StandingGuardStarbase, model.StandingGuardColony:
			for _, sq := range s.SquadronsOf(f) {
				tf.Units = append(tf.Units, unitFrom(s, stats, sq))
			}
		case model.StandingReserve:
			for _, sq := range s.SquadronsOf(f) {
				u := unitFrom(s, stats, sq)
				u.AS /= 2
				u.DS /= 2
				tf.Units = append(tf.Units, u)
			}
		case model.StandingMothball, model.StandingSpacelift:
			for _, sq := range s.SquadronsOf(f) {
				u := unitFrom(s, stats, sq)
				u.Screened = true
				tf.Units = append(tf.Units, u)
			}
		}
	}
	if colony != nil && colony.Owner == house {
		for _, sqID := range colony.UnassignedSquadrons {
			if sq, ok := s.Squadron(sqID); ok {
				tf.Units = append(tf.Units, unitFrom(s, stats, sq))
			}
		}
		for _, id := range colony.Starbases {
			if fac, ok := s.Starbase(id); ok && fac.IsOperational() {
				tf.Units = append(tf.Units, starbaseUnit(fac))
			}
		}
	}
	return tf
}

func unitFrom(s *store.GameState, stats StatsOf, sq *model.Squadron) *Unit {
	u := &Unit{
		Squadron: sq, Owner: sq.Owner, Bucket: sq.Bucket, CR: sq.CommandRating,
		AS: stats.SquadronAS(s, sq), DS: stats.SquadronDS(s, sq),
	}
	if sh, ok := s.Ship(sq.Flagship); ok {
		u.IsFighter = sh.Class == model.ShipFighter
		u.IsRaider = sh.Class == model.ShipRaider
	}
	return u
}

// starbaseUnit wraps a Starbase facility as a pseudo-squadron unit for
// the orbital theater; starbases never leave the bucket Starbase and
// are never screened.
func starbaseUnit(f *model.Facility) *Unit {
	sq := &model.Squadron{Bucket: model.BucketStarbase, Hull: f.Hull}
	as, ds := f.AS, f.DS
	if f.Hull == model.HullCrippled {
		as, ds = as/2, ds/2
	}
	return &Unit{Squadron: sq, Bucket: model.BucketStarbase, AS: as, DS: ds}
}
