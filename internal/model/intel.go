package model

import "strconv"

// CorruptionMask :
// A per-field bitmask marking which fields of an IntelReport are
// suppressed or fuzzed, e.g. under a live PlantDisinformation effect
// (§6 "Intel contracts", §4.9).
type CorruptionMask uint32

// Recognized corruption bits. Additional domain fields can claim
// higher bits without breaking existing reports.
const (
	CorruptPopulation CorruptionMask = 1 << iota
	CorruptIU
	CorruptTech
	CorruptShield
	CorruptGarrison
	CorruptOrders
)

// IntelReport :
// A snapshot of a colony, system, starbase or fleet as known by the
// house that gathered it. `SnapshotTurn` lets the projector render
// staleness for intel that hasn't been refreshed recently.
type IntelReport struct {
	Subject     IntelSubjectKind
	SubjectID   uint32
	Quality     IntelQuality
	SnapshotTurn int
	Corruption  CorruptionMask

	// Payload is a loosely-typed snapshot of the subject's visible
	// fields at capture time; the projector (internal/fow) is the only
	// reader that interprets it, applying Corruption bits to suppress
	// or fuzz individual keys.
	Payload map[string]interface{}
}

// IntelKey builds the stable key used to index a house's IntelDB by
// subject, so a fresher snapshot of the same subject replaces the
// older one rather than accumulating duplicates.
func IntelKey(kind IntelSubjectKind, id uint32) string {
	n := strconv.FormatUint(uint64(id), 10)
	switch kind {
	case SubjectColony:
		return "colony:" + n
	case SubjectSystem:
		return "system:" + n
	case SubjectStarbase:
		return "starbase:" + n
	case SubjectFleet:
		return "fleet:" + n
	default:
		return "unknown:" + n
	}
}
