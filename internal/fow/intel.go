package fow

import (
	"sort"

	"ec4x/internal/model"
	"ec4x/internal/store"
)

// visualIntel builds a live Visual IntelReport for every foreign
// fleet co-located with one of house H's own fleets in `sys`, per
// §4.12: composition and orders only, no tech, no hull damage, no
// cargo contents. Unlike Spy/Perfect intel this is never persisted --
// it only exists while the foreign fleet is actually present.
func visualIntel(s *store.GameState, h model.HouseID, sys model.SystemID) []IntelEntry {
	var out []IntelEntry
	for _, f := range s.FleetsInSystem(sys) {
		if f.Owner == h {
			continue
		}
		fields := map[string]interface{}{
			"squadronCount": len(f.Squadrons),
			"standing":      f.Standing,
		}
		if f.StandingOrder != nil {
			fields["orderType"] = f.StandingOrder.Type
		}
		out = append(out, IntelEntry{
			Subject: model.SubjectFleet, SubjectID: uint32(f.ID),
			Quality: model.IntelVisual, SnapshotTurn: 0, Fields: fields,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubjectID < out[j].SubjectID })
	return out
}

// cachedSystemIntel returns the IntelReport house `house` holds under
// the system key for `sys`, if any, translated into an IntelEntry with
// Corruption-masked fields suppressed. Reports keyed by the colony or
// starbase in that system are not consulted.
func cachedSystemIntel(house *model.House, sys model.SystemID) (IntelEntry, bool) {
	if report, ok := house.IntelDB[model.IntelKey(model.SubjectSystem, uint32(sys))]; ok {
		return fromReport(report), true
	}
	return IntelEntry{}, false
}

func fromReport(r *model.IntelReport) IntelEntry {
	fields := make(map[string]interface{}, len(r.Payload))
	for k, v := range r.Payload {
		if fieldSuppressed(r.Corruption, k) {
			continue
		}
		fields[k] = v
	}
	return IntelEntry{
		Subject: r.Subject, SubjectID: r.SubjectID,
		Quality: r.Quality, SnapshotTurn: r.SnapshotTurn, Fields: fields,
	}
}

func fieldSuppressed(mask model.CorruptionMask, field string) bool {
	switch field {
	case "population":
		return mask&model.CorruptPopulation != 0
	case "iu":
		return mask&model.CorruptIU != 0
	case "tech":
		return mask&model.CorruptTech != 0
	case "shield":
		return mask&model.CorruptShield != 0
	case "garrison":
		return mask&model.CorruptGarrison != 0
	case "orders":
		return mask&model.CorruptOrders != 0
	default:
		return false
	}
}

// CapturePreCombatIntel writes a Perfect-quality IntelReport into
// every combatant house's IntelDB for every opposing house's colony
// and fleets present in a contested system, taken immediately before
// combat resolves -- per §4.12's "pre-combat intel -> Perfect
// IntelReport for combatants". Called by the orchestrator at the start
// of the Conflict Phase, ahead of combat.Resolve, since combat itself
// mutates the very state this snapshot needs to capture faithfully.
func CapturePreCombatIntel(s *store.GameState, turn int) {
	for _, sys := range s.AllSystems() {
		houses := housesPresentIn(s, sys.ID)
		if len(houses) < 2 {
			continue
		}
		for _, observer := range houses {
			obsHouse, ok := s.House(observer)
			if !ok {
				continue
			}
			for _, subject := range houses {
				if subject == observer {
					continue
				}
				capturePerfectColony(s, obsHouse, subject, sys.ID, turn)
				capturePerfectFleets(s, obsHouse, subject, sys.ID, turn)
			}
		}
	}
}

func housesPresentIn(s *store.GameState, sys model.SystemID) []model.HouseID {
	seen := map[model.HouseID]bool{}
	for _, f := range s.FleetsInSystem(sys) {
		seen[f.Owner] = true
	}
	if c, ok := s.ColonyBySystem(sys); ok {
		seen[c.Owner] = true
	}
	out := make([]model.HouseID, 0, len(seen))
	for h := range seen {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func capturePerfectColony(s *store.GameState, observer *model.House, subject model.HouseID, sys model.SystemID, turn int) {
	c, ok := s.ColonyBySystem(sys)
	if !ok || c.Owner != subject {
		return
	}
	report := &model.IntelReport{
		Subject: model.SubjectColony, SubjectID: uint32(c.ID),
		Quality: model.IntelPerfect, SnapshotTurn: turn,
		Payload: map[string]interface{}{
			"population":  c.PopulationSouls,
			"iu":          c.IU.String(),
			"shield":      c.ShieldLevel,
			"garrison":    len(c.Armies) + len(c.Marines) + len(c.GroundBatteries),
			"starbases":   len(c.Starbases),
			"planetClass": c.PlanetClass,
		},
	}
	observer.IntelDB[model.IntelKey(model.SubjectColony, uint32(c.ID))] = report
}

func capturePerfectFleets(s *store.GameState, observer *model.House, subject model.HouseID, sys model.SystemID, turn int) {
	for _, f := range s.FleetsInSystem(sys) {
		if f.Owner != subject {
			continue
		}
		report := &model.IntelReport{
			Subject: model.SubjectFleet, SubjectID: uint32(f.ID),
			Quality: model.IntelPerfect, SnapshotTurn: turn,
			Payload: map[string]interface{}{
				"squadronCount": len(f.Squadrons),
				"tech":          fleetTechSummary(s, f),
			},
		}
		observer.IntelDB[model.IntelKey(model.SubjectFleet, uint32(f.ID))] = report
	}
}

func fleetTechSummary(s *store.GameState, f *model.Fleet) []string {
	var classes []string
	for _, sqID := range f.Squadrons {
		sq, ok := s.Squadron(sqID)
		if !ok {
			continue
		}
		for _, shID := range sq.Members() {
			if sh, ok := s.Ship(shID); ok {
				classes = append(classes, string(sh.Class))
			}
		}
	}
	return classes
}
