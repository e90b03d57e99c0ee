package store

import "ec4x/internal/model"

// CreateConstructionProject inserts a new construction project.
func (s *GameState) CreateConstructionProject(p *model.ConstructionProject) {
	s.cprojects[p.ID] = p
}

// ConstructionProject looks up a construction project by id.
func (s *GameState) ConstructionProject(id model.ConstructionProjectID) (*model.ConstructionProject, bool) {
	p, ok := s.cprojects[id]
	return p, ok
}

// DestroyConstructionProject removes a construction project (on
// completion, cancellation, or host-facility destruction).
func (s *GameState) DestroyConstructionProject(id model.ConstructionProjectID) {
	delete(s.cprojects, id)
}

// ConstructionProjectsOf resolves a colony's queue of construction
// project ids into pointers, in queue order.
func (s *GameState) ConstructionProjectsOf(ids []model.ConstructionProjectID) []*model.ConstructionProject {
	out := make([]*model.ConstructionProject, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.cprojects[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// CreateRepairProject inserts a new repair project.
func (s *GameState) CreateRepairProject(p *model.RepairProject) {
	s.rprojects[p.ID] = p
}

// RepairProject looks up a repair project by id.
func (s *GameState) RepairProject(id model.RepairProjectID) (*model.RepairProject, bool) {
	p, ok := s.rprojects[id]
	return p, ok
}

// DestroyRepairProject removes a repair project.
func (s *GameState) DestroyRepairProject(id model.RepairProjectID) {
	delete(s.rprojects, id)
}

// RepairProjectsOf resolves a colony's repair queue ids into pointers.
func (s *GameState) RepairProjectsOf(ids []model.RepairProjectID) []*model.RepairProject {
	out := make([]*model.RepairProject, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.rprojects[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
