package starmap

import (
	"container/heap"

	"ec4x/internal/model"
)

// SystemLookup is the subset of the entity store the pathfinder needs;
// satisfied by *store.GameState without starmap importing store (which
// would create an import cycle, since store holds no spatial logic of
// its own and never needs to import starmap back).
type SystemLookup interface {
	System(id model.SystemID) (*model.System, bool)
	ColonyBySystem(sys model.SystemID) (*model.Colony, bool)
}

// FleetComposition summarizes the subset of a fleet's ships that gate
// lane traversal, per spec.md §4.2.
type FleetComposition struct {
	HasCrippled      bool
	HasETACOrTransport bool
}

func (fc FleetComposition) allows(class model.LaneClass) bool {
	switch class {
	case model.LaneMajor:
		return true
	case model.LaneMinor:
		return !fc.HasCrippled
	case model.LaneRestricted:
		return !fc.HasCrippled && !fc.HasETACOrTransport
	default:
		return false
	}
}

// FindPath runs an A* search (every traversable lane costs 1, with hex
// distance as the heuristic) from `from` to `to`, filtered by the fleet's composition. Returns the
// path including both endpoints, or model.ErrNoPath if none exists.
func FindPath(store SystemLookup, from, to model.SystemID, fc FleetComposition) ([]model.SystemID, error) {
	if from == to {
		return []model.SystemID{from}, nil
	}

	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &pqItem{value: from, priority: 0})

	cameFrom := map[model.SystemID]model.SystemID{}
	costSoFar := map[model.SystemID]int{from: 0}

	toSys, ok := store.System(to)
	if !ok {
		return nil, model.ErrNoPath
	}

	for pq.Len() > 0 {
		current := heap.Pop(pq).(*pqItem).value
		if current == to {
			return reconstruct(cameFrom, from, to), nil
		}
		sys, ok := store.System(current)
		if !ok {
			continue
		}
		for _, lane := range sys.Lanes {
			if !fc.allows(lane.Class) {
				continue
			}
			next := lane.Other(current)
			newCost := costSoFar[current] + 1
			if c, seen := costSoFar[next]; seen && c <= newCost {
				continue
			}
			costSoFar[next] = newCost
			cameFrom[next] = current
			nextSys, ok := store.System(next)
			heuristic := 0
			if ok {
				heuristic = nextSys.Coord.Distance(toSys.Coord)
			}
			heap.Push(pq, &pqItem{value: next, priority: newCost + heuristic})
		}
	}
	return nil, model.ErrNoPath
}

func reconstruct(cameFrom map[model.SystemID]model.SystemID, from, to model.SystemID) []model.SystemID {
	path := []model.SystemID{to}
	cur := to
	for cur != from {
		cur = cameFrom[cur]
		path = append(path, cur)
	}
	// reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// JumpAllowance computes how many hops a fleet may take this turn,
// per spec.md §4.2: 2 jumps only if the next two hops are both Major
// lanes through systems the fleet's owner controls; otherwise 1 jump,
// and always at least 1 jump into unexplored or foreign territory
// regardless of lane class.
func JumpAllowance(store SystemLookup, path []model.SystemID, owner model.HouseID) int {
	if len(path) < 3 {
		return 1
	}
	first, ok1 := store.System(path[1])
	second, ok2 := store.System(path[2])
	if !ok1 || !ok2 {
		return 1
	}
	firstLane, ok := laneBetween(first, path[0])
	if !ok || firstLane.Class != model.LaneMajor {
		return 1
	}
	secondLane, ok := laneBetween(second, path[1])
	if !ok || secondLane.Class != model.LaneMajor {
		return 1
	}
	for _, sid := range path[0:3] {
		col, ok := store.ColonyBySystem(sid)
		if !ok || col.Owner != owner {
			return 1
		}
	}
	return 2
}

func laneBetween(sys *model.System, other model.SystemID) (model.Lane, bool) {
	for _, l := range sys.Lanes {
		if l.Other(sys.ID) == other {
			return l, true
		}
	}
	return model.Lane{}, false
}

// --- priority queue (container/heap), grounded on the standard-library
// heap example; no example repo in the pack pulls a third-party
// priority-queue package, and container/heap is the idiomatic choice
// for a one-off A* open set. ---

type pqItem struct {
	value    model.SystemID
	priority int
	index    int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].priority < pq[j].priority
}
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}
func (pq *priorityQueue) Push(x interface{}) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}
