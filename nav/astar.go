package nav

import (
	"container/heap"
	"math"

	"github.com/jakecoffman/cp"
)

// FindPath searches for the cheapest route between two world positions.
// The endpoints are resolved to their nearest graph nodes first; the
// returned path always ends on the resolved goal node. It returns false
// when the graph is empty or no connected route exists.
//
// The cost of a hop is dist + EffortWeight*effort, so jumping costs more
// than walking the same distance and drops cost less than equivalent
// jumps. The heuristic weights climbs heavier than descents; that trades
// strict admissibility for paths shaped like platformer movement and is
// intentional.
func (g *Graph) FindPath(start, goal cp.Vector, cfg Config) (Path, bool) {
	goalID, ok := g.nearestNode(goal, start)
	if !ok {
		return nil, false
	}
	startID, _ := g.nearestNode(start, goal)

	if startID == goalID {
		return Path{{ID: goalID, Position: g.Nodes[goalID].Position}}, true
	}

	goalPos := g.Nodes[goalID].Position

	open := &frontier{}
	heap.Init(open)
	closed := make(map[int]struct{}, len(g.Nodes))
	parent := make(map[int]int, len(g.Nodes))
	bestG := make(map[int]float64, len(g.Nodes))

	h0 := heuristic(g.Nodes[startID].Position, goalPos, cfg)
	bestG[startID] = 0
	heap.Push(open, &frontierItem{id: startID, parent: -1, h: h0, f: h0})

	for open.Len() > 0 {
		current := heap.Pop(open).(*frontierItem)
		if _, seen := closed[current.id]; seen {
			continue
		}
		closed[current.id] = struct{}{}
		if current.parent >= 0 {
			parent[current.id] = current.parent
		}

		if current.id == goalID {
			return g.reconstruct(parent, startID, goalID), true
		}

		node := &g.Nodes[current.id]
		for _, conns := range [3][]Connection{node.Walkable, node.Jumpable, node.Droppable} {
			for _, conn := range conns {
				if _, seen := closed[conn.NodeID]; seen {
					continue
				}

				tentative := current.g + conn.Dist + cfg.EffortWeight*conn.Effort
				if prev, seen := bestG[conn.NodeID]; seen && tentative >= prev {
					continue
				}
				bestG[conn.NodeID] = tentative

				h := heuristic(g.Nodes[conn.NodeID].Position, goalPos, cfg)
				heap.Push(open, &frontierItem{
					id:     conn.NodeID,
					parent: current.id,
					g:      tentative,
					h:      h,
					f:      tentative + h,
				})
			}
		}
	}

	return nil, false
}

// nearestNode resolves a world position to its closest node, searching the
// 3x3 spatial cells around the position and falling back to a full scan
// when those cells are empty. Exact distance ties prefer the candidate
// closer to the other endpoint of the query.
func (g *Graph) nearestNode(pos, toward cp.Vector) (int, bool) {
	if len(g.Nodes) == 0 {
		return 0, false
	}

	best := -1
	bestDist := math.Inf(1)
	consider := func(i int) {
		d := pos.DistanceSq(g.Nodes[i].Position)
		if d > bestDist {
			return
		}
		if d == bestDist && best >= 0 {
			if toward.DistanceSq(g.Nodes[i].Position) >= toward.DistanceSq(g.Nodes[best].Position) {
				return
			}
		}
		bestDist = d
		best = i
	}

	if candidates := g.nearbyNodeIndices(pos); len(candidates) > 0 {
		for _, i := range candidates {
			consider(i)
		}
	} else {
		// Position far outside the indexed bounds; the full scan keeps
		// resolution correct at any coordinate.
		for i := range g.Nodes {
			consider(i)
		}
	}

	return best, best >= 0
}

func (g *Graph) reconstruct(parent map[int]int, startID, goalID int) Path {
	path := Path{{ID: goalID, Position: g.Nodes[goalID].Position}}

	current := goalID
	for current != startID {
		p, ok := parent[current]
		if !ok {
			break
		}
		current = p
		path = append(path, PathNode{ID: current, Position: g.Nodes[current].Position})
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// heuristic estimates remaining cost. Climbs scale the vertical component
// by VerticalHeuristicWeight since they need expensive jumps; descents use
// the plain magnitude because falling is cheap.
func heuristic(from, to cp.Vector, cfg Config) float64 {
	dx := math.Abs(to.X - from.X)
	dy := to.Y - from.Y

	vertical := math.Abs(dy)
	if dy > 0 {
		vertical = dy * cfg.VerticalHeuristicWeight
	}

	return math.Sqrt(dx*dx + vertical*vertical)
}

type frontierItem struct {
	id     int
	parent int
	g      float64
	h      float64
	f      float64
	index  int
}

// frontier orders by f-cost, breaking ties by h-cost then g-cost so equal
// frontiers expand deterministically.
type frontier []*frontierItem

func (o frontier) Len() int { return len(o) }
func (o frontier) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	if o[i].h != o[j].h {
		return o[i].h < o[j].h
	}
	return o[i].g < o[j].g
}
func (o frontier) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *frontier) Push(x any) {
	item := x.(*frontierItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *frontier) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
