package nav

import "github.com/jakecoffman/cp"

// Navigator ties the shared immutable graph, one agent's path cache, and
// the motion translator into a per-tick update. Each agent owns its own
// Navigator and calls it only from its own tick; the graph outlives every
// navigator by construction order.
type Navigator struct {
	graph    *Graph
	cfg      Config
	cache    pathCache
	onRepath func()
}

func NewNavigator(graph *Graph, cfg Config) *Navigator {
	return &Navigator{graph: graph, cfg: cfg}
}

// OnRepath registers a hook invoked every time a fresh search runs.
func (n *Navigator) OnRepath(fn func()) {
	n.onRepath = fn
}

// SetConfig swaps tick-time tunables. Graph-affecting fields are ignored
// here; they only matter to Build.
func (n *Navigator) SetConfig(cfg Config) {
	n.cfg = cfg
}

func (n *Navigator) Config() Config {
	return n.cfg
}

// Path exposes the cached path for debug consumers.
func (n *Navigator) Path() Path {
	return n.cache.path
}

// PathIndex returns the agent's progress index into the cached path.
func (n *Navigator) PathIndex() int {
	return n.cache.index
}

// Update runs one navigation tick: reuse or recompute the path for the
// given goal, translate the active segment into steering, then advance
// progress. ok is false while no route to the goal exists; the caller may
// hold position and retry on a later tick.
func (n *Navigator) Update(agent AgentState, goal cp.Vector) (Steering, bool) {
	if n.cache.needsRepath(agent.Position, goal, n.cfg) {
		if n.onRepath != nil {
			n.onRepath()
		}
		path, ok := n.graph.FindPath(agent.Position, goal, n.cfg)
		if !ok {
			path = nil
		}
		n.cache.store(path, goal)
	}

	if len(n.cache.path) == 0 {
		return Steering{}, false
	}

	steering := MoveInputs(n.graph, n.cache.path, n.cache.index, agent, n.cfg)
	n.cache.advance(agent.Position, n.cfg)
	return steering, true
}
