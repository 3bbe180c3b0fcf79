package nav

import "github.com/jakecoffman/cp"

// pathCache memoizes the last computed path for one agent along with the
// goal it was computed for and the agent's progress through it. Each agent
// owns exactly one cache and mutates it only from its own tick.
type pathCache struct {
	path     Path
	lastGoal cp.Vector
	hasGoal  bool
	index    int
}

// needsRepath reports whether the cached path can no longer be followed:
// no path, progress past the end, the goal moved too far, or the agent
// strayed from the expected path point. All comparisons use squared
// distances.
func (c *pathCache) needsRepath(pos, goal cp.Vector, cfg Config) bool {
	if len(c.path) == 0 || c.index >= len(c.path) {
		return true
	}
	if !c.hasGoal {
		return true
	}
	if goal.DistanceSq(c.lastGoal) > cfg.GoalChangeThresholdSq {
		return true
	}
	if pos.DistanceSq(c.path[c.index].Position) > cfg.PathDeviationThresholdSq {
		return true
	}
	return false
}

// store replaces the cached path wholesale and resets progress.
func (c *pathCache) store(path Path, goal cp.Vector) {
	c.path = path
	c.lastGoal = goal
	c.hasGoal = true
	c.index = 0
}

// advance walks the progress index past every node the agent has reached.
func (c *pathCache) advance(pos cp.Vector, cfg Config) {
	for c.index < len(c.path) {
		if pos.DistanceSq(c.path[c.index].Position) > cfg.NodeReachedThresholdSq {
			break
		}
		c.index++
	}
}
