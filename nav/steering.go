package nav

import (
	"math"

	"github.com/jakecoffman/cp"
)

// AgentState is the per-tick snapshot the motion translator needs from the
// host physics integrator.
type AgentState struct {
	Position cp.Vector
	Velocity cp.Vector
	// Normal is the contact surface normal, zero while airborne.
	Normal   cp.Vector
	Radius   float64
	Grounded bool
}

// Steering is the movement decision for one tick: a unit steer direction
// and, when the active hop is a jump, the launch velocity with its takeoff
// and landing reference points.
type Steering struct {
	Move     cp.Vector
	Jump     cp.Vector
	JumpFrom cp.Vector
	JumpTo   cp.Vector
	HasJump  bool
}

// strategy selects which local point the agent steers toward. It is
// recomputed from current geometry every call rather than carried as
// state, so it can never desync from the physics integrator.
type strategy int

const (
	strategyNone strategy = iota
	strategyToCurrentOffset
	strategyToNextOffset
	strategyToNextNode
)

// MoveInputs translates the active path segment into a steer direction and
// an optional jump launch. Offset points sit one agent radius along the
// node normal so the agent's center tracks above the surface; corners are
// steered to raw so they don't get shaved.
func MoveInputs(g *Graph, path Path, index int, agent AgentState, cfg Config) Steering {
	var out Steering
	if index < 0 || index >= len(path) || index+1 >= len(path) {
		return out
	}

	current := path[index]
	next := path[index+1]
	currentNode := &g.Nodes[current.ID]
	nextNode := &g.Nodes[next.ID]

	offsetCurrent := current.Position.Add(currentNode.Normal.Mult(agent.Radius))
	offsetNext := next.Position.Add(nextNode.Normal.Mult(agent.Radius))

	onWall := agent.Normal.Y < 0.01
	currentIsCorner := currentNode.ExternalCorner != nil
	falling := agent.Normal.LengthSq() <= 0

	jumpHop := false
	for _, conn := range currentNode.Jumpable {
		if conn.NodeID == next.ID {
			jumpHop = true
			break
		}
	}

	var strat strategy
	switch {
	case falling:
		strat = strategyToNextOffset
	case jumpHop:
		crossed := crossesNodeNextFrame(agent.Position, agent.Velocity, current.Position, onWall)
		stopped := agent.Velocity.LengthSq() < cfg.VelocityEpsilonSq
		if crossed || stopped {
			strat = strategyToNextOffset
		} else {
			strat = strategyToCurrentOffset
		}
	case currentIsCorner:
		strat = strategyToNextNode
	default:
		// Flat surface: steer to whichever offset point is the shorter
		// hop to avoid oscillating around the current node.
		toNext := offsetNext.Sub(agent.Position)
		span := offsetNext.Sub(offsetCurrent)
		if toNext.LengthSq() <= span.LengthSq() {
			strat = strategyToNextOffset
		} else {
			strat = strategyToCurrentOffset
		}
	}

	switch strat {
	case strategyToCurrentOffset:
		out.Move = offsetCurrent.Sub(agent.Position).Normalize()
	case strategyToNextOffset:
		out.Move = offsetNext.Sub(agent.Position).Normalize()
	case strategyToNextNode:
		out.Move = next.Position.Sub(agent.Position).Normalize()
	}

	if jumpHop && (strat == strategyToNextOffset || strat == strategyToNextNode) {
		velocity, flightTime := launchVelocity(next.Position.Sub(current.Position), cfg.Gravity)
		if flightTime > 0 {
			out.Jump = velocity
			out.JumpFrom = offsetCurrent
			out.JumpTo = offsetNext
			out.HasJump = true
		}
	}

	return out
}

// crossesNodeNextFrame reports whether the agent's projected position next
// frame lands on the other side of the node along the crossing axis.
func crossesNodeNextFrame(pos, velocity, node cp.Vector, vertical bool) bool {
	next := pos.Add(velocity)
	if vertical {
		return signum(pos.Y-node.Y) != signum(next.Y-node.Y)
	}
	return signum(pos.X-node.X) != signum(next.X-node.X)
}

func signum(v float64) float64 {
	if math.Signbit(v) {
		return -1
	}
	return 1
}
