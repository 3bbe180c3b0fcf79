package nav

import (
	"math"

	"github.com/jakecoffman/cp"
)

// launchVelocity returns the minimum-effort launch velocity that carries a
// body across delta under constant downward gravity, plus the time of
// flight. Steering uses the same solve as jump classification so a
// connection classified jumpable is always executable.
func launchVelocity(delta cp.Vector, gravity float64) (cp.Vector, float64) {
	accel := cp.Vector{Y: -gravity}
	accelSq := accel.LengthSq()
	if accelSq == 0 {
		return cp.Vector{}, 0
	}

	t := math.Sqrt(math.Sqrt(4 * delta.LengthSq() / accelSq))
	if t == 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return cp.Vector{}, 0
	}

	return delta.Mult(1 / t).Sub(accel.Mult(t / 2)), t
}

// jumpabilityCheck reports whether src can jump to dst and, if so, the
// launch speed required. The arc is sampled in TrajectorySteps segments and
// each segment is swept with the agent radius against level geometry.
func (b *builder) jumpabilityCheck(src, dst *Node) (float64, bool) {
	delta := dst.Position.Sub(src.Position)
	if delta.LengthSq() == 0 {
		return 0, false
	}

	accel := cp.Vector{Y: -b.cfg.Gravity}

	// Reachability under the max launch speed.
	b1 := delta.Dot(accel) + b.cfg.JumpForce*b.cfg.JumpForce
	discriminant := b1*b1 - accel.Dot(accel)*delta.Dot(delta)
	if discriminant < 0 {
		return 0, false
	}

	velocity, flightTime := launchVelocity(delta, b.cfg.Gravity)
	if flightTime == 0 {
		return 0, false
	}

	timestep := flightTime / float64(b.cfg.TrajectorySteps)
	prev := src.Position
	for i := 1; i <= b.cfg.TrajectorySteps; i++ {
		t := timestep * float64(i)
		pos := src.Position.Add(velocity.Mult(t)).Add(accel.Mult(t * t / 2))

		if b.sweptBlocked(prev, pos, src, dst) {
			return 0, false
		}
		prev = pos
	}

	return velocity.Length(), true
}

// droppabilityCheck reports whether src can free-fall to dst, picking up
// only the horizontal velocity needed to cover the offset.
func (b *builder) droppabilityCheck(src, dst *Node) bool {
	deltaY := src.Position.Y - dst.Position.Y
	if deltaY <= 0 || b.cfg.Gravity <= 0 {
		return false
	}

	fallTime := math.Sqrt(2 * deltaY / b.cfg.Gravity)
	if fallTime == 0 || math.IsNaN(fallTime) {
		return false
	}

	velocity := cp.Vector{X: (dst.Position.X - src.Position.X) / fallTime}
	accel := cp.Vector{Y: -b.cfg.Gravity}

	timestep := fallTime / float64(b.cfg.TrajectorySteps)
	prev := src.Position
	for i := 1; i <= b.cfg.TrajectorySteps; i++ {
		t := timestep * float64(i)
		pos := src.Position.Add(velocity.Mult(t)).Add(accel.Mult(t * t / 2))

		// Past the landing height; remaining samples would probe inside
		// the target surface.
		if pos.Y < dst.Position.Y {
			break
		}

		if b.sweptBlocked(prev, pos, src, dst) {
			return false
		}
		prev = pos
	}

	return true
}

// sweptBlocked tests a sampled trajectory segment, offset by the agent
// radius on both sides perpendicular to motion, against level geometry not
// owned by either endpoint node.
func (b *builder) sweptBlocked(prev, pos cp.Vector, src, dst *Node) bool {
	dir := pos.Sub(prev)
	if dir.LengthSq() == 0 {
		return false
	}

	offset := dir.Normalize().Perp().Mult(b.radius)
	skip := func(polygon, edge int) bool {
		return src.ownsEdge(polygon, edge) || dst.ownsEdge(polygon, edge)
	}

	return b.lvl.BlockedSegment(prev.Add(offset), pos.Add(offset), skip) ||
		b.lvl.BlockedSegment(prev.Sub(offset), pos.Sub(offset), skip)
}
